package console

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseYesNo interprets an answer. ok is false for anything other than
// y, yes, n or no (case-insensitive, surrounding space ignored).
func ParseYesNo(answer string) (yes, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}

// YesNo asks a yes/no question and re-prompts until a recognised answer is
// given.
func (c *Console) YesNo(question string) (bool, error) {
	for {
		answer, err := c.ask(question + " (y/n): ")
		if err != nil {
			return false, err
		}
		if yes, ok := ParseYesNo(answer); ok {
			return yes, nil
		}
		fmt.Fprintln(c.out, "Please answer 'y' or 'n'.")
	}
}

// Confirm asks for explicit approval. Only a yes answer approves; anything
// else, including an unrecognised answer, declines.
func (c *Console) Confirm(question string) (bool, error) {
	answer, err := c.ask(question + " (y/n): ")
	if err != nil {
		return false, err
	}
	yes, _ := ParseYesNo(answer)
	return yes, nil
}

// Text asks for a free-form value and returns it trimmed.
func (c *Console) Text(question string) (string, error) {
	answer, err := c.ask(question + " ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// ask prints the question and reads one line. A final line without a
// newline is accepted; end of input with nothing read is an error.
func (c *Console) ask(question string) (string, error) {
	fmt.Fprint(c.out, question)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading answer: %w", io.ErrUnexpectedEOF)
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return line, nil
}
