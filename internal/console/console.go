// Package console implements the line-based interactive surface: prompts read
// from an input stream and progress lines written to an output stream.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Console reads answers from in and writes progress to out.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	styles styles
}

type styles struct {
	heading lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	hint    lipgloss.Style
	detail  lipgloss.Style
}

// New creates a Console. Styling is only applied when out is a terminal.
func New(in io.Reader, out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
		styles: styles{
			heading: r.NewStyle().Bold(true),
			success: r.NewStyle().Foreground(lipgloss.Color("2")),
			failure: r.NewStyle().Foreground(lipgloss.Color("1")),
			hint:    r.NewStyle().Foreground(lipgloss.Color("3")),
			detail:  r.NewStyle().Faint(true),
		},
	}
}

// Println writes a plain line.
func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes a formatted line; a trailing newline is added.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", a...)
}

// Heading writes a section title.
func (c *Console) Heading(title string) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.styles.heading.Render("=== "+title+" ==="))
}

// Success writes a line marked as succeeded.
func (c *Console) Success(msg string) {
	fmt.Fprintln(c.out, "  "+c.styles.success.Render("OK")+"    "+msg)
}

// Failure writes a line marked as failed.
func (c *Console) Failure(msg string) {
	fmt.Fprintln(c.out, "  "+c.styles.failure.Render("ERROR")+" "+msg)
}

// Detail writes supporting output such as a response body.
func (c *Console) Detail(msg string) {
	for _, line := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		fmt.Fprintln(c.out, "        "+line)
	}
}

// Hint writes a troubleshooting hint.
func (c *Console) Hint(msg string) {
	fmt.Fprintln(c.out, "  "+c.styles.hint.Render("HINT")+"  "+msg)
}
