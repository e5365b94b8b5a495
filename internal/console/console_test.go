package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(input string) (*Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(strings.NewReader(input), out), out
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		input   string
		wantYes bool
		wantOK  bool
	}{
		{"y", true, true},
		{"Yes", true, true},
		{"  YES \n", true, true},
		{"n", false, true},
		{"No", false, true},
		{"", false, false},
		{"maybe", false, false},
		{"yep", false, false},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			yes, ok := ParseYesNo(tc.input)
			assert.Equal(t, tc.wantYes, yes)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestYesNo_RepromptsUntilRecognised(t *testing.T) {
	c, out := newTestConsole("maybe\n\ny\n")
	yes, err := c.YesNo("Continue?")
	require.NoError(t, err)
	assert.True(t, yes)
	assert.Equal(t, 3, strings.Count(out.String(), "Continue? (y/n): "))
	assert.Equal(t, 2, strings.Count(out.String(), "Please answer 'y' or 'n'."))
}

func TestYesNo_FinalLineWithoutNewline(t *testing.T) {
	c, _ := newTestConsole("no")
	yes, err := c.YesNo("Continue?")
	require.NoError(t, err)
	assert.False(t, yes)
}

func TestYesNo_EndOfInput(t *testing.T) {
	c, _ := newTestConsole("maybe\n")
	_, err := c.YesNo("Continue?")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestConfirm_UnrecognisedDeclines(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"sure\n", false},
		{"\n", false},
	}
	for _, tc := range tests {
		t.Run(strings.TrimSpace(tc.input), func(t *testing.T) {
			c, out := newTestConsole(tc.input)
			got, err := c.Confirm("Apply?")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, 1, strings.Count(out.String(), "Apply? (y/n): "))
		})
	}
}

func TestText(t *testing.T) {
	c, out := newTestConsole("  12345-abc  \n")
	got, err := c.Text("Enter the form ID:")
	require.NoError(t, err)
	assert.Equal(t, "12345-abc", got)
	assert.Equal(t, "Enter the form ID: ", out.String())
}

func TestOutput_PlainWhenNotATerminal(t *testing.T) {
	c, out := newTestConsole("")
	c.Heading("Summary")
	c.Success("Updated Contact us (f1)")
	c.Failure("Updating form f2 failed: HTTP 403")
	c.Detail("Response body: {\"a\":1}\nsecond line")
	c.Hint("Check the scope.")
	c.Printf("Fetched %d form(s).", 3)
	c.Println("done")

	want := "\n" +
		"=== Summary ===\n" +
		"  OK    Updated Contact us (f1)\n" +
		"  ERROR Updating form f2 failed: HTTP 403\n" +
		"        Response body: {\"a\":1}\n" +
		"        second line\n" +
		"  HINT  Check the scope.\n" +
		"Fetched 3 form(s).\n" +
		"done\n"
	assert.Equal(t, want, out.String())
}
