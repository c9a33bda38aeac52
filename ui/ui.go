package ui

import (
	"encoding/json"
	"io"
)

// Severity is the visual weight of a piece of inline text.
type Severity uint8

const (
	SeverityInfo     Severity = iota // plain
	SeveritySuccess                  // green, known or positive
	SeverityWarn                     // yellow, needs attention
	SeverityError                    // red, unknown or negative
	SeverityCritical                 // bold, review before acting
)

// StyledText pairs a plain string with a Severity. It marshals to json as
// the plain string.
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// UI is all terminal interaction of swapshop commands and workflows.
//
// Production code uses TerminalUI. Tests use RecordingUI, which captures
// every call and serves scripted answers to prompts.
//
// Typical prompt flow:
//
//	u.Info("Receiver of leg 2")
//	val := u.Ask(nil)
//	u.Interpret("BYKW...DMEA (alice.algo)")
type UI interface {
	// Style renders t for embedding in a larger line. Colour free
	// implementations return t.Text.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error reports a failure. It does not exit.
	Error(format string, args ...any)
	// Critical is data the user must review before signing, or proof of a
	// submitted transaction.
	Critical(format string, args ...any)

	// Section writes a separator centred around title.
	Section(title string)
	// KeyValue renders label and value columns with aligned values.
	KeyValue(rows [][2]string)
	// Table renders a bordered table. Headers may be empty.
	Table(headers []string, rows [][]string)
	// Spinner shows msg until the returned stop function is called.
	Spinner(msg string) func()
	// Interpret echoes what was understood from the last input.
	Interpret(value string)

	// Ask reads a line until validate accepts it. nil accepts anything.
	Ask(validate func(string) error) string
	// AskSecret prints prompt and reads a line without echo.
	AskSecret(prompt string) string
	Confirm(prompt string, defaultYes bool) bool
	// Choose returns the 0 based index of the chosen option.
	Choose(prompt string, options []string) int

	// Indent returns a child UI one level deeper sharing input and output.
	Indent() UI
	// Writer prepends the current indentation to every written line.
	Writer() io.Writer
}
