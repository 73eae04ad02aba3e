package assembler

import (
	"fmt"
	"strings"

	"stackvm/pkg/color"
	"stackvm/pkg/lexer"
)

// Diagnostic is one problem found while assembling.
type Diagnostic struct {
	Pos     lexer.Position
	Message string
	Source  string // the offending source line
}

// String renders the diagnostic with its source line, coloured when enabled.
func (d Diagnostic) String() string {
	return color.ErrorWithPosition(d.Pos.Line, d.Pos.Column, d.Message, d.Source)
}

// Error collects every diagnostic of a failed assembly.
type Error struct {
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	if len(e.Diagnostics) == 0 {
		return "assembly failed"
	}

	first := e.Diagnostics[0]
	msg := fmt.Sprintf("%s: %s", first.Pos, first.Message)
	if n := len(e.Diagnostics) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}

	return msg
}

// Report renders all diagnostics, one per block.
func (e *Error) Report() string {
	var b strings.Builder
	for _, d := range e.Diagnostics {
		b.WriteString(d.String())
		b.WriteString("\n")
	}

	return b.String()
}

// addError records a diagnostic at pos
func (a *assembler) addError(pos lexer.Position, format string, args ...any) {
	a.errors = append(a.errors, Diagnostic{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Source:  a.lexer.Line(pos.Line),
	})
}
