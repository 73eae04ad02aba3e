package lexer

import "strings"

type Lexer struct {
	input    string // input string to be tokenized
	length   int    // length of the input string
	position int    // current position in the input string
	line     int    // current line number for error reporting
	column   int    // current column number for error reporting
}

// Create a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:    s,
		length:   len(s),
		position: 0,
		line:     1,
		column:   1,
	}
}

// Get the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		// End of input
		if l.position >= l.length {
			return NewToken(EOF, "", "", l.currentPosition())
		}

		remaining := l.input[l.position:]
		tokenType, lexeme, matched := MatchToken(remaining)

		if !matched {
			pos := l.currentPosition()
			l.advance(1)
			return NewToken(ILLEGAL, lexeme, "", pos)
		}

		// whitespace or comment
		if tokenType == EOF {
			l.advance(len(lexeme))
			continue
		}

		var literal string
		switch tokenType {
		case LABEL:
			literal = strings.TrimSuffix(lexeme, ":")
		case DIRECTIVE:
			literal = lexeme[1:]
		case INT, FLOAT, IDENT:
			literal = lexeme
		}

		tok := NewToken(tokenType, lexeme, literal, l.currentPosition())
		l.advance(len(lexeme))

		return tok
	}
}

// View next token without advancing the position
func (l *Lexer) Peek() Token {
	// save state
	cpos := l.position
	cline := l.line
	ccol := l.column

	token := l.NextToken()

	// restore state
	l.position = cpos
	l.line = cline
	l.column = ccol

	return token
}

// Line returns the source text of the given 1-based line, for diagnostics.
func (l *Lexer) Line(n int) string {
	lines := strings.Split(l.input, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}

	return strings.TrimRight(lines[n-1], "\r")
}

// Advance the lexer position by n characters
func (l *Lexer) advance(n int) {
	for range n {
		if l.position >= l.length {
			break
		}

		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}

		l.position++
	}
}

// Get the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}
