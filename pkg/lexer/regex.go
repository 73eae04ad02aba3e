package lexer

import (
	"regexp"
)

// Token regex patterns
var tokenRegexes = map[TokenType]*regexp.Regexp{
	NEWLINE:   regexp.MustCompile(`^\r?\n`),
	LABEL:     regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_.$]*:`),
	DIRECTIVE: regexp.MustCompile(`^\.[A-Za-z]+`),
	FLOAT:     regexp.MustCompile(`^[+-]?\d+(\.\d+([eE][+-]?\d+)?|[eE][+-]?\d+)`),
	INT:       regexp.MustCompile(`^[+-]?\d+`),
	IDENT:     regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_.$]*`),
	COMMA:     regexp.MustCompile(`^,`),
}

var (
	whitespaceRegex = regexp.MustCompile(`^[ \t]+`)
	commentRegex    = regexp.MustCompile(`^(;|#|//)[^\n]*`)
)

// Token precedence order for matching (longer patterns first)
var tokenPrecedenceOrder = []TokenType{
	NEWLINE, LABEL, DIRECTIVE, FLOAT, INT, IDENT, COMMA,
}

// MatchToken matches the token at the start of s. Whitespace and comments
// match as EOF with a non-empty lexeme so the caller can skip them.
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	} else if match := whitespaceRegex.FindString(s); match != "" {
		return EOF, match, true
	} else if match := commentRegex.FindString(s); match != "" {
		return EOF, match, true
	}

	for _, tokenType := range tokenPrecedenceOrder {
		if match := tokenRegexes[tokenType].FindString(s); match != "" {
			return tokenType, match, true
		}
	}

	return ILLEGAL, string(s[0]), false
}
