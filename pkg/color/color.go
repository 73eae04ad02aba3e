package color

import (
	"fmt"

	"github.com/muesli/termenv"
)

// profile starts out as whatever the environment supports (NO_COLOR,
// CLICOLOR_FORCE and TTY detection are honoured by termenv).
var profile = termenv.EnvColorProfile()

// EnableColor forces colour on (256-colour ANSI) or off.
func EnableColor(enable bool) {
	if enable {
		profile = termenv.ANSI256
		return
	}

	profile = termenv.Ascii
}

func IsColorEnabled() bool {
	return profile != termenv.Ascii
}

func Colorize(c termenv.Color, text string) string {
	return profile.String(text).Foreground(c).String()
}

func BrightRedText(text string) string {
	return Colorize(termenv.ANSIBrightRed, text)
}

func GreenText(text string) string {
	return Colorize(termenv.ANSIGreen, text)
}

func YellowText(text string) string {
	return Colorize(termenv.ANSIYellow, text)
}

func BlueText(text string) string {
	return Colorize(termenv.ANSIBlue, text)
}

func CyanText(text string) string {
	return Colorize(termenv.ANSICyan, text)
}

func GrayText(text string) string {
	return Colorize(termenv.ANSIBrightBlack, text)
}

func BoldText(text string) string {
	return profile.String(text).Bold().String()
}

func Position(line, col int) string {
	return CyanText(fmt.Sprintf("%d:%d", line, col))
}

// ErrorWithPosition formats a diagnostic anchored at line:col, followed by
// the offending source line.
func ErrorWithPosition(line, col int, message, context string) string {
	if !IsColorEnabled() {
		return fmt.Sprintf("Error at %d:%d: %s\n%s", line, col, message, context)
	}

	return fmt.Sprintf("%s at %s: %s\n%s",
		BrightRedText(BoldText("Error")),
		Position(line, col),
		message,
		GrayText(context))
}
