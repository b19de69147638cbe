package common

import "os"

const (
	ColorReset       = "\033[0m"
	ColorRed         = "\033[31m"
	ColorGreen       = "\033[32m"
	ColorYellow      = "\033[33m"
	ColorCyan        = "\033[36m"
	ColorGray        = "\033[90m"
	ColorBrightGreen = "\033[92m"
)

var noColor = os.Getenv("NO_COLOR") != ""

// Colorize wraps s in an ANSI color unless NO_COLOR is set.
func Colorize(color, s string) string {
	if noColor {
		return s
	}
	return color + s + ColorReset
}
