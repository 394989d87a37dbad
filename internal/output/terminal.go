package output

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"
)

// Terminal provides terminal-aware output utilities
type Terminal struct {
	IsTerminal bool
	UseColor   bool
}

// NewTerminal inspects w; only an *os.File attached to a terminal gets color
func NewTerminal(w io.Writer) *Terminal {
	isTerminal := false
	if f, ok := w.(*os.File); ok {
		isTerminal = term.IsTerminal(int(f.Fd()))
	}
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal && os.Getenv("NO_COLOR") == "",
	}
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return color + text + ColorReset
}

// BucketColor returns the color used for a priority bucket
func BucketColor(b relevance.PriorityBucket) string {
	switch b {
	case relevance.PriorityHigh:
		return ColorRed
	case relevance.PriorityMedium:
		return ColorYellow
	default:
		return ColorGray
	}
}

// PassColor returns green for a passing gate and gray otherwise
func PassColor(passes bool) string {
	if passes {
		return ColorGreen
	}
	return ColorGray
}
