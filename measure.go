package linefold

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
)

// Measurer reports the display width of a piece of text in a consistent
// unit. Implementations must be pure: the same text always measures the
// same width.
type Measurer interface {
	Width(text string) float64
}

// CellMeasurer measures plain text in terminal cells, wide East Asian
// runes counting double.
type CellMeasurer struct{}

func (CellMeasurer) Width(text string) float64 {
	return float64(runewidth.StringWidth(text))
}

// ANSICellMeasurer measures styled text in terminal cells, skipping ANSI
// escape sequences.
type ANSICellMeasurer struct{}

func (ANSICellMeasurer) Width(text string) float64 {
	return float64(ansi.PrintableRuneWidth(text))
}

// FixedMeasurer assigns a constant width per rune. Useful in tests and
// demos where real glyph metrics do not matter.
type FixedMeasurer struct {
	PerRune float64
}

func (m FixedMeasurer) Width(text string) float64 {
	return m.PerRune * float64(utf8.RuneCountInString(text))
}

// MeasureTokens fills Width and SeparatorWidth on a copy of tokens using
// the measurer. Text and boundaries are untouched.
func MeasureTokens(tokens []Token, m Measurer) []Token {
	out := cloneTokens(tokens)
	for i := range out {
		out[i].Width = m.Width(out[i].Text)
		if out[i].Separator != "" {
			out[i].SeparatorWidth = m.Width(out[i].Separator)
		} else {
			out[i].SeparatorWidth = 0
		}
	}
	return out
}
