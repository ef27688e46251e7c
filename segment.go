package linefold

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// Segment splits text into tokens on UAX #29 word boundaries. Whitespace
// segments fold into the preceding token's Separator, punctuation becomes
// its own token, and byte offsets into text are recorded so the token
// sequence reconstructs the source exactly. Widths are left at zero; run
// the result through MeasureTokens before generating layouts.
func Segment(text string) []Token {
	if text == "" {
		return nil
	}
	var tokens []Token
	iter := words.FromString(text)
	offset := 0
	for iter.Next() {
		seg := iter.Value()
		if isWhitespace(seg) {
			if len(tokens) > 0 {
				tokens[len(tokens)-1].Separator += seg
			}
			offset += len(seg)
			continue
		}
		tokens = append(tokens, Token{
			Text:     seg,
			Boundary: Boundary{Start: offset, End: offset + len(seg)},
		})
		offset += len(seg)
	}
	return tokens
}

func isWhitespace(s string) bool {
	if s == "" {
		return true
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsSpace(r)
	}) == -1
}
