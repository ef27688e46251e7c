package linefold

// BreakDisposition states whether a line break may be placed at the boundary
// following a token.
type BreakDisposition uint8

const (
	// BreakAllow permits a line break after the token. The zero value.
	BreakAllow BreakDisposition = iota
	// BreakAvoid marks the boundary after the token as protected by a
	// locale rule.
	BreakAvoid
)

func (d BreakDisposition) String() string {
	if d == BreakAvoid {
		return "avoid"
	}
	return "allow"
}

// Boundary is the half-open byte range [Start, End) a token occupies in its
// source text. Boundaries of consecutive tokens are ordered and do not
// overlap; gaps between them hold the separators.
type Boundary struct {
	Start int
	End   int
}

// Token is one segmented unit of text carrying a measured display width.
// Tokens are produced by a segmenter, widened by a Measurer and annotated by
// Annotate; after annotation they are treated as read-only.
type Token struct {
	Text     string
	Boundary Boundary

	// Width is the measured display width of Text in a consistent unit
	// (terminal cells, pixels, points).
	Width float64

	// Separator is the literal whitespace following this token before the
	// next token begins. Empty for the last token and between tokens that
	// abut directly (CJK text).
	Separator      string
	SeparatorWidth float64

	// Breaking is the disposition of the boundary after this token.
	// Only Annotate sets it to BreakAvoid.
	Breaking BreakDisposition

	// ViolationReason names the rule that set Breaking to BreakAvoid.
	ViolationReason string
}

func cloneTokens(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	copy(out, tokens)
	return out
}
