package linefold

// LineRange is a half-open range [Start, End) of token indices forming one
// line.
type LineRange struct {
	Start int
	End   int
}

// LineCandidate is one complete proposed layout. The ranges in Lines
// partition the token sequence contiguously with no gaps; Breaks holds the
// index of the last token of every line except the final one.
type LineCandidate struct {
	Breaks     []int
	Lines      []LineRange
	LineWidths []float64
	Score      float64
	Breakdown  ScoreBreakdown
}

// LineCount returns the number of lines in the candidate.
func (c *LineCandidate) LineCount() int { return len(c.Lines) }

// LineTokens returns the token slices per line, sharing the backing array
// of tokens.
func (c *LineCandidate) LineTokens(tokens []Token) [][]Token {
	lines := make([][]Token, len(c.Lines))
	for i, r := range c.Lines {
		lines[i] = tokens[r.Start:r.End]
	}
	return lines
}

// linesFromBreaks derives the per-line token ranges for a break list over
// tokenCount tokens.
func linesFromBreaks(breaks []int, tokenCount int) []LineRange {
	lines := make([]LineRange, 0, len(breaks)+1)
	start := 0
	for _, b := range breaks {
		lines = append(lines, LineRange{Start: start, End: b + 1})
		start = b + 1
	}
	lines = append(lines, LineRange{Start: start, End: tokenCount})
	return lines
}

// breakDifference is the distinctness metric between two break lists: the
// size of the symmetric set difference of break indices plus twice the
// difference in line count.
func breakDifference(a, b []int) int {
	inA := make(map[int]struct{}, len(a))
	for _, idx := range a {
		inA[idx] = struct{}{}
	}
	diff := 0
	for _, idx := range b {
		if _, ok := inA[idx]; ok {
			delete(inA, idx)
		} else {
			diff++
		}
	}
	diff += len(inA)
	lineDiff := len(a) - len(b)
	if lineDiff < 0 {
		lineDiff = -lineDiff
	}
	return diff + 2*lineDiff
}
