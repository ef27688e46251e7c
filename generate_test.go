package linefold

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func measuredTokens(width, sep float64, words ...string) []Token {
	tokens := wordTokens(words...)
	for i := range tokens {
		tokens[i].Width = width
		if tokens[i].Separator != "" {
			tokens[i].SeparatorWidth = sep
		}
	}
	return tokens
}

// requireValidPartition checks the structural invariants every candidate
// must satisfy: strictly increasing breaks, contiguous non-empty line
// ranges covering all tokens exactly once.
func requireValidPartition(t *testing.T, c LineCandidate, tokenCount int) {
	t.Helper()
	require.Equal(t, len(c.Breaks)+1, len(c.Lines))
	require.Equal(t, len(c.Lines), len(c.LineWidths))

	prev := -1
	for _, b := range c.Breaks {
		require.Greater(t, b, prev, "breaks must be strictly increasing")
		require.GreaterOrEqual(t, b, 0)
		require.Less(t, b, tokenCount-1, "a break on the last token is implicit, never listed")
		prev = b
	}

	covered := 0
	next := 0
	for _, r := range c.Lines {
		require.Equal(t, next, r.Start, "line ranges must be contiguous")
		require.Greater(t, r.End, r.Start, "lines must be non-empty")
		covered += r.End - r.Start
		next = r.End
	}
	require.Equal(t, tokenCount, covered, "lines must cover every token exactly once")
	require.Equal(t, tokenCount, next)
}

func TestGenerateEmptyInput(t *testing.T) {
	gen := NewGenerator()
	assert.Nil(t, gen.Generate(nil, 100))
	assert.Nil(t, gen.Generate([]Token{}, 100))
	assert.Nil(t, gen.Generate(measuredTokens(10, 5, "hi"), 0), "non-positive target width")
	assert.Nil(t, gen.Generate(measuredTokens(10, 5, "hi"), -50))
}

func TestGenerateSingleToken(t *testing.T) {
	gen := NewGenerator(WithCandidates(5))
	out := gen.Generate(measuredTokens(30, 0, "alone"), 100)
	require.Len(t, out, 1)
	requireValidPartition(t, out[0], 1)
	assert.Empty(t, out[0].Breaks)
	assert.Equal(t, []float64{30}, out[0].LineWidths)
}

// TestGenerateFoxScenario lays out the classic pangram at uniform token
// width 50, space width 10 and target 150. No line may end on a function
// word and no line may exceed target*(1+balance).
func TestGenerateFoxScenario(t *testing.T) {
	cfg := englishTestConfig(t)
	tokens := measuredTokens(50, 10, "The", "quick", "brown", "fox", "jumps", "over", "the", "lazy", "dog")
	tokens = Annotate(tokens, cfg)

	gen := NewGenerator(WithMode(ModeFit), WithCandidates(3), WithSeed(7))
	out := gen.Generate(tokens, 150)
	require.NotEmpty(t, out)

	maxLine := 150 * (1 + defaultBalance)
	for _, c := range out {
		requireValidPartition(t, c, len(tokens))
		for _, w := range c.LineWidths {
			assert.LessOrEqual(t, w, maxLine)
		}
	}
	best := out[0]
	for _, b := range best.Breaks {
		assert.False(t, strings.EqualFold(tokens[b].Text, "the"),
			"best layout must not end a line on %q", tokens[b].Text)
	}
	assert.Zero(t, best.Breakdown.ProtectedBreaks)
}

// TestGenerateFrenchProtectedUnit verifies the optimizer keeps "100" and
// "%" together even when breaking between them would reduce raggedness.
func TestGenerateFrenchProtectedUnit(t *testing.T) {
	reg := newTestRegistry(t)
	tokens := wordTokens("100", "%", "dans", "son", "album")
	widths := []float64{30, 15, 45, 35, 50}
	for i := range tokens {
		tokens[i].Width = widths[i]
		if tokens[i].Separator != "" {
			tokens[i].SeparatorWidth = 10
		}
	}
	tokens = Annotate(tokens, reg.Config("fr"))
	require.Equal(t, BreakAvoid, tokens[0].Breaking)

	out := NewGenerator(WithCandidates(3), WithSeed(3)).Generate(tokens, 60)
	require.NotEmpty(t, out)
	for _, b := range out[0].Breaks {
		assert.NotEqual(t, 0, b, "best layout must not split 100 from %%")
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	tokens := measuredTokens(40, 10,
		"one", "two", "three", "four", "five", "six", "seven", "eight",
		"nine", "ten", "eleven", "twelve", "thirteen", "fourteen")

	a := NewGenerator(WithCandidates(4), WithSeed(99)).Generate(tokens, 150)
	b := NewGenerator(WithCandidates(4), WithSeed(99)).Generate(tokens, 150)
	assert.Equal(t, a, b, "identical input and seed must produce identical candidates")
}

// TestGenerateDiversity checks returned candidates are pairwise distinct
// under the break-difference metric. The relaxation rounds never lower the
// threshold below two, so any two accepted layouts differ by at least two.
func TestGenerateDiversity(t *testing.T) {
	words := make([]string, 24)
	for i := range words {
		words[i] = "word"
	}
	tokens := measuredTokens(45, 10, words...)

	out := NewGenerator(WithCandidates(3), WithSeed(11)).Generate(tokens, 200)
	require.NotEmpty(t, out)
	for i := range out {
		requireValidPartition(t, out[i], len(tokens))
		for j := i + 1; j < len(out); j++ {
			assert.GreaterOrEqual(t, breakDifference(out[i].Breaks, out[j].Breaks), 2,
				"candidates %d and %d are near-identical", i, j)
		}
	}
}

func TestGenerateShortTextDistinctness(t *testing.T) {
	// Twelve tokens start at the minimum distinctness threshold of 2;
	// relaxation rounds must not lower it further, so even here no two
	// accepted candidates differ by a single shifted break.
	words := make([]string, 12)
	for i := range words {
		words[i] = "word"
	}
	tokens := measuredTokens(45, 10, words...)

	out := NewGenerator(WithCandidates(6), WithSeed(7)).Generate(tokens, 150)
	require.NotEmpty(t, out)
	for i := range out {
		requireValidPartition(t, out[i], len(tokens))
		for j := i + 1; j < len(out); j++ {
			assert.GreaterOrEqual(t, breakDifference(out[i].Breaks, out[j].Breaks), 2,
				"candidates %d and %d are near-identical", i, j)
		}
	}
}

func TestGenerateSortedByScore(t *testing.T) {
	tokens := measuredTokens(45, 10,
		"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10", "a11", "a12")
	out := NewGenerator(WithCandidates(5), WithSeed(5)).Generate(tokens, 180)
	require.NotEmpty(t, out)
	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, out[i-1].Score, out[i].Score, "candidates must be sorted ascending")
	}
}

// TestGenerateScoreConsistency re-scores each candidate's own lines and
// widths through the Scorer and expects the stored score back.
func TestGenerateScoreConsistency(t *testing.T) {
	tokens := measuredTokens(50, 10,
		"re", "score", "every", "candidate", "and", "expect", "the", "stored", "value")
	gen := NewGenerator(WithMode(ModeUniform), WithBalanceFactor(0.3), WithCandidates(3), WithSeed(2))
	out := gen.Generate(tokens, 170)
	require.NotEmpty(t, out)

	scorer := NewScorer(ModeUniform, 0.3)
	for _, c := range out {
		score, breakdown := scorer.Score(c.LineTokens(tokens), c.LineWidths, 170)
		assert.InDelta(t, c.Score, score, 1e-9)
		assert.Equal(t, c.Breakdown, breakdown)
	}
}

func TestGenerateStrictPolicy(t *testing.T) {
	cfg := englishTestConfig(t)
	tokens := measuredTokens(50, 10, "turn", "it", "up", "on", "Apple", "Music", "today", "loud")
	tokens = Annotate(tokens, cfg)
	require.Equal(t, BreakAvoid, tokens[4].Breaking)

	out := NewGenerator(WithCandidates(4), WithBreakPolicy(PolicyStrict), WithSeed(13)).Generate(tokens, 120)
	require.NotEmpty(t, out)
	for _, c := range out {
		requireValidPartition(t, c, len(tokens))
		assert.Zero(t, c.Breakdown.ProtectedBreaks, "strict policy forbids protected breaks entirely")
	}
}

func TestGenerateOverlongToken(t *testing.T) {
	tokens := measuredTokens(50, 10, "short", "reallyquitelong", "tail")
	tokens[1].Width = 500

	out := NewGenerator(WithCandidates(3)).Generate(tokens, 100)
	require.NotEmpty(t, out, "an overlong token still yields a layout")
	requireValidPartition(t, out[0], len(tokens))
}

func TestGenerateFewerCandidatesThanRequested(t *testing.T) {
	tokens := measuredTokens(40, 10, "too", "short", "text")
	out := NewGenerator(WithCandidates(5)).Generate(tokens, 120)
	require.NotEmpty(t, out)
	assert.LessOrEqual(t, len(out), 5)
	for _, c := range out {
		requireValidPartition(t, c, len(tokens))
	}
}

func TestGenerateConcurrentUse(t *testing.T) {
	tokens := measuredTokens(40, 10,
		"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9", "p10")
	gen := NewGenerator(WithCandidates(3), WithSeed(21))
	want := gen.Generate(tokens, 140)

	done := make(chan []LineCandidate, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- gen.Generate(tokens, 140)
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done, "one Generator must serve concurrent calls identically")
	}
}
