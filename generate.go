package linefold

import (
	"math"
	"math/rand"
	"sort"
)

const (
	defaultCandidates = 3
	defaultBalance    = 0.5
	defaultMinFill    = 0.5
	defaultSeed       = 1

	// diversity search bounds
	maxPerturbationPasses = 24
	maxRelaxationRounds   = 3

	// per-line penalty shape
	overflowBase  = 40.0
	overflowSteep = 400.0
	underfillCost = 80.0
)

// Generator computes ranked line-break candidates for annotated tokens.
// A Generator holds only configuration; Generate allocates its own search
// state per call, so one Generator may serve concurrent calls.
type Generator struct {
	mode       Mode
	candidates int
	balance    float64
	minFill    float64
	policy     BreakPolicy
	seed       int64
	spaceWidth float64
}

// NewGenerator returns a generator with the given options applied over the
// defaults: ModeFit, three candidates, balance 0.5, minimum fill 0.5, soft
// break policy, seed 1.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		mode:       ModeFit,
		candidates: defaultCandidates,
		balance:    defaultBalance,
		minFill:    defaultMinFill,
		policy:     PolicySoft,
		seed:       defaultSeed,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Generate returns up to the configured number of distinct layouts for the
// tokens, best first. Degenerate input is not an error: no tokens or a
// non-positive target width yield nil, a single token yields exactly one
// single-line candidate. Very short texts may yield fewer candidates than
// requested.
func (g *Generator) Generate(tokens []Token, targetWidth float64) []LineCandidate {
	if len(tokens) == 0 || targetWidth <= 0 {
		return nil
	}
	st := newSearchState(g, tokens, targetWidth)
	if len(tokens) == 1 {
		return []LineCandidate{st.finalize([]int{})}
	}

	accepted := [][]int{}
	if best := st.dpPass(dpParams{scale: 1, quadratic: true}); best != nil {
		accepted = append(accepted, best)
	}

	// Perturbed re-runs of the same dynamic program surface structurally
	// different near-optimal layouts. The distinctness threshold scales
	// with text length and is relaxed when short text cannot satisfy it.
	rng := rand.New(rand.NewSource(g.seed))
	threshold := st.diffThreshold()
	passes := 0
	for round := 0; round < maxRelaxationRounds && len(accepted) < g.candidates; round++ {
		for passes < maxPerturbationPasses*(round+1) && len(accepted) < g.candidates {
			breaks := st.dpPass(perturbation(passes, rng))
			passes++
			if breaks == nil {
				continue
			}
			if distinct(breaks, accepted, threshold) {
				accepted = append(accepted, breaks)
			}
		}
		// Relaxation never drops below 2: accepted candidates must differ
		// in at least one break beyond a trivial shift.
		if threshold > 2 {
			threshold--
		}
	}

	out := make([]LineCandidate, 0, len(accepted))
	for _, breaks := range accepted {
		out = append(out, st.finalize(breaks))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	if len(out) > g.candidates {
		out = out[:g.candidates]
	}
	return out
}

func distinct(breaks []int, accepted [][]int, threshold int) bool {
	for _, prev := range accepted {
		if breakDifference(breaks, prev) < threshold {
			return false
		}
	}
	return true
}

// dpParams perturb one dynamic-programming pass.
type dpParams struct {
	// scale shifts the effective target width
	scale float64
	// quadratic selects the penalty distance shape; false is linear
	quadratic bool
	// posBias tilts per-line penalties toward the start (<0) or the end
	// (>0) of the text, in [-1, 1]
	posBias float64
}

var perturbationGrid = []dpParams{
	{scale: 0.94, quadratic: true},
	{scale: 1.06, quadratic: true},
	{scale: 1, quadratic: false},
	{scale: 0.88, quadratic: false, posBias: -0.4},
	{scale: 1.12, quadratic: true, posBias: 0.4},
	{scale: 0.94, quadratic: false, posBias: 0.4},
	{scale: 1.06, quadratic: false, posBias: -0.4},
	{scale: 0.82, quadratic: true},
}

// perturbation yields the parameters for pass n: a deterministic grid
// first, then seeded random jitter.
func perturbation(n int, rng *rand.Rand) dpParams {
	if n < len(perturbationGrid) {
		return perturbationGrid[n]
	}
	return dpParams{
		scale:     1 + (rng.Float64()-0.5)*0.4,
		quadratic: rng.Intn(2) == 0,
		posBias:   (rng.Float64() - 0.5) * 1.2,
	}
}

// searchState holds the per-call arrays of the dynamic program: prefix
// sums of token and separator widths plus reusable cost and predecessor
// slices. Nothing in it is shared across calls.
type searchState struct {
	g      *Generator
	tokens []Token
	target float64

	// tokSum[k] = sum of token widths [0,k); sepSum[k] = sum of
	// separator widths [0,k)
	tokSum []float64
	sepSum []float64

	cost []float64
	prev []int

	scorer *Scorer
}

func newSearchState(g *Generator, tokens []Token, target float64) *searchState {
	n := len(tokens)
	st := &searchState{
		g:      g,
		tokens: tokens,
		target: target,
		tokSum: make([]float64, n+1),
		sepSum: make([]float64, n+1),
		cost:   make([]float64, n+1),
		prev:   make([]int, n+1),
		scorer: NewScorer(g.mode, g.balance),
	}
	for k, t := range tokens {
		st.tokSum[k+1] = st.tokSum[k] + t.Width
		st.sepSum[k+1] = st.sepSum[k] + g.separatorWidth(&tokens[k])
	}
	return st
}

func (g *Generator) separatorWidth(t *Token) float64 {
	if t.SeparatorWidth > 0 {
		return t.SeparatorWidth
	}
	if t.Separator != "" {
		return g.spaceWidth
	}
	return 0
}

// lineWidth is the width of the line holding tokens [i, j): token widths
// plus the separators interior to the line.
func (st *searchState) lineWidth(i, j int) float64 {
	w := st.tokSum[j] - st.tokSum[i]
	if j-i > 1 {
		w += st.sepSum[j-1] - st.sepSum[i]
	}
	return w
}

// diffThreshold is the minimum break difference for a layout to count as
// new, scaled with text length.
func (st *searchState) diffThreshold() int {
	t := len(st.tokens) / 6
	if t < 2 {
		t = 2
	}
	return t
}

// dpPass runs one minimum-total-penalty pass. cost[j] is the cheapest
// partition of the first j tokens; predecessors are recorded for the
// iterative backward reconstruction. The per-layout penalty decomposes
// additively over lines, so the pass is optimal for its parameters.
func (st *searchState) dpPass(p dpParams) []int {
	n := len(st.tokens)
	effTarget := st.target * p.scale
	maxLine := st.target * (1 + st.g.balance)

	st.cost[0] = 0
	for j := 1; j <= n; j++ {
		st.cost[j] = math.Inf(1)
		st.prev[j] = -1
	}

	for i := 0; i < n; i++ {
		if math.IsInf(st.cost[i], 1) {
			continue
		}
		for j := i; j < n; j++ {
			w := st.lineWidth(i, j+1)
			overflow := w > maxLine && j > i
			protected := j < n-1 && st.tokens[j].Breaking == BreakAvoid
			if protected && st.g.policy == PolicyStrict {
				// cannot cut inside a protected run; keep
				// extending the line past it
				continue
			}
			if overflow && st.g.policy != PolicyStrict {
				// every boundary is usable, so lines past the
				// width cap never help
				break
			}
			penalty := st.linePenalty(w, effTarget, p, i, j == n-1)
			if protected {
				penalty += protectedPenalty
			}
			if c := st.cost[i] + penalty; c < st.cost[j+1] {
				st.cost[j+1] = c
				st.prev[j+1] = i
			}
			if overflow {
				// strict-policy escape: the first usable boundary
				// past a protected run ends the scan
				break
			}
		}
	}
	if math.IsInf(st.cost[n], 1) {
		return nil
	}

	// reconstruct break indices by walking predecessors back from the
	// last token
	var cuts []int
	for pos := n; pos > 0; pos = st.prev[pos] {
		cuts = append(cuts, pos)
	}
	breaks := make([]int, 0, len(cuts)-1)
	for k := len(cuts) - 1; k > 0; k-- {
		breaks = append(breaks, cuts[k]-1)
	}
	return breaks
}

// linePenalty prices one line: growing linearly or quadratically as the
// line runs short of the effective target, sharply once it overflows it,
// and extra once it falls under the minimum fill. The final line may run
// short for free.
func (st *searchState) linePenalty(w, effTarget float64, p dpParams, startIdx int, lastLine bool) float64 {
	var penalty float64
	switch {
	case w > effTarget:
		over := (w - effTarget) / effTarget
		penalty = overflowBase + overflowSteep*over*over
	case lastLine:
		return 0
	default:
		slack := (effTarget - w) / effTarget
		if slack < 0 {
			slack = -slack
		}
		if p.quadratic {
			penalty = 100 * slack * slack
		} else {
			penalty = 100 * slack
		}
		if w < st.target*st.g.minFill {
			under := (st.target*st.g.minFill - w) / st.target
			penalty += underfillCost * under
		}
	}
	if p.posBias != 0 && len(st.tokens) > 0 {
		pos := float64(startIdx) / float64(len(st.tokens))
		penalty *= 1 + p.posBias*(pos-0.5)
	}
	return penalty
}

// finalize derives ranges and widths for a break list and scores it.
func (st *searchState) finalize(breaks []int) LineCandidate {
	c := LineCandidate{
		Breaks: breaks,
		Lines:  linesFromBreaks(breaks, len(st.tokens)),
	}
	c.LineWidths = make([]float64, len(c.Lines))
	lines := make([][]Token, len(c.Lines))
	for i, r := range c.Lines {
		c.LineWidths[i] = st.lineWidth(r.Start, r.End)
		lines[i] = st.tokens[r.Start:r.End]
	}
	c.Score, c.Breakdown = st.scorer.Score(lines, c.LineWidths, st.target)
	return c
}
