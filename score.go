package linefold

import "math"

// Mode selects the layout quality emphasis.
type Mode uint8

const (
	// ModeFit favors lines that come close to the target width.
	ModeFit Mode = iota
	// ModeUniform favors lines of equal width, even when short of the
	// target.
	ModeUniform
)

func (m Mode) String() string {
	if m == ModeUniform {
		return "uniform"
	}
	return "fit"
}

// ScoreBreakdown itemizes a candidate's score. Raggedness, Evenness and
// FillRatio are percentages; the counts are per-occurrence.
type ScoreBreakdown struct {
	// Raggedness is the RMS deviation of non-final line widths from the
	// target, as a percentage of the target. Lower is better.
	Raggedness float64
	// Evenness rates how uniform all line widths are: 100 for identical
	// widths, 0 once the coefficient of variation reaches about a third.
	Evenness float64
	// FillRatio is the average used fraction of the target width over
	// non-final lines, as a percentage.
	FillRatio float64
	// Widows counts a lone token on the final line of a multi-line layout.
	Widows int
	// Orphans counts a lone token on the first line of a multi-line layout.
	Orphans int
	// ProtectedBreaks counts chosen breaks on boundaries annotated
	// BreakAvoid.
	ProtectedBreaks int
}

// Fixed per-occurrence penalties and weights of the final score.
const (
	widowPenalty     = 15.0
	orphanPenalty    = 10.0
	protectedPenalty = 40.0
	fillWeight       = 0.35

	// coefficient of variation at which evenness bottoms out
	evennessZeroCV = 0.33

	// mode base weights for the raggedness and evenness terms
	fitRaggednessWeight     = 1.0
	fitEvennessWeight       = 0.35
	uniformRaggednessWeight = 0.35
	uniformEvennessWeight   = 1.0
)

// Scorer computes the multi-component quality score of a line layout.
// A Scorer is immutable and safe for concurrent use.
type Scorer struct {
	mode    Mode
	balance float64
}

// NewScorer returns a scorer for the given mode and balance factor. The
// balance factor is clamped to [0, 1]; higher values weight width adherence
// (raggedness), lower values weight evenness.
func NewScorer(mode Mode, balance float64) *Scorer {
	return &Scorer{mode: mode, balance: clamp01(balance)}
}

// Score rates one candidate partition. lines holds the tokens of each line
// and lineWidths the matching measured widths; both must have the same
// length. Lower scores are better.
func (s *Scorer) Score(lines [][]Token, lineWidths []float64, targetWidth float64) (float64, ScoreBreakdown) {
	var b ScoreBreakdown
	if len(lines) == 0 || len(lines) != len(lineWidths) || targetWidth <= 0 {
		return 0, b
	}

	b.Raggedness = raggedness(lineWidths, targetWidth)
	b.Evenness = evenness(lineWidths)
	b.FillRatio = fillRatio(lineWidths, targetWidth)

	if len(lines) > 1 {
		if len(lines[len(lines)-1]) == 1 {
			b.Widows = 1
		}
		if len(lines[0]) == 1 {
			b.Orphans = 1
		}
	}
	for i := 0; i < len(lines)-1; i++ {
		line := lines[i]
		if len(line) > 0 && line[len(line)-1].Breaking == BreakAvoid {
			b.ProtectedBreaks++
		}
	}

	ragWeight := fitRaggednessWeight
	evenWeight := fitEvennessWeight
	if s.mode == ModeUniform {
		ragWeight = uniformRaggednessWeight
		evenWeight = uniformEvennessWeight
	}
	// balance shifts weight between the two terms; 0.5 keeps the mode's
	// own proportions
	ragWeight *= 2 * s.balance
	evenWeight *= 2 * (1 - s.balance)

	score := fillWeight*(100-b.FillRatio) +
		ragWeight*b.Raggedness +
		evenWeight*(100-b.Evenness) +
		widowPenalty*float64(b.Widows) +
		orphanPenalty*float64(b.Orphans) +
		protectedPenalty*float64(b.ProtectedBreaks)
	return score, b
}

// raggedness is the RMS of the relative deviation from the target over all
// lines but the last, which is allowed to run short.
func raggedness(widths []float64, target float64) float64 {
	if len(widths) < 2 {
		return 0
	}
	var sum float64
	for _, w := range widths[:len(widths)-1] {
		d := (target - w) / target
		sum += d * d
	}
	return 100 * math.Sqrt(sum/float64(len(widths)-1))
}

// evenness maps the coefficient of variation of all line widths onto
// [0, 100]: zero variation scores 100, evennessZeroCV or more scores 0.
func evenness(widths []float64) float64 {
	if len(widths) < 2 {
		return 100
	}
	var mean float64
	for _, w := range widths {
		mean += w
	}
	mean /= float64(len(widths))
	if mean <= 0 {
		return 100
	}
	var variance float64
	for _, w := range widths {
		d := w - mean
		variance += d * d
	}
	variance /= float64(len(widths))
	cv := math.Sqrt(variance) / mean
	return 100 * clamp01(1-cv/evennessZeroCV)
}

// fillRatio averages min(width, target)/target over all lines but the
// last. A single-line layout has nothing to fill and scores 100.
func fillRatio(widths []float64, target float64) float64 {
	if len(widths) < 2 {
		return 100
	}
	var sum float64
	for _, w := range widths[:len(widths)-1] {
		sum += math.Min(w, target) / target
	}
	return 100 * sum / float64(len(widths)-1)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
