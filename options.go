package linefold

// BreakPolicy decides how protected boundaries constrain the optimizer.
type BreakPolicy uint8

const (
	// PolicySoft scores protected breaks as a strong penalty but still
	// allows them when nothing better exists. The default.
	PolicySoft BreakPolicy = iota
	// PolicyStrict forbids breaking at a protected boundary outright.
	PolicyStrict
)

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithMode selects the layout mode, ModeFit or ModeUniform.
func WithMode(mode Mode) GeneratorOption {
	return func(g *Generator) {
		g.mode = mode
	}
}

// WithCandidates sets how many ranked layouts to return. Values below one
// are ignored.
func WithCandidates(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.candidates = n
		}
	}
}

// WithBalanceFactor trades raggedness minimization against evenness.
// Clamped to [0, 1].
func WithBalanceFactor(balance float64) GeneratorOption {
	return func(g *Generator) {
		g.balance = clamp01(balance)
	}
}

// WithMinFillRatio bounds how short a non-final line may run before it is
// penalized, as a fraction of the target width. Clamped to [0, 1].
func WithMinFillRatio(ratio float64) GeneratorOption {
	return func(g *Generator) {
		g.minFill = clamp01(ratio)
	}
}

// WithBreakPolicy selects soft or strict handling of protected boundaries.
func WithBreakPolicy(policy BreakPolicy) GeneratorOption {
	return func(g *Generator) {
		g.policy = policy
	}
}

// WithSeed fixes the pseudo-random source of the diversity search.
// Identical tokens, parameters and seed always produce identical
// candidates.
func WithSeed(seed int64) GeneratorOption {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithSpaceWidth sets the separator width assumed for tokens that carry a
// separator but no measured separator width.
func WithSpaceWidth(width float64) GeneratorOption {
	return func(g *Generator) {
		if width >= 0 {
			g.spaceWidth = width
		}
	}
}
