// Package linefold chooses where to break token sequences into display
// lines so the result is visually balanced and linguistically valid across
// locales.
//
// The pipeline is pure and synchronous: segmented tokens are annotated with
// per-boundary breaking dispositions from a locale's declarative rules,
// then a dynamic program finds the minimum-penalty partition and a seeded
// diversity search surfaces additional, meaningfully different layouts.
// Every candidate carries a multi-component score; lower is better.
//
// Core properties:
//   - Locale rules are data (embedded YAML), compiled once, immutable after
//     load
//   - Protected boundaries are soft scored penalties by default; a strict
//     policy forbids them outright
//   - Identical input and seed always produce identical candidates
//   - Degenerate input degrades to fewer or zero candidates, never an error
//
// Example:
//
//	reg, err := linefold.NewRegistry()
//	if err != nil {
//		log.Fatal(err)
//	}
//	tokens := linefold.MeasureTokens(linefold.Segment("100 % dans son album"), linefold.CellMeasurer{})
//	tokens = linefold.Annotate(tokens, reg.Config("fr"))
//	gen := linefold.NewGenerator(linefold.WithCandidates(3), linefold.WithSeed(42))
//	for _, c := range gen.Generate(tokens, 12) {
//		fmt.Println(c.Breaks, c.Score)
//	}
//
// Width measurement and word segmentation are pluggable collaborators; the
// provided ones measure terminal cells and segment on UAX #29 word
// boundaries.
package linefold
