package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/linefold"
	"pkt.systems/version"
)

const defaultWidth = 40

func init() {
	version.SetDefaultModule("pkt.systems/linefold")
}

func main() {
	var (
		locale      string
		widthFlag   int
		candidates  int
		modeFlag    string
		balance     float64
		minFill     float64
		seed        int64
		strict      bool
		listLocales bool
		showAll     bool
		outPath     string
	)

	flags := pflag.NewFlagSet("linefold", pflag.ExitOnError)
	flags.StringVarP(&locale, "locale", "l", linefold.DefaultLocale, "Locale for breaking rules")
	flags.IntVarP(&widthFlag, "width", "w", 0, "Target line width in cells (0 uses terminal width if available)")
	flags.IntVarP(&candidates, "candidates", "n", 3, "Number of candidate layouts")
	flags.StringVarP(&modeFlag, "mode", "m", "fit", "Layout mode: fit|uniform")
	flags.Float64Var(&balance, "balance", 0.5, "Balance factor in [0,1]: higher favors width adherence, lower favors evenness")
	flags.Float64Var(&minFill, "min-fill", 0.5, "Minimum fill ratio of non-final lines in [0,1]")
	flags.Int64Var(&seed, "seed", 1, "Seed for the diversity search")
	flags.BoolVar(&strict, "strict", false, "Forbid breaks at protected boundaries instead of penalizing them")
	flags.BoolVar(&listLocales, "list-locales", false, "List embedded locales")
	flags.BoolVarP(&showAll, "all", "a", false, "Print every candidate with its score breakdown")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: linefold [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input file is provided, text is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	reg, err := linefold.NewRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load locales: %v\n", err)
		os.Exit(1)
	}

	if listLocales {
		for _, l := range reg.Locales() {
			fmt.Fprintln(os.Stdout, l)
		}
		return
	}

	mode, err := resolveMode(modeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --mode %q: %v\n", modeFlag, err)
		os.Exit(2)
	}

	src, err := readInputs(flags.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}
	if err := linefold.ValidateInput(src); err != nil {
		fmt.Fprintf(os.Stderr, "validate input: %v\n", err)
		os.Exit(1)
	}

	writer, closeOut, err := resolveOutput(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	text := strings.TrimSpace(string(src))
	tokens := linefold.MeasureTokens(linefold.Segment(text), linefold.CellMeasurer{})
	if reg.LocalizationNeeded(locale) {
		tokens = linefold.Annotate(tokens, reg.Config(locale))
	}

	policy := linefold.PolicySoft
	if strict {
		policy = linefold.PolicyStrict
	}
	gen := linefold.NewGenerator(
		linefold.WithMode(mode),
		linefold.WithCandidates(candidates),
		linefold.WithBalanceFactor(balance),
		linefold.WithMinFillRatio(minFill),
		linefold.WithBreakPolicy(policy),
		linefold.WithSeed(seed),
	)
	width := resolveWidth(widthFlag)
	results := gen.Generate(tokens, float64(width))
	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "no layout (empty input?)")
		os.Exit(1)
	}

	if showAll {
		for i, c := range results {
			printCandidate(writer, tokens, c, i)
		}
		return
	}
	printLines(writer, tokens, results[0])
}

func resolveMode(mode string) (linefold.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "fit":
		return linefold.ModeFit, nil
	case "uniform":
		return linefold.ModeUniform, nil
	default:
		return linefold.ModeFit, fmt.Errorf("expected fit|uniform")
	}
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func readInputs(args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(os.Stdin)
	}
	var buf []byte
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if len(buf) > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, data...)
	}
	return buf, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if path == "" {
		return os.Stdout, nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func printLines(w io.Writer, tokens []linefold.Token, c linefold.LineCandidate) {
	for _, lineTokens := range c.LineTokens(tokens) {
		fmt.Fprintln(w, joinLine(lineTokens))
	}
}

func printCandidate(w io.Writer, tokens []linefold.Token, c linefold.LineCandidate, idx int) {
	fmt.Fprintf(w, "# candidate %d  score=%.2f  raggedness=%.1f evenness=%.1f fill=%.1f widows=%d orphans=%d protected=%d\n",
		idx+1, c.Score,
		c.Breakdown.Raggedness, c.Breakdown.Evenness, c.Breakdown.FillRatio,
		c.Breakdown.Widows, c.Breakdown.Orphans, c.Breakdown.ProtectedBreaks)
	printLines(w, tokens, c)
	fmt.Fprintln(w)
}

func joinLine(tokens []linefold.Token) string {
	var b strings.Builder
	for i, t := range tokens {
		b.WriteString(t.Text)
		if i < len(tokens)-1 {
			b.WriteString(t.Separator)
		}
	}
	return b.String()
}
