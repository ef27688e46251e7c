package linefold

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownRuleCategory reports a directional rule referencing a
	// category name the loader does not know.
	ErrUnknownRuleCategory = errors.New("unknown rule category")
	// ErrMissingRuleData reports a directional rule whose category has no
	// backing list in the same file.
	ErrMissingRuleData = errors.New("rule category has no data")
	// ErrBadRuleFile reports a rule file that fails to parse at all.
	ErrBadRuleFile = errors.New("malformed rule file")
)

// RuleCategory is the closed set of locale rule kinds. Directional rule
// lists in a locale file name these; an unknown name is a load error rather
// than a silently ignored string.
type RuleCategory uint8

const (
	// RulePunctuation matches tokens that are members of the locale's
	// punctuation set.
	RulePunctuation RuleCategory = iota
	// RuleFunctionWords matches articles and other function words.
	RuleFunctionWords
	// RulePrepositions matches prepositions.
	RulePrepositions
	// RuleAdjectives matches a closed adjective list.
	RuleAdjectives
	// RulePersonNamePrefixes matches honorifics and name prefixes.
	RulePersonNamePrefixes
	// RuleHyphen matches tokens ending in a hyphen-like code point.
	RuleHyphen
	// RuleNumeric matches a numeric token adjacent to a unit or percent
	// symbol.
	RuleNumeric
	// RuleFixedExpressions protects multi-token fixed expressions.
	RuleFixedExpressions
	// RuleBrandNames protects multi-token brand names.
	RuleBrandNames
	// RuleAppNames protects multi-token application names.
	RuleAppNames
	// RuleProperNouns protects runs of consecutive capitalized tokens.
	RuleProperNouns

	numRuleCategories
)

var ruleCategoryNames = map[string]RuleCategory{
	"punctuation":        RulePunctuation,
	"functionWords":      RuleFunctionWords,
	"prepositions":       RulePrepositions,
	"adjectives":         RuleAdjectives,
	"personNamePrefixes": RulePersonNamePrefixes,
	"hyphen":             RuleHyphen,
	"numeric":            RuleNumeric,
	"fixedExpressions":   RuleFixedExpressions,
	"brandNames":         RuleBrandNames,
	"appNames":           RuleAppNames,
	"properNounSequence": RuleProperNouns,
}

func (c RuleCategory) String() string {
	for name, cat := range ruleCategoryNames {
		if cat == c {
			return name
		}
	}
	return fmt.Sprintf("ruleCategory(%d)", uint8(c))
}

// wordCategory reports whether the category is backed by a word list.
func (c RuleCategory) wordCategory() bool {
	switch c {
	case RuleFunctionWords, RulePrepositions, RuleAdjectives, RulePersonNamePrefixes:
		return true
	}
	return false
}

// phraseCategory reports whether the category is backed by a phrase list or
// is otherwise only meaningful between tokens.
func (c RuleCategory) phraseCategory() bool {
	switch c {
	case RuleFixedExpressions, RuleBrandNames, RuleAppNames, RuleProperNouns:
		return true
	}
	return false
}

// ruleFile is the on-disk YAML shape of one locale's rules.
type ruleFile struct {
	Locale      string              `yaml:"locale"`
	Directional directionalSection  `yaml:"directional"`
	Words       map[string][]string `yaml:"words"`
	Phrases     map[string][]string `yaml:"phrases"`
	Punctuation []string            `yaml:"punctuation"`
	Units       []string            `yaml:"units"`
	Percent     []string            `yaml:"percent"`
	Special     map[string]string   `yaml:"special"`
}

type directionalSection struct {
	Before  []string `yaml:"before"`
	After   []string `yaml:"after"`
	Between []string `yaml:"between"`
}

// phraseElem is one word position in a phrase pattern: either a literal
// (case-folded) or the <number> placeholder.
type phraseElem struct {
	literal string
	number  bool
}

type phrasePattern struct {
	source   string
	category RuleCategory
	elems    []phraseElem
}

const numberPlaceholder = "<number>"

func parsePhrase(raw string, cat RuleCategory) (phrasePattern, error) {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return phrasePattern{}, fmt.Errorf("phrase %q: need at least two words", raw)
	}
	p := phrasePattern{source: raw, category: cat, elems: make([]phraseElem, 0, len(fields))}
	placeholders := 0
	for _, f := range fields {
		if f == numberPlaceholder {
			placeholders++
			if placeholders > 1 {
				return phrasePattern{}, fmt.Errorf("phrase %q: more than one %s placeholder", raw, numberPlaceholder)
			}
			p.elems = append(p.elems, phraseElem{number: true})
			continue
		}
		if strings.ContainsAny(f, "<>") {
			return phrasePattern{}, fmt.Errorf("phrase %q: unknown placeholder %q", raw, f)
		}
		p.elems = append(p.elems, phraseElem{literal: strings.ToLower(f)})
	}
	return p, nil
}

// matchLen returns how many consecutive tokens starting at tokens[start]
// match the leading elements of the pattern. A full match returns
// len(p.elems); a shorter run is a prefix match.
func (p phrasePattern) matchLen(tokens []Token, start int) int {
	n := 0
	for ; n < len(p.elems) && start+n < len(tokens); n++ {
		e := p.elems[n]
		text := tokens[start+n].Text
		if e.number {
			if !isNumericText(text) {
				break
			}
			continue
		}
		if strings.ToLower(text) != e.literal {
			break
		}
	}
	return n
}

// RuleConfig is one locale's compiled rule set. Immutable once built.
type RuleConfig struct {
	// Locale is the key this config was registered under.
	Locale string

	// Warnings lists entries skipped while loading, such as malformed
	// phrase patterns. Informational only.
	Warnings []string

	before  []RuleCategory
	after   []RuleCategory
	between []RuleCategory

	words   map[RuleCategory]map[string]struct{}
	phrases []phrasePattern
	punct   map[string]struct{}
	units   map[string]struct{}
	percent map[string]struct{}
	special map[string]BreakDisposition
}

// Empty reports whether the config carries no rules at all, so annotation
// can be skipped.
func (c *RuleConfig) Empty() bool {
	if c == nil {
		return true
	}
	return len(c.before) == 0 && len(c.after) == 0 && len(c.between) == 0 && len(c.special) == 0
}

// ParseRuleConfig compiles one locale rule file. Word and phrase list names
// referenced from the directional section must resolve within the same
// file; malformed phrase entries are skipped and reported via
// RuleConfig.Warnings.
func ParseRuleConfig(data []byte) (*RuleConfig, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRuleFile, err)
	}
	if rf.Locale == "" {
		return nil, fmt.Errorf("%w: missing locale key", ErrBadRuleFile)
	}

	cfg := &RuleConfig{
		Locale:  normalizeLocale(rf.Locale),
		words:   make(map[RuleCategory]map[string]struct{}),
		punct:   stringSet(rf.Punctuation),
		units:   stringSet(rf.Units),
		percent: stringSet(rf.Percent),
		special: make(map[string]BreakDisposition, len(rf.Special)),
	}

	for name, list := range rf.Words {
		cat, ok := ruleCategoryNames[name]
		if !ok || !cat.wordCategory() {
			return nil, fmt.Errorf("%w: word list %q in locale %q", ErrUnknownRuleCategory, name, rf.Locale)
		}
		set := make(map[string]struct{}, len(list))
		for _, w := range list {
			set[strings.ToLower(w)] = struct{}{}
		}
		cfg.words[cat] = set
	}
	for name, list := range rf.Phrases {
		cat, ok := ruleCategoryNames[name]
		if !ok || !cat.phraseCategory() {
			return nil, fmt.Errorf("%w: phrase list %q in locale %q", ErrUnknownRuleCategory, name, rf.Locale)
		}
		for _, raw := range list {
			p, err := parsePhrase(raw, cat)
			if err != nil {
				cfg.Warnings = append(cfg.Warnings, err.Error())
				continue
			}
			cfg.phrases = append(cfg.phrases, p)
		}
	}

	var err error
	if cfg.before, err = cfg.resolveCategories(rf.Directional.Before, rf.Locale); err != nil {
		return nil, err
	}
	if cfg.after, err = cfg.resolveCategories(rf.Directional.After, rf.Locale); err != nil {
		return nil, err
	}
	if cfg.between, err = cfg.resolveCategories(rf.Directional.Between, rf.Locale); err != nil {
		return nil, err
	}

	for key, val := range rf.Special {
		switch strings.ToLower(val) {
		case "avoid":
			cfg.special[key] = BreakAvoid
		case "allow":
			cfg.special[key] = BreakAllow
		default:
			return nil, fmt.Errorf("%w: special case %q has disposition %q", ErrBadRuleFile, key, val)
		}
	}
	return cfg, nil
}

// resolveCategories maps directional category names to the closed enum and
// checks each one has backing data in the config.
func (c *RuleConfig) resolveCategories(names []string, locale string) ([]RuleCategory, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]RuleCategory, 0, len(names))
	for _, name := range names {
		cat, ok := ruleCategoryNames[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q in locale %q", ErrUnknownRuleCategory, name, locale)
		}
		if err := c.checkBacking(cat, locale); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, nil
}

func (c *RuleConfig) checkBacking(cat RuleCategory, locale string) error {
	switch {
	case cat.wordCategory():
		if len(c.words[cat]) == 0 {
			return fmt.Errorf("%w: %s in locale %q", ErrMissingRuleData, cat, locale)
		}
	case cat == RulePunctuation:
		if len(c.punct) == 0 {
			return fmt.Errorf("%w: punctuation in locale %q", ErrMissingRuleData, locale)
		}
	case cat == RuleNumeric:
		if len(c.units) == 0 && len(c.percent) == 0 {
			return fmt.Errorf("%w: numeric needs units or percent in locale %q", ErrMissingRuleData, locale)
		}
	case cat == RuleFixedExpressions, cat == RuleBrandNames, cat == RuleAppNames:
		// Phrase lists may legitimately be empty after skipping bad
		// entries; warnings already recorded.
	}
	return nil
}

func stringSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, s := range list {
		set[s] = struct{}{}
	}
	return set
}

// hyphen-like code points treated identically by the hyphen rule
const hyphenRunes = "-‐‑–—"

func endsWithHyphen(text string) bool {
	runes := []rune(text)
	if len(runes) == 0 {
		return false
	}
	return strings.ContainsRune(hyphenRunes, runes[len(runes)-1])
}

func startsWithHyphen(text string) bool {
	for _, r := range text {
		return strings.ContainsRune(hyphenRunes, r)
	}
	return false
}

// isNumericText reports whether text is purely a number: digits with
// optional sign and group or decimal marks.
func isNumericText(text string) bool {
	digits := 0
	for i, r := range text {
		switch {
		case unicode.IsDigit(r):
			digits++
		case (r == '+' || r == '-') && i == 0:
		case r == '.' || r == ',' || r == ' ' || r == ' ':
			// decimal and group separators, incl. narrow no-break space
		default:
			return false
		}
	}
	return digits > 0
}

func isCapitalized(text string) bool {
	for _, r := range text {
		return unicode.IsUpper(r)
	}
	return false
}
