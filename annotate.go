package linefold

import (
	"fmt"
	"strings"
)

// Annotate tags every token boundary with a breaking disposition according
// to the locale's rules. The input is never mutated; each rule pass
// consumes the previous pass's output and produces a fresh slice, so the
// result depends only on tokens and cfg. Calling Annotate twice with the
// same arguments yields identical dispositions.
//
// A nil or empty config resets all boundaries to BreakAllow and returns.
func Annotate(tokens []Token, cfg *RuleConfig) []Token {
	out := cloneTokens(tokens)
	for i := range out {
		out[i].Breaking = BreakAllow
		out[i].ViolationReason = ""
	}
	if cfg.Empty() {
		return out
	}
	out = applyBeforeRules(out, cfg)
	out = applyAfterRules(out, cfg)
	out = applyBetweenRules(out, cfg)
	out = applySpecialCases(out, cfg)
	return out
}

func avoidAt(tokens []Token, i int, reason string) {
	if tokens[i].Breaking == BreakAvoid {
		return
	}
	tokens[i].Breaking = BreakAvoid
	tokens[i].ViolationReason = reason
}

// applyBeforeRules protects boundaries whose following token matches an
// active before-category: no line may start with such a token.
func applyBeforeRules(tokens []Token, cfg *RuleConfig) []Token {
	if len(cfg.before) == 0 || len(tokens) < 2 {
		return tokens
	}
	out := cloneTokens(tokens)
	for i := 0; i < len(out)-1; i++ {
		next := &out[i+1]
		for _, cat := range cfg.before {
			if !cfg.matchesBefore(cat, next) {
				continue
			}
			avoidAt(out, i, "before:"+cat.String())
			break
		}
	}
	return out
}

func (c *RuleConfig) matchesBefore(cat RuleCategory, next *Token) bool {
	switch {
	case cat == RulePunctuation:
		_, ok := c.punct[next.Text]
		return ok
	case cat.wordCategory():
		_, ok := c.words[cat][strings.ToLower(next.Text)]
		return ok
	case cat == RuleHyphen:
		return startsWithHyphen(next.Text)
	case cat == RuleNumeric:
		// the following token is a unit or percent symbol; keep it glued
		// to whatever precedes it
		return c.isUnitOrPercent(next.Text)
	}
	return false
}

// applyAfterRules protects boundaries whose preceding token matches an
// active after-category: no line may end with such a token.
func applyAfterRules(tokens []Token, cfg *RuleConfig) []Token {
	if len(cfg.after) == 0 || len(tokens) < 2 {
		return tokens
	}
	out := cloneTokens(tokens)
	for i := 0; i < len(out)-1; i++ {
		prev, next := &out[i], &out[i+1]
		for _, cat := range cfg.after {
			if !cfg.matchesAfter(cat, prev, next) {
				continue
			}
			avoidAt(out, i, "after:"+cat.String())
			break
		}
	}
	return out
}

func (c *RuleConfig) matchesAfter(cat RuleCategory, prev, next *Token) bool {
	switch {
	case cat == RulePunctuation:
		_, ok := c.punct[prev.Text]
		return ok
	case cat.wordCategory():
		_, ok := c.words[cat][strings.ToLower(prev.Text)]
		return ok
	case cat == RuleHyphen:
		return endsWithHyphen(prev.Text)
	case cat == RuleNumeric:
		return isNumericText(prev.Text) && c.isUnitOrPercent(next.Text)
	}
	return false
}

func (c *RuleConfig) isUnitOrPercent(text string) bool {
	if _, ok := c.percent[text]; ok {
		return true
	}
	_, ok := c.units[strings.ToLower(text)]
	return ok
}

// applyBetweenRules protects the interior boundaries of matched phrase
// spans and capitalized proper-noun runs.
func applyBetweenRules(tokens []Token, cfg *RuleConfig) []Token {
	if len(cfg.between) == 0 || len(tokens) < 2 {
		return tokens
	}
	out := cloneTokens(tokens)
	for _, cat := range cfg.between {
		if cat == RuleProperNouns {
			protectProperNounRuns(out)
			continue
		}
		for _, p := range cfg.phrases {
			if p.category != cat {
				continue
			}
			protectPhrase(out, p)
		}
	}
	return out
}

// protectPhrase marks every boundary strictly inside a span matching the
// phrase. Runs of two or more tokens matching the phrase's leading words
// also count, so a partial brand name at the end of the text (or a phrase
// that is itself a prefix of a longer name) stays protected. Every window
// is examined, so overlapping matches of a repeated-word phrase each keep
// their interior boundaries.
func protectPhrase(tokens []Token, p phrasePattern) {
	reason := "phrase:" + p.source
	for start := 0; start < len(tokens)-1; start++ {
		n := p.matchLen(tokens, start)
		if n < 2 {
			continue
		}
		for i := start; i < start+n-1; i++ {
			avoidAt(tokens, i, reason)
		}
	}
}

func protectProperNounRuns(tokens []Token) {
	runStart := -1
	for i := 0; i <= len(tokens); i++ {
		if i < len(tokens) && isCapitalized(tokens[i].Text) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 && i-runStart >= 2 {
			for j := runStart; j < i-1; j++ {
				avoidAt(tokens, j, "properNounSequence")
			}
		}
		runStart = -1
	}
}

// applySpecialCases forces the disposition of any boundary whose two
// adjoining tokens, joined by their separator, exactly match an override
// key. Overrides win over every earlier pass.
func applySpecialCases(tokens []Token, cfg *RuleConfig) []Token {
	if len(cfg.special) == 0 || len(tokens) < 2 {
		return tokens
	}
	out := cloneTokens(tokens)
	for i := 0; i < len(out)-1; i++ {
		key := out[i].Text + out[i].Separator + out[i+1].Text
		disp, ok := cfg.special[key]
		if !ok {
			continue
		}
		out[i].Breaking = disp
		if disp == BreakAvoid {
			out[i].ViolationReason = fmt.Sprintf("special:%s", key)
		} else {
			out[i].ViolationReason = ""
		}
	}
	return out
}
