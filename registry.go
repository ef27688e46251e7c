package linefold

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLocale is the baseline locale. Its config carries no rules, so
// annotation is a no-op and LocalizationNeeded reports false.
const DefaultLocale = "en"

// Registry holds per-locale rule configs. Configs are loaded once and never
// mutated afterward, so concurrent reads need no coordination beyond the
// map lock. Inject a Registry where it is needed instead of sharing a
// package-level instance.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]*RuleConfig
}

// NewRegistry builds a registry from the embedded locale rule files.
func NewRegistry() (*Registry, error) {
	r := &Registry{configs: make(map[string]*RuleConfig)}
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("registry: read embedded locales: %w", err)
	}
	for _, e := range entries {
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("registry: read %s: %w", e.Name(), err)
		}
		cfg, err := ParseRuleConfig(data)
		if err != nil {
			return nil, fmt.Errorf("registry: %s: %w", e.Name(), err)
		}
		r.configs[cfg.Locale] = cfg
	}
	if _, ok := r.configs[DefaultLocale]; !ok {
		return nil, fmt.Errorf("registry: embedded locales missing baseline %q", DefaultLocale)
	}
	return r, nil
}

// Register adds or replaces a locale config, for callers with their own
// rule files. Not intended for use after generation has started.
func (r *Registry) Register(cfg *RuleConfig) {
	if cfg == nil || cfg.Locale == "" {
		return
	}
	r.mu.Lock()
	r.configs[cfg.Locale] = cfg
	r.mu.Unlock()
}

// Config resolves a locale to its rule config. Unknown locales fall back
// to the base language tag ("fr-CA" to "fr") and finally to the baseline
// locale's empty config; Config never returns nil for a registry built by
// NewRegistry.
func (r *Registry) Config(locale string) *RuleConfig {
	key := normalizeLocale(locale)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cfg, ok := r.configs[key]; ok {
		return cfg
	}
	if base, _, found := strings.Cut(key, "-"); found {
		if cfg, ok := r.configs[base]; ok {
			return cfg
		}
	}
	return r.configs[DefaultLocale]
}

// LocalizationNeeded reports whether annotating for the locale would do any
// work. False for the baseline locale and for locales resolving to an
// empty config, letting callers skip the annotation pass.
func (r *Registry) LocalizationNeeded(locale string) bool {
	return !r.Config(locale).Empty()
}

// Locales lists the registered locale keys, sorted.
func (r *Registry) Locales() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.configs))
	for k := range r.configs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalizeLocale lowercases a BCP 47-ish tag and unifies the separator.
func normalizeLocale(locale string) string {
	if locale == "" {
		return DefaultLocale
	}
	return strings.ToLower(strings.ReplaceAll(locale, "_", "-"))
}
