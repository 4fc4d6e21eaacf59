package match

import (
	"fmt"
	"slices"
	"strings"

	pkgerrors "github.com/agentstation/learnmerge/pkg/errors"
)

// Strategy is one way of recognising the same person on two accounts.
type Strategy string

// Strategies in priority order. A record taken by a higher strategy is not
// offered to a lower one.
const (
	StrategyExactEmail Strategy = "Exact Email"
	StrategyPhone      Strategy = "Same Phone"
	StrategyFuzzyName  Strategy = "Fuzzy Name Match"
)

// Priority lists every strategy from highest to lowest precedence.
var Priority = []Strategy{StrategyExactEmail, StrategyPhone, StrategyFuzzyName}

// ParseStrategy accepts a strategy label or a short alias
// (email, phone, fuzzy, name).
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "email", "exact-email", "exact_email", "exact email":
		return StrategyExactEmail, nil
	case "phone", "same-phone", "same_phone", "same phone":
		return StrategyPhone, nil
	case "fuzzy", "name", "fuzzy-name", "fuzzy_name", "fuzzy name match":
		return StrategyFuzzyName, nil
	}
	return "", pkgerrors.NewValidationError("strategies", s, fmt.Sprintf("unknown strategy %q (want email, phone or fuzzy)", s))
}

// DefaultThreshold is the fuzzy-name acceptance threshold.
const DefaultThreshold = 0.85

// Config governs one matching run. It is not modified during the run.
type Config struct {
	// Threshold is the minimum name similarity (0..1) for a fuzzy match.
	// The bound is inclusive: a similarity equal to Threshold matches, so
	// a threshold of 1 still accepts identical names.
	Threshold float64 `json:"fuzzyThreshold" yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`

	// IntraPlatform additionally scans each platform against itself.
	IntraPlatform bool `json:"checkIntraPlatform" yaml:"intra_platform" mapstructure:"intra_platform"`

	// LocaleAware folds Arabic orthographic variants in names.
	LocaleAware bool `json:"normalizeArabic" yaml:"normalize_arabic" mapstructure:"normalize_arabic"`

	// Strategies enabled for this run.
	Strategies []Strategy `json:"strategies" yaml:"strategies" mapstructure:"strategies"`
}

// DefaultConfig enables every strategy with locale folding on and the
// intra-platform scan off.
func DefaultConfig() Config {
	return Config{
		Threshold:     DefaultThreshold,
		IntraPlatform: false,
		LocaleAware:   true,
		Strategies:    slices.Clone(Priority),
	}
}

// Validate checks the threshold range and strategy names.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return pkgerrors.NewValidationError("fuzzy_threshold", c.Threshold, "must be between 0 and 1")
	}
	if len(c.Strategies) == 0 {
		return pkgerrors.NewValidationError("strategies", nil, "at least one strategy must be enabled")
	}
	for _, s := range c.Strategies {
		if !slices.Contains(Priority, s) {
			return pkgerrors.NewValidationError("strategies", s, fmt.Sprintf("unknown strategy %q", s))
		}
	}
	return nil
}

// Enabled reports whether s is part of the configuration.
func (c Config) Enabled(s Strategy) bool {
	return slices.Contains(c.Strategies, s)
}

// ordered returns the enabled strategies in priority order.
func (c Config) ordered() []Strategy {
	out := make([]Strategy, 0, len(Priority))
	for _, s := range Priority {
		if c.Enabled(s) {
			out = append(out, s)
		}
	}
	return out
}
