package learnmerge

import (
	"slices"

	"github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/match"
	"github.com/agentstation/learnmerge/pkg/records"
)

// DefaultReviewConcurrency bounds concurrent narrative requests.
const DefaultReviewConcurrency = 4

// config holds the engine configuration
type config struct {
	match     match.Config
	workers   int
	platformA records.Platform
	platformB records.Platform

	reviewer          Reviewer
	reviewConcurrency int
	autoEnrich        bool
}

func defaultConfig() *config {
	return &config{
		match:             match.DefaultConfig(),
		platformA:         records.PlatformTalent,
		platformB:         records.PlatformPharmacy,
		reviewConcurrency: DefaultReviewConcurrency,
	}
}

// Option is a function that configures an Engine
type Option func(*config) error

// options applies opts and validates the result
func (e *engine) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(e.config); err != nil {
			return err
		}
	}
	if err := e.config.match.Validate(); err != nil {
		return err
	}
	if e.config.platformA == e.config.platformB {
		return errors.NewValidationError("platforms", e.config.platformA, "the two platforms need distinct labels")
	}
	return nil
}

// WithMatchConfig replaces the whole match configuration
func WithMatchConfig(cfg match.Config) Option {
	return func(c *config) error {
		cfg.Strategies = slices.Clone(cfg.Strategies)
		c.match = cfg
		return nil
	}
}

// WithThreshold sets the fuzzy-name acceptance threshold (0..1)
func WithThreshold(threshold float64) Option {
	return func(c *config) error {
		c.match.Threshold = threshold
		return nil
	}
}

// WithIntraPlatform enables scanning each platform against itself
func WithIntraPlatform(enabled bool) Option {
	return func(c *config) error {
		c.match.IntraPlatform = enabled
		return nil
	}
}

// WithLocaleAware toggles Arabic name folding
func WithLocaleAware(enabled bool) Option {
	return func(c *config) error {
		c.match.LocaleAware = enabled
		return nil
	}
}

// WithStrategies restricts matching to the named strategies. Names may be
// labels or aliases accepted by match.ParseStrategy.
func WithStrategies(names ...string) Option {
	return func(c *config) error {
		strategies := make([]match.Strategy, 0, len(names))
		for _, name := range names {
			s, err := match.ParseStrategy(name)
			if err != nil {
				return err
			}
			if !slices.Contains(strategies, s) {
				strategies = append(strategies, s)
			}
		}
		c.match.Strategies = strategies
		return nil
	}
}

// WithWorkers sets how many goroutines build records from rows
func WithWorkers(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return errors.NewValidationError("workers", n, "must not be negative")
		}
		c.workers = n
		return nil
	}
}

// WithPlatforms labels the two inputs. Empty labels keep the defaults.
func WithPlatforms(a, b string) Option {
	return func(c *config) error {
		if a != "" {
			c.platformA = records.Platform(a)
		}
		if b != "" {
			c.platformB = records.Platform(b)
		}
		return nil
	}
}

// WithReviewer configures the narrative reviewer used by Enrich
func WithReviewer(r Reviewer) Option {
	return func(c *config) error {
		c.reviewer = r
		return nil
	}
}

// WithAutoEnrich runs Enrich at the end of every reconciliation
func WithAutoEnrich(enabled bool) Option {
	return func(c *config) error {
		c.autoEnrich = enabled
		return nil
	}
}

// WithReviewConcurrency bounds concurrent reviewer calls
func WithReviewConcurrency(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.NewValidationError("review_concurrency", n, "must be at least 1")
		}
		c.reviewConcurrency = n
		return nil
	}
}
