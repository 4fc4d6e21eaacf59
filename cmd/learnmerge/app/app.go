// Package app provides the application context and dependency management
// for the learnmerge CLI: configuration, logging, and construction of the
// reconciliation engine and the narrative reviewer.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/learnmerge"
	"github.com/agentstation/learnmerge/internal/narrative"
	"github.com/agentstation/learnmerge/pkg/errors"
)

// App represents the learnmerge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// reviewer overrides the Gemini-backed reviewer (tests)
	reviewer learnmerge.Reviewer
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, err
		}
		app.config = config
	}
	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Engine creates a reconciliation engine from the configuration. Extra
// options are applied last, so command flags override configured values.
func (a *App) Engine(opts ...learnmerge.Option) (learnmerge.Engine, error) {
	base := []learnmerge.Option{
		learnmerge.WithThreshold(a.config.FuzzyThreshold),
		learnmerge.WithIntraPlatform(a.config.IntraPlatform),
		learnmerge.WithLocaleAware(a.config.NormalizeArabic),
		learnmerge.WithWorkers(a.config.Workers),
		learnmerge.WithPlatforms(a.config.PlatformA, a.config.PlatformB),
	}
	if len(a.config.Strategies) > 0 {
		base = append(base, learnmerge.WithStrategies(a.config.Strategies...))
	}
	if a.config.ReviewConcurrency > 0 {
		base = append(base, learnmerge.WithReviewConcurrency(a.config.ReviewConcurrency))
	}
	return learnmerge.New(append(base, opts...)...)
}

// Reviewer returns the narrative reviewer. Without an API key it fails
// with an authentication error.
func (a *App) Reviewer(ctx context.Context, draftEmail bool) (learnmerge.Reviewer, error) {
	if a.reviewer != nil {
		return a.reviewer, nil
	}
	client, err := narrative.NewGeminiClient(ctx, a.config.GeminiAPIKey, a.config.GeminiModel)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("model", client.Model()).Msg("narrative reviewer ready")
	return narrative.NewNarrator(client, narrative.WithEmailDraft(draftEmail)), nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "config must not be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithReviewer replaces the Gemini-backed reviewer.
func WithReviewer(r learnmerge.Reviewer) Option {
	return func(a *App) error {
		a.reviewer = r
		return nil
	}
}
