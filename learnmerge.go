// Package learnmerge reconciles learner identity exports from two learning
// platforms against an employee directory. It finds accounts that belong to
// the same person, decides which one to keep, and lists the course
// completions that would be lost by archiving the other.
//
// Basic usage:
//
//	engine, err := learnmerge.New(
//		learnmerge.WithPlatforms("Talent", "Pharmacy"),
//		learnmerge.WithIntraPlatform(true),
//	)
//	if err != nil {
//		return err
//	}
//	res, err := engine.Reconcile(ctx, learnmerge.Files{
//		A:         "talent.csv",
//		B:         "pharmacy.xlsx",
//		Directory: "employees.csv",
//	})
//
// The engine never modifies the input files and never executes the
// migration it recommends; see pkg/export for rendering the plan.
package learnmerge

import (
	"context"

	"github.com/agentstation/learnmerge/pkg/logging"
	"github.com/agentstation/learnmerge/pkg/match"
	"github.com/agentstation/learnmerge/pkg/reconcile"
)

// Engine runs reconciliations with a fixed configuration.
type Engine interface {
	// Config returns the match configuration in effect.
	Config() match.Config

	// Reconcile loads the files and reconciles them.
	Reconcile(ctx context.Context, files Files) (*reconcile.Result, error)

	// ReconcileInput reconciles already-read grids.
	ReconcileInput(ctx context.Context, in reconcile.Input) (*reconcile.Result, error)

	// Enrich requests a narrative review for every pair in res and applies
	// it in place. Requires a Reviewer.
	Enrich(ctx context.Context, res *reconcile.Result) error

	// OnPairDecided registers a callback for every pair a run produces
	OnPairDecided(PairDecidedHook)

	// OnPairEnriched registers a callback for every pair after review
	OnPairEnriched(PairEnrichedHook)
}

// engine is the internal implementation of the Engine interface
type engine struct {
	config *config
	hooks  *hooks
}

// New creates an Engine with the given options.
func New(opts ...Option) (Engine, error) {
	e := &engine{
		config: defaultConfig(),
		hooks:  newHooks(),
	}
	if err := e.options(opts...); err != nil {
		return nil, err
	}
	return e, nil
}

// Config returns the match configuration the engine runs with.
func (e *engine) Config() match.Config {
	return e.config.match
}

// Reconcile implements Engine.
func (e *engine) Reconcile(ctx context.Context, files Files) (*reconcile.Result, error) {
	ctx = logging.WithRunID(ctx, newRunID())
	in, err := e.load(ctx, files)
	if err != nil {
		return nil, err
	}
	return e.ReconcileInput(ctx, in)
}

// ReconcileInput implements Engine.
func (e *engine) ReconcileInput(ctx context.Context, in reconcile.Input) (*reconcile.Result, error) {
	if in.A.Platform == "" {
		in.A.Platform = e.config.platformA
	}
	if in.B.Platform == "" {
		in.B.Platform = e.config.platformB
	}

	res, err := reconcile.Run(ctx, in, reconcile.Options{
		Match:   e.config.match,
		Workers: e.config.workers,
	})
	if err != nil {
		return nil, err
	}

	for _, p := range res.Pairs {
		e.hooks.triggerPairDecided(p)
	}

	if e.config.autoEnrich && e.config.reviewer != nil {
		if err := e.Enrich(ctx, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// OnPairDecided implements Engine.
func (e *engine) OnPairDecided(fn PairDecidedHook) {
	e.hooks.OnPairDecided(fn)
}

// OnPairEnriched implements Engine.
func (e *engine) OnPairEnriched(fn PairEnrichedHook) {
	e.hooks.OnPairEnriched(fn)
}
