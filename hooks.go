package learnmerge

import (
	"sync"

	"github.com/agentstation/learnmerge/pkg/reconcile"
)

// Hook function types for pair events
type (
	// PairDecidedHook is called once per pair after a run decides it
	PairDecidedHook func(pair reconcile.MatchedPair)

	// PairEnrichedHook is called after a review has been applied to a pair
	PairEnrichedHook func(before, after reconcile.MatchedPair)
)

// hooks manages event callbacks for reconciliation runs
type hooks struct {
	mu             sync.RWMutex
	onPairDecided  []PairDecidedHook
	onPairEnriched []PairEnrichedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnPairDecided registers a callback for decided pairs
func (h *hooks) OnPairDecided(fn PairDecidedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onPairDecided = append(h.onPairDecided, fn)
}

// OnPairEnriched registers a callback for reviewed pairs
func (h *hooks) OnPairEnriched(fn PairEnrichedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onPairEnriched = append(h.onPairEnriched, fn)
}

func (h *hooks) triggerPairDecided(p reconcile.MatchedPair) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onPairDecided {
		fn(p.Clone())
	}
}

func (h *hooks) triggerPairEnriched(before, after reconcile.MatchedPair) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onPairEnriched {
		fn(before.Clone(), after.Clone())
	}
}
