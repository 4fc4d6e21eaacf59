// Package match finds candidate duplicate accounts across two platforms and,
// optionally, within each platform.
//
// Strategies run in a fixed priority order over one reservation table per
// run, so a record consumed by exact email is never offered to the phone or
// fuzzy-name strategies for the same scope.
package match

import (
	"context"
	"math"
	"sync"

	"github.com/agnivade/levenshtein"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/learnmerge/pkg/logging"
	"github.com/agentstation/learnmerge/pkg/normalize"
	"github.com/agentstation/learnmerge/pkg/records"
)

// Kind tells inter-platform pairs from same-platform pairs.
type Kind string

// KindInter marks a pair spanning both platforms.
const KindInter Kind = "Inter-Platform"

// IntraKind is the kind of a pair found inside platform p.
func IntraKind(p records.Platform) Kind {
	return Kind("Intra-" + p.String())
}

// IsIntra reports whether k is a same-platform kind.
func (k Kind) IsIntra() bool {
	return k != KindInter
}

// Candidate is a matched pair before any decision is made.
type Candidate struct {
	Kind     Kind                   `json:"type" yaml:"type"`
	Strategy Strategy               `json:"matchReason" yaml:"matchReason"`
	Score    int                    `json:"matchScore" yaml:"matchScore"`
	A        records.IdentityRecord `json:"accountA" yaml:"accountA"`
	B        records.IdentityRecord `json:"accountB" yaml:"accountB"`
}

// Matcher pairs consolidated record sets under a Config.
type Matcher struct {
	cfg     Config
	nameKey normalize.Func
}

// New validates cfg and returns a Matcher.
func New(cfg Config) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{cfg: cfg, nameKey: normalize.New(cfg.LocaleAware)}, nil
}

// Config returns the matcher configuration.
func (m *Matcher) Config() Config {
	return m.cfg
}

// Similarity is 1 minus the rune Levenshtein distance over the longer
// length. Two empty strings are identical.
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// pool is one platform's records with precomputed keys.
type pool struct {
	scope  string
	recs   []records.IdentityRecord
	names  []string
	phones []string
}

func (m *Matcher) newPool(scope string, recs []records.IdentityRecord) *pool {
	p := &pool{
		scope:  scope,
		recs:   recs,
		names:  make([]string, len(recs)),
		phones: make([]string, len(recs)),
	}
	for i, r := range recs {
		p.names[i] = m.nameKey(r.FullName)
		p.phones[i] = normalize.Phone(r.Phone)
	}
	return p
}

func (p *pool) key(s Strategy, i int) string {
	switch s {
	case StrategyExactEmail:
		return p.recs[i].Email
	case StrategyPhone:
		return p.phones[i]
	}
	return ""
}

// sameEmail reports whether two records share an email. Such records are
// only ever paired by the exact-email strategy, so a pair's primary and
// secondary emails always differ.
func sameEmail(left *pool, i int, right *pool, j int) bool {
	return left.recs[i].Email == right.recs[j].Email
}

type slot struct {
	scope string
	pool  string
	index int
}

// reservations records which records a strategy has consumed. Every
// strategy of a run observes the same table.
type reservations struct {
	mu    sync.Mutex
	taken map[slot]struct{}
}

func newReservations() *reservations {
	return &reservations{taken: make(map[slot]struct{})}
}

func (r *reservations) isTaken(scope string, p *pool, i int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.taken[slot{scope, p.scope, i}]
	return ok
}

// reserve claims both records for scope, or neither.
func (r *reservations) reserve(scope string, left *pool, i int, right *pool, j int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, b := slot{scope, left.scope, i}, slot{scope, right.scope, j}
	if _, ok := r.taken[a]; ok {
		return false
	}
	if _, ok := r.taken[b]; ok {
		return false
	}
	r.taken[a] = struct{}{}
	r.taken[b] = struct{}{}
	return true
}

// Match returns inter-platform candidates in strategy priority order,
// followed by intra-platform candidates for a and then b when enabled.
// Output depends only on input order and configuration.
func (m *Matcher) Match(ctx context.Context, platformA records.Platform, a []records.IdentityRecord, platformB records.Platform, b []records.IdentityRecord) ([]Candidate, error) {
	logger := logging.FromContext(ctx)
	res := newReservations()
	left := m.newPool("A", a)
	right := m.newPool("B", b)

	var out []Candidate
	for _, s := range m.cfg.ordered() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found := m.pair(s, KindInter, "inter", left, right, false, res)
		logger.Debug().Str("strategy", string(s)).Int("pairs", len(found)).Msg("inter-platform strategy done")
		out = append(out, found...)
	}

	if !m.cfg.IntraPlatform {
		return out, nil
	}

	var intraA, intraB []Candidate
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		intraA, err = m.intra(egCtx, IntraKind(platformA), left, res)
		return err
	})
	eg.Go(func() error {
		var err error
		intraB, err = m.intra(egCtx, IntraKind(platformB), right, res)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	out = append(out, intraA...)
	return append(out, intraB...), nil
}

func (m *Matcher) intra(ctx context.Context, kind Kind, p *pool, res *reservations) ([]Candidate, error) {
	var out []Candidate
	scope := "intra:" + p.scope
	for _, s := range m.cfg.ordered() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, m.pair(s, kind, scope, p, p, true, res)...)
	}
	return out, nil
}

// pair runs one strategy. When same is set, left and right are one pool and
// only j > i is considered, which excludes self pairs and mirrored repeats.
func (m *Matcher) pair(s Strategy, kind Kind, scope string, left, right *pool, same bool, res *reservations) []Candidate {
	if s == StrategyFuzzyName {
		return m.pairFuzzy(kind, scope, left, right, same, res)
	}

	index := make(map[string][]int)
	for j := range right.recs {
		if k := right.key(s, j); k != "" {
			index[k] = append(index[k], j)
		}
	}

	var out []Candidate
	for i := range left.recs {
		k := left.key(s, i)
		if k == "" || res.isTaken(scope, left, i) {
			continue
		}
		for _, j := range index[k] {
			if same && j <= i {
				continue
			}
			if s != StrategyExactEmail && sameEmail(left, i, right, j) {
				continue
			}
			if res.reserve(scope, left, i, right, j) {
				out = append(out, Candidate{Kind: kind, Strategy: s, Score: 100, A: left.recs[i], B: right.recs[j]})
				break
			}
		}
	}
	return out
}

func (m *Matcher) pairFuzzy(kind Kind, scope string, left, right *pool, same bool, res *reservations) []Candidate {
	var out []Candidate
	for i := range left.recs {
		name := left.names[i]
		if name == "" || res.isTaken(scope, left, i) {
			continue
		}
		best, bestSim := -1, -1.0
		for j := range right.recs {
			if same && j <= i {
				continue
			}
			if right.names[j] == "" || res.isTaken(scope, right, j) || sameEmail(left, i, right, j) {
				continue
			}
			if sim := Similarity(name, right.names[j]); sim > bestSim {
				best, bestSim = j, sim
			}
		}
		if best < 0 || bestSim < m.cfg.Threshold {
			continue
		}
		if res.reserve(scope, left, i, right, best) {
			out = append(out, Candidate{
				Kind:     kind,
				Strategy: StrategyFuzzyName,
				Score:    int(math.Round(bestSim * 100)),
				A:        left.recs[i],
				B:        right.recs[best],
			})
		}
	}
	return out
}
