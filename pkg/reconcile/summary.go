package reconcile

import "github.com/agentstation/learnmerge/pkg/match"

// Summary holds the headline figures of a run.
type Summary struct {
	Total          int `json:"total" yaml:"total"`
	ExactEmail     int `json:"exactEmail" yaml:"exactEmail"`
	SamePhone      int `json:"samePhone" yaml:"samePhone"`
	FuzzyName      int `json:"fuzzyName" yaml:"fuzzyName"`
	Intra          int `json:"intraPlatform" yaml:"intraPlatform"`
	Tied           int `json:"tied" yaml:"tied"`
	NeedsReview    int `json:"needsReview" yaml:"needsReview"`
	Ready          int `json:"ready" yaml:"ready"`
	MissingCourses int `json:"missingCourses" yaml:"missingCourses"`
}

// Summarize computes the figures for pairs.
func Summarize(pairs []MatchedPair) Summary {
	s := Summary{Total: len(pairs)}
	for _, p := range pairs {
		switch p.Strategy {
		case match.StrategyExactEmail:
			s.ExactEmail++
		case match.StrategyPhone:
			s.SamePhone++
		case match.StrategyFuzzyName:
			s.FuzzyName++
		}
		if p.Kind.IsIntra() {
			s.Intra++
		}
		if p.Status == StatusReviewNeeded {
			s.Tied++
		}
		if p.NeedsReview() {
			s.NeedsReview++
		}
		s.MissingCourses += len(p.MigrationSteps)
	}
	s.Ready = s.Total - s.NeedsReview
	return s
}
