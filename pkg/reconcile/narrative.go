package reconcile

import (
	"fmt"

	"github.com/agentstation/learnmerge/pkg/normalize"
)

// AnalysisFailedWarning prefixes the warning left by a failed enrichment.
const AnalysisFailedWarning = "AI Analysis Failed"

// analysisExcerpt bounds how much narrative is echoed into the decision
// reason.
const analysisExcerpt = 50

// StepAction rewrites the action text of one migration step.
type StepAction struct {
	CourseName string `json:"courseName"`
	Action     string `json:"action"`
}

// NarrativeUpdate is the partial update an external reviewer, human or
// model, may deliver for a pair.
type NarrativeUpdate struct {
	Analysis              string
	ShouldDeleteSecondary *bool
	DeletionReason        string
	StepActions           []StepAction
	Warnings              []string
	EmailDraft            string

	// Err marks a failed enrichment; nothing else is applied.
	Err error
}

// ApplyNarrative returns a copy of p with the update applied. Match,
// decision and migration-step facts are never changed: only narrative,
// deletion rationale, step action text, warnings and the email draft.
func ApplyNarrative(p MatchedPair, u NarrativeUpdate) MatchedPair {
	out := p.Clone()

	if u.Err != nil {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %v", AnalysisFailedWarning, u.Err))
		return out
	}

	if u.Analysis != "" {
		out.AIAnalysis = u.Analysis
		out.DecisionReason = fmt.Sprintf("%s (Verified by AI: %s)", out.DecisionReason, excerpt(u.Analysis, analysisExcerpt))
	}
	if u.ShouldDeleteSecondary != nil {
		out.ShouldDeleteSecondary = *u.ShouldDeleteSecondary
	}
	if u.DeletionReason != "" {
		out.DeletionReason = u.DeletionReason
	}

	if len(u.StepActions) > 0 {
		actions := make(map[string]string, len(u.StepActions))
		for _, sa := range u.StepActions {
			if sa.Action != "" {
				actions[normalize.Clean(sa.CourseName)] = sa.Action
			}
		}
		for i, step := range out.MigrationSteps {
			if action, ok := actions[normalize.Clean(step.CourseName)]; ok {
				out.MigrationSteps[i].Action = action
			}
		}
	}

	for _, w := range u.Warnings {
		if w != "" {
			out.Warnings = append(out.Warnings, w)
		}
	}
	if u.EmailDraft != "" {
		out.EmailDraft = u.EmailDraft
	}
	return out
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
