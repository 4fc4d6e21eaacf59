package reconcile

import (
	"fmt"

	"github.com/agentstation/learnmerge/pkg/match"
	"github.com/agentstation/learnmerge/pkg/normalize"
	"github.com/agentstation/learnmerge/pkg/records"
)

// TieWarning is attached to every pair whose completion counts are equal.
const TieWarning = "Equal progress on both platforms. Please manually select the primary account."

// Decision is the outcome of comparing two accounts.
type Decision struct {
	Status   Status
	Winner   Side
	Reason   string
	Warnings []string
}

// Decide keeps the account with strictly more completed courses. Equal
// counts yield a review-needed decision that provisionally keeps side A so
// gap analysis has a defined direction.
func Decide(kind match.Kind, a, b records.IdentityRecord) Decision {
	countA, countB := a.CompletedCount(), b.CompletedCount()
	labelA, labelB := sideLabel(kind, a), sideLabel(kind, b)

	switch {
	case countA > countB:
		return Decision{
			Status: StatusDecided,
			Winner: SideA,
			Reason: fmt.Sprintf("%s account has more completed courses (%d) than %s (%d).", labelA, countA, labelB, countB),
		}
	case countB > countA:
		return Decision{
			Status: StatusDecided,
			Winner: SideB,
			Reason: fmt.Sprintf("%s account has more completed courses (%d) than %s (%d).", labelB, countB, labelA, countA),
		}
	}
	return Decision{
		Status:   StatusReviewNeeded,
		Winner:   SideA,
		Reason:   fmt.Sprintf("Both accounts have equal course completion count (%d). Manual selection recommended (defaulting to %s for view).", countA, labelA),
		Warnings: []string{TieWarning},
	}
}

// sideLabel names an account in decision text: the platform for
// cross-platform pairs, the email for same-platform pairs.
func sideLabel(kind match.Kind, r records.IdentityRecord) string {
	if kind.IsIntra() {
		return r.Email
	}
	return r.Platform.String()
}

// GapAction describes the migration needed for course.
func GapAction(course string) string {
	return fmt.Sprintf("Gap Found: '%s' is Completed in Secondary but missing in Primary.", course)
}

// Gaps lists, in the loser's course order, every course the loser
// completed that the winner has not.
func Gaps(winner, loser records.IdentityRecord) []MigrationStep {
	have := winner.CourseKeys()
	steps := []MigrationStep{}
	for _, course := range loser.CompletedCourses {
		if _, ok := have[normalize.Clean(course)]; ok {
			continue
		}
		steps = append(steps, MigrationStep{
			CourseName:        course,
			PrimaryProgress:   0,
			SecondaryProgress: 100,
			Action:            GapAction(course),
		})
	}
	return steps
}
