package records

import (
	"strings"

	"github.com/agentstation/learnmerge/pkg/normalize"
)

const passGradePhrase = "completed (achieved pass grade)"

var excludedStatuses = []string{"not completed", "failed", "in progress"}

// IsCompleted reports whether a status cell means the course was completed.
//
// Cells containing "not completed", "failed" or "in progress" never count.
// Otherwise the cell counts when it is exactly "completed", contains
// "completed (achieved pass grade)", or starts with "completed" and has no
// "not" anywhere in it.
func IsCompleted(cell string) bool {
	text := normalize.Clean(cell)
	if text == "" {
		return false
	}
	for _, ex := range excludedStatuses {
		if strings.Contains(text, ex) {
			return false
		}
	}
	switch {
	case text == "completed":
		return true
	case strings.Contains(text, passGradePhrase):
		return true
	case strings.HasPrefix(text, "completed") && !strings.Contains(text, "not"):
		return true
	}
	return false
}
