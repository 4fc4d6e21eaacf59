// Package narrative asks a generative model to review reconciled pairs and
// to draft the notification email sent to the affected employee.
//
// Nothing produced here changes a match or a decision: the Narrator returns
// a reconcile.NarrativeUpdate and the caller applies it with
// reconcile.ApplyNarrative.
package narrative

import (
	"context"

	"google.golang.org/genai"
)

// Client is the model surface the Narrator needs.
type Client interface {
	// GenerateJSON returns a JSON document conforming to schema.
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)

	// GenerateText returns free-form text.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
