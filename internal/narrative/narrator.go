package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/logging"
	"github.com/agentstation/learnmerge/pkg/reconcile"
)

// DraftFailedWarning prefixes the warning left when no email draft could
// be produced.
const DraftFailedWarning = "Email Draft Failed"

// Narrator turns model output into narrative updates for matched pairs.
type Narrator struct {
	client Client
	draft  bool
}

// Option configures a Narrator.
type Option func(*Narrator)

// WithEmailDraft also requests an email draft for every reviewed pair.
func WithEmailDraft(enabled bool) Option {
	return func(n *Narrator) {
		n.draft = enabled
	}
}

// NewNarrator creates a Narrator backed by client.
func NewNarrator(client Client, opts ...Option) *Narrator {
	n := &Narrator{client: client}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// analysisResponse mirrors AnalysisSchema.
type analysisResponse struct {
	Analysis              string                 `json:"analysis"`
	ShouldDeleteSecondary *bool                  `json:"shouldDeleteSecondary"`
	DeletionReason        string                 `json:"deletionReason"`
	MigrationSteps        []reconcile.StepAction `json:"migrationSteps"`
	Warnings              []string               `json:"warnings"`
}

// AnalysisSchema is the response schema sent with every analysis request.
func AnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"analysis": {
				Type:        genai.TypeString,
				Description: "A summarized reasoning for the decision.",
			},
			"shouldDeleteSecondary": {Type: genai.TypeBoolean},
			"deletionReason":        {Type: genai.TypeString},
			"migrationSteps": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"courseName": {Type: genai.TypeString},
						"action":     {Type: genai.TypeString},
					},
				},
			},
			"warnings": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"analysis", "shouldDeleteSecondary", "deletionReason", "migrationSteps"},
	}
}

// Review analyzes p and, when enabled, drafts the notification email. The
// update always comes back; failures are carried in it rather than
// returned.
func (n *Narrator) Review(ctx context.Context, p reconcile.MatchedPair) reconcile.NarrativeUpdate {
	u := n.Analyze(ctx, p)
	if u.Err != nil || !n.draft {
		return u
	}

	draft, err := n.DraftEmail(ctx, p)
	if err != nil {
		u.Warnings = append(u.Warnings, fmt.Sprintf("%s: %v", DraftFailedWarning, err))
		return u
	}
	u.EmailDraft = draft
	return u
}

// Analyze asks the model to verify the decision for p.
func (n *Narrator) Analyze(ctx context.Context, p reconcile.MatchedPair) reconcile.NarrativeUpdate {
	logger := logging.FromContext(ctx).With().Str("pair", p.ID).Logger()

	prompt, err := AnalysisPrompt(p)
	if err != nil {
		return reconcile.NarrativeUpdate{Err: err}
	}

	raw, err := n.client.GenerateJSON(ctx, prompt, AnalysisSchema())
	if err != nil {
		logger.Warn().Err(err).Msg("narrative analysis failed")
		return reconcile.NarrativeUpdate{Err: err}
	}

	var resp analysisResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		logger.Warn().Err(err).Msg("narrative analysis returned malformed JSON")
		return reconcile.NarrativeUpdate{Err: errors.NewParseError("json", "", "malformed analysis response", err)}
	}
	if strings.TrimSpace(resp.Analysis) == "" {
		return reconcile.NarrativeUpdate{Err: errors.NewAPIError(providerName, 0, "analysis missing from response")}
	}

	logger.Debug().Int("steps", len(resp.MigrationSteps)).Msg("narrative analysis received")
	return reconcile.NarrativeUpdate{
		Analysis:              resp.Analysis,
		ShouldDeleteSecondary: resp.ShouldDeleteSecondary,
		DeletionReason:        resp.DeletionReason,
		StepActions:           resp.MigrationSteps,
		Warnings:              resp.Warnings,
	}
}

// DraftEmail asks the model for a notification email addressed to the
// person behind p.
func (n *Narrator) DraftEmail(ctx context.Context, p reconcile.MatchedPair) (string, error) {
	text, err := n.client.GenerateText(ctx, EmailPrompt(p))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// AnalysisPrompt renders the analysis request for p.
func AnalysisPrompt(p reconcile.MatchedPair) (string, error) {
	primary, err := json.Marshal(p.Primary())
	if err != nil {
		return "", errors.WrapParse("json", "", err)
	}
	secondary, err := json.Marshal(p.Secondary())
	if err != nil {
		return "", errors.WrapParse("json", "", err)
	}

	var b strings.Builder
	b.WriteString("Analyze duplicate user pair.\n")
	fmt.Fprintf(&b, "Match: %s (%s, score %d)\n", p.Kind, p.Strategy, p.Score)
	fmt.Fprintf(&b, "Decision: %s\n", p.DecisionReason)
	fmt.Fprintf(&b, "Primary: %s\n", primary)
	fmt.Fprintf(&b, "Secondary: %s\n", secondary)
	fmt.Fprintf(&b, "Warnings: %s\n", strings.Join(p.Warnings, ", "))
	return b.String(), nil
}

// EmailPrompt renders the email draft request for p.
func EmailPrompt(p reconcile.MatchedPair) string {
	transfer := "no"
	if len(p.MigrationSteps) > 0 {
		transfer = "yes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a professional and polite email to an employee named %s.\n", p.Name)
	b.WriteString("Context: We found two accounts for them in our LMS:\n")
	fmt.Fprintf(&b, "1. %s (We have marked this as Primary)\n", p.PrimaryEmail)
	fmt.Fprintf(&b, "2. %s (We intend to merge/archive this)\n\n", p.SecondaryEmail)
	b.WriteString("Explain that we are cleaning up the system to ensure their learning progress is unified.\n")
	fmt.Fprintf(&b, "If there are migration steps (%s), mention that we are handling progress transfer.\n", transfer)
	b.WriteString("Ask them to confirm if they have any objections within 48 hours.\n\n")
	b.WriteString("Format: Subject Line + Body.\n")
	return b.String()
}
