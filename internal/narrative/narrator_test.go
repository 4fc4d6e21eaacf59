package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	pkgerrors "github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/match"
	"github.com/agentstation/learnmerge/pkg/reconcile"
	"github.com/agentstation/learnmerge/pkg/records"
)

type fakeClient struct {
	json    string
	jsonErr error
	text    string
	textErr error

	prompts []string
	schema  *genai.Schema
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, schema *genai.Schema) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.schema = schema
	return f.json, f.jsonErr
}

func (f *fakeClient) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.textErr
}

func testPair() reconcile.MatchedPair {
	c := match.Candidate{
		Kind:     match.KindInter,
		Strategy: match.StrategyExactEmail,
		Score:    100,
		A: records.IdentityRecord{
			ID: "T1", FullName: "John Doe", Email: "john@x.com",
			Platform: records.PlatformTalent, CompletedCourses: []string{"Safety", "Ethics"},
		},
		B: records.IdentityRecord{
			ID: "P1", FullName: "John Doe", Email: "john@x.com",
			Platform: records.PlatformPharmacy, CompletedCourses: []string{"Safety", "Leadership", "Compliance"},
		},
	}
	return reconcile.NewPair(c, nil)
}

func TestAnalysisSchema(t *testing.T) {
	s := AnalysisSchema()
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"analysis", "shouldDeleteSecondary", "deletionReason", "migrationSteps"}, s.Required)
	require.Contains(t, s.Properties, "migrationSteps")
	assert.Equal(t, genai.TypeArray, s.Properties["migrationSteps"].Type)
	assert.Contains(t, s.Properties["migrationSteps"].Items.Properties, "courseName")
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeClient
		wantErr bool
		check   func(t *testing.T, u reconcile.NarrativeUpdate)
	}{
		{
			name: "valid response",
			client: &fakeClient{json: `{
				"analysis": "Pharmacy holds more completions and the same email.",
				"shouldDeleteSecondary": false,
				"deletionReason": "Keep for audit",
				"migrationSteps": [{"courseName": "ethics", "action": "Copy Ethics certificate"}],
				"warnings": ["check manager"]
			}`},
			check: func(t *testing.T, u reconcile.NarrativeUpdate) {
				assert.Equal(t, "Pharmacy holds more completions and the same email.", u.Analysis)
				require.NotNil(t, u.ShouldDeleteSecondary)
				assert.False(t, *u.ShouldDeleteSecondary)
				assert.Equal(t, "Keep for audit", u.DeletionReason)
				assert.Equal(t, []reconcile.StepAction{{CourseName: "ethics", Action: "Copy Ethics certificate"}}, u.StepActions)
				assert.Equal(t, []string{"check manager"}, u.Warnings)
			},
		},
		{
			name:    "client failure",
			client:  &fakeClient{jsonErr: pkgerrors.NewAPIError("gemini", 429, "quota")},
			wantErr: true,
			check: func(t *testing.T, u reconcile.NarrativeUpdate) {
				assert.True(t, pkgerrors.IsRateLimited(u.Err))
			},
		},
		{
			name:    "malformed json",
			client:  &fakeClient{json: `{"analysis":`},
			wantErr: true,
			check: func(t *testing.T, u reconcile.NarrativeUpdate) {
				var pe *pkgerrors.ParseError
				assert.True(t, errors.As(u.Err, &pe))
			},
		},
		{
			name:    "missing analysis",
			client:  &fakeClient{json: `{"shouldDeleteSecondary": true}`},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewNarrator(tt.client).Analyze(context.Background(), testPair())
			if tt.wantErr {
				assert.Error(t, u.Err)
				assert.Empty(t, u.Analysis)
			} else {
				assert.NoError(t, u.Err)
			}
			if tt.check != nil {
				tt.check(t, u)
			}
			assert.NotNil(t, tt.client.schema)
		})
	}
}

func TestAnalyzeAppliesCleanly(t *testing.T) {
	client := &fakeClient{json: `{"analysis":"Same person.","shouldDeleteSecondary":true,"deletionReason":"Duplicate","migrationSteps":[]}`}
	p := testPair()

	out := reconcile.ApplyNarrative(p, NewNarrator(client).Analyze(context.Background(), p))

	assert.Equal(t, "Same person.", out.AIAnalysis)
	assert.True(t, strings.HasSuffix(out.DecisionReason, "(Verified by AI: Same person.)"))
	assert.Equal(t, p.PrimaryEmail, out.PrimaryEmail)
	assert.Equal(t, p.MigrationSteps, out.MigrationSteps)
}

func TestReview(t *testing.T) {
	okJSON := `{"analysis":"ok","shouldDeleteSecondary":true,"deletionReason":"dup","migrationSteps":[]}`

	t.Run("draft disabled", func(t *testing.T) {
		client := &fakeClient{json: okJSON, text: "Subject: hi"}
		u := NewNarrator(client).Review(context.Background(), testPair())
		assert.Empty(t, u.EmailDraft)
		assert.Len(t, client.prompts, 1)
	})

	t.Run("draft enabled", func(t *testing.T) {
		client := &fakeClient{json: okJSON, text: "  Subject: Account cleanup\n\nDear John  "}
		u := NewNarrator(client, WithEmailDraft(true)).Review(context.Background(), testPair())
		assert.Equal(t, "Subject: Account cleanup\n\nDear John", u.EmailDraft)
		assert.Len(t, client.prompts, 2)
	})

	t.Run("draft failure becomes warning", func(t *testing.T) {
		client := &fakeClient{json: okJSON, textErr: errors.New("timeout")}
		u := NewNarrator(client, WithEmailDraft(true)).Review(context.Background(), testPair())
		assert.NoError(t, u.Err)
		assert.Equal(t, []string{DraftFailedWarning + ": timeout"}, u.Warnings)
	})

	t.Run("analysis failure skips draft", func(t *testing.T) {
		client := &fakeClient{jsonErr: errors.New("down")}
		u := NewNarrator(client, WithEmailDraft(true)).Review(context.Background(), testPair())
		assert.Error(t, u.Err)
		assert.Len(t, client.prompts, 1)
	})
}

func TestPrompts(t *testing.T) {
	p := testPair()

	prompt, err := AnalysisPrompt(p)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Analyze duplicate user pair.")
	assert.Contains(t, prompt, `"platform":"Pharmacy"`)
	assert.Less(t, strings.Index(prompt, `"platform":"Pharmacy"`), strings.Index(prompt, `"platform":"Talent"`))

	email := EmailPrompt(p)
	assert.Contains(t, email, "1. john@x.com (We have marked this as Primary)")
	assert.Contains(t, email, "migration steps (yes)")
	assert.Contains(t, email, "within 48 hours")
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), " ", "")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsAPIKeyError(err))
}
