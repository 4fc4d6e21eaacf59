// Package reconcile decides which account of each duplicate pair is kept,
// computes the course completions to migrate, and classifies both emails
// against the employee directory.
package reconcile

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/agentstation/learnmerge/pkg/directory"
	"github.com/agentstation/learnmerge/pkg/match"
	"github.com/agentstation/learnmerge/pkg/records"
)

// Status is the decision state of a pair.
type Status string

// Pair states.
const (
	StatusDecided      Status = "Decided"
	StatusReviewNeeded Status = "Review Needed"
)

// Side names one account of a pair.
type Side string

// Pair sides. A is always the first input platform.
const (
	SideA Side = "A"
	SideB Side = "B"
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// MigrationStep is one course completed on the secondary account and not on
// the primary.
type MigrationStep struct {
	CourseName        string `json:"courseName" yaml:"courseName"`
	PrimaryProgress   int    `json:"primaryProgress" yaml:"primaryProgress"`
	SecondaryProgress int    `json:"secondaryProgress" yaml:"secondaryProgress"`
	Action            string `json:"action" yaml:"action"`
}

// MatchedPair is a self-contained reconciliation outcome for two accounts.
type MatchedPair struct {
	ID                    string                 `json:"id" yaml:"id"`
	Kind                  match.Kind             `json:"type" yaml:"type"`
	Strategy              match.Strategy         `json:"matchReason" yaml:"matchReason"`
	Score                 int                    `json:"matchScore" yaml:"matchScore"`
	Name                  string                 `json:"name" yaml:"name"`
	EmployeeCode          string                 `json:"employeeCode,omitempty" yaml:"employeeCode,omitempty"`
	AccountA              records.IdentityRecord `json:"accountA" yaml:"accountA"`
	AccountB              records.IdentityRecord `json:"accountB" yaml:"accountB"`
	EmailAType            directory.EmailType    `json:"emailA_Type" yaml:"emailA_Type"`
	EmailBType            directory.EmailType    `json:"emailB_Type" yaml:"emailB_Type"`
	Status                Status                 `json:"status" yaml:"status"`
	PrimarySide           Side                   `json:"primarySide" yaml:"primarySide"`
	PrimaryAccount        string                 `json:"primaryAccount" yaml:"primaryAccount"`
	PrimaryEmail          string                 `json:"primaryEmail" yaml:"primaryEmail"`
	SecondaryEmail        string                 `json:"secondaryEmail" yaml:"secondaryEmail"`
	DecisionReason        string                 `json:"decisionReason" yaml:"decisionReason"`
	ShouldDeleteSecondary bool                   `json:"shouldDeleteSecondary" yaml:"shouldDeleteSecondary"`
	DeletionReason        string                 `json:"deletionReason" yaml:"deletionReason"`
	MigrationSteps        []MigrationStep        `json:"migrationSteps" yaml:"migrationSteps"`
	Warnings              []string               `json:"warnings" yaml:"warnings"`
	AIAnalysis            string                 `json:"aiAnalysis,omitempty" yaml:"aiAnalysis,omitempty"`
	EmailDraft            string                 `json:"emailDraft,omitempty" yaml:"emailDraft,omitempty"`
}

// DefaultDeletionReason accompanies every secondary account.
const DefaultDeletionReason = "Duplicate account. Unique progress from this account needs to be merged to Primary."

// Account returns the record on side s.
func (p MatchedPair) Account(s Side) records.IdentityRecord {
	if s == SideB {
		return p.AccountB
	}
	return p.AccountA
}

// Primary returns the kept account (provisional for review-needed pairs).
func (p MatchedPair) Primary() records.IdentityRecord {
	return p.Account(p.PrimarySide)
}

// Secondary returns the account to archive.
func (p MatchedPair) Secondary() records.IdentityRecord {
	return p.Account(p.PrimarySide.Other())
}

// NeedsReview reports whether a person has to look at the pair before
// merging: ties and pairs carrying any warning.
func (p MatchedPair) NeedsReview() bool {
	return p.Status == StatusReviewNeeded || len(p.Warnings) > 0
}

// MergedPrimary returns the primary account as it would look once every
// migration step has been applied.
func (p MatchedPair) MergedPrimary() records.IdentityRecord {
	merged := p.Primary()
	merged.CompletedCourses = slices.Clone(merged.CompletedCourses)
	for _, step := range p.MigrationSteps {
		if !merged.HasCompleted(step.CourseName) {
			merged.CompletedCourses = append(merged.CompletedCourses, step.CourseName)
		}
	}
	return merged
}

// Clone returns a deep copy of p.
func (p MatchedPair) Clone() MatchedPair {
	c := p
	c.AccountA.CompletedCourses = slices.Clone(p.AccountA.CompletedCourses)
	c.AccountB.CompletedCourses = slices.Clone(p.AccountB.CompletedCourses)
	c.MigrationSteps = slices.Clone(p.MigrationSteps)
	c.Warnings = slices.Clone(p.Warnings)
	return c
}

// pairNamespace scopes deterministic pair identifiers.
var pairNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/agentstation/learnmerge/pair"))

// PairID derives a stable identifier from the pair kind and the two
// platform-qualified emails, independent of their order.
func PairID(kind match.Kind, a, b records.IdentityRecord) string {
	keys := []string{
		a.Platform.String() + ":" + a.Email,
		b.Platform.String() + ":" + b.Email,
	}
	slices.Sort(keys)
	prefix := "DUP"
	if kind.IsIntra() {
		prefix = "INT"
	}
	id := uuid.NewSHA1(pairNamespace, []byte(string(kind)+"|"+strings.Join(keys, "|")))
	return prefix + "-" + id.String()
}

// NewPair turns a match candidate into a decided, enriched pair.
func NewPair(c match.Candidate, idx *directory.Index) MatchedPair {
	p := MatchedPair{
		ID:                    PairID(c.Kind, c.A, c.B),
		Kind:                  c.Kind,
		Strategy:              c.Strategy,
		Score:                 c.Score,
		AccountA:              c.A,
		AccountB:              c.B,
		ShouldDeleteSecondary: true,
		DeletionReason:        DefaultDeletionReason,
		Warnings:              []string{},
	}

	d := Decide(c.Kind, c.A, c.B)
	p.Status = d.Status
	p.PrimarySide = d.Winner
	p.DecisionReason = d.Reason
	p.Warnings = append(p.Warnings, d.Warnings...)
	p.PrimaryAccount = primaryLabel(c.Kind, d, p.Primary())
	p.PrimaryEmail = p.Primary().Email
	p.SecondaryEmail = p.Secondary().Email
	p.MigrationSteps = Gaps(p.Primary(), p.Secondary())

	EnrichFromDirectory(&p, idx)
	return p
}

func primaryLabel(kind match.Kind, d Decision, primary records.IdentityRecord) string {
	if d.Status == StatusReviewNeeded {
		return string(StatusReviewNeeded)
	}
	if kind.IsIntra() {
		return primary.Platform.String() + " (" + primary.Email + ")"
	}
	return primary.Platform.String()
}
