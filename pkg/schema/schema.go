// Package schema maps semantic fields to column indices using header
// keywords, with a content scan as the second chance for the email column.
package schema

import (
	"fmt"
	"strings"

	"github.com/agentstation/learnmerge/pkg/ingest"
	"github.com/agentstation/learnmerge/pkg/normalize"
)

// NotFound is the column index of an unresolved field.
const NotFound = -1

// Field is a semantic column a platform export may carry.
type Field string

// Fields recognised in platform and directory exports.
const (
	FieldEmail         Field = "email"
	FieldName          Field = "name"
	FieldID            Field = "id"
	FieldPhone         Field = "phone"
	FieldRole          Field = "role"
	FieldLastLogin     Field = "last_login"
	FieldOfficialEmail Field = "official_email"
	FieldPersonalEmail Field = "personal_email"
)

// candidates are tried in order; the first header containing one wins.
var candidates = map[Field][]string{
	FieldEmail:         {"email", "e-mail", "mail", "username", "user name"},
	FieldName:          {"fullname", "full name", "name", "student", "first name"},
	FieldID:            {"id", "user id", "code", "employee code"},
	FieldPhone:         {"phone", "mobile", "contact"},
	FieldRole:          {"role", "job title", "title", "position"},
	FieldLastLogin:     {"last login", "last access"},
	FieldOfficialEmail: {"official", "company email", "work email"},
	FieldPersonalEmail: {"personal", "private"},
}

// Candidates returns the header keywords tried for f, in priority order.
func Candidates(f Field) []string {
	return append([]string(nil), candidates[f]...)
}

// FindColumn resolves f against headers. For each candidate keyword in
// order, the first header whose cleaned text contains it is returned.
func FindColumn(headers []string, f Field) int {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		cleaned[i] = normalize.Clean(h)
	}
	for _, kw := range candidates[f] {
		for i, h := range cleaned {
			if strings.Contains(h, kw) {
				return i
			}
		}
	}
	return NotFound
}

// emailScanRows is how many data rows the content fallback inspects.
const emailScanRows = 25

// LooksLikeEmail is the content heuristic used when no header names the
// email column.
func LooksLikeEmail(cell string) bool {
	v := normalize.Clean(cell)
	return len(v) > 5 && strings.Contains(v, "@") && strings.Contains(v, ".")
}

// DetectEmailByContent scores each column by how many of the first 25 data
// rows look like an email address. The top-scoring column is returned when
// it reaches two hits, or one hit for sources with fewer than five data
// rows. Ties go to the lowest column index.
func DetectEmailByContent(g *ingest.Grid) int {
	data := g.DataRows()
	threshold := 2
	if len(data) < 5 {
		threshold = 1
	}

	scores := make([]int, g.Width())
	for _, row := range data[:min(len(data), emailScanRows)] {
		for i, cell := range row {
			if LooksLikeEmail(cell) {
				scores[i]++
			}
		}
	}

	best, bestScore := NotFound, 0
	for i, s := range scores {
		if s >= threshold && s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

// EmailSource records how the email column was found.
type EmailSource string

// Email column resolution paths.
const (
	EmailFromHeader  EmailSource = "header"
	EmailFromContent EmailSource = "content"
	EmailUnresolved  EmailSource = "unresolved"
)

// Layout is the resolved column map of one export.
type Layout struct {
	Headers       []string    `json:"headers" yaml:"headers"`
	Email         int         `json:"email" yaml:"email"`
	EmailSource   EmailSource `json:"emailSource" yaml:"emailSource"`
	Name          int         `json:"name" yaml:"name"`
	ID            int         `json:"id" yaml:"id"`
	Phone         int         `json:"phone" yaml:"phone"`
	Role          int         `json:"role" yaml:"role"`
	LastLogin     int         `json:"lastLogin" yaml:"lastLogin"`
	OfficialEmail int         `json:"officialEmail" yaml:"officialEmail"`
	PersonalEmail int         `json:"personalEmail" yaml:"personalEmail"`
}

// Resolve builds the Layout for g. An empty grid resolves every field to
// NotFound.
func Resolve(g *ingest.Grid) Layout {
	headers := g.Headers()
	l := Layout{
		Headers:       headers,
		Email:         FindColumn(headers, FieldEmail),
		EmailSource:   EmailFromHeader,
		Name:          FindColumn(headers, FieldName),
		ID:            FindColumn(headers, FieldID),
		Phone:         FindColumn(headers, FieldPhone),
		Role:          FindColumn(headers, FieldRole),
		LastLogin:     FindColumn(headers, FieldLastLogin),
		OfficialEmail: FindColumn(headers, FieldOfficialEmail),
		PersonalEmail: FindColumn(headers, FieldPersonalEmail),
	}
	if l.Email == NotFound {
		l.Email = DetectEmailByContent(g)
		l.EmailSource = EmailFromContent
	}
	if l.Email == NotFound {
		l.EmailSource = EmailUnresolved
	}
	return l
}

// HasEmail reports whether rows can be keyed at all.
func (l Layout) HasEmail() bool {
	return l.Email != NotFound
}

// HasDirectoryEmail reports whether a directory row can be keyed, either by
// an official email column or by the generic email column.
func (l Layout) HasDirectoryEmail() bool {
	return l.OfficialEmail != NotFound || l.Email != NotFound
}

// IsMetadata reports whether column i holds identity data rather than a
// course status.
func (l Layout) IsMetadata(i int) bool {
	return i == l.Email || i == l.Name || i == l.ID || i == l.Phone
}

// ColumnName returns the header label for column i, or "Column N" (1-based)
// when the header cell is blank or missing.
func (l Layout) ColumnName(i int) string {
	if i >= 0 && i < len(l.Headers) {
		if h := strings.TrimSpace(l.Headers[i]); h != "" {
			return h
		}
	}
	return fmt.Sprintf("Column %d", i+1)
}

// Columns lists the resolved fields and their indices for display.
func (l Layout) Columns() []Column {
	return []Column{
		{Field: FieldEmail, Index: l.Email},
		{Field: FieldName, Index: l.Name},
		{Field: FieldID, Index: l.ID},
		{Field: FieldPhone, Index: l.Phone},
		{Field: FieldRole, Index: l.Role},
		{Field: FieldLastLogin, Index: l.LastLogin},
		{Field: FieldOfficialEmail, Index: l.OfficialEmail},
		{Field: FieldPersonalEmail, Index: l.PersonalEmail},
	}
}

// Column pairs a field with its resolved index.
type Column struct {
	Field Field `json:"field" yaml:"field"`
	Index int   `json:"index" yaml:"index"`
}
