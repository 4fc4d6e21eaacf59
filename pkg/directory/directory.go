// Package directory indexes the employee directory by official and personal
// email and classifies learner emails against it.
package directory

import (
	"github.com/agentstation/learnmerge/pkg/normalize"
	"github.com/agentstation/learnmerge/pkg/records"
)

// EmailType classifies an email against the directory.
type EmailType string

// Email classifications.
const (
	EmailOfficial EmailType = "Official"
	EmailPersonal EmailType = "Personal"
	EmailUnknown  EmailType = "Unknown"
)

// Index maps normalized emails to directory records. The zero value and a
// nil *Index are both empty indexes.
type Index struct {
	byEmail map[string]records.DirectoryRecord
	size    int
}

// NewIndex indexes both emails of each record. When two records claim the
// same email, the first one keeps it.
func NewIndex(recs []records.DirectoryRecord) *Index {
	idx := &Index{byEmail: make(map[string]records.DirectoryRecord, len(recs)*2), size: len(recs)}
	for _, r := range recs {
		for _, e := range []string{r.OfficialEmail, r.PersonalEmail} {
			key := normalize.Clean(e)
			if key == "" {
				continue
			}
			if _, ok := idx.byEmail[key]; !ok {
				idx.byEmail[key] = r
			}
		}
	}
	return idx
}

// Len is the number of directory records indexed.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return idx.size
}

// Lookup finds the record owning email.
func (idx *Index) Lookup(email string) (records.DirectoryRecord, bool) {
	if idx == nil || idx.byEmail == nil {
		return records.DirectoryRecord{}, false
	}
	r, ok := idx.byEmail[normalize.Clean(email)]
	return r, ok
}

// Classify reports Official when email is its record's official address,
// Personal when it resolves to a record through any other address and
// Unknown when the directory has no record for it.
func (idx *Index) Classify(email string) EmailType {
	r, ok := idx.Lookup(email)
	if !ok {
		return EmailUnknown
	}
	if normalize.Clean(r.OfficialEmail) == normalize.Clean(email) {
		return EmailOfficial
	}
	return EmailPersonal
}
