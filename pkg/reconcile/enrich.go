package reconcile

import (
	"github.com/agentstation/learnmerge/pkg/directory"
	"github.com/agentstation/learnmerge/pkg/records"
)

// BothPersonalWarning flags pairs where neither email is an official
// directory address.
const BothPersonalWarning = "Both accounts use personal emails; neither matches an official directory address."

// EnrichFromDirectory classifies both emails, fills the display name and
// employee code, and warns when both sides are personal. The primary and
// secondary choice is not touched.
func EnrichFromDirectory(p *MatchedPair, idx *directory.Index) {
	p.EmailAType = idx.Classify(p.AccountA.Email)
	p.EmailBType = idx.Classify(p.AccountB.Email)

	if p.EmailAType == directory.EmailPersonal && p.EmailBType == directory.EmailPersonal {
		p.Warnings = append(p.Warnings, BothPersonalWarning)
	}

	rec, ok := idx.Lookup(p.AccountA.Email)
	if !ok {
		rec, ok = idx.Lookup(p.AccountB.Email)
	}
	if ok {
		p.EmployeeCode = rec.EmployeeCode
		if rec.FullName != "" && rec.FullName != records.UnknownName {
			p.Name = rec.FullName
			return
		}
	}
	switch {
	case p.AccountA.FullName != "":
		p.Name = p.AccountA.FullName
	case p.AccountB.FullName != "":
		p.Name = p.AccountB.FullName
	default:
		p.Name = records.UnknownName
	}
}
