package records

// Consolidate merges records sharing an email into one, in order of first
// appearance. The first record's scalar fields are kept and completed
// courses are unioned by normalized name, first spelling winning.
// Applying Consolidate to its own output returns an equal slice.
func Consolidate(recs []IdentityRecord) []IdentityRecord {
	if len(recs) == 0 {
		return nil
	}

	index := make(map[string]int, len(recs))
	seen := make([]map[string]struct{}, 0, len(recs))
	out := make([]IdentityRecord, 0, len(recs))

	for _, r := range recs {
		i, ok := index[r.Email]
		if !ok {
			merged := r
			merged.CompletedCourses = nil
			keys := make(map[string]struct{}, len(r.CompletedCourses))
			for _, c := range r.CompletedCourses {
				merged.CompletedCourses = appendUnique(merged.CompletedCourses, keys, c)
			}
			index[r.Email] = len(out)
			out = append(out, merged)
			seen = append(seen, keys)
			continue
		}
		for _, c := range r.CompletedCourses {
			out[i].CompletedCourses = appendUnique(out[i].CompletedCourses, seen[i], c)
		}
	}
	return out
}
