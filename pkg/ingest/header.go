package ingest

import "strings"

// HeaderScanRows bounds how far header detection looks.
const HeaderScanRows = 20

var (
	// primaryKeywords mark a header row on their own.
	primaryKeywords = []string{"email", "e-mail", "mail", "username", "user name", "login", "user_id"}

	// secondaryKeywords need two hits in one row.
	secondaryKeywords = []string{"name", "fullname", "full name", "student", "phone", "mobile", "role", "status", "id", "user", "employee"}
)

// DetectHeaderRow returns the index of the header row within the first
// HeaderScanRows rows. Rows are examined in order: a row with a cell equal
// to, or starting with, a primary keyword is the header, as is a row with
// at least two cells containing a secondary keyword. The first row to
// satisfy either test wins. Row 0 is the fallback.
func DetectHeaderRow(rows [][]string) int {
	limit := min(len(rows), HeaderScanRows)

	for i := 0; i < limit; i++ {
		cells := cleanCells(rows[i])
		hits := 0
		for _, cell := range cells {
			if isPrimaryKeyword(cell) {
				return i
			}
			if containsSecondaryKeyword(cell) {
				hits++
			}
		}
		if hits >= 2 {
			return i
		}
	}

	return 0
}

func isPrimaryKeyword(cell string) bool {
	if cell == "" {
		return false
	}
	for _, kw := range primaryKeywords {
		if cell == kw || strings.HasPrefix(cell, kw+" ") {
			return true
		}
	}
	return false
}

func containsSecondaryKeyword(cell string) bool {
	if cell == "" {
		return false
	}
	for _, kw := range secondaryKeywords {
		if strings.Contains(cell, kw) {
			return true
		}
	}
	return false
}
