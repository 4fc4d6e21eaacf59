// Package normalize turns free-form cell text into comparison keys.
//
// Every other stage compares emails, course names, header labels and person
// names through these functions, so two spellings that differ only in
// whitespace, case or Arabic orthography resolve to the same key.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Func maps raw text to a comparison key.
type Func func(string) string

// Clean replaces non-breaking and zero-width spaces, collapses whitespace
// runs to a single space, trims and lowercases.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u00a0', '\u200b':
			return ' '
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	// cases.Caser keeps state and is not safe for concurrent use.
	return cases.Lower(language.Und).String(s)
}

func isArabicDiacritic(r rune) bool {
	return r >= '\u064b' && r <= '\u065f'
}

func foldArabicLetter(r rune) rune {
	switch r {
	case 'أ', 'إ', 'آ':
		return 'ا'
	case 'ة':
		return 'ه'
	case 'ى':
		return 'ي'
	}
	return r
}

// Arabic applies Clean and then folds Arabic orthographic variants:
// harakat are dropped, hamza-carrying alifs become bare alif, taa marbuta
// becomes haa and alif maqsura becomes yaa.
func Arabic(s string) string {
	s = Clean(s)
	if s == "" || !hasArabic(s) {
		return s
	}
	t := transform.Chain(
		runes.Remove(runes.Predicate(isArabicDiacritic)),
		runes.Map(foldArabicLetter),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func hasArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}

// New returns the key function used for person names.
func New(localeAware bool) Func {
	if localeAware {
		return Arabic
	}
	return Clean
}

// Phone keeps only the decimal digits of s.
func Phone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
