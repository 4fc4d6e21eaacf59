package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/learnmerge/pkg/normalize"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"case and trim", "  John@X.com ", "john@x.com"},
		{"collapse runs", "Full \t  Name", "full name"},
		{"nbsp", "Safety\u00a0Training", "safety training"},
		{"zero width", "Com\u200bpleted", "com pleted"},
		{"only spaces", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Clean(tt.in))
		})
	}
}

func TestArabic(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hamza alif", "أحمد", "احمد"},
		{"alif below", "إبراهيم", "ابراهيم"},
		{"madda", "آمنة", "امنه"},
		{"taa marbuta", "فاطمة", "فاطمه"},
		{"alif maqsura", "مصطفى", "مصطفي"},
		{"harakat removed", "مُحَمَّد", "محمد"},
		{"latin untouched", "  Sara ALI ", "sara ali"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Arabic(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	assert.Equal(t, "فاطمه", normalize.New(true)("فاطمة"))
	assert.Equal(t, "فاطمة", normalize.New(false)("فاطمة"))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "966501234567", normalize.Phone("+966 (50) 123-4567"))
	assert.Empty(t, normalize.Phone("n/a"))
}
