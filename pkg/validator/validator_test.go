package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePersonName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"regular name", "John Smith", true},
		{"two runes", "Li", true},
		{"single rune", "J", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"trimmed before counting", "  Jo  ", true},
		{"cyrillic counts runes not bytes", "Ян", true},
		{"max length", strings.Repeat("a", 100), true},
		{"too long", strings.Repeat("a", 101), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePersonName(tt.input))
		})
	}
}

func TestValidateSpecialization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"regular", "cardiology", true},
		{"single rune", "c", false},
		{"empty", "", false},
		{"too long", strings.Repeat("a", 101), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSpecialization(tt.input))
		})
	}
}

func TestValidateDoctorID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty means auto-generate", "", true},
		{"typical id", "DOC-A1B2C3D4", true},
		{"max length", strings.Repeat("x", 50), true},
		{"too long", strings.Repeat("x", 51), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateDoctorID(tt.input))
		})
	}
}

func TestValidateDailyCapacity(t *testing.T) {
	assert.False(t, ValidateDailyCapacity(0))
	assert.True(t, ValidateDailyCapacity(1))
	assert.True(t, ValidateDailyCapacity(100))
	assert.False(t, ValidateDailyCapacity(101))
	assert.False(t, ValidateDailyCapacity(-5))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "scriptalert(1)/script", SanitizeString("<script>alert(1)</script>"))
	assert.Equal(t, "John Smith", SanitizeString("John Smith"))
	assert.Equal(t, "OBrien", SanitizeString("O'Brien"))
	assert.Equal(t, "", SanitizeString(`<>&"'`))
}
