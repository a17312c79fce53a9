package match

import (
	"math"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"amount", "amount", 0},
		{"", "to", 2},
		{"from", "", 4},

		{"amount", "ammount", 1},
		{"amounts", "amount", 1},
		{"type", "tipe", 1},
		{"kitten", "sitting", 3},
		{"date", "timestamp", 8},
		{"Amount", "amount", 1},
		{"montant", "montänt", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := Levenshtein(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}

			if reverse := Levenshtein(tt.b, tt.a); reverse != result {
				t.Errorf("Levenshtein is not symmetric for %q and %q: %d vs %d", tt.a, tt.b, result, reverse)
			}
		})
	}
}

func TestLevenshteinNormalized(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"amount", "amount", 1},
		{"abcd", "", 0},
		{"abcd", "abce", 0.75},
		{"to", "from", 0.25},
	}

	for _, tt := range tests {
		got := LevenshteinNormalized(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("LevenshteinNormalized(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNormalizedLevenshteinScore(t *testing.T) {
	if got := NormalizedLevenshteinScore("DateReadable", "date_readable"); got != 1 {
		t.Errorf("expected identical names after normalization, got %v", got)
	}

	typo := NormalizedLevenshteinScore("ammount", "amount")
	unrelated := NormalizedLevenshteinScore("ammount", "from")

	if typo <= unrelated {
		t.Errorf("typo score %v should beat unrelated score %v", typo, unrelated)
	}

	if typo < DefaultMinScore {
		t.Errorf("typo score %v is below the suggestion threshold", typo)
	}
}
