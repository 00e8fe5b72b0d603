package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOverlapBothEmpty(t *testing.T) {
	got := SetOverlap(nil, []string{})
	if got.Score != 0 {
		t.Fatalf("expected 0 for two empty sets, got %d", got.Score)
	}
	assert.Empty(t, got.Shared)
	assert.Empty(t, got.UniqueA)
	assert.Empty(t, got.UniqueB)
}

func TestSetOverlapNormalization(t *testing.T) {
	got := SetOverlap([]string{"Hiking", " yoga "}, []string{"hiking", "yoga"})
	if got.Score != 100 {
		t.Fatalf("expected 100 for equal sets up to case/whitespace, got %d", got.Score)
	}
	assert.Equal(t, []string{"hiking", "yoga"}, got.Shared)
}

func TestSetOverlapJaccard(t *testing.T) {
	tests := []struct {
		name  string
		a, b  []string
		score int
	}{
		{"disjoint", []string{"chess"}, []string{"surfing"}, 0},
		{"one of two", []string{"coffee", "hiking"}, []string{"coffee"}, 50},
		{"one of three", []string{"a", "b"}, []string{"b", "c"}, 33},
		{"two of four", []string{"a", "b", "c"}, []string{"b", "c", "d"}, 50},
		{"one side empty", []string{"reading"}, nil, 0},
		{"duplicates collapse", []string{"Tea", "tea", " TEA "}, []string{"tea"}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SetOverlap(tt.a, tt.b)
			if got.Score != tt.score {
				t.Errorf("expected score %d, got %d", tt.score, got.Score)
			}

			// Jaccard identity and symmetry hold for every case.
			union := len(got.Shared) + len(got.UniqueA) + len(got.UniqueB)
			if union > 0 {
				want := (len(got.Shared)*100 + union/2) / union
				assert.InDelta(t, want, got.Score, 1)
			}
			rev := SetOverlap(tt.b, tt.a)
			assert.Equal(t, got.Score, rev.Score, "score must be symmetric")
			assert.Equal(t, got.Shared, rev.Shared)
			assert.Equal(t, got.UniqueA, rev.UniqueB)
			assert.Equal(t, got.UniqueB, rev.UniqueA)
		})
	}
}

func TestSetOverlapLabelLists(t *testing.T) {
	got := SetOverlap(
		[]string{"Climbing", "board games", "Cooking"},
		[]string{"cooking", "Running", "climbing"},
	)

	assert.Equal(t, []string{"climbing", "cooking"}, got.Shared)
	assert.Equal(t, []string{"board games"}, got.UniqueA)
	assert.Equal(t, []string{"running"}, got.UniqueB)
	// 2 shared / 4 union
	assert.Equal(t, 50, got.Score)
}
