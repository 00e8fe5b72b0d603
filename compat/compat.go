// Package compat implements the compatibility scoring engine: a pure,
// deterministic computation that compares two match profiles (Big Five
// personality vector, interest/value labels, lifestyle answers) and produces
// an overall 0-100 score with a per-component breakdown.
//
// The engine performs no I/O and holds no state; a single invocation is an
// independent computation, so it is safe to score many pairs concurrently
// (e.g. when ranking a discovery feed).
package compat

import (
	"errors"
	"math"
)

// ErrMissingPersonality is returned when either profile lacks a personality
// vector. Personality is the one mandatory input: every other field degrades
// gracefully when unanswered.
var ErrMissingPersonality = errors.New("profile has no personality vector")

// Component weights for the overall score.
const (
	weightPersonality = 0.50
	weightInterests   = 0.25
	weightLifestyle   = 0.25
)

// PersonalityVector holds the five Big Five trait scores, each in [0,100].
// Produced by the external inference pipeline; treated as opaque input here.
type PersonalityVector struct {
	Openness          int `json:"openness"`
	Conscientiousness int `json:"conscientiousness"`
	Extraversion      int `json:"extraversion"`
	Agreeableness     int `json:"agreeableness"`
	Neuroticism       int `json:"neuroticism"`
}

// Profile is the full scoring input for one user.
type Profile struct {
	Personality *PersonalityVector `json:"personality"`
	Interests   []string           `json:"interests"`
	Values      []string           `json:"values"`
	Lifestyle   Lifestyle          `json:"lifestyle"`
}

// TraitComparison reports one personality dimension side by side.
type TraitComparison struct {
	Trait string `json:"trait"`
	A     int    `json:"a"`
	B     int    `json:"b"`
	Diff  int    `json:"diff"` // absolute difference
}

// PersonalityBreakdown is the personality component of a result.
type PersonalityBreakdown struct {
	Score  int               `json:"score"`
	Traits []TraitComparison `json:"traits"`
}

// OverlapBreakdown is the result of comparing two label sets.
type OverlapBreakdown struct {
	Score   int      `json:"score"`
	Shared  []string `json:"shared"`
	UniqueA []string `json:"uniqueA"`
	UniqueB []string `json:"uniqueB"`
}

// InterestsValuesBreakdown combines the interest and value overlaps.
type InterestsValuesBreakdown struct {
	Score     int              `json:"score"`
	Interests OverlapBreakdown `json:"interests"`
	Values    OverlapBreakdown `json:"values"`
}

// LifestyleBreakdown is the lifestyle component of a result. Each evaluated
// category lands in exactly one of the two lists.
type LifestyleBreakdown struct {
	Score      int      `json:"score"`
	Compatible []string `json:"compatible"`
	Neutral    []string `json:"neutral"`
}

// Result is the full compatibility breakdown for one pair of profiles.
// It is a transient value: the caller decides whether to persist it.
type Result struct {
	OverallScore       int                      `json:"overallScore"`
	Personality        PersonalityBreakdown     `json:"personality"`
	InterestsAndValues InterestsValuesBreakdown `json:"interestsAndValues"`
	Lifestyle          LifestyleBreakdown       `json:"lifestyle"`
}

// Score computes the weighted compatibility between two profiles:
// 50% personality similarity, 25% interest+value overlap, 25% lifestyle.
// Identical inputs always produce identical output.
func Score(a, b Profile) (*Result, error) {
	if a.Personality == nil || b.Personality == nil {
		return nil, ErrMissingPersonality
	}

	personality := TraitSimilarity(*a.Personality, *b.Personality)
	interests := SetOverlap(a.Interests, b.Interests)
	values := SetOverlap(a.Values, b.Values)
	combined := int(math.Round(float64(interests.Score+values.Score) / 2))
	lifestyle := LifestyleCompatibility(a.Lifestyle, b.Lifestyle)

	overall := clampScore(int(math.Round(
		float64(personality.Score)*weightPersonality +
			float64(combined)*weightInterests +
			float64(lifestyle.Score)*weightLifestyle)))

	return &Result{
		OverallScore: overall,
		Personality:  personality,
		InterestsAndValues: InterestsValuesBreakdown{
			Score:     combined,
			Interests: interests,
			Values:    values,
		},
		Lifestyle: lifestyle,
	}, nil
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
