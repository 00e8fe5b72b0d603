package compat

import "math"

// Maximum possible gap on a single trait, used to normalize distance.
const traitRange = 100.0

// TraitSimilarity converts two personality vectors into a similarity score:
// root-mean-square of the five per-trait differences, normalized by the
// trait range, inverted and scaled to 0-100. Symmetric in its arguments.
// Trait values are expected in [0,100]; out-of-range input is not validated
// here and the caller owns that contract.
func TraitSimilarity(a, b PersonalityVector) PersonalityBreakdown {
	pairs := []struct {
		trait string
		a, b  int
	}{
		{"openness", a.Openness, b.Openness},
		{"conscientiousness", a.Conscientiousness, b.Conscientiousness},
		{"extraversion", a.Extraversion, b.Extraversion},
		{"agreeableness", a.Agreeableness, b.Agreeableness},
		{"neuroticism", a.Neuroticism, b.Neuroticism},
	}

	traits := make([]TraitComparison, 0, len(pairs))
	sumSq := 0.0
	for _, p := range pairs {
		diff := p.a - p.b
		sumSq += float64(diff) * float64(diff)
		if diff < 0 {
			diff = -diff
		}
		traits = append(traits, TraitComparison{Trait: p.trait, A: p.a, B: p.b, Diff: diff})
	}

	rms := math.Sqrt(sumSq / float64(len(pairs)))
	score := clampScore(int(math.Round((1 - rms/traitRange) * 100)))

	return PersonalityBreakdown{Score: score, Traits: traits}
}
