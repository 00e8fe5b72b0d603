package compat

import "math"

// KidsIntent answers "do you want kids?". Empty string means unanswered.
type KidsIntent string

const (
	KidsWant             KidsIntent = "want"
	KidsMaybe            KidsIntent = "maybe"
	KidsDontWant         KidsIntent = "dont_want"
	KidsHaveWantMore     KidsIntent = "have_want_more"
	KidsHaveDontWantMore KidsIntent = "have_dont_want_more"
	KidsPreferNotToSay   KidsIntent = "prefer_not_to_say"
)

func (k KidsIntent) answered() bool {
	switch k {
	case KidsWant, KidsMaybe, KidsDontWant, KidsHaveWantMore, KidsHaveDontWantMore, KidsPreferNotToSay:
		return true
	}
	return false
}

// Frequency is the shared ordinal scale for drinking, smoking and cannabis
// use. The rank() lookup keeps misspelled values out of the scoring instead
// of silently ranking them as zero.
type Frequency string

const (
	FreqNever     Frequency = "never"
	FreqRarely    Frequency = "rarely"
	FreqSometimes Frequency = "sometimes"
	FreqSocially  Frequency = "socially"
	FreqRegularly Frequency = "regularly"
)

func (f Frequency) rank() (int, bool) {
	switch f {
	case FreqNever:
		return 0, true
	case FreqRarely, FreqSometimes:
		return 1, true
	case FreqSocially:
		return 2, true
	case FreqRegularly:
		return 3, true
	}
	return 0, false
}

// PoliticalLean is the ordinal political scale. Apolitical ranks at the
// moderate midpoint rather than being treated as unanswered.
type PoliticalLean string

const (
	PoliticsVeryLiberal      PoliticalLean = "very_liberal"
	PoliticsLiberal          PoliticalLean = "liberal"
	PoliticsModerate         PoliticalLean = "moderate"
	PoliticsConservative     PoliticalLean = "conservative"
	PoliticsVeryConservative PoliticalLean = "very_conservative"
	PoliticsApolitical       PoliticalLean = "apolitical"
)

func (p PoliticalLean) rank() (int, bool) {
	switch p {
	case PoliticsVeryLiberal:
		return 0, true
	case PoliticsLiberal:
		return 1, true
	case PoliticsModerate, PoliticsApolitical:
		return 2, true
	case PoliticsConservative:
		return 3, true
	case PoliticsVeryConservative:
		return 4, true
	}
	return 0, false
}

// Lifestyle holds one user's lifestyle answers. Every field is optional:
// zero values (empty string, empty set) mean "not yet answered" and the
// category is skipped during comparison rather than counted as a mismatch.
type Lifestyle struct {
	WantsKids KidsIntent    `json:"wantsKids,omitempty"`
	Religion  []string      `json:"religion,omitempty"`
	Drinking  Frequency     `json:"drinking,omitempty"`
	Smoking   Frequency     `json:"smoking,omitempty"`
	Cannabis  Frequency     `json:"cannabisUse,omitempty"`
	Politics  PoliticalLean `json:"politics,omitempty"`
}

// Category names as they appear in the compatible/neutral lists.
const (
	categoryKids     = "kids"
	categoryReligion = "religion"
	categoryDrinking = "drinking"
	categorySmoking  = "smoking"
	categoryCannabis = "cannabis"
	categoryPolitics = "politics"
)

// LifestyleCompatibility compares two lifestyle profiles category by
// category. The score starts at 100, moves additively per category and is
// clamped to [0,100] at the end. A category lands in at most one of the two
// output lists and is omitted entirely when either side hasn't answered it.
func LifestyleCompatibility(a, b Lifestyle) LifestyleBreakdown {
	score := 100.0
	compatible := []string{}
	neutral := []string{}

	// Kids intent carries the harshest penalty: a hard mismatch is usually
	// a dealbreaker, while a "maybe" on either side stays neutral.
	if a.WantsKids.answered() && b.WantsKids.answered() {
		switch {
		case a.WantsKids == b.WantsKids:
			compatible = append(compatible, categoryKids)
			score += 10
		case a.WantsKids == KidsMaybe || b.WantsKids == KidsMaybe:
			neutral = append(neutral, categoryKids)
		default:
			neutral = append(neutral, categoryKids)
			score -= 30
		}
	}

	// Religion reuses the label-set overlap. Exact-zero overlap leaves the
	// category unclassified; only partial overlap counts as neutral.
	if len(normalizeLabels(a.Religion)) > 0 && len(normalizeLabels(b.Religion)) > 0 {
		overlap := SetOverlap(a.Religion, b.Religion).Score
		switch {
		case overlap > 50:
			compatible = append(compatible, categoryReligion)
			score += float64(overlap) * 0.2
		case overlap > 0:
			neutral = append(neutral, categoryReligion)
		}
	}

	// Substance-use categories share one ordinal rule.
	freqs := []struct {
		name string
		a, b Frequency
	}{
		{categoryDrinking, a.Drinking, b.Drinking},
		{categorySmoking, a.Smoking, b.Smoking},
		{categoryCannabis, a.Cannabis, b.Cannabis},
	}
	for _, f := range freqs {
		ra, okA := f.a.rank()
		rb, okB := f.b.rank()
		if !okA || !okB {
			continue
		}
		switch diff := absInt(ra - rb); {
		case diff == 0:
			compatible = append(compatible, f.name)
			score += 10
		case diff == 1:
			compatible = append(compatible, f.name)
			score += 5
		default:
			neutral = append(neutral, f.name)
			score -= float64(3 * diff)
		}
	}

	if ra, okA := a.Politics.rank(); okA {
		if rb, okB := b.Politics.rank(); okB {
			switch diff := absInt(ra - rb); {
			case diff == 0:
				compatible = append(compatible, categoryPolitics)
				score += 10
			case diff == 1:
				compatible = append(compatible, categoryPolitics)
				score += 5
			default:
				neutral = append(neutral, categoryPolitics)
				score -= float64(5 * diff)
			}
		}
	}

	return LifestyleBreakdown{
		Score:      clampScore(int(math.Round(score))),
		Compatible: compatible,
		Neutral:    neutral,
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
