package compat

import (
	"math"
	"sort"
	"strings"
)

// SetOverlap scores two free-text label sets by Jaccard similarity scaled to
// 0-100. Labels are trimmed and lowercased before comparison, and duplicates
// collapse. Two empty sets score 0: no signal means no credit, not neutral
// credit. The returned label lists are sorted so output is deterministic.
func SetOverlap(a, b []string) OverlapBreakdown {
	as := normalizeLabels(a)
	bs := normalizeLabels(b)

	shared := []string{}
	uniqueA := []string{}
	uniqueB := []string{}

	for label := range as {
		if _, ok := bs[label]; ok {
			shared = append(shared, label)
		} else {
			uniqueA = append(uniqueA, label)
		}
	}
	for label := range bs {
		if _, ok := as[label]; !ok {
			uniqueB = append(uniqueB, label)
		}
	}
	sort.Strings(shared)
	sort.Strings(uniqueA)
	sort.Strings(uniqueB)

	union := len(as) + len(bs) - len(shared)
	score := 0
	if union > 0 {
		score = int(math.Round(float64(len(shared)) / float64(union) * 100))
	}

	return OverlapBreakdown{Score: score, Shared: shared, UniqueA: uniqueA, UniqueB: uniqueB}
}

func normalizeLabels(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		norm := strings.ToLower(strings.TrimSpace(label))
		if norm == "" {
			continue
		}
		set[norm] = struct{}{}
	}
	return set
}
