package dedupe

import "strings"

const (
	// ContainmentScore is returned when one normalized string contains the other.
	ContainmentScore = 0.9
	// NearMatchFloor is the minimum score for strings that differ in at most
	// NearMatchMaxDistance positions.
	NearMatchFloor       = 0.85
	NearMatchMaxDistance = 2
)

// Similarity scores two strings in [0,1].
//
// The distance is a positional mismatch count (characters compared at the
// same index over the shorter string) plus the length difference. It is not
// an edit distance: an insertion near the start shifts every later position.
// Which near-duplicates are caught depends on this exact behavior.
func Similarity(a, b string) float64 {
	na := []rune(Normalize(a))
	nb := []rune(Normalize(b))

	if len(na) == 0 && len(nb) == 0 {
		return 1.0
	}

	sa, sb := string(na), string(nb)
	if sa == sb {
		return 1.0
	}
	if strings.Contains(sa, sb) || strings.Contains(sb, sa) {
		return ContainmentScore
	}

	distance := positionalDistance(na, nb)
	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}

	score := 1 - float64(distance)/float64(maxLen)
	if distance <= NearMatchMaxDistance && maxLen > 2 && score < NearMatchFloor {
		score = NearMatchFloor
	}
	return score
}

func positionalDistance(a, b []rune) int {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	distance := len(longer) - len(shorter)
	for i := range shorter {
		if shorter[i] != longer[i] {
			distance++
		}
	}
	return distance
}
