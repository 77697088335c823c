package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Crash Barrier", "crash barrier"},
		{"  Crash \t\n Barrier  ", "crash barrier"},
		{"W-BEAM", "w-beam"},
		{"Inspect Site A ", "inspect site a"},
		{"a  b", "a b"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", " x ", "Hello   World", "\tMIXED case\n text ", "ÄBC  déf", "a - b -- c"}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}
}

func TestNormalizeAny(t *testing.T) {
	name := "  Road  Stud "
	var nilName *string

	assert.Equal(t, "road stud", NormalizeAny(name))
	assert.Equal(t, "road stud", NormalizeAny(&name))
	assert.Equal(t, "", NormalizeAny(nilName))
	assert.Equal(t, "", NormalizeAny(nil))
	assert.Equal(t, "", NormalizeAny(42))
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"both empty", "", "", 1.0},
		{"identical after normalization", "Crash Barrier", "  crash   BARRIER ", 1.0},
		{"one side empty", "abc", "", ContainmentScore},
		{"containment", "W-Beam Barrier", "W-Beam", 0.9},
		{"containment reversed", "W-Beam", "W-Beam Barrier", 0.9},
		{"near match floor", "YNM001", "YNM002", 0.85},
		{"one mismatch long", "Nagpur Highway Safety Products Ltd", "Nagpur Highway Safety Produkts Ltd", 1 - 1.0/34},
		{"three mismatches", "Metro Barrier Works Co", "Metra Barrier Wurks Ci", 1 - 3.0/22},
		{"unrelated", "Thrie Beam", "W-Beam", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Similarity(tc.a, tc.b), 1e-9)
		})
	}
}

func TestSimilaritySelfMatch(t *testing.T) {
	for _, s := range []string{"a", "Crash Barrier", "  Spaced  Out  ", "YNM-001"} {
		assert.Equal(t, 1.0, Similarity(Normalize(s), s), "input %q", s)
	}
}

func TestSimilarityEmptyAgainstValue(t *testing.T) {
	assert.Less(t, Similarity("abc", ""), 1.0)
}

func TestSimilarityIsPositional(t *testing.T) {
	// A leading insertion shifts every later position, so the score drops far
	// below what an edit distance would give.
	score := Similarity("xspeed breaker", "speed breakers")
	assert.Less(t, score, NearMatchFloor)
}

func TestSimilarityShortStringsSkipFloor(t *testing.T) {
	// maxLen must exceed two for the near match floor to apply.
	assert.InDelta(t, 0.5, Similarity("ab", "ax"), 1e-9)
}
