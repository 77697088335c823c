package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"
)

// Fingerprint hashes the normalized parts into a stable key. Records that
// share a fingerprint are exact duplicates of each other's key fields.
func Fingerprint(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = Normalize(p)
	}
	sum := sha256.Sum256([]byte(strings.Join(normalized, "\x1f")))
	return hex.EncodeToString(sum[:])
}

// QuantityKey renders q rounded to two decimals.
func QuantityKey(q float64) string {
	return strconv.FormatFloat(math.Round(q*100)/100, 'f', 2, 64)
}

// DayKey renders the calendar day of t.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
