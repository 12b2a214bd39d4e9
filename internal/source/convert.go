package source

import (
	"math"
	"strconv"
)

// parseFloat converts a numeric string from an upstream payload. Missing or
// malformed values become 0, never NaN.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// nonNeg clamps open interest, volume, and price fields to the canonical
// non-negative range.
func nonNeg(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
