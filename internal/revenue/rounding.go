package revenue

import "math"

// RoundHalfUp rounds to the nearest whole currency unit with halves going up:
// 1032.8 -> 1033, 492.5 -> 493. Applied once, to the final discounted total.
func RoundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
