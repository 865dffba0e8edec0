package geodesy

import "math"

// ToRadians converts decimal degrees to radians.
func ToRadians(deg float64) float64 {
	return math.Pi * deg / 180
}

// clamp limits x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
