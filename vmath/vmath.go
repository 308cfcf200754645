package vmath

import "math"

// Clamp restricts v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 restricts v to the unit interval
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// ClampInt restricts v to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates linearly from a to b by t
// t outside [0,1] extrapolates
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// SmoothFactor converts a damping time constant into a per-frame blend factor
// for exponential smoothing: current += (goal-current) * SmoothFactor(dt, damping)
// The factor is always in [0,1], so a stationary goal is approached
// monotonically and never overshot
// damping <= 0 returns 1 (exact follow, no lag)
func SmoothFactor(dt, damping float64) float64 {
	if damping <= 0 {
		return 1
	}
	return 1 - math.Exp(-dt*(10/damping))
}

// Abs returns the absolute value of v
func Abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
