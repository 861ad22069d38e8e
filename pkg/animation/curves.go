package animation

import "math"

// Easing curves transform linear animation progress into shaped motion.
//
// Each curve takes a progress value p, nominally in [0, 1], and returns the
// transformed value. Curves do not clamp; callers that need a bounded result
// clamp progress first.

// LinearCurve returns linear progress (no easing).
func LinearCurve(p float64) float64 {
	return p
}

// EaseOutQuart decelerates hard toward the end: 1 - (1-p)^4.
func EaseOutQuart(p float64) float64 {
	inv := 1 - p
	return 1 - inv*inv*inv*inv
}

// EaseOutQuad decelerates gently toward the end: 1 - (1-p)^2.
func EaseOutQuad(p float64) float64 {
	inv := 1 - p
	return 1 - inv*inv
}

// overshootApproachPower shapes the approach toward the overshoot point.
const overshootApproachPower = 1.2

// EaseInPow accelerates slightly: p^1.2.
func EaseInPow(p float64) float64 {
	return math.Pow(p, overshootApproachPower)
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
