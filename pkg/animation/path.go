package animation

import "math"

// overshootSplit is the progress at which a path reaches its overshoot point
// and turns back toward the target.
const overshootSplit = 0.7

// Path is the geometry of a single armed motion: where it starts, where it
// settles, and the point past the target it swings through on the way.
type Path struct {
	Start     Vec2
	Target    Vec2
	Overshoot Vec2

	// OvershootPixels selects the two-phase curve when positive.
	OvershootPixels int
	// Rate, when non-zero and there is no overshoot, replaces the ease-out
	// curve with linear progress scaled by 1/Rate.
	Rate float64
}

// NewPath computes the overshoot point by projecting target further along
// the start→target direction by overshootPixels. It reports false when start
// and target coincide, since no direction exists.
func NewPath(start, target Vec2, overshootPixels int, rate float64) (Path, bool) {
	dx := target.X - start.X
	dy := target.Y - start.Y
	distance := math.Sqrt(dx*dx + dy*dy)
	if distance <= 0 {
		return Path{}, false
	}

	dirX := dx / distance
	dirY := dy / distance

	return Path{
		Start:  start,
		Target: target,
		Overshoot: Vec2{
			X: target.X + dirX*float64(overshootPixels),
			Y: target.Y + dirY*float64(overshootPixels),
		},
		OvershootPixels: overshootPixels,
		Rate:            rate,
	}, true
}

// At returns the position at the given progress. Progress is not clamped.
//
// With an overshoot the motion runs in two phases: up to 0.7 it accelerates
// (p^1.2) from Start to Overshoot, then eases out (quad) from Overshoot back
// to Target. Without one it eases out (quart) from Start to Target, or moves
// linearly at 1/Rate when Rate is set.
func (p Path) At(progress float64) Vec2 {
	if p.OvershootPixels > 0 {
		if progress < overshootSplit {
			eased := EaseInPow(progress / overshootSplit)
			return LerpVec2(p.Start, p.Overshoot, eased)
		}
		sub := (progress - overshootSplit) / (1 - overshootSplit)
		return LerpVec2(p.Overshoot, p.Target, EaseOutQuad(sub))
	}

	var eased float64
	if p.Rate == 0 {
		eased = EaseOutQuart(progress)
	} else {
		eased = progress / p.Rate
	}
	return LerpVec2(p.Start, p.Target, eased)
}
