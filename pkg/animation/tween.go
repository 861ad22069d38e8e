package animation

// Tween interpolates between Begin and End values based on eased progress.
//
// Use the helper constructors ([TweenFloat64], [TweenVec2]) for common types,
// or create custom tweens with a Lerp function.
type Tween[T any] struct {
	// Begin is the starting value (when t = 0).
	Begin T
	// End is the ending value (when t = 1).
	End T
	// Lerp interpolates between Begin and End. Receives the begin value,
	// end value, and progress t. Returns the interpolated value.
	Lerp func(a, b T, t float64) T
}

// Evaluate returns the interpolated value at t.
func (tw *Tween[T]) Evaluate(t float64) T {
	if tw.Lerp == nil {
		return tw.End
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// Vec2 is a point in continuous display space.
type Vec2 struct {
	X float64
	Y float64
}

// Vec2Of converts integer display coordinates to a Vec2.
func Vec2Of(x, y int) Vec2 {
	return Vec2{X: float64(x), Y: float64(y)}
}

// Truncate converts to integer display coordinates, truncating toward zero.
func (v Vec2) Truncate() (x, y int) {
	return int(v.X), int(v.Y)
}

// Lerp linearly interpolates: a + (b-a)*f.
func Lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return Lerp(a, b, t)
}

// LerpVec2 linearly interpolates between two points.
func LerpVec2(a, b Vec2, t float64) Vec2 {
	return Vec2{
		X: Lerp(a.X, b.X, t),
		Y: Lerp(a.Y, b.Y, t),
	}
}

// TweenFloat64 creates a tween for float64 values.
func TweenFloat64(begin, end float64) *Tween[float64] {
	return &Tween[float64]{
		Begin: begin,
		End:   end,
		Lerp:  LerpFloat64,
	}
}

// TweenVec2 creates a tween for Vec2 values.
func TweenVec2(begin, end Vec2) *Tween[Vec2] {
	return &Tween[Vec2]{
		Begin: begin,
		End:   end,
		Lerp:  LerpVec2,
	}
}
