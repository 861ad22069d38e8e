// Package animation provides the motion primitives behind marquee's
// choreography: easing curves, the overshoot path geometry, and
// OvershootAnimator, which moves one element toward a target and cycles its
// sprite frames without ever blocking.
//
// Animators are driven by repeated calls to Tick (or TickAt with an explicit
// time). Time comes from a Clock; the package default is the system clock and
// can be swapped with SetClock or per animator with WithClock.
package animation
