// Package testing provides helpers for testing marquee choreographies.
//
// # Fake Time
//
// FakeClock satisfies animation.Clock, so animators and coordinators can be
// stepped deterministically:
//
//	func TestSlide(t *testing.T) {
//	    clk := marqueetest.NewFakeClock()
//	    c, _ := timeline.New(steps, timeline.WithClock(clk))
//
//	    clk.Advance(450 * time.Millisecond)
//	    c.Advance()
//	}
//
// # Scene Snapshots
//
// Record the scene tree at sample times and compare against a golden file:
//
//	var snap marqueetest.Snapshot
//	snap.Record(clk.Since(start), root)
//	snap.MatchesFile(t, "testdata/slide.snapshot.json")
//
// Set MARQUEE_UPDATE_SNAPSHOTS=1 to rewrite golden files instead of
// comparing.
package testing
