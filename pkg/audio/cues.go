package audio

import (
	"time"

	"github.com/go-drift/marquee/pkg/errors"
	"github.com/go-drift/marquee/pkg/timeline"
)

// Pitches for the six hue swaps, a rising C major run.
var huePitches = map[string]float64{
	"red_palette":    523.25,
	"yellow_palette": 587.33,
	"teal_palette":   659.25,
	"pink_palette":   698.46,
	"blue_palette":   783.99,
	"green_palette":  880.00,
}

// PaletteCue is the blip played when a palette swap fires. Unknown palettes
// get a neutral A.
func PaletteCue(palette string) Cue {
	freq, ok := huePitches[palette]
	if !ok {
		freq = 440
	}
	return Cue{
		Name:  palette,
		Tones: []Tone{{Freq: freq, Length: 80 * time.Millisecond}},
	}
}

// LoopCue is the flourish played when a loop completes.
var LoopCue = Cue{
	Name: "loop",
	Tones: []Tone{
		{Freq: 523.25, Length: 70 * time.Millisecond},
		{Length: 20 * time.Millisecond},
		{Freq: 659.25, Length: 70 * time.Millisecond},
		{Length: 20 * time.Millisecond},
		{Freq: 1046.50, Length: 140 * time.Millisecond},
	},
}

// CueFor returns the cue for a timeline event, if it has one.
func CueFor(e timeline.Event) (Cue, bool) {
	switch e.Kind {
	case timeline.EventPaletteSwapped:
		return PaletteCue(e.Palette), true
	case timeline.EventLoopCompleted:
		return LoopCue, true
	}
	return Cue{}, false
}

// Listen is a timeline listener that plays the cue for each event.
// Playback failures are reported, not returned.
func (p *Player) Listen(e timeline.Event) {
	cue, ok := CueFor(e)
	if !ok {
		return
	}
	if err := p.Play(cue); err != nil {
		errors.ReportErr("audio.Listen", errors.KindAudio, err)
	}
}
