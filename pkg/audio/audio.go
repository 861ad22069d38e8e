// Package audio plays short synthesized cues alongside a choreography.
//
// Cues are sequences of sine tones rendered through beep. A Player is safe
// to use without an audio device: until Init succeeds, Play does nothing.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/go-drift/marquee/pkg/errors"
)

// SampleRate is the rate cues are rendered at.
const SampleRate = beep.SampleRate(44100)

// Tone is one note of a cue. A zero Freq is a rest.
type Tone struct {
	Freq   float64
	Length time.Duration
}

// Cue is a named sequence of tones.
type Cue struct {
	Name  string
	Tones []Tone
}

// Duration returns the total length of the cue.
func (c Cue) Duration() time.Duration {
	var d time.Duration
	for _, t := range c.Tones {
		d += t.Length
	}
	return d
}

// Streamer renders cue at sr with the given linear volume (1 is unchanged,
// 0 is silent).
func Streamer(cue Cue, sr beep.SampleRate, volume float64) (beep.Streamer, error) {
	if len(cue.Tones) == 0 {
		return nil, errors.New("audio.Streamer", errors.KindAudio, "cue %q has no tones", cue.Name)
	}

	parts := make([]beep.Streamer, 0, len(cue.Tones))
	for i, t := range cue.Tones {
		n := sr.N(t.Length)
		if t.Freq <= 0 {
			parts = append(parts, beep.Silence(n))
			continue
		}
		tone, err := generators.SineTone(sr, t.Freq)
		if err != nil {
			return nil, &errors.Error{
				Op:   "audio.Streamer",
				Kind: errors.KindAudio,
				Err:  fmt.Errorf("cue %q tone %d: %w", cue.Name, i, err),
			}
		}
		parts = append(parts, beep.Take(n, tone))
	}
	return withVolume(beep.Seq(parts...), volume), nil
}

// withVolume scales s. math.Log2(0) is -Inf, so zero volume is rendered
// silent instead.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Player mixes cues onto the speaker.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	played      int
}

// NewPlayer creates a player. volume is linear; values outside [0, 1] are
// clamped.
func NewPlayer(volume float64) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		volume: math.Max(0, math.Min(1, volume)),
	}
}

// Init opens the speaker. It is safe to call more than once.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return errors.Wrap("audio.Init", errors.KindAudio, err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues cue on the mixer. Without a speaker it does nothing.
func (p *Player) Play(cue Cue) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}
	s, err := Streamer(cue, SampleRate, p.volume)
	if err != nil {
		return err
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	p.played++
	return nil
}

// Played returns how many cues were queued on the speaker.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// Close silences everything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}
