// Package audio plays short synthesized cues for search progress
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"

	"github.com/lixenwraith/pathviz/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// Cues mixes search event sounds into the speaker.
// All methods are safe to call before Initialize or after Cleanup; they do nothing.
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	volume      float64

	minGap   time.Duration
	lastTick time.Time
	now      func() time.Time

	// play hands a streamer to the output; replaced in tests
	play func(beep.Streamer)
}

// NewCues creates cues at the given master volume in [0,1]
func NewCues(volume float64) *Cues {
	c := &Cues{
		mixer:  &beep.Mixer{},
		volume: clampVolume(volume),
		minGap: parameter.MinTickGap,
		now:    time.Now,
	}
	c.play = c.playMixer
	return c
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Initialize opens the speaker and starts the mixer
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return errors.Wrap(err, "speaker init")
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Cleanup silences the mixer and closes the speaker
func (c *Cues) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	c.initialized = false
}

// SetVolume changes master volume for subsequent cues
func (c *Cues) SetVolume(v float64) {
	c.mu.Lock()
	c.volume = clampVolume(v)
	c.mu.Unlock()
}

// Frontier plays a tick, throttled to one per minimum gap
func (c *Cues) Frontier() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	now := c.now()
	if !c.lastTick.IsZero() && now.Sub(c.lastTick) < c.minGap {
		return
	}
	c.lastTick = now
	c.play(CreateTickSound(sampleRate, c.volume))
}

// Found plays the path found chime
func (c *Cues) Found() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	c.play(CreateChimeSound(sampleRate, c.volume))
}

// NoPath plays the exhausted buzz
func (c *Cues) NoPath() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	c.play(CreateBuzzSound(sampleRate, c.volume))
}

func (c *Cues) playMixer(s beep.Streamer) {
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}
