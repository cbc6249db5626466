package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/pathviz/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = -1.0
			if o.phase < 0.5 {
				val = 1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack/release shaping and cuts the stream at its duration
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	release      int
	releaseStart int
	total        int
}

// NewEnvelope wraps s with an attack/release envelope
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	if att+rel > total {
		rel = total - att
		if rel < 0 {
			att, rel = total, 0
		}
	}

	return &envelope{
		streamer:     s,
		attack:       att,
		release:      rel,
		releaseStart: total - rel,
		total:        total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.position >= e.total {
		return 0, false
	}
	if remaining := e.total - e.position; len(samples) > remaining {
		samples = samples[:remaining]
	}

	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= e.releaseStart && e.release > 0 {
			vol = float64(e.total-e.position) / float64(e.release)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; math.Log2(0) is -Inf, so 0 maps to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// CreateTickSound generates a short click for frontier growth
func CreateTickSound(rate beep.SampleRate, master float64) beep.Streamer {
	var tone beep.Streamer
	if sine, err := generators.SineTone(rate, parameter.TickSoundFreq); err == nil {
		tone = sine
	} else {
		tone = NewOscillator(parameter.TickSoundFreq, parameter.TickSoundDuration, WaveSine, rate)
	}

	shaped := NewEnvelope(tone, parameter.TickSoundDuration, parameter.TickSoundAttack, parameter.TickSoundRelease, rate)
	return newVolume(shaped, parameter.TickSoundVolume*master)
}

// CreateChimeSound generates a two-note rising chime for a found path
func CreateChimeSound(rate beep.SampleRate, master float64) beep.Streamer {
	n1 := NewOscillator(parameter.ChimeSoundNote1Freq, parameter.ChimeSoundNote1Duration, WaveSquare, rate)
	n1Shaped := NewEnvelope(n1, parameter.ChimeSoundNote1Duration, parameter.ChimeSoundAttack, parameter.ChimeSoundNote1Release, rate)

	n2 := NewOscillator(parameter.ChimeSoundNote2Freq, parameter.ChimeSoundNote2Duration, WaveSquare, rate)
	n2Shaped := NewEnvelope(n2, parameter.ChimeSoundNote2Duration, parameter.ChimeSoundAttack, parameter.ChimeSoundNote2Release, rate)

	// Octave shimmer over the second note
	over := NewOscillator(parameter.ChimeSoundNote2Freq*2, parameter.ChimeSoundNote2Duration, WaveSine, rate)
	overShaped := NewEnvelope(over, parameter.ChimeSoundNote2Duration, parameter.ChimeSoundAttack, parameter.ChimeSoundNote2Release, rate)

	second := beep.Mix(newVolume(n2Shaped, 0.7), newVolume(overShaped, 0.3))
	return newVolume(beep.Seq(n1Shaped, second), parameter.ChimeSoundVolume*master)
}

// CreateBuzzSound generates a low harsh buzz for an exhausted search
func CreateBuzzSound(rate beep.SampleRate, master float64) beep.Streamer {
	osc := NewOscillator(parameter.BuzzSoundFreq, parameter.BuzzSoundDuration, WaveSaw, rate)
	shaped := NewEnvelope(osc, parameter.BuzzSoundDuration, parameter.BuzzSoundAttack, parameter.BuzzSoundRelease, rate)
	return newVolume(shaped, parameter.BuzzSoundVolume*master)
}
