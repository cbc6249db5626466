package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/pathviz/parameter"
)

// drain streams s to completion and returns the total sample count and peak amplitude
func drain(t *testing.T, s beep.Streamer, limit int) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			break
		}
		if total > limit {
			t.Fatalf("Stream exceeded %d samples", limit)
		}
	}
	return total, peak
}

// TestOscillatorSine verifies sine wave generation
func TestOscillatorSine(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440.0, 100*time.Millisecond, WaveSine, rate)

	samples := make([][2]float64, 100)
	n, ok := osc.Stream(samples)
	if !ok || n != 100 {
		t.Fatalf("Expected 100 samples, got %d (ok=%v)", n, ok)
	}

	for i := 0; i < n; i++ {
		if samples[i][0] < -1.0 || samples[i][0] > 1.0 {
			t.Errorf("Sample %d out of range: %f", i, samples[i][0])
		}
		if samples[i][0] != samples[i][1] {
			t.Errorf("Sample %d differs between channels", i)
		}
	}
	if osc.Err() != nil {
		t.Errorf("Expected no error, got: %v", osc.Err())
	}
}

// TestOscillatorSquare verifies square wave generation
func TestOscillatorSquare(t *testing.T) {
	osc := NewOscillator(220.0, 50*time.Millisecond, WaveSquare, beep.SampleRate(44100))

	samples := make([][2]float64, 50)
	n, _ := osc.Stream(samples)
	for i := 0; i < n; i++ {
		if v := samples[i][0]; v != -1.0 && v != 1.0 {
			t.Errorf("Square wave sample %d should be -1.0 or 1.0, got %f", i, v)
		}
	}
}

// TestOscillatorDuration verifies the stream ends after its duration
func TestOscillatorDuration(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(10, 100*time.Millisecond, WaveSaw, rate)

	total, _ := drain(t, osc, 1000)
	if total != 100 {
		t.Errorf("Expected 100 samples, got %d", total)
	}
}

// TestEnvelopeShape verifies attack starts silent and release fades out
func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(0, time.Second, WaveSquare, rate) // constant 1.0
	env := NewEnvelope(osc, 100*time.Millisecond, 10*time.Millisecond, 20*time.Millisecond, rate)

	samples := make([][2]float64, 200)
	n, _ := env.Stream(samples)
	if n != 100 {
		t.Fatalf("Expected envelope to cut at 100 samples, got %d", n)
	}

	if samples[0][0] != 0 {
		t.Errorf("Expected silent first sample, got %f", samples[0][0])
	}
	if samples[50][0] != 1.0 {
		t.Errorf("Expected full sustain, got %f", samples[50][0])
	}
	if samples[99][0] <= 0 || samples[99][0] >= samples[85][0] {
		t.Errorf("Expected release fade, got %f after %f", samples[99][0], samples[85][0])
	}

	if n, ok := env.Stream(samples); n != 0 || ok {
		t.Errorf("Expected finished envelope, got n=%d ok=%v", n, ok)
	}
}

// TestSoundDurations verifies every cue is finite with the expected length
func TestSoundDurations(t *testing.T) {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	tests := []struct {
		name   string
		stream beep.Streamer
		want   int
	}{
		{"tick", CreateTickSound(rate, 1), rate.N(parameter.TickSoundDuration)},
		{"chime", CreateChimeSound(rate, 1), rate.N(parameter.ChimeSoundNote1Duration) + rate.N(parameter.ChimeSoundNote2Duration)},
		{"buzz", CreateBuzzSound(rate, 1), rate.N(parameter.BuzzSoundDuration)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, peak := drain(t, tt.stream, rate.N(2*time.Second))
			if total != tt.want {
				t.Errorf("Expected %d samples, got %d", tt.want, total)
			}
			if peak == 0 {
				t.Error("Expected audible output")
			}
			if peak > 1.0 {
				t.Errorf("Expected peak within [-1,1], got %f", peak)
			}
		})
	}
}

// TestZeroVolumeSilent verifies muted cues produce silence
func TestZeroVolumeSilent(t *testing.T) {
	_, peak := drain(t, CreateBuzzSound(beep.SampleRate(parameter.AudioSampleRate), 0), 1<<20)
	if peak != 0 {
		t.Errorf("Expected silence, got peak %f", peak)
	}
}
