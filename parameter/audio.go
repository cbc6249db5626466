package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond

	// AudioDefaultVolume is the master volume in [0,1]
	AudioDefaultVolume = 0.6
)

// MinTickGap throttles frontier ticks; at high step rates one tick per frame is plenty
const MinTickGap = 60 * time.Millisecond

// Tick Sound, played when the frontier grows
const (
	TickSoundFreq     = 1320.0
	TickSoundDuration = 25 * time.Millisecond
	TickSoundAttack   = 2 * time.Millisecond
	TickSoundRelease  = 15 * time.Millisecond
	TickSoundVolume   = 0.25
)

// Chime Sound, played when the target is reached
const (
	ChimeSoundNote1Freq     = 987.77  // B5
	ChimeSoundNote2Freq     = 1318.51 // E6
	ChimeSoundNote1Duration = 90 * time.Millisecond
	ChimeSoundNote2Duration = 380 * time.Millisecond
	ChimeSoundAttack        = 5 * time.Millisecond
	ChimeSoundNote1Release  = 40 * time.Millisecond
	ChimeSoundNote2Release  = 320 * time.Millisecond
	ChimeSoundVolume        = 0.7
)

// Buzz Sound, played when the search exhausts without a path
const (
	BuzzSoundFreq     = 100.0
	BuzzSoundDuration = 180 * time.Millisecond
	BuzzSoundAttack   = 5 * time.Millisecond
	BuzzSoundRelease  = 60 * time.Millisecond
	BuzzSoundVolume   = 0.6
)
