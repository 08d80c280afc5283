package tone

import "time"

// Cue names a short feedback sound.
type Cue string

const (
	CueTick           Cue = "tick"
	CueScan           Cue = "scan"
	CueDrag           Cue = "drag"
	CueDelete         Cue = "delete"
	CueError          Cue = "error"
	CueCountdown      Cue = "countdown"
	CueCountdownFinal Cue = "countdown_final"
)

// Waveform is the oscillator shape of a tone.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
)

// Tone is one oscillator burst. Frequency sweeps exponentially from StartHz to EndHz
// (EndHz of zero holds StartHz) and gain decays exponentially from Gain*volume to floorGain.
type Tone struct {
	StartHz  float64
	EndHz    float64
	Offset   time.Duration
	Duration time.Duration
	Wave     Waveform
	Gain     float64
}

var cues = map[Cue][]Tone{
	CueTick: {
		{StartHz: 800, Duration: 100 * time.Millisecond, Gain: 1},
	},
	CueScan: {
		{StartHz: 600, Duration: 50 * time.Millisecond, Gain: 1},
		{StartHz: 800, Offset: 60 * time.Millisecond, Duration: 100 * time.Millisecond, Gain: 1},
	},
	CueDrag: {
		{StartHz: 400, EndHz: 200, Duration: 150 * time.Millisecond, Gain: 0.5},
	},
	CueDelete: {
		{StartHz: 600, EndHz: 200, Duration: 200 * time.Millisecond, Wave: Square, Gain: 0.4},
	},
	CueError: {
		{StartHz: 200, Duration: 300 * time.Millisecond, Wave: Sawtooth, Gain: 0.6},
	},
	CueCountdown: {
		{StartHz: 1000, Duration: 100 * time.Millisecond, Gain: 1},
	},
	CueCountdownFinal: {
		{StartHz: 800, Duration: 80 * time.Millisecond, Gain: 1},
		{StartHz: 1000, Offset: 100 * time.Millisecond, Duration: 80 * time.Millisecond, Gain: 1},
		{StartHz: 1200, Offset: 200 * time.Millisecond, Duration: 150 * time.Millisecond, Gain: 1},
	},
}

// Valid reports whether c is a known cue.
func (c Cue) Valid() bool {
	_, ok := cues[c]
	return ok
}
