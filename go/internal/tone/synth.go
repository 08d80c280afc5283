// Package tone synthesizes the kiosk's short audio cues as PCM WAV.
package tone

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	DefaultSampleRate = 22050
	DefaultVolume     = 0.3

	floorGain = 0.01
)

var ErrUnknownCue = errors.New("unknown cue")

// Synth renders cues at a shared volume. It is safe for concurrent use.
type Synth struct {
	mu         sync.RWMutex
	enabled    bool
	volume     float64
	sampleRate int
}

func NewSynth() *Synth {
	return &Synth{
		enabled:    true,
		volume:     DefaultVolume,
		sampleRate: DefaultSampleRate,
	}
}

// SetVolume sets the master volume, clamped to [0, 1].
func (s *Synth) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = clamp(v, 0, 1)
}

func (s *Synth) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

func (s *Synth) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

func (s *Synth) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// Samples renders cue to mono float samples in [-1, 1]. A disabled synth returns nil.
func (s *Synth) Samples(cue Cue) ([]float64, error) {
	tones, ok := cues[cue]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCue, cue)
	}

	s.mu.RLock()
	enabled, volume, rate := s.enabled, s.volume, s.sampleRate
	s.mu.RUnlock()

	if !enabled {
		return nil, nil
	}

	var length time.Duration
	for _, t := range tones {
		if end := t.Offset + t.Duration; end > length {
			length = end
		}
	}

	out := make([]float64, samplesFor(length, rate))
	for _, t := range tones {
		mix(out, t, volume, rate)
	}
	for i := range out {
		out[i] = clamp(out[i], -1, 1)
	}
	return out, nil
}

// WAV renders cue as a 16-bit mono PCM WAV file. A disabled synth returns nil.
func (s *Synth) WAV(cue Cue) ([]byte, error) {
	samples, err := s.Samples(cue)
	if err != nil || samples == nil {
		return nil, err
	}

	s.mu.RLock()
	rate := s.sampleRate
	s.mu.RUnlock()

	return encodeWAV(samples, rate), nil
}

func mix(out []float64, t Tone, volume float64, rate int) {
	start := samplesFor(t.Offset, rate)
	n := samplesFor(t.Duration, rate)
	peak := volume * t.Gain
	if peak <= 0 || n == 0 {
		return
	}

	endHz := t.EndHz
	if endHz == 0 {
		endHz = t.StartHz
	}

	phase := 0.0
	for i := 0; i < n && start+i < len(out); i++ {
		frac := float64(i) / float64(n)
		freq := t.StartHz * math.Pow(endHz/t.StartHz, frac)
		gain := peak * math.Pow(floorGain/peak, frac)

		out[start+i] += gain * wave(t.Wave, phase)

		phase += freq / float64(rate)
		phase -= math.Floor(phase)
	}
}

// wave evaluates one period of w at phase in [0, 1).
func wave(w Waveform, phase float64) float64 {
	switch w {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		return 2 * (phase - math.Floor(phase+0.5))
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

func encodeWAV(samples []float64, rate int) []byte {
	const bitsPerSample = 16
	dataSize := uint32(len(samples) * 2)

	var buf bytes.Buffer
	buf.Grow(44 + int(dataSize))

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*bitsPerSample/8))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample/8))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	for _, v := range samples {
		binary.Write(&buf, binary.LittleEndian, int16(math.Round(v*math.MaxInt16)))
	}
	return buf.Bytes()
}

func samplesFor(d time.Duration, rate int) int {
	return int(d.Seconds() * float64(rate))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
