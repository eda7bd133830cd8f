// Package scope records signals from the audio thread and summarises them
// for logging.
package scope

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/audio"
)

// Scope keeps the last Window frames of each channel. Log never blocks: if a
// reader holds the scope, the frame is dropped.
type Scope struct {
	mu      sync.Mutex
	rings   []audio.Audio
	meters  []*audio.LevelMeter
	pos     int
	filled  int
	dropped atomic.Uint64

	sampleRate float64
	spectrum   *audio.Spectrum
	scratch    audio.Audio
}

func New(channels, window int, sampleRate float64) (*Scope, error) {
	if channels < 1 {
		return nil, errors.Errorf("scope: %d channels", channels)
	}
	spec, err := audio.NewSpectrum(window)
	if err != nil {
		return nil, errors.Wrap(err, "scope")
	}
	s := &Scope{
		sampleRate: sampleRate,
		spectrum:   spec,
		scratch:    make(audio.Audio, window),
	}
	for i := 0; i < channels; i++ {
		s.rings = append(s.rings, make(audio.Audio, window))
		s.meters = append(s.meters, audio.NewLevelMeter(float64(window)/sampleRate))
	}
	audio.Init(s.meters, audio.Params{SampleRate: sampleRate})
	return s, nil
}

func (s *Scope) Channels() int { return len(s.rings) }
func (s *Scope) Window() int   { return len(s.scratch) }

// Log records one frame. Missing channels are logged as 0 and extra values
// are ignored.
func (s *Scope) Log(xs ...float64) {
	if !s.mu.TryLock() {
		s.dropped.Add(1)
		return
	}
	for ch, ring := range s.rings {
		x := 0.0
		if ch < len(xs) {
			x = xs[ch]
		}
		ring[s.pos] = x
		s.meters[ch].Add(x)
	}
	s.pos = (s.pos + 1) % len(s.scratch)
	if s.filled < len(s.scratch) {
		s.filled++
	}
	s.mu.Unlock()
}

// Dropped is the number of frames lost to contention.
func (s *Scope) Dropped() uint64 { return s.dropped.Load() }

type Report struct {
	Channel  int
	Level    float64 // mean absolute value
	Peak     float64
	Dominant float64 // Hz, 0 for silence
}

// Report summarises every channel over the window.
func (s *Scope) Report() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := make([]Report, len(s.rings))
	for ch := range s.rings {
		s.copyOrdered(s.scratch, ch)
		r[ch] = Report{
			Channel:  ch,
			Level:    s.meters[ch].Level(),
			Peak:     s.meters[ch].Peak(),
			Dominant: s.spectrum.Dominant(s.scratch, s.sampleRate),
		}
	}
	return r
}

// Snapshot copies the recorded frames of every channel, oldest first.
func (s *Scope) Snapshot() []audio.Audio {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]audio.Audio, len(s.rings))
	for ch := range out {
		out[ch] = make(audio.Audio, len(s.scratch))
		s.copyOrdered(out[ch], ch)
		out[ch] = out[ch][len(s.scratch)-s.filled:]
	}
	return out
}

// copyOrdered unrolls a ring into dst, oldest first, leaving zeros in front
// when the ring is not yet full.
func (s *Scope) copyOrdered(dst audio.Audio, ch int) {
	ring := s.rings[ch]
	n := copy(dst, ring[s.pos:])
	copy(dst[n:], ring[:s.pos])
}
