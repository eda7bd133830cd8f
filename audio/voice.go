package audio

// SampleVoice plays an immutable buffer once from the start each time it is
// triggered and is silent otherwise.
type SampleVoice struct {
	samples Audio
	pos     int
	last    float64
}

func NewSampleVoice(samples Audio) *SampleVoice {
	return &SampleVoice{samples: samples, pos: -1}
}

// Trigger restarts playback, cutting off any playback in progress.
func (v *SampleVoice) Trigger() { v.pos = 0 }

func (v *SampleVoice) Sing() float64 {
	if v.pos < 0 || v.pos >= len(v.samples) {
		v.pos = -1
		v.last = 0
		return 0
	}
	x := v.samples[v.pos]
	v.last = x
	v.pos++
	if v.pos >= len(v.samples) {
		v.pos = -1
	}
	return x
}

func (v *SampleVoice) Done() bool { return v.pos == -1 }

// Last is the sample returned by the latest Sing.
func (v *SampleVoice) Last() float64 { return v.last }

// Position is the index of the next sample, or -1 when idle.
func (v *SampleVoice) Position() int { return v.pos }

func (v *SampleVoice) Len() int { return len(v.samples) }

// Sampler drives one SampleVoice per output channel. Channel ch reads buffer
// ch % len(buffers), so a mono buffer can feed every channel.
type Sampler struct {
	Gain   float64
	voices []*SampleVoice
}

func NewSampler(buffers []Audio, channels int, gain float64) *Sampler {
	s := &Sampler{Gain: gain}
	for ch := 0; ch < channels; ch++ {
		var buf Audio
		if len(buffers) > 0 {
			buf = buffers[ch%len(buffers)]
		}
		s.voices = append(s.voices, NewSampleVoice(buf))
	}
	return s
}

func (s *Sampler) Trigger() {
	for _, v := range s.voices {
		v.Trigger()
	}
}

// Sing returns the next sample of channel ch, scaled by Gain. The unscaled
// sample is then available from Voice(ch).Last.
func (s *Sampler) Sing(ch int) float64 {
	return s.Gain * s.voices[ch].Sing()
}

func (s *Sampler) Done() bool {
	for _, v := range s.voices {
		if !v.Done() {
			return false
		}
	}
	return true
}

func (s *Sampler) Voice(ch int) *SampleVoice { return s.voices[ch] }

func (s *Sampler) Channels() int { return len(s.voices) }
