package driver

import (
	"time"

	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/audio"
	"github.com/BelaPlatform/PAW-2019/render"
	"github.com/BelaPlatform/PAW-2019/sample"
)

// Source feeds recorded input to a Context block by block, followed by tail
// frames of silence.
type Source struct {
	chans []audio.Audio
	total int
	pos   int
}

func NewSource(chans []audio.Audio, tail int) *Source {
	n := 0
	if len(chans) > 0 {
		n = len(chans[0])
	}
	return &Source{chans: chans, total: n + tail}
}

// TailFrames converts a tail duration to frames.
func TailFrames(d time.Duration, sampleRate float64) int {
	return int(d.Seconds() * sampleRate)
}

// Fill loads the next block into c.In and sets c.Frames. It returns false
// once every frame has been delivered. Input channels the recording lacks
// read as silence.
func (s *Source) Fill(c *render.Context) bool {
	if s.pos >= s.total {
		return false
	}
	c.Frames = min(c.BlockSize, s.total-s.pos)
	for ch, in := range c.In {
		for n := 0; n < c.Frames; n++ {
			x := 0.0
			if ch < len(s.chans) && s.pos+n < len(s.chans[ch]) {
				x = s.chans[ch][s.pos+n]
			}
			in[n] = float32(x)
		}
	}
	s.pos += c.Frames
	return true
}

// Len is the number of frames the source delivers in total.
func (s *Source) Len() int { return s.total }

// LoadInput decodes a recording to feed a Source. Its sample rate must match
// the stream's.
func LoadInput(path string, sampleRate float64) ([]audio.Audio, error) {
	info, err := sample.Stat(path)
	if err != nil {
		return nil, err
	}
	if float64(info.SampleRate) != sampleRate {
		return nil, errors.Errorf("%s is at %d Hz, stream runs at %g Hz", path, info.SampleRate, sampleRate)
	}
	return sample.Load(path, 0)
}
