package audio

import (
	"math"

	"github.com/ktye/fft"
)

// Spectrum computes Hann-windowed magnitude spectra of fixed-size blocks.
type Spectrum struct {
	fft fft.FFT
	env []float64
	buf []complex128
	mag []float64
}

// NewSpectrum returns an analyser for blocks of size samples; size must be a
// power of two.
func NewSpectrum(size int) (*Spectrum, error) {
	f, err := fft.New(size)
	if err != nil {
		return nil, err
	}
	env := make([]float64, size)
	for i := range env {
		env[i] = (1 - math.Cos(2*math.Pi*float64(i)/float64(size))) / 2
	}
	return &Spectrum{
		fft: f,
		env: env,
		buf: make([]complex128, size),
		mag: make([]float64, size/2+1),
	}, nil
}

func (s *Spectrum) Size() int { return len(s.env) }

// Magnitudes returns the magnitude of bins 0..Size()/2 of x. Shorter input is
// zero padded. The returned slice is reused by the next call.
func (s *Spectrum) Magnitudes(x []float64) []float64 {
	for i := range s.buf {
		v := 0.0
		if i < len(x) {
			v = x[i] * s.env[i]
		}
		s.buf[i] = complex(v, 0)
	}
	s.buf = s.fft.Transform(s.buf)
	for i := range s.mag {
		s.mag[i] = math.Hypot(real(s.buf[i]), imag(s.buf[i]))
	}
	return s.mag
}

// Dominant returns the frequency in Hz of the strongest non-DC component of
// x, refined by parabolic interpolation between neighbouring bins. It
// returns 0 for silence.
func (s *Spectrum) Dominant(x []float64, sampleRate float64) float64 {
	mag := s.Magnitudes(x)
	k := 1
	for i := 2; i < len(mag); i++ {
		if mag[i] > mag[k] {
			k = i
		}
	}
	if mag[k] == 0 {
		return 0
	}
	bin := float64(k)
	if k < len(mag)-1 {
		a, b, c := mag[k-1], mag[k], mag[k+1]
		if d := a - 2*b + c; d != 0 {
			bin += (a - c) / (2 * d)
		}
	}
	return bin * sampleRate / float64(len(s.env))
}
