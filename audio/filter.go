package audio

import "math"

// OnePole is a one-pole low-pass used to smooth control signals.
type OnePole struct {
	Cutoff float64
	a, y   float64
}

func NewOnePole(cutoff float64) *OnePole {
	return &OnePole{Cutoff: cutoff}
}

func (f *OnePole) InitAudio(p Params) {
	f.a = 1 - math.Exp(-2*math.Pi*f.Cutoff/p.SampleRate)
}

func (f *OnePole) Filter(x float64) float64 {
	f.y += f.a * (x - f.y)
	return f.y
}

// Reset sets the filter state so that the next output starts from y.
func (f *OnePole) Reset(y float64) { f.y = y }
