package audio

import "math"

// Parameters is the synthesis parameter set of one resonator. Decay is the
// time in seconds for the ringing to fall by 60dB.
type Parameters struct {
	Freq, Gain, Decay float64
}

// A Resonator is excited one sample at a time. Parameters set with
// SetParameters take effect at the next Commit, which may be expensive and
// should be rate limited by the caller.
type Resonator interface {
	SetParameters(Parameters)
	Commit()
	Render(excitation float64) float64
}

// TwoPole is a resonant two-pole filter normalised to unity gain at its
// centre frequency.
type TwoPole struct {
	Params           Params
	pending, current Parameters
	b0, a1, a2       float64
	y1, y2           float64
}

func NewTwoPole(p Parameters) *TwoPole {
	return &TwoPole{pending: p}
}

func (r *TwoPole) InitAudio(p Params) {
	r.Params = p
	r.Commit()
}

func (r *TwoPole) SetParameters(p Parameters) { r.pending = p }

// Parameters returns the last committed parameters.
func (r *TwoPole) Parameters() Parameters { return r.current }

func (r *TwoPole) Commit() {
	if r.Params.SampleRate == 0 {
		panic("TwoPole.Commit called before InitAudio")
	}
	r.current = r.pending
	w := 2 * math.Pi * r.current.Freq / r.Params.SampleRate
	rad := poleRadius(r.current.Decay, r.Params.SampleRate)
	r.a1 = 2 * rad * math.Cos(w)
	r.a2 = -rad * rad
	r.b0 = (1 - rad) * math.Sqrt(1-2*rad*math.Cos(2*w)+rad*rad)
}

func (r *TwoPole) Render(x float64) float64 {
	y := r.current.Gain*r.b0*x + r.a1*r.y1 + r.a2*r.y2
	r.y2, r.y1 = r.y1, y
	return y
}

// Reset silences the filter without touching its parameters.
func (r *TwoPole) Reset() { r.y1, r.y2 = 0, 0 }

func poleRadius(decay, sampleRate float64) float64 {
	if decay <= 0 {
		return 0
	}
	return math.Pow(.001, 1/(decay*sampleRate))
}

// Bank is a set of TwoPole resonators sharing one excitation, their outputs
// summed.
type Bank struct {
	Params Params
	res    []TwoPole
}

func NewBank(size int) *Bank {
	return &Bank{res: make([]TwoPole, size)}
}

func (b *Bank) InitAudio(p Params) {
	b.Params = p
	for i := range b.res {
		b.res[i].InitAudio(p)
	}
}

func (b *Bank) Size() int { return len(b.res) }

// SetBank stages parameters for each member; entries beyond Size are ignored
// and members without an entry keep their pending parameters.
func (b *Bank) SetBank(ps []Parameters) {
	for i := range b.res {
		if i == len(ps) {
			break
		}
		b.res[i].SetParameters(ps[i])
	}
}

// Commit recomputes the coefficients of every member.
func (b *Bank) Commit() {
	for i := range b.res {
		b.res[i].Commit()
	}
}

func (b *Bank) Render(x float64) float64 {
	y := 0.0
	for i := range b.res {
		y += b.res[i].Render(x)
	}
	return y
}

// At returns the committed parameters of member i.
func (b *Bank) At(i int) Parameters { return b.res[i].current }
