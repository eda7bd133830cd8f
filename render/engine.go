package render

import (
	"github.com/BelaPlatform/PAW-2019/audio"
	"github.com/BelaPlatform/PAW-2019/model"
)

// Engine is what the Controller drives: Retune applies a new frequency and
// decay at once, Render excites the resonators with one input sample.
type Engine interface {
	Retune(freq, decay float64)
	Render(x float64) float64
}

// Single drives one resonator at a fixed gain.
type Single struct {
	res  audio.Resonator
	gain float64
}

func NewSingle(r audio.Resonator, gain float64) *Single {
	return &Single{res: r, gain: gain}
}

func (s *Single) Retune(freq, decay float64) {
	s.res.SetParameters(audio.Parameters{Freq: freq, Gain: s.gain, Decay: decay})
	s.res.Commit()
}

func (s *Single) Render(x float64) float64 { return s.res.Render(x) }

// ModelBank drives a bank tuned from a model. The frequency moves the model's
// fundamental and the decay scales every resonator's decay.
type ModelBank struct {
	model *model.Model
	bank  *audio.Bank
}

func NewModelBank(m *model.Model, b *audio.Bank) *ModelBank {
	return &ModelBank{model: m, bank: b}
}

func (b *ModelBank) Retune(freq, decay float64) {
	b.model.ShiftToFreq(freq)
	b.bank.SetBank(b.model.ScaledDecay(decay))
	b.bank.Commit()
}

func (b *ModelBank) Render(x float64) float64 { return b.bank.Render(x) }
