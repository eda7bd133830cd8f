package render

import (
	"github.com/BelaPlatform/PAW-2019/audio"
	"github.com/BelaPlatform/PAW-2019/touch"
)

// Controller turns the primary touch into resonator settings. Location picks
// the frequency and size the decay; both hold while nothing is touched. The
// frequency is smoothed every frame and the engine is retuned at the rate of
// the gate.
type Controller struct {
	FreqRange, DecayRange audio.Range

	Smoother audio.OnePole
	Gate     *audio.RateGate

	engine      Engine
	freq, decay float64
	updates     int
}

func NewController(e Engine, freqRange, decayRange audio.Range, cutoff, updatePeriod float64) *Controller {
	return &Controller{
		FreqRange:  freqRange,
		DecayRange: decayRange,
		Smoother:   audio.OnePole{Cutoff: cutoff},
		Gate:       audio.NewRateGate(updatePeriod),
		engine:     e,
		freq:       freqRange.Min(),
		decay:      decayRange.Min(),
	}
}

// InitAudio sets up the smoother and the gate and tunes the engine to the
// bottom of both ranges.
func (c *Controller) InitAudio(p audio.Params) {
	c.Smoother.InitAudio(p)
	c.Gate.InitAudio(p)
	c.Smoother.Reset(c.freq)
	c.engine.Retune(c.freq, c.decay)
}

// Touch updates the targets from s if it is active.
func (c *Controller) Touch(s touch.Sample, active bool) {
	if !active {
		return
	}
	c.freq = c.FreqRange.Denormalize(s.Location)
	c.decay = c.DecayRange.Denormalize(s.Size)
}

// Tick advances one frame and returns the engine's response to x.
func (c *Controller) Tick(x float64) float64 {
	f := c.Smoother.Filter(c.freq)
	if c.Gate.Tick() {
		c.engine.Retune(f, c.decay)
		c.updates++
	}
	return c.engine.Render(x)
}

// Targets are the unsmoothed frequency and decay.
func (c *Controller) Targets() (freq, decay float64) { return c.freq, c.decay }

// Updates counts gated retunes since setup.
func (c *Controller) Updates() int { return c.updates }
