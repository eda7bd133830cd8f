package render

import (
	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/audio"
	"github.com/BelaPlatform/PAW-2019/config"
	"github.com/BelaPlatform/PAW-2019/model"
	"github.com/BelaPlatform/PAW-2019/touch"
)

// tuned is the render loop shared by the touch-tuned patches: the input on
// channel 0 excites the engine and the result goes to every output.
type tuned struct {
	cfg     config.Config
	touch   touchInput
	ctl     *Controller
	limiter *audio.Limiter
}

func (p *tuned) start(c *Context, e Engine) error {
	p.ctl = NewController(e, p.cfg.FreqRange, p.cfg.DecayRange,
		p.cfg.SmoothingCutoff, p.cfg.UpdatePeriod.Seconds())
	audio.Init(p.ctl, c.Params())
	if l := p.cfg.Limiter; l.Limit > 0 {
		p.limiter = audio.NewLimiter(l.Limit, l.Attack.Seconds(), l.Release.Seconds())
		audio.Init(p.limiter, c.Params())
	}
	return p.touch.setup(c)
}

func (p *tuned) Render(c *Context) {
	s, active := p.touch.primary()
	for n := 0; n < c.Frames; n++ {
		p.ctl.Touch(s, active)
		out := p.ctl.Tick(c.Read(0, n))
		if p.limiter != nil {
			out = p.limiter.Filter(out)
		}
		for ch := 0; ch < c.OutChannels; ch++ {
			c.Write(ch, n, out)
		}
	}
}

func (p *tuned) Cleanup(c *Context) {
	p.touch.cleanup(c)
	if p.ctl != nil {
		freq, decay := p.ctl.Targets()
		c.Log.Debug("controller stopped", "updates", p.ctl.Updates(), "freq", freq, "decay", decay)
	}
}

// Controller is valid after Setup.
func (p *tuned) Controller() *Controller { return p.ctl }

// Resonator tunes a single resonator from the touch sensor. A nil sensor
// leaves it at the bottom of its ranges.
type Resonator struct {
	tuned
	res *audio.TwoPole
}

func NewResonator(cfg config.Config, s touch.Sensor) *Resonator {
	return &Resonator{tuned: tuned{cfg: cfg, touch: touchInput{sensor: s, cfg: cfg.Touch}}}
}

func (p *Resonator) Setup(c *Context) error {
	p.res = audio.NewTwoPole(audio.Parameters{
		Freq:  p.cfg.FreqRange.Min(),
		Gain:  p.cfg.Gain,
		Decay: p.cfg.DecayRange.Min(),
	})
	audio.Init(p.res, c.Params())
	return p.start(c, NewSingle(p.res, p.cfg.Gain))
}

// Bank tunes a resonator bank loaded from a model file. Touch location moves
// the model's fundamental across FreqRange and size scales its decays across
// DecayRange.
type Bank struct {
	tuned
	model *model.Model
	bank  *audio.Bank
}

func NewBank(cfg config.Config, s touch.Sensor) *Bank {
	return &Bank{tuned: tuned{cfg: cfg, touch: touchInput{sensor: s, cfg: cfg.Touch}}}
}

func (p *Bank) Setup(c *Context) error {
	m, err := model.Load(p.cfg.ModelPath)
	if err != nil {
		return errors.Wrap(err, "unable to load resonator model")
	}
	nyquist := c.SampleRate / 2
	if top := p.cfg.FreqRange.Max() * m.Span(); top >= nyquist {
		return errors.Wrapf(config.ErrInvalid, "model %s reaches %.0f Hz at %g Hz, above the %g Hz Nyquist frequency",
			m.Metadata().Name, top, p.cfg.FreqRange.Max(), nyquist)
	}
	p.model = m
	p.bank = audio.NewBank(m.Size())
	p.bank.SetBank(m.ShiftedToFreq(p.cfg.FreqRange.Min()))
	audio.Init(p.bank, c.Params())
	c.Log.Info("loaded resonator model", "name", m.Metadata().Name, "resonators", m.Size())
	return p.start(c, NewModelBank(m, p.bank))
}
