package render

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/audio"
	"github.com/BelaPlatform/PAW-2019/config"
	"github.com/BelaPlatform/PAW-2019/sample"
	"github.com/BelaPlatform/PAW-2019/scope"
)

// Trigger plays a sample on every output when it detects a strike on the
// piezo input. The input, its rectified value, the detector's peak and the
// first output are logged to a four-channel scope.
type Trigger struct {
	cfg      config.Config
	detector *audio.OnsetDetector
	sampler  *audio.Sampler
	scope    *scope.Scope
	onsets   atomic.Int64
}

func NewTrigger(cfg config.Config) *Trigger {
	return &Trigger{cfg: cfg}
}

func (p *Trigger) Setup(c *Context) error {
	buffers, err := sample.Load(p.cfg.SamplePath, 0)
	if err != nil {
		return errors.Wrap(err, "unable to load sample")
	}
	p.sampler = audio.NewSampler(buffers, c.OutChannels, p.cfg.OutputGain)
	o := p.cfg.Onset
	p.detector = audio.NewOnsetDetector(o.Threshold, o.AmountBelowPeak, o.Rolloff)

	p.scope, err = scope.New(4, p.cfg.Scope.Window, c.SampleRate)
	if err != nil {
		return err
	}
	m := scope.NewMonitor(p.scope, p.cfg.Scope.ReportInterval.Duration, "input", "rectified", "peak", "out")
	m.SetLogger(c.Log)
	c.ScheduleAuxiliaryTask("scope", m.Run)
	c.Log.Info("loaded sample", "path", p.cfg.SamplePath, "frames", p.sampler.Voice(0).Len())
	return nil
}

func (p *Trigger) Render(c *Context) {
	for n := 0; n < c.Frames; n++ {
		in := c.Read(0, n)
		if p.detector.Detect(in) {
			p.sampler.Trigger()
			p.onsets.Add(1)
		}
		for ch := 0; ch < c.OutChannels; ch++ {
			c.Write(ch, n, p.sampler.Sing(ch))
		}
		p.scope.Log(in, p.detector.Rectified(), p.detector.Peak(), p.sampler.Voice(0).Last())
	}
}

func (p *Trigger) Cleanup(c *Context) {
	c.Log.Info("trigger stopped", "onsets", p.Onsets())
}

// Onsets counts detected strikes. It is safe to call while rendering.
func (p *Trigger) Onsets() int64 { return p.onsets.Load() }

// Scope is valid after Setup.
func (p *Trigger) Scope() *scope.Scope { return p.scope }

// Scope logs the piezo input to a one-channel scope and outputs silence.
type Scope struct {
	cfg   config.Config
	scope *scope.Scope
}

func NewScope(cfg config.Config) *Scope {
	return &Scope{cfg: cfg}
}

func (p *Scope) Setup(c *Context) error {
	var err error
	p.scope, err = scope.New(1, p.cfg.Scope.Window, c.SampleRate)
	if err != nil {
		return err
	}
	m := scope.NewMonitor(p.scope, p.cfg.Scope.ReportInterval.Duration, "piezo")
	m.SetLogger(c.Log)
	c.ScheduleAuxiliaryTask("scope", m.Run)
	return nil
}

func (p *Scope) Render(c *Context) {
	for n := 0; n < c.Frames; n++ {
		p.scope.Log(c.Read(0, n))
		for ch := 0; ch < c.OutChannels; ch++ {
			c.Write(ch, n, 0)
		}
	}
}

func (p *Scope) Cleanup(c *Context) {
	if d := p.scope.Dropped(); d > 0 {
		c.Log.Warn("scope dropped frames", "frames", d)
	}
}

func (p *Scope) Scope() *scope.Scope { return p.scope }
