package audio

import "math"

// RateGate counts samples and opens once every Interval()+1 ticks. It bounds
// how often an expensive update runs from inside the audio callback.
type RateGate struct {
	period   float64
	interval int
	count    int
}

// NewRateGate returns a gate that opens roughly every period seconds once
// initialised with a sample rate.
func NewRateGate(period float64) *RateGate {
	return &RateGate{period: period}
}

func (g *RateGate) InitAudio(p Params) {
	if p.SampleRate == 0 {
		panic("RateGate.InitAudio called with zero sample rate")
	}
	g.SetInterval(int(math.Round(g.period * p.SampleRate)))
}

// SetInterval sets the interval in samples directly and restarts the count.
func (g *RateGate) SetInterval(n int) {
	g.interval = n
	g.count = 0
}

func (g *RateGate) Interval() int { return g.interval }
func (g *RateGate) Count() int    { return g.count }

// Tick advances the gate by one sample and reports whether it opened. The
// gate opens when the count strictly exceeds the interval.
func (g *RateGate) Tick() bool {
	g.count++
	if g.count > g.interval {
		g.count = 0
		return true
	}
	return false
}
