package audio

import "math"

// Limiter is a soft limiter with lookahead. Its gain falls while the soft
// clipped RMS level of the input, measured over the attack time, would be
// louder than Limit, and recovers over the release time. The output is the
// input delayed by the attack time.
type Limiter struct {
	Limit           float64
	Attack, Release float64

	down, up float64
	amp      float64 // gain in octaves, never above 0
	rms      RMS
	delay    Delay
}

func NewLimiter(limit, attack, release float64) *Limiter {
	return &Limiter{Limit: limit, Attack: attack, Release: release}
}

func (l *Limiter) InitAudio(p Params) {
	l.down = -1 / (l.Attack * p.SampleRate)
	l.up = 1 / (l.Release * p.SampleRate)
	l.amp = 0
	l.rms = RMS{windowSize: l.Attack}
	l.rms.InitAudio(p)
	l.delay = Delay{delay: l.Attack}
	l.delay.InitAudio(p)
}

func (l *Limiter) Filter(x float64) float64 {
	gain := math.Exp2(l.amp)
	l.rms.Add(x)
	if y := l.rms.Amplitude() / l.Limit; y > 0 && math.Tanh(y)/y < gain {
		l.amp += l.down
	} else if l.amp < 0 {
		l.amp = math.Min(0, l.amp+l.up)
	}
	return gain * l.delay.Delay(x)
}

// Gain is the current linear gain.
func (l *Limiter) Gain() float64 { return math.Exp2(l.amp) }

// RMS measures the root mean square of the last windowSize seconds.
type RMS struct {
	windowSize float64
	buf        Audio
	i          int
	sum        float64
}

func NewRMS(windowSize float64) *RMS {
	return &RMS{windowSize: windowSize}
}

func (r *RMS) InitAudio(p Params) {
	r.buf = make(Audio, max(1, int(p.SampleRate*r.windowSize)))
	r.i, r.sum = 0, 0
}

func (r *RMS) Add(x float64) {
	r.sum -= r.buf[r.i]
	r.buf[r.i] = x * x
	r.sum += r.buf[r.i]
	r.i = (r.i + 1) % len(r.buf)
}

func (r *RMS) Amplitude() float64 {
	return math.Sqrt(math.Max(0, r.sum/float64(len(r.buf))))
}

// Delay is a fixed delay line of at least one sample.
type Delay struct {
	delay float64
	buf   Audio
	i     int
}

func NewDelay(delay float64) *Delay {
	return &Delay{delay: delay}
}

func (d *Delay) InitAudio(p Params) {
	d.buf = make(Audio, max(1, int(d.delay*p.SampleRate)))
	d.i = 0
}

func (d *Delay) Delay(x float64) float64 {
	y := d.buf[d.i]
	d.buf[d.i] = x
	d.i = (d.i + 1) % len(d.buf)
	return y
}

// Len is the delay in samples.
func (d *Delay) Len() int { return len(d.buf) }
