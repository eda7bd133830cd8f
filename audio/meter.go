package audio

import "math"

// LevelMeter tracks the mean absolute level and the peak over a sliding
// window.
type LevelMeter struct {
	windowSize float64
	buf        Audio
	i          int
	sum        float64
}

func NewLevelMeter(windowSize float64) *LevelMeter {
	return &LevelMeter{windowSize: windowSize}
}

func (m *LevelMeter) InitAudio(p Params) {
	n := int(p.SampleRate * m.windowSize)
	if n < 1 {
		n = 1
	}
	m.buf = make(Audio, n)
	m.i, m.sum = 0, 0
}

func (m *LevelMeter) Add(x float64) {
	m.sum -= m.buf[m.i]
	m.buf[m.i] = math.Abs(x)
	m.sum += m.buf[m.i]
	m.i = (m.i + 1) % len(m.buf)
}

func (m *LevelMeter) Level() float64 {
	return math.Max(0, m.sum/float64(len(m.buf)))
}

func (m *LevelMeter) Peak() float64 {
	p := 0.0
	for _, x := range m.buf {
		p = math.Max(p, x)
	}
	return p
}

func (m *LevelMeter) Reset() {
	m.buf.Zero()
	m.i, m.sum = 0, 0
}
