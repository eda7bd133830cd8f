package audio

import "math"

// OnsetDetector is a rearmed peak follower on the rectified input. It fires
// once when the signal falls amountBelowPeak under a peak of at least
// threshold, and rearms only when a new peak is reached. The tracked peak
// forgets linearly by rolloff per sample so a later, weaker strike can still
// register.
//
// There is no low-pass pre-filter and no debounce timer: a noisy decay can
// set a new peak and fire again. That is the intended behaviour.
type OnsetDetector struct {
	Threshold       float64
	AmountBelowPeak float64
	Rolloff         float64

	rectified float64
	peak      float64
	triggered bool
}

func NewOnsetDetector(threshold, amountBelowPeak, rolloff float64) *OnsetDetector {
	return &OnsetDetector{Threshold: threshold, AmountBelowPeak: amountBelowPeak, Rolloff: rolloff}
}

// Detect consumes one input sample and reports whether it is an onset.
func (d *OnsetDetector) Detect(x float64) bool {
	r := math.Abs(x)
	d.rectified = r

	if r >= d.peak {
		d.peak = r
		d.triggered = false
	} else if d.peak >= d.Rolloff {
		d.peak -= d.Rolloff
	}

	if r < d.peak-d.AmountBelowPeak && d.peak >= d.Threshold && !d.triggered {
		d.triggered = true
		return true
	}
	return false
}

func (d *OnsetDetector) Rectified() float64 { return d.rectified }
func (d *OnsetDetector) Peak() float64      { return d.peak }
func (d *OnsetDetector) Triggered() bool    { return d.triggered }

// Reset returns the detector to tracking with a zero peak.
func (d *OnsetDetector) Reset() {
	d.rectified, d.peak, d.triggered = 0, 0, false
}
