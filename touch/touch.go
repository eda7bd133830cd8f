// Package touch reads a capacitive touch sensor on an auxiliary schedule and
// hands normalised touch frames to the audio thread without locks.
package touch

import "github.com/BelaPlatform/PAW-2019/audio"

// MaxTouches is the number of contacts tracked per frame.
const MaxTouches = 5

// Sample is one normalised contact. Location and Size are in [0, 1].
type Sample struct {
	Location float64
	Size     float64
	Active   bool
}

// Frame is one complete poll of the sensor. Slots at and beyond Count are
// zero.
type Frame struct {
	Touches [MaxTouches]Sample
	Count   int
}

// Primary returns the first contact and whether any contact is active.
func (f *Frame) Primary() (Sample, bool) {
	if f.Count == 0 {
		return Sample{}, false
	}
	return f.Touches[0], f.Touches[0].Active
}

// Calibration gives the native sensor ranges that map onto [0, 1].
type Calibration struct {
	Location audio.Range
	Size     audio.Range
}

// DefaultCalibration matches a Trill Bar: locations 0-3200 and a size range
// measured on the device.
var DefaultCalibration = Calibration{
	Location: audio.Range{0, 3200},
	Size:     audio.Range{1000, 7000},
}

// Normalize converts raw readings into a Frame. Contacts beyond MaxTouches
// are dropped.
func (c Calibration) Normalize(count int, location, size func(i int) float64) Frame {
	var f Frame
	if count > MaxTouches {
		count = MaxTouches
	}
	if count < 0 {
		count = 0
	}
	for i := 0; i < count; i++ {
		f.Touches[i] = Sample{
			Location: c.Location.Normalize(location(i)),
			Size:     c.Size.Normalize(size(i)),
			Active:   true,
		}
	}
	f.Count = count
	return f
}
