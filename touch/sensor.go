package touch

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoDevice is returned by Setup when nothing answers at the configured
// address.
var ErrNoDevice = errors.New("touch: no device")

// Mode is the sensor's scanning mode.
type Mode int

const (
	Centroid Mode = iota
	Raw
	Baseline
	Differential
)

// Normal is the mode that reports touch centroids.
const Normal = Centroid

var modeNames = [...]string{"centroid", "raw", "baseline", "diff"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts the names printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	if s == "normal" {
		return Normal, nil
	}
	return 0, errors.Errorf("touch: unknown mode %q", s)
}

// SensorConfig is what a sensor needs to start scanning.
type SensorConfig struct {
	Bus       int
	Address   uint8
	Mode      Mode
	Threshold int
	Prescaler int
}

// DefaultSensorConfig is a Trill Bar on I2C bus 1.
var DefaultSensorConfig = SensorConfig{
	Bus:       1,
	Address:   0x18,
	Mode:      Normal,
	Threshold: 50,
	Prescaler: 1,
}

// A Sensor reports up to MaxTouches contacts in native units. ReadLocations
// performs one transaction; the accessors report its result and do no I/O.
// Implementations are used from a single goroutine.
type Sensor interface {
	Setup(SensorConfig) error
	ReadLocations() error
	NumberOfTouches() int
	TouchLocation(i int) float64
	TouchSize(i int) float64
}
