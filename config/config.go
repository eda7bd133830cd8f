// Package config holds the setup-time settings of every patch. A Config is
// built from a patch default, optionally overlaid with a JSON file and
// command-line flags, validated, and then never changed.
package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/audio"
	"github.com/BelaPlatform/PAW-2019/touch"
)

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration that reads and writes JSON as "10ms".
type Duration struct{ time.Duration }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "duration")
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrap(err, "duration")
	}
	d.Duration = v
	return nil
}

type Touch struct {
	Bus       int    `json:"bus"`
	Address   uint8  `json:"address"`
	Mode      string `json:"mode"`
	Threshold int    `json:"threshold"`
	Prescaler int    `json:"prescaler"`

	// Native sensor ranges mapped onto [0, 1].
	Location audio.Range `json:"location"`
	Size     audio.Range `json:"size"`

	PollInterval Duration `json:"pollInterval"`
}

// Sensor returns the settings passed to touch.Sensor.Setup.
func (t Touch) Sensor() (touch.SensorConfig, error) {
	m, err := touch.ParseMode(t.Mode)
	if err != nil {
		return touch.SensorConfig{}, err
	}
	return touch.SensorConfig{
		Bus:       t.Bus,
		Address:   t.Address,
		Mode:      m,
		Threshold: t.Threshold,
		Prescaler: t.Prescaler,
	}, nil
}

func (t Touch) Calibration() touch.Calibration {
	return touch.Calibration{Location: t.Location, Size: t.Size}
}

type Onset struct {
	Threshold       float64 `json:"threshold"`
	AmountBelowPeak float64 `json:"amountBelowPeak"`
	Rolloff         float64 `json:"rolloff"`
}

// Limiter settings for the tuned patches' output. A zero Limit disables it.
type Limiter struct {
	Limit   float64  `json:"limit"`
	Attack  Duration `json:"attack"`
	Release Duration `json:"release"`
}

type Monitor struct {
	// Window is the number of frames kept per channel, a power of two.
	Window         int      `json:"window"`
	ReportInterval Duration `json:"reportInterval"`
}

type Config struct {
	SampleRate  float64 `json:"sampleRate"`
	BlockSize   int     `json:"blockSize"`
	InChannels  int     `json:"inChannels"`
	OutChannels int     `json:"outChannels"`

	FreqRange  audio.Range `json:"freqRange"`
	DecayRange audio.Range `json:"decayRange"`
	Gain       float64     `json:"gain"`

	// UpdatePeriod is how often smoothed parameters reach the resonators.
	UpdatePeriod    Duration `json:"updatePeriod"`
	SmoothingCutoff float64  `json:"smoothingCutoff"`

	Touch   Touch   `json:"touch"`
	Onset   Onset   `json:"onset"`
	Scope   Monitor `json:"scope"`
	Limiter Limiter `json:"limiter"`

	OutputGain float64 `json:"outputGain"`
	SamplePath string  `json:"samplePath"`
	ModelPath  string  `json:"modelPath"`
}

func base() Config {
	return Config{
		SampleRate:      44100,
		BlockSize:       128,
		InChannels:      1,
		OutChannels:     2,
		Gain:            .8,
		UpdatePeriod:    Duration{10 * time.Millisecond},
		SmoothingCutoff: 5,
		Touch: Touch{
			Bus:          touch.DefaultSensorConfig.Bus,
			Address:      touch.DefaultSensorConfig.Address,
			Mode:         touch.DefaultSensorConfig.Mode.String(),
			Threshold:    touch.DefaultSensorConfig.Threshold,
			Prescaler:    touch.DefaultSensorConfig.Prescaler,
			Location:     touch.DefaultCalibration.Location,
			Size:         touch.DefaultCalibration.Size,
			PollInterval: Duration{10 * time.Millisecond},
		},
		Onset:   Onset{Threshold: .8, AmountBelowPeak: .6, Rolloff: .00005},
		Scope:   Monitor{Window: 4096, ReportInterval: Duration{time.Second}},
		Limiter: Limiter{Attack: Duration{5 * time.Millisecond}, Release: Duration{200 * time.Millisecond}},
	}
}

// Resonator is the default for a single touch-tuned resonator.
func Resonator() Config {
	c := base()
	c.FreqRange = audio.Range{400, 1000}
	c.DecayRange = audio.Range{.05, .9}
	return c
}

// Bank is the default for a touch-tuned resonator bank. DecayRange scales
// the model's decays.
func Bank() Config {
	c := base()
	c.FreqRange = audio.Range{400, 1000}
	c.DecayRange = audio.Range{.5, 1.5}
	c.ModelPath = "models/marimba.json"
	return c
}

// Trigger is the default for piezo-triggered sample playback.
func Trigger() Config {
	c := base()
	c.OutputGain = .2
	c.SamplePath = "sample.wav"
	return c
}

// Scope is the default for logging the piezo input.
func Scope() Config {
	return base()
}

// Load overlays the JSON file at path onto c. Fields missing from the file
// keep their current values.
func Load(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "config")
	}
	if err := json.Unmarshal(b, c); err != nil {
		return errors.Wrapf(err, "config %s", path)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalid, format, args...)
}

// Validate rejects settings that would make the patches divide by zero,
// alias or never update.
func (c *Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return invalid("sample rate %g", c.SampleRate)
	case c.BlockSize <= 0:
		return invalid("block size %d", c.BlockSize)
	case c.InChannels < 1:
		return invalid("%d input channels", c.InChannels)
	case c.OutChannels < 1:
		return invalid("%d output channels", c.OutChannels)
	}

	nyquist := c.SampleRate / 2
	if c.FreqRange != (audio.Range{}) {
		if c.FreqRange.Min() <= 0 || c.FreqRange.Max() >= nyquist {
			return invalid("frequency range %v outside (0, %g)", c.FreqRange, nyquist)
		}
	}
	if c.DecayRange.Min() < 0 || c.DecayRange.Max() < 0 {
		return invalid("negative decay range %v", c.DecayRange)
	}
	if c.SmoothingCutoff <= 0 || c.SmoothingCutoff >= nyquist {
		return invalid("smoothing cutoff %g", c.SmoothingCutoff)
	}
	if c.UpdatePeriod.Duration < 0 {
		return invalid("update period %v", c.UpdatePeriod)
	}

	t := c.Touch
	if t.Location.Width() == 0 {
		return invalid("zero-width touch location range %v", t.Location)
	}
	if t.Size.Width() == 0 {
		return invalid("zero-width touch size range %v", t.Size)
	}
	if t.PollInterval.Duration <= 0 {
		return invalid("touch poll interval %v", t.PollInterval)
	}
	if _, err := touch.ParseMode(t.Mode); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}

	o := c.Onset
	if o.Threshold < 0 || o.AmountBelowPeak < 0 || o.Rolloff < 0 {
		return invalid("negative onset setting %+v", o)
	}

	if l := c.Limiter; l.Limit < 0 {
		return invalid("limit %g", l.Limit)
	} else if l.Limit > 0 && (l.Attack.Duration <= 0 || l.Release.Duration <= 0) {
		return invalid("limiter attack %v, release %v", l.Attack, l.Release)
	}

	s := c.Scope
	if s.Window < 2 || s.Window&(s.Window-1) != 0 {
		return invalid("scope window %d is not a power of two", s.Window)
	}
	if s.ReportInterval.Duration <= 0 {
		return invalid("scope report interval %v", s.ReportInterval)
	}
	return nil
}
