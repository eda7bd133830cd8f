package touch

import "log/slog"

// Poller reads a Sensor and publishes each normalised frame to a Cell. The
// caller decides when to Step it: on a timer when running live, on the sample
// clock when rendering offline.
type Poller struct {
	sensor Sensor
	cell   *Cell
	cal    Calibration
	log    *slog.Logger

	polls, failures int
	failing         bool
}

func NewPoller(s Sensor, cell *Cell, cal Calibration) *Poller {
	return &Poller{sensor: s, cell: cell, cal: cal, log: slog.Default()}
}

// SetLogger replaces the default logger.
func (p *Poller) SetLogger(l *slog.Logger) { p.log = l }

// Poll runs one cycle. When the sensor read fails the previous frame stays
// published and the error is returned.
func (p *Poller) Poll() (Frame, error) {
	p.polls++
	if err := p.sensor.ReadLocations(); err != nil {
		p.failures++
		return Frame{}, err
	}
	f := p.cal.Normalize(p.sensor.NumberOfTouches(), p.sensor.TouchLocation, p.sensor.TouchSize)
	p.cell.Publish(f)
	return f, nil
}

// Step polls once, logging the first failure of a run of failures and the
// recovery after it.
func (p *Poller) Step() {
	if _, err := p.Poll(); err != nil {
		if !p.failing {
			p.log.Warn("touch read failed, keeping last frame", "err", err)
		}
		p.failing = true
	} else if p.failing {
		p.log.Info("touch reads recovered", "failures", p.failures)
		p.failing = false
	}
}

// Stats reports how many polls ran and how many failed. It must not be called
// while the poller is being stepped.
func (p *Poller) Stats() (polls, failures int) { return p.polls, p.failures }
