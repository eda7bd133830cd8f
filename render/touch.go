package render

import (
	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/config"
	"github.com/BelaPlatform/PAW-2019/touch"
)

// touchInput owns the sensor side of a patch: it sets the sensor up,
// schedules the poller and hands the latest frame to Render.
type touchInput struct {
	sensor touch.Sensor
	cfg    config.Touch
	cell   *touch.Cell
	poller *touch.Poller
}

func (t *touchInput) setup(c *Context) error {
	t.cell = touch.NewCell()
	if t.sensor == nil {
		c.Log.Info("no touch sensor, parameters stay at their initial values")
		return nil
	}
	sc, err := t.cfg.Sensor()
	if err != nil {
		return err
	}
	if err := t.sensor.Setup(sc); err != nil {
		return errors.Wrap(err, "unable to initialise touch sensor")
	}
	t.poller = touch.NewPoller(t.sensor, t.cell, t.cfg.Calibration())
	t.poller.SetLogger(c.Log)
	c.SchedulePeriodicTask("touch-read", t.cfg.PollInterval.Duration, t.poller.Step)
	return nil
}

// primary loads the latest frame. It is called once per block.
func (t *touchInput) primary() (touch.Sample, bool) {
	f := t.cell.Load()
	return f.Primary()
}

func (t *touchInput) cleanup(c *Context) {
	if t.poller == nil {
		return
	}
	polls, failures := t.poller.Stats()
	c.Log.Info("touch sensor stopped", "polls", polls, "failures", failures)
}
