// Package live runs patches on the default PortAudio duplex device.
package live

import (
	"context"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/driver"
	"github.com/BelaPlatform/PAW-2019/render"
)

// PortAudio renders blocks from the PortAudio callback, so the patch runs on
// PortAudio's real-time thread.
type PortAudio struct {
	Context *render.Context
}

func (d *PortAudio) Run(ctx context.Context, p render.Patch) error {
	if err := portaudio.Initialize(); err != nil {
		return errors.Wrap(err, "portaudio")
	}
	defer portaudio.Terminate()

	c := d.Context
	return driver.Run(ctx, c, p, func(ctx context.Context) error {
		s, err := portaudio.OpenDefaultStream(c.InChannels, c.OutChannels, c.SampleRate, c.BlockSize, func(in, out [][]float32) {
			c.In, c.Out, c.Frames = in, out, len(out[0])
			p.Render(c)
		})
		if err != nil {
			return errors.Wrap(err, "portaudio: opening stream")
		}
		defer s.Close()
		if err := s.Start(); err != nil {
			return errors.Wrap(err, "portaudio: starting stream")
		}
		info := s.Info()
		c.Log.Info("stream started",
			"rate", info.SampleRate,
			"inLatency", info.InputLatency,
			"outLatency", info.OutputLatency,
		)
		<-ctx.Done()
		return errors.Wrap(s.Stop(), "portaudio: stopping stream")
	})
}
