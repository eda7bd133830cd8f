package driver

import (
	"context"
	"time"

	"github.com/BelaPlatform/PAW-2019/render"
	"github.com/BelaPlatform/PAW-2019/sample"
)

// WAV renders a patch offline from an input file to an output file.
type WAV struct {
	Context  *render.Context
	In, Out  string
	BitDepth int

	// Tail is rendered after the input ends so resonators can ring out.
	Tail time.Duration
	// Realtime paces rendering at the stream rate and runs periodic tasks
	// such as the touch poller on the wall clock, as they would run live.
	// Otherwise they are stepped on the sample clock and the render is
	// reproducible.
	Realtime bool
}

func (d *WAV) Run(ctx context.Context, p render.Patch) error {
	c := d.Context
	in, err := LoadInput(d.In, c.SampleRate)
	if err != nil {
		return err
	}
	src := NewSource(in, TailFrames(d.Tail, c.SampleRate))
	depth := d.BitDepth
	if depth == 0 {
		depth = 16
	}

	stream := func(ctx context.Context, clk *Clock) (err error) {
		w, err := sample.Create(d.Out, int(c.SampleRate), depth, c.OutChannels)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := w.Close(); err == nil {
				err = cerr
			}
		}()

		var pace <-chan time.Time
		if d.Realtime {
			t := time.NewTicker(time.Duration(float64(c.BlockSize) / c.SampleRate * float64(time.Second)))
			defer t.Stop()
			pace = t.C
		}

		frame := make([]float64, c.OutChannels)
		rendered := 0
		for src.Fill(c) {
			clk.Advance(c.Frames)
			p.Render(c)
			for n := 0; n < c.Frames; n++ {
				for ch := range frame {
					frame[ch] = float64(c.Out[ch][n])
				}
				if err := w.WriteFrame(frame); err != nil {
					return err
				}
			}
			rendered += c.Frames
			if pace != nil {
				select {
				case <-pace:
				case <-ctx.Done():
				}
			}
			if ctx.Err() != nil {
				c.Log.Info("render interrupted", "frames", rendered, "of", src.Len())
				return nil
			}
		}
		c.Log.Info("rendered", "out", d.Out, "frames", rendered)
		return nil
	}
	if d.Realtime {
		return Run(ctx, c, p, func(ctx context.Context) error { return stream(ctx, nil) })
	}
	return RunOffline(ctx, c, p, stream)
}
