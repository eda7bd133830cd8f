// Package speaker plays a patch's response to a recorded input through the
// system's audio output.
package speaker

import (
	"context"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/driver"
	"github.com/BelaPlatform/PAW-2019/render"
)

// Oto renders blocks on demand from the player's reads, so the patch runs on
// oto's playback goroutine.
type Oto struct {
	Context *render.Context
	In      string
	Tail    time.Duration
}

func (d *Oto) Run(ctx context.Context, p render.Patch) error {
	c := d.Context
	in, err := driver.LoadInput(d.In, c.SampleRate)
	if err != nil {
		return err
	}
	bufferTime := time.Duration(float64(c.BlockSize) / c.SampleRate * float64(time.Second))
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(c.SampleRate),
		ChannelCount: c.OutChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4 * bufferTime,
	})
	if err != nil {
		return errors.Wrap(err, "oto")
	}
	<-ready

	r := driver.NewReader(c, p, driver.NewSource(in, driver.TailFrames(d.Tail, c.SampleRate)))
	return driver.Run(ctx, c, p, func(ctx context.Context) error {
		player := otoCtx.NewPlayer(r)
		defer player.Close()
		player.Play()
		t := time.NewTicker(bufferTime)
		defer t.Stop()
		for player.IsPlaying() {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
			}
		}
		return errors.Wrap(player.Err(), "oto")
	})
}
