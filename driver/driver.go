// Package driver runs patches. A driver owns the audio stream: it calls
// Setup, starts the patch's auxiliary tasks, calls Render once per block until
// the stream ends or the context is done, stops the tasks and calls Cleanup.
package driver

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/BelaPlatform/PAW-2019/render"
)

// Driver runs p until ctx is done or the stream ends.
type Driver interface {
	Run(ctx context.Context, p render.Patch) error
}

// Run sets p up on c and runs stream beside the auxiliary tasks p schedules.
// The tasks are cancelled when stream returns; the first error from stream or
// a task cancels everything and is returned. Cleanup runs only if Setup
// succeeded, after every task has returned.
func Run(ctx context.Context, c *render.Context, p render.Patch, stream func(ctx context.Context) error) error {
	return run(ctx, c, p, nil, func(ctx context.Context, _ *Clock) error { return stream(ctx) })
}

// RunOffline is Run for streams that render faster than real time. Periodic
// tasks are not started on a timer but handed to stream on a Clock, which
// stream advances once per block.
func RunOffline(ctx context.Context, c *render.Context, p render.Patch, stream func(ctx context.Context, clk *Clock) error) error {
	return run(ctx, c, p, &Clock{}, stream)
}

func run(ctx context.Context, c *render.Context, p render.Patch, clk *Clock, stream func(ctx context.Context, clk *Clock) error) error {
	if err := p.Setup(c); err != nil {
		return err
	}
	defer p.Cleanup(c)

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for _, t := range c.AuxiliaryTasks() {
		if clk != nil && t.Step != nil {
			period := clk.add(t, c.SampleRate)
			c.Log.Debug("auxiliary task on the sample clock", "task", t.Name, "frames", period)
			continue
		}
		g.Go(func() error {
			c.Log.Debug("auxiliary task started", "task", t.Name)
			defer c.Log.Debug("auxiliary task stopped", "task", t.Name)
			return errors.Wrapf(t.Loop(ctx), "%s", t.Name)
		})
	}
	g.Go(func() error {
		defer cancel()
		return stream(ctx, clk)
	})
	return g.Wait()
}
