// Package render holds the patches: programs that are set up once, render one
// block of audio at a time on the audio thread and may schedule auxiliary
// tasks to run beside it.
package render

import (
	"context"
	"log/slog"
	"time"

	"github.com/BelaPlatform/PAW-2019/audio"
)

// Patch is driven by a driver: Setup before the stream starts, Render once per
// block and Cleanup after the stream and all auxiliary tasks have stopped.
// Render must not block.
type Patch interface {
	Setup(*Context) error
	Render(*Context)
	Cleanup(*Context)
}

// Task is an auxiliary task. Either Run is set and must return soon after ctx
// is done, or Step is set and is called once every Period. Drivers that render
// faster than real time call Step on the sample clock instead of a timer.
type Task struct {
	Name   string
	Run    func(ctx context.Context) error
	Period time.Duration
	Step   func()
}

// Loop runs t on the wall clock until ctx is done. A periodic task steps at
// once and then every Period.
func (t Task) Loop(ctx context.Context) error {
	if t.Step == nil {
		return t.Run(ctx)
	}
	tm := time.NewTimer(0)
	defer tm.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tm.C:
		}
		t.Step()
		tm.Reset(t.Period)
	}
}

// Context is shared between a driver and its patch. In and Out hold one
// slice per channel of Frames samples each and are valid only during Render.
type Context struct {
	SampleRate  float64
	BlockSize   int
	InChannels  int
	OutChannels int

	Frames  int
	In, Out [][]float32

	Log *slog.Logger

	tasks []Task
}

// NewContext allocates block buffers for drivers that do not supply their
// own.
func NewContext(sampleRate float64, blockSize, inChannels, outChannels int) *Context {
	c := &Context{
		SampleRate:  sampleRate,
		BlockSize:   blockSize,
		InChannels:  inChannels,
		OutChannels: outChannels,
		Frames:      blockSize,
		Log:         slog.Default(),
	}
	c.In = make([][]float32, inChannels)
	for i := range c.In {
		c.In[i] = make([]float32, blockSize)
	}
	c.Out = make([][]float32, outChannels)
	for i := range c.Out {
		c.Out[i] = make([]float32, blockSize)
	}
	return c
}

// Params is the stream description handed to audio.Init.
func (c *Context) Params() audio.Params {
	return audio.Params{SampleRate: c.SampleRate}
}

// Read returns input sample n of channel ch, or 0 for a missing channel.
func (c *Context) Read(ch, n int) float64 {
	if ch >= len(c.In) {
		return 0
	}
	return float64(c.In[ch][n])
}

func (c *Context) Write(ch, n int, x float64) {
	c.Out[ch][n] = float32(x)
}

// ScheduleAuxiliaryTask registers a task to be started by the driver after
// Setup returns. It may only be called from Setup.
func (c *Context) ScheduleAuxiliaryTask(name string, run func(ctx context.Context) error) {
	c.tasks = append(c.tasks, Task{Name: name, Run: run})
}

// SchedulePeriodicTask registers step to be called every period while the
// stream runs, starting before the first block. It may only be called from
// Setup.
func (c *Context) SchedulePeriodicTask(name string, period time.Duration, step func()) {
	c.tasks = append(c.tasks, Task{Name: name, Period: period, Step: step})
}

func (c *Context) AuxiliaryTasks() []Task { return c.tasks }
