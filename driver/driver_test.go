package driver

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/audio"
	"github.com/BelaPlatform/PAW-2019/config"
	"github.com/BelaPlatform/PAW-2019/render"
	"github.com/BelaPlatform/PAW-2019/sample"
	"github.com/BelaPlatform/PAW-2019/touch"
)

func testContext(blockSize, in, out int) *render.Context {
	c := render.NewContext(44100, blockSize, in, out)
	c.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	return c
}

// copyPatch copies input channel 0 to every output, scaled.
type copyPatch struct {
	gain             float64
	setups, cleanups int
	blocks           int
	setupErr         error
	task             func(ctx context.Context) error
	step             func()
}

func (p *copyPatch) Setup(c *render.Context) error {
	p.setups++
	if p.setupErr != nil {
		return p.setupErr
	}
	if p.task != nil {
		c.ScheduleAuxiliaryTask("test", p.task)
	}
	if p.step != nil {
		c.SchedulePeriodicTask("step", time.Millisecond, p.step)
	}
	return nil
}

func (p *copyPatch) Render(c *render.Context) {
	p.blocks++
	for n := 0; n < c.Frames; n++ {
		for ch := 0; ch < c.OutChannels; ch++ {
			c.Write(ch, n, p.gain*c.Read(0, n))
		}
	}
}

func (p *copyPatch) Cleanup(*render.Context) { p.cleanups++ }

func TestRunCancelsTasksWhenStreamEnds(t *testing.T) {
	stopped := false
	p := &copyPatch{task: func(ctx context.Context) error {
		<-ctx.Done()
		stopped = true
		return nil
	}}
	err := Run(context.Background(), testContext(4, 1, 1), p, func(context.Context) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if !stopped || p.cleanups != 1 {
		t.Errorf("task stopped %v, %d cleanups", stopped, p.cleanups)
	}
}

func TestRunTaskError(t *testing.T) {
	boom := errors.New("boom")
	p := &copyPatch{task: func(context.Context) error { return boom }}
	err := Run(context.Background(), testContext(4, 1, 1), p, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestRunSetupError(t *testing.T) {
	boom := errors.New("no sensor")
	p := &copyPatch{setupErr: boom}
	streamed := false
	err := Run(context.Background(), testContext(4, 1, 1), p, func(context.Context) error {
		streamed = true
		return nil
	})
	if !errors.Is(err, boom) || streamed || p.cleanups != 0 {
		t.Errorf("err = %v, streamed %v, %d cleanups", err, streamed, p.cleanups)
	}
}

func TestClock(t *testing.T) {
	var k Clock
	var at []int
	k.add(render.Task{Period: 3 * time.Millisecond, Step: func() { at = append(at, k.Now()) }}, 1000)
	for range 3 {
		k.Advance(4)
	}
	if want := []int{0, 4, 8}; !slices.Equal(at, want) {
		t.Errorf("stepped at %v, want %v", at, want)
	}
	if k.Now() != 12 {
		t.Errorf("clock at %d, want 12", k.Now())
	}

	var nilClock *Clock
	nilClock.Advance(4)
}

func TestRunOfflineStepsOnSampleClock(t *testing.T) {
	steps := 0
	p := &copyPatch{step: func() { steps++ }}
	c := testContext(64, 1, 1)
	err := RunOffline(context.Background(), c, p, func(ctx context.Context, clk *Clock) error {
		for range 100 {
			clk.Advance(c.Frames)
			p.Render(c)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	// one step every 44 frames from frame 0 up to the last block at 6336
	if steps != 145 {
		t.Errorf("%d steps, want 145", steps)
	}
}

func TestRunStepsOnWallClock(t *testing.T) {
	steps := make(chan struct{}, 1)
	p := &copyPatch{step: func() {
		select {
		case steps <- struct{}{}:
		default:
		}
	}}
	err := Run(context.Background(), testContext(4, 1, 1), p, func(ctx context.Context) error {
		select {
		case <-steps:
			return nil
		case <-time.After(5 * time.Second):
			return errors.New("periodic task never stepped")
		}
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSource(t *testing.T) {
	c := testContext(4, 2, 1)
	src := NewSource([]audio.Audio{{1, 2, 3, 4, 5, 6}}, 3)
	var got []float32
	var frames []int
	for src.Fill(c) {
		frames = append(frames, c.Frames)
		got = append(got, c.In[0][:c.Frames]...)
		for _, x := range c.In[1][:c.Frames] {
			if x != 0 {
				t.Fatal("missing input channel is not silent")
			}
		}
	}
	if len(frames) != 3 || frames[0] != 4 || frames[2] != 1 {
		t.Errorf("blocks of %v frames", frames)
	}
	want := []float32{1, 2, 3, 4, 5, 6, 0, 0, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestReader(t *testing.T) {
	c := testContext(3, 1, 2)
	r := NewReader(c, &copyPatch{gain: 2}, NewSource([]audio.Audio{{.25, .5, .75, 1}}, 0))
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 4*2*4 {
		t.Fatalf("read %d bytes", len(b))
	}
	for i, want := range []float32{.5, .5, 1, 1, 1.5, 1.5, 2, 2} {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:])); got != want {
			t.Errorf("sample %d = %g, want %g", i, got, want)
		}
	}
}

func TestWAVResonator(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "strike.wav")
	impulse := make(audio.Audio, 4410)
	impulse[0] = 1
	if err := sample.Save(in, 44100, 16, []audio.Audio{impulse}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Resonator()
	cfg.DecayRange = audio.Range{.5, .9}
	out := filepath.Join(dir, "out.wav")
	d := &WAV{
		Context:  testContext(cfg.BlockSize, cfg.InChannels, cfg.OutChannels),
		In:       in,
		Out:      out,
		BitDepth: 24,
		Tail:     100 * time.Millisecond,
	}
	if err := d.Run(context.Background(), render.NewResonator(cfg, nil)); err != nil {
		t.Fatal(err)
	}

	info, err := sample.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Channels != 2 || info.Frames != 4410+4410 {
		t.Fatalf("output %+v", info)
	}
	chans, err := sample.Load(out, 0)
	if err != nil {
		t.Fatal(err)
	}
	spec, err := audio.NewSpectrum(4096)
	if err != nil {
		t.Fatal(err)
	}
	if f := spec.Dominant(chans[1], 44100); math.Abs(f-400) > 5 {
		t.Errorf("rings at %g Hz, want 400", f)
	}
}

func TestWAVScriptedTouchIsReproducible(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	if err := sample.Save(in, 44100, 16, []audio.Audio{make(audio.Audio, 44100)}); err != nil {
		t.Fatal(err)
	}
	for i := range 5 {
		p := render.NewResonator(config.Resonator(), touch.NewScript([]touch.Reading{{Location: 3200, Size: 7000}}))
		d := &WAV{Context: testContext(128, 1, 2), In: in, Out: filepath.Join(dir, "out.wav")}
		if err := d.Run(context.Background(), p); err != nil {
			t.Fatal(err)
		}
		if f, decay := p.Controller().Targets(); f != 1000 || math.Abs(decay-.9) > 1e-12 {
			t.Fatalf("run %d: targets %g, %g; want 1000, .9", i, f, decay)
		}
	}
}

func TestWAVErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	if err := sample.Save(in, 48000, 16, []audio.Audio{{0, 0}}); err != nil {
		t.Fatal(err)
	}
	d := &WAV{Context: testContext(4, 1, 1), In: in, Out: filepath.Join(dir, "out.wav")}
	p := &copyPatch{}
	if err := d.Run(context.Background(), p); err == nil {
		t.Error("expected error for a sample rate mismatch")
	}
	if p.setups != 0 {
		t.Error("patch set up despite unusable input")
	}
}

func TestWAVCancelled(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	if err := sample.Save(in, 44100, 16, []audio.Audio{make(audio.Audio, 44100)}); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &copyPatch{}
	d := &WAV{Context: testContext(64, 1, 1), In: in, Out: filepath.Join(dir, "out.wav"), Realtime: true}
	if err := d.Run(ctx, p); err != nil {
		t.Fatal(err)
	}
	if p.blocks != 1 || p.cleanups != 1 {
		t.Errorf("%d blocks, %d cleanups after cancel", p.blocks, p.cleanups)
	}
}
