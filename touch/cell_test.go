package touch

import (
	"sync"
	"testing"
)

func frameOf(v float64) Frame {
	var f Frame
	for i := range f.Touches {
		f.Touches[i] = Sample{Location: v, Size: v, Active: true}
	}
	f.Count = MaxTouches
	return f
}

func TestCellSequential(t *testing.T) {
	c := NewCell()
	if f := c.Load(); f != (Frame{}) {
		t.Fatalf("load before publish = %+v", f)
	}
	c.Publish(frameOf(1))
	if f := c.Load(); f != frameOf(1) {
		t.Fatalf("load = %+v", f)
	}
	// repeated loads without a publish keep the same frame
	if f := c.Load(); f != frameOf(1) {
		t.Fatalf("second load = %+v", f)
	}
	c.Publish(frameOf(2))
	c.Publish(frameOf(3))
	if f := c.Load(); f != frameOf(3) {
		t.Fatalf("load after two publishes = %+v, want latest", f)
	}
	for i := 4; i < 10; i++ {
		c.Publish(frameOf(float64(i)))
		if f := c.Load(); f != frameOf(float64(i)) {
			t.Fatalf("load %d = %+v", i, f)
		}
	}
}

// A reader racing a writer must only ever see whole frames, in order.
func TestCellConcurrent(t *testing.T) {
	c := NewCell()
	const n = 20000

	var wg sync.WaitGroup
	wg.Go(func() {
		for i := 1; i <= n; i++ {
			c.Publish(frameOf(float64(i)))
		}
	})

	last := 0.0
	for last < n {
		f := c.Load()
		v := f.Touches[0].Location
		for _, s := range f.Touches {
			if s.Location != v || s.Size != v {
				t.Fatalf("torn frame: %+v", f)
			}
		}
		if v < last {
			t.Fatalf("went back in time: %g after %g", v, last)
		}
		last = v
	}
	wg.Wait()
}

func BenchmarkCellLoad(b *testing.B) {
	c := NewCell()
	c.Publish(frameOf(1))
	for i := 0; i < b.N; i++ {
		c.Load()
	}
}
