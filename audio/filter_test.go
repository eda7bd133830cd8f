package audio

import (
	"math"
	"testing"
)

func TestOnePoleFirstStep(t *testing.T) {
	f := NewOnePole(5)
	Init(f, Params{SampleRate: 44100})
	if y := f.Filter(1); !(y > 0 && y < 1) {
		t.Errorf("first step = %g, want in (0, 1)", y)
	}
}

func TestOnePoleConverges(t *testing.T) {
	for _, target := range []float64{1, 700, -3} {
		f := NewOnePole(5)
		Init(f, Params{SampleRate: 44100})
		prevErr := math.Abs(target)
		for i := 0; i < 44100; i++ {
			err := math.Abs(target - f.Filter(target))
			if err > prevErr {
				t.Fatalf("target %g: error grew at %d: %g > %g", target, i, err, prevErr)
			}
			prevErr = err
		}
		// one second is five time constants at 5Hz
		if prevErr > 1e-6*math.Abs(target) {
			t.Errorf("target %g: still %g away after one second", target, prevErr)
		}
	}
}

func TestOnePoleReset(t *testing.T) {
	f := NewOnePole(5)
	Init(f, Params{SampleRate: 44100})
	f.Reset(400)
	for i := 0; i < 100; i++ {
		if y := f.Filter(400); y != 400 {
			t.Fatalf("primed filter drifted to %g", y)
		}
	}
}

func BenchmarkOnePole(b *testing.B) {
	f := NewOnePole(5)
	Init(f, Params{SampleRate: 96000})
	x := 1.0
	for i := 0; i < b.N; i++ {
		x = f.Filter(x)
	}
}
