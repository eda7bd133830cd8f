package audio

import "testing"

func TestRateGateBoundary(t *testing.T) {
	g := NewRateGate(.01)
	Init(g, Params{SampleRate: 44100})
	if g.Interval() != 441 {
		t.Fatalf("interval = %d, want 441", g.Interval())
	}
	for i := 1; i <= 441; i++ {
		if g.Tick() {
			t.Fatalf("opened at count %d", i)
		}
	}
	if g.Count() != 441 {
		t.Fatalf("count = %d, want 441", g.Count())
	}
	if !g.Tick() {
		t.Fatal("did not open at count 442")
	}
	if g.Count() != 0 {
		t.Fatalf("count not reset: %d", g.Count())
	}
}

func TestRateGatePeriod(t *testing.T) {
	g := NewRateGate(.01)
	Init(g, Params{SampleRate: 44100})
	for _, n := range []int{442, 442 * 3, 442*10 + 441} {
		g.SetInterval(441)
		opened := 0
		for i := 0; i < n; i++ {
			if g.Tick() {
				opened++
			}
		}
		if want := n / 442; opened != want {
			t.Errorf("%d ticks: opened %d times, want %d", n, opened, want)
		}
	}
}

func TestRateGateZeroInterval(t *testing.T) {
	var g RateGate
	for i := 0; i < 4; i++ {
		if !g.Tick() {
			t.Fatalf("zero-interval gate closed at tick %d", i)
		}
	}
}

func BenchmarkRateGate(b *testing.B) {
	g := NewRateGate(.01)
	Init(g, Params{SampleRate: 96000})
	for i := 0; i < b.N; i++ {
		g.Tick()
	}
}
