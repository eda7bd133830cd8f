package audio

import (
	"math"
	"testing"
)

const testSampleRate = 44100

func impulseResponse(r interface{ Render(float64) float64 }, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := 0.0
		if i == 0 {
			x = 1
		}
		out[i] = r.Render(x)
	}
	return out
}

func peakAbs(x []float64) float64 {
	p := 0.0
	for _, x := range x {
		p = math.Max(p, math.Abs(x))
	}
	return p
}

func TestTwoPoleRingsAtFreq(t *testing.T) {
	s, err := NewSpectrum(8192)
	if err != nil {
		t.Fatal(err)
	}
	for _, freq := range []float64{400, 700, 1000} {
		r := NewTwoPole(Parameters{Freq: freq, Gain: .8, Decay: .9})
		Init(r, Params{SampleRate: testSampleRate})
		got := s.Dominant(impulseResponse(r, s.Size()), testSampleRate)
		if math.Abs(got/freq-1) > .01 {
			t.Errorf("freq %g: rings at %.1f", freq, got)
		}
	}
}

func TestTwoPoleUnityGainAtCentre(t *testing.T) {
	const freq = 700
	r := NewTwoPole(Parameters{Freq: freq, Gain: .5, Decay: .05})
	Init(r, Params{SampleRate: testSampleRate})
	var tail []float64
	for i := 0; i < testSampleRate; i++ {
		y := r.Render(math.Sin(2 * math.Pi * freq * float64(i) / testSampleRate))
		if i >= testSampleRate-2000 {
			tail = append(tail, y)
		}
	}
	if p := peakAbs(tail); math.Abs(p-.5) > .01 {
		t.Errorf("steady-state amplitude = %g, want .5", p)
	}
}

func TestTwoPoleDecay(t *testing.T) {
	const decay = .2
	r := NewTwoPole(Parameters{Freq: 1000, Gain: 1, Decay: decay})
	Init(r, Params{SampleRate: testSampleRate})
	ir := impulseResponse(r, testSampleRate)
	window := 200
	start := peakAbs(ir[:window])
	n := int(decay * testSampleRate)
	end := peakAbs(ir[n : n+window])
	if ratio := end / start; ratio < .0005 || ratio > .002 {
		t.Errorf("level after decay time = %g of start, want about .001", ratio)
	}
}

func TestTwoPoleCommit(t *testing.T) {
	initial := Parameters{Freq: 400, Gain: .5, Decay: .05}
	r := NewTwoPole(initial)
	Init(r, Params{SampleRate: testSampleRate})
	if r.Parameters() != initial {
		t.Fatalf("InitAudio did not commit: %+v", r.Parameters())
	}
	next := Parameters{Freq: 900, Gain: .8, Decay: .5}
	r.SetParameters(next)
	if r.Parameters() != initial {
		t.Fatal("SetParameters took effect before Commit")
	}
	r.Commit()
	if r.Parameters() != next {
		t.Fatalf("Commit applied %+v, want %+v", r.Parameters(), next)
	}
}

func TestTwoPoleCommitBeforeInit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewTwoPole(Parameters{Freq: 400}).Commit()
}

func TestBank(t *testing.T) {
	b := NewBank(2)
	Init(b, Params{SampleRate: testSampleRate})
	ps := []Parameters{
		{Freq: 300, Gain: 1, Decay: .5},
		{Freq: 1200, Gain: .25, Decay: .5},
		{Freq: 5000, Gain: 1, Decay: .5},
	}
	b.SetBank(ps)
	if b.At(0) != (Parameters{}) {
		t.Fatal("SetBank took effect before Commit")
	}
	b.Commit()
	for i := 0; i < b.Size(); i++ {
		if b.At(i) != ps[i] {
			t.Errorf("member %d = %+v, want %+v", i, b.At(i), ps[i])
		}
	}

	s, err := NewSpectrum(8192)
	if err != nil {
		t.Fatal(err)
	}
	got := s.Dominant(impulseResponse(b, s.Size()), testSampleRate)
	if math.Abs(got/300-1) > .01 {
		t.Errorf("bank dominated by %.1fHz, want 300", got)
	}

	b.SetBank(ps[:1])
	b.Commit()
	if b.At(1) != ps[1] {
		t.Errorf("short SetBank changed member 1 to %+v", b.At(1))
	}
}

func TestSpectrumSilence(t *testing.T) {
	s, err := NewSpectrum(1024)
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Dominant(make([]float64, 100), testSampleRate); f != 0 {
		t.Errorf("dominant frequency of silence = %g", f)
	}
}

func BenchmarkTwoPole(b *testing.B) {
	r := NewTwoPole(Parameters{Freq: 440, Gain: .8, Decay: .5})
	Init(r, Params{SampleRate: 96000})
	x := 1.0
	for i := 0; i < b.N; i++ {
		x = r.Render(x) * .5
	}
}

func BenchmarkBankCommit(b *testing.B) {
	bank := NewBank(64)
	Init(bank, Params{SampleRate: 96000})
	for i := 0; i < b.N; i++ {
		bank.Commit()
	}
}
