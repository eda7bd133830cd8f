package model

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const marimba = `{
	"metadata": {"name": "marimba", "fundamental": 200, "resonators": 3},
	"resonators": [
		{"freq": 200, "gain": 0.5, "decay": 0.8},
		{"freq": 800, "gain": 0.3, "decay": 0.4},
		{"freq": 1800, "gain": 0.1, "decay": 0.2}
	]
}`

func TestShiftAndScale(t *testing.T) {
	m, err := Read(strings.NewReader(marimba))
	if err != nil {
		t.Fatal(err)
	}
	if m.Size() != 3 || m.Metadata().Name != "marimba" {
		t.Fatalf("loaded %d resonators, metadata %+v", m.Size(), m.Metadata())
	}
	if m.Span() != 9 {
		t.Errorf("span = %g, want 9", m.Span())
	}

	ps := m.ShiftedToFreq(400)
	for i, want := range []float64{400, 1600, 3600} {
		if math.Abs(ps[i].Freq-want) > 1e-9 {
			t.Errorf("resonator %d at %g, want %g", i, ps[i].Freq, want)
		}
	}
	if ps[1].Gain != .3 || ps[1].Decay != .4 {
		t.Errorf("shift changed gain or decay: %+v", ps[1])
	}

	scaled := m.ScaledDecay(1.5)
	for i, want := range []float64{1.2, .6, .3} {
		if math.Abs(scaled[i].Decay-want) > 1e-9 {
			t.Errorf("resonator %d decay %g, want %g", i, scaled[i].Decay, want)
		}
		if scaled[i].Freq != ps[i].Freq {
			t.Errorf("scaling moved resonator %d to %g", i, scaled[i].Freq)
		}
	}

	// scaling is always from the unscaled tuning
	again := m.ScaledDecay(1.5)
	if math.Abs(again[0].Decay-1.2) > 1e-9 {
		t.Errorf("decay compounded: %g", again[0].Decay)
	}

	m.ShiftToFreq(100)
	if got := m.ScaledDecay(1)[2].Freq; math.Abs(got-900) > 1e-9 {
		t.Errorf("after ShiftToFreq(100) top resonator at %g, want 900", got)
	}
}

func TestRetuneDoesNotAllocate(t *testing.T) {
	m, err := Read(strings.NewReader(marimba))
	if err != nil {
		t.Fatal(err)
	}
	allocs := testing.AllocsPerRun(100, func() {
		m.ShiftToFreq(523)
		m.ScaledDecay(.7)
	})
	if allocs != 0 {
		t.Errorf("retune allocated %g times", allocs)
	}
}

func TestInvalidModels(t *testing.T) {
	for name, js := range map[string]string{
		"syntax":      `{"metadata":`,
		"fundamental": `{"metadata": {"fundamental": 0}, "resonators": [{"freq": 1}]}`,
		"empty":       `{"metadata": {"fundamental": 100}, "resonators": []}`,
		"count":       `{"metadata": {"fundamental": 100, "resonators": 2}, "resonators": [{"freq": 1}]}`,
	} {
		if _, err := Read(strings.NewReader(js)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marimba.json")
	if err := os.WriteFile(path, []byte(marimba), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Size() != 3 {
		t.Errorf("size = %d", m.Size())
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing model")
	}
}
