// Package model loads resonator-bank models: a set of resonators measured
// from an instrument, stored relative to its fundamental so the whole bank
// can be retuned and its decays scaled together.
package model

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/audio"
)

type Metadata struct {
	Name        string  `json:"name"`
	Fundamental float64 `json:"fundamental"`
	Resonators  int     `json:"resonators"`
}

type Resonator struct {
	Freq  float64 `json:"freq"`
	Gain  float64 `json:"gain"`
	Decay float64 `json:"decay"`
}

type file struct {
	Metadata   Metadata    `json:"metadata"`
	Resonators []Resonator `json:"resonators"`
}

// Model is a loaded bank. The slices returned by its methods belong to the
// model and are overwritten by the next call, so retuning does not allocate.
type Model struct {
	meta    Metadata
	base    []Resonator
	shifted []audio.Parameters
	scaled  []audio.Parameters
}

func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "model")
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "model %s", path)
	}
	return m, nil
}

func Read(r io.Reader) (*Model, error) {
	var mf file
	if err := json.NewDecoder(r).Decode(&mf); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return New(mf.Metadata, mf.Resonators)
}

// New builds a model from its parts. The fundamental must be positive and
// the bank non-empty; a resonator count in meta that disagrees with the bank
// is an error.
func New(meta Metadata, res []Resonator) (*Model, error) {
	if meta.Fundamental <= 0 {
		return nil, errors.Errorf("fundamental must be positive, got %g", meta.Fundamental)
	}
	if len(res) == 0 {
		return nil, errors.New("no resonators")
	}
	if meta.Resonators != 0 && meta.Resonators != len(res) {
		return nil, errors.Errorf("metadata lists %d resonators, found %d", meta.Resonators, len(res))
	}
	meta.Resonators = len(res)
	m := &Model{
		meta:    meta,
		base:    append([]Resonator(nil), res...),
		shifted: make([]audio.Parameters, len(res)),
		scaled:  make([]audio.Parameters, len(res)),
	}
	m.ShiftToFreq(meta.Fundamental)
	return m, nil
}

func (m *Model) Metadata() Metadata { return m.meta }

// Span is the ratio of the highest resonator frequency to the fundamental.
// Tuning the fundamental to f puts the top of the bank at f*Span.
func (m *Model) Span() float64 {
	top := 0.0
	for _, r := range m.base {
		top = max(top, r.Freq)
	}
	return top / m.meta.Fundamental
}

// Size is the number of resonators.
func (m *Model) Size() int { return len(m.base) }

// ShiftToFreq retunes the bank so that its fundamental lands on freq.
func (m *Model) ShiftToFreq(freq float64) {
	ratio := freq / m.meta.Fundamental
	for i, r := range m.base {
		m.shifted[i] = audio.Parameters{Freq: r.Freq * ratio, Gain: r.Gain, Decay: r.Decay}
	}
}

// ShiftedToFreq retunes the bank and returns it.
func (m *Model) ShiftedToFreq(freq float64) []audio.Parameters {
	m.ShiftToFreq(freq)
	return m.shifted
}

// ScaledDecay returns the current tuning with every decay multiplied by
// scale.
func (m *Model) ScaledDecay(scale float64) []audio.Parameters {
	for i, p := range m.shifted {
		p.Decay *= scale
		m.scaled[i] = p
	}
	return m.scaled
}
