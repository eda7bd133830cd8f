package sample

import (
	"math"
	"os"

	pcm "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/audio"
)

const writeChunk = 4096

// Writer encodes interleaved frames to a PCM WAV file. Samples are clipped
// to [-1, 1].
type Writer struct {
	f     *os.File
	enc   *wav.Encoder
	buf   *pcm.IntBuffer
	scale float64
	chans int
}

func Create(path string, sampleRate, bitDepth, channels int) (*Writer, error) {
	scale := fullScale(bitDepth)
	if scale == 0 {
		return nil, errors.Errorf("sample: unsupported bit depth %d", bitDepth)
	}
	if channels < 1 {
		return nil, errors.Errorf("sample: %d channels", channels)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "sample")
	}
	return &Writer{
		f:   f,
		enc: wav.NewEncoder(f, sampleRate, bitDepth, channels, 1),
		buf: &pcm.IntBuffer{
			Format:         &pcm.Format{NumChannels: channels, SampleRate: sampleRate},
			Data:           make([]int, 0, writeChunk*channels),
			SourceBitDepth: bitDepth,
		},
		scale: scale,
		chans: channels,
	}, nil
}

// WriteFrame appends one frame; frame must hold one sample per channel.
func (w *Writer) WriteFrame(frame []float64) error {
	if len(frame) != w.chans {
		return errors.Errorf("sample: frame of %d samples for %d channels", len(frame), w.chans)
	}
	for _, x := range frame {
		w.buf.Data = append(w.buf.Data, int(math.Round(audio.Clamp(x, -1, 1)*w.scale)))
	}
	if len(w.buf.Data) == cap(w.buf.Data) {
		return w.flush()
	}
	return nil
}

func (w *Writer) flush() error {
	if len(w.buf.Data) == 0 {
		return nil
	}
	err := w.enc.Write(w.buf)
	w.buf.Data = w.buf.Data[:0]
	return errors.Wrap(err, "sample: encoding")
}

func (w *Writer) Close() error {
	err := w.flush()
	if cerr := w.enc.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "sample: encoding")
	}
	if cerr := w.f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "sample")
	}
	return err
}

// Save writes whole channels of equal length to path.
func Save(path string, sampleRate, bitDepth int, channels []audio.Audio) error {
	w, err := Create(path, sampleRate, bitDepth, len(channels))
	if err != nil {
		return err
	}
	frame := make([]float64, len(channels))
	for i := range channels[0] {
		for ch := range channels {
			frame[ch] = channels[ch][i]
		}
		if err := w.WriteFrame(frame); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
