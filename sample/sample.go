// Package sample reads and writes PCM WAV files as normalised float64
// channels.
package sample

import (
	"os"

	pcm "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/audio"
)

// Info describes a decoded file.
type Info struct {
	SampleRate int
	Channels   int
	Frames     int
	BitDepth   int
}

func decode(path string) (*pcm.IntBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "sample")
	}
	defer f.Close()
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, errors.Errorf("sample: %s is not a PCM WAV file", path)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrapf(err, "sample: decoding %s", path)
	}
	if fullScale(buf.SourceBitDepth) == 0 {
		return nil, errors.Errorf("sample: %s: unsupported bit depth %d", path, buf.SourceBitDepth)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, errors.Errorf("sample: %s has no channels", path)
	}
	return buf, nil
}

func fullScale(bitDepth int) float64 {
	switch bitDepth {
	case 16:
		return 0x7FFF
	case 24:
		return 0x7FFFFF
	case 32:
		return 0x7FFFFFFF
	}
	return 0
}

func Stat(path string) (Info, error) {
	buf, err := decode(path)
	if err != nil {
		return Info{}, err
	}
	return Info{
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		Frames:     buf.NumFrames(),
		BitDepth:   buf.SourceBitDepth,
	}, nil
}

// NumFrames returns the length of the file in frames.
func NumFrames(path string) (int, error) {
	info, err := Stat(path)
	return info.Frames, err
}

// Read copies up to count frames of one channel, starting at frame offset,
// into buf and returns how many were copied.
func Read(path string, buf []float64, channel, offset, count int) (int, error) {
	b, err := decode(path)
	if err != nil {
		return 0, err
	}
	return read(b, buf, channel, offset, count, path)
}

func read(b *pcm.IntBuffer, buf []float64, channel, offset, count int, path string) (int, error) {
	chans := b.Format.NumChannels
	if channel < 0 || channel >= chans {
		return 0, errors.Errorf("sample: %s has %d channels, no channel %d", path, chans, channel)
	}
	if offset < 0 {
		return 0, errors.Errorf("sample: negative offset %d", offset)
	}
	scale := fullScale(b.SourceBitDepth)
	n := 0
	for i := offset; n < count && n < len(buf) && i < b.NumFrames(); i++ {
		buf[n] = float64(b.Data[i*chans+channel]) / scale
		n++
	}
	return n, nil
}

// Load decodes the first channels channels of the file, or all of them when
// channels is 0.
func Load(path string, channels int) ([]audio.Audio, error) {
	b, err := decode(path)
	if err != nil {
		return nil, err
	}
	if channels == 0 {
		channels = b.Format.NumChannels
	}
	n := b.NumFrames()
	out := make([]audio.Audio, channels)
	for ch := range out {
		out[ch] = make(audio.Audio, n)
		if _, err := read(b, out[ch], ch, 0, n, path); err != nil {
			return nil, err
		}
	}
	return out, nil
}
