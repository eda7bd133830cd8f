package driver

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/BelaPlatform/PAW-2019/render"
)

// Reader renders a block whenever the last one has been read and serves the
// output as interleaved little-endian float32. It returns io.EOF once the
// source is exhausted.
type Reader struct {
	c     *render.Context
	patch render.Patch
	src   *Source
	buf   []byte
	off   int
}

func NewReader(c *render.Context, p render.Patch, src *Source) *Reader {
	return &Reader{c: c, patch: p, src: src, buf: make([]byte, 0, 4*c.BlockSize*c.OutChannels)}
}

func (r *Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.off == len(r.buf) {
			if !r.src.Fill(r.c) {
				if n > 0 {
					return n, nil
				}
				return 0, io.EOF
			}
			r.patch.Render(r.c)
			r.encode()
		}
		k := copy(p[n:], r.buf[r.off:])
		r.off += k
		n += k
	}
	return n, nil
}

func (r *Reader) encode() {
	r.buf = r.buf[:0]
	for n := 0; n < r.c.Frames; n++ {
		for ch := 0; ch < r.c.OutChannels; ch++ {
			r.buf = binary.LittleEndian.AppendUint32(r.buf, math.Float32bits(r.c.Out[ch][n]))
		}
	}
	r.off = 0
}
