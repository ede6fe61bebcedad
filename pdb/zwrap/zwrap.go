// Package zwrap wraps a stream so a compressed file reads like a
// plain one. The decision is made by peeking at the first two bytes,
// so it works on streams that cannot seek.
package zwrap

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
)

// Wrapped is what we hand back. Close closes the decompressor, if
// there is one, and then the backing stream.
type Wrapped struct {
	r    io.Reader
	base io.Closer
	zr   *gzip.Reader
}

func (w *Wrapped) Read(p []byte) (int, error) { return w.r.Read(p) }

func (w *Wrapped) Close() error {
	if w.zr == nil {
		return w.base.Close()
	}
	var s string
	if e := w.zr.Close(); e != nil {
		s = e.Error()
	}
	if e := w.base.Close(); e != nil {
		s = s + " " + e.Error()
	}
	if s == "" {
		return nil
	}
	return errors.New(s)
}

// WrapMaybe looks for the gzip magic number and wraps the stream in a
// decompressor if it finds it. Anything else, including an empty
// stream, passes through untouched.
func WrapMaybe(rc io.ReadCloser) (*Wrapped, error) {
	br := bufio.NewReader(rc)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			rc.Close()
			return nil, err
		}
		return &Wrapped{r: zr, base: rc, zr: zr}, nil
	}
	return &Wrapped{r: br, base: rc}, nil
}
