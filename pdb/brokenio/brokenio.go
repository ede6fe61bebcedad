// Package brokenio has readers that fail on purpose. The file readers
// promise to hand a broken stream back as an error and these let the
// tests check that without touching real files.
package brokenio

import "io"

type failAfter struct {
	r   io.Reader
	n   int
	err error
}

// FailAfter passes through n bytes of r and then returns err. A nil
// err becomes io.ErrUnexpectedEOF.
func FailAfter(r io.Reader, n int, err error) io.Reader {
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return &failAfter{r: r, n: n, err: err}
}

func (f *failAfter) Read(p []byte) (int, error) {
	if f.n <= 0 {
		return 0, f.err
	}
	if len(p) > f.n {
		p = p[:f.n]
	}
	m, err := f.r.Read(p)
	f.n -= m
	return m, err
}
