// An error implementation that remembers the line number and the
// start of the line that provoked the problem.

package oldfmt

import "fmt"

const maxMsgLen = 70

type readError struct {
	n      int    // line number
	inline string // the line that provoked the error
	err    error
}

func newReadError(n int, inline string, err error) error {
	return &readError{n: n, inline: firstPart(inline), err: err}
}

func firstPart(s string) string {
	if len(s) > maxMsgLen {
		return s[:maxMsgLen]
	}
	return s
}

func (e *readError) Error() string {
	return fmt.Sprintf("%v, line starting with %q", e.err, e.inline)
}

func (e *readError) Unwrap() error { return e.err }
