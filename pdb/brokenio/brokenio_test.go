package brokenio_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	. "github.com/andrew-torda/strucio/pdb/brokenio"
)

func TestFailAfter(t *testing.T) {
	r := FailAfter(strings.NewReader("0123456789"), 4, nil)
	got, err := io.ReadAll(r)
	if err != io.ErrUnexpectedEOF {
		t.Fatalf("err = %v, want unexpected EOF", err)
	}
	if string(got) != "0123" {
		t.Fatalf("got %q before the failure", got)
	}
}

func TestFailAfterCustomError(t *testing.T) {
	boom := errors.New("boom")
	r := FailAfter(strings.NewReader("abc"), 0, boom)
	if _, err := io.ReadAll(r); err != boom {
		t.Fatalf("err = %v, want boom", err)
	}
}
