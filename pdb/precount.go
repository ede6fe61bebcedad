// Counting atoms without parsing. Useful before reading a monster
// file, to decide whether to ask for alpha carbons only.

package pdb

import (
	"bytes"
	"os"

	"github.com/edsrzf/mmap-go"
)

// CountAtoms counts the ATOM and HETATM records of an uncompressed
// old format file by mapping it and scanning the bytes. It is much
// cheaper than a parse and does not allocate for the file contents.
func CountAtoms(fname string) (int, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return 0, err
	}
	defer fp.Close()
	fi, err := fp.Stat()
	if err != nil {
		return 0, err
	}
	if fi.Size() == 0 {
		return 0, nil
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return 0, err
	}
	defer mm.Unmap()

	n := bytes.Count(mm, []byte("\nATOM  ")) + bytes.Count(mm, []byte("\nHETATM"))
	if bytes.HasPrefix(mm, []byte("ATOM  ")) || bytes.HasPrefix(mm, []byte("HETATM")) {
		n++
	}
	return n, nil
}
