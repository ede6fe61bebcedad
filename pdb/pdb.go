// This is the upper level for reading structure files. Decide whether
// a file is compressed, decide what format it is in, call the right
// reader and then run the cross referencing, so the caller always
// gets the same finished structure.

package pdb

import (
	"bufio"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/strucio/pdb/mmcif"
	"github.com/andrew-torda/strucio/pdb/oldfmt"
	"github.com/andrew-torda/strucio/pdb/strc"
	"github.com/andrew-torda/strucio/pdb/xref"
	"github.com/andrew-torda/strucio/pdb/zwrap"
)

// Format says which reader a file needs.
type Format byte

const (
	UnkFmt Format = iota
	OldFmt
	MmcifFmt
)

func (f Format) String() string {
	switch f {
	case OldFmt:
		return "pdb"
	case MmcifFmt:
		return "mmcif"
	}
	return "unknown"
}

// Options steer one read. A zero value does the right thing for a
// file whose format can be guessed. LogWhere says where complaints
// about dirty files go: "" throws them away, "stdout" is the screen
// and anything else is a filename.
type Options struct {
	Format      Format
	CAOnly      bool
	CAThreshold int
	MaxAtoms    int
	LogWhere    string
}

// comparefirst says if line s starts with word t.
func comparefirst(s, t string) bool {
	if len(s) < len(t) {
		return false
	}
	return s[:len(t)] == t
}

// lookInFile peeks at a file and guesses whether it is old format or
// mmcif. It gives up after a few thousand lines.
func lookInFile(fname string) (Format, error) {
	pdbWords := []string{"COMPND", "SOURCE", "REMARK", "SEQRES", "HETATM", "ATOM"}
	mmcifWords := []string{"data_", "_entry.id", "loop_"}
	fp, err := os.Open(fname)
	if err != nil {
		return UnkFmt, err
	}
	defer fp.Close()
	rdr, err := zwrap.WrapMaybe(fp)
	if err != nil {
		return UnkFmt, errors.New("reading " + fname + " " + err.Error())
	}

	const maxTestLines = 5000
	scnnr := bufio.NewScanner(rdr)
	for i := 0; scnnr.Scan() && i < maxTestLines; i++ {
		s := scnnr.Text()
		for _, w := range mmcifWords {
			if comparefirst(s, w) {
				return MmcifFmt, nil
			}
		}
		for _, w := range pdbWords {
			if comparefirst(s, w) {
				return OldFmt, nil
			}
		}
	}
	return UnkFmt, errors.New(fname + ": cannot recognise format")
}

// GuessFormat decides the format of a file, first from the name and
// then, if the name says nothing, by peeking inside. We cannot just
// take the extension from filepath, since it would give .gz for
// a.pdb.gz.
func GuessFormat(fname string) (Format, error) {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i != -1 {
		s = strings.ToLower(s[i+1:])
		if strings.Contains(s, "pdb") || strings.Contains(s, "ent") {
			return OldFmt, nil
		}
		if strings.Contains(s, "cif") {
			return MmcifFmt, nil
		}
	}
	return lookInFile(fname)
}

// logWhere decides where to send complaints.
func logWhere(outinfo string) (*log.Logger, error) {
	var iowriter io.Writer
	switch outinfo {
	case "":
		iowriter = io.Discard
	case "stdout":
		iowriter = os.Stdout
	case "stderr":
		iowriter = os.Stderr
	default:
		var err error
		iowriter, err = os.OpenFile(outinfo, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
	}
	return log.New(iowriter, "", log.Lshortfile), nil
}

// Read reads one structure from a stream. The format must be set in
// the options, a bare reader has no filename to guess from. After
// assembly the compounds are linked to their chains and the declared
// sequences are reconciled with the observed ones.
func Read(r io.Reader, opts Options) (*strc.Structure, error) {
	lg, err := logWhere(opts.LogWhere)
	if err != nil {
		return nil, errors.New(err.Error() + " creating log file")
	}
	var s *strc.Structure
	switch opts.Format {
	case OldFmt:
		s, err = oldfmt.Parse(r, oldfmt.Options{
			CAOnly:      opts.CAOnly,
			CAThreshold: opts.CAThreshold,
			MaxAtoms:    opts.MaxAtoms,
			Logger:      lg,
		})
	case MmcifFmt:
		s, err = mmcif.Parse(r, mmcif.Options{
			CAOnly:      opts.CAOnly,
			CAThreshold: opts.CAThreshold,
			MaxAtoms:    opts.MaxAtoms,
			Logger:      lg,
		})
	default:
		return nil, errors.New("format not set, cannot read from a bare stream")
	}
	if err != nil {
		return nil, err
	}
	xref.LinkCompounds(s, lg)
	xref.AlignSeqRes(s, lg)
	return s, nil
}

// ReadFile reads one structure from a file, transparently handling
// compression and guessing the format if the options leave it unset.
// A plain old format file gets a cheap atom count first, so a monster
// file goes straight to alpha carbons instead of being stripped
// retroactively halfway through the parse.
func ReadFile(fname string, opts Options) (*strc.Structure, error) {
	if opts.Format == UnkFmt {
		var err error
		if opts.Format, err = GuessFormat(fname); err != nil {
			return nil, err
		}
	}
	if opts.Format == OldFmt && !opts.CAOnly && !strings.HasSuffix(fname, ".gz") {
		thr := opts.CAThreshold
		if thr == 0 {
			thr = oldfmt.CAThresholdDflt
		}
		if n, err := CountAtoms(fname); err == nil && n >= thr {
			if lg, err := logWhere(opts.LogWhere); err == nil {
				lg.Printf("%s has %d atom records, reading alpha carbons only", fname, n)
			}
			opts.CAOnly = true
		}
	}
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	rdr, err := zwrap.WrapMaybe(fp)
	if err != nil {
		return nil, errors.New("reading " + fname + " " + err.Error())
	}
	defer rdr.Close()
	return Read(rdr, opts)
}
