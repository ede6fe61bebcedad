// Package oldfmt reads the old fixed column PDB format. The reader is
// a line driven state machine. Atom records build up the hierarchy,
// header records collect side information and SEQRES records build a
// second, declared set of chains which the caller reconciles against
// the observed one afterwards.
//
// One parser reads one document. Make a new one for the next file.
package oldfmt

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/andrew-torda/strucio/pdb/strc"
)

// Default atom ceilings. At CAThresholdDflt we throw away the SEQRES
// information and keep only alpha carbons. At MaxAtomsDflt we stop
// keeping atoms at all. Neither is an error.
const (
	CAThresholdDflt = 500000
	MaxAtomsDflt    = 700000
)

// Options control one parse.
type Options struct {
	CAOnly      bool // keep only alpha carbons from the start
	CAThreshold int  // 0 means CAThresholdDflt
	MaxAtoms    int  // 0 means MaxAtomsDflt
	Logger      *log.Logger
}

// recKind is the closed set of record types we act on. Anything else
// is rkOther and gets ignored.
type recKind byte

const (
	rkOther recKind = iota
	rkAtom
	rkHetatm
	rkSeqres
	rkModel
	rkHeader
	rkTitle
	rkAuthor
	rkCompnd
	rkSource
	rkExpdta
	rkRemark
	rkRevdat
	rkJrnl
	rkDbref
	rkSSBond
	rkHelix
	rkSheet
	rkTurn
	rkConect
	rkTer
	rkEnd
)

func recKindOf(name string) recKind {
	switch name {
	case "ATOM":
		return rkAtom
	case "HETATM":
		return rkHetatm
	case "SEQRES":
		return rkSeqres
	case "MODEL":
		return rkModel
	case "HEADER":
		return rkHeader
	case "TITLE":
		return rkTitle
	case "AUTHOR":
		return rkAuthor
	case "COMPND":
		return rkCompnd
	case "SOURCE":
		return rkSource
	case "EXPDTA":
		return rkExpdta
	case "REMARK":
		return rkRemark
	case "REVDAT":
		return rkRevdat
	case "JRNL":
		return rkJrnl
	case "DBREF":
		return rkDbref
	case "SSBOND":
		return rkSSBond
	case "HELIX":
		return rkHelix
	case "SHEET":
		return rkSheet
	case "TURN":
		return rkTurn
	case "CONECT":
		return rkConect
	case "TER":
		return rkTer
	case "END", "ENDMDL":
		return rkEnd
	default:
		return rkOther
	}
}

// ssRange is a secondary structure assignment waiting to be applied.
type ssRange struct {
	kind             strc.SecStruc
	chain1, chain2   string
	seqNum1, seqNum2 int
	icode1, icode2   byte
}

// parser holds everything one parse needs. The current chain and
// group are the open state of the atom machine; nil means no chain or
// group is open.
type parser struct {
	opts Options
	lg   *log.Logger
	s    *strc.Structure

	model *strc.Model
	chain *strc.Chain
	group *strc.Group

	atomCount int
	caOnly    bool
	ceilinged bool
	overflow  bool

	compndLines []string
	sourceLines []string
	jrnlLines   []string
	ssRanges    []ssRange

	nline int
}

// Parse reads one document. The returned structure is best effort: a
// bad line costs only what that line would have contributed. Only a
// broken stream makes Parse return an error.
func Parse(r io.Reader, opts Options) (*strc.Structure, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.CAThreshold == 0 {
		opts.CAThreshold = CAThresholdDflt
	}
	if opts.MaxAtoms == 0 {
		opts.MaxAtoms = MaxAtomsDflt
	}
	p := &parser{
		opts:   opts,
		lg:     opts.Logger,
		s:      &strc.Structure{},
		model:  &strc.Model{},
		caOnly: opts.CAOnly,
	}

	scnnr := bufio.NewScanner(r)
	scnnr.Buffer(make([]byte, 0, 1024), 1024*1024)
	for scnnr.Scan() {
		p.nline++
		line := scnnr.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) < 6 {
			if recKindOf(strings.TrimSpace(line)) == rkOther {
				p.lg.Printf("line %d shorter than a record name, ignoring: %q", p.nline, line)
			}
			continue
		}
		if err := p.dispatch(line); err != nil {
			p.lg.Printf("line %d unusable, skipping: %v", p.nline, newReadError(p.nline, line, err))
		}
	}
	if err := scnnr.Err(); err != nil {
		return nil, err
	}
	if p.nline == 0 {
		return nil, errZeroLength
	}
	p.finish()
	p.s.CAOnly = p.caOnly
	return p.s, nil
}

func (p *parser) dispatch(line string) error {
	switch recKindOf(strings.TrimSpace(line[0:6])) {
	case rkAtom:
		return p.doAtom(line, false)
	case rkHetatm:
		return p.doAtom(line, true)
	case rkSeqres:
		return p.doSeqres(line)
	case rkModel:
		p.doModel()
	case rkHeader:
		return p.doHeader(line)
	case rkTitle:
		p.s.Header.Title = appendField(p.s.Header.Title, colField(line, 10, 70))
	case rkAuthor:
		p.s.Header.Authors = appendList(p.s.Header.Authors, colField(line, 10, 79))
	case rkCompnd:
		p.compndLines = append(p.compndLines, line)
	case rkSource:
		p.sourceLines = append(p.sourceLines, line)
	case rkExpdta:
		p.doExpdta(line)
	case rkRemark:
		p.doRemark(line)
	case rkRevdat:
		return p.doRevdat(line)
	case rkJrnl:
		if len(line) > 12 {
			p.jrnlLines = append(p.jrnlLines, strings.TrimRight(line[12:], " "))
		}
	case rkDbref:
		return p.doDbref(line)
	case rkSSBond:
		return p.doSSBond(line)
	case rkHelix:
		return p.doSecStruc(line, strc.Helix)
	case rkSheet:
		return p.doSecStruc(line, strc.Strand)
	case rkTurn:
		return p.doSecStruc(line, strc.Turn)
	case rkConect:
		return p.doConect(line)
	case rkTer, rkEnd, rkOther:
		// not for us
	}
	return nil
}

// finish flushes the open state, replays the buffered COMPND and
// SOURCE sections and applies the secondary structure ranges.
func (p *parser) finish() {
	p.flushChain()
	p.s.Models = append(p.s.Models, p.model)

	p.makeCompounds()
	if len(p.jrnlLines) > 0 {
		p.s.Header.Journal = strings.Join(p.jrnlLines, "\n")
	}
	if p.s.Header.ModDate.IsZero() {
		p.s.Header.ModDate = p.s.Header.DepDate
	}
	p.applySecStruc()
}

// colField picks columns [lo,hi) out of a line and trims them,
// forgiving lines that stop early.
func colField(line string, lo, hi int) string {
	if lo >= len(line) {
		return ""
	}
	if hi > len(line) {
		hi = len(line)
	}
	return strings.TrimSpace(line[lo:hi])
}

// colByte gives a single column, or space if the line is short.
func colByte(line string, i int) byte {
	if i >= len(line) {
		return ' '
	}
	return line[i]
}

func appendField(old, more string) string {
	if more == "" {
		return old
	}
	if old == "" {
		return more
	}
	return old + " " + more
}

func appendList(old, more string) string {
	if more == "" {
		return old
	}
	if old == "" {
		return more
	}
	return old + "," + more
}

func parseIntField(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func icodeAt(line string, i int) byte {
	c := colByte(line, i)
	if c == ' ' {
		return 0
	}
	return c
}
