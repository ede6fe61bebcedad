// Header records. Most are one line and go straight into the header
// struct. COMPND and SOURCE are continuation sections, so they get
// buffered during the parse and replayed at the end by makeCompounds.

package oldfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andrew-torda/strucio/pdb/restype"
	"github.com/andrew-torda/strucio/pdb/strc"
)

func (p *parser) doHeader(line string) error {
	p.s.Header.Classification = colField(line, 10, 50)
	p.s.Header.IDCode = colField(line, 62, 66)
	if d, err := restype.ParseDate(colField(line, 50, 59)); err == nil {
		p.s.Header.DepDate = d
	}
	return nil
}

func (p *parser) doExpdta(line string) {
	p.s.Header.Technique = appendField(p.s.Header.Technique, colField(line, 10, 79))
	if strings.Contains(p.s.Header.Technique, "NMR") {
		p.s.Header.NMR = true
	}
}

// doRemark only cares about remark 2, the resolution. NMR entries say
// "NOT APPLICABLE" there, which we leave as zero.
func (p *parser) doRemark(line string) {
	if colField(line, 7, 10) != "2" {
		return
	}
	rest := colField(line, 11, 70)
	if !strings.Contains(rest, "ANGSTROM") {
		return
	}
	for _, f := range strings.Fields(rest) {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			p.s.Header.Resolution = v
			return
		}
	}
}

// doRevdat takes the date of the first revision record, which is the
// most recent one. Continuation lines carry no date.
func (p *parser) doRevdat(line string) error {
	if !p.s.Header.ModDate.IsZero() {
		return nil
	}
	if colField(line, 10, 12) != "" {
		return nil
	}
	d, err := restype.ParseDate(colField(line, 13, 22))
	if err != nil {
		return fmt.Errorf("revision date: %w", err)
	}
	p.s.Header.ModDate = d
	return nil
}

func (p *parser) doDbref(line string) error {
	seqBegin, err := parseIntField(colField(line, 14, 18))
	if err != nil {
		return fmt.Errorf("dbref first residue: %w", err)
	}
	seqEnd, err := parseIntField(colField(line, 20, 24))
	if err != nil {
		return fmt.Errorf("dbref last residue: %w", err)
	}
	ref := strc.DBRef{
		IDCode:      colField(line, 7, 11),
		ChainName:   string(colByte(line, 12)),
		SeqBegin:    seqBegin,
		InsBegin:    icodeAt(line, 18),
		SeqEnd:      seqEnd,
		InsEnd:      icodeAt(line, 24),
		Database:    colField(line, 26, 32),
		DbAccession: colField(line, 33, 41),
		DbIDCode:    colField(line, 42, 54),
		DbInsBegin:  icodeAt(line, 60),
		DbInsEnd:    icodeAt(line, 67),
	}
	if v, err := parseIntField(colField(line, 55, 60)); err == nil {
		ref.DbSeqBegin = v
	}
	if v, err := parseIntField(colField(line, 62, 67)); err == nil {
		ref.DbSeqEnd = v
	}
	p.s.DBRefs = append(p.s.DBRefs, ref)
	return nil
}

func (p *parser) doSSBond(line string) error {
	n1, err := parseIntField(colField(line, 17, 21))
	if err != nil {
		return fmt.Errorf("ssbond first residue: %w", err)
	}
	n2, err := parseIntField(colField(line, 31, 35))
	if err != nil {
		return fmt.Errorf("ssbond second residue: %w", err)
	}
	p.s.SSBonds = append(p.s.SSBonds, strc.SSBond{
		Chain1: string(colByte(line, 15)), SeqNum1: n1, ICode1: icodeAt(line, 21),
		Chain2: string(colByte(line, 29)), SeqNum2: n2, ICode2: icodeAt(line, 35),
	})
	return nil
}

// ssCols gives the columns of the start and end residue for each of
// HELIX, SHEET and TURN, which sadly all use different layouts.
// Order: chain1, num1 lo, num1 hi, icode1, chain2, num2 lo, num2 hi,
// icode2.
var ssCols = map[strc.SecStruc][8]int{
	strc.Helix:  {19, 21, 25, 25, 31, 33, 37, 37},
	strc.Strand: {21, 22, 26, 26, 32, 33, 37, 37},
	strc.Turn:   {19, 20, 24, 24, 30, 31, 35, 35},
}

// doSecStruc buffers one assignment. The ranges are applied at the end
// of the parse, once the chains exist.
func (p *parser) doSecStruc(line string, kind strc.SecStruc) error {
	c := ssCols[kind]
	n1, err := parseIntField(colField(line, c[1], c[2]))
	if err != nil {
		return fmt.Errorf("start residue: %w", err)
	}
	n2, err := parseIntField(colField(line, c[5], c[6]))
	if err != nil {
		return fmt.Errorf("end residue: %w", err)
	}
	p.ssRanges = append(p.ssRanges, ssRange{
		kind:   kind,
		chain1: string(colByte(line, c[0])), seqNum1: n1, icode1: icodeAt(line, c[3]),
		chain2: string(colByte(line, c[4])), seqNum2: n2, icode2: icodeAt(line, c[7]),
	})
	return nil
}

func (p *parser) doConect(line string) error {
	serial, err := parseIntField(colField(line, 6, 11))
	if err != nil {
		return fmt.Errorf("conect serial: %w", err)
	}
	conn := strc.Connection{Serial: serial}
	for lo := 11; lo <= 26; lo += 5 {
		if b, err := parseIntField(colField(line, lo, lo+5)); err == nil {
			conn.Bonded = append(conn.Bonded, b)
		}
	}
	p.s.Connections = append(p.s.Connections, conn)
	return nil
}

// applySecStruc marks the groups of the canonical model with the
// buffered helix, strand and turn ranges.
func (p *parser) applySecStruc() {
	if len(p.s.Models) == 0 {
		return
	}
	m := p.s.Models[0]
	for _, r := range p.ssRanges {
		ch := m.Chain(r.chain1)
		if ch == nil {
			p.lg.Printf("secondary structure names unknown chain %q", r.chain1)
			continue
		}
		in := false
		for _, g := range ch.Groups {
			if g.SeqNum == r.seqNum1 && g.ICode == r.icode1 {
				in = true
			}
			if in && g.Kind == strc.AminoAcid {
				g.Sec = r.kind
			}
			if in && g.SeqNum == r.seqNum2 && g.ICode == r.icode2 {
				break
			}
		}
	}
}

// The tags a COMPND or SOURCE section may start a field with. A line
// that starts with none of them continues the previous field.
var compndTags = []string{
	"MOL_ID:", "MOLECULE:", "CHAIN:", "SYNONYM:", "EC:", "FRAGMENT:",
	"ENGINEERED:", "MUTATION:", "BIOLOGICAL_UNIT:", "OTHER_DETAILS:",
}

var sourceTags = []string{
	"MOL_ID:", "ORGANISM_SCIENTIFIC:", "ORGANISM_COMMON:",
	"EXPRESSION_SYSTEM:",
}

// makeCompounds replays the buffered COMPND and SOURCE lines. Both
// sections are keyed by MOL_ID, so the SOURCE pass finds the compounds
// the COMPND pass made.
func (p *parser) makeCompounds() {
	byID := map[int]*strc.Compound{}
	get := func(id int) *strc.Compound {
		c := byID[id]
		if c == nil {
			c = &strc.Compound{MolID: id}
			byID[id] = c
			p.s.Compounds = append(p.s.Compounds, c)
		}
		return c
	}
	p.runFields(p.compndLines, compndTags, get, commitCompndField)
	p.runFields(p.sourceLines, sourceTags, get, commitSourceField)
}

// runFields is the continuation machine. A field stays open until a
// line starts with another known tag, then it is committed to the
// current compound. MOL_ID switches the current compound.
func (p *parser) runFields(lines, tags []string, get func(int) *strc.Compound,
	commit func(*strc.Compound, string, string)) {
	var cur *strc.Compound
	var tag, val string
	flush := func() {
		if tag == "" {
			return
		}
		if tag == "MOL_ID:" {
			id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(val), ";"))
			if err != nil {
				p.lg.Printf("unreadable MOL_ID %q, ignoring section", val)
				cur = nil
			} else {
				cur = get(id)
			}
		} else {
			if cur == nil {
				// a field before any MOL_ID belongs to molecule 1
				cur = get(1)
			}
			commit(cur, tag, val)
		}
		tag, val = "", ""
	}
	for _, line := range lines {
		body := colField(line, 10, 72)
		if body == "" {
			continue
		}
		if t, rest, ok := splitTag(body, tags); ok {
			flush()
			tag, val = t, rest
		} else {
			val = appendField(val, body)
		}
	}
	flush()
}

func splitTag(body string, tags []string) (string, string, bool) {
	for _, t := range tags {
		if strings.HasPrefix(body, t) {
			return t, strings.TrimSpace(body[len(t):]), true
		}
	}
	return "", "", false
}

func commitCompndField(c *strc.Compound, tag, val string) {
	val = strings.TrimSuffix(strings.TrimSpace(val), ";")
	switch tag {
	case "MOLECULE:":
		c.Molecule = val
	case "CHAIN:":
		for _, id := range strings.Split(val, ",") {
			id = strings.TrimSpace(id)
			if strings.EqualFold(id, "NULL") {
				id = " "
			}
			if id != "" {
				c.ChainIDs = append(c.ChainIDs, id)
			}
		}
	case "SYNONYM:":
		c.Synonyms = append(c.Synonyms, splitList(val)...)
	case "EC:":
		c.ECNums = append(c.ECNums, splitList(val)...)
	case "FRAGMENT:":
		c.Fragment = val
	case "ENGINEERED:":
		c.Engineered = val
	case "MUTATION:":
		c.Mutation = val
	case "OTHER_DETAILS:":
		c.Details = val
	}
}

func commitSourceField(c *strc.Compound, tag, val string) {
	val = strings.TrimSuffix(strings.TrimSpace(val), ";")
	switch tag {
	case "ORGANISM_SCIENTIFIC:":
		c.OrgScientific = val
	case "ORGANISM_COMMON:":
		c.OrgCommon = val
	case "EXPRESSION_SYSTEM:":
		c.ExpressionSys = val
	}
}

func splitList(val string) []string {
	var out []string
	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
