// The atom machine: ATOM/HETATM, MODEL and SEQRES records, plus the
// ceilings that degrade a monster structure instead of failing it.

package oldfmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/TuftsBCB/seq"

	"github.com/andrew-torda/strucio/pdb/restype"
	"github.com/andrew-torda/strucio/pdb/strc"
)

var errZeroLength = errors.New("zero length file")

// doAtom handles one ATOM or HETATM line. The whole line is parsed
// before any parser state moves, so a bad line leaves nothing behind,
// not even an empty group or chain. The open chain flushes when the
// chain id changes and the open group flushes when the residue number
// or insertion code changes. A chain id that matches a chain already
// in the model reopens that chain rather than duplicating it.
func (p *parser) doAtom(line string, hetatm bool) error {
	if len(line) < 54 {
		return fmt.Errorf("atom line has %d columns, need 54", len(line))
	}
	seqNum, err := parseIntField(line[22:26])
	if err != nil {
		return fmt.Errorf("residue number: %w", err)
	}
	name := colField(line, 12, 16)
	atom := strc.Atom{Name: name, Occupancy: 1}
	if atom.Serial, err = parseIntField(line[6:11]); err != nil {
		return fmt.Errorf("atom serial: %w", err)
	}
	if atom.X, err = strconv.ParseFloat(colField(line, 30, 38), 64); err != nil {
		return fmt.Errorf("x coordinate: %w", err)
	}
	if atom.Y, err = strconv.ParseFloat(colField(line, 38, 46), 64); err != nil {
		return fmt.Errorf("y coordinate: %w", err)
	}
	if atom.Z, err = strconv.ParseFloat(colField(line, 46, 54), 64); err != nil {
		return fmt.Errorf("z coordinate: %w", err)
	}
	if c := colByte(line, 16); c != ' ' {
		atom.AltLoc = c
	}
	// occupancy and temperature factor are sometimes just missing
	if v, err := strconv.ParseFloat(colField(line, 54, 60), 64); err == nil {
		atom.Occupancy = v
	}
	if v, err := strconv.ParseFloat(colField(line, 60, 66), 64); err == nil {
		atom.TempFactor = v
	}
	if sym := colField(line, 76, 78); restype.ValidElement(sym) {
		atom.Element = sym
	} else {
		atom.Element = restype.ElementOf(line[12:16])
	}
	chainID := string(colByte(line, 21))
	code3 := colField(line, 17, 20)
	icode := icodeAt(line, 26)

	// the line is good, now the state machine may move
	if p.chain == nil {
		p.chain = &strc.Chain{AsymID: chainID, Name: chainID}
		p.model.AddChain(p.chain)
	} else if chainID != p.chain.Name {
		flushGroup(p.chain, p.group)
		p.group = nil
		if known := p.model.Chain(chainID); known != nil {
			p.chain = known
		} else {
			p.chain = &strc.Chain{AsymID: chainID, Name: chainID}
			p.model.AddChain(p.chain)
		}
	}
	if p.group == nil || p.group.SeqNum != seqNum || p.group.ICode != icode {
		flushGroup(p.chain, p.group)
		kind, code1 := restype.KindOf(hetatm, code3)
		p.group = newGroup(kind, code1, code3, seqNum, icode)
	}

	p.atomCount++
	if !p.ceilinged && p.atomCount >= p.opts.CAThreshold {
		p.ceilinged = true
		p.lg.Printf("more than %d atoms, dropping SEQRES and switching to alpha carbons only",
			p.opts.CAThreshold)
		p.s.SeqRes = nil
		p.switchCAOnly()
	}
	if p.atomCount > p.opts.MaxAtoms {
		if !p.overflow {
			p.lg.Printf("more than %d atoms, dropping the rest", p.opts.MaxAtoms)
			p.overflow = true
		}
		return nil
	}
	if p.caOnly && name != "CA" {
		p.atomCount--
		return nil
	}

	p.group.AddAtom(atom)
	return nil
}

func newGroup(kind strc.GroupKind, code1 seq.Residue, code3 string, seqNum int, icode byte) *strc.Group {
	return &strc.Group{
		SeqNum: seqNum,
		ICode:  icode,
		Code3:  code3,
		Kind:   kind,
		Code1:  code1,
	}
}

// flushGroup closes a group into its chain. A group that never got an
// atom is dropped, a flushed group must have atoms.
func flushGroup(c *strc.Chain, g *strc.Group) {
	if g != nil && len(g.Atoms) > 0 {
		c.AddGroup(g)
	}
}

// flushChain closes the open group and chain. The chain is already in
// the model, it was added when it was opened.
func (p *parser) flushChain() {
	if p.chain != nil {
		flushGroup(p.chain, p.group)
	}
	p.chain = nil
	p.group = nil
}

// doModel snapshots the chains seen so far into a model and starts a
// fresh one. The first MODEL record of a file arrives before any atom
// and does nothing.
func (p *parser) doModel() {
	if p.chain == nil {
		return
	}
	p.flushChain()
	p.s.Models = append(p.s.Models, p.model)
	p.model = &strc.Model{}
}

// doSeqres adds the residues of one SEQRES line to the declared chain
// set. Residue names sit in four column fields from column 19 on.
func (p *parser) doSeqres(line string) error {
	if p.caOnly {
		// ceilings already threw the declared sequence away
		return nil
	}
	chainID := string(colByte(line, 11))
	ch := p.s.SeqResChain(chainID)
	if ch == nil {
		ch = &strc.Chain{AsymID: chainID, Name: chainID}
		p.s.SeqRes = append(p.s.SeqRes, ch)
	}
	for _, code3 := range strings.Fields(colField(line, 19, 70)) {
		kind, code1 := restype.DeclaredKind(code3)
		ch.AddGroup(&strc.Group{Code3: code3, Kind: kind, Code1: code1})
	}
	return nil
}

// switchCAOnly flips the parser to alpha carbon mode and strips the
// atoms we already kept, in every model built so far and in the open
// one.
func (p *parser) switchCAOnly() {
	p.caOnly = true
	for _, m := range p.s.Models {
		stripModel(m)
	}
	stripModel(p.model)
	if p.group != nil {
		stripGroup(p.group)
	}
}

func stripModel(m *strc.Model) {
	for _, c := range m.Chains {
		for _, g := range c.Groups {
			stripGroup(g)
		}
	}
}

func stripGroup(g *strc.Group) {
	if ca := g.CA(); ca != nil {
		g.Atoms = []strc.Atom{*ca}
	} else {
		g.Atoms = nil
	}
}
