// Package strc holds the hierarchy we build from a structure file.
// A Structure owns Models, a Model owns Chains, a Chain owns Groups
// (residues) and a Group owns Atoms. These are passive containers.
// The assemblers in pdb/oldfmt and pdb/mmcif fill them in and the
// caller gets the finished Structure from the top level pdb package.
// After that, nothing should write to it.
package strc

import (
	"fmt"
	"strings"

	"github.com/TuftsBCB/seq"
	"github.com/TuftsBCB/structure"
)

// GroupKind says what sort of residue a Group is.
type GroupKind byte

const (
	Heterogen GroupKind = iota
	AminoAcid
	Nucleotide
)

func (k GroupKind) String() string {
	switch k {
	case AminoAcid:
		return "amino"
	case Nucleotide:
		return "nucleotide"
	default:
		return "hetero"
	}
}

// SecStruc is the secondary structure tag on a polymer Group.
type SecStruc byte

const (
	NoSecStruc SecStruc = iota
	Helix
	Strand
	Turn
)

// Atom is one atom record. Coordinates are embedded so one can
// say atom.X rather than atom.Coords.X.
type Atom struct {
	Serial  int
	Name    string
	Element string
	AltLoc  byte
	structure.Coords
	Occupancy  float64
	TempFactor float64
}

// Group is one residue. SeqNum and ICode together identify it within
// its chain. Code3 is the component code from the file ("ALA", "HOH").
// Code1 is only meaningful for polymer kinds. SeqID is the internal
// sequence position an mmCIF file assigns (label_seq_id); it is zero
// for groups from old format files.
type Group struct {
	SeqNum int
	ICode  byte
	Code3  string
	Kind   GroupKind
	Code1  seq.Residue
	Sec    SecStruc
	SeqID  int
	Atoms  []Atom
}

// AddAtom appends one atom to the group.
func (g *Group) AddAtom(a Atom) { g.Atoms = append(g.Atoms, a) }

// CA returns the alpha carbon of this group or nil.
func (g *Group) CA() *Atom {
	for i := range g.Atoms {
		if g.Atoms[i].Name == "CA" {
			return &g.Atoms[i]
		}
	}
	return nil
}

func (g *Group) String() string {
	return fmt.Sprintf("%s %d%c (%d atoms)", g.Code3, g.SeqNum, icodeOrSpace(g.ICode), len(g.Atoms))
}

func icodeOrSpace(c byte) byte {
	if c == 0 {
		return ' '
	}
	return c
}

type resID struct {
	num   int
	icode byte
}

// Chain is one chain within a model. Name is the public strand id.
// AsymID is the internal mmCIF chain label; for old format files the
// two are the same. Groups stay in file order, which is not
// necessarily numeric order.
type Chain struct {
	AsymID string
	Name   string
	Groups []*Group

	byRes map[resID]int // lazily built, invalidated by AddGroup
}

// AddGroup appends a group, keeping file order.
func (c *Chain) AddGroup(g *Group) {
	if g == nil {
		return
	}
	c.Groups = append(c.Groups, g)
	c.byRes = nil
}

// Group finds a group by residue number and insertion code.
// Returns nil if there is no such group.
func (c *Chain) Group(num int, icode byte) *Group {
	if c.byRes == nil {
		c.byRes = make(map[resID]int, len(c.Groups))
		for i, g := range c.Groups {
			k := resID{g.SeqNum, g.ICode}
			if _, dup := c.byRes[k]; !dup {
				c.byRes[k] = i
			}
		}
	}
	if i, ok := c.byRes[resID{num, icode}]; ok {
		return c.Groups[i]
	}
	return nil
}

// NAtoms counts the atoms over all groups of the chain.
func (c *Chain) NAtoms() (n int) {
	for _, g := range c.Groups {
		n += len(g.Atoms)
	}
	return n
}

// NKind counts groups of one kind.
func (c *Chain) NKind(k GroupKind) (n int) {
	for _, g := range c.Groups {
		if g.Kind == k {
			n++
		}
	}
	return n
}

// Seq gives the one letter sequence of the polymer groups.
func (c *Chain) Seq() []seq.Residue {
	s := make([]seq.Residue, 0, len(c.Groups))
	for _, g := range c.Groups {
		if g.Kind != Heterogen {
			s = append(s, g.Code1)
		}
	}
	return s
}

func (c *Chain) String() string {
	rs := make([]byte, len(c.Groups))
	for i, g := range c.Groups {
		if g.Kind == Heterogen || g.Code1 == 0 {
			rs[i] = 'x'
		} else {
			rs[i] = byte(g.Code1)
		}
	}
	return "chain " + c.Name + " " + string(rs)
}

// Model is one set of chains. Model 0 is the canonical one. Further
// models are alternative conformations of the same chains, as in an
// NMR ensemble.
type Model struct {
	Chains []*Chain
}

// Chain finds a chain by public name, nil if absent.
func (m *Model) Chain(name string) *Chain {
	for _, c := range m.Chains {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddChain appends a chain to the model.
func (m *Model) AddChain(c *Chain) { m.Chains = append(m.Chains, c) }

// ChainNames lists the chain names in model order.
func (m *Model) ChainNames() []string {
	names := make([]string, len(m.Chains))
	for i, c := range m.Chains {
		names[i] = c.Name
	}
	return names
}

// Structure is the root of the hierarchy plus everything from the
// header records. SeqRes holds the declared sequence chains. Before
// reconciliation their groups have no numbering; afterwards each
// declared group that was matched carries the observed numbering.
// CAOnly is set when the atom count ceiling forced the whole
// structure down to alpha carbons.
type Structure struct {
	Header      Header
	Models      []*Model
	SeqRes      []*Chain
	Compounds   []*Compound
	DBRefs      []DBRef
	SSBonds     []SSBond
	Connections []Connection
	CAOnly      bool
}

// NModels says how many models we have.
func (s *Structure) NModels() int { return len(s.Models) }

// Model returns model i or nil when out of range.
func (s *Structure) Model(i int) *Model {
	if i < 0 || i >= len(s.Models) {
		return nil
	}
	return s.Models[i]
}

// ChainByName looks a chain up in the canonical model.
func (s *Structure) ChainByName(name string) *Chain {
	if len(s.Models) == 0 {
		return nil
	}
	return s.Models[0].Chain(name)
}

// SeqResChain finds the declared chain with a given name, nil if absent.
func (s *Structure) SeqResChain(name string) *Chain {
	for _, c := range s.SeqRes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NAtoms counts atoms over all models.
func (s *Structure) NAtoms() (n int) {
	for _, m := range s.Models {
		for _, c := range m.Chains {
			n += c.NAtoms()
		}
	}
	return n
}

// NGroups counts groups in the canonical model.
func (s *Structure) NGroups() (n int) {
	if len(s.Models) == 0 {
		return 0
	}
	for _, c := range s.Models[0].Chains {
		n += len(c.Groups)
	}
	return n
}

func (s *Structure) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d model(s)", s.Header.IDCode, len(s.Models))
	if len(s.Models) > 0 {
		fmt.Fprintf(&b, ", chains %v", s.Models[0].ChainNames())
	}
	if s.CAOnly {
		b.WriteString(" (CA only)")
	}
	return b.String()
}
