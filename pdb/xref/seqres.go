// Reconciling the declared sequence of a chain with the residues that
// were actually observed.

package xref

import (
	"log"

	"github.com/andrew-torda/strucio/pdb/strc"
)

// AlignSeqRes walks each declared chain against the observed chain of
// the same name in the canonical model. Matched declared groups take
// over the numbering, insertion code and atoms of their observed
// counterparts. Declared residues nobody observed keep zero numbering
// and no atoms. The walk is monotone, so a declared sequence shorter
// than reality or an observed residue missing from the declaration
// costs only that residue.
func AlignSeqRes(s *strc.Structure, lg *log.Logger) {
	for _, decl := range s.SeqRes {
		obs := s.ChainByName(decl.Name)
		if obs == nil {
			lg.Printf("declared chain %q has no observed counterpart", decl.Name)
			continue
		}
		alignChain(decl, obs, lg)
	}
}

func alignChain(decl, obs *strc.Chain, lg *log.Logger) {
	di := 0
	for _, g := range obs.Groups {
		if g.Kind == strc.Heterogen {
			// ligands and waters are never in the declared sequence
			continue
		}
		if di >= len(decl.Groups) {
			lg.Printf("chain %s: observed %v lies beyond the declared sequence",
				obs.Name, g)
			continue
		}
		j := findAhead(decl.Groups, di, g)
		if j < 0 {
			lg.Printf("chain %s: observed %v is not in the declared sequence",
				obs.Name, g)
			continue
		}
		// declared groups between di and j were not observed
		copyObserved(decl.Groups[j], g)
		di = j + 1
	}
}

// matches compares a declared and an observed group. Two amino acids
// compare by one letter code, everything else by component code.
func matches(d, o *strc.Group) bool {
	if d.Kind == strc.AminoAcid && o.Kind == strc.AminoAcid &&
		d.Code1 != 0 && o.Code1 != 0 {
		return d.Code1 == o.Code1
	}
	return d.Code3 == o.Code3
}

func findAhead(decl []*strc.Group, from int, o *strc.Group) int {
	for j := from; j < len(decl); j++ {
		if matches(decl[j], o) {
			return j
		}
	}
	return -1
}

func copyObserved(d, o *strc.Group) {
	d.SeqNum = o.SeqNum
	d.ICode = o.ICode
	d.SeqID = o.SeqID
	d.Sec = o.Sec
	d.Atoms = o.Atoms
}
