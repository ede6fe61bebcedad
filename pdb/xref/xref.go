// Package xref ties the pieces of a freshly assembled structure
// together. LinkCompounds points each compound at its chains and
// AlignSeqRes reconciles the declared sequences with the observed
// ones. Both run after assembly, on either format.
package xref

import (
	"log"
	"strings"

	"github.com/andrew-torda/strucio/pdb/strc"
)

// LinkCompounds resolves the chain names each compound claims into
// chain pointers in the canonical model. Old entries with one
// compound and one chain often do not bother naming the chain, so
// that case links implicitly.
func LinkCompounds(s *strc.Structure, lg *log.Logger) {
	for _, c := range s.Compounds {
		ids := c.ChainIDs
		if len(ids) == 0 && len(s.Compounds) == 1 &&
			len(s.Models) > 0 && len(s.Models[0].Chains) == 1 {
			ids = []string{s.Models[0].Chains[0].Name}
			c.ChainIDs = ids
		}
		for _, id := range ids {
			if strings.EqualFold(id, "NULL") {
				id = " "
			}
			ch := s.ChainByName(id)
			if ch == nil {
				lg.Printf("compound %d names chain %q, which is not in the structure",
					c.MolID, id)
				continue
			}
			c.Chains = append(c.Chains, ch)
		}
	}
}
