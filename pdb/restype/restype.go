// Package restype decides what kind of residue a three letter
// component code stands for. It also knows the element symbols and
// how to read the date format used in header records.
package restype

import (
	"strings"
	"time"

	"github.com/TuftsBCB/seq"

	"github.com/andrew-torda/strucio/pdb/strc"
)

// Unknown is the one letter code we hand back for codes like UNK
// where there is a residue, but no meaningful single letter.
const Unknown seq.Residue = 'X'

// threeToOne maps component codes to one letter codes. Codes that map
// to Unknown are real residues without a proper single letter.
var threeToOne = map[string]seq.Residue{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O',
	"UNK": Unknown, "ACE": Unknown, "NH2": Unknown,
	"ASX": Unknown, "GLX": Unknown,
}

var nucleotides = map[string]bool{
	"A": true, "C": true, "G": true, "T": true, "U": true, "I": true,
	"DA": true, "DC": true, "DG": true, "DT": true, "DU": true, "DI": true,
	"N": true,
}

// OneLetter looks up the one letter code for a component code.
// The second return value is false if the code is not a known
// amino acid component.
func OneLetter(code3 string) (seq.Residue, bool) {
	r, ok := threeToOne[strings.TrimSpace(code3)]
	return r, ok
}

// IsNucleotide says if a component code is one of the standard
// nucleotide codes.
func IsNucleotide(code3 string) bool {
	return nucleotides[strings.TrimSpace(code3)]
}

// KindOf applies the rule for typing an atom record.
// For ATOM records: an unknown component is a nucleotide, the Unknown
// sentinel is a heterogen and anything else is an amino acid. For
// HETATM records an unknown component or the sentinel is a heterogen,
// but a known code is still an amino acid, because modified amino
// acids turn up as HETATM.
// The one letter code returned is only meaningful for amino acids.
func KindOf(hetatm bool, code3 string) (strc.GroupKind, seq.Residue) {
	c1, ok := OneLetter(code3)
	if !ok {
		if hetatm {
			return strc.Heterogen, 0
		}
		return strc.Nucleotide, 0
	}
	if c1 == Unknown {
		return strc.Heterogen, 0
	}
	return strc.AminoAcid, c1
}

// DeclaredKind types a residue from a declared sequence, where no
// record type helps. Known amino acid codes are amino acids, the
// standard nucleotide codes are nucleotides and everything else is a
// heterogen.
func DeclaredKind(code3 string) (strc.GroupKind, seq.Residue) {
	c1, ok := OneLetter(code3)
	if ok && c1 != Unknown {
		return strc.AminoAcid, c1
	}
	if IsNucleotide(code3) {
		return strc.Nucleotide, 0
	}
	return strc.Heterogen, 0
}

// elements is the set of symbols we accept in the element columns.
var elements = map[string]bool{
	"H": true, "HE": true, "LI": true, "BE": true, "B": true,
	"C": true, "N": true, "O": true, "F": true, "NE": true,
	"NA": true, "MG": true, "AL": true, "SI": true, "P": true,
	"S": true, "CL": true, "AR": true, "K": true, "CA": true,
	"MN": true, "FE": true, "CO": true, "NI": true, "CU": true,
	"ZN": true, "SE": true, "BR": true, "I": true, "MO": true,
	"W": true, "PT": true, "AU": true, "HG": true, "PB": true,
	"CD": true, "AS": true, "V": true, "CR": true, "SR": true,
	"BA": true, "CS": true, "RB": true, "XE": true, "KR": true,
}

// ValidElement says if a symbol from the element columns is usable.
func ValidElement(sym string) bool {
	return elements[strings.ToUpper(strings.TrimSpace(sym))]
}

// ElementOf guesses the element from the four column atom name field
// when the element columns are missing or rubbish. Alignment matters:
// two letter elements fill the first column ("CA  " is calcium),
// one letter elements leave it blank (" CA " is an alpha carbon), and
// four character names like HG23 put the element first.
func ElementOf(atomName string) string {
	for len(atomName) < 4 {
		atomName += " "
	}
	name := strings.ToUpper(strings.TrimSpace(atomName))
	switch {
	case name == "":
		return ""
	case atomName[0] == ' ' || len(name) == 4:
		if ValidElement(name[:1]) {
			return name[:1]
		}
	case len(name) >= 2 && ValidElement(name[:2]):
		return name[:2]
	case ValidElement(name[:1]):
		return name[:1]
	}
	return ""
}

// ParseDate reads the dd-MMM-yy dates from HEADER and REVDAT records.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// The files write the month in capitals, the time package wants Jan.
	if len(s) == 9 {
		s = s[:3] + s[3:4] + strings.ToLower(s[4:6]) + s[6:]
	}
	return time.Parse("02-Jan-06", s)
}
