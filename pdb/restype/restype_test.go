package restype_test

import (
	"testing"

	. "github.com/andrew-torda/strucio/pdb/restype"
	"github.com/andrew-torda/strucio/pdb/strc"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		hetatm bool
		code3  string
		kind   strc.GroupKind
		code1  byte
	}{
		{false, "ALA", strc.AminoAcid, 'A'},
		{false, "TRP", strc.AminoAcid, 'W'},
		{false, "SEC", strc.AminoAcid, 'U'},
		{false, "DA", strc.Nucleotide, 0},  // not in the lookup, atom record
		{false, "G", strc.Nucleotide, 0},   // same
		{false, "UNK", strc.Heterogen, 0},  // known but no real letter
		{true, "HOH", strc.Heterogen, 0},   // not in the lookup, hetatm
		{true, "MG", strc.Heterogen, 0},    // same
		{true, "MET", strc.AminoAcid, 'M'}, // modified residues come as hetatm
		{true, "ACE", strc.Heterogen, 0},
	}
	for _, tc := range tests {
		kind, c1 := KindOf(tc.hetatm, tc.code3)
		if kind != tc.kind {
			t.Errorf("KindOf(%v, %q) kind = %v, want %v", tc.hetatm, tc.code3, kind, tc.kind)
		}
		if byte(c1) != tc.code1 {
			t.Errorf("KindOf(%v, %q) code = %q, want %q", tc.hetatm, tc.code3, c1, tc.code1)
		}
	}
}

func TestDeclaredKind(t *testing.T) {
	tests := []struct {
		code3 string
		kind  strc.GroupKind
		code1 byte
	}{
		{"ALA", strc.AminoAcid, 'A'},
		{"DG", strc.Nucleotide, 0},
		{"U", strc.Nucleotide, 0},
		{"UNK", strc.Heterogen, 0}, // the sentinel never makes an amino acid
		{"MSE", strc.Heterogen, 0}, // modified residue, not in the table
	}
	for _, tc := range tests {
		kind, c1 := DeclaredKind(tc.code3)
		if kind != tc.kind || byte(c1) != tc.code1 {
			t.Errorf("DeclaredKind(%q) = %v, %q, want %v, %q",
				tc.code3, kind, c1, tc.kind, tc.code1)
		}
	}
}

func TestElementOf(t *testing.T) {
	tests := []struct{ name, want string }{
		{" CA ", "C"},  // an alpha carbon, first column blank
		{"CA  ", "CA"}, // calcium fills the first column
		{"HG23", "H"},  // four char field, first char rules
		{" N  ", "N"},
		{" OXT", "O"},
		{"FE  ", "FE"},
		{"    ", ""},
	}
	for _, tc := range tests {
		if got := ElementOf(tc.name); got != tc.want {
			t.Errorf("ElementOf(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("23-MAR-98")
	if err != nil {
		t.Fatal("23-MAR-98:", err)
	}
	if d.Year() != 1998 || int(d.Month()) != 3 || d.Day() != 23 {
		t.Errorf("got %v, want 23 March 1998", d)
	}
	if _, err = ParseDate("not a date"); err == nil {
		t.Error("expected an error for rubbish input")
	}
}

func TestOneLetter(t *testing.T) {
	if r, ok := OneLetter("GLY"); !ok || r != 'G' {
		t.Errorf("GLY gave %q, %v", r, ok)
	}
	if _, ok := OneLetter("XYZ"); ok {
		t.Error("XYZ should not be known")
	}
	if !IsNucleotide("DG") || IsNucleotide("ALA") {
		t.Error("nucleotide test broken")
	}
}
