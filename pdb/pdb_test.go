package pdb_test

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	. "github.com/andrew-torda/strucio/pdb"
	"github.com/andrew-torda/strucio/pdb/brokenio"
	"github.com/andrew-torda/strucio/pdb/strc"
)

func atomLine(rec string, serial int, name, res, chain string, seqNum int, x float64) string {
	if len(name) < 4 {
		name = " " + name
	}
	return fmt.Sprintf("%-6s%5d %-4s %3s %s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f",
		rec, serial, name, res, chain, seqNum, x, 0.0, 0.0, 1.0, 10.0)
}

// One chain, declared MET ALA CYS GLY, observed at 5, 6 and 8 with
// the CYS missing.
func pdbDoc() string {
	var lines []string
	lines = append(lines,
		fmt.Sprintf("HEADER    %-40s%-9s   %4s", "HYDROLASE", "23-MAR-98", "1ABC"),
		"COMPND    MOL_ID: 1;",
		"COMPND   2 MOLECULE: TEST PROTEIN;",
		"COMPND   3 CHAIN: A;",
		"SEQRES   1 A    4  MET ALA CYS GLY")
	serial := 0
	for _, r := range []struct {
		code3 string
		num   int
	}{{"MET", 5}, {"ALA", 6}, {"GLY", 8}} {
		for _, nm := range []string{"N", "CA"} {
			serial++
			lines = append(lines, atomLine("ATOM", serial, nm, r.code3, "A", r.num,
				float64(serial)))
		}
	}
	lines = append(lines, "END")
	return strings.Join(lines, "\n") + "\n"
}

const cifDoc = `data_1ABC
_entry.id 1ABC
loop_
_entity.id
_entity.pdbx_description
1 'test protein'
loop_
_struct_asym.id
_struct_asym.entity_id
AA 1
loop_
_entity_poly_seq.entity_id
_entity_poly_seq.num
_entity_poly_seq.mon_id
1 1 MET
1 2 ALA
1 3 CYS
1 4 GLY
loop_
_atom_site.group_PDB
_atom_site.id
_atom_site.label_atom_id
_atom_site.label_alt_id
_atom_site.label_comp_id
_atom_site.label_asym_id
_atom_site.label_seq_id
_atom_site.auth_seq_id
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
_atom_site.pdbx_PDB_model_num
ATOM 1 N . MET AA 1 5 1.0 0.0 0.0 1
ATOM 2 CA . MET AA 1 5 2.0 0.0 0.0 1
ATOM 3 N . ALA AA 2 6 3.0 0.0 0.0 1
ATOM 4 CA . ALA AA 2 6 4.0 0.0 0.0 1
ATOM 5 N . GLY AA 4 8 5.0 0.0 0.0 1
ATOM 6 CA . GLY AA 4 8 6.0 0.0 0.0 1
loop_
_pdbx_poly_seq_scheme.asym_id
_pdbx_poly_seq_scheme.entity_id
_pdbx_poly_seq_scheme.seq_id
_pdbx_poly_seq_scheme.mon_id
_pdbx_poly_seq_scheme.pdb_seq_num
_pdbx_poly_seq_scheme.pdb_ins_code
_pdbx_poly_seq_scheme.pdb_strand_id
AA 1 1 MET 5 . A
AA 1 2 ALA 6 . A
AA 1 3 CYS 7 . A
AA 1 4 GLY 8 . A
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGuessFormatBySuffix(t *testing.T) {
	// suffix alone decides, the file need not exist
	tests := []struct {
		fname string
		want  Format
	}{
		{"/no/such/thing.pdb", OldFmt},
		{"/no/such/thing.ent.gz", OldFmt},
		{"/no/such/pdb1abc.ent", OldFmt},
		{"/no/such/thing.cif", MmcifFmt},
		{"/no/such/thing.mmcif.gz", MmcifFmt},
	}
	for _, tc := range tests {
		got, err := GuessFormat(tc.fname)
		if err != nil || got != tc.want {
			t.Errorf("GuessFormat(%q) = %v, %v, want %v", tc.fname, got, err, tc.want)
		}
	}
}

func TestGuessFormatByContent(t *testing.T) {
	p := writeFile(t, "mystery", pdbDoc())
	if got, err := GuessFormat(p); err != nil || got != OldFmt {
		t.Errorf("pdb content: %v, %v", got, err)
	}
	p = writeFile(t, "mystery2", cifDoc)
	if got, err := GuessFormat(p); err != nil || got != MmcifFmt {
		t.Errorf("cif content: %v, %v", got, err)
	}
	p = writeFile(t, "mystery3", "nothing to see here\n")
	if _, err := GuessFormat(p); err == nil {
		t.Error("unrecognisable content should be an error")
	}
}

func TestReadFileAndReconcile(t *testing.T) {
	p := writeFile(t, "a.pdb", pdbDoc())
	s, err := ReadFile(p, Options{})
	if err != nil {
		t.Fatal(err)
	}
	sr := s.SeqResChain("A")
	if sr == nil {
		t.Fatal("no declared chain A")
	}
	wantNum := []int{5, 6, 0, 8} // CYS was never observed
	for i, g := range sr.Groups {
		if g.SeqNum != wantNum[i] {
			t.Errorf("declared %d numbered %d, want %d", i, g.SeqNum, wantNum[i])
		}
	}
	if len(sr.Groups[1].Atoms) != 2 || len(sr.Groups[2].Atoms) != 0 {
		t.Error("atoms did not follow the reconciliation")
	}
	if len(s.Compounds) != 1 || len(s.Compounds[0].Chains) != 1 {
		t.Error("compound not linked to its chain")
	}
}

func TestReadGzippedFile(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(pdbDoc()))
	zw.Close()
	p := writeFile(t, "a.pdb.gz", buf.String())
	s, err := ReadFile(p, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if n := s.NAtoms(); n != 6 {
		t.Fatalf("%d atoms from the compressed file, want 6", n)
	}
}

func TestFormatsAgree(t *testing.T) {
	sp, err := Read(strings.NewReader(pdbDoc()), Options{Format: OldFmt})
	if err != nil {
		t.Fatal("pdb:", err)
	}
	sc, err := Read(strings.NewReader(cifDoc), Options{Format: MmcifFmt})
	if err != nil {
		t.Fatal("mmcif:", err)
	}
	ca := sp.ChainByName("A")
	cc := sc.ChainByName("A")
	if ca == nil || cc == nil {
		t.Fatal("chain A missing from one of the formats")
	}
	if string(ca.Seq()) != string(cc.Seq()) {
		t.Errorf("sequences differ: %q vs %q", ca.Seq(), cc.Seq())
	}
	if len(ca.Groups) != len(cc.Groups) {
		t.Fatalf("group counts differ: %d vs %d", len(ca.Groups), len(cc.Groups))
	}
	for i := range ca.Groups {
		if ca.Groups[i].SeqNum != cc.Groups[i].SeqNum {
			t.Errorf("group %d numbered %d vs %d", i,
				ca.Groups[i].SeqNum, cc.Groups[i].SeqNum)
		}
	}
	srp, src := sp.SeqResChain("A"), sc.SeqResChain("A")
	if srp == nil || src == nil || len(srp.Groups) != len(src.Groups) {
		t.Fatal("declared chains differ")
	}
	for i := range srp.Groups {
		if srp.Groups[i].SeqNum != src.Groups[i].SeqNum {
			t.Errorf("declared %d numbered %d vs %d", i,
				srp.Groups[i].SeqNum, src.Groups[i].SeqNum)
		}
	}
}

func TestReadIsDeterministic(t *testing.T) {
	s1, err := Read(strings.NewReader(pdbDoc()), Options{Format: OldFmt})
	if err != nil {
		t.Fatal(err)
	}
	s2, err := Read(strings.NewReader(pdbDoc()), Options{Format: OldFmt})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s1, s2, cmpopts.IgnoreUnexported(strc.Chain{})); diff != "" {
		t.Errorf("two reads of the same bytes differ:\n%s", diff)
	}
}

func TestBrokenStreamIsFatal(t *testing.T) {
	r := brokenio.FailAfter(strings.NewReader(pdbDoc()), 40, nil)
	if _, err := Read(r, Options{Format: OldFmt}); err == nil {
		t.Fatal("a failing stream must surface as an error")
	}
}

func TestReadNeedsFormat(t *testing.T) {
	if _, err := Read(strings.NewReader(pdbDoc()), Options{}); err == nil {
		t.Fatal("reading from a stream without a format should fail")
	}
}

func TestCountAtoms(t *testing.T) {
	p := writeFile(t, "a.pdb", pdbDoc())
	n, err := CountAtoms(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Errorf("counted %d atoms, want 6", n)
	}
	p = writeFile(t, "empty.pdb", "")
	if n, err = CountAtoms(p); err != nil || n != 0 {
		t.Errorf("empty file: %d, %v", n, err)
	}
}

// A file past the threshold must be spotted by the pre-scan and read
// as alpha carbons from the start, with a note in the log.
func TestPrecountSwitchesToCA(t *testing.T) {
	p := writeFile(t, "big.pdb", pdbDoc())
	logPath := filepath.Join(t.TempDir(), "complaints")
	s, err := ReadFile(p, Options{CAThreshold: 4, LogWhere: logPath})
	if err != nil {
		t.Fatal(err)
	}
	if !s.CAOnly {
		t.Fatal("CAOnly not set for a file beyond the threshold")
	}
	logged, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal("log file missing:", err)
	}
	if !strings.Contains(string(logged), "atom records") {
		t.Errorf("no pre-scan warning in the log: %q", logged)
	}
}

func TestLogWhereStderr(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.pdb")
	if err := os.WriteFile(p, []byte(pdbDoc()), 0644); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	if _, err := ReadFile(p, Options{LogWhere: "stderr"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "stderr")); err == nil {
		t.Fatal("complaints went to a file named stderr, not the console")
	}
}

func TestLogWhereFile(t *testing.T) {
	doc := pdbDoc() + "ATOM      x bad line that cannot be parsed\n"
	logPath := filepath.Join(t.TempDir(), "complaints")
	if _, err := Read(strings.NewReader(doc), Options{Format: OldFmt, LogWhere: logPath}); err != nil {
		t.Fatal(err)
	}
	logged, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal("log file missing:", err)
	}
	if len(logged) == 0 {
		t.Error("the bad line should have been logged")
	}
}
