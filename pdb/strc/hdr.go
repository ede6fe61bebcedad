// Side information from the header records of a structure file.

package strc

import "time"

// Header collects the per-entry metadata. Resolution is zero when the
// file did not say (NMR entries usually do not).
type Header struct {
	IDCode         string
	Classification string
	DepDate        time.Time
	ModDate        time.Time
	Title          string
	Authors        string
	Technique      string
	Journal        string
	Resolution     float64
	NMR            bool
}

// Compound describes one biological entity. ChainIDs names the chains
// it covers; Chains is filled in by the cross reference step.
type Compound struct {
	MolID          int
	Molecule       string
	ChainIDs       []string
	Chains         []*Chain
	Synonyms       []string
	ECNums         []string
	Fragment       string
	Engineered     string
	Mutation       string
	Details        string
	OrgScientific  string
	OrgCommon      string
	ExpressionSys  string
}

// DBRef links a chain segment to an entry in an external sequence
// database.
type DBRef struct {
	IDCode      string
	ChainName   string
	SeqBegin    int
	InsBegin    byte
	SeqEnd      int
	InsEnd      byte
	Database    string
	DbAccession string
	DbIDCode    string
	DbSeqBegin  int
	DbInsBegin  byte
	DbSeqEnd    int
	DbInsEnd    byte
}

// SSBond is a disulphide bridge between two residues.
type SSBond struct {
	Chain1  string
	SeqNum1 int
	ICode1  byte
	Chain2  string
	SeqNum2 int
	ICode2  byte
}

// Connection records the bonded partners of one atom (CONECT).
type Connection struct {
	Serial int
	Bonded []int
}
