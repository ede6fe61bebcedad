// Package strucio reads macromolecular structure files. The pdb
// package is the entry point: it takes old fixed column PDB files and
// mmCIF files, compressed or not, builds one hierarchy of models,
// chains, residues and atoms, and reconciles the declared sequences
// with the observed ones. The packages under pdb/ do the work; this
// one only names the module.
package strucio
