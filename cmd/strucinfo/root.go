package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andrew-torda/strucio/pdb"
	"github.com/andrew-torda/strucio/pdb/geom"
	"github.com/andrew-torda/strucio/pdb/strc"
)

var rootCmd = &cobra.Command{
	Use:   "strucinfo",
	Short: "Read a structure file in pdb or mmcif format and say what is in it",
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// initConfig pulls settings from .strucinfo.yaml in the working
// directory or the home directory. No config file is fine, flags and
// the environment still work.
func initConfig() {
	viper.SetConfigName(".strucinfo")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	_ = viper.ReadInConfig()
}

func init() {
	cobra.OnInitialize(initConfig)
	pf := rootCmd.PersistentFlags()
	pf.String("format", "", "force the input format, pdb or mmcif")
	pf.Bool("ca-only", false, "keep only alpha carbons")
	pf.String("log", "", "where complaints about dirty files go, empty means nowhere")
	pf.Int("max-atoms", 0, "atom count where we stop keeping atoms")
	pf.Int("ca-threshold", 0, "atom count where we fall back to alpha carbons")
	viper.BindPFlag("format", pf.Lookup("format"))
	viper.BindPFlag("ca-only", pf.Lookup("ca-only"))
	viper.BindPFlag("log", pf.Lookup("log"))
	viper.BindPFlag("max-atoms", pf.Lookup("max-atoms"))
	viper.BindPFlag("ca-threshold", pf.Lookup("ca-threshold"))
	viper.SetEnvPrefix("strucinfo")
	viper.AutomaticEnv()

	rootCmd.AddCommand(infoCmd, chainsCmd, seqCmd, geomCmd)
}

func readOne(fname string) (*strc.Structure, error) {
	opts := pdb.Options{
		CAOnly:      viper.GetBool("ca-only"),
		CAThreshold: viper.GetInt("ca-threshold"),
		MaxAtoms:    viper.GetInt("max-atoms"),
		LogWhere:    viper.GetString("log"),
	}
	switch strings.ToLower(viper.GetString("format")) {
	case "pdb", "ent":
		opts.Format = pdb.OldFmt
	case "mmcif", "cif":
		opts.Format = pdb.MmcifFmt
	case "":
	default:
		return nil, fmt.Errorf("unknown format %q", viper.GetString("format"))
	}
	return pdb.ReadFile(fname, opts)
}

var infoCmd = &cobra.Command{
	Use:   "info file...",
	Short: "Print the header and the shape of each structure",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, fname := range args {
			s, err := readOne(fname)
			if err != nil {
				return err
			}
			h := s.Header
			fmt.Printf("%s: %s\n", fname, s)
			if h.Title != "" {
				fmt.Printf("  title: %s\n", h.Title)
			}
			if h.Technique != "" {
				fmt.Printf("  technique: %s\n", h.Technique)
			}
			if h.Resolution != 0 {
				fmt.Printf("  resolution: %.2f\n", h.Resolution)
			}
			if !h.DepDate.IsZero() {
				fmt.Printf("  deposited: %s\n", h.DepDate.Format("2006-01-02"))
			}
			fmt.Printf("  %d atoms, %d groups\n", s.NAtoms(), s.NGroups())
			for _, c := range s.Compounds {
				fmt.Printf("  compound %d: %s, chains %v\n",
					c.MolID, c.Molecule, c.ChainIDs)
			}
		}
		return nil
	},
}

var chainsCmd = &cobra.Command{
	Use:   "chains file...",
	Short: "List the chains with their residue and atom counts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, fname := range args {
			s, err := readOne(fname)
			if err != nil {
				return err
			}
			if s.NModels() == 0 {
				continue
			}
			for _, c := range s.Models[0].Chains {
				fmt.Printf("%s %q %4d groups (%d amino, %d nucleotide, %d hetero) %5d atoms\n",
					fname, c.Name, len(c.Groups),
					c.NKind(strc.AminoAcid), c.NKind(strc.Nucleotide),
					c.NKind(strc.Heterogen), c.NAtoms())
			}
		}
		return nil
	},
}

var seqCmd = &cobra.Command{
	Use:   "seq file...",
	Short: "Print the reconciled sequence of each declared chain",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, fname := range args {
			s, err := readOne(fname)
			if err != nil {
				return err
			}
			chains := s.SeqRes
			if len(chains) == 0 && s.NModels() > 0 {
				// no declared sequences, fall back to what was observed
				chains = s.Models[0].Chains
			}
			for _, c := range chains {
				rs := c.Seq()
				b := make([]byte, len(rs))
				for i, r := range rs {
					if r == 0 {
						b[i] = 'X'
					} else {
						b[i] = byte(r)
					}
				}
				fmt.Printf(">%s_%s\n%s\n", s.Header.IDCode, c.Name, b)
			}
		}
		return nil
	},
}

var geomCmd = &cobra.Command{
	Use:   "geom file chain",
	Short: "Print the alpha carbon distance matrix of one chain",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := readOne(args[0])
		if err != nil {
			return err
		}
		c := s.ChainByName(args[1])
		if c == nil {
			return fmt.Errorf("%s: no chain %q", args[0], args[1])
		}
		rg, err := geom.Rgyr(c)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "chain %s radius of gyration %.2f\n", c.Name, rg)
		m, err := geom.DistMatrix(c)
		if err != nil {
			return err
		}
		for _, row := range m.Mat {
			for j, v := range row {
				if j > 0 {
					fmt.Print(" ")
				}
				fmt.Printf("%.2f", v)
			}
			fmt.Println()
		}
		return nil
	},
}
