// Package mmcif reads structures in mmCIF format. The tokenizing is
// done by the cif package; this package walks the categories of the
// data block and builds the same hierarchy the old format reader
// builds, so callers never care which format a file came in.
//
// Chains are assembled under their internal asym ids and renamed to
// the public strand ids at the end, merging chains that share a
// strand id. The declared sequences from entity_poly_seq go through
// the same renaming.
package mmcif

import (
	"errors"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/cif"

	"github.com/andrew-torda/strucio/pdb/restype"
	"github.com/andrew-torda/strucio/pdb/strc"
)

// Atom ceilings, same meaning as in the old format reader.
const (
	CAThresholdDflt = 500000
	MaxAtomsDflt    = 700000
)

// Options control one parse.
type Options struct {
	CAOnly      bool // keep only alpha carbons from the start
	CAThreshold int  // 0 means CAThresholdDflt
	MaxAtoms    int  // 0 means MaxAtomsDflt
	Logger      *log.Logger
}

type parser struct {
	opts Options
	lg   *log.Logger
	b    *cif.DataBlock
	s    *strc.Structure

	asymOrder   []string
	asym2entity map[string]string
	asym2strand map[string]string
	entityComp  map[string]*strc.Compound
	polyAsym    map[string]bool

	atomCount int
	caOnly    bool
	ceilinged bool
	overflow  bool
}

// Parse reads one document. A file with several data blocks gets its
// blocks read in name order and only the first one is used.
func Parse(r io.Reader, opts Options) (*strc.Structure, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.CAThreshold == 0 {
		opts.CAThreshold = CAThresholdDflt
	}
	if opts.MaxAtoms == 0 {
		opts.MaxAtoms = MaxAtomsDflt
	}
	cf, err := cif.Read(r)
	if err != nil {
		return nil, err
	}
	if len(cf.Blocks) == 0 {
		return nil, errors.New("no data block in file")
	}
	names := make([]string, 0, len(cf.Blocks))
	for name := range cf.Blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 1 {
		opts.Logger.Printf("%d data blocks, using %q", len(names), names[0])
	}

	p := &parser{
		opts:        opts,
		lg:          opts.Logger,
		b:           cf.Blocks[names[0]],
		s:           &strc.Structure{},
		asym2entity: map[string]string{},
		asym2strand: map[string]string{},
		entityComp:  map[string]*strc.Compound{},
		polyAsym:    map[string]bool{},
		caOnly:      opts.CAOnly,
	}
	p.readHeader()
	p.readEntities()
	p.readAsyms()
	p.readSeqRes()
	if err := p.readAtomSites(); err != nil {
		return nil, err
	}
	p.applyPolyScheme()
	p.applyNonPolyScheme()
	p.readDBRefs()
	p.readSSBonds()
	p.renameChains()
	p.s.CAOnly = p.caOnly
	return p.s, nil
}

// item gives a plain data item, "" when absent or a null placeholder.
func (p *parser) item(tag string) string {
	if v, ok := p.b.Items[tag]; ok {
		s := rawStr(v)
		if s != "." && s != "?" {
			return s
		}
	}
	return ""
}

const isoDate = "2006-01-02"

func (p *parser) readHeader() {
	h := &p.s.Header
	h.IDCode = p.item("entry.id")
	h.Title = p.item("struct.title")
	h.Classification = p.item("struct_keywords.pdbx_keywords")

	cols, n := category(p.b, "exptl.method")
	for i := 0; i < n; i++ {
		h.Technique = appendField(h.Technique, cell(cols, 0, i))
	}
	if strings.Contains(h.Technique, "NMR") {
		h.NMR = true
	}
	if v, err := strconv.ParseFloat(p.item("refine.ls_d_res_high"), 64); err == nil {
		h.Resolution = v
	}

	cols, n = category(p.b, "database_pdb_rev.date", "database_pdb_rev.date_original")
	for i := 0; i < n; i++ {
		if d, err := time.Parse(isoDate, cell(cols, 0, i)); err == nil && d.After(h.ModDate) {
			h.ModDate = d
		}
		if d, err := time.Parse(isoDate, cell(cols, 1, i)); err == nil && h.DepDate.IsZero() {
			h.DepDate = d
		}
	}
	if h.DepDate.IsZero() {
		dep := p.item("pdbx_database_status.recvd_initial_deposition_date")
		if d, err := time.Parse(isoDate, dep); err == nil {
			h.DepDate = d
		}
	}
	if h.ModDate.IsZero() {
		h.ModDate = h.DepDate
	}

	cols, n = category(p.b, "audit_author.name")
	for i := 0; i < n; i++ {
		h.Authors = appendList(h.Authors, cell(cols, 0, i))
	}
}

func (p *parser) readEntities() {
	cols, n := category(p.b, "entity.id", "entity.pdbx_description", "entity.details")
	for i := 0; i < n; i++ {
		id := cell(cols, 0, i)
		if id == "" {
			continue
		}
		molID, err := strconv.Atoi(id)
		if err != nil {
			molID = i + 1
		}
		c := &strc.Compound{
			MolID:    molID,
			Molecule: cell(cols, 1, i),
			Details:  cell(cols, 2, i),
		}
		p.entityComp[id] = c
		p.s.Compounds = append(p.s.Compounds, c)
	}

	cols, n = category(p.b, "entity_src_gen.entity_id",
		"entity_src_gen.pdbx_gene_src_scientific_name",
		"entity_src_gen.gene_src_common_name",
		"entity_src_gen.pdbx_host_org_scientific_name")
	for i := 0; i < n; i++ {
		if c := p.entityComp[cell(cols, 0, i)]; c != nil {
			c.OrgScientific = cell(cols, 1, i)
			c.OrgCommon = cell(cols, 2, i)
			c.ExpressionSys = cell(cols, 3, i)
		}
	}
	cols, n = category(p.b, "entity_src_nat.entity_id",
		"entity_src_nat.pdbx_organism_scientific", "entity_src_nat.common_name")
	for i := 0; i < n; i++ {
		if c := p.entityComp[cell(cols, 0, i)]; c != nil {
			c.OrgScientific = cell(cols, 1, i)
			c.OrgCommon = cell(cols, 2, i)
		}
	}
}

func (p *parser) readAsyms() {
	cols, n := category(p.b, "struct_asym.id", "struct_asym.entity_id")
	for i := 0; i < n; i++ {
		asym := cell(cols, 0, i)
		if asym == "" {
			continue
		}
		p.asymOrder = append(p.asymOrder, asym)
		p.asym2entity[asym] = cell(cols, 1, i)
	}
}

// readSeqRes builds the declared chains. entity_poly_seq gives one
// sequence per entity; every asym of that entity gets its own copy.
func (p *parser) readSeqRes() {
	cols, n := category(p.b, "entity_poly_seq.entity_id",
		"entity_poly_seq.num", "entity_poly_seq.mon_id")
	tmpl := map[string][]*strc.Group{}
	for i := 0; i < n; i++ {
		eid := cell(cols, 0, i)
		code3 := cell(cols, 2, i)
		if eid == "" || code3 == "" {
			continue
		}
		kind, code1 := restype.DeclaredKind(code3)
		tmpl[eid] = append(tmpl[eid], &strc.Group{
			Code3: code3, Kind: kind, Code1: code1,
			SeqID: intCell(cols, 1, i, 0),
		})
	}
	for _, asym := range p.asymOrder {
		groups := tmpl[p.asym2entity[asym]]
		if groups == nil {
			continue
		}
		p.polyAsym[asym] = true
		ch := &strc.Chain{AsymID: asym, Name: asym}
		for _, g := range groups {
			cp := *g
			ch.AddGroup(&cp)
		}
		p.s.SeqRes = append(p.s.SeqRes, ch)
	}
}

// readAtomSites walks the atom_site rows. A change of model number
// closes the model, a change of asym id closes the chain and a change
// of residue identity closes the group. The ceilings work exactly as
// in the old format reader.
func (p *parser) readAtomSites() error {
	cols, n := category(p.b,
		"atom_site.group_pdb",          // 0
		"atom_site.id",                 // 1
		"atom_site.label_atom_id",      // 2
		"atom_site.label_alt_id",       // 3
		"atom_site.label_comp_id",      // 4
		"atom_site.label_asym_id",      // 5
		"atom_site.label_seq_id",       // 6
		"atom_site.auth_seq_id",        // 7
		"atom_site.pdbx_pdb_ins_code",  // 8
		"atom_site.cartn_x",            // 9
		"atom_site.cartn_y",            // 10
		"atom_site.cartn_z",            // 11
		"atom_site.occupancy",          // 12
		"atom_site.b_iso_or_equiv",     // 13
		"atom_site.type_symbol",        // 14
		"atom_site.pdbx_pdb_model_num", // 15
	)
	if n == 0 {
		return errors.New("no atom_site records")
	}

	model := &strc.Model{}
	var chain *strc.Chain
	var group *strc.Group
	curModelNum := intCell(cols, 15, 0, 1)

	for i := 0; i < n; i++ {
		// read the whole row before touching any state, a bad row
		// must cost only itself
		x, okx := floatCellOK(cols, 9, i)
		y, oky := floatCellOK(cols, 10, i)
		z, okz := floatCellOK(cols, 11, i)
		if !okx || !oky || !okz {
			p.lg.Printf("atom site row %d has unreadable coordinates, skipping", i+1)
			continue
		}
		asym := cell(cols, 5, i)
		code3 := cell(cols, 4, i)
		seqNum := intCell(cols, 7, i, 0)
		icode := byteCell(cols, 8, i)
		seqID := intCell(cols, 6, i, 0)
		name := cell(cols, 2, i)

		if mnum := intCell(cols, 15, i, 1); mnum != curModelNum {
			if chain != nil {
				flushGroup(chain, group)
			}
			chain, group = nil, nil
			p.s.Models = append(p.s.Models, model)
			model = &strc.Model{}
			curModelNum = mnum
		}
		if chain == nil || asym != chain.AsymID {
			if chain != nil {
				flushGroup(chain, group)
			}
			group = nil
			if known := model.Chain(asym); known != nil {
				chain = known
			} else {
				chain = &strc.Chain{AsymID: asym, Name: asym}
				model.AddChain(chain)
			}
		}
		if group == nil || group.SeqNum != seqNum || group.ICode != icode ||
			group.SeqID != seqID || group.Code3 != code3 {
			flushGroup(chain, group)
			kind, code1 := restype.KindOf(cell(cols, 0, i) == "HETATM", code3)
			group = &strc.Group{
				SeqNum: seqNum, ICode: icode, Code3: code3,
				Kind: kind, Code1: code1, SeqID: seqID,
			}
		}

		p.atomCount++
		if !p.ceilinged && p.atomCount >= p.opts.CAThreshold {
			p.ceilinged = true
			p.lg.Printf("more than %d atoms, dropping declared sequences and switching to alpha carbons only",
				p.opts.CAThreshold)
			p.s.SeqRes = nil
			p.switchCAOnly(model, group)
		}
		if p.atomCount > p.opts.MaxAtoms {
			if !p.overflow {
				p.lg.Printf("more than %d atoms, dropping the rest", p.opts.MaxAtoms)
				p.overflow = true
			}
			continue
		}
		if p.caOnly && name != "CA" {
			p.atomCount--
			continue
		}

		atom := strc.Atom{
			Serial:     intCell(cols, 1, i, 0),
			Name:       name,
			AltLoc:     byteCell(cols, 3, i),
			Occupancy:  floatCell(cols, 12, i, 1),
			TempFactor: floatCell(cols, 13, i, 0),
		}
		atom.X, atom.Y, atom.Z = x, y, z
		if sym := cell(cols, 14, i); restype.ValidElement(sym) {
			atom.Element = strings.ToUpper(sym)
		} else {
			atom.Element = restype.ElementOf(name)
		}
		group.AddAtom(atom)
	}
	if chain != nil {
		flushGroup(chain, group)
	}
	p.s.Models = append(p.s.Models, model)
	return nil
}

// flushGroup closes a group into its chain. A group that never got an
// atom is dropped, a flushed group must have atoms.
func flushGroup(c *strc.Chain, g *strc.Group) {
	if g != nil && len(g.Atoms) > 0 {
		c.AddGroup(g)
	}
}

func floatCellOK(cols [][]string, i, row int) (float64, bool) {
	s := cell(cols, i, row)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func (p *parser) switchCAOnly(open *strc.Model, openGroup *strc.Group) {
	p.caOnly = true
	for _, m := range p.s.Models {
		stripModel(m)
	}
	stripModel(open)
	if openGroup != nil {
		stripGroup(openGroup)
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

// applyPolyScheme rewrites the public numbering of the polymer groups
// from pdbx_poly_seq_scheme and collects the asym to strand table.
// Unobserved residues appear in the scheme too, so a missing group is
// normal. A residue name that does not match is worth a complaint.
func (p *parser) applyPolyScheme() {
	cols, n := category(p.b,
		"pdbx_poly_seq_scheme.asym_id",       // 0
		"pdbx_poly_seq_scheme.seq_id",        // 1
		"pdbx_poly_seq_scheme.mon_id",        // 2
		"pdbx_poly_seq_scheme.pdb_seq_num",   // 3
		"pdbx_poly_seq_scheme.pdb_ins_code",  // 4
		"pdbx_poly_seq_scheme.pdb_strand_id", // 5
	)
	idx := map[*strc.Chain]map[int]*strc.Group{}
	bySeqID := func(ch *strc.Chain, id int) *strc.Group {
		m := idx[ch]
		if m == nil {
			m = make(map[int]*strc.Group, len(ch.Groups))
			for _, g := range ch.Groups {
				if g.SeqID != 0 {
					if _, dup := m[g.SeqID]; !dup {
						m[g.SeqID] = g
					}
				}
			}
			idx[ch] = m
		}
		return m[id]
	}
	for i := 0; i < n; i++ {
		asym := cell(cols, 0, i)
		if asym == "" {
			continue
		}
		if strand := cell(cols, 5, i); strand != "" {
			if _, taken := p.asym2strand[asym]; !taken {
				p.asym2strand[asym] = strand
			}
		}
		seqID := intCell(cols, 1, i, 0)
		if seqID == 0 {
			continue
		}
		num := intCell(cols, 3, i, 0)
		icode := byteCell(cols, 4, i)
		mon := cell(cols, 2, i)
		for _, m := range p.s.Models {
			ch := m.Chain(asym)
			if ch == nil {
				continue
			}
			g := bySeqID(ch, seqID)
			if g == nil {
				continue
			}
			if mon != "" && g.Code3 != mon {
				p.lg.Printf("scheme says %s at position %d of %s, file has %s, leaving numbering alone",
					mon, seqID, asym, g.Code3)
				continue
			}
			g.SeqNum = num
			g.ICode = icode
		}
	}
}

// applyNonPolyScheme only feeds the strand table. Heterogens and
// waters already carry usable author numbering from atom_site.
func (p *parser) applyNonPolyScheme() {
	cols, n := category(p.b,
		"pdbx_nonpoly_scheme.asym_id", "pdbx_nonpoly_scheme.pdb_strand_id")
	for i := 0; i < n; i++ {
		asym := cell(cols, 0, i)
		strand := cell(cols, 1, i)
		if asym == "" || strand == "" {
			continue
		}
		if _, taken := p.asym2strand[asym]; !taken {
			p.asym2strand[asym] = strand
		}
	}
}

func (p *parser) readDBRefs() {
	refCols, nref := category(p.b, "struct_ref.id", "struct_ref.db_name",
		"struct_ref.db_code", "struct_ref.pdbx_db_accession")
	type refInfo struct{ db, code, acc string }
	refs := map[string]refInfo{}
	for i := 0; i < nref; i++ {
		refs[cell(refCols, 0, i)] = refInfo{
			db:   cell(refCols, 1, i),
			code: cell(refCols, 2, i),
			acc:  cell(refCols, 3, i),
		}
	}
	cols, n := category(p.b,
		"struct_ref_seq.ref_id",                  // 0
		"struct_ref_seq.pdbx_strand_id",          // 1
		"struct_ref_seq.pdbx_auth_seq_align_beg", // 2
		"struct_ref_seq.pdbx_auth_seq_align_end", // 3
		"struct_ref_seq.db_align_beg",            // 4
		"struct_ref_seq.db_align_end",            // 5
	)
	for i := 0; i < n; i++ {
		info := refs[cell(cols, 0, i)]
		p.s.DBRefs = append(p.s.DBRefs, strc.DBRef{
			IDCode:      p.s.Header.IDCode,
			ChainName:   cell(cols, 1, i),
			SeqBegin:    intCell(cols, 2, i, 0),
			SeqEnd:      intCell(cols, 3, i, 0),
			Database:    info.db,
			DbAccession: info.acc,
			DbIDCode:    info.code,
			DbSeqBegin:  intCell(cols, 4, i, 0),
			DbSeqEnd:    intCell(cols, 5, i, 0),
		})
	}
}

func (p *parser) readSSBonds() {
	cols, n := category(p.b,
		"struct_conn.conn_type_id",            // 0
		"struct_conn.ptnr1_auth_asym_id",      // 1
		"struct_conn.ptnr1_auth_seq_id",       // 2
		"struct_conn.pdbx_ptnr1_pdb_ins_code", // 3
		"struct_conn.ptnr2_auth_asym_id",      // 4
		"struct_conn.ptnr2_auth_seq_id",       // 5
		"struct_conn.pdbx_ptnr2_pdb_ins_code", // 6
	)
	for i := 0; i < n; i++ {
		if !strings.EqualFold(cell(cols, 0, i), "disulf") {
			continue
		}
		p.s.SSBonds = append(p.s.SSBonds, strc.SSBond{
			Chain1:  cell(cols, 1, i),
			SeqNum1: intCell(cols, 2, i, 0),
			ICode1:  byteCell(cols, 3, i),
			Chain2:  cell(cols, 4, i),
			SeqNum2: intCell(cols, 5, i, 0),
			ICode2:  byteCell(cols, 6, i),
		})
	}
}

// renameChains moves every chain from its asym id to its public
// strand id. An asym the schemes never mentioned keeps its asym id.
// Two asyms with the same strand id become one chain, groups
// concatenated in file order. The declared chains get the same
// treatment, except a strand collision there keeps only the first
// chain, they carry the same entity sequence anyway.
func (p *parser) renameChains() {
	strandOf := func(asym string) string {
		if s := p.asym2strand[asym]; s != "" {
			return s
		}
		return asym
	}
	for _, m := range p.s.Models {
		var out []*strc.Chain
		byName := map[string]*strc.Chain{}
		for _, c := range m.Chains {
			name := strandOf(c.AsymID)
			if prev := byName[name]; prev != nil {
				for _, g := range c.Groups {
					prev.AddGroup(g)
				}
				continue
			}
			c.Name = name
			byName[name] = c
			out = append(out, c)
		}
		m.Chains = out
	}

	var sr []*strc.Chain
	seen := map[string]bool{}
	for _, c := range p.s.SeqRes {
		name := strandOf(c.AsymID)
		if seen[name] {
			continue
		}
		c.Name = name
		seen[name] = true
		sr = append(sr, c)
	}
	p.s.SeqRes = sr

	for _, asym := range p.asymOrder {
		c := p.entityComp[p.asym2entity[asym]]
		if c == nil {
			continue
		}
		name := strandOf(asym)
		if !containsStr(c.ChainIDs, name) {
			c.ChainIDs = append(c.ChainIDs, name)
		}
	}
}

func containsStr(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func appendField(old, more string) string {
	if more == "" {
		return old
	}
	if old == "" {
		return more
	}
	return old + " " + more
}

func appendList(old, more string) string {
	if more == "" {
		return old
	}
	if old == "" {
		return more
	}
	return old + "," + more
}
