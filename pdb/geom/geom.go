// Package geom has the little bits of geometry one wants once a
// structure is in memory. Distances work on the alpha carbons, which
// is what one has anyway after reading a big file in reduced form.
package geom

import (
	"errors"
	"math"

	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/strucio/pdb/strc"
)

// CACoords collects the alpha carbon coordinates of a chain, in group
// order. Groups without an alpha carbon do not appear.
func CACoords(c *strc.Chain) [][3]float64 {
	out := make([][3]float64, 0, len(c.Groups))
	for _, g := range c.Groups {
		if ca := g.CA(); ca != nil {
			out = append(out, [3]float64{ca.X, ca.Y, ca.Z})
		}
	}
	return out
}

// DistMatrix fills a matrix with the pairwise alpha carbon distances
// of one chain. The matrix is symmetric with zeros on the diagonal.
func DistMatrix(c *strc.Chain) (*matrix.FMatrix2d, error) {
	xyz := CACoords(c)
	if len(xyz) == 0 {
		return nil, errors.New("chain " + c.Name + " has no alpha carbons")
	}
	m := matrix.NewFMatrix2d(len(xyz), len(xyz))
	for i := 0; i < len(xyz); i++ {
		for j := i + 1; j < len(xyz); j++ {
			dx := xyz[i][0] - xyz[j][0]
			dy := xyz[i][1] - xyz[j][1]
			dz := xyz[i][2] - xyz[j][2]
			d := float32(math.Sqrt(dx*dx + dy*dy + dz*dz))
			m.Mat[i][j] = d
			m.Mat[j][i] = d
		}
	}
	return m, nil
}

// Rgyr is the radius of gyration over the alpha carbons of a chain,
// unweighted.
func Rgyr(c *strc.Chain) (float64, error) {
	xyz := CACoords(c)
	if len(xyz) == 0 {
		return 0, errors.New("chain " + c.Name + " has no alpha carbons")
	}
	var cx, cy, cz float64
	for _, p := range xyz {
		cx += p[0]
		cy += p[1]
		cz += p[2]
	}
	n := float64(len(xyz))
	cx, cy, cz = cx/n, cy/n, cz/n
	var sum float64
	for _, p := range xyz {
		dx, dy, dz := p[0]-cx, p[1]-cy, p[2]-cz
		sum += dx*dx + dy*dy + dz*dz
	}
	return math.Sqrt(sum / n), nil
}
