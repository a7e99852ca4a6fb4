package pgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/notargets/gomhd/hydro"
	"github.com/notargets/gomhd/mesh"
)

// BlastOptions configures a quiescent magnetized medium that is repeatedly
// stirred by overpressured spheres dropped at random positions.
type BlastOptions struct {
	Background UniformOptions `json:"background"`
	Radius     float64        `json:"radius"`
	EBlast     float64        `json:"e_blast"`
	Interval   float64        `json:"interval"`
	Seed       int64          `json:"seed"`
	XMin       [3]float64     `json:"xmin"`
	XMax       [3]float64     `json:"xmax"`
}

// RandomBlasts injects thermal energy into a sphere at a random center every
// Interval of simulation time, as a first order split source. The blast
// sequence is a pure function of the seed and the blast index, so partitions
// applying the source concurrently see identical centers and a rerun
// reproduces the same sequence.
type RandomBlasts struct {
	opts BlastOptions
}

func NewRandomBlasts(o BlastOptions) (*RandomBlasts, error) {
	if o.Radius <= 0 || o.EBlast <= 0 || o.Interval <= 0 {
		return nil, fmt.Errorf("blast needs positive radius, energy and interval")
	}
	return &RandomBlasts{opts: o}, nil
}

// Center returns the position of blast idx.
func (rb *RandomBlasts) Center(idx int) [3]float64 {
	rng := rand.New(rand.NewSource(rb.opts.Seed + int64(idx)))
	var c [3]float64
	for d := 0; d < 3; d++ {
		c[d] = rb.opts.XMin[d] + rng.Float64()*(rb.opts.XMax[d]-rb.opts.XMin[d])
	}
	return c
}

// Apply implements hydro.SourceFunc. All blasts scheduled inside the current
// step fire at once; with sane settings that is at most one.
func (rb *RandomBlasts) Apply(pkg *hydro.Package, p *mesh.Partition,
	reg mesh.RegisterID, tm hydro.SimTime, betaDt float64) error {
	n0 := int(tm.Time / rb.opts.Interval)
	n1 := int((tm.Time + tm.Dt) / rb.opts.Interval)
	for idx := n0 + 1; idx <= n1; idx++ {
		rb.inject(p, reg, rb.Center(idx))
	}
	return nil
}

func (rb *RandomBlasts) inject(p *mesh.Partition, reg mesh.RegisterID, c [3]float64) {
	vol := 4.0 / 3.0 * math.Pi * math.Pow(rb.opts.Radius, 3)
	de := rb.opts.EBlast / vol
	for _, b := range p.Blocks {
		cons := b.Register(reg).Cons
		ib, jb, kb := b.Ib, b.Jb, b.Kb
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					x1, x2, x3 := b.CellCenter(k, j, i)
					r := math.Sqrt((x1-c[0])*(x1-c[0]) +
						(x2-c[1])*(x2-c[1]) + (x3-c[2])*(x3-c[2]))
					if r < rb.opts.Radius {
						cons.Add(hydro.IEN, k, j, i, de)
					}
				}
			}
		}
	}
}

func setupRandBlast(m *mesh.Mesh, pkg *hydro.Package, par *Params) error {
	if err := setupUniform(m, pkg, &Params{Uniform: par.Blast.Background}); err != nil {
		return err
	}
	rb, err := NewRandomBlasts(par.Blast)
	if err != nil {
		return err
	}
	pkg.SplitSourcesFirstOrder = append(pkg.SplitSourcesFirstOrder, rb.Apply)
	return nil
}
