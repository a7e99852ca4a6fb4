package pgen

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gomhd/hydro"
	"github.com/notargets/gomhd/mesh"
)

/*
	Idealized galaxy cluster: a static NFW plus central point mass
	gravitational acceleration applied as an unsplit source, fixed power
	thermal feedback deposited in a central sphere, and optically thin
	radiative cooling from a tabulated cooling function, subcycled so a
	single hydro step can cover many cooling times.
*/

type GravityOptions struct {
	MNFW          float64 `json:"m_nfw"`
	CNFW          float64 `json:"c_nfw"`
	RVir          float64 `json:"r_vir"`
	MSMBH         float64 `json:"m_smbh"`
	GravConst     float64 `json:"grav_const"`
	SmoothingCore float64 `json:"smoothing_core"`
}

type FeedbackOptions struct {
	Power  float64 `json:"power"`
	Radius float64 `json:"radius"`
}

type CoolingOptions struct {
	LogT       []float64 `json:"log_t"`
	LogLambda  []float64 `json:"log_lambda"`
	TFloor     float64   `json:"t_floor"`
	CFLCool    float64   `json:"cfl_cool"`
	MaxSubcyc  int       `json:"max_subcycles"`
	LambdaFac  float64   `json:"lambda_fac"`
	UseDtLimit bool      `json:"use_dt_limit"`
}

type ClusterOptions struct {
	Atmosphere UniformOptions  `json:"atmosphere"`
	Gravity    GravityOptions  `json:"gravity"`
	Feedback   FeedbackOptions `json:"feedback"`
	Cooling    CoolingOptions  `json:"cooling"`
}

// ClusterGravity evaluates the radial acceleration of an NFW halo plus a
// central point mass, softened inside SmoothingCore.
type ClusterGravity struct {
	opts GravityOptions
	rs   float64 // NFW scale radius
	norm float64 // NFW mass normalization
}

func NewClusterGravity(o GravityOptions) (*ClusterGravity, error) {
	if o.RVir <= 0 || o.CNFW <= 0 || o.GravConst <= 0 {
		return nil, fmt.Errorf("cluster gravity needs positive r_vir, c_nfw and grav_const")
	}
	c := o.CNFW
	return &ClusterGravity{
		opts: o,
		rs:   o.RVir / c,
		norm: o.MNFW / (math.Log(1+c) - c/(1+c)),
	}, nil
}

// Accel returns the inward radial acceleration magnitude at radius r.
func (g *ClusterGravity) Accel(r float64) float64 {
	if r < g.opts.SmoothingCore {
		r = g.opts.SmoothingCore
	}
	x := r / g.rs
	mEnc := g.norm*(math.Log(1+x)-x/(1+x)) + g.opts.MSMBH
	return g.opts.GravConst * mEnc / (r * r)
}

// Apply implements hydro.SourceFunc as an unsplit momentum and energy
// source.
func (g *ClusterGravity) Apply(pkg *hydro.Package, p *mesh.Partition,
	reg mesh.RegisterID, tm hydro.SimTime, betaDt float64) error {
	for _, b := range p.Blocks {
		st := b.Register(reg)
		cons := st.Cons
		ib, jb, kb := b.Ib, b.Jb, b.Kb
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					x1, x2, x3 := b.CellCenter(k, j, i)
					r := math.Sqrt(x1*x1 + x2*x2 + x3*x3)
					if r == 0 {
						continue
					}
					acc := g.Accel(r)
					rho := cons.At(hydro.IDN, k, j, i)
					ax := -acc * x1 / r
					ay := -acc * x2 / r
					az := -acc * x3 / r
					m1 := cons.At(hydro.IM1, k, j, i)
					m2 := cons.At(hydro.IM2, k, j, i)
					m3 := cons.At(hydro.IM3, k, j, i)
					cons.Add(hydro.IM1, k, j, i, betaDt*rho*ax)
					cons.Add(hydro.IM2, k, j, i, betaDt*rho*ay)
					cons.Add(hydro.IM3, k, j, i, betaDt*rho*az)
					cons.Add(hydro.IEN, k, j, i, betaDt*(m1*ax+m2*ay+m3*az))
				}
			}
		}
	}
	return nil
}

// AGNFeedback deposits a constant power as thermal energy inside a central
// sphere, Strang split so it stays second order with the hydro update.
type AGNFeedback struct {
	opts FeedbackOptions
	dE   float64 // energy density rate inside the sphere
}

func NewAGNFeedback(o FeedbackOptions) (*AGNFeedback, error) {
	if o.Radius <= 0 {
		return nil, fmt.Errorf("feedback radius must be positive, got %g", o.Radius)
	}
	vol := 4.0 / 3.0 * math.Pi * math.Pow(o.Radius, 3)
	return &AGNFeedback{opts: o, dE: o.Power / vol}, nil
}

func (f *AGNFeedback) Apply(pkg *hydro.Package, p *mesh.Partition,
	reg mesh.RegisterID, tm hydro.SimTime, betaDt float64) error {
	for _, b := range p.Blocks {
		cons := b.Register(reg).Cons
		ib, jb, kb := b.Ib, b.Jb, b.Kb
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					x1, x2, x3 := b.CellCenter(k, j, i)
					if x1*x1+x2*x2+x3*x3 < f.opts.Radius*f.opts.Radius {
						cons.Add(hydro.IEN, k, j, i, betaDt*f.dE)
					}
				}
			}
		}
	}
	return nil
}

// TabularCooling interpolates a tabulated cooling function Lambda(T) on a
// uniform log temperature grid. The input table may be unevenly spaced; it
// is resampled at construction so lookups are O(1).
type TabularCooling struct {
	opts   CoolingOptions
	logT0  float64
	dLogT  float64
	logLam []float64
}

func NewTabularCooling(o CoolingOptions) (*TabularCooling, error) {
	if len(o.LogT) != len(o.LogLambda) {
		return nil, fmt.Errorf("cooling table length mismatch: %d temperatures, %d rates",
			len(o.LogT), len(o.LogLambda))
	}
	if len(o.LogT) < 2 {
		return nil, fmt.Errorf("cooling table needs at least two points")
	}
	if !sort.Float64sAreSorted(o.LogT) {
		return nil, fmt.Errorf("cooling table temperatures must be increasing")
	}
	if o.CFLCool <= 0 {
		o.CFLCool = 0.1
	}
	if o.MaxSubcyc <= 0 {
		o.MaxSubcyc = 100
	}
	if o.LambdaFac == 0 {
		o.LambdaFac = 1
	}

	n := 4 * len(o.LogT)
	grid := make([]float64, n)
	floats.Span(grid, o.LogT[0], o.LogT[len(o.LogT)-1])
	lam := make([]float64, n)
	for i, lt := range grid {
		lam[i] = interpTable(o.LogT, o.LogLambda, lt)
	}
	return &TabularCooling{
		opts:   o,
		logT0:  grid[0],
		dLogT:  grid[1] - grid[0],
		logLam: lam,
	}, nil
}

func interpTable(xs, ys []float64, x float64) float64 {
	n := len(xs)
	idx := sort.SearchFloat64s(xs, x)
	if idx <= 0 {
		return ys[0]
	}
	if idx >= n {
		return ys[n-1]
	}
	f := (x - xs[idx-1]) / (xs[idx] - xs[idx-1])
	return ys[idx-1] + f*(ys[idx]-ys[idx-1])
}

// Lambda returns the cooling rate at temperature temp, clamped to the table
// range.
func (tc *TabularCooling) Lambda(temp float64) float64 {
	if temp <= 0 {
		return 0
	}
	lt := math.Log10(temp)
	pos := (lt - tc.logT0) / tc.dLogT
	idx := int(pos)
	if idx < 0 {
		idx, pos = 0, 0
	}
	if idx >= len(tc.logLam)-1 {
		idx, pos = len(tc.logLam)-2, float64(len(tc.logLam)-1)
	}
	f := pos - float64(idx)
	return tc.opts.LambdaFac *
		math.Pow(10, tc.logLam[idx]+f*(tc.logLam[idx+1]-tc.logLam[idx]))
}

// Apply implements hydro.SourceFunc as a first order split source. Each cell
// is subcycled on its own cooling time; the temperature never drops below
// the floor.
func (tc *TabularCooling) Apply(pkg *hydro.Package, p *mesh.Partition,
	reg mesh.RegisterID, tm hydro.SimTime, betaDt float64) error {
	gm1 := pkg.EOS.Gamma() - 1
	for _, b := range p.Blocks {
		st := b.Register(reg)
		cons := st.Cons
		ib, jb, kb := b.Ib, b.Jb, b.Kb
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					rho := cons.At(hydro.IDN, k, j, i)
					eint := internalEnergy(pkg, cons, k, j, i)
					eFloor := rho * tc.opts.TFloor / gm1
					remaining := betaDt
					for n := 0; n < tc.opts.MaxSubcyc && remaining > 0; n++ {
						temp := gm1 * eint / rho
						cool := rho * rho * tc.Lambda(temp)
						if cool <= 0 || eint <= eFloor {
							break
						}
						dtCool := tc.opts.CFLCool * eint / cool
						if dtCool > remaining {
							dtCool = remaining
						}
						eint -= cool * dtCool
						if eint < eFloor {
							eint = eFloor
						}
						remaining -= dtCool
					}
					setInternalEnergy(pkg, cons, k, j, i, eint)
				}
			}
		}
	}
	return nil
}

// TimeStep implements hydro.TimestepHook so the hydro step cannot overrun
// the shortest cooling time by more than the subcycle budget allows.
func (tc *TabularCooling) TimeStep(pkg *hydro.Package, p *mesh.Partition) (float64, error) {
	if !tc.opts.UseDtLimit {
		return math.MaxFloat64, nil
	}
	gm1 := pkg.EOS.Gamma() - 1
	dtMin := math.MaxFloat64
	for _, b := range p.Blocks {
		cons := b.Cons
		ib, jb, kb := b.Ib, b.Jb, b.Kb
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					rho := cons.At(hydro.IDN, k, j, i)
					eint := internalEnergy(pkg, cons, k, j, i)
					temp := gm1 * eint / rho
					if temp <= tc.opts.TFloor {
						continue
					}
					cool := rho * rho * tc.Lambda(temp)
					if cool <= 0 {
						continue
					}
					if dt := tc.opts.CFLCool * eint / cool; dt < dtMin {
						dtMin = dt
					}
				}
			}
		}
	}
	return dtMin, nil
}

func internalEnergy(pkg *hydro.Package, cons *mesh.Field, k, j, i int) float64 {
	rho := cons.At(hydro.IDN, k, j, i)
	m1 := cons.At(hydro.IM1, k, j, i)
	m2 := cons.At(hydro.IM2, k, j, i)
	m3 := cons.At(hydro.IM3, k, j, i)
	e := cons.At(hydro.IEN, k, j, i) - 0.5*(m1*m1+m2*m2+m3*m3)/rho
	if pkg.Fluid == hydro.FluidGLMMHD {
		b1 := cons.At(hydro.IB1, k, j, i)
		b2 := cons.At(hydro.IB2, k, j, i)
		b3 := cons.At(hydro.IB3, k, j, i)
		e -= 0.5 * (b1*b1 + b2*b2 + b3*b3)
	}
	return e
}

func setInternalEnergy(pkg *hydro.Package, cons *mesh.Field, k, j, i int, eint float64) {
	rho := cons.At(hydro.IDN, k, j, i)
	m1 := cons.At(hydro.IM1, k, j, i)
	m2 := cons.At(hydro.IM2, k, j, i)
	m3 := cons.At(hydro.IM3, k, j, i)
	e := eint + 0.5*(m1*m1+m2*m2+m3*m3)/rho
	if pkg.Fluid == hydro.FluidGLMMHD {
		b1 := cons.At(hydro.IB1, k, j, i)
		b2 := cons.At(hydro.IB2, k, j, i)
		b3 := cons.At(hydro.IB3, k, j, i)
		e += 0.5 * (b1*b1 + b2*b2 + b3*b3)
	}
	cons.Set(hydro.IEN, k, j, i, e)
}

func setupCluster(m *mesh.Mesh, pkg *hydro.Package, par *Params) error {
	o := par.Cluster
	if err := setupUniform(m, pkg, &Params{Uniform: o.Atmosphere}); err != nil {
		return err
	}
	grav, err := NewClusterGravity(o.Gravity)
	if err != nil {
		return err
	}
	pkg.UnsplitSources = append(pkg.UnsplitSources, grav.Apply)

	if o.Feedback.Power > 0 {
		fb, err := NewAGNFeedback(o.Feedback)
		if err != nil {
			return err
		}
		pkg.SplitSourcesStrang = append(pkg.SplitSourcesStrang, fb.Apply)
	}
	if len(o.Cooling.LogT) > 0 {
		cool, err := NewTabularCooling(o.Cooling)
		if err != nil {
			return err
		}
		pkg.SplitSourcesFirstOrder = append(pkg.SplitSourcesFirstOrder, cool.Apply)
		pkg.EstimateTimestepHook = cool.TimeStep
	}
	return nil
}
