package hydro

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/notargets/gomhd/mesh"
	"github.com/notargets/gomhd/taskgraph"
)

/*
	Driver owns the integration loop. Each cycle is rendered into task
	collections: one per hyperbolic stage plus, when super-time-stepping is
	active, one per half step of the diffusion operator before and after the
	hyperbolic update.

	The partition-parallel regions follow a fixed per-stage recipe: assemble
	fluxes, exchange flux corrections, apply the flux divergence update and
	sources, exchange ghost zones dimension by dimension, apply physical
	boundaries and recover primitives.
*/

// stageCoeffs describes one stage of the low-storage two-stage integrator:
// target = gam0*base + gam1*target + beta*dt*(-divF), with fluxes built
// from the `from` register.
type stageCoeffs struct {
	target mesh.RegisterID
	base   mesh.RegisterID
	from   mesh.RegisterID
	gam0   float64
	gam1   float64
	beta   float64
}

// vl2Stages is the van Leer predictor-corrector: a donor cell half step into
// the scratch register, then a full piecewise linear step from it.
var vl2Stages = []stageCoeffs{
	{target: mesh.RegU1, base: mesh.RegU0, from: mesh.RegU0, gam0: 1, gam1: 0, beta: 0.5},
	{target: mesh.RegU0, base: mesh.RegU0, from: mesh.RegU1, gam0: 0, gam1: 1, beta: 1},
}

type Driver struct {
	M   *mesh.Mesh
	Pkg *Package
	Tm  SimTime

	Tlim float64
	Nlim int // cycle limit, negative for unlimited

	Log   zerolog.Logger
	RunID uuid.UUID

	stages []stageCoeffs
}

func NewDriver(m *mesh.Mesh, pkg *Package, tlim float64, nlim int,
	log zerolog.Logger) *Driver {
	return &Driver{
		M:      m,
		Pkg:    pkg,
		Tlim:   tlim,
		Nlim:   nlim,
		Log:    log,
		RunID:  uuid.New(),
		stages: vl2Stages,
	}
}

// Initialize brings a freshly filled mesh into a consistent state: ghost
// exchange, physical boundaries, primitive recovery and the first timestep
// estimate. Problem generators must have filled the conserved fields first.
func (d *Driver) Initialize() error {
	d.Pkg.State.ResetDt()
	tc := &taskgraph.Collection{}
	np := d.M.NumPartitions()
	r := tc.AddRegion(np)
	for ip := 0; ip < np; ip++ {
		p := d.M.Partition(ip)
		tl := r.Lists[ip]
		last := d.addExchange(tl, p, mesh.RegU0, taskgraph.None)
		last = d.addBoundaryAndPrim(tl, p, mesh.RegU0, last)
		tl.AddTask(last, func() (taskgraph.Status, error) {
			if err := EstimateTimestep(d.Pkg, p); err != nil {
				return taskgraph.Fail, err
			}
			return taskgraph.Complete, nil
		})
	}
	return tc.Execute()
}

// Execute runs cycles until the time or cycle limit is reached.
func (d *Driver) Execute() error {
	start := time.Now()
	d.Log.Info().
		Str("run", d.RunID.String()).
		Float64("tlim", d.Tlim).
		Int("nblocks", len(d.M.Blocks)).
		Int("npartitions", d.M.NumPartitions()).
		Msg("starting integration")

	for d.Tm.Time < d.Tlim && (d.Nlim < 0 || d.Tm.NCycle < d.Nlim) {
		FinalizeTimestep(d.Pkg)
		dt := d.Pkg.State.DtMin
		if d.Tm.Time+dt > d.Tlim {
			dt = d.Tlim - d.Tm.Time
		}
		d.Tm.Dt = dt

		sts := d.Pkg.DiffInt == DiffIntRKL2 && d.Pkg.HasDiffusion()
		if sts {
			if err := d.superTimeStep(0.5 * dt); err != nil {
				return err
			}
		}
		for stage := 1; stage <= len(d.stages); stage++ {
			tc := d.MakeTaskCollection(stage)
			if stage == len(d.stages) {
				d.Pkg.State.ResetDt()
			}
			if err := tc.Execute(); err != nil {
				return err
			}
		}
		if sts {
			if err := d.superTimeStep(0.5 * dt); err != nil {
				return err
			}
		}

		d.Tm.Time += dt
		d.Tm.NCycle++
		d.Log.Debug().
			Int("cycle", d.Tm.NCycle).
			Float64("time", d.Tm.Time).
			Float64("dt", dt).
			Msg("cycle complete")
	}

	d.Log.Info().
		Int("cycles", d.Tm.NCycle).
		Float64("time", d.Tm.Time).
		Dur("walltime", time.Since(start)).
		Msg("integration finished")
	return nil
}

// MakeTaskCollection builds the task collection for one hyperbolic stage of
// the current cycle.
func (d *Driver) MakeTaskCollection(stage int) *taskgraph.Collection {
	tc := &taskgraph.Collection{}
	m, pkg := d.M, d.Pkg
	np := m.NumPartitions()
	sc := d.stages[stage-1]
	tm := d.Tm
	final := stage == len(d.stages)

	if stage == 1 {
		r := tc.AddRegion(np)
		for ip := 0; ip < np; ip++ {
			p := m.Partition(ip)
			tl := r.Lists[ip]
			init := tl.AddTask(taskgraph.None, func() (taskgraph.Status, error) {
				for _, b := range p.Blocks {
					b.Register(mesh.RegU1).Cons.CopyFrom(b.Cons)
				}
				return taskgraph.Complete, nil
			})
			if len(pkg.SplitSourcesStrang) > 0 {
				src := tl.AddTask(init, func() (taskgraph.Status, error) {
					if err := AddSplitSourcesStrang(pkg, p, tm); err != nil {
						return taskgraph.Fail, err
					}
					return taskgraph.Complete, nil
				})
				last := d.addExchange(tl, p, mesh.RegU0, src)
				d.addBoundaryAndPrim(tl, p, mesh.RegU0, last)
			}
		}
		if pkg.Fluid == FluidGLMMHD {
			r2 := tc.AddRegion(1)
			r2.Lists[0].AddTask(taskgraph.None, func() (taskgraph.Status, error) {
				CalcCH(pkg, m)
				return taskgraph.Complete, nil
			})
		}
	}

	r := tc.AddRegion(np)
	for ip := 0; ip < np; ip++ {
		p := m.Partition(ip)
		tl := r.Lists[ip]

		reset := tl.AddTask(taskgraph.None, func() (taskgraph.Status, error) {
			ResetFluxes(p)
			return taskgraph.Complete, nil
		})
		flx := tl.AddTask(reset, func() (taskgraph.Status, error) {
			CalculateFluxes(pkg, p, sc.from, stage)
			return taskgraph.Complete, nil
		})
		if pkg.HasDiffusion() && pkg.DiffInt == DiffIntUnsplit {
			flx = tl.AddTask(flx, func() (taskgraph.Status, error) {
				CalcDiffFluxes(pkg, p, sc.from)
				return taskgraph.Complete, nil
			})
		}
		sendCorr := tl.AddTask(flx, func() (taskgraph.Status, error) {
			for _, b := range p.Blocks {
				if err := b.SendFluxCorrection(); err != nil {
					return taskgraph.Fail, err
				}
			}
			return taskgraph.Complete, nil
		})
		recvCorr := tl.AddTask(sendCorr, func() (taskgraph.Status, error) {
			for _, b := range p.Blocks {
				if !b.ReceiveFluxCorrection() {
					return taskgraph.Incomplete, nil
				}
			}
			return taskgraph.Complete, nil
		})
		update := tl.AddTask(recvCorr, func() (taskgraph.Status, error) {
			UpdateWithFluxDivergence(p, sc.target, sc.base, sc.gam0, sc.gam1,
				sc.beta*tm.Dt, pkg.EOS.NVars())
			return taskgraph.Complete, nil
		})
		last := update
		if len(pkg.UnsplitSources) > 0 {
			last = tl.AddTask(last, func() (taskgraph.Status, error) {
				if err := AddUnsplitSources(pkg, p, sc.target, tm, sc.beta*tm.Dt); err != nil {
					return taskgraph.Fail, err
				}
				return taskgraph.Complete, nil
			})
		}
		if final && (len(pkg.SplitSourcesStrang) > 0 || len(pkg.SplitSourcesFirstOrder) > 0) {
			last = tl.AddTask(last, func() (taskgraph.Status, error) {
				if err := AddSplitSourcesStrang(pkg, p, tm); err != nil {
					return taskgraph.Fail, err
				}
				if err := AddSplitSourcesFirstOrder(pkg, p, tm); err != nil {
					return taskgraph.Fail, err
				}
				return taskgraph.Complete, nil
			})
		}
		last = d.addExchange(tl, p, sc.target, last)
		last = d.addBoundaryAndPrim(tl, p, sc.target, last)
		if final {
			tl.AddTask(last, func() (taskgraph.Status, error) {
				if err := EstimateTimestep(pkg, p); err != nil {
					return taskgraph.Fail, err
				}
				return taskgraph.Complete, nil
			})
		}
	}

	if final && m.Adaptive && m.Tag != nil {
		r3 := tc.AddRegion(1)
		r3.Lists[0].AddTask(taskgraph.None, func() (taskgraph.Status, error) {
			for _, b := range m.Blocks {
				if m.Tag(b) != 0 {
					m.MeshChanged = true
				}
			}
			return taskgraph.Complete, nil
		})
	}
	return tc
}

// superTimeStep advances the diffusion operator by tau with RKL2. Each
// sub-stage is its own region so every partition sees fresh ghost data from
// the previous stage.
func (d *Driver) superTimeStep(tau float64) error {
	m, pkg := d.M, d.Pkg
	ratio := tau / pkg.State.DtDiff
	s := STSStageCount(ratio)
	if ratio > 100 {
		d.Log.Warn().
			Float64("ratio", ratio).
			Int("stages", s).
			Msg("super-time-stepping ratio above 100, accuracy may degrade")
	}

	tc := &taskgraph.Collection{}
	np := m.NumPartitions()
	for j := 1; j <= s; j++ {
		j := j
		from := mesh.RegYjm1
		if j == 1 {
			from = mesh.RegU0
		}
		out := mesh.RegYjm1
		if j == s {
			out = mesh.RegU0
		}
		r := tc.AddRegion(np)
		for ip := 0; ip < np; ip++ {
			p := m.Partition(ip)
			tl := r.Lists[ip]
			reset := tl.AddTask(taskgraph.None, func() (taskgraph.Status, error) {
				ResetFluxes(p)
				return taskgraph.Complete, nil
			})
			flx := tl.AddTask(reset, func() (taskgraph.Status, error) {
				CalcDiffFluxes(pkg, p, from)
				return taskgraph.Complete, nil
			})
			step := tl.AddTask(flx, func() (taskgraph.Status, error) {
				if j == 1 {
					RKL2StepInit(pkg, p)
				}
				RKL2StepOther(pkg, p, j, s, tau)
				return taskgraph.Complete, nil
			})
			last := d.addExchange(tl, p, out, step)
			d.addBoundaryAndPrim(tl, p, out, last)
		}
	}
	return tc.Execute()
}

// addExchange appends the dimension-by-dimension ghost exchange of reg for
// all blocks of the partition. Later dimensions ship slabs that include the
// ghost zones filled by earlier ones, which is what keeps edge and corner
// ghosts consistent.
func (d *Driver) addExchange(tl *taskgraph.TaskList, p *mesh.Partition,
	reg mesh.RegisterID, dep taskgraph.ID) taskgraph.ID {
	prev := tl.AddTask(dep, func() (taskgraph.Status, error) {
		for _, b := range p.Blocks {
			b.StartReceiving(reg)
		}
		return taskgraph.Complete, nil
	})
	for dim := 0; dim < d.M.NDim; dim++ {
		dim := dim
		send := tl.AddTask(prev, func() (taskgraph.Status, error) {
			for _, b := range p.Blocks {
				if err := b.SendBoundary(reg, dim); err != nil {
					return taskgraph.Fail, err
				}
			}
			return taskgraph.Complete, nil
		})
		recv := tl.AddTask(send, func() (taskgraph.Status, error) {
			all := true
			for _, b := range p.Blocks {
				if !b.ReceiveBoundary(reg, dim) {
					all = false
				}
			}
			if !all {
				return taskgraph.Incomplete, nil
			}
			return taskgraph.Complete, nil
		})
		prev = tl.AddTask(recv, func() (taskgraph.Status, error) {
			for _, b := range p.Blocks {
				b.SetBoundary(reg, dim)
			}
			return taskgraph.Complete, nil
		})
	}
	return tl.AddTask(prev, func() (taskgraph.Status, error) {
		for _, b := range p.Blocks {
			b.ClearBoundary(reg)
		}
		return taskgraph.Complete, nil
	})
}

// addBoundaryAndPrim appends physical boundary application and primitive
// recovery for reg.
func (d *Driver) addBoundaryAndPrim(tl *taskgraph.TaskList, p *mesh.Partition,
	reg mesh.RegisterID, dep taskgraph.ID) taskgraph.ID {
	bc := tl.AddTask(dep, func() (taskgraph.Status, error) {
		for _, b := range p.Blocks {
			b.ApplyBoundaryConditions(reg)
		}
		return taskgraph.Complete, nil
	})
	return tl.AddTask(bc, func() (taskgraph.Status, error) {
		for _, b := range p.Blocks {
			st := b.Register(reg)
			d.Pkg.EOS.ConservedToPrimitive(b, st.Cons, st.Prim)
		}
		return taskgraph.Complete, nil
	})
}
