package mesh

import "fmt"

// RegisterID names one of the same-shaped state buffers used by the
// multi-stage and super-time-stepping integrators. RegU0 is the primary
// state owned by the block; the others are allocated lazily on first use
// and reused for the remainder of the run.
type RegisterID int

const (
	RegU0 RegisterID = iota // primary state ("base"), doubles as Y0 during STS
	RegU1                   // predictor register, doubles as Yjm1 during STS
	RegYjm2
	RegMY0
	numRegisters
)

func (r RegisterID) String() string {
	return [...]string{"u0", "u1", "Yjm2", "MY0"}[r]
}

// RegYjm1 names the predictor register in its super-time-stepping role.
const RegYjm1 = RegU1

// State pairs the conserved and primitive representations of one register.
type State struct {
	Cons, Prim *Field
}

type IndexRange struct {
	S, E int
}

// Block is one mesh block: an interior region of Nx1 x Nx2 x Nx3 cells
// surrounded by NGhost ghost cells in every active dimension. The face flux
// buffers are transient within an integrator stage and must be reset before
// fluxes are accumulated.
type Block struct {
	ID            int
	Nx1, Nx2, Nx3 int
	NGhost        int
	Nvar          int

	Dx1, Dx2, Dx3       float64
	X1Min, X2Min, X3Min float64

	// Total array extents including ghosts, and interior index bounds.
	NTot1, NTot2, NTot3 int
	Ib, Jb, Kb          IndexRange

	Cons, Prim *Field
	Flux       [3]*Field // face fluxes, +1 cell in the face direction

	// Neighbor block IDs across the six faces, -1 at a physical boundary.
	Neighbor [6]int

	regs    [numRegisters]*State
	wl, wr  *Field // reconstruction scratch, shared by all directions
	inbox   [6][numRegisters]chan []float64
	recvBuf [numRegisters][6][]float64

	mesh *Mesh
}

// Face indices into Neighbor and the exchange mailboxes.
const (
	FaceX1Min = iota
	FaceX1Max
	FaceX2Min
	FaceX2Max
	FaceX3Min
	FaceX3Max
)

func oppositeFace(face int) int {
	return face ^ 1
}

func newBlock(id, nvar, nx1, nx2, nx3, ng int) *Block {
	b := &Block{
		ID:     id,
		Nx1:    nx1,
		Nx2:    nx2,
		Nx3:    nx3,
		NGhost: ng,
		Nvar:   nvar,
	}
	// Ghosts exist only in active dimensions.
	b.NTot1 = nx1 + 2*ng
	b.Ib = IndexRange{ng, ng + nx1 - 1}
	b.NTot2, b.NTot3 = 1, 1
	if nx2 > 1 {
		b.NTot2 = nx2 + 2*ng
		b.Jb = IndexRange{ng, ng + nx2 - 1}
	}
	if nx3 > 1 {
		b.NTot3 = nx3 + 2*ng
		b.Kb = IndexRange{ng, ng + nx3 - 1}
	}
	b.Cons = NewField(nvar, b.NTot3, b.NTot2, b.NTot1)
	b.Prim = NewField(nvar, b.NTot3, b.NTot2, b.NTot1)
	b.Flux[0] = NewField(nvar, b.NTot3, b.NTot2, b.NTot1+1)
	b.Flux[1] = NewField(nvar, b.NTot3, b.NTot2+1, b.NTot1)
	b.Flux[2] = NewField(nvar, b.NTot3+1, b.NTot2, b.NTot1)
	b.regs[RegU0] = &State{Cons: b.Cons, Prim: b.Prim}
	return b
}

// NDim reports the active dimensionality of the block.
func (b *Block) NDim() int {
	ndim := 1
	if b.Nx2 > 1 {
		ndim = 2
	}
	if b.Nx3 > 1 {
		ndim = 3
	}
	return ndim
}

// Register returns the named state buffers, allocating them on first use.
func (b *Block) Register(id RegisterID) *State {
	if id < 0 || id >= numRegisters {
		panic(fmt.Errorf("unknown register id %d", id))
	}
	if b.regs[id] == nil {
		b.regs[id] = &State{
			Cons: NewField(b.Nvar, b.NTot3, b.NTot2, b.NTot1),
			Prim: NewField(b.Nvar, b.NTot3, b.NTot2, b.NTot1),
		}
	}
	return b.regs[id]
}

// ReconScratch returns the left/right interface state buffers. They are
// padded by one cell in every direction so the same pair serves all three
// sweep directions.
func (b *Block) ReconScratch() (wl, wr *Field) {
	if b.wl == nil {
		b.wl = NewField(b.Nvar, b.NTot3+1, b.NTot2+1, b.NTot1+1)
		b.wr = NewField(b.Nvar, b.NTot3+1, b.NTot2+1, b.NTot1+1)
	}
	return b.wl, b.wr
}

// Dx returns the cell size in direction d (0,1,2).
func (b *Block) Dx(d int) float64 {
	switch d {
	case 0:
		return b.Dx1
	case 1:
		return b.Dx2
	default:
		return b.Dx3
	}
}

// ResetFluxes zeroes all face flux buffers. Mandatory at the start of each
// stage: stale fluxes from a differing stencil would corrupt the divergence.
func (b *Block) ResetFluxes() {
	b.Flux[0].Zero()
	if b.Nx2 > 1 {
		b.Flux[1].Zero()
	}
	if b.Nx3 > 1 {
		b.Flux[2].Zero()
	}
}
