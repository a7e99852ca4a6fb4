package mesh

import "fmt"

// BoundaryType selects the physical boundary treatment applied to faces
// without a neighboring block.
type BoundaryType uint8

const (
	BCPeriodic BoundaryType = iota
	BCOutflow
)

var boundaryNames = map[string]BoundaryType{
	"periodic": BCPeriodic,
	"outflow":  BCOutflow,
}

func NewBoundaryType(label string) (BoundaryType, error) {
	bt, ok := boundaryNames[label]
	if !ok {
		return 0, fmt.Errorf("unknown boundary type %q", label)
	}
	return bt, nil
}

// TagFunc flags a block for refinement (>0), derefinement (<0) or no change.
// Acting on the tags is the mesh manager's job, not the solver core's.
type TagFunc func(b *Block) int

// Options configures a uniform block-structured mesh.
type Options struct {
	Nvar     int    // variables per cell
	Nx       [3]int // cells per block
	NBlocks  [3]int // blocks per dimension
	NGhost   int
	XMin     [3]float64
	XMax     [3]float64
	Boundary BoundaryType
	NPart    int // number of partitions (0 = one per block)
	Adaptive bool
}

// Mesh is a collection of equally sized blocks on a uniform Cartesian grid,
// grouped into partitions for batched operation. Its construction and any
// refinement of it are external to the solver core; the core only consumes
// the per-block arrays and the exchange primitives.
type Mesh struct {
	Blocks   []*Block
	NBlocks  [3]int
	NDim     int
	Boundary BoundaryType
	Adaptive bool

	// MeshChanged is raised whenever the block topology changes, signalling
	// that topology-derived quantities (global minimum cell size) need to be
	// recomputed. It is set at construction and cleared by the consumer.
	MeshChanged bool

	Tag TagFunc

	pm         *PartitionMap
	partitions []*Partition
}

// Partition is a batch of blocks operated on by one task list in the
// partition-parallel regions of the task graph.
type Partition struct {
	Blocks []*Block
}

func NewMesh(opt Options) (*Mesh, error) {
	if opt.Nvar <= 0 {
		return nil, fmt.Errorf("mesh: Nvar must be positive, have %d", opt.Nvar)
	}
	if opt.NGhost <= 0 {
		opt.NGhost = 2
	}
	for d := 0; d < 3; d++ {
		if opt.Nx[d] <= 0 {
			opt.Nx[d] = 1
		}
		if opt.NBlocks[d] <= 0 {
			opt.NBlocks[d] = 1
		}
		if opt.Nx[d] > 1 && opt.Nx[d] < 2*opt.NGhost {
			return nil, fmt.Errorf("mesh: block dimension %d has %d cells, need at least %d",
				d, opt.Nx[d], 2*opt.NGhost)
		}
	}
	m := &Mesh{
		NBlocks:     opt.NBlocks,
		Boundary:    opt.Boundary,
		Adaptive:    opt.Adaptive,
		MeshChanged: true,
	}
	m.NDim = 1
	if opt.Nx[1] > 1 {
		m.NDim = 2
	}
	if opt.Nx[2] > 1 {
		m.NDim = 3
	}

	nb1, nb2, nb3 := opt.NBlocks[0], opt.NBlocks[1], opt.NBlocks[2]
	dx := [3]float64{}
	for d := 0; d < 3; d++ {
		span := opt.XMax[d] - opt.XMin[d]
		if span <= 0 {
			span = 1
		}
		dx[d] = span / float64(opt.Nx[d]*opt.NBlocks[d])
	}

	blockIndex := func(i1, i2, i3 int) int {
		return i1 + nb1*(i2+nb2*i3)
	}
	for i3 := 0; i3 < nb3; i3++ {
		for i2 := 0; i2 < nb2; i2++ {
			for i1 := 0; i1 < nb1; i1++ {
				b := newBlock(blockIndex(i1, i2, i3), opt.Nvar,
					opt.Nx[0], opt.Nx[1], opt.Nx[2], opt.NGhost)
				b.Dx1, b.Dx2, b.Dx3 = dx[0], dx[1], dx[2]
				b.X1Min = opt.XMin[0] + float64(i1*opt.Nx[0])*dx[0]
				b.X2Min = opt.XMin[1] + float64(i2*opt.Nx[1])*dx[1]
				b.X3Min = opt.XMin[2] + float64(i3*opt.Nx[2])*dx[2]
				b.mesh = m

				idx := [3]int{i1, i2, i3}
				nbk := [3]int{nb1, nb2, nb3}
				for d := 0; d < 3; d++ {
					lo, hi := -1, -1
					if opt.Boundary == BCPeriodic {
						l, h := idx, idx
						l[d] = (idx[d] - 1 + nbk[d]) % nbk[d]
						h[d] = (idx[d] + 1) % nbk[d]
						lo = blockIndex(l[0], l[1], l[2])
						hi = blockIndex(h[0], h[1], h[2])
					} else {
						if idx[d] > 0 {
							l := idx
							l[d]--
							lo = blockIndex(l[0], l[1], l[2])
						}
						if idx[d] < nbk[d]-1 {
							h := idx
							h[d]++
							hi = blockIndex(h[0], h[1], h[2])
						}
					}
					b.Neighbor[2*d] = lo
					b.Neighbor[2*d+1] = hi
				}
				m.Blocks = append(m.Blocks, b)
			}
		}
	}
	m.initMailboxes()

	npart := opt.NPart
	if npart <= 0 || npart > len(m.Blocks) {
		npart = len(m.Blocks)
	}
	m.pm = NewPartitionMap(npart, len(m.Blocks))
	m.partitions = make([]*Partition, npart)
	for np := 0; np < npart; np++ {
		lo, hi := m.pm.GetBucketRange(np)
		m.partitions[np] = &Partition{Blocks: m.Blocks[lo:hi]}
	}
	return m, nil
}

func (m *Mesh) NumPartitions() int {
	return len(m.partitions)
}

func (m *Mesh) Partition(i int) *Partition {
	return m.partitions[i]
}

// CellCenter returns the coordinates of cell center (k,j,i) of block b, using
// interior-relative indexing consistent with the ghost offsets.
func (b *Block) CellCenter(k, j, i int) (x1, x2, x3 float64) {
	x1 = b.X1Min + (float64(i-b.Ib.S)+0.5)*b.Dx1
	x2 = b.X2Min + (float64(j-b.Jb.S)+0.5)*b.Dx2
	x3 = b.X3Min + (float64(k-b.Kb.S)+0.5)*b.Dx3
	return
}
