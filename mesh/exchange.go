package mesh

import "fmt"

/*
	Ghost-zone exchange.

	Each block owns one capacity-1 mailbox channel per (face, register).
	A send packs the NGhost-deep interior slab adjacent to the face and posts
	it to the neighbor's mailbox for the opposite face; a receive polls the
	own mailbox and reports whether the slab has arrived, so the task graph
	can re-poll without blocking the whole task list.

	Exchanges proceed dimension by dimension. A slab spans the full extent of
	the other dimensions including their ghosts, so after the sweep over all
	active dimensions the edge and corner ghosts are consistent too.
*/

func (m *Mesh) initMailboxes() {
	for _, b := range m.Blocks {
		for d := 0; d < m.NDim; d++ {
			for _, face := range []int{2 * d, 2*d + 1} {
				if b.Neighbor[face] < 0 {
					continue
				}
				for r := RegisterID(0); r < numRegisters; r++ {
					b.inbox[face][r] = make(chan []float64, 1)
				}
			}
		}
	}
}

// slabRanges returns the (k,j,i) index ranges of the slab adjacent to face,
// interior side for packing (ghost=false) or ghost side for unpacking.
func (b *Block) slabRanges(face int, ghost bool) (kr, jr, ir IndexRange) {
	kr = IndexRange{0, b.NTot3 - 1}
	jr = IndexRange{0, b.NTot2 - 1}
	ir = IndexRange{0, b.NTot1 - 1}
	ng := b.NGhost
	bounds := [3]IndexRange{b.Ib, b.Jb, b.Kb}
	d := face / 2
	lb := bounds[d]
	var r IndexRange
	switch {
	case face%2 == 0 && !ghost: // min face, interior slab
		r = IndexRange{lb.S, lb.S + ng - 1}
	case face%2 == 0 && ghost: // min face, ghost slab
		r = IndexRange{lb.S - ng, lb.S - 1}
	case face%2 == 1 && !ghost: // max face, interior slab
		r = IndexRange{lb.E - ng + 1, lb.E}
	default: // max face, ghost slab
		r = IndexRange{lb.E + 1, lb.E + ng}
	}
	switch d {
	case 0:
		ir = r
	case 1:
		jr = r
	case 2:
		kr = r
	}
	return
}

func (b *Block) packSlab(f *Field, face int) []float64 {
	kr, jr, ir := b.slabRanges(face, false)
	buf := make([]float64, 0, f.Nvar*(kr.E-kr.S+1)*(jr.E-jr.S+1)*(ir.E-ir.S+1))
	for v := 0; v < f.Nvar; v++ {
		for k := kr.S; k <= kr.E; k++ {
			for j := jr.S; j <= jr.E; j++ {
				for i := ir.S; i <= ir.E; i++ {
					buf = append(buf, f.At(v, k, j, i))
				}
			}
		}
	}
	return buf
}

func (b *Block) unpackSlab(f *Field, face int, buf []float64) {
	kr, jr, ir := b.slabRanges(face, true)
	n := 0
	for v := 0; v < f.Nvar; v++ {
		for k := kr.S; k <= kr.E; k++ {
			for j := jr.S; j <= jr.E; j++ {
				for i := ir.S; i <= ir.E; i++ {
					f.Set(v, k, j, i, buf[n])
					n++
				}
			}
		}
	}
}

// StartReceiving prepares the block for a fresh exchange of reg.
func (b *Block) StartReceiving(reg RegisterID) {
	for face := range b.recvBuf[reg] {
		b.recvBuf[reg][face] = nil
	}
}

// SendBoundary posts the interior slabs of reg's conserved field across both
// faces of dimension d. A full mailbox means the previous exchange was never
// cleared, which is a protocol violation and fatal.
func (b *Block) SendBoundary(reg RegisterID, d int) error {
	st := b.Register(reg)
	for _, face := range []int{2 * d, 2*d + 1} {
		nb := b.Neighbor[face]
		if nb < 0 {
			continue
		}
		target := b.mesh.Blocks[nb]
		slab := b.packSlab(st.Cons, face)
		select {
		case target.inbox[oppositeFace(face)][reg] <- slab:
		default:
			return fmt.Errorf("block %d: mailbox full sending %s across face %d",
				b.ID, reg, face)
		}
	}
	return nil
}

// ReceiveBoundary polls the mailboxes of dimension d. It reports true once
// slabs from all neighboring faces have arrived.
func (b *Block) ReceiveBoundary(reg RegisterID, d int) bool {
	all := true
	for _, face := range []int{2 * d, 2*d + 1} {
		if b.Neighbor[face] < 0 || b.recvBuf[reg][face] != nil {
			continue
		}
		select {
		case slab := <-b.inbox[face][reg]:
			b.recvBuf[reg][face] = slab
		default:
			all = false
		}
	}
	return all
}

// SetBoundary copies the received slabs of dimension d into reg's ghost
// zones. Must only be called after ReceiveBoundary reported completion.
func (b *Block) SetBoundary(reg RegisterID, d int) {
	st := b.Register(reg)
	for _, face := range []int{2 * d, 2*d + 1} {
		if buf := b.recvBuf[reg][face]; buf != nil {
			b.unpackSlab(st.Cons, face, buf)
		}
	}
}

// ClearBoundary releases all communication state of reg after a completed
// exchange, making the mailboxes reusable for the next one.
func (b *Block) ClearBoundary(reg RegisterID) {
	for face := range b.recvBuf[reg] {
		b.recvBuf[reg][face] = nil
	}
}
