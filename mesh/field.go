package mesh

// Field is a cell-centered (or face-centered) array of nvar variables over a
// block's index space, stored flat in (v,k,j,i) order with i fastest.
type Field struct {
	Nvar, Nk, Nj, Ni int
	Data             []float64
}

func NewField(nvar, nk, nj, ni int) *Field {
	return &Field{
		Nvar: nvar,
		Nk:   nk,
		Nj:   nj,
		Ni:   ni,
		Data: make([]float64, nvar*nk*nj*ni),
	}
}

func (f *Field) Index(v, k, j, i int) int {
	return i + f.Ni*(j+f.Nj*(k+f.Nk*v))
}

func (f *Field) At(v, k, j, i int) float64 {
	return f.Data[f.Index(v, k, j, i)]
}

func (f *Field) Set(v, k, j, i int, val float64) {
	f.Data[f.Index(v, k, j, i)] = val
}

func (f *Field) Add(v, k, j, i int, val float64) {
	f.Data[f.Index(v, k, j, i)] += val
}

func (f *Field) Zero() {
	for i := range f.Data {
		f.Data[i] = 0
	}
}

// CopyFrom copies src into f. The two fields must have identical shape.
func (f *Field) CopyFrom(src *Field) {
	copy(f.Data, src.Data)
}
