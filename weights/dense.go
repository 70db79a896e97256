package weights

import "github.com/nnengine/nodenet/core"

// Dense stores every cell of W as a flat row-major slice. Grounded on the
// adjacency-matrix shape of the example pack's graph/matrix package (an
// Index plus a 2-D weight array), flattened here to one allocation sized
// once at construction instead of grown vertex-by-vertex.
type Dense struct {
	dim  int
	data []float64 // row-major: data[target*dim+source]
}

// NewDense allocates a dim x dim all-zero dense matrix.
func NewDense(dim int) *Dense {
	return &Dense{dim: dim, data: make([]float64, dim*dim)}
}

func (m *Dense) Dim() int { return m.dim }

func (m *Dense) SetWeight(source, target core.ElementIndex, weight float64) {
	m.data[int(target)*m.dim+int(source)] = weight
}

func (m *Dense) GetWeight(source, target core.ElementIndex) float64 {
	return m.data[int(target)*m.dim+int(source)]
}

func (m *Dense) Column(source core.ElementIndex) []Entry {
	var out []Entry
	for t := 0; t < m.dim; t++ {
		if w := m.data[t*m.dim+int(source)]; w != 0 {
			out = append(out, Entry{Index: core.ElementIndex(t), Weight: w})
		}
	}
	return out
}

func (m *Dense) Row(target core.ElementIndex) []Entry {
	base := int(target) * m.dim
	var out []Entry
	for s := 0; s < m.dim; s++ {
		if w := m.data[base+s]; w != 0 {
			out = append(out, Entry{Index: core.ElementIndex(s), Weight: w})
		}
	}
	return out
}

func (m *Dense) Propagate(a []float64, out []float64) {
	for t := 0; t < m.dim; t++ {
		base := t * m.dim
		var sum float64
		for s := 0; s < m.dim; s++ {
			if w := m.data[base+s]; w != 0 {
				sum += w * a[s]
			}
		}
		out[t] = sum
	}
}

func (m *Dense) ZeroNode(offset core.ElementIndex, count int) {
	for k := 0; k < count; k++ {
		e := int(offset) + k
		row := e * m.dim
		for s := 0; s < m.dim; s++ {
			m.data[row+s] = 0
		}
		for t := 0; t < m.dim; t++ {
			m.data[t*m.dim+e] = 0
		}
	}
}
