package weights

import (
	"sort"

	"github.com/nnengine/nodenet/core"
)

// CSR stores W as one map-backed row per target element. Incremental
// SetWeight calls are O(1) amortized; ToTriple/FromTriple materialize the
// classic compressed-sparse-row (indptr/indices/data) encoding used by the
// persistence archive, mirroring the sparse intent of the pack's matrix
// package without requiring a full rebuild on every edit.
type CSR struct {
	dim  int
	rows []map[core.ElementIndex]float64 // rows[target][source] = weight
	cols []map[core.ElementIndex]float64 // cols[source][target] = weight, kept in sync for fast Column()
}

// NewCSR allocates an empty dim x dim sparse matrix.
func NewCSR(dim int) *CSR {
	m := &CSR{dim: dim, rows: make([]map[core.ElementIndex]float64, dim), cols: make([]map[core.ElementIndex]float64, dim)}
	for i := range m.rows {
		m.rows[i] = make(map[core.ElementIndex]float64)
		m.cols[i] = make(map[core.ElementIndex]float64)
	}
	return m
}

func (m *CSR) Dim() int { return m.dim }

func (m *CSR) SetWeight(source, target core.ElementIndex, weight float64) {
	if weight == 0 {
		delete(m.rows[target], source)
		delete(m.cols[source], target)
		return
	}
	m.rows[target][source] = weight
	m.cols[source][target] = weight
}

func (m *CSR) GetWeight(source, target core.ElementIndex) float64 {
	return m.rows[target][source]
}

func (m *CSR) Column(source core.ElementIndex) []Entry {
	out := make([]Entry, 0, len(m.cols[source]))
	for t, w := range m.cols[source] {
		out = append(out, Entry{Index: t, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (m *CSR) Row(target core.ElementIndex) []Entry {
	out := make([]Entry, 0, len(m.rows[target]))
	for s, w := range m.rows[target] {
		out = append(out, Entry{Index: s, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (m *CSR) Propagate(a []float64, out []float64) {
	for t := 0; t < m.dim; t++ {
		var sum float64
		for s, w := range m.rows[t] {
			sum += w * a[s]
		}
		out[t] = sum
	}
}

func (m *CSR) ZeroNode(offset core.ElementIndex, count int) {
	for k := 0; k < count; k++ {
		e := offset + core.ElementIndex(k)
		for s := range m.rows[e] {
			delete(m.cols[s], e)
		}
		m.rows[e] = make(map[core.ElementIndex]float64)
		for t := range m.cols[e] {
			delete(m.rows[t], e)
		}
		m.cols[e] = make(map[core.ElementIndex]float64)
	}
}

// Triple is the classic compressed-sparse-row encoding: Data[Indptr[t]:Indptr[t+1]]
// and Indices[Indptr[t]:Indptr[t+1]] are the sources/weights of row t.
type Triple struct {
	Data    []float64
	Indices []int32
	Indptr  []int32
}

// ToTriple materializes the current sparse contents as a CSR triple, for
// the persistence archive.
func (m *CSR) ToTriple() Triple {
	t := Triple{Indptr: make([]int32, m.dim+1)}
	for target := 0; target < m.dim; target++ {
		entries := m.Row(core.ElementIndex(target))
		t.Indptr[target+1] = t.Indptr[target] + int32(len(entries))
		for _, e := range entries {
			t.Indices = append(t.Indices, int32(e.Index))
			t.Data = append(t.Data, e.Weight)
		}
	}
	return t
}

// FromTriple replaces the matrix's contents with the given CSR triple.
func FromTriple(dim int, t Triple) *CSR {
	m := NewCSR(dim)
	for target := 0; target < dim; target++ {
		for i := t.Indptr[target]; i < t.Indptr[target+1]; i++ {
			source := core.ElementIndex(t.Indices[i])
			w := t.Data[i]
			m.SetWeight(source, core.ElementIndex(target), w)
		}
	}
	return m
}
