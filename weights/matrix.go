/*
Package weights holds the link store of a nodenet.

Description:
  A link is not a separate record; it is a non-zero cell of a weight matrix
  W[target, source] addressed by element index. Propagation is exactly one
  matrix-vector product a' = W · a. Two backing representations are
  provided — Dense and CSR — selected by config.Config.Engine.MatrixMode,
  both satisfying the same Matrix interface so the step engine is agnostic
  to storage.

Use cases:
  - Dense: small/medium networks, simplest code path, O(1) random access.
  - CSR: large, sparse networks where most element pairs are unconnected.

Time complexity:
  - SetWeight/GetWeight: O(1) dense, O(1) amortized CSR (map-backed rows).
  - Propagate: O(E^2) dense, O(E + nnz) CSR.

Memory:
  - Dense: O(E^2). CSR: O(E + nnz).
*/
package weights

import "github.com/nnengine/nodenet/core"

// Matrix is the link store: W[target, source] = weight.
type Matrix interface {
	// Dim returns the matrix's element-index dimension (E).
	Dim() int
	// SetWeight sets W[target, source]; weight 0 removes the link.
	SetWeight(source, target core.ElementIndex, weight float64)
	// GetWeight returns W[target, source], 0 if absent.
	GetWeight(source, target core.ElementIndex) float64
	// Column returns the non-zero (target, weight) pairs for a source
	// element, i.e. every outgoing link from it.
	Column(source core.ElementIndex) []Entry
	// Row returns the non-zero (source, weight) pairs for a target
	// element, i.e. every incoming link to it.
	Row(target core.ElementIndex) []Entry
	// Propagate computes a' = W · a in place into out (out may alias a's
	// backing storage only if the implementation documents it does not;
	// callers should treat out as distinct from the read vector).
	Propagate(a []float64, out []float64)
	// ZeroNode removes every link incident to the elements in
	// [offset, offset+count), both incoming and outgoing.
	ZeroNode(offset core.ElementIndex, count int)
}

// Entry is one non-zero cell of a Matrix, as returned by Row/Column.
type Entry struct {
	Index  core.ElementIndex
	Weight float64
}
