package weights

import "github.com/nnengine/nodenet/core"

// CertaintyMatrix is the second parallel matrix the certainty Open Question
// resolved to (see DESIGN.md): a per-link confidence value that defaults to
// 1.0 and is stored, not dropped, even though no shipped node/gate function
// currently reads it back.
type CertaintyMatrix struct {
	dim  int
	vals map[[2]core.ElementIndex]float64
}

// NewCertaintyMatrix allocates an empty dim x dim certainty store.
func NewCertaintyMatrix(dim int) *CertaintyMatrix {
	return &CertaintyMatrix{dim: dim, vals: make(map[[2]core.ElementIndex]float64)}
}

func (c *CertaintyMatrix) Dim() int { return c.dim }

// Set records the certainty of the link (source, target). A value of 1.0
// is the implicit default and is not stored explicitly.
func (c *CertaintyMatrix) Set(source, target core.ElementIndex, certainty float64) {
	if certainty == 1.0 {
		delete(c.vals, [2]core.ElementIndex{source, target})
		return
	}
	c.vals[[2]core.ElementIndex{source, target}] = certainty
}

// Get returns the certainty of the link (source, target), defaulting to 1.0.
func (c *CertaintyMatrix) Get(source, target core.ElementIndex) float64 {
	if v, ok := c.vals[[2]core.ElementIndex{source, target}]; ok {
		return v
	}
	return 1.0
}

// Clear removes every certainty entry touching element e, as either
// endpoint, mirroring Matrix.ZeroNode.
func (c *CertaintyMatrix) Clear(offset core.ElementIndex, count int) {
	for k := 0; k < count; k++ {
		e := offset + core.ElementIndex(k)
		for key := range c.vals {
			if key[0] == e || key[1] == e {
				delete(c.vals, key)
			}
		}
	}
}

// Entries returns every explicitly-stored (non-default) certainty value,
// for persistence.
func (c *CertaintyMatrix) Entries() map[[2]core.ElementIndex]float64 {
	return c.vals
}
