package weights

import (
	"testing"

	"github.com/nnengine/nodenet/core"
	"github.com/stretchr/testify/require"
)

func TestDenseSetGetWeight(t *testing.T) {
	t.Parallel()
	m := NewDense(4)
	m.SetWeight(0, 1, 0.5)
	require.Equal(t, 0.5, m.GetWeight(0, 1))
	require.Equal(t, float64(0), m.GetWeight(1, 0))

	m.SetWeight(0, 1, 0)
	require.Equal(t, float64(0), m.GetWeight(0, 1))
}

func TestDensePropagate(t *testing.T) {
	t.Parallel()
	m := NewDense(3)
	m.SetWeight(0, 2, 2.0)
	m.SetWeight(1, 2, 3.0)
	a := []float64{1, 1, 0}
	out := make([]float64, 3)
	m.Propagate(a, out)
	require.Equal(t, []float64{0, 0, 5}, out)
}

func TestDenseZeroNode(t *testing.T) {
	t.Parallel()
	m := NewDense(4)
	m.SetWeight(0, 1, 1)
	m.SetWeight(1, 2, 1)
	m.ZeroNode(1, 1)
	require.Equal(t, float64(0), m.GetWeight(0, 1))
	require.Equal(t, float64(0), m.GetWeight(1, 2))
}

func TestCSRMatchesDenseSemantics(t *testing.T) {
	t.Parallel()
	dense := NewDense(4)
	csr := NewCSR(4)

	edges := []struct {
		s, t core.ElementIndex
		w    float64
	}{{0, 1, 0.5}, {1, 2, -1.2}, {2, 3, 2.0}}
	for _, e := range edges {
		dense.SetWeight(e.s, e.t, e.w)
		csr.SetWeight(e.s, e.t, e.w)
	}

	a := []float64{1, 2, 3, 4}
	outDense := make([]float64, 4)
	outCSR := make([]float64, 4)
	dense.Propagate(a, outDense)
	csr.Propagate(a, outCSR)
	require.InDeltaSlice(t, outDense, outCSR, 1e-9)
}

func TestCSRTripleRoundtrip(t *testing.T) {
	t.Parallel()
	csr := NewCSR(4)
	csr.SetWeight(0, 1, 0.5)
	csr.SetWeight(2, 1, -0.25)
	csr.SetWeight(3, 3, 1.0)

	triple := csr.ToTriple()
	restored := FromTriple(4, triple)

	require.Equal(t, 0.5, restored.GetWeight(0, 1))
	require.Equal(t, -0.25, restored.GetWeight(2, 1))
	require.Equal(t, 1.0, restored.GetWeight(3, 3))
	require.Equal(t, float64(0), restored.GetWeight(1, 1))
}

func TestCertaintyMatrixDefault(t *testing.T) {
	t.Parallel()
	c := NewCertaintyMatrix(4)
	require.Equal(t, 1.0, c.Get(0, 1))

	c.Set(0, 1, 0.75)
	require.Equal(t, 0.75, c.Get(0, 1))

	c.Set(0, 1, 1.0)
	require.Empty(t, c.Entries())
}
