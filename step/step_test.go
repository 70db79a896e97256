package step

import (
	"testing"

	"github.com/nnengine/nodenet/arena"
	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/gates"
	"github.com/nnengine/nodenet/nettype"
	"github.com/nnengine/nodenet/weights"
	"github.com/stretchr/testify/require"
)

// buildRegisterChain wires two Register nodes src -> dst with the given
// weight, both with identity gate functions and a wide shaping range.
func buildRegisterChain(t *testing.T, weight float64) (*Engine, core.ElementIndex, core.ElementIndex) {
	t.Helper()
	a := arena.New[float64](8, 8, 4)
	types := nettype.NewRegistry()

	srcID, srcOff, err := a.AllocateNode(1)
	require.NoError(t, err)
	dstID, dstOff, err := a.AllocateNode(1)
	require.NoError(t, err)
	a.AllocatedNodes[srcID] = uint16(nettype.Register)
	a.AllocatedNodes[dstID] = uint16(nettype.Register)

	for _, off := range []core.ElementIndex{srcOff, dstOff} {
		a.GMin[off] = -100
		a.GMax[off] = 100
		a.GAmplification[off] = 1
		a.GFunctionSel[off] = int8(gates.Identity)
	}

	m := weights.NewDense(a.MaxElements())
	m.SetWeight(srcOff, dstOff, weight)

	return NewEngine(a, m, types, nil), srcOff, dstOff
}

func TestStepPropagatesThenCalculates(t *testing.T) {
	t.Parallel()
	eng, srcOff, dstOff := buildRegisterChain(t, 2.0)
	eng.Arena.A[srcOff] = 3.0

	eng.Step()

	require.Equal(t, 6.0, float64(eng.Arena.A[dstOff]))
}

func TestCalculateClampsToGateRange(t *testing.T) {
	t.Parallel()
	eng, srcOff, dstOff := buildRegisterChain(t, 1000.0)
	eng.Arena.A[srcOff] = 1.0
	eng.Arena.GMax[dstOff] = 5.0

	eng.Step()

	require.Equal(t, 5.0, float64(eng.Arena.A[dstOff]))
}

func TestCalculateSkipsFreeElements(t *testing.T) {
	t.Parallel()
	eng, _, _ := buildRegisterChain(t, 1.0)
	require.NotPanics(t, func() { eng.Calculate() })
}

func TestCalculateAppliesActivatorGateFactor(t *testing.T) {
	t.Parallel()
	eng, srcOff, dstOff := buildRegisterChain(t, 1.0)
	actID, actOff, err := eng.Arena.AllocateNode(1)
	require.NoError(t, err)
	eng.Arena.AllocatedNodes[actID] = uint16(nettype.Activator)
	eng.Arena.A[actOff] = 0 // gate factor 0 => short-circuit

	eng.Arena.ElementsToActivators[dstOff] = actOff
	eng.Arena.A[srcOff] = 5.0

	eng.Step()

	require.Equal(t, 0.0, float64(eng.Arena.A[dstOff]))
}
