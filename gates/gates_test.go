package gates

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectorFn(t *testing.T) {
	t.Parallel()
	require.Equal(t, 3.0, Identity.Fn(3.0, 0))
	require.Equal(t, 3.0, Absolute.Fn(-3.0, 0))
	require.InDelta(t, 0.5, Sigmoid.Fn(0, 0), 1e-9)
	require.Equal(t, math.Tanh(2), Tanh.Fn(2, 0))
	require.Equal(t, 0.0, Rect.Fn(-1, 0))
	require.Equal(t, 5.0, Rect.Fn(5, 0))
	require.Equal(t, 0.0, OneOverX.Fn(0, 0))
	require.Equal(t, 0.5, OneOverX.Fn(2, 0))
}

func TestShapeActivatorShortCircuit(t *testing.T) {
	t.Parallel()
	out := Shape(10, Params{Threshold: 0, Amplification: 1, GateFactor: 0, Min: -1, Max: 1})
	require.Equal(t, 0.0, out)
}

func TestShapeClampsToRange(t *testing.T) {
	t.Parallel()
	out := Shape(10, Params{Threshold: 0, Amplification: 1, GateFactor: 1, Min: -1, Max: 1})
	require.Equal(t, 1.0, out)
}

func TestShapeThresholdAndAmplification(t *testing.T) {
	t.Parallel()
	out := Shape(0.2, Params{Threshold: 0.5, Amplification: 2, GateFactor: 1, Min: -10, Max: 10})
	require.Equal(t, 1.0, out)
}

func TestShapeDecayBlendsTowardPreviousBound(t *testing.T) {
	t.Parallel()
	out := Shape(2, Params{Threshold: 0, Amplification: 1, GateFactor: 1, Min: -10, Max: 10, Decay: 0.5, PreviousOutput: 1})
	require.Equal(t, 0.5, out)
}

func TestApplyFullPipeline(t *testing.T) {
	t.Parallel()
	out := Apply(Sigmoid, 1.0, 0, Params{Threshold: 0, Amplification: 1, GateFactor: 1, Min: 0, Max: 1})
	require.InDelta(t, 1/(1+math.Exp(-1)), out, 1e-9)
}
