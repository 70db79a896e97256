package nettype

import (
	"testing"

	"github.com/nnengine/nodenet/core"
	"github.com/stretchr/testify/require"
)

func TestStandardRegistryHasSixTypes(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	for _, typ := range []Type{Register, Sensor, Actor, Concept, Pipe, Activator} {
		_, err := r.Lookup(typ)
		require.NoError(t, err)
	}
}

func TestPipeElementCountIsSeven(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	def, err := r.Lookup(Pipe)
	require.NoError(t, err)
	require.Equal(t, 7, def.ElementCount())
}

func TestInstallRejectsLowTypeCode(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	err := r.Install(TypeDef{Type: Register, Name: "bad"})
	require.Error(t, err)
	require.True(t, core.Is(err, core.InvalidConfig))
}

func TestInstallAndLookupByName(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	custom := TypeDef{Type: MaxStandard + 1, Name: "Counter", Gatetypes: []GateDef{{Name: "gen", Maximum: 1}}, Nodefunction: "counter"}
	require.NoError(t, r.Install(custom))

	got, err := r.ByName("Counter")
	require.NoError(t, err)
	require.Equal(t, custom.Type, got.Type)
}

func TestGateIndexUnknown(t *testing.T) {
	t.Parallel()
	def := standard[Register]
	_, err := def.GateIndex("sub")
	require.Error(t, err)
	require.True(t, core.Is(err, core.UnknownGate))
}
