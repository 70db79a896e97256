package nodenet

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/nettype"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	n, err := New(Options{UID: "net1", Name: "roundtrip"})
	require.NoError(t, err)

	wide := map[string]nettype.GateDef{"gen": {Name: "gen", Minimum: -100, Maximum: 100, Amplification: 1}}
	src, err := n.CreateNode(nettype.Register, core.Root, CreateNodeParams{Name: "src", GateOverrides: wide})
	require.NoError(t, err)
	dst, err := n.CreateNode(nettype.Register, core.Root, CreateNodeParams{Name: "dst", GateOverrides: wide})
	require.NoError(t, err)
	_, err = n.CreateLink(src, "gen", dst, "gen", 2.5, 0.8)
	require.NoError(t, err)

	dir := t.TempDir()
	metaPath := filepath.Join(dir, "net.json")
	archivePath := filepath.Join(dir, "net.ndnarchive")
	require.NoError(t, n.Save(metaPath, archivePath))

	loaded, err := Load(metaPath, archivePath, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "net1", loaded.UID)
	require.Equal(t, "roundtrip", loaded.Name)

	srcID, _ := core.ParseNodeUid(src)
	dstID, _ := core.ParseNodeUid(dst)
	srcOffset := loaded.Arena.AllocatedNodeOffsets[srcID]
	dstOffset := loaded.Arena.AllocatedNodeOffsets[dstID]
	require.Equal(t, 2.5, loaded.Matrix.GetWeight(srcOffset, dstOffset))
	require.Equal(t, 0.8, loaded.Certainty.Get(srcOffset, dstOffset))
	require.Equal(t, "src", loaded.names[srcID])

	loaded.Arena.A[srcOffset] = 4.0
	require.NoError(t, loaded.Step(context.Background()))
	require.Equal(t, 10.0, float64(loaded.Arena.A[dstOffset]))
}
