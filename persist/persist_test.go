package persist

import (
	"path/filepath"
	"testing"

	"github.com/nnengine/nodenet/arena"
	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/weights"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	a := arena.New[float64](4, 8, 2)
	id, offset, err := a.AllocateNode(1)
	require.NoError(t, err)
	a.AllocatedNodes[id] = 7
	a.A[offset] = 3.5
	a.GMax[offset] = 1.0

	m := weights.NewDense(8)
	m.SetWeight(0, 1, 0.75)
	cert := weights.NewCertaintyMatrix(8)
	cert.Set(0, 1, 0.9)

	dir := t.TempDir()
	metaPath := filepath.Join(dir, "net.json")
	archivePath := filepath.Join(dir, "net.zip")

	meta := Metadata{UID: "net1", Name: "test", Worldadapter: "Default"}
	require.NoError(t, Save(metaPath, meta, archivePath, Archive{Arena: a, Matrix: m, Certainty: cert}))

	loadedMeta, loadedArchive, defaulted, err := Load(metaPath, archivePath, 4, 8, 2, false)
	require.NoError(t, err)
	require.Empty(t, defaulted)
	require.Equal(t, "net1", loadedMeta.UID)
	require.Equal(t, CurrentVersion, loadedMeta.Version)

	require.Equal(t, 3.5, loadedArchive.Arena.A[offset])
	require.Equal(t, uint16(7), loadedArchive.Arena.AllocatedNodes[id])
	require.Equal(t, 0.75, loadedArchive.Matrix.GetWeight(0, 1))
	require.Equal(t, 0.9, loadedArchive.Certainty.Get(0, 1))
}

func TestLoadMissingMetadataFails(t *testing.T) {
	dir := t.TempDir()
	_, _, _, err := Load(filepath.Join(dir, "missing.json"), filepath.Join(dir, "missing.zip"), 4, 8, 2, false)
	require.Error(t, err)
	require.True(t, core.Is(err, core.InvalidPersistence))
}

func TestSaveLoadSparseRoundtrip(t *testing.T) {
	a := arena.New[float64](2, 4, 2)
	m := weights.NewCSR(4)
	m.SetWeight(0, 2, 2.0)
	cert := weights.NewCertaintyMatrix(4)

	dir := t.TempDir()
	metaPath := filepath.Join(dir, "net.json")
	archivePath := filepath.Join(dir, "net.zip")
	require.NoError(t, Save(metaPath, Metadata{UID: "net2"}, archivePath, Archive{Arena: a, Matrix: m, Certainty: cert}))

	_, loaded, _, err := Load(metaPath, archivePath, 2, 4, 2, true)
	require.NoError(t, err)
	require.Equal(t, 2.0, loaded.Matrix.GetWeight(0, 2))
}
