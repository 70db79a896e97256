package native

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nnengine/nodenet/pipe"
	"github.com/stretchr/testify/require"
)

func TestLoadManifestsParsesYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.yaml")
	content := `
name: Counter
typecode: 100
slottypes: [gen]
gatetypes:
  - name: gen
    minimum: 0
    maximum: 10
    amplification: 1
nodefunction: test_counter
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	RegisterFunc("test_counter", func(sib pipe.Shifted, gate pipe.Gate, in pipe.Inputs) float64 { return sib.A[gate] })

	defs, err := LoadManifests([]string{path})
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "Counter", defs[0].Name)
	require.Equal(t, uint16(100), uint16(defs[0].Type))
	require.Len(t, defs[0].Gatetypes, 1)
}

func TestLoadManifestsRejectsUnregisteredNodefunction(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	content := "name: Bad\ntypecode: 101\nnodefunction: does_not_exist\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadManifests([]string{path})
	require.Error(t, err)
}
