// Package persist saves and loads a nodenet's flat arrays and metadata.
//
// Two files per nodenet: a JSON metadata sidecar (encoding/json — no
// third-party JSON codec appears anywhere in the example pack, see
// DESIGN.md) and a zip-contained set of length-prefixed binary members,
// this repository's stand-in for the reference engine's .npz archive. The
// binary framing follows this codebase's existing core/serialize.go
// (magic+version+checksum header) and model/graph.go (fixed binary layout,
// Validate before use) idiom, retargeted to named flat-array members.
package persist

import (
	"archive/zip"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"io"
	"os"

	"github.com/nnengine/nodenet/arena"
	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/weights"
)

// Metadata is the JSON sidecar written alongside the binary archive.
type Metadata struct {
	UID          string                 `json:"uid"`
	Name         string                 `json:"name"`
	Worldadapter string                 `json:"worldadapter"`
	Owner        string                 `json:"owner"`
	Positions    map[string][3]float64  `json:"positions"`
	Names        map[string]string      `json:"names"`
	Actuatormap  map[string][]uint32    `json:"actuatormap"`
	Sensormap    map[string][]uint32    `json:"sensormap"`
	Monitors     map[string]any         `json:"monitors"`
	Modulators   map[string]float64     `json:"modulators"`
	Version      int                    `json:"version"`
}

// CurrentVersion is the Metadata schema version this package writes.
const CurrentVersion = 1

// member names inside the archive zip.
const (
	memberAllocatedNodes       = "allocated_nodes"
	memberNodeOffsets          = "allocated_node_offsets"
	memberElementsToNodes      = "allocated_elements_to_nodes"
	memberNodeParents          = "allocated_node_parents"
	memberNodespaces           = "allocated_nodespaces"
	memberElementsToActivators = "allocated_elements_to_activators"
	memberA                    = "a"
	memberGTheta               = "g_theta"
	memberGFactor              = "g_factor"
	memberGThreshold           = "g_threshold"
	memberGAmplification       = "g_amplification"
	memberGMin                 = "g_min"
	memberGMax                 = "g_max"
	memberGDecay               = "g_decay"
	memberGFunctionSel         = "g_function_selector"
	memberNFunctionSel         = "n_function_selector"
	memberNPorlinked           = "n_node_porlinked"
	memberNRetlinked           = "n_node_retlinked"
	memberWData                = "w_data"
	memberWIndices             = "w_indices"
	memberWIndptr              = "w_indptr"
	memberCertData             = "certainty_data"
	memberCertIndices          = "certainty_indices"
	memberCertIndptr           = "certainty_indptr"
	memberSizeInformation      = "sizeinformation"
)

var activatorDirNames = [...]string{"por", "ret", "sub", "sur", "cat", "exp"}

// Archive is everything persist reads/writes about one nodenet's numeric
// state, independent of the Nodenet façade so the package has no import
// cycle back to it.
type Archive struct {
	Arena     *arena.Arena[float64]
	Matrix    weights.Matrix
	Certainty *weights.CertaintyMatrix
}

// Save writes metaPath (JSON) and archivePath (zip) for the given state.
func Save(metaPath string, meta Metadata, archivePath string, state Archive) error {
	meta.Version = CurrentVersion
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return core.Wrap(core.InvalidPersistence, err, "marshaling metadata")
	}
	if err := os.WriteFile(metaPath, metaBytes, 0o644); err != nil {
		return core.Wrap(core.InvalidPersistence, err, "writing metadata file %s", metaPath)
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return core.Wrap(core.InvalidPersistence, err, "creating archive %s", archivePath)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if err := writeArchive(zw, state); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func writeArchive(zw *zip.Writer, state Archive) error {
	a := state.Arena
	int8ToBytes := func(v []int8) []byte {
		out := make([]byte, len(v))
		for i, x := range v {
			out[i] = byte(x)
		}
		return out
	}

	members := map[string][]byte{
		memberAllocatedNodes:       uint16sToBytes(a.AllocatedNodes),
		memberNodeOffsets:          elementIndicesToBytes(a.AllocatedNodeOffsets),
		memberElementsToNodes:      nodeIdsToBytes(a.ElementsToNodes),
		memberNodeParents:          nodespaceIdsToBytes(a.AllocatedNodeParents),
		memberNodespaces:           nodespaceIdsToBytes(a.AllocatedNodespaces),
		memberElementsToActivators: elementIndicesToBytes(a.ElementsToActivators),
		memberA:                    float64sToBytes(a.A),
		memberGTheta:               float64sToBytes(a.GTheta),
		memberGFactor:              float64sToBytes(a.GFactor),
		memberGThreshold:           float64sToBytes(a.GThreshold),
		memberGAmplification:       float64sToBytes(a.GAmplification),
		memberGMin:                 float64sToBytes(a.GMin),
		memberGMax:                 float64sToBytes(a.GMax),
		memberGDecay:               float64sToBytes(a.GDecay),
		memberGFunctionSel:         int8ToBytes(a.GFunctionSel),
		memberNFunctionSel:         int8ToBytes(a.NFunctionSel),
		memberNPorlinked:           int8ToBytes(a.NPorlinked),
		memberNRetlinked:           int8ToBytes(a.NRetlinked),
		memberSizeInformation:      intsToBytes([]int{a.MaxNodes(), a.MaxElements(), a.MaxNodespaces()}),
	}

	for i, name := range activatorDirNames {
		members["allocated_nodespaces_"+name+"_activators"] = nodeIdsToBytes(a.NodespaceDirActivators[i])
	}

	if csr, ok := state.Matrix.(*weights.CSR); ok {
		triple := csr.ToTriple()
		members[memberWData] = float64sToBytes(triple.Data)
		members[memberWIndices] = int32sToBytes(triple.Indices)
		members[memberWIndptr] = int32sToBytes(triple.Indptr)
	} else {
		dim := state.Matrix.Dim()
		csr := weights.NewCSR(dim)
		for t := 0; t < dim; t++ {
			for _, e := range state.Matrix.Row(core.ElementIndex(t)) {
				csr.SetWeight(e.Index, core.ElementIndex(t), e.Weight)
			}
		}
		triple := csr.ToTriple()
		members[memberWData] = float64sToBytes(triple.Data)
		members[memberWIndices] = int32sToBytes(triple.Indices)
		members[memberWIndptr] = int32sToBytes(triple.Indptr)
	}

	certData, certIndices, certIndptr := certaintyTriple(state.Certainty, state.Matrix.Dim())
	members[memberCertData] = float64sToBytes(certData)
	members[memberCertIndices] = int32sToBytes(certIndices)
	members[memberCertIndptr] = int32sToBytes(certIndptr)

	for name, data := range members {
		if err := writeMember(zw, name, data); err != nil {
			return err
		}
	}
	return nil
}

// writeMember frames one archive member as [crc32(4)][len(4)][data], the
// same checksum-then-length-then-payload idiom core/serialize.go uses for
// Sublate framing, retargeted to one zip entry per named array.
func writeMember(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return core.Wrap(core.InvalidPersistence, err, "creating archive member %s", name)
	}
	checksum := crc32.ChecksumIEEE(data)
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], checksum)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(data)))
	if _, err := w.Write(header); err != nil {
		return core.Wrap(core.InvalidPersistence, err, "writing member header %s", name)
	}
	if _, err := w.Write(data); err != nil {
		return core.Wrap(core.InvalidPersistence, err, "writing member payload %s", name)
	}
	return nil
}

func certaintyTriple(c *weights.CertaintyMatrix, dim int) ([]float64, []int32, []int32) {
	rows := make(map[int][]weights.Entry)
	for key, v := range c.Entries() {
		t := int(key[1])
		rows[t] = append(rows[t], weights.Entry{Index: key[0], Weight: v})
	}
	indptr := make([]int32, dim+1)
	var data []float64
	var indices []int32
	for t := 0; t < dim; t++ {
		entries := rows[t]
		indptr[t+1] = indptr[t] + int32(len(entries))
		for _, e := range entries {
			indices = append(indices, int32(e.Index))
			data = append(data, e.Weight)
		}
	}
	return data, indices, indptr
}

// Load reads metaPath and archivePath back into a fresh Metadata/Archive
// pair. A missing metadata file is fatal (InvalidPersistence); a missing or
// corrupt individual archive member falls back to its zero value with a
// warning logged by the caller (persist itself does not log; Load returns
// which members were defaulted so callers can decide how to report it).
func Load(metaPath string, archivePath string, maxNodes, maxElements, maxNodespaces int, sparse bool) (Metadata, Archive, []string, error) {
	var meta Metadata
	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		return meta, Archive{}, nil, core.Wrap(core.InvalidPersistence, err, "metadata file %s is required", metaPath)
	}
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return meta, Archive{}, nil, core.Wrap(core.InvalidPersistence, err, "parsing metadata file %s", metaPath)
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return meta, Archive{}, nil, core.Wrap(core.InvalidPersistence, err, "opening archive %s", archivePath)
	}
	defer zr.Close()

	members := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			continue
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		if len(raw) < 8 {
			continue
		}
		wantCRC := binary.LittleEndian.Uint32(raw[0:4])
		length := binary.LittleEndian.Uint32(raw[4:8])
		payload := raw[8:]
		if uint32(len(payload)) != length || crc32.ChecksumIEEE(payload) != wantCRC {
			continue // corrupt member: treated as missing, falls back to default below
		}
		members[f.Name] = payload
	}

	a := arena.New[float64](maxNodes, maxElements, maxNodespaces)
	var defaulted []string
	get := func(name string) ([]byte, bool) {
		b, ok := members[name]
		if !ok {
			defaulted = append(defaulted, name)
		}
		return b, ok
	}

	if b, ok := get(memberAllocatedNodes); ok {
		bytesToUint16s(b, a.AllocatedNodes)
	}
	if b, ok := get(memberNodeOffsets); ok {
		bytesToElementIndices(b, a.AllocatedNodeOffsets)
	}
	if b, ok := get(memberElementsToNodes); ok {
		bytesToNodeIds(b, a.ElementsToNodes)
	}
	if b, ok := get(memberNodeParents); ok {
		bytesToNodespaceIds(b, a.AllocatedNodeParents)
	}
	if b, ok := get(memberNodespaces); ok {
		bytesToNodespaceIds(b, a.AllocatedNodespaces)
	}
	if b, ok := get(memberElementsToActivators); ok {
		bytesToElementIndices(b, a.ElementsToActivators)
	}
	for i, name := range activatorDirNames {
		if b, ok := get("allocated_nodespaces_" + name + "_activators"); ok {
			bytesToNodeIds(b, a.NodespaceDirActivators[i])
		}
	}
	if b, ok := get(memberA); ok {
		bytesToFloat64s(b, a.A)
	}
	if b, ok := get(memberGTheta); ok {
		bytesToFloat64s(b, a.GTheta)
	}
	if b, ok := get(memberGFactor); ok {
		bytesToFloat64s(b, a.GFactor)
	}
	if b, ok := get(memberGThreshold); ok {
		bytesToFloat64s(b, a.GThreshold)
	}
	if b, ok := get(memberGAmplification); ok {
		bytesToFloat64s(b, a.GAmplification)
	}
	if b, ok := get(memberGMin); ok {
		bytesToFloat64s(b, a.GMin)
	}
	if b, ok := get(memberGMax); ok {
		bytesToFloat64s(b, a.GMax)
	}
	if b, ok := get(memberGDecay); ok {
		bytesToFloat64s(b, a.GDecay)
	}
	if b, ok := get(memberGFunctionSel); ok {
		bytesToInt8s(b, a.GFunctionSel)
	}
	if b, ok := get(memberNFunctionSel); ok {
		bytesToInt8s(b, a.NFunctionSel)
	}
	if b, ok := get(memberNPorlinked); ok {
		bytesToInt8s(b, a.NPorlinked)
	}
	if b, ok := get(memberNRetlinked); ok {
		bytesToInt8s(b, a.NRetlinked)
	}

	var matrix weights.Matrix
	certainty := weights.NewCertaintyMatrix(maxElements)
	wData, haveW := get(memberWData)
	wIndices, haveIndices := get(memberWIndices)
	wIndptr, haveIndptr := get(memberWIndptr)
	if haveW && haveIndices && haveIndptr {
		triple := weights.Triple{Data: bytesToFloat64Slice(wData), Indices: bytesToInt32Slice(wIndices), Indptr: bytesToInt32Slice(wIndptr)}
		csr := weights.FromTriple(maxElements, triple)
		if sparse {
			matrix = csr
		} else {
			dense := weights.NewDense(maxElements)
			for t := 0; t < maxElements; t++ {
				for _, e := range csr.Row(core.ElementIndex(t)) {
					dense.SetWeight(e.Index, core.ElementIndex(t), e.Weight)
				}
			}
			matrix = dense
		}
	} else if sparse {
		matrix = weights.NewCSR(maxElements)
	} else {
		matrix = weights.NewDense(maxElements)
	}

	if certData, ok := get(memberCertData); ok {
		certIndices, _ := get(memberCertIndices)
		certIndptr, _ := get(memberCertIndptr)
		applyCertaintyTriple(certainty, bytesToFloat64Slice(certData), bytesToInt32Slice(certIndices), bytesToInt32Slice(certIndptr))
	}

	return meta, Archive{Arena: a, Matrix: matrix, Certainty: certainty}, defaulted, nil
}

func applyCertaintyTriple(c *weights.CertaintyMatrix, data []float64, indices, indptr []int32) {
	for t := 0; t < len(indptr)-1; t++ {
		for i := indptr[t]; i < indptr[t+1]; i++ {
			c.Set(core.ElementIndex(indices[i]), core.ElementIndex(t), data[i])
		}
	}
}
