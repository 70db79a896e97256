package persist

import (
	"encoding/binary"
	"math"

	"github.com/nnengine/nodenet/core"
)

func uint16sToBytes(v []uint16) []byte {
	out := make([]byte, len(v)*2)
	for i, x := range v {
		binary.LittleEndian.PutUint16(out[i*2:], x)
	}
	return out
}

func bytesToUint16s(b []byte, dst []uint16) {
	n := len(b) / 2
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
}

func elementIndicesToBytes(v []core.ElementIndex) []byte {
	out := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(x))
	}
	return out
}

func bytesToElementIndices(b []byte, dst []core.ElementIndex) {
	n := len(b) / 4
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = core.ElementIndex(binary.LittleEndian.Uint32(b[i*4:]))
	}
}

func nodeIdsToBytes(v []core.NodeId) []byte {
	out := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(x))
	}
	return out
}

func bytesToNodeIds(b []byte, dst []core.NodeId) {
	n := len(b) / 4
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = core.NodeId(binary.LittleEndian.Uint32(b[i*4:]))
	}
}

func nodespaceIdsToBytes(v []core.NodespaceId) []byte {
	out := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(x))
	}
	return out
}

func bytesToNodespaceIds(b []byte, dst []core.NodespaceId) {
	n := len(b) / 4
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = core.NodespaceId(binary.LittleEndian.Uint32(b[i*4:]))
	}
}

func float64sToBytes(v []float64) []byte {
	out := make([]byte, len(v)*8)
	for i, x := range v {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(x))
	}
	return out
}

func bytesToFloat64s(b []byte, dst []float64) {
	n := len(b) / 8
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
}

func bytesToFloat64Slice(b []byte) []float64 {
	out := make([]float64, len(b)/8)
	bytesToFloat64s(b, out)
	return out
}

func int32sToBytes(v []int32) []byte {
	out := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(x))
	}
	return out
}

func bytesToInt32Slice(b []byte) []int32 {
	out := make([]int32, len(b)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

func bytesToInt8s(b []byte, dst []int8) {
	n := len(b)
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = int8(b[i])
	}
}

func intsToBytes(v []int) []byte {
	out := make([]byte, len(v)*8)
	for i, x := range v {
		binary.LittleEndian.PutUint64(out[i*8:], uint64(x))
	}
	return out
}
