// Package pipe implements the Pipe node type's seven per-element node
// functions and the shifted activation view that lets each of a pipe's
// gate kernels see all seven of its own sibling elements at once.
//
// Grounded on the example pack's dispatch-table idiom (a fixed array/map of
// named functions selected by an integer code, as in baldhumanity-neat-go's
// ActivationFunctions registry), applied here to the NFunctionSel codes
// instead of an open activation name.
package pipe

import "github.com/nnengine/nodenet/core"

// Gate indexes the seven canonical pipe gates, in the fixed order the
// element run of a Pipe node is laid out in.
type Gate int

const (
	GEN Gate = iota
	POR
	RET
	SUB
	SUR
	CAT
	EXP
	NumGates
)

// Selector names a pipe node function, stored as int8 in the arena's
// NFunctionSel vector. Index matches Gate.
type Selector int8

const (
	NFGen Selector = iota
	NFPor
	NFRet
	NFSub
	NFSur
	NFCat
	NFExp
)

// Shifted is the read-only per-node view over the seven sibling elements of
// one Pipe node, rebuilt by the step engine whenever a's backing storage
// changes (e.g. after a persistence load).
type Shifted struct {
	A [NumGates]float64
}

// Siblings extracts a Shifted view for the pipe node whose first element is
// at offset, reading directly out of the flat activation vector a.
func Siblings(a []float64, offset core.ElementIndex) Shifted {
	var s Shifted
	for g := Gate(0); g < NumGates; g++ {
		s.A[g] = a[int(offset)+int(g)]
	}
	return s
}

// Inputs bundles the porlinked/retlinked flags a pipe node function needs in
// addition to its own Shifted siblings.
type Inputs struct {
	Porlinked bool
	Retlinked bool
}

// NodeFunc computes the pre-gate value for one element (gate) of a pipe
// node, given the node's full sibling view and its incidence flags.
type NodeFunc func(sib Shifted, gate Gate, in Inputs) float64

// Dispatch maps a Selector to its NodeFunc, indexed by Gate since each of
// the seven elements of a pipe node runs a distinct function regardless of
// the node-level Selector (pipes only ever use one Selector family, but the
// table is kept Selector-indexed for native modules that install
// alternative pipe-like families).
var Dispatch = [...]NodeFunc{
	NFGen: genFunc,
	NFPor: porFunc,
	NFRet: retFunc,
	NFSub: subFunc,
	NFSur: surFunc,
	NFCat: catFunc,
	NFExp: expFunc,
}

// Run invokes the node function appropriate for the given gate of a pipe
// node running under Selector sel.
func Run(sel Selector, sib Shifted, gate Gate, in Inputs) float64 {
	if sel < 0 || int(sel) >= len(Dispatch) || Dispatch[sel] == nil {
		return sib.A[gate]
	}
	return Dispatch[sel](sib, gate, in)
}

// genFunc: GEN gates freely, echoing its own propagated input.
func genFunc(sib Shifted, gate Gate, _ Inputs) float64 {
	return sib.A[gate]
}

// porFunc: POR reports only once the node has incoming POR incidence, and
// only while its sibling SUR input is non-inhibitory (not negative).
func porFunc(sib Shifted, gate Gate, in Inputs) float64 {
	if !in.Porlinked {
		return 0
	}
	if sib.A[SUR] < 0 {
		return 0
	}
	return sib.A[gate]
}

// retFunc: RET reports only once the node has incoming RET incidence, and
// only while its sibling GEN input is not negative.
func retFunc(sib Shifted, gate Gate, in Inputs) float64 {
	if !in.Retlinked {
		return 0
	}
	if sib.A[GEN] < 0 {
		return 0
	}
	return sib.A[gate]
}

// subFunc: SUB spreads downward by default; spreading is suppressed only
// when the node is POR-linked and its GEN input is inhibitory (negative).
func subFunc(sib Shifted, gate Gate, in Inputs) float64 {
	if in.Porlinked && sib.A[GEN] < 0 {
		return 0
	}
	return sib.A[gate]
}

// surFunc: SUR reports upward, gated by POR-linkedness — a POR-isolated
// pipe (one with no incoming POR link at all) does not report SUR.
func surFunc(sib Shifted, gate Gate, in Inputs) float64 {
	if !in.Porlinked {
		return 0
	}
	return sib.A[gate]
}

// catFunc and expFunc are the categorical/expectation side channels: plain
// passthrough, distinguished from GEN only by gate identity for downstream
// wiring (a native module may give them bespoke semantics).
func catFunc(sib Shifted, gate Gate, _ Inputs) float64 { return sib.A[gate] }
func expFunc(sib Shifted, gate Gate, _ Inputs) float64 { return sib.A[gate] }
