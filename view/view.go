// Package view is a thin read/write proxy mapping (uid, gate/slot,
// parameter) onto the arena slots a node actually owns. It adds no
// semantics of its own — every value it reads or writes is the same
// arena cell the step engine reads and writes.
//
// Grounded on model.Graph's Node (a plain struct of offsets into shared
// backing storage, with accessor methods rather than copied data),
// retargeted here from a compiled graph's fixed node shape to a live
// arena's per-element vectors.
package view

import (
	"github.com/nnengine/nodenet/arena"
	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/nettype"
)

// NodeView exposes one live node's elements by gate/slot name instead of
// raw element index. It holds no state beyond the coordinates needed to
// address the arena; there is nothing to keep in sync.
type NodeView struct {
	Uid    string
	id     core.NodeId
	offset core.ElementIndex
	def    nettype.TypeDef
	arena  *arena.Arena[float64]
}

// New builds a NodeView over the node identified by id/offset/def. Callers
// (the nodenet façade) resolve those from a uid before constructing one.
func New(uid string, id core.NodeId, offset core.ElementIndex, def nettype.TypeDef, a *arena.Arena[float64]) *NodeView {
	return &NodeView{Uid: uid, id: id, offset: offset, def: def, arena: a}
}

// Type returns the node's type name.
func (v *NodeView) Type() string { return v.def.Name }

// ElementCount reports how many elements the node's type reserves.
// NodeView carries no position storage.
func (v *NodeView) ElementCount() int { return v.def.ElementCount() }

// Gate resolves a named gate to a GateView, or UnknownGate.
func (v *NodeView) Gate(name string) (GateView, error) {
	i, err := v.def.GateIndex(name)
	if err != nil {
		return GateView{}, err
	}
	return GateView{v: v, elem: v.offset + core.ElementIndex(i)}, nil
}

// Slot resolves a named slot to a SlotView, or UnknownSlot.
func (v *NodeView) Slot(name string) (SlotView, error) {
	i, err := v.def.SlotIndex(name)
	if err != nil {
		return SlotView{}, err
	}
	return SlotView{v: v, elem: v.offset + core.ElementIndex(i)}, nil
}

// GateView addresses one gate element: its activation and its shaping
// parameters.
type GateView struct {
	v    *NodeView
	elem core.ElementIndex
}

func (g GateView) Activation() float64    { return float64(g.v.arena.A[g.elem]) }
func (g GateView) SetActivation(x float64) { g.v.arena.A[g.elem] = x }
func (g GateView) Threshold() float64      { return float64(g.v.arena.GThreshold[g.elem]) }
func (g GateView) SetThreshold(x float64)  { g.v.arena.GThreshold[g.elem] = x }
func (g GateView) Amplification() float64  { return float64(g.v.arena.GAmplification[g.elem]) }
func (g GateView) SetAmplification(x float64) { g.v.arena.GAmplification[g.elem] = x }
func (g GateView) Min() float64 { return float64(g.v.arena.GMin[g.elem]) }
func (g GateView) Max() float64 { return float64(g.v.arena.GMax[g.elem]) }
func (g GateView) SetRange(min, max float64) {
	g.v.arena.GMin[g.elem] = min
	g.v.arena.GMax[g.elem] = max
}
func (g GateView) Theta() float64     { return float64(g.v.arena.GTheta[g.elem]) }
func (g GateView) SetTheta(x float64) { g.v.arena.GTheta[g.elem] = x }
func (g GateView) Decay() float64     { return float64(g.v.arena.GDecay[g.elem]) }
func (g GateView) SetDecay(x float64) { g.v.arena.GDecay[g.elem] = x }

// SlotView addresses one slot element: the summed incoming activation a
// node function reads before gating.
type SlotView struct {
	v    *NodeView
	elem core.ElementIndex
}

func (s SlotView) Activation() float64 { return float64(s.v.arena.A[s.elem]) }
