package nodenet

import (
	"github.com/nnengine/nodenet/arena"
	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/nettype"
	"github.com/nnengine/nodenet/pipe"
)

// pipeTypeCode is nettype.Pipe, named locally for readability at call sites
// that are comparing a raw uint16 type code against it.
const pipeTypeCode = nettype.Pipe

// nettypeOf converts a raw arena type code back to its nettype.Type.
func nettypeOf(code uint16) nettype.Type { return nettype.Type(code) }

// CreateLink establishes (or overwrites) a weighted connection from a
// source node's gate to a target node's slot. certainty is stored, not
// dropped (see the certainty Open Question resolution in DESIGN.md).
func (n *Nodenet) CreateLink(sourceUID, sourceGate, targetUID, targetSlot string, weight, certainty float64) (string, error) {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	return n.createLinkLocked(sourceUID, sourceGate, targetUID, targetSlot, weight, certainty)
}

func (n *Nodenet) createLinkLocked(sourceUID, sourceGate, targetUID, targetSlot string, weight, certainty float64) (string, error) {
	srcElem, srcID, err := n.resolveGateLocked(sourceUID, sourceGate)
	if err != nil {
		return "", err
	}
	tgtElem, tgtID, err := n.resolveSlotLocked(targetUID, targetSlot)
	if err != nil {
		return "", err
	}
	n.setLinkWeightLocked(srcElem, tgtElem, weight)
	n.Certainty.Set(srcElem, tgtElem, certainty)
	n.updatePorRetFlagsLocked(tgtID, targetSlot)

	return core.LinkUid(srcID, sourceGate, tgtID, targetSlot), nil
}

// SetLinkWeight overwrites the weight of an existing or new link addressed
// by its four-part identity. weight 0 deletes the link.
func (n *Nodenet) SetLinkWeight(sourceUID, sourceGate, targetUID, targetSlot string, weight float64) error {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	srcElem, _, err := n.resolveGateLocked(sourceUID, sourceGate)
	if err != nil {
		return err
	}
	tgtElem, tgtID, err := n.resolveSlotLocked(targetUID, targetSlot)
	if err != nil {
		return err
	}
	n.setLinkWeightLocked(srcElem, tgtElem, weight)
	n.updatePorRetFlagsLocked(tgtID, targetSlot)
	return nil
}

// DeleteLink removes a link; equivalent to SetLinkWeight with weight 0.
func (n *Nodenet) DeleteLink(sourceUID, sourceGate, targetUID, targetSlot string) error {
	return n.SetLinkWeight(sourceUID, sourceGate, targetUID, targetSlot, 0)
}

// GetLinkCertainty reads back a link's certainty, defaulting to 1.0.
func (n *Nodenet) GetLinkCertainty(sourceUID, sourceGate, targetUID, targetSlot string) (float64, error) {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	srcElem, _, err := n.resolveGateLocked(sourceUID, sourceGate)
	if err != nil {
		return 0, err
	}
	tgtElem, _, err := n.resolveSlotLocked(targetUID, targetSlot)
	if err != nil {
		return 0, err
	}
	return n.Certainty.Get(srcElem, tgtElem), nil
}

func (n *Nodenet) setLinkWeightLocked(source, target core.ElementIndex, weight float64) {
	n.Matrix.SetWeight(source, target, weight)
}

func (n *Nodenet) resolveGateLocked(uid, gateName string) (core.ElementIndex, core.NodeId, error) {
	id, ok := n.resolveNodeUidLocked(uid)
	if !ok || n.Arena.AllocatedNodes[id] == 0 {
		return 0, 0, core.Errorf(core.UnknownUid, "no live node %q", uid)
	}
	typ := n.Arena.AllocatedNodes[id]
	def, err := n.Types.Lookup(nettypeOf(typ))
	if err != nil {
		return 0, 0, err
	}
	idx, err := def.GateIndex(gateName)
	if err != nil {
		return 0, 0, err
	}
	return n.Arena.AllocatedNodeOffsets[id] + core.ElementIndex(idx), id, nil
}

func (n *Nodenet) resolveSlotLocked(uid, slotName string) (core.ElementIndex, core.NodeId, error) {
	id, ok := n.resolveNodeUidLocked(uid)
	if !ok || n.Arena.AllocatedNodes[id] == 0 {
		return 0, 0, core.Errorf(core.UnknownUid, "no live node %q", uid)
	}
	typ := n.Arena.AllocatedNodes[id]
	def, err := n.Types.Lookup(nettypeOf(typ))
	if err != nil {
		return 0, 0, err
	}
	idx, err := def.SlotIndex(slotName)
	if err != nil {
		return 0, 0, err
	}
	return n.Arena.AllocatedNodeOffsets[id] + core.ElementIndex(idx), id, nil
}

// updatePorRetFlagsLocked recomputes n_node_porlinked/n_node_retlinked for
// every element of a Pipe target node whenever its POR or RET slot is
// touched. This recomputes from the slot's live incoming links (its matrix
// row, W[slot, *]) rather than the
// literal "set to 0/1 on any SetWeight call" behavior the original MicroPsi
// engine uses for this — a documented, deliberate deviation (see the
// por/ret Open Question resolution in DESIGN.md), since the literal
// behavior unlinks POR/RET on an unrelated zero-weight write even when
// another live incoming link remains.
func (n *Nodenet) updatePorRetFlagsLocked(targetID core.NodeId, touchedSlot string) {
	if touchedSlot != "por" && touchedSlot != "ret" {
		return
	}
	if n.Arena.AllocatedNodes[targetID] != uint16(pipeTypeCode) {
		return
	}
	offset := n.Arena.AllocatedNodeOffsets[targetID]
	porElem := offset + core.ElementIndex(pipe.POR)
	retElem := offset + core.ElementIndex(pipe.RET)

	porLinked := len(n.Matrix.Row(porElem)) > 0
	retLinked := len(n.Matrix.Row(retElem)) > 0

	var porFlag, retFlag int8
	if porLinked {
		porFlag = 1
	}
	if retLinked {
		retFlag = 1
	}
	for g := pipe.GEN; g < pipe.NumGates; g++ {
		e := int(offset) + int(g)
		n.Arena.NPorlinked[e] = porFlag
		n.Arena.NRetlinked[e] = retFlag
	}
}

// inheritActivatorBindingsLocked wires a freshly-created Pipe node's
// activator bindings to whatever is already bound for its nodespace, per
// direction.
func (n *Nodenet) inheritActivatorBindingsLocked(nodespace core.NodespaceId, offset core.ElementIndex) {
	dirs := []struct {
		dir  arena.Direction
		gate pipe.Gate
	}{
		{arena.DirPOR, pipe.POR}, {arena.DirRET, pipe.RET}, {arena.DirSUB, pipe.SUB},
		{arena.DirSUR, pipe.SUR}, {arena.DirCAT, pipe.CAT}, {arena.DirEXP, pipe.EXP},
	}
	for _, d := range dirs {
		if act := n.Arena.ActivatorFor(nodespace, d.dir); act != 0 {
			actOffset := n.Arena.AllocatedNodeOffsets[act]
			n.Arena.ElementsToActivators[int(offset)+int(d.gate)] = actOffset
		}
	}
}

// SetNodespaceGatetypeActivator binds an Activator node to govern direction
// dir for every Pipe node in nodespace, present and future.
func (n *Nodenet) SetNodespaceGatetypeActivator(nodespace core.NodespaceId, dir arena.Direction, activatorUID string) error {
	n.netlock.Lock()
	defer n.netlock.Unlock()

	actID, ok := n.resolveNodeUidLocked(activatorUID)
	if !ok || n.Arena.AllocatedNodes[actID] == 0 {
		return core.Errorf(core.UnknownUid, "no live activator %q", activatorUID)
	}
	n.Arena.BindActivator(nodespace, dir, actID)
	actOffset := n.Arena.AllocatedNodeOffsets[actID]

	gate := dirToGate(dir)
	for nodeID, parent := range n.Arena.AllocatedNodeParents {
		if n.Arena.AllocatedNodes[nodeID] == 0 || parent != nodespace {
			continue
		}
		if nettype.Type(n.Arena.AllocatedNodes[nodeID]) != pipeTypeCode {
			continue
		}
		offset := n.Arena.AllocatedNodeOffsets[nodeID]
		n.Arena.ElementsToActivators[int(offset)+int(gate)] = actOffset
	}
	return nil
}

func dirToGate(dir arena.Direction) pipe.Gate {
	switch dir {
	case arena.DirPOR:
		return pipe.POR
	case arena.DirRET:
		return pipe.RET
	case arena.DirSUB:
		return pipe.SUB
	case arena.DirSUR:
		return pipe.SUR
	case arena.DirCAT:
		return pipe.CAT
	case arena.DirEXP:
		return pipe.EXP
	default:
		return pipe.GEN
	}
}
