package nodenet

import (
	"github.com/nnengine/nodenet/core"
)

// GroupNodesByIDs stores a named, sorted array of element offsets (the
// node's GEN element, one per uid) under name, for later bulk access via
// GetActivations/GetThetas/SetThetas.
func (n *Nodenet) GroupNodesByIDs(uids []string, name string) error {
	n.netlock.Lock()
	defer n.netlock.Unlock()

	ids := make([]core.NodeId, 0, len(uids))
	for _, uid := range uids {
		id, ok := n.resolveNodeUidLocked(uid)
		if !ok || n.Arena.AllocatedNodes[id] == 0 {
			return core.Errorf(core.UnknownUid, "no live node %q", uid)
		}
		ids = append(ids, id)
	}
	offsets := make([]core.ElementIndex, 0, len(ids))
	for _, id := range sortedNodeIds(ids) {
		offsets = append(offsets, n.Arena.AllocatedNodeOffsets[id])
	}
	n.groups[name] = offsets
	return nil
}

// GroupNodesByNames groups every node directly owned by nodespace whose
// display name carries the given prefix.
func (n *Nodenet) GroupNodesByNames(nodespace core.NodespaceId, prefix string, name string) error {
	n.netlock.Lock()
	defer n.netlock.Unlock()

	var ids []core.NodeId
	for nodeID, parent := range n.Arena.AllocatedNodeParents {
		if n.Arena.AllocatedNodes[nodeID] == 0 {
			continue
		}
		if nodespace != 0 && parent != nodespace {
			continue
		}
		if nm, ok := n.names[core.NodeId(nodeID)]; ok && hasPrefix(nm, prefix) {
			ids = append(ids, core.NodeId(nodeID))
		}
	}
	offsets := make([]core.ElementIndex, 0, len(ids))
	for _, id := range sortedNodeIds(ids) {
		offsets = append(offsets, n.Arena.AllocatedNodeOffsets[id])
	}
	n.groups[name] = offsets
	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// GetActivations returns the current GEN activation of every member of a
// previously-defined group, in the group's fixed order.
func (n *Nodenet) GetActivations(group string) ([]float64, error) {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	offsets, ok := n.groups[group]
	if !ok {
		return nil, core.Errorf(core.UnknownUid, "no such group %q", group)
	}
	out := make([]float64, len(offsets))
	for i, off := range offsets {
		out[i] = float64(n.Arena.A[off])
	}
	return out, nil
}

// GetThetas returns the g_theta parameter of every member of a group.
func (n *Nodenet) GetThetas(group string) ([]float64, error) {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	offsets, ok := n.groups[group]
	if !ok {
		return nil, core.Errorf(core.UnknownUid, "no such group %q", group)
	}
	out := make([]float64, len(offsets))
	for i, off := range offsets {
		out[i] = float64(n.Arena.GTheta[off])
	}
	return out, nil
}

// SetThetas overwrites the g_theta parameter of every member of a group.
// values must have the same length as the group.
func (n *Nodenet) SetThetas(group string, values []float64) error {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	offsets, ok := n.groups[group]
	if !ok {
		return core.Errorf(core.UnknownUid, "no such group %q", group)
	}
	if len(values) != len(offsets) {
		return core.Errorf(core.InvalidConfig, "SetThetas: group %q has %d members, got %d values", group, len(offsets), len(values))
	}
	for i, off := range offsets {
		n.Arena.GTheta[off] = values[i]
	}
	return nil
}

// GetLinkWeights returns the dense sub-matrix of weights between two
// previously-defined groups: result[i][j] = weight from gFrom[j] to gTo[i].
func (n *Nodenet) GetLinkWeights(gFrom, gTo string) ([][]float64, error) {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	from, ok := n.groups[gFrom]
	if !ok {
		return nil, core.Errorf(core.UnknownUid, "no such group %q", gFrom)
	}
	to, ok := n.groups[gTo]
	if !ok {
		return nil, core.Errorf(core.UnknownUid, "no such group %q", gTo)
	}
	out := make([][]float64, len(to))
	for i, t := range to {
		row := make([]float64, len(from))
		for j, s := range from {
			row[j] = n.Matrix.GetWeight(s, t)
		}
		out[i] = row
	}
	return out, nil
}

// SetLinkWeights overwrites the dense sub-matrix of weights between two
// previously-defined groups. w must be shaped [len(gTo)][len(gFrom)].
func (n *Nodenet) SetLinkWeights(gFrom, gTo string, w [][]float64) error {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	from, ok := n.groups[gFrom]
	if !ok {
		return core.Errorf(core.UnknownUid, "no such group %q", gFrom)
	}
	to, ok := n.groups[gTo]
	if !ok {
		return core.Errorf(core.UnknownUid, "no such group %q", gTo)
	}
	if len(w) != len(to) {
		return core.Errorf(core.InvalidConfig, "SetLinkWeights: expected %d rows, got %d", len(to), len(w))
	}
	for i, t := range to {
		if len(w[i]) != len(from) {
			return core.Errorf(core.InvalidConfig, "SetLinkWeights: row %d expected %d columns, got %d", i, len(from), len(w[i]))
		}
		for j, s := range from {
			n.Matrix.SetWeight(s, t, w[i][j])
		}
	}
	return nil
}
