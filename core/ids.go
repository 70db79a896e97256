package core

import (
	"strconv"
	"strings"
)

// NodeId is a dense integer identifying a node. 0 means "unallocated".
type NodeId uint32

// NodespaceId is a dense integer identifying a nodespace. 0 means
// "unallocated"; 1 is the permanent root nodespace.
type NodespaceId uint32

// ElementIndex is a dense integer identifying a single per-element slot
// (a gate or a slot) inside the flat element vectors.
type ElementIndex uint32

// Root is the permanent, undeletable root nodespace id.
const Root NodespaceId = 1

// NodeUid renders a NodeId as its opaque external uid.
func NodeUid(id NodeId) string { return "n" + strconv.FormatUint(uint64(id), 10) }

// NodespaceUid renders a NodespaceId as its opaque external uid.
func NodespaceUid(id NodespaceId) string { return "s" + strconv.FormatUint(uint64(id), 10) }

// ParseNodeUid is the inverse of NodeUid.
func ParseNodeUid(uid string) (NodeId, bool) {
	if !strings.HasPrefix(uid, "n") {
		return 0, false
	}
	n, err := strconv.ParseUint(uid[1:], 10, 32)
	if err != nil {
		return 0, false
	}
	return NodeId(n), true
}

// ParseNodespaceUid is the inverse of NodespaceUid.
func ParseNodespaceUid(uid string) (NodespaceId, bool) {
	if !strings.HasPrefix(uid, "s") {
		return 0, false
	}
	n, err := strconv.ParseUint(uid[1:], 10, 32)
	if err != nil {
		return 0, false
	}
	return NodespaceId(n), true
}

// LinkUid renders the four-part link identity used as the uid of a weighted
// connection between two gate/slot element indices.
func LinkUid(sourceNode NodeId, sourceGate string, targetNode NodeId, targetSlot string) string {
	return NodeUid(sourceNode) + ":" + sourceGate + ":" + NodeUid(targetNode) + ":" + targetSlot
}
