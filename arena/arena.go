// Package arena implements the flat, dense storage the engine runs on:
// fixed-capacity integer/float vectors indexed by NodeId, NodespaceId and
// ElementIndex, plus the linear-scan-with-single-wrap allocator that hands
// out ids and element runs from them.
//
// This mirrors this codebase's runtime.Arena (a byte-buffer region allocator
// with a bump cursor per region) retargeted from raw byte regions to typed
// numeric slices sized once at construction.
package arena

import (
	"sync"

	"github.com/nnengine/nodenet/core"
)

// Direction indexes the six activator-governed spread directions a
// nodespace can bind. They double as indices into the seven-gate pipe
// layout (GEN has no activator direction).
type Direction int

const (
	DirPOR Direction = iota
	DirRET
	DirSUB
	DirSUR
	DirCAT
	DirEXP
	numDirections
)

// Float is the numeric constraint the per-element vectors are generic over.
type Float interface {
	~float32 | ~float64
}

// FloatVector is a fixed-length slice of Float, addressed by ElementIndex.
type FloatVector[F Float] []F

func newFloatVector[F Float](n int) FloatVector[F] { return make(FloatVector[F], n) }

// Arena owns every flat vector the step engine reads and writes, plus the
// allocation cursors used to hand out fresh node/nodespace/element ids.
type Arena[F Float] struct {
	mu sync.Mutex

	noN, noE, noNS int

	// C1/C2: node and element bookkeeping.
	AllocatedNodes        []uint16        // node type code per NodeId, 0 = free
	AllocatedNodeOffsets  []core.ElementIndex // first element index per NodeId
	AllocatedNodeParents  []core.NodespaceId  // parent nodespace per NodeId
	ElementsToNodes       []core.NodeId   // owning NodeId per element, 0 = free

	AllocatedNodespaces       []core.NodespaceId // parent nodespace per NodespaceId, 0 = free
	NodespaceDirActivators    [numDirections][]core.NodeId // per-direction activator NodeId per nodespace
	ElementsToActivators      []core.ElementIndex           // bound activator element offset per element, 0 = none

	// C4: per-element parameter vectors.
	A             FloatVector[F]
	GFactor       FloatVector[F]
	GThreshold    FloatVector[F]
	GAmplification FloatVector[F]
	GMin          FloatVector[F]
	GMax          FloatVector[F]
	GTheta        FloatVector[F]
	GDecay        FloatVector[F]
	GFunctionSel  []int8
	NFunctionSel  []int8
	NPorlinked    []int8
	NRetlinked    []int8

	lastNode    core.NodeId
	lastElement core.ElementIndex
	lastSpace   core.NodespaceId
}

// New builds an Arena with fixed capacities for nodes, elements and
// nodespaces. Capacities never grow after construction (see the arena
// resize Open Question resolution in DESIGN.md).
func New[F Float](maxNodes, maxElements, maxNodespaces int) *Arena[F] {
	a := &Arena[F]{
		noN:  maxNodes,
		noE:  maxElements,
		noNS: maxNodespaces,

		AllocatedNodes:       make([]uint16, maxNodes),
		AllocatedNodeOffsets: make([]core.ElementIndex, maxNodes),
		AllocatedNodeParents: make([]core.NodespaceId, maxNodes),
		ElementsToNodes:      make([]core.NodeId, maxElements),

		AllocatedNodespaces:  make([]core.NodespaceId, maxNodespaces),
		ElementsToActivators: make([]core.ElementIndex, maxElements),

		A:              newFloatVector[F](maxElements),
		GFactor:        newFloatVector[F](maxElements),
		GThreshold:     newFloatVector[F](maxElements),
		GAmplification: newFloatVector[F](maxElements),
		GMin:           newFloatVector[F](maxElements),
		GMax:           newFloatVector[F](maxElements),
		GTheta:         newFloatVector[F](maxElements),
		GDecay:         newFloatVector[F](maxElements),
		GFunctionSel:   make([]int8, maxElements),
		NFunctionSel:   make([]int8, maxElements),
		NPorlinked:     make([]int8, maxElements),
		NRetlinked:     make([]int8, maxElements),
	}
	for d := range a.NodespaceDirActivators {
		a.NodespaceDirActivators[d] = make([]core.NodeId, maxNodespaces)
	}
	// Id 0 is the sentinel "unallocated" value; Root (1) is permanently live.
	a.AllocatedNodespaces[core.Root] = core.Root
	return a
}

// MaxNodes, MaxElements and MaxNodespaces report the fixed capacities.
func (a *Arena[F]) MaxNodes() int      { return a.noN }
func (a *Arena[F]) MaxElements() int   { return a.noE }
func (a *Arena[F]) MaxNodespaces() int { return a.noNS }

// AllocateNode reserves a fresh NodeId and a contiguous run of elementCount
// elements for it, returning the id and the run's first element index.
func (a *Arena[F]) AllocateNode(elementCount int) (core.NodeId, core.ElementIndex, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id, ok := a.scanFreeNode()
	if !ok {
		return 0, 0, core.Errorf(core.CapacityExhausted, "no free node id (capacity %d)", a.noN)
	}
	offset, ok := a.scanFreeElements(elementCount)
	if !ok {
		return 0, 0, core.Errorf(core.CapacityExhausted, "no free run of %d elements (capacity %d)", elementCount, a.noE)
	}
	for k := 0; k < elementCount; k++ {
		a.ElementsToNodes[int(offset)+k] = id
	}
	a.AllocatedNodeOffsets[id] = offset
	a.lastNode = id
	a.lastElement = offset
	return id, offset, nil
}

// scanFreeNode performs the linear-scan-with-single-wrap search for a free
// NodeId slot, starting just past the last id handed out. An id counts as
// taken once it has a type code or an element offset (element 0 is never
// handed out, so a reserved id always has a non-zero offset).
func (a *Arena[F]) scanFreeNode() (core.NodeId, bool) {
	n := len(a.AllocatedNodes)
	if n <= 1 {
		return 0, false
	}
	start := int(a.lastNode) + 1
	for i := 0; i < n-1; i++ {
		idx := 1 + (start-1+i)%(n-1)
		if a.AllocatedNodes[idx] == 0 && a.AllocatedNodeOffsets[idx] == 0 {
			return core.NodeId(idx), true
		}
	}
	return 0, false
}

// scanFreeElements searches for `count` consecutive free slots in
// ElementsToNodes, wrapping exactly once.
func (a *Arena[F]) scanFreeElements(count int) (core.ElementIndex, bool) {
	n := len(a.ElementsToNodes)
	if count <= 0 || count > n-1 {
		return 0, false
	}
	start := int(a.lastElement) + 1
	for pass := 0; pass < 2; pass++ {
		lo, hi := start, n
		if pass == 1 {
			lo, hi = 1, start
		}
		run := 0
		for i := lo; i < hi; i++ {
			if a.ElementsToNodes[i] == 0 {
				run++
				if run == count {
					return core.ElementIndex(i - count + 1), true
				}
			} else {
				run = 0
			}
		}
	}
	return 0, false
}

// FreeNode releases a NodeId and its elementCount elements back to the pool,
// zeroing every per-element vector entry they held.
func (a *Arena[F]) FreeNode(id core.NodeId, elementCount int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	offset := int(a.AllocatedNodeOffsets[id])
	for k := 0; k < elementCount; k++ {
		e := offset + k
		a.ElementsToNodes[e] = 0
		a.ElementsToActivators[e] = 0
		a.A[e] = 0
		a.GFactor[e] = 0
		a.GThreshold[e] = 0
		a.GAmplification[e] = 0
		a.GMin[e] = 0
		a.GMax[e] = 0
		a.GTheta[e] = 0
		a.GDecay[e] = 0
		a.GFunctionSel[e] = 0
		a.NFunctionSel[e] = 0
		a.NPorlinked[e] = 0
		a.NRetlinked[e] = 0
	}
	a.AllocatedNodes[id] = 0
	a.AllocatedNodeOffsets[id] = 0
	a.AllocatedNodeParents[id] = 0
}

// AllocateNodespace reserves a fresh NodespaceId under parent.
func (a *Arena[F]) AllocateNodespace(parent core.NodespaceId) (core.NodespaceId, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := len(a.AllocatedNodespaces)
	start := int(a.lastSpace) + 1
	for i := 0; i < n-1; i++ {
		idx := 1 + (start-1+i)%(n-1)
		if idx == int(core.Root) {
			continue
		}
		if a.AllocatedNodespaces[idx] == 0 {
			a.AllocatedNodespaces[idx] = parent
			a.lastSpace = core.NodespaceId(idx)
			return core.NodespaceId(idx), nil
		}
	}
	return 0, core.Errorf(core.CapacityExhausted, "no free nodespace id (capacity %d)", a.noNS)
}

// FreeNodespace releases a NodespaceId. Root may never be freed.
func (a *Arena[F]) FreeNodespace(id core.NodespaceId) {
	if id == core.Root {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.AllocatedNodespaces[id] = 0
	for d := range a.NodespaceDirActivators {
		a.NodespaceDirActivators[d][id] = 0
	}
}

// BindActivator records that activator governs direction dir within
// nodespace ns, writing the activator's element offset into every element
// of that direction already owned by a node in ns is the caller's job
// (nodenet.Nodenet, which knows which nodes live in which nodespace).
func (a *Arena[F]) BindActivator(ns core.NodespaceId, dir Direction, activator core.NodeId) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.NodespaceDirActivators[dir][ns] = activator
}

// ActivatorFor returns the activator NodeId bound to direction dir in
// nodespace ns, or 0 if none is bound.
func (a *Arena[F]) ActivatorFor(ns core.NodespaceId, dir Direction) core.NodeId {
	return a.NodespaceDirActivators[dir][ns]
}
