package arena

import (
	"testing"

	"github.com/nnengine/nodenet/core"
	"github.com/stretchr/testify/require"
)

func TestAllocateNodeReservesContiguousElements(t *testing.T) {
	t.Parallel()
	a := New[float64](8, 32, 4)

	id, offset, err := a.AllocateNode(3)
	require.NoError(t, err)
	require.NotZero(t, id)

	for k := 0; k < 3; k++ {
		require.Equal(t, id, a.ElementsToNodes[int(offset)+k])
	}
}

func TestAllocateNodeCapacityExhausted(t *testing.T) {
	t.Parallel()
	a := New[float64](2, 4, 4)

	_, _, err := a.AllocateNode(1)
	require.NoError(t, err)
	_, _, err = a.AllocateNode(1)
	require.Error(t, err)
	require.True(t, core.Is(err, core.CapacityExhausted))
}

func TestFreeNodeZeroesElements(t *testing.T) {
	t.Parallel()
	a := New[float64](4, 16, 4)
	id, offset, err := a.AllocateNode(2)
	require.NoError(t, err)

	a.A[offset] = 1.5
	a.GFunctionSel[offset] = 2
	a.FreeNode(id, 2)

	require.Equal(t, core.NodeId(0), a.ElementsToNodes[offset])
	require.Equal(t, float64(0), a.A[offset])
	require.Equal(t, int8(0), a.GFunctionSel[offset])
}

func TestAllocatorWrapsAfterFree(t *testing.T) {
	// Plain-testing style (not testify), for texture variety against the
	// table-driven assert style used elsewhere in this package.
	t.Parallel()
	a := New[float64](4, 8, 4)

	id1, _, err := a.AllocateNode(1)
	if err != nil {
		t.Fatalf("first alloc: %v", err)
	}
	id2, _, err := a.AllocateNode(1)
	if err != nil {
		t.Fatalf("second alloc: %v", err)
	}
	id3, _, err := a.AllocateNode(1)
	if err != nil {
		t.Fatalf("third alloc: %v", err)
	}

	a.FreeNode(id1, 1)

	id4, _, err := a.AllocateNode(1)
	if err != nil {
		t.Fatalf("fourth alloc after free: %v", err)
	}
	if id4 == id2 || id4 == id3 {
		t.Errorf("scan should have found the freed slot, not reused a live one: id4=%d id2=%d id3=%d", id4, id2, id3)
	}
}

func TestNodespaceRootIsPreallocated(t *testing.T) {
	t.Parallel()
	a := New[float64](4, 8, 4)
	require.Equal(t, core.Root, a.AllocatedNodespaces[core.Root])
}

func TestFreeNodespaceCannotRemoveRoot(t *testing.T) {
	t.Parallel()
	a := New[float64](4, 8, 4)
	a.FreeNodespace(core.Root)
	require.Equal(t, core.Root, a.AllocatedNodespaces[core.Root])
}

func TestAllocateNodespaceCapacityExhausted(t *testing.T) {
	t.Parallel()
	a := New[float64](4, 8, 2) // capacity 2: slot 0 sentinel, slot 1 = Root

	_, err := a.AllocateNodespace(core.Root)
	require.Error(t, err)
	require.True(t, core.Is(err, core.CapacityExhausted))
}

func TestBindActivator(t *testing.T) {
	t.Parallel()
	a := New[float64](4, 8, 4)
	ns, err := a.AllocateNodespace(core.Root)
	require.NoError(t, err)

	a.BindActivator(ns, DirSUB, core.NodeId(7))
	require.Equal(t, core.NodeId(7), a.ActivatorFor(ns, DirSUB))
	require.Equal(t, core.NodeId(0), a.ActivatorFor(ns, DirSUR))
}
