package nodenet

import (
	"context"
	"testing"

	"github.com/nnengine/nodenet/arena"
	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/nettype"
	"github.com/nnengine/nodenet/world"
	"github.com/stretchr/testify/require"
)

type fakeWorld struct {
	sources map[string]float64
	targets map[string]float64
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{sources: make(map[string]float64), targets: make(map[string]float64)}
}

func (w *fakeWorld) GetDataSource(_, key string) (float64, bool) {
	v, ok := w.sources[key]
	return v, ok
}
func (w *fakeWorld) SetDataTarget(_, key string, value float64) { w.targets[key] = value }
func (w *fakeWorld) Snapshot(context.Context) error              { return nil }

func TestCreateNodeAndStepRegisterChain(t *testing.T) {
	t.Parallel()
	n, err := New(Options{UID: "net1"})
	require.NoError(t, err)

	wide := map[string]nettype.GateDef{"gen": {Name: "gen", Minimum: -100, Maximum: 100, Amplification: 1}}
	src, err := n.CreateNode(nettype.Register, core.Root, CreateNodeParams{GateOverrides: wide})
	require.NoError(t, err)
	dst, err := n.CreateNode(nettype.Register, core.Root, CreateNodeParams{GateOverrides: wide})
	require.NoError(t, err)

	_, err = n.CreateLink(src, "gen", dst, "gen", 2.0, 1.0)
	require.NoError(t, err)

	n.SetSensorsAndActuatorFeedbackToValues(nil, nil)
	srcID, _ := core.ParseNodeUid(src)
	n.Arena.A[n.Arena.AllocatedNodeOffsets[srcID]] = 3.0

	require.NoError(t, n.Step(context.Background()))

	dstID, _ := core.ParseNodeUid(dst)
	require.Equal(t, 6.0, float64(n.Arena.A[n.Arena.AllocatedNodeOffsets[dstID]]))
	require.Equal(t, uint64(1), n.CurrentStep)
}

func TestSensorEchoesWorldDataSource(t *testing.T) {
	t.Parallel()
	w := newFakeWorld()
	w.sources["temp"] = 42.0
	n, err := New(Options{UID: "net1", World: w})
	require.NoError(t, err)

	wide := map[string]nettype.GateDef{"gen": {Name: "gen", Minimum: -100, Maximum: 100, Amplification: 1}}
	sensor, err := n.CreateNode(nettype.Sensor, core.Root, CreateNodeParams{DataSource: "temp", GateOverrides: wide})
	require.NoError(t, err)

	require.NoError(t, n.Step(context.Background()))

	id, _ := core.ParseNodeUid(sensor)
	require.Equal(t, 42.0, float64(n.Arena.A[n.Arena.AllocatedNodeOffsets[id]]))
}

func TestActorSumsReachWorldDataTarget(t *testing.T) {
	t.Parallel()
	w := newFakeWorld()
	n, err := New(Options{UID: "net1", World: w})
	require.NoError(t, err)

	a1, err := n.CreateNode(nettype.Actor, core.Root, CreateNodeParams{DataTarget: "motor"})
	require.NoError(t, err)
	a2, err := n.CreateNode(nettype.Actor, core.Root, CreateNodeParams{DataTarget: "motor"})
	require.NoError(t, err)

	n.SetSensorsAndActuatorFeedbackToValues(nil, map[string]float64{"motor": 2.5})
	id1, _ := core.ParseNodeUid(a1)
	id2, _ := core.ParseNodeUid(a2)
	n.Arena.A[n.Arena.AllocatedNodeOffsets[id1]] = 1.0
	n.Arena.A[n.Arena.AllocatedNodeOffsets[id2]] = 2.0

	sums := n.ReadActuators()
	require.Equal(t, 3.0, sums["motor"])

	require.NoError(t, n.Step(context.Background()))
	require.Contains(t, w.targets, "motor")
}

func TestActivatorGatesPipeDirection(t *testing.T) {
	t.Parallel()
	n, err := New(Options{UID: "net1"})
	require.NoError(t, err)

	act, err := n.CreateNode(nettype.Activator, core.Root, CreateNodeParams{})
	require.NoError(t, err)
	require.NoError(t, n.SetNodespaceGatetypeActivator(core.Root, arena.DirSUB, act))

	pipeUID, err := n.CreateNode(nettype.Pipe, core.Root, CreateNodeParams{})
	require.NoError(t, err)

	wide := map[string]nettype.GateDef{"gen": {Name: "gen", Minimum: -100, Maximum: 100, Amplification: 1}}
	driver, err := n.CreateNode(nettype.Register, core.Root, CreateNodeParams{GateOverrides: wide})
	require.NoError(t, err)
	_, err = n.CreateLink(driver, "gen", pipeUID, "sub", 5.0, 1.0)
	require.NoError(t, err)

	actID, _ := core.ParseNodeUid(act)
	n.Arena.A[n.Arena.AllocatedNodeOffsets[actID]] = 0 // gate factor 0

	pipeID, _ := core.ParseNodeUid(pipeUID)
	offset := n.Arena.AllocatedNodeOffsets[pipeID]
	n.Arena.GMax[int(offset)+3] = 10 // SUB gate
	n.Arena.GAmplification[int(offset)+3] = 1

	driverID, _ := core.ParseNodeUid(driver)
	n.Arena.A[n.Arena.AllocatedNodeOffsets[driverID]] = 1.0

	require.NoError(t, n.Step(context.Background()))

	require.Equal(t, 0.0, float64(n.Arena.A[int(offset)+3]))
}

func TestViewReadsAndWritesGate(t *testing.T) {
	t.Parallel()
	n, err := New(Options{UID: "net1"})
	require.NoError(t, err)

	uid, err := n.CreateNode(nettype.Register, core.Root, CreateNodeParams{})
	require.NoError(t, err)

	v, err := n.View(uid)
	require.NoError(t, err)
	g, err := v.Gate("gen")
	require.NoError(t, err)
	g.SetActivation(0.25)
	require.Equal(t, 0.25, g.Activation())

	require.NoError(t, n.DeleteNode(uid))
	_, err = n.View(uid)
	require.Error(t, err)
}

func TestDeleteNodeThenReuseSlot(t *testing.T) {
	t.Parallel()
	n, err := New(Options{UID: "net1"})
	require.NoError(t, err)

	uid, err := n.CreateNode(nettype.Register, core.Root, CreateNodeParams{})
	require.NoError(t, err)
	require.NoError(t, n.DeleteNode(uid))

	_, err = n.CreateNode(nettype.Register, core.Root, CreateNodeParams{})
	require.NoError(t, err)
}

func TestDeleteNodespaceIsRecursive(t *testing.T) {
	t.Parallel()
	n, err := New(Options{UID: "net1"})
	require.NoError(t, err)

	child, err := n.CreateNodespace(core.Root)
	require.NoError(t, err)
	childID, _ := core.ParseNodespaceUid(child)

	_, err = n.CreateNode(nettype.Register, childID, CreateNodeParams{})
	require.NoError(t, err)

	require.NoError(t, n.DeleteNodespace(child))
	require.Equal(t, core.NodespaceId(0), n.Arena.AllocatedNodespaces[childID])
}

func TestDeleteNodespaceRejectsRoot(t *testing.T) {
	t.Parallel()
	n, err := New(Options{UID: "net1"})
	require.NoError(t, err)
	require.Error(t, n.DeleteNodespace(core.NodespaceUid(core.Root)))
}

func TestGroupActivationsRoundtrip(t *testing.T) {
	t.Parallel()
	n, err := New(Options{UID: "net1"})
	require.NoError(t, err)

	a, err := n.CreateNode(nettype.Register, core.Root, CreateNodeParams{})
	require.NoError(t, err)
	b, err := n.CreateNode(nettype.Register, core.Root, CreateNodeParams{})
	require.NoError(t, err)

	require.NoError(t, n.GroupNodesByIDs([]string{a, b}, "pair"))
	require.NoError(t, n.SetThetas("pair", []float64{0.1, 0.2}))

	thetas, err := n.GetThetas("pair")
	require.NoError(t, err)
	require.Equal(t, []float64{0.1, 0.2}, thetas)
}
