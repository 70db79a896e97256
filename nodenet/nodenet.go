// Package nodenet is the public façade: the only entry point callers use to
// build, mutate and step a spreading-activation network. Every exported
// mutator and Step take the instance's lock itself and never call another
// exported method while holding it — internal cross-calls go through
// unexported *locked helpers instead. This reproduces the single reentrant
// lock a true MicroPsi engine uses without requiring a hand-rolled
// reentrant sync.Mutex in Go.
//
// Grounded on runtime.Engine (teacher): a struct owning its arena, its
// scheduler and a sync.RWMutex, built by a staged constructor pipeline and
// exposing Run/Execute as the public entry points.
package nodenet

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/nnengine/nodenet/arena"
	"github.com/nnengine/nodenet/config"
	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/native"
	"github.com/nnengine/nodenet/nettype"
	"github.com/nnengine/nodenet/pipe"
	"github.com/nnengine/nodenet/step"
	"github.com/nnengine/nodenet/view"
	"github.com/nnengine/nodenet/weights"
	"github.com/nnengine/nodenet/world"
)

// Nodenet owns one network's entire state: its arena, its weight and
// certainty matrices, its type registry, its sensor/actor/group maps, and
// the lock serializing every public mutation and step against it.
type Nodenet struct {
	netlock sync.Mutex

	UID  string
	Name string

	Arena      *arena.Arena[float64]
	Matrix     weights.Matrix
	Certainty  *weights.CertaintyMatrix
	Types      *nettype.Registry
	World      world.Adapter
	Logger     *log.Logger
	stepEngine *step.Engine

	CurrentStep uint64

	names     map[core.NodeId]string
	positions map[core.NodeId][3]float64

	sensorMap map[string][]core.NodeId // datasource -> sensor NodeIds
	actorMap  map[string][]core.NodeId // datatarget -> actor NodeIds
	dataSource map[core.NodeId]string  // sensor NodeId -> datasource key
	dataTarget map[core.NodeId]string  // actor NodeId -> datatarget key

	groups map[string][]core.ElementIndex

	modulators map[string]float64

	views map[core.NodeId]*view.NodeView
}

// Options configures New.
type Options struct {
	UID    string
	Name   string
	Config *config.Config
	World  world.Adapter
	Logger *log.Logger
}

// New constructs an empty Nodenet with Root as its only nodespace.
func New(opts Options) (*Nodenet, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	adapter := opts.World
	if adapter == nil {
		adapter = world.Null{}
	}

	a := arena.New[float64](cfg.Arena.MaxNodes, cfg.Arena.MaxElements, cfg.Arena.MaxNodespaces)

	var matrix weights.Matrix
	if cfg.Engine.MatrixMode == "sparse" {
		matrix = weights.NewCSR(cfg.Arena.MaxElements)
	} else {
		matrix = weights.NewDense(cfg.Arena.MaxElements)
	}

	types := nettype.NewRegistry()
	if len(cfg.Native.ManifestPaths) > 0 {
		defs, err := native.LoadManifests(cfg.Native.ManifestPaths)
		if err != nil {
			return nil, err
		}
		for _, def := range defs {
			if err := types.Install(def); err != nil {
				return nil, err
			}
		}
	}

	n := &Nodenet{
		UID:        opts.UID,
		Name:       opts.Name,
		Arena:      a,
		Matrix:     matrix,
		Certainty:  weights.NewCertaintyMatrix(cfg.Arena.MaxElements),
		Types:      types,
		World:      adapter,
		Logger:     logger,
		names:      make(map[core.NodeId]string),
		positions:  make(map[core.NodeId][3]float64),
		sensorMap:  make(map[string][]core.NodeId),
		actorMap:   make(map[string][]core.NodeId),
		dataSource: make(map[core.NodeId]string),
		dataTarget: make(map[core.NodeId]string),
		groups:     make(map[string][]core.ElementIndex),
		modulators: make(map[string]float64),
		views:      make(map[core.NodeId]*view.NodeView),
	}
	n.stepEngine = step.NewEngine(a, matrix, types, logger)
	return n, nil
}

// CreateNodeParams bundles CreateNode's optional arguments.
type CreateNodeParams struct {
	Name          string
	Uid           string // caller-chosen uid; auto-assigned from the NodeId if empty
	Position      [3]float64
	DataSource    string // for Sensor nodes
	DataTarget    string // for Actor nodes
	GateOverrides map[string]nettype.GateDef
}

// CreateNode allocates a node of the given type inside nodespace, applying
// type defaults and any per-gate overrides.
func (n *Nodenet) CreateNode(typ nettype.Type, nodespace core.NodespaceId, params CreateNodeParams) (string, error) {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	return n.createNodeLocked(typ, nodespace, params)
}

func (n *Nodenet) createNodeLocked(typ nettype.Type, nodespace core.NodespaceId, params CreateNodeParams) (string, error) {
	def, err := n.Types.Lookup(typ)
	if err != nil {
		return "", err
	}
	if params.Uid != "" {
		if id, ok := n.resolveNodeUidLocked(params.Uid); ok && int(id) < len(n.Arena.AllocatedNodes) && n.Arena.AllocatedNodes[id] != 0 {
			return "", core.Errorf(core.DuplicateUid, "node uid %q already in use", params.Uid)
		}
	}

	id, offset, err := n.Arena.AllocateNode(def.ElementCount())
	if err != nil {
		return "", err
	}
	n.Arena.AllocatedNodes[id] = uint16(typ)
	n.Arena.AllocatedNodeParents[id] = nodespace

	for i, g := range def.Gatetypes {
		e := int(offset) + i
		gd := g
		if override, ok := params.GateOverrides[g.Name]; ok {
			gd = override
		}
		n.Arena.GMin[e] = gd.Minimum
		n.Arena.GMax[e] = gd.Maximum
		n.Arena.GThreshold[e] = gd.Threshold
		n.Arena.GAmplification[e] = gd.Amplification
		n.Arena.GDecay[e] = gd.Decay
		if gd.Amplification == 0 {
			n.Arena.GAmplification[e] = 1
		}
	}

	if typ == nettype.Pipe {
		for g := pipe.GEN; g < pipe.NumGates; g++ {
			n.Arena.NFunctionSel[int(offset)+int(g)] = int8(pipeFunctionFor(g))
		}
		n.inheritActivatorBindingsLocked(nodespace, offset)
	}

	if typ == nettype.Sensor {
		// Sensors have no natural incoming link; without a self-loop their
		// value would be wiped by the next Propagate's W*a pass the step
		// after writeSensorsLocked wrote it. The diagonal weight keeps a
		// written reading stable across the rest of the step pipeline.
		n.Matrix.SetWeight(offset, offset, 1.0)
	}

	uid := params.Uid
	if uid == "" {
		uid = core.NodeUid(id)
	}
	if params.Name != "" {
		n.names[id] = params.Name
	}
	n.positions[id] = params.Position

	if typ == nettype.Sensor && params.DataSource != "" {
		n.dataSource[id] = params.DataSource
		n.sensorMap[params.DataSource] = append(n.sensorMap[params.DataSource], id)
	}
	if typ == nettype.Actor && params.DataTarget != "" {
		n.dataTarget[id] = params.DataTarget
		n.actorMap[params.DataTarget] = append(n.actorMap[params.DataTarget], id)
	}

	return uid, nil
}

// pipeFunctionFor maps a pipe.Gate to its canonical pipe.Selector; the
// layout is fixed, so gate index and selector index coincide.
func pipeFunctionFor(g pipe.Gate) pipe.Selector { return pipe.Selector(g) }

// DeleteNode removes a node entirely: zeroes its elements, its incident
// links, its sensor/actor/activator registrations, and its name/position.
func (n *Nodenet) DeleteNode(uid string) error {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	return n.deleteNodeLocked(uid)
}

func (n *Nodenet) deleteNodeLocked(uid string) error {
	id, ok := n.resolveNodeUidLocked(uid)
	if !ok || n.Arena.AllocatedNodes[id] == 0 {
		return core.Errorf(core.UnknownUid, "no live node %q", uid)
	}
	typ := nettype.Type(n.Arena.AllocatedNodes[id])
	def, err := n.Types.Lookup(typ)
	if err != nil {
		return err
	}
	offset := n.Arena.AllocatedNodeOffsets[id]
	count := def.ElementCount()

	// Unbind the node wherever it serves as an activator.
	for d := range n.Arena.NodespaceDirActivators {
		for ns, act := range n.Arena.NodespaceDirActivators[d] {
			if act == id {
				n.Arena.NodespaceDirActivators[d][ns] = 0
			}
		}
	}
	for e, act := range n.Arena.ElementsToActivators {
		if act == offset {
			n.Arena.ElementsToActivators[e] = 0
		}
	}

	n.Matrix.ZeroNode(offset, count)
	n.Certainty.Clear(offset, count)
	n.Arena.FreeNode(id, count)

	delete(n.names, id)
	delete(n.positions, id)
	delete(n.views, id)
	if key, ok := n.dataSource[id]; ok {
		n.sensorMap[key] = removeID(n.sensorMap[key], id)
		delete(n.dataSource, id)
	}
	if key, ok := n.dataTarget[id]; ok {
		n.actorMap[key] = removeID(n.actorMap[key], id)
		delete(n.dataTarget, id)
	}
	return nil
}

func removeID(ids []core.NodeId, target core.NodeId) []core.NodeId {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// CreateNodespace allocates a fresh nodespace under parent.
func (n *Nodenet) CreateNodespace(parent core.NodespaceId) (string, error) {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	id, err := n.Arena.AllocateNodespace(parent)
	if err != nil {
		return "", err
	}
	return core.NodespaceUid(id), nil
}

// DeleteNodespace recursively deletes a nodespace: first its child
// nodespaces, then its contained nodes. Root may never be deleted.
func (n *Nodenet) DeleteNodespace(uid string) error {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	id, ok := core.ParseNodespaceUid(uid)
	if !ok || n.Arena.AllocatedNodespaces[id] == 0 {
		return core.Errorf(core.UnknownUid, "no live nodespace %q", uid)
	}
	if id == core.Root {
		return core.Errorf(core.UnknownUid, "the root nodespace cannot be deleted")
	}
	return n.deleteNodespaceRecLocked(id)
}

func (n *Nodenet) deleteNodespaceRecLocked(id core.NodespaceId) error {
	for childID, parent := range n.Arena.AllocatedNodespaces {
		if core.NodespaceId(childID) == id || core.NodespaceId(childID) == 0 {
			continue
		}
		if parent == id {
			if err := n.deleteNodespaceRecLocked(core.NodespaceId(childID)); err != nil {
				return err
			}
		}
	}
	for nodeID, parent := range n.Arena.AllocatedNodeParents {
		if n.Arena.AllocatedNodes[nodeID] == 0 {
			continue
		}
		if parent == id {
			if err := n.deleteNodeLocked(core.NodeUid(core.NodeId(nodeID))); err != nil {
				return err
			}
		}
	}
	n.Arena.FreeNodespace(id)
	return nil
}

// resolveNodeUidLocked parses a uid into its NodeId. Non-canonical
// (caller-chosen) uids are tracked nowhere beyond the parse itself; this
// repository's uid space is exactly the arena's dense NodeId space.
func (n *Nodenet) resolveNodeUidLocked(uid string) (core.NodeId, bool) {
	return core.ParseNodeUid(uid)
}

// Step runs exactly one Propagate+Calculate cycle. It snapshots the world
// adapter, writes sensor values, runs the pipeline, reads actuator values
// back, and advances CurrentStep. The whole call holds netlock and is
// atomic with respect to every other exported method.
func (n *Nodenet) Step(ctx context.Context) error {
	n.netlock.Lock()
	defer n.netlock.Unlock()

	if err := n.World.Snapshot(ctx); err != nil {
		return err
	}
	n.writeSensorsLocked()
	n.stepEngine.Step()
	n.readActuatorsLocked()
	n.CurrentStep++
	return nil
}

func (n *Nodenet) writeSensorsLocked() {
	for key, ids := range n.sensorMap {
		v, ok := n.World.GetDataSource(n.UID, key)
		if !ok {
			v = 0
		}
		for _, id := range ids {
			offset := n.Arena.AllocatedNodeOffsets[id]
			n.Arena.A[offset] = v
		}
	}
}

func (n *Nodenet) readActuatorsLocked() {
	sums := make(map[string]float64, len(n.actorMap))
	for key, ids := range n.actorMap {
		var sum float64
		for _, id := range ids {
			offset := n.Arena.AllocatedNodeOffsets[id]
			sum += float64(n.Arena.A[offset])
		}
		sums[key] = sum
	}
	for key, sum := range sums {
		n.World.SetDataTarget(n.UID, key, sum)
	}
}

// GetModulator reads a global named scalar parameter, defaulting to 0.
func (n *Nodenet) GetModulator(name string) float64 {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	return n.modulators[name]
}

// SetModulator writes a global named scalar parameter.
func (n *Nodenet) SetModulator(name string, value float64) {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	n.modulators[name] = value
}

// NodespaceActivationSum computes the sum of GEN-gate activations of every
// node directly owned by nodespace, on demand rather than cached per step.
func (n *Nodenet) NodespaceActivationSum(nodespace core.NodespaceId) float64 {
	n.netlock.Lock()
	defer n.netlock.Unlock()
	var sum float64
	for nodeID, parent := range n.Arena.AllocatedNodeParents {
		if n.Arena.AllocatedNodes[nodeID] == 0 || parent != nodespace {
			continue
		}
		offset := n.Arena.AllocatedNodeOffsets[nodeID]
		sum += float64(n.Arena.A[offset])
	}
	return sum
}

// View returns the NodeView for uid, building and caching it on first
// access. The cache is invalidated by DeleteNode; callers that hold a
// NodeView across a delete will keep reading/writing a zeroed element run.
func (n *Nodenet) View(uid string) (*view.NodeView, error) {
	n.netlock.Lock()
	defer n.netlock.Unlock()

	id, ok := n.resolveNodeUidLocked(uid)
	if !ok || int(id) >= len(n.Arena.AllocatedNodes) || n.Arena.AllocatedNodes[id] == 0 {
		return nil, core.Errorf(core.UnknownUid, "no live node %q", uid)
	}
	if v, cached := n.views[id]; cached {
		return v, nil
	}
	typ := nettype.Type(n.Arena.AllocatedNodes[id])
	def, err := n.Types.Lookup(typ)
	if err != nil {
		return nil, err
	}
	v := view.New(uid, id, n.Arena.AllocatedNodeOffsets[id], def, n.Arena)
	n.views[id] = v
	return v, nil
}

// sortedNodeIds is a small helper used by group construction to produce
// deterministic, reproducible group element orderings.
func sortedNodeIds(ids []core.NodeId) []core.NodeId {
	out := append([]core.NodeId(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
