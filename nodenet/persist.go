package nodenet

import (
	"fmt"
	"log"

	"github.com/nnengine/nodenet/config"
	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/persist"
	"github.com/nnengine/nodenet/step"
	"github.com/nnengine/nodenet/world"
)

// Save writes metaPath and archivePath for this nodenet, per the
// EXTERNAL INTERFACES persisted-state contract.
func (n *Nodenet) Save(metaPath, archivePath string) error {
	n.netlock.Lock()
	defer n.netlock.Unlock()

	positions := make(map[string][3]float64, len(n.positions))
	for id, p := range n.positions {
		positions[core.NodeUid(id)] = p
	}
	names := make(map[string]string, len(n.names))
	for id, name := range n.names {
		names[core.NodeUid(id)] = name
	}
	actuatormap := make(map[string][]uint32, len(n.actorMap))
	for key, ids := range n.actorMap {
		for _, id := range ids {
			actuatormap[key] = append(actuatormap[key], uint32(id))
		}
	}
	sensormap := make(map[string][]uint32, len(n.sensorMap))
	for key, ids := range n.sensorMap {
		for _, id := range ids {
			sensormap[key] = append(sensormap[key], uint32(id))
		}
	}

	meta := persist.Metadata{
		UID:          n.UID,
		Name:         n.Name,
		Worldadapter: fmt.Sprintf("%T", n.World),
		Positions:    positions,
		Names:        names,
		Actuatormap:  actuatormap,
		Sensormap:    sensormap,
		Modulators:   n.modulators,
	}

	return persist.Save(metaPath, meta, archivePath, persist.Archive{
		Arena:     n.Arena,
		Matrix:    n.Matrix,
		Certainty: n.Certainty,
	})
}

// Load builds a Nodenet from a previously Saved metadata/archive pair. cfg
// sizes the fresh arena/matrix before the archive's own arrays are copied
// in; a zero cfg uses config.Default().
func Load(metaPath, archivePath string, cfg *config.Config, adapter world.Adapter, logger *log.Logger) (*Nodenet, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	sparse := cfg.Engine.MatrixMode == "sparse"
	meta, arc, defaulted, err := persist.Load(metaPath, archivePath, cfg.Arena.MaxNodes, cfg.Arena.MaxElements, cfg.Arena.MaxNodespaces, sparse)
	if err != nil {
		return nil, err
	}

	n, err := New(Options{UID: meta.UID, Name: meta.Name, Config: cfg, World: adapter, Logger: logger})
	if err != nil {
		return nil, err
	}
	for _, member := range defaulted {
		n.Logger.Printf("nodenet: archive %s: member %s missing or corrupt, using defaults", archivePath, member)
	}
	n.Arena = arc.Arena
	n.Matrix = arc.Matrix
	n.Certainty = arc.Certainty
	n.stepEngine = step.NewEngine(n.Arena, n.Matrix, n.Types, n.Logger)

	for uid, p := range meta.Positions {
		if id, ok := core.ParseNodeUid(uid); ok {
			n.positions[id] = p
		}
	}
	for uid, name := range meta.Names {
		if id, ok := core.ParseNodeUid(uid); ok {
			n.names[id] = name
		}
	}
	for key, ids := range meta.Sensormap {
		for _, raw := range ids {
			id := core.NodeId(raw)
			n.sensorMap[key] = append(n.sensorMap[key], id)
			n.dataSource[id] = key
		}
	}
	for key, ids := range meta.Actuatormap {
		for _, raw := range ids {
			id := core.NodeId(raw)
			n.actorMap[key] = append(n.actorMap[key], id)
			n.dataTarget[id] = key
		}
	}
	if meta.Modulators != nil {
		n.modulators = meta.Modulators
	}
	return n, nil
}
