// Package step implements the two fixed-priority operators that make up
// one simulation step: Propagate then Calculate.
//
// Grounded on this codebase's runtime.Engine.Run single-pass dispatch loop
// (a kernel-catalog lookup per element, invoked in sequence, with stats
// bookkeeping), retargeted here from an opcode-addressed SIMD kernel
// catalog to the two-operator propagate/calculate pipeline a nodenet step
// actually runs.
package step

import (
	"log"

	"github.com/nnengine/nodenet/arena"
	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/gates"
	"github.com/nnengine/nodenet/native"
	"github.com/nnengine/nodenet/nettype"
	"github.com/nnengine/nodenet/pipe"
	"github.com/nnengine/nodenet/weights"
)

// Engine runs Propagate and Calculate against a shared arena, weight
// matrix, and type registry. It owns one scratch buffer so Propagate never
// allocates per step.
type Engine struct {
	Arena    *arena.Arena[float64]
	Matrix   weights.Matrix
	Types    *nettype.Registry
	Logger   *log.Logger

	scratch []float64
}

// NewEngine builds a step Engine. A nil logger defaults to log.Default().
func NewEngine(a *arena.Arena[float64], m weights.Matrix, types *nettype.Registry, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{Arena: a, Matrix: m, Types: types, Logger: logger, scratch: make([]float64, a.MaxElements())}
}

// Step runs Propagate followed by Calculate, the full per-tick operator
// pipeline. Propagate always strictly precedes Calculate within a step.
func (e *Engine) Step() {
	e.Propagate()
	e.Calculate()
}

// Propagate computes a <- W*a in place, using the engine's scratch buffer
// so the read and write vectors never alias mid-computation.
func (e *Engine) Propagate() {
	a := toFloat64(e.Arena.A)
	e.Matrix.Propagate(a, e.scratch)
	copy(a, e.scratch)
}

// Calculate applies each live element's node function then gate function,
// writing the result back into a. A panic or NodefunctionError raised by a
// native node function is trapped per element: the offending element's
// activation is forced to 0 and the step continues (see SPEC_FULL.md §7).
func (e *Engine) Calculate() {
	a := e.Arena.A
	for elem := 0; elem < len(a); elem++ {
		nodeID := e.Arena.ElementsToNodes[elem]
		if nodeID == 0 {
			continue
		}
		e.calculateElement(core.ElementIndex(elem), nodeID)
	}
}

func (e *Engine) calculateElement(elem core.ElementIndex, nodeID core.NodeId) {
	defer func() {
		if r := recover(); r != nil {
			e.Logger.Printf("nodenet: trapped nodefunction error at element %d (node %s): %v", elem, core.NodeUid(nodeID), r)
			e.Arena.A[elem] = 0
		}
	}()

	typeCode := nettype.Type(e.Arena.AllocatedNodes[nodeID])
	def, err := e.Types.Lookup(typeCode)
	if err != nil {
		e.Logger.Printf("nodenet: %v", err)
		e.Arena.A[elem] = 0
		return
	}

	offset := e.Arena.AllocatedNodeOffsets[nodeID]
	gateIdx := pipe.Gate(int(elem) - int(offset))
	raw := float64(e.Arena.A[elem])

	if len(def.Gatetypes) == 0 {
		// Slot-only types (Actor) have nothing to gate: the propagated sum
		// received through their slots is the element's value as-is.
		e.Arena.A[elem] = raw
		return
	}

	nodeOut := raw
	switch {
	case typeCode == nettype.Pipe:
		sib := pipe.Siblings(toFloat64(e.Arena.A), offset)
		in := pipe.Inputs{
			Porlinked: e.Arena.NPorlinked[elem] != 0,
			Retlinked: e.Arena.NRetlinked[elem] != 0,
		}
		nodeOut = pipe.Run(pipe.Selector(e.Arena.NFunctionSel[elem]), sib, gateIdx, in)
	case def.Nodefunction != "":
		if fn, ok := native.Lookup(def.Nodefunction); ok {
			sib := pipe.Siblings(toFloat64(e.Arena.A), offset)
			in := pipe.Inputs{
				Porlinked: e.Arena.NPorlinked[elem] != 0,
				Retlinked: e.Arena.NRetlinked[elem] != 0,
			}
			nodeOut = fn(sib, gateIdx, in)
		}
	}

	sel := gates.Selector(e.Arena.GFunctionSel[elem])
	gateFactor := 1.0
	if act := e.Arena.ElementsToActivators[elem]; act != 0 {
		gateFactor = float64(e.Arena.A[act])
	}
	params := gates.Params{
		Threshold:      float64(e.Arena.GThreshold[elem]),
		Amplification:  float64(e.Arena.GAmplification[elem]),
		Min:            float64(e.Arena.GMin[elem]),
		Max:            float64(e.Arena.GMax[elem]),
		Decay:          float64(e.Arena.GDecay[elem]),
		GateFactor:     gateFactor,
		PreviousOutput: raw,
	}
	out := gates.Apply(sel, nodeOut, float64(e.Arena.GTheta[elem]), params)
	e.Arena.A[elem] = out
}

func toFloat64(v arena.FloatVector[float64]) []float64 { return v }
