// Package nettype defines the closed catalog of standard node types plus
// the extension point native modules register into.
//
// Grounded on baldhumanity-neat-go's neat/config.go struct-tag-bound
// configuration records, adapted here from an INI-loaded tuning struct to a
// type-code-indexed registry table built once at startup.
package nettype

import "github.com/nnengine/nodenet/core"

// Type is the node type code. Standard types occupy the low codes; native
// modules register codes above MaxStandard.
type Type uint16

const (
	Register Type = iota + 1
	Sensor
	Actor
	Concept
	Pipe
	Activator

	// MaxStandard is the highest standard type code; native modules must
	// register codes strictly greater than this.
	MaxStandard = Activator
)

// GateDef is one gate's default shaping parameters.
type GateDef struct {
	Name          string
	Minimum       float64
	Maximum       float64
	Threshold     float64
	Amplification float64
	Decay         float64
}

// TypeDef describes one node type's fixed slot/gate layout and defaults.
type TypeDef struct {
	Type        Type
	Name        string
	Slottypes   []string
	Gatetypes   []GateDef
	Nodefunction string // empty for standard types; a name registered with native.RegisterFunc otherwise
}

// ElementCount is the number of per-element vector slots this type
// reserves: max(len(Slottypes), len(Gatetypes)), never less than 1.
func (d TypeDef) ElementCount() int {
	n := len(d.Slottypes)
	if len(d.Gatetypes) > n {
		n = len(d.Gatetypes)
	}
	if n == 0 {
		n = 1
	}
	return n
}

// pipeGates is the fixed seven-gate layout shared by every Pipe-family type.
var pipeGates = []GateDef{
	{Name: "gen", Minimum: -1, Maximum: 1, Amplification: 1},
	{Name: "por", Minimum: -1, Maximum: 1, Amplification: 1},
	{Name: "ret", Minimum: -1, Maximum: 1, Amplification: 1},
	{Name: "sub", Minimum: -1, Maximum: 1, Amplification: 1},
	{Name: "sur", Minimum: -1, Maximum: 1, Amplification: 1},
	{Name: "cat", Minimum: -1, Maximum: 1, Amplification: 1},
	{Name: "exp", Minimum: -1, Maximum: 1, Amplification: 1},
}

// standard is the closed table of built-in node types.
var standard = map[Type]TypeDef{
	Register:  {Type: Register, Name: "Register", Slottypes: []string{"gen"}, Gatetypes: []GateDef{{Name: "gen", Minimum: -1, Maximum: 1, Amplification: 1}}},
	Sensor:    {Type: Sensor, Name: "Sensor", Slottypes: nil, Gatetypes: []GateDef{{Name: "gen", Minimum: -1, Maximum: 1, Amplification: 1}}},
	Actor:     {Type: Actor, Name: "Actor", Slottypes: []string{"gen"}, Gatetypes: nil},
	Concept:   {Type: Concept, Name: "Concept", Slottypes: []string{"gen"}, Gatetypes: []GateDef{{Name: "gen", Minimum: -1, Maximum: 1, Amplification: 1}}},
	Pipe:      {Type: Pipe, Name: "Pipe", Slottypes: []string{"gen", "por", "ret", "sub", "sur", "cat", "exp"}, Gatetypes: pipeGates},
	Activator: {Type: Activator, Name: "Activator", Slottypes: []string{"gen"}, Gatetypes: []GateDef{{Name: "gen", Minimum: 0, Maximum: 1, Amplification: 1}}},
}

// Registry resolves a Type to its TypeDef, combining the closed standard
// table with any native modules installed at construction time.
type Registry struct {
	defs map[Type]TypeDef
	byName map[string]Type
}

// NewRegistry builds a Registry seeded with the standard types.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[Type]TypeDef, len(standard)+4), byName: make(map[string]Type, len(standard)+4)}
	for t, d := range standard {
		r.defs[t] = d
		r.byName[d.Name] = t
	}
	return r
}

// Install registers a native module's TypeDef. Its Type code must exceed
// MaxStandard and must not already be in use.
func (r *Registry) Install(def TypeDef) error {
	if def.Type <= MaxStandard {
		return core.Errorf(core.InvalidConfig, "native module %q must use a type code above %d, got %d", def.Name, MaxStandard, def.Type)
	}
	if _, exists := r.defs[def.Type]; exists {
		return core.Errorf(core.DuplicateUid, "native module type code %d already registered", def.Type)
	}
	r.defs[def.Type] = def
	r.byName[def.Name] = def.Type
	return nil
}

// Lookup returns the TypeDef for a Type code.
func (r *Registry) Lookup(t Type) (TypeDef, error) {
	d, ok := r.defs[t]
	if !ok {
		return TypeDef{}, core.Errorf(core.UnknownType, "no type registered for code %d", t)
	}
	return d, nil
}

// ByName resolves a type by its display name (standard or native).
func (r *Registry) ByName(name string) (TypeDef, error) {
	t, ok := r.byName[name]
	if !ok {
		return TypeDef{}, core.Errorf(core.UnknownType, "no type registered with name %q", name)
	}
	return r.Lookup(t)
}

// GateIndex returns the element offset of a named gate within a TypeDef's
// layout, or UnknownGate.
func (d TypeDef) GateIndex(name string) (int, error) {
	for i, g := range d.Gatetypes {
		if g.Name == name {
			return i, nil
		}
	}
	return 0, core.Errorf(core.UnknownGate, "type %q has no gate %q", d.Name, name)
}

// SlotIndex returns the element offset of a named slot within a TypeDef's
// layout, or UnknownSlot.
func (d TypeDef) SlotIndex(name string) (int, error) {
	for i, s := range d.Slottypes {
		if s == name {
			return i, nil
		}
	}
	return 0, core.Errorf(core.UnknownSlot, "type %q has no slot %q", d.Name, name)
}
