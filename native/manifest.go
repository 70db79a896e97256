// Package native loads native-module manifests and holds the closed
// registry of Go callables they may reference as a nodefunction.
//
// Manifests are YAML rather than the engine's own INI configuration
// (config package) because a native module's shape — a slot name list and
// a gate list whose entries carry their own shaping parameters — nests
// more naturally than flat INI sections; see DESIGN.md for the full
// justification.
package native

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/nettype"
	"github.com/nnengine/nodenet/pipe"
)

// GateSpec is one gate entry of a manifest.
type GateSpec struct {
	Name          string  `yaml:"name"`
	Minimum       float64 `yaml:"minimum"`
	Maximum       float64 `yaml:"maximum"`
	Threshold     float64 `yaml:"threshold"`
	Amplification float64 `yaml:"amplification"`
	Decay         float64 `yaml:"decay"`
}

// Manifest is the on-disk shape of a native module declaration.
type Manifest struct {
	Name         string     `yaml:"name"`
	TypeCode     uint16     `yaml:"typecode"`
	Slottypes    []string   `yaml:"slottypes"`
	Gatetypes    []GateSpec `yaml:"gatetypes"`
	Nodefunction string     `yaml:"nodefunction"`
}

// LoadManifests reads and parses every YAML manifest file in paths,
// returning their nettype.TypeDef form ready for Registry.Install.
func LoadManifests(paths []string) ([]nettype.TypeDef, error) {
	defs := make([]nettype.TypeDef, 0, len(paths))
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, core.Wrap(core.InvalidConfig, err, "reading native manifest %s", p)
		}
		var m Manifest
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return nil, core.Wrap(core.InvalidConfig, err, "parsing native manifest %s", p)
		}
		if m.Nodefunction != "" {
			if _, ok := Lookup(m.Nodefunction); !ok {
				return nil, core.Errorf(core.InvalidConfig, "manifest %s references unregistered nodefunction %q", p, m.Nodefunction)
			}
		}
		gates := make([]nettype.GateDef, len(m.Gatetypes))
		for i, g := range m.Gatetypes {
			gates[i] = nettype.GateDef{
				Name: g.Name, Minimum: g.Minimum, Maximum: g.Maximum,
				Threshold: g.Threshold, Amplification: g.Amplification, Decay: g.Decay,
			}
		}
		defs = append(defs, nettype.TypeDef{
			Type:         nettype.Type(m.TypeCode),
			Name:         m.Name,
			Slottypes:    m.Slottypes,
			Gatetypes:    gates,
			Nodefunction: m.Nodefunction,
		})
	}
	return defs, nil
}

// registry is the closed set of Go callables a manifest's nodefunction
// field may name. Native node functions are never dynamically compiled
// (see the Open Question resolution in SPEC_FULL.md §9); they must be
// registered here before any manifest referencing them is loaded.
var registry = map[string]pipe.NodeFunc{}

// RegisterFunc installs a named node function callable, making it a valid
// nodefunction target for native manifests.
func RegisterFunc(name string, fn pipe.NodeFunc) {
	registry[name] = fn
}

// Lookup resolves a registered node function by name.
func Lookup(name string) (pipe.NodeFunc, bool) {
	fn, ok := registry[name]
	return fn, ok
}
