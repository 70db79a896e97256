// Package world defines the collaborator contract a nodenet's sensors and
// actuators are wired to. The engine never implements an adapter itself —
// only the interface; concrete adapters (robot I/O, a simulated
// environment, a test double) live outside this module.
package world

import "context"

// Adapter is the external world a nodenet's Sensor and Actor nodes read
// from and write to.
type Adapter interface {
	// GetDataSource returns the current value of a named data source for a
	// nodenet, and whether that source exists. A false ok is treated as 0
	// by the engine.
	GetDataSource(nodenetUID, key string) (value float64, ok bool)
	// SetDataTarget delivers a value to a named data target.
	SetDataTarget(nodenetUID, key string, value float64)
	// Snapshot is called once at the top of every step, before sensor
	// values are read, so an adapter can advance its own simulation clock.
	Snapshot(ctx context.Context) error
}

// Null is a zero-value Adapter: every data source reads as absent, every
// data target write is discarded. Useful for engines with no sensors/actors
// wired, and as a test double base.
type Null struct{}

func (Null) GetDataSource(string, string) (float64, bool) { return 0, false }
func (Null) SetDataTarget(string, string, float64)         {}
func (Null) Snapshot(context.Context) error                { return nil }
