// Package gates implements the fixed gate-transfer-function library and the
// output shaping pipeline every element runs after propagation.
//
// Grounded on the named-function-registry idiom of the example pack's NEAT
// activation table (a map[string]func(float64, ...float64) float64 indexed
// by a string selector), adapted here to the engine's fixed int8 selector
// codes instead of an open string-keyed set.
package gates

import "math"

// Selector names the six gate transfer functions. Stored as int8 in the
// arena's GFunctionSel vector.
type Selector int8

const (
	Identity Selector = iota
	Absolute
	Sigmoid
	Tanh
	Rect
	OneOverX
)

// Fn computes the raw transfer function value for input x, given the
// element's theta parameter (only sigmoid/tanh/rect use it).
func (s Selector) Fn(x, theta float64) float64 {
	switch s {
	case Identity:
		return x
	case Absolute:
		return math.Abs(x)
	case Sigmoid:
		return 1 / (1 + math.Exp(-(x - theta)))
	case Tanh:
		return math.Tanh(x - theta)
	case Rect:
		return math.Max(0, x-theta)
	case OneOverX:
		if x == 0 {
			return 0
		}
		return 1 / x
	default:
		return x
	}
}

// Params bundles the per-element shaping parameters read from the arena.
type Params struct {
	Threshold      float64
	Amplification  float64
	Min, Max       float64
	Decay          float64
	GateFactor     float64 // 1.0 when no activator is bound
	PreviousOutput float64 // for decay blending
}

// Shape runs the four-step output pipeline described in the gate-function
// section: threshold·amplification, activator gating (with zero
// short-circuit), optional decay blend, then clamp.
func Shape(raw float64, p Params) float64 {
	y := math.Max(p.Threshold, raw) * p.Amplification

	if p.GateFactor == 0 {
		return 0
	}
	y *= p.GateFactor

	if p.Decay > 0 {
		bound := p.PreviousOutput * (1 - p.Decay)
		if y > 0 && y > bound && bound >= 0 {
			y = bound
		} else if y < 0 && y < bound && bound <= 0 {
			y = bound
		}
	}

	if y < p.Min {
		y = p.Min
	}
	if y > p.Max {
		y = p.Max
	}
	return y
}

// Apply runs Fn then Shape in one call, the full gate pipeline for one
// element given its post-propagation activation.
func Apply(sel Selector, x, theta float64, p Params) float64 {
	return Shape(sel.Fn(x, theta), p)
}
