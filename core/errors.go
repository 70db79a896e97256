package core

import (
	"errors"
	"fmt"
)

// Kind classifies the failure modes the engine's public API can return.
type Kind int

const (
	// CapacityExhausted means the arena has no free id/element run left.
	CapacityExhausted Kind = iota
	// DuplicateUid means CreateNode was given a uid already in use, or a
	// native module type code is already registered.
	DuplicateUid
	// UnknownType means a node type code is neither standard nor a registered native module.
	UnknownType
	// UnknownUid means a uid does not resolve to a live node/nodespace.
	UnknownUid
	// UnknownGate means a gate name is not defined for the node's type.
	UnknownGate
	// UnknownSlot means a slot name is not defined for the node's type.
	UnknownSlot
	// InvalidPersistence means a save/load operation found corrupt or missing required data.
	InvalidPersistence
	// InvalidConfig means a configuration file failed validation.
	InvalidConfig
	// NodefunctionError wraps a panic/error raised by a node or gate function during a step.
	NodefunctionError
)

func (k Kind) String() string {
	switch k {
	case CapacityExhausted:
		return "capacity exhausted"
	case DuplicateUid:
		return "duplicate uid"
	case UnknownType:
		return "unknown type"
	case UnknownUid:
		return "unknown uid"
	case UnknownGate:
		return "unknown gate"
	case UnknownSlot:
		return "unknown slot"
	case InvalidPersistence:
		return "invalid persistence"
	case InvalidConfig:
		return "invalid config"
	case NodefunctionError:
		return "nodefunction error"
	default:
		return "unknown error kind"
	}
}

// Error is the single error type returned across package boundaries. Callers
// discriminate on Kind with errors.As rather than matching sentinel values.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind around a lower-level cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
