package animgraph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrType           = errors.New("type mismatch")
	ErrCyclicGraph    = errors.New("cyclic graph")
	ErrUnlinked       = errors.New("unlinked node")
	ErrUnknownVariant = errors.New("unknown variant")
	ErrLinkIndex      = errors.New("link index out of range")
	ErrDisposed       = errors.New("node disposed")
	ErrInUse          = errors.New("node still referenced")
	ErrDuplicateID    = errors.New("duplicate id")
	ErrNotFound       = errors.New("not found")
	ErrInvalidID      = errors.New("invalid id")
)

// TypeError reports a value or node whose type does not fit where it was put.
type TypeError struct {
	Op       string
	Expected *Type
	Actual   *Type
}

func (e *TypeError) Error() string {
	if e.Expected == nil {
		return fmt.Sprintf("animgraph: %s: %s: %s not accepted", e.Op, ErrType, e.Actual)
	}
	return fmt.Sprintf("animgraph: %s: %s: expected %s, got %s", e.Op, ErrType, e.Expected, e.Actual)
}

func (e *TypeError) Unwrap() error { return ErrType }

// CyclicGraphError reports a link that would make a node reach itself.
// Path lists the nodes from the parent back to itself.
type CyclicGraphError struct {
	Path []string
}

func (e *CyclicGraphError) Error() string {
	if len(e.Path) == 0 {
		return "animgraph: " + ErrCyclicGraph.Error()
	}
	return fmt.Sprintf("animgraph: %s: %s", ErrCyclicGraph, strings.Join(e.Path, " -> "))
}

func (e *CyclicGraphError) Unwrap() error { return ErrCyclicGraph }

// UnlinkedNodeError reports an empty required slot found while evaluating.
type UnlinkedNodeError struct {
	Node string
	Slot string
}

func (e *UnlinkedNodeError) Error() string {
	return fmt.Sprintf("animgraph: %s: %s has no %q", ErrUnlinked, e.Node, e.Slot)
}

func (e *UnlinkedNodeError) Unwrap() error { return ErrUnlinked }

// UnknownVariantError reports a factory lookup for an unregistered variant.
type UnknownVariantError struct {
	Name string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("animgraph: %s %q", ErrUnknownVariant, e.Name)
}

func (e *UnknownVariantError) Unwrap() error { return ErrUnknownVariant }

func linkIndexError(label string, i, count int) error {
	return fmt.Errorf("animgraph: %s: %w: %d not in [0,%d)", label, ErrLinkIndex, i, count)
}
