package animgraph

import (
	"fmt"

	"github.com/google/uuid"
)

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic: graphs are edited on one goroutine).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is a value-producing vertex of the graph. Evaluate is a pure function
// of the node's own state and its children evaluated at t.
type Node interface {
	// ID is a process-unique identifier for UI correlation.
	ID() uint32
	// GUID identifies the node across sessions.
	GUID() uuid.UUID
	// Type is the output type, fixed for the node's lifetime.
	Type() *Type
	// VariantName is the registry name of the concrete variant.
	VariantName() string
	// Evaluate returns the node's value at t.
	Evaluate(t Time) (Value, error)
	// Times returns the node's interesting instants (waypoints, activepoints)
	// gathered transitively from its children.
	Times() TimeSet
	// ValueChangeTimes adds the instants at which the output is discontinuous.
	ValueChangeTimes(out *TimeSet)
	// RefCount is the number of graph owners (parent slots, canvases, layers)
	// currently holding the node.
	RefCount() int
	// Dispose releases the node's own child references. It fails with
	// ErrInUse while any owner still holds the node.
	Dispose() error
	IsDisposed() bool
}

// Linkable is a node whose output is computed from child links.
type Linkable interface {
	Node
	// LinkCount returns the number of slots.
	LinkCount() int
	// Link returns the child in slot i for inspection, or nil if empty.
	Link(i int) Node
	// LinkIndex returns the slot with the given name, or -1.
	LinkIndex(name string) int
	// SetLink replaces slot i. Rejected links leave the node unchanged.
	// It reports whether the slot changed.
	SetLink(i int, child Node) (bool, error)
	// Vocab describes the slots. The returned slice MUST NOT be mutated.
	Vocab() Vocab
	// UnlinkAll releases every child.
	UnlinkAll()
}

// refCounter is implemented by nodes tracking their graph owners.
type refCounter interface {
	retain()
	release()
}

func retain(n Node) {
	if rc, ok := n.(refCounter); ok {
		rc.retain()
	}
}

func release(n Node) {
	if rc, ok := n.(refCounter); ok {
		rc.release()
	}
}

// nodeBase holds the state shared by every variant.
type nodeBase struct {
	id       uint32
	guid     uuid.UUID
	typ      *Type
	variant  string
	refs     int
	disposed bool
}

func newNodeBase(variant string, typ *Type) nodeBase {
	return nodeBase{
		id:      nextNodeID(),
		guid:    uuid.New(),
		typ:     typ,
		variant: variant,
	}
}

func (b *nodeBase) ID() uint32          { return b.id }
func (b *nodeBase) GUID() uuid.UUID     { return b.guid }
func (b *nodeBase) Type() *Type         { return b.typ }
func (b *nodeBase) VariantName() string { return b.variant }
func (b *nodeBase) RefCount() int       { return b.refs }
func (b *nodeBase) IsDisposed() bool    { return b.disposed }

func (b *nodeBase) retain() { b.refs++ }

func (b *nodeBase) release() {
	if b.refs > 0 {
		b.refs--
	}
}

// label names the node in errors, e.g. "scale#12".
func (b *nodeBase) label() string {
	return nodeLabel(b.variant, b.id)
}

func nodeLabel(variant string, id uint32) string {
	return fmt.Sprintf("%s#%d", variant, id)
}

// checkDispose guards Dispose for every variant.
func (b *nodeBase) checkDispose() error {
	if b.refs > 0 {
		return fmt.Errorf("animgraph: dispose %s: %w (%d owners)", b.label(), ErrInUse, b.refs)
	}
	return nil
}

func labelOf(n Node) string {
	return nodeLabel(n.VariantName(), n.ID())
}
