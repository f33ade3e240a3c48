package animgraph

import "fmt"

// ValueDesc locates a value in the graph: a layer parameter, a link of a
// parent node, or an exported value. It holds no ownership and resolves its
// target on every call, so it stays correct only while the structure it
// names exists. Build a new one after structural edits.
type ValueDesc struct {
	layer  *Layer
	param  string
	parent Linkable
	index  int
	canvas *Canvas
	export string
}

// LayerParam locates parameter name of layer l.
func LayerParam(l *Layer, name string) ValueDesc {
	return ValueDesc{layer: l, param: name, index: -1}
}

// LinkOf locates slot i of parent.
func LinkOf(parent Linkable, i int) ValueDesc {
	return ValueDesc{parent: parent, index: i}
}

// ExportedValue locates the value c exports as id.
func ExportedValue(c *Canvas, id string) ValueDesc {
	return ValueDesc{canvas: c, export: id, index: -1}
}

// Node resolves the located node, or nil if the location is empty.
func (d ValueDesc) Node() Node {
	switch {
	case d.layer != nil:
		n, _ := d.layer.Param(d.param)
		return n
	case d.parent != nil:
		return d.parent.Link(d.index)
	case d.canvas != nil:
		n, _ := d.canvas.Lookup(d.export)
		return n
	}
	return nil
}

// IsValid reports whether the location currently resolves to a node.
func (d ValueDesc) IsValid() bool {
	return d.Node() != nil
}

// Type returns the located node's type, or nil.
func (d ValueDesc) Type() *Type {
	if n := d.Node(); n != nil {
		return n.Type()
	}
	return nil
}

// Value evaluates the located node at t.
func (d ValueDesc) Value(t Time) (Value, error) {
	n := d.Node()
	if n == nil {
		return nil, &UnlinkedNodeError{Node: d.String(), Slot: d.slotName()}
	}
	return n.Evaluate(t)
}

// Parent returns the parent node for link locations.
func (d ValueDesc) Parent() Linkable { return d.parent }

// Index returns the slot for link locations, or -1.
func (d ValueDesc) Index() int { return d.index }

// ParamName returns the parameter for layer locations.
func (d ValueDesc) ParamName() string { return d.param }

// ParentIsDynamicList reports whether the location is an entry of a
// dynamic list.
func (d ValueDesc) ParentIsDynamicList() bool {
	_, ok := d.parent.(*DynamicList)
	return ok
}

func (d ValueDesc) entry() *ListEntry {
	if l, ok := d.parent.(*DynamicList); ok {
		return l.EntryAt(d.index)
	}
	return nil
}

// Times returns the located value's interesting instants. Entries of a
// dynamic list add their activepoint times.
func (d ValueDesc) Times() TimeSet {
	if e := d.entry(); e != nil {
		return e.Times()
	}
	return Times(d.Node())
}

// ChangeTimes returns the located value's change times.
func (d ValueDesc) ChangeTimes() TimeSet {
	return ValueChangeTimes(d.Node())
}

// ActiveIntervals returns when a dynamic-list entry is on. Other locations
// are always active and return nil.
func (d ValueDesc) ActiveIntervals() []Interval {
	if e := d.entry(); e != nil {
		return e.ActiveIntervals()
	}
	return nil
}

// Replace binds n at the location.
func (d ValueDesc) Replace(n Node) error {
	switch {
	case d.layer != nil:
		return d.layer.SetParam(d.param, n)
	case d.parent != nil:
		_, err := d.parent.SetLink(d.index, n)
		return err
	case d.canvas != nil:
		if _, ok := d.canvas.Lookup(d.export); ok {
			return d.canvas.Rebind(d.export, n)
		}
		return d.canvas.Export(d.export, n)
	}
	return fmt.Errorf("animgraph: replace through an empty ValueDesc: %w", ErrNotFound)
}

func (d ValueDesc) slotName() string {
	switch {
	case d.layer != nil:
		return d.param
	case d.parent != nil:
		if i := d.index; i >= 0 && i < d.parent.LinkCount() {
			return d.parent.Vocab()[i].Name
		}
		return fmt.Sprintf("#%d", d.index)
	}
	return d.export
}

func (d ValueDesc) String() string {
	switch {
	case d.layer != nil:
		return fmt.Sprintf("layer %q param %q", d.layer.Name, d.param)
	case d.parent != nil:
		return fmt.Sprintf("%s.%s", labelOf(d.parent), d.slotName())
	case d.canvas != nil:
		return fmt.Sprintf("canvas %q export %q", d.canvas.Name, d.export)
	}
	return "<empty>"
}
