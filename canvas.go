package animgraph

import (
	"fmt"
	"slices"
	"strings"
)

// Canvas is the top-level owner of a scene's graph. It holds exported nodes
// by ID and an ordered stack of layers. Everything it holds counts as one
// owner in the nodes' RefCount.
type Canvas struct {
	Name string

	exported map[string]Node
	order    []string
	layers   []*Layer
}

// NewCanvas returns an empty canvas.
func NewCanvas(name string) *Canvas {
	return &Canvas{Name: name, exported: map[string]Node{}}
}

// --- Exported values ---

// Export publishes n under id so several parameters can share it. IDs
// starting with "_" are reserved for unexported nodes in scene files.
func (c *Canvas) Export(id string, n Node) error {
	if id == "" || strings.HasPrefix(id, "_") {
		return fmt.Errorf("animgraph: export %q in canvas %q: %w", id, c.Name, ErrInvalidID)
	}
	if err := checkExport(id, nil, n); err != nil {
		return err
	}
	if _, dup := c.exported[id]; dup {
		return fmt.Errorf("animgraph: export %q in canvas %q: %w", id, c.Name, ErrDuplicateID)
	}
	retain(n)
	c.exported[id] = n
	c.order = append(c.order, id)
	return nil
}

// Rebind replaces the node exported as id, keeping its place in export
// order. The new node must fit the old one's type.
func (c *Canvas) Rebind(id string, n Node) error {
	if globalDebug {
		debugCheckEditor("Rebind")
	}
	old, ok := c.exported[id]
	if !ok {
		return fmt.Errorf("animgraph: rebind %q in canvas %q: %w", id, c.Name, ErrNotFound)
	}
	if err := checkExport(id, old.Type(), n); err != nil {
		return err
	}
	if old == n {
		return nil
	}
	retain(n)
	release(old)
	c.exported[id] = n
	return nil
}

func checkExport(id string, declared *Type, n Node) error {
	if n == nil {
		return &TypeError{Op: "export " + id, Expected: declared}
	}
	if n.IsDisposed() {
		return fmt.Errorf("animgraph: export %q: %w", id, ErrDisposed)
	}
	if declared != nil && !IsConvertible(n.Type(), declared) {
		return &TypeError{Op: "export " + id, Expected: declared, Actual: n.Type()}
	}
	return nil
}

// Unexport removes id from the exported values. Parameters linked to the
// node keep it.
func (c *Canvas) Unexport(id string) error {
	n, ok := c.exported[id]
	if !ok {
		return fmt.Errorf("animgraph: unexport %q in canvas %q: %w", id, c.Name, ErrNotFound)
	}
	release(n)
	delete(c.exported, id)
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == id })
	return nil
}

// Lookup returns the node exported as id.
func (c *Canvas) Lookup(id string) (Node, bool) {
	n, ok := c.exported[id]
	return n, ok
}

// Exported returns the exported IDs in export order.
func (c *Canvas) Exported() []string {
	return slices.Clone(c.order)
}

// IDOf returns the ID n is exported under.
func (c *Canvas) IDOf(n Node) (string, bool) {
	for _, id := range c.order {
		if c.exported[id] == n {
			return id, true
		}
	}
	return "", false
}

// --- Layers ---

// AddLayer appends a new layer on top of the stack.
func (c *Canvas) AddLayer(name string) (*Layer, error) {
	if c.Layer(name) != nil {
		return nil, fmt.Errorf("animgraph: layer %q in canvas %q: %w", name, c.Name, ErrDuplicateID)
	}
	l := &Layer{Name: name, params: map[string]Node{}}
	c.layers = append(c.layers, l)
	return l, nil
}

// Layers returns the layers bottom to top.
func (c *Canvas) Layers() []*Layer {
	return slices.Clone(c.layers)
}

// Layer returns the layer named name, or nil.
func (c *Canvas) Layer(name string) *Layer {
	for _, l := range c.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Times returns the interesting instants of every exported node and layer
// parameter.
func (c *Canvas) Times() TimeSet {
	var out TimeSet
	for _, id := range c.order {
		out.Merge(c.exported[id].Times())
	}
	for _, l := range c.layers {
		for _, name := range l.order {
			out.Merge(l.params[name].Times())
		}
	}
	return out
}

// Layer binds named parameters to value nodes. Rendering is left to its
// consumers.
type Layer struct {
	Name string

	params map[string]Node
	order  []string
}

// SetParam binds parameter name to n, replacing any previous binding. A
// parameter keeps the type of its first binding.
func (l *Layer) SetParam(name string, n Node) error {
	if globalDebug {
		debugCheckEditor("SetParam")
	}
	if n == nil {
		return &TypeError{Op: fmt.Sprintf("set_param %s.%s", l.Name, name)}
	}
	if n.IsDisposed() {
		return fmt.Errorf("animgraph: set_param %s.%s: %w", l.Name, name, ErrDisposed)
	}
	old, ok := l.params[name]
	if ok && !IsConvertible(n.Type(), old.Type()) {
		return &TypeError{Op: fmt.Sprintf("set_param %s.%s", l.Name, name), Expected: old.Type(), Actual: n.Type()}
	}
	if old == n {
		return nil
	}
	retain(n)
	if ok {
		release(old)
	} else {
		l.order = append(l.order, name)
	}
	l.params[name] = n
	return nil
}

// Param returns the node bound to parameter name.
func (l *Layer) Param(name string) (Node, bool) {
	n, ok := l.params[name]
	return n, ok
}

// ParamNames returns the bound parameter names in binding order.
func (l *Layer) ParamNames() []string {
	return slices.Clone(l.order)
}
