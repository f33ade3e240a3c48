package animgraph

import "fmt"

// ParamDesc describes one link slot of a variant.
type ParamDesc struct {
	Name        string
	LocalName   string
	Description string
	// Type is the declared slot type. Nil means the node's own output type,
	// for variants templated by their output.
	Type *Type
	// Default seeds the slot with a constant when the node is created.
	// Nil means the zero value of the slot type.
	Default Value
	// Hint is an editor hint such as "angle" or "distance".
	Hint string
}

// Vocab is the ordered list of a variant's slots.
type Vocab []ParamDesc

// Index returns the slot named name, or -1.
func (v Vocab) Index(name string) int {
	for i, p := range v {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// typeFor resolves the declared slot type for a node of type out.
func (p ParamDesc) typeFor(out *Type) *Type {
	if p.Type != nil {
		return p.Type
	}
	return out
}

// linkableNode is embedded by every converter variant. Slots follow the
// variant's vocab one to one.
type linkableNode struct {
	nodeBase
	vocab Vocab
	slots []Node
}

func newLinkableNode(variant string, typ *Type, vocab Vocab) linkableNode {
	return linkableNode{
		nodeBase: newNodeBase(variant, typ),
		vocab:    vocab,
		slots:    make([]Node, len(vocab)),
	}
}

// fillDefaults links a fresh constant into every slot.
func (l *linkableNode) fillDefaults() {
	for i, p := range l.vocab {
		v := p.Default
		if v == nil {
			v = zeroValue(p.typeFor(l.typ))
		}
		c := MustConst(v)
		c.retain()
		l.slots[i] = c
	}
}

func (l *linkableNode) LinkCount() int { return len(l.slots) }

func (l *linkableNode) Link(i int) Node {
	if i < 0 || i >= len(l.slots) {
		return nil
	}
	return l.slots[i]
}

func (l *linkableNode) LinkIndex(name string) int { return l.vocab.Index(name) }

func (l *linkableNode) Vocab() Vocab { return l.vocab }

func (l *linkableNode) slotType(i int) *Type {
	return l.vocab[i].typeFor(l.typ)
}

func (l *linkableNode) SetLink(i int, child Node) (bool, error) {
	if globalDebug {
		debugCheckEditor("SetLink")
	}
	if l.disposed {
		return false, fmt.Errorf("animgraph: set_link on %s: %w", l.label(), ErrDisposed)
	}
	if i < 0 || i >= len(l.slots) {
		return false, linkIndexError(l.label(), i, len(l.slots))
	}
	op := fmt.Sprintf("set_link %s.%s", l.label(), l.vocab[i].Name)
	if err := checkChild(l.id, l.label(), l.slotType(i), child, op); err != nil {
		return false, err
	}
	old := l.slots[i]
	if old == child {
		return false, nil
	}
	retain(child)
	if old != nil {
		release(old)
	}
	l.slots[i] = child
	if globalDebug {
		debugCheckDepth(child)
	}
	return true, nil
}

func (l *linkableNode) UnlinkAll() {
	for i, c := range l.slots {
		if c != nil {
			release(c)
			l.slots[i] = nil
		}
	}
}

func (l *linkableNode) Dispose() error {
	if l.disposed {
		return nil
	}
	if err := l.checkDispose(); err != nil {
		return err
	}
	l.UnlinkAll()
	l.disposed = true
	return nil
}

// evalLink evaluates slot i at t and converts the result to the declared
// slot type. Child errors are returned unchanged.
func (l *linkableNode) evalLink(i int, t Time) (Value, error) {
	if l.disposed {
		return nil, fmt.Errorf("animgraph: evaluate %s: %w", l.label(), ErrDisposed)
	}
	child := l.slots[i]
	if child == nil {
		return nil, &UnlinkedNodeError{Node: l.label(), Slot: l.vocab[i].Name}
	}
	v, err := child.Evaluate(t)
	if err != nil {
		return nil, err
	}
	if want := l.slotType(i); TypeOf(v) != want {
		return ConvertValue(v, want)
	}
	return v, nil
}

func (l *linkableNode) evalBool(i int, t Time) (bool, error) {
	v, err := l.evalLink(i, t)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (l *linkableNode) evalReal(i int, t Time) (float64, error) {
	v, err := l.evalLink(i, t)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func (l *linkableNode) evalTime(i int, t Time) (Time, error) {
	v, err := l.evalLink(i, t)
	if err != nil {
		return 0, err
	}
	return v.(Time), nil
}

// Times is the union of the children's times.
func (l *linkableNode) Times() TimeSet {
	var out TimeSet
	for _, c := range l.slots {
		if c != nil {
			out.Merge(c.Times())
		}
	}
	return out
}

// ValueChangeTimes defaults to the union of every child's change times.
// Variants whose output ignores some children override it.
func (l *linkableNode) ValueChangeTimes(out *TimeSet) {
	for _, c := range l.slots {
		if c != nil {
			c.ValueChangeTimes(out)
		}
	}
}

// linkChangeTimes returns the change times of slot i alone.
func (l *linkableNode) linkChangeTimes(i int) TimeSet {
	var out TimeSet
	if c := l.slots[i]; c != nil {
		c.ValueChangeTimes(&out)
	}
	return out
}

// checkChild validates a prospective child for a slot declared as typ on the
// node identified by parentID.
func checkChild(parentID uint32, parentLabel string, declared *Type, child Node, op string) error {
	if child == nil {
		return &TypeError{Op: op, Expected: declared}
	}
	if child.IsDisposed() {
		return fmt.Errorf("animgraph: %s: %w: %s", op, ErrDisposed, labelOf(child))
	}
	if !IsConvertible(child.Type(), declared) {
		return &TypeError{Op: op, Expected: declared, Actual: child.Type()}
	}
	if child.ID() == parentID {
		return &CyclicGraphError{Path: []string{parentLabel, parentLabel}}
	}
	if path := findPath(child, parentID); path != nil {
		return &CyclicGraphError{Path: append([]string{parentLabel}, path...)}
	}
	return nil
}

// SetLinkByName sets the slot named name on l.
func SetLinkByName(l Linkable, name string, child Node) (bool, error) {
	i := l.LinkIndex(name)
	if i < 0 {
		return false, fmt.Errorf("animgraph: %s has no link %q: %w", labelOf(l), name, ErrLinkIndex)
	}
	return l.SetLink(i, child)
}

// LinkByName returns the child in the slot named name, or nil.
func LinkByName(l Linkable, name string) Node {
	return l.Link(l.LinkIndex(name))
}
