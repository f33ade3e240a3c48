package animgraph

import "fmt"

// ConstNode holds a literal value that does not change over time.
type ConstNode struct {
	nodeBase
	value Value
}

var constVariant = Variant{
	Name:      "const",
	LocalName: "Constant",
	CheckType: anyType,
	New: func(typ *Type) (Node, error) {
		return NewConst(zeroValue(typ))
	},
	Wrap: func(x Node) (Node, error) {
		v, err := x.Evaluate(0)
		if err != nil {
			return nil, err
		}
		return NewConst(v)
	},
}

// NewConst wraps a literal. Go values outside the type system are a TypeError.
func NewConst(v Value) (*ConstNode, error) {
	typ := TypeOf(v)
	if typ == nil {
		return nil, &TypeError{Op: fmt.Sprintf("const %T", v)}
	}
	return &ConstNode{nodeBase: newNodeBase("const", typ), value: cloneValue(v)}, nil
}

// MustConst is like NewConst but panics on an unsupported value.
func MustConst(v Value) *ConstNode {
	c, err := NewConst(v)
	if err != nil {
		panic(err)
	}
	return c
}

// Value returns the held value.
func (c *ConstNode) Value() Value { return cloneValue(c.value) }

// SetValue replaces the held value. Values of a convertible type are
// converted; others are a TypeError and leave the node unchanged.
func (c *ConstNode) SetValue(v Value) error {
	if globalDebug {
		debugCheckEditor("SetValue")
	}
	if TypeOf(v) != c.typ {
		if !IsConvertible(TypeOf(v), c.typ) {
			return &TypeError{Op: "set_value " + c.label(), Expected: c.typ, Actual: TypeOf(v)}
		}
		converted, err := ConvertValue(v, c.typ)
		if err != nil {
			return err
		}
		v = converted
	}
	c.value = cloneValue(v)
	return nil
}

func (c *ConstNode) Evaluate(Time) (Value, error) {
	if c.disposed {
		return nil, fmt.Errorf("animgraph: evaluate %s: %w", c.label(), ErrDisposed)
	}
	return cloneValue(c.value), nil
}

func (c *ConstNode) Times() TimeSet { return TimeSet{} }

func (c *ConstNode) ValueChangeTimes(*TimeSet) {}

func (c *ConstNode) Dispose() error {
	if c.disposed {
		return nil
	}
	if err := c.checkDispose(); err != nil {
		return err
	}
	c.disposed = true
	return nil
}
