package animgraph

// CompositeNode builds a structured value from one link per component.
type CompositeNode struct {
	linkableNode
}

var compositeTypes = typeIn(TypeVector, TypeColor, TypeBLinePoint, TypeTransformation)

var compositeVariant = Variant{
	Name:      "composite",
	LocalName: "Composite",
	CheckType: compositeTypes,
	Vocab:     compositeVocab,
	New: func(typ *Type) (Node, error) {
		return NewComposite(typ)
	},
	Wrap: func(x Node) (Node, error) {
		v, err := x.Evaluate(0)
		if err != nil {
			return nil, err
		}
		return CompositeOf(v)
	},
}

func compositeVocab(typ *Type) Vocab {
	switch typ {
	case TypeVector:
		return Vocab{
			{Name: "x", LocalName: "X-Axis", Type: TypeReal, Description: "The X-Axis component of the vector", Hint: "distance"},
			{Name: "y", LocalName: "Y-Axis", Type: TypeReal, Description: "The Y-Axis component of the vector", Hint: "distance"},
		}
	case TypeColor:
		return Vocab{
			{Name: "red", LocalName: "Red", Type: TypeReal, Default: 1.0},
			{Name: "green", LocalName: "Green", Type: TypeReal, Default: 1.0},
			{Name: "blue", LocalName: "Blue", Type: TypeReal, Default: 1.0},
			{Name: "alpha", LocalName: "Alpha", Type: TypeReal, Default: 1.0},
		}
	case TypeBLinePoint:
		return Vocab{
			{Name: "point", LocalName: "Vertex", Type: TypeVector, Description: "The vertex of the spline point", Hint: "distance"},
			{Name: "width", LocalName: "Width", Type: TypeReal, Default: 1.0, Description: "The width of the spline point"},
			{Name: "origin", LocalName: "Origin", Type: TypeReal, Default: 0.5, Description: "Where the width is measured from"},
			{Name: "split_radius", LocalName: "Radius Split", Type: TypeBool, Description: "When checked, the tangent radii are independent"},
			{Name: "split_angle", LocalName: "Angle Split", Type: TypeBool, Description: "When checked, the tangent angles are independent"},
			{Name: "t1", LocalName: "Tangent 1", Type: TypeVector, Description: "The tangent arriving at the vertex"},
			{Name: "t2", LocalName: "Tangent 2", Type: TypeVector, Description: "The tangent leaving the vertex"},
		}
	case TypeTransformation:
		return Vocab{
			{Name: "offset", LocalName: "Offset", Type: TypeVector, Hint: "distance"},
			{Name: "angle", LocalName: "Angle", Type: TypeAngle, Hint: "angle"},
			{Name: "skew_angle", LocalName: "Skew Angle", Type: TypeAngle, Hint: "angle"},
			{Name: "scale", LocalName: "Scale", Type: TypeVector, Default: Vector{1, 1}},
		}
	}
	return nil
}

// NewComposite returns a composite of typ with constant components taken
// from the type's zero value.
func NewComposite(typ *Type) (*CompositeNode, error) {
	v := zeroValue(typ)
	if !compositeTypes(typ) {
		return nil, &TypeError{Op: "composite", Actual: typ}
	}
	return CompositeOf(v)
}

// CompositeOf decomposes v into constant component links.
func CompositeOf(v Value) (*CompositeNode, error) {
	typ := TypeOf(v)
	if !compositeTypes(typ) {
		return nil, &TypeError{Op: "composite", Actual: typ}
	}
	n := &CompositeNode{linkableNode: newLinkableNode("composite", typ, registeredVocab("composite", typ))}
	for i, part := range decompose(v) {
		c := MustConst(part)
		c.retain()
		n.slots[i] = c
	}
	return n, nil
}

func decompose(v Value) []Value {
	switch x := v.(type) {
	case Vector:
		return []Value{x.X, x.Y}
	case Color:
		return []Value{x.R, x.G, x.B, x.A}
	case BLinePoint:
		return []Value{x.Vertex, x.Width, x.Origin, x.SplitRadius, x.SplitAngle, x.Tangent1, x.Tangent2}
	case Transformation:
		return []Value{x.Offset, x.Angle, x.SkewAngle, x.Scale}
	}
	return nil
}

func (n *CompositeNode) Evaluate(t Time) (Value, error) {
	parts := make([]Value, len(n.slots))
	for i := range n.slots {
		v, err := n.evalLink(i, t)
		if err != nil {
			return nil, err
		}
		parts[i] = v
	}
	switch n.typ {
	case TypeVector:
		return Vector{parts[0].(float64), parts[1].(float64)}, nil
	case TypeColor:
		return Color{parts[0].(float64), parts[1].(float64), parts[2].(float64), parts[3].(float64)}, nil
	case TypeBLinePoint:
		return BLinePoint{
			Vertex:      parts[0].(Vector),
			Width:       parts[1].(float64),
			Origin:      parts[2].(float64),
			SplitRadius: parts[3].(bool),
			SplitAngle:  parts[4].(bool),
			Tangent1:    parts[5].(Vector),
			Tangent2:    parts[6].(Vector),
		}, nil
	default:
		return Transformation{
			Offset:    parts[0].(Vector),
			Angle:     parts[1].(Angle),
			SkewAngle: parts[2].(Angle),
			Scale:     parts[3].(Vector),
		}, nil
	}
}
