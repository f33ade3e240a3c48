package animgraph

// ReverseTangentNode flips the direction of a spline point while its
// "reverse" link is true.
type ReverseTangentNode struct {
	linkableNode
}

const (
	revTangentReference = iota
	revTangentReverse
)

var revTangentVariant = Variant{
	Name:      "blinerevtangent",
	LocalName: "Reverse Tangent",
	CheckType: typeIn(TypeBLinePoint),
	Vocab: func(*Type) Vocab {
		return Vocab{
			{Name: "reference", LocalName: "Reference", Description: "The referenced tangent to reverse"},
			{Name: "reverse", LocalName: "Reverse", Type: TypeBool, Description: "When checked, the reference is reversed"},
		}
	},
	New: func(typ *Type) (Node, error) {
		n := newReverseTangent()
		n.fillDefaults()
		return n, nil
	},
	Wrap: func(x Node) (Node, error) {
		return NewReverseTangent(x)
	},
}

func newReverseTangent() *ReverseTangentNode {
	return &ReverseTangentNode{
		linkableNode: newLinkableNode("blinerevtangent", TypeBLinePoint, registeredVocab("blinerevtangent", TypeBLinePoint)),
	}
}

// NewReverseTangent wraps reference, a spline point node. The "reverse" link
// gets its own constant false, never shared with another converter.
func NewReverseTangent(reference Node) (*ReverseTangentNode, error) {
	if reference == nil || reference.Type() != TypeBLinePoint {
		var actual *Type
		if reference != nil {
			actual = reference.Type()
		}
		return nil, &TypeError{Op: "blinerevtangent", Expected: TypeBLinePoint, Actual: actual}
	}
	n := newReverseTangent()
	if _, err := n.SetLink(revTangentReference, reference); err != nil {
		return nil, err
	}
	if _, err := n.SetLink(revTangentReverse, MustConst(false)); err != nil {
		n.UnlinkAll()
		return nil, err
	}
	return n, nil
}

func (n *ReverseTangentNode) Evaluate(t Time) (Value, error) {
	reverse, err := n.evalBool(revTangentReverse, t)
	if err != nil {
		return nil, err
	}
	ref, err := n.evalLink(revTangentReference, t)
	if err != nil {
		return nil, err
	}
	if !reverse {
		return ref, nil
	}
	return ref.(BLinePoint).Reversed(), nil
}
