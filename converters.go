package animgraph

import "math"

// --- reference ---

// ReferenceNode passes its link through unchanged. It lets several
// parameters share one exported value under a local name.
type ReferenceNode struct {
	linkableNode
}

var referenceVariant = Variant{
	Name:      "reference",
	LocalName: "Reference",
	CheckType: anyType,
	Vocab: func(*Type) Vocab {
		return Vocab{{Name: "link", LocalName: "Link", Description: "The referenced value"}}
	},
	New: func(typ *Type) (Node, error) {
		n := &ReferenceNode{newLinkableNode("reference", typ, registeredVocab("reference", typ))}
		n.fillDefaults()
		return n, nil
	},
	Wrap: func(x Node) (Node, error) {
		n := &ReferenceNode{newLinkableNode("reference", x.Type(), registeredVocab("reference", x.Type()))}
		if _, err := n.SetLink(0, x); err != nil {
			return nil, err
		}
		return n, nil
	},
}

func (n *ReferenceNode) Evaluate(t Time) (Value, error) {
	return n.evalLink(0, t)
}

// --- scale ---

// ScaleNode multiplies an arithmetic link by a real scalar.
type ScaleNode struct {
	linkableNode
}

var scalableTypes = typeIn(TypeReal, TypeInteger, TypeAngle, TypeTime, TypeVector, TypeColor)

var scaleVariant = Variant{
	Name:      "scale",
	LocalName: "Scale",
	CheckType: scalableTypes,
	Vocab: func(*Type) Vocab {
		return Vocab{
			{Name: "link", LocalName: "Link", Description: "The value to be scaled"},
			{Name: "scalar", LocalName: "Scalar", Type: TypeReal, Default: 1.0, Description: "Value that multiplies the link"},
		}
	},
	New: func(typ *Type) (Node, error) {
		n := &ScaleNode{newLinkableNode("scale", typ, registeredVocab("scale", typ))}
		n.fillDefaults()
		return n, nil
	},
	Wrap: func(x Node) (Node, error) {
		if !scalableTypes(x.Type()) {
			return nil, &TypeError{Op: "scale", Actual: x.Type()}
		}
		n := &ScaleNode{newLinkableNode("scale", x.Type(), registeredVocab("scale", x.Type()))}
		n.fillDefaults()
		if _, err := n.SetLink(0, x); err != nil {
			n.UnlinkAll()
			return nil, err
		}
		return n, nil
	},
}

func (n *ScaleNode) Evaluate(t Time) (Value, error) {
	v, err := n.evalLink(0, t)
	if err != nil {
		return nil, err
	}
	s, err := n.evalReal(1, t)
	if err != nil {
		return nil, err
	}
	c, _ := components(v)
	for i := range c {
		c[i] *= s
	}
	return compose(n.typ, c), nil
}

// --- add ---

// AddNode returns (lhs + rhs) * scalar.
type AddNode struct {
	linkableNode
}

var addVariant = Variant{
	Name:      "add",
	LocalName: "Add",
	CheckType: scalableTypes,
	Vocab: func(*Type) Vocab {
		return Vocab{
			{Name: "lhs", LocalName: "Link", Description: "Left hand side of the add"},
			{Name: "rhs", LocalName: "Addition", Description: "Right hand side of the add"},
			{Name: "scalar", LocalName: "Scalar", Type: TypeReal, Default: 1.0, Description: "Value that multiplies the add"},
		}
	},
	New: func(typ *Type) (Node, error) {
		n := &AddNode{newLinkableNode("add", typ, registeredVocab("add", typ))}
		n.fillDefaults()
		return n, nil
	},
}

func (n *AddNode) Evaluate(t Time) (Value, error) {
	lhs, err := n.evalLink(0, t)
	if err != nil {
		return nil, err
	}
	rhs, err := n.evalLink(1, t)
	if err != nil {
		return nil, err
	}
	s, err := n.evalReal(2, t)
	if err != nil {
		return nil, err
	}
	a, _ := components(lhs)
	b, _ := components(rhs)
	for i := range a {
		a[i] = (a[i] + b[i]) * s
	}
	return compose(n.typ, a), nil
}

// --- switch ---

// SwitchNode selects link_on while its switch is true, else link_off.
type SwitchNode struct {
	linkableNode
}

const (
	switchOff = iota
	switchOn
	switchCond
)

var switchVariant = Variant{
	Name:      "switch",
	LocalName: "Switch",
	CheckType: anyType,
	Vocab: func(*Type) Vocab {
		return Vocab{
			{Name: "link_off", LocalName: "Link Off", Description: "The value node returned when the switch is off"},
			{Name: "link_on", LocalName: "Link On", Description: "The value node returned when the switch is on"},
			{Name: "switch", LocalName: "Switch", Type: TypeBool, Description: "When checked, returns 'Link On', otherwise returns 'Link Off'"},
		}
	},
	New: func(typ *Type) (Node, error) {
		n := &SwitchNode{newLinkableNode("switch", typ, registeredVocab("switch", typ))}
		n.fillDefaults()
		return n, nil
	},
	Wrap: func(x Node) (Node, error) {
		n := &SwitchNode{newLinkableNode("switch", x.Type(), registeredVocab("switch", x.Type()))}
		n.fillDefaults()
		if _, err := n.SetLink(switchOff, x); err != nil {
			n.UnlinkAll()
			return nil, err
		}
		if _, err := n.SetLink(switchOn, x); err != nil {
			n.UnlinkAll()
			return nil, err
		}
		return n, nil
	},
}

func (n *SwitchNode) Evaluate(t Time) (Value, error) {
	on, err := n.evalBool(switchCond, t)
	if err != nil {
		return nil, err
	}
	if on {
		return n.evalLink(switchOn, t)
	}
	return n.evalLink(switchOff, t)
}

// ValueChangeTimes reports the switch's own change times plus each branch's
// change times only where that branch is the one selected. Instants where
// the switch cannot be evaluated are kept.
func (n *SwitchNode) ValueChangeTimes(out *TimeSet) {
	cond := n.linkChangeTimes(switchCond)
	out.Merge(cond)
	for _, branch := range []int{switchOff, switchOn} {
		for _, t := range n.linkChangeTimes(branch).times {
			on, err := n.evalBool(switchCond, t)
			if err != nil || on == (branch == switchOn) {
				out.Add(t)
			}
		}
	}
}

// --- timeloop ---

// TimeLoopNode repeats a window of its link's timeline. Starting at
// local_time, the link is sampled from link_time for duration, then again.
type TimeLoopNode struct {
	linkableNode
}

const (
	loopLink = iota
	loopLinkTime
	loopLocalTime
	loopDuration
)

var timeLoopVariant = Variant{
	Name:      "timeloop",
	LocalName: "Time Loop",
	CheckType: anyType,
	Vocab: func(*Type) Vocab {
		return Vocab{
			{Name: "link", LocalName: "Link", Description: "The value node to time loop"},
			{Name: "link_time", LocalName: "Link Time", Type: TypeTime, Description: "Start time of the loop for the value node timeline"},
			{Name: "local_time", LocalName: "Local Time", Type: TypeTime, Description: "The time when the resulting loop starts"},
			{Name: "duration", LocalName: "Duration", Type: TypeTime, Default: Time(1), Description: "Length of the loop"},
		}
	},
	New: func(typ *Type) (Node, error) {
		n := &TimeLoopNode{newLinkableNode("timeloop", typ, registeredVocab("timeloop", typ))}
		n.fillDefaults()
		return n, nil
	},
	Wrap: func(x Node) (Node, error) {
		n := &TimeLoopNode{newLinkableNode("timeloop", x.Type(), registeredVocab("timeloop", x.Type()))}
		n.fillDefaults()
		if _, err := n.SetLink(loopLink, x); err != nil {
			n.UnlinkAll()
			return nil, err
		}
		return n, nil
	},
}

// loopTime maps t onto the link's timeline. A negative duration plays the
// window backwards; zero freezes at link_time.
func loopTime(t, linkTime, localTime, duration Time) Time {
	switch {
	case duration == 0:
		return linkTime
	case duration > 0:
		d := float64(duration)
		return linkTime + Time(floorMod(float64(t-localTime), d))
	default:
		d := -float64(duration)
		return linkTime - Time(floorMod(float64(t-localTime), d))
	}
}

func floorMod(x, d float64) float64 {
	return x - math.Floor(x/d)*d
}

func (n *TimeLoopNode) controls(t Time) (linkTime, localTime, duration Time, err error) {
	if linkTime, err = n.evalTime(loopLinkTime, t); err != nil {
		return
	}
	if localTime, err = n.evalTime(loopLocalTime, t); err != nil {
		return
	}
	duration, err = n.evalTime(loopDuration, t)
	return
}

func (n *TimeLoopNode) Evaluate(t Time) (Value, error) {
	linkTime, localTime, duration, err := n.controls(t)
	if err != nil {
		return nil, err
	}
	return n.evalLink(loopLink, loopTime(t, linkTime, localTime, duration))
}

// ValueChangeTimes reports the control links' change times, the loop's
// wrap points, and the link's change times inside the looped window mapped
// onto the first period. Controls are read at local_time. If they cannot be
// evaluated, every child's change times are reported unmapped.
func (n *TimeLoopNode) ValueChangeTimes(out *TimeSet) {
	for i := loopLinkTime; i <= loopDuration; i++ {
		out.Merge(n.linkChangeTimes(i))
	}
	localTime, err := n.evalTime(loopLocalTime, 0)
	var linkTime, duration Time
	if err == nil {
		linkTime, _, duration, err = n.controls(localTime)
	}
	if err != nil {
		out.Merge(n.linkChangeTimes(loopLink))
		return
	}
	if duration == 0 {
		return
	}
	span := Time(math.Abs(float64(duration)))
	out.Add(localTime)
	out.Add(localTime + span)
	for _, ct := range n.linkChangeTimes(loopLink).times {
		offset := ct - linkTime
		if duration < 0 {
			offset = -offset
		}
		if offset >= 0 && offset.Before(span) {
			out.Add(localTime + offset)
		}
	}
}
