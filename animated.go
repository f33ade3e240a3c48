package animgraph

import (
	"fmt"
	"math"
	"sort"
)

// waypointIDCounter issues waypoint IDs (single editing goroutine, no atomic).
var waypointIDCounter uint32

func nextWaypointID() uint32 {
	waypointIDCounter++
	return waypointIDCounter
}

// Waypoint is a keyframe of an animated track.
type Waypoint struct {
	// ID correlates the waypoint across edits. Zero means "assign one".
	ID    uint32
	Time  Time
	Value Value
	// Before shapes the curve arriving from the previous waypoint,
	// After the curve leaving toward the next one.
	Before Interpolation
	After  Interpolation
	// Tension, Continuity and Bias shape TCB tangents. Zero is Catmull-Rom.
	Tension    float64
	Continuity float64
	Bias       float64
}

// AnimatedNode interpolates between time-ordered waypoints. Waypoint times
// are unique within a track.
type AnimatedNode struct {
	nodeBase
	waypoints []Waypoint
}

// animatableType reports whether a track can produce t. Lists animate
// through dynamic lists instead.
func animatableType(t *Type) bool { return t != nil && t != TypeList }

var animatedVariant = Variant{
	Name:      "animated",
	LocalName: "Animated",
	CheckType: animatableType,
	New: func(typ *Type) (Node, error) {
		return NewAnimated(typ)
	},
	Wrap: func(x Node) (Node, error) {
		v, err := x.Evaluate(0)
		if err != nil {
			return nil, err
		}
		a, err := NewAnimated(x.Type())
		if err != nil {
			return nil, err
		}
		if _, err := a.AddValue(0, v); err != nil {
			return nil, err
		}
		return a, nil
	},
}

// NewAnimated returns an empty track producing typ.
func NewAnimated(typ *Type) (*AnimatedNode, error) {
	if !animatableType(typ) {
		return nil, &TypeError{Op: "animated", Actual: typ}
	}
	return &AnimatedNode{nodeBase: newNodeBase("animated", typ)}, nil
}

// --- Waypoint editing ---

// fitValue converts v to the track type or fails with a TypeError.
func (a *AnimatedNode) fitValue(v Value) (Value, error) {
	vt := TypeOf(v)
	if vt == a.typ {
		return cloneValue(v), nil
	}
	if !IsConvertible(vt, a.typ) {
		return nil, &TypeError{Op: "waypoint " + a.label(), Expected: a.typ, Actual: vt}
	}
	return ConvertValue(v, a.typ)
}

func (a *AnimatedNode) checkEdit(op string) error {
	if globalDebug {
		debugCheckEditor(op)
	}
	if a.disposed {
		return fmt.Errorf("animgraph: %s on %s: %w", op, a.label(), ErrDisposed)
	}
	return nil
}

// insert places wp in time order. A waypoint already at wp.Time is replaced.
func (a *AnimatedNode) insert(wp Waypoint) {
	i := sort.Search(len(a.waypoints), func(i int) bool {
		return !a.waypoints[i].Time.Before(wp.Time)
	})
	if i < len(a.waypoints) && a.waypoints[i].Time.Equal(wp.Time) {
		a.waypoints[i] = wp
		return
	}
	a.waypoints = append(a.waypoints, Waypoint{})
	copy(a.waypoints[i+1:], a.waypoints[i:])
	a.waypoints[i] = wp
}

func (a *AnimatedNode) indexOf(id uint32) int {
	for i := range a.waypoints {
		if a.waypoints[i].ID == id {
			return i
		}
	}
	return -1
}

func (a *AnimatedNode) removeAt(i int) Waypoint {
	wp := a.waypoints[i]
	copy(a.waypoints[i:], a.waypoints[i+1:])
	a.waypoints[len(a.waypoints)-1] = Waypoint{}
	a.waypoints = a.waypoints[:len(a.waypoints)-1]
	return wp
}

// Add inserts wp and returns its ID. Inserting at the time of an existing
// waypoint replaces that waypoint. A caller-supplied ID already held by a
// waypoint at another time fails with ErrDuplicateID.
func (a *AnimatedNode) Add(wp Waypoint) (uint32, error) {
	if err := a.checkEdit("Add"); err != nil {
		return 0, err
	}
	v, err := a.fitValue(wp.Value)
	if err != nil {
		return 0, err
	}
	wp.Value = v
	if wp.ID == 0 {
		wp.ID = nextWaypointID()
	} else {
		if i := a.indexOf(wp.ID); i >= 0 && !a.waypoints[i].Time.Equal(wp.Time) {
			return 0, fmt.Errorf("animgraph: waypoint %d on %s: %w", wp.ID, a.label(), ErrDuplicateID)
		}
		if wp.ID > waypointIDCounter {
			waypointIDCounter = wp.ID
		}
	}
	a.insert(wp)
	return wp.ID, nil
}

// AddValue inserts a waypoint with clamped interpolation on both sides.
func (a *AnimatedNode) AddValue(t Time, v Value) (uint32, error) {
	return a.Add(Waypoint{Time: t, Value: v})
}

// Update replaces the waypoint with wp.ID by wp. Moving it onto another
// waypoint's time merges the two; wp survives.
func (a *AnimatedNode) Update(wp Waypoint) error {
	if err := a.checkEdit("Update"); err != nil {
		return err
	}
	i := a.indexOf(wp.ID)
	if i < 0 {
		return fmt.Errorf("animgraph: waypoint %d on %s: %w", wp.ID, a.label(), ErrNotFound)
	}
	v, err := a.fitValue(wp.Value)
	if err != nil {
		return err
	}
	wp.Value = v
	a.removeAt(i)
	a.insert(wp)
	return nil
}

// Move changes a waypoint's time, merging onto any waypoint already there.
func (a *AnimatedNode) Move(id uint32, t Time) error {
	if err := a.checkEdit("Move"); err != nil {
		return err
	}
	i := a.indexOf(id)
	if i < 0 {
		return fmt.Errorf("animgraph: waypoint %d on %s: %w", id, a.label(), ErrNotFound)
	}
	wp := a.removeAt(i)
	wp.Time = t
	a.insert(wp)
	return nil
}

// Remove deletes the waypoint with the given ID.
func (a *AnimatedNode) Remove(id uint32) bool {
	if a.checkEdit("Remove") != nil {
		return false
	}
	i := a.indexOf(id)
	if i < 0 {
		return false
	}
	a.removeAt(i)
	return true
}

// Waypoint returns the waypoint with the given ID.
func (a *AnimatedNode) Waypoint(id uint32) (Waypoint, bool) {
	i := a.indexOf(id)
	if i < 0 {
		return Waypoint{}, false
	}
	wp := a.waypoints[i]
	wp.Value = cloneValue(wp.Value)
	return wp, true
}

// Waypoints returns a time-ordered copy of the track.
func (a *AnimatedNode) Waypoints() []Waypoint {
	out := make([]Waypoint, len(a.waypoints))
	for i, wp := range a.waypoints {
		wp.Value = cloneValue(wp.Value)
		out[i] = wp
	}
	return out
}

// Len returns the number of waypoints.
func (a *AnimatedNode) Len() int { return len(a.waypoints) }

// Nearest returns the waypoint closest to t, if closer than scope.
func (a *AnimatedNode) Nearest(t, scope Time) (Waypoint, bool) {
	best, dist := -1, math.Inf(1)
	for i, wp := range a.waypoints {
		if d := math.Abs(float64(wp.Time - t)); d < dist {
			best, dist = i, d
		}
	}
	if best < 0 || dist >= float64(scope) {
		return Waypoint{}, false
	}
	return a.waypoints[best], true
}

// --- Evaluation ---

// Evaluate interpolates the bracketing waypoints. Times before the first or
// after the last waypoint clamp to that waypoint's value.
func (a *AnimatedNode) Evaluate(t Time) (Value, error) {
	if a.disposed {
		return nil, fmt.Errorf("animgraph: evaluate %s: %w", a.label(), ErrDisposed)
	}
	w := a.waypoints
	if len(w) == 0 {
		return nil, &UnlinkedNodeError{Node: a.label(), Slot: "waypoints"}
	}
	last := len(w) - 1
	if !t.After(w[0].Time) {
		return cloneValue(w[0].Value), nil
	}
	if !t.Before(w[last].Time) {
		return cloneValue(w[last].Value), nil
	}
	k := sort.Search(len(w), func(i int) bool { return w[i].Time.After(t) }) - 1
	if w[k].Time.Equal(t) {
		return cloneValue(w[k].Value), nil
	}
	return a.segment(k, t), nil
}

// segment evaluates between waypoints k and k+1.
func (a *AnimatedNode) segment(k int, t Time) Value {
	p0, p1 := a.waypoints[k], a.waypoints[k+1]
	if p0.After == InterpolationConstant || p1.Before == InterpolationConstant || !a.typ.interpolable {
		return cloneValue(p0.Value)
	}
	u := float64(t-p0.Time) / float64(p1.Time-p0.Time)
	if a.typ.arithmetic && (p0.After.spline() || p1.Before.spline()) {
		c0, _ := components(p0.Value)
		c1, _ := components(p1.Value)
		m0 := a.tangent(k, k, true)
		m1 := a.tangent(k, k+1, false)
		return compose(a.typ, hermite(c0, m0, c1, m1, u))
	}
	return lerpValue(p0.Value, p1.Value, blendWeight(p0.After, p1.Before, u))
}

// tangent returns the Hermite tangent at waypoint j for segment seg, in
// segment-parameter units. outgoing selects j's After mode, else its Before.
func (a *AnimatedNode) tangent(seg, j int, outgoing bool) []float64 {
	w := a.waypoints
	s0, _ := components(w[seg].Value)
	s1, _ := components(w[seg+1].Value)
	out := make([]float64, len(s0))

	mode := w[j].Before
	if outgoing {
		mode = w[j].After
	}
	if mode == InterpolationEase {
		return out
	}
	if !mode.spline() || j == 0 || j == len(w)-1 {
		for i := range out {
			out[i] = s1[i] - s0[i]
		}
		return out
	}

	prev, _ := components(w[j-1].Value)
	cur, _ := components(w[j].Value)
	next, _ := components(w[j+1].Value)
	dtPrev := float64(w[j].Time - w[j-1].Time)
	dtNext := float64(w[j+1].Time - w[j].Time)
	dtSeg := float64(w[seg+1].Time - w[seg].Time)

	switch mode {
	case InterpolationClamped:
		for i := range out {
			if (cur[i]-prev[i])*(next[i]-cur[i]) <= 0 {
				continue // local extremum: flat to avoid overshoot
			}
			out[i] = (next[i] - prev[i]) / (dtPrev + dtNext) * dtSeg
		}
	case InterpolationTCB:
		tn, c, b := w[j].Tension, w[j].Continuity, w[j].Bias
		var ka, kb float64
		if outgoing {
			ka = (1 - tn) * (1 + c) * (1 + b) / 2
			kb = (1 - tn) * (1 - c) * (1 - b) / 2
		} else {
			ka = (1 - tn) * (1 - c) * (1 + b) / 2
			kb = (1 - tn) * (1 + c) * (1 - b) / 2
		}
		for i := range out {
			out[i] = (ka*(cur[i]-prev[i])/dtPrev + kb*(next[i]-cur[i])/dtNext) * dtSeg
		}
	}
	return out
}

// Times returns the waypoint times.
func (a *AnimatedNode) Times() TimeSet {
	var out TimeSet
	for _, wp := range a.waypoints {
		out.Add(wp.Time)
	}
	return out
}

// ValueChangeTimes reports the waypoint times.
func (a *AnimatedNode) ValueChangeTimes(out *TimeSet) {
	for _, wp := range a.waypoints {
		out.Add(wp.Time)
	}
}

func (a *AnimatedNode) Dispose() error {
	if a.disposed {
		return nil
	}
	if err := a.checkDispose(); err != nil {
		return err
	}
	a.waypoints = nil
	a.disposed = true
	return nil
}
