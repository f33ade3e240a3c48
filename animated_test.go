package animgraph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func evalReal(t *testing.T, n Node, at Time) float64 {
	t.Helper()
	v, err := n.Evaluate(at)
	if err != nil {
		t.Fatalf("Evaluate(%v): %v", at, err)
	}
	f, ok := v.(float64)
	if !ok {
		t.Fatalf("Evaluate(%v) = %T, want float64", at, v)
	}
	return f
}

// --- Boundaries ---

func TestAnimatedClampsOutsideWaypoints(t *testing.T) {
	a := track(t, TypeReal, 1.0, 0.0, 3.0, 10.0)
	assertNear(t, "before first", evalReal(t, a, 0), 0)
	assertNear(t, "at first", evalReal(t, a, 1), 0)
	assertNear(t, "at last", evalReal(t, a, 3), 10)
	assertNear(t, "after last", evalReal(t, a, 4), 10)
	if mid := evalReal(t, a, 2); mid <= 0 || mid >= 10 {
		t.Errorf("Evaluate(2) = %v, want strictly between 0 and 10", mid)
	}
}

func TestAnimatedSingleWaypoint(t *testing.T) {
	a := track(t, TypeVector, 5.0, Vector{1, 2})
	for _, at := range []Time{-10, 5, 99} {
		v, err := a.Evaluate(at)
		if err != nil {
			t.Fatal(err)
		}
		if v != (Vector{1, 2}) {
			t.Errorf("Evaluate(%v) = %v, want {1 2}", at, v)
		}
	}
}

func TestAnimatedEmptyIsUnlinked(t *testing.T) {
	a, _ := NewAnimated(TypeReal)
	if _, err := a.Evaluate(0); !errors.Is(err, ErrUnlinked) {
		t.Errorf("err = %v, want ErrUnlinked", err)
	}
}

func TestAnimatedRejectsList(t *testing.T) {
	if _, err := NewAnimated(TypeList); !errors.Is(err, ErrType) {
		t.Errorf("err = %v, want ErrType", err)
	}
}

// --- Interpolation modes ---

func TestAnimatedLinear(t *testing.T) {
	a, _ := NewAnimated(TypeReal)
	a.Add(Waypoint{Time: 0, Value: 0.0, Before: InterpolationLinear, After: InterpolationLinear})
	a.Add(Waypoint{Time: 2, Value: 10.0, Before: InterpolationLinear, After: InterpolationLinear})
	assertNear(t, "linear(0.5)", evalReal(t, a, 0.5), 2.5)
	assertNear(t, "linear(1)", evalReal(t, a, 1), 5)
}

func TestAnimatedEaseBothSides(t *testing.T) {
	a, _ := NewAnimated(TypeReal)
	a.Add(Waypoint{Time: 0, Value: 0.0, Before: InterpolationEase, After: InterpolationEase})
	a.Add(Waypoint{Time: 1, Value: 1.0, Before: InterpolationEase, After: InterpolationEase})
	// smoothstep(0.25)
	assertNear(t, "ease(0.25)", evalReal(t, a, 0.25), 0.15625)
	assertNear(t, "ease(0.5)", evalReal(t, a, 0.5), 0.5)
}

func TestAnimatedConstantHolds(t *testing.T) {
	a, _ := NewAnimated(TypeReal)
	a.Add(Waypoint{Time: 0, Value: 0.0, After: InterpolationConstant})
	a.Add(Waypoint{Time: 1, Value: 10.0})
	assertNear(t, "hold(0.99)", evalReal(t, a, 0.99), 0)
	assertNear(t, "hold(1)", evalReal(t, a, 1), 10)
}

func TestAnimatedClampedTwoPointsIsLinear(t *testing.T) {
	a := track(t, TypeReal, 0.0, 0.0, 2.0, 10.0)
	assertNear(t, "clamped(0.5)", evalReal(t, a, 0.5), 2.5)
}

func TestAnimatedClampedFlatAtExtremum(t *testing.T) {
	a := track(t, TypeReal, 0.0, 0.0, 1.0, 10.0, 2.0, 0.0)
	assertNear(t, "clamped(0.5)", evalReal(t, a, 0.5), 6.25)
	assertNear(t, "clamped(1.5)", evalReal(t, a, 1.5), 6.25)
	for _, at := range []Time{0.9, 0.99, 1.01, 1.1} {
		if v := evalReal(t, a, at); v > 10 {
			t.Errorf("Evaluate(%v) = %v overshoots 10", at, v)
		}
	}
}

func TestAnimatedTCBCollinear(t *testing.T) {
	a, _ := NewAnimated(TypeReal)
	for i, v := range []float64{0, 5, 10} {
		a.Add(Waypoint{Time: Time(i), Value: v, Before: InterpolationTCB, After: InterpolationTCB})
	}
	assertNear(t, "tcb(0.5)", evalReal(t, a, 0.5), 2.5)
	assertNear(t, "tcb(1.5)", evalReal(t, a, 1.5), 7.5)
}

func TestAnimatedVector(t *testing.T) {
	a, _ := NewAnimated(TypeVector)
	a.Add(Waypoint{Time: 0, Value: Vector{0, 0}, After: InterpolationLinear})
	a.Add(Waypoint{Time: 4, Value: Vector{8, -4}, Before: InterpolationLinear})
	v, err := a.Evaluate(1)
	if err != nil {
		t.Fatal(err)
	}
	assertVector(t, "vector(1)", v.(Vector), Vector{2, -1})
}

func TestAnimatedBoolHolds(t *testing.T) {
	a := track(t, TypeBool, 0.0, false, 1.0, true)
	for _, tc := range []struct {
		at   Time
		want bool
	}{{-1, false}, {0.5, false}, {0.9999, true}, {1, true}, {3, true}} {
		v, err := a.Evaluate(tc.at)
		if err != nil {
			t.Fatal(err)
		}
		if v != tc.want {
			t.Errorf("Evaluate(%v) = %v, want %v", tc.at, v, tc.want)
		}
	}
}

func TestParseInterpolation(t *testing.T) {
	for _, m := range []Interpolation{InterpolationClamped, InterpolationTCB, InterpolationConstant, InterpolationEase, InterpolationLinear} {
		got, err := ParseInterpolation(m.String())
		if err != nil || got != m {
			t.Errorf("ParseInterpolation(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseInterpolation("bounce"); err == nil {
		t.Error("ParseInterpolation(bounce) succeeded")
	}
}

// --- Editing ---

func TestAnimatedDuplicateTimeReplaces(t *testing.T) {
	a := track(t, TypeReal, 1.0, 1.0)
	a.AddValue(1.0001, 2.0)
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
	assertNear(t, "replaced", evalReal(t, a, 1), 2)
}

func TestAnimatedConvertsOnAdd(t *testing.T) {
	a, _ := NewAnimated(TypeReal)
	if _, err := a.AddValue(0, 3); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "converted", evalReal(t, a, 0), 3)

	_, err := a.AddValue(1, "three")
	var te *TypeError
	if !errors.As(err, &te) || te.Actual != TypeString {
		t.Errorf("err = %v, want TypeError for string", err)
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d after rejected add, want 1", a.Len())
	}
}

func TestAnimatedMoveMerges(t *testing.T) {
	a, _ := NewAnimated(TypeReal)
	first, _ := a.AddValue(0, 1.0)
	a.AddValue(1, 2.0)
	a.AddValue(2, 3.0)

	if err := a.Move(first, 1); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
	wp, ok := a.Waypoint(first)
	if !ok || wp.Time != 1 {
		t.Errorf("Waypoint(first) = %+v, %v; want time 1", wp, ok)
	}
	assertNear(t, "merged value", evalReal(t, a, 1), 1)

	if err := a.Move(999999, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Move(unknown) = %v, want ErrNotFound", err)
	}
}

func TestAnimatedUpdateAndRemove(t *testing.T) {
	a, _ := NewAnimated(TypeReal)
	id, _ := a.AddValue(0, 1.0)
	a.AddValue(2, 5.0)

	wp, _ := a.Waypoint(id)
	wp.Value = 4.0
	wp.After = InterpolationConstant
	if err := a.Update(wp); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "updated hold", evalReal(t, a, 1), 4)

	if !a.Remove(id) {
		t.Fatal("Remove() = false")
	}
	if a.Remove(id) {
		t.Error("second Remove() = true")
	}
	if diff := cmp.Diff([]Time{2}, a.Times().Slice()); diff != "" {
		t.Errorf("Times mismatch (-want +got):\n%s", diff)
	}
}

func TestAnimatedSuppliedIDs(t *testing.T) {
	a, _ := NewAnimated(TypeReal)
	id, _ := a.AddValue(0, 1.0)

	_, err := a.Add(Waypoint{ID: id, Time: 3, Value: 2.0})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Add with an ID held at another time = %v, want ErrDuplicateID", err)
	}
	if a.Len() != 1 {
		t.Fatalf("Len() = %d after rejected add, want 1", a.Len())
	}

	if _, err := a.Add(Waypoint{ID: id, Time: 0, Value: 5.0}); err != nil {
		t.Errorf("Add with the same ID and time = %v, want replace", err)
	}
	assertNear(t, "replaced", evalReal(t, a, 0), 5)

	big := waypointIDCounter + 100
	if got, err := a.Add(Waypoint{ID: big, Time: 1, Value: 0.0}); err != nil || got != big {
		t.Fatalf("Add(ID %d) = %d, %v", big, got, err)
	}
	next, _ := a.AddValue(2, 0.0)
	if next <= big {
		t.Errorf("next assigned ID = %d, want above supplied %d", next, big)
	}
}

func TestAnimatedWaypointsAreSorted(t *testing.T) {
	a := track(t, TypeReal, 3.0, 0.0, 1.0, 0.0, 2.0, 0.0)
	var got []Time
	for _, wp := range a.Waypoints() {
		got = append(got, wp.Time)
		if wp.ID == 0 {
			t.Error("waypoint without ID")
		}
	}
	if diff := cmp.Diff([]Time{1, 2, 3}, got); diff != "" {
		t.Errorf("waypoint order mismatch (-want +got):\n%s", diff)
	}
}

func TestAnimatedNearest(t *testing.T) {
	a := track(t, TypeReal, 0.0, 0.0, 2.0, 1.0)
	wp, ok := a.Nearest(1.5, 1)
	if !ok || wp.Time != 2 {
		t.Errorf("Nearest(1.5, 1) = %v, %v; want time 2", wp.Time, ok)
	}
	if _, ok := a.Nearest(1, 0.5); ok {
		t.Error("Nearest(1, 0.5) found a waypoint out of scope")
	}
}

func TestAnimatedDisposedRejectsEdits(t *testing.T) {
	a := track(t, TypeReal, 0.0, 0.0)
	if err := a.Dispose(); err != nil {
		t.Fatal(err)
	}
	if _, err := a.AddValue(1, 1.0); !errors.Is(err, ErrDisposed) {
		t.Errorf("AddValue after Dispose = %v, want ErrDisposed", err)
	}
	if _, err := a.Evaluate(0); !errors.Is(err, ErrDisposed) {
		t.Errorf("Evaluate after Dispose = %v, want ErrDisposed", err)
	}
}
