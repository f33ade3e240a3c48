package animgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// --- blinerevtangent ---

func TestReverseTangent(t *testing.T) {
	ref := MustConst(NewBLinePoint(Vector{5, 5}, Vector{3, 4}))
	rev, err := NewReverseTangent(ref)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := SetLinkByName(rev, "reverse", track(t, TypeBool, 0.0, false, 1.0, true)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		at   Time
		want Vector
	}{
		{-1, Vector{3, 4}},
		{0.5, Vector{3, 4}},
		{1, Vector{-3, -4}},
		{7, Vector{-3, -4}},
	}
	for _, tc := range tests {
		v, err := rev.Evaluate(tc.at)
		if err != nil {
			t.Fatalf("Evaluate(%v): %v", tc.at, err)
		}
		bp := v.(BLinePoint)
		assertVector(t, "tangent1", bp.Tangent1, tc.want)
		assertVector(t, "tangent2", bp.Tangent2, tc.want)
		assertVector(t, "vertex", bp.Vertex, Vector{5, 5})
	}
}

func TestReverseTangentSplit(t *testing.T) {
	p := NewBLinePoint(Vector{}, Vector{1, 0})
	p.SplitAngle = true
	p.Tangent2 = Vector{0, 2}
	rev, _ := NewReverseTangent(MustConst(p))
	LinkByName(rev, "reverse").(*ConstNode).SetValue(true)

	v, err := rev.Evaluate(0)
	if err != nil {
		t.Fatal(err)
	}
	bp := v.(BLinePoint)
	assertVector(t, "tangent1", bp.Tangent1, Vector{0, -2})
	assertVector(t, "tangent2", bp.Tangent2, Vector{-1, 0})
}

func TestReverseTangentWrapGetsOwnReverse(t *testing.T) {
	ref := MustConst(NewBLinePoint(Vector{}, Vector{1, 1}))
	a, err := Wrap("blinerevtangent", ref)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Wrap("blinerevtangent", ref)
	if err != nil {
		t.Fatal(err)
	}
	ra := LinkByName(a.(Linkable), "reverse")
	rb := LinkByName(b.(Linkable), "reverse")
	if ra == rb {
		t.Fatal("wrapped converters share one reverse constant")
	}
	if ra.RefCount() != 1 || rb.RefCount() != 1 {
		t.Errorf("reverse RefCount = %d, %d; want 1, 1", ra.RefCount(), rb.RefCount())
	}
	if ref.RefCount() != 2 {
		t.Errorf("reference RefCount = %d, want 2", ref.RefCount())
	}

	ra.(*ConstNode).SetValue(true)
	va, _ := a.Evaluate(0)
	vb, _ := b.Evaluate(0)
	assertVector(t, "a tangent", va.(BLinePoint).Tangent1, Vector{-1, -1})
	assertVector(t, "b tangent", vb.(BLinePoint).Tangent1, Vector{1, 1})
}

func TestReverseTangentRejectsNonSpline(t *testing.T) {
	if _, err := NewReverseTangent(MustConst(1.0)); err == nil {
		t.Error("NewReverseTangent(real) succeeded")
	}
	if _, err := NewReverseTangent(nil); err == nil {
		t.Error("NewReverseTangent(nil) succeeded")
	}
}

// --- reference / scale / add ---

func TestReferencePassesThrough(t *testing.T) {
	src := track(t, TypeReal, 0.0, 2.0, 1.0, 4.0)
	ref, err := Wrap("reference", src)
	if err != nil {
		t.Fatal(err)
	}
	for _, at := range []Time{0, 0.5, 1} {
		assertNear(t, "reference", evalReal(t, ref, at), evalReal(t, src, at))
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		name   string
		typ    *Type
		link   Value
		scalar float64
		want   Value
	}{
		{"real", TypeReal, 2.5, 4, 10.0},
		{"vector", TypeVector, Vector{1, -2}, 3, Vector{3, -6}},
		{"angle", TypeAngle, Angle(1), 0.5, Angle(0.5)},
		{"time", TypeTime, Time(2), 1.5, Time(3)},
		{"color", TypeColor, Color{1, 0.5, 0, 1}, 0.5, Color{0.5, 0.25, 0, 0.5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := mustCreate(t, "scale", tc.typ, MustConst(tc.link), MustConst(tc.scalar))
			got, err := n.Evaluate(0)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("scale mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScaleRejectsBool(t *testing.T) {
	if _, err := Wrap("scale", MustConst(true)); err == nil {
		t.Error("Wrap(scale, bool) succeeded")
	}
}

func TestAdd(t *testing.T) {
	n := mustCreate(t, "add", TypeVector, MustConst(Vector{1, 2}), MustConst(Vector{3, 4}), MustConst(2.0))
	v, err := n.Evaluate(0)
	if err != nil {
		t.Fatal(err)
	}
	assertVector(t, "add", v.(Vector), Vector{8, 12})
}

// --- switch ---

func TestSwitchSelectsBranch(t *testing.T) {
	n := mustCreate(t, "switch", TypeReal,
		MustConst(1.0),
		MustConst(2.0),
		track(t, TypeBool, 0.0, false, 1.0, true),
	)
	assertNear(t, "off", evalReal(t, n, 0.5), 1)
	assertNear(t, "on", evalReal(t, n, 1.5), 2)
}

func TestSwitchChangeTimes(t *testing.T) {
	off := track(t, TypeReal, 0.0, 0.0, 2.0, 1.0, 5.0, 0.0)
	on := track(t, TypeReal, 2.5, 0.0, 4.0, 1.0)
	cond := track(t, TypeBool, 1.0, false, 3.0, true)
	n := mustCreate(t, "switch", TypeReal, off, on, cond)

	// off@5 and on@2.5 fall where the other branch is selected.
	want := []Time{0, 1, 2, 3, 4}
	if diff := cmp.Diff(want, ValueChangeTimes(n).Slice()); diff != "" {
		t.Errorf("ValueChangeTimes mismatch (-want +got):\n%s", diff)
	}
	// Times still reports every waypoint.
	if got := Times(n).Len(); got != 7 {
		t.Errorf("Times().Len() = %d, want 7", got)
	}
}

// --- timeloop ---

func newLoop(t *testing.T, link Node, linkTime, localTime, duration Time) Node {
	t.Helper()
	return mustCreate(t, "timeloop", TypeReal, link, MustConst(linkTime), MustConst(localTime), MustConst(duration))
}

func TestTimeLoopEvaluate(t *testing.T) {
	link := track(t, TypeReal, 0.0, 0.0, 10.0, 10.0)
	tests := []struct {
		name     string
		duration Time
		at       Time
		want     float64
	}{
		{"first period", 3, 1, 3},
		{"wrapped", 3, 4, 3},
		{"before local time", 3, -1, 4},
		{"frozen", 0, 7, 2},
		{"backwards", -3, 1, 1},
		{"backwards wrapped", -3, 4, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := newLoop(t, link, 2, 0, tc.duration)
			assertNear(t, "timeloop", evalReal(t, n, tc.at), tc.want)
		})
	}
}

func TestTimeLoopChangeTimes(t *testing.T) {
	link := track(t, TypeReal, 0.0, 0.0, 3.0, 3.0, 10.0, 10.0)
	n := newLoop(t, link, 2, 0, 3)
	// Loop bounds 0 and 3, plus link waypoint 3 mapped to local 1.
	if diff := cmp.Diff([]Time{0, 1, 3}, ValueChangeTimes(n).Slice()); diff != "" {
		t.Errorf("ValueChangeTimes mismatch (-want +got):\n%s", diff)
	}
}

func TestTimeLoopChangeTimesAnimatedControl(t *testing.T) {
	link := track(t, TypeReal, 0.0, 0.0, 10.0, 10.0)
	n := mustCreate(t, "timeloop", TypeReal, link, MustConst(Time(0)), MustConst(Time(0)), track(t, TypeTime, 6.0, Time(4), 8.0, Time(5)))
	got := ValueChangeTimes(n)
	for _, want := range []Time{0, 4, 6, 8} {
		if !got.Contains(want) {
			t.Errorf("ValueChangeTimes() = %v, missing %v", got.Slice(), want)
		}
	}
}
