package animgraph

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValueDescLayerParam(t *testing.T) {
	c := NewCanvas("scene")
	l, _ := c.AddLayer("circle")
	d := LayerParam(l, "radius")
	if d.IsValid() {
		t.Fatal("unbound parameter is valid")
	}
	_, err := d.Value(0)
	var ue *UnlinkedNodeError
	if !errors.As(err, &ue) || ue.Slot != "radius" {
		t.Errorf("Value() on unbound param = %v, want UnlinkedNodeError for radius", err)
	}

	if err := d.Replace(track(t, TypeReal, 0.0, 1.0, 1.0, 3.0)); err != nil {
		t.Fatal(err)
	}
	if d.Type() != TypeReal || d.ParamName() != "radius" || d.Index() != -1 {
		t.Errorf("desc = %v type %v", d, d.Type())
	}
	v, err := d.Value(0.5)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "radius(0.5)", v.(float64), 2)
	if diff := cmp.Diff([]Time{0, 1}, d.ChangeTimes().Slice()); diff != "" {
		t.Errorf("ChangeTimes mismatch (-want +got):\n%s", diff)
	}
	if d.ActiveIntervals() != nil {
		t.Error("layer parameter reported active intervals")
	}
}

func TestValueDescLink(t *testing.T) {
	n := mustCreate(t, "scale", TypeReal, MustConst(2.0), MustConst(3.0)).(Linkable)
	d := LinkOf(n, 1)
	if d.Parent() != n || d.ParentIsDynamicList() {
		t.Error("wrong parent")
	}
	if !strings.HasSuffix(d.String(), ".scalar") {
		t.Errorf("String() = %q, want suffix .scalar", d.String())
	}
	if err := d.Replace(MustConst(5.0)); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "scale", evalReal(t, n, 0), 10)

	if LinkOf(n, 9).IsValid() {
		t.Error("out-of-range link is valid")
	}
	if err := LinkOf(n, 9).Replace(MustConst(1.0)); !errors.Is(err, ErrLinkIndex) {
		t.Errorf("Replace out of range = %v, want ErrLinkIndex", err)
	}
}

func TestValueDescDynamicListEntry(t *testing.T) {
	l, es := newMarkers(t, 1, 2)
	es[1].AddActivepoint(0, false)
	es[1].AddActivepoint(3, true)

	d := LinkOf(l, 1)
	if !d.ParentIsDynamicList() {
		t.Fatal("ParentIsDynamicList() = false")
	}
	if diff := cmp.Diff([]Interval{{3, TimeEnd}}, d.ActiveIntervals()); diff != "" {
		t.Errorf("ActiveIntervals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Time{0, 3}, d.Times().Slice()); diff != "" {
		t.Errorf("Times mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Interval{{TimeBegin, TimeEnd}}, LinkOf(l, 0).ActiveIntervals()); diff != "" {
		t.Errorf("entry 0 ActiveIntervals mismatch (-want +got):\n%s", diff)
	}
}

func TestValueDescExported(t *testing.T) {
	c := NewCanvas("scene")
	old := MustConst(1.0)
	c.Export("speed", old)
	d := ExportedValue(c, "speed")
	if !d.IsValid() {
		t.Fatal("exported value is not valid")
	}
	next := MustConst(2.0)
	if err := d.Replace(next); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.Lookup("speed"); got != next {
		t.Error("Replace did not rebind the export")
	}
	if old.RefCount() != 0 {
		t.Errorf("old RefCount = %d, want 0", old.RefCount())
	}
	if err := (ValueDesc{}).Replace(next); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty Replace = %v, want ErrNotFound", err)
	}
}

func TestValueDescExportedReplaceFailureKeepsBinding(t *testing.T) {
	c := NewCanvas("scene")
	old := MustConst(1.0)
	c.Export("speed", old)
	d := ExportedValue(c, "speed")

	gone := MustConst(3.0)
	gone.Dispose()
	for _, tc := range []struct {
		name string
		n    Node
		want error
	}{
		{"nil", nil, ErrType},
		{"disposed", gone, ErrDisposed},
		{"wrong type", MustConst("fast"), ErrType},
	} {
		if err := d.Replace(tc.n); !errors.Is(err, tc.want) {
			t.Errorf("Replace(%s) = %v, want %v", tc.name, err, tc.want)
		}
		if got, ok := c.Lookup("speed"); !ok || got != old {
			t.Fatalf("Replace(%s) changed the export", tc.name)
		}
		if old.RefCount() != 1 {
			t.Errorf("Replace(%s): old RefCount = %d, want 1", tc.name, old.RefCount())
		}
	}
}

func TestValueDescExportedReplaceCreates(t *testing.T) {
	c := NewCanvas("scene")
	if err := ExportedValue(c, "fresh").Replace(MustConst(1.0)); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Lookup("fresh"); !ok {
		t.Error("Replace on a new ID did not export")
	}
	if err := (ValueDesc{}).Replace(MustConst(1.0)); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty Replace = %v, want ErrNotFound", err)
	}
}
