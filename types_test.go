package animgraph

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		v    Value
		want *Type
	}{
		{true, TypeBool},
		{3, TypeInteger},
		{3.0, TypeReal},
		{Time(1), TypeTime},
		{Angle(1), TypeAngle},
		{Vector{}, TypeVector},
		{ColorWhite, TypeColor},
		{"s", TypeString},
		{NewBLinePoint(Vector{}, Vector{}), TypeBLinePoint},
		{CanvasRef{Name: "inline"}, TypeCanvas},
		{IdentityTransformation, TypeTransformation},
		{[]Value{1.0}, TypeList},
		{float32(1), nil},
	}
	for _, tc := range tests {
		if got := TypeOf(tc.v); got != tc.want {
			t.Errorf("TypeOf(%#v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestTypeByName(t *testing.T) {
	for _, typ := range Types() {
		got, ok := TypeByName(typ.Name())
		if !ok || got != typ {
			t.Errorf("TypeByName(%q) = %v, %v", typ.Name(), got, ok)
		}
	}
	if _, ok := TypeByName("quaternion"); ok {
		t.Error("TypeByName(quaternion) found a type")
	}
}

func TestConvertValue(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		to   *Type
		want Value
	}{
		{"int to real", 2, TypeReal, 2.0},
		{"real to int rounds", 2.6, TypeInteger, 3},
		{"bool to real", true, TypeReal, 1.0},
		{"real to time", 1.5, TypeTime, Time(1.5)},
		{"vector to bline point", Vector{1, 2}, TypeBLinePoint, NewBLinePoint(Vector{1, 2}, Vector{})},
		{"bline point to vector", NewBLinePoint(Vector{3, 4}, Vector{1, 1}), TypeVector, Vector{3, 4}},
		{"identity", "same", TypeString, "same"},
	}
	for _, tc := range tests {
		got, err := ConvertValue(tc.v, tc.to)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: got %v (%T), want %v", tc.name, got, got, tc.want)
		}
	}

	v, _ := ConvertValue(AngleDeg(90), TypeReal)
	assertNear(t, "angle to real", v.(float64), 90)
	v, _ = ConvertValue(180, TypeAngle)
	assertNear(t, "int to angle", float64(v.(Angle)), math.Pi)

	if _, err := ConvertValue("1", TypeReal); !errors.Is(err, ErrType) {
		t.Errorf("string to real: err = %v, want ErrType", err)
	}
	if IsConvertible(TypeReal, TypeBool) || IsConvertible(nil, TypeReal) {
		t.Error("IsConvertible accepted an unsupported conversion")
	}
}

func TestDescribe(t *testing.T) {
	d := Describe(TypeInteger)
	if !d.Interpolable || !d.Arithmetic || d.Name != "integer" {
		t.Errorf("Describe(integer) = %+v", d)
	}
	for _, want := range []string{"real", "time", "angle"} {
		if !slices.Contains(d.ConvertsTo, want) {
			t.Errorf("ConvertsTo = %v, missing %s", d.ConvertsTo, want)
		}
	}
	if d := Describe(TypeString); d.Interpolable || len(d.ConvertsTo) != 0 {
		t.Errorf("Describe(string) = %+v", d)
	}
	if d := Describe(nil); d.Name != "" || d.ConvertsTo != nil {
		t.Errorf("Describe(nil) = %+v, want zero", d)
	}
}

func TestColorScalePremultiplied(t *testing.T) {
	cs := Color{R: 1, G: 0.5, B: 0, A: 0.5}.ColorScale()
	assertNear(t, "R", float64(cs.R()), 0.5)
	assertNear(t, "G", float64(cs.G()), 0.25)
	assertNear(t, "B", float64(cs.B()), 0)
	assertNear(t, "A", float64(cs.A()), 0.5)
}
