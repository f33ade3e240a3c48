package animgraph

import "math"

// Type identifies the value domain a node produces. Types are registered once
// at package initialization and compared by identity.
type Type struct {
	name         string
	localName    string
	interpolable bool
	arithmetic   bool
}

// Name returns the type's stable identifier, e.g. "bline_point".
func (t *Type) Name() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

// LocalName returns the human-readable name.
func (t *Type) LocalName() string { return t.localName }

func (t *Type) String() string { return t.Name() }

var (
	types       []*Type
	typesByName = map[string]*Type{}
)

func newType(name, localName string, interpolable, arithmetic bool) *Type {
	t := &Type{name: name, localName: localName, interpolable: interpolable, arithmetic: arithmetic}
	types = append(types, t)
	typesByName[name] = t
	return t
}

// Registered types.
var (
	TypeBool           = newType("bool", "Bool", false, false)
	TypeInteger        = newType("integer", "Integer", true, true)
	TypeReal           = newType("real", "Real", true, true)
	TypeTime           = newType("time", "Time", true, true)
	TypeAngle          = newType("angle", "Angle", true, true)
	TypeVector         = newType("vector", "Vector", true, true)
	TypeColor          = newType("color", "Color", true, true)
	TypeString         = newType("string", "String", false, false)
	TypeBLinePoint     = newType("bline_point", "Spline Point", true, false)
	TypeCanvas         = newType("canvas", "Canvas", false, false)
	TypeTransformation = newType("transformation", "Transformation", true, false)
	TypeList           = newType("list", "List", false, false)
)

// TypeByName looks up a registered type.
func TypeByName(name string) (*Type, bool) {
	t, ok := typesByName[name]
	return t, ok
}

// Types returns every registered type in registration order.
// The returned slice MUST NOT be mutated by the caller.
func Types() []*Type {
	return types
}

// TypeOf classifies a Value. It returns nil for Go values outside the type system.
func TypeOf(v Value) *Type {
	switch v.(type) {
	case bool:
		return TypeBool
	case int:
		return TypeInteger
	case float64:
		return TypeReal
	case Time:
		return TypeTime
	case Angle:
		return TypeAngle
	case Vector:
		return TypeVector
	case Color:
		return TypeColor
	case string:
		return TypeString
	case BLinePoint:
		return TypeBLinePoint
	case CanvasRef:
		return TypeCanvas
	case Transformation:
		return TypeTransformation
	case []Value:
		return TypeList
	}
	return nil
}

// --- Conversion ---

type conversionKey struct{ from, to *Type }

// conversions is the static auto-conversion table used by links.
var conversions = map[conversionKey]func(Value) Value{
	{TypeInteger, TypeReal}:  func(v Value) Value { return float64(v.(int)) },
	{TypeInteger, TypeTime}:  func(v Value) Value { return Time(v.(int)) },
	{TypeInteger, TypeAngle}: func(v Value) Value { return AngleDeg(float64(v.(int))) },
	{TypeReal, TypeInteger}:  func(v Value) Value { return int(math.Round(v.(float64))) },
	{TypeReal, TypeTime}:     func(v Value) Value { return Time(v.(float64)) },
	{TypeTime, TypeReal}:     func(v Value) Value { return float64(v.(Time)) },
	{TypeAngle, TypeReal}:    func(v Value) Value { return v.(Angle).Degrees() },
	{TypeBool, TypeInteger}: func(v Value) Value {
		if v.(bool) {
			return 1
		}
		return 0
	},
	{TypeBool, TypeReal}: func(v Value) Value {
		if v.(bool) {
			return 1.0
		}
		return 0.0
	},
	{TypeVector, TypeBLinePoint}: func(v Value) Value { return NewBLinePoint(v.(Vector), Vector{}) },
	{TypeBLinePoint, TypeVector}: func(v Value) Value { return v.(BLinePoint).Vertex },
}

// IsConvertible reports whether values of type from can feed a slot of type to.
func IsConvertible(from, to *Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from == to {
		return true
	}
	_, ok := conversions[conversionKey{from, to}]
	return ok
}

// ConvertValue converts v to type to using the auto-conversion table.
func ConvertValue(v Value, to *Type) (Value, error) {
	from := TypeOf(v)
	if from == to && from != nil {
		return v, nil
	}
	fn, ok := conversions[conversionKey{from, to}]
	if !ok {
		return nil, &TypeError{Op: "convert", Expected: to, Actual: from}
	}
	return fn(v), nil
}

// TypeDesc is display metadata for a type.
type TypeDesc struct {
	Name         string
	LocalName    string
	Interpolable bool
	Arithmetic   bool
	ConvertsTo   []string
}

// Describe returns display metadata for t. A nil type has none.
func Describe(t *Type) TypeDesc {
	if t == nil {
		return TypeDesc{}
	}
	d := TypeDesc{
		Name:         t.name,
		LocalName:    t.localName,
		Interpolable: t.interpolable,
		Arithmetic:   t.arithmetic,
	}
	for _, other := range types {
		if other != t && IsConvertible(t, other) {
			d.ConvertsTo = append(d.ConvertsTo, other.name)
		}
	}
	return d
}
