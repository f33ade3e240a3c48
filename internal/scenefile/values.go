package scenefile

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/phanxgames/animgraph"
)

// Values are written as plain HCL literals. Angles are stored in radians so
// a file round-trips without rounding.

func encodeVector(v animgraph.Vector) cty.Value {
	return cty.TupleVal([]cty.Value{cty.NumberFloatVal(v.X), cty.NumberFloatVal(v.Y)})
}

func encodeValue(v animgraph.Value) (cty.Value, error) {
	switch x := v.(type) {
	case bool:
		return cty.BoolVal(x), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case float64:
		return cty.NumberFloatVal(x), nil
	case animgraph.Time:
		return cty.NumberFloatVal(float64(x)), nil
	case animgraph.Angle:
		return cty.NumberFloatVal(float64(x)), nil
	case string:
		return cty.StringVal(x), nil
	case animgraph.CanvasRef:
		return cty.StringVal(x.Name), nil
	case animgraph.Vector:
		return encodeVector(x), nil
	case animgraph.Color:
		return cty.TupleVal([]cty.Value{
			cty.NumberFloatVal(x.R), cty.NumberFloatVal(x.G), cty.NumberFloatVal(x.B), cty.NumberFloatVal(x.A),
		}), nil
	case animgraph.BLinePoint:
		return cty.ObjectVal(map[string]cty.Value{
			"point":        encodeVector(x.Vertex),
			"width":        cty.NumberFloatVal(x.Width),
			"origin":       cty.NumberFloatVal(x.Origin),
			"split_radius": cty.BoolVal(x.SplitRadius),
			"split_angle":  cty.BoolVal(x.SplitAngle),
			"t1":           encodeVector(x.Tangent1),
			"t2":           encodeVector(x.Tangent2),
		}), nil
	case animgraph.Transformation:
		return cty.ObjectVal(map[string]cty.Value{
			"offset":     encodeVector(x.Offset),
			"angle":      cty.NumberFloatVal(float64(x.Angle)),
			"skew_angle": cty.NumberFloatVal(float64(x.SkewAngle)),
			"scale":      encodeVector(x.Scale),
		}), nil
	case []animgraph.Value:
		return encodeList(x)
	}
	return cty.NilVal, fmt.Errorf("scenefile: cannot encode %T", v)
}

// encodeList writes each element as { type = "...", value = ... } since a
// list may mix element types.
func encodeList(list []animgraph.Value) (cty.Value, error) {
	if len(list) == 0 {
		return cty.EmptyTupleVal, nil
	}
	elems := make([]cty.Value, 0, len(list))
	for i, e := range list {
		typ := animgraph.TypeOf(e)
		if typ == nil {
			return cty.NilVal, fmt.Errorf("scenefile: list element %d: cannot encode %T", i, e)
		}
		ev, err := encodeValue(e)
		if err != nil {
			return cty.NilVal, fmt.Errorf("scenefile: list element %d: %w", i, err)
		}
		elems = append(elems, cty.ObjectVal(map[string]cty.Value{
			"type":  cty.StringVal(typ.Name()),
			"value": ev,
		}))
	}
	return cty.TupleVal(elems), nil
}

func decodeList(v cty.Value) ([]animgraph.Value, error) {
	if v.IsNull() || !(v.Type().IsTupleType() || v.Type().IsListType()) {
		return nil, fmt.Errorf("expected a list of typed elements, got %s", v.Type().FriendlyName())
	}
	out := make([]animgraph.Value, 0, v.LengthInt())
	for i, e := range v.AsValueSlice() {
		var typeName string
		var raw cty.Value
		hasValue := false
		err := decodeObject(e, fields{
			"type": func(tv cty.Value) (err error) {
				typeName, err = decodeString(tv)
				return
			},
			"value": func(vv cty.Value) error {
				raw, hasValue = vv, true
				return nil
			},
		})
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		typ, ok := animgraph.TypeByName(typeName)
		if !ok {
			return nil, fmt.Errorf("element %d: unknown type %q", i, typeName)
		}
		if !hasValue {
			return nil, fmt.Errorf("element %d: missing value", i)
		}
		ev, err := decodeValue(typ, raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func decodeNumber(v cty.Value) (float64, error) {
	if v.IsNull() || v.Type() != cty.Number {
		return 0, fmt.Errorf("expected a number, got %s", v.Type().FriendlyName())
	}
	f, _ := v.AsBigFloat().Float64()
	return f, nil
}

func decodeNumbers(v cty.Value, n int) ([]float64, error) {
	if v.IsNull() || !(v.Type().IsTupleType() || v.Type().IsListType()) || v.LengthInt() != n {
		return nil, fmt.Errorf("expected %d numbers", n)
	}
	out := make([]float64, 0, n)
	for _, e := range v.AsValueSlice() {
		f, err := decodeNumber(e)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func decodeVector(v cty.Value) (animgraph.Vector, error) {
	c, err := decodeNumbers(v, 2)
	if err != nil {
		return animgraph.Vector{}, err
	}
	return animgraph.Vector{X: c[0], Y: c[1]}, nil
}

func decodeBool(v cty.Value) (bool, error) {
	if v.IsNull() || v.Type() != cty.Bool {
		return false, fmt.Errorf("expected a bool, got %s", v.Type().FriendlyName())
	}
	return v.True(), nil
}

func decodeString(v cty.Value) (string, error) {
	if v.IsNull() || v.Type() != cty.String {
		return "", fmt.Errorf("expected a string, got %s", v.Type().FriendlyName())
	}
	return v.AsString(), nil
}

// fields reads the named attributes of an object value. Missing attributes
// keep the values already in dst.
type fields map[string]func(cty.Value) error

func decodeObject(v cty.Value, fs fields) error {
	if v.IsNull() || !(v.Type().IsObjectType() || v.Type().IsMapType()) {
		return fmt.Errorf("expected an object, got %s", v.Type().FriendlyName())
	}
	for name, val := range v.AsValueMap() {
		fn, ok := fs[name]
		if !ok {
			return fmt.Errorf("unexpected attribute %q", name)
		}
		if err := fn(val); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func intoFloat(dst *float64) func(cty.Value) error {
	return func(v cty.Value) (err error) {
		*dst, err = decodeNumber(v)
		return
	}
}

func intoAngle(dst *animgraph.Angle) func(cty.Value) error {
	return func(v cty.Value) error {
		f, err := decodeNumber(v)
		*dst = animgraph.Angle(f)
		return err
	}
}

func intoVector(dst *animgraph.Vector) func(cty.Value) error {
	return func(v cty.Value) (err error) {
		*dst, err = decodeVector(v)
		return
	}
}

func intoBool(dst *bool) func(cty.Value) error {
	return func(v cty.Value) (err error) {
		*dst, err = decodeBool(v)
		return
	}
}

// decodeValue reads v as a value of type typ.
func decodeValue(typ *animgraph.Type, v cty.Value) (animgraph.Value, error) {
	switch typ {
	case animgraph.TypeBool:
		return decodeBool(v)
	case animgraph.TypeInteger:
		f, err := decodeNumber(v)
		return int(f), err
	case animgraph.TypeReal:
		return decodeNumber(v)
	case animgraph.TypeTime:
		f, err := decodeNumber(v)
		return animgraph.Time(f), err
	case animgraph.TypeAngle:
		f, err := decodeNumber(v)
		return animgraph.Angle(f), err
	case animgraph.TypeString:
		return decodeString(v)
	case animgraph.TypeCanvas:
		s, err := decodeString(v)
		return animgraph.CanvasRef{Name: s}, err
	case animgraph.TypeVector:
		return decodeVector(v)
	case animgraph.TypeColor:
		c, err := decodeNumbers(v, 4)
		if err != nil {
			return nil, err
		}
		return animgraph.Color{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
	case animgraph.TypeBLinePoint:
		p := animgraph.NewBLinePoint(animgraph.Vector{}, animgraph.Vector{})
		err := decodeObject(v, fields{
			"point":        intoVector(&p.Vertex),
			"width":        intoFloat(&p.Width),
			"origin":       intoFloat(&p.Origin),
			"split_radius": intoBool(&p.SplitRadius),
			"split_angle":  intoBool(&p.SplitAngle),
			"t1":           intoVector(&p.Tangent1),
			"t2":           intoVector(&p.Tangent2),
		})
		return p, err
	case animgraph.TypeTransformation:
		tr := animgraph.IdentityTransformation
		err := decodeObject(v, fields{
			"offset":     intoVector(&tr.Offset),
			"angle":      intoAngle(&tr.Angle),
			"skew_angle": intoAngle(&tr.SkewAngle),
			"scale":      intoVector(&tr.Scale),
		})
		return tr, err
	case animgraph.TypeList:
		return decodeList(v)
	}
	return nil, fmt.Errorf("values of type %s cannot be written literally", typ.Name())
}
