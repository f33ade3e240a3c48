package animgraph

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Value is the result of evaluating a node. It holds one of bool, int,
// float64 (real), Time, Angle, Vector, Color, string, BLinePoint, CanvasRef,
// Transformation or []Value (list). Use TypeOf to classify it.
type Value = any

// --- Time ---

// Time is a position on the timeline in seconds.
type Time float64

// timeEpsilon is the tolerance under which two times are the same instant.
const timeEpsilon = 0.0005

// TimeBegin and TimeEnd are the unbounded ends of the timeline.
var (
	TimeBegin = Time(math.Inf(-1))
	TimeEnd   = Time(math.Inf(1))
)

// Equal reports whether t and o are the same instant within timeEpsilon.
func (t Time) Equal(o Time) bool {
	if t == o {
		return true
	}
	return math.Abs(float64(t-o)) < timeEpsilon
}

// Before reports whether t is strictly earlier than o (not Equal).
func (t Time) Before(o Time) bool {
	return t < o && !t.Equal(o)
}

// After reports whether t is strictly later than o (not Equal).
func (t Time) After(o Time) bool {
	return t > o && !t.Equal(o)
}

// Round snaps t to the nearest frame at the given frame rate.
// A non-positive fps returns t unchanged.
func (t Time) Round(fps float64) Time {
	if fps <= 0 || math.IsInf(float64(t), 0) {
		return t
	}
	return Time(math.Floor(float64(t)*fps+0.5) / fps)
}

// IsInf reports whether t is TimeBegin or TimeEnd.
func (t Time) IsInf() bool {
	return math.IsInf(float64(t), 0)
}

func (t Time) String() string {
	switch {
	case t == TimeBegin:
		return "SOT"
	case t == TimeEnd:
		return "EOT"
	}
	return fmt.Sprintf("%gs", float64(t))
}

// --- Angle ---

// Angle is a rotation in radians.
type Angle float64

// Degrees returns a in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// AngleDeg returns an Angle from degrees.
func AngleDeg(deg float64) Angle {
	return Angle(deg * math.Pi / 180)
}

// --- Vector ---

// Vector is a 2D vector used for positions, offsets, tangents and scales.
type Vector struct {
	X, Y float64
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vector) Scale(s float64) Vector { return Vector{v.X * s, v.Y * s} }

// Neg returns -v.
func (v Vector) Neg() Vector { return Vector{-v.X, -v.Y} }

// Mag returns the length of v.
func (v Vector) Mag() float64 { return math.Hypot(v.X, v.Y) }

// --- Color ---

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// ColorScale returns the premultiplied ebiten.ColorScale for c, ready for a
// renderer's DrawImageOptions.
func (c Color) ColorScale() ebiten.ColorScale {
	var cs ebiten.ColorScale
	a := float32(c.A)
	cs.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	return cs
}

// --- BLinePoint ---

// BLinePoint is a spline vertex with its tangents.
// When the tangents are merged, Tangent2 equals Tangent1.
type BLinePoint struct {
	Vertex      Vector
	Width       float64
	Origin      float64
	SplitRadius bool
	SplitAngle  bool
	Tangent1    Vector
	Tangent2    Vector
}

// NewBLinePoint returns a point at v with a merged tangent.
func NewBLinePoint(v, tangent Vector) BLinePoint {
	return BLinePoint{Vertex: v, Width: 1, Origin: 0.5, Tangent1: tangent, Tangent2: tangent}
}

// Reversed returns p with its direction flipped: the tangents swap places and
// are negated, so a merged tangent (a, b) becomes (-a, -b).
func (p BLinePoint) Reversed() BLinePoint {
	p.Tangent1, p.Tangent2 = p.Tangent2.Neg(), p.Tangent1.Neg()
	return p
}

// --- CanvasRef ---

// CanvasRef names an inline or exported canvas. The graph never resolves it.
type CanvasRef struct {
	Name string
}

// --- Value helpers ---

// cloneValue copies list values so callers never share backing arrays with a
// node's state. Other values are plain copies already.
func cloneValue(v Value) Value {
	if l, ok := v.([]Value); ok {
		out := make([]Value, len(l))
		for i, e := range l {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// zeroValue returns the neutral value of typ used for default links.
func zeroValue(typ *Type) Value {
	switch typ {
	case TypeBool:
		return false
	case TypeInteger:
		return 0
	case TypeReal:
		return 0.0
	case TypeTime:
		return Time(0)
	case TypeAngle:
		return Angle(0)
	case TypeVector:
		return Vector{}
	case TypeColor:
		return ColorWhite
	case TypeString:
		return ""
	case TypeBLinePoint:
		return NewBLinePoint(Vector{}, Vector{})
	case TypeCanvas:
		return CanvasRef{}
	case TypeTransformation:
		return IdentityTransformation
	case TypeList:
		return []Value{}
	}
	return nil
}

// components flattens an arithmetic value into float components.
func components(v Value) ([]float64, bool) {
	switch x := v.(type) {
	case int:
		return []float64{float64(x)}, true
	case float64:
		return []float64{x}, true
	case Time:
		return []float64{float64(x)}, true
	case Angle:
		return []float64{float64(x)}, true
	case Vector:
		return []float64{x.X, x.Y}, true
	case Color:
		return []float64{x.R, x.G, x.B, x.A}, true
	}
	return nil, false
}

// compose is the inverse of components for arithmetic types.
func compose(typ *Type, c []float64) Value {
	switch typ {
	case TypeInteger:
		return int(math.Round(c[0]))
	case TypeReal:
		return c[0]
	case TypeTime:
		return Time(c[0])
	case TypeAngle:
		return Angle(c[0])
	case TypeVector:
		return Vector{c[0], c[1]}
	case TypeColor:
		return Color{c[0], c[1], c[2], c[3]}
	}
	return nil
}

func lerpf(a, b, w float64) float64 { return a + (b-a)*w }

func lerpVector(a, b Vector, w float64) Vector {
	return Vector{lerpf(a.X, b.X, w), lerpf(a.Y, b.Y, w)}
}

// lerpValue blends two values of the same interpolable type. Types without
// a blend step from a to b at w >= 1.
func lerpValue(a, b Value, w float64) Value {
	typ := TypeOf(a)
	if ca, ok := components(a); ok {
		cb, _ := components(b)
		out := make([]float64, len(ca))
		for i := range ca {
			out[i] = lerpf(ca[i], cb[i], w)
		}
		return compose(typ, out)
	}
	switch x := a.(type) {
	case BLinePoint:
		y := b.(BLinePoint)
		out := x
		if w >= 0.5 {
			out = y
		}
		out.Vertex = lerpVector(x.Vertex, y.Vertex, w)
		out.Width = lerpf(x.Width, y.Width, w)
		out.Origin = lerpf(x.Origin, y.Origin, w)
		out.Tangent1 = lerpVector(x.Tangent1, y.Tangent1, w)
		out.Tangent2 = lerpVector(x.Tangent2, y.Tangent2, w)
		return out
	case Transformation:
		y := b.(Transformation)
		return Transformation{
			Offset:    lerpVector(x.Offset, y.Offset, w),
			Angle:     Angle(lerpf(float64(x.Angle), float64(y.Angle), w)),
			SkewAngle: Angle(lerpf(float64(x.SkewAngle), float64(y.SkewAngle), w)),
			Scale:     lerpVector(x.Scale, y.Scale, w),
		}
	}
	if w >= 1 {
		return cloneValue(b)
	}
	return cloneValue(a)
}
