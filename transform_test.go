package animgraph

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVector(t *testing.T, name string, got, want Vector) {
	t.Helper()
	if math.Abs(got.X-want.X) > epsilon || math.Abs(got.Y-want.Y) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- Matrix ---

func TestMatrixIdentity(t *testing.T) {
	assertMatrix(t, "identity", IdentityTransformation.Matrix(), identityMatrix)
}

func TestMatrixTranslation(t *testing.T) {
	tr := IdentityTransformation
	tr.Offset = Vector{10, 20}
	assertMatrix(t, "translation", tr.Matrix(), [6]float64{1, 0, 0, 1, 10, 20})
}

func TestMatrixScale(t *testing.T) {
	tr := Transformation{Scale: Vector{2, 3}}
	assertMatrix(t, "scale", tr.Matrix(), [6]float64{2, 0, 0, 3, 0, 0})
}

func TestMatrixRotation90(t *testing.T) {
	tr := IdentityTransformation
	tr.Angle = AngleDeg(90)
	// cos(90)=0, sin(90)=1 → a=0, b=1, c=-1, d=0
	assertMatrix(t, "rot90", tr.Matrix(), [6]float64{0, 1, -1, 0, 0, 0})
}

func TestMatrixSkew(t *testing.T) {
	tr := IdentityTransformation
	tr.SkewAngle = Angle(math.Pi / 4) // tan = 1
	assertMatrix(t, "skew", tr.Matrix(), [6]float64{1, 0, 1, 1, 0, 0})
}

func TestMatrixCombined(t *testing.T) {
	tr := Transformation{Offset: Vector{50, 100}, Angle: AngleDeg(90), Scale: Vector{2, 2}}
	// a = cos*sx = 0, b = sin*sx = 2, c = -sin*sy = -2, d = cos*sy = 0
	assertMatrix(t, "combined", tr.Matrix(), [6]float64{0, 2, -2, 0, 50, 100})
}

// --- multiplyAffine ---

func TestMultiplyAffineIdentity(t *testing.T) {
	m := [6]float64{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "id*m", multiplyAffine(identityMatrix, m), m)
	assertMatrix(t, "m*id", multiplyAffine(m, identityMatrix), m)
}

func TestConcatMatrixTranslations(t *testing.T) {
	a := Transformation{Offset: Vector{10, 20}, Scale: Vector{1, 1}}
	b := Transformation{Offset: Vector{5, 3}, Scale: Vector{1, 1}}
	assertMatrix(t, "translations", ConcatMatrix(a, b), [6]float64{1, 0, 0, 1, 15, 23})
}

// --- invertAffine ---

func TestInvertAffine(t *testing.T) {
	m := [6]float64{2, 0, 0, 3, 10, 20}
	assertMatrix(t, "m*inv=id", multiplyAffine(m, invertAffine(m)), identityMatrix)
}

func TestInvertAffineComplex(t *testing.T) {
	tr := Transformation{Angle: Angle(math.Pi / 3), Scale: Vector{2, 1}}
	m := tr.Matrix()
	assertMatrix(t, "m*inv=id", multiplyAffine(m, invertAffine(m)), identityMatrix)
}

func TestInvertAffineSingularReturnsIdentity(t *testing.T) {
	m := [6]float64{0, 0, 0, 1, 10, 20}
	assertMatrix(t, "singular→identity", invertAffine(m), identityMatrix)
}

// --- Transform / Back ---

func TestTransformBackRoundtrip(t *testing.T) {
	tr := Transformation{
		Offset:    Vector{30, -12},
		Angle:     AngleDeg(37),
		SkewAngle: AngleDeg(10),
		Scale:     Vector{1.5, 0.5},
	}
	p := Vector{7, 11}
	assertVector(t, "Back(Transform(p))", tr.Back(tr.Transform(p)), p)
}

func TestGeoMMatchesMatrix(t *testing.T) {
	tr := Transformation{Offset: Vector{4, 5}, Angle: AngleDeg(30), Scale: Vector{2, 3}}
	g := tr.GeoM()
	x, y := g.Apply(1, 1)
	want := tr.Transform(Vector{1, 1})
	assertNear(t, "GeoM x", x, want.X)
	assertNear(t, "GeoM y", y, want.Y)
}

// --- Composite transformation ---

func TestCompositeTransformation(t *testing.T) {
	c, err := NewComposite(TypeTransformation)
	if err != nil {
		t.Fatal(err)
	}
	offset, _ := NewAnimated(TypeVector)
	offset.AddValue(0, Vector{0, 0})
	offset.AddValue(1, Vector{10, 0})
	if _, err := SetLinkByName(c, "offset", offset); err != nil {
		t.Fatal(err)
	}

	v, err := c.Evaluate(1)
	if err != nil {
		t.Fatal(err)
	}
	tr := v.(Transformation)
	assertVector(t, "offset", tr.Offset, Vector{10, 0})
	assertVector(t, "scale", tr.Scale, Vector{1, 1})
	assertVector(t, "Transform(origin)", tr.Transform(Vector{}), Vector{10, 0})
}
