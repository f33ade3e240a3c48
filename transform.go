package animgraph

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Transformation is a decomposed 2D affine transform.
//
// Composition order:
//
//	Scale -> Skew -> Rotate -> Translate(Offset)
type Transformation struct {
	Offset    Vector
	Angle     Angle
	SkewAngle Angle
	Scale     Vector
}

// IdentityTransformation leaves points unchanged.
var IdentityTransformation = Transformation{Scale: Vector{1, 1}}

// identityMatrix is the identity affine matrix.
var identityMatrix = [6]float64{1, 0, 0, 1, 0, 0}

// Matrix returns the affine matrix [a, b, c, d, tx, ty].
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func (tr Transformation) Matrix() [6]float64 {
	sx := tr.Scale.X
	sy := tr.Scale.Y

	sin, cos := math.Sincos(float64(tr.Angle))

	var tanSkew float64
	if tr.SkewAngle != 0 {
		tanSkew = math.Tan(float64(tr.SkewAngle))
	}

	// After Scale and Skew (along X):
	a := sx
	b := 0.0
	c := tanSkew * sy
	d := sy

	// After Rotate:
	ra := cos*a - sin*b
	rb := sin*a + cos*b
	rc := cos*c - sin*d
	rd := sin*c + cos*d

	return [6]float64{ra, rb, rc, rd, tr.Offset.X, tr.Offset.Y}
}

// Transform applies tr to a point.
func (tr Transformation) Transform(v Vector) Vector {
	x, y := transformPoint(tr.Matrix(), v.X, v.Y)
	return Vector{x, y}
}

// Back maps a point through the inverse of tr. A singular transform maps
// through the identity.
func (tr Transformation) Back(v Vector) Vector {
	x, y := transformPoint(invertAffine(tr.Matrix()), v.X, v.Y)
	return Vector{x, y}
}

// GeoM returns tr as an ebiten.GeoM for renderers drawing evaluated layers.
func (tr Transformation) GeoM() ebiten.GeoM {
	return geoMFromMatrix(tr.Matrix())
}

// ConcatMatrix returns parent * child for two transformations' matrices.
func ConcatMatrix(parent, child Transformation) [6]float64 {
	return multiplyAffine(parent.Matrix(), child.Matrix())
}

func geoMFromMatrix(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityMatrix
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
