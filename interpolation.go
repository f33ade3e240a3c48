package animgraph

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// Interpolation selects the curve on one side of a waypoint. A waypoint's
// Before mode shapes the curve arriving from its predecessor and its After
// mode shapes the curve leaving toward its successor.
type Interpolation uint8

const (
	InterpolationClamped  Interpolation = iota // spline that never overshoots neighboring values
	InterpolationTCB                           // Kochanek–Bartels spline (tension, continuity, bias)
	InterpolationConstant                      // hold the earlier value until the next waypoint
	InterpolationEase                          // zero velocity at the waypoint
	InterpolationLinear                        // constant velocity
)

var interpolationNames = [...]string{"clamped", "tcb", "constant", "ease", "linear"}

func (i Interpolation) String() string {
	if int(i) < len(interpolationNames) {
		return interpolationNames[i]
	}
	return fmt.Sprintf("Interpolation(%d)", i)
}

// ParseInterpolation parses the String form of an interpolation mode.
func ParseInterpolation(s string) (Interpolation, error) {
	for i, name := range interpolationNames {
		if name == s {
			return Interpolation(i), nil
		}
	}
	return 0, fmt.Errorf("animgraph: unknown interpolation %q", s)
}

func (i Interpolation) spline() bool {
	return i == InterpolationClamped || i == InterpolationTCB
}

// sideCurve returns the easing curve a mode contributes to one side of a
// segment. Outgoing ease starts slow, incoming ease ends slow.
func sideCurve(mode Interpolation, outgoing bool) ease.TweenFunc {
	if mode != InterpolationEase {
		return ease.Linear
	}
	if outgoing {
		return ease.InQuad
	}
	return ease.OutQuad
}

// blendWeight combines the outgoing and incoming curves over u in [0, 1].
// The outgoing curve dominates near u=0 and the incoming one near u=1, so
// ease on both sides yields smoothstep and linear on both sides yields u.
func blendWeight(out, in Interpolation, u float64) float64 {
	gOut := float64(sideCurve(out, true)(float32(u), 0, 1, 1))
	gIn := float64(sideCurve(in, false)(float32(u), 0, 1, 1))
	return (1-u)*gOut + u*gIn
}

// hermite evaluates the cubic Hermite basis per component.
func hermite(p0, m0, p1, m1 []float64, u float64) []float64 {
	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2
	out := make([]float64, len(p0))
	for i := range p0 {
		out[i] = h00*p0[i] + h10*m0[i] + h01*p1[i] + h11*m1[i]
	}
	return out
}
