package whatif

import (
	"math"

	"github.com/setanarut/v"
)

const (
	geomEpsilon         = 1e-9
	infinity    float64 = math.MaxFloat64
)

// nearZero reports whether vect is numerically indistinguishable from the
// zero vector.
func nearZero(vect v.Vec) bool {
	return vect.MagSq() < geomEpsilon*geomEpsilon
}

// perp returns a perpendicular vector. (90 degree rotation)
func perp(a v.Vec) v.Vec {
	return v.Vec{X: -a.Y, Y: a.X}
}

// rotated rotates a by angle radians.
func rotated(a v.Vec, angle float64) v.Vec {
	sin, cos := math.Sincos(angle)
	return v.Vec{X: a.X*cos - a.Y*sin, Y: a.X*sin + a.Y*cos}
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(f, 1))
}

// lineIntersect returns the intersection of the line through a with
// direction da and the line through b with direction db. The second return
// value is false when the lines are parallel.
func lineIntersect(a, da, b, db v.Vec) (v.Vec, bool) {
	den := da.Cross(db)
	if math.Abs(den) < geomEpsilon {
		return v.Vec{}, false
	}
	t := b.Sub(a).Cross(db) / den
	return a.Add(da.Scale(t)), true
}
