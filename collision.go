package whatif

import (
	"log"

	"github.com/setanarut/v"
)

const (
	maxGjkIterations  = 30
	maxEpaIterations  = 30
	warnEpaIterations = 20

	// epaTolerance stops polytope expansion once the edge distance estimate
	// is within it. Circles never converge to geomEpsilon in a reasonable
	// number of iterations, and contact depths in the simulation are far
	// coarser than this anyway.
	epaTolerance = 1e-6
)

// MinkowskiPoint is a point on the surface of two shapes' minkowski
// difference, with the two original support points cached so contact
// locations can be recovered.
type MinkowskiPoint struct {
	a, b v.Vec
	// a - b
	ab v.Vec
}

// Contact describes one overlap between two shapes: the minimal translation
// separating them (pointing from the first shape toward the second) and the
// supporting point on each shape the penetration was derived from.
type Contact struct {
	Penetration v.Vec
	OnA, OnB    v.Vec
}

func support(a, b Shape, direction v.Vec) MinkowskiPoint {
	pa := a.SupportVector(direction)
	pb := b.SupportVector(direction.Neg())
	return MinkowskiPoint{pa, pb, pa.Sub(pb)}
}

// Collide runs a simplex-based overlap test over support queries only, so
// it is agnostic to the shape kinds involved. On overlap it returns the
// contact descriptor; penetration can be numerically zero when the shapes
// barely touch, which callers treat as no contact for resolution purposes.
func Collide(a, b Shape) (Contact, bool) {
	direction := b.Data().Centroid.Sub(a.Data().Centroid)
	if nearZero(direction) {
		direction = v.Vec{X: 1, Y: 0}
	}

	var simplex [3]MinkowskiPoint
	simplex[0] = support(a, b, direction)
	count := 1
	direction = simplex[0].ab.Neg()

	for range maxGjkIterations {
		if nearZero(direction) {
			// The origin sits on the simplex boundary: the shapes touch
			// with no measurable penetration.
			return Contact{OnA: simplex[count-1].a, OnB: simplex[count-1].b}, true
		}

		point := support(a, b, direction)
		if point.ab.Dot(direction) <= 0 {
			// The new point never reached past the origin, so the
			// minkowski difference cannot contain it.
			return Contact{}, false
		}
		simplex[count] = point
		count++

		var contains bool
		contains, direction = evolveSimplex(&simplex, &count)
		if contains {
			return penetration(a, b, simplex), true
		}
	}
	return Contact{}, false
}

// evolveSimplex reduces the simplex to the feature closest to the origin and
// picks the next search direction. It reports whether the simplex already
// contains the origin. The newest point is always at index count-1.
func evolveSimplex(simplex *[3]MinkowskiPoint, count *int) (bool, v.Vec) {
	last := simplex[*count-1].ab
	toOrigin := last.Neg()

	if *count == 2 {
		edge := simplex[0].ab.Sub(last)
		direction := perp(edge)
		if direction.Dot(toOrigin) < 0 {
			direction = direction.Neg()
		}
		return false, direction
	}

	// Triangle case: the origin is either past edge (last, b), past edge
	// (last, c), or inside.
	b := simplex[1]
	c := simplex[0]
	ab := b.ab.Sub(last)
	ac := c.ab.Sub(last)

	abPerp := perp(ab)
	if abPerp.Dot(ac) > 0 {
		abPerp = abPerp.Neg()
	}
	if abPerp.Dot(toOrigin) > 0 {
		simplex[0] = b
		simplex[1] = simplex[2]
		*count = 2
		return false, abPerp
	}

	acPerp := perp(ac)
	if acPerp.Dot(ab) > 0 {
		acPerp = acPerp.Neg()
	}
	if acPerp.Dot(toOrigin) > 0 {
		simplex[1] = simplex[2]
		*count = 2
		return false, acPerp
	}

	return true, v.Vec{}
}

// penetration expands the terminal GJK simplex (EPA) until it finds the
// closest edge of the minkowski difference to the origin, then interpolates
// that edge's cached support points to recover the contact locations.
func penetration(a, b Shape, simplex [3]MinkowskiPoint) Contact {
	polytope := make([]MinkowskiPoint, 0, 8)
	polytope = append(polytope, simplex[:]...)

	// Winding must be counter-clockwise for the edge normals below.
	e0 := polytope[1].ab.Sub(polytope[0].ab)
	e1 := polytope[2].ab.Sub(polytope[0].ab)
	if e0.Cross(e1) < 0 {
		polytope[1], polytope[2] = polytope[2], polytope[1]
	}

	for i := 0; ; i++ {
		edge, normal, dist := closestEdge(polytope)
		point := support(a, b, normal)

		if point.ab.Dot(normal)-dist < epaTolerance || i >= maxEpaIterations {
			if i >= warnEpaIterations {
				log.Println("whatif: EPA used", i, "iterations")
			}
			return contactOnEdge(polytope[edge], polytope[(edge+1)%len(polytope)], normal, dist)
		}
		polytope = append(polytope[:edge+1], append([]MinkowskiPoint{point}, polytope[edge+1:]...)...)
	}
}

// closestEdge returns the polytope edge nearest the origin along with its
// outward normal and distance. The polytope winds counter-clockwise, so the
// outward normal of an edge is its reverse perpendicular.
func closestEdge(polytope []MinkowskiPoint) (int, v.Vec, float64) {
	bestEdge := 0
	bestNormal := v.Vec{}
	bestDist := infinity

	for i, vert := range polytope {
		next := polytope[(i+1)%len(polytope)]
		edge := next.ab.Sub(vert.ab)
		if nearZero(edge) {
			continue
		}
		normal := perp(edge).Neg().Unit()
		dist := vert.ab.Dot(normal)
		if dist < bestDist {
			bestEdge = i
			bestNormal = normal
			bestDist = dist
		}
	}
	return bestEdge, bestNormal, bestDist
}

func contactOnEdge(v0, v1 MinkowskiPoint, normal v.Vec, dist float64) Contact {
	edge := v1.ab.Sub(v0.ab)
	t := 0.0
	if lengthSq := edge.MagSq(); lengthSq > 0 {
		t = clamp01(v0.ab.Neg().Dot(edge) / lengthSq)
	}

	// Interpolate the original support points using the same t. This gives
	// the closest surface points in absolute coordinates.
	return Contact{
		Penetration: normal.Scale(dist),
		OnA:         v0.a.Lerp(v1.a, t),
		OnB:         v0.b.Lerp(v1.b, t),
	}
}
