package whatif

import (
	"math"
	"slices"

	"github.com/setanarut/v"
)

// MaxHullVertices caps the vertex count of polygons produced by ConvexHull.
const MaxHullVertices = 24

// Polygon is a convex polygon stored as a counter-clockwise vertex loop in
// world space. Mass is derived from its area at unit density.
type Polygon struct {
	data     CollisionData
	vertices []v.Vec
	angle    float64 // accumulated rotation, kept for point references
}

// NewPolygon builds a polygon from an ordered vertex loop. The winding is
// normalized to counter-clockwise once and never changes afterwards.
func NewPolygon(points []v.Vec) *Polygon {
	verts := slices.Clone(points)
	if signedArea(verts) < 0 {
		slices.Reverse(verts)
	}
	area := signedArea(verts)
	centroid := CentroidForPoly(verts)
	return &Polygon{
		data: CollisionData{
			Centroid: centroid,
			Mass:     area,
			Inertia:  MomentForPoly(area, verts, centroid),
		},
		vertices: verts,
	}
}

func signedArea(verts []v.Vec) float64 {
	var area float64
	for i, vert := range verts {
		area += vert.Cross(verts[(i+1)%len(verts)])
	}
	return area / 2
}

// CentroidForPoly calculates the natural centroid of a polygon.
func CentroidForPoly(verts []v.Vec) v.Vec {
	var sum float64
	vsum := v.Vec{}
	for i, v1 := range verts {
		v2 := verts[(i+1)%len(verts)]
		cross := v1.Cross(v2)
		sum += cross
		vsum = vsum.Add(v1.Add(v2).Scale(cross))
	}
	return vsum.Scale(1.0 / (3.0 * sum))
}

// MomentForPoly calculates the moment of inertia for a solid polygon
// rotating about its centroid.
func MomentForPoly(mass float64, verts []v.Vec, centroid v.Vec) float64 {
	var sum1, sum2 float64
	for i := range verts {
		v1 := verts[i].Sub(centroid)
		v2 := verts[(i+1)%len(verts)].Sub(centroid)

		a := v2.Cross(v1)
		b := v1.Dot(v1) + v1.Dot(v2) + v2.Dot(v2)

		sum1 += a * b
		sum2 += a
	}
	return (mass * sum1) / (6.0 * sum2)
}

func (p *Polygon) SupportVector(direction v.Vec) v.Vec {
	best := p.vertices[0]
	max := best.Dot(direction)
	for _, vert := range p.vertices[1:] {
		if d := vert.Dot(direction); d > max {
			max = d
			best = vert
		}
	}
	return best
}

func (p *Polygon) Includes(point v.Vec) bool {
	for i, vert := range p.vertices {
		next := p.vertices[(i+1)%len(p.vertices)]
		if next.Sub(vert).Cross(point.Sub(vert)) < -geomEpsilon {
			return false
		}
	}
	return true
}

func (p *Polygon) Rotate(angle float64) {
	for i, vert := range p.vertices {
		p.vertices[i] = p.data.Centroid.Add(rotated(vert.Sub(p.data.Centroid), angle))
	}
	p.angle += angle
}

func (p *Polygon) Translate(delta v.Vec) {
	for i := range p.vertices {
		p.vertices[i] = p.vertices[i].Add(delta)
	}
	p.data.Centroid = p.data.Centroid.Add(delta)
}

func (p *Polygon) Data() *CollisionData { return &p.data }

// Vertices returns a copy of the current vertex loop.
func (p *Polygon) Vertices() []v.Vec {
	return slices.Clone(p.vertices)
}

func (p *Polygon) PointRef(point v.Vec) PointOnShape {
	return PointOnShape{Offset: point.Sub(p.data.Centroid), Angle: p.angle}
}

func (p *Polygon) ResolvePointRef(ref PointOnShape) v.Vec {
	return p.data.Centroid.Add(rotated(ref.Offset, p.angle-ref.Angle))
}

// ConvexHull builds the convex polygon enclosing points, reduced to at most
// MaxHullVertices vertices. This is the only path by which user-drawn point
// sequences enter the simulation.
func ConvexHull(points []v.Vec) *Polygon {
	hull := monotoneChain(points)
	hull = padDegenerate(hull)
	hull = reduceHull(hull, MaxHullVertices)
	return NewPolygon(hull)
}

// monotoneChain computes the convex hull of points in counter-clockwise
// order (Andrew's algorithm). Collinear points are dropped.
func monotoneChain(points []v.Vec) []v.Vec {
	pts := slices.Clone(points)
	slices.SortFunc(pts, func(a, b v.Vec) int {
		if a.X != b.X {
			return cmpFloat(a.X, b.X)
		}
		return cmpFloat(a.Y, b.Y)
	})
	pts = slices.Compact(pts)
	if len(pts) <= 2 {
		return pts
	}

	build := func(ordered []v.Vec) []v.Vec {
		var chain []v.Vec
		for _, p := range ordered {
			for len(chain) >= 2 &&
				chain[len(chain)-1].Sub(chain[len(chain)-2]).Cross(p.Sub(chain[len(chain)-2])) <= 0 {
				chain = chain[:len(chain)-1]
			}
			chain = append(chain, p)
		}
		return chain[:len(chain)-1]
	}

	lower := build(pts)
	slices.Reverse(pts)
	upper := build(pts)
	return append(lower, upper...)
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// padDegenerate widens hulls of fewer than three vertices into a thin
// polygon so downstream mass and collision math stays well defined.
func padDegenerate(hull []v.Vec) []v.Vec {
	const pad = 0.01
	switch len(hull) {
	case 0:
		return hull
	case 1:
		p := hull[0]
		return []v.Vec{
			{X: p.X - pad, Y: p.Y - pad}, {X: p.X + pad, Y: p.Y - pad},
			{X: p.X + pad, Y: p.Y + pad}, {X: p.X - pad, Y: p.Y + pad},
		}
	case 2:
		side := perp(hull[1].Sub(hull[0])).Unit().Scale(pad)
		return []v.Vec{
			hull[0].Sub(side), hull[1].Sub(side),
			hull[1].Add(side), hull[0].Add(side),
		}
	default:
		return hull
	}
}

// reduceHull collapses edges of a counter-clockwise convex hull until it has
// at most maxCount vertices. A collapse replaces an edge's two endpoints by
// the intersection of the neighboring edge lines, which only ever grows the
// polygon, so every input point stays enclosed. Near-collinear corners fall
// back to a midpoint merge.
func reduceHull(hull []v.Vec, maxCount int) []v.Vec {
	for len(hull) > maxCount {
		n := len(hull)
		bestIdx := 0
		bestCost := math.MaxFloat64
		var bestPoint v.Vec

		for i := range n {
			prev := hull[(i-1+n)%n]
			a := hull[i]
			b := hull[(i+1)%n]
			next := hull[(i+2)%n]

			point, ok := lineIntersect(prev, a.Sub(prev), next, b.Sub(next))
			cost := math.Abs(b.Sub(a).Cross(point.Sub(a))) / 2
			if !ok {
				point = a.Lerp(b, 0.5)
				cost = 0
			}
			if cost < bestCost {
				bestIdx = i
				bestCost = cost
				bestPoint = point
			}
		}

		next := (bestIdx + 1) % n
		out := make([]v.Vec, 0, n-1)
		for j := range n {
			switch j {
			case next:
			case bestIdx:
				out = append(out, bestPoint)
			default:
				out = append(out, hull[j])
			}
		}
		hull = out
	}
	return hull
}
