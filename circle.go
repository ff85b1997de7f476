package whatif

import (
	"math"

	"github.com/setanarut/v"
)

// Circle is a solid disc with mass derived from its area at unit density.
type Circle struct {
	data   CollisionData
	radius float64
	angle  float64 // accumulated rotation, kept for point references
}

func NewCircle(center v.Vec, radius float64) *Circle {
	mass := AreaForCircle(radius)
	return &Circle{
		data: CollisionData{
			Centroid: center,
			Mass:     mass,
			Inertia:  MomentForCircle(mass, radius),
		},
		radius: radius,
	}
}

// AreaForCircle returns the area of a solid circle.
func AreaForCircle(radius float64) float64 {
	return math.Pi * radius * radius
}

// MomentForCircle calculates the moment of inertia for a solid circle
// rotating about its center.
func MomentForCircle(mass, radius float64) float64 {
	return 0.5 * mass * radius * radius
}

func (c *Circle) SupportVector(direction v.Vec) v.Vec {
	if nearZero(direction) {
		return c.data.Centroid.Add(v.Vec{X: c.radius, Y: 0})
	}
	return c.data.Centroid.Add(direction.Unit().Scale(c.radius))
}

func (c *Circle) Includes(point v.Vec) bool {
	return point.Sub(c.data.Centroid).MagSq() <= c.radius*c.radius
}

func (c *Circle) Rotate(angle float64) {
	c.angle += angle
}

func (c *Circle) Translate(delta v.Vec) {
	c.data.Centroid = c.data.Centroid.Add(delta)
}

func (c *Circle) Data() *CollisionData { return &c.data }

func (c *Circle) Center() v.Vec   { return c.data.Centroid }
func (c *Circle) Radius() float64 { return c.radius }

func (c *Circle) PointRef(point v.Vec) PointOnShape {
	return PointOnShape{Offset: point.Sub(c.data.Centroid), Angle: c.angle}
}

func (c *Circle) ResolvePointRef(ref PointOnShape) v.Vec {
	return c.data.Centroid.Add(rotated(ref.Offset, c.angle-ref.Angle))
}
