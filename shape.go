// Package whatif is a 2D rigid-body physics engine for a puzzle world: a
// main ball, static and dynamic circles and convex polygons, flag pickups,
// and user-placed hinge and rigid bindings between shapes.
package whatif

import (
	"math"

	"github.com/setanarut/v"
)

const (
	gravityCoefficient  = 0.00000981
	movementCoefficient = 0.00004
	baseRestitution     = 0.2
)

// CollisionData is the kinematic and mass state every shape carries.
type CollisionData struct {
	Centroid        v.Vec
	Velocity        v.Vec
	AngularVelocity float64
	Mass            float64
	Inertia         float64
}

// SetStatic gives the body infinite mass and inertia. The inverse terms
// vanish, so no impulse or positional correction ever moves it.
func (d *CollisionData) SetStatic() {
	d.Mass = math.Inf(1)
	d.Inertia = math.Inf(1)
}

// Shape is the capability set shared by circles and polygons.
type Shape interface {
	// SupportVector returns the boundary point extremal in direction.
	SupportVector(direction v.Vec) v.Vec
	// Includes reports whether the shape contains point.
	Includes(point v.Vec) bool
	Rotate(angle float64)
	Translate(delta v.Vec)
	Data() *CollisionData

	// PointRef captures point relative to the shape's current pose so it
	// can be resolved back to world space after the shape moves.
	PointRef(point v.Vec) PointOnShape
	ResolvePointRef(ref PointOnShape) v.Vec
}

// updatePosition applies gravity to the shape's velocity, then rotates and
// translates it by its angular and linear velocity. dt is in microseconds.
func updatePosition(s Shape, dt, gravityMultiplier float64) {
	data := s.Data()
	velocity := data.Velocity
	angular := data.AngularVelocity

	data.Velocity.Y -= gravityMultiplier * gravityCoefficient * dt
	s.Rotate(angular * movementCoefficient * dt)
	s.Translate(velocity.Scale(movementCoefficient * dt))
}
