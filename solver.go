package whatif

import (
	"math"

	"github.com/setanarut/v"
)

// SolverConfig carries the simulation-wide settings one resolution pass
// reads. Restitution is the effective coefficient, already scaled.
type SolverConfig struct {
	TimeStep        float64 // microseconds
	Restitution     float64
	FrictionMult    float64
	StaticFriction  bool
	DynamicFriction bool
}

// Impulse computes the scalar impulse along normal for the standard 2D
// rigid-body contact formula. Infinite mass and inertia contribute nothing,
// so static bodies never absorb momentum.
func Impulse(a, b *CollisionData, rA, rB, normal, relVel v.Vec, bounce float64) float64 {
	crossA := rA.Cross(normal)
	crossB := rB.Cross(normal)
	k := 1/a.Mass + 1/b.Mass + crossA*crossA/a.Inertia + crossB*crossB/b.Inertia
	return -bounce * relVel.Dot(normal) / k
}

// CollideShapes tests the pair for overlap and resolves the contact if one
// exists. Contacts with near-zero penetration are ignored to avoid a
// degenerate normal. Reports whether a contact was resolved.
func CollideShapes(first, second Shape, cfg SolverConfig) bool {
	contact, ok := Collide(first, second)
	if !ok || nearZero(contact.Penetration) {
		return false
	}
	ResolveContact(first, second, contact, cfg)
	return true
}

// ResolveContact applies one impulse pass for the contact: a normal impulse
// when the bodies approach, a friction impulse picked by the tier policy,
// and a positional correction split by inverse mass. Joint enforcement runs
// through this same primitive with a synthesized contact.
func ResolveContact(first, second Shape, contact Contact, cfg SolverConfig) {
	a := first.Data()
	b := second.Data()

	rA := contact.OnA.Sub(a.Centroid)
	rB := contact.OnB.Sub(b.Centroid)
	normal := contact.Penetration.Unit()

	velA := a.Velocity.Add(perp(rA).Scale(a.AngularVelocity))
	velB := b.Velocity.Add(perp(rB).Scale(b.AngularVelocity))
	relVel := velB.Sub(velA)

	impulse := Impulse(a, b, rA, rB, normal, relVel, 1+cfg.Restitution)

	if impulse > 0 {
		tangent := perp(normal)

		// The impulse that would cancel all tangential motion is the
		// static friction bound.
		staticImpulse := Impulse(a, b, rA, rB, tangent, relVel, 1)

		var frictionImpulse float64
		if staticImpulse > impulse*cfg.FrictionMult*1e-4 {
			// Sliding contact.
			if cfg.DynamicFriction {
				coef := math.Min(1, 50*contact.Penetration.Mag()*cfg.FrictionMult)
				frictionImpulse = Impulse(a, b, rA, rB, tangent, relVel, coef)
			}
		} else if cfg.StaticFriction {
			frictionImpulse = staticImpulse
		}

		a.Velocity = a.Velocity.Sub(normal.Scale(impulse / a.Mass))
		a.AngularVelocity -= impulse * rA.Cross(normal) / a.Inertia
		b.Velocity = b.Velocity.Add(normal.Scale(impulse / b.Mass))
		b.AngularVelocity += impulse * rB.Cross(normal) / b.Inertia

		a.Velocity = a.Velocity.Sub(tangent.Scale(frictionImpulse / a.Mass))
		a.AngularVelocity -= frictionImpulse * rA.Cross(tangent) / a.Inertia
		b.Velocity = b.Velocity.Add(tangent.Scale(frictionImpulse / b.Mass))
		b.AngularVelocity += frictionImpulse * rB.Cross(tangent) / b.Inertia
	}

	if !math.IsInf(a.Mass, 1) || !math.IsInf(b.Mass, 1) {
		correction := normal.Scale(math.Min(contact.Penetration.Mag(), 1e-6*cfg.TimeStep))
		invA := 1 / a.Mass
		invB := 1 / b.Mass
		invSum := invA + invB
		first.Translate(correction.Scale(-invA / invSum))
		second.Translate(correction.Scale(invB / invSum))
	}
}
