package whatif

import "github.com/setanarut/v"

// rigidArm separates the second reference pair of a rigid binding from the
// anchor point, giving the weld a lever against relative rotation.
const rigidArm = 0.1

// PointOnShape is a shape-relative coordinate: the offset from the centroid
// and the shape's accumulated rotation when the reference was captured. It
// resolves to a world point under the shape's live transform, so references
// stay valid while the shape moves.
type PointOnShape struct {
	Offset v.Vec
	Angle  float64
}

// AnchorKind distinguishes hinge anchors from rigid ones.
type AnchorKind uint8

const (
	// Hinge pins one point on each of two shapes together, permitting free
	// relative rotation.
	Hinge AnchorKind = iota
	// Rigid pins two point pairs, approximating a weld.
	Rigid
)

// Unbound is a pending anchor on one shape, awaiting a partner shape to
// complete the binding.
type Unbound struct {
	Kind  AnchorKind
	point PointOnShape
}

func newUnbound(kind AnchorKind, s Shape, at v.Vec) Unbound {
	return Unbound{Kind: kind, point: s.PointRef(at)}
}

// Binding joins the owning entity's shape to a partner shape. The partner
// reference is non-owning: the binding is dead once the partner entity is
// gone, and is pruned the next time it is consulted.
type Binding struct {
	Kind    AnchorKind
	partner *Entity
	// Reference pairs on the owning shape and the partner shape. Hinges
	// use only index 0.
	first  [2]PointOnShape
	second [2]PointOnShape
}

// tryBind completes the pending anchor against target. It succeeds only if
// target also occupies the anchor's current world point.
func (u Unbound) tryBind(owner Shape, target *Entity) (Binding, bool) {
	at := owner.ResolvePointRef(u.point)
	if !target.shape.Includes(at) {
		return Binding{}, false
	}

	binding := Binding{Kind: u.Kind, partner: target}
	binding.first[0] = u.point
	binding.second[0] = target.shape.PointRef(at)
	if u.Kind == Rigid {
		arm := at.Add(v.Vec{X: rigidArm, Y: 0})
		binding.first[1] = owner.PointRef(arm)
		binding.second[1] = target.shape.PointRef(arm)
	}
	return binding, true
}

// Enforce drives the gap between each reference pair toward zero by feeding
// a synthesized zero-restitution contact through the collision resolution
// primitive. Friction terms apply the same way they do for real contacts.
func (b *Binding) Enforce(owner Shape, cfg SolverConfig) {
	other := b.partner.shape
	pairs := 1
	if b.Kind == Rigid {
		pairs = 2
	}

	cfg.Restitution = 0
	for i := range pairs {
		onOwner := owner.ResolvePointRef(b.first[i])
		onPartner := other.ResolvePointRef(b.second[i])
		gap := onOwner.Sub(onPartner)
		if nearZero(gap) {
			continue
		}
		contact := Contact{Penetration: gap, OnA: onOwner, OnB: onPartner}
		ResolveContact(owner, other, contact, cfg)
	}
}
