package whatif_test

import (
	"math"
	"testing"

	"github.com/setanarut/v"
	"gonum.org/v1/gonum/floats/scalar"

	whatif "github.com/tBuLi12/what-if-engine"
)

func TestCollideOverlappingCircles(t *testing.T) {
	a := whatif.NewCircle(v.Vec{X: 0, Y: 0}, 1)
	b := whatif.NewCircle(v.Vec{X: 1.5, Y: 0}, 1)

	contact, ok := whatif.Collide(a, b)
	if !ok {
		t.Fatal("overlapping circles reported no contact")
	}
	if !scalar.EqualWithinAbs(contact.Penetration.Mag(), 0.5, 1e-4) {
		t.Errorf("penetration magnitude = %v, want 0.5", contact.Penetration.Mag())
	}
	normal := contact.Penetration.Unit()
	vecNear(t, normal, v.Vec{X: 1, Y: 0}, 1e-4)
}

func TestCollideSeparatedShapes(t *testing.T) {
	a := whatif.NewCircle(v.Vec{X: 0, Y: 0}, 1)
	b := whatif.NewCircle(v.Vec{X: 3, Y: 0}, 1)
	if _, ok := whatif.Collide(a, b); ok {
		t.Error("separated circles reported a contact")
	}

	square := whatif.NewPolygon([]v.Vec{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}})
	if _, ok := whatif.Collide(a, square); ok {
		t.Error("separated circle and polygon reported a contact")
	}
}

func TestCollideCircleWithPolygon(t *testing.T) {
	circle := whatif.NewCircle(v.Vec{X: 0, Y: 0.9}, 0.5)
	slab := whatif.NewPolygon([]v.Vec{{X: -2, Y: -1}, {X: 2, Y: -1}, {X: 2, Y: 0.5}, {X: -2, Y: 0.5}})

	contact, ok := whatif.Collide(circle, slab)
	if !ok {
		t.Fatal("overlapping circle and polygon reported no contact")
	}
	// The circle dips 0.1 into the slab from above; the minimal translation
	// pushes along -y from the circle's point of view.
	if !scalar.EqualWithinAbs(contact.Penetration.Mag(), 0.1, 1e-4) {
		t.Errorf("penetration magnitude = %v, want 0.1", contact.Penetration.Mag())
	}
	vecNear(t, contact.Penetration.Unit(), v.Vec{X: 0, Y: -1}, 1e-4)
}

func TestResolveConservesMomentum(t *testing.T) {
	a := whatif.NewCircle(v.Vec{X: -0.2, Y: 0}, 0.3)
	b := whatif.NewCircle(v.Vec{X: 0.3, Y: 0}, 0.5)
	a.Data().Velocity = v.Vec{X: 0.8, Y: 0}
	b.Data().Velocity = v.Vec{X: -0.4, Y: 0}

	before := a.Data().Velocity.Scale(a.Data().Mass).Add(b.Data().Velocity.Scale(b.Data().Mass))

	cfg := whatif.SolverConfig{TimeStep: 1000, Restitution: 0.2}
	if !whatif.CollideShapes(a, b, cfg) {
		t.Fatal("expected a resolved contact")
	}

	after := a.Data().Velocity.Scale(a.Data().Mass).Add(b.Data().Velocity.Scale(b.Data().Mass))
	vecNear(t, after, before, 1e-9)

	// The bodies were approaching; afterwards they must separate.
	if rel := b.Data().Velocity.Sub(a.Data().Velocity); rel.X <= 0 {
		t.Errorf("bodies still approaching after resolution: relative velocity %v", rel)
	}
}

func TestResolveLeavesStaticBodyUnmoved(t *testing.T) {
	slab := whatif.NewPolygon([]v.Vec{{X: -2, Y: -1}, {X: 2, Y: -1}, {X: 2, Y: 0}, {X: -2, Y: 0}})
	slab.Data().SetStatic()
	centroid := slab.Data().Centroid

	circle := whatif.NewCircle(v.Vec{X: 0, Y: 0.4}, 0.5)
	circle.Data().Velocity = v.Vec{X: 0, Y: -1}

	cfg := whatif.SolverConfig{
		TimeStep:        1000,
		Restitution:     0.2,
		FrictionMult:    1,
		StaticFriction:  true,
		DynamicFriction: true,
	}
	for range 5 {
		whatif.CollideShapes(circle, slab, cfg)
	}

	data := slab.Data()
	vecNear(t, data.Velocity, v.Vec{}, 0)
	if data.AngularVelocity != 0 {
		t.Errorf("static body angular velocity = %v", data.AngularVelocity)
	}
	vecNear(t, data.Centroid, centroid, 0)

	if circle.Data().Velocity.Y <= 0 {
		t.Errorf("circle still moving into the slab: velocity %v", circle.Data().Velocity)
	}
}

func TestPositionalCorrectionSeparates(t *testing.T) {
	slab := whatif.NewPolygon([]v.Vec{{X: -2, Y: -1}, {X: 2, Y: -1}, {X: 2, Y: 0}, {X: -2, Y: 0}})
	slab.Data().SetStatic()
	circle := whatif.NewCircle(v.Vec{X: 0, Y: 0.4}, 0.5)

	cfg := whatif.SolverConfig{TimeStep: 100000, Restitution: 0.2}
	contact, ok := whatif.Collide(circle, slab)
	if !ok {
		t.Fatal("expected overlap")
	}
	penetrationBefore := contact.Penetration.Mag()
	yBefore := circle.Data().Centroid.Y

	whatif.ResolveContact(circle, slab, contact, cfg)

	if circle.Data().Centroid.Y <= yBefore {
		t.Error("correction did not move the circle toward separation")
	}
	if after, ok := whatif.Collide(circle, slab); ok {
		if after.Penetration.Mag() > penetrationBefore+1e-9 {
			t.Error("correction increased penetration")
		}
	}
}

func TestImpulseStaticPairIsHarmless(t *testing.T) {
	a := whatif.NewPolygon([]v.Vec{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}})
	b := whatif.NewPolygon([]v.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}})
	a.Data().SetStatic()
	b.Data().SetStatic()

	cfg := whatif.SolverConfig{TimeStep: 1000, Restitution: 0.2}
	whatif.CollideShapes(a, b, cfg)

	for _, data := range []*whatif.CollisionData{a.Data(), b.Data()} {
		if !math.IsInf(data.Mass, 1) {
			t.Fatal("mass changed")
		}
		vecNear(t, data.Velocity, v.Vec{}, 0)
	}
}
