package whatif

import (
	"math"
	"math/rand"
	"slices"

	"github.com/setanarut/v"
)

const (
	mainBallRadius  = 0.1
	flagSize        = 0.1
	horizontalBound = 5.0
	lowerBound      = -5.0
)

// EntityConfig controls the flags a new entity is created with.
type EntityConfig struct {
	Static   bool
	Bindable bool
	Erasable bool
}

// Entity owns one shape together with its established bindings and pending
// anchors. Everything else in the engine references the shape through the
// entity without owning it; the alive flag is what those references check.
type Entity struct {
	shape    Shape
	bindings []Binding
	unbound  []Unbound
	static   bool
	bindable bool
	erasable bool
	alive    bool
}

// tryBind offers target to every pending anchor on the entity. Anchors that
// bind move from the unbound list to the binding list.
func (ent *Entity) tryBind(target *Entity) {
	kept := ent.unbound[:0]
	for _, anchor := range ent.unbound {
		if binding, ok := anchor.tryBind(ent.shape, target); ok {
			ent.bindings = append(ent.bindings, binding)
		} else {
			kept = append(kept, anchor)
		}
	}
	ent.unbound = kept
}

// boundTo reports whether a live binding joins ent to other. Bindings whose
// partner no longer exists are dropped along the way.
func (ent *Entity) boundTo(other *Entity) bool {
	bound := false
	kept := ent.bindings[:0]
	for _, binding := range ent.bindings {
		if !binding.partner.alive {
			continue
		}
		if binding.partner == other {
			bound = true
		}
		kept = append(kept, binding)
	}
	ent.bindings = kept
	return bound
}

// renderRef pairs an entity with the persistent color it renders in. The
// color is assigned once at registration and never recomputed.
type renderRef struct {
	color  [3]float32
	entity *Entity
}

func newRenderRef(ent *Entity) renderRef {
	return renderRef{
		color:  [3]float32{rand.Float32(), rand.Float32(), rand.Float32()},
		entity: ent,
	}
}

func pruneRefs(refs []renderRef) []renderRef {
	kept := refs[:0]
	for _, ref := range refs {
		if ref.entity.alive {
			kept = append(kept, ref)
		}
	}
	return kept
}

// Engine owns the world: the ordered entity list, the render side-lists
// partitioned by shape kind, the flag pickups, and the simulation-wide
// configuration. An entity's bindings only ever reference entities added
// after it, because bindings form by matching a new shape against existing
// pending anchors.
type Engine struct {
	entities []*Entity
	circles  []renderRef
	polygons []renderRef
	flags    []*Polygon

	ballSpawn v.Vec

	gravityMult     float64
	restitutionMult float64
	frictionMult    float64
	staticFriction  bool
	dynamicFriction bool

	tick         int
	lastContacts int
}

// NewEngine builds the world from a level: the main ball first (entity
// zero, never erased and never culled), then the level's polygons and
// circles. Flag positions expand into small squares.
func NewEngine(level Level) *Engine {
	e := &Engine{
		ballSpawn:       level.Ball,
		gravityMult:     1,
		restitutionMult: 1,
		frictionMult:    1,
		staticFriction:  true,
		dynamicFriction: true,
	}

	for _, pos := range level.Flags {
		e.flags = append(e.flags, NewPolygon([]v.Vec{
			pos,
			{X: pos.X + flagSize, Y: pos.Y},
			{X: pos.X + flagSize, Y: pos.Y + flagSize},
			{X: pos.X, Y: pos.Y + flagSize},
		}))
	}

	ball := e.addEntity(NewCircle(level.Ball, mainBallRadius), EntityConfig{Bindable: true})
	e.circles = append(e.circles, newRenderRef(ball))

	for _, poly := range level.Polygons {
		ent := e.addEntity(NewPolygon(poly.Points), EntityConfig{
			Static:   poly.Static,
			Bindable: poly.Bindable,
		})
		e.polygons = append(e.polygons, newRenderRef(ent))
	}
	for _, circle := range level.Circles {
		ent := e.addEntity(NewCircle(circle.Center, circle.Radius), EntityConfig{
			Static:   circle.Static,
			Bindable: circle.Bindable,
		})
		e.circles = append(e.circles, newRenderRef(ent))
	}
	return e
}

func (e *Engine) addEntity(shape Shape, cfg EntityConfig) *Entity {
	if cfg.Static {
		shape.Data().SetStatic()
	}
	ent := &Entity{
		shape:    shape,
		static:   cfg.Static,
		bindable: cfg.Bindable,
		erasable: cfg.Erasable,
		alive:    true,
	}
	for _, existing := range e.entities {
		existing.tryBind(ent)
	}
	e.entities = append(e.entities, ent)
	return ent
}

// Step advances the world by dt microseconds and returns the display
// snapshot. The pipeline order is: integrate and cull, ball respawn, flag
// pickup, pairwise collisions, binding enforcement, snapshot.
func (e *Engine) Step(dt float64) Snapshot {
	e.tick++

	// Move every non-static entity and drop the ones that fell out of the
	// world. Entity zero is the main ball and is exempt.
	kept := e.entities[:0]
	for i, ent := range e.entities {
		if !ent.static {
			updatePosition(ent.shape, dt, e.gravityMult)
		}
		if ent.shape.Data().Centroid.Y > lowerBound || i == 0 {
			kept = append(kept, ent)
		} else {
			ent.alive = false
		}
	}
	e.entities = kept

	// Return the main ball to its spawn point once it leaves the
	// playfield.
	ball := e.entities[0].shape
	data := ball.Data()
	if math.Abs(data.Centroid.X) > horizontalBound || data.Centroid.Y < lowerBound {
		ball.Translate(e.ballSpawn.Sub(data.Centroid))
		data.Velocity = v.Vec{}
		data.AngularVelocity = 0
	}

	// Consume flags the ball overlaps; pure removal, no physical response.
	flags := e.flags[:0]
	for _, flag := range e.flags {
		if _, hit := Collide(ball, flag); !hit {
			flags = append(flags, flag)
		}
	}
	e.flags = flags

	// Collide every unordered pair unless a live binding joins it, then
	// enforce this entity's bindings. Dead bindings are pruned lazily as
	// they are consulted. Bounding boxes reject far-apart pairs before the
	// support-function test runs; a resolved contact can translate both
	// shapes, so their boxes are refreshed when that happens.
	cfg := e.solverConfig(dt)
	bounds := make([]BB, len(e.entities))
	for i, ent := range e.entities {
		bounds[i] = ShapeBB(ent.shape)
	}
	contacts := 0
	for i, ent := range e.entities {
		for k, other := range e.entities[i+1:] {
			j := i + 1 + k
			if !bounds[i].Intersects(bounds[j]) {
				continue
			}
			if ent.boundTo(other) {
				continue
			}
			if CollideShapes(ent.shape, other.shape, cfg) {
				contacts++
				bounds[i] = ShapeBB(ent.shape)
				bounds[j] = ShapeBB(other.shape)
			}
		}
		for j := range ent.bindings {
			binding := &ent.bindings[j]
			if binding.partner.alive {
				binding.Enforce(ent.shape, cfg)
			}
		}
	}
	e.lastContacts = contacts

	return e.snapshot()
}

func (e *Engine) solverConfig(dt float64) SolverConfig {
	return SolverConfig{
		TimeStep:        dt,
		Restitution:     e.restitutionMult * baseRestitution,
		FrictionMult:    e.frictionMult,
		StaticFriction:  e.staticFriction,
		DynamicFriction: e.dynamicFriction,
	}
}

// AddCircle adds a dynamic, bindable, erasable circle entity.
func (e *Engine) AddCircle(center v.Vec, radius float64) {
	ent := e.addEntity(NewCircle(center, radius), EntityConfig{Bindable: true, Erasable: true})
	e.circles = append(e.circles, newRenderRef(ent))
}

// AddPolygon adds a dynamic, bindable, erasable polygon entity built from
// the convex hull of points.
func (e *Engine) AddPolygon(points []v.Vec) {
	if len(points) == 0 {
		return
	}
	ent := e.addEntity(ConvexHull(points), EntityConfig{Bindable: true, Erasable: true})
	e.polygons = append(e.polygons, newRenderRef(ent))
}

// EraseAt removes the topmost entity whose shape contains point, if that
// entity is erasable. Otherwise it is a no-op.
func (e *Engine) EraseAt(point v.Vec) {
	for i, ent := range e.entities {
		if ent.shape.Includes(point) {
			if ent.erasable {
				ent.alive = false
				e.entities = slices.Delete(e.entities, i, i+1)
			}
			return
		}
	}
}

// AddHinge attaches a pending hinge anchor at point to the first bindable
// entity containing it. No-op if none does.
func (e *Engine) AddHinge(point v.Vec) { e.addAnchor(Hinge, point) }

// AddRigid attaches a pending rigid anchor at point to the first bindable
// entity containing it. No-op if none does.
func (e *Engine) AddRigid(point v.Vec) { e.addAnchor(Rigid, point) }

func (e *Engine) addAnchor(kind AnchorKind, point v.Vec) {
	for _, ent := range e.entities {
		if ent.bindable && ent.shape.Includes(point) {
			ent.unbound = append(ent.unbound, newUnbound(kind, ent.shape, point))
			return
		}
	}
}

func (e *Engine) SetGravityMultiplier(value float64)     { e.gravityMult = value }
func (e *Engine) SetRestitutionMultiplier(value float64) { e.restitutionMult = value }
func (e *Engine) SetFrictionMultiplier(value float64)    { e.frictionMult = value }
func (e *Engine) SetStaticFriction(enabled bool)         { e.staticFriction = enabled }
func (e *Engine) SetDynamicFriction(enabled bool)        { e.dynamicFriction = enabled }

// Stats summarizes the world after the most recent step.
type Stats struct {
	Tick          int
	Entities      int
	Contacts      int
	Bindings      int
	Unbound       int
	Flags         int
	KineticEnergy float64
}

// Stats reports counts and total kinetic energy for telemetry.
func (e *Engine) Stats() Stats {
	stats := Stats{
		Tick:     e.tick,
		Entities: len(e.entities),
		Contacts: e.lastContacts,
		Flags:    len(e.flags),
	}
	for _, ent := range e.entities {
		stats.Bindings += len(ent.bindings)
		stats.Unbound += len(ent.unbound)
		if ent.static {
			continue
		}
		data := ent.shape.Data()
		stats.KineticEnergy += 0.5*data.Mass*data.Velocity.MagSq() +
			0.5*data.Inertia*data.AngularVelocity*data.AngularVelocity
	}
	return stats
}
