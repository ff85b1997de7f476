package whatif

import "github.com/setanarut/v"

// ColoredCircle is the display record for one circle shape.
type ColoredCircle struct {
	Color  [3]float32 `json:"color"`
	Center v.Vec      `json:"center"`
	Radius float64    `json:"radius"`
}

// ColoredPolygon is the display record for one polygon shape.
type ColoredPolygon struct {
	Color    [3]float32 `json:"color"`
	Vertices []v.Vec    `json:"vertices"`
}

// Snapshot is the display record produced each tick: surviving shapes with
// their persistent colors, remaining flags, world-space binding points, and
// the still-pending anchors split by kind.
type Snapshot struct {
	Polygons      []ColoredPolygon `json:"polygons"`
	Circles       []ColoredCircle  `json:"circles"`
	Flags         [][]v.Vec        `json:"flags"`
	RigidBindings []v.Vec          `json:"rigidBindings"`
	Hinges        []v.Vec          `json:"hinges"`
	UnboundRigid  []v.Vec          `json:"unboundRigidBindings"`
	UnboundHinges []v.Vec          `json:"unboundHinges"`
}

// snapshot prunes stale render references and dead bindings, then collects
// the display records.
func (e *Engine) snapshot() Snapshot {
	var snap Snapshot

	e.circles = pruneRefs(e.circles)
	for _, ref := range e.circles {
		circle := ref.entity.shape.(*Circle)
		snap.Circles = append(snap.Circles, ColoredCircle{
			Color:  ref.color,
			Center: circle.Center(),
			Radius: circle.Radius(),
		})
	}

	e.polygons = pruneRefs(e.polygons)
	for _, ref := range e.polygons {
		poly := ref.entity.shape.(*Polygon)
		snap.Polygons = append(snap.Polygons, ColoredPolygon{
			Color:    ref.color,
			Vertices: poly.Vertices(),
		})
	}

	for _, flag := range e.flags {
		snap.Flags = append(snap.Flags, flag.Vertices())
	}

	for _, ent := range e.entities {
		kept := ent.bindings[:0]
		for _, binding := range ent.bindings {
			if !binding.partner.alive {
				continue
			}
			kept = append(kept, binding)
			switch binding.Kind {
			case Hinge:
				snap.Hinges = append(snap.Hinges, ent.shape.ResolvePointRef(binding.first[0]))
			case Rigid:
				p1 := ent.shape.ResolvePointRef(binding.first[0])
				p2 := ent.shape.ResolvePointRef(binding.first[1])
				snap.RigidBindings = append(snap.RigidBindings, p1.Lerp(p2, 0.5))
			}
		}
		ent.bindings = kept

		for _, anchor := range ent.unbound {
			at := ent.shape.ResolvePointRef(anchor.point)
			if anchor.Kind == Hinge {
				snap.UnboundHinges = append(snap.UnboundHinges, at)
			} else {
				snap.UnboundRigid = append(snap.UnboundRigid, at)
			}
		}
	}
	return snap
}
