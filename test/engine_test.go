package whatif_test

import (
	"math"
	"testing"

	"github.com/setanarut/v"

	whatif "github.com/tBuLi12/what-if-engine"
)

func groundLevel(ballSpawn v.Vec) whatif.Level {
	return whatif.Level{
		Ball: ballSpawn,
		Polygons: []whatif.LevelPolygon{{
			Points: []v.Vec{{X: -5, Y: -1.2}, {X: 5, Y: -1.2}, {X: 5, Y: -1}, {X: -5, Y: -1}},
			Static: true,
		}},
	}
}

func TestMainBallRespawn(t *testing.T) {
	spawn := v.Vec{X: 0.5, Y: 1}
	engine := whatif.NewEngine(whatif.Level{Ball: spawn})

	// The ball falls with nothing to land on. Once it leaves the playfield
	// it is put back at the spawn point with zero velocity, in the same tick,
	// so the snapshot shows it exactly at the spawn again.
	moved := false
	for range 200 {
		snap := engine.Step(16666)
		if len(snap.Circles) != 1 {
			t.Fatalf("main ball disappeared: %d circles", len(snap.Circles))
		}
		center := snap.Circles[0].Center
		if center.Sub(spawn).Mag() > 0.5 {
			moved = true
		}
		if moved && center.Sub(spawn).Mag() < 1e-9 {
			return
		}
	}
	t.Fatal("ball was never returned to its spawn point")
}

func TestMainBallNeverRemoved(t *testing.T) {
	engine := whatif.NewEngine(whatif.Level{Ball: v.Vec{X: 0, Y: 0}})
	for range 2000 {
		snap := engine.Step(16666)
		if len(snap.Circles) != 1 {
			t.Fatal("main ball was removed")
		}
	}
}

func TestBallSettlesOnGround(t *testing.T) {
	engine := whatif.NewEngine(groundLevel(v.Vec{X: 0, Y: -0.4}))

	var prev, last v.Vec
	for range 5000 {
		snap := engine.Step(1000)
		prev, last = last, snap.Circles[0].Center
	}

	restY := -1 + 0.1 // ground surface plus ball radius
	if math.Abs(last.Y-restY) > 0.01 {
		t.Errorf("ball resting at y=%v, want about %v", last.Y, restY)
	}
	if math.Abs(last.Y-prev.Y) > 2e-3 {
		t.Errorf("ball still moving: %v -> %v", prev.Y, last.Y)
	}
}

func TestFlagPickup(t *testing.T) {
	level := groundLevel(v.Vec{X: 0, Y: 0})
	level.Flags = []v.Vec{{X: -0.05, Y: -0.05}, {X: 4, Y: -0.95}}

	engine := whatif.NewEngine(level)
	snap := engine.Step(1000)
	if len(snap.Flags) != 1 {
		t.Fatalf("expected the flag under the ball to be consumed, %d flags left", len(snap.Flags))
	}
}

func TestEraseRules(t *testing.T) {
	engine := whatif.NewEngine(groundLevel(v.Vec{X: 0, Y: 0}))

	// Level entities are not erasable.
	engine.EraseAt(v.Vec{X: 0, Y: -1.1})
	snap := engine.Step(1000)
	if len(snap.Polygons) != 1 {
		t.Fatal("level polygon was erased")
	}

	engine.AddCircle(v.Vec{X: 3, Y: 0}, 0.2)
	snap = engine.Step(1000)
	if len(snap.Circles) != 2 {
		t.Fatalf("expected 2 circles, got %d", len(snap.Circles))
	}

	// Erase at empty space is a no-op.
	engine.EraseAt(v.Vec{X: -4, Y: 3})
	// Erase the added circle. It has moved a little since being added, so
	// aim at its current center.
	center := snap.Circles[1].Center
	engine.EraseAt(center)
	snap = engine.Step(1000)
	if len(snap.Circles) != 1 {
		t.Fatalf("added circle was not erased: %d circles", len(snap.Circles))
	}
}

func TestStaticEntityStaysPut(t *testing.T) {
	engine := whatif.NewEngine(groundLevel(v.Vec{X: 0, Y: -0.4}))
	var first []v.Vec
	for i := range 1000 {
		snap := engine.Step(1000)
		if i == 0 {
			first = snap.Polygons[0].Vertices
			continue
		}
		for j, vert := range snap.Polygons[0].Vertices {
			if vert != first[j] {
				t.Fatalf("static polygon vertex %d moved from %v to %v", j, first[j], vert)
			}
		}
	}
}

func TestRenderColorPersists(t *testing.T) {
	engine := whatif.NewEngine(groundLevel(v.Vec{X: 0, Y: -0.4}))
	first := engine.Step(1000)
	second := engine.Step(1000)
	if first.Circles[0].Color != second.Circles[0].Color {
		t.Error("ball color changed between snapshots")
	}
	if first.Polygons[0].Color != second.Polygons[0].Color {
		t.Error("polygon color changed between snapshots")
	}
}

func TestConfigSetters(t *testing.T) {
	engine := whatif.NewEngine(whatif.Level{Ball: v.Vec{X: 0, Y: 0}})
	engine.SetGravityMultiplier(0)
	snap := engine.Step(16666)
	vecNear(t, snap.Circles[0].Center, v.Vec{X: 0, Y: 0}, 1e-12)

	// Negative gravity is accepted and simply pushes the ball up.
	engine.SetGravityMultiplier(-1)
	for range 10 {
		snap = engine.Step(16666)
	}
	if snap.Circles[0].Center.Y <= 0 {
		t.Errorf("ball did not rise under negative gravity: y=%v", snap.Circles[0].Center.Y)
	}
}

func TestStats(t *testing.T) {
	level := groundLevel(v.Vec{X: 0, Y: 0})
	level.Flags = []v.Vec{{X: 4, Y: -0.95}}
	engine := whatif.NewEngine(level)
	engine.Step(1000)

	stats := engine.Stats()
	if stats.Tick != 1 {
		t.Errorf("tick = %d, want 1", stats.Tick)
	}
	if stats.Entities != 2 {
		t.Errorf("entities = %d, want 2", stats.Entities)
	}
	if stats.Flags != 1 {
		t.Errorf("flags = %d, want 1", stats.Flags)
	}
	if stats.KineticEnergy <= 0 {
		t.Error("falling ball should have kinetic energy")
	}
}
