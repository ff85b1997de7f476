package whatif

import "github.com/setanarut/v"

// BB is an axis-aligned 2D bounding box. (left, bottom, right, top)
type BB struct {
	L, B, R, T float64
}

// NewBBForExtents constructs a BB centered on a point with the given extents
// (half sizes).
func NewBBForExtents(c v.Vec, hw, hh float64) BB {
	return BB{
		L: c.X - hw,
		B: c.Y - hh,
		R: c.X + hw,
		T: c.Y + hh,
	}
}

// NewBBForCircle constructs a BB for a circle with the given position and
// radius.
func NewBBForCircle(p v.Vec, r float64) BB {
	return NewBBForExtents(p, r, r)
}

// ShapeBB bounds an arbitrary shape using its support function. Circles get
// the exact box directly.
func ShapeBB(s Shape) BB {
	if c, ok := s.(*Circle); ok {
		return NewBBForCircle(c.Center(), c.Radius())
	}
	return BB{
		L: s.SupportVector(v.Vec{X: -1, Y: 0}).X,
		B: s.SupportVector(v.Vec{X: 0, Y: -1}).Y,
		R: s.SupportVector(v.Vec{X: 1, Y: 0}).X,
		T: s.SupportVector(v.Vec{X: 0, Y: 1}).Y,
	}
}

// Intersects returns true if a and b intersect.
func (bb BB) Intersects(b BB) bool {
	return bb.L <= b.R && b.L <= bb.R && bb.B <= b.T && b.B <= bb.T
}
