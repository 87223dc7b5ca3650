// Package dynamics implements per-body computation: lazy refresh of the
// derived caches (transform, mass, angular mass), drag integration, and
// impulse application.
package dynamics

import (
	"math"

	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/shape"
)

// RefreshTransform recomputes the world-space vertices and AABB when the
// transform group is dirty, then clears the flag.
func RefreshTransform(pos *components.Position, rot *components.Rotation, geom *components.Geom, d *components.Derived) {
	if !d.TransformDirty {
		return
	}

	switch geom.Shape.Kind {
	case shape.CircleKind:
		d.Verts = d.Verts[:0]
		r := geom.Shape.Radius
		d.Bounds = collision.AABB{
			MinX: pos.X - r, MinY: pos.Y - r,
			MaxX: pos.X + r, MaxY: pos.Y + r,
		}

	case shape.RectangleKind:
		sin, cos := math.Sincos(rot.Theta)
		hw := geom.Shape.Width / 2
		hh := geom.Shape.Height / 2

		if cap(d.Verts) < 4 {
			d.Verts = make([]shape.Vertex, 4)
		}
		d.Verts = d.Verts[:4]
		// Corner order: TR, TL, BL, BR.
		corners := [4][2]float64{{hw, hh}, {-hw, hh}, {-hw, -hh}, {hw, -hh}}
		for i, c := range corners {
			d.Verts[i] = shape.Vertex{
				X: pos.X + c[0]*cos - c[1]*sin,
				Y: pos.Y + c[0]*sin + c[1]*cos,
			}
		}
		d.Bounds = boundsOf(d.Verts)

	case shape.PolygonKind:
		sin, cos := math.Sincos(rot.Theta)
		n := len(geom.Shape.Verts)
		if cap(d.Verts) < n {
			d.Verts = make([]shape.Vertex, n)
		}
		d.Verts = d.Verts[:n]
		for i, v := range geom.Shape.Verts {
			d.Verts[i] = shape.Vertex{
				X: pos.X + v.X*cos - v.Y*sin,
				Y: pos.Y + v.X*sin + v.Y*cos,
			}
		}
		d.Bounds = boundsOf(d.Verts)

	default:
		d.Verts = d.Verts[:0]
		d.Bounds = collision.AABB{MinX: pos.X, MinY: pos.Y, MaxX: pos.X, MaxY: pos.Y}
	}

	d.TransformDirty = false
}

func boundsOf(verts []shape.Vertex) collision.AABB {
	b := collision.AABB{
		MinX: math.MaxFloat64, MinY: math.MaxFloat64,
		MaxX: -math.MaxFloat64, MaxY: -math.MaxFloat64,
	}
	for _, v := range verts {
		if v.X < b.MinX {
			b.MinX = v.X
		}
		if v.Y < b.MinY {
			b.MinY = v.Y
		}
		if v.X > b.MaxX {
			b.MaxX = v.X
		}
		if v.Y > b.MaxY {
			b.MaxY = v.Y
		}
	}
	return b
}
