package dynamics

import (
	"math"

	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/shape"
)

// inertiaEps treats near-zero centroid inertia as exactly zero to absorb
// floating-point noise from the shoelace sums.
const inertiaEps = 1e-9

// RefreshMass recomputes mass and inverse mass when the mass group is
// dirty. Static bodies always have zero mass; polygons with zero area
// yield zero mass without raising.
func RefreshMass(geom *components.Geom, def *components.Def, d *components.Derived, density float64) {
	if !d.MassDirty {
		return
	}

	var mass float64
	if def.Type != components.Static {
		switch geom.Shape.Kind {
		case shape.CircleKind:
			r := geom.Shape.Radius
			mass = math.Pi * r * r * density
		case shape.RectangleKind:
			mass = geom.Shape.Width * geom.Shape.Height * density
		case shape.PolygonKind:
			mass = math.Abs(signedArea(geom.Shape.Verts)) * density
		}
	}

	d.Mass = mass
	if mass > 0 {
		d.InvMass = 1 / mass
	} else {
		d.InvMass = 0
	}
	d.MassDirty = false
}

// RefreshAngularMass recomputes rotational inertia about the body's
// reference point when the angular group is dirty. Mass is refreshed
// first, since the polygon path needs it.
func RefreshAngularMass(geom *components.Geom, def *components.Def, d *components.Derived, density float64) {
	if !d.AngularMassDirty {
		return
	}
	RefreshMass(geom, def, d, density)

	var inertia float64
	if def.Type != components.Static {
		switch geom.Shape.Kind {
		case shape.CircleKind:
			r := geom.Shape.Radius
			inertia = 0.5 * d.Mass * r * r
		case shape.RectangleKind:
			w := geom.Shape.Width
			h := geom.Shape.Height
			inertia = d.Mass * (w*w + h*h) / 12
		case shape.PolygonKind:
			inertia = polygonInertia(geom.Shape.Verts, d.Mass, density)
		}
	}

	d.AngularMass = inertia
	if inertia > 0 {
		d.InvAngularMass = 1 / inertia
	} else {
		d.InvAngularMass = 0
	}
	d.AngularMassDirty = false
}

// signedArea returns the shoelace area of the local vertex loop; positive
// for counter-clockwise winding. Fewer than 3 vertices have no area.
func signedArea(verts []shape.Vertex) float64 {
	if len(verts) < 3 {
		return 0
	}
	var sum float64
	for i := range verts {
		j := i + 1
		if j == len(verts) {
			j = 0
		}
		sum += verts[i].X*verts[j].Y - verts[j].X*verts[i].Y
	}
	return sum / 2
}

// polygonInertia computes the centroid-relative inertia from the local
// vertices: the origin-relative area inertia shifted by the centroid via
// the parallel axis theorem.
func polygonInertia(verts []shape.Vertex, mass, density float64) float64 {
	area := signedArea(verts)
	if len(verts) < 3 || area == 0 {
		return 0
	}

	var cx, cy, areaInertia float64
	for i := range verts {
		j := i + 1
		if j == len(verts) {
			j = 0
		}
		xi, yi := verts[i].X, verts[i].Y
		xj, yj := verts[j].X, verts[j].Y
		cross := xi*yj - xj*yi

		cx += (xi + xj) * cross
		cy += (yi + yj) * cross
		areaInertia += cross * (xi*xi + xi*xj + xj*xj + yi*yi + yi*yj + yj*yj)
	}
	cx /= 6 * area
	cy /= 6 * area
	areaInertia /= 12

	inertia := density*areaInertia - mass*(cx*cx+cy*cy)
	if math.Abs(inertia) < inertiaEps {
		return 0
	}
	if inertia < 0 {
		return -inertia
	}
	return inertia
}
