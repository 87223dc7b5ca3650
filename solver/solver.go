// Package solver resolves colliding pairs: position correction first, then
// sequential velocity impulses honoring restitution and Coulomb friction.
// Dispatch depends on the body types on each side of the contact, since
// static, kinematic, and dynamic bodies expose different degrees of freedom.
package solver

import (
	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/dynamics"
	"github.com/pthm-cable/impulse/material"
	"github.com/pthm-cable/impulse/vec"
)

// tangentEps discards friction tangents too small to normalize reliably.
const tangentEps = 1e-9

// Body bundles the mutable state of one contact participant.
type Body struct {
	Pos *components.Position
	Vel *components.Velocity
	Rot *components.Rotation
	Der *components.Derived
	Typ components.BodyType
	Mat material.Material
}

// CorrectPositions separates a penetrating pair along the hit normal,
// which points from a toward b.
//
// With massProportional (the historical rule) each mover takes the share
// m/(m1+m2) of the depth, so the heavier body is displaced more. The
// conventional rule displaces inversely proportional to mass instead.
func CorrectPositions(a, b Body, hit collision.Hit, massProportional bool) {
	aStatic := a.Typ == components.Static
	bStatic := b.Typ == components.Static

	switch {
	case aStatic && bStatic:
		return

	case aStatic:
		b.Pos.X += hit.NormalX * hit.Depth
		b.Pos.Y += hit.NormalY * hit.Depth
		b.Der.MarkTransformDirty()

	case bStatic:
		a.Pos.X -= hit.NormalX * hit.Depth
		a.Pos.Y -= hit.NormalY * hit.Depth
		a.Der.MarkTransformDirty()

	default:
		total := a.Der.Mass + b.Der.Mass
		if total == 0 {
			return
		}
		var ratioA float64
		if massProportional {
			ratioA = a.Der.Mass / total
		} else {
			ratioA = b.Der.Mass / total
		}
		ratioB := 1 - ratioA

		a.Pos.X -= hit.NormalX * hit.Depth * ratioA
		a.Pos.Y -= hit.NormalY * hit.Depth * ratioA
		b.Pos.X += hit.NormalX * hit.Depth * ratioB
		b.Pos.Y += hit.NormalY * hit.Depth * ratioB
		a.Der.MarkTransformDirty()
		b.Der.MarkTransformDirty()
	}
}

// contact carries the combined material response of a colliding pair:
// restitution is the minimum of both materials, friction follows the
// first body's combine mode against the second.
type contact struct {
	e, muS, muD float64
}

// ResolveVelocity applies the contact impulses for a colliding pair. The
// normal points from a toward b; m holds the contact manifold for paths
// that use contact points.
func ResolveVelocity(a, b Body, hit collision.Hit, m *collision.Manifold) {
	var c contact
	c.e = material.CombineRestitution(a.Mat, b.Mat)
	c.muS, c.muD = material.CombineFriction(a.Mat, b.Mat)

	switch {
	case a.Typ == components.Static && b.Typ == components.Static:
		return
	case a.Typ == components.Dynamic && b.Typ == components.Dynamic:
		resolveDynamicPair(a, b, hit, m, c)
	case a.Typ == components.Dynamic:
		resolveDynamicAgainst(a, b, hit, m, -1, c)
	case b.Typ == components.Dynamic:
		resolveDynamicAgainst(b, a, hit, m, 1, c)
	default:
		resolveTranslational(a, b, hit, c)
	}
}

// resolveDynamicPair handles two dynamic bodies: a normal impulse per
// contact point, then a friction pass using the stored normal impulses.
func resolveDynamicPair(a, b Body, hit collision.Hit, m *collision.Manifold, c contact) {
	nx, ny := hit.NormalX, hit.NormalY

	var normalJ [2]float64

	for i := 0; i < m.Count; i++ {
		rax := m.X[i] - a.Pos.X
		ray := m.Y[i] - a.Pos.Y
		rbx := m.X[i] - b.Pos.X
		rby := m.Y[i] - b.Pos.Y

		relX, relY := relativeVelocity(a, b, rax, ray, rbx, rby)
		vn := vec.Dot(relX, relY, nx, ny)
		if vn > 0 {
			continue
		}

		raCrossN := vec.Cross(rax, ray, nx, ny)
		rbCrossN := vec.Cross(rbx, rby, nx, ny)
		denom := a.Der.InvMass + b.Der.InvMass +
			raCrossN*raCrossN*a.Der.InvAngularMass +
			rbCrossN*rbCrossN*b.Der.InvAngularMass
		if denom == 0 {
			continue
		}

		j := -(1 + c.e) * vn / denom
		normalJ[i] = j

		dynamics.ApplyImpulseAt(a.Vel, a.Rot, rax, ray, -j*nx, -j*ny, a.Der.InvMass, a.Der.InvAngularMass)
		dynamics.ApplyImpulseAt(b.Vel, b.Rot, rbx, rby, j*nx, j*ny, b.Der.InvMass, b.Der.InvAngularMass)
	}

	// Friction runs after every normal impulse has been applied, against
	// the updated relative velocities.
	for i := 0; i < m.Count; i++ {
		rax := m.X[i] - a.Pos.X
		ray := m.Y[i] - a.Pos.Y
		rbx := m.X[i] - b.Pos.X
		rby := m.Y[i] - b.Pos.Y

		relX, relY := relativeVelocity(a, b, rax, ray, rbx, rby)
		vn := vec.Dot(relX, relY, nx, ny)
		tx := relX - vn*nx
		ty := relY - vn*ny
		if vec.LengthSq(tx, ty) < tangentEps {
			continue
		}
		tx, ty = vec.Normalize(tx, ty)

		raCrossT := vec.Cross(rax, ray, tx, ty)
		rbCrossT := vec.Cross(rbx, rby, tx, ty)
		denom := a.Der.InvMass + b.Der.InvMass +
			raCrossT*raCrossT*a.Der.InvAngularMass +
			rbCrossT*rbCrossT*b.Der.InvAngularMass
		if denom == 0 {
			continue
		}

		jt := -vec.Dot(relX, relY, tx, ty) / denom

		j := normalJ[i]
		var fx, fy float64
		if abs(jt) <= j*c.muS {
			fx, fy = jt*tx, jt*ty
		} else {
			fx, fy = -j*c.muD*tx, -j*c.muD*ty
		}

		dynamics.ApplyImpulseAt(a.Vel, a.Rot, rax, ray, -fx, -fy, a.Der.InvMass, a.Der.InvAngularMass)
		dynamics.ApplyImpulseAt(b.Vel, b.Rot, rbx, rby, fx, fy, b.Der.InvMass, b.Der.InvAngularMass)
	}
}

// resolveDynamicAgainst handles a dynamic body against a kinematic or
// static one. Only the dynamic side contributes to the denominator; the
// other side receives the opposite impulse translationally, scaled by its
// own inverse mass (zero for static bodies). sign is the factor that maps
// the a-to-b normal onto the dynamic body's impulse direction: -1 when the
// dynamic body is the pair's first member, +1 otherwise.
func resolveDynamicAgainst(dyn, other Body, hit collision.Hit, m *collision.Manifold, sign float64, c contact) {
	nx, ny := hit.NormalX*sign, hit.NormalY*sign
	count := float64(m.Count)

	for i := 0; i < m.Count; i++ {
		rx := m.X[i] - dyn.Pos.X
		ry := m.Y[i] - dyn.Pos.Y

		// The kinematic side carries no angular term.
		relX := dyn.Vel.X - dyn.Rot.Omega*ry - other.Vel.X
		relY := dyn.Vel.Y + dyn.Rot.Omega*rx - other.Vel.Y
		vn := vec.Dot(relX, relY, nx, ny)
		if vn > 0 {
			continue
		}

		rCrossN := vec.Cross(rx, ry, nx, ny)
		denom := dyn.Der.InvMass + rCrossN*rCrossN*dyn.Der.InvAngularMass
		if denom == 0 {
			continue
		}

		j := -(1 + c.e) * vn / denom / count

		dynamics.ApplyImpulseAt(dyn.Vel, dyn.Rot, rx, ry, j*nx, j*ny, dyn.Der.InvMass, dyn.Der.InvAngularMass)
		dynamics.ApplyImpulse(other.Vel, -j*nx, -j*ny, other.Der.InvMass)

		relX = dyn.Vel.X - dyn.Rot.Omega*ry - other.Vel.X
		relY = dyn.Vel.Y + dyn.Rot.Omega*rx - other.Vel.Y
		vn = vec.Dot(relX, relY, nx, ny)
		tx := relX - vn*nx
		ty := relY - vn*ny
		if vec.LengthSq(tx, ty) < tangentEps {
			continue
		}
		tx, ty = vec.Normalize(tx, ty)

		rCrossT := vec.Cross(rx, ry, tx, ty)
		tDenom := dyn.Der.InvMass + rCrossT*rCrossT*dyn.Der.InvAngularMass
		if tDenom == 0 {
			continue
		}
		jt := -vec.Dot(relX, relY, tx, ty) / tDenom / count

		var fx, fy float64
		if abs(jt) <= j*c.muS {
			fx, fy = jt*tx, jt*ty
		} else {
			fx, fy = -j*c.muD*tx, -j*c.muD*ty
		}

		dynamics.ApplyImpulseAt(dyn.Vel, dyn.Rot, rx, ry, fx, fy, dyn.Der.InvMass, dyn.Der.InvAngularMass)
		dynamics.ApplyImpulse(other.Vel, -fx, -fy, other.Der.InvMass)
	}
}

// resolveTranslational handles kinematic-kinematic and kinematic-static
// pairs: a single implicit contact between the centers, no rotation.
func resolveTranslational(a, b Body, hit collision.Hit, c contact) {
	nx, ny := hit.NormalX, hit.NormalY

	relX := b.Vel.X - a.Vel.X
	relY := b.Vel.Y - a.Vel.Y
	vn := vec.Dot(relX, relY, nx, ny)
	if vn > 0 {
		return
	}

	denom := a.Der.InvMass + b.Der.InvMass
	if denom == 0 {
		return
	}

	j := -(1 + c.e) * vn / denom
	dynamics.ApplyImpulse(a.Vel, -j*nx, -j*ny, a.Der.InvMass)
	dynamics.ApplyImpulse(b.Vel, j*nx, j*ny, b.Der.InvMass)

	// Friction along the normal's perpendicular, opposing the tangential
	// relative velocity.
	tx, ty := -ny, nx
	relX = b.Vel.X - a.Vel.X
	relY = b.Vel.Y - a.Vel.Y
	vt := vec.Dot(relX, relY, tx, ty)
	if abs(vt) < tangentEps {
		return
	}

	jt := -vt / denom
	var fx, fy float64
	if abs(jt) <= j*c.muS {
		fx, fy = jt*tx, jt*ty
	} else {
		mag := j * c.muD
		if vt > 0 {
			mag = -mag
		}
		fx, fy = mag*tx, mag*ty
	}

	dynamics.ApplyImpulse(a.Vel, -fx, -fy, a.Der.InvMass)
	dynamics.ApplyImpulse(b.Vel, fx, fy, b.Der.InvMass)
}

// relativeVelocity returns the contact-point velocity of b relative to a.
func relativeVelocity(a, b Body, rax, ray, rbx, rby float64) (float64, float64) {
	relX := b.Vel.X - b.Rot.Omega*rby - (a.Vel.X - a.Rot.Omega*ray)
	relY := b.Vel.Y + b.Rot.Omega*rbx - (a.Vel.Y + a.Rot.Omega*rax)
	return relX, relY
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
