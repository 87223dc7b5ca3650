package dynamics

import (
	"math"

	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/material"
	"github.com/pthm-cable/impulse/vec"
)

// Integrate advances one body by dt: velocity decays under the material's
// exponential drag, then position and rotation accumulate. Static bodies
// are left untouched.
func Integrate(pos *components.Position, vel *components.Velocity, rot *components.Rotation,
	def *components.Def, d *components.Derived, mat material.Material, dt float64) {

	if def.Type == components.Static {
		return
	}

	if vel.X != 0 || vel.Y != 0 {
		k := math.Exp(-mat.LinearDrag * dt)
		vel.X *= k
		vel.Y *= k
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
		d.MarkTransformDirty()
	}

	if rot.Omega != 0 {
		k := math.Exp(-mat.AngularDrag * dt)
		rot.Omega *= k
		rot.Theta += rot.Omega * dt
		d.MarkTransformDirty()
	}
}

// ApplyImpulse adds a translational impulse scaled by the inverse mass.
// Used for the kinematic participants of a contact.
func ApplyImpulse(vel *components.Velocity, jx, jy, invMass float64) {
	vel.X += jx * invMass
	vel.Y += jy * invMass
}

// ApplyImpulseAt adds an impulse at a contact offset (rx, ry) from the
// body's reference point, updating both linear and angular velocity.
// Used for dynamic participants.
func ApplyImpulseAt(vel *components.Velocity, rot *components.Rotation,
	rx, ry, jx, jy, invMass, invAngularMass float64) {

	vel.X += jx * invMass
	vel.Y += jy * invMass
	rot.Omega += vec.Cross(rx, ry, jx, jy) * invAngularMass
}
