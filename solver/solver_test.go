package solver

import (
	"math"
	"testing"

	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/material"
)

// testBody builds a solver participant with explicit mass state.
func testBody(typ components.BodyType, x, y, vx, vy, mass float64, mat material.Material) Body {
	d := components.NewDerived()
	d.Mass = mass
	if mass > 0 {
		d.InvMass = 1 / mass
	}
	d.MassDirty = false
	d.AngularMassDirty = false
	return Body{
		Pos: &components.Position{X: x, Y: y},
		Vel: &components.Velocity{X: vx, Y: vy},
		Rot: &components.Rotation{},
		Der: &d,
		Typ: typ,
		Mat: mat,
	}
}

func TestCorrectPositionsStaticPair(t *testing.T) {
	mat := material.Material{}
	a := testBody(components.Static, 0, 0, 0, 0, 0, mat)
	b := testBody(components.Static, 1, 0, 0, 0, 0, mat)

	CorrectPositions(a, b, collision.Hit{NormalX: 1, Depth: 0.5}, true)

	if a.Pos.X != 0 || b.Pos.X != 1 {
		t.Error("static pair moved under position correction")
	}
}

func TestCorrectPositionsAgainstStatic(t *testing.T) {
	mat := material.Material{}
	a := testBody(components.Dynamic, 0, 0, 0, 0, 1, mat)
	b := testBody(components.Static, 1, 0, 0, 0, 0, mat)

	// Normal points a -> b; the dynamic body backs out by the full depth.
	CorrectPositions(a, b, collision.Hit{NormalX: 1, Depth: 0.5}, true)
	if math.Abs(a.Pos.X+0.5) > 1e-12 || b.Pos.X != 1 {
		t.Errorf("a.X = %v, b.X = %v; want -0.5 and 1", a.Pos.X, b.Pos.X)
	}
	if !a.Der.TransformDirty {
		t.Error("mover's transform not marked dirty")
	}

	// Same pair with the static body first: the second body moves forward.
	c := testBody(components.Static, 0, 0, 0, 0, 0, mat)
	d := testBody(components.Dynamic, 1, 0, 0, 0, 1, mat)
	CorrectPositions(c, d, collision.Hit{NormalX: 1, Depth: 0.5}, true)
	if c.Pos.X != 0 || math.Abs(d.Pos.X-1.5) > 1e-12 {
		t.Errorf("c.X = %v, d.X = %v; want 0 and 1.5", c.Pos.X, d.Pos.X)
	}
}

func TestCorrectPositionsMassRatio(t *testing.T) {
	lead, _ := material.GetByName("Lead")
	wood, _ := material.GetByName("Wood")

	t.Run("mass proportional displaces the heavier body more", func(t *testing.T) {
		a := testBody(components.Dynamic, 0, 0, 0, 0, 11.3, lead)
		b := testBody(components.Dynamic, 1, 0, 0, 0, 0.6, wood)

		CorrectPositions(a, b, collision.Hit{NormalX: 1, Depth: 1}, true)

		movedA := math.Abs(a.Pos.X)
		movedB := math.Abs(b.Pos.X - 1)
		if movedA <= movedB {
			t.Errorf("lead moved %v, wood moved %v; mass-proportional rule must move lead more", movedA, movedB)
		}
		if math.Abs(movedA+movedB-1) > 1e-12 {
			t.Errorf("total separation = %v, want 1", movedA+movedB)
		}
	})

	t.Run("conventional rule displaces the lighter body more", func(t *testing.T) {
		a := testBody(components.Dynamic, 0, 0, 0, 0, 11.3, lead)
		b := testBody(components.Dynamic, 1, 0, 0, 0, 0.6, wood)

		CorrectPositions(a, b, collision.Hit{NormalX: 1, Depth: 1}, false)

		movedA := math.Abs(a.Pos.X)
		movedB := math.Abs(b.Pos.X - 1)
		if movedA >= movedB {
			t.Errorf("lead moved %v, wood moved %v; conventional rule must move wood more", movedA, movedB)
		}
	})
}

func TestDynamicPairHeadOn(t *testing.T) {
	mat := material.Material{Restitution: 0.8}
	a := testBody(components.Dynamic, -1, 0, 2, 0, 1, mat)
	b := testBody(components.Dynamic, 1, 0, -2, 0, 1, mat)

	hit := collision.Hit{NormalX: 1, Depth: 0.1}
	m := &collision.Manifold{Count: 1}
	m.X[0], m.Y[0] = 0, 0

	ResolveVelocity(a, b, hit, m)

	// Equal masses separate symmetrically at restitution times the
	// approach speed.
	if math.Abs(a.Vel.X+1.6) > 1e-9 || math.Abs(b.Vel.X-1.6) > 1e-9 {
		t.Errorf("velocities = %v, %v; want -1.6 and 1.6", a.Vel.X, b.Vel.X)
	}
}

func TestDynamicPairSeparatingSkips(t *testing.T) {
	mat := material.Material{Restitution: 1}
	a := testBody(components.Dynamic, -1, 0, -1, 0, 1, mat)
	b := testBody(components.Dynamic, 1, 0, 1, 0, 1, mat)

	hit := collision.Hit{NormalX: 1, Depth: 0.1}
	m := &collision.Manifold{Count: 1}

	ResolveVelocity(a, b, hit, m)

	if a.Vel.X != -1 || b.Vel.X != 1 {
		t.Error("separating pair received an impulse")
	}
}

func TestDynamicAgainstStaticBounce(t *testing.T) {
	mat := material.Material{Restitution: 0.5}
	dyn := testBody(components.Dynamic, 0, 1, 0, -1, 1, mat)
	floor := testBody(components.Static, 0, 0, 0, 0, 0, mat)

	// Normal points from the falling body down toward the floor.
	hit := collision.Hit{NormalY: -1, Depth: 0.05}
	m := &collision.Manifold{Count: 1}
	m.X[0], m.Y[0] = 0, 0.5

	ResolveVelocity(dyn, floor, hit, m)

	if math.Abs(dyn.Vel.Y-0.5) > 1e-9 {
		t.Errorf("dyn.Vel.Y = %v, want 0.5 (restitution bounce)", dyn.Vel.Y)
	}
	if floor.Vel.X != 0 || floor.Vel.Y != 0 {
		t.Error("static body gained velocity")
	}
}

func TestDynamicAgainstStaticOrderIndependent(t *testing.T) {
	mat := material.Material{Restitution: 0.5}
	floor := testBody(components.Static, 0, 0, 0, 0, 0, mat)
	dyn := testBody(components.Dynamic, 0, 1, 0, -1, 1, mat)

	// Same contact with the static body first: the normal now points up,
	// from floor toward the dynamic body.
	hit := collision.Hit{NormalY: 1, Depth: 0.05}
	m := &collision.Manifold{Count: 1}
	m.X[0], m.Y[0] = 0, 0.5

	ResolveVelocity(floor, dyn, hit, m)

	if math.Abs(dyn.Vel.Y-0.5) > 1e-9 {
		t.Errorf("dyn.Vel.Y = %v, want 0.5", dyn.Vel.Y)
	}
}

func TestDynamicAgainstStaticFrictionRegimes(t *testing.T) {
	t.Run("static friction cancels slow sliding", func(t *testing.T) {
		mat := material.Material{StaticFriction: 1, DynamicFriction: 1}
		dyn := testBody(components.Dynamic, 0, 0.5, 1, -1, 1, mat)
		floor := testBody(components.Static, 0, 0, 0, 0, 0, mat)

		hit := collision.Hit{NormalY: -1, Depth: 0.01}
		m := &collision.Manifold{Count: 1}
		m.X[0], m.Y[0] = 0, 0

		ResolveVelocity(dyn, floor, hit, m)

		if math.Abs(dyn.Vel.Y) > 1e-9 {
			t.Errorf("Vel.Y = %v, want 0 (zero restitution)", dyn.Vel.Y)
		}
		if math.Abs(dyn.Vel.X) > 1e-9 {
			t.Errorf("Vel.X = %v, want 0 (static friction holds)", dyn.Vel.X)
		}
	})

	t.Run("frictionless contact preserves tangential velocity", func(t *testing.T) {
		mat := material.Material{}
		dyn := testBody(components.Dynamic, 0, 0.5, 1, -1, 1, mat)
		floor := testBody(components.Static, 0, 0, 0, 0, 0, mat)

		hit := collision.Hit{NormalY: -1, Depth: 0.01}
		m := &collision.Manifold{Count: 1}
		m.X[0], m.Y[0] = 0, 0

		ResolveVelocity(dyn, floor, hit, m)

		if math.Abs(dyn.Vel.X-1) > 1e-9 {
			t.Errorf("Vel.X = %v, want 1 (no friction)", dyn.Vel.X)
		}
	})
}

func TestKinematicPairTranslational(t *testing.T) {
	mat := material.Material{Restitution: 1}
	a := testBody(components.Kinematic, -1, 0, 1, 0, 2, mat)
	b := testBody(components.Kinematic, 1, 0, -1, 0, 2, mat)

	hit := collision.Hit{NormalX: 1, Depth: 0.1}
	m := &collision.Manifold{Count: 1}

	ResolveVelocity(a, b, hit, m)

	// Equal masses with e=1 swap their approach velocities.
	if math.Abs(a.Vel.X+1) > 1e-9 || math.Abs(b.Vel.X-1) > 1e-9 {
		t.Errorf("velocities = %v, %v; want -1 and 1", a.Vel.X, b.Vel.X)
	}
	if a.Rot.Omega != 0 || b.Rot.Omega != 0 {
		t.Error("kinematic bodies gained angular velocity")
	}
}

func TestKinematicAgainstStatic(t *testing.T) {
	mat := material.Material{Restitution: 0.25}
	kin := testBody(components.Kinematic, 0, 1, 0, -2, 1, mat)
	wall := testBody(components.Static, 0, 0, 0, 0, 0, mat)

	hit := collision.Hit{NormalY: -1, Depth: 0.1}
	m := &collision.Manifold{}

	ResolveVelocity(kin, wall, hit, m)

	if math.Abs(kin.Vel.Y-0.5) > 1e-9 {
		t.Errorf("kin.Vel.Y = %v, want 0.5", kin.Vel.Y)
	}
	if wall.Vel.Y != 0 {
		t.Error("static body gained velocity")
	}
}

func TestStaticPairNoOp(t *testing.T) {
	mat := material.Material{Restitution: 1}
	a := testBody(components.Static, 0, 0, 0, 0, 0, mat)
	b := testBody(components.Static, 1, 0, 0, 0, 0, mat)

	m := &collision.Manifold{Count: 1}
	ResolveVelocity(a, b, collision.Hit{NormalX: 1, Depth: 1}, m)

	if a.Vel.X != 0 || b.Vel.X != 0 {
		t.Error("static pair gained velocity")
	}
}
