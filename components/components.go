// Package components defines the ECS components a body is made of.
package components

import (
	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/material"
	"github.com/pthm-cable/impulse/shape"
)

// BodyID identifies a body within its world. Worlds issue ids
// monotonically starting at 1.
type BodyID int64

// BodyType dictates which degrees of freedom respond to impulses.
type BodyType int

const (
	// Static bodies have infinite mass and are never integrated.
	Static BodyType = iota
	// Kinematic bodies have mass but their angular DOF is locked in the
	// impulse solver.
	Kinematic
	// Dynamic bodies get the full translational and rotational response.
	Dynamic
)

// Position is a body's world position.
type Position struct {
	X, Y float64
}

// Velocity is a body's linear velocity.
type Velocity struct {
	X, Y float64
}

// Rotation is a body's orientation and angular velocity.
type Rotation struct {
	Theta float64 // radians
	Omega float64 // radians per second
}

// Def carries a body's identity, type, and material binding.
type Def struct {
	ID       BodyID
	Type     BodyType
	Material material.ID
}

// Geom carries the body's shape variant.
type Geom struct {
	Shape shape.Shape
}

// Derived caches quantities computed from the body state. Each group has
// its own dirty bit; writers invalidate exactly the groups their change
// affects and readers recompute lazily.
type Derived struct {
	TransformDirty   bool
	MassDirty        bool
	AngularMassDirty bool

	// Valid while TransformDirty is clear. Verts is empty for circles.
	Verts  []shape.Vertex
	Bounds collision.AABB

	// Valid while MassDirty is clear.
	Mass    float64
	InvMass float64

	// Valid while AngularMassDirty is clear.
	AngularMass    float64
	InvAngularMass float64
}

// NewDerived returns a cache with every group dirty.
func NewDerived() Derived {
	return Derived{TransformDirty: true, MassDirty: true, AngularMassDirty: true}
}

// MarkTransformDirty invalidates the transformed vertices and AABB.
func (d *Derived) MarkTransformDirty() {
	d.TransformDirty = true
}

// MarkMassDirty invalidates mass and, with it, angular mass.
func (d *Derived) MarkMassDirty() {
	d.MassDirty = true
	d.AngularMassDirty = true
}

// MarkAngularMassDirty invalidates angular mass only.
func (d *Derived) MarkAngularMassDirty() {
	d.AngularMassDirty = true
}
