// Package object offers a thin owning facade over the handle-based API:
// value objects that hold a world or body id and release it explicitly.
// The handle API in the world package remains the canonical surface.
package object

import (
	"github.com/pthm-cable/impulse/shape"
	"github.com/pthm-cable/impulse/world"
)

// World owns a world handle.
type World struct {
	id       world.ID
	released bool
}

// NewWorld acquires a fresh world.
func NewWorld() *World {
	return &World{id: world.Create()}
}

// ID exposes the underlying handle.
func (w *World) ID() world.ID {
	return w.id
}

// Release destroys the world. It is idempotent: the first call returns
// true, later calls return false and do nothing.
func (w *World) Release() bool {
	if w.released {
		return false
	}
	w.released = true
	return world.Destroy(w.id) == nil
}

// Handle resolves the owned world, failing after release.
func (w *World) Handle() (*world.World, error) {
	return world.Get(w.id)
}

// Body owns a body handle within a world.
type Body struct {
	worldID  world.ID
	id       world.BodyID
	released bool
}

func (w *World) newBody(create func(*world.World) world.BodyID) (*Body, error) {
	h, err := w.Handle()
	if err != nil {
		return nil, err
	}
	return &Body{worldID: w.id, id: create(h)}, nil
}

// NewStaticBody acquires a static body.
func (w *World) NewStaticBody() (*Body, error) {
	return w.newBody((*world.World).NewStaticBody)
}

// NewKinematicBody acquires a kinematic body.
func (w *World) NewKinematicBody() (*Body, error) {
	return w.newBody((*world.World).NewKinematicBody)
}

// NewDynamicBody acquires a dynamic body.
func (w *World) NewDynamicBody() (*Body, error) {
	return w.newBody((*world.World).NewDynamicBody)
}

// ID exposes the underlying body handle.
func (b *Body) ID() world.BodyID {
	return b.id
}

// Release destroys the body. Idempotent like World.Release.
func (b *Body) Release() bool {
	if b.released {
		return false
	}
	b.released = true
	h, err := world.Get(b.worldID)
	if err != nil {
		return false
	}
	return h.DestroyBody(b.id) == nil
}

func (b *Body) handle() (*world.World, error) {
	return world.Get(b.worldID)
}

// SetShape assigns the body's shape.
func (b *Body) SetShape(s shape.Shape) error {
	h, err := b.handle()
	if err != nil {
		return err
	}
	return h.SetShape(b.id, s)
}

// SetPosition moves the body.
func (b *Body) SetPosition(x, y float64) error {
	h, err := b.handle()
	if err != nil {
		return err
	}
	return h.SetPosition(b.id, x, y)
}

// Position returns the body's position.
func (b *Body) Position() (x, y float64, err error) {
	h, err := b.handle()
	if err != nil {
		return 0, 0, err
	}
	return h.Position(b.id)
}

// SetVelocity sets the body's linear velocity.
func (b *Body) SetVelocity(vx, vy float64) error {
	h, err := b.handle()
	if err != nil {
		return err
	}
	return h.SetVelocity(b.id, vx, vy)
}

// Velocity returns the body's linear velocity.
func (b *Body) Velocity() (vx, vy float64, err error) {
	h, err := b.handle()
	if err != nil {
		return 0, 0, err
	}
	return h.Velocity(b.id)
}
