// Package world drives the simulation: it owns the body population of a
// world, runs the substepped tick pipeline, and exposes the handle-based
// API over numeric world and body ids.
package world

import (
	"fmt"
	"strconv"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/dynamics"
	"github.com/pthm-cable/impulse/material"
	"github.com/pthm-cable/impulse/shape"
)

// ID identifies a world in the process-wide registry.
type ID int64

// BodyID aliases the component-level body id for callers of this package.
type BodyID = components.BodyID

// DefaultIterations is the substep count a world starts with.
const DefaultIterations = 4

// World holds a population of bodies and the state of the tick pipeline.
// Bodies live in an ark ECS world; the ordered id list drives every
// iteration so results stay deterministic under a fixed insertion order.
type World struct {
	id  ID
	ecs *ecs.World

	mapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Def,
		components.Geom,
		components.Derived,
	]
	posMap  *ecs.Map1[components.Position]
	velMap  *ecs.Map1[components.Velocity]
	rotMap  *ecs.Map1[components.Rotation]
	defMap  *ecs.Map1[components.Def]
	geomMap *ecs.Map1[components.Geom]
	derMap  *ecs.Map1[components.Derived]

	latestBodyID BodyID
	order        []BodyID
	entities     map[BodyID]ecs.Entity

	iterations int
	boundary   *collision.AABB
	index      Broadphase

	// massProportionalCorrection keeps the historical split where the
	// heavier body is displaced more; clearing it selects the conventional
	// inverse-mass rule.
	massProportionalCorrection bool

	// Scratch reused across ticks; never retained by callers.
	manifold collision.Manifold
	pairs    [][2]BodyID

	stats TickStats
}

func newWorld(id ID) *World {
	w := ecs.NewWorld()
	out := &World{
		id:  id,
		ecs: w,
		mapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Def,
			components.Geom,
			components.Derived,
		](w),
		posMap:  ecs.NewMap1[components.Position](w),
		velMap:  ecs.NewMap1[components.Velocity](w),
		rotMap:  ecs.NewMap1[components.Rotation](w),
		defMap:  ecs.NewMap1[components.Def](w),
		geomMap: ecs.NewMap1[components.Geom](w),
		derMap:  ecs.NewMap1[components.Derived](w),

		entities:                   make(map[BodyID]ecs.Entity),
		iterations:                 DefaultIterations,
		massProportionalCorrection: true,
	}
	return out
}

// ID returns the world's handle id.
func (w *World) ID() ID {
	return w.id
}

// NewStaticBody creates a static body with no shape, the default material,
// and zero motion.
func (w *World) NewStaticBody() BodyID {
	return w.newBody(components.Static)
}

// NewKinematicBody creates a kinematic body.
func (w *World) NewKinematicBody() BodyID {
	return w.newBody(components.Kinematic)
}

// NewDynamicBody creates a dynamic body.
func (w *World) NewDynamicBody() BodyID {
	return w.newBody(components.Dynamic)
}

func (w *World) newBody(typ components.BodyType) BodyID {
	w.latestBodyID++
	id := w.latestBodyID

	pos := components.Position{}
	vel := components.Velocity{}
	rot := components.Rotation{}
	def := components.Def{ID: id, Type: typ, Material: material.Default().ID}
	geom := components.Geom{}
	der := components.NewDerived()

	entity := w.mapper.NewEntity(&pos, &vel, &rot, &def, &geom, &der)
	w.entities[id] = entity
	w.order = append(w.order, id)
	return id
}

// restoreBody recreates a body with an explicit id, used by the decoder.
func (w *World) restoreBody(id BodyID, typ components.BodyType) error {
	if _, exists := w.entities[id]; exists {
		return fmt.Errorf("bad argument to #1 'data': duplicate body id %d", id)
	}

	pos := components.Position{}
	vel := components.Velocity{}
	rot := components.Rotation{}
	def := components.Def{ID: id, Type: typ, Material: material.Default().ID}
	geom := components.Geom{}
	der := components.NewDerived()

	entity := w.mapper.NewEntity(&pos, &vel, &rot, &def, &geom, &der)
	w.entities[id] = entity
	w.order = append(w.order, id)
	if id > w.latestBodyID {
		w.latestBodyID = id
	}
	return nil
}

// DestroyBody removes a body; later lookups of its id fail.
func (w *World) DestroyBody(id BodyID) error {
	entity, ok := w.entities[id]
	if !ok {
		return w.bodyNotFound(id)
	}

	w.mapper.Remove(entity)
	delete(w.entities, id)
	for i, other := range w.order {
		if other == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if w.index != nil {
		w.index.Remove(id)
	}
	return nil
}

// HasBody reports whether the body exists in this world.
func (w *World) HasBody(id BodyID) bool {
	_, ok := w.entities[id]
	return ok
}

// Bodies returns the body ids in insertion order.
func (w *World) Bodies() []BodyID {
	out := make([]BodyID, len(w.order))
	copy(out, w.order)
	return out
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int {
	return len(w.order)
}

// ClearBodies destroys every body in the world.
func (w *World) ClearBodies() {
	for _, id := range w.order {
		entity := w.entities[id]
		w.mapper.Remove(entity)
		if w.index != nil {
			w.index.Remove(id)
		}
	}
	w.order = w.order[:0]
	w.entities = make(map[BodyID]ecs.Entity)
}

// refs bundles the component pointers of one body.
type refs struct {
	pos  *components.Position
	vel  *components.Velocity
	rot  *components.Rotation
	def  *components.Def
	geom *components.Geom
	der  *components.Derived
}

func (w *World) body(id BodyID) (refs, error) {
	entity, ok := w.entities[id]
	if !ok {
		return refs{}, w.bodyNotFound(id)
	}
	return w.refsOf(entity), nil
}

func (w *World) refsOf(entity ecs.Entity) refs {
	return refs{
		pos:  w.posMap.Get(entity),
		vel:  w.velMap.Get(entity),
		rot:  w.rotMap.Get(entity),
		def:  w.defMap.Get(entity),
		geom: w.geomMap.Get(entity),
		der:  w.derMap.Get(entity),
	}
}

func (w *World) bodyNotFound(id BodyID) error {
	return fmt.Errorf("body %s does not exist in world %d",
		strconv.FormatInt(int64(id), 10), w.id)
}

// materialOf resolves a body's material, falling back to the default when
// the registry was reset underneath the world.
func materialOf(def *components.Def) material.Material {
	m, err := material.Get(def.Material)
	if err != nil {
		return material.Default()
	}
	return m
}

// Position returns a body's position.
func (w *World) Position(id BodyID) (x, y float64, err error) {
	b, err := w.body(id)
	if err != nil {
		return 0, 0, err
	}
	return b.pos.X, b.pos.Y, nil
}

// SetPosition moves a body, invalidating its transform cache. Static
// bodies accept external writes too.
func (w *World) SetPosition(id BodyID, x, y float64) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	b.pos.X = x
	b.pos.Y = y
	b.der.MarkTransformDirty()
	return nil
}

// Translate shifts a body by a delta.
func (w *World) Translate(id BodyID, dx, dy float64) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	b.pos.X += dx
	b.pos.Y += dy
	b.der.MarkTransformDirty()
	return nil
}

// Rotation returns a body's orientation in radians.
func (w *World) Rotation(id BodyID) (float64, error) {
	b, err := w.body(id)
	if err != nil {
		return 0, err
	}
	return b.rot.Theta, nil
}

// SetRotation sets a body's orientation, invalidating its transform cache.
func (w *World) SetRotation(id BodyID, theta float64) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	b.rot.Theta = theta
	b.der.MarkTransformDirty()
	return nil
}

// Rotate adds to a body's orientation.
func (w *World) Rotate(id BodyID, delta float64) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	b.rot.Theta += delta
	b.der.MarkTransformDirty()
	return nil
}

// Velocity returns a body's linear velocity.
func (w *World) Velocity(id BodyID) (vx, vy float64, err error) {
	b, err := w.body(id)
	if err != nil {
		return 0, 0, err
	}
	return b.vel.X, b.vel.Y, nil
}

// SetVelocity sets a body's linear velocity.
func (w *World) SetVelocity(id BodyID, vx, vy float64) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	b.vel.X = vx
	b.vel.Y = vy
	return nil
}

// AddVelocity adds a delta to a body's linear velocity.
func (w *World) AddVelocity(id BodyID, dvx, dvy float64) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	b.vel.X += dvx
	b.vel.Y += dvy
	return nil
}

// AngularVelocity returns a body's angular velocity.
func (w *World) AngularVelocity(id BodyID) (float64, error) {
	b, err := w.body(id)
	if err != nil {
		return 0, err
	}
	return b.rot.Omega, nil
}

// SetAngularVelocity sets a body's angular velocity.
func (w *World) SetAngularVelocity(id BodyID, omega float64) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	b.rot.Omega = omega
	return nil
}

// AddAngularVelocity adds a delta to a body's angular velocity.
func (w *World) AddAngularVelocity(id BodyID, delta float64) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	b.rot.Omega += delta
	return nil
}

// Material returns a body's material id.
func (w *World) Material(id BodyID) (material.ID, error) {
	b, err := w.body(id)
	if err != nil {
		return 0, err
	}
	return b.def.Material, nil
}

// SetMaterial binds a body to a registered material, invalidating the mass
// and transform caches.
func (w *World) SetMaterial(id BodyID, mat material.ID) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	if _, err := material.Get(mat); err != nil {
		return err
	}
	b.def.Material = mat
	b.der.MarkMassDirty()
	b.der.MarkTransformDirty()
	return nil
}

// Shape returns a copy of a body's shape.
func (w *World) Shape(id BodyID) (shape.Shape, error) {
	b, err := w.body(id)
	if err != nil {
		return shape.Shape{}, err
	}
	return b.geom.Shape.Clone(), nil
}

// SetShape assigns a shape built with the shape package constructors,
// invalidating the mass and transform caches.
func (w *World) SetShape(id BodyID, s shape.Shape) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	b.geom.Shape = s.Clone()
	b.der.MarkMassDirty()
	b.der.MarkTransformDirty()
	return nil
}

// Mass returns a body's mass, recomputing it if stale.
func (w *World) Mass(id BodyID) (float64, error) {
	b, err := w.body(id)
	if err != nil {
		return 0, err
	}
	dynamics.RefreshMass(b.geom, b.def, b.der, materialOf(b.def).Density)
	return b.der.Mass, nil
}

// AngularMass returns a body's rotational inertia, recomputing if stale.
func (w *World) AngularMass(id BodyID) (float64, error) {
	b, err := w.body(id)
	if err != nil {
		return 0, err
	}
	dynamics.RefreshAngularMass(b.geom, b.def, b.der, materialOf(b.def).Density)
	return b.der.AngularMass, nil
}

// Bounds returns a body's world-space AABB, recomputing if stale.
func (w *World) Bounds(id BodyID) (collision.AABB, error) {
	b, err := w.body(id)
	if err != nil {
		return collision.AABB{}, err
	}
	dynamics.RefreshTransform(b.pos, b.rot, b.geom, b.der)
	return b.der.Bounds, nil
}

// TransformedVertices returns a copy of a body's world-space vertices.
// Circles have none.
func (w *World) TransformedVertices(id BodyID) ([]shape.Vertex, error) {
	b, err := w.body(id)
	if err != nil {
		return nil, err
	}
	dynamics.RefreshTransform(b.pos, b.rot, b.geom, b.der)
	out := make([]shape.Vertex, len(b.der.Verts))
	copy(out, b.der.Verts)
	return out, nil
}

// BodyType returns a body's type.
func (w *World) BodyType(id BodyID) (components.BodyType, error) {
	b, err := w.body(id)
	if err != nil {
		return 0, err
	}
	return b.def.Type, nil
}

// Iterations returns the substep count per tick.
func (w *World) Iterations() int {
	return w.iterations
}

// SetIterations sets the substep count; values at or below zero fall back
// to the default.
func (w *World) SetIterations(n int) {
	if n <= 0 {
		n = DefaultIterations
	}
	w.iterations = n
}

// Boundary returns the world boundary, or nil when unset.
func (w *World) Boundary() *collision.AABB {
	if w.boundary == nil {
		return nil
	}
	b := *w.boundary
	return &b
}

// SetBoundary sets or clears (nil) the axis-aligned world boundary.
func (w *World) SetBoundary(b *collision.AABB) {
	if b == nil {
		w.boundary = nil
		return
	}
	copied := *b
	w.boundary = &copied
}

// SetBroadphase installs a broadphase index, or restores the O(n^2) pair
// loop when nil.
func (w *World) SetBroadphase(index Broadphase) {
	w.index = index
}

// SetMassProportionalCorrection toggles the position-correction split.
// True (the default) keeps the historical rule where the heavier body is
// displaced more; false selects the conventional inverse-mass rule.
func (w *World) SetMassProportionalCorrection(on bool) {
	w.massProportionalCorrection = on
}

// ApplyGravity adds (ax, ay) to the linear velocity of every non-static
// body. Note this is a velocity delta, not an acceleration: callers who
// want gravity scaled by time must multiply by dt themselves.
func (w *World) ApplyGravity(ax, ay float64) {
	for _, id := range w.order {
		b := w.refsOf(w.entities[id])
		if b.def.Type == components.Static {
			continue
		}
		b.vel.X += ax
		b.vel.Y += ay
	}
}
