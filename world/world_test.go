package world

import (
	"math"
	"strings"
	"testing"

	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/material"
	"github.com/pthm-cable/impulse/shape"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	id := Create()
	w, err := Get(id)
	if err != nil {
		t.Fatalf("Get(%d): %v", id, err)
	}
	t.Cleanup(func() { Destroy(id) })
	return w
}

func TestHandleRegistry(t *testing.T) {
	a := Create()
	b := Create()
	if b <= a {
		t.Errorf("world ids not monotonic: %d then %d", a, b)
	}
	if !Exists(a) || !Exists(b) {
		t.Error("created worlds do not exist")
	}

	if err := Destroy(a); err != nil {
		t.Errorf("Destroy(%d): %v", a, err)
	}
	if Exists(a) {
		t.Error("world still exists after Destroy")
	}
	if err := Destroy(a); err == nil {
		t.Error("second Destroy succeeded, want error")
	}
	if err := Destroy(0); err == nil {
		t.Error("Destroy(0) succeeded, want error")
	}

	if _, err := Get(a); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Get on destroyed world: %v", err)
	}

	Destroy(b)
}

func TestBodyLifecycle(t *testing.T) {
	w := newTestWorld(t)

	first := w.NewStaticBody()
	second := w.NewDynamicBody()
	third := w.NewKinematicBody()

	if first != 1 || second != 2 || third != 3 {
		t.Errorf("body ids = %d, %d, %d; want 1, 2, 3", first, second, third)
	}

	order := w.Bodies()
	if len(order) != 3 || order[0] != first || order[1] != second || order[2] != third {
		t.Errorf("Bodies() = %v, want insertion order", order)
	}

	if typ, _ := w.BodyType(second); typ != components.Dynamic {
		t.Errorf("BodyType = %v, want Dynamic", typ)
	}

	// New bodies have no shape, the default material, and zero motion.
	s, err := w.Shape(first)
	if err != nil || s.Kind != shape.None {
		t.Errorf("new body shape = %+v, %v", s, err)
	}
	matID, _ := w.Material(first)
	if mat, _ := material.Get(matID); mat.Name != "Wood" {
		t.Errorf("new body material = %v, want Wood", mat.Name)
	}

	if err := w.DestroyBody(second); err != nil {
		t.Fatalf("DestroyBody: %v", err)
	}
	if w.HasBody(second) {
		t.Error("HasBody true after destroy")
	}
	if _, _, err := w.Position(second); err == nil || !strings.Contains(err.Error(), "does not exist in world") {
		t.Errorf("lookup of destroyed body: %v", err)
	}
	if err := w.DestroyBody(second); err == nil {
		t.Error("second DestroyBody succeeded, want error")
	}

	// Ids keep increasing after destruction.
	if next := w.NewDynamicBody(); next != 4 {
		t.Errorf("next body id = %d, want 4", next)
	}

	w.ClearBodies()
	if w.BodyCount() != 0 {
		t.Errorf("BodyCount = %d after ClearBodies, want 0", w.BodyCount())
	}
}

func TestSettersInvalidateCaches(t *testing.T) {
	w := newTestWorld(t)
	id := w.NewDynamicBody()

	s, _ := shape.Circle(2)
	if err := w.SetShape(id, s); err != nil {
		t.Fatalf("SetShape: %v", err)
	}

	mass, err := w.Mass(id)
	if err != nil {
		t.Fatalf("Mass: %v", err)
	}
	wood, _ := material.GetByName("Wood")
	want := math.Pi * 4 * wood.Density
	if math.Abs(mass-want) > 1e-9 {
		t.Errorf("Mass = %v, want %v", mass, want)
	}

	// Rebinding the material must invalidate mass.
	lead, _ := material.GetByName("Lead")
	if err := w.SetMaterial(id, lead.ID); err != nil {
		t.Fatalf("SetMaterial: %v", err)
	}
	mass, _ = w.Mass(id)
	want = math.Pi * 4 * lead.Density
	if math.Abs(mass-want) > 1e-9 {
		t.Errorf("Mass after SetMaterial = %v, want %v", mass, want)
	}

	if err := w.SetMaterial(id, material.ID(999)); err == nil {
		t.Error("SetMaterial with unknown material succeeded, want error")
	}

	// Moving the body must refresh its bounds on the next read.
	if err := w.SetPosition(id, 10, -3); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	bounds, _ := w.Bounds(id)
	if bounds.MinX != 8 || bounds.MaxX != 12 || bounds.MinY != -5 || bounds.MaxY != -1 {
		t.Errorf("Bounds = %+v", bounds)
	}
}

func TestBoundsEncloseVertices(t *testing.T) {
	w := newTestWorld(t)
	id := w.NewDynamicBody()

	s, _ := shape.Polygon([]shape.Vertex{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}})
	w.SetShape(id, s)
	w.SetPosition(id, 3, 4)
	w.SetRotation(id, 1.1)

	verts, err := w.TransformedVertices(id)
	if err != nil {
		t.Fatalf("TransformedVertices: %v", err)
	}
	bounds, _ := w.Bounds(id)
	for i, v := range verts {
		if !bounds.Contains(v.X, v.Y) {
			t.Errorf("vertex #%d (%v, %v) outside %+v", i, v.X, v.Y, bounds)
		}
	}
}

func TestIterationsClamp(t *testing.T) {
	w := newTestWorld(t)

	if w.Iterations() != DefaultIterations {
		t.Errorf("Iterations = %d, want %d", w.Iterations(), DefaultIterations)
	}
	w.SetIterations(8)
	if w.Iterations() != 8 {
		t.Errorf("Iterations = %d, want 8", w.Iterations())
	}
	w.SetIterations(0)
	if w.Iterations() != DefaultIterations {
		t.Errorf("Iterations after clamp = %d, want %d", w.Iterations(), DefaultIterations)
	}
	w.SetIterations(-3)
	if w.Iterations() != DefaultIterations {
		t.Errorf("Iterations after negative = %d, want %d", w.Iterations(), DefaultIterations)
	}
}

func TestApplyGravityIsVelocityDelta(t *testing.T) {
	w := newTestWorld(t)

	stat := w.NewStaticBody()
	dyn := w.NewDynamicBody()
	kin := w.NewKinematicBody()

	w.ApplyGravity(0, -9.8)
	w.ApplyGravity(0, -9.8)

	if _, vy, _ := w.Velocity(stat); vy != 0 {
		t.Errorf("static vy = %v, want 0", vy)
	}
	// Deltas accumulate without any dt scaling.
	if _, vy, _ := w.Velocity(dyn); math.Abs(vy+19.6) > 1e-12 {
		t.Errorf("dynamic vy = %v, want -19.6", vy)
	}
	if _, vy, _ := w.Velocity(kin); math.Abs(vy+19.6) > 1e-12 {
		t.Errorf("kinematic vy = %v, want -19.6", vy)
	}
}

func TestTickValidatesDeltaTime(t *testing.T) {
	w := newTestWorld(t)
	id := w.NewDynamicBody()
	s, _ := shape.Circle(1)
	w.SetShape(id, s)
	w.SetVelocity(id, 1, 0)

	// Non-positive dt is a no-op, not an error.
	if err := w.Tick(0); err != nil {
		t.Errorf("Tick(0): %v", err)
	}
	if err := w.Tick(-1); err != nil {
		t.Errorf("Tick(-1): %v", err)
	}
	if x, _, _ := w.Position(id); x != 0 {
		t.Errorf("body moved under non-positive dt: x = %v", x)
	}

	if err := w.Tick(math.NaN()); err == nil {
		t.Error("Tick(NaN) succeeded, want error")
	}
	if err := w.Tick(math.Inf(1)); err == nil {
		t.Error("Tick(+Inf) succeeded, want error")
	}
}

func TestStaticBodiesDoNotMove(t *testing.T) {
	w := newTestWorld(t)
	id := w.NewStaticBody()
	s, _ := shape.Rectangle(2, 2)
	w.SetShape(id, s)
	w.SetVelocity(id, 5, 5)
	w.SetAngularVelocity(id, 3)

	for i := 0; i < 10; i++ {
		w.Tick(1.0 / 60)
	}

	if x, y, _ := w.Position(id); x != 0 || y != 0 {
		t.Errorf("static body moved to (%v, %v)", x, y)
	}
	if theta, _ := w.Rotation(id); theta != 0 {
		t.Errorf("static body rotated to %v", theta)
	}
}

func TestNoIntersectionLeavesBodiesUnchanged(t *testing.T) {
	w := newTestWorld(t)

	// Two rotated squares whose AABBs overlap while the shapes do not.
	a := w.NewDynamicBody()
	b := w.NewDynamicBody()
	sq, _ := shape.Rectangle(1, 1)
	w.SetShape(a, sq)
	w.SetShape(b, sq)
	w.SetRotation(a, math.Pi/4)
	w.SetRotation(b, math.Pi/4)
	w.SetPosition(a, 0, 0)
	w.SetPosition(b, 1.3, 1.3)

	ba, _ := w.Bounds(a)
	bb, _ := w.Bounds(b)
	if !ba.Overlaps(bb) {
		t.Fatal("test setup broken: AABBs must overlap")
	}

	w.Tick(1e-9)

	if x, y, _ := w.Position(b); math.Abs(x-1.3) > 1e-9 || math.Abs(y-1.3) > 1e-9 {
		t.Errorf("non-intersecting body moved to (%v, %v)", x, y)
	}
	if vx, vy, _ := w.Velocity(b); vx != 0 || vy != 0 {
		t.Errorf("non-intersecting body gained velocity (%v, %v)", vx, vy)
	}
}

func TestBoundaryAccessors(t *testing.T) {
	w := newTestWorld(t)

	if w.Boundary() != nil {
		t.Error("new world has a boundary")
	}
	w.SetBoundary(&collision.AABB{MinX: -5, MinY: -5, MaxX: 5, MaxY: 5})
	got := w.Boundary()
	if got == nil || got.MaxX != 5 {
		t.Errorf("Boundary = %+v", got)
	}
	w.SetBoundary(nil)
	if w.Boundary() != nil {
		t.Error("boundary not cleared")
	}
}
