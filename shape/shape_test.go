package shape

import "testing"

func TestConstructorsValidate(t *testing.T) {
	if _, err := Circle(0); err == nil {
		t.Error("Circle(0) succeeded, want error")
	}
	if _, err := Circle(-2); err == nil {
		t.Error("Circle(-2) succeeded, want error")
	}
	if _, err := Rectangle(0, 1); err == nil {
		t.Error("Rectangle(0, 1) succeeded, want error")
	}
	if _, err := Rectangle(1, -1); err == nil {
		t.Error("Rectangle(1, -1) succeeded, want error")
	}
	if _, err := Polygon([]Vertex{{0, 0}, {1, 0}}); err == nil {
		t.Error("Polygon with 2 vertices succeeded, want error")
	}

	s, err := Circle(1.5)
	if err != nil {
		t.Fatalf("Circle(1.5): %v", err)
	}
	if s.Kind != CircleKind || s.Radius != 1.5 {
		t.Errorf("Circle(1.5) = %+v", s)
	}
}

func TestPolygonDeepCopies(t *testing.T) {
	verts := []Vertex{{0, 0}, {1, 0}, {1, 1}}
	s, err := Polygon(verts)
	if err != nil {
		t.Fatalf("Polygon: %v", err)
	}

	verts[0].X = 99
	if s.Verts[0].X != 0 {
		t.Error("Polygon shares caller's vertex slice")
	}

	c := s.Clone()
	c.Verts[1].Y = 42
	if s.Verts[1].Y != 0 {
		t.Error("Clone shares the original's vertex slice")
	}
}

func TestPredefinedCatalog(t *testing.T) {
	ResetPredefined()

	tri := []Vertex{{0, 0}, {1, 0}, {0, 1}}
	id, err := RegisterPredefined("tri", tri)
	if err != nil {
		t.Fatalf("RegisterPredefined: %v", err)
	}
	if id != 1 {
		t.Errorf("first id = %d, want 1", id)
	}

	// Stored copy must be insulated from caller mutation.
	tri[0].X = 7
	got, err := Predefined(id)
	if err != nil {
		t.Fatalf("Predefined(%d): %v", id, err)
	}
	if got[0].X != 0 {
		t.Error("catalog shares caller's vertex slice")
	}

	// Lookups return fresh copies too.
	got[1].Y = 9
	again, _ := PredefinedByName("tri")
	if again[1].Y != 0 {
		t.Error("catalog handed out its internal slice")
	}

	if _, err := Predefined(99); err == nil {
		t.Error("Predefined(99) succeeded, want error")
	}
	if _, err := PredefinedByName("nope"); err == nil {
		t.Error("PredefinedByName(nope) succeeded, want error")
	}

	if _, err := RegisterPredefined("tri", tri); err == nil {
		t.Error("duplicate RegisterPredefined succeeded, want error")
	}

	ResetPredefined()
	if _, err := Predefined(id); err == nil {
		t.Error("Predefined succeeded after ResetPredefined, want error")
	}
}
