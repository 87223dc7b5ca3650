package material

import (
	"math"
	"testing"
)

func TestResetSeedsBuiltins(t *testing.T) {
	Reset()

	if Count() != 8 {
		t.Fatalf("Count() = %d, want 8", Count())
	}

	wantNames := []string{"Glass", "Ice", "Lead", "Plastic", "Rubber", "Steel", "Stone", "Wood"}
	var gotNames []string
	Each(func(m Material) {
		gotNames = append(gotNames, m.Name)
	})
	for i, want := range wantNames {
		if gotNames[i] != want {
			t.Errorf("material #%d = %q, want %q", i, gotNames[i], want)
		}
	}

	rubber, err := GetByName("Rubber")
	if err != nil {
		t.Fatalf("GetByName(Rubber): %v", err)
	}
	if rubber.Density != 1.1 || rubber.Restitution != 0.8 || rubber.StaticFriction != 0.9 ||
		rubber.DynamicFriction != 0.75 || rubber.LinearDrag != 0.3 || rubber.AngularDrag != 0.2 {
		t.Errorf("Rubber parameters wrong: %+v", rubber)
	}

	if Default().Name != "Wood" {
		t.Errorf("Default() = %q, want Wood", Default().Name)
	}
}

func TestIDsFollowRegistrationOrder(t *testing.T) {
	Reset()

	id, err := Register(Material{Name: "Foam", Density: 0.2, Restitution: 0.1, StaticFriction: 0.6, DynamicFriction: 0.5})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id != 9 {
		t.Errorf("id = %d, want 9 (next after the 8 builtins)", id)
	}

	m, err := Get(id)
	if err != nil {
		t.Fatalf("Get(%d): %v", id, err)
	}
	if m.Name != "Foam" {
		t.Errorf("Get(%d).Name = %q, want Foam", id, m.Name)
	}
	if !Contains("Foam") {
		t.Error("Contains(Foam) = false after Register")
	}
}

func TestRegisterValidation(t *testing.T) {
	Reset()

	tests := []struct {
		name string
		m    Material
	}{
		{"empty name", Material{Density: 1}},
		{"duplicate name", Material{Name: "Wood", Density: 1}},
		{"zero density", Material{Name: "X", Density: 0}},
		{"negative density", Material{Name: "X", Density: -1}},
		{"restitution above one", Material{Name: "X", Density: 1, Restitution: 1.5}},
		{"negative static friction", Material{Name: "X", Density: 1, StaticFriction: -0.1}},
		{"dynamic friction above one", Material{Name: "X", Density: 1, DynamicFriction: 2}},
		{"negative drag", Material{Name: "X", Density: 1, LinearDrag: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Register(tc.m); err == nil {
				t.Errorf("Register(%+v) succeeded, want error", tc.m)
			}
		})
	}

	// Failed registrations must not grow the registry.
	if Count() != 8 {
		t.Errorf("Count() = %d after rejected registrations, want 8", Count())
	}
}

func TestLookupNotFound(t *testing.T) {
	Reset()

	if _, err := Get(0); err == nil {
		t.Error("Get(0) succeeded, want error")
	}
	if _, err := Get(99); err == nil {
		t.Error("Get(99) succeeded, want error")
	}
	if _, err := GetByName("Adamantium"); err == nil {
		t.Error("GetByName(Adamantium) succeeded, want error")
	}
}

func TestCombineFriction(t *testing.T) {
	a := Material{StaticFriction: 0.4, DynamicFriction: 0.2}
	b := Material{StaticFriction: 0.8, DynamicFriction: 0.6}

	tests := []struct {
		name        string
		mode        CombineMode
		wantStatic  float64
		wantDynamic float64
	}{
		{"average", CombineAverage, 0.6, 0.4},
		{"minimum", CombineMinimum, 0.4, 0.2},
		{"maximum", CombineMaximum, 0.8, 0.6},
		{"multiply", CombineMultiply, 0.32, 0.12},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a.FrictionCombine = tc.mode
			s, d := CombineFriction(a, b)
			if math.Abs(s-tc.wantStatic) > 1e-12 || math.Abs(d-tc.wantDynamic) > 1e-12 {
				t.Errorf("CombineFriction = (%v, %v), want (%v, %v)", s, d, tc.wantStatic, tc.wantDynamic)
			}
		})
	}
}

func TestCombineRestitutionIsMinimum(t *testing.T) {
	a := Material{Restitution: 0.8}
	b := Material{Restitution: 0.3}

	// The minimum rule holds for every combine mode of either side.
	for mode := CombineAverage; mode <= CombineMultiply; mode++ {
		a.FrictionCombine = mode
		b.FrictionCombine = mode
		if got := CombineRestitution(a, b); got != 0.3 {
			t.Errorf("mode %d: CombineRestitution = %v, want 0.3", mode, got)
		}
		if got := CombineRestitution(b, a); got != 0.3 {
			t.Errorf("mode %d swapped: CombineRestitution = %v, want 0.3", mode, got)
		}
	}
}

func TestSetDefault(t *testing.T) {
	Reset()

	if err := SetDefault("Steel"); err != nil {
		t.Fatalf("SetDefault(Steel): %v", err)
	}
	if Default().Name != "Steel" {
		t.Errorf("Default() = %q, want Steel", Default().Name)
	}
	if err := SetDefault("Nope"); err == nil {
		t.Error("SetDefault(Nope) succeeded, want error")
	}

	Reset()
	if Default().Name != "Wood" {
		t.Errorf("Default() after Reset = %q, want Wood", Default().Name)
	}
}
