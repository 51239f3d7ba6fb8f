package catalog

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinCatalogs(t *testing.T) {
	t.Run("therapy", func(t *testing.T) {
		c := Therapy()
		def, ok := c.Lookup("father")
		if !ok {
			t.Fatalf("expected father definition")
		}
		if def.Category != CategoryFather {
			t.Fatalf("expected father category, got %q", def.Category)
		}
		if len(c.ByCategory(CategoryChild)) != 3 {
			t.Fatalf("expected three child definitions")
		}
	})

	t.Run("settlement eras resolve", func(t *testing.T) {
		c := Settlement()
		for _, era := range c.Eras() {
			for _, id := range era.AvailableBuildings {
				if _, ok := c.Lookup(id); !ok {
					t.Fatalf("era %s references unknown building %s", era.ID, id)
				}
			}
		}
		era, ok := c.Era("neolithic")
		if !ok || !era.Allows("mud-hut") || era.Allows("temple") {
			t.Fatalf("unexpected neolithic era: %+v", era)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := Therapy().Definition("dragon")
		if !errors.Is(err, ErrUnknownDefinition) {
			t.Fatalf("expected ErrUnknownDefinition, got %v", err)
		}
	})

	t.Run("lookup returns copies", func(t *testing.T) {
		c := Settlement()
		def, _ := c.Lookup("mud-hut")
		def.ResourceCost["wood"] = 99
		again, _ := c.Lookup("mud-hut")
		if again.ResourceCost["wood"] != 2 {
			t.Fatalf("catalog was mutated through a lookup result")
		}
	})
}

func TestNewRejectsBadDefinitions(t *testing.T) {
	tests := []struct {
		name string
		defs []Definition
	}{
		{name: "empty", defs: nil},
		{name: "missing id", defs: []Definition{{Name: "x", Color: "#000000", Category: CategorySelf}}},
		{name: "duplicate id", defs: []Definition{
			{ID: "a", Color: "#000000", Category: CategorySelf},
			{ID: "a", Color: "#000000", Category: CategorySelf},
		}},
		{name: "bad category", defs: []Definition{{ID: "a", Color: "#000000", Category: "dragon"}}},
		{name: "bad color", defs: []Definition{{ID: "a", Color: "#fff", Category: CategorySelf}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New("test", tt.defs, nil); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestMustNewPanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustNew("empty", nil, nil)
}

func TestClassifyZone(t *testing.T) {
	s := DefaultSurface()
	tests := []struct {
		name     string
		position Vec3
		expected Zone
	}{
		{name: "center", position: Vec3{0, 0.4, 0}, expected: ZoneNone},
		{name: "inside neutral square", position: Vec3{0.9, 0, -0.9}, expected: ZoneNone},
		{name: "north", position: Vec3{2, 0, -6}, expected: ZoneNorth},
		{name: "south", position: Vec3{-1, 0, 4}, expected: ZoneSouth},
		{name: "east", position: Vec3{5, 0, 1}, expected: ZoneEast},
		{name: "west", position: Vec3{-5, 0, -2}, expected: ZoneWest},
		{name: "one axis outside neutral", position: Vec3{0.2, 0, 1}, expected: ZoneSouth},
		{name: "tie goes to z axis", position: Vec3{3, 0, -3}, expected: ZoneNorth},
		{name: "nan", position: Vec3{math.NaN(), 0, math.NaN()}, expected: ZoneSouth},
		{name: "infinity", position: Vec3{math.Inf(-1), 0, 2}, expected: ZoneWest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ClassifyZone(tt.position)
			if got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
			if again := s.ClassifyZone(tt.position); again != got {
				t.Fatalf("classification is not deterministic: %q then %q", got, again)
			}
		})
	}
}

type fixedRand []float64

func (f *fixedRand) Float64() float64 {
	v := (*f)[0]
	*f = (*f)[1:]
	return v
}

func TestSurfaceRandomPoint(t *testing.T) {
	s := DefaultSurface()
	r := &fixedRand{1, 0.25}
	p := s.RandomPoint(r, 0.4)
	if !s.Contains(p) {
		t.Fatalf("point %v is off the surface", p)
	}
	if math.Abs(p[0]) > 1e-9 || math.Abs(p[2]-7) > 1e-9 || p[1] != 0.4 {
		t.Fatalf("unexpected point %v", p)
	}
}

func TestZoneJSON(t *testing.T) {
	var z Zone
	if err := z.UnmarshalJSON([]byte("null")); err != nil || z != ZoneNone {
		t.Fatalf("expected none, got %q (%v)", z, err)
	}
	if err := z.UnmarshalJSON([]byte(`"east"`)); err != nil || z != ZoneEast {
		t.Fatalf("expected east, got %q (%v)", z, err)
	}
	if err := z.UnmarshalJSON([]byte(`"up"`)); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
	data, _ := ZoneNone.MarshalJSON()
	if string(data) != "null" {
		t.Fatalf("expected null, got %s", data)
	}
}

func TestLoad(t *testing.T) {
	t.Run("valid catalog loads", func(t *testing.T) {
		path := writeTempCatalog(t, "version: 1\nname: custom\ndefinitions:\n  - id: hero\n    name: Hero\n    color: \"#112233\"\n    category: Self\n  - id: hut\n    name: Hut\n    color: \"#445566\"\n    category: housing\n    population_capacity: 3\n    resource_cost: {wood: 1}\neras:\n  - id: early\n    name: Early\n    available_buildings: [hut]\n")
		c, err := Load(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		def, ok := c.Lookup("hut")
		if !ok || def.PopulationCapacity != 3 || def.ResourceCost["wood"] != 1 {
			t.Fatalf("unexpected hut definition: %+v", def)
		}
		if hero, _ := c.Lookup("hero"); hero.Category != CategorySelf {
			t.Fatalf("expected category to be normalized, got %q", hero.Category)
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempCatalog(t, "version: 2\nname: x\ndefinitions:\n  - {id: a, name: A, color: \"#000000\", category: self}\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		path := writeTempCatalog(t, "version: 1\nname: x\ndefinitions:\n  - {id: a, name: A, color: \"#000000\", category: dragon}\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("era references unknown building", func(t *testing.T) {
		path := writeTempCatalog(t, "version: 1\nname: x\ndefinitions:\n  - {id: a, name: A, color: \"#000000\", category: housing}\neras:\n  - {id: e, name: E, available_buildings: [b]}\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempCatalog(t, "definitions: [\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func writeTempCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp catalog: %v", err)
	}
	return path
}
