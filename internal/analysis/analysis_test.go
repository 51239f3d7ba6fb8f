package analysis

import (
	"encoding/json"
	"strings"
	"testing"

	"tabletop/internal/catalog"
	"tabletop/internal/scene"
)

func placed(id, def string, zone catalog.Zone) scene.Entity {
	return scene.Entity{ID: id, Definition: catalog.DefinitionRef{ID: def}, Zone: zone, Placed: true}
}

func TestSingleFigureInNorth(t *testing.T) {
	s := scene.New(catalog.Therapy(), scene.Options{IDs: &scene.SequentialIDs{}})
	e, ok := s.Place("father", scene.Placement{Position: scene.Vec3{2, 0, -6}})
	if !ok || e.Zone != catalog.ZoneNorth {
		t.Fatalf("expected father in north, got %+v", e)
	}

	sum := Summarize(s.Entities())
	if sum.Placed != 1 || sum.Tier != TierIndividual || sum.Dominant != catalog.ZoneNorth {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if !strings.Contains(sum.Text, "Individual") || !strings.Contains(sum.Text, "1 placed") {
		t.Fatalf("unexpected text: %q", sum.Text)
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		placed int
		want   Tier
	}{
		{0, TierEmpty},
		{1, TierIndividual},
		{2, TierDyad},
		{3, TierSmallGroup},
		{4, TierSmallGroup},
		{5, TierComplex},
		{40, TierComplex},
	}
	for _, tt := range tests {
		if got := TierFor(tt.placed); got != tt.want {
			t.Fatalf("TierFor(%d) = %q, want %q", tt.placed, got, tt.want)
		}
	}
}

func TestDominantZone(t *testing.T) {
	t.Run("tie goes to enumeration order", func(t *testing.T) {
		d := ZoneDistribution([]scene.Entity{
			placed("a", "self", catalog.ZoneWest),
			placed("b", "self", catalog.ZoneEast),
			placed("c", "self", catalog.ZoneWest),
			placed("d", "self", catalog.ZoneEast),
		})
		if got := DominantZone(d); got != catalog.ZoneEast {
			t.Fatalf("expected east, got %q", got)
		}
	})

	t.Run("neutral never dominates", func(t *testing.T) {
		d := ZoneDistribution([]scene.Entity{
			placed("a", "self", catalog.ZoneNone),
			placed("b", "self", catalog.ZoneNone),
			placed("c", "self", catalog.ZoneSouth),
		})
		if got := DominantZone(d); got != catalog.ZoneSouth {
			t.Fatalf("expected south, got %q", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := DominantZone(ZoneDistribution(nil)); got != catalog.ZoneNone {
			t.Fatalf("expected none, got %q", got)
		}
	})

	t.Run("unplaced entities are not counted", func(t *testing.T) {
		e := placed("a", "self", catalog.ZoneNorth)
		e.Placed = false
		d := ZoneDistribution([]scene.Entity{e})
		if d[catalog.ZoneNorth] != 0 {
			t.Fatalf("expected unplaced entity ignored")
		}
	})
}

func TestDistributionJSON(t *testing.T) {
	data, err := json.Marshal(ZoneDistribution([]scene.Entity{placed("a", "self", catalog.ZoneNone)}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"neutral":1`) || !strings.Contains(string(data), `"north":0`) {
		t.Fatalf("unexpected json: %s", data)
	}
}

func TestSummaryTextEmpty(t *testing.T) {
	if got := SummaryText(nil); !strings.HasPrefix(got, "Empty table") {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestSettle(t *testing.T) {
	cat := catalog.Settlement()

	t.Run("empty settlement", func(t *testing.T) {
		st := Settle(nil, cat, catalog.StartingResources())
		if st.SustainabilityScore != 100 || st.Population != 0 || st.Resources["wood"] != 10 {
			t.Fatalf("unexpected settlement: %+v", st)
		}
	})

	t.Run("hut and farm", func(t *testing.T) {
		st := Settle([]scene.Entity{
			placed("a", "mud-hut", catalog.ZoneNorth),
			placed("b", "farm-plot", catalog.ZoneSouth),
		}, cat, catalog.StartingResources())
		if st.Population != 4 || st.SustainabilityScore != 80 {
			t.Fatalf("unexpected figures: %+v", st)
		}
		want := map[string]int{"wood": 7, "stone": 8, "clay": 3, "food": 8, "water": 10, "flour": 0}
		for k, v := range want {
			if st.Resources[k] != v {
				t.Fatalf("resource %s = %d, want %d", k, st.Resources[k], v)
			}
		}
	})

	t.Run("deficit lowers score", func(t *testing.T) {
		st := Settle([]scene.Entity{
			placed("a", "temple", catalog.ZoneNorth),
			placed("b", "windmill", catalog.ZoneSouth),
		}, cat, catalog.StartingResources())
		if len(st.Deficits) != 1 || st.Deficits[0] != "stone" {
			t.Fatalf("expected stone deficit, got %v", st.Deficits)
		}
		if st.SustainabilityScore != 80 {
			t.Fatalf("expected score 80, got %d", st.SustainabilityScore)
		}
		era, _ := cat.Era("medieval")
		if hint := Hint(st, era, cat); !strings.Contains(hint, "stone") {
			t.Fatalf("expected deficit hint, got %q", hint)
		}
	})

	t.Run("starting stock is not mutated", func(t *testing.T) {
		start := catalog.StartingResources()
		Settle([]scene.Entity{placed("a", "mud-hut", catalog.ZoneNorth)}, cat, start)
		if start["wood"] != 10 {
			t.Fatalf("starting resources mutated")
		}
	})
}

func TestCanAfford(t *testing.T) {
	cat := catalog.Settlement()
	temple, _ := cat.Lookup("temple")
	if !CanAfford(temple, catalog.StartingResources()) {
		t.Fatalf("expected temple affordable from starting stock")
	}
	if CanAfford(temple, map[string]int{"stone": 7, "wood": 4}) {
		t.Fatalf("expected temple unaffordable with 7 stone")
	}
}

func TestHints(t *testing.T) {
	cat := catalog.Settlement()
	era, _ := cat.Era("neolithic")
	if hint := Hint(Settle(nil, cat, catalog.StartingResources()), era, cat); !strings.Contains(hint, era.Name) {
		t.Fatalf("unexpected empty hint: %q", hint)
	}
	st := Settle([]scene.Entity{placed("a", "mud-hut", catalog.ZoneNorth)}, cat, catalog.StartingResources())
	if hint := Hint(st, era, cat); hint != era.ChallengeDescription {
		t.Fatalf("expected era challenge, got %q", hint)
	}

	sum := Summarize([]scene.Entity{placed("a", "self", catalog.ZoneWest)})
	if hint := TherapyHint(sum); !strings.Contains(hint, "Duty") {
		t.Fatalf("unexpected therapy hint: %q", hint)
	}
}
