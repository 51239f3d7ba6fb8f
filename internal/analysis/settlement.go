package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tabletop/internal/catalog"
	"tabletop/internal/scene"
)

// MaxSustainabilityBonus is the largest per-building bonus; an average at
// this value scores 100.
const MaxSustainabilityBonus = 5

const deficitPenalty = 10

// Settlement holds the figures derived from the buildings on the table.
type Settlement struct {
	Buildings           int            `json:"buildings"`
	Population          int            `json:"population"`
	Resources           map[string]int `json:"resources"`
	SustainabilityScore int            `json:"sustainabilityScore"`
	Deficits            []string       `json:"deficits,omitempty"`
}

// Settle computes population, resource stock and sustainability for the
// placed buildings. Entities whose definition the catalog does not know are
// ignored.
func Settle(entities []scene.Entity, cat *catalog.Catalog, starting map[string]int) Settlement {
	st := Settlement{Resources: make(map[string]int, len(starting))}
	for k, v := range starting {
		st.Resources[k] = v
	}

	bonus := 0
	for _, e := range entities {
		if !e.Placed {
			continue
		}
		def, ok := cat.Lookup(e.Definition.ID)
		if !ok {
			continue
		}
		st.Buildings++
		st.Population += def.PopulationCapacity
		bonus += def.SustainabilityBonus
		for k, v := range def.ResourceProduction {
			st.Resources[k] += v
		}
		for k, v := range def.ResourceCost {
			st.Resources[k] -= v
		}
	}

	for k, v := range st.Resources {
		if v < 0 {
			st.Deficits = append(st.Deficits, k)
		}
	}
	sort.Strings(st.Deficits)

	if st.Buildings == 0 {
		st.SustainabilityScore = 100
		return st
	}
	avg := float64(bonus) / float64(st.Buildings)
	score := int(math.Round(avg/MaxSustainabilityBonus*100)) - deficitPenalty*len(st.Deficits)
	st.SustainabilityScore = max(0, min(100, score))
	return st
}

// CanAfford reports whether resources cover the definition's cost.
func CanAfford(def catalog.Definition, resources map[string]int) bool {
	for k, v := range def.ResourceCost {
		if resources[k] < v {
			return false
		}
	}
	return true
}

// Hint suggests the next step for a settlement in era.
func Hint(st Settlement, era catalog.Era, cat *catalog.Catalog) string {
	switch {
	case st.Buildings == 0:
		return fmt.Sprintf("Start %s by placing housing for your first families.", era.Name)
	case len(st.Deficits) > 0:
		return fmt.Sprintf("Resources in deficit: %s. Add production before building more.", strings.Join(st.Deficits, ", "))
	case st.Population == 0:
		return "Nobody lives here yet. Add housing."
	case st.SustainabilityScore < 40:
		return "Sustainability is low. Community buildings and renewable production help."
	}
	affordable := 0
	for _, id := range era.AvailableBuildings {
		if def, ok := cat.Lookup(id); ok && CanAfford(def, st.Resources) {
			affordable++
		}
	}
	if affordable == 0 {
		return "No building in this era is affordable. Review your resource balance."
	}
	return era.ChallengeDescription
}

// TherapyHint points at the life path the scene leans toward.
func TherapyHint(s Summary) string {
	if s.Placed == 0 {
		return "Pick a figure from the library and place it on the table."
	}
	info, ok := catalog.Info(s.Dominant)
	if !ok {
		return "Figures in the center have not chosen a path yet. Try moving one outward."
	}
	return fmt.Sprintf("Most figures stand on the %s path: %s.", info.Name, strings.ToLower(info.Description))
}
