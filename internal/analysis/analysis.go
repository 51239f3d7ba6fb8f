package analysis

import (
	"encoding/json"
	"fmt"

	"tabletop/internal/catalog"
	"tabletop/internal/scene"
)

// Tier buckets a scene by how many entities are placed.
type Tier string

const (
	TierEmpty      Tier = "empty"
	TierIndividual Tier = "individual"
	TierDyad       Tier = "dyad"
	TierSmallGroup Tier = "small group"
	TierComplex    Tier = "complex system"
)

func TierFor(placed int) Tier {
	switch {
	case placed <= 0:
		return TierEmpty
	case placed == 1:
		return TierIndividual
	case placed == 2:
		return TierDyad
	case placed <= 4:
		return TierSmallGroup
	default:
		return TierComplex
	}
}

var tierText = map[Tier]string{
	TierEmpty:      "Empty table - ready to begin",
	TierIndividual: "Individual configuration - personal exploration",
	TierDyad:       "Dyad - dynamics between two",
	TierSmallGroup: "Small group - basic family dynamics",
	TierComplex:    "Complex system - multiple relationships and interactions",
}

// Distribution counts placed entities per zone. Neutral entities are
// counted under catalog.ZoneNone.
type Distribution map[catalog.Zone]int

// MarshalJSON writes neutral entities under "neutral".
func (d Distribution) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(d))
	for z, n := range d {
		key := string(z)
		if z == catalog.ZoneNone {
			key = "neutral"
		}
		out[key] = n
	}
	return json.Marshal(out)
}

func ZoneDistribution(entities []scene.Entity) Distribution {
	d := Distribution{catalog.ZoneNone: 0}
	for _, z := range catalog.Zones() {
		d[z] = 0
	}
	for _, e := range entities {
		if !e.Placed {
			continue
		}
		d[e.Zone]++
	}
	return d
}

// DominantZone returns the zone with the highest count. Ties go to the
// earlier zone in north, south, east, west order. Neutral entities never
// dominate; with no zoned entities the result is ZoneNone.
func DominantZone(d Distribution) catalog.Zone {
	best := catalog.ZoneNone
	bestCount := 0
	for _, z := range catalog.Zones() {
		if d[z] > bestCount {
			best = z
			bestCount = d[z]
		}
	}
	return best
}

// Summary is the derived description of a therapy scene.
type Summary struct {
	Placed       int          `json:"placed"`
	Tier         Tier         `json:"tier"`
	Distribution Distribution `json:"distribution"`
	Dominant     catalog.Zone `json:"dominant"`
	Text         string       `json:"text"`
}

func Summarize(entities []scene.Entity) Summary {
	d := ZoneDistribution(entities)
	placed := 0
	for _, n := range d {
		placed += n
	}
	s := Summary{
		Placed:       placed,
		Tier:         TierFor(placed),
		Distribution: d,
		Dominant:     DominantZone(d),
	}
	s.Text = summaryText(s)
	return s
}

// SummaryText is Summarize(entities).Text.
func SummaryText(entities []scene.Entity) string {
	return Summarize(entities).Text
}

func summaryText(s Summary) string {
	text := tierText[s.Tier]
	if s.Placed == 0 {
		return text
	}
	text = fmt.Sprintf("%s (%d placed)", text, s.Placed)
	if info, ok := catalog.Info(s.Dominant); ok {
		text = fmt.Sprintf("%s. Dominant path: %s", text, info.Name)
	}
	return text
}
