package mcp

import (
	"fmt"

	"tabletop/internal/analysis"
	"tabletop/internal/catalog"
	"tabletop/internal/history"
	"tabletop/internal/scene"
)

type PlaceInput struct {
	Definition string    `json:"definition" jsonschema:"definition id from the catalog"`
	Position   []float64 `json:"position,omitempty" jsonschema:"x, y, z on the surface; omit for a random drop"`
	Rotation   []float64 `json:"rotation,omitempty" jsonschema:"x, y, z rotation in radians"`
}

type EntityIDInput struct {
	ID string `json:"id" jsonschema:"entity id"`
}

type PositionInput struct {
	ID       string    `json:"id" jsonschema:"entity id"`
	Position []float64 `json:"position" jsonschema:"x, y, z"`
}

type RotateInput struct {
	ID       string    `json:"id" jsonschema:"entity id"`
	Rotation []float64 `json:"rotation" jsonschema:"x, y, z rotation in radians"`
}

type AnnotateInput struct {
	ID      string  `json:"id" jsonschema:"entity id"`
	Label   *string `json:"label,omitempty" jsonschema:"name or role shown on the figure"`
	Notes   *string `json:"notes,omitempty" jsonschema:"free text notes"`
	Emotion *string `json:"emotion,omitempty" jsonschema:"neutral, happy, sad, angry, anxious or empty"`
}

type RelateInput struct {
	Source string `json:"source" jsonschema:"source entity id"`
	Target string `json:"target" jsonschema:"target entity id"`
	Type   string `json:"type,omitempty" jsonschema:"family, strong, tension, conflict or distant"`
}

type CardInput struct {
	ID    string `json:"id" jsonschema:"entity id"`
	Image string `json:"image" jsonschema:"image card reference"`
	Word  string `json:"word" jsonschema:"word card reference"`
}

type SelectInput struct {
	ID string `json:"id,omitempty" jsonschema:"entity id; empty clears the selection"`
}

type SaveInput struct {
	Name string `json:"name" jsonschema:"configuration name"`
}

type ConfigurationIDInput struct {
	ID string `json:"id" jsonschema:"saved configuration id"`
}

type ZoneInput struct {
	Position []float64 `json:"position" jsonschema:"x, y, z"`
}

type ListCatalogInput struct {
	Category string `json:"category,omitempty" jsonschema:"restrict to a category"`
}

type AutoAssignInput struct {
	Enabled *bool `json:"enabled,omitempty" jsonschema:"new preference; omit to read it"`
}

type EmptyInput struct{}

type ActionOutput struct {
	Applied bool           `json:"applied"`
	History history.Status `json:"history"`
}

type RelationshipOutput struct {
	Target string `json:"target"`
	Type   string `json:"type"`
}

type CardOutput struct {
	Image string `json:"image,omitempty"`
	Word  string `json:"word,omitempty"`
}

type EntityOutput struct {
	ID            string               `json:"id"`
	Definition    string               `json:"definition"`
	Name          string               `json:"name"`
	Category      string               `json:"category"`
	Position      []float64            `json:"position"`
	Rotation      []float64            `json:"rotation"`
	GazeOffset    float64              `json:"gaze_offset"`
	Zone          string               `json:"zone"`
	Placed        bool                 `json:"placed"`
	Label         string               `json:"label,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	Emotion       string               `json:"emotion,omitempty"`
	Relationships []RelationshipOutput `json:"relationships"`
	Card          *CardOutput          `json:"card,omitempty"`
	Selected      bool                 `json:"selected,omitempty"`
}

type ListEntitiesOutput struct {
	Entities []EntityOutput `json:"entities"`
}

type ConfigurationOutput struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Scenario            string `json:"scenario"`
	Timestamp           int64  `json:"timestamp"`
	Entities            int    `json:"entities"`
	Analysis            string `json:"analysis"`
	Population          int    `json:"population,omitempty"`
	SustainabilityScore int    `json:"sustainability_score,omitempty"`
}

type SaveOutput struct {
	Configuration ConfigurationOutput `json:"configuration"`
	Persisted     bool                `json:"persisted"`
}

type LoadOutput struct {
	Entities int      `json:"entities"`
	Dropped  []string `json:"dropped,omitempty"`
}

type DeleteOutput struct {
	Persisted bool `json:"persisted"`
}

type ListConfigurationsOutput struct {
	Configurations []ConfigurationOutput `json:"configurations"`
}

type ZoneOutput struct {
	Zone        string `json:"zone"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type SettlementOutput struct {
	Era                 string         `json:"era"`
	Population          int            `json:"population"`
	Resources           map[string]int `json:"resources"`
	SustainabilityScore int            `json:"sustainability_score"`
	Deficits            []string       `json:"deficits,omitempty"`
}

type SummaryOutput struct {
	Mode         string            `json:"mode"`
	Placed       int               `json:"placed"`
	Tier         string            `json:"tier"`
	Dominant     string            `json:"dominant"`
	Distribution map[string]int    `json:"distribution"`
	Text         string            `json:"text"`
	Hint         string            `json:"hint"`
	Settlement   *SettlementOutput `json:"settlement,omitempty"`
}

type DefinitionOutput struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Color               string         `json:"color"`
	Category            string         `json:"category"`
	Description         string         `json:"description,omitempty"`
	ResourceCost        map[string]int `json:"resource_cost,omitempty"`
	ResourceProduction  map[string]int `json:"resource_production,omitempty"`
	PopulationCapacity  int            `json:"population_capacity,omitempty"`
	SustainabilityBonus int            `json:"sustainability_bonus,omitempty"`
	Placeable           bool           `json:"placeable"`
}

type ListCatalogOutput struct {
	Catalog     string             `json:"catalog"`
	Definitions []DefinitionOutput `json:"definitions"`
}

type AutoAssignOutput struct {
	Enabled   bool `json:"enabled"`
	Persisted bool `json:"persisted"`
}

func vec3(in []float64, field string) (scene.Vec3, error) {
	if len(in) != 3 {
		return scene.Vec3{}, fmt.Errorf("%s must have exactly 3 components", field)
	}
	return scene.Vec3{in[0], in[1], in[2]}, nil
}

func entityOutput(e scene.Entity, selected string) EntityOutput {
	out := EntityOutput{
		ID:            e.ID,
		Definition:    e.Definition.ID,
		Name:          e.Definition.Name,
		Category:      string(e.Definition.Category),
		Position:      e.Position[:],
		Rotation:      e.Rotation[:],
		GazeOffset:    e.GazeOffset,
		Zone:          zoneName(e.Zone),
		Placed:        e.Placed,
		Label:         e.Label,
		Notes:         e.Notes,
		Emotion:       string(e.Emotion),
		Relationships: make([]RelationshipOutput, 0, len(e.Relationships)),
		Selected:      e.ID == selected,
	}
	for _, rel := range e.Relationships {
		out.Relationships = append(out.Relationships, RelationshipOutput{Target: rel.TargetID, Type: string(rel.Type)})
	}
	if e.Card != nil {
		out.Card = &CardOutput{Image: e.Card.Image, Word: e.Card.Word}
	}
	return out
}

func configurationOutput(snap scene.Snapshot) ConfigurationOutput {
	return ConfigurationOutput{
		ID:                  snap.ID,
		Name:                snap.Name,
		Scenario:            snap.Scenario,
		Timestamp:           snap.Timestamp,
		Entities:            len(snap.Entities),
		Analysis:            snap.Analysis,
		Population:          snap.Population,
		SustainabilityScore: snap.SustainabilityScore,
	}
}

func definitionOutput(def catalog.Definition) DefinitionOutput {
	return DefinitionOutput{
		ID:                  def.ID,
		Name:                def.Name,
		Color:               def.Color,
		Category:            string(def.Category),
		Description:         def.Description,
		ResourceCost:        def.ResourceCost,
		ResourceProduction:  def.ResourceProduction,
		PopulationCapacity:  def.PopulationCapacity,
		SustainabilityBonus: def.SustainabilityBonus,
	}
}

func summaryOutput(sum analysis.Summary) SummaryOutput {
	out := SummaryOutput{
		Placed:       sum.Placed,
		Tier:         string(sum.Tier),
		Dominant:     zoneName(sum.Dominant),
		Distribution: make(map[string]int, len(sum.Distribution)),
		Text:         sum.Text,
	}
	for z, n := range sum.Distribution {
		out.Distribution[zoneName(z)] = n
	}
	return out
}

func zoneName(z catalog.Zone) string {
	if z == catalog.ZoneNone {
		return "neutral"
	}
	return string(z)
}
