package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type File struct {
	Version     int              `yaml:"version"`
	Name        string           `yaml:"name"`
	Definitions []DefinitionFile `yaml:"definitions"`
	Eras        []EraFile        `yaml:"eras"`
}

type DefinitionFile struct {
	ID                  string         `yaml:"id"`
	Name                string         `yaml:"name"`
	Color               string         `yaml:"color"`
	Description         string         `yaml:"description"`
	Category            string         `yaml:"category"`
	ResourceCost        map[string]int `yaml:"resource_cost"`
	ResourceProduction  map[string]int `yaml:"resource_production"`
	PopulationCapacity  int            `yaml:"population_capacity"`
	SustainabilityBonus int            `yaml:"sustainability_bonus"`
}

type EraFile struct {
	ID                   string   `yaml:"id"`
	Name                 string   `yaml:"name"`
	Description          string   `yaml:"description"`
	Category             string   `yaml:"category"`
	AvailableBuildings   []string `yaml:"available_buildings"`
	ChallengeDescription string   `yaml:"challenge"`
	SustainabilityGoals  []string `yaml:"goals"`
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	if err := validateFile(&file); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	definitions := make([]Definition, 0, len(file.Definitions))
	for _, def := range file.Definitions {
		definitions = append(definitions, Definition{
			ID:                  def.ID,
			Name:                def.Name,
			Color:               def.Color,
			Description:         def.Description,
			Category:            Category(strings.ToLower(def.Category)),
			ResourceCost:        def.ResourceCost,
			ResourceProduction:  def.ResourceProduction,
			PopulationCapacity:  def.PopulationCapacity,
			SustainabilityBonus: def.SustainabilityBonus,
		})
	}

	eras := make([]Era, 0, len(file.Eras))
	for _, era := range file.Eras {
		eras = append(eras, Era{
			ID:                   era.ID,
			Name:                 era.Name,
			Description:          era.Description,
			Category:             era.Category,
			AvailableBuildings:   era.AvailableBuildings,
			ChallengeDescription: era.ChallengeDescription,
			SustainabilityGoals:  era.SustainabilityGoals,
		})
	}

	c, err := New(file.Name, definitions, eras)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return c, nil
}

func validateFile(f *File) error {
	if f.Version != 1 {
		return fmt.Errorf("unsupported version: %d", f.Version)
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("catalog name is required")
	}
	if len(f.Definitions) == 0 {
		return fmt.Errorf("at least one definition is required")
	}

	for i, def := range f.Definitions {
		if strings.TrimSpace(def.Name) == "" {
			return fmt.Errorf("definition %d name is required", i)
		}
		if !Category(strings.ToLower(def.Category)).Valid() {
			return fmt.Errorf("definition %s has unknown category: %s", def.ID, def.Category)
		}
		for resource, amount := range def.ResourceCost {
			if amount < 0 {
				return fmt.Errorf("definition %s has negative cost for %s", def.ID, resource)
			}
		}
		if def.PopulationCapacity < 0 {
			return fmt.Errorf("definition %s has negative population capacity", def.ID)
		}
	}

	for i, era := range f.Eras {
		if strings.TrimSpace(era.Name) == "" {
			return fmt.Errorf("era %d name is required", i)
		}
		if len(era.AvailableBuildings) == 0 {
			return fmt.Errorf("era %s has no available buildings", era.ID)
		}
	}

	return nil
}
