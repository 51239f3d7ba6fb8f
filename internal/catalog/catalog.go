// Package catalog holds the immutable registry of placeable entity
// definitions and the pure helpers that classify positions on the surface.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrUnknownDefinition = errors.New("unknown entity definition")

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidColor reports whether s is a #RRGGBB color.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

type Category string

const (
	CategorySelf        Category = "self"
	CategoryFather      Category = "father"
	CategoryMother      Category = "mother"
	CategoryGrandfather Category = "grandfather"
	CategoryGrandmother Category = "grandmother"
	CategoryPartner     Category = "partner"
	CategoryChild       Category = "child"
	CategorySibling     Category = "sibling"
	CategoryDeceased    Category = "deceased"
	CategoryOther       Category = "other"

	CategoryHousing        Category = "housing"
	CategoryProduction     Category = "production"
	CategoryInfrastructure Category = "infrastructure"
	CategoryCulture        Category = "culture"
)

var categories = []Category{
	CategorySelf,
	CategoryFather,
	CategoryMother,
	CategoryGrandfather,
	CategoryGrandmother,
	CategoryPartner,
	CategoryChild,
	CategorySibling,
	CategoryDeceased,
	CategoryOther,
	CategoryHousing,
	CategoryProduction,
	CategoryInfrastructure,
	CategoryCulture,
}

// Categories returns the closed set of categories in declaration order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

func (c Category) Valid() bool {
	switch c {
	case CategorySelf, CategoryFather, CategoryMother, CategoryGrandfather, CategoryGrandmother,
		CategoryPartner, CategoryChild, CategorySibling, CategoryDeceased, CategoryOther,
		CategoryHousing, CategoryProduction, CategoryInfrastructure, CategoryCulture:
		return true
	}
	return false
}

// IsAbstract reports whether entities of this category are concepts rather
// than people or buildings.
func (c Category) IsAbstract() bool {
	return c == CategoryOther
}

type Definition struct {
	ID                  string
	Name                string
	Color               string
	Description         string
	Category            Category
	ResourceCost        map[string]int
	ResourceProduction  map[string]int
	PopulationCapacity  int
	SustainabilityBonus int
}

// DefinitionRef is the part of a definition that travels with a placed entity
// into persisted snapshots.
type DefinitionRef struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

func (d Definition) Ref() DefinitionRef {
	return DefinitionRef{
		ID:          d.ID,
		Name:        d.Name,
		Color:       d.Color,
		Description: d.Description,
		Category:    d.Category,
	}
}

type Era struct {
	ID                   string
	Name                 string
	Description          string
	Category             string
	AvailableBuildings   []string
	ChallengeDescription string
	SustainabilityGoals  []string
}

// Allows reports whether definitionID can be built in this era.
func (e Era) Allows(definitionID string) bool {
	for _, id := range e.AvailableBuildings {
		if id == definitionID {
			return true
		}
	}
	return false
}

// Catalog is safe for concurrent reads; nothing mutates it after New.
type Catalog struct {
	name        string
	definitions []Definition
	index       map[string]int
	eras        []Era
	eraIndex    map[string]int
}

func New(name string, definitions []Definition, eras []Era) (*Catalog, error) {
	if len(definitions) == 0 {
		return nil, fmt.Errorf("catalog %s: at least one definition is required", name)
	}

	c := &Catalog{
		name:        name,
		definitions: make([]Definition, 0, len(definitions)),
		index:       make(map[string]int, len(definitions)),
		eraIndex:    make(map[string]int, len(eras)),
	}

	for i, def := range definitions {
		if strings.TrimSpace(def.ID) == "" {
			return nil, fmt.Errorf("catalog %s: definition %d id is required", name, i)
		}
		if _, exists := c.index[def.ID]; exists {
			return nil, fmt.Errorf("catalog %s: duplicate definition id: %s", name, def.ID)
		}
		if !def.Category.Valid() {
			return nil, fmt.Errorf("catalog %s: definition %s has unknown category %q", name, def.ID, def.Category)
		}
		if !ValidColor(def.Color) {
			return nil, fmt.Errorf("catalog %s: definition %s has invalid color %q", name, def.ID, def.Color)
		}
		c.index[def.ID] = len(c.definitions)
		c.definitions = append(c.definitions, cloneDefinition(def))
	}

	for i, era := range eras {
		if strings.TrimSpace(era.ID) == "" {
			return nil, fmt.Errorf("catalog %s: era %d id is required", name, i)
		}
		if _, exists := c.eraIndex[era.ID]; exists {
			return nil, fmt.Errorf("catalog %s: duplicate era id: %s", name, era.ID)
		}
		for _, id := range era.AvailableBuildings {
			if _, ok := c.index[id]; !ok {
				return nil, fmt.Errorf("catalog %s: era %s references unknown definition: %s", name, era.ID, id)
			}
		}
		c.eraIndex[era.ID] = len(c.eras)
		era.AvailableBuildings = append([]string(nil), era.AvailableBuildings...)
		era.SustainabilityGoals = append([]string(nil), era.SustainabilityGoals...)
		c.eras = append(c.eras, era)
	}

	return c, nil
}

// MustNew is New for the built-in catalogs. An empty or inconsistent
// built-in catalog is a programming error.
func MustNew(name string, definitions []Definition, eras []Era) *Catalog {
	c, err := New(name, definitions, eras)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Name() string {
	return c.name
}

func (c *Catalog) Lookup(id string) (Definition, bool) {
	if c == nil {
		return Definition{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Definition{}, false
	}
	return cloneDefinition(c.definitions[i]), true
}

func (c *Catalog) Definition(id string) (Definition, error) {
	def, ok := c.Lookup(id)
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownDefinition, id)
	}
	return def, nil
}

func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, 0, len(c.definitions))
	for _, def := range c.definitions {
		out = append(out, cloneDefinition(def))
	}
	return out
}

func (c *Catalog) ByCategory(category Category) []Definition {
	var out []Definition
	for _, def := range c.definitions {
		if def.Category == category {
			out = append(out, cloneDefinition(def))
		}
	}
	return out
}

func (c *Catalog) Era(id string) (Era, bool) {
	i, ok := c.eraIndex[id]
	if !ok {
		return Era{}, false
	}
	return c.eras[i], true
}

func (c *Catalog) Eras() []Era {
	return append([]Era(nil), c.eras...)
}

func cloneDefinition(def Definition) Definition {
	def.ResourceCost = cloneCounts(def.ResourceCost)
	def.ResourceProduction = cloneCounts(def.ResourceProduction)
	return def
}

func cloneCounts(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
