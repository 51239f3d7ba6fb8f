package scene

import (
	"tabletop/internal/catalog"
)

type Vec3 = catalog.Vec3

type Emotion string

const (
	EmotionUnset   Emotion = ""
	EmotionNeutral Emotion = "neutral"
	EmotionHappy   Emotion = "happy"
	EmotionSad     Emotion = "sad"
	EmotionAngry   Emotion = "angry"
	EmotionAnxious Emotion = "anxious"
)

func (e Emotion) Valid() bool {
	switch e {
	case EmotionUnset, EmotionNeutral, EmotionHappy, EmotionSad, EmotionAngry, EmotionAnxious:
		return true
	}
	return false
}

type RelationshipType string

const (
	RelationshipFamily   RelationshipType = "family"
	RelationshipStrong   RelationshipType = "strong"
	RelationshipTension  RelationshipType = "tension"
	RelationshipConflict RelationshipType = "conflict"
	RelationshipDistant  RelationshipType = "distant"
)

func (t RelationshipType) Valid() bool {
	switch t {
	case RelationshipFamily, RelationshipStrong, RelationshipTension, RelationshipConflict, RelationshipDistant:
		return true
	}
	return false
}

// Relationship is a directed edge to another entity in the same scene.
type Relationship struct {
	TargetID string           `json:"targetId"`
	Type     RelationshipType `json:"type"`
}

// Card is an (image, word) card pair. Once both halves are set the
// assignment is locked.
type Card struct {
	Image string `json:"image,omitempty"`
	Word  string `json:"word,omitempty"`
}

func (c Card) Complete() bool {
	return c.Image != "" && c.Word != ""
}

func (c Card) IsZero() bool {
	return c.Image == "" && c.Word == ""
}

// Entity is a figurine or building placed in the scene.
type Entity struct {
	ID            string                `json:"id"`
	Definition    catalog.DefinitionRef `json:"definition"`
	Position      Vec3                  `json:"position"`
	Rotation      Vec3                  `json:"rotation"`
	GazeOffset    float64               `json:"gazeOffset,omitempty"`
	Zone          catalog.Zone          `json:"zone"`
	Placed        bool                  `json:"placed"`
	Label         string                `json:"label,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	Emotion       Emotion               `json:"emotion,omitempty"`
	Relationships []Relationship        `json:"relationships,omitempty"`
	Card          *Card                 `json:"card,omitempty"`
}

func (e Entity) Clone() Entity {
	if e.Relationships != nil {
		e.Relationships = append([]Relationship(nil), e.Relationships...)
	}
	if e.Card != nil {
		card := *e.Card
		e.Card = &card
	}
	return e
}

// RelationshipTo returns the edge from e to targetID, if any.
func (e Entity) RelationshipTo(targetID string) (Relationship, bool) {
	for _, rel := range e.Relationships {
		if rel.TargetID == targetID {
			return rel, true
		}
	}
	return Relationship{}, false
}

// CardOrZero returns the card assignment or the zero card.
func (e Entity) CardOrZero() Card {
	if e.Card == nil {
		return Card{}
	}
	return *e.Card
}

// Snapshot is a named, persisted copy of a scene.
type Snapshot struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Entities            []Entity       `json:"entities"`
	Scenario            string         `json:"scenario"`
	Timestamp           int64          `json:"timestamp"`
	Analysis            string         `json:"analysis"`
	Population          int            `json:"population,omitempty"`
	Resources           map[string]int `json:"resources,omitempty"`
	SustainabilityScore int            `json:"sustainabilityScore,omitempty"`
}

func (s Snapshot) Clone() Snapshot {
	s.Entities = CloneEntities(s.Entities)
	if s.Resources != nil {
		resources := make(map[string]int, len(s.Resources))
		for k, v := range s.Resources {
			resources[k] = v
		}
		s.Resources = resources
	}
	return s
}

// CloneEntities deep-copies a collection, preserving nil.
func CloneEntities(in []Entity) []Entity {
	if in == nil {
		return nil
	}
	out := make([]Entity, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
