package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"tabletop/internal/catalog"
	"tabletop/internal/logger"
	"tabletop/internal/scene"
)

var ErrInvalidRecord = errors.New("invalid record")

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeInvalidRecord         = "invalid_record"
	codeNotAnArray            = "not_an_array"
	codeUnknownDefinition     = "unknown_definition"
	codeDanglingRelationship  = "dangling_relationship"
	codeDuplicateRelationship = "duplicate_relationship"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Index    int
	Record   string
}

type Report struct {
	Issues []Issue
}

func (r *Report) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// Dropped counts records rejected outright.
func (r *Report) Dropped() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Code == codeInvalidRecord || issue.Code == codeNotAnArray {
			n++
		}
	}
	return n
}

type rawDefinition struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Color       string `json:"color" validate:"required,hexcolor6"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required,category"`
}

type rawRelationship struct {
	TargetID string `json:"targetId" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=family strong tension conflict distant"`
}

type rawCard struct {
	Image string `json:"image"`
	Word  string `json:"word"`
}

type rawEntity struct {
	ID            string            `json:"id" validate:"required"`
	Definition    *rawDefinition    `json:"definition" validate:"required"`
	Position      []*float64        `json:"position" validate:"required,len=3,dive,required"`
	Rotation      []*float64        `json:"rotation" validate:"required,len=3,dive,required"`
	GazeOffset    float64           `json:"gazeOffset"`
	Zone          *string           `json:"zone" validate:"omitempty,oneof=north south east west"`
	Placed        bool              `json:"placed"`
	Label         string            `json:"label"`
	Notes         string            `json:"notes"`
	Emotion       string            `json:"emotion" validate:"omitempty,oneof=neutral happy sad angry anxious"`
	Relationships []rawRelationship `json:"relationships" validate:"dive"`
	Card          *rawCard          `json:"card"`
}

type rawSnapshot struct {
	ID                  string            `json:"id" validate:"required"`
	Name                string            `json:"name" validate:"required"`
	Entities            []json.RawMessage `json:"entities" validate:"required"`
	Scenario            string            `json:"scenario"`
	Timestamp           int64             `json:"timestamp" validate:"gt=0"`
	Analysis            string            `json:"analysis"`
	Population          int               `json:"population" validate:"gte=0"`
	Resources           map[string]int    `json:"resources"`
	SustainabilityScore int               `json:"sustainabilityScore" validate:"gte=0,lte=100"`
}

// Validator turns untrusted JSON into scene records.
type Validator struct {
	v   *validator.Validate
	log logger.Logger
}

func New(log logger.Logger) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "hexcolor6", func(fl validator.FieldLevel) bool {
		return catalog.ValidColor(fl.Field().String())
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return catalog.Category(fl.Field().String()).Valid()
	})
	return &Validator{v: v, log: logger.With(log)}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// Entity validates a single placed entity.
func (v *Validator) Entity(raw json.RawMessage) (scene.Entity, error) {
	var r rawEntity
	if err := decodeStrict(raw, &r); err != nil {
		return scene.Entity{}, err
	}
	if err := v.v.Struct(&r); err != nil {
		return scene.Entity{}, fmt.Errorf("%w: %s", ErrInvalidRecord, describe(err))
	}
	return r.entity(), nil
}

// Snapshot validates a saved configuration. Invalid entities inside an
// otherwise valid snapshot are dropped and reported, not fatal.
func (v *Validator) Snapshot(raw json.RawMessage) (scene.Snapshot, []Issue, error) {
	var r rawSnapshot
	if err := decodeStrict(raw, &r); err != nil {
		return scene.Snapshot{}, nil, err
	}
	if err := v.v.Struct(&r); err != nil {
		return scene.Snapshot{}, nil, fmt.Errorf("%w: %s", ErrInvalidRecord, describe(err))
	}
	if strings.TrimSpace(r.Name) == "" {
		return scene.Snapshot{}, nil, fmt.Errorf("%w: name is blank", ErrInvalidRecord)
	}

	snap := scene.Snapshot{
		ID:                  r.ID,
		Name:                r.Name,
		Entities:            make([]scene.Entity, 0, len(r.Entities)),
		Scenario:            r.Scenario,
		Timestamp:           r.Timestamp,
		Analysis:            r.Analysis,
		Population:          r.Population,
		Resources:           r.Resources,
		SustainabilityScore: r.SustainabilityScore,
	}
	var issues []Issue
	for i, elem := range r.Entities {
		e, err := v.Entity(elem)
		if err != nil {
			v.log.Warn("dropping invalid entity", "snapshot", r.ID, "index", i, "err", err)
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeInvalidRecord,
				Message:  err.Error(),
				Index:    i,
				Record:   r.ID,
			})
			continue
		}
		snap.Entities = append(snap.Entities, e)
	}
	return snap, issues, nil
}

// Snapshots validates a persisted list element by element, keeping valid
// records in their original order.
func (v *Validator) Snapshots(raw json.RawMessage) ([]scene.Snapshot, *Report) {
	report := &Report{}
	out := make([]scene.Snapshot, 0)

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		v.log.Warn("saved configurations are not a list", "err", err)
		report.add(Issue{Severity: SeverityError, Code: codeNotAnArray, Message: err.Error(), Index: -1})
		return out, report
	}

	for i, elem := range elems {
		snap, issues, err := v.Snapshot(elem)
		if err != nil {
			v.log.Warn("dropping invalid saved configuration", "index", i, "err", err)
			report.add(Issue{Severity: SeverityWarn, Code: codeInvalidRecord, Message: err.Error(), Index: i})
			continue
		}
		for _, issue := range issues {
			issue.Index = i
			report.add(issue)
		}
		out = append(out, snap)
	}
	return out, report
}

// Resolve checks a snapshot against a catalog. Entities with unknown
// definitions are dropped, definition data is refreshed from the catalog,
// and relationships that leave the snapshot, point at their source or
// repeat an ordered pair are removed.
func Resolve(snap scene.Snapshot, cat *catalog.Catalog) (scene.Snapshot, []Issue) {
	snap = snap.Clone()
	var issues []Issue

	kept := make([]scene.Entity, 0, len(snap.Entities))
	ids := make(map[string]struct{}, len(snap.Entities))
	for _, e := range snap.Entities {
		def, ok := cat.Lookup(e.Definition.ID)
		if !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeUnknownDefinition,
				Message:  fmt.Sprintf("unknown definition %q", e.Definition.ID),
				Record:   e.ID,
			})
			continue
		}
		if _, dup := ids[e.ID]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeInvalidRecord,
				Message:  fmt.Sprintf("duplicate entity id %q", e.ID),
				Record:   e.ID,
			})
			continue
		}
		e.Definition = def.Ref()
		ids[e.ID] = struct{}{}
		kept = append(kept, e)
	}

	for i := range kept {
		e := &kept[i]
		var rels []scene.Relationship
		seen := make(map[string]struct{}, len(e.Relationships))
		for _, rel := range e.Relationships {
			if _, ok := ids[rel.TargetID]; !ok || rel.TargetID == e.ID {
				issues = append(issues, Issue{
					Severity: SeverityWarn,
					Code:     codeDanglingRelationship,
					Message:  fmt.Sprintf("relationship to %q dropped", rel.TargetID),
					Record:   e.ID,
				})
				continue
			}
			if _, dup := seen[rel.TargetID]; dup {
				issues = append(issues, Issue{
					Severity: SeverityWarn,
					Code:     codeDuplicateRelationship,
					Message:  fmt.Sprintf("duplicate relationship to %q dropped", rel.TargetID),
					Record:   e.ID,
				})
				continue
			}
			seen[rel.TargetID] = struct{}{}
			rels = append(rels, rel)
		}
		e.Relationships = rels
	}

	snap.Entities = kept
	return snap, issues
}

func (r rawEntity) entity() scene.Entity {
	e := scene.Entity{
		ID: r.ID,
		Definition: catalog.DefinitionRef{
			ID:          r.Definition.ID,
			Name:        r.Definition.Name,
			Color:       r.Definition.Color,
			Description: r.Definition.Description,
			Category:    catalog.Category(r.Definition.Category),
		},
		Position:   tuple(r.Position),
		Rotation:   tuple(r.Rotation),
		GazeOffset: r.GazeOffset,
		Placed:     r.Placed,
		Label:      r.Label,
		Notes:      r.Notes,
		Emotion:    scene.Emotion(r.Emotion),
	}
	if r.Zone != nil {
		e.Zone = catalog.Zone(*r.Zone)
	}
	for _, rel := range r.Relationships {
		e.Relationships = append(e.Relationships, scene.Relationship{
			TargetID: rel.TargetID,
			Type:     scene.RelationshipType(rel.Type),
		})
	}
	if r.Card != nil && (r.Card.Image != "" || r.Card.Word != "") {
		e.Card = &scene.Card{Image: r.Card.Image, Word: r.Card.Word}
	}
	return e
}

// tuple expects a slice that already passed len=3 and non-null checks.
func tuple(in []*float64) scene.Vec3 {
	return scene.Vec3{*in[0], *in[1], *in[2]}
}

func decodeStrict(raw json.RawMessage, out any) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed[0] != '{' {
		return fmt.Errorf("%w: expected an object", ErrInvalidRecord)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
