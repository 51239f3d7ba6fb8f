package scene

import (
	"errors"
	"fmt"
	"sync"

	"tabletop/internal/catalog"
	"tabletop/internal/logger"
)

var ErrIDCollision = errors.New("could not generate a unique entity id")

const maxIDAttempts = 16

// Op names the kind of change an Event reports.
type Op string

const (
	OpPlace    Op = "place"
	OpInsert   Op = "insert"
	OpRemove   Op = "remove"
	OpRestore  Op = "restore"
	OpMove     Op = "move"
	OpDrop     Op = "drop"
	OpRotate   Op = "rotate"
	OpGaze     Op = "gaze"
	OpLabel    Op = "label"
	OpNotes    Op = "notes"
	OpEmotion  Op = "emotion"
	OpRelate   Op = "relate"
	OpUnrelate Op = "unrelate"
	OpCard     Op = "card"
	OpClear    Op = "clear"
	OpReplace  Op = "replace"
	OpSelect   Op = "select"
	OpDrag     Op = "drag"
	OpUI       Op = "ui"
)

// Event is delivered to observers once per applied mutation.
type Event struct {
	Op       Op
	EntityID string
}

type Options struct {
	Surface catalog.Surface
	IDs     IDSource
	Rand    Rand
	Log     logger.Logger
}

// Placement positions and orients a new entity.
type Placement struct {
	Position   Vec3
	Rotation   Vec3
	GazeOffset float64
	// Card is assigned with the entity when non-zero.
	Card Card
	// FromLibrary consumes the pending library pick in the same step.
	FromLibrary bool
}

// Removal captures everything Remove took out so Restore can put it back.
type Removal struct {
	Entity      Entity
	Index       int
	Inbound     []EdgeRemoval
	WasSelected bool
}

// EdgeRemoval records a relationship and its slot in the source's list.
type EdgeRemoval struct {
	SourceID     string
	Index        int
	Relationship Relationship
}

// DropState is the part of an entity a drop changes.
type DropState struct {
	Position Vec3
	Zone     catalog.Zone
	Placed   bool
}

type UIState struct {
	InfoPanelOpen bool         `json:"infoPanelOpen"`
	Fullscreen    bool         `json:"fullscreen"`
	HintsVisible  bool         `json:"hintsVisible"`
	SelectedZone  catalog.Zone `json:"selectedZone"`
}

type observer struct {
	id int
	fn func(Event)
}

// Scene is the authoritative, ordered collection of entities on the table
// plus the transient interaction state around it. All methods are safe for
// concurrent use; observers run after the lock is released.
type Scene struct {
	mu sync.Mutex

	catalog *catalog.Catalog
	surface catalog.Surface
	ids     IDSource
	rand    Rand
	log     logger.Logger

	entities []Entity
	issued   map[string]struct{}
	selected string
	ui       UIState
	drag     dragState

	observers    []observer
	nextObserver int
}

func New(cat *catalog.Catalog, opts Options) *Scene {
	if opts.Surface == (catalog.Surface{}) {
		opts.Surface = catalog.DefaultSurface()
	}
	if opts.IDs == nil {
		opts.IDs = NanoIDs{}
	}
	if opts.Rand == nil {
		opts.Rand = DefaultRand()
	}
	return &Scene{
		catalog: cat,
		surface: opts.Surface,
		ids:     opts.IDs,
		rand:    opts.Rand,
		log:     logger.With(opts.Log),
		issued:  make(map[string]struct{}),
		ui:      UIState{InfoPanelOpen: true, HintsVisible: true},
	}
}

// Subscribe registers fn for change events. The returned func unsubscribes.
func (s *Scene) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextObserver++
	id := s.nextObserver
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// update runs fn under the lock and notifies observers when it reports a
// change.
func (s *Scene) update(fn func() (Event, bool)) bool {
	s.mu.Lock()
	ev, changed := fn()
	var notify []func(Event)
	if changed {
		notify = make([]func(Event), len(s.observers))
		for i, o := range s.observers {
			notify[i] = o.fn
		}
	}
	s.mu.Unlock()
	for _, fn := range notify {
		fn(ev)
	}
	return changed
}

func (s *Scene) Catalog() *catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

func (s *Scene) Surface() catalog.Surface {
	return s.surface
}

func (s *Scene) Rand() Rand {
	return s.rand
}

// ZoneFor classifies a point on this scene's surface.
func (s *Scene) ZoneFor(position Vec3) catalog.Zone {
	return s.surface.ClassifyZone(position)
}

// Entities returns a deep copy of the collection in order.
func (s *Scene) Entities() []Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := CloneEntities(s.entities)
	if out == nil {
		out = []Entity{}
	}
	return out
}

func (s *Scene) Entity(id string) (Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Entity{}, false
	}
	return s.entities[i].Clone(), true
}

func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entities)
}

func (s *Scene) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.entities {
		if s.entities[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Scene) newIDLocked() (string, error) {
	for range maxIDAttempts {
		id, err := s.ids.NewID()
		if err != nil {
			return "", err
		}
		if _, taken := s.issued[id]; taken || id == "" {
			continue
		}
		s.issued[id] = struct{}{}
		return id, nil
	}
	return "", ErrIDCollision
}

// Place adds a new placed entity at the end of the collection.
func (s *Scene) Place(definitionID string, p Placement) (Entity, bool) {
	var placed Entity
	ok := s.update(func() (Event, bool) {
		def, found := s.catalog.Lookup(definitionID)
		if !found {
			s.log.Debug("place ignored: unknown definition", "definition", definitionID)
			return Event{}, false
		}
		id, err := s.newIDLocked()
		if err != nil {
			s.log.Error("place failed", "definition", definitionID, "err", err)
			return Event{}, false
		}
		placed = Entity{
			ID:         id,
			Definition: def.Ref(),
			Position:   p.Position,
			Rotation:   p.Rotation,
			GazeOffset: clampGaze(p.GazeOffset),
			Zone:       s.surface.ClassifyZone(p.Position),
			Placed:     true,
		}
		if !p.Card.IsZero() {
			card := p.Card
			placed.Card = &card
		}
		if p.FromLibrary {
			s.drag.pending = nil
		}
		s.entities = append(s.entities, placed.Clone())
		return Event{Op: OpPlace, EntityID: id}, true
	})
	return placed, ok
}

// Insert puts a previously captured entity back at index, keeping its id.
func (s *Scene) Insert(e Entity, index int) bool {
	return s.update(func() (Event, bool) {
		if e.ID == "" || s.indexLocked(e.ID) >= 0 {
			return Event{}, false
		}
		s.insertLocked(e.Clone(), index)
		return Event{Op: OpInsert, EntityID: e.ID}, true
	})
}

func (s *Scene) insertLocked(e Entity, index int) {
	index = max(0, min(index, len(s.entities)))
	s.entities = append(s.entities, Entity{})
	copy(s.entities[index+1:], s.entities[index:])
	s.entities[index] = e
	s.issued[e.ID] = struct{}{}
}

// Remove deletes an entity and strips every relationship pointing at it.
func (s *Scene) Remove(id string) (Removal, bool) {
	var removal Removal
	ok := s.update(func() (Event, bool) {
		i := s.indexLocked(id)
		if i < 0 {
			return Event{}, false
		}
		removal = Removal{Entity: s.entities[i].Clone(), Index: i}
		s.entities = append(s.entities[:i], s.entities[i+1:]...)
		for j := range s.entities {
			src := &s.entities[j]
			for k, rel := range src.Relationships {
				if rel.TargetID != id {
					continue
				}
				removal.Inbound = append(removal.Inbound, EdgeRemoval{SourceID: src.ID, Index: k, Relationship: rel})
				src.Relationships = deleteRelationship(src.Relationships, k)
				break
			}
		}
		if s.selected == id {
			s.selected = ""
			removal.WasSelected = true
		}
		if s.drag.entityID == id {
			s.drag = dragState{pending: s.drag.pending}
		}
		return Event{Op: OpRemove, EntityID: id}, true
	})
	return removal, ok
}

// Restore reverses Remove, including stripped inbound edges.
func (s *Scene) Restore(r Removal) bool {
	return s.update(func() (Event, bool) {
		if r.Entity.ID == "" || s.indexLocked(r.Entity.ID) >= 0 {
			return Event{}, false
		}
		s.insertLocked(r.Entity.Clone(), r.Index)
		for _, in := range r.Inbound {
			s.restoreEdgeLocked(in)
		}
		if r.WasSelected {
			s.selected = r.Entity.ID
		}
		return Event{Op: OpRestore, EntityID: r.Entity.ID}, true
	})
}

func (s *Scene) restoreEdgeLocked(er EdgeRemoval) bool {
	i := s.indexLocked(er.SourceID)
	if i < 0 || s.indexLocked(er.Relationship.TargetID) < 0 {
		return false
	}
	src := &s.entities[i]
	if _, exists := src.RelationshipTo(er.Relationship.TargetID); exists {
		return false
	}
	k := max(0, min(er.Index, len(src.Relationships)))
	src.Relationships = append(src.Relationships, Relationship{})
	copy(src.Relationships[k+1:], src.Relationships[k:])
	src.Relationships[k] = er.Relationship
	return true
}

func deleteRelationship(rels []Relationship, k int) []Relationship {
	out := append(rels[:k:k], rels[k+1:]...)
	if len(out) == 0 {
		return nil
	}
	return out
}

// with applies fn to the entity under the lock.
func (s *Scene) with(id string, op Op, fn func(e *Entity) bool) bool {
	return s.update(func() (Event, bool) {
		i := s.indexLocked(id)
		if i < 0 {
			return Event{}, false
		}
		if !fn(&s.entities[i]) {
			return Event{}, false
		}
		return Event{Op: op, EntityID: id}, true
	})
}

// Move sets the position without reclassifying the zone.
func (s *Scene) Move(id string, position Vec3) (Vec3, bool) {
	var prev Vec3
	ok := s.with(id, OpMove, func(e *Entity) bool {
		prev = e.Position
		e.Position = position
		return true
	})
	return prev, ok
}

// Drop sets the position, reclassifies the zone and marks the entity placed.
func (s *Scene) Drop(id string, position Vec3) (DropState, bool) {
	var prev DropState
	ok := s.with(id, OpDrop, func(e *Entity) bool {
		prev = DropState{Position: e.Position, Zone: e.Zone, Placed: e.Placed}
		e.Position = position
		e.Zone = s.surface.ClassifyZone(position)
		e.Placed = true
		return true
	})
	return prev, ok
}

// RestoreDrop writes a DropState back verbatim.
func (s *Scene) RestoreDrop(id string, state DropState) bool {
	return s.with(id, OpDrop, func(e *Entity) bool {
		e.Position = state.Position
		e.Zone = state.Zone
		e.Placed = state.Placed
		return true
	})
}

func (s *Scene) Rotate(id string, rotation Vec3) (Vec3, bool) {
	var prev Vec3
	ok := s.with(id, OpRotate, func(e *Entity) bool {
		prev = e.Rotation
		e.Rotation = rotation
		return true
	})
	return prev, ok
}

// SetGaze turns the head relative to the body, clamped to MaxGazeOffset.
func (s *Scene) SetGaze(id string, offset float64) (float64, bool) {
	var prev float64
	ok := s.with(id, OpGaze, func(e *Entity) bool {
		prev = e.GazeOffset
		e.GazeOffset = clampGaze(offset)
		return true
	})
	return prev, ok
}

func (s *Scene) SetLabel(id, label string) (string, bool) {
	var prev string
	ok := s.with(id, OpLabel, func(e *Entity) bool {
		prev = e.Label
		e.Label = label
		return true
	})
	return prev, ok
}

func (s *Scene) SetNotes(id, notes string) (string, bool) {
	var prev string
	ok := s.with(id, OpNotes, func(e *Entity) bool {
		prev = e.Notes
		e.Notes = notes
		return true
	})
	return prev, ok
}

func (s *Scene) SetEmotion(id string, emotion Emotion) (Emotion, bool) {
	var prev Emotion
	if !emotion.Valid() {
		s.log.Debug("emotion ignored: unknown value", "entity", id, "emotion", emotion)
		return prev, false
	}
	ok := s.with(id, OpEmotion, func(e *Entity) bool {
		prev = e.Emotion
		e.Emotion = emotion
		return true
	})
	return prev, ok
}

// AddRelationship appends an edge source -> target. Self edges, duplicate
// ordered pairs and edges to unknown entities are rejected.
func (s *Scene) AddRelationship(sourceID, targetID string, typ RelationshipType) bool {
	if sourceID == targetID || !typ.Valid() {
		s.log.Debug("relationship ignored", "source", sourceID, "target", targetID, "type", typ)
		return false
	}
	return s.update(func() (Event, bool) {
		i := s.indexLocked(sourceID)
		if i < 0 || s.indexLocked(targetID) < 0 {
			return Event{}, false
		}
		if _, exists := s.entities[i].RelationshipTo(targetID); exists {
			return Event{}, false
		}
		s.entities[i].Relationships = append(s.entities[i].Relationships, Relationship{TargetID: targetID, Type: typ})
		return Event{Op: OpRelate, EntityID: sourceID}, true
	})
}

func (s *Scene) RemoveRelationship(sourceID, targetID string) (EdgeRemoval, bool) {
	var removed EdgeRemoval
	ok := s.with(sourceID, OpUnrelate, func(e *Entity) bool {
		for k, rel := range e.Relationships {
			if rel.TargetID == targetID {
				removed = EdgeRemoval{SourceID: sourceID, Index: k, Relationship: rel}
				e.Relationships = deleteRelationship(e.Relationships, k)
				return true
			}
		}
		return false
	})
	return removed, ok
}

func (s *Scene) RestoreRelationship(er EdgeRemoval) bool {
	return s.update(func() (Event, bool) {
		if !s.restoreEdgeLocked(er) {
			return Event{}, false
		}
		return Event{Op: OpRelate, EntityID: er.SourceID}, true
	})
}

// SetCard assigns or clears a card. A complete assignment is locked and
// further calls are ignored.
func (s *Scene) SetCard(id string, card Card) (Card, bool) {
	var prev Card
	ok := s.with(id, OpCard, func(e *Entity) bool {
		prev = e.CardOrZero()
		if prev.Complete() {
			s.log.Debug("card assignment locked", "entity", id)
			return false
		}
		setCard(e, card)
		return true
	})
	return prev, ok
}

// RestoreCard writes a card back regardless of the lock. Used by undo.
func (s *Scene) RestoreCard(id string, card Card) bool {
	return s.with(id, OpCard, func(e *Entity) bool {
		setCard(e, card)
		return true
	})
}

func setCard(e *Entity, card Card) {
	if card.IsZero() {
		e.Card = nil
		return
	}
	e.Card = &card
}

// Clear empties the table and returns what was on it.
func (s *Scene) Clear() []Entity {
	var removed []Entity
	s.update(func() (Event, bool) {
		removed = s.entities
		s.entities = nil
		s.selected = ""
		s.drag = dragState{}
		return Event{Op: OpClear}, true
	})
	return removed
}

// Replace swaps in a whole collection, returning the previous one. The
// selection is cleared.
func (s *Scene) Replace(entities []Entity) []Entity {
	var prev []Entity
	s.update(func() (Event, bool) {
		prev = s.entities
		s.entities = CloneEntities(entities)
		for _, e := range s.entities {
			s.issued[e.ID] = struct{}{}
		}
		s.selected = ""
		s.drag = dragState{}
		return Event{Op: OpReplace}, true
	})
	return prev
}

// SwitchCatalog empties the table and changes the definitions it draws from.
func (s *Scene) SwitchCatalog(cat *catalog.Catalog) []Entity {
	var prev []Entity
	s.update(func() (Event, bool) {
		prev = s.entities
		s.catalog = cat
		s.entities = nil
		s.selected = ""
		s.drag = dragState{}
		return Event{Op: OpReplace}, true
	})
	return prev
}

// Select focuses an entity. An empty id clears the selection.
func (s *Scene) Select(id string) bool {
	return s.update(func() (Event, bool) {
		if id != "" && s.indexLocked(id) < 0 {
			s.log.Debug("select ignored: unknown entity", "entity", id)
			return Event{}, false
		}
		if s.selected == id {
			return Event{}, false
		}
		s.selected = id
		return Event{Op: OpSelect, EntityID: id}, true
	})
}

func (s *Scene) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Scene) UI() UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ui
}

func (s *Scene) toggle(flag func(*UIState) *bool) bool {
	var now bool
	s.update(func() (Event, bool) {
		p := flag(&s.ui)
		*p = !*p
		now = *p
		return Event{Op: OpUI}, true
	})
	return now
}

func (s *Scene) ToggleInfoPanel() bool {
	return s.toggle(func(u *UIState) *bool { return &u.InfoPanelOpen })
}

func (s *Scene) ToggleFullscreen() bool {
	return s.toggle(func(u *UIState) *bool { return &u.Fullscreen })
}

func (s *Scene) ToggleHints() bool {
	return s.toggle(func(u *UIState) *bool { return &u.HintsVisible })
}

// SelectZone highlights a zone in the info panel. ZoneNone clears it.
func (s *Scene) SelectZone(z catalog.Zone) bool {
	if !z.Valid() {
		return false
	}
	return s.update(func() (Event, bool) {
		if s.ui.SelectedZone == z {
			return Event{}, false
		}
		s.ui.SelectedZone = z
		return Event{Op: OpUI}, true
	})
}

func (s *Scene) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("scene(%s, %d entities)", s.catalog.Name(), len(s.entities))
}
