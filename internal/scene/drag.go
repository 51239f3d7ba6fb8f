package scene

// LibraryDropHeight is where a figurine picked from the library hovers
// before it is dropped.
const LibraryDropHeight = 0.4

type dragState struct {
	pending  *Entity
	active   bool
	entityID string
	start    DropState
}

// DragResult describes a finished drag gesture.
type DragResult struct {
	EntityID string
	From     DropState
	To       DropState
}

// Moved reports whether the gesture changed anything.
func (r DragResult) Moved() bool {
	return r.From != r.To
}

// PickFromLibrary stages an unplaced entity for the definition. It enters
// the collection only when dropped.
func (s *Scene) PickFromLibrary(definitionID string) bool {
	return s.update(func() (Event, bool) {
		def, found := s.catalog.Lookup(definitionID)
		if !found {
			s.log.Debug("pick ignored: unknown definition", "definition", definitionID)
			return Event{}, false
		}
		s.drag.pending = &Entity{
			Definition: def.Ref(),
			Position:   Vec3{0, LibraryDropHeight, 0},
		}
		return Event{Op: OpDrag}, true
	})
}

// Pending returns the staged library pick, if any.
func (s *Scene) Pending() (Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag.pending == nil {
		return Entity{}, false
	}
	return s.drag.pending.Clone(), true
}

func (s *Scene) ClearPending() bool {
	return s.update(func() (Event, bool) {
		if s.drag.pending == nil {
			return Event{}, false
		}
		s.drag.pending = nil
		return Event{Op: OpDrag}, true
	})
}

// BeginDrag starts moving a placed entity.
func (s *Scene) BeginDrag(id string) bool {
	return s.update(func() (Event, bool) {
		i := s.indexLocked(id)
		if i < 0 || s.drag.active {
			return Event{}, false
		}
		e := s.entities[i]
		s.drag.active = true
		s.drag.entityID = id
		s.drag.start = DropState{Position: e.Position, Zone: e.Zone, Placed: e.Placed}
		return Event{Op: OpDrag, EntityID: id}, true
	})
}

// DragTo follows the pointer. The zone is left alone until EndDrag.
func (s *Scene) DragTo(position Vec3) bool {
	return s.update(func() (Event, bool) {
		if !s.drag.active {
			return Event{}, false
		}
		i := s.indexLocked(s.drag.entityID)
		if i < 0 {
			s.drag = dragState{pending: s.drag.pending}
			return Event{}, false
		}
		s.entities[i].Position = position
		return Event{Op: OpDrag, EntityID: s.drag.entityID}, true
	})
}

// EndDrag drops the entity where it is, reclassifying its zone.
func (s *Scene) EndDrag() (DragResult, bool) {
	var res DragResult
	ok := s.update(func() (Event, bool) {
		if !s.drag.active {
			return Event{}, false
		}
		id := s.drag.entityID
		start := s.drag.start
		s.drag = dragState{pending: s.drag.pending}
		i := s.indexLocked(id)
		if i < 0 {
			return Event{}, false
		}
		e := &s.entities[i]
		e.Zone = s.surface.ClassifyZone(e.Position)
		e.Placed = true
		res = DragResult{
			EntityID: id,
			From:     start,
			To:       DropState{Position: e.Position, Zone: e.Zone, Placed: true},
		}
		return Event{Op: OpDrop, EntityID: id}, true
	})
	return res, ok
}

// CancelDrag abandons the gesture and puts the entity back where it started.
func (s *Scene) CancelDrag() bool {
	return s.update(func() (Event, bool) {
		if !s.drag.active {
			return Event{}, false
		}
		id := s.drag.entityID
		start := s.drag.start
		s.drag = dragState{pending: s.drag.pending}
		if i := s.indexLocked(id); i >= 0 {
			s.entities[i].Position = start.Position
			s.entities[i].Zone = start.Zone
			s.entities[i].Placed = start.Placed
		}
		return Event{Op: OpDrag, EntityID: id}, true
	})
}

// Dragging returns the id of the entity being dragged.
func (s *Scene) Dragging() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.entityID, s.drag.active
}
