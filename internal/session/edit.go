package session

import (
	"fmt"

	"tabletop/internal/analysis"
	"tabletop/internal/catalog"
	"tabletop/internal/history"
	"tabletop/internal/scene"
)

// CanPlace explains why a definition cannot be placed right now.
func (s *Session) CanPlace(definitionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canPlaceLocked(definitionID)
}

func (s *Session) canPlaceLocked(definitionID string) error {
	cat := s.scene.Catalog()
	def, err := cat.Definition(definitionID)
	if err != nil {
		return fmt.Errorf("%s: %w", definitionID, err)
	}
	if s.mode != ModeSettlement {
		return nil
	}
	era, _ := cat.Era(s.era)
	if !era.Allows(definitionID) {
		return fmt.Errorf("%s in %s: %w", definitionID, era.ID, ErrNotInEra)
	}
	st := analysis.Settle(s.scene.Entities(), cat, catalog.StartingResources())
	if !analysis.CanAfford(def, st.Resources) {
		return fmt.Errorf("%s: %w", definitionID, ErrUnaffordable)
	}
	return nil
}

// Place puts a new entity on the table as one undoable step.
func (s *Session) Place(definitionID string, position, rotation scene.Vec3) (scene.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeLocked(definitionID, scene.Placement{Position: position, Rotation: rotation})
}

// PlaceAtRandom drops an entity at a random point with a random facing.
func (s *Session) PlaceAtRandom(definitionID string) (scene.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeLocked(definitionID, s.randomPlacementLocked(s.scene.Surface().RandomPoint(s.scene.Rand(), 0)))
}

// PickFromLibrary stages a definition for dropping.
func (s *Session) PickFromLibrary(definitionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.canPlaceLocked(definitionID); err != nil {
		return err
	}
	s.scene.PickFromLibrary(definitionID)
	return nil
}

// DropPending places the staged library pick at position.
func (s *Session) DropPending(position scene.Vec3) (scene.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.scene.Pending()
	if !ok {
		return scene.Entity{}, false
	}
	p := s.randomPlacementLocked(position)
	p.FromLibrary = true
	e, placed := s.placeLocked(pending.Definition.ID, p)
	if !placed {
		s.scene.ClearPending()
	}
	return e, placed
}

func (s *Session) randomPlacementLocked(position scene.Vec3) scene.Placement {
	rotation, gaze := scene.RandomFacing(s.scene.Rand())
	return scene.Placement{Position: position, Rotation: rotation, GazeOffset: gaze}
}

func (s *Session) placeLocked(definitionID string, p scene.Placement) (scene.Entity, bool) {
	if err := s.canPlaceLocked(definitionID); err != nil {
		s.log.Debug("place rejected", "definition", definitionID, "err", err)
		return scene.Entity{}, false
	}
	if s.autoAssign {
		if card, ok := s.nextCardLocked(); ok {
			p.Card = card
		}
	}
	cmd := &history.PlaceCommand{DefinitionID: definitionID, Placement: p}
	if !s.history.Do(cmd) {
		return scene.Entity{}, false
	}
	return cmd.Placed(), true
}

func (s *Session) do(cmd history.Command) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Do(cmd)
}

func (s *Session) Remove(id string) bool {
	return s.do(&history.RemoveCommand{ID: id})
}

func (s *Session) Move(id string, position scene.Vec3) bool {
	return s.do(&history.MoveCommand{ID: id, To: position})
}

func (s *Session) Drop(id string, position scene.Vec3) bool {
	return s.do(&history.DropCommand{ID: id, To: position})
}

func (s *Session) Rotate(id string, rotation scene.Vec3) bool {
	return s.do(&history.RotateCommand{ID: id, To: rotation})
}

func (s *Session) SetGaze(id string, offset float64) bool {
	return s.do(&history.GazeCommand{ID: id, Offset: offset})
}

func (s *Session) SetLabel(id, label string) bool {
	return s.do(&history.LabelCommand{ID: id, Label: label})
}

func (s *Session) SetNotes(id, notes string) bool {
	return s.do(&history.NotesCommand{ID: id, Notes: notes})
}

func (s *Session) SetEmotion(id string, emotion scene.Emotion) bool {
	return s.do(&history.EmotionCommand{ID: id, Emotion: emotion})
}

// Annotate edits any of label, notes and emotion as a single action. Nil
// fields are left alone.
func (s *Session) Annotate(id string, label, notes *string, emotion *scene.Emotion) bool {
	group := &history.GroupCommand{Label: "annotate"}
	if label != nil {
		group.Commands = append(group.Commands, &history.LabelCommand{ID: id, Label: *label})
	}
	if notes != nil {
		group.Commands = append(group.Commands, &history.NotesCommand{ID: id, Notes: *notes})
	}
	if emotion != nil {
		group.Commands = append(group.Commands, &history.EmotionCommand{ID: id, Emotion: *emotion})
	}
	if len(group.Commands) == 0 {
		return false
	}
	return s.do(group)
}

func (s *Session) AddRelationship(sourceID, targetID string, typ scene.RelationshipType) bool {
	return s.do(&history.RelateCommand{SourceID: sourceID, TargetID: targetID, Type: typ})
}

func (s *Session) RemoveRelationship(sourceID, targetID string) bool {
	return s.do(&history.UnrelateCommand{SourceID: sourceID, TargetID: targetID})
}

// AssignCard sets an entity's card. Complete assignments are locked.
func (s *Session) AssignCard(id string, card scene.Card) bool {
	return s.do(&history.CardCommand{ID: id, Card: card})
}

// Clear empties the table as one undoable step.
func (s *Session) Clear() bool {
	return s.do(&history.ClearCommand{})
}

func (s *Session) Select(id string) bool {
	return s.scene.Select(id)
}

// BeginDrag starts moving an entity; the whole gesture becomes one history
// entry when it ends.
func (s *Session) BeginDrag(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.scene.BeginDrag(id) {
		return false
	}
	s.history.BeginGesture(id)
	return true
}

func (s *Session) DragTo(position scene.Vec3) bool {
	return s.scene.DragTo(position)
}

func (s *Session) EndDrag() (scene.DragResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.scene.EndDrag()
	if !ok {
		s.history.AbortGesture()
		return res, false
	}
	s.history.CommitGesture()
	return res, true
}

func (s *Session) CancelDrag() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelDragLocked()
}

func (s *Session) cancelDragLocked() bool {
	s.history.AbortGesture()
	return s.scene.CancelDrag()
}

// Undo abandons a drag in progress, putting the entity back where the drag
// started, before reverting the last recorded action.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelDragLocked()
	return s.history.Undo()
}

// Redo abandons a drag in progress the same way Undo does.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelDragLocked()
	return s.history.Redo()
}

func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

func (s *Session) HistoryStatus() history.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Status()
}
