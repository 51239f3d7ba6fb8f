package history

import (
	"tabletop/internal/scene"
)

// Command is one undoable user action. Apply runs it forward, Revert undoes
// it. Commands capture whatever they need on first Apply so that redo
// reproduces the same entity collection.
type Command interface {
	Name() string
	Apply(s *scene.Scene) bool
	Revert(s *scene.Scene) bool
}

// PlaceCommand adds an entity. A non-zero Placement.Card is assigned as
// part of the same step.
type PlaceCommand struct {
	DefinitionID string
	Placement    scene.Placement

	placed scene.Entity
	index  int
}

func (c *PlaceCommand) Name() string { return "place" }

func (c *PlaceCommand) Apply(s *scene.Scene) bool {
	if c.placed.ID != "" {
		return s.Insert(c.placed, c.index)
	}
	e, ok := s.Place(c.DefinitionID, c.Placement)
	if !ok {
		return false
	}
	c.placed = e
	c.index = s.Len() - 1
	return true
}

func (c *PlaceCommand) Revert(s *scene.Scene) bool {
	_, ok := s.Remove(c.placed.ID)
	return ok
}

// Placed returns the entity created by the first Apply.
func (c *PlaceCommand) Placed() scene.Entity {
	return c.placed.Clone()
}

type RemoveCommand struct {
	ID string

	removal scene.Removal
}

func (c *RemoveCommand) Name() string { return "remove" }

func (c *RemoveCommand) Apply(s *scene.Scene) bool {
	removal, ok := s.Remove(c.ID)
	if ok {
		c.removal = removal
	}
	return ok
}

func (c *RemoveCommand) Revert(s *scene.Scene) bool {
	return s.Restore(c.removal)
}

type MoveCommand struct {
	ID string
	To scene.Vec3

	from scene.Vec3
}

func (c *MoveCommand) Name() string { return "move" }

func (c *MoveCommand) Apply(s *scene.Scene) bool {
	from, ok := s.Move(c.ID, c.To)
	if ok {
		c.from = from
	}
	return ok
}

func (c *MoveCommand) Revert(s *scene.Scene) bool {
	_, ok := s.Move(c.ID, c.from)
	return ok
}

// DropCommand commits a position and reclassifies the zone.
type DropCommand struct {
	ID string
	To scene.Vec3

	from, to scene.DropState
	captured bool
}

func (c *DropCommand) Name() string { return "drop" }

func (c *DropCommand) Apply(s *scene.Scene) bool {
	if c.captured {
		return s.RestoreDrop(c.ID, c.to)
	}
	from, ok := s.Drop(c.ID, c.To)
	if !ok {
		return false
	}
	c.from = from
	c.to = scene.DropState{Position: c.To, Zone: s.ZoneFor(c.To), Placed: true}
	c.captured = true
	return true
}

func (c *DropCommand) Revert(s *scene.Scene) bool {
	return s.RestoreDrop(c.ID, c.from)
}

type RotateCommand struct {
	ID string
	To scene.Vec3

	from scene.Vec3
}

func (c *RotateCommand) Name() string { return "rotate" }

func (c *RotateCommand) Apply(s *scene.Scene) bool {
	from, ok := s.Rotate(c.ID, c.To)
	if ok {
		c.from = from
	}
	return ok
}

func (c *RotateCommand) Revert(s *scene.Scene) bool {
	_, ok := s.Rotate(c.ID, c.from)
	return ok
}

type GazeCommand struct {
	ID     string
	Offset float64

	from float64
}

func (c *GazeCommand) Name() string { return "gaze" }

func (c *GazeCommand) Apply(s *scene.Scene) bool {
	from, ok := s.SetGaze(c.ID, c.Offset)
	if ok {
		c.from = from
	}
	return ok
}

func (c *GazeCommand) Revert(s *scene.Scene) bool {
	_, ok := s.SetGaze(c.ID, c.from)
	return ok
}

type LabelCommand struct {
	ID    string
	Label string

	from string
}

func (c *LabelCommand) Name() string { return "label" }

func (c *LabelCommand) Apply(s *scene.Scene) bool {
	from, ok := s.SetLabel(c.ID, c.Label)
	if ok {
		c.from = from
	}
	return ok
}

func (c *LabelCommand) Revert(s *scene.Scene) bool {
	_, ok := s.SetLabel(c.ID, c.from)
	return ok
}

type NotesCommand struct {
	ID    string
	Notes string

	from string
}

func (c *NotesCommand) Name() string { return "notes" }

func (c *NotesCommand) Apply(s *scene.Scene) bool {
	from, ok := s.SetNotes(c.ID, c.Notes)
	if ok {
		c.from = from
	}
	return ok
}

func (c *NotesCommand) Revert(s *scene.Scene) bool {
	_, ok := s.SetNotes(c.ID, c.from)
	return ok
}

type EmotionCommand struct {
	ID      string
	Emotion scene.Emotion

	from scene.Emotion
}

func (c *EmotionCommand) Name() string { return "emotion" }

func (c *EmotionCommand) Apply(s *scene.Scene) bool {
	from, ok := s.SetEmotion(c.ID, c.Emotion)
	if ok {
		c.from = from
	}
	return ok
}

func (c *EmotionCommand) Revert(s *scene.Scene) bool {
	_, ok := s.SetEmotion(c.ID, c.from)
	return ok
}

type RelateCommand struct {
	SourceID string
	TargetID string
	Type     scene.RelationshipType
}

func (c *RelateCommand) Name() string { return "relate" }

func (c *RelateCommand) Apply(s *scene.Scene) bool {
	return s.AddRelationship(c.SourceID, c.TargetID, c.Type)
}

func (c *RelateCommand) Revert(s *scene.Scene) bool {
	_, ok := s.RemoveRelationship(c.SourceID, c.TargetID)
	return ok
}

type UnrelateCommand struct {
	SourceID string
	TargetID string

	removed scene.EdgeRemoval
}

func (c *UnrelateCommand) Name() string { return "unrelate" }

func (c *UnrelateCommand) Apply(s *scene.Scene) bool {
	removed, ok := s.RemoveRelationship(c.SourceID, c.TargetID)
	if ok {
		c.removed = removed
	}
	return ok
}

func (c *UnrelateCommand) Revert(s *scene.Scene) bool {
	return s.RestoreRelationship(c.removed)
}

type CardCommand struct {
	ID   string
	Card scene.Card

	from scene.Card
}

func (c *CardCommand) Name() string { return "card" }

func (c *CardCommand) Apply(s *scene.Scene) bool {
	from, ok := s.SetCard(c.ID, c.Card)
	if ok {
		c.from = from
	}
	return ok
}

func (c *CardCommand) Revert(s *scene.Scene) bool {
	return s.RestoreCard(c.ID, c.from)
}

// ClearCommand empties the table. Clearing an empty table is not recorded.
type ClearCommand struct {
	removed []scene.Entity
}

func (c *ClearCommand) Name() string { return "clear" }

func (c *ClearCommand) Apply(s *scene.Scene) bool {
	if s.Len() == 0 {
		return false
	}
	c.removed = s.Clear()
	return true
}

func (c *ClearCommand) Revert(s *scene.Scene) bool {
	s.Replace(c.removed)
	return true
}

// GroupCommand runs several commands as one history entry. Only the
// commands that applied the first time are replayed and reverted.
type GroupCommand struct {
	Label    string
	Commands []Command

	applied  []Command
	captured bool
}

func (c *GroupCommand) Name() string { return c.Label }

func (c *GroupCommand) Apply(s *scene.Scene) bool {
	if c.captured {
		for i, cmd := range c.applied {
			if !cmd.Apply(s) {
				revertAll(s, c.applied[:i])
				return false
			}
		}
		return true
	}
	for _, cmd := range c.Commands {
		if cmd.Apply(s) {
			c.applied = append(c.applied, cmd)
		}
	}
	c.captured = len(c.applied) > 0
	return c.captured
}

func (c *GroupCommand) Revert(s *scene.Scene) bool {
	return revertAll(s, c.applied)
}

func revertAll(s *scene.Scene, cmds []Command) bool {
	ok := true
	for i := len(cmds) - 1; i >= 0; i-- {
		if !cmds[i].Revert(s) {
			ok = false
		}
	}
	return ok
}

var (
	_ Command = (*GroupCommand)(nil)
	_ Command = (*PlaceCommand)(nil)
	_ Command = (*RemoveCommand)(nil)
	_ Command = (*MoveCommand)(nil)
	_ Command = (*DropCommand)(nil)
	_ Command = (*RotateCommand)(nil)
	_ Command = (*GazeCommand)(nil)
	_ Command = (*LabelCommand)(nil)
	_ Command = (*NotesCommand)(nil)
	_ Command = (*EmotionCommand)(nil)
	_ Command = (*RelateCommand)(nil)
	_ Command = (*UnrelateCommand)(nil)
	_ Command = (*CardCommand)(nil)
	_ Command = (*ClearCommand)(nil)
)
