package history

import (
	"encoding/json"
	"testing"

	"tabletop/internal/catalog"
	"tabletop/internal/scene"
)

func newFixture(t *testing.T) (*scene.Scene, *History) {
	t.Helper()
	s := scene.New(catalog.Therapy(), scene.Options{IDs: &scene.SequentialIDs{Prefix: "e"}})
	return s, New(s, 0, nil)
}

// seed places e1 (father, north) and e2 (mother, east) with e1 -> e2 and
// e2 -> e1 edges.
func seed(t *testing.T, s *scene.Scene) {
	t.Helper()
	if _, ok := s.Place("father", scene.Placement{Position: scene.Vec3{2, 0, -6}}); !ok {
		t.Fatalf("seed place father")
	}
	if _, ok := s.Place("mother", scene.Placement{Position: scene.Vec3{5, 0, 1}}); !ok {
		t.Fatalf("seed place mother")
	}
	s.AddRelationship("e1", "e2", scene.RelationshipTension)
	s.AddRelationship("e2", "e1", scene.RelationshipFamily)
	s.SetCard("e2", scene.Card{Image: "img-1"})
}

func entitiesJSON(t *testing.T, s *scene.Scene) string {
	t.Helper()
	data, err := json.Marshal(s.Entities())
	if err != nil {
		t.Fatalf("marshal entities: %v", err)
	}
	return string(data)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cmd  func() Command
	}{
		{"place", func() Command {
			return &PlaceCommand{DefinitionID: "son", Placement: scene.Placement{Position: scene.Vec3{-4, 0, 0}, GazeOffset: 0.3}}
		}},
		{"group", func() Command {
			return &GroupCommand{Label: "annotate", Commands: []Command{
				&LabelCommand{ID: "e1", Label: "Dad"},
				&NotesCommand{ID: "e1", Notes: "far away"},
				&EmotionCommand{ID: "e1", Emotion: scene.EmotionAnxious},
			}}
		}},
		{"place with card", func() Command {
			return &PlaceCommand{DefinitionID: "son", Placement: scene.Placement{Card: scene.Card{Image: "img-7", Word: "w-7"}}}
		}},
		{"remove with inbound edges", func() Command { return &RemoveCommand{ID: "e1"} }},
		{"remove last", func() Command { return &RemoveCommand{ID: "e2"} }},
		{"move", func() Command { return &MoveCommand{ID: "e1", To: scene.Vec3{0, 0, 6}} }},
		{"drop", func() Command { return &DropCommand{ID: "e1", To: scene.Vec3{-6, 0, 0}} }},
		{"rotate", func() Command { return &RotateCommand{ID: "e2", To: scene.Vec3{0, 2, 0}} }},
		{"gaze", func() Command { return &GazeCommand{ID: "e2", Offset: -0.5} }},
		{"label", func() Command { return &LabelCommand{ID: "e1", Label: "Dad"} }},
		{"notes", func() Command { return &NotesCommand{ID: "e1", Notes: "distant"} }},
		{"emotion", func() Command { return &EmotionCommand{ID: "e1", Emotion: scene.EmotionAngry} }},
		{"relate", func() Command {
			return &RelateCommand{SourceID: "e1", TargetID: "e2", Type: scene.RelationshipConflict}
		}},
		{"unrelate", func() Command { return &UnrelateCommand{SourceID: "e1", TargetID: "e2"} }},
		{"complete card", func() Command { return &CardCommand{ID: "e2", Card: scene.Card{Image: "img-1", Word: "w-2"}} }},
		{"clear", func() Command { return &ClearCommand{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, h := newFixture(t)
			seed(t, s)
			before := entitiesJSON(t, s)

			cmd := tt.cmd()
			if tt.name == "relate" {
				s.RemoveRelationship("e1", "e2")
				before = entitiesJSON(t, s)
			}
			if !h.Do(cmd) {
				t.Fatalf("expected %s to apply", cmd.Name())
			}
			after := entitiesJSON(t, s)
			if after == before {
				t.Fatalf("expected %s to change the scene", cmd.Name())
			}

			if !h.Undo() {
				t.Fatalf("expected undo")
			}
			if got := entitiesJSON(t, s); got != before {
				t.Fatalf("undo mismatch:\n got %s\nwant %s", got, before)
			}
			if !h.Redo() {
				t.Fatalf("expected redo")
			}
			if got := entitiesJSON(t, s); got != after {
				t.Fatalf("redo mismatch:\n got %s\nwant %s", got, after)
			}
			h.Undo()
			if got := entitiesJSON(t, s); got != before {
				t.Fatalf("second undo mismatch:\n got %s\nwant %s", got, before)
			}
		})
	}
}

func TestUndoOnEmptyHistory(t *testing.T) {
	s, h := newFixture(t)
	seed(t, s)
	before := entitiesJSON(t, s)
	if h.Undo() || h.Redo() {
		t.Fatalf("expected no-ops on empty history")
	}
	if h.CanUndo() || h.CanRedo() {
		t.Fatalf("expected empty stacks")
	}
	if entitiesJSON(t, s) != before {
		t.Fatalf("scene changed by a no-op")
	}
}

func TestNewActionDiscardsRedo(t *testing.T) {
	s, h := newFixture(t)
	seed(t, s)
	h.Do(&LabelCommand{ID: "e1", Label: "one"})
	h.Undo()
	if !h.CanRedo() {
		t.Fatalf("expected redo available")
	}

	if h.Do(&LabelCommand{ID: "missing", Label: "x"}) {
		t.Fatalf("expected command on unknown entity to fail")
	}
	if !h.CanRedo() {
		t.Fatalf("a failed command must not discard redo")
	}

	h.Do(&LabelCommand{ID: "e1", Label: "two"})
	if h.Redo() {
		t.Fatalf("expected redo to be a no-op after a new action")
	}
	e, _ := s.Entity("e1")
	if e.Label != "two" {
		t.Fatalf("expected label two, got %q", e.Label)
	}
}

func TestPlaceRotateRemoveSequence(t *testing.T) {
	s, h := newFixture(t)

	place := &PlaceCommand{DefinitionID: "self", Placement: scene.Placement{Position: scene.Vec3{0, 0, 3}}}
	h.Do(place)
	id := place.Placed().ID
	h.Do(&RotateCommand{ID: id, To: scene.Vec3{0, 1, 0}})
	h.Do(&RemoveCommand{ID: id})
	final := entitiesJSON(t, s)

	for i := 0; i < 3; i++ {
		if !h.Undo() {
			t.Fatalf("undo %d failed", i+1)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty scene after undoing everything")
	}
	for i := 0; i < 3; i++ {
		if !h.Redo() {
			t.Fatalf("redo %d failed", i+1)
		}
	}
	if got := entitiesJSON(t, s); got != final {
		t.Fatalf("expected %s, got %s", final, got)
	}

	h.Undo()
	h.Undo()
	e, ok := s.Entity(id)
	if !ok || e.Rotation != (scene.Vec3{}) {
		t.Fatalf("expected entity %s back with original rotation, got %+v", id, e)
	}
}

func TestHistoryLimit(t *testing.T) {
	s, _ := newFixture(t)
	h := New(s, 3, nil)
	seed(t, s)
	for _, label := range []string{"a", "b", "c", "d", "e"} {
		h.Do(&LabelCommand{ID: "e1", Label: label})
	}
	if st := h.Status(); st.Undoable != 3 || st.NextUndo != "label" {
		t.Fatalf("unexpected status: %+v", st)
	}
	for h.Undo() {
	}
	e, _ := s.Entity("e1")
	if e.Label != "b" {
		t.Fatalf("expected oldest reachable label b, got %q", e.Label)
	}
}

func TestCardLockSurvivesHistory(t *testing.T) {
	s, h := newFixture(t)
	seed(t, s)
	h.Do(&CardCommand{ID: "e1", Card: scene.Card{Image: "i", Word: "w"}})
	if h.Do(&CardCommand{ID: "e1", Card: scene.Card{Image: "x", Word: "y"}}) {
		t.Fatalf("expected locked card to reject reassignment")
	}
	h.Undo()
	e, _ := s.Entity("e1")
	if e.Card != nil {
		t.Fatalf("expected undo to clear the locked card, got %+v", e.Card)
	}
}

func TestClearEmptyTableNotRecorded(t *testing.T) {
	_, h := newFixture(t)
	if h.Do(&ClearCommand{}) || h.CanUndo() {
		t.Fatalf("expected clearing an empty table to record nothing")
	}
}

func TestGesture(t *testing.T) {
	t.Run("drag coalesces into one entry", func(t *testing.T) {
		s, h := newFixture(t)
		seed(t, s)
		start, _ := s.Entity("e1")

		h.BeginGesture("e1")
		s.BeginDrag("e1")
		for _, x := range []float64{1, 0, -1, -3, -6} {
			s.DragTo(scene.Vec3{x, 0, 0})
		}
		s.EndDrag()
		if !h.CommitGesture() {
			t.Fatalf("expected gesture to be recorded")
		}
		if st := h.Status(); st.Undoable != 1 || st.NextUndo != "drop" {
			t.Fatalf("expected a single drop entry, got %+v", st)
		}

		moved, _ := s.Entity("e1")
		if moved.Zone != catalog.ZoneWest {
			t.Fatalf("expected west after drop, got %q", moved.Zone)
		}
		h.Undo()
		back, _ := s.Entity("e1")
		if back.Position != start.Position || back.Zone != start.Zone {
			t.Fatalf("expected start state, got %+v", back)
		}
		h.Redo()
		again, _ := s.Entity("e1")
		if again.Position != moved.Position || again.Zone != catalog.ZoneWest {
			t.Fatalf("expected redo to restore the drop, got %+v", again)
		}
	})

	t.Run("no net movement records nothing", func(t *testing.T) {
		s, h := newFixture(t)
		seed(t, s)
		h.BeginGesture("e1")
		s.BeginDrag("e1")
		s.DragTo(scene.Vec3{0, 0, 0})
		s.DragTo(scene.Vec3{2, 0, -6})
		s.EndDrag()
		if h.CommitGesture() || h.CanUndo() {
			t.Fatalf("expected nothing recorded")
		}
	})

	t.Run("undo and redo wait for the gesture", func(t *testing.T) {
		s, h := newFixture(t)
		seed(t, s)
		h.Do(&MoveCommand{ID: "e1", To: scene.Vec3{3, 0, -6}})
		h.BeginGesture("e1")
		s.BeginDrag("e1")
		s.DragTo(scene.Vec3{4, 0, -6})
		if h.Undo() || h.Redo() {
			t.Fatalf("expected undo and redo refused during a gesture")
		}
		if st := h.Status(); st.Undoable != 1 || st.NextUndo != "move" {
			t.Fatalf("expected history untouched, got %+v", st)
		}
		h.AbortGesture()
		s.CancelDrag()
		if !h.Undo() {
			t.Fatalf("expected undo after the gesture ended")
		}
	})

	t.Run("commit without begin", func(t *testing.T) {
		_, h := newFixture(t)
		if h.CommitGesture() {
			t.Fatalf("expected no gesture")
		}
	})
}

func TestReset(t *testing.T) {
	s, h := newFixture(t)
	seed(t, s)
	h.Do(&LabelCommand{ID: "e1", Label: "x"})
	h.Do(&LabelCommand{ID: "e1", Label: "y"})
	h.Undo()
	h.Reset()
	if h.CanUndo() || h.CanRedo() {
		t.Fatalf("expected empty stacks after reset")
	}
}
