package history

import (
	"tabletop/internal/logger"
	"tabletop/internal/scene"
)

const DefaultLimit = 100

// Status summarizes the stacks for UI affordances.
type Status struct {
	CanUndo  bool   `json:"canUndo"`
	CanRedo  bool   `json:"canRedo"`
	Undoable int    `json:"undoable"`
	Redoable int    `json:"redoable"`
	NextUndo string `json:"nextUndo,omitempty"`
	NextRedo string `json:"nextRedo,omitempty"`
}

type gesture struct {
	id   string
	from scene.DropState
}

// History is a bounded linear undo/redo stack over one scene. It is not
// safe for concurrent use; callers serialize access.
type History struct {
	scene  *scene.Scene
	limit  int
	log    logger.Logger
	past   []Command
	future []Command

	gesture *gesture
}

func New(s *scene.Scene, limit int, log logger.Logger) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{scene: s, limit: limit, log: logger.With(log)}
}

// Do applies cmd and records it. A command that does not apply is not
// recorded and the redo stack is left alone.
func (h *History) Do(cmd Command) bool {
	if !cmd.Apply(h.scene) {
		h.log.Debug("command had no effect", "command", cmd.Name())
		return false
	}
	h.push(cmd)
	return true
}

// Record pushes a command whose effect has already been applied.
func (h *History) Record(cmd Command) {
	h.push(cmd)
}

func (h *History) push(cmd Command) {
	h.past = append(h.past, cmd)
	if over := len(h.past) - h.limit; over > 0 {
		h.past = append([]Command(nil), h.past[over:]...)
	}
	h.future = nil
}

// Undo reverts the most recent command. It reports false when there is
// nothing to undo or a gesture is open.
func (h *History) Undo() bool {
	if h.gesture != nil {
		h.log.Debug("undo refused during gesture", "entity", h.gesture.id)
		return false
	}
	if len(h.past) == 0 {
		return false
	}
	cmd := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	if !cmd.Revert(h.scene) {
		h.log.Error("undo failed, discarding entry", "command", cmd.Name())
		return false
	}
	h.future = append(h.future, cmd)
	return true
}

func (h *History) Redo() bool {
	if h.gesture != nil {
		h.log.Debug("redo refused during gesture", "entity", h.gesture.id)
		return false
	}
	if len(h.future) == 0 {
		return false
	}
	cmd := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	if !cmd.Apply(h.scene) {
		h.log.Error("redo failed, discarding entry", "command", cmd.Name())
		return false
	}
	h.past = append(h.past, cmd)
	return true
}

func (h *History) CanUndo() bool {
	return len(h.past) > 0
}

func (h *History) CanRedo() bool {
	return len(h.future) > 0
}

// Reset drops both stacks. Loading a configuration or switching scenario
// starts a fresh history.
func (h *History) Reset() {
	h.past = nil
	h.future = nil
	h.gesture = nil
}

func (h *History) Status() Status {
	st := Status{
		CanUndo:  h.CanUndo(),
		CanRedo:  h.CanRedo(),
		Undoable: len(h.past),
		Redoable: len(h.future),
	}
	if st.CanUndo {
		st.NextUndo = h.past[len(h.past)-1].Name()
	}
	if st.CanRedo {
		st.NextRedo = h.future[len(h.future)-1].Name()
	}
	return st
}

// BeginGesture remembers where an entity starts a drag.
func (h *History) BeginGesture(id string) bool {
	e, ok := h.scene.Entity(id)
	if !ok {
		return false
	}
	h.gesture = &gesture{id: id, from: scene.DropState{Position: e.Position, Zone: e.Zone, Placed: e.Placed}}
	return true
}

// CommitGesture records the whole drag as one drop entry. A gesture that
// ends where it started records nothing.
func (h *History) CommitGesture() bool {
	g := h.gesture
	h.gesture = nil
	if g == nil {
		return false
	}
	e, ok := h.scene.Entity(g.id)
	if !ok {
		return false
	}
	to := scene.DropState{Position: e.Position, Zone: e.Zone, Placed: e.Placed}
	if to == g.from {
		return false
	}
	h.Record(&DropCommand{ID: g.id, To: to.Position, from: g.from, to: to, captured: true})
	return true
}

// AbortGesture forgets a gesture without recording it.
func (h *History) AbortGesture() {
	h.gesture = nil
}
