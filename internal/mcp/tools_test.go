package mcp

import (
	"context"
	"testing"
	"time"

	"tabletop/internal/logger"
	"tabletop/internal/scene"
	"tabletop/internal/session"
	"tabletop/internal/storage"
	"tabletop/internal/storage/memory"
)

func newTestServer(t *testing.T, opts session.Options) *Server {
	t.Helper()
	opts.IDs = &scene.SequentialIDs{Prefix: "e"}
	opts.Now = func() time.Time { return time.UnixMilli(1700000000000) }
	sess, err := session.New(context.Background(), storage.NewGateway(memory.New(0), logger.Nop{}), opts)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return NewServer(sess, logger.Nop{}, "test")
}

func place(t *testing.T, s *Server, def string, position []float64) EntityOutput {
	t.Helper()
	_, out, err := s.handlePlace(context.Background(), nil, PlaceInput{Definition: def, Position: position})
	if err != nil {
		t.Fatalf("place %s: %v", def, err)
	}
	return out
}

func TestPlace(t *testing.T) {
	s := newTestServer(t, session.Options{})

	out := place(t, s, "self", []float64{0, 0, -4})
	if out.ID != "e1" || out.Zone != "north" || !out.Placed {
		t.Fatalf("unexpected entity: %+v", out)
	}

	t.Run("unknown definition", func(t *testing.T) {
		_, _, err := s.handlePlace(context.Background(), nil, PlaceInput{Definition: "dragon"})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("bad position", func(t *testing.T) {
		_, _, err := s.handlePlace(context.Background(), nil, PlaceInput{Definition: "self", Position: []float64{1, 2}})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("random", func(t *testing.T) {
		out := place(t, s, "mother", nil)
		if out.ID != "e2" {
			t.Fatalf("expected e2, got %s", out.ID)
		}
	})
}

func TestEditAndUndo(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, session.Options{})
	a := place(t, s, "self", []float64{0, 0, -4})
	b := place(t, s, "father", []float64{4, 0, 0})

	_, rel, err := s.handleRelate(ctx, nil, RelateInput{Source: a.ID, Target: b.ID})
	if err != nil || !rel.Applied {
		t.Fatalf("relate: %+v %v", rel, err)
	}
	if _, _, err := s.handleRelate(ctx, nil, RelateInput{Source: a.ID, Target: b.ID, Type: "rivalry"}); err == nil {
		t.Fatalf("expected unknown type error")
	}

	label := "Me"
	_, ann, err := s.handleAnnotate(ctx, nil, AnnotateInput{ID: a.ID, Label: &label})
	if err != nil || !ann.Applied {
		t.Fatalf("annotate: %+v %v", ann, err)
	}
	if _, _, err := s.handleAnnotate(ctx, nil, AnnotateInput{ID: a.ID}); err == nil {
		t.Fatalf("expected error for empty annotation")
	}

	_, rm, _ := s.handleRemove(ctx, nil, EntityIDInput{ID: b.ID})
	if !rm.Applied || rm.History.Undoable != 5 {
		t.Fatalf("unexpected remove output: %+v", rm)
	}

	_, list, _ := s.handleListEntities(ctx, nil, EmptyInput{})
	if len(list.Entities) != 1 || len(list.Entities[0].Relationships) != 0 {
		t.Fatalf("expected one entity without edges, got %+v", list.Entities)
	}

	_, undo, _ := s.handleUndo(ctx, nil, EmptyInput{})
	if !undo.Applied || !undo.History.CanRedo {
		t.Fatalf("unexpected undo output: %+v", undo)
	}
	_, list, _ = s.handleListEntities(ctx, nil, EmptyInput{})
	if len(list.Entities) != 2 || len(list.Entities[0].Relationships) != 1 || list.Entities[0].Label != "Me" {
		t.Fatalf("undo did not restore the scene: %+v", list.Entities)
	}

	_, redo, _ := s.handleRedo(ctx, nil, EmptyInput{})
	if !redo.Applied {
		t.Fatalf("expected redo to apply")
	}
	_, status, _ := s.handleHistoryStatus(ctx, nil, EmptyInput{})
	if status.Applied || status.History.CanRedo {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestAnnotateIsOneHistoryEntry(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, session.Options{})
	e := place(t, s, "self", []float64{0, 0, -4})

	label, notes, emotion := "Me", "at the start", "anxious"
	_, out, err := s.handleAnnotate(ctx, nil, AnnotateInput{ID: e.ID, Label: &label, Notes: &notes, Emotion: &emotion})
	if err != nil || !out.Applied {
		t.Fatalf("annotate: %+v %v", out, err)
	}
	if out.History.Undoable != 2 || out.History.NextUndo != "annotate" {
		t.Fatalf("expected a single annotate entry, got %+v", out.History)
	}

	s.handleUndo(ctx, nil, EmptyInput{})
	_, list, _ := s.handleListEntities(ctx, nil, EmptyInput{})
	got := list.Entities[0]
	if got.Label != "" || got.Notes != "" || got.Emotion != "" {
		t.Fatalf("expected one undo to revert every field, got %+v", got)
	}
}

func TestUndoOnEmptyHistory(t *testing.T) {
	s := newTestServer(t, session.Options{})
	_, out, err := s.handleUndo(context.Background(), nil, EmptyInput{})
	if err != nil || out.Applied {
		t.Fatalf("expected no-op undo, got %+v %v", out, err)
	}
}

func TestConfigurations(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, session.Options{})
	place(t, s, "self", []float64{0, 0, -4})

	if _, _, err := s.handleSave(ctx, nil, SaveInput{Name: "  "}); err == nil {
		t.Fatalf("expected blank name error")
	}
	_, saved, err := s.handleSave(ctx, nil, SaveInput{Name: "first"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !saved.Persisted || saved.Configuration.Entities != 1 {
		t.Fatalf("unexpected save output: %+v", saved)
	}

	s.handleClear(ctx, nil, EmptyInput{})
	_, loaded, err := s.handleLoad(ctx, nil, ConfigurationIDInput{ID: saved.Configuration.ID})
	if err != nil || loaded.Entities != 1 {
		t.Fatalf("load: %+v %v", loaded, err)
	}

	_, list, _ := s.handleListConfigurations(ctx, nil, EmptyInput{})
	if len(list.Configurations) != 1 || list.Configurations[0].Name != "first" {
		t.Fatalf("unexpected configurations: %+v", list)
	}

	if _, _, err := s.handleDelete(ctx, nil, ConfigurationIDInput{ID: saved.Configuration.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := s.handleLoad(ctx, nil, ConfigurationIDInput{ID: saved.Configuration.ID}); err == nil {
		t.Fatalf("expected unknown configuration error")
	}
}

func TestZoneForPosition(t *testing.T) {
	s := newTestServer(t, session.Options{})
	tests := []struct {
		position []float64
		want     string
	}{
		{[]float64{0, 0, -3}, "north"},
		{[]float64{0, 0, 3}, "south"},
		{[]float64{3, 0, 0}, "east"},
		{[]float64{-3, 0, 0}, "west"},
		{[]float64{0.5, 0, 0.5}, "neutral"},
	}
	for _, tt := range tests {
		_, out, err := s.handleZone(context.Background(), nil, ZoneInput{Position: tt.position})
		if err != nil {
			t.Fatalf("zone %v: %v", tt.position, err)
		}
		if out.Zone != tt.want {
			t.Fatalf("zone %v: expected %s, got %s", tt.position, tt.want, out.Zone)
		}
	}
}

func TestSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("therapy", func(t *testing.T) {
		s := newTestServer(t, session.Options{})
		place(t, s, "self", []float64{0, 0, -4})
		place(t, s, "father", []float64{0, 0, -3})
		_, out, _ := s.handleSummary(ctx, nil, EmptyInput{})
		if out.Mode != "therapy" || out.Placed != 2 || out.Dominant != "north" || out.Settlement != nil {
			t.Fatalf("unexpected summary: %+v", out)
		}
		if out.Distribution["north"] != 2 || out.Hint == "" {
			t.Fatalf("unexpected summary: %+v", out)
		}
	})

	t.Run("settlement", func(t *testing.T) {
		s := newTestServer(t, session.Options{Mode: session.ModeSettlement, Era: "neolithic"})
		place(t, s, "mud-hut", []float64{0, 0, -4})
		_, out, _ := s.handleSummary(ctx, nil, EmptyInput{})
		if out.Settlement == nil || out.Settlement.Era != "neolithic" || out.Settlement.Population == 0 {
			t.Fatalf("unexpected settlement summary: %+v", out.Settlement)
		}
	})
}

func TestListCatalog(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, session.Options{Mode: session.ModeSettlement, Era: "neolithic"})

	_, out, err := s.handleListCatalog(ctx, nil, ListCatalogInput{})
	if err != nil {
		t.Fatalf("list catalog: %v", err)
	}
	placeable := map[string]bool{}
	for _, def := range out.Definitions {
		placeable[def.ID] = def.Placeable
	}
	if !placeable["mud-hut"] || placeable["temple"] {
		t.Fatalf("unexpected placeable flags: %+v", placeable)
	}

	if _, _, err := s.handleListCatalog(ctx, nil, ListCatalogInput{Category: "spaceport"}); err == nil {
		t.Fatalf("expected unknown category error")
	}
}

func TestAutoAssign(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, session.Options{})
	s.session.SetCardPools([]string{"img-1"}, []string{"word-1"})

	on := true
	_, out, err := s.handleAutoAssign(ctx, nil, AutoAssignInput{Enabled: &on})
	if err != nil || !out.Enabled || !out.Persisted {
		t.Fatalf("unexpected auto assign output: %+v %v", out, err)
	}

	e := place(t, s, "self", []float64{0, 0, -4})
	if e.Card == nil || e.Card.Image != "img-1" || e.Card.Word != "word-1" {
		t.Fatalf("expected auto-assigned card, got %+v", e.Card)
	}

	_, card, _ := s.handleAssignCard(ctx, nil, CardInput{ID: e.ID, Image: "img-2", Word: "word-2"})
	if card.Applied {
		t.Fatalf("expected complete card to stay locked")
	}
}
