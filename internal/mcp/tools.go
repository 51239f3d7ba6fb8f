package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"tabletop/internal/catalog"
	"tabletop/internal/scene"
)

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "place", Description: "Place a figure or building on the table"}, s.handlePlace)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "remove", Description: "Remove an entity and every relationship pointing at it"}, s.handleRemove)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "move", Description: "Move an entity without changing its zone"}, s.handleMove)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "drop", Description: "Drop an entity at a position and reclassify its zone"}, s.handleDrop)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "rotate", Description: "Rotate an entity"}, s.handleRotate)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "annotate", Description: "Set label, notes or emotion of an entity"}, s.handleAnnotate)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "relate", Description: "Add a relationship between two entities"}, s.handleRelate)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "unrelate", Description: "Remove a relationship between two entities"}, s.handleUnrelate)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "assign_card", Description: "Assign an image and word card to an entity"}, s.handleAssignCard)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "select", Description: "Select an entity or clear the selection"}, s.handleSelect)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "clear", Description: "Remove everything from the table"}, s.handleClear)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "undo", Description: "Undo the last action"}, s.handleUndo)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "redo", Description: "Redo the last undone action"}, s.handleRedo)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "history_status", Description: "Report what can be undone or redone"}, s.handleHistoryStatus)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "save_configuration", Description: "Save the table under a name"}, s.handleSave)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "load_configuration", Description: "Replace the table with a saved configuration"}, s.handleLoad)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "delete_configuration", Description: "Delete a saved configuration"}, s.handleDelete)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "list_configurations", Description: "List saved configurations"}, s.handleListConfigurations)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "zone_for_position", Description: "Classify a position into a zone"}, s.handleZone)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "summary", Description: "Describe the current table"}, s.handleSummary)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "list_entities", Description: "List entities on the table"}, s.handleListEntities)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "list_catalog", Description: "List definitions that can be placed"}, s.handleListCatalog)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: "auto_assign_cards", Description: "Read or set the card auto-assign preference"}, s.handleAutoAssign)
}

func (s *Server) action(applied bool) ActionOutput {
	return ActionOutput{Applied: applied, History: s.session.HistoryStatus()}
}

func (s *Server) handlePlace(ctx context.Context, req *sdk.CallToolRequest, input PlaceInput) (*sdk.CallToolResult, EntityOutput, error) {
	if input.Definition == "" {
		return nil, EntityOutput{}, fmt.Errorf("definition is required")
	}
	if err := s.session.CanPlace(input.Definition); err != nil {
		return nil, EntityOutput{}, err
	}

	var e scene.Entity
	var ok bool
	if len(input.Position) == 0 {
		e, ok = s.session.PlaceAtRandom(input.Definition)
	} else {
		position, err := vec3(input.Position, "position")
		if err != nil {
			return nil, EntityOutput{}, err
		}
		var rotation scene.Vec3
		if len(input.Rotation) > 0 {
			if rotation, err = vec3(input.Rotation, "rotation"); err != nil {
				return nil, EntityOutput{}, err
			}
		}
		e, ok = s.session.Place(input.Definition, position, rotation)
	}
	if !ok {
		return nil, EntityOutput{}, fmt.Errorf("could not place %s", input.Definition)
	}
	return nil, entityOutput(e, s.session.Scene().Selected()), nil
}

func (s *Server) handleRemove(ctx context.Context, req *sdk.CallToolRequest, input EntityIDInput) (*sdk.CallToolResult, ActionOutput, error) {
	if input.ID == "" {
		return nil, ActionOutput{}, fmt.Errorf("id is required")
	}
	return nil, s.action(s.session.Remove(input.ID)), nil
}

func (s *Server) handleMove(ctx context.Context, req *sdk.CallToolRequest, input PositionInput) (*sdk.CallToolResult, ActionOutput, error) {
	position, err := vec3(input.Position, "position")
	if err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, s.action(s.session.Move(input.ID, position)), nil
}

func (s *Server) handleDrop(ctx context.Context, req *sdk.CallToolRequest, input PositionInput) (*sdk.CallToolResult, ActionOutput, error) {
	position, err := vec3(input.Position, "position")
	if err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, s.action(s.session.Drop(input.ID, position)), nil
}

func (s *Server) handleRotate(ctx context.Context, req *sdk.CallToolRequest, input RotateInput) (*sdk.CallToolResult, ActionOutput, error) {
	rotation, err := vec3(input.Rotation, "rotation")
	if err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, s.action(s.session.Rotate(input.ID, rotation)), nil
}

func (s *Server) handleAnnotate(ctx context.Context, req *sdk.CallToolRequest, input AnnotateInput) (*sdk.CallToolResult, ActionOutput, error) {
	if input.Label == nil && input.Notes == nil && input.Emotion == nil {
		return nil, ActionOutput{}, fmt.Errorf("one of label, notes or emotion is required")
	}
	if input.Emotion != nil && !scene.Emotion(*input.Emotion).Valid() {
		return nil, ActionOutput{}, fmt.Errorf("unknown emotion: %s", *input.Emotion)
	}
	var emotion *scene.Emotion
	if input.Emotion != nil {
		e := scene.Emotion(*input.Emotion)
		emotion = &e
	}
	return nil, s.action(s.session.Annotate(input.ID, input.Label, input.Notes, emotion)), nil
}

func (s *Server) handleRelate(ctx context.Context, req *sdk.CallToolRequest, input RelateInput) (*sdk.CallToolResult, ActionOutput, error) {
	typ := scene.RelationshipType(strings.ToLower(input.Type))
	if typ == "" {
		typ = scene.RelationshipFamily
	}
	if !typ.Valid() {
		return nil, ActionOutput{}, fmt.Errorf("unknown relationship type: %s", input.Type)
	}
	return nil, s.action(s.session.AddRelationship(input.Source, input.Target, typ)), nil
}

func (s *Server) handleUnrelate(ctx context.Context, req *sdk.CallToolRequest, input RelateInput) (*sdk.CallToolResult, ActionOutput, error) {
	return nil, s.action(s.session.RemoveRelationship(input.Source, input.Target)), nil
}

func (s *Server) handleAssignCard(ctx context.Context, req *sdk.CallToolRequest, input CardInput) (*sdk.CallToolResult, ActionOutput, error) {
	return nil, s.action(s.session.AssignCard(input.ID, scene.Card{Image: input.Image, Word: input.Word})), nil
}

func (s *Server) handleSelect(ctx context.Context, req *sdk.CallToolRequest, input SelectInput) (*sdk.CallToolResult, ActionOutput, error) {
	return nil, s.action(s.session.Select(input.ID)), nil
}

func (s *Server) handleClear(ctx context.Context, req *sdk.CallToolRequest, input EmptyInput) (*sdk.CallToolResult, ActionOutput, error) {
	return nil, s.action(s.session.Clear()), nil
}

func (s *Server) handleUndo(ctx context.Context, req *sdk.CallToolRequest, input EmptyInput) (*sdk.CallToolResult, ActionOutput, error) {
	return nil, s.action(s.session.Undo()), nil
}

func (s *Server) handleRedo(ctx context.Context, req *sdk.CallToolRequest, input EmptyInput) (*sdk.CallToolResult, ActionOutput, error) {
	return nil, s.action(s.session.Redo()), nil
}

func (s *Server) handleHistoryStatus(ctx context.Context, req *sdk.CallToolRequest, input EmptyInput) (*sdk.CallToolResult, ActionOutput, error) {
	return nil, s.action(false), nil
}

func (s *Server) handleSave(ctx context.Context, req *sdk.CallToolRequest, input SaveInput) (*sdk.CallToolResult, SaveOutput, error) {
	snap, persisted, err := s.session.Save(ctx, input.Name)
	if err != nil {
		return nil, SaveOutput{}, err
	}
	return nil, SaveOutput{Configuration: configurationOutput(snap), Persisted: persisted}, nil
}

func (s *Server) handleLoad(ctx context.Context, req *sdk.CallToolRequest, input ConfigurationIDInput) (*sdk.CallToolResult, LoadOutput, error) {
	issues, err := s.session.Load(input.ID)
	if err != nil {
		return nil, LoadOutput{}, err
	}
	out := LoadOutput{Entities: len(s.session.Entities())}
	for _, issue := range issues {
		out.Dropped = append(out.Dropped, fmt.Sprintf("%s: %s", issue.Record, issue.Message))
	}
	return nil, out, nil
}

func (s *Server) handleDelete(ctx context.Context, req *sdk.CallToolRequest, input ConfigurationIDInput) (*sdk.CallToolResult, DeleteOutput, error) {
	persisted, err := s.session.Delete(ctx, input.ID)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{Persisted: persisted}, nil
}

func (s *Server) handleListConfigurations(ctx context.Context, req *sdk.CallToolRequest, input EmptyInput) (*sdk.CallToolResult, ListConfigurationsOutput, error) {
	list := s.session.List()
	out := make([]ConfigurationOutput, 0, len(list))
	for _, snap := range list {
		out = append(out, configurationOutput(snap))
	}
	return nil, ListConfigurationsOutput{Configurations: out}, nil
}

func (s *Server) handleZone(ctx context.Context, req *sdk.CallToolRequest, input ZoneInput) (*sdk.CallToolResult, ZoneOutput, error) {
	position, err := vec3(input.Position, "position")
	if err != nil {
		return nil, ZoneOutput{}, err
	}
	z := s.session.ZoneFor(position)
	out := ZoneOutput{Zone: zoneName(z)}
	if info, ok := catalog.Info(z); ok {
		out.Name = info.Name
		out.Description = info.Description
	}
	return nil, out, nil
}

func (s *Server) handleSummary(ctx context.Context, req *sdk.CallToolRequest, input EmptyInput) (*sdk.CallToolResult, SummaryOutput, error) {
	out := summaryOutput(s.session.Summary())
	out.Mode = string(s.session.Mode())
	out.Hint = s.session.Hint()
	if era, ok := s.session.Era(); ok {
		st := s.session.Settlement()
		out.Settlement = &SettlementOutput{
			Era:                 era.ID,
			Population:          st.Population,
			Resources:           st.Resources,
			SustainabilityScore: st.SustainabilityScore,
			Deficits:            st.Deficits,
		}
	}
	return nil, out, nil
}

func (s *Server) handleListEntities(ctx context.Context, req *sdk.CallToolRequest, input EmptyInput) (*sdk.CallToolResult, ListEntitiesOutput, error) {
	entities := s.session.Entities()
	selected := s.session.Scene().Selected()
	out := make([]EntityOutput, 0, len(entities))
	for _, e := range entities {
		out = append(out, entityOutput(e, selected))
	}
	return nil, ListEntitiesOutput{Entities: out}, nil
}

func (s *Server) handleListCatalog(ctx context.Context, req *sdk.CallToolRequest, input ListCatalogInput) (*sdk.CallToolResult, ListCatalogOutput, error) {
	cat := s.session.Catalog()
	defs := cat.Definitions()
	if input.Category != "" {
		category := catalog.Category(strings.ToLower(input.Category))
		if !category.Valid() {
			return nil, ListCatalogOutput{}, fmt.Errorf("unknown category: %s", input.Category)
		}
		defs = cat.ByCategory(category)
	}
	out := ListCatalogOutput{Catalog: cat.Name(), Definitions: make([]DefinitionOutput, 0, len(defs))}
	for _, def := range defs {
		d := definitionOutput(def)
		d.Placeable = s.session.CanPlace(def.ID) == nil
		out.Definitions = append(out.Definitions, d)
	}
	return nil, out, nil
}

func (s *Server) handleAutoAssign(ctx context.Context, req *sdk.CallToolRequest, input AutoAssignInput) (*sdk.CallToolResult, AutoAssignOutput, error) {
	if input.Enabled == nil {
		return nil, AutoAssignOutput{Enabled: s.session.AutoAssign(), Persisted: true}, nil
	}
	persisted := s.session.SetAutoAssign(ctx, *input.Enabled)
	return nil, AutoAssignOutput{Enabled: *input.Enabled, Persisted: persisted}, nil
}
