package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tabletop/internal/analysis"
	"tabletop/internal/catalog"
	"tabletop/internal/scene"
	"tabletop/internal/storage"
	"tabletop/internal/validate"
)

// Save stores the current table under name. The in-memory list is updated
// even when the write fails; persisted reports whether it reached storage.
func (s *Session) Save(ctx context.Context, name string) (scene.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return scene.Snapshot{}, false, ErrEmptyName
	}

	entities := s.scene.Entities()
	snap := scene.Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Entities:  entities,
		Scenario:  string(s.mode),
		Timestamp: s.now().UnixMilli(),
		Analysis:  analysis.SummaryText(entities),
	}
	if s.mode == ModeSettlement {
		st := analysis.Settle(entities, s.scene.Catalog(), catalog.StartingResources())
		snap.Scenario = s.era
		snap.Population = st.Population
		snap.Resources = st.Resources
		snap.SustainabilityScore = st.SustainabilityScore
	}

	s.configs[s.mode] = append(s.configs[s.mode], snap)
	persisted := s.persistLocked(ctx, s.mode)
	s.log.Info("saved configuration", "id", snap.ID, "name", name, "entities", len(entities), "persisted", persisted)
	return snap.Clone(), persisted, nil
}

// Load replaces the table with a saved configuration. Entities whose
// definition is unknown and dangling relationships are dropped. History
// starts over.
func (s *Session) Load(id string) ([]validate.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.findLocked(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConfiguration, id)
	}
	if s.mode == ModeSettlement {
		if _, known := s.catalogs[ModeSettlement].Era(snap.Scenario); known {
			s.era = snap.Scenario
		}
	}
	resolved, issues := validate.Resolve(snap, s.scene.Catalog())
	for _, issue := range issues {
		s.log.Warn("dropped from loaded configuration", "id", id, "code", issue.Code, "record", issue.Record, "message", issue.Message)
	}
	s.scene.Replace(resolved.Entities)
	s.history.Reset()
	return issues, nil
}

// Delete removes a saved configuration.
func (s *Session) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.configs[s.mode]
	for i := range list {
		if list[i].ID != id {
			continue
		}
		s.configs[s.mode] = append(list[:i:i], list[i+1:]...)
		return s.persistLocked(ctx, s.mode), nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownConfiguration, id)
}

// List returns the saved configurations for the current mode in save order.
func (s *Session) List() []scene.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.configs[s.mode]
	out := make([]scene.Snapshot, len(list))
	for i, snap := range list {
		out[i] = snap.Clone()
	}
	return out
}

// Get returns one saved configuration.
func (s *Session) Get(id string) (scene.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.findLocked(id)
	if !ok {
		return scene.Snapshot{}, false
	}
	return snap.Clone(), true
}

func (s *Session) findLocked(id string) (scene.Snapshot, bool) {
	for _, snap := range s.configs[s.mode] {
		if snap.ID == id {
			return snap, true
		}
	}
	return scene.Snapshot{}, false
}

// Reload re-reads saved configurations and preferences from storage.
// Corrupt keys are removed by the gateway; invalid records are dropped and
// reported.
func (s *Session) Reload(ctx context.Context) *validate.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &validate.Report{}
	for _, mode := range []Mode{ModeTherapy, ModeSettlement} {
		list := make([]scene.Snapshot, 0)
		if raw, ok := s.gateway.ReadRaw(ctx, mode.storageKey()); ok {
			var r *validate.Report
			list, r = s.validator.Snapshots(raw)
			report.Issues = append(report.Issues, r.Issues...)
		}
		s.configs[mode] = list
	}

	var autoAssign bool
	if s.gateway.Read(ctx, storage.KeyCardAutoAssign, &autoAssign) {
		s.autoAssign = autoAssign
	} else {
		s.autoAssign = false
	}
	return report
}

func (s *Session) persistLocked(ctx context.Context, mode Mode) bool {
	list := s.configs[mode]
	if list == nil {
		list = []scene.Snapshot{}
	}
	return s.gateway.Write(ctx, mode.storageKey(), list)
}
