package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tabletop/internal/analysis"
	"tabletop/internal/catalog"
	"tabletop/internal/history"
	"tabletop/internal/logger"
	"tabletop/internal/scene"
	"tabletop/internal/storage"
	"tabletop/internal/validate"
)

var (
	ErrEmptyName            = errors.New("configuration name is empty")
	ErrUnknownConfiguration = errors.New("unknown configuration")
	ErrUnknownMode          = errors.New("unknown mode")
	ErrUnknownEra           = errors.New("unknown era")
	ErrNotInEra             = errors.New("building not available in the current era")
	ErrUnaffordable         = errors.New("not enough resources")
)

type Mode string

const (
	ModeTherapy    Mode = "therapy"
	ModeSettlement Mode = "settlement"
)

func (m Mode) Valid() bool {
	return m == ModeTherapy || m == ModeSettlement
}

func (m Mode) storageKey() string {
	if m == ModeSettlement {
		return storage.KeySettlementConfigurations
	}
	return storage.KeySceneConfigurations
}

type Options struct {
	Mode         Mode
	Era          string
	Therapy      *catalog.Catalog
	Settlement   *catalog.Catalog
	Surface      catalog.Surface
	HistoryLimit int
	IDs          scene.IDSource
	Rand         scene.Rand
	Now          func() time.Time
	Log          logger.Logger
}

// Session is the surface the UI layer talks to. It owns the scene, its
// history, the saved configurations and the card pools, and serializes all
// access. Scene observers must not call back into the Session.
type Session struct {
	mu sync.Mutex

	gateway   *storage.Gateway
	validator *validate.Validator
	scene     *scene.Scene
	history   *history.History
	log       logger.Logger
	now       func() time.Time

	catalogs map[Mode]*catalog.Catalog
	mode     Mode
	era      string

	configs    map[Mode][]scene.Snapshot
	images     []string
	words      []string
	autoAssign bool
}

// New builds a session and reads persisted state through gw.
func New(ctx context.Context, gw *storage.Gateway, opts Options) (*Session, error) {
	if gw == nil {
		return nil, fmt.Errorf("storage gateway is required")
	}
	if opts.Mode == "" {
		opts.Mode = ModeTherapy
	}
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, opts.Mode)
	}
	if opts.Therapy == nil {
		opts.Therapy = catalog.Therapy()
	}
	if opts.Settlement == nil {
		opts.Settlement = catalog.Settlement()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := logger.With(opts.Log)

	s := &Session{
		gateway:   gw,
		validator: validate.New(log),
		log:       log,
		now:       opts.Now,
		catalogs:  map[Mode]*catalog.Catalog{ModeTherapy: opts.Therapy, ModeSettlement: opts.Settlement},
		mode:      opts.Mode,
		configs:   map[Mode][]scene.Snapshot{},
	}
	if opts.Mode == ModeSettlement {
		era, err := s.resolveEra(opts.Era)
		if err != nil {
			return nil, err
		}
		s.era = era
	}

	s.scene = scene.New(s.catalogs[s.mode], scene.Options{
		Surface: opts.Surface,
		IDs:     opts.IDs,
		Rand:    opts.Rand,
		Log:     log,
	})
	s.history = history.New(s.scene, opts.HistoryLimit, log)
	s.Reload(ctx)
	return s, nil
}

func (s *Session) resolveEra(id string) (string, error) {
	cat := s.catalogs[ModeSettlement]
	if id == "" {
		eras := cat.Eras()
		if len(eras) == 0 {
			return "", fmt.Errorf("%w: catalog %s has no eras", ErrUnknownEra, cat.Name())
		}
		return eras[0].ID, nil
	}
	if _, ok := cat.Era(id); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEra, id)
	}
	return id, nil
}

// Scene exposes the live scene for reads and subscriptions.
func (s *Session) Scene() *scene.Scene {
	return s.scene
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Era() (catalog.Era, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeSettlement {
		return catalog.Era{}, false
	}
	return s.catalogs[ModeSettlement].Era(s.era)
}

func (s *Session) Catalog() *catalog.Catalog {
	return s.scene.Catalog()
}

func (s *Session) Entities() []scene.Entity {
	return s.scene.Entities()
}

// SwitchMode changes scenario. The table is cleared and history starts over.
func (s *Session) SwitchMode(mode Mode, era string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !mode.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
	nextEra := ""
	if mode == ModeSettlement {
		var err error
		if nextEra, err = s.resolveEra(era); err != nil {
			return err
		}
	}
	s.mode = mode
	s.era = nextEra
	s.scene.SwitchCatalog(s.catalogs[mode])
	s.history.Reset()
	s.log.Info("switched mode", "mode", mode, "era", nextEra)
	return nil
}

// SetEra moves the settlement to another era, clearing the table.
func (s *Session) SetEra(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeSettlement {
		return fmt.Errorf("%w: eras only apply to settlement mode", ErrUnknownEra)
	}
	era, err := s.resolveEra(id)
	if err != nil {
		return err
	}
	s.era = era
	s.scene.Clear()
	s.history.Reset()
	return nil
}

func (s *Session) Summary() analysis.Summary {
	return analysis.Summarize(s.scene.Entities())
}

// Settlement derives the settlement figures for the current table.
func (s *Session) Settlement() analysis.Settlement {
	return analysis.Settle(s.scene.Entities(), s.scene.Catalog(), catalog.StartingResources())
}

func (s *Session) Hint() string {
	if era, ok := s.Era(); ok {
		return analysis.Hint(s.Settlement(), era, s.scene.Catalog())
	}
	return analysis.TherapyHint(s.Summary())
}

func (s *Session) ZoneFor(position scene.Vec3) catalog.Zone {
	return s.scene.ZoneFor(position)
}
