package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"tabletop/internal/catalog"
)

const (
	EnvDSN      = "TABLETOP_DSN"
	EnvLogLevel = "TABLETOP_LOG_LEVEL"
	EnvDebug    = "TABLETOP_DEBUG"
)

const (
	ModeTherapy    = "therapy"
	ModeSettlement = "settlement"
)

type ProjectConfig struct {
	Project string        `yaml:"project"`
	Version int           `yaml:"version"`
	Mode    string        `yaml:"mode"`
	Era     string        `yaml:"era"`
	Catalog string        `yaml:"catalog"`
	Storage StorageConfig `yaml:"storage"`
	Surface SurfaceConfig `yaml:"surface"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
	Cards   CardsConfig   `yaml:"cards"`

	dir string
}

type StorageConfig struct {
	DSN   string `yaml:"dsn"`
	Quota int    `yaml:"quota"`
}

type SurfaceConfig struct {
	Radius        float64 `yaml:"radius"`
	NeutralRadius float64 `yaml:"neutral_radius"`
}

type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Debug bool   `yaml:"debug"`
}

type CardsConfig struct {
	Images []string `yaml:"images"`
	Words  []string `yaml:"words"`
}

// LoadEnv reads a .env file into the process environment. A missing file is
// not an error.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	cfg.dir = filepath.Dir(path)

	applyDefaults(&cfg)
	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if cfg.Mode == "" {
		cfg.Mode = ModeTherapy
	}
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	def := catalog.DefaultSurface()
	if cfg.Surface.Radius == 0 {
		cfg.Surface.Radius = def.Radius
	}
	if cfg.Surface.NeutralRadius == 0 {
		cfg.Surface.NeutralRadius = def.NeutralRadius
	}
	if cfg.History.Limit == 0 {
		cfg.History.Limit = 100
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func applyEnv(cfg *ProjectConfig) error {
	if v, ok := os.LookupEnv(EnvDSN); ok && strings.TrimSpace(v) != "" {
		cfg.Storage.DSN = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvDebug); ok && strings.TrimSpace(v) != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebug, err)
		}
		cfg.Log.Debug = debug
	}
	return nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if cfg.Mode != ModeTherapy && cfg.Mode != ModeSettlement {
		return fmt.Errorf("unsupported mode: %s", cfg.Mode)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return fmt.Errorf("storage dsn is required")
	}
	if cfg.Storage.Quota < 0 {
		return fmt.Errorf("storage quota must not be negative")
	}
	if cfg.Surface.NeutralRadius <= 0 {
		return fmt.Errorf("surface neutral_radius must be positive")
	}
	if cfg.Surface.Radius <= cfg.Surface.NeutralRadius {
		return fmt.Errorf("surface radius must exceed neutral_radius")
	}
	if cfg.History.Limit < 0 {
		return fmt.Errorf("history limit must not be negative")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", cfg.Log.Level)
	}
	return nil
}

// SurfaceSpec converts the surface settings.
func (c *ProjectConfig) SurfaceSpec() catalog.Surface {
	return catalog.Surface{Radius: c.Surface.Radius, NeutralRadius: c.Surface.NeutralRadius}
}

// CatalogPath resolves the custom catalog file relative to the config file.
func (c *ProjectConfig) CatalogPath() string {
	if c.Catalog == "" || filepath.IsAbs(c.Catalog) {
		return c.Catalog
	}
	return filepath.Join(c.dir, c.Catalog)
}

// Catalogs returns the therapy and settlement catalogs. A custom catalog
// replaces the one for the configured mode. The configured era must exist
// in the settlement catalog.
func (c *ProjectConfig) Catalogs() (therapy, settlement *catalog.Catalog, err error) {
	therapy, settlement = catalog.Therapy(), catalog.Settlement()
	if path := c.CatalogPath(); path != "" {
		custom, err := catalog.Load(path)
		if err != nil {
			return nil, nil, err
		}
		if c.Mode == ModeSettlement {
			settlement = custom
		} else {
			therapy = custom
		}
	}
	if c.Mode == ModeSettlement && c.Era != "" {
		if _, ok := settlement.Era(c.Era); !ok {
			return nil, nil, fmt.Errorf("unknown era: %s", c.Era)
		}
	}
	return therapy, settlement, nil
}
