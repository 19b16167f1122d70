package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mechsim/internal/geom"
)

// DataPathEnv overrides the data root of every config.
const DataPathEnv = "MECHSIM_DATA_PATH"

const (
	DefaultDataRoot         = "data"
	DefaultScene            = "solid_works/swiss_escapement"
	DefaultLogo             = "logo_mechsim_alpha.png"
	DefaultTitle            = "Test: using data exported by a CAD plugin"
	DefaultWidth            = 1024
	DefaultHeight           = 768
	DefaultEnvelope         = 0.001
	DefaultMargin           = 0.001
	DefaultMaxRecoverySpeed = 0.002
	DefaultStep             = 0.002
	DefaultFPS              = 30
	DefaultRecordEvery      = 10
)

type Config struct {
	DataRoot                    string          `yaml:"data_root"`
	Scene                       string          `yaml:"scene" validate:"required"`
	Logo                        string          `yaml:"logo"`
	Window                      WindowConfig    `yaml:"window"`
	Camera                      CameraConfig    `yaml:"camera"`
	Collision                   CollisionConfig `yaml:"collision"`
	MaxPenetrationRecoverySpeed float64         `yaml:"max_penetration_recovery_speed" validate:"gte=0"`
	Step                        float64         `yaml:"step" validate:"gt=0"`
	Integrator                  string          `yaml:"integrator" validate:"oneof=euler rk4 verlet leapfrog"`
	Backend                     string          `yaml:"backend" validate:"oneof=terminal interactive headless"`
	FPS                         int             `yaml:"fps" validate:"gte=0"`
	Frames                      int             `yaml:"frames" validate:"gte=0"`
	Theme                       string          `yaml:"theme"`
	Record                      bool            `yaml:"record"`
	RecordEvery                 int             `yaml:"record_every" validate:"gte=1"`
}

type WindowConfig struct {
	Width  int    `yaml:"width" validate:"gte=64"`
	Height int    `yaml:"height" validate:"gte=64"`
	Title  string `yaml:"title"`
}

type CameraConfig struct {
	Position geom.Vec3 `yaml:"position"`
	Target   geom.Vec3 `yaml:"target"`
}

type CollisionConfig struct {
	Envelope float64 `yaml:"envelope" validate:"gte=0"`
	Margin   float64 `yaml:"margin" validate:"gte=0"`
	Ground   bool    `yaml:"ground"`
	GroundY  float64 `yaml:"ground_y"`
}

var validate = validator.New()

func DefaultConfig() *Config {
	return &Config{
		DataRoot: DefaultDataRoot,
		Scene:    DefaultScene,
		Logo:     DefaultLogo,
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
		},
		Camera: CameraConfig{
			Position: geom.V(0.3, 0.3, 0.4),
		},
		Collision: CollisionConfig{
			Envelope: DefaultEnvelope,
			Margin:   DefaultMargin,
		},
		MaxPenetrationRecoverySpeed: DefaultMaxRecoverySpeed,
		Step:                        DefaultStep,
		Integrator:                  "rk4",
		Backend:                     "terminal",
		FPS:                         DefaultFPS,
		Theme:                       "minimal",
		RecordEvery:                 DefaultRecordEvery,
	}
}

// Load reads a YAML config on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if root := os.Getenv(DataPathEnv); root != "" {
		c.DataRoot = root
	}
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DataFile resolves an asset name against the data root. Absolute names are
// returned unchanged.
func (c *Config) DataFile(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataRoot, name)
}

func (c *Config) ScenePath() string { return c.DataFile(c.Scene) }

// LogoPath is empty when no logo is configured.
func (c *Config) LogoPath() string { return c.DataFile(c.Logo) }
