package config

import (
	"os"

	"github.com/Versifine/corridor/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	defaultTickHz   = 60
	defaultLogLevel = "info"
	defaultPlayer   = "player"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Sim     SimConfig     `yaml:"sim"`
	Level   LevelConfig   `yaml:"level"`
	Physics PhysicsConfig `yaml:"physics"`
}

// ServerConfig is the game server connection. An empty URL runs offline:
// nobody reports liveness, so locomotion stays enabled.
type ServerConfig struct {
	URL    string `yaml:"url"`
	Player string `yaml:"player"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

type SimConfig struct {
	TickHz  int  `yaml:"tick_hz"`
	Console bool `yaml:"console"`
}

type LevelConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// PhysicsConfig overrides movement constants. Unset keys keep the default;
// an explicit zero is honored.
type PhysicsConfig struct {
	PlayerSpeed    *float64 `yaml:"player_speed"`
	Gravity        *float64 `yaml:"gravity"`
	JumpForce      *float64 `yaml:"jump_force"`
	PlayerRadius   *float64 `yaml:"player_radius"`
	WallHalfExtent *float64 `yaml:"wall_half_extent"`
	GroundY        *float64 `yaml:"ground_y"`
	UnstuckOffset  *float64 `yaml:"unstuck_offset"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default is the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Sim.TickHz <= 0 {
		c.Sim.TickHz = defaultTickHz
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Server.Player == "" {
		c.Server.Player = defaultPlayer
	}
}

func (p PhysicsConfig) Tuning() physics.Tuning {
	t := physics.DefaultTuning()
	override := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	override(&t.PlayerSpeed, p.PlayerSpeed)
	override(&t.Gravity, p.Gravity)
	override(&t.JumpForce, p.JumpForce)
	override(&t.PlayerRadius, p.PlayerRadius)
	override(&t.WallHalfExtent, p.WallHalfExtent)
	override(&t.GroundY, p.GroundY)
	override(&t.UnstuckOffset, p.UnstuckOffset)
	return t
}
