package world

import (
	"errors"
	"fmt"
	"os"

	"github.com/Versifine/corridor/internal/physics"
	"gopkg.in/yaml.v3"
)

var ErrNoSpawns = errors.New("level has no spawn points")

// Level is a static pillar layout. A zero HalfExtent defers to the tuned
// wall half extent of whoever loads it.
type Level struct {
	Name       string       `yaml:"name"`
	HalfExtent float64      `yaml:"half_extent"`
	Pillars    []PillarSpec `yaml:"pillars"`
	Spawns     []SpawnSpec  `yaml:"spawns"`
}

type PillarSpec struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

type SpawnSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func LoadLevel(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, err
	}
	level, err := ParseLevel(data)
	if err != nil {
		return Level{}, fmt.Errorf("level %s: %w", path, err)
	}
	return level, nil
}

func ParseLevel(data []byte) (Level, error) {
	var level Level
	if err := yaml.Unmarshal(data, &level); err != nil {
		return Level{}, err
	}
	if level.HalfExtent < 0 {
		return Level{}, fmt.Errorf("half_extent %.3f is negative", level.HalfExtent)
	}
	if len(level.Spawns) == 0 {
		return Level{}, ErrNoSpawns
	}
	return level, nil
}

// DefaultLevel is a ring of pillars around an open square with four spawn
// points, used when no level file is configured.
func DefaultLevel() Level {
	level := Level{
		Name: "default",
		Spawns: []SpawnSpec{
			{X: 0, Y: physics.GroundY, Z: 0},
			{X: 12, Y: physics.GroundY, Z: 0},
			{X: -12, Y: physics.GroundY, Z: 0},
			{X: 0, Y: physics.GroundY, Z: 12},
		},
	}
	for i := -4; i <= 4; i++ {
		offset := float64(i) * 6
		level.Pillars = append(level.Pillars,
			PillarSpec{X: offset, Z: -24},
			PillarSpec{X: offset, Z: 24},
		)
		if i > -4 && i < 4 {
			level.Pillars = append(level.Pillars,
				PillarSpec{X: -24, Z: offset},
				PillarSpec{X: 24, Z: offset},
			)
		}
	}
	return level
}

func (l Level) Colliders() physics.Colliders {
	pillars := make([]physics.Pillar, 0, len(l.Pillars))
	for _, p := range l.Pillars {
		pillars = append(pillars, physics.Pillar{X: p.X, Z: p.Z})
	}
	return physics.Colliders{Pillars: pillars, HalfExtent: l.HalfExtent}
}

func (l Level) SpawnPoints() []physics.Vec3 {
	points := make([]physics.Vec3, 0, len(l.Spawns))
	for _, s := range l.Spawns {
		points = append(points, physics.Vec3{X: s.X, Y: s.Y, Z: s.Z})
	}
	return points
}
