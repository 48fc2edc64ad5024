package body

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Versifine/corridor/internal/event"
	"github.com/Versifine/corridor/internal/physics"
	"github.com/Versifine/corridor/internal/world"
)

var ErrNilBody = errors.New("body is nil")

const respawnRequestInterval = time.Second

// LivenessSource is the server-owned liveness record.
type LivenessSource interface {
	LocalID() string
	LocalAlive() (alive bool, known bool)
}

// CameraSource returns ok=false while no camera is attached.
type CameraSource interface {
	Orientation() (physics.Quat, bool)
}

type RespawnRequester interface {
	RequestRespawn() error
}

type PositionReporter interface {
	ReportPosition(pos physics.Vec3) error
}

type Options struct {
	Level     world.Level
	Tuning    physics.Tuning
	Liveness  LivenessSource
	Camera    CameraSource
	Respawner RespawnRequester
	Reporter  PositionReporter
	Bus       *event.Bus
}

// Body is the locally controlled player. Its state is written only by Tick
// and by explicit resets (respawn, teleport).
type Body struct {
	mu        sync.Mutex
	state     physics.State
	tuning    physics.Tuning
	colliders physics.Colliders
	spawns    []physics.Vec3
	nextSpawn int
	staged    *world.Level

	liveness  LivenessSource
	camera    CameraSource
	respawner RespawnRequester
	reporter  PositionReporter
	bus       *event.Bus

	enabled       bool
	lastRespawnAt time.Time
	cameraIdle    bool
	stuck         bool
	now           func() time.Time
}

func New(opts Options) *Body {
	b := &Body{
		tuning:    opts.Tuning,
		liveness:  opts.Liveness,
		camera:    opts.Camera,
		respawner: opts.Respawner,
		reporter:  opts.Reporter,
		bus:       opts.Bus,
		enabled:   true,
		now:       time.Now,
	}
	if b.tuning == (physics.Tuning{}) {
		b.tuning = physics.DefaultTuning()
	}
	b.applyLevelLocked(opts.Level)
	b.state = physics.NewState(b.takeSpawnLocked())
	return b
}

// Tick runs one locomotion step and returns the resulting state. Errors come
// only from the outbound collaborators; the state has already advanced when
// one is returned.
func (b *Body) Tick(dt float64, input InputState) (physics.State, error) {
	if b == nil {
		return physics.State{}, ErrNilBody
	}

	alive, known := false, false
	if b.liveness != nil {
		alive, known = b.liveness.LocalAlive()
	}
	enabled := physics.LocomotionEnabled(alive, known)

	b.mu.Lock()
	source := b.camera
	b.mu.Unlock()

	var camera *physics.Quat
	if source != nil {
		if q, ok := source.Orientation(); ok {
			camera = &q
		}
	}

	var published []func()

	b.mu.Lock()
	if b.enabled && !enabled {
		evt := event.LivenessEvent{PlayerID: b.localID(), Position: b.state.Position}
		published = append(published, func() { b.bus.Publish(event.EventDeath, evt) })
		slog.Info("Local player died, locomotion disabled", "x", evt.Position.X, "y", evt.Position.Y, "z", evt.Position.Z)
	}
	if !b.enabled && enabled {
		if b.staged != nil {
			published = append(published, b.applyStagedLocked())
		}
		b.state.Respawn(b.takeSpawnLocked())
		evt := event.LivenessEvent{PlayerID: b.localID(), Position: b.state.Position}
		published = append(published, func() { b.bus.Publish(event.EventRespawn, evt) })
		slog.Info("Local player respawned", "x", evt.Position.X, "y", evt.Position.Y, "z", evt.Position.Z)
	}
	b.enabled = enabled

	res := physics.Tick(&b.state, physics.Frame{
		DT:      dt,
		Input:   input,
		Camera:  camera,
		Enabled: enabled,
	}, b.colliders, b.tuning)
	state := b.state

	if res.CameraMissing && !b.cameraIdle {
		slog.Debug("No camera attached, movement idle")
	}
	b.cameraIdle = res.CameraMissing

	if res.Stuck && !b.stuck {
		slog.Warn("Player embedded in pillar, nudges failed", "x", state.Position.X, "z", state.Position.Z)
		evt := event.StuckEvent{Position: state.Position}
		published = append(published, func() { b.bus.Publish(event.EventStuck, evt) })
	}
	if res.Unstuck {
		slog.Debug("Nudged player out of pillar", "x", state.Position.X, "z", state.Position.Z)
	}
	b.stuck = res.Stuck

	requestRespawn := false
	if !enabled && input.Respawn {
		now := b.now()
		if b.lastRespawnAt.IsZero() || now.Sub(b.lastRespawnAt) >= respawnRequestInterval {
			b.lastRespawnAt = now
			requestRespawn = true
		}
	}
	if enabled {
		b.lastRespawnAt = time.Time{}
	}
	b.mu.Unlock()

	for _, publish := range published {
		publish()
	}

	if requestRespawn {
		if err := b.sendRespawnRequest(); err != nil {
			return state, err
		}
	}

	if enabled && b.reporter != nil {
		if err := b.reporter.ReportPosition(state.Position); err != nil {
			return state, fmt.Errorf("report position: %w", err)
		}
	}
	return state, nil
}

func (b *Body) sendRespawnRequest() error {
	evt := event.RespawnRequestEvent{PlayerID: b.localID()}
	var err error
	if b.respawner != nil {
		err = b.respawner.RequestRespawn()
		evt.Sent = err == nil
	}
	b.bus.Publish(event.EventRespawnRequest, evt)
	if err != nil {
		return fmt.Errorf("request respawn: %w", err)
	}
	slog.Info("Manual respawn requested", "sent", evt.Sent)
	return nil
}

func (b *Body) State() physics.State {
	if b == nil {
		return physics.State{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Enabled is the authority gate as of the last tick.
func (b *Body) Enabled() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

func (b *Body) Colliders() physics.Colliders {
	if b == nil {
		return physics.Colliders{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.colliders
}

// SetLocalPosition teleports the body. Vertical velocity is dropped; the
// next tick recomputes Grounded.
func (b *Body) SetLocalPosition(pos physics.Vec3) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.Respawn(pos)
}

// AttachCamera swaps the camera source. A nil source leaves the body idle
// until one is attached.
func (b *Body) AttachCamera(camera CameraSource) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.camera = camera
}

// StageLevel queues a level to take effect at the next respawn, so pillars
// never move under a living player.
func (b *Body) StageLevel(level world.Level) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.staged = &level
	b.mu.Unlock()
	b.bus.Publish(event.EventLevelStaged, levelEvent(level))
}

func (b *Body) applyStagedLocked() func() {
	level := *b.staged
	b.staged = nil
	b.applyLevelLocked(level)
	slog.Info("Applied staged level", "name", level.Name, "pillars", len(level.Pillars))
	return func() { b.bus.Publish(event.EventLevelApplied, levelEvent(level)) }
}

func (b *Body) applyLevelLocked(level world.Level) {
	b.colliders = level.Colliders()
	if b.colliders.HalfExtent == 0 {
		b.colliders.HalfExtent = b.tuning.WallHalfExtent
	}
	b.spawns = level.SpawnPoints()
	b.nextSpawn = 0
}

func (b *Body) takeSpawnLocked() physics.Vec3 {
	if len(b.spawns) == 0 {
		return physics.Vec3{Y: b.tuning.GroundY}
	}
	spawn := b.spawns[b.nextSpawn%len(b.spawns)]
	b.nextSpawn = (b.nextSpawn + 1) % len(b.spawns)
	return spawn
}

func (b *Body) localID() string {
	if b.liveness == nil {
		return ""
	}
	return b.liveness.LocalID()
}

func levelEvent(level world.Level) event.LevelEvent {
	return event.LevelEvent{Name: level.Name, Pillars: len(level.Pillars), Spawns: len(level.Spawns)}
}
