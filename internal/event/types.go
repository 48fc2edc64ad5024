package event

import "github.com/Versifine/corridor/internal/physics"

const (
	EventDeath          = "player.death"
	EventRespawn        = "player.respawn"
	EventRespawnRequest = "player.respawn_request"
	EventStuck          = "player.stuck"
	EventLevelStaged    = "level.staged"
	EventLevelApplied   = "level.applied"
)

// LivenessEvent is published when the server flips the local player's
// liveness.
type LivenessEvent struct {
	PlayerID string
	Position physics.Vec3
}

type RespawnRequestEvent struct {
	PlayerID string
	Sent     bool
}

type StuckEvent struct {
	Position physics.Vec3
}

type LevelEvent struct {
	Name    string
	Pillars int
	Spawns  int
}
