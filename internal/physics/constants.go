package physics

const (
	PlayerSpeed    = 15.0
	Gravity        = -9.8
	JumpForce      = 5.5
	PlayerRadius   = 0.5
	WallHalfExtent = 3.0
	GroundY        = 2.0
	UnstuckOffset  = 0.1
)

// Tuning carries the movement constants. Level content (pillar sizes, spawn
// heights) is authored against these units, so overrides must stay in step
// with the level files.
type Tuning struct {
	PlayerSpeed    float64
	Gravity        float64
	JumpForce      float64
	PlayerRadius   float64
	WallHalfExtent float64
	GroundY        float64
	UnstuckOffset  float64
}

func DefaultTuning() Tuning {
	return Tuning{
		PlayerSpeed:    PlayerSpeed,
		Gravity:        Gravity,
		JumpForce:      JumpForce,
		PlayerRadius:   PlayerRadius,
		WallHalfExtent: WallHalfExtent,
		GroundY:        GroundY,
		UnstuckOffset:  UnstuckOffset,
	}
}
