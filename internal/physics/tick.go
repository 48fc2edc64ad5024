package physics

type State struct {
	Position         Vec3
	VerticalVelocity float64
	Grounded         bool
}

func NewState(spawn Vec3) State {
	return State{Position: spawn}
}

// Respawn puts the body back at spawn. Grounded is recomputed by the next
// tick's gravity step.
func (s *State) Respawn(spawn Vec3) {
	if s == nil {
		return
	}
	*s = NewState(spawn)
}

type Input struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	// Jump is the press edge, not the held state.
	Jump bool
	// Respawn asks the server for a respawn; physics ignores it.
	Respawn bool
}

// Frame is everything a tick reads from outside the body.
type Frame struct {
	DT     float64
	Input  Input
	Camera *Quat
	// Enabled is the authority gate for this tick.
	Enabled bool
}

type Result struct {
	Gated         bool
	CameraMissing bool
	Unstuck       bool
	Stuck         bool
}

// Tick advances the body by one step: gate, gravity and jump, horizontal
// move, then the stuck corrector. A closed gate freezes the body; a missing
// camera idles the movement update for this tick. The stuck corrector runs in
// both cases.
func Tick(state *State, frame Frame, colliders Colliders, t Tuning) Result {
	var res Result
	if state == nil {
		return res
	}

	switch {
	case !frame.Enabled:
		res.Gated = true
	case frame.Camera == nil:
		res.CameraMissing = true
	default:
		ApplyGravity(state, frame.DT, t)
		ApplyJump(state, frame.Input.Jump, frame.DT, t)
		MoveHorizontal(state, frame.Input, YawFromQuat(*frame.Camera), frame.DT, colliders, t)
	}

	res.Unstuck, res.Stuck = Unstick(state, colliders, t)
	return res
}
