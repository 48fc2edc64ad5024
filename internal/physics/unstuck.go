package physics

// Unstick nudges a body embedded in a pillar out along the first clear
// cardinal direction. It makes a single bounded attempt per tick; stuck
// reports that the body is still embedded afterwards.
func Unstick(state *State, colliders Colliders, t Tuning) (moved bool, stuck bool) {
	if state == nil || !colliders.Blocked(state.Position, t.PlayerRadius) {
		return false, false
	}

	offsets := [4]Vec3{
		{X: t.UnstuckOffset},
		{X: -t.UnstuckOffset},
		{Z: t.UnstuckOffset},
		{Z: -t.UnstuckOffset},
	}
	for _, offset := range offsets {
		candidate := state.Position.Add(offset)
		if !colliders.Blocked(candidate, t.PlayerRadius) {
			state.Position = candidate
			return true, false
		}
	}
	return false, true
}
