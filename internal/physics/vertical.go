package physics

// ApplyGravity clamps the body to the ground plane or integrates one step of
// free fall.
func ApplyGravity(state *State, dt float64, t Tuning) {
	if state == nil {
		return
	}
	if state.Position.Y <= t.GroundY {
		state.Position.Y = t.GroundY
		state.VerticalVelocity = 0
		state.Grounded = true
		return
	}

	state.Grounded = false
	state.VerticalVelocity += t.Gravity * dt
	state.Position.Y += state.VerticalVelocity * dt
}

// ApplyJump must run after ApplyGravity so Grounded reflects this tick.
// Besides setting the vertical velocity to JumpForce it clears Grounded and
// applies one take-off step of y += vy*dt in the same tick. Without that step
// the body stays on the ground plane and the next tick's clamp zeroes the
// impulse, so a bare velocity assignment never leaves the ground.
func ApplyJump(state *State, jumpPressed bool, dt float64, t Tuning) {
	if state == nil || !jumpPressed || !state.Grounded {
		return
	}
	state.VerticalVelocity = t.JumpForce
	state.Grounded = false
	state.Position.Y += state.VerticalVelocity * dt
}
