package physics

import "math"

// Quat is a camera orientation (x, y, z, w), Y up.
type Quat struct {
	X float64
	Y float64
	Z float64
	W float64
}

func QuatFromYaw(yaw float64) Quat {
	half := yaw / 2
	return Quat{Y: math.Sin(half), W: math.Cos(half)}
}

// YawFromQuat returns the Y rotation of q decomposed in YXZ order. Pitch and
// roll are dropped so looking up or down never lifts the movement vector.
func YawFromQuat(q Quat) float64 {
	return math.Atan2(
		2*(q.X*q.Z+q.W*q.Y),
		q.W*q.W-q.X*q.X-q.Y*q.Y+q.Z*q.Z,
	)
}

// RotateByYaw rotates dir about +Y by yaw radians.
func RotateByYaw(dir Vec3, yaw float64) Vec3 {
	sin, cos := math.Sincos(yaw)
	return Vec3{
		X: dir.X*cos + dir.Z*sin,
		Y: dir.Y,
		Z: -dir.X*sin + dir.Z*cos,
	}
}

// DesiredDirection is the normalized input-space direction. Forward is -Z.
func DesiredDirection(input Input) Vec3 {
	var dir Vec3
	if input.Forward {
		dir.Z -= 1
	}
	if input.Backward {
		dir.Z += 1
	}
	if input.Left {
		dir.X -= 1
	}
	if input.Right {
		dir.X += 1
	}
	return dir.Normalize()
}

// MoveHorizontal slides the body along pillars. X is tried first, then Z from
// the X-updated position, so a blocked axis does not cancel the free one.
func MoveHorizontal(state *State, input Input, yaw, dt float64, colliders Colliders, t Tuning) {
	if state == nil {
		return
	}

	dir := DesiredDirection(input)
	if dir.LengthSquared() == 0 {
		return
	}
	delta := RotateByYaw(dir, yaw).Scale(t.PlayerSpeed * dt)

	candidateX := state.Position
	candidateX.X += delta.X
	if !colliders.Blocked(candidateX, t.PlayerRadius) {
		state.Position.X = candidateX.X
	}

	candidateZ := state.Position
	candidateZ.Z += delta.Z
	if !colliders.Blocked(candidateZ, t.PlayerRadius) {
		state.Position.Z = candidateZ.Z
	}
}
