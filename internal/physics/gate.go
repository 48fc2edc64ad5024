package physics

// LocomotionEnabled derives the movement gate from the server's liveness
// record. An unknown local player has not been confirmed dead, so movement
// stays enabled until the first sync says otherwise.
func LocomotionEnabled(alive, known bool) bool {
	if !known {
		return true
	}
	return alive
}
