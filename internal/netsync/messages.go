package netsync

const (
	msgWelcome  = "welcome"
	msgState    = "state"
	msgLeft     = "left"
	msgRespawn  = "respawn"
	msgLeave    = "leave"
	msgPosition = "position"
)

// serverMessage covers every server→client message; fields unused by a type
// stay empty.
type serverMessage struct {
	Type    string                 `json:"type"`
	ID      string                 `json:"id,omitempty"`
	Players map[string]playerState `json:"players,omitempty"`
}

type playerState struct {
	IsAlive bool `json:"is_alive"`
}

type requestMessage struct {
	Type string `json:"type"`
}

type positionMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}
