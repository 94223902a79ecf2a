// Package communication carries player decisions over HTTP. The server side
// exposes a local player as an agent; the client side is a player backed by
// a remote agent.
package communication

const (
	DecidePath = "/decide"
	ResetPath  = "/reset"
)

// DecideRequest describes the state to decide for by the actions played
// from the initial state. The agent replays them on its own game.
type DecideRequest struct {
	History []int `json:"history"`
}

type DecideResponse struct {
	Action int `json:"action"`
}
