package api

import (
	"encoding/json"

	"github.com/qnkhuat/quoriterm/pkg/state"
)

// MoveRequest is the body of a pawn move.
type MoveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FenceRequest is the body of a fence placement. Orientation is sent as a
// plain string so the client can choose between the long and short forms.
type FenceRequest struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
}

// ActionResponse is what the server answers to both action endpoints.
type ActionResponse struct {
	Success   bool            `json:"success"`
	GameState json.RawMessage `json:"game_state,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// ActionResult is a decoded ActionResponse. State is set only on success.
type ActionResult struct {
	Success bool
	State   *state.GameState
	Message string
}
