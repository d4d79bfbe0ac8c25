package gui

import "github.com/qnkhuat/quoriterm/pkg/state"

func name(s string) *string { return &s }

func gameState() *state.GameState {
	return &state.GameState{
		ID:            "1",
		Player1:       state.Player{Username: "alice", Pawn: state.Position{X: 4, Y: 0}, Fences: 10},
		Player2:       state.Player{Username: "bob", Pawn: state.Position{X: 4, Y: 8}, Fences: 9},
		CurrentPlayer: &state.PlayerRef{Username: name("alice")},
		FencesPlaced:  []state.Fence{{X: 2, Y: 3, Orientation: state.Horizontal}},
		Winner:        &state.PlayerRef{},
	}
}

func wonState() *state.GameState {
	s := gameState()
	s.Player1.Pawn = state.Position{X: 4, Y: 8}
	s.Player2.Pawn = state.Position{X: 4, Y: 7}
	s.Winner = &state.PlayerRef{Username: name("alice")}
	return s
}
