package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qnkhuat/quoriterm/pkg/state"
)

func name(s string) *string { return &s }

func initialState() *state.GameState {
	return &state.GameState{
		ID:            "1",
		Player1:       state.Player{Username: "alice", Pawn: state.Position{X: 4, Y: 0}, Fences: 10},
		Player2:       state.Player{Username: "bob", Pawn: state.Position{X: 4, Y: 8}, Fences: 10},
		CurrentPlayer: &state.PlayerRef{Username: name("alice")},
		FencesPlaced:  []state.Fence{},
	}
}

func countPawns(v View) map[Marker]int {
	counts := map[Marker]int{}
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if p := v.Cells[y][x].Pawn; p != NoPawn {
				counts[p]++
			}
		}
	}
	return counts
}

func TestProject_Initial(t *testing.T) {
	v := Project(initialState())

	c, ok := v.Cell(4, 0)
	require.True(t, ok)
	assert.Equal(t, Player1, c.Pawn)
	c, ok = v.Cell(4, 8)
	require.True(t, ok)
	assert.Equal(t, Player2, c.Pawn)

	assert.Equal(t, map[Marker]int{Player1: 1, Player2: 1}, countPawns(v))
	assert.Equal(t, "alice", v.Turn)
	assert.Equal(t, PlayerLabel{Name: "alice", Fences: 10}, v.Player1)
	assert.Equal(t, PlayerLabel{Name: "bob", Fences: 10}, v.Player2)
	assert.True(t, v.Interactive)
	assert.Empty(t, v.Winner)
}

func TestProject_Idempotent(t *testing.T) {
	s := initialState()
	s.FencesPlaced = []state.Fence{
		{X: 3, Y: 3, Orientation: state.Horizontal},
		{X: 5, Y: 2, Orientation: state.Vertical},
	}

	assert.Equal(t, Project(s), Project(s))
}

func TestProject_MoveScenario(t *testing.T) {
	before := Project(initialState())

	next := initialState()
	next.Player1.Pawn = state.Position{X: 4, Y: 1}
	next.CurrentPlayer = &state.PlayerRef{Username: name("bob")}
	after := Project(next)

	c, _ := before.Cell(4, 0)
	assert.Equal(t, Player1, c.Pawn)

	c, _ = after.Cell(4, 0)
	assert.Equal(t, NoPawn, c.Pawn)
	c, _ = after.Cell(4, 1)
	assert.Equal(t, Player1, c.Pawn)
	assert.Equal(t, map[Marker]int{Player1: 1, Player2: 1}, countPawns(after))
	assert.Equal(t, "bob", after.Turn)
}

func TestProject_FencesFullSnapshot(t *testing.T) {
	s := initialState()
	s.FencesPlaced = []state.Fence{
		{X: 3, Y: 3, Orientation: state.Horizontal},
		{X: 3, Y: 3, Orientation: state.Vertical},
	}
	v := Project(s)
	c, _ := v.Cell(3, 3)
	assert.True(t, c.HFence)
	assert.True(t, c.VFence)
	assert.Equal(t, "·═║", c.Glyph())

	// A later snapshot with fewer fences clears the missing ones.
	s.FencesPlaced = s.FencesPlaced[:1]
	v = Project(s)
	c, _ = v.Cell(3, 3)
	assert.True(t, c.HFence)
	assert.False(t, c.VFence)
}

func TestProject_SkipsOffBoardCoordinates(t *testing.T) {
	s := initialState()
	s.Player2.Pawn = state.Position{X: 9, Y: 12}
	s.FencesPlaced = []state.Fence{
		{X: -1, Y: 0, Orientation: state.Vertical},
		{X: 2, Y: 2, Orientation: state.Vertical},
	}

	v := Project(s)

	assert.Equal(t, map[Marker]int{Player1: 1}, countPawns(v))
	c, _ := v.Cell(2, 2)
	assert.True(t, c.VFence)
	_, ok := v.Cell(9, 12)
	assert.False(t, ok)
}

func TestProject_SkipsUnknownOrientation(t *testing.T) {
	s := initialState()
	s.FencesPlaced = []state.Fence{
		{X: 1, Y: 1, Orientation: state.Orientation("diagonal")},
		{X: 2, Y: 2, Orientation: state.Horizontal},
	}

	v := Project(s)

	c, _ := v.Cell(1, 1)
	assert.Equal(t, Cell{}, c)
	c, _ = v.Cell(2, 2)
	assert.True(t, c.HFence)
}

func TestProject_Winner(t *testing.T) {
	s := initialState()
	s.Player1.Pawn = state.Position{X: 4, Y: 8}
	s.Winner = &state.PlayerRef{Username: name("alice")}

	v := Project(s)
	assert.False(t, v.Interactive)
	assert.Equal(t, "alice", v.Winner)
	assert.Equal(t, "alice wins the game!", WinMessage(v.Winner))

	assert.Equal(t, v, Project(s))
}

func TestProject_Nil(t *testing.T) {
	v := Project(nil)
	assert.True(t, v.Interactive)
	assert.Empty(t, countPawns(v))
}

func TestCell_Glyph(t *testing.T) {
	assert.Equal(t, "·  ", Cell{}.Glyph())
	assert.Equal(t, "1  ", Cell{Pawn: Player1}.Glyph())
	assert.Equal(t, "2═ ", Cell{Pawn: Player2, HFence: true}.Glyph())
}
