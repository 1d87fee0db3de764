package game

import (
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/connect4/board"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	g := NewGame(board.Yellow)
	is.Equal(g.PlayerOnTurn(), board.Yellow)
	is.Equal(g.FirstPlayer(), board.Yellow)
	is.Equal(g.Playing(), StatePlaying)
	is.Equal(g.Board(), board.New())
	is.Equal(g.Turn(), 0)
	_, won := g.Winner()
	is.True(!won)
}

func TestNewGameRandomFirst(t *testing.T) {
	is := is.New(t)
	seen := map[board.Color]bool{}
	for i := 0; i < 200; i++ {
		g := NewGameRandomFirst()
		is.True(g.PlayerOnTurn() == board.Red || g.PlayerOnTurn() == board.Yellow)
		seen[g.PlayerOnTurn()] = true
	}
	is.Equal(len(seen), 2)
}

func TestPlayAlternates(t *testing.T) {
	is := is.New(t)
	g := NewGame(board.Red)
	is.NoErr(g.PlayFile(3))
	is.Equal(g.PlayerOnTurn(), board.Yellow)
	is.NoErr(g.PlayFile(3))
	is.Equal(g.PlayerOnTurn(), board.Red)

	b := g.Board()
	c, ok := b.ColorAt(5, 3)
	is.True(ok)
	is.Equal(c, board.Red)
	c, ok = b.ColorAt(4, 3)
	is.True(ok)
	is.Equal(c, board.Yellow)
	is.Equal(g.History(), []Turn{{Color: board.Red, File: 3}, {Color: board.Yellow, File: 3}})
	is.Equal(g.MoveList(), "3 3")
}

func TestPlayIllegal(t *testing.T) {
	g := NewGame(board.Red)
	for i := 0; i < board.NumRanks; i++ {
		require.NoError(t, g.PlayFile(0))
	}
	err := g.PlayFile(0)
	assert.True(t, errors.Is(err, ErrIllegalFile))
	assert.EqualError(t, err, "illegal file: 0")
	assert.ErrorIs(t, g.PlayFile(-1), ErrIllegalFile)
	assert.ErrorIs(t, g.PlayFile(7), ErrIllegalFile)
	// nothing changed
	assert.Equal(t, board.NumRanks, g.Turn())
	assert.Equal(t, board.Red, g.PlayerOnTurn())
}

func TestWinAndUndo(t *testing.T) {
	is := is.New(t)
	g := NewGame(board.Red)
	for _, f := range []int{0, 0, 1, 1, 2, 2} {
		is.NoErr(g.PlayFile(f))
	}
	is.NoErr(g.PlayFile(3))
	is.Equal(g.Playing(), StateWon)
	w, won := g.Winner()
	is.True(won)
	is.Equal(w, board.Red)
	is.True(errors.Is(g.PlayFile(4), ErrGameOver))

	is.NoErr(g.UnplayLastMove())
	is.Equal(g.Playing(), StatePlaying)
	is.Equal(g.PlayerOnTurn(), board.Red)
	_, won = g.Winner()
	is.True(!won)
	is.Equal(g.Turn(), 6)
}

func TestDraw(t *testing.T) {
	is := is.New(t)
	// one cell short of a full board with no line of four.
	g, err := FromNotation("1ryyrry/rryyrry/rryyrry/yyrryyr/rryyrry/rryyrry", board.Red)
	is.NoErr(err)
	is.Equal(g.Playing(), StatePlaying)
	is.NoErr(g.PlayFile(0))
	is.Equal(g.Playing(), StateDraw)
	is.True(errors.Is(g.PlayFile(0), ErrGameOver))
}

func TestFromNotation(t *testing.T) {
	is := is.New(t)
	g, err := FromNotation("7/7/7/7/7/yyyy3", board.Red)
	is.NoErr(err)
	is.Equal(g.Playing(), StateWon)
	w, _ := g.Winner()
	is.Equal(w, board.Yellow)
	is.True(errors.Is(g.UnplayLastMove(), ErrNoMoves))

	_, err = FromNotation("7/7/7/7/7/8", board.Red)
	var perr *board.ParseError
	is.True(errors.As(err, &perr))
}

func TestResetToFirstState(t *testing.T) {
	is := is.New(t)
	g, err := FromNotation("7/7/7/7/7/3r3", board.Yellow)
	is.NoErr(err)
	start := g.Board()
	for _, f := range []int{3, 4, 4, 2} {
		is.NoErr(g.PlayFile(f))
	}
	g.ResetToFirstState()
	is.Equal(g.Board(), start)
	is.Equal(g.PlayerOnTurn(), board.Yellow)
	is.Equal(g.Turn(), 0)
}

func TestToDisplayText(t *testing.T) {
	g := NewGame(board.Red)
	require.NoError(t, g.PlayFile(2))
	txt := g.ToDisplayText()
	assert.Contains(t, txt, "yellow to move (turn 2)")
	assert.Contains(t, txt, "moves: 2")
}
