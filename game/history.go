package game

import (
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/connect4/board"
)

// Turn is one move of the game.
type Turn struct {
	Color board.Color
	File  int
}

func (t Turn) String() string {
	return string(t.Color.Rune()) + strconv.Itoa(t.File)
}

// History returns the moves played so far, oldest first.
func (g *Game) History() []Turn {
	return slices.Clone(g.history)
}

// MoveList is the history as space-separated files.
func (g *Game) MoveList() string {
	return strings.Join(lo.Map(g.history, func(t Turn, _ int) string {
		return strconv.Itoa(t.File)
	}), " ")
}

// ResetToFirstState unplays every move in the history.
func (g *Game) ResetToFirstState() {
	for g.UnplayLastMove() == nil {
	}
}
