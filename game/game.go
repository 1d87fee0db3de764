// Package game encapsulates the rules of a game of connect-4 on top of a
// board: whose turn it is, the move history, and when the game is over.
// Engines and humans play a Game from outside this package.
package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/connect4/board"
)

var (
	ErrIllegalFile = errors.New("illegal file")
	ErrGameOver    = errors.New("game is over")
	ErrNoMoves     = errors.New("no moves to undo")
)

type PlayState uint8

const (
	StatePlaying PlayState = iota
	StateWon
	StateDraw
)

func (p PlayState) String() string {
	switch p {
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	case StateDraw:
		return "draw"
	}
	return "unknown"
}

// Game is the state of a single game. The zero value is not usable; create
// one with NewGame or FromNotation.
type Game struct {
	board     board.Board
	onturn    board.Color
	wentfirst board.Color
	playing   PlayState
	winner    board.Color
	history   []Turn
}

// NewGame starts a game on the empty board with first to move.
func NewGame(first board.Color) *Game {
	return &Game{
		board:     board.New(),
		onturn:    first,
		wentfirst: first,
		playing:   StatePlaying,
	}
}

// NewGameRandomFirst starts a game with a randomly picked first player.
func NewGameRandomFirst() *Game {
	first := board.Color(frand.Intn(2))
	log.Debug().Str("first", first.String()).Msg("picked-first-player")
	return NewGame(first)
}

// FromNotation starts a game from an arbitrary position. The loaded
// position has no history, so it cannot be undone past.
func FromNotation(text string, onTurn board.Color) (*Game, error) {
	b, err := board.FromNotation(text)
	if err != nil {
		return nil, err
	}
	g := &Game{
		board:     b,
		onturn:    onTurn,
		wentfirst: onTurn,
		playing:   StatePlaying,
	}
	if w, ok := b.Winner(); ok {
		g.playing = StateWon
		g.winner = w
	} else if b.Full() {
		g.playing = StateDraw
	}
	return g, nil
}

// PlayFile drops a piece of the color on turn into file.
func (g *Game) PlayFile(file int) error {
	if g.playing != StatePlaying {
		return ErrGameOver
	}
	if !lo.Contains(g.board.LegalFiles(), file) {
		return fmt.Errorf("%w: %d", ErrIllegalFile, file)
	}
	c := g.onturn
	g.board.Insert(file, c)
	g.history = append(g.history, Turn{Color: c, File: file})
	log.Debug().Str("color", c.String()).Int("file", file).Int("turn", len(g.history)).Msg("played-file")

	switch {
	case g.board.HasConnect4(c):
		g.playing = StateWon
		g.winner = c
		log.Debug().Str("winner", c.String()).Msg("game-won")
	case g.board.Full():
		g.playing = StateDraw
		log.Debug().Msg("game-drawn")
	}
	g.onturn = c.Other()
	return nil
}

// UnplayLastMove takes back the last move played, reopening the game if it
// had ended.
func (g *Game) UnplayLastMove() error {
	if len(g.history) == 0 {
		return ErrNoMoves
	}
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.board.Remove(last.File)
	g.onturn = last.Color
	g.playing = StatePlaying
	return nil
}

// Board returns a copy of the current position.
func (g *Game) Board() board.Board {
	return g.board
}

func (g *Game) PlayerOnTurn() board.Color {
	return g.onturn
}

func (g *Game) FirstPlayer() board.Color {
	return g.wentfirst
}

// Winner returns the winning color, if the game has been won.
func (g *Game) Winner() (board.Color, bool) {
	return g.winner, g.playing == StateWon
}

func (g *Game) Playing() PlayState {
	return g.playing
}

// Turn is the number of moves played since the game started.
func (g *Game) Turn() int {
	return len(g.history)
}
