// Package search picks moves with a depth-limited minimax search using
// alpha-beta pruning.
package search

import (
	"math"
	"sort"

	"github.com/domino14/connect4/board"
)

const (
	// NegInfinity and Infinity are the initial bounds of the search window.
	NegInfinity = math.MinInt32
	Infinity    = math.MaxInt32

	// WinScore is the terminal value of a position Red has won; the
	// negation is a Yellow win. Every other horizon position is 0.
	WinScore = 100
)

// Eval is the search value of dropping a piece into File.
type Eval struct {
	File  int
	Score int
}

// BestMove returns the best file for color c to play, searching depth
// plies past the move itself. Red maximizes and Yellow minimizes; ties go
// to the lowest file. It returns -1 if the board has no legal file. A
// negative depth is treated as 0.
func BestMove(b board.Board, c board.Color, depth int) int {
	evals := Evaluations(b, c, depth)
	if len(evals) == 0 {
		return -1
	}
	return evals[0].File
}

// Evaluations scores every legal file for color c, ordered best first.
// Files with equal scores stay in ascending order. A negative depth is
// treated as 0.
func Evaluations(b board.Board, c board.Color, depth int) []Eval {
	depth = max(depth, 0)
	files := b.LegalFiles()
	evals := make([]Eval, 0, len(files))
	for _, f := range files {
		// b is our own copy; each file gets a further private copy.
		cp := b
		cp.Insert(f, c)
		evals = append(evals, Eval{File: f, Score: minimax(&cp, c.Other(), depth, NegInfinity, Infinity)})
	}
	sortEvals(evals, c)
	return evals
}

func sortEvals(evals []Eval, c board.Color) {
	sort.SliceStable(evals, func(i, j int) bool {
		if c == board.Red {
			return evals[i].Score > evals[j].Score
		}
		return evals[i].Score < evals[j].Score
	})
}

// terminalScore scores a horizon position. Only a connect-4 by the side
// that just moved counts; the static evaluator is not consulted.
func terminalScore(b *board.Board, toMove board.Color) int {
	mover := toMove.Other()
	if !b.HasConnect4(mover) {
		return 0
	}
	if mover == board.Red {
		return WinScore
	}
	return -WinScore
}

// minimax returns the value of b with toMove to play. It mutates b while
// searching and leaves it as it found it: every Insert is undone before
// the loop continues or breaks.
func minimax(b *board.Board, toMove board.Color, depth, alpha, beta int) int {
	if depth == 0 {
		return terminalScore(b, toMove)
	}

	if toMove == board.Red {
		highest := NegInfinity
		for _, f := range b.LegalFiles() {
			b.Insert(f, toMove)
			score := minimax(b, toMove.Other(), depth-1, alpha, beta)
			b.Remove(f)

			highest = max(highest, score)
			alpha = max(alpha, highest)
			if beta <= alpha {
				break
			}
		}
		return highest
	}

	lowest := Infinity
	for _, f := range b.LegalFiles() {
		b.Insert(f, toMove)
		score := minimax(b, toMove.Other(), depth-1, alpha, beta)
		b.Remove(f)

		lowest = min(lowest, score)
		beta = min(beta, lowest)
		if beta <= alpha {
			break
		}
	}
	return lowest
}
