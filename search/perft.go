package search

import "github.com/domino14/connect4/board"

// Perft counts the positions reachable from b in at most depth plies with
// toMove playing first, the root included. A line stops as soon as the
// side that just moved has connected four. b is restored on return.
func Perft(b *board.Board, depth int, toMove board.Color) uint64 {
	positions := uint64(1)
	if depth == 0 || b.HasConnect4(toMove.Other()) {
		return positions
	}
	for _, f := range b.LegalFiles() {
		b.Insert(f, toMove)
		positions += Perft(b, depth-1, toMove.Other())
		b.Remove(f)
	}
	return positions
}
