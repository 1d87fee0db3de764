// Package board contains the bitboard representation of a connect-4
// position, together with win detection and a static evaluator.
package board

import (
	"errors"
	"math/bits"
)

var (
	ErrFileOutOfRange = errors.New("file out of range")
	ErrFileFull       = errors.New("file is full")
)

// Board is a position on a 7x6 grid, stored as one occupancy mask per
// color. The masks are always disjoint. A Board is a plain value: copying
// it copies the position.
//
// The zero value is an empty board.
type Board struct {
	red    uint64
	yellow uint64
}

// New returns an empty board.
func New() Board {
	return Board{}
}

// All returns every occupied cell, with the sentinel row counted as
// occupied.
func (b Board) All() uint64 {
	return b.red | b.yellow | SentinelRow
}

// Empty returns the empty playable cells.
func (b Board) Empty() uint64 {
	return ^b.All() & Playable
}

// Pieces returns the occupancy mask for a color.
func (b Board) Pieces(c Color) uint64 {
	if c == Red {
		return b.red
	}
	return b.yellow
}

// NumPieces returns the number of pieces of both colors on the board.
func (b Board) NumPieces() int {
	return bits.OnesCount64(b.red | b.yellow)
}

func (b Board) NumPiecesOf(c Color) int {
	return bits.OnesCount64(b.Pieces(c))
}

// Insert drops a piece of color c into file. It lands on the cell just
// above the topmost occupied cell in that file. Inserting into a full or
// out-of-range file does nothing.
func (b *Board) Insert(file int, c Color) {
	if file < 0 || file >= NumFiles {
		return
	}
	col := FileMask[file] & b.All()
	top := col & -col
	// For a full file, top is on row 0 and shifting it up leaves nothing.
	cell := (top >> NumFiles) & Playable
	if c == Red {
		b.red |= cell
	} else {
		b.yellow |= cell
	}
}

// Remove takes the topmost piece out of file. It must only be used to undo
// the most recent Insert into the same file. Removing from an empty file
// does nothing.
func (b *Board) Remove(file int) {
	if file < 0 || file >= NumFiles {
		return
	}
	col := FileMask[file] & b.All()
	// On an empty file the lowest bit is the sentinel, which is masked away.
	top := col & -col & Playable
	b.red &^= top
	b.yellow &^= top
}

// Drop is Insert with the file checked first.
func (b *Board) Drop(file int, c Color) error {
	if file < 0 || file >= NumFiles {
		return ErrFileOutOfRange
	}
	if b.Empty()&(1<<file) == 0 {
		return ErrFileFull
	}
	b.Insert(file, c)
	return nil
}

// LegalFiles returns, in ascending order, the files whose top cell is empty.
func (b Board) LegalFiles() []int {
	empty := b.Empty()
	files := make([]int, 0, NumFiles)
	for f := 0; f < NumFiles; f++ {
		if empty&(1<<f) != 0 {
			files = append(files, f)
		}
	}
	return files
}

// Full is true when no file can take another piece.
func (b Board) Full() bool {
	return b.Empty()&RankMask[0] == 0
}

// ColorAt returns the color of the piece at row, file. The bool is false
// for an empty or off-board cell.
func (b Board) ColorAt(row, file int) (Color, bool) {
	if row < 0 || row >= NumRanks || file < 0 || file >= NumFiles {
		return Red, false
	}
	bit := uint64(1) << CellIndex(row, file)
	switch {
	case b.red&bit != 0:
		return Red, true
	case b.yellow&bit != 0:
		return Yellow, true
	}
	return Red, false
}

// set places a piece without regard to gravity. Used by the notation parser.
func (b *Board) set(idx int, c Color) {
	bit := uint64(1) << idx
	if c == Red {
		b.red |= bit
		b.yellow &^= bit
	} else {
		b.yellow |= bit
		b.red &^= bit
	}
}
