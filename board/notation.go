package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Board notation is a compact, FEN-like description of a position: six
// row groups separated by '/', top row first. Inside a group, a digit 1-7
// stands for that many empty cells and 'r' / 'y' for a red / yellow piece.
// The empty board is "7/7/7/7/7/7".

// ParseError describes why a notation string was rejected.
type ParseError struct {
	// Char is the offending character, or 0 when the input ended early.
	Char rune
	// Offset is the cell offset (0-41) at which parsing failed.
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Char == 0 {
		return fmt.Sprintf("notation: %s at cell %d", e.Reason, e.Offset)
	}
	return fmt.Sprintf("notation: %s at cell %d (%q)", e.Reason, e.Offset, e.Char)
}

// FromNotation builds a board from its notation. Pieces are placed exactly
// where written, so the result may violate gravity.
func FromNotation(text string) (Board, error) {
	var b Board
	offset := 0
	row := 0

	place := func(rn rune, n int) error {
		if offset+n > NumCells {
			return &ParseError{Char: rn, Offset: offset, Reason: "too many cells"}
		}
		if (offset+n-1)/NumFiles != row {
			return &ParseError{Char: rn, Offset: offset, Reason: "row overflows without separator"}
		}
		return nil
	}

	for _, rn := range strings.TrimSpace(text) {
		switch {
		case rn >= '1' && rn <= '7':
			n := int(rn - '0')
			if err := place(rn, n); err != nil {
				return Board{}, err
			}
			offset += n
		case rn == 'r' || rn == 'y':
			if err := place(rn, 1); err != nil {
				return Board{}, err
			}
			if rn == 'r' {
				b.set(offset, Red)
			} else {
				b.set(offset, Yellow)
			}
			offset++
		case rn == '/':
			if row == NumRanks-1 {
				return Board{}, &ParseError{Char: rn, Offset: offset, Reason: "too many rows"}
			}
			if offset != (row+1)*NumFiles {
				return Board{}, &ParseError{Char: rn, Offset: offset, Reason: "misaligned row separator"}
			}
			row++
		default:
			return Board{}, &ParseError{Char: rn, Offset: offset, Reason: "unrecognized character"}
		}
	}
	if offset != NumCells {
		return Board{}, &ParseError{Offset: offset, Reason: "not enough cells"}
	}
	return b, nil
}

// Notation returns the notation for the board. FromNotation(b.Notation())
// reproduces b.
func (b Board) Notation() string {
	var sb strings.Builder
	for r := 0; r < NumRanks; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empties := 0
		for f := 0; f < NumFiles; f++ {
			c, ok := b.ColorAt(r, f)
			if !ok {
				empties++
				continue
			}
			if empties > 0 {
				sb.WriteString(strconv.Itoa(empties))
				empties = 0
			}
			sb.WriteRune(c.Rune())
		}
		if empties > 0 {
			sb.WriteString(strconv.Itoa(empties))
		}
	}
	return sb.String()
}
