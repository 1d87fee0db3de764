package board

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

var swapColors = strings.NewReplacer("r", "y", "y", "r")

// slowSideScore walks every 4-cell window instead of using run masks.
func slowSideScore(b Board, c Color) int {
	score := 0
	for _, d := range lineDirections {
		potential := map[int]bool{}
		connected := map[int]bool{}
		for r := 0; r < NumRanks; r++ {
			for f := 0; f < NumFiles; f++ {
				cells := []int{}
				open, full := true, true
				for k := 0; k < ConnectLength; k++ {
					rr, ff := r+k*d[0], f+k*d[1]
					if rr < 0 || rr >= NumRanks || ff < 0 || ff >= NumFiles {
						open, full = false, false
						break
					}
					col, ok := b.ColorAt(rr, ff)
					if ok && col != c {
						open = false
					}
					if !ok || col != c {
						full = false
					}
					cells = append(cells, CellIndex(rr, ff))
				}
				for _, idx := range cells {
					if b.Pieces(c)&(1<<idx) == 0 {
						continue
					}
					if open {
						potential[idx] = true
					}
					if full {
						connected[idx] = true
					}
				}
			}
		}
		score += len(potential)*PotentialLineWeight + len(connected)*ConnectWeight
	}
	return score
}

func TestEvaluateEmpty(t *testing.T) {
	is := is.New(t)
	is.Equal(New().Evaluate(), 0)
}

func TestEvaluateSinglePieces(t *testing.T) {
	is := is.New(t)
	b := New()
	b.Insert(3, Red)
	// horizontal, vertical and both diagonals are all open.
	is.Equal(b.Evaluate(), 4)

	b.Insert(3, Yellow)
	// red loses its vertical line; yellow has all four.
	is.Equal(b.Evaluate(), 3-4)

	corner := New()
	corner.Insert(0, Red)
	// no down-right diagonal fits through the corner.
	is.Equal(corner.Evaluate(), 3)
}

func TestEvaluateCompletedLine(t *testing.T) {
	is := is.New(t)
	b, err := FromNotation("7/7/7/7/7/rrrr3")
	is.NoErr(err)
	// potential: 4 horizontal + 4 vertical + 1 diagonal + 4 anti-diagonal.
	is.Equal(b.Evaluate(), 13+4*ConnectWeight)
}

func TestEvaluateColorSwapNegates(t *testing.T) {
	is := is.New(t)
	positions := []string{
		"7/7/7/7/2yyy2/2rrrr1",
		"7/7/6y/r5y/r5y/r5y",
		"7/7/3y3/2y3r/1y4r/y5r",
		"r6/yr5/1yr4/2yr3/7/7",
		"7/7/3y3/2yr3/1ryr1y1/yrryrr1",
	}
	for _, pos := range positions {
		b, err := FromNotation(pos)
		is.NoErr(err)
		mirrored, err := FromNotation(swapColors.Replace(pos))
		is.NoErr(err)
		is.Equal(b.Evaluate(), -mirrored.Evaluate())
	}
}

func TestEvaluateMatchesSlowScan(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 1000; i++ {
		b := randomBoard()
		is.Equal(b.Evaluate(), slowSideScore(b, Red)-slowSideScore(b, Yellow))
	}
}
