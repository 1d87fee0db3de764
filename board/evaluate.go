package board

import "math/bits"

const (
	// PotentialLineWeight is credited for each piece lying on a line of
	// four cells that can still be completed.
	PotentialLineWeight = 1
	// ConnectWeight is credited for each piece in a completed line. One
	// completed line is worth 4*ConnectWeight, more than any side's
	// potential-line total can reach (4 directions x 21 pieces).
	ConnectWeight = NumCells
)

// Evaluate returns a static score for the position; positive favors Red.
// Swapping the colors of every piece negates the score.
func (b Board) Evaluate() int {
	return b.sideScore(Red) - b.sideScore(Yellow)
}

func (b Board) sideScore(c Color) int {
	own := b.Pieces(c) & Playable
	open := own | b.Empty()
	score := 0
	for _, d := range directions {
		potential := runCover(runEnds(open, d), d) & own
		connected := runCover(runEnds(own, d), d) & own
		score += PotentialLineWeight * bits.OnesCount64(potential)
		score += ConnectWeight * bits.OnesCount64(connected)
	}
	return score
}
