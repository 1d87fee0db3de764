package board

// HasConnect4 is true if c has ConnectLength aligned pieces horizontally,
// vertically, or on either diagonal.
func (b Board) HasConnect4(c Color) bool {
	m := b.Pieces(c) & Playable
	for _, d := range directions {
		if runEnds(m, d) != 0 {
			return true
		}
	}
	return false
}

// Winner returns the color that has connected four, if any. If both colors
// have (only possible on a hand-built board) Red is reported.
func (b Board) Winner() (Color, bool) {
	if b.HasConnect4(Red) {
		return Red, true
	}
	if b.HasConnect4(Yellow) {
		return Yellow, true
	}
	return Red, false
}
