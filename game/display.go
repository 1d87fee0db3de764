package game

import (
	"fmt"
	"strings"
)

// ToDisplayText turns the current state of the game into a displayable
// string.
func (g *Game) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString(g.board.ToDisplayText())
	sb.WriteString("\n")
	sb.WriteString(g.statusLine())
	sb.WriteString("\n")
	if len(g.history) > 0 {
		fmt.Fprintf(&sb, "moves: %s\n", g.MoveList())
	}
	return sb.String()
}

func (g *Game) statusLine() string {
	switch g.playing {
	case StateWon:
		return fmt.Sprintf("%s wins after %d moves", g.winner, len(g.history))
	case StateDraw:
		return "the game is a draw"
	}
	return fmt.Sprintf("%s to move (turn %d)", g.onturn, len(g.history)+1)
}
