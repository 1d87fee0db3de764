package board

import (
	"fmt"
	"strings"
)

const (
	redDisplay    = "\033[31mR\033[0m"
	yellowDisplay = "\033[33mY\033[0m"
)

// ToDisplayText turns the board into a displayable string, top row first,
// with file numbers along the bottom.
func (b Board) ToDisplayText() string {
	return b.displayText(redDisplay, yellowDisplay)
}

// ToPlainText is ToDisplayText without color escapes.
func (b Board) ToPlainText() string {
	return b.displayText("R", "Y")
}

func (b Board) displayText(red, yellow string) string {
	var str strings.Builder
	str.WriteString("\n")
	for r := 0; r < NumRanks; r++ {
		str.WriteString(" |")
		for f := 0; f < NumFiles; f++ {
			c, ok := b.ColorAt(r, f)
			switch {
			case !ok:
				str.WriteString(" .")
			case c == Red:
				str.WriteString(" " + red)
			default:
				str.WriteString(" " + yellow)
			}
		}
		str.WriteString(" |\n")
	}
	str.WriteString(" +" + strings.Repeat("--", NumFiles) + "-+\n")
	str.WriteString("  ")
	for f := 0; f < NumFiles; f++ {
		str.WriteString(fmt.Sprintf(" %d", f))
	}
	str.WriteString("\n")
	return str.String()
}
