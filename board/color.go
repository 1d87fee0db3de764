package board

import (
	"fmt"
	"strings"
)

// Color is the color of a piece, and also identifies a side. Red is the
// maximizing side in search, Yellow the minimizing side.
type Color uint8

const (
	Red Color = iota
	Yellow
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// Rune is the notation character for the color.
func (c Color) Rune() rune {
	if c == Red {
		return 'r'
	}
	return 'y'
}

// ColorFromString parses a color name or its first letter, case-insensitively.
func ColorFromString(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "red":
		return Red, nil
	case "y", "yellow":
		return Yellow, nil
	}
	return Red, fmt.Errorf("invalid color %q: use red or yellow", s)
}
