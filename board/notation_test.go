package board

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestFromNotationEmpty(t *testing.T) {
	is := is.New(t)
	b, err := FromNotation("7/7/7/7/7/7")
	is.NoErr(err)
	is.Equal(b, New())
	is.Equal(New().Notation(), "7/7/7/7/7/7")
}

func TestFromNotationPlacesPieces(t *testing.T) {
	is := is.New(t)
	b, err := FromNotation("7/7/7/7/2yyy2/2rrrr1")
	is.NoErr(err)
	for f := 2; f < 6; f++ {
		c, ok := b.ColorAt(5, f)
		is.True(ok)
		is.Equal(c, Red)
	}
	for f := 2; f < 5; f++ {
		c, ok := b.ColorAt(4, f)
		is.True(ok)
		is.Equal(c, Yellow)
	}
	is.Equal(b.NumPieces(), 7)
}

func TestFromNotationIgnoresGravity(t *testing.T) {
	is := is.New(t)
	b, err := FromNotation("r6/7/7/7/7/7")
	is.NoErr(err)
	c, ok := b.ColorAt(0, 0)
	is.True(ok)
	is.Equal(c, Red)
	is.Equal(b.LegalFiles(), []int{1, 2, 3, 4, 5, 6})
}

func TestNotationRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, n := range []string{
		"7/7/3y3/2y3r/1y4r/y5r",
		"r6/yr5/1yr4/2yr3/7/7",
		"ryryryr/yryryry/ryryryr/yryryry/ryryryr/yryryry",
	} {
		b, err := FromNotation(n)
		is.NoErr(err)
		is.Equal(b.Notation(), n)
	}
	for i := 0; i < 200; i++ {
		b := randomBoard()
		rt, err := FromNotation(b.Notation())
		is.NoErr(err)
		is.Equal(rt, b)
	}
}

func TestFromNotationErrors(t *testing.T) {
	is := is.New(t)
	testcases := []struct {
		notation string
		char     rune
		offset   int
		reason   string
	}{
		{"7/7/7/7/7/7r", 'r', 42, "too many cells"},
		{"7/7/7/7/7/7/", '/', 42, "too many rows"},
		{"6/7/7/7/7/7", '/', 6, "misaligned row separator"},
		{"77/7/7/7/7", '7', 7, "row overflows without separator"},
		{"7/7/7/7/7/3x3", 'x', 38, "unrecognized character"},
		{"7/7/7/7/7/8", '8', 35, "unrecognized character"},
		{"7/7/7/7/7/0", '0', 35, "unrecognized character"},
		{"7/7/7/7/7/R6", 'R', 35, "unrecognized character"},
		{"7/7/7/7/7", 0, 35, "not enough cells"},
		{"", 0, 0, "not enough cells"},
	}
	for _, tc := range testcases {
		_, err := FromNotation(tc.notation)
		var perr *ParseError
		is.True(errors.As(err, &perr))
		is.Equal(perr.Char, tc.char)
		is.Equal(perr.Offset, tc.offset)
		is.Equal(perr.Reason, tc.reason)
	}
}

func TestParseErrorMessage(t *testing.T) {
	is := is.New(t)
	_, err := FromNotation("7/7/7/7/7/3x3")
	is.Equal(err.Error(), `notation: unrecognized character at cell 38 ('x')`)
	_, err = FromNotation("7/7")
	is.Equal(err.Error(), "notation: not enough cells at cell 14")
}
