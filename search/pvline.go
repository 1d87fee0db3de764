package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// PVLine is a principal variation: the files both sides are expected to
// play, starting from the searched position.
type PVLine struct {
	Files []int
	score int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Files = pvLine.Files[:0]
}

// Update the principal variation line with a new best file,
// and a new line of best play after that file.
func (pvLine *PVLine) Update(file int, newPVLine PVLine, score int) {
	pvLine.Clear()
	pvLine.Files = append(pvLine.Files, file)
	pvLine.Files = append(pvLine.Files, newPVLine.Files...)
	pvLine.score = score
}

func (pvLine PVLine) Score() int {
	return pvLine.score
}

func (pvLine PVLine) String() string {
	return fmt.Sprintf("PV; val %d; %s", pvLine.score,
		strings.Join(lo.Map(pvLine.Files, func(f int, _ int) string {
			return strconv.Itoa(f)
		}), " "))
}
