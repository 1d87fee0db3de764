package board

// Cells are laid out row-major starting from the top-left corner:
//
//	 0  1  2  3  4  5  6
//	 7  8  9 10 11 12 13
//	14 15 16 17 18 19 20
//	21 22 23 24 25 26 27
//	28 29 30 31 32 33 34
//	35 36 37 38 39 40 41
//	42 43 44 45 46 47 48   <- sentinel row
//
// The sentinel row is never stored in either occupancy mask, but All()
// reports it as occupied. The lowest set bit of (All() & FileMask) is then
// always the topmost occupied cell of a column, even for an empty column,
// and the cell directly above it is one row (7 bits) lower.
const (
	NumFiles = 7
	NumRanks = 6
	NumCells = NumFiles * NumRanks

	// ConnectLength is the number of aligned pieces that wins.
	ConnectLength = 4
)

const (
	// Playable is the 42-cell playing area.
	Playable uint64 = 1<<NumCells - 1
	// SentinelRow is the padding row directly below the bottom rank.
	SentinelRow uint64 = 0x7F << NumCells
)

var (
	// FileMask has, per column, the six playable cells plus the sentinel
	// cell under them.
	FileMask [NumFiles]uint64
	// RankMask has, per row, its seven playable cells. RankMask[0] is the top.
	RankMask [NumRanks]uint64
)

func init() {
	for f := 0; f < NumFiles; f++ {
		for r := 0; r <= NumRanks; r++ {
			FileMask[f] |= 1 << (r*NumFiles + f)
		}
	}
	for r := 0; r < NumRanks; r++ {
		RankMask[r] = 0x7F << (r * NumFiles)
	}
}

// CellIndex returns the bit index for the given row and column.
func CellIndex(row, file int) int {
	return row*NumFiles + file
}

// direction describes one line orientation as a left-shift stride, plus the
// cells that must be cleared before shifting so that a run cannot wrap into
// an unrelated row or column.
type direction struct {
	name   string
	stride uint
	edge   uint64
}

var directions [4]direction

func init() {
	lastFile := FileMask[NumFiles-1] & Playable
	firstFile := FileMask[0] & Playable
	bottom := RankMask[NumRanks-1]
	directions = [4]direction{
		{name: "horizontal", stride: 1, edge: lastFile},
		{name: "vertical", stride: NumFiles, edge: bottom},
		{name: "diagonal", stride: NumFiles + 1, edge: lastFile | bottom},
		{name: "anti-diagonal", stride: NumFiles - 1, edge: firstFile | bottom},
	}
}

// runEnds returns the cells of m that end a run of ConnectLength aligned
// cells of m in direction d. Each AND-shift step extends the run length
// that survives by one, so three steps leave only the last cell of every
// run of four or more.
func runEnds(m uint64, d direction) uint64 {
	t := m
	for i := 1; i < ConnectLength; i++ {
		t = ((t &^ d.edge) << d.stride) & m
	}
	return t
}

// runCover expands the run ends produced by runEnds back to every cell of
// each run.
func runCover(ends uint64, d direction) uint64 {
	cover := ends
	for i := uint(1); i < ConnectLength; i++ {
		cover |= ends >> (i * d.stride)
	}
	return cover
}
