package search

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/board"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

const entrySize = 16

const (
	minSizePowerOf2 = 16
	maxSizePowerOf2 = 28
)

// 16 bytes (entrySize)
type TableEntry struct {
	key   uint64
	score int32
	depth uint8
	flag  uint8
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag != 0
}

type TableLock interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type FakeLock struct{}

func (f FakeLock) Lock()    {}
func (f FakeLock) Unlock()  {}
func (f FakeLock) RLock()   {}
func (f FakeLock) RUnlock() {}

// TranspositionTable caches search values by position, side to move, and
// remaining depth. Values are only reused at exactly the depth they were
// computed at, since the horizon scoring makes shallower and deeper
// values incomparable.
type TranspositionTable struct {
	TableLock
	table        []TableEntry
	created      atomic.Uint64
	lookups      atomic.Uint64
	hits         atomic.Uint64
	sizePowerOf2 int
	sizeMask     uint64
	// a "type 2" collision is another position occupying our slot.
	t2collisions atomic.Uint64
}

// GlobalTranspositionTable is shared by all solvers, so that the table is
// only allocated once.
var GlobalTranspositionTable = &TranspositionTable{TableLock: FakeLock{}}

func (t *TranspositionTable) SetSingleThreadedMode() {
	t.TableLock = FakeLock{}
}

func (t *TranspositionTable) SetMultiThreadedMode() {
	t.TableLock = new(sync.RWMutex)
}

// positionKey hashes the position together with the side to move.
func positionKey(b *board.Board, toMove board.Color) uint64 {
	var buf [17]byte
	binary.LittleEndian.PutUint64(buf[0:], b.Pieces(board.Red))
	binary.LittleEndian.PutUint64(buf[8:], b.Pieces(board.Yellow))
	buf[16] = byte(toMove)
	return xxhash.Sum64(buf[:])
}

func (t *TranspositionTable) lookup(key uint64) TableEntry {
	t.RLock()
	defer t.RUnlock()
	t.lookups.Add(1)
	idx := key & t.sizeMask
	entry := t.table[idx]
	if entry.key != key {
		if entry.valid() {
			t.t2collisions.Add(1)
		}
		return TableEntry{}
	}
	t.hits.Add(1)
	return entry
}

func (t *TranspositionTable) store(key uint64, tentry TableEntry) {
	idx := key & t.sizeMask
	tentry.key = key
	t.Lock()
	defer t.Unlock()
	// just overwrite whatever is there for now.
	t.table[idx] = tentry
	t.created.Add(1)
}

// Reset clears the table, resizing it to about fractionOfMemory of total
// system memory.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	t.Lock()
	defer t.Unlock()
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	// find biggest power of 2 lower than desired.
	t.sizePowerOf2 = minSizePowerOf2
	if desiredNElems > 1 {
		t.sizePowerOf2 = int(math.Log2(desiredNElems))
	}
	t.sizePowerOf2 = min(max(t.sizePowerOf2, minSizePowerOf2), maxSizePowerOf2)

	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}

	log.Debug().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}
