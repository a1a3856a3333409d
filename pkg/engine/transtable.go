package engine

import (
	"sync/atomic"

	. "github.com/topas-engine/topas/pkg/chess"
)

const (
	boundLower = 1 << iota
	boundUpper
)

const boundExact = boundLower | boundUpper

const bucketSize = 2

func roundPowerOfTwo(size int) int {
	var x = 1
	for (x << 1) <= size {
		x <<= 1
	}
	return x
}

// transEntry packs into 16 bytes so a cache line holds four of them.
type transEntry struct {
	gate     int32
	key32    uint32
	moveDate uint32
	score    int16
	depth    int8
	bound    uint8
}

func (entry *transEntry) Move() Move {
	return Move(entry.moveDate & 0x1fffff)
}

func (entry *transEntry) Date() uint16 {
	return uint16(entry.moveDate >> 21)
}

func (entry *transEntry) SetMoveAndDate(move Move, date uint16) {
	entry.moveDate = uint32(move) + uint32(date)<<21
}

// transTable stores two entries per Zobrist bucket: slot 0 is depth-preferred
// (a different key displaces it when the incumbent was written in an earlier
// search or is no deeper), slot 1 is always-replace (it takes every store that
// slot 0 rejects, so a shallow but very fresh line is never starved out by an
// old deep one).
// Both slots are individually CAS-gated the same way a single-slot table
// would be; under the single-threaded Non-goal there is never contention,
// but the representation stays safe if a future build runs several
// searchers over the same table.
type transTable struct {
	megabytes int
	buckets   int
	entries   []transEntry
	date      uint16
	mask      uint32
}

func newTransTable(megabytes int) *transTable {
	if megabytes < 1 {
		megabytes = 1
	}
	var buckets = roundPowerOfTwo(1024 * 1024 * megabytes / (16 * bucketSize))
	return &transTable{
		megabytes: megabytes,
		buckets:   buckets,
		entries:   make([]transEntry, buckets*bucketSize),
		mask:      uint32(buckets - 1),
	}
}

func (tt *transTable) Size() int {
	return tt.megabytes
}

func (tt *transTable) IncDate() {
	tt.date = (tt.date + 1) & 0x7ff
}

func (tt *transTable) Clear() {
	tt.date = 0
	for i := range tt.entries {
		tt.entries[i] = transEntry{}
	}
}

func (tt *transTable) bucket(key uint64) []transEntry {
	var base = (uint32(key) & tt.mask) * bucketSize
	return tt.entries[base : base+bucketSize]
}

func (tt *transTable) Read(key uint64) (depth, score, bound int, move Move, ok bool) {
	var key32 = uint32(key >> 32)
	var slots = tt.bucket(key)
	for i := range slots {
		var slot = &slots[i]
		if !atomic.CompareAndSwapInt32(&slot.gate, 0, 1) {
			continue
		}
		if slot.bound != 0 && slot.key32 == key32 {
			slot.SetMoveAndDate(slot.Move(), tt.date)
			score = int(slot.score)
			move = slot.Move()
			depth = int(slot.depth)
			bound = int(slot.bound)
			ok = true
		}
		atomic.StoreInt32(&slot.gate, 0)
		if ok {
			return
		}
	}
	return
}

func (tt *transTable) Update(key uint64, depth, score, bound int, move Move) {
	var key32 = uint32(key >> 32)
	var slots = tt.bucket(key)

	// slot 0: depth-preferred. A hit on the same key refreshes unless this
	// search is more than 3 plies shallower than the stored one (an exact bound
	// always refreshes); a collision with a different key refreshes if the
	// incumbent is stale or no deeper.
	var deep = &slots[0]
	if atomic.CompareAndSwapInt32(&deep.gate, 0, 1) {
		var replace bool
		if deep.key32 == key32 {
			replace = depth >= int(deep.depth)-3 || bound == boundExact
		} else {
			replace = deep.Date() != tt.date || depth >= int(deep.depth)
		}
		if replace {
			deep.key32 = key32
			deep.score = int16(score)
			deep.depth = int8(depth)
			deep.bound = uint8(bound)
			deep.SetMoveAndDate(move, tt.date)
			atomic.StoreInt32(&deep.gate, 0)
			return
		}
		atomic.StoreInt32(&deep.gate, 0)
	}

	// slot 1: always-replace, catches whatever the depth-preferred slot
	// rejected so the most recent line for this key is never lost entirely.
	var recent = &slots[1]
	if atomic.CompareAndSwapInt32(&recent.gate, 0, 1) {
		recent.key32 = key32
		recent.score = int16(score)
		recent.depth = int8(depth)
		recent.bound = uint8(bound)
		recent.SetMoveAndDate(move, tt.date)
		atomic.StoreInt32(&recent.gate, 0)
	}
}
