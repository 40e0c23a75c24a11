package manager

import (
	"sync"
	"sync/atomic"
)

// bitAreaLength is the width, in MVCCIDs, of the sliding completion bitmap
// (spec.md §4.3). Chosen small here since the reference engine's default
// covers tens of thousands of recent ids; this module scales it only for
// test convenience, never for correctness (the overflow list absorbs drift
// past this window).
const bitAreaLength = 1 << 16

// Snapshot is a view of which MVCCIDs are committed-visible to a reader,
// captured atomically from the MVCC table (spec.md §3/§4.3).
type Snapshot struct {
	Lower MVCCID // everything strictly below is committed
	Upper MVCCID // everything at or above was not yet allocated at snapshot time

	// bitmap and overflow are a private copy taken at build time; readers
	// never see the live table's mutable state.
	bitmapStart MVCCID
	bitmap      []uint64
	overflow    map[MVCCID]bool // true == active (not yet completed)
}

// IsVisible answers "is MVCCID m visible under this snapshot", per spec.md §4.3.
func (s *Snapshot) IsVisible(m MVCCID) bool {
	if m == NullMVCCID {
		return false
	}
	if m >= s.Upper {
		return false
	}
	if m < s.Lower {
		return true
	}
	if m >= s.bitmapStart {
		idx := uint64(m - s.bitmapStart)
		word := idx / 64
		bit := idx % 64
		if int(word) < len(s.bitmap) {
			return s.bitmap[word]&(1<<bit) != 0
		}
		// Past the end of the captured bitmap window: treat conservatively
		// as active (invisible) rather than assume completion.
		return false
	}
	if active, ok := s.overflow[m]; ok {
		return !active
	}
	// Not found below bitmapStart and not in the overflow snapshot: it
	// completed before the overflow list was captured.
	return true
}

// mvccTable is the process-wide MVCC registry (C3): id allocation plus the
// sliding bit area used to answer visibility questions in O(1).
type mvccTable struct {
	ids *idGenerator

	mu sync.Mutex // guards bitArea/overflow/lowestActive structural changes

	bitAreaStart MVCCID
	bitArea      []uint64 // bit i (relative to bitAreaStart) set == completed

	overflow map[MVCCID]bool // MVCCIDs older than bitAreaStart still active

	lowestActive []int64 // per tran_index contributed floor, atomic access

	globalOldestVisible int64 // atomic MVCCID
	oldestVisiblePins   int32 // atomic pin count blocking trim
}

func newMVCCTable(ids *idGenerator, maxTranIndex int) *mvccTable {
	return &mvccTable{
		ids:          ids,
		bitAreaStart: 1,
		bitArea:      make([]uint64, bitAreaLength/64),
		overflow:     make(map[MVCCID]bool),
		lowestActive: make([]int64, maxTranIndex),
	}
}

// growLowestActive is called when the transaction table expands (spec.md §4.2).
func (m *mvccTable) growLowestActive(newTotal int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if newTotal <= len(m.lowestActive) {
		return
	}
	grown := make([]int64, newTotal)
	copy(grown, m.lowestActive)
	m.lowestActive = grown
}

func (m *mvccTable) publishLowestActive(index TranIndex, v MVCCID) {
	if int(index) >= len(m.lowestActive) {
		return
	}
	atomic.StoreInt64(&m.lowestActive[index], int64(v))
}

// GetNewMVCCID allocates and publishes a fresh MVCCID as this slot's current
// lowest-active contribution.
func (m *mvccTable) GetNewMVCCID(index TranIndex) MVCCID {
	id := m.ids.NewMVCCID()
	m.publishLowestActive(index, id)
	return id
}

// GetTwoNewMVCCIDs allocates two consecutive MVCCIDs for a transaction that
// needs both a main id and a first sub-transaction id atomically.
func (m *mvccTable) GetTwoNewMVCCIDs(index TranIndex) (MVCCID, MVCCID) {
	main, sub := m.ids.NewTwoMVCCIDs()
	m.publishLowestActive(index, main)
	return main, sub
}

// BuildSnapshot captures next_mvccid as upper, global_lowest_active as
// lower, and a private copy of the bit area/overflow, all under the
// table's lock so the three pieces are mutually consistent (spec.md §4.3).
func (m *mvccTable) BuildSnapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	upper := m.ids.PeekNextMVCCID()
	lower := MVCCID(atomic.LoadInt64(&m.globalOldestVisible))
	if lower == 0 {
		lower = m.bitAreaStart
	}

	bitmapCopy := make([]uint64, len(m.bitArea))
	copy(bitmapCopy, m.bitArea)

	overflowCopy := make(map[MVCCID]bool, len(m.overflow))
	for k, v := range m.overflow {
		overflowCopy[k] = v
	}

	return Snapshot{
		Lower:       lower,
		Upper:       upper,
		bitmapStart: m.bitAreaStart,
		bitmap:      bitmapCopy,
		overflow:    overflowCopy,
	}
}

// IsVisible is the table-level convenience wrapper spec.md §6 names
// (`is_visible`); most callers go through Snapshot.IsVisible directly.
func (m *mvccTable) IsVisible(id MVCCID, s Snapshot) bool {
	return s.IsVisible(id)
}

// CompleteMVCC marks mvccid as completed and slides the window. It only
// updates bit-area/overflow bookkeeping; Engine.CompleteMVCC folds a
// committing transaction's unique-stat deltas before calling it.
func (m *mvccTable) CompleteMVCC(mvccid MVCCID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markCompletedLocked(mvccid)
	m.slideLocked()
}

// CompleteSubMVCC records a sub-transaction id as completed without
// changing the semantics other transactions key their "is this parent
// committed" question on — only the parent MVCCID's completion does that
// (spec.md §9 open question, §4.3).
func (m *mvccTable) CompleteSubMVCC(mvccid MVCCID) {
	m.CompleteMVCC(mvccid)
}

func (m *mvccTable) markCompletedLocked(mvccid MVCCID) {
	if mvccid < m.bitAreaStart {
		delete(m.overflow, mvccid)
		return
	}
	idx := uint64(mvccid - m.bitAreaStart)
	word := idx / 64
	bit := idx % 64
	if int(word) >= len(m.bitArea) {
		// Older than our window would ever see, or already slid past:
		// nothing to record, it was already implicitly "committed" by
		// virtue of being below bitAreaStart the next time it's queried.
		delete(m.overflow, mvccid)
		return
	}
	m.bitArea[word] |= 1 << bit
	delete(m.overflow, mvccid)
}

// slideLocked advances bitAreaStart past any fully-completed prefix,
// publishing a higher global_lowest_active opportunistically.
func (m *mvccTable) slideLocked() {
	advanced := MVCCID(0)
	for len(m.bitArea) > 0 {
		w := m.bitArea[0]
		if w != ^uint64(0) {
			break
		}
		m.bitArea = m.bitArea[1:]
		m.bitAreaStart += 64
		advanced += 64
	}
	if advanced > 0 {
		m.bitArea = append(m.bitArea, make([]uint64, 64/64)) // keep window width roughly constant
		if len(m.bitArea) > bitAreaLength/64 {
			m.bitArea = m.bitArea[:bitAreaLength/64]
		}
	}
	m.recomputeOldestVisibleLocked()
}

func (m *mvccTable) recomputeOldestVisibleLocked() {
	if atomic.LoadInt32(&m.oldestVisiblePins) > 0 {
		return
	}
	lowest := m.bitAreaStart
	for i := range m.lowestActive {
		v := MVCCID(atomic.LoadInt64(&m.lowestActive[i]))
		if v != NullMVCCID && v < lowest {
			lowest = v
		}
	}
	atomic.StoreInt64(&m.globalOldestVisible, int64(lowest))
}

// PinOldestVisible blocks trimming across a commit critical section; Unpin
// releases it. Transactions that need a stable "global oldest visible" read
// across their own commit use this (spec.md §3).
func (m *mvccTable) PinOldestVisible() {
	atomic.AddInt32(&m.oldestVisiblePins, 1)
}

func (m *mvccTable) UnpinOldestVisible() {
	atomic.AddInt32(&m.oldestVisiblePins, -1)
}

// RecordStillActive is used when an older MVCCID (below bitAreaStart) must
// be tracked as still-active in the overflow list — rare, per spec.md §4.3.
func (m *mvccTable) RecordStillActive(id MVCCID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < m.bitAreaStart {
		m.overflow[id] = true
	}
}
