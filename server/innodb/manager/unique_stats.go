package manager

import (
	"encoding/binary"
	"sync"
)

// BTID identifies a B-tree (unique index) root; the actual page/record
// format for a root belongs to the out-of-scope B-tree manager, this core
// only ever touches it through RootPage/PageAccessor (spec.md §4.6).
type BTID int64

// uniqueStatsEntry is one per-TDES chunked-free-list entry: tran-local
// deltas plus the global snapshot observed at first access.
type uniqueStatsEntry struct {
	btid BTID

	deltaKeys, deltaOids, deltaNulls int64

	snapshotKeys, snapshotOids, snapshotNulls int64

	deleted    bool
	lastLogLSA LSA
}

// tranUniqueStatsTable is the per-transaction structure spec.md §4.6
// describes as "a chunked free list of entries... plus a hash map from BTID
// to the entry pointer". Go's GC makes a real chunked allocator unnecessary;
// this keeps the two-piece shape (dense slice + index map) so the essential
// property — no per-entry malloc on the update hot path after the first
// touch of a given BTID — still holds, while clear() resets the slice to
// length zero rather than freeing each entry.
type tranUniqueStatsTable struct {
	entries []uniqueStatsEntry
	byBTID  map[BTID]int // index into entries, +1 (0 == absent)
}

func (t *tranUniqueStatsTable) clear() {
	t.entries = t.entries[:0]
	t.byBTID = make(map[BTID]int)
}

// findOrCreate returns the tran-local entry for btid, creating it (and
// seeding its global snapshot) if this is the transaction's first touch.
func (t *tranUniqueStatsTable) findOrCreate(btid BTID, global *uniqueStatsStore) (*uniqueStatsEntry, error) {
	if idx, ok := t.byBTID[btid]; ok {
		return &t.entries[idx-1], nil
	}
	keys, oids, nulls, err := global.getOrLoad(btid, true)
	if err != nil {
		return nil, err
	}
	t.entries = append(t.entries, uniqueStatsEntry{
		btid:          btid,
		snapshotKeys:  keys,
		snapshotOids:  oids,
		snapshotNulls: nulls,
	})
	t.byBTID[btid] = len(t.entries)
	return &t.entries[len(t.entries)-1], nil
}

// update accumulates a row-level delta into the tran-local entry.
func (t *tranUniqueStatsTable) update(btid BTID, global *uniqueStatsStore, dKeys, dOids, dNulls int64) error {
	e, err := t.findOrCreate(btid, global)
	if err != nil {
		return err
	}
	e.deltaKeys += dKeys
	e.deltaOids += dOids
	e.deltaNulls += dNulls
	return nil
}

// reflectToGlobal folds every tran-local delta into the global store,
// called on commit (spec.md §4.6). Non-delta (zero) entries are skipped.
func (t *tranUniqueStatsTable) reflectToGlobal(trid TRID, global *uniqueStatsStore, log LogAppender) error {
	for i := range t.entries {
		e := &t.entries[i]
		if e.deleted || (e.deltaKeys == 0 && e.deltaOids == 0 && e.deltaNulls == 0) {
			continue
		}
		if err := global.applyDelta(trid, e.btid, e.deltaKeys, e.deltaOids, e.deltaNulls, log); err != nil {
			return err
		}
	}
	return nil
}

// uniqueGlobalEntry is one global-store slot: the live counter triple plus
// the per-entry mutex spec.md §4.6 calls for ("lock-free open-addressed
// hash table... each entry carries a per-entry mutex").
type uniqueGlobalEntry struct {
	mu sync.Mutex

	keys, oids, nulls int64
	lastLogLSA        LSA
}

// uniqueStatsStore is the process-wide unique-index statistics table (C6).
// The map itself is guarded by a narrow RWMutex for structural changes
// (insert/remove); steady-state reads and counter updates only ever take
// the per-entry mutex, matching the concurrency model in spec.md §5
// ("lock-free for find/insert; per-entry mutex guards counter updates" —
// approximated here with a cheap RWMutex around the map since Go's stdlib
// has no lock-free open-addressed hash table and introducing one would be
// unjustified complexity for a table whose insert rate is one-per-BTID).
type uniqueStatsStore struct {
	mu      sync.RWMutex
	entries map[BTID]*uniqueGlobalEntry

	pages PageAccessor
}

func newUniqueStatsStore(pages PageAccessor) *uniqueStatsStore {
	return &uniqueStatsStore{
		entries: make(map[BTID]*uniqueGlobalEntry),
		pages:   pages,
	}
}

func (s *uniqueStatsStore) lookup(btid BTID) (*uniqueGlobalEntry, bool) {
	s.mu.RLock()
	e, ok := s.entries[btid]
	s.mu.RUnlock()
	return e, ok
}

// getOrLoad returns the global entry for btid, optionally seeding it from
// the B-tree root page on first touch. Per spec.md §4.6, the caller must not
// hold a latch on that root when calling this (page_fix happens inside).
func (s *uniqueStatsStore) getOrLoad(btid BTID, loadFromRoot bool) (keys, oids, nulls int64, err error) {
	if e, ok := s.lookup(btid); ok {
		e.mu.Lock()
		keys, oids, nulls = e.keys, e.oids, e.nulls
		e.mu.Unlock()
		return keys, oids, nulls, nil
	}

	s.mu.Lock()
	e, ok := s.entries[btid]
	if !ok {
		e = &uniqueGlobalEntry{lastLogLSA: NullLSA}
		if loadFromRoot && s.pages != nil {
			if root, ferr := s.pages.FixRoot(btid); ferr == nil {
				e.keys, e.oids, e.nulls = root.ReadUniqueStats()
				_ = s.pages.UnfixRoot(btid, root)
			}
		}
		s.entries[btid] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	keys, oids, nulls = e.keys, e.oids, e.nulls
	e.mu.Unlock()
	return keys, oids, nulls, nil
}

// applyDelta folds Δ into the global counters under the entry's own mutex,
// optionally logging an undo/redo record whose undo side records Δ
// inverted (so crash recovery can restore the previous triple).
func (s *uniqueStatsStore) applyDelta(trid TRID, btid BTID, dKeys, dOids, dNulls int64, log LogAppender) error {
	if _, _, _, err := s.getOrLoad(btid, true); err != nil {
		return err
	}
	e, _ := s.lookup(btid)

	e.mu.Lock()
	e.keys += dKeys
	e.oids += dOids
	e.nulls += dNulls
	keys, oids, nulls := e.keys, e.oids, e.nulls
	e.mu.Unlock()

	if log == nil {
		return nil
	}
	payload := encodeUniqueStatsPayload(btid, keys, oids, nulls)
	lsa, err := log.AppendUndoRedo(trid, LOG_TYPE_UNIQUE_STATS, payload)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.lastLogLSA = lsa
	e.mu.Unlock()
	return nil
}

// applyAbsolute installs a known triple during recovery, bypassing delta
// accumulation.
func (s *uniqueStatsStore) applyAbsolute(btid BTID, keys, oids, nulls int64) {
	s.mu.Lock()
	e, ok := s.entries[btid]
	if !ok {
		e = &uniqueGlobalEntry{lastLogLSA: NullLSA}
		s.entries[btid] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	e.keys, e.oids, e.nulls = keys, oids, nulls
	e.mu.Unlock()
}

// remove drops btid's global entry, used when its index is dropped.
func (s *uniqueStatsStore) remove(btid BTID) {
	s.mu.Lock()
	delete(s.entries, btid)
	s.mu.Unlock()
}

// reflectAllToRoots writes every entry with a non-null last-log LSA back to
// its B-tree root page. The traversal never consults interrupt flags, so an
// interrupt cannot stop it part-way; Engine.ReflectAllUniqueStats (and,
// through it, Engine.Shutdown) is its only caller.
func (s *uniqueStatsStore) reflectAllToRoots() error {
	if s.pages == nil {
		return nil
	}
	type pending struct {
		btid              BTID
		keys, oids, nulls int64
	}
	s.mu.RLock()
	snap := make([]pending, 0, len(s.entries))
	for btid, e := range s.entries {
		e.mu.Lock()
		if !e.lastLogLSA.IsNull() {
			snap = append(snap, pending{btid, e.keys, e.oids, e.nulls})
		}
		e.mu.Unlock()
	}
	s.mu.RUnlock()

	for _, p := range snap {
		root, err := s.pages.FixRoot(p.btid)
		if err != nil {
			return err
		}
		root.WriteUniqueStats(p.keys, p.oids, p.nulls)
		s.pages.SetDirty(p.btid, root)
		if err := s.pages.UnfixRoot(p.btid, root); err != nil {
			return err
		}
	}
	return nil
}

func encodeUniqueStatsPayload(btid BTID, keys, oids, nulls int64) []byte {
	buf := make([]byte, 8*4)
	binary.BigEndian.PutUint64(buf[0:8], uint64(btid))
	binary.BigEndian.PutUint64(buf[8:16], uint64(keys))
	binary.BigEndian.PutUint64(buf[16:24], uint64(oids))
	binary.BigEndian.PutUint64(buf[24:32], uint64(nulls))
	return buf
}
