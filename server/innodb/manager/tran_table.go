package manager

import "sync"

// systemMinTranSlots is the table's absolute floor regardless of configuration.
const systemMinTranSlots = 8

// tranTableExpansionFactor is LOG_EXPAND_TRANTABLE_RATIO: on-demand growth
// multiplies the current size by this factor.
const tranTableExpansionFactor = 1.25

// tranTable owns the array of TDES (C2). Lookups take the rwlock shared;
// allocation, release, and expansion take it exclusive.
type tranTable struct {
	mu sync.RWMutex

	slots []*TDES

	maxClients       int
	recoveryComplete bool // once true, expand() beyond maxClients is refused

	hint int // rotating scan hint, protected by mu

	looseEnds int32

	onExpand []func(newTotal int) // dependent modules notified after growth (mvcc table, lock manager sizing)
}

func newTranTable(initialSize, maxClients int) *tranTable {
	if initialSize < systemMinTranSlots {
		initialSize = systemMinTranSlots
	}
	t := &tranTable{
		slots:      make([]*TDES, initialSize),
		maxClients: maxClients,
	}
	for i := range t.slots {
		t.slots[i] = newTDES(TranIndex(i))
		t.slots[i].TRID = NullTranID
	}
	// Slot 0 is permanently the system bookkeeping transaction.
	t.slots[0].TRID = LogSystemTranID
	t.slots[0].Kind = KindSystemMain
	t.slots[0].Client = systemClientIdentity
	return t
}

// onExpandHook registers a callback invoked after every successful
// expansion, while the table's lock is still held, so dependent modules can
// size their own
// per-tran-index arrays (spec.md §4.2: "notifies dependent modules").
func (t *tranTable) onExpandHook(fn func(newTotal int)) {
	t.mu.Lock()
	t.onExpand = append(t.onExpand, fn)
	t.mu.Unlock()
}

// assignIndex scans from the rotating hint for a free slot (trid ==
// NullTranID), claims it, assigns trid if the caller didn't supply one
// (recovery path supplies a known trid), and initializes the TDES.
func (t *tranTable) assignIndex(ids *idGenerator, trid TRID, client ClientIdentity, waitMsecs int32, iso Isolation, kind TransactionKind) (TranIndex, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx, ok := t.findFreeLocked()
	if !ok {
		if t.recoveryComplete {
			return 0, ErrTooManyClients
		}
		newTotal := int(float64(len(t.slots)) * tranTableExpansionFactor)
		if newTotal <= len(t.slots) {
			newTotal = len(t.slots) + systemMinTranSlots
		}
		if err := t.expandLocked(newTotal); err != nil {
			return 0, err
		}
		idx, ok = t.findFreeLocked()
		if !ok {
			return 0, ErrTranTableFull
		}
	}

	tdes := t.slots[idx]
	tdes.clear()
	if trid == NullTranID {
		tdes.TRID = ids.NewTRID()
	} else {
		tdes.TRID = trid
	}
	tdes.Kind = kind
	tdes.Client = client
	tdes.WaitMsecs = waitMsecs
	tdes.Isolation = iso
	t.hint = (idx + 1) % len(t.slots)
	return TranIndex(idx), nil
}

func (t *tranTable) findFreeLocked() (int, bool) {
	n := len(t.slots)
	for i := 0; i < n; i++ {
		idx := (t.hint + i) % n
		if idx == int(SystemTranIndex) {
			continue
		}
		if t.slots[idx].TRID == NullTranID {
			return idx, true
		}
	}
	return 0, false
}

// releaseIndex frees index unless the occupant is in a 2PC loose-end state,
// in which case the slot survives client disconnect and the loose-end
// counter is incremented (spec.md §4.9).
func (t *tranTable) releaseIndex(index TranIndex) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(index) < 0 || int(index) >= len(t.slots) {
		return
	}
	tdes := t.slots[index]
	if tdes.State == TranState2PCPrepared || tdes.State == TranState2PCSecondPhase {
		markLooseEnd(tdes)
		t.looseEnds++
		return
	}
	tdes.clear()
}

// findByTRID is an O(n) scan under the shared lock; spec.md §4.2 explicitly
// accepts this for the expected table size (tens to low thousands).
func (t *tranTable) findByTRID(trid TRID) (TranIndex, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i, tdes := range t.slots {
		if tdes.TRID == trid {
			return TranIndex(i), true
		}
	}
	return 0, false
}

// get returns the TDES at index, or nil if index is out of range.
func (t *tranTable) get(index TranIndex) *TDES {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(index) < 0 || int(index) >= len(t.slots) {
		return nil
	}
	return t.slots[index]
}

func (t *tranTable) size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.slots)
}

// mapActive is the read-locked iteration spec.md §4.10 builds introspection
// on; fn returning false stops the scan early.
func (t *tranTable) mapActive(fn func(*TDES) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, tdes := range t.slots {
		if tdes.TRID == NullTranID {
			continue
		}
		if !fn(tdes) {
			return
		}
	}
}

func (t *tranTable) expand(newTotal int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expandLocked(newTotal)
}

func (t *tranTable) expandLocked(newTotal int) error {
	if newTotal <= len(t.slots) {
		return nil
	}
	if t.recoveryComplete && newTotal > t.maxClients {
		return ErrTooManyClients
	}
	grown := make([]*TDES, newTotal)
	copy(grown, t.slots)
	for i := len(t.slots); i < newTotal; i++ {
		grown[i] = newTDES(TranIndex(i))
		grown[i].TRID = NullTranID
	}
	t.slots = grown
	for _, hook := range t.onExpand {
		hook(newTotal)
	}
	return nil
}

// markRecoveryComplete forbids further expansion beyond maxClients, since
// other subsystems are sized off the post-recovery ceiling (spec.md §4.2).
func (t *tranTable) markRecoveryComplete() {
	t.mu.Lock()
	t.recoveryComplete = true
	t.mu.Unlock()
}
