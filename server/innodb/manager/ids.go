package manager

import "sync/atomic"

// TRID is a 32-bit transaction identifier, process-lifetime unique among
// live transactions and wrapping back into the user range on overflow.
type TRID int32

// MVCCID is a 64-bit monotonic multi-version concurrency control identifier.
// Zero means "null / not assigned".
type MVCCID uint64

const (
	// NullMVCCID marks "no MVCCID assigned".
	NullMVCCID MVCCID = 0

	// NullTranID marks a free transaction-table slot.
	NullTranID TRID = -1

	// LogSystemTranID is the TRID reserved for the engine's own bookkeeping
	// transaction (tran_index 0).
	LogSystemTranID TRID = 0

	// FirstUserTRID is where user TRID allocation starts and where the
	// counter wraps back to on overflow; values at or below LogSystemTranID
	// (NullTranID and the negative range reserved for internal system-worker
	// transactions) are never handed to a user session.
	FirstUserTRID TRID = LogSystemTranID + 1
)

// idGenerator allocates TRIDs and MVCCIDs with wait-free compare-and-swap
// loops, mirroring logtb_issue_tran_id / log_Gl.hdr.mvcc_next_id.
type idGenerator struct {
	nextTRID   int32
	nextMVCCID uint64
}

func newIDGenerator() *idGenerator {
	return &idGenerator{
		nextTRID:   int32(FirstUserTRID),
		nextMVCCID: 1,
	}
}

// NewTRID allocates the next transaction identifier, skipping the reserved
// system range on 32-bit overflow. Cannot fail.
func (g *idGenerator) NewTRID() TRID {
	for {
		cur := atomic.LoadInt32(&g.nextTRID)
		next := cur + 1
		if next < int32(FirstUserTRID) {
			// Overflowed past MaxInt32 (or was reset below FIRST_USER_TRID
			// by a recovery pass): never let a user TRID land in or below
			// the system-reserved range.
			next = int32(FirstUserTRID)
		}
		if atomic.CompareAndSwapInt32(&g.nextTRID, cur, next) {
			return TRID(cur)
		}
	}
}

// AdvancePastRecovered bumps the counter to at least seen+1, used by crash
// recovery to guarantee a previously-logged TRID can never be reissued
// (spec.md §9 open question: recovery must observe the highest seen TRID).
func (g *idGenerator) AdvancePastRecovered(seen TRID) {
	target := int32(seen) + 1
	if target < int32(FirstUserTRID) {
		target = int32(FirstUserTRID)
	}
	for {
		cur := atomic.LoadInt32(&g.nextTRID)
		if cur >= target {
			return
		}
		if atomic.CompareAndSwapInt32(&g.nextTRID, cur, target) {
			return
		}
	}
}

// NewMVCCID allocates the next MVCCID. Cannot fail; the 64-bit counter does
// not wrap in practice.
func (g *idGenerator) NewMVCCID() MVCCID {
	return MVCCID(atomic.AddUint64(&g.nextMVCCID, 1) - 1)
}

// NewTwoMVCCIDs allocates two strictly consecutive MVCCIDs atomically, used
// when a transaction needs both a main id and a first sub-transaction id at
// once without another allocation landing between them.
func (g *idGenerator) NewTwoMVCCIDs() (MVCCID, MVCCID) {
	first := atomic.AddUint64(&g.nextMVCCID, 2) - 2
	return MVCCID(first), MVCCID(first + 1)
}

// PeekNextMVCCID returns the value that would be allocated next, without
// allocating it — used by snapshot construction as the upper bound.
func (g *idGenerator) PeekNextMVCCID() MVCCID {
	return MVCCID(atomic.LoadUint64(&g.nextMVCCID))
}
