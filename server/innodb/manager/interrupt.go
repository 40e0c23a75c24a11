package manager

import (
	"sync"
	"sync/atomic"
	"time"
)

// killRetryInterval / killMaxRetries bound the kill-by-index retry-slam
// loop to roughly ten seconds (LOGTB_RETRY_SLAM_MAX_TIMES in the original
// engine), polling for the target to observe its interrupt and exit.
const (
	killRetryInterval = 100 * time.Millisecond
	killMaxRetries    = 100
)

// KillResult is the outcome kind spec.md §6 names for kill().
type KillResult uint8

const (
	KillOK KillResult = iota
	KillDenied
	KillTimeout
	KillUnknownTran
)

// interruptController is the process-wide interrupt/timeout/kill subsystem
// (C8), shared by every TDES through the owning engine.
type interruptController struct {
	numInterrupts int32 // atomic, process-wide, spec.md §4.8

	clock  Clock
	locks  LockReleaser
	auth   Authorizer
	tables *tranTable

	// cancel carries one channel per live tran_index so kill can wake a
	// worker blocked somewhere the lock manager's wait channel doesn't
	// reach (e.g. a page-buffer wait); closed, never sent on, so a
	// blocked select sees it fire exactly once. Mirrors the "find the
	// worker owning a TDES" contract (logtb_find_thread_entry_mapfunc)
	// without an addressable OS thread handle.
	cancelMu sync.Mutex
	cancel   map[TranIndex]chan struct{}
}

func newInterruptController(clock Clock, locks LockReleaser, auth Authorizer, tables *tranTable) *interruptController {
	return &interruptController{
		clock:  clock,
		locks:  locks,
		auth:   auth,
		tables: tables,
		cancel: make(map[TranIndex]chan struct{}),
	}
}

func (ic *interruptController) registerWorker(index TranIndex) chan struct{} {
	ch := make(chan struct{})
	ic.cancelMu.Lock()
	ic.cancel[index] = ch
	ic.cancelMu.Unlock()
	return ch
}

func (ic *interruptController) unregisterWorker(index TranIndex) {
	ic.cancelMu.Lock()
	delete(ic.cancel, index)
	ic.cancelMu.Unlock()
}

// setInterrupt marks tdes interrupted and bumps the process-wide counter,
// once per rising edge (spec.md §4.8).
func (ic *interruptController) setInterrupt(tdes *TDES) {
	if tdes.isSystemWorker() {
		return
	}
	if tdes.setInterrupt() {
		atomic.AddInt32(&ic.numInterrupts, 1)
	}
}

// clearInterrupt is the explicit clear some callers need outside the
// one-shot consume path (e.g. aborting a kill request before it's observed).
func (ic *interruptController) clearInterrupt(tdes *TDES) {
	if tdes.consumeInterrupt() {
		atomic.AddInt32(&ic.numInterrupts, -1)
	}
}

// isInterrupted checks and, if set, consumes the flag (one-shot per spec.md
// §4.8), decrementing the process-wide counter. Also converts a past query
// deadline into a soft interrupt on the way in.
func (ic *interruptController) isInterrupted(tdes *TDES) bool {
	if tdes.QueryTimeoutMs != 0 && ic.clock.NowMillis() >= tdes.QueryTimeoutMs && tdes.State.IsActive() {
		ic.setInterrupt(tdes)
	}
	if tdes.consumeInterrupt() {
		atomic.AddInt32(&ic.numInterrupts, -1)
		return true
	}
	return false
}

// setQueryTimeout stores an absolute deadline (ms since epoch); 0 disables it.
func (ic *interruptController) setQueryTimeout(tdes *TDES, deadlineMs int64) {
	tdes.QueryTimeoutMs = deadlineMs
}

// kill authorizes and drives the kill-by-index protocol. System
// transactions can never be targeted. The retry-slam loop polls for the
// flag to clear (meaning the target observed it and unwound) within
// killMaxRetries * killRetryInterval (~10s).
func (ic *interruptController) kill(index TranIndex, requestedBy string, requireTRID TRID) KillResult {
	tdes := ic.tables.get(index)
	if tdes == nil {
		return KillUnknownTran
	}
	if tdes.TRID == NullTranID {
		return KillUnknownTran
	}
	if requireTRID != 0 && tdes.TRID != requireTRID {
		return KillUnknownTran
	}
	if tdes.isSystemWorker() {
		return KillDenied
	}
	if !ic.auth.IsDBA(requestedBy) && !ic.auth.SameUser(requestedBy, tdes.Client.Login) {
		return KillDenied
	}

	ic.setInterrupt(tdes)
	ic.locks.Signal(uint64(tdes.TRID))
	ic.cancelMu.Lock()
	ch, ok := ic.cancel[index]
	ic.cancelMu.Unlock()
	if ok {
		select {
		case <-ch:
		default:
			close(ch)
			ic.cancelMu.Lock()
			delete(ic.cancel, index)
			ic.cancelMu.Unlock()
		}
	}

	targetTRID := tdes.TRID
	for i := 0; i < killMaxRetries; i++ {
		if tdes.TRID != targetTRID {
			return KillOK // slot recycled: target session already exited
		}
		if !tdes.IsInterrupted() {
			return KillOK
		}
		time.Sleep(killRetryInterval)
	}
	return KillTimeout
}
