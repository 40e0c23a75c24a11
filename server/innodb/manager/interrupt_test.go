package manager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInterruptController(t *testing.T) (*interruptController, *tranTable, *fakeClock, *fakeLockReleaser) {
	t.Helper()
	tables := newTranTable(8, 64)
	clock := &fakeClock{now: 1000}
	locks := &fakeLockReleaser{}
	auth := &fakeAuthorizer{dba: map[string]bool{"root": true}}
	return newInterruptController(clock, locks, auth, tables), tables, clock, locks
}

func TestInterruptSetIsOneShot(t *testing.T) {
	ic, tables, _, _ := newTestInterruptController(t)
	ids := newIDGenerator()
	idx, err := tables.assignIndex(ids, NullTranID, ClientIdentity{Login: "u"}, 0, IsoRepeatableRead, KindWorker)
	require.NoError(t, err)
	tdes := tables.get(idx)

	ic.setInterrupt(tdes)
	assert.Equal(t, int32(1), ic.numInterrupts)

	assert.True(t, ic.isInterrupted(tdes))
	assert.False(t, ic.isInterrupted(tdes), "flag must be consumed by the first check")
	assert.Equal(t, int32(0), ic.numInterrupts)
}

func TestInterruptSystemWorkerNeverInterruptible(t *testing.T) {
	ic, tables, _, _ := newTestInterruptController(t)
	sys := tables.get(SystemTranIndex)
	ic.setInterrupt(sys)
	assert.False(t, ic.isInterrupted(sys))
	assert.Equal(t, int32(0), ic.numInterrupts)
}

func TestInterruptQueryTimeoutConvertsToSoftInterrupt(t *testing.T) {
	ic, tables, clock, _ := newTestInterruptController(t)
	ids := newIDGenerator()
	idx, err := tables.assignIndex(ids, NullTranID, ClientIdentity{Login: "u"}, 0, IsoRepeatableRead, KindWorker)
	require.NoError(t, err)
	tdes := tables.get(idx)
	tdes.State = TranStateActive

	ic.setQueryTimeout(tdes, clock.NowMillis()+500)
	assert.False(t, ic.isInterrupted(tdes), "deadline not yet reached")

	clock.advance(1000)
	assert.True(t, ic.isInterrupted(tdes))
}

func TestInterruptClearInterruptDecrementsCounter(t *testing.T) {
	ic, tables, _, _ := newTestInterruptController(t)
	ids := newIDGenerator()
	idx, err := tables.assignIndex(ids, NullTranID, ClientIdentity{Login: "u"}, 0, IsoRepeatableRead, KindWorker)
	require.NoError(t, err)
	tdes := tables.get(idx)

	ic.setInterrupt(tdes)
	ic.clearInterrupt(tdes)
	assert.Equal(t, int32(0), ic.numInterrupts)
	assert.False(t, tdes.IsInterrupted())
}

func TestInterruptKillUnknownOrFreeSlot(t *testing.T) {
	ic, _, _, _ := newTestInterruptController(t)
	assert.Equal(t, KillUnknownTran, ic.kill(TranIndex(500), "root", 0))
	assert.Equal(t, KillUnknownTran, ic.kill(TranIndex(1), "root", 0)) // slot 1 is a free slot
}

func TestInterruptKillDeniedForNonOwnerNonDBA(t *testing.T) {
	ic, tables, _, _ := newTestInterruptController(t)
	ids := newIDGenerator()
	idx, err := tables.assignIndex(ids, NullTranID, ClientIdentity{Login: "victim"}, 0, IsoRepeatableRead, KindWorker)
	require.NoError(t, err)
	assert.Equal(t, KillDenied, ic.kill(idx, "someone-else", 0))
	assert.False(t, tables.get(idx).IsInterrupted())
}

func TestInterruptKillSignalsLockReleaser(t *testing.T) {
	ic, tables, _, locks := newTestInterruptController(t)
	ids := newIDGenerator()
	idx, err := tables.assignIndex(ids, NullTranID, ClientIdentity{Login: "victim"}, 0, IsoRepeatableRead, KindWorker)
	require.NoError(t, err)
	tdes := tables.get(idx)

	go func() {
		// Simulate the victim observing and consuming its own interrupt so
		// kill's retry-slam loop returns promptly instead of timing out.
		for i := 0; i < killMaxRetries*100; i++ {
			if tdes.IsInterrupted() {
				tdes.consumeInterrupt()
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	assert.Equal(t, KillOK, ic.kill(idx, "victim", 0))
	assert.Contains(t, locks.signaled, uint64(tdes.TRID))
}

func TestInterruptKillRequireTRIDMismatch(t *testing.T) {
	ic, tables, _, _ := newTestInterruptController(t)
	ids := newIDGenerator()
	idx, err := tables.assignIndex(ids, NullTranID, ClientIdentity{Login: "victim"}, 0, IsoRepeatableRead, KindWorker)
	require.NoError(t, err)
	tdes := tables.get(idx)
	assert.Equal(t, KillUnknownTran, ic.kill(idx, "root", tdes.TRID+1))
}

func TestInterruptRegisterUnregisterWorkerCancelChannel(t *testing.T) {
	ic, _, _, _ := newTestInterruptController(t)
	ch := ic.registerWorker(TranIndex(3))
	select {
	case <-ch:
		t.Fatal("channel must not be closed before kill fires it")
	default:
	}
	ic.unregisterWorker(TranIndex(3))
	ic.cancelMu.Lock()
	_, ok := ic.cancel[TranIndex(3)]
	ic.cancelMu.Unlock()
	assert.False(t, ok)
}
