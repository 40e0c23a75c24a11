package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranTableSlotZeroReservedForSystem(t *testing.T) {
	tbl := newTranTable(8, 64)
	sys := tbl.get(SystemTranIndex)
	require.NotNil(t, sys)
	assert.Equal(t, LogSystemTranID, sys.TRID)
	assert.Equal(t, KindSystemMain, sys.Kind)
}

func TestTranTableBelowMinimumFloorsToSystemMinimum(t *testing.T) {
	tbl := newTranTable(1, 64)
	assert.Equal(t, systemMinTranSlots, tbl.size())
}

func TestTranTableAssignAndReleaseIndex(t *testing.T) {
	tbl := newTranTable(8, 64)
	ids := newIDGenerator()

	idx, err := tbl.assignIndex(ids, NullTranID, ClientIdentity{Login: "alice"}, 0, IsoRepeatableRead, KindWorker)
	require.NoError(t, err)
	assert.NotEqual(t, SystemTranIndex, idx)

	tdes := tbl.get(idx)
	require.NotNil(t, tdes)
	assert.NotEqual(t, NullTranID, tdes.TRID)
	assert.Equal(t, "alice", tdes.Client.Login)

	foundIdx, ok := tbl.findByTRID(tdes.TRID)
	assert.True(t, ok)
	assert.Equal(t, idx, foundIdx)

	tbl.releaseIndex(idx)
	assert.Equal(t, NullTranID, tbl.get(idx).TRID)
	_, ok = tbl.findByTRID(tdes.TRID)
	assert.False(t, ok)
}

func TestTranTableNeverAssignsSystemSlot(t *testing.T) {
	tbl := newTranTable(8, 64)
	ids := newIDGenerator()
	var seen []TranIndex
	for i := 0; i < 7; i++ {
		idx, err := tbl.assignIndex(ids, NullTranID, ClientIdentity{Login: "u"}, 0, IsoRepeatableRead, KindWorker)
		require.NoError(t, err)
		seen = append(seen, idx)
	}
	for _, idx := range seen {
		assert.NotEqual(t, SystemTranIndex, idx)
	}
}

func TestTranTableExpandsWhenFull(t *testing.T) {
	tbl := newTranTable(8, 64)
	ids := newIDGenerator()
	before := tbl.size()
	for i := 0; i < before; i++ {
		_, err := tbl.assignIndex(ids, NullTranID, ClientIdentity{Login: "flood"}, 0, IsoRepeatableRead, KindWorker)
		require.NoError(t, err)
	}
	assert.Greater(t, tbl.size(), before)
}

func TestTranTableExpandDeniedPastMaxClientsAfterRecovery(t *testing.T) {
	tbl := newTranTable(8, 8)
	tbl.markRecoveryComplete()
	err := tbl.expand(100)
	assert.ErrorIs(t, err, ErrTooManyClients)
}

func TestTranTableRefusesNewAssignmentsWhenFullAndRecoveryComplete(t *testing.T) {
	tbl := newTranTable(8, 8)
	tbl.markRecoveryComplete()
	ids := newIDGenerator()
	for i := 0; i < 7; i++ {
		_, err := tbl.assignIndex(ids, NullTranID, ClientIdentity{Login: "u"}, 0, IsoRepeatableRead, KindWorker)
		require.NoError(t, err)
	}
	_, err := tbl.assignIndex(ids, NullTranID, ClientIdentity{Login: "overflow"}, 0, IsoRepeatableRead, KindWorker)
	assert.ErrorIs(t, err, ErrTooManyClients)
}

func TestTranTableOnExpandHookNotifiesDependents(t *testing.T) {
	tbl := newTranTable(8, 64)
	var notified int
	tbl.onExpandHook(func(newTotal int) { notified = newTotal })
	require.NoError(t, tbl.expand(20))
	assert.Equal(t, 20, notified)
}

func TestTranTableLooseEndSurvivesRelease(t *testing.T) {
	tbl := newTranTable(8, 64)
	ids := newIDGenerator()
	idx, err := tbl.assignIndex(ids, NullTranID, ClientIdentity{Login: "coordinator"}, 0, IsoRepeatableRead, KindWorker)
	require.NoError(t, err)

	tdes := tbl.get(idx)
	tdes.State = TranState2PCPrepared

	tbl.releaseIndex(idx)
	assert.NotEqual(t, NullTranID, tbl.get(idx).TRID, "loose-end slot must survive disconnect")
	assert.True(t, tbl.get(idx).TwoPC.IsLooseEnd)
	assert.Equal(t, int32(1), tbl.looseEnds)
}

func TestTranTableMapActiveSkipsFreeSlots(t *testing.T) {
	tbl := newTranTable(8, 64)
	ids := newIDGenerator()
	idx, err := tbl.assignIndex(ids, NullTranID, ClientIdentity{Login: "active"}, 0, IsoRepeatableRead, KindWorker)
	require.NoError(t, err)

	var visited []TranIndex
	tbl.mapActive(func(tdes *TDES) bool {
		visited = append(visited, tdes.Index)
		return true
	})
	assert.Contains(t, visited, SystemTranIndex)
	assert.Contains(t, visited, idx)
}

func TestTranTableMapActiveEarlyStop(t *testing.T) {
	tbl := newTranTable(8, 64)
	count := 0
	tbl.mapActive(func(tdes *TDES) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}
