package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMVCCTableAllocationPublishesLowestActive(t *testing.T) {
	tbl := newMVCCTable(newIDGenerator(), 4)
	id := tbl.GetNewMVCCID(TranIndex(1))
	assert.NotEqual(t, NullMVCCID, id)
	assert.Equal(t, int64(id), tbl.lowestActive[1])
}

func TestMVCCTableGetTwoNewMVCCIDsConsecutiveAndPublishesMain(t *testing.T) {
	tbl := newMVCCTable(newIDGenerator(), 4)
	main, sub := tbl.GetTwoNewMVCCIDs(TranIndex(2))
	assert.Equal(t, main+1, sub)
	assert.Equal(t, int64(main), tbl.lowestActive[2])
}

func TestMVCCTableSnapshotVisibilityBasics(t *testing.T) {
	tbl := newMVCCTable(newIDGenerator(), 4)

	writer := tbl.GetNewMVCCID(TranIndex(0))
	snapBefore := tbl.BuildSnapshot()
	assert.False(t, snapBefore.IsVisible(writer), "uncommitted id must not be visible")

	tbl.CompleteMVCC(writer)
	snapAfter := tbl.BuildSnapshot()
	assert.True(t, snapAfter.IsVisible(writer), "committed id must be visible to a fresh snapshot")

	// The earlier snapshot is a frozen view: completing the transaction after
	// it was taken must not retroactively change its answer.
	assert.False(t, snapBefore.IsVisible(writer))
}

func TestMVCCTableSnapshotNullIDNeverVisible(t *testing.T) {
	tbl := newMVCCTable(newIDGenerator(), 4)
	snap := tbl.BuildSnapshot()
	assert.False(t, snap.IsVisible(NullMVCCID))
}

func TestMVCCTableSnapshotUpperExcludesFutureIDs(t *testing.T) {
	tbl := newMVCCTable(newIDGenerator(), 4)
	snap := tbl.BuildSnapshot()
	future := tbl.GetNewMVCCID(TranIndex(0))
	tbl.CompleteMVCC(future)
	assert.False(t, snap.IsVisible(future), "id allocated after the snapshot was taken is never visible")
}

func TestMVCCTableGrowLowestActive(t *testing.T) {
	tbl := newMVCCTable(newIDGenerator(), 2)
	tbl.growLowestActive(10)
	assert.Len(t, tbl.lowestActive, 10)

	// Shrinking is a no-op: never drops already-published contributions.
	tbl.growLowestActive(1)
	assert.Len(t, tbl.lowestActive, 10)
}

func TestMVCCTableSlideAdvancesBitAreaOnFullyCompletedPrefix(t *testing.T) {
	tbl := newMVCCTable(newIDGenerator(), 1)
	start := tbl.bitAreaStart
	for i := 0; i < 64; i++ {
		id := tbl.GetNewMVCCID(TranIndex(0))
		tbl.CompleteMVCC(id)
	}
	assert.Greater(t, tbl.bitAreaStart, start)
}

func TestMVCCTablePinOldestVisibleBlocksRecompute(t *testing.T) {
	tbl := newMVCCTable(newIDGenerator(), 1)
	tbl.PinOldestVisible()
	defer tbl.UnpinOldestVisible()

	before := tbl.globalOldestVisible
	id := tbl.GetNewMVCCID(TranIndex(0))
	tbl.CompleteMVCC(id)
	assert.Equal(t, before, tbl.globalOldestVisible)
}

func TestMVCCTableRecordStillActiveOnlyAffectsOverflowRange(t *testing.T) {
	tbl := newMVCCTable(newIDGenerator(), 1)
	tbl.bitAreaStart = 100
	tbl.RecordStillActive(MVCCID(50))
	assert.True(t, tbl.overflow[MVCCID(50)])

	// At-or-above bitAreaStart ids are the live bit area's job, not overflow's.
	tbl.RecordStillActive(MVCCID(150))
	assert.False(t, tbl.overflow[MVCCID(150)])
}
