package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranUniqueStatsTableAccumulatesDeltas(t *testing.T) {
	store := newUniqueStatsStore(newFakePageAccessor())
	tbl := &tranUniqueStatsTable{byBTID: make(map[BTID]int)}

	const btid = BTID(1)
	require.NoError(t, tbl.update(btid, store, 1, 1, 0))
	require.NoError(t, tbl.update(btid, store, 2, 2, 1))

	entry, err := tbl.findOrCreate(btid, store)
	require.NoError(t, err)
	assert.Equal(t, int64(3), entry.deltaKeys)
	assert.Equal(t, int64(3), entry.deltaOids)
	assert.Equal(t, int64(1), entry.deltaNulls)
}

func TestTranUniqueStatsTableReflectToGlobalSkipsZeroDeltas(t *testing.T) {
	store := newUniqueStatsStore(newFakePageAccessor())
	tbl := &tranUniqueStatsTable{byBTID: make(map[BTID]int)}
	log := &fakeLogAppender{}

	const touched = BTID(1)
	const untouched = BTID(2)
	require.NoError(t, tbl.update(touched, store, 5, 5, 0))
	_, err := tbl.findOrCreate(untouched, store) // touched with zero delta
	require.NoError(t, err)

	require.NoError(t, tbl.reflectToGlobal(TRID(1), store, log))

	keys, _, _, err := store.getOrLoad(touched, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), keys)
	assert.Len(t, log.recTypes, 1, "only the touched BTID should produce a log record")
}

func TestTranUniqueStatsTableClearResetsState(t *testing.T) {
	store := newUniqueStatsStore(newFakePageAccessor())
	tbl := &tranUniqueStatsTable{byBTID: make(map[BTID]int)}
	require.NoError(t, tbl.update(BTID(1), store, 1, 1, 0))
	tbl.clear()
	assert.Empty(t, tbl.entries)
	assert.Empty(t, tbl.byBTID)
}

func TestUniqueStatsStoreGetOrLoadSeedsFromRootOnce(t *testing.T) {
	pages := newFakePageAccessor()
	root, err := pages.FixRoot(BTID(9))
	require.NoError(t, err)
	root.WriteUniqueStats(100, 100, 5)

	store := newUniqueStatsStore(pages)
	keys, oids, nulls, err := store.getOrLoad(BTID(9), true)
	require.NoError(t, err)
	assert.Equal(t, int64(100), keys)
	assert.Equal(t, int64(100), oids)
	assert.Equal(t, int64(5), nulls)
}

func TestUniqueStatsStoreApplyDeltaLogsAndAccumulates(t *testing.T) {
	store := newUniqueStatsStore(newFakePageAccessor())
	log := &fakeLogAppender{}

	require.NoError(t, store.applyDelta(TRID(1), BTID(3), 2, 2, 0, log))
	require.NoError(t, store.applyDelta(TRID(1), BTID(3), -1, -1, 1, log))

	keys, oids, nulls, err := store.getOrLoad(BTID(3), false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), keys)
	assert.Equal(t, int64(1), oids)
	assert.Equal(t, int64(1), nulls)
	assert.Equal(t, []uint8{LOG_TYPE_UNIQUE_STATS, LOG_TYPE_UNIQUE_STATS}, log.recTypes)
}

func TestUniqueStatsStoreApplyDeltaWithNilLoggerStillAccumulates(t *testing.T) {
	store := newUniqueStatsStore(newFakePageAccessor())
	require.NoError(t, store.applyDelta(TRID(1), BTID(4), 3, 3, 0, nil))
	keys, _, _, err := store.getOrLoad(BTID(4), false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), keys)
}

func TestUniqueStatsStoreApplyAbsoluteOverwrites(t *testing.T) {
	store := newUniqueStatsStore(newFakePageAccessor())
	require.NoError(t, store.applyDelta(TRID(1), BTID(5), 1, 1, 0, nil))
	store.applyAbsolute(BTID(5), 50, 50, 2)
	keys, oids, nulls, err := store.getOrLoad(BTID(5), false)
	require.NoError(t, err)
	assert.Equal(t, int64(50), keys)
	assert.Equal(t, int64(50), oids)
	assert.Equal(t, int64(2), nulls)
}

func TestUniqueStatsStoreRemoveDropsEntry(t *testing.T) {
	store := newUniqueStatsStore(newFakePageAccessor())
	require.NoError(t, store.applyDelta(TRID(1), BTID(6), 1, 1, 0, nil))
	store.remove(BTID(6))
	_, ok := store.lookup(BTID(6))
	assert.False(t, ok)
}

func TestUniqueStatsStoreReflectAllToRootsOnlyWritesLoggedEntries(t *testing.T) {
	pages := newFakePageAccessor()
	store := newUniqueStatsStore(pages)
	log := &fakeLogAppender{}

	// Logged entry: must be reflected.
	require.NoError(t, store.applyDelta(TRID(1), BTID(10), 4, 4, 0, log))
	// Unlogged entry (e.g. recovery applyAbsolute): must NOT be reflected,
	// since its lastLogLSA is still null.
	store.applyAbsolute(BTID(11), 9, 9, 0)

	require.NoError(t, store.reflectAllToRoots())

	root10, err := pages.FixRoot(BTID(10))
	require.NoError(t, err)
	keys, oids, nulls := root10.ReadUniqueStats()
	assert.Equal(t, int64(4), keys)
	assert.Equal(t, int64(4), oids)
	assert.Equal(t, int64(0), nulls)

	root11, err := pages.FixRoot(BTID(11))
	require.NoError(t, err)
	keys11, _, _ := root11.ReadUniqueStats()
	assert.Equal(t, int64(0), keys11, "unlogged entry must not be written back")
}
