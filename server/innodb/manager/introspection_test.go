package manager

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRowSumsUniqueStatDeltasAcrossBTIDs(t *testing.T) {
	tables := newTranTable(8, 64)
	ids := newIDGenerator()
	idx, err := tables.assignIndex(ids, NullTranID, ClientIdentity{Login: "scanner"}, 0, IsoRepeatableRead, KindWorker)
	require.NoError(t, err)
	tdes := tables.get(idx)

	store := newUniqueStatsStore(newFakePageAccessor())
	require.NoError(t, tdes.UniqueStats.update(BTID(1), store, 2, 2, 0))
	require.NoError(t, tdes.UniqueStats.update(BTID(2), store, 3, 3, 1))

	row := snapshotRow(tdes)
	assert.Equal(t, int64(5), row.UniqueStatKeys)
	assert.Equal(t, int64(5), row.UniqueStatOids)
	assert.Equal(t, int64(1), row.UniqueStatNulls)
	assert.Equal(t, idx, row.Index)
	assert.Equal(t, "scanner", row.Client.Login)
}

func TestForEachDescriptorVisitsOnlyActiveSlots(t *testing.T) {
	tables := newTranTable(8, 64)
	ids := newIDGenerator()
	idx, err := tables.assignIndex(ids, NullTranID, ClientIdentity{Login: "active"}, 0, IsoRepeatableRead, KindWorker)
	require.NoError(t, err)

	var indexes []TranIndex
	forEachDescriptor(tables, func(r DescriptorRow) bool {
		indexes = append(indexes, r.Index)
		return true
	})
	assert.Contains(t, indexes, SystemTranIndex)
	assert.Contains(t, indexes, idx)
}

func TestForEachDescriptorEarlyStop(t *testing.T) {
	tables := newTranTable(8, 64)
	var count int
	forEachDescriptor(tables, func(r DescriptorRow) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestDumpDescriptorUnknownIndex(t *testing.T) {
	tables := newTranTable(8, 64)
	var buf bytes.Buffer
	err := dumpDescriptor(tables, &buf, TranIndex(999))
	assert.ErrorIs(t, err, ErrUnknownTranIndex)
}

func TestDumpDescriptorWritesClientIdentity(t *testing.T) {
	tables := newTranTable(8, 64)
	ids := newIDGenerator()
	idx, err := tables.assignIndex(ids, NullTranID, ClientIdentity{Login: "dumped", Host: "10.0.0.5"}, 0, IsoRepeatableRead, KindWorker)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dumpDescriptor(tables, &buf, idx))
	out := buf.String()
	assert.Contains(t, out, "dumped")
	assert.Contains(t, out, "10.0.0.5")
}
