package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountOptCacheMarkAndLoad(t *testing.T) {
	store := newUniqueStatsStore(newFakePageAccessor())
	const classOID int64 = 100
	const btid = BTID(7)

	require.NoError(t, store.applyDelta(1, btid, 5, 5, 1, nil))

	cache := make(map[int64]countOptEntry)
	markToLoad(cache, classOID)
	assert.Equal(t, countOptToLoad, cache[classOID].state)

	loadPending(cache, map[int64]BTID{classOID: btid}, nil, store)
	entry := cache[classOID]
	assert.Equal(t, countOptLoaded, entry.state)
	assert.Equal(t, int64(5), entry.keys)
	assert.Equal(t, int64(5), entry.oids)
	assert.Equal(t, int64(1), entry.nulls)
}

func TestCountOptCacheAlreadyLoadedSkipsReMark(t *testing.T) {
	cache := map[int64]countOptEntry{
		42: {state: countOptLoaded, keys: 3, oids: 3, nulls: 0},
	}
	markToLoad(cache, 42)
	assert.Equal(t, countOptLoaded, cache[42].state)
}

func TestCountOptCachePartitionsAreSummed(t *testing.T) {
	store := newUniqueStatsStore(newFakePageAccessor())
	const classOID int64 = 200
	const base = BTID(10)
	const part1 = BTID(11)
	const part2 = BTID(12)

	require.NoError(t, store.applyDelta(1, base, 2, 2, 0, nil))
	require.NoError(t, store.applyDelta(1, part1, 3, 3, 1, nil))
	require.NoError(t, store.applyDelta(1, part2, 4, 4, 0, nil))

	cache := map[int64]countOptEntry{classOID: {state: countOptToLoad}}
	loadPending(cache, map[int64]BTID{classOID: base}, map[int64][]BTID{classOID: {part1, part2}}, store)

	entry := cache[classOID]
	assert.Equal(t, countOptLoaded, entry.state)
	assert.Equal(t, int64(9), entry.keys)
	assert.Equal(t, int64(9), entry.oids)
	assert.Equal(t, int64(1), entry.nulls)
}

func TestCountOptCacheInvalidateResetsAllEntries(t *testing.T) {
	cache := map[int64]countOptEntry{
		1: {state: countOptLoaded, keys: 9},
		2: {state: countOptToLoad},
	}
	invalidate(cache)
	for _, e := range cache {
		assert.Equal(t, countOptNotLoaded, e.state)
		assert.Equal(t, int64(0), e.keys)
	}
}

func TestCountOptCacheUnknownClassIsSkipped(t *testing.T) {
	store := newUniqueStatsStore(newFakePageAccessor())
	cache := map[int64]countOptEntry{99: {state: countOptToLoad}}
	loadPending(cache, map[int64]BTID{}, nil, store)
	assert.Equal(t, countOptToLoad, cache[99].state)
}
