package manager

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDGeneratorTRIDStartsAboveSystemRange(t *testing.T) {
	g := newIDGenerator()
	id := g.NewTRID()
	assert.Equal(t, FirstUserTRID, id)
	assert.Greater(t, int32(id), int32(LogSystemTranID))
}

func TestIDGeneratorTRIDMonotonic(t *testing.T) {
	g := newIDGenerator()
	a := g.NewTRID()
	b := g.NewTRID()
	assert.Equal(t, a+1, b)
}

func TestIDGeneratorTRIDOverflowSkipsSystemRange(t *testing.T) {
	g := newIDGenerator()
	g.nextTRID = int32(1<<31 - 1) // math.MaxInt32
	id := g.NewTRID()
	assert.Equal(t, TRID(1<<31-1), id)
	next := g.NewTRID()
	assert.Equal(t, FirstUserTRID, next)
}

func TestIDGeneratorAdvancePastRecovered(t *testing.T) {
	g := newIDGenerator()
	g.AdvancePastRecovered(TRID(500))
	assert.Equal(t, TRID(501), g.NewTRID())

	// Never moves backwards below an already-advanced counter.
	g.AdvancePastRecovered(TRID(10))
	assert.Equal(t, TRID(502), g.NewTRID())
}

func TestIDGeneratorMVCCIDSequencing(t *testing.T) {
	g := newIDGenerator()
	peek := g.PeekNextMVCCID()
	first := g.NewMVCCID()
	assert.Equal(t, peek, first)
	second := g.NewMVCCID()
	assert.Equal(t, first+1, second)
}

func TestIDGeneratorNewTwoMVCCIDsAreConsecutive(t *testing.T) {
	g := newIDGenerator()
	a, b := g.NewTwoMVCCIDs()
	assert.Equal(t, a+1, b)

	next := g.NewMVCCID()
	assert.Equal(t, b+1, next)
}

func TestIDGeneratorConcurrentTRIDAllocationNeverDuplicates(t *testing.T) {
	g := newIDGenerator()
	const n = 200
	ids := make(chan TRID, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			ids <- g.NewTRID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[TRID]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate TRID allocated: %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
