package manager

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/xmysql-server/server/innodb/basic"
)

// fakeSpace/fakeSpaceManager/fakeStorageProvider stand in for the
// out-of-scope on-disk tablespace layer: only the page-load/flush path
// buffer_pool.BufferPool actually drives is implemented with real
// semantics, the rest of the large Space/SpaceManager contract is
// satisfied with no-ops so the buffer pool's own cache/eviction logic
// can be exercised in isolation.
type fakeSpace struct {
	id     uint32
	mu     sync.Mutex
	pages  map[uint32][]byte
}

func newFakeSpace(id uint32) *fakeSpace {
	return &fakeSpace{id: id, pages: make(map[uint32][]byte)}
}

func (s *fakeSpace) ID() uint32   { return s.id }
func (s *fakeSpace) Name() string { return fmt.Sprintf("space-%d", s.id) }
func (s *fakeSpace) IsSystem() bool { return false }

func (s *fakeSpace) AllocateExtent(purpose basic.ExtentPurpose) (basic.Extent, error) {
	return nil, fmt.Errorf("not supported")
}
func (s *fakeSpace) FreeExtent(extentID uint32) error { return nil }

func (s *fakeSpace) GetPageCount() uint32   { return uint32(len(s.pages)) }
func (s *fakeSpace) GetExtentCount() uint32 { return 0 }
func (s *fakeSpace) GetUsedSpace() uint64   { return 0 }

func (s *fakeSpace) IsActive() bool      { return true }
func (s *fakeSpace) SetActive(bool)      {}

func (s *fakeSpace) LoadPageByPageNumber(no uint32) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.pages[no]
	if !ok {
		content = make([]byte, 16384)
		s.pages[no] = content
	}
	return content, nil
}

func (s *fakeSpace) FlushToDisk(no uint32, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(content))
	copy(cp, content)
	s.pages[no] = cp
	return nil
}

type fakeSpaceManager struct {
	mu     sync.Mutex
	spaces map[uint32]*fakeSpace
}

func newFakeSpaceManager() *fakeSpaceManager {
	return &fakeSpaceManager{spaces: make(map[uint32]*fakeSpace)}
}

func (m *fakeSpaceManager) CreateSpace(spaceID uint32, name string, isSystem bool) (basic.Space, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp := newFakeSpace(spaceID)
	m.spaces[spaceID] = sp
	return sp, nil
}

func (m *fakeSpaceManager) GetSpace(spaceID uint32) (basic.Space, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.spaces[spaceID]
	if !ok {
		sp = newFakeSpace(spaceID)
		m.spaces[spaceID] = sp
	}
	return sp, nil
}

func (m *fakeSpaceManager) DropSpace(spaceID uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.spaces, spaceID)
	return nil
}

func (m *fakeSpaceManager) AllocateExtent(spaceID uint32, purpose basic.ExtentPurpose) (basic.Extent, error) {
	return nil, fmt.Errorf("not supported")
}
func (m *fakeSpaceManager) FreeExtent(spaceID, extentID uint32) error { return nil }

func (m *fakeSpaceManager) Begin() (basic.Tx, error) { return nil, fmt.Errorf("not supported") }

func (m *fakeSpaceManager) CreateNewTablespace(name string) uint32 { return 0 }
func (m *fakeSpaceManager) CreateTableSpace(name string) (uint32, error) { return 0, nil }
func (m *fakeSpaceManager) GetTableSpace(spaceID uint32) (basic.FileTableSpace, error) {
	return nil, fmt.Errorf("not supported")
}
func (m *fakeSpaceManager) GetTableSpaceByName(name string) (basic.FileTableSpace, error) {
	return nil, fmt.Errorf("not supported")
}
func (m *fakeSpaceManager) GetTableSpaceInfo(spaceID uint32) (*basic.TableSpaceInfo, error) {
	return nil, fmt.Errorf("not supported")
}
func (m *fakeSpaceManager) DropTableSpace(spaceID uint32) error { return nil }
func (m *fakeSpaceManager) Close() error                        { return nil }

type fakeStorageProvider struct {
	spaces *fakeSpaceManager
}

func (p *fakeStorageProvider) ReadPage(spaceID, pageNo uint32) ([]byte, error) {
	sp, _ := p.spaces.GetSpace(spaceID)
	return sp.LoadPageByPageNumber(pageNo)
}
func (p *fakeStorageProvider) WritePage(spaceID, pageNo uint32, data []byte) error {
	sp, _ := p.spaces.GetSpace(spaceID)
	return sp.FlushToDisk(pageNo, data)
}
func (p *fakeStorageProvider) AllocatePage(spaceID uint32) (uint32, error) { return 0, nil }
func (p *fakeStorageProvider) FreePage(spaceID, pageNo uint32) error       { return nil }
func (p *fakeStorageProvider) CreateSpace(name string, pageSize uint32) (uint32, error) {
	return 0, nil
}
func (p *fakeStorageProvider) OpenSpace(spaceID uint32) error  { return nil }
func (p *fakeStorageProvider) CloseSpace(spaceID uint32) error { return nil }
func (p *fakeStorageProvider) DeleteSpace(spaceID uint32) error { return nil }
func (p *fakeStorageProvider) GetSpaceInfo(spaceID uint32) (*basic.SpaceInfo, error) {
	return nil, fmt.Errorf("not supported")
}
func (p *fakeStorageProvider) ListSpaces() ([]basic.SpaceInfo, error) { return nil, nil }

func newTestBufferPoolManager(t *testing.T, poolSize uint32) *BufferPoolManager {
	t.Helper()
	spaces := newFakeSpaceManager()
	cfg := &BufferPoolConfig{
		PoolSize:        poolSize,
		StorageProvider: &fakeStorageProvider{spaces: spaces},
		StorageManager:  spaces,
	}
	bpm, err := NewBufferPoolManager(cfg)
	require.NoError(t, err)
	return bpm
}

func TestBufferPoolManagerBasicPageOps(t *testing.T) {
	bpm := newTestBufferPoolManager(t, 16)
	defer bpm.Close()

	page, err := bpm.GetPage(1, 1)
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, uint32(1), page.GetSpaceID())
	assert.Equal(t, uint32(1), page.GetPageNo())

	require.NoError(t, bpm.MarkDirty(1, 1))
	page2, err := bpm.GetPage(1, 1)
	require.NoError(t, err)
	assert.True(t, page2.IsDirty())

	require.NoError(t, bpm.FlushPage(1, 1))
	page3, err := bpm.GetPage(1, 1)
	require.NoError(t, err)
	assert.False(t, page3.IsDirty())

	require.NoError(t, bpm.UnpinPage(1, 1))
}

func TestBufferPoolManagerCacheHit(t *testing.T) {
	bpm := newTestBufferPoolManager(t, 16)
	defer bpm.Close()

	_, err := bpm.GetPage(1, 2)
	require.NoError(t, err)
	_, err = bpm.GetPage(1, 2)
	require.NoError(t, err)

	stats := bpm.GetStats()
	assert.Equal(t, uint64(1), stats["hits"])
	assert.Equal(t, uint64(1), stats["misses"])
}

func TestBufferPoolManagerRequiresCollaborators(t *testing.T) {
	t.Run("缺少StorageProvider", func(t *testing.T) {
		_, err := NewBufferPoolManager(&BufferPoolConfig{StorageManager: newFakeSpaceManager()})
		assert.Error(t, err)
	})

	t.Run("缺少StorageManager", func(t *testing.T) {
		_, err := NewBufferPoolManager(&BufferPoolConfig{StorageProvider: &fakeStorageProvider{spaces: newFakeSpaceManager()}})
		assert.Error(t, err)
	})
}

func TestBufferPoolManagerConcurrentAccess(t *testing.T) {
	bpm := newTestBufferPoolManager(t, 64)
	defer bpm.Close()

	const goroutines = 10
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				page, err := bpm.GetPage(uint32(id), uint32(j))
				if assert.NoError(t, err) {
					_ = bpm.MarkDirty(page.GetSpaceID(), page.GetPageNo())
					_ = bpm.UnpinPage(page.GetSpaceID(), page.GetPageNo())
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestBufferPoolRootAccessorReflectsUniqueStats(t *testing.T) {
	bpm := newTestBufferPoolManager(t, 16)
	defer bpm.Close()

	accessor := NewBufferPoolRootAccessor(bpm, 7)
	root, err := accessor.FixRoot(BTID(42))
	require.NoError(t, err)

	root.WriteUniqueStats(10, 10, 2)
	accessor.SetDirty(BTID(42), root)
	require.NoError(t, accessor.UnfixRoot(BTID(42), root))

	root2, err := accessor.FixRoot(BTID(42))
	require.NoError(t, err)
	keys, oids, nulls := root2.ReadUniqueStats()
	assert.Equal(t, int64(10), keys)
	assert.Equal(t, int64(10), oids)
	assert.Equal(t, int64(2), nulls)
}
