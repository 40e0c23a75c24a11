package buffer_pool

import (
	"sync/atomic"

	"github.com/zhukovaskychina/xmysql-server/server/common"
)

//TODO 用来实现bufferpool
/**
这个可以理解为另外一个数据页的控制体，大部分的数据页信息存在其中，例如space_id, page_no, page state, newest_modification，
oldest_modification，access_time以及压缩页的所有信息等。压缩页的信息包括压缩页的大小，压缩页的数据指针(真正的压缩页数据是存储在由伙伴
系统分配的数据页上)。这里需要注意一点，如果某个压缩页被解压了，解压页的数据指针是存储在buf_block_t的frame字段里。

**/
type BufferPage struct {
	spaceId uint32

	pageNo uint32

	pageState BufferPageState

	flushType BufferFlushType

	iofix buffer_io_fix

	newestModification common.LSNT

	oldestModification common.LSNT

	accessTime uint64

	content []byte

	dirty int32 // atomic bool

	pinCount int32 // atomic
}

func NewBufferPage(spaceId uint32, pageNo uint32) *BufferPage {
	var bufferPage = new(BufferPage)
	bufferPage.spaceId = spaceId
	bufferPage.pageNo = pageNo
	bufferPage.pageState = BUF_BLOCK_NOT_USED
	return bufferPage
}

// GetContent returns the page's raw byte content, lazily allocated.
func (p *BufferPage) GetContent() []byte {
	if p.content == nil {
		p.content = make([]byte, common.PageSize)
	}
	return p.content
}

// SetContent replaces the page's raw byte content.
func (p *BufferPage) SetContent(data []byte) {
	p.content = data
}

// GetData is GetContent under the name FlushPage's call site expects.
func (p *BufferPage) GetData() []byte {
	return p.GetContent()
}

func (p *BufferPage) GetSpaceID() uint32 {
	return p.spaceId
}

func (p *BufferPage) GetPageNo() uint32 {
	return p.pageNo
}

func (p *BufferPage) IsDirty() bool {
	return atomic.LoadInt32(&p.dirty) != 0
}

func (p *BufferPage) MarkDirty() {
	atomic.StoreInt32(&p.dirty, 1)
}

func (p *BufferPage) ClearDirty() {
	atomic.StoreInt32(&p.dirty, 0)
}

// SetDirty is the single-argument form buffer_pool_manager.go drives directly.
func (p *BufferPage) SetDirty(dirty bool) {
	if dirty {
		p.MarkDirty()
	} else {
		p.ClearDirty()
	}
}

// Pin/Unpin track how many callers currently hold this page fixed; the LRU
// eviction path must never reclaim a page with a positive pin count.
func (p *BufferPage) Pin() {
	atomic.AddInt32(&p.pinCount, 1)
}

func (p *BufferPage) Unpin() {
	atomic.AddInt32(&p.pinCount, -1)
}

func (p *BufferPage) IsPinned() bool {
	return atomic.LoadInt32(&p.pinCount) > 0
}

// Init installs content read from disk and transitions the page out of the
// free list into BUF_BLOCK_FILE_PAGE.
func (p *BufferPage) Init(spaceId uint32, pageNo uint32, content []byte) {
	p.spaceId = spaceId
	p.pageNo = pageNo
	p.content = content
	p.pageState = BUF_BLOCK_FILE_PAGE
	atomic.StoreInt32(&p.dirty, 0)
	atomic.StoreInt32(&p.pinCount, 0)
}

// IsFree reports whether this page is sitting in the free list, unused.
func (p *BufferPage) IsFree() bool {
	return p.pageState == BUF_BLOCK_NOT_USED
}

// Reset returns an evicted page to the free list.
func (p *BufferPage) Reset() {
	p.spaceId = 0
	p.pageNo = 0
	p.content = nil
	p.pageState = BUF_BLOCK_NOT_USED
	atomic.StoreInt32(&p.dirty, 0)
	atomic.StoreInt32(&p.pinCount, 0)
}
