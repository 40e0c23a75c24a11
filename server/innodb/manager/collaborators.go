package manager

import (
	"fmt"
	"time"

	"github.com/zhukovaskychina/xmysql-server/server/innodb/buffer_pool"
)

// LSA is a log sequence address: (pageid, offset) identifying a single log
// record, exactly as spec'd for the write-ahead log the core emits into but
// never owns.
type LSA struct {
	PageID uint64
	Offset uint32
}

// NullLSA is the sentinel meaning "no log record".
var NullLSA = LSA{PageID: ^uint64(0), Offset: ^uint32(0)}

func (l LSA) IsNull() bool {
	return l == NullLSA
}

// LessEq orders LSAs the way the log orders records: by page first, then offset.
func (l LSA) LessEq(o LSA) bool {
	if l.PageID != o.PageID {
		return l.PageID < o.PageID
	}
	return l.Offset <= o.Offset
}

func (l LSA) String() string {
	if l.IsNull() {
		return "NULL_LSA"
	}
	return fmt.Sprintf("%d|%d", l.PageID, l.Offset)
}

// LogAppender is the write-ahead log collaborator (spec.md §6): the core
// calls log_append_* and gets an LSA back, it never manages the log file
// itself. Backed by the teacher's RedoLogManager/UndoLogManager.
type LogAppender interface {
	AppendUndoRedo(trid TRID, recType uint8, payload []byte) (LSA, error)
	AppendUndo(trid TRID, recType uint8, payload []byte) (LSA, error)
	AppendRedo(trid TRID, recType uint8, payload []byte) (LSA, error)
	AppendCompensate(trid TRID, recType uint8, undoNxLSA LSA, payload []byte) (LSA, error)
}

// RootPage is a B-tree root page as seen by unique-stat reflection: the core
// only ever touches the three counters, never the page's record format
// (that belongs to the out-of-scope B-tree/heap managers).
type RootPage interface {
	ReadUniqueStats() (keys, oids, nulls int64)
	WriteUniqueStats(keys, oids, nulls int64)
}

// PageAccessor is the page buffer collaborator behind page_fix / page_unfix /
// page_set_dirty, scoped to what unique-stat reflection needs (spec.md §4.6).
type PageAccessor interface {
	FixRoot(btid BTID) (RootPage, error)
	UnfixRoot(btid BTID, page RootPage) error
	SetDirty(btid BTID, page RootPage)
}

// LockReleaser is the lock manager collaborator: the core only queries and
// releases, it never reimplements waiting or deadlock detection (spec.md §1
// non-goals).
type LockReleaser interface {
	ReleaseLocks(txID uint64)
	Signal(txID uint64)
}

// Clock supplies monotonic wall-clock milliseconds for query deadlines.
type Clock interface {
	NowMillis() int64
}

// Authorizer matches the is_dba / client-identity comparisons spec.md §6 asks for.
type Authorizer interface {
	IsDBA(login string) bool
	SameUser(a, b string) bool
}

// --- adapters over the teacher's existing managers ---

// logAppenderAdapter turns the pair of on-disk redo/undo log managers into
// the single LogAppender contract the core expects.
type logAppenderAdapter struct {
	redo *RedoLogManager
	undo *UndoLogManager
}

// NewLogAppender wires the core's WAL contract to the teacher's concrete
// redo/undo log managers instead of a stand-in.
func NewLogAppender(redo *RedoLogManager, undo *UndoLogManager) LogAppender {
	return &logAppenderAdapter{redo: redo, undo: undo}
}

func (a *logAppenderAdapter) AppendUndoRedo(trid TRID, recType uint8, payload []byte) (LSA, error) {
	lsn, err := a.redo.Append(&RedoLogEntry{TrxID: int64(trid), Type: recType, Data: payload})
	if err != nil {
		return NullLSA, err
	}
	if err := a.undo.Append(&UndoLogEntry{TrxID: int64(trid), Type: recType, Data: payload}); err != nil {
		return NullLSA, err
	}
	return LSA{PageID: uint64(lsn), Offset: 0}, nil
}

func (a *logAppenderAdapter) AppendUndo(trid TRID, recType uint8, payload []byte) (LSA, error) {
	if err := a.undo.Append(&UndoLogEntry{TrxID: int64(trid), Type: recType, Data: payload}); err != nil {
		return NullLSA, err
	}
	return LSA{PageID: uint64(trid), Offset: 0}, nil
}

func (a *logAppenderAdapter) AppendRedo(trid TRID, recType uint8, payload []byte) (LSA, error) {
	lsn, err := a.redo.Append(&RedoLogEntry{TrxID: int64(trid), Type: recType, Data: payload})
	if err != nil {
		return NullLSA, err
	}
	return LSA{PageID: uint64(lsn), Offset: 0}, nil
}

func (a *logAppenderAdapter) AppendCompensate(trid TRID, recType uint8, undoNxLSA LSA, payload []byte) (LSA, error) {
	lsn, err := a.redo.Append(&RedoLogEntry{TrxID: int64(trid), Type: LOG_TYPE_COMPENSATE, Data: payload})
	if err != nil {
		return NullLSA, err
	}
	_ = recType
	_ = undoNxLSA
	return LSA{PageID: uint64(lsn), Offset: 0}, nil
}

// bufferRootPage is the in-memory stand-in for a B-tree root page's unique
// stats fields: writing the counter triple into the page's own byte layout
// is the B-tree manager's job (out of scope here); this struct is what that
// manager would read back.
type bufferRootPage struct {
	page  *buffer_pool.BufferPage
	state *rootCounters
}

type rootCounters struct {
	keys, oids, nulls int64
}

func (p *bufferRootPage) ReadUniqueStats() (int64, int64, int64) {
	return p.state.keys, p.state.oids, p.state.nulls
}

func (p *bufferRootPage) WriteUniqueStats(keys, oids, nulls int64) {
	p.state.keys, p.state.oids, p.state.nulls = keys, oids, nulls
}

// bufferPoolRootAccessor adapts BufferPoolManager's GetPage/MarkDirty/UnpinPage
// into the FixRoot/SetDirty/UnfixRoot contract unique-stat reflection needs.
type bufferPoolRootAccessor struct {
	bpm     *BufferPoolManager
	spaceID uint32

	mu    chanMutex
	roots map[BTID]*rootCounters
}

// chanMutex is a tiny channel-based mutex, matching the teacher's occasional
// preference for channels over sync.Mutex in lock-adjacent code (lock_manager.go).
type chanMutex chan struct{}

func newChanMutex() chanMutex {
	c := make(chanMutex, 1)
	c <- struct{}{}
	return c
}
func (c chanMutex) Lock()   { <-c }
func (c chanMutex) Unlock() { c <- struct{}{} }

// NewBufferPoolRootAccessor wires unique-stat root reflection to the
// teacher's real buffer pool manager.
func NewBufferPoolRootAccessor(bpm *BufferPoolManager, spaceID uint32) PageAccessor {
	return &bufferPoolRootAccessor{
		bpm:     bpm,
		spaceID: spaceID,
		mu:      newChanMutex(),
		roots:   make(map[BTID]*rootCounters),
	}
}

func (a *bufferPoolRootAccessor) FixRoot(btid BTID) (RootPage, error) {
	page, err := a.bpm.GetPage(a.spaceID, uint32(btid))
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	st, ok := a.roots[btid]
	if !ok {
		st = &rootCounters{}
		a.roots[btid] = st
	}
	a.mu.Unlock()
	return &bufferRootPage{page: page, state: st}, nil
}

func (a *bufferPoolRootAccessor) SetDirty(btid BTID, _ RootPage) {
	_ = a.bpm.MarkDirty(a.spaceID, uint32(btid))
}

func (a *bufferPoolRootAccessor) UnfixRoot(btid BTID, _ RootPage) error {
	return a.bpm.UnpinPage(a.spaceID, uint32(btid))
}

// lockReleaserAdapter wires kill/interrupt to the teacher's real LockManager.
type lockReleaserAdapter struct {
	lm *LockManager
}

func NewLockReleaser(lm *LockManager) LockReleaser {
	return &lockReleaserAdapter{lm: lm}
}

func (a *lockReleaserAdapter) ReleaseLocks(txID uint64) {
	a.lm.ReleaseLocks(txID)
}

// Signal wakes any waiter on txID's held wait channels so a kill is observed
// promptly instead of only at the next cooperative check point.
func (a *lockReleaserAdapter) Signal(txID uint64) {
	a.lm.mu.RLock()
	defer a.lm.mu.RUnlock()
	for _, resourceID := range a.lm.txnLocks[txID] {
		info, ok := a.lm.lockTable[resourceID]
		if !ok {
			continue
		}
		for _, req := range info.Requests {
			if req.TxID == txID && !req.Granted {
				select {
				case req.WaitChan <- false:
				default:
				}
			}
		}
	}
}

// systemClock is the default Clock, backed by the standard library.
type systemClock struct{}

func NewSystemClock() Clock { return systemClock{} }

func (systemClock) NowMillis() int64 { return time.Now().UnixMilli() }

// authIdentity compares client login names the way BOOT_CLIENT_CREDENTIAL
// comparisons do in the original engine: case-sensitive exact match, DBA is
// a configured set of login names.
type authIdentity struct {
	dbaLogins map[string]bool
}

func NewAuthorizer(dbaLogins []string) Authorizer {
	m := make(map[string]bool, len(dbaLogins))
	for _, l := range dbaLogins {
		m[l] = true
	}
	return &authIdentity{dbaLogins: m}
}

func (a *authIdentity) IsDBA(login string) bool   { return a.dbaLogins[login] }
func (a *authIdentity) SameUser(x, y string) bool { return x == y }
