package manager

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/xmysql-server/server/conf"
)

// fakeRootPage/fakePageAccessor stand in for the out-of-scope B-tree root
// page manager: the transaction core only ever needs the three-counter
// contract (RootPage/PageAccessor), never the B-tree's own record format.
type fakeRootPage struct{ keys, oids, nulls int64 }

func (p *fakeRootPage) ReadUniqueStats() (int64, int64, int64) { return p.keys, p.oids, p.nulls }
func (p *fakeRootPage) WriteUniqueStats(keys, oids, nulls int64) {
	p.keys, p.oids, p.nulls = keys, oids, nulls
}

type fakePageAccessor struct {
	mu    sync.Mutex
	roots map[BTID]*fakeRootPage
}

func newFakePageAccessor() *fakePageAccessor {
	return &fakePageAccessor{roots: make(map[BTID]*fakeRootPage)}
}

func (a *fakePageAccessor) FixRoot(btid BTID) (RootPage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	root, ok := a.roots[btid]
	if !ok {
		root = &fakeRootPage{}
		a.roots[btid] = root
	}
	return root, nil
}

func (a *fakePageAccessor) UnfixRoot(btid BTID, page RootPage) error { return nil }
func (a *fakePageAccessor) SetDirty(btid BTID, page RootPage)       {}

type fakeLockReleaser struct {
	mu       sync.Mutex
	released []uint64
	signaled []uint64
}

func (l *fakeLockReleaser) ReleaseLocks(txID uint64) {
	l.mu.Lock()
	l.released = append(l.released, txID)
	l.mu.Unlock()
}

func (l *fakeLockReleaser) Signal(txID uint64) {
	l.mu.Lock()
	l.signaled = append(l.signaled, txID)
	l.mu.Unlock()
}

type fakeAuthorizer struct{ dba map[string]bool }

func (a *fakeAuthorizer) IsDBA(login string) bool   { return a.dba[login] }
func (a *fakeAuthorizer) SameUser(x, y string) bool { return x == y }

type fakeClock struct {
	mu  sync.Mutex
	now int64
}

func (c *fakeClock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(ms int64) {
	c.mu.Lock()
	c.now += ms
	c.mu.Unlock()
}

func newTestEngine(t *testing.T) (*Engine, *fakeClock) {
	t.Helper()
	dir := t.TempDir()
	redo, err := NewRedoLogManager(dir, 64)
	require.NoError(t, err)
	undo, err := NewUndoLogManager(dir)
	require.NoError(t, err)

	cfg := conf.NewTxConfig()
	cfg.MaxClients = 8
	clock := &fakeClock{now: 1000}

	engine := NewEngine(cfg, NewLogAppender(redo, undo), newFakePageAccessor(), &fakeLockReleaser{}, &fakeAuthorizer{dba: map[string]bool{"root": true}}, clock)
	return engine, clock
}

func TestEngineTranIndexLifecycle(t *testing.T) {
	engine, _ := newTestEngine(t)

	t.Run("分配与释放", func(t *testing.T) {
		idx, err := engine.AssignTranIndex(ClientIdentity{Login: "alice"}, "")
		require.NoError(t, err)
		assert.NotEqual(t, SystemTranIndex, idx)

		tdes := engine.table.get(idx)
		require.NotNil(t, tdes)
		assert.Equal(t, IsoRepeatableRead, tdes.Isolation)
		assert.True(t, tdes.State.IsActive())

		engine.ReleaseTranIndex(idx)
		assert.Equal(t, NullTranID, engine.table.get(idx).TRID)
	})

	t.Run("非法隔离级别被拒绝", func(t *testing.T) {
		_, err := engine.AssignTranIndex(ClientIdentity{Login: "bob"}, "bogus-isolation")
		assert.ErrorIs(t, err, ErrInvalidIsolation)
	})

	t.Run("表满后自动扩容", func(t *testing.T) {
		var indexes []TranIndex
		for i := 0; i < 20; i++ {
			idx, err := engine.AssignTranIndex(ClientIdentity{Login: "flooder"}, "")
			require.NoError(t, err)
			indexes = append(indexes, idx)
		}
		assert.Greater(t, engine.table.size(), 8)
		for _, idx := range indexes {
			engine.ReleaseTranIndex(idx)
		}
	})
}

func TestEngineMVCCSnapshotVisibility(t *testing.T) {
	engine, _ := newTestEngine(t)

	writer, err := engine.AssignTranIndex(ClientIdentity{Login: "writer"}, "")
	require.NoError(t, err)
	writerMVCC := engine.GetCurrentMVCCID(writer)
	assert.NotEqual(t, NullMVCCID, writerMVCC)

	reader, err := engine.AssignTranIndex(ClientIdentity{Login: "reader"}, "")
	require.NoError(t, err)
	snap := engine.GetSnapshot(reader)

	// Writer hasn't completed yet: invisible to the reader's snapshot.
	assert.False(t, snap.IsVisible(writerMVCC))

	require.NoError(t, engine.CompleteMVCC(writer, true))

	// A snapshot taken before completion still shows it invisible/active...
	assert.False(t, snap.IsVisible(writerMVCC))

	// ...but a fresh snapshot built after completion sees it as committed.
	engine.InvalidateSnapshot(reader)
	freshSnap := engine.GetSnapshot(reader)
	assert.True(t, freshSnap.IsVisible(writerMVCC))

	assert.True(t, engine.IsCurrentMVCCID(writer, writerMVCC))
	assert.False(t, engine.IsCurrentMVCCID(reader, writerMVCC))

	engine.ReleaseTranIndex(writer)
	engine.ReleaseTranIndex(reader)
}

func TestEngineSysopNesting(t *testing.T) {
	engine, _ := newTestEngine(t)
	idx, err := engine.AssignTranIndex(ClientIdentity{Login: "ddl"}, "")
	require.NoError(t, err)
	defer engine.ReleaseTranIndex(idx)

	require.NoError(t, engine.SysopBegin(idx))
	require.NoError(t, engine.SysopBegin(idx))
	tdes := engine.table.get(idx)
	assert.Equal(t, 2, sysopDepth(tdes))

	require.NoError(t, engine.SysopCommit(idx))
	assert.Equal(t, 1, sysopDepth(tdes))

	require.NoError(t, engine.SysopAbort(idx))
	assert.Equal(t, 0, sysopDepth(tdes))

	assert.ErrorIs(t, engine.SysopCommit(idx), ErrSysopStackEmpty)
}

func TestEngineUniqueStatsReflection(t *testing.T) {
	engine, _ := newTestEngine(t)
	idx, err := engine.AssignTranIndex(ClientIdentity{Login: "loader"}, "")
	require.NoError(t, err)
	defer engine.ReleaseTranIndex(idx)

	const btid = BTID(42)
	require.NoError(t, engine.UpdateUniqueStats(idx, btid, 5, 5, 1))
	require.NoError(t, engine.UpdateUniqueStats(idx, btid, -2, -2, 0))

	require.NoError(t, engine.CompleteMVCC(idx, true))

	keys, oids, nulls, err := engine.stats.getOrLoad(btid, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), keys)
	assert.Equal(t, int64(3), oids)
	assert.Equal(t, int64(1), nulls)

	require.NoError(t, engine.ReflectAllUniqueStats())
	root, err := engine.stats.pages.FixRoot(btid)
	require.NoError(t, err)
	rk, ro, rn := root.ReadUniqueStats()
	assert.Equal(t, int64(3), rk)
	assert.Equal(t, int64(3), ro)
	assert.Equal(t, int64(1), rn)
}

func TestEngineInterruptAndKill(t *testing.T) {
	engine, clock := newTestEngine(t)
	idx, err := engine.AssignTranIndex(ClientIdentity{Login: "victim"}, "")
	require.NoError(t, err)
	defer engine.ReleaseTranIndex(idx)

	tdes := engine.table.get(idx)
	assert.False(t, engine.IsInterrupted(idx))

	t.Run("超时转换为中断", func(t *testing.T) {
		engine.SetQueryTimeout(idx, time.UnixMilli(clock.NowMillis()+500))
		clock.advance(1000)
		assert.True(t, engine.IsInterrupted(idx))
		assert.False(t, tdes.IsInterrupted()) // one-shot: consumed by the check
	})

	t.Run("自己能杀自己的事务", func(t *testing.T) {
		// The victim's worker loop observes and consumes the interrupt; kill
		// reports KillOK only once the target has seen it.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < killMaxRetries; i++ {
				if tdes.IsInterrupted() {
					engine.IsInterrupted(idx)
					return
				}
				time.Sleep(5 * time.Millisecond)
			}
		}()

		result := engine.Kill(idx, "victim")
		assert.Equal(t, KillOK, result)
		<-done
	})

	t.Run("非DBA不能杀别人的事务", func(t *testing.T) {
		idx2, err := engine.AssignTranIndex(ClientIdentity{Login: "other"}, "")
		require.NoError(t, err)
		defer engine.ReleaseTranIndex(idx2)
		assert.Equal(t, KillDenied, engine.Kill(idx2, "victim"))
	})

	t.Run("DBA能杀任何事务", func(t *testing.T) {
		idx3, err := engine.AssignTranIndex(ClientIdentity{Login: "someone"}, "")
		require.NoError(t, err)
		defer engine.ReleaseTranIndex(idx3)

		// Simulate the victim's own worker loop observing and consuming the
		// interrupt, the way a real query-execution loop would.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < killMaxRetries; i++ {
				if engine.IsInterrupted(idx3) {
					return
				}
				time.Sleep(5 * time.Millisecond)
			}
		}()

		assert.Equal(t, KillOK, engine.Kill(idx3, "root"))
		<-done
	})

	t.Run("系统事务不能被杀", func(t *testing.T) {
		assert.Equal(t, KillDenied, engine.Kill(SystemTranIndex, "root"))
	})

	t.Run("未知索引返回unknown", func(t *testing.T) {
		assert.Equal(t, KillUnknownTran, engine.Kill(TranIndex(999), "root"))
	})
}

func TestEngineIntrospection(t *testing.T) {
	engine, _ := newTestEngine(t)
	idx, err := engine.AssignTranIndex(ClientIdentity{Login: "inspected", Host: "127.0.0.1"}, "")
	require.NoError(t, err)
	defer engine.ReleaseTranIndex(idx)

	var rows []DescriptorRow
	engine.ForEachDescriptor(func(r DescriptorRow) bool {
		rows = append(rows, r)
		return true
	})

	found := false
	for _, r := range rows {
		if r.Index == idx {
			found = true
			assert.Equal(t, "inspected", r.Client.Login)
		}
	}
	assert.True(t, found)

	var buf bytes.Buffer
	require.NoError(t, engine.DumpDescriptor(&buf, idx))
	assert.Contains(t, buf.String(), "inspected")
}

func TestEngineShutdownReflectsStats(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.cfg.CommitOnShutdown = true

	idx, err := engine.AssignTranIndex(ClientIdentity{Login: "pending"}, "")
	require.NoError(t, err)
	require.NoError(t, engine.UpdateUniqueStats(idx, BTID(7), 1, 1, 0))

	require.NoError(t, engine.Shutdown())

	root, err := engine.stats.pages.FixRoot(BTID(7))
	require.NoError(t, err)
	keys, _, _ := root.ReadUniqueStats()
	assert.Equal(t, int64(1), keys)
}

// TestEngineMainAndSubMVCCIDVisibility drives spec.md §8 scenario F end to
// end through the Engine: a transaction's main MVCCID and its first
// sub-transaction MVCCID are both treated as "this transaction's own" ids
// for visibility purposes.
func TestEngineMainAndSubMVCCIDVisibility(t *testing.T) {
	engine, _ := newTestEngine(t)

	writer, err := engine.AssignTranIndex(ClientIdentity{Login: "writer"}, "")
	require.NoError(t, err)

	mainID := engine.GetCurrentMVCCID(writer)
	subID := engine.GetCurrentSubMVCCID(writer)
	assert.NotEqual(t, NullMVCCID, mainID)
	assert.NotEqual(t, NullMVCCID, subID)
	assert.NotEqual(t, mainID, subID)

	assert.True(t, engine.IsCurrentMVCCID(writer, mainID))
	assert.True(t, engine.IsCurrentMVCCID(writer, subID))

	reader, err := engine.AssignTranIndex(ClientIdentity{Login: "reader"}, "")
	require.NoError(t, err)
	snap := engine.GetSnapshot(reader)
	assert.False(t, snap.IsVisible(subID))

	require.NoError(t, engine.CompleteMVCC(writer, true))
	engine.InvalidateSnapshot(reader)
	freshSnap := engine.GetSnapshot(reader)
	assert.True(t, freshSnap.IsVisible(mainID))
	assert.True(t, freshSnap.IsVisible(subID))

	engine.ReleaseTranIndex(writer)
	engine.ReleaseTranIndex(reader)
}

// TestEngineCountOptCacheLoadsOnSnapshotInvalidatesOnInvalidate exercises
// C7's actual wiring: mark_to_load followed by the next snapshot build
// loads the triple, and invalidating the snapshot resets it (spec.md §4.7).
func TestEngineCountOptCacheLoadsOnSnapshotInvalidatesOnInvalidate(t *testing.T) {
	engine, _ := newTestEngine(t)
	idx, err := engine.AssignTranIndex(ClientIdentity{Login: "planner"}, "")
	require.NoError(t, err)
	defer engine.ReleaseTranIndex(idx)

	const classOID = int64(42)
	const btid = BTID(100)
	require.NoError(t, engine.stats.applyDelta(NullTranID, btid, 10, 10, 1, nil))
	engine.RegisterClassBTID(classOID, btid)

	tdes := engine.table.get(idx)
	engine.MarkClassToLoad(idx, classOID)
	assert.Equal(t, countOptToLoad, tdes.CountOptCache[classOID].state)

	engine.GetSnapshot(idx)
	entry := tdes.CountOptCache[classOID]
	assert.Equal(t, countOptLoaded, entry.state)
	assert.Equal(t, int64(10), entry.keys)

	engine.InvalidateSnapshot(idx)
	assert.Equal(t, countOptNotLoaded, tdes.CountOptCache[classOID].state)
}

// TestEngineTwoPCLifecycle drives C9's voting lifecycle through the Engine
// facade rather than the package-private helpers directly.
func TestEngineTwoPCLifecycle(t *testing.T) {
	engine, _ := newTestEngine(t)
	idx, err := engine.AssignTranIndex(ClientIdentity{Login: "coordinator"}, "")
	require.NoError(t, err)
	defer engine.ReleaseTranIndex(idx)

	require.NoError(t, engine.BeginTwoPC(idx, "gtrid-1", []string{"p0", "p1"}))
	assert.False(t, engine.AllVotesIn(idx))

	require.NoError(t, engine.RecordVote(idx, 0))
	assert.False(t, engine.AllVotesIn(idx))
	require.NoError(t, engine.RecordVote(idx, 1))
	assert.True(t, engine.AllVotesIn(idx))

	require.NoError(t, engine.EnterSecondPhase(idx, true))
	assert.Equal(t, TranState2PCSecondPhase, engine.table.get(idx).State)

	require.NoError(t, engine.MarkLooseEnd(idx))
	assert.True(t, engine.table.get(idx).TwoPC.IsLooseEnd)
}
