package manager

import (
	"io"
	"sync"
	"time"

	"github.com/zhukovaskychina/xmysql-server/logger"
	"github.com/zhukovaskychina/xmysql-server/server/conf"
)

// Engine is the transaction core's facade (spec.md §6): the single entry
// point the rest of the storage engine calls into for transaction-table
// management, MVCC snapshots, nested system operations, unique-index
// statistics, and interrupt/kill. It owns no storage of its own — every
// durable or shared side effect goes through the collaborators it was
// built with.
type Engine struct {
	ids   *idGenerator
	table *tranTable
	mvcc  *mvccTable
	stats *uniqueStatsStore

	interrupts *interruptController

	log   LogAppender
	clock Clock

	cfg *conf.TxConfig

	// countOptMu guards the catalog-wide class->BTID mapping the
	// count-optimization cache (C7) resolves marked classes against.
	countOptMu      sync.RWMutex
	classBTIDs      map[int64]BTID
	classPartitions map[int64][]BTID
}

// NewEngine wires the transaction core to its real collaborators. redo/undo
// log managers, buffer pool manager, lock manager, and authorizer are the
// teacher's own concrete types (wrapped by collaborators.go's adapters),
// never stand-ins.
func NewEngine(cfg *conf.TxConfig, log LogAppender, pages PageAccessor, locks LockReleaser, auth Authorizer, clock Clock) *Engine {
	if cfg == nil {
		cfg = conf.NewTxConfig()
	}
	if clock == nil {
		clock = NewSystemClock()
	}

	table := newTranTable(cfg.MaxClients, cfg.MaxClients)
	ids := newIDGenerator()
	mvcc := newMVCCTable(ids, len(table.slots))
	table.onExpandHook(mvcc.growLowestActive)

	e := &Engine{
		ids:             ids,
		table:           table,
		mvcc:            mvcc,
		stats:           newUniqueStatsStore(pages),
		interrupts:      newInterruptController(clock, locks, auth, table),
		log:             log,
		clock:           clock,
		cfg:             cfg,
		classBTIDs:      make(map[int64]BTID),
		classPartitions: make(map[int64][]BTID),
	}
	return e
}

func parseIsolation(s string) (Isolation, bool) {
	switch s {
	case "read-committed":
		return IsoReadCommitted, true
	case "repeatable-read":
		return IsoRepeatableRead, true
	case "serializable":
		return IsoSerializable, true
	default:
		return IsoReadCommitted, false
	}
}

// AssignTranIndex allocates and initializes a TDES for a new client session
// (spec.md §4.2). isolation == "" uses the configured default.
func (e *Engine) AssignTranIndex(client ClientIdentity, isolation string) (TranIndex, error) {
	iso, ok := parseIsolation(e.cfg.DefaultIsolation)
	if !ok {
		iso = IsoRepeatableRead
	}
	if isolation != "" {
		parsed, ok := parseIsolation(isolation)
		if !ok {
			return 0, ErrInvalidIsolation
		}
		iso = parsed
	}

	index, err := e.table.assignIndex(e.ids, NullTranID, client, int32(e.cfg.DefaultLockWaitMs), iso, KindWorker)
	if err != nil {
		logger.Warnf("assign_tran_index failed: %v", err)
		return 0, err
	}
	tdes := e.table.get(index)
	tdes.TranStartTimeMs = e.clock.NowMillis()
	if e.cfg.ReadOnlyMode {
		tdes.DisableModifications++
	}
	e.interrupts.registerWorker(index)
	return index, nil
}

// ReleaseTranIndex frees index, or marks it a 2PC loose end if the
// transaction is mid-prepare (spec.md §4.2/§4.9).
func (e *Engine) ReleaseTranIndex(index TranIndex) {
	e.interrupts.unregisterWorker(index)
	e.table.releaseIndex(index)
}

// FreeTranIndex is an unconditional release, used by recovery paths that
// must discard a slot regardless of 2PC state.
func (e *Engine) FreeTranIndex(index TranIndex) {
	tdes := e.table.get(index)
	if tdes != nil {
		tdes.clear()
	}
	e.interrupts.unregisterWorker(index)
}

// GetCurrentMVCCID returns index's own MVCCID, allocating it lazily on
// first use within the transaction (spec.md §6).
func (e *Engine) GetCurrentMVCCID(index TranIndex) MVCCID {
	tdes := e.table.get(index)
	if tdes == nil {
		return NullMVCCID
	}
	if tdes.MVCC.ID == NullMVCCID {
		tdes.MVCC.ID = e.mvcc.GetNewMVCCID(index)
	}
	return tdes.MVCC.ID
}

// GetCurrentSubMVCCID allocates index's next sub-transaction MVCCID and
// appends it to tdes.MVCC.SubIDs (spec.md §4.1/§4.3 new_two_mvccids). If
// index has not yet allocated its own MVCCID, the main id and this first
// sub id are drawn together as one atomic (main, sub) pair; later calls
// each draw one further sub id.
func (e *Engine) GetCurrentSubMVCCID(index TranIndex) MVCCID {
	tdes := e.table.get(index)
	if tdes == nil {
		return NullMVCCID
	}
	var sub MVCCID
	if tdes.MVCC.ID == NullMVCCID {
		var main MVCCID
		main, sub = e.mvcc.GetTwoNewMVCCIDs(index)
		tdes.MVCC.ID = main
	} else {
		sub = e.mvcc.GetNewMVCCID(index)
	}
	tdes.MVCC.SubIDs = append(tdes.MVCC.SubIDs, sub)
	return sub
}

// GetSnapshot builds (or returns the cached) snapshot for index, per the
// isolation-level caching rule in spec.md §4.3: read-committed snapshots
// are invalidated at the start of every statement by the caller invoking
// InvalidateSnapshot between statements; repeatable-read/serializable reuse
// the same snapshot for the transaction's lifetime.
func (e *Engine) GetSnapshot(index TranIndex) Snapshot {
	tdes := e.table.get(index)
	if tdes == nil {
		return Snapshot{}
	}
	if !tdes.MVCC.SnapshotValid {
		tdes.MVCC.Snapshot = e.mvcc.BuildSnapshot()
		tdes.MVCC.SnapshotValid = true
		e.countOptMu.RLock()
		loadPending(tdes.CountOptCache, e.classBTIDs, e.classPartitions, e.stats)
		e.countOptMu.RUnlock()
	}
	return tdes.MVCC.Snapshot
}

// InvalidateSnapshot drops index's cached snapshot, called at statement
// boundaries under read-committed; classes marked to-load must be reloaded
// against the next snapshot, so the count-optimization cache resets too
// (spec.md §4.7).
func (e *Engine) InvalidateSnapshot(index TranIndex) {
	tdes := e.table.get(index)
	if tdes == nil {
		return
	}
	tdes.MVCC.SnapshotValid = false
	invalidate(tdes.CountOptCache)
}

// RegisterClassBTID records classOID's root BTID (and, for partitioned
// tables, the partition BTIDs to sum into it) so MarkClassToLoad's requests
// can be resolved. Called by the catalog layer as classes are opened.
func (e *Engine) RegisterClassBTID(classOID int64, btid BTID, partitions ...BTID) {
	e.countOptMu.Lock()
	defer e.countOptMu.Unlock()
	e.classBTIDs[classOID] = btid
	if len(partitions) > 0 {
		e.classPartitions[classOID] = partitions
	}
}

// MarkClassToLoad requests that classOID's {keys, oids, nulls} triple be
// loaded into index's count-optimization cache on the next snapshot build
// (spec.md §4.7 `count_opt.mark_to_load`).
func (e *Engine) MarkClassToLoad(index TranIndex, classOID int64) {
	tdes := e.table.get(index)
	if tdes == nil {
		return
	}
	markToLoad(tdes.CountOptCache, classOID)
}

// IsCurrentMVCCID checks mvccid against index's own id or any of its
// sub-transaction ids (spec.md §6).
func (e *Engine) IsCurrentMVCCID(index TranIndex, mvccid MVCCID) bool {
	tdes := e.table.get(index)
	if tdes == nil {
		return false
	}
	if tdes.MVCC.ID == mvccid {
		return true
	}
	for _, sub := range tdes.MVCC.SubIDs {
		if sub == mvccid {
			return true
		}
	}
	return false
}

// CompleteMVCC is the commit/abort prologue (spec.md §6/§4.3): it folds the
// transaction's unique-stat deltas (only if committed) before publishing
// MVCCID completion, so a snapshot built right after never observes a
// completed MVCCID whose stat deltas haven't landed yet.
func (e *Engine) CompleteMVCC(index TranIndex, committed bool) error {
	tdes := e.table.get(index)
	if tdes == nil {
		return ErrUnknownTranIndex
	}
	if committed {
		if err := tdes.UniqueStats.reflectToGlobal(tdes.TRID, e.stats, e.log); err != nil {
			return err
		}
		for _, sub := range tdes.MVCC.SubIDs {
			e.mvcc.CompleteSubMVCC(sub)
		}
	}
	// Drop this slot's lowest-active contribution so the slide below can
	// raise the global floor past this transaction's ids.
	e.mvcc.publishLowestActive(index, NullMVCCID)
	if tdes.MVCC.ID != NullMVCCID {
		e.mvcc.CompleteMVCC(tdes.MVCC.ID)
	}
	if committed {
		tdes.State = TranStateCommitted
	} else {
		tdes.State = TranStateAborted
	}
	return nil
}

// SysopBegin/SysopCommit/SysopAbort/SysopAttachToOuter are the C5 entry
// points, delegating to sysop.go.
func (e *Engine) SysopBegin(index TranIndex) error {
	tdes := e.table.get(index)
	if tdes == nil {
		return ErrUnknownTranIndex
	}
	return sysopBegin(tdes, e.log)
}

func (e *Engine) SysopCommit(index TranIndex) error {
	tdes := e.table.get(index)
	if tdes == nil {
		return ErrUnknownTranIndex
	}
	return sysopCommit(tdes, e.log)
}

func (e *Engine) SysopAbort(index TranIndex) error {
	tdes := e.table.get(index)
	if tdes == nil {
		return ErrUnknownTranIndex
	}
	return sysopAbort(tdes, e.log)
}

func (e *Engine) SysopAttachToOuter(index TranIndex) error {
	tdes := e.table.get(index)
	if tdes == nil {
		return ErrUnknownTranIndex
	}
	return sysopAttachToOuter(tdes)
}

// BeginTwoPC starts a coordinator transaction's 2PC vote-collection phase
// (spec.md §4.9/C9), used by an external distributed-transaction
// coordinator driving index through prepare/commit.
func (e *Engine) BeginTwoPC(index TranIndex, gtrid string, participants []string) error {
	tdes := e.table.get(index)
	if tdes == nil {
		return ErrUnknownTranIndex
	}
	beginCollectingVotes(tdes, gtrid, participants)
	return nil
}

// RecordVote acks participant's prepared vote against index's in-flight
// 2PC round.
func (e *Engine) RecordVote(index TranIndex, participant int) error {
	tdes := e.table.get(index)
	if tdes == nil {
		return ErrUnknownTranIndex
	}
	recordVote(tdes, participant)
	return nil
}

// AllVotesIn reports whether every participant in index's 2PC round has
// acked its prepared vote.
func (e *Engine) AllVotesIn(index TranIndex) bool {
	tdes := e.table.get(index)
	if tdes == nil {
		return false
	}
	return allVotesIn(tdes)
}

// EnterSecondPhase moves index into its second-phase 2PC state: the
// coordinator once all votes are in, or a participant once it has
// acknowledged prepare and is awaiting the coordinator's decision.
func (e *Engine) EnterSecondPhase(index TranIndex, asCoordinator bool) error {
	tdes := e.table.get(index)
	if tdes == nil {
		return ErrUnknownTranIndex
	}
	enterSecondPhase(tdes, asCoordinator)
	return nil
}

// MarkLooseEnd flags index as an outstanding recoverable 2PC participant
// whose slot must survive past client disconnect (spec.md §4.9).
func (e *Engine) MarkLooseEnd(index TranIndex) error {
	tdes := e.table.get(index)
	if tdes == nil {
		return ErrUnknownTranIndex
	}
	markLooseEnd(tdes)
	return nil
}

// UpdateUniqueStats accumulates a row-level delta for btid on index's
// transaction-local table (spec.md §6 `unique_stats.update`).
func (e *Engine) UpdateUniqueStats(index TranIndex, btid BTID, dKeys, dOids, dNulls int64) error {
	tdes := e.table.get(index)
	if tdes == nil {
		return ErrUnknownTranIndex
	}
	return tdes.UniqueStats.update(btid, e.stats, dKeys, dOids, dNulls)
}

// ReflectAllUniqueStats writes every dirty global entry back to its B-tree
// root (spec.md §6 `unique_stats.reflect_all`). It does not consult
// interrupt flags.
func (e *Engine) ReflectAllUniqueStats() error {
	return e.stats.reflectAllToRoots()
}

// DeleteUniqueStatsForBTID drops btid's global entry (spec.md §6
// `unique_stats.delete_for_btid`), used when its index is dropped.
func (e *Engine) DeleteUniqueStatsForBTID(btid BTID) {
	e.stats.remove(btid)
}

// SetInterrupt/ClearInterrupt/IsInterrupted/SetQueryTimeout are the C8
// entry points.
func (e *Engine) SetInterrupt(index TranIndex) {
	if tdes := e.table.get(index); tdes != nil {
		e.interrupts.setInterrupt(tdes)
	}
}

func (e *Engine) ClearInterrupt(index TranIndex) {
	if tdes := e.table.get(index); tdes != nil {
		e.interrupts.clearInterrupt(tdes)
	}
}

func (e *Engine) IsInterrupted(index TranIndex) bool {
	tdes := e.table.get(index)
	if tdes == nil {
		return false
	}
	return e.interrupts.isInterrupted(tdes)
}

func (e *Engine) SetQueryTimeout(index TranIndex, deadline time.Time) {
	if tdes := e.table.get(index); tdes != nil {
		e.interrupts.setQueryTimeout(tdes, deadline.UnixMilli())
	}
}

// Kill authorizes and drives kill-by-index (spec.md §4.8/§6).
func (e *Engine) Kill(index TranIndex, requestedBy string) KillResult {
	return e.interrupts.kill(index, requestedBy, 0)
}

// ForEachDescriptor is the read-only introspection scan (C10, spec.md §6).
func (e *Engine) ForEachDescriptor(fn func(DescriptorRow) bool) {
	forEachDescriptor(e.table, fn)
}

// DumpDescriptor writes a human-readable dump of one transaction to w,
// supplementing ForEachDescriptor's tabular form.
func (e *Engine) DumpDescriptor(w io.Writer, index TranIndex) error {
	return dumpDescriptor(e.table, w, index)
}

// FindByTRID resolves a TRID to its current tran_index, used by recovery
// and by kill callers that identify the target by TRID rather than index.
func (e *Engine) FindByTRID(trid TRID) (TranIndex, bool) {
	return e.table.findByTRID(trid)
}

// MarkRecoveryComplete forbids further transaction-table growth beyond
// max_clients (spec.md §4.2), called once startup recovery finishes.
func (e *Engine) MarkRecoveryComplete() {
	e.table.markRecoveryComplete()
}

// Shutdown reflects outstanding unique-stat deltas to their B-tree roots
// and, per commit_on_shutdown, commits or aborts every still-active
// transaction (spec.md §6 configuration: commit_on_shutdown).
func (e *Engine) Shutdown() error {
	var firstErr error
	e.table.mapActive(func(tdes *TDES) bool {
		if !tdes.State.IsActive() {
			return true
		}
		if err := e.CompleteMVCC(tdes.Index, e.cfg.CommitOnShutdown); err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})
	if err := e.ReflectAllUniqueStats(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
