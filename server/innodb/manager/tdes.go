package manager

import "sync/atomic"

// TranIndex is a dense small integer into the transaction table. Index 0
// (SystemTranIndex) is reserved for the engine's own bookkeeping
// transaction. Indices are reassigned across client sessions; they are not
// durable identifiers.
type TranIndex int32

// SystemTranIndex is LOG_SYSTEM_TRAN_INDEX.
const SystemTranIndex TranIndex = 0

// TranState is the transaction state machine (spec.md §3/§4.4):
//
//	active -> (committed | aborted | unilaterally-aborted)
//	active -> 2pc-collecting-votes -> 2pc-prepared -> 2pc-second-phase -> committed/aborted
type TranState uint8

const (
	TranStateActive TranState = iota
	TranStateCommitted
	TranStateAborted
	TranStateUnilaterallyAborted
	TranState2PCPrepared
	TranState2PCCollectingVotes
	TranState2PCSecondPhase
	TranStateUnknown
)

func (s TranState) IsActive() bool {
	switch s {
	case TranStateActive, TranState2PCPrepared, TranState2PCCollectingVotes, TranState2PCSecondPhase:
		return true
	default:
		return false
	}
}

// Isolation is the per-transaction isolation level.
type Isolation uint8

const (
	IsoReadCommitted Isolation = iota
	IsoRepeatableRead
	IsoSerializable
)

// AbortReason records why a transaction's rollback was driven, for
// diagnostics and introspection.
type AbortReason uint8

const (
	AbortNormal AbortReason = iota
	AbortDeadlock
	AbortRollbackOnEscalation
)

// TransactionKind is the sum type spec.md §9 asks for in place of the
// source's polymorphic "transaction" / "system-worker transaction": a
// SystemWorker's sysops are not chained (an outermost sysop begin on one
// first resets its head/tail LSAs), SystemMain is tran_index 0.
type TransactionKind uint8

const (
	KindWorker TransactionKind = iota
	KindSystemWorker
	KindSystemMain
)

// ClientIdentity is the inlined client-session identity carried on a TDES
// for the life of the session (BOOT_CLIENT_CREDENTIAL), not reset per
// transaction.
type ClientIdentity struct {
	Program    string
	User       string
	Host       string
	Login      string
	ProcessID  int32
	ClientKind int32
	ConnID     int64
}

// systemClientIdentity is the synthetic identity system-worker transactions carry.
var systemClientIdentity = ClientIdentity{Program: "system", User: "system", Host: "localhost", Login: "system"}

// TopOpFrame is one entry of the nested-system-operation stack (C5).
type TopOpFrame struct {
	LastParentLSA LSA
	PospLSA       LSA
}

// topOpStack is the per-TDES growable stack of sysop frames. Reentrancy is
// tracked as an explicit depth counter rather than a real reentrant mutex
// (spec.md §9 explicitly sanctions this substitution for languages, like
// Go, whose standard mutex isn't reentrant); correctness instead relies on
// the "one worker owns this TDES at a time" invariant (spec.md §5).
type topOpStack struct {
	stack []TopOpFrame
	last  int32 // -1 == empty
	depth int32 // reentrancy depth of the logical top-op mutex
}

const topOpsStackIncrement = 3

func newTopOpStack() topOpStack {
	return topOpStack{last: -1}
}

func (s *topOpStack) grow(minElems int) {
	if minElems < topOpsStackIncrement {
		minElems = topOpsStackIncrement
	}
	s.stack = append(s.stack, make([]TopOpFrame, minElems)...)
}

func (s *topOpStack) clear() {
	s.stack = s.stack[:0]
	s.last = -1
	s.depth = 0
}

func (s *topOpStack) isEmpty() bool { return s.last < 0 }

// MVCCInfo is the per-transaction MVCC state (spec.md §3).
type MVCCInfo struct {
	ID                         MVCCID   // this transaction's own MVCCID, or NullMVCCID
	SubIDs                     []MVCCID // append-only sub-transaction MVCCIDs
	SnapshotValid              bool
	Snapshot                   Snapshot
	RecentSnapshotLowestActive MVCCID
}

// TwoPCInfo holds the prepared/coordinator fields only populated for
// distributed transactions (C9).
type TwoPCInfo struct {
	GTRID        string
	Participants []string
	AckBitmap    []bool
	IsLooseEnd   bool
}

// MultiUpdateState is the tri-state "am I in the middle of a multi-row
// update" flag the unique-stats reflection path consults.
type MultiUpdateState uint8

const (
	MultiUpdateNone MultiUpdateState = iota
	MultiUpdateStart
	MultiUpdateMiddle
	MultiUpdateEnd
)

// TDES is a transaction descriptor: the single per-transaction-index record
// every subsystem above the lock manager and buffer pool consults on every
// mutation. See spec.md §3 for field-by-field rationale.
type TDES struct {
	Index TranIndex
	TRID  TRID
	Kind  TransactionKind
	State TranState

	Isolation Isolation
	WaitMsecs int32 // -1 == infinite, 0 == no-wait

	HeadLSA          LSA
	TailLSA          LSA
	UndoNxLSA        LSA
	PospNxLSA        LSA
	SavepointLSA     LSA
	TopOpLSA         LSA
	TailTopResultLSA LSA
	CommitAbortLSA   LSA

	// Recovery-analysis-only markers.
	TranStartPostponeLSA          LSA
	SysopStartPostponeLSA         LSA
	AtomicSysopStartLSA           LSA
	AnalysisLastAbortedSysopLSA   LSA
	AnalysisLastAbortedSysopStart LSA

	TopOps topOpStack

	MVCC MVCCInfo

	Client ClientIdentity

	interrupt int32 // atomic bool

	QueryStartTimeMs int64
	QueryTimeoutMs   int64 // absolute deadline in ms; 0 == no timeout
	TranStartTimeMs  int64
	AbortReason      AbortReason

	UniqueStats     tranUniqueStatsTable
	CountOptCache   map[int64]countOptEntry
	multiUpdateFlag MultiUpdateState

	ModifiedClasses      map[int64]struct{}
	DisableModifications int32
	TwoPC                TwoPCInfo

	// ReplicationRecordCount and XASLID are opaque bookkeeping this core
	// never interprets, only carries for introspection (spec.md §4.10).
	ReplicationRecordCount int64
	XASLID                 int64
}

// newTDES builds a zero-value, initialized TDES for slot index. Mirrors
// logtb_initialize_tdes (one-time allocation) composed with logtb_clear_tdes.
func newTDES(index TranIndex) *TDES {
	t := &TDES{Index: index}
	t.TopOps = newTopOpStack()
	t.clear()
	return t
}

// clear resets a TDES back to its just-initialized state so the slot can be
// reused by a new transaction. Idempotent by construction: every field is
// assigned its zero/default value regardless of prior content.
func (t *TDES) clear() {
	t.TRID = NullTranID
	t.Kind = KindWorker
	t.State = TranStateActive
	t.Isolation = IsoReadCommitted
	t.WaitMsecs = -1

	t.HeadLSA = NullLSA
	t.TailLSA = NullLSA
	t.UndoNxLSA = NullLSA
	t.PospNxLSA = NullLSA
	t.SavepointLSA = NullLSA
	t.TopOpLSA = NullLSA
	t.TailTopResultLSA = NullLSA
	t.CommitAbortLSA = NullLSA

	t.TranStartPostponeLSA = NullLSA
	t.SysopStartPostponeLSA = NullLSA
	t.AtomicSysopStartLSA = NullLSA
	t.AnalysisLastAbortedSysopLSA = NullLSA
	t.AnalysisLastAbortedSysopStart = NullLSA

	t.TopOps.clear()

	t.MVCC = MVCCInfo{}
	t.MVCC.SubIDs = nil

	atomic.StoreInt32(&t.interrupt, 0)
	t.QueryStartTimeMs = 0
	t.QueryTimeoutMs = 0
	t.TranStartTimeMs = 0
	t.AbortReason = AbortNormal

	t.UniqueStats.clear()
	t.CountOptCache = make(map[int64]countOptEntry)
	t.multiUpdateFlag = MultiUpdateNone

	t.ModifiedClasses = make(map[int64]struct{})
	t.TwoPC = TwoPCInfo{}
	t.ReplicationRecordCount = 0
	t.XASLID = 0
}

// IsInterrupted reports the one-shot interrupt flag without clearing it.
func (t *TDES) IsInterrupted() bool {
	return atomic.LoadInt32(&t.interrupt) != 0
}

// setInterrupt sets the flag; callers must also bump the process-wide
// num_interrupts counter (done by the owning Engine).
func (t *TDES) setInterrupt() bool {
	return atomic.CompareAndSwapInt32(&t.interrupt, 0, 1)
}

// consumeInterrupt clears the flag and reports whether it had been set
// (spec.md §4.8: interrupt is observed exactly once).
func (t *TDES) consumeInterrupt() bool {
	return atomic.CompareAndSwapInt32(&t.interrupt, 1, 0)
}

func (t *TDES) isSystemWorker() bool {
	return t.Kind == KindSystemWorker || t.Kind == KindSystemMain
}
