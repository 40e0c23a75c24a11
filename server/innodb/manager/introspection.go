package manager

import (
	"fmt"
	"io"
)

// DescriptorRow is one read-only snapshot of a TDES (C10): every field was
// consistent at the moment it was copied, but nothing about the scan as a
// whole is atomic across rows.
type DescriptorRow struct {
	Index     TranIndex
	TRID      TRID
	State     TranState
	Isolation Isolation
	WaitMsecs int32

	HeadLSA          LSA
	TailLSA          LSA
	UndoNxLSA        LSA
	PospNxLSA        LSA
	SavepointLSA     LSA
	CommitAbortLSA   LSA

	Client ClientIdentity

	TopOpDepth int

	UniqueStatKeys, UniqueStatOids, UniqueStatNulls int64

	Interrupted bool

	ReplicationRecordCount int64

	QueryStartTimeMs int64
	QueryTimeoutMs   int64
	TranStartTimeMs  int64

	XASLID      int64
	AbortReason AbortReason
}

// snapshotRow copies tdes's introspectable fields, summing its tran-local
// unique-stat deltas across every BTID it has touched.
func snapshotRow(tdes *TDES) DescriptorRow {
	var keys, oids, nulls int64
	for i := range tdes.UniqueStats.entries {
		e := &tdes.UniqueStats.entries[i]
		keys += e.deltaKeys
		oids += e.deltaOids
		nulls += e.deltaNulls
	}
	return DescriptorRow{
		Index:     tdes.Index,
		TRID:      tdes.TRID,
		State:     tdes.State,
		Isolation: tdes.Isolation,
		WaitMsecs: tdes.WaitMsecs,

		HeadLSA:        tdes.HeadLSA,
		TailLSA:        tdes.TailLSA,
		UndoNxLSA:      tdes.UndoNxLSA,
		PospNxLSA:      tdes.PospNxLSA,
		SavepointLSA:   tdes.SavepointLSA,
		CommitAbortLSA: tdes.CommitAbortLSA,

		Client: tdes.Client,

		TopOpDepth: sysopDepth(tdes),

		UniqueStatKeys:  keys,
		UniqueStatOids:  oids,
		UniqueStatNulls: nulls,

		Interrupted: tdes.IsInterrupted(),

		ReplicationRecordCount: tdes.ReplicationRecordCount,

		QueryStartTimeMs: tdes.QueryStartTimeMs,
		QueryTimeoutMs:   tdes.QueryTimeoutMs,
		TranStartTimeMs:  tdes.TranStartTimeMs,

		XASLID:      tdes.XASLID,
		AbortReason: tdes.AbortReason,
	}
}

// forEachDescriptor is the read-only tabular scan spec.md §4.10 describes,
// under the transaction table's shared lock. No mutation is performed.
func forEachDescriptor(table *tranTable, fn func(DescriptorRow) bool) {
	table.mapActive(func(tdes *TDES) bool {
		return fn(snapshotRow(tdes))
	})
}

// dumpDescriptor writes a human-readable dump of a single transaction,
// supplementing the tabular scan the way the original engine's
// logtb_dump_tdes / logtb_dump_top_operations operator tools do.
func dumpDescriptor(table *tranTable, w io.Writer, index TranIndex) error {
	tdes := table.get(index)
	if tdes == nil {
		return ErrUnknownTranIndex
	}
	row := snapshotRow(tdes)
	fmt.Fprintf(w, "tran_index=%d trid=%d state=%d isolation=%d wait_msecs=%d\n",
		row.Index, row.TRID, row.State, row.Isolation, row.WaitMsecs)
	fmt.Fprintf(w, "  head_lsa=%s tail_lsa=%s undo_nxlsa=%s posp_nxlsa=%s savept_lsa=%s commit_abort_lsa=%s\n",
		row.HeadLSA, row.TailLSA, row.UndoNxLSA, row.PospNxLSA, row.SavepointLSA, row.CommitAbortLSA)
	fmt.Fprintf(w, "  client: program=%s user=%s host=%s login=%s pid=%d conn=%d\n",
		row.Client.Program, row.Client.User, row.Client.Host, row.Client.Login, row.Client.ProcessID, row.Client.ConnID)
	fmt.Fprintf(w, "  topop_depth=%d unique_stats(keys=%d oids=%d nulls=%d) interrupted=%v\n",
		row.TopOpDepth, row.UniqueStatKeys, row.UniqueStatOids, row.UniqueStatNulls, row.Interrupted)
	fmt.Fprintf(w, "  query_start_ms=%d query_timeout_ms=%d tran_start_ms=%d xasl_id=%d abort_reason=%d\n",
		row.QueryStartTimeMs, row.QueryTimeoutMs, row.TranStartTimeMs, row.XASLID, row.AbortReason)
	return nil
}
