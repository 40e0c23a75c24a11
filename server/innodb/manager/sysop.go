package manager

import "encoding/binary"

// sysopBegin pushes a new top-op frame capturing tail_lsa as lastparent_lsa,
// emits a sysop-start log record, and bumps the reentrancy depth (spec.md
// §4.5). The depth counter stands in for the reentrant top-op mutex: Go's
// sync.Mutex isn't reentrant, and the one-worker-per-TDES invariant (spec.md
// §5) means a real mutex would only ever contend with itself.
func sysopBegin(tdes *TDES, log LogAppender) error {
	if tdes.Kind == KindSystemWorker && tdes.TopOps.isEmpty() {
		// An outermost sysop on a system worker starts from fresh LSAs, so
		// its successive sysops are never chained to one another.
		tdes.HeadLSA = NullLSA
		tdes.TailLSA = NullLSA
	}
	frame := TopOpFrame{LastParentLSA: tdes.TailLSA, PospLSA: NullLSA}
	tdes.TopOps.stack = append(tdes.TopOps.stack, frame)
	tdes.TopOps.last++
	tdes.TopOps.depth++

	lsa, err := log.AppendUndoRedo(tdes.TRID, LOG_TYPE_SYSOP_START, encodeLSA(frame.LastParentLSA))
	if err != nil {
		return err
	}
	tdes.TailLSA = lsa
	tdes.TopOpLSA = frame.LastParentLSA
	return nil
}

// sysopCommit emits the sysop-end(commit) record, pops the frame, and
// advances undo_nxlsa past this sysop's records so a later rollback of the
// parent skips them.
func sysopCommit(tdes *TDES, log LogAppender) error {
	if tdes.TopOps.isEmpty() {
		return ErrSysopStackEmpty
	}
	frame := tdes.TopOps.stack[tdes.TopOps.last]

	lsa, err := log.AppendUndoRedo(tdes.TRID, LOG_TYPE_SYSOP_COMMIT, encodeLSA(frame.LastParentLSA))
	if err != nil {
		return err
	}
	tdes.TailLSA = lsa
	tdes.TailTopResultLSA = lsa
	tdes.UndoNxLSA = frame.LastParentLSA

	popSysop(tdes)
	return nil
}

// sysopAbort drives undo of this sysop's own records back to
// lastparent_lsa, emits the sysop-end(abort) record, and pops the frame.
// Driving the actual undo application is the out-of-scope recovery/undo
// manager's job; this records the boundary the undo manager rolls back to.
func sysopAbort(tdes *TDES, log LogAppender) error {
	if tdes.TopOps.isEmpty() {
		return ErrSysopStackEmpty
	}
	frame := tdes.TopOps.stack[tdes.TopOps.last]

	_, err := log.AppendUndo(tdes.TRID, LOG_TYPE_SYSOP_ABORT, encodeLSA(frame.LastParentLSA))
	if err != nil {
		return err
	}
	tdes.TailLSA = frame.LastParentLSA
	tdes.UndoNxLSA = frame.LastParentLSA

	popSysop(tdes)
	return nil
}

// sysopAttachToOuter merges the current sysop into its parent: the frame is
// discarded without emitting an end record, so the sysop's own log records
// are treated as ordinary parent-transaction records that survive even if
// the transaction later rolls back further (the "logical undo" pattern,
// spec.md §4.5).
func sysopAttachToOuter(tdes *TDES) error {
	if tdes.TopOps.isEmpty() {
		return ErrSysopStackEmpty
	}
	popSysop(tdes)
	return nil
}

func popSysop(tdes *TDES) {
	s := &tdes.TopOps
	s.stack = s.stack[:s.last]
	s.last--
	s.depth--
	if s.last >= 0 {
		tdes.TopOpLSA = s.stack[s.last].LastParentLSA
	} else {
		tdes.TopOpLSA = NullLSA
	}
}

// sysopDepth reports nesting depth, used by introspection (C10).
func sysopDepth(tdes *TDES) int {
	return int(tdes.TopOps.last) + 1
}

func encodeLSA(l LSA) []byte {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint64(buf[0:8], l.PageID)
	binary.BigEndian.PutUint32(buf[8:12], l.Offset)
	return buf
}
