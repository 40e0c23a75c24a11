package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLogAppender hands out strictly increasing LSAs and records every
// record type it was asked to append, so these tests can assert on the
// sysop boundary log shape without standing up the real redo/undo managers.
type fakeLogAppender struct {
	next     uint64
	recTypes []uint8
}

func (f *fakeLogAppender) append(trid TRID, recType uint8, payload []byte) (LSA, error) {
	f.next++
	f.recTypes = append(f.recTypes, recType)
	return LSA{PageID: f.next, Offset: 0}, nil
}

func (f *fakeLogAppender) AppendUndoRedo(trid TRID, recType uint8, payload []byte) (LSA, error) {
	return f.append(trid, recType, payload)
}
func (f *fakeLogAppender) AppendUndo(trid TRID, recType uint8, payload []byte) (LSA, error) {
	return f.append(trid, recType, payload)
}
func (f *fakeLogAppender) AppendRedo(trid TRID, recType uint8, payload []byte) (LSA, error) {
	return f.append(trid, recType, payload)
}

func TestSysopBeginCommitRoundTrip(t *testing.T) {
	tdes := newTDES(TranIndex(1))
	log := &fakeLogAppender{}

	require.NoError(t, sysopBegin(tdes, log))
	assert.Equal(t, 1, sysopDepth(tdes))

	parentLSA := tdes.TopOpLSA
	require.NoError(t, sysopCommit(tdes, log))
	assert.Equal(t, 0, sysopDepth(tdes))
	assert.Equal(t, parentLSA, tdes.UndoNxLSA)
	assert.Equal(t, []uint8{LOG_TYPE_SYSOP_START, LOG_TYPE_SYSOP_COMMIT}, log.recTypes)
}

func TestSysopNestingDepthTracksStackSize(t *testing.T) {
	tdes := newTDES(TranIndex(1))
	log := &fakeLogAppender{}

	require.NoError(t, sysopBegin(tdes, log))
	require.NoError(t, sysopBegin(tdes, log))
	require.NoError(t, sysopBegin(tdes, log))
	assert.Equal(t, 3, sysopDepth(tdes))

	require.NoError(t, sysopAbort(tdes, log))
	assert.Equal(t, 2, sysopDepth(tdes))
	require.NoError(t, sysopCommit(tdes, log))
	assert.Equal(t, 1, sysopDepth(tdes))
	require.NoError(t, sysopAttachToOuter(tdes))
	assert.Equal(t, 0, sysopDepth(tdes))
}

func TestSysopAttachToOuterEmitsNoLogRecord(t *testing.T) {
	tdes := newTDES(TranIndex(1))
	log := &fakeLogAppender{}
	require.NoError(t, sysopBegin(tdes, log))
	require.NoError(t, sysopAttachToOuter(tdes))
	assert.Equal(t, []uint8{LOG_TYPE_SYSOP_START}, log.recTypes, "attach-to-outer must not emit a sysop-end record")
}

func TestSysopOperationsOnEmptyStackFail(t *testing.T) {
	tdes := newTDES(TranIndex(1))
	log := &fakeLogAppender{}

	assert.ErrorIs(t, sysopCommit(tdes, log), ErrSysopStackEmpty)
	assert.ErrorIs(t, sysopAbort(tdes, log), ErrSysopStackEmpty)
	assert.ErrorIs(t, sysopAttachToOuter(tdes), ErrSysopStackEmpty)
}

func TestSysopAbortRestoresTailLSAToLastParentLSA(t *testing.T) {
	tdes := newTDES(TranIndex(1))
	log := &fakeLogAppender{}
	tdes.TailLSA = LSA{PageID: 5, Offset: 1}

	require.NoError(t, sysopBegin(tdes, log))
	lastParentLSA := tdes.TopOps.stack[tdes.TopOps.last].LastParentLSA

	require.NoError(t, sysopAbort(tdes, log))
	assert.Equal(t, lastParentLSA, tdes.TailLSA, "tail_lsa must equal the frame's lastparent_lsa as it was at sysop_begin")
	assert.Equal(t, lastParentLSA, tdes.UndoNxLSA)
}

func TestSysopRestoresParentLSAAfterPop(t *testing.T) {
	tdes := newTDES(TranIndex(1))
	log := &fakeLogAppender{}
	tdes.TailLSA = LSA{PageID: 7, Offset: 3}

	require.NoError(t, sysopBegin(tdes, log))
	outerLSA := tdes.TopOpLSA
	require.NoError(t, sysopBegin(tdes, log))
	require.NoError(t, sysopCommit(tdes, log))
	assert.Equal(t, outerLSA, tdes.TopOpLSA)
}
