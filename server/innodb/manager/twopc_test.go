package manager

import "testing"

import (
	"github.com/stretchr/testify/assert"
)

func TestTwoPCVotingLifecycle(t *testing.T) {
	tdes := &TDES{}

	t.Run("协调者开始收集投票", func(t *testing.T) {
		beginCollectingVotes(tdes, "gtrid-1", []string{"p0", "p1", "p2"})
		assert.Equal(t, TranState2PCCollectingVotes, tdes.State)
		assert.Equal(t, "gtrid-1", tdes.TwoPC.GTRID)
		assert.Len(t, tdes.TwoPC.AckBitmap, 3)
		assert.False(t, allVotesIn(tdes))
	})

	t.Run("逐个参与者确认", func(t *testing.T) {
		recordVote(tdes, 0)
		recordVote(tdes, 1)
		assert.False(t, allVotesIn(tdes))
		recordVote(tdes, 2)
		assert.True(t, allVotesIn(tdes))
	})

	t.Run("越界投票被忽略", func(t *testing.T) {
		recordVote(tdes, 99)
		recordVote(tdes, -1)
		assert.True(t, allVotesIn(tdes))
	})

	t.Run("进入第二阶段", func(t *testing.T) {
		enterSecondPhase(tdes, true)
		assert.Equal(t, TranState2PCSecondPhase, tdes.State)

		participant := &TDES{}
		enterSecondPhase(participant, false)
		assert.Equal(t, TranState2PCPrepared, participant.State)
	})
}

func TestTwoPCEmptyParticipantListNeverAllVotesIn(t *testing.T) {
	tdes := &TDES{}
	beginCollectingVotes(tdes, "gtrid-empty", nil)
	assert.False(t, allVotesIn(tdes))
}

func TestTwoPCLooseEnd(t *testing.T) {
	tdes := &TDES{}
	assert.False(t, tdes.TwoPC.IsLooseEnd)
	markLooseEnd(tdes)
	assert.True(t, tdes.TwoPC.IsLooseEnd)
}
