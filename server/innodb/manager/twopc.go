package manager

// markLooseEnd flags a TDES as an outstanding recoverable 2PC participant
// whose slot must survive past client disconnect (spec.md §4.9): the
// coordinator or a recovery pass later resumes it by TRID through the
// transaction table's find_by_trid.
func markLooseEnd(tdes *TDES) {
	tdes.TwoPC.IsLooseEnd = true
}

// beginCollectingVotes transitions a coordinator transaction into the 2PC
// voting phase, recording the global transaction id and its participants.
func beginCollectingVotes(tdes *TDES, gtrid string, participants []string) {
	tdes.State = TranState2PCCollectingVotes
	tdes.TwoPC.GTRID = gtrid
	tdes.TwoPC.Participants = participants
	tdes.TwoPC.AckBitmap = make([]bool, len(participants))
}

// recordVote acks participant i's prepared vote.
func recordVote(tdes *TDES, participant int) {
	if participant >= 0 && participant < len(tdes.TwoPC.AckBitmap) {
		tdes.TwoPC.AckBitmap[participant] = true
	}
}

// allVotesIn reports whether every participant has acked.
func allVotesIn(tdes *TDES) bool {
	for _, acked := range tdes.TwoPC.AckBitmap {
		if !acked {
			return false
		}
	}
	return len(tdes.TwoPC.AckBitmap) > 0
}

// enterSecondPhase moves a coordinator (all votes in) or a participant
// (prepared, awaiting the coordinator's decision) into its respective
// second-phase state.
func enterSecondPhase(tdes *TDES, asCoordinator bool) {
	if asCoordinator {
		tdes.State = TranState2PCSecondPhase
	} else {
		tdes.State = TranState2PCPrepared
	}
}
