package manager

// countOptState is a class's count-optimization cache state (C7): whether
// its {keys, oids, nulls} triple has been loaded from the global
// unique-stats store for the current snapshot.
type countOptState uint8

const (
	countOptNotLoaded countOptState = iota
	countOptToLoad
	countOptLoaded
)

// countOptEntry is the per-class cache slot keyed by class OID on a TDES.
type countOptEntry struct {
	state             countOptState
	keys, oids, nulls int64
}

// markToLoad is called by catalog prefetch / query preparation to request
// that classOID's counters be loaded on the next snapshot build.
func markToLoad(cache map[int64]countOptEntry, classOID int64) {
	e := cache[classOID]
	if e.state == countOptLoaded {
		return
	}
	e.state = countOptToLoad
	cache[classOID] = e
}

// loadPending walks entries marked to-load and pulls their triple from the
// global unique-stats store, called when a new snapshot is built (spec.md
// §4.7). partitions lists additional BTIDs to fold into the same class
// (partitioned tables sum across partitions).
func loadPending(cache map[int64]countOptEntry, btidByClass map[int64]BTID, partitions map[int64][]BTID, global *uniqueStatsStore) {
	for classOID, e := range cache {
		if e.state != countOptToLoad {
			continue
		}
		btid, ok := btidByClass[classOID]
		if !ok {
			continue
		}
		keys, oids, nulls, err := global.getOrLoad(btid, true)
		if err != nil {
			continue
		}
		for _, part := range partitions[classOID] {
			pk, po, pn, perr := global.getOrLoad(part, true)
			if perr != nil {
				continue
			}
			keys += pk
			oids += po
			nulls += pn
		}
		cache[classOID] = countOptEntry{state: countOptLoaded, keys: keys, oids: oids, nulls: nulls}
	}
}

// invalidate resets every entry back to not-loaded, called whenever the
// owning transaction's snapshot is invalidated (read-committed: between
// statements).
func invalidate(cache map[int64]countOptEntry) {
	for classOID := range cache {
		cache[classOID] = countOptEntry{state: countOptNotLoaded}
	}
}
