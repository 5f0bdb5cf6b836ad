package tierstore

import "sync/atomic"

// Stats is a point-in-time copy of a level's counters.
type Stats struct {
	Hits              uint64 // local hits
	Misses            uint64 // local misses forwarded to the next level
	LookThroughHits   uint64 // misses the next level could serve
	Puts              uint64
	Purges            uint64 // purge runs that had something to evict
	Evicted           uint64
	WrittenBack       uint64
	WriteBackFailures uint64
}

type counters struct {
	hits              atomic.Uint64
	misses            atomic.Uint64
	lookThroughHits   atomic.Uint64
	puts              atomic.Uint64
	purges            atomic.Uint64
	evicted           atomic.Uint64
	writtenBack       atomic.Uint64
	writeBackFailures atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:              c.hits.Load(),
		Misses:            c.misses.Load(),
		LookThroughHits:   c.lookThroughHits.Load(),
		Puts:              c.puts.Load(),
		Purges:            c.purges.Load(),
		Evicted:           c.evicted.Load(),
		WrittenBack:       c.writtenBack.Load(),
		WriteBackFailures: c.writeBackFailures.Load(),
	}
}
