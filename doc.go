// Package tierstore implements a tiered object cache with write-back
// semantics in front of a slower backing store.
//
// A hierarchy is a chain of levels. Reads and writes go through the top
// level; a miss is served by the next level (look-through) and a full
// bounded level purges its least-recently-touched entries, writing dirty
// ones down and dropping clean ones.
//
// Components:
//   - Object: cached payload with identity, a dirty flag and a sequence stamp.
//     Types satisfy it by embedding State; Record is a ready-made wrapper
//     that marks itself dirty on every Update.
//   - Level: the lookup/insert/existence contract shared by caches and stores.
//     There is no removal method; purge is the only way entries leave a level.
//   - Cache: bounded (capacity > 0) or unbounded (capacity == 0) level built by New.
//   - MemStore, ProviderStore: terminal levels. ProviderStore persists through
//     a provider.Provider (Ristretto, BigCache, Redis) and a codec.Codec.
//
// Typical chain:
//
//	store, _ := tierstore.NewProviderStore(tierstore.StoreOptions[string, *Genome]{
//	    Namespace: "genome",
//	    Provider:  redisProvider,
//	    Codec:     genomeCodec,
//	})
//	warm, _ := tierstore.New(tierstore.Config[string, *Genome]{
//	    Name: "warm", Capacity: 100_000, PurgeBatch: 1_000, Next: store,
//	})
//	hot, _ := tierstore.New(tierstore.Config[string, *Genome]{
//	    Name: "hot", Capacity: 0, Next: warm, // unbounded pass-through
//	})
//
// Deduplication of small immutable values lives in the intern package and is
// independent of the tiers.
package tierstore
