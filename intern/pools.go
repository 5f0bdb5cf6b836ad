package intern

import "github.com/unkn0wn-root/tierstore"

// Bitfield is a packed property record (flags over up to 64 properties).
type Bitfield struct {
	Bits  uint64
	Width uint8
}

// Config sets one limit per value category. 0 leaves a category unbounded;
// identifiers and signatures grow with the data and should be bounded.
type Config struct {
	Identifiers int
	Signatures  int
	SmallInts   int
	Bitfields   int

	Logger tierstore.Logger
	Hooks  tierstore.Hooks
}

// DefaultConfig bounds the categories that grow with the data set.
func DefaultConfig() Config {
	return Config{
		Identifiers: 1 << 20,
		Signatures:  1 << 18,
		SmallInts:   1 << 12,
		Bitfields:   1 << 16,
	}
}

// Pools groups the per-category pools. Construct one at startup and pass it
// to whatever builds records; there is no package-level instance.
type Pools struct {
	Identifiers *Pool[string]
	Signatures  *Pool[string]
	SmallInts   *Pool[int64]
	Bitfields   *Pool[Bitfield]
}

func NewPools(cfg Config) *Pools {
	opts := func(name string, limit int) Options {
		return Options{Name: name, Limit: limit, Logger: cfg.Logger, Hooks: cfg.Hooks}
	}
	return &Pools{
		Identifiers: New[string](opts("identifiers", cfg.Identifiers)),
		Signatures:  New[string](opts("signatures", cfg.Signatures)),
		SmallInts:   New[int64](opts("small_ints", cfg.SmallInts)),
		Bitfields:   New[Bitfield](opts("bitfields", cfg.Bitfields)),
	}
}
