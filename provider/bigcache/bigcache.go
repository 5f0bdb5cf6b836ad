// Package bigcache backs a ProviderStore with allegro/bigcache. Entries live
// off the GC-scanned heap and expire after the global LifeWindow; per-entry
// TTLs are not supported.
package bigcache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	bc "github.com/allegro/bigcache/v3"

	pr "github.com/unkn0wn-root/tierstore/provider"
)

var ErrClosed = errors.New("bigcache provider: closed")

type Config struct {
	Shards             int // power of two; 0 => bigcache default
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // 0 => unlimited
}

type Provider struct {
	c      *bc.BigCache
	closed atomic.Bool
}

var _ pr.Provider = (*Provider)(nil)

func New(cfg Config) (*Provider, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	conf.Verbose = false
	if cfg.Shards > 0 {
		conf.Shards = cfg.Shards
	}
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	conf.HardMaxCacheSize = max(cfg.HardMaxCacheSizeMB, 0)

	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	if p.closed.Load() {
		return nil, false, ErrClosed
	}
	b, err := p.c.Get(key)
	switch {
	case errors.Is(err, bc.ErrEntryNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

// Set ignores cost and ttl. BigCache copies value into its own buffers.
func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	if p.closed.Load() {
		return false, ErrClosed
	}
	if err := p.c.Set(key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) Ready(context.Context) (bool, error) { return !p.closed.Load(), nil }

func (p *Provider) Close(context.Context) error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.c.Close()
}

// Len reports the number of entries held, expired ones included until the
// next clean window.
func (p *Provider) Len() int { return p.c.Len() }

// Stats exposes bigcache's hit, miss and collision counters.
func (p *Provider) Stats() bc.Stats { return p.c.Stats() }
