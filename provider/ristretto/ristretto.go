// Package ristretto backs a ProviderStore with dgraph-io/ristretto.
// Ristretto is admission-controlled and may drop entries under memory
// pressure; use it for a volatile tier, never as the only durable store.
package ristretto

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/unkn0wn-root/tierstore/provider"
)

var ErrClosed = errors.New("ristretto provider: closed")

type Config struct {
	NumCounters int64 // ~10x the expected number of entries
	MaxCost     int64 // bytes; ProviderStore passes the frame size as cost
	BufferItems int64 // 64 is what ristretto recommends
	Metrics     bool
}

// ForBytes sizes a Config for maxBytes of frames averaging avgEntry bytes.
func ForBytes(maxBytes, avgEntry int64) Config {
	n := maxBytes / max(avgEntry, 1)
	return Config{NumCounters: max(n*10, 100), MaxCost: maxBytes, BufferItems: 64}
}

type Provider struct {
	c      *rc.Cache
	closed atomic.Bool
}

var _ pr.Provider = (*Provider)(nil)

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto provider: NumCounters, MaxCost and BufferItems must be positive")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
		// frames are sized by the caller; ristretto must not add its own overhead
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	if p.closed.Load() {
		return nil, false, ErrClosed
	}
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

// Set reports ok=false when the admission policy dropped the value. It waits
// for ristretto's write buffer so an accepted value is visible on return.
func (p *Provider) Set(_ context.Context, key string, value []byte, cost int64, ttl time.Duration) (bool, error) {
	if p.closed.Load() {
		return false, ErrClosed
	}
	if !p.c.SetWithTTL(key, value, cost, max(ttl, 0)) {
		return false, nil
	}
	p.c.Wait()
	_, ok := p.c.Get(key)
	return ok, nil
}

func (p *Provider) Ready(context.Context) (bool, error) { return !p.closed.Load(), nil }

func (p *Provider) Close(context.Context) error {
	if p.closed.Swap(true) {
		return nil
	}
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes ristretto's counters; nil unless Config.Metrics.
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
