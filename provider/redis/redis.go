// Package redis backs a ProviderStore with a go-redis client. It is the
// durable option: entries survive process restarts and are shared between
// processes using the same namespace.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/tierstore/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

type Config struct {
	Client goredis.UniversalClient

	// OwnsClient makes Close close Client. Leave false when the client is
	// shared with other code.
	OwnsClient bool

	// OpTimeout bounds every call that arrives without a deadline. 0 leaves
	// such calls unbounded.
	OpTimeout time.Duration
}

type Provider struct {
	rdb     goredis.UniversalClient
	owns    bool
	timeout time.Duration
}

var _ pr.Provider = (*Provider)(nil)

func New(cfg Config) (*Provider, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Provider{rdb: cfg.Client, owns: cfg.OwnsClient, timeout: max(cfg.OpTimeout, 0)}, nil
}

func (p *Provider) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout == 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}

func (p *Provider) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	b, err := p.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

// Set never reports a rejection: Redis either stores the value or fails.
// Cost is ignored; ttl <= 0 stores without expiry.
func (p *Provider) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	if err := p.rdb.Set(ctx, key, value, max(ttl, 0)).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Ready pings the server. An unreachable server is reported as not ready
// together with the transport error.
func (p *Provider) Ready(ctx context.Context) (bool, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	if err := p.rdb.Ping(ctx).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Close is idempotent. It closes the client only when the provider owns it.
func (p *Provider) Close(context.Context) error {
	if !p.owns {
		return nil
	}
	err := p.rdb.Close()
	if errors.Is(err, goredis.ErrClosed) {
		return nil
	}
	return err
}
