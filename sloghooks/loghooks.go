package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/tierstore"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	PurgeEvery       uint64
	LookThroughEvery uint64
	InternEvery      uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	purgeCtr  atomic.Uint64
	lookCtr   atomic.Uint64
	internCtr atomic.Uint64
}

var _ tierstore.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Purged(level string, evicted, written int) {
	if h.l == nil || !sample(h.opts.PurgeEvery, &h.purgeCtr) {
		return
	}
	h.l.Debug("tierstore.purged",
		"level", level,
		"evicted", evicted,
		"written", written)
}

// WriteBackFailed is never sampled: every failure means retained dirty data.
func (h *Hooks) WriteBackFailed(level, key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("tierstore.write_back_failed",
		"level", level,
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) CapacityViolated(level string, size, capacity int) {
	if h.l == nil {
		return
	}
	h.l.Error("tierstore.capacity_violated",
		"level", level,
		"size", size,
		"capacity", capacity)
}

func (h *Hooks) LookThrough(level, key string, found bool) {
	if h.l == nil || !sample(h.opts.LookThroughEvery, &h.lookCtr) {
		return
	}
	h.l.Debug("tierstore.look_through",
		"level", level,
		"key", h.redact(key),
		"found", found)
}

func (h *Hooks) InternRejected(pool string, size int) {
	if h.l == nil || !sample(h.opts.InternEvery, &h.internCtr) {
		return
	}
	h.l.Warn("tierstore.intern_rejected",
		"pool", pool,
		"size", size)
}
