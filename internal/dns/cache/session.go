package cache

import (
	"time"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

// Session is a single response's cache-write transaction. It exists so
// every exit path out of response processing — a clean completion, an
// early malformed-record abort, even a response whose question section
// itself failed to parse — still finishes the transaction exactly
// once. Callers start one with Cache.StartCaching and defer Close
// immediately.
type Session struct {
	cache    *Cache
	terminal domain.Question
	now      time.Time
	closed   bool
}

// StartCaching opens a cache-write session for a response to the given
// question. Callers must defer Close.
func (c *Cache) StartCaching(q domain.Question, now time.Time) *Session {
	return &Session{cache: c, terminal: q, now: now}
}

// Record writes a decoded or status record into the cache at once. It
// may be called any number of times before Close and is a no-op after.
func (s *Session) Record(rec domain.Record) {
	if s.closed {
		return
	}
	s.cache.store(rec, s.terminal, s.now)
}

// Close ends the session; records already passed to Record stay
// cached, and later Record calls are ignored. It is idempotent, so deferring it
// unconditionally is safe even if the caller also calls it explicitly
// on an early-return path.
func (s *Session) Close() {
	s.closed = true
}
