package resolve

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

// Callback is invoked one or more times per live query, terminated by
// exactly one record whose Kind is KindEndOfList or KindStatus. Once it
// returns true ("destructed" — the caller never wants to hear from this
// query again) the engine stops invoking it for any further data
// records, but the query's single terminal record is still delivered
// regardless.
type Callback func(ctx any, queryID uint32, rec domain.Record) (destructed bool)

// pendingQuery is an in-flight query's state. The engine's query table
// maps the id handed back from Send to it, and the goroutine servicing
// the query holds the same pointer; Cancel removes the id from the
// table and reaches that goroutine through cancel and the alive flag.
type pendingQuery struct {
	id       uint32
	cb       Callback
	userCtx  any
	alive    atomic.Bool
	cancel   context.CancelFunc
	isSearch bool

	// terminal guards delivery of the query's single terminal record,
	// since a background goroutine completing normally can race with
	// Cancel's own cancellation delivery; whichever reaches it first
	// wins and the other is silently dropped, preserving "exactly one
	// terminator per query" regardless of that race.
	terminal sync.Once
}

func newPendingQuery(id uint32, cb Callback, userCtx any, cancel context.CancelFunc, isSearch bool) *pendingQuery {
	pq := &pendingQuery{id: id, cb: cb, userCtx: userCtx, cancel: cancel, isSearch: isSearch}
	pq.alive.Store(true)
	return pq
}

// deliver invokes the callback for a non-terminal (data) record,
// unless the query has been destructed by a prior callback return or
// already cancelled.
func (pq *pendingQuery) deliver(queryID uint32, rec domain.Record) {
	if !pq.alive.Load() {
		return
	}
	if pq.cb(pq.userCtx, queryID, rec) {
		pq.alive.Store(false)
	}
}

// deliverTerminal invokes the callback with the query's one true
// terminal record (end-of-list or a status), guarded so it only ever
// runs once across the lifetime of the query. It fires unconditionally,
// even if a prior data-record callback already returned destructed —
// every accepted query gets exactly one terminating callback.
func (pq *pendingQuery) deliverTerminal(queryID uint32, rec domain.Record) {
	pq.terminal.Do(func() {
		pq.cb(pq.userCtx, queryID, rec)
	})
}

// deliverCancelled delivers the query's terminal as a cancellation,
// still subject to the same once-guard as a normal completion so a
// race between Cancel and an in-flight completion can't double-fire.
func (pq *pendingQuery) deliverCancelled(queryID uint32) {
	pq.terminal.Do(func() {
		pq.cb(pq.userCtx, queryID, domain.Record{Kind: domain.KindStatus, Status: domain.StatusCancelled})
	})
}
