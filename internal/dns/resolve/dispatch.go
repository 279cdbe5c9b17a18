package resolve

import (
	"context"

	"github.com/netresolve/rvdns/internal/dns/domain"
	"github.com/netresolve/rvdns/internal/dns/wire"
)

// issueServed answers a query from a positive cache hit. Delivery
// still happens from a goroutine, never under the engine lock, so a
// cache hit and a network round trip look identical to the caller.
func (e *Engine) issueServed(queryID uint32, q domain.Question, records []domain.Record, cb Callback, userCtx any) sendOutcome {
	ctx, cancel := context.WithCancel(context.Background())
	pq := newPendingQuery(queryID, cb, userCtx, cancel, false)
	e.queries[queryID] = pq
	go e.deliverCached(ctx, queryID, pq, q.Type, records)
	return sendOutcome{kind: outcomeServed}
}

func (e *Engine) deliverCached(ctx context.Context, queryID uint32, pq *pendingQuery, qtype domain.RRType, records []domain.Record) {
	defer e.forget(queryID)

	now := e.clock.Now()
	for i, rec := range records {
		if ctx.Err() != nil {
			pq.deliverCancelled(queryID)
			return
		}
		rec.TTL = rec.RemainingTTL(now)
		rec.Number = i + 1
		pq.deliver(queryID, rec)
	}
	if ctx.Err() != nil {
		pq.deliverCancelled(queryID)
		return
	}
	pq.deliverTerminal(queryID, domain.Record{Kind: domain.KindEndOfList, Query: qtype})
}

// issuePlain dispatches a single as-is query over the transport, with
// no search-suffix involvement.
func (e *Engine) issuePlain(queryID uint32, q domain.Question, cb Callback, userCtx any) sendOutcome {
	if e.transport == nil {
		return sendOutcome{kind: outcomeInlineFailure, status: domain.StatusNoServers}
	}
	ctx, cancel := context.WithCancel(context.Background())
	pq := newPendingQuery(queryID, cb, userCtx, cancel, false)
	e.queries[queryID] = pq
	go e.runPlain(ctx, queryID, pq, q)
	return sendOutcome{kind: outcomeScheduled}
}

func (e *Engine) runPlain(ctx context.Context, queryID uint32, pq *pendingQuery, q domain.Question) {
	defer e.forget(queryID)

	sink := &callbackSink{pq: pq, queryID: queryID}
	e.roundTrip(ctx, q, sink)
	if ctx.Err() != nil {
		pq.deliverCancelled(queryID)
	}
}

// roundTrip encodes, sends and decodes a single query attempt, staging
// every decoded record into a fresh cache session and routing answers
// through sink. It always closes its cache session, even when the
// response never parses far enough to know what question it was
// answering.
func (e *Engine) roundTrip(ctx context.Context, q domain.Question, sink *callbackSink) domain.Record {
	now := e.clock.Now()
	session := e.cache.StartCaching(q, now)
	sink.session = session
	defer session.Close()

	queryBytes, err := wire.EncodeQuery(e.nextWireID(), q)
	if err != nil {
		term := domain.Record{Kind: domain.KindStatus, Query: q.Type, Owner: q.Name, Status: domain.StatusBadParam}
		deliverFinal(sink, term)
		return term
	}

	resp, err := e.transport.Send(ctx, queryBytes)
	if err != nil {
		term := domain.Record{Kind: domain.KindStatus, Query: q.Type, Owner: q.Name, Status: domain.StatusEndOfServers}
		deliverFinal(sink, term)
		return term
	}

	term, decErr := wire.ProcessResponse(resp, q.Type, now, sink)
	if decErr != nil {
		term = domain.Record{Kind: domain.KindStatus, Query: q.Type, Owner: q.Name, Status: domain.StatusMalformed}
		session.Record(term)
		deliverFinal(sink, term)
	}
	return term
}

// deliverFinal delivers a terminal that never went through
// ProcessResponse (an encode failure or an exhausted transport), so
// sink.Deliver was never called for it.
func deliverFinal(sink *callbackSink, term domain.Record) {
	if sink.capture != nil {
		*sink.capture = term
		return
	}
	sink.pq.deliverTerminal(sink.queryID, term)
}
