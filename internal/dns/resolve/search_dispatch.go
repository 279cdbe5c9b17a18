package resolve

import (
	"context"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

// issueSearch starts a search-suffix query: a sequence of as-is and
// suffixed attempts driven by runSearch, with only the attempt that
// the state machine judges final ever reaching the caller's callback.
func (e *Engine) issueSearch(queryID uint32, bare string, qtype domain.RRType, mask uint32, cb Callback, userCtx any) sendOutcome {
	if e.transport == nil {
		return sendOutcome{kind: outcomeInlineFailure, status: domain.StatusNoServers}
	}

	ss := newSearchState(bare, qtype, mask)
	ctx, cancel := context.WithCancel(context.Background())
	pq := newPendingQuery(queryID, cb, userCtx, cancel, true)
	e.queries[queryID] = pq

	var candidate string
	if startsAsIsFirst(bare, e.ndots) {
		ss.tryingAsIs = true
		candidate = ss.candidateAsIs()
	} else if suffix, ok := e.nextSuffix(ss); ok {
		candidate = ss.candidateSuffixed(suffix)
	} else {
		// No configured suffix fits under the domain size cap; fall
		// back to as-is even though ndots policy would have tried
		// suffixes first.
		ss.tryingAsIs = true
		candidate = ss.candidateAsIs()
	}

	go e.runSearch(ctx, queryID, pq, ss, candidate)
	return sendOutcome{kind: outcomeScheduled}
}

func (e *Engine) runSearch(ctx context.Context, queryID uint32, pq *pendingQuery, ss *searchState, candidate string) {
	defer e.forget(queryID)

	for {
		if ctx.Err() != nil {
			pq.deliverCancelled(queryID)
			return
		}

		q, err := domain.NewQuestion(candidate, ss.qtype, domain.ClassIN)
		if err != nil {
			pq.deliverTerminal(queryID, domain.Record{
				Kind: domain.KindStatus, Query: ss.qtype, Owner: candidate, Status: domain.StatusNameTooLong,
			})
			return
		}

		var captured domain.Record
		sink := &callbackSink{pq: pq, queryID: queryID, capture: &captured}
		e.roundTrip(ctx, q, sink)
		if ctx.Err() != nil {
			pq.deliverCancelled(queryID)
			return
		}

		next, _, final, ok := e.advance(ss, captured)
		if !ok {
			pq.deliverTerminal(queryID, final)
			return
		}
		candidate = next
	}
}
