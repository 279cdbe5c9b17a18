package resolve

import (
	"github.com/netresolve/rvdns/internal/dns/cache"
	"github.com/netresolve/rvdns/internal/dns/domain"
)

// callbackSink adapts a single in-flight query attempt into a
// wire.ResponseSink: every decoded record is staged into the cache
// session, and every type-matching record is handed to the query's
// callback immediately. The attempt's terminal record either goes
// straight to the callback (capture == nil, the plain as-is case) or
// is captured for the search-suffix driver to inspect before deciding
// whether this attempt's result is final (capture != nil).
type callbackSink struct {
	session *cache.Session
	pq      *pendingQuery
	queryID uint32
	capture *domain.Record
}

func (s *callbackSink) CacheRecord(rec domain.Record) {
	s.session.Record(rec)
}

func (s *callbackSink) Deliver(rec domain.Record) bool {
	if rec.Kind == domain.KindStatus || rec.Kind == domain.KindEndOfList {
		if s.capture != nil {
			*s.capture = rec
		} else {
			s.pq.deliverTerminal(s.queryID, rec)
		}
		return false
	}
	s.pq.deliver(s.queryID, rec)
	return !s.pq.alive.Load()
}
