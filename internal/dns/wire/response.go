package wire

import (
	"encoding/binary"
	"time"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

// ResponseSink receives the records a response decodes into, in answer
// order, plus the single terminal record that closes out the response.
// ProcessResponse calls CacheRecord for every successfully decoded
// answer (whether or not it matches the query type — CNAME links need
// caching too), and Deliver exactly once per type-matching answer plus
// exactly once for the terminal record.
type ResponseSink interface {
	CacheRecord(rec domain.Record)
	// Deliver invokes the caller's callback. It returns true if the
	// callback reported that it must never be invoked again — from then
	// on ProcessResponse keeps caching but stops delivering.
	Deliver(rec domain.Record) (stop bool)
}

// ProcessResponse decodes a complete DNS response for a query of type
// qType, feeding decoded records to sink as it goes, and returns the
// terminal record (status-only or end-of-list) that sink.Deliver was
// last called with. A non-nil error means the response was malformed
// before any question or answer could be interpreted at all (a
// truncated header, an undecodable question) — in that case sink was
// never invoked, and the caller is responsible for synthesizing and
// delivering a status-only malformed record itself.
func ProcessResponse(msg []byte, qType domain.RRType, now time.Time, sink ResponseSink) (domain.Record, error) {
	hdr, err := parseHeader(msg)
	if err != nil {
		return domain.Record{}, err
	}

	qname, _, cur, err := skipQuestions(msg, headerSize, int(hdr.QDCount))
	if err != nil {
		return domain.Record{}, err
	}

	chain := newCNAMEChain()
	continueCaching := true
	continueCallbacks := true
	matched := 0

	for i := 0; i < int(hdr.ANCount); i++ {
		rec, next, decErr := decodeRecord(msg, cur)
		cur = next

		switch {
		case decErr == nil:
			rec.Query = qType
			if rec.Kind == domain.KindCNAME {
				chain.add(rec.Owner, rec.Alias)
			}
			if continueCaching {
				sink.CacheRecord(rec)
			}
			if rec.Kind.MatchesQuery(qType) && continueCallbacks {
				matched++
				rec.Number = matched
				if sink.Deliver(rec) {
					continueCallbacks = false
				}
			}
		case decErr == ErrNotSupported:
			continue
		default:
			// A decode failure mid-response is reported once, as a
			// terminal status record, and processing stops entirely:
			// the remainder of the message cannot be trusted to be
			// aligned correctly for this query.
			term := domain.Record{Kind: domain.KindStatus, Query: qType, Owner: qname, Status: domain.StatusMalformed}
			sink.Deliver(term)
			return term, nil
		}
	}

	if hdr.RCode == domain.RCodeNXDomain {
		name := chain.findTerminal()
		if name == "" {
			name = qname
		}
		ttl, _ := findNegativeTTL(msg, cur, int(hdr.NSCount))
		term := domain.Record{Kind: domain.KindStatus, Query: qType, Owner: name, TTL: ttl, Status: domain.StatusNotFound}
		sink.CacheRecord(term)
		sink.Deliver(term)
		return term, nil
	}

	if matched == 0 {
		name := chain.findTerminal()
		if name == "" {
			name = qname
		}
		ttl, _ := findNegativeTTL(msg, cur, int(hdr.NSCount))
		term := domain.Record{Kind: domain.KindStatus, Query: qType, Owner: name, TTL: ttl, Status: domain.StatusNoData}
		sink.CacheRecord(term)
		sink.Deliver(term)
		return term, nil
	}

	term := domain.Record{Kind: domain.KindEndOfList, Query: qType}
	sink.Deliver(term)
	return term, nil
}

// findNegativeTTL walks the authority section starting at cur looking
// for the first SOA/IN record, returning min(record TTL, SOA MINIMUM)
// per RFC 2308. Returns 0 if no SOA record is present.
func findNegativeTTL(msg []byte, cur int, nsCount int) (uint32, int) {
	for i := 0; i < nsCount; i++ {
		_, next, err := expandName(msg, cur)
		if err != nil {
			return 0, cur
		}
		cur = next
		if cur+rrFixedSize > len(msg) {
			return 0, cur
		}
		rtype := domain.RRType(binary.BigEndian.Uint16(msg[cur : cur+2]))
		rclass := domain.RRClass(binary.BigEndian.Uint16(msg[cur+2 : cur+4]))
		ttl := binary.BigEndian.Uint32(msg[cur+4 : cur+8])
		rdlen := int(binary.BigEndian.Uint16(msg[cur+8 : cur+10]))
		rdataStart := cur + rrFixedSize
		next = rdataStart + rdlen
		if next > len(msg) {
			return 0, cur
		}

		if rtype == domain.TypeSOA && rclass == domain.ClassIN {
			if rdlen < 20 {
				return 0, next
			}
			minimum := binary.BigEndian.Uint32(msg[next-4 : next])
			soaTTL := ttl
			if minimum < soaTTL {
				return minimum, next
			}
			return soaTTL, next
		}
		cur = next
	}
	return 0, cur
}
