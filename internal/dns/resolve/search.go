package resolve

import (
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/netresolve/rvdns/internal/dns/common/utils"
	"github.com/netresolve/rvdns/internal/dns/domain"
)

// advances reports whether status is one of the terminal statuses that
// make the search-suffix state machine advance to the next candidate
// name rather than deliver the result to the caller as final.
func advances(status domain.Status) bool {
	switch status {
	case domain.StatusNoData, domain.StatusServFail, domain.StatusNotFound,
		domain.StatusRefused, domain.StatusEndOfServers:
		return true
	default:
		return false
	}
}

// searchState is the per-query state of the search-suffix machine: the
// bare name the caller asked for, tried in turn against the engine's
// suffix list and, depending on ndots, either before or after all of
// them as-is. It is heap-allocated once per search query and never
// copied, matching invariant (iii) that a search-query's name is
// immutable for its lifetime.
type searchState struct {
	name       string
	qtype      domain.RRType
	tryAsIs    bool   // bit 0 of the original domainMask
	domainMask uint32 // bit i set means suffix i is eligible
	cursor     int    // next unexamined suffix index

	tryingAsIs     bool          // the attempt currently in flight is the as-is form
	asIsAttempted  bool
	statusAsIs     domain.Status // seeded ENOTFOUND-equivalent; updated after the as-is attempt completes
	sizeRejected   bool          // at least one suffix was skipped for exceeding the domain size cap
	suffixRejected bool          // at least one suffix was skipped for being a bare public suffix
	lastTerminal   domain.Record
}

func newSearchState(name string, qtype domain.RRType, mask uint32) *searchState {
	return &searchState{
		name:       name,
		qtype:      qtype,
		tryAsIs:    mask&1 != 0,
		domainMask: mask >> 1,
		statusAsIs: domain.StatusNotFound,
	}
}

// bypassSearch reports whether the search-suffix machine should be
// skipped entirely in favor of a single as-is query: no suffixes
// configured, the caller supplied a trailing dot (already fully
// qualified, by convention exempt from search-suffix expansion), or
// the mask disables everything but as-is.
func bypassSearch(explicitFQDN bool, suffixes []string, mask uint32) bool {
	if len(suffixes) == 0 {
		return true
	}
	if explicitFQDN {
		return true
	}
	return mask == 1
}

// startsAsIsFirst reports whether, per ndots policy, the bare name
// should be tried unqualified before any search suffix.
func startsAsIsFirst(name string, ndots int) bool {
	return utils.DotCount(name) >= ndots
}

// candidateAsIs and candidateSuffixed build the name the engine should
// actually send on the wire for the attempt currently described by ss.
func (ss *searchState) candidateAsIs() string {
	return ss.name
}

func (ss *searchState) candidateSuffixed(suffix string) string {
	return ss.name + "." + suffix
}

// crossesPublicSuffixBoundary reports whether suffix is itself nothing
// but a public suffix (e.g. "co.uk", "com"), with no registrable label
// of its own. Concatenating such a suffix onto a bare name would place
// the query directly under a public suffix boundary rather than under
// an organization's registered domain — almost certainly a
// misconfigured search domain rather than an intentional one, so it's
// skipped the same way an oversized candidate is.
func crossesPublicSuffixBoundary(suffix string) bool {
	trimmed := strings.TrimSuffix(suffix, ".")
	ps, icann := publicsuffix.PublicSuffix(trimmed)
	return icann && ps == trimmed
}

// nextSuffix returns the next eligible, size-fitting suffix starting
// from ss.cursor, advancing the cursor past it. It re-reads the
// engine's current suffix list under lock every call, since suffixes
// can change between attempts of the same search query.
func (e *Engine) nextSuffix(ss *searchState) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for ss.cursor < len(e.suffixes) {
		i := ss.cursor
		ss.cursor++
		bit := uint32(1) << uint(i)
		if ss.domainMask&bit == 0 {
			continue
		}
		suffix := e.suffixes[i]
		if len(ss.name)+1+len(suffix) > domain.MaxDomainSize {
			ss.sizeRejected = true
			continue
		}
		if crossesPublicSuffixBoundary(suffix) {
			ss.suffixRejected = true
			continue
		}
		return suffix, true
	}
	return "", false
}

// advance consumes the terminal record produced by the attempt that
// was in flight and decides what happens next: deliver term as final
// (ok==false), or issue the returned candidate name next (ok==true).
// tryingAsIs reports whether the returned candidate should be sent
// unqualified.
func (e *Engine) advance(ss *searchState, term domain.Record) (candidate string, tryingAsIs bool, final domain.Record, ok bool) {
	ss.lastTerminal = term

	if ss.tryingAsIs {
		ss.asIsAttempted = true
		ss.statusAsIs = term.Status
		ss.tryingAsIs = false
	}

	if !advances(term.Status) {
		return "", false, term, false
	}

	if suffix, found := e.nextSuffix(ss); found {
		return ss.candidateSuffixed(suffix), false, domain.Record{}, true
	}

	if ss.tryAsIs && !ss.asIsAttempted {
		ss.tryingAsIs = true
		return ss.candidateAsIs(), true, domain.Record{}, true
	}

	return "", false, ss.lastTerminal, false
}
