package resolve

import "github.com/netresolve/rvdns/internal/dns/domain"

// outcomeKind tags how a query's issuing attempt concluded before Send
// returns to the caller: the functions that actually talk to the cache
// and transport return one of these directly rather than stashing a
// status somewhere for a caller to read back later.
type outcomeKind int

const (
	// outcomeScheduled means the query was handed off to a background
	// goroutine; the caller's callback will fire asynchronously.
	outcomeScheduled outcomeKind = iota
	// outcomeServed means a cache hit answered the query; delivery is
	// still asynchronous (via a goroutine) to preserve the invariant
	// that no callback is ever invoked while the engine lock is held,
	// but no network round trip is involved.
	outcomeServed
	// outcomeInlineFailure means the query failed before anything was
	// ever scheduled — no pendingQuery was registered and no callback
	// will ever fire for this id. Send reports status as its error.
	outcomeInlineFailure
)

type sendOutcome struct {
	kind   outcomeKind
	status domain.Status
}
