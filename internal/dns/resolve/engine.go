// Package resolve implements the resolver's query engine: accepting a
// name and type, consulting the cache, driving the search-suffix state
// machine, dispatching to transport, and delivering results back to the
// caller's callback exactly once per query, built around goroutines
// rather than a reactor loop.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/netresolve/rvdns/internal/dns/cache"
	"github.com/netresolve/rvdns/internal/dns/common/clock"
	"github.com/netresolve/rvdns/internal/dns/common/log"
	"github.com/netresolve/rvdns/internal/dns/common/utils"
	"github.com/netresolve/rvdns/internal/dns/domain"
	"github.com/netresolve/rvdns/internal/dns/transport"
	"github.com/netresolve/rvdns/internal/dns/wire"
)

// MaxSearchDomains bounds the suffix list: the domain mask packs one
// as-is bit plus one bit per suffix into a uint32.
const MaxSearchDomains = 31

var (
	ErrTooManySuffixes  = errors.New("resolve: too many search suffixes, 31 max")
	ErrCallbackRequired = errors.New("resolve: callback is required")
)

// Options configures a new Engine. Servers and Suffixes may both be
// empty at construction time and supplied later via Configure and
// SetParams; until servers are configured, as-is and search queries
// alike fail inline with StatusNoServers, while cache hits still serve
// normally.
type Options struct {
	Servers  []string
	Suffixes []string
	Ndots    int
	NoSearch bool
	Timeout  time.Duration
	Tries    int

	Cache     *cache.Cache
	CacheOpts cache.Options

	Logger log.Logger
	Clock  clock.Clock
}

// Engine is the resolver's query engine: one Engine typically backs an
// entire process's worth of outstanding DNS lookups.
type Engine struct {
	mu       sync.Mutex
	servers  []string
	suffixes []string
	ndots    int
	noSearch bool
	timeout  time.Duration
	tries    int
	nextID   uint32
	queries  map[uint32]*pendingQuery

	wireID uint32 // atomic; 16-bit wire transaction id counter

	cache     *cache.Cache
	ownsCache bool
	transport *transport.Transport
	logger    log.Logger
	clock     clock.Clock
}

func New(opts Options) (*Engine, error) {
	if len(opts.Suffixes) > MaxSearchDomains {
		return nil, ErrTooManySuffixes
	}
	if opts.Ndots <= 0 {
		opts.Ndots = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}

	c := opts.Cache
	ownsCache := false
	if c == nil {
		built, err := cache.New(opts.CacheOpts)
		if err != nil {
			return nil, fmt.Errorf("resolve: building cache: %w", err)
		}
		c = built
		ownsCache = true
	}

	e := &Engine{
		servers:   append([]string(nil), opts.Servers...),
		suffixes:  append([]string(nil), opts.Suffixes...),
		ndots:     opts.Ndots,
		noSearch:  opts.NoSearch,
		timeout:   opts.Timeout,
		tries:     opts.Tries,
		queries:   make(map[uint32]*pendingQuery),
		cache:     c,
		ownsCache: ownsCache,
		logger:    opts.Logger,
		clock:     opts.Clock,
	}

	if len(e.servers) > 0 {
		t, err := transport.New(transport.Options{
			Servers: e.servers,
			Timeout: e.timeout,
			Tries:   e.tries,
			Logger:  e.logger,
		})
		if err != nil {
			return nil, err
		}
		e.transport = t
	}

	return e, nil
}

// Close releases resources the Engine owns. It does not close a Cache
// the caller supplied through Options.Cache.
func (e *Engine) Close() error {
	if e.ownsCache {
		return e.cache.Close()
	}
	return nil
}

// Send issues a query for name/qtype. If asIs is true the search-suffix
// machine is bypassed and name is sent exactly as given. The returned
// id identifies the query for Cancel regardless of how it resolves; a
// non-nil error means the query failed before anything was scheduled —
// no callback will ever be invoked for this id.
func (e *Engine) Send(name string, qtype domain.RRType, asIs bool, cb Callback, userCtx any) (uint32, error) {
	if !qtype.IsQueryable() {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnqueryable, qtype)
	}
	if cb == nil {
		return 0, ErrCallbackRequired
	}

	explicitFQDN := strings.HasSuffix(strings.TrimSpace(name), ".")
	bare := strings.TrimSuffix(utils.CanonicalDNSName(name), ".")
	if bare == "" {
		return 0, domain.ErrEmptyName
	}

	e.mu.Lock()

	e.nextID++
	queryID := e.nextID

	var mask uint32
	if asIs {
		mask = 1
	} else {
		mask = (uint32(1) << uint(len(e.suffixes)+1)) - 1
	}

	q, err := domain.NewQuestion(bare, qtype, domain.ClassIN)
	if err != nil {
		e.mu.Unlock()
		return queryID, err
	}

	now := e.clock.Now()
	lookup := e.cache.Find(q, now)

	var outcome sendOutcome
	switch {
	case lookup.Found && !lookup.Negative:
		outcome = e.issueServed(queryID, q, lookup.Records, cb, userCtx)
	case lookup.Found && lookup.Negative:
		e.mu.Unlock()
		return queryID, lookup.Status
	case asIs || e.noSearch || bypassSearch(explicitFQDN, e.suffixes, mask):
		outcome = e.issuePlain(queryID, q, cb, userCtx)
	default:
		outcome = e.issueSearch(queryID, bare, qtype, mask, cb, userCtx)
	}

	e.mu.Unlock()

	if outcome.kind == outcomeInlineFailure {
		return queryID, outcome.status
	}
	return queryID, nil
}

// Cancel stops an in-flight query. It is idempotent: cancelling an id
// that has already completed, already been cancelled, or never
// existed, is a silent no-op. No callback is invoked from within
// Cancel itself; the cancellation's single QUERY_CANCELED terminator
// is delivered by a goroutine racing (harmlessly, via the query's
// once-guard) against whatever was already in flight.
func (e *Engine) Cancel(queryID uint32) {
	e.mu.Lock()
	pq, ok := e.queries[queryID]
	if ok {
		delete(e.queries, queryID)
	}
	e.mu.Unlock()
	if !ok {
		return
	}

	pq.alive.Store(false)
	if pq.cancel != nil {
		pq.cancel()
	}
	go pq.deliverCancelled(queryID)
}

// ClearCache discards every cached answer and denial.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// GetParams returns the engine's current search suffixes, ndots and
// no-search flag.
func (e *Engine) GetParams() (suffixes []string, ndots int, noSearch bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.suffixes...), e.ndots, e.noSearch
}

// SetParams replaces the search-suffix configuration. New queries use
// it at once; a search query already in flight reads the new suffix
// list the next time it advances to another suffix, while its domain
// mask still reflects the suffix count at the time it was issued.
func (e *Engine) SetParams(suffixes []string, ndots int, noSearch bool) error {
	if len(suffixes) > MaxSearchDomains {
		return ErrTooManySuffixes
	}
	if ndots <= 0 {
		ndots = 1
	}
	e.mu.Lock()
	e.suffixes = append([]string(nil), suffixes...)
	e.ndots = ndots
	e.noSearch = noSearch
	e.mu.Unlock()
	return nil
}

func (e *Engine) forget(queryID uint32) {
	e.mu.Lock()
	delete(e.queries, queryID)
	e.mu.Unlock()
}

func (e *Engine) nextWireID() uint16 {
	return uint16(atomic.AddUint32(&e.wireID, 1))
}
