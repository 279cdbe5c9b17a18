package cache

import (
	"time"

	"github.com/netresolve/rvdns/internal/dns/common/log"
	"github.com/netresolve/rvdns/internal/dns/domain"
)

// Options configures a Cache. PositiveSize bounds the number of
// distinct name|type|class keys kept in the positive LRU. NegativePath,
// if set, backs the negative cache with a bbolt database at that path
// so denials survive a restart; an empty path keeps the negative cache
// purely in memory.
type Options struct {
	PositiveSize int
	NegativePath string
	Logger       log.Logger
}

// Lookup is the outcome of a cache Find: at most one of Records or
// Status is meaningful, selected by Found and Negative.
type Lookup struct {
	Found    bool
	Negative bool
	Records  []domain.Record
	Status   domain.Status
}

// Cache is the resolver's combined positive/negative answer cache.
type Cache struct {
	positive *positiveCache
	negative *negativeStore
	bloom    *recentNegativeFilter
	logger   log.Logger
}

func New(opts Options) (*Cache, error) {
	if opts.PositiveSize <= 0 {
		opts.PositiveSize = 4096
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}

	positive, err := newPositiveCache(opts.PositiveSize)
	if err != nil {
		return nil, err
	}

	var negative *negativeStore
	if opts.NegativePath != "" {
		negative, err = newPersistentNegativeStore(opts.NegativePath)
		if err != nil {
			return nil, err
		}
	} else {
		negative = newNegativeStore()
	}

	bloom := newRecentNegativeFilter(uint(opts.PositiveSize), 0.01)
	if opts.NegativePath != "" {
		// The bloom filter itself isn't persisted; warm it from the
		// store's keys so a restart doesn't make every
		// previously-denied name skip the negative store entirely.
		if keys, err := negative.keys(); err == nil {
			for _, key := range keys {
				bloom.add(key)
			}
		}
	}

	return &Cache{
		positive: positive,
		negative: negative,
		bloom:    bloom,
		logger:   opts.Logger,
	}, nil
}

// Close releases any on-disk resources held by the negative cache.
func (c *Cache) Close() error {
	return c.negative.close()
}

// Find looks up q, consulting the recently-negative filter first to
// cheaply skip the negative store on a clean miss, then the positive
// cache.
func (c *Cache) Find(q domain.Question, now time.Time) Lookup {
	key := q.Key()

	if c.bloom.mightContain(key) {
		if neg, ok := c.negative.get(key, now); ok {
			return Lookup{Found: true, Negative: true, Status: neg.Status}
		}
	}

	if records, ok := c.positive.get(key, now); ok {
		return Lookup{Found: true, Records: records}
	}

	return Lookup{}
}

// Clear discards every cached entry: positive answers, negative
// denials and the bloom filter's state.
func (c *Cache) Clear() {
	c.positive.purge()
	c.negative.clear()
	c.bloom.clear()
}

// recordKey returns the cache key a decoded record should be filed
// under: its own owner name and type, not necessarily the original
// query's name, since a CNAME link answered along the way is cached
// under its own name so a later direct lookup of the alias hits too.
func recordKey(rec domain.Record, queryTerminal domain.Question) string {
	switch rec.Kind {
	case domain.KindStatus, domain.KindEndOfList:
		return queryTerminal.Key()
	case domain.KindCNAME:
		return domain.Question{Name: rec.Owner, Type: domain.TypeCNAME, Class: domain.ClassIN}.Key()
	default:
		return domain.Question{Name: rec.Owner, Type: rec.Query, Class: domain.ClassIN}.Key()
	}
}

func (c *Cache) store(rec domain.Record, terminal domain.Question, now time.Time) {
	rec.CachedAt = now
	key := recordKey(rec, terminal)

	if rec.Kind == domain.KindStatus {
		c.negative.put(key, negativeEntry{Status: rec.Status, Owner: rec.Owner, TTL: rec.TTL, CachedAt: now})
		c.bloom.add(key)
		return
	}
	if rec.Kind == domain.KindEndOfList {
		return
	}
	c.positive.add(key, rec, now)
}
