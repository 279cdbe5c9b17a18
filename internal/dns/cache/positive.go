// Package cache holds the resolver's positive answer cache (an LRU of
// decoded records) and its negative cache (an in-memory store, with
// optional bbolt-backed persistence, of NXDOMAIN/NODATA
// denials), guarded by a bloom filter that cheaply short-circuits the
// common case of repeatedly asking about a name that was just denied.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

// positiveCache is an LRU of decoded answer records keyed by
// name|type|class, adapted from the resolver's original answer cache:
// each key can hold multiple records (e.g. several A records for one
// name), and expired records are pruned lazily on read.
type positiveCache struct {
	lru *lru.Cache[string, []domain.Record]
}

func newPositiveCache(size int) (*positiveCache, error) {
	l, err := lru.New[string, []domain.Record](size)
	if err != nil {
		return nil, err
	}
	return &positiveCache{lru: l}, nil
}

// add appends rec to whichever key it belongs under, pruning expired
// siblings it finds along the way. Multiple records for the same key
// accumulate (round-robin answer sets); a record is not deduplicated
// against an identical existing entry, so a repeated answer is kept and
// served once per write until each copy's own TTL runs out.
func (p *positiveCache) add(key string, rec domain.Record, now time.Time) {
	existing, _ := p.lru.Get(key)
	var kept []domain.Record
	for _, e := range existing {
		if e.RemainingTTL(now) > 0 {
			kept = append(kept, e)
		}
	}
	kept = append(kept, rec)
	p.lru.Add(key, kept)
}

func (p *positiveCache) get(key string, now time.Time) ([]domain.Record, bool) {
	records, found := p.lru.Get(key)
	if !found {
		return nil, false
	}
	var valid []domain.Record
	for _, r := range records {
		if r.RemainingTTL(now) > 0 {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		p.lru.Remove(key)
		return nil, false
	}
	if len(valid) != len(records) {
		p.lru.Add(key, valid)
	}
	return valid, true
}

func (p *positiveCache) purge() {
	p.lru.Purge()
}
