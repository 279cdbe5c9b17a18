package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

func mustQuestion(t *testing.T, name string, qtype domain.RRType) domain.Question {
	t.Helper()
	q, err := domain.NewQuestion(name, qtype, domain.ClassIN)
	require.NoError(t, err)
	return q
}

func TestCache_PositiveHitAndExpiry(t *testing.T) {
	c, err := New(Options{PositiveSize: 16})
	require.NoError(t, err)
	defer c.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	q := mustQuestion(t, "example.com", domain.TypeA)
	terminal := c.StartCaching(q, now)
	terminal.Record(domain.Record{Kind: domain.KindA, Owner: q.Name, Query: domain.TypeA, TTL: 60})
	terminal.Close()

	lookup := c.Find(q, now.Add(30*time.Second))
	require.True(t, lookup.Found)
	assert.False(t, lookup.Negative)
	require.Len(t, lookup.Records, 1)

	lookup = c.Find(q, now.Add(90*time.Second))
	assert.False(t, lookup.Found)
}

func TestCache_NegativeHit(t *testing.T) {
	c, err := New(Options{PositiveSize: 16})
	require.NoError(t, err)
	defer c.Close()

	now := time.Now()
	q := mustQuestion(t, "nope.example.com", domain.TypeA)
	session := c.StartCaching(q, now)
	session.Record(domain.Record{Kind: domain.KindStatus, Owner: q.Name, Status: domain.StatusNotFound, TTL: 120})
	session.Close()

	lookup := c.Find(q, now.Add(time.Second))
	require.True(t, lookup.Found)
	assert.True(t, lookup.Negative)
	assert.Equal(t, domain.StatusNotFound, lookup.Status)
}

func TestCache_EndOfListNeverCached(t *testing.T) {
	c, err := New(Options{PositiveSize: 16})
	require.NoError(t, err)
	defer c.Close()

	now := time.Now()
	q := mustQuestion(t, "example.com", domain.TypeA)
	session := c.StartCaching(q, now)
	session.Record(domain.Record{Kind: domain.KindEndOfList, Query: domain.TypeA})
	session.Close()

	lookup := c.Find(q, now)
	assert.False(t, lookup.Found)
}

func TestCache_CNAMECachedUnderItsOwnOwner(t *testing.T) {
	c, err := New(Options{PositiveSize: 16})
	require.NoError(t, err)
	defer c.Close()

	now := time.Now()
	terminal := mustQuestion(t, "www.example.com", domain.TypeA)
	session := c.StartCaching(terminal, now)
	session.Record(domain.Record{Kind: domain.KindCNAME, Owner: "www.example.com.", Alias: "edge.example.com.", Query: domain.TypeA, TTL: 60})
	session.Close()

	// CNAME is not a queryable type, so the lookup key is built directly
	// rather than through domain.NewQuestion.
	cnameQuestion := domain.Question{Name: "www.example.com.", Type: domain.TypeCNAME, Class: domain.ClassIN}
	lookup := c.Find(cnameQuestion, now.Add(time.Second))
	require.True(t, lookup.Found)
	require.Len(t, lookup.Records, 1)
	assert.Equal(t, "edge.example.com.", lookup.Records[0].Alias)
}

func TestCache_Clear(t *testing.T) {
	c, err := New(Options{PositiveSize: 16})
	require.NoError(t, err)
	defer c.Close()

	now := time.Now()
	q := mustQuestion(t, "example.com", domain.TypeA)
	session := c.StartCaching(q, now)
	session.Record(domain.Record{Kind: domain.KindA, Owner: q.Name, Query: domain.TypeA, TTL: 60})
	session.Close()

	c.Clear()
	lookup := c.Find(q, now)
	assert.False(t, lookup.Found)
}

func TestCache_PersistentNegativeStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "negative.db")

	c1, err := New(Options{PositiveSize: 16, NegativePath: path})
	require.NoError(t, err)

	now := time.Now()
	q := mustQuestion(t, "denied.example.com", domain.TypeA)
	session := c1.StartCaching(q, now)
	session.Record(domain.Record{Kind: domain.KindStatus, Owner: q.Name, Status: domain.StatusNotFound, TTL: 3600})
	session.Close()
	require.NoError(t, c1.Close())

	c2, err := New(Options{PositiveSize: 16, NegativePath: path})
	require.NoError(t, err)
	defer c2.Close()

	lookup := c2.Find(q, now.Add(time.Second))
	require.True(t, lookup.Found)
	assert.True(t, lookup.Negative)
}
