package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecord_RemainingTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := Record{TTL: 300, CachedAt: now}

	assert.Equal(t, uint32(300), rec.RemainingTTL(now))
	assert.Equal(t, uint32(150), rec.RemainingTTL(now.Add(150*time.Second)))
	assert.Equal(t, uint32(0), rec.RemainingTTL(now.Add(300*time.Second)))
	assert.Equal(t, uint32(0), rec.RemainingTTL(now.Add(time.Hour)))
}

func TestRecordKind_MatchesQuery(t *testing.T) {
	cases := []struct {
		kind  RecordKind
		qtype RRType
		want  bool
	}{
		{KindA, TypeA, true},
		{KindA, TypeAAAA, false},
		{KindAAAA, TypeAAAA, true},
		{KindSRV, TypeSRV, true},
		{KindNAPTR, TypeNAPTR, true},
		{KindCNAME, TypeCNAME, true},
		{KindCNAME, TypeA, false},
		{KindStatus, TypeA, false},
		{KindEndOfList, TypeA, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.kind.MatchesQuery(c.qtype), "%s vs %s", c.kind, c.qtype)
	}
}

func TestStatus_SatisfiesError(t *testing.T) {
	var err error = StatusNotFound
	assert.EqualError(t, err, "not found")
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusOK.Terminal())
	assert.True(t, StatusNotFound.Terminal())
}
