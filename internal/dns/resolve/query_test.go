package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

func TestPendingQuery_DeliverTerminal_FiresAfterDestructedDataRecord(t *testing.T) {
	var received []domain.Record
	cb := func(_ any, _ uint32, rec domain.Record) bool {
		received = append(received, rec)
		return true // destructed: caller never wants another data record
	}

	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	pq := newPendingQuery(1, cb, nil, cancel, false)

	pq.deliver(1, domain.Record{Kind: domain.KindA})
	require.False(t, pq.alive.Load())

	pq.deliverTerminal(1, domain.Record{Kind: domain.KindEndOfList})

	require.Len(t, received, 2)
	assert.Equal(t, domain.KindA, received[0].Kind)
	assert.Equal(t, domain.KindEndOfList, received[1].Kind)
}

func TestPendingQuery_DeliverTerminal_OnlyFiresOnce(t *testing.T) {
	var count int
	cb := func(_ any, _ uint32, _ domain.Record) bool {
		count++
		return false
	}

	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	pq := newPendingQuery(1, cb, nil, cancel, false)

	pq.deliverTerminal(1, domain.Record{Kind: domain.KindEndOfList})
	pq.deliverTerminal(1, domain.Record{Kind: domain.KindEndOfList})
	pq.deliverCancelled(1)

	assert.Equal(t, 1, count)
}
