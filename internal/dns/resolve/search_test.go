package resolve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

func TestStartsAsIsFirst(t *testing.T) {
	assert.True(t, startsAsIsFirst("www.example.com", 1))
	assert.True(t, startsAsIsFirst("www.example.com", 2))
	assert.False(t, startsAsIsFirst("host", 1))
	assert.True(t, startsAsIsFirst("host", 0))
}

func TestBypassSearch(t *testing.T) {
	assert.True(t, bypassSearch(false, nil, 3))
	assert.True(t, bypassSearch(true, []string{"example.com"}, 3))
	assert.True(t, bypassSearch(false, []string{"example.com"}, 1))
	assert.False(t, bypassSearch(false, []string{"example.com"}, 3))
}

func TestAdvances(t *testing.T) {
	assert.True(t, advances(domain.StatusNoData))
	assert.True(t, advances(domain.StatusNotFound))
	assert.True(t, advances(domain.StatusServFail))
	assert.True(t, advances(domain.StatusRefused))
	assert.True(t, advances(domain.StatusEndOfServers))
	assert.False(t, advances(domain.StatusOK))
	assert.False(t, advances(domain.StatusNameTooLong))
}

func newTestEngine(t *testing.T, suffixes []string, ndots int) *Engine {
	t.Helper()
	e, err := New(Options{Suffixes: suffixes, Ndots: ndots})
	require.NoError(t, err)
	return e
}

func TestSearchState_NextSuffix_SkipsOversizedNames(t *testing.T) {
	// "host." + 251 octets is 256 octets, over the 255-octet cap.
	e := newTestEngine(t, []string{"a.com", strings.Repeat("x", 251), "b.com"}, 1)
	ss := newSearchState("host", domain.TypeA, (uint32(1)<<4)-1)

	suffix, ok := e.nextSuffix(ss)
	require.True(t, ok)
	assert.Equal(t, "a.com", suffix)

	suffix, ok = e.nextSuffix(ss)
	require.True(t, ok)
	assert.Equal(t, "b.com", suffix)
	assert.True(t, ss.sizeRejected)

	_, ok = e.nextSuffix(ss)
	assert.False(t, ok)
}

func TestSearchState_Advance_TriesSuffixesThenAsIsLast(t *testing.T) {
	e := newTestEngine(t, []string{"corp.example"}, 2) // ndots=2, "host" has 0 dots: suffix-first
	ss := newSearchState("host", domain.TypeA, (uint32(1)<<2)-1)

	// first attempt is the suffix (not as-is), matching the default
	// start-state computed by issueSearch for a low-dot-count name.
	suffix, ok := e.nextSuffix(ss)
	require.True(t, ok)
	assert.Equal(t, "corp.example", suffix)

	// suffix attempt comes back negative: advance to as-is-last.
	candidate, tryingAsIs, _, ok := e.advance(ss, domain.Record{Kind: domain.KindStatus, Status: domain.StatusNotFound})
	require.True(t, ok)
	assert.True(t, tryingAsIs)
	assert.Equal(t, "host", candidate)

	// as-is-last also comes back negative: nothing left, deliver final.
	_, _, final, ok := e.advance(ss, domain.Record{Kind: domain.KindStatus, Status: domain.StatusNotFound, Owner: "host."})
	assert.False(t, ok)
	assert.Equal(t, domain.StatusNotFound, final.Status)
}

func TestSearchState_NextSuffix_SkipsBarePublicSuffix(t *testing.T) {
	e := newTestEngine(t, []string{"co.uk", "corp.example"}, 1)
	ss := newSearchState("host", domain.TypeA, (uint32(1)<<3)-1)

	suffix, ok := e.nextSuffix(ss)
	require.True(t, ok)
	assert.Equal(t, "corp.example", suffix)
	assert.True(t, ss.suffixRejected)
}

func TestSearchState_Advance_StopsOnNonAdvancingStatus(t *testing.T) {
	e := newTestEngine(t, []string{"corp.example"}, 1)
	ss := newSearchState("host", domain.TypeA, (uint32(1)<<2)-1)
	ss.tryingAsIs = true

	_, _, final, ok := e.advance(ss, domain.Record{Kind: domain.KindEndOfList})
	assert.False(t, ok)
	assert.Equal(t, domain.KindEndOfList, final.Kind)
}
