package wire

import (
	"net"
	"testing"
	"time"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

// BenchmarkProcessResponse_SingleARecord benchmarks the decode hot path:
// one question, one compressed-pointer answer, no CNAME chain.
func BenchmarkProcessResponse_SingleARecord(b *testing.B) {
	msg := newResponseBuilder(1, "example.com.", 1).
		answerA(300, net.ParseIP("93.184.216.34")).
		bytes()
	now := time.Now()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sink := &recordingSink{}
		if _, err := ProcessResponse(msg, domain.TypeA, now, sink); err != nil {
			b.Fatalf("ProcessResponse failed: %v", err)
		}
	}
}

// BenchmarkProcessResponse_CNAMEChain benchmarks the costlier path where
// the terminal owner name is tracked across a CNAME hop.
func BenchmarkProcessResponse_CNAMEChain(b *testing.B) {
	msg := newResponseBuilder(1, "www.example.com.", 1).
		answerCNAME("www.example.com.", 60, "alias.example.com.").
		rcodeNXDomain().
		bytes()
	now := time.Now()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sink := &recordingSink{}
		if _, err := ProcessResponse(msg, domain.TypeA, now, sink); err != nil {
			b.Fatalf("ProcessResponse failed: %v", err)
		}
	}
}
