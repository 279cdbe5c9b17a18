// Package transport sends encoded DNS queries to upstream servers over
// UDP, falling back to TCP when a response is truncated, and retries
// across the configured server list up to a fixed attempt budget.
package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/netresolve/rvdns/internal/dns/common/log"
)

// DialFunc opens a connection to address over network ("udp" or
// "tcp"); injectable so tests can substitute an in-memory transport.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

var ErrNoServers = errors.New("transport: no upstream servers configured")

// udpReadSize is generous enough for a non-EDNS UDP response (512
// octets per RFC 1035) plus headroom; anything larger arrives
// truncated and triggers the TCP fallback.
const udpReadSize = 4096

// Options configures a Transport.
type Options struct {
	Servers  []string
	Timeout  time.Duration
	Tries    int
	ForceTCP bool
	Dial     DialFunc
	Logger   log.Logger
}

// Transport forwards already wire-encoded queries to upstream servers.
type Transport struct {
	servers  []string
	timeout  time.Duration
	tries    int
	forceTCP bool
	dial     DialFunc
	logger   log.Logger
}

func New(opts Options) (*Transport, error) {
	if len(opts.Servers) == 0 {
		return nil, ErrNoServers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Tries <= 0 {
		opts.Tries = len(opts.Servers)
	}
	if opts.Dial == nil {
		opts.Dial = (&net.Dialer{}).DialContext
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	servers := append([]string(nil), opts.Servers...)
	return &Transport{
		servers:  servers,
		timeout:  opts.Timeout,
		tries:    opts.Tries,
		forceTCP: opts.ForceTCP,
		dial:     opts.Dial,
		logger:   opts.Logger,
	}, nil
}

// Send delivers queryBytes to the configured servers, walking the
// server list in round-robin order and advancing to the next server on
// any transport-level failure (dial error, write error, read error or
// timeout) or a SERVFAIL answer, up to the configured tries budget. Each attempt gets its
// own fresh per-server timeout, still bounded by ctx's own deadline (if
// any) or cancellation, so one hanging server doesn't consume the
// budget later attempts would otherwise get. It returns the first
// successful raw response.
func (t *Transport) Send(ctx context.Context, queryBytes []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < t.tries; attempt++ {
		server := t.servers[attempt%len(t.servers)]
		attemptCtx, cancel := context.WithTimeout(ctx, t.timeout)
		resp, err := t.queryOnce(attemptCtx, server, queryBytes)
		cancel()
		if err == nil && len(resp) >= 4 && binary.BigEndian.Uint16(resp[2:4])&0x000F == 2 {
			err = fmt.Errorf("server %s answered SERVFAIL", server)
		}
		if err == nil {
			return resp, nil
		}
		t.logger.Debug(map[string]any{"server": server, "attempt": attempt, "error": err.Error()}, "upstream query attempt failed")
		lastErr = err
	}
	return nil, fmt.Errorf("transport: all attempts exhausted: %w", lastErr)
}

func (t *Transport) queryOnce(ctx context.Context, server string, queryBytes []byte) ([]byte, error) {
	if t.forceTCP {
		return t.queryTCP(ctx, server, queryBytes)
	}

	resp, err := t.queryUDP(ctx, server, queryBytes)
	if err != nil {
		return nil, err
	}
	if truncated(resp) {
		return t.queryTCP(ctx, server, queryBytes)
	}
	return resp, nil
}

// truncated reports the header's TC bit without a full decode; the
// response pipeline itself still treats the eventual (TCP-retried)
// message as authoritative.
func truncated(msg []byte) bool {
	if len(msg) < 4 {
		return false
	}
	flags := binary.BigEndian.Uint16(msg[2:4])
	return flags&0x0200 != 0
}

func (t *Transport) queryUDP(ctx context.Context, server string, queryBytes []byte) ([]byte, error) {
	conn, err := t.dial(ctx, "udp", server)
	if err != nil {
		return nil, fmt.Errorf("dial udp %s: %w", server, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write(queryBytes); err != nil {
		return nil, fmt.Errorf("write udp %s: %w", server, err)
	}

	buf := make([]byte, udpReadSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read udp %s: %w", server, err)
	}
	return buf[:n], nil
}

func (t *Transport) queryTCP(ctx context.Context, server string, queryBytes []byte) ([]byte, error) {
	conn, err := t.dial(ctx, "tcp", server)
	if err != nil {
		return nil, fmt.Errorf("dial tcp %s: %w", server, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	framed := make([]byte, 2+len(queryBytes))
	binary.BigEndian.PutUint16(framed, uint16(len(queryBytes)))
	copy(framed[2:], queryBytes)
	if _, err := conn.Write(framed); err != nil {
		return nil, fmt.Errorf("write tcp %s: %w", server, err)
	}

	var lenBuf [2]byte
	if _, err := readFull(conn, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("read tcp length %s: %w", server, err)
	}
	respLen := binary.BigEndian.Uint16(lenBuf[:])
	resp := make([]byte, respLen)
	if _, err := readFull(conn, resp); err != nil {
		return nil, fmt.Errorf("read tcp body %s: %w", server, err)
	}
	return resp, nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
