package resolve

import "github.com/netresolve/rvdns/internal/dns/transport"

// Configure replaces the engine's upstream server list. It runs in two
// phases: first, under the engine lock, the new transport is built and
// every in-flight query is spliced out of the live table; then, with
// the lock released, each of those queries has its underlying I/O
// cancelled and is delivered its single QUERY_CANCELED terminator. No
// callback ever runs while the lock is held.
func (e *Engine) Configure(servers []string) error {
	e.mu.Lock()

	var t *transport.Transport
	if len(servers) > 0 {
		built, err := transport.New(transport.Options{
			Servers: servers,
			Timeout: e.timeout,
			Tries:   e.tries,
			Logger:  e.logger,
		})
		if err != nil {
			e.mu.Unlock()
			return err
		}
		t = built
	}

	spliced := make([]*pendingQuery, 0, len(e.queries))
	for id, pq := range e.queries {
		spliced = append(spliced, pq)
		delete(e.queries, id)
	}

	e.servers = append([]string(nil), servers...)
	e.transport = t

	e.mu.Unlock()

	for _, pq := range spliced {
		pq.alive.Store(false)
		if pq.cancel != nil {
			pq.cancel()
		}
		pq.deliverCancelled(pq.id)
	}
	return nil
}
