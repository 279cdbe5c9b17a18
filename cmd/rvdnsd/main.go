// Command rvdnsd is a demonstration harness for the resolver engine:
// it loads configuration from the environment, falls back to the
// host's /etc/resolv.conf for servers and search domains when the
// environment doesn't supply them, and resolves whatever names are
// given on the command line, printing each answer as it arrives.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/netresolve/rvdns/internal/dns/cache"
	"github.com/netresolve/rvdns/internal/dns/common/log"
	"github.com/netresolve/rvdns/internal/dns/config"
	"github.com/netresolve/rvdns/internal/dns/domain"
	"github.com/netresolve/rvdns/internal/dns/resolve"
	"github.com/netresolve/rvdns/internal/dns/sysconfig"
)

const version = "0.1.0-dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "logging configuration error: %v\n", err)
		os.Exit(1)
	}

	servers := cfg.ServerList()
	suffixes := cfg.SuffixList()
	ndots := cfg.Ndots
	if len(servers) == 0 {
		if probed, err := sysconfig.Probe(); err == nil {
			servers = probed.Servers
			if len(suffixes) == 0 {
				suffixes = probed.Search
			}
			ndots = probed.Ndots
		} else {
			log.Warn(map[string]any{"error": err.Error()}, "resolv.conf probe failed, no upstream servers configured")
		}
	}

	log.Info(map[string]any{
		"version":  version,
		"env":      cfg.Env,
		"servers":  servers,
		"suffixes": suffixes,
		"ndots":    ndots,
	}, "starting rvdnsd")

	c, err := cache.New(cache.Options{PositiveSize: int(cfg.CacheSize), NegativePath: cfg.NegativePath, Logger: log.GetLogger()})
	if err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "failed to build cache")
	}
	defer c.Close()

	engine, err := resolve.New(resolve.Options{
		Servers:  servers,
		Suffixes: suffixes,
		Ndots:    ndots,
		NoSearch: cfg.NoSearch,
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		Tries:    cfg.Tries,
		Cache:    c,
		Logger:   log.GetLogger(),
	})
	if err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "failed to build resolver engine")
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "shutdown signal received")
		cancel()
	}()

	names := os.Args[1:]
	if len(names) == 0 {
		log.Info(nil, "no names given on the command line, nothing to resolve")
		return
	}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		done := make(chan struct{})
		_, err := engine.Send(name, domain.TypeA, false, func(_ any, queryID uint32, rec domain.Record) bool {
			printRecord(name, queryID, rec)
			if rec.Kind == domain.KindStatus || rec.Kind == domain.KindEndOfList {
				close(done)
			}
			return false
		}, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			wg.Done()
			continue
		}
		go func() {
			defer wg.Done()
			select {
			case <-done:
			case <-ctx.Done():
			}
		}()
	}

	wg.Wait()
}

func printRecord(name string, queryID uint32, rec domain.Record) {
	switch rec.Kind {
	case domain.KindA, domain.KindAAAA:
		fmt.Printf("%s\t%d\t%s\tTTL=%d\n", name, queryID, rec.Addr, rec.TTL)
	case domain.KindCNAME:
		fmt.Printf("%s\t%d\tCNAME %s\n", name, queryID, rec.Alias)
	case domain.KindSRV:
		fmt.Printf("%s\t%d\tSRV %d %d %d %s\n", name, queryID, rec.SRV.Priority, rec.SRV.Weight, rec.SRV.Port, rec.SRV.Target)
	case domain.KindNAPTR:
		fmt.Printf("%s\t%d\tNAPTR %s\n", name, queryID, rec.NAPTR.Service)
	case domain.KindStatus:
		fmt.Printf("%s\t%d\t%s\n", name, queryID, rec.Status)
	case domain.KindEndOfList:
		// nothing further to print
	}
}
