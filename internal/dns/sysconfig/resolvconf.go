// Package sysconfig probes the host's default resolver configuration —
// nameservers, search domains and ndots — the way glibc and the
// original resolver both do: by reading /etc/resolv.conf. It is an
// optional convenience for callers that don't want to supply server
// and search-domain lists themselves; Engine never reads it on its
// own.
package sysconfig

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

// DefaultPath is the conventional location probed by Probe.
const DefaultPath = "/etc/resolv.conf"

// DefaultNdots is applied when resolv.conf has no "options ndots:N"
// directive, matching glibc's default.
const DefaultNdots = 1

// Config is the subset of resolv.conf this resolver cares about.
type Config struct {
	Servers []string
	Search  []string
	Ndots   int
}

// Probe reads and parses DefaultPath. A missing file is not an error:
// it returns a Config with no servers or search domains and Ndots set
// to DefaultNdots, so callers fall back to their own defaults, the same tolerance glibc shows for a missing resolv.conf.
func Probe() (Config, error) {
	return ProbeFile(DefaultPath)
}

// ProbeFile parses the resolv.conf-formatted file at path.
func ProbeFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{Ndots: DefaultNdots}, nil
		}
		return Config{}, fmt.Errorf("sysconfig: open %s: %w", path, err)
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) (Config, error) {
	cfg := Config{Ndots: DefaultNdots}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		switch fields[0] {
		case "nameserver":
			cfg.Servers = append(cfg.Servers, withDefaultPort(fields[1]))
		case "search", "domain":
			// "domain" is a legacy single-suffix equivalent of search;
			// both are treated as search lists, the last directive
			// of either kind wins, matching glibc.
			cfg.Search = fields[1:]
		case "options":
			for _, opt := range fields[1:] {
				if n, ok := strings.CutPrefix(opt, "ndots:"); ok {
					if v, err := strconv.Atoi(n); err == nil && v >= 0 {
						cfg.Ndots = v
					}
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("sysconfig: scan resolv.conf: %w", err)
	}
	return cfg, nil
}

// withDefaultPort appends the standard DNS port to a bare address.
// resolv.conf nameserver lines never carry a port, but addresses
// wired in programmatically elsewhere in the resolver do, so this
// stays tolerant of both forms.
func withDefaultPort(addr string) string {
	if host, port, err := net.SplitHostPort(addr); err == nil && port != "" {
		return net.JoinHostPort(host, port)
	}
	return net.JoinHostPort(addr, "53")
}
