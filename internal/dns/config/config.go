// Package config loads the resolver's environment-driven configuration:
// koanf defaults layered with environment overrides, validated with
// go-playground/validator.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EngineConfig holds every value resolve.Options and cache.Options need
// to stand up an Engine, parsed from RVDNS_-prefixed environment
// variables.
type EngineConfig struct {
	// Servers is a comma-separated list of "host:port" upstream
	// resolvers; empty means the caller must Configure the engine
	// later (e.g. from sysconfig.Probe).
	Servers string `koanf:"servers"`
	// Suffixes is a comma-separated search-domain list, at most 31
	// entries.
	Suffixes string `koanf:"suffixes"`
	Ndots    int    `koanf:"ndots" validate:"gte=0"`
	NoSearch bool   `koanf:"no_search"`

	TimeoutSeconds int `koanf:"timeout_seconds" validate:"required,gte=1"`
	Tries          int `koanf:"tries" validate:"gte=0"`

	CacheSize    uint   `koanf:"cache_size" validate:"required,gte=1"`
	NegativePath string `koanf:"negative_cache_path"`

	Env      string `koanf:"env" validate:"required,oneof=dev prod"`
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	Port int `koanf:"port" validate:"required,gte=1,lt=65535"`
}

// ServerList splits Servers on commas, trimming whitespace and
// dropping empty entries.
func (c EngineConfig) ServerList() []string {
	return splitList(c.Servers)
}

// SuffixList splits Suffixes the same way ServerList splits Servers.
func (c EngineConfig) SuffixList() []string {
	return splitList(c.Suffixes)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envPrefix namespaces every environment variable this resolver reads.
const envPrefix = "RVDNS_"

var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil)
}

// Load parses environment variables into an EngineConfig, applying
// defaults first and validating the result.
func Load() (*EngineConfig, error) {
	k := koanf.New(".")

	_ = k.Load(structs.Provider(EngineConfig{
		Ndots:          1,
		TimeoutSeconds: 5,
		Tries:          2,
		CacheSize:      4096,
		Env:            "prod",
		LogLevel:       "info",
		Port:           53,
	}, "koanf"), nil)

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("config: loading env: %w", err)
	}

	var cfg EngineConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return &cfg, nil
}
