package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config holds a simulation run's configuration
type Config struct {
	// Cache Configuration
	Policy    string            `json:"policy"`     // Replacement policy (lru, fifo, thlru, explru, filter, adaptsize, s4lru, slru, tinylfu, wtinylfu)
	CacheSize uint64            `json:"cache_size"` // Cache capacity in bytes
	Params    map[string]string `json:"params"`     // Policy tuning parameters passed to SetParam

	// Trace Configuration
	TracePath string `json:"trace_path"` // Request trace to replay

	// Reproducibility
	Seed int64 `json:"seed"` // Seed for the process-wide generator

	// Output Configuration
	EventLogPath  string `json:"event_log_path"` // Per-object event log destination ("" disables)
	EnableMetrics bool   `json:"enable_metrics"` // Metrics toggle; cmd/cachesim does not read it and always collects metrics
	LogLevel      string `json:"log_level"`      // Log level (debug, info, warn, error)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Policy:        PolicyLRU,
		CacheSize:     DefaultCapacity,
		Params:        map[string]string{},
		Seed:          DefaultSeed,
		EnableMetrics: true,
		LogLevel:      "info",
	}
}

// LoadConfigFromFile loads configuration from a JSON file
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapError(ErrCodeConfigNotFound, "LoadConfigFromFile", "failed to read config file", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, WrapError(ErrCodeInvalidConfig, "LoadConfigFromFile", "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, WrapError(ErrCodeInvalidConfig, "LoadConfigFromFile", "invalid configuration", err)
	}
	return config, nil
}

// LoadConfigFromEnv loads configuration from environment variables
// Falls back to default values if environment variables are not set
func LoadConfigFromEnv() *Config {
	config := DefaultConfig()
	config.ApplyEnv()
	return config
}

// ApplyEnv overrides configuration fields from CACHESIM_* environment
// variables
func (c *Config) ApplyEnv() {
	if val := os.Getenv("CACHESIM_POLICY"); val != "" {
		c.Policy = val
	}
	if val := os.Getenv("CACHESIM_CACHE_SIZE"); val != "" {
		if size, err := strconv.ParseUint(val, 10, 64); err == nil {
			c.CacheSize = size
		}
	}
	if val := os.Getenv("CACHESIM_TRACE"); val != "" {
		c.TracePath = val
	}
	if val := os.Getenv("CACHESIM_SEED"); val != "" {
		if seed, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.Seed = seed
		}
	}
	if val := os.Getenv("CACHESIM_EVENT_LOG"); val != "" {
		c.EventLogPath = val
	}
	if val := os.Getenv("CACHESIM_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.CacheSize == 0 {
		return NewCacheError(ErrCodeInvalidConfig, "Validate", "cache_size must be positive")
	}
	known := false
	for _, p := range KnownPolicies() {
		if c.Policy == p {
			known = true
			break
		}
	}
	if !known {
		return NewCacheError(ErrCodeInvalidConfig, "Validate", fmt.Sprintf("unknown policy %q", c.Policy))
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return NewCacheError(ErrCodeInvalidConfig, "Validate", fmt.Sprintf("unknown log level %q", c.LogLevel))
	}
	return nil
}

// BuildCache constructs and configures the cache the config describes:
// policy, capacity, and tuning parameters.
func (c *Config) BuildCache() (Cache, error) {
	cache, err := NewCache(c.Policy)
	if err != nil {
		return nil, err
	}
	cache.SetCapacity(c.CacheSize)
	for name, value := range c.Params {
		cache.SetParam(name, value)
	}
	return cache, nil
}
