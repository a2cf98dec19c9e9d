// Command cachesim replays a request trace against a cache replacement
// policy and reports hit ratios.
//
// Examples:
//
//	cachesim -trace requests.txt -policy lru -size 1073741824
//	cachesim -trace requests.txt.gz -policy adaptsize -param t=500000 -param i=15
//	cachesim -trace requests.txt -size 1048576 -compare lru,s4lru,wtinylfu
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"cachesim/cache"
	"cachesim/trace"
)

// paramFlags collects repeatable -param name=value flags.
type paramFlags []string

func (p *paramFlags) String() string {
	return strings.Join(*p, ",")
}

func (p *paramFlags) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("expected name=value, got %q", v)
	}
	*p = append(*p, v)
	return nil
}

// requestSource is satisfied by both trace readers.
type requestSource interface {
	Next() (cache.Request, error)
	Close() error
}

func main() {
	var params paramFlags
	configPath := flag.String("config", "", "JSON configuration file")
	tracePath := flag.String("trace", "", "request trace to replay")
	policy := flag.String("policy", "", "cache policy (see cache.KnownPolicies)")
	size := flag.Uint64("size", 0, "cache capacity in bytes")
	seed := flag.Int64("seed", cache.DefaultSeed, "seed for the process-wide generator")
	events := flag.String("events", "", "per-object event log output file")
	compare := flag.String("compare", "", "comma-separated policies to replay side by side")
	useMmap := flag.Bool("mmap", false, "memory-map the trace (uncompressed traces only)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Var(&params, "param", "policy parameter name=value (repeatable)")
	flag.Parse()

	cfg := cache.DefaultConfig()
	if *configPath != "" {
		fileCfg, err := cache.LoadConfigFromFile(*configPath)
		if err != nil {
			fatal(err)
		}
		cfg = fileCfg
	}
	cfg.ApplyEnv()

	if *tracePath != "" {
		cfg.TracePath = *tracePath
	}
	if *policy != "" {
		cfg.Policy = *policy
	}
	if *size != 0 {
		cfg.CacheSize = *size
	}
	if *events != "" {
		cfg.EventLogPath = *events
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.Seed = *seed
		}
	})
	for _, p := range params {
		name, value, _ := strings.Cut(p, "=")
		cfg.Params[name] = value
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	setupLogging(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	if cfg.TracePath == "" {
		fatal(fmt.Errorf("no trace given; use -trace or CACHESIM_TRACE"))
	}

	cache.Seed(cfg.Seed)

	if *compare != "" {
		if err := runCompare(cfg, strings.Split(*compare, ",")); err != nil {
			fatal(err)
		}
		return
	}
	if err := runOne(cfg, *useMmap); err != nil {
		fatal(err)
	}
}

// runOne replays the trace against the configured policy.
func runOne(cfg *cache.Config, useMmap bool) error {
	c, err := cfg.BuildCache()
	if err != nil {
		return err
	}

	if cfg.EventLogPath != "" {
		f, err := os.Create(cfg.EventLogPath)
		if err != nil {
			return err
		}
		defer f.Close()
		cache.AttachEventLog(c, cache.NewEventLog(f))
	}

	var src requestSource
	if useMmap {
		src, err = trace.OpenMmap(cfg.TracePath)
	} else {
		src, err = trace.Open(cfg.TracePath)
	}
	if err != nil {
		return err
	}
	defer src.Close()

	metrics := cache.NewMetrics()
	for {
		req, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		hit := c.Lookup(req)
		if !hit {
			c.Admit(req)
		}
		metrics.RecordRequest(req, hit)
	}

	metrics.LogMetrics(slog.Default())
	fmt.Printf("%s: requests=%d hit_ratio=%.4f byte_hit_ratio=%.4f\n",
		cfg.Policy, metrics.Requests, metrics.HitRatio(), metrics.ByteHitRatio())
	return nil
}

// runCompare replays the same trace against several policies.
// Deterministic policies run concurrently, one goroutine per cache (each
// cache stays single-threaded). Policies that draw from the process-wide
// generator replay sequentially afterward, reseeded per run, so every
// policy's result is reproducible.
func runCompare(cfg *cache.Config, policies []string) error {
	reqs, err := trace.ReadAll(cfg.TracePath)
	if err != nil {
		return err
	}
	slog.Info("trace loaded", "requests", len(reqs), "policies", len(policies))

	replay := func(c cache.Cache) *cache.Metrics {
		metrics := cache.NewMetrics()
		for _, req := range reqs {
			hit := c.Lookup(req)
			if !hit {
				c.Admit(req)
			}
			metrics.RecordRequest(req, hit)
		}
		return metrics
	}

	results := make([]*cache.Metrics, len(policies))
	var g errgroup.Group
	for i, policy := range policies {
		i, policy := i, policy
		runCfg := *cfg
		runCfg.Policy = strings.TrimSpace(policy)
		if usesRNG(runCfg.Policy) {
			continue
		}
		g.Go(func() error {
			c, err := runCfg.BuildCache()
			if err != nil {
				return err
			}
			results[i] = replay(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, policy := range policies {
		runCfg := *cfg
		runCfg.Policy = strings.TrimSpace(policy)
		if !usesRNG(runCfg.Policy) {
			continue
		}
		c, err := runCfg.BuildCache()
		if err != nil {
			return err
		}
		cache.Seed(cfg.Seed)
		results[i] = replay(c)
	}

	for i, policy := range policies {
		m := results[i]
		fmt.Printf("%-10s hit_ratio=%.4f byte_hit_ratio=%.4f\n",
			strings.TrimSpace(policy), m.HitRatio(), m.ByteHitRatio())
	}
	return nil
}

// usesRNG reports whether the policy draws from the process-wide
// generator and therefore cannot share it with concurrent replays.
func usesRNG(policy string) bool {
	return policy == cache.PolicyExpLRU || policy == cache.PolicyAdaptSize
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func fatal(err error) {
	slog.Error("cachesim failed", "error", err)
	os.Exit(1)
}
