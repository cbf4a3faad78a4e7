package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jyotish/internal/server"
	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/dasha"
	"github.com/matzehuels/jyotish/pkg/pipeline"
)

// envPrefix prefixes every environment override.
const envPrefix = "JYOTISH_"

// Config holds user defaults. Sources apply in order: built-in defaults,
// the TOML config file, JYOTISH_* environment variables, then command flags.
//
// Example config.toml:
//
//	ayanamsa = "raman"
//	house_system = "equal"
//	dasha_depth = 2
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":9090"
//	job_store = "redis"
type Config struct {
	Ayanamsa    string `toml:"ayanamsa"`
	HouseSystem string `toml:"house_system"`
	Nodes       string `toml:"nodes"`
	DashaDepth  int    `toml:"dasha_depth"`

	// Ephemeris is a TOML ephemeris table; empty selects the analytic model.
	Ephemeris string `toml:"ephemeris"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	Capacity      int    `toml:"capacity"`
	TTL           string `toml:"ttl"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	JobStore string `toml:"job_store"`
}

// Job store names.
const (
	jobStoreMemory = "memory"
	jobStoreRedis  = "redis"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Ayanamsa:    pipeline.DefaultAyanamsa,
		HouseSystem: pipeline.DefaultHouseSystem,
		Nodes:       pipeline.DefaultNodes,
		DashaDepth:  dasha.DefaultDepth,
		Cache: CacheConfig{
			Backend:   string(cache.BackendFile),
			RedisAddr: "localhost:6379",
			MongoURI:  "mongodb://localhost:27017",
		},
		Server: ServerConfig{
			Addr:     server.DefaultAddr,
			JobStore: jobStoreMemory,
		},
	}
}

// LoadConfig reads path (or the default config file when empty) on top of
// the defaults and applies environment overrides. A missing default file is
// not an error; a missing explicit path is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		if p := os.Getenv(envPrefix + "CONFIG"); p != "" {
			path, explicit = p, true
		} else if p, err := configFile(); err == nil {
			path = p
		}
	}

	if path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg = cfg.withEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// withEnv applies JYOTISH_* overrides.
func (c Config) withEnv() Config {
	c.Ayanamsa = getEnv("AYANAMSA", c.Ayanamsa)
	c.HouseSystem = getEnv("HOUSE_SYSTEM", c.HouseSystem)
	c.Nodes = getEnv("NODES", c.Nodes)
	c.DashaDepth = getEnvInt("DASHA_DEPTH", c.DashaDepth)
	c.Ephemeris = getEnv("EPHEMERIS", c.Ephemeris)

	c.Cache.Backend = getEnv("CACHE_BACKEND", c.Cache.Backend)
	c.Cache.Dir = getEnv("CACHE_DIR", c.Cache.Dir)
	c.Cache.Capacity = getEnvInt("CACHE_CAPACITY", c.Cache.Capacity)
	c.Cache.TTL = getEnv("CACHE_TTL", c.Cache.TTL)
	c.Cache.RedisAddr = getEnv("REDIS_ADDR", c.Cache.RedisAddr)
	c.Cache.RedisPassword = getEnv("REDIS_PASSWORD", c.Cache.RedisPassword)
	c.Cache.RedisDB = getEnvInt("REDIS_DB", c.Cache.RedisDB)
	c.Cache.MongoURI = getEnv("MONGO_URI", c.Cache.MongoURI)
	c.Cache.MongoDatabase = getEnv("MONGO_DATABASE", c.Cache.MongoDatabase)

	c.Server.Addr = getEnv("ADDR", c.Server.Addr)
	c.Server.JobStore = getEnv("JOB_STORE", c.Server.JobStore)
	return c
}

// Validate rejects unknown backends and malformed durations. Calculation
// defaults are checked later with the request options.
func (c Config) Validate() error {
	if _, err := c.Cache.backend(); err != nil {
		return err
	}
	if c.Server.JobStore != jobStoreMemory && c.Server.JobStore != jobStoreRedis {
		return fmt.Errorf("unsupported job store: %s (want memory or redis)", c.Server.JobStore)
	}
	if c.DashaDepth < 0 || c.DashaDepth > dasha.MaxDepth {
		return fmt.Errorf("dasha_depth must be between 0 and %d", dasha.MaxDepth)
	}
	return nil
}

// backend converts the section into a cache.Config.
func (c CacheConfig) backend() (cache.Config, error) {
	b := cache.Backend(strings.ToLower(c.Backend))
	if b != "" && !slices.Contains(cache.Backends, b) {
		return cache.Config{}, fmt.Errorf("unsupported cache backend: %s", c.Backend)
	}
	var ttl time.Duration
	if c.TTL != "" {
		d, err := time.ParseDuration(c.TTL)
		if err != nil || d <= 0 {
			return cache.Config{}, fmt.Errorf("invalid cache ttl %q", c.TTL)
		}
		ttl = d
	}
	return cache.Config{
		Backend:  b,
		Capacity: c.Capacity,
		TTL:      ttl,
		Dir:      c.Dir,
		Redis: cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
		Mongo: cache.MongoConfig{
			URI:      c.MongoURI,
			Database: c.MongoDatabase,
		},
	}, nil
}

// applyDefaults fills calculation settings the user left empty.
func (c Config) applyDefaults(opts *pipeline.Options) {
	if opts.Ayanamsa == "" {
		opts.Ayanamsa = c.Ayanamsa
	}
	if opts.HouseSystem == "" {
		opts.HouseSystem = c.HouseSystem
	}
	if opts.Nodes == "" {
		opts.Nodes = c.Nodes
	}
	if opts.DashaDepth == 0 {
		opts.DashaDepth = c.DashaDepth
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(envPrefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
