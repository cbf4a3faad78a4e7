package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names a cache implementation.
type Backend string

const (
	BackendNone   Backend = "none"
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	BackendMongo  Backend = "mongo"
)

// Backends lists the supported backends.
var Backends = []Backend{BackendNone, BackendMemory, BackendFile, BackendRedis, BackendMongo}

// Config selects and configures a backend.
type Config struct {
	Backend  Backend
	Capacity int           // memory
	TTL      time.Duration // memory default TTL
	Dir      string        // file
	Redis    RedisConfig
	Mongo    MongoConfig
}

// Open builds the configured backend. An empty backend means memory.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendMemory, "":
		ttl := cfg.TTL
		if ttl <= 0 {
			ttl = TTLChart
		}
		return NewMemoryCache(cfg.Capacity, ttl), nil
	case BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache needs a directory")
		}
		return NewFileCache(cfg.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, cfg.Redis)
	case BackendMongo:
		return NewMongoCache(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}
