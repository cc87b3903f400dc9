// Package cache stores rendered figure artifacts between builds.
//
// A documentation build regenerates every figure, but most figures are
// deterministic given their settings, seed and the treeviz version. The
// cache maps a key derived from those inputs to the rendered bytes, so an
// unchanged figure is copied instead of simulated and drawn again.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under $XDG_CACHE_HOME/treeviz
//   - [RedisCache]: shared cache for CI runners
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the figure settings, the
// output format and the version. [ScopedKeyer] prefixes another keyer, which
// callers use to fold the content of input files into the key.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/treeviz/pkg/errors"
)

// TTLArtifact is the default lifetime of a cached artifact.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the data for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear removes every entry owned by the cache.
	Clear(ctx context.Context) error
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend   string
	Dir       string // file backend; empty means DefaultDir()
	RedisAddr string
}

// Open creates the cache described by cfg.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendFile, "":
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = DefaultDir(); err != nil {
				return nil, err
			}
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "create cache directory")
		}
		return c, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Backend)
}

// DefaultDir returns the file cache directory, honouring XDG_CACHE_HOME.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "treeviz"), nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "locate cache directory")
	}
	return filepath.Join(dir, "treeviz"), nil
}
