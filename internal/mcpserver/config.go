package mcpserver

import (
	"errors"
	"log/slog"
	"time"

	"github.com/joeshaw/envdecode"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from OASCONFORM_* environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool          `env:"OASCONFORM_CACHE_ENABLED"`
	CacheMaxSize       int           `env:"OASCONFORM_CACHE_MAX_SIZE"`
	CacheFileTTL       time.Duration `env:"OASCONFORM_CACHE_FILE_TTL"`
	CacheContentTTL    time.Duration `env:"OASCONFORM_CACHE_CONTENT_TTL"`
	CacheSweepInterval time.Duration `env:"OASCONFORM_CACHE_SWEEP_INTERVAL"`

	// Input and result limits.
	MaxInlineSize int64 `env:"OASCONFORM_MAX_INLINE_SIZE"`
	ResultLimit   int   `env:"OASCONFORM_RESULT_LIMIT"`
	MaxLimit      int   `env:"OASCONFORM_MAX_LIMIT"`

	// Validation defaults.
	FormatAssertions bool `env:"OASCONFORM_FORMAT_ASSERTIONS"`
	MaxDepth         int  `env:"OASCONFORM_MAX_DEPTH"`
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

func defaultServerConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       true,
		CacheMaxSize:       10,
		CacheFileTTL:       15 * time.Minute,
		CacheContentTTL:    15 * time.Minute,
		CacheSweepInterval: 60 * time.Second,
		MaxInlineSize:      10 * 1024 * 1024,
		ResultLimit:        100,
		MaxLimit:           1000,
		MaxDepth:           256,
	}
}

// loadConfig overlays OASCONFORM_* environment variables on the defaults.
// Unparseable values leave the default in place; non-positive sizes, limits
// and durations log a warning and fall back to the default.
func loadConfig() *serverConfig {
	c := defaultServerConfig()
	if err := envdecode.Decode(c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		slog.Warn("invalid MCP server environment, using defaults", "error", err)
		return defaultServerConfig()
	}

	def := defaultServerConfig()
	positive(&c.CacheMaxSize, def.CacheMaxSize, "OASCONFORM_CACHE_MAX_SIZE")
	positive(&c.CacheFileTTL, def.CacheFileTTL, "OASCONFORM_CACHE_FILE_TTL")
	positive(&c.CacheContentTTL, def.CacheContentTTL, "OASCONFORM_CACHE_CONTENT_TTL")
	positive(&c.CacheSweepInterval, def.CacheSweepInterval, "OASCONFORM_CACHE_SWEEP_INTERVAL")
	positive(&c.MaxInlineSize, def.MaxInlineSize, "OASCONFORM_MAX_INLINE_SIZE")
	positive(&c.ResultLimit, def.ResultLimit, "OASCONFORM_RESULT_LIMIT")
	positive(&c.MaxLimit, def.MaxLimit, "OASCONFORM_MAX_LIMIT")
	positive(&c.MaxDepth, def.MaxDepth, "OASCONFORM_MAX_DEPTH")
	return c
}

func positive[N ~int | ~int64](v *N, fallback N, key string) {
	if *v > 0 {
		return
	}
	slog.Warn("invalid env var, using default", "key", key, "value", *v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
	*v = fallback
}
