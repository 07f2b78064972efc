// Package rtconfig exposes the module's few runtime-tunable knobs as
// environment-variable-backed getters with defaults: an invalid value is
// logged and the default used, rather than failing the process.
package rtconfig

import (
	"log/slog"
	"os"
	"strconv"
)

// CachePolicy holds the typed kernel dispatch cache's adaptive sizing
// knobs. Exposing them here lets tests exercise the grow/shrink/flush
// thresholds at a scale smaller than the real defaults without
// recompiling.
type CachePolicy struct {
	// Initial is the capacity a cache is grown to on its very first insert.
	Initial int
	// Default is the capacity below which growth is unconditional and
	// above which shrinking is permitted.
	Default int
	// Maximum is the capacity growth never exceeds.
	Maximum int
}

// DefaultCachePolicy returns the production defaults: INITIAL=16,
// DEFAULT=128, MAXIMUM=1024.
func DefaultCachePolicy() CachePolicy {
	return CachePolicy{Initial: 16, Default: 128, Maximum: 1024}
}

// LoadCachePolicy builds a CachePolicy from the HVK_CACHE_INITIAL,
// HVK_CACHE_DEFAULT, and HVK_CACHE_MAXIMUM environment variables, falling
// back to DefaultCachePolicy's values when a variable is unset,
// non-numeric, or non-positive. Only the non-numeric and non-positive
// cases log a warning; an unset variable falls back silently.
func LoadCachePolicy() CachePolicy {
	p := DefaultCachePolicy()
	p.Initial = intVar("HVK_CACHE_INITIAL", p.Initial)
	p.Default = intVar("HVK_CACHE_DEFAULT", p.Default)
	p.Maximum = intVar("HVK_CACHE_MAXIMUM", p.Maximum)
	return p
}

func intVar(name string, fallback int) int {
	s := os.Getenv(name)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		slog.Warn("rtconfig: invalid value, using default", "var", name, "value", s, "default", fallback)
		return fallback
	}
	return v
}
