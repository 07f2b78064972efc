package kernelcache

import "errors"

var (
	// ErrInvalidArity is returned when a lookup key's length does not
	// match the cache's configured arity.
	ErrInvalidArity = errors.New("kernelcache: key arity does not match cache arity")
	// ErrResolverFailure wraps whatever error a resolver returned; it is
	// propagated unchanged to every caller waiting on that key.
	ErrResolverFailure = errors.New("kernelcache: resolver failed")
	// ErrNilResolver is returned by New when no resolver function is given.
	ErrNilResolver = errors.New("kernelcache: resolver must not be nil")
)
