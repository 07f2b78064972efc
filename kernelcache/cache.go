// Package kernelcache implements the Typed Kernel Dispatch Cache (TKDC): a
// concurrent, self-sizing cache mapping type-descriptor tuples to resolved
// callables, with lock-free reads and at-most-one-wins resolution on a
// concurrent miss.
package kernelcache

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/emirpasic/gods/v2/sets/hashset"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/singleflight"

	"github.com/hvkernel/hvk/rtconfig"
)

// Resolver builds the value for a type tuple observed for the first time.
// It must be idempotent: a round-robin flush can evict a tuple's bucket,
// after which the next miss on that tuple runs the resolver for it again.
type Resolver func(key []reflect.Type) (any, error)

type entry struct {
	key   []reflect.Type
	value any
	next  *entry
}

type bucketArray struct {
	buckets []atomic.Pointer[entry]
}

func newBucketArray(capacity int) *bucketArray {
	return &bucketArray{buckets: make([]atomic.Pointer[entry], capacity)}
}

// Cache is the Typed Kernel Dispatch Cache. Reads (LookupOrBuild's fast
// path) never block: they load the current bucket array atomically and
// walk an immutable chain. Writes (inserts, resizes, flushes) serialize
// through mu and publish a new bucket array or chain head atomically.
type Cache struct {
	arity    int
	resolver Resolver
	id       string
	policy   policyBounds

	mu               sync.Mutex
	buckets          atomic.Pointer[bucketArray]
	entriesSinceFull int
	flushing         bool
	lastOverflow     time.Time

	group singleflight.Group
}

// New creates a cache keyed on tuples of the given arity, resolving a miss
// with resolver, using the default adaptive sizing policy.
func New(arity int, resolver Resolver) (*Cache, error) {
	return NewWithPolicy(arity, resolver, rtconfig.DefaultCachePolicy())
}

// NewWithPolicy is New with an explicit sizing policy, letting tests drive
// the grow/shrink/flush thresholds at a scale smaller than production
// defaults.
func NewWithPolicy(arity int, resolver Resolver, policy rtconfig.CachePolicy) (*Cache, error) {
	if arity <= 0 {
		return nil, ErrInvalidArity
	}
	if resolver == nil {
		return nil, ErrNilResolver
	}
	return &Cache{
		arity:    arity,
		resolver: resolver,
		id:       uuid.NewString(),
		policy:   policyBounds{Initial: policy.Initial, Default: policy.Default, Maximum: policy.Maximum},
	}, nil
}

// LookupOrBuild returns the cached value for key, resolving it on first
// sight. Concurrent misses on the same key are coalesced: the resolver
// runs at most once per key at a time, and every concurrent caller
// observes the same result.
func (c *Cache) LookupOrBuild(key []reflect.Type) (any, error) {
	if len(key) != c.arity {
		return nil, ErrInvalidArity
	}
	hash := hashTuple(key)
	if v, ok := c.lookup(key, hash); ok {
		return v, nil
	}

	ks := keyString(key)
	v, err, _ := c.group.Do(ks, func() (any, error) {
		if v, ok := c.lookup(key, hash); ok {
			return v, nil
		}
		value, err := c.resolver(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResolverFailure, err)
		}
		c.mu.Lock()
		c.insertLocked(key, hash, value)
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Cache) lookup(key []reflect.Type, hash uint64) (any, bool) {
	cur := c.buckets.Load()
	if cur == nil {
		return nil, false
	}
	idx := int(hash & uint64(len(cur.buckets)-1))
	for e := cur.buckets[idx].Load(); e != nil; e = e.next {
		if sameKey(e.key, key) {
			return e.value, true
		}
	}
	return nil, false
}

// insertLocked publishes a new chain head for key's bucket, then applies
// the adaptive sizing policy: grow, shrink, hold-and-flush, or (below
// Initial) an unconditional bootstrap grow. Called with mu held.
func (c *Cache) insertLocked(key []reflect.Type, hash uint64, value any) {
	cur := c.buckets.Load()
	capacity := 0
	if cur != nil {
		capacity = len(cur.buckets)
	}
	if capacity < c.policy.Initial {
		cur = newBucketArray(c.policy.Initial)
		c.buckets.Store(cur)
		capacity = c.policy.Initial
		c.entriesSinceFull = 0
	}

	idx := int(hash & uint64(capacity-1))
	head := cur.buckets[idx].Load()
	cur.buckets[idx].Store(&entry{
		key:   append([]reflect.Type(nil), key...),
		value: value,
		next:  head,
	})
	c.entriesSinceFull++

	if 2*c.entriesSinceFull < capacity {
		if c.flushing {
			p0 := (2 * c.entriesSinceFull) % capacity
			p1 := (2*c.entriesSinceFull + 1) % capacity
			cur.buckets[p0].Store(nil)
			cur.buckets[p1].Store(nil)
		}
		return
	}

	now := time.Now()
	var elapsed time.Duration
	if !c.lastOverflow.IsZero() {
		elapsed = now.Sub(c.lastOverflow)
	}
	c.lastOverflow = now

	switch decideResize(capacity, elapsed, c.policy) {
	case decisionGrow:
		next := capacity * 2
		if next > c.policy.Maximum {
			next = c.policy.Maximum
		}
		c.resizeLocked(next)
		c.flushing = false
		slog.Debug("kernelcache: grew", "cache", c.id, "from", capacity, "to", next)
	case decisionShrink:
		next := capacity / 2
		c.resizeLocked(next)
		c.flushing = false
		slog.Debug("kernelcache: shrank", "cache", c.id, "from", capacity, "to", next)
	default:
		c.flushing = true
		c.entriesSinceFull = 0
	}
}

// resizeLocked replaces the published bucket array with one of the given
// capacity, rehashing every live entry into it so a grow or shrink never
// drops an already-resolved tuple. Called with mu held.
func (c *Cache) resizeLocked(capacity int) {
	next := newBucketArray(capacity)
	if cur := c.buckets.Load(); cur != nil {
		for i := range cur.buckets {
			for e := cur.buckets[i].Load(); e != nil; e = e.next {
				idx := int(hashTuple(e.key) & uint64(capacity-1))
				next.buckets[idx].Store(&entry{key: e.key, value: e.value, next: next.buckets[idx].Load()})
			}
		}
	}
	c.buckets.Store(next)
	c.entriesSinceFull = 0
}

// SeenTuples returns the set of type-tuple keys currently resident in the
// cache, rendered as keyString tokens. Debug/introspection only.
func (c *Cache) SeenTuples() *hashset.Set[string] {
	c.mu.Lock()
	defer c.mu.Unlock()
	set := hashset.New[string]()
	cur := c.buckets.Load()
	if cur == nil {
		return set
	}
	for i := range cur.buckets {
		for e := cur.buckets[i].Load(); e != nil; e = e.next {
			set.Add(keyString(e.key))
		}
	}
	return set
}

// Snapshot returns the cache's current contents as an ordered map, for
// deterministic assertions in tests. Entries appear in bucket order and,
// within a bucket, newest first; the order is not the order in which the
// tuples were first resolved.
func (c *Cache) Snapshot() *orderedmap.OrderedMap[string, any] {
	c.mu.Lock()
	defer c.mu.Unlock()
	om := orderedmap.New[string, any]()
	cur := c.buckets.Load()
	if cur == nil {
		return om
	}
	for i := range cur.buckets {
		for e := cur.buckets[i].Load(); e != nil; e = e.next {
			om.Set(keyString(e.key), e.value)
		}
	}
	return om
}
