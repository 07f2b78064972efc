package kernelcache

import (
	"reflect"
	"strings"
)

// seed is a fixed starting value for the type-tuple hash mix, chosen from
// the usual 64-bit golden-ratio FNV-adjacent constant. It only needs to be
// stable across a process's lifetime, not across processes or versions.
const seed uint64 = 0x9e3779b97f4a7c15

// hashTuple mixes the hashes of a type tuple's elements: h := (h >> 4) XOR
// hash(t_i), folding in one element at a time from seed.
func hashTuple(key []reflect.Type) uint64 {
	h := seed
	for _, t := range key {
		h = (h >> 4) ^ hashType(t)
	}
	return h
}

// hashType hashes a type descriptor by its fully-qualified string form via
// FNV-1a. reflect.Type values are themselves comparable and would make a
// fine map key directly, but the cache's bucket layout needs a numeric
// hash to place entries before any equality check runs.
func hashType(t reflect.Type) uint64 {
	const offset = 14695981039346656037
	const prime = 1099511628211
	h := uint64(offset)
	s := t.String()
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}

// keyString renders a type tuple into a string suitable as a singleflight
// key: two equal tuples always render identically, and two unequal tuples
// practically never collide (type names are short, unambiguous tokens).
func keyString(key []reflect.Type) string {
	var b strings.Builder
	for i, t := range key {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(t.String())
	}
	return b.String()
}

func sameKey(a, b []reflect.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
