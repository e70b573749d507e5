package store

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// orderedIndex keeps handles sorted by a key read through the arena. Lookups
// are binary searches; inserts and removes shift the tail of the slice.
// Handles stored in the index are always live; handles passed in by callers
// may be stale and then resolve to no entry.
type orderedIndex[K cmp.Ordered] struct {
	handles []handle
	key     func(handle) (K, error)
}

func newTitleIndex(a *arena) *orderedIndex[string] {
	return &orderedIndex[string]{key: func(h handle) (string, error) {
		r, err := a.get(h)
		if err != nil {
			return "", err
		}
		return r.Title, nil
	}}
}

func newIDIndex(a *arena) *orderedIndex[int] {
	return &orderedIndex[int]{key: func(h handle) (int, error) {
		r, err := a.get(h)
		if err != nil {
			return 0, err
		}
		return r.ID, nil
	}}
}

// mustKey is key for handles held by the index.
func (x *orderedIndex[K]) mustKey(h handle) K {
	k, err := x.key(h)
	if err != nil {
		panic(err)
	}
	return k
}

// lowerBound returns the position of the first entry whose key is not less
// than k, and whether that entry's key equals k.
func (x *orderedIndex[K]) lowerBound(k K) (int, bool) {
	return slices.BinarySearchFunc(x.handles, k, func(h handle, k K) int {
		return cmp.Compare(x.mustKey(h), k)
	})
}

func (x *orderedIndex[K]) find(k K) (handle, bool) {
	i, ok := x.lowerBound(k)
	if !ok {
		return handle{}, false
	}
	return x.handles[i], true
}

// insert places h at its sorted position. Returns ErrDuplicateKey when an
// entry with the same key is already present and ErrStaleHandle when h no
// longer addresses a record.
func (x *orderedIndex[K]) insert(h handle) error {
	k, err := x.key(h)
	if err != nil {
		return err
	}
	i, ok := x.lowerBound(k)
	if ok {
		return fmt.Errorf("key %v: %w", k, types.ErrDuplicateKey)
	}
	x.handles = slices.Insert(x.handles, i, h)
	return nil
}

// position returns where h itself, not just an entry with h's key, sits in
// the index. A stale h is never present.
func (x *orderedIndex[K]) position(h handle) (int, bool) {
	k, err := x.key(h)
	if err != nil {
		return 0, false
	}
	i, ok := x.lowerBound(k)
	return i, ok && x.handles[i] == h
}

// contains reports whether h is in the index.
func (x *orderedIndex[K]) contains(h handle) bool {
	_, ok := x.position(h)
	return ok
}

// remove deletes h and reports whether it was present.
func (x *orderedIndex[K]) remove(h handle) bool {
	i, ok := x.position(h)
	if !ok {
		return false
	}
	x.handles = slices.Delete(x.handles, i, i+1)
	return true
}

func (x *orderedIndex[K]) clear() {
	x.handles = nil
}

func (x *orderedIndex[K]) len() int {
	return len(x.handles)
}
