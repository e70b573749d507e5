package store

import (
	"fmt"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// handle addresses one arena slot. gen tells successive occupants of the
// same slot apart, so a handle kept past its record's lifetime is caught
// instead of silently resolving to whatever moved in afterwards.
type handle struct {
	slot uint32
	gen  uint32
}

type slot struct {
	rec  types.Record
	gen  uint32
	live bool
}

// arena owns every record of one generation. Indices and collections only
// ever hold handles into it.
type arena struct {
	slots []slot
	free  []uint32
	live  int
}

func newArena() *arena {
	return &arena{}
}

// alloc stores r in a free slot and returns its handle.
func (a *arena) alloc(r types.Record) handle {
	a.live++
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[i]
		s.rec = r
		s.live = true
		return handle{slot: i, gen: s.gen}
	}
	a.slots = append(a.slots, slot{rec: r, live: true})
	return handle{slot: uint32(len(a.slots) - 1)}
}

// release destroys the record at h. The slot's generation is bumped so h and
// any copy of it become stale.
func (a *arena) release(h handle) error {
	s, err := a.slot(h)
	if err != nil {
		return err
	}
	s.rec = types.Record{}
	s.live = false
	s.gen++
	a.free = append(a.free, h.slot)
	a.live--
	return nil
}

// get returns the record at h, or ErrStaleHandle.
func (a *arena) get(h handle) (*types.Record, error) {
	s, err := a.slot(h)
	if err != nil {
		return nil, err
	}
	return &s.rec, nil
}

// mustGet is get for handles taken from an index or collection, which by
// construction never outlive their record.
func (a *arena) mustGet(h handle) *types.Record {
	r, err := a.get(h)
	if err != nil {
		panic(err)
	}
	return r
}

// releaseAll destroys every live record.
func (a *arena) releaseAll() {
	for i := range a.slots {
		if a.slots[i].live {
			_ = a.release(handle{slot: uint32(i), gen: a.slots[i].gen})
		}
	}
}

func (a *arena) len() int {
	return a.live
}

func (a *arena) slot(h handle) (*slot, error) {
	if int(h.slot) >= len(a.slots) {
		return nil, fmt.Errorf("slot %d: %w", h.slot, types.ErrStaleHandle)
	}
	s := &a.slots[h.slot]
	if !s.live || s.gen != h.gen {
		return nil, fmt.Errorf("slot %d generation %d: %w", h.slot, h.gen, types.ErrStaleHandle)
	}
	return s, nil
}
