package store

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// collection is a named set of records referenced by handle. It never
// allocates or releases records; members are kept in title order.
type collection struct {
	name    string
	arena   *arena
	members *orderedIndex[string]
}

func newCollection(name string, a *arena) *collection {
	return &collection{name: name, arena: a, members: newTitleIndex(a)}
}

// addMember returns ErrAlreadyMember if a record with h's title is present.
func (c *collection) addMember(h handle) error {
	if err := c.members.insert(h); err != nil {
		if errors.Is(err, types.ErrDuplicateKey) {
			return fmt.Errorf("%s: %w", c.name, types.ErrAlreadyMember)
		}
		return err
	}
	return nil
}

func (c *collection) isMember(h handle) bool {
	return c.members.contains(h)
}

// removeMember returns ErrNotAMember if h is absent.
func (c *collection) removeMember(h handle) error {
	if !c.members.remove(h) {
		return fmt.Errorf("%s: %w", c.name, types.ErrNotAMember)
	}
	return nil
}

// replaceMember swaps from for to. Nothing happens when from is not a member:
// a renamed record is offered to every collection and most will not hold it.
func (c *collection) replaceMember(from, to handle) {
	if !c.members.remove(from) {
		return
	}
	// to carries a title no other live record has, so this cannot collide.
	_ = c.members.insert(to)
}

// combine builds a new collection holding the union of c's and other's
// members. Both draw from the same generation where titles are unique, so
// the union needs no conflict handling.
func (c *collection) combine(name string, other *collection) *collection {
	out := newCollection(name, c.arena)
	for _, h := range c.members.handles {
		_ = out.members.insert(h)
	}
	for _, h := range other.members.handles {
		if !out.members.contains(h) {
			_ = out.members.insert(h)
		}
	}
	return out
}

func (c *collection) len() int {
	return c.members.len()
}

func (c *collection) empty() bool {
	return c.members.len() == 0
}

func (c *collection) view() types.CollectionView {
	v := types.CollectionView{Name: c.name, Members: make([]types.Record, 0, c.len())}
	for _, h := range c.members.handles {
		v.Members = append(v.Members, *c.arena.mustGet(h))
	}
	return v
}
