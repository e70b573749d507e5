package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// catalog holds the collections of one generation ordered by name.
type catalog struct {
	cols []*collection
}

func (c *catalog) lowerBound(name string) (int, bool) {
	return slices.BinarySearchFunc(c.cols, name, func(col *collection, name string) int {
		return strings.Compare(col.name, name)
	})
}

func (c *catalog) find(name string) (*collection, error) {
	i, ok := c.lowerBound(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, types.ErrCollectionNotFound)
	}
	return c.cols[i], nil
}

// has reports whether a collection called name exists.
func (c *catalog) has(name string) bool {
	_, ok := c.lowerBound(name)
	return ok
}

func (c *catalog) insert(col *collection) error {
	i, ok := c.lowerBound(col.name)
	if ok {
		return fmt.Errorf("%s: %w", col.name, types.ErrDuplicateCollectionName)
	}
	c.cols = slices.Insert(c.cols, i, col)
	return nil
}

func (c *catalog) remove(name string) error {
	i, ok := c.lowerBound(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, types.ErrCollectionNotFound)
	}
	c.cols = slices.Delete(c.cols, i, i+1)
	return nil
}

// referenced reports whether any collection holds h.
func (c *catalog) referenced(h handle) bool {
	return slices.ContainsFunc(c.cols, func(col *collection) bool { return col.isMember(h) })
}

// allEmpty reports whether no collection has members.
func (c *catalog) allEmpty() bool {
	for _, col := range c.cols {
		if !col.empty() {
			return false
		}
	}
	return true
}

func (c *catalog) replaceMember(from, to handle) {
	for _, col := range c.cols {
		col.replaceMember(from, to)
	}
}

func (c *catalog) clear() {
	c.cols = nil
}

func (c *catalog) len() int {
	return len(c.cols)
}
