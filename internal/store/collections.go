package store

import (
	"fmt"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// AddCollection creates an empty collection.
func (s *Store) AddCollection(name string) error {
	if !types.ValidCollectionName(name) {
		return fmt.Errorf("%q: %w", name, types.ErrInvalidName)
	}
	if err := s.gen.catalog.insert(newCollection(name, s.gen.arena)); err != nil {
		return err
	}
	s.log.Debug().Str("collection", name).Msg("collection added")
	return nil
}

// RemoveCollection destroys a collection. Its members are not affected.
func (s *Store) RemoveCollection(name string) error {
	if err := s.gen.catalog.remove(name); err != nil {
		return err
	}
	s.log.Debug().Str("collection", name).Msg("collection removed")
	return nil
}

// CombineCollections adds a collection called name holding every member of
// first and second.
func (s *Store) CombineCollections(first, second, name string) error {
	cat := s.gen.catalog
	a, err := cat.find(first)
	if err != nil {
		return err
	}
	b, err := cat.find(second)
	if err != nil {
		return err
	}
	if !types.ValidCollectionName(name) {
		return fmt.Errorf("%q: %w", name, types.ErrInvalidName)
	}
	if cat.has(name) {
		return fmt.Errorf("%s: %w", name, types.ErrDuplicateCollectionName)
	}
	if err := cat.insert(a.combine(name, b)); err != nil {
		return err
	}
	s.log.Debug().Str("first", first).Str("second", second).Str("collection", name).Msg("collections combined")
	return nil
}

// AddMember puts the record with the given ID into the named collection.
func (s *Store) AddMember(name string, id int) (types.Record, error) {
	col, h, err := s.memberTarget(name, id)
	if err != nil {
		return types.Record{}, err
	}
	if err := col.addMember(h); err != nil {
		return types.Record{}, err
	}
	rec := *s.gen.arena.mustGet(h)
	s.log.Debug().Str("collection", name).Int("id", id).Msg("member added")
	return rec, nil
}

// RemoveMember takes the record with the given ID out of the named
// collection.
func (s *Store) RemoveMember(name string, id int) (types.Record, error) {
	col, h, err := s.memberTarget(name, id)
	if err != nil {
		return types.Record{}, err
	}
	if err := col.removeMember(h); err != nil {
		return types.Record{}, err
	}
	rec := *s.gen.arena.mustGet(h)
	s.log.Debug().Str("collection", name).Int("id", id).Msg("member removed")
	return rec, nil
}

// ClearCollections removes every collection. Records are not affected.
func (s *Store) ClearCollections() {
	n := s.gen.catalog.len()
	s.gen.catalog.clear()
	s.log.Debug().Int("collections", n).Msg("collections cleared")
}

func (s *Store) memberTarget(name string, id int) (*collection, handle, error) {
	col, err := s.gen.catalog.find(name)
	if err != nil {
		return nil, handle{}, err
	}
	h, err := s.gen.lookupID(id)
	if err != nil {
		return nil, handle{}, err
	}
	return col, h, nil
}
