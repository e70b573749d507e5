package store

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// FindByTitle returns the record with the given title.
func (s *Store) FindByTitle(title string) (types.Record, error) {
	h, err := s.gen.lookupTitle(strings.TrimSpace(title))
	if err != nil {
		return types.Record{}, err
	}
	return *s.gen.arena.mustGet(h), nil
}

// FindByID returns the record with the given ID.
func (s *Store) FindByID(id int) (types.Record, error) {
	h, err := s.gen.lookupID(id)
	if err != nil {
		return types.Record{}, err
	}
	return *s.gen.arena.mustGet(h), nil
}

// Collection returns a copy of the named collection.
func (s *Store) Collection(name string) (types.CollectionView, error) {
	col, err := s.gen.catalog.find(name)
	if err != nil {
		return types.CollectionView{}, err
	}
	return col.view(), nil
}

// HasCollection reports whether a collection called name exists.
func (s *Store) HasCollection(name string) bool {
	return s.gen.catalog.has(name)
}

// Records returns every record in title order.
func (s *Store) Records() []types.Record {
	return collect(s.gen.arena, s.gen.byTitle)
}

// RecordsByID returns every record in ID order.
func (s *Store) RecordsByID() []types.Record {
	return collect(s.gen.arena, s.gen.byID)
}

// RecordsByRating returns every record, highest rating first. Records with
// the same rating are in title order and unrated records come last.
func (s *Store) RecordsByRating() []types.Record {
	recs := s.Records()
	slices.SortStableFunc(recs, func(a, b types.Record) int {
		return cmp.Compare(b.Rating, a.Rating)
	})
	return recs
}

// Search returns the records whose title contains substr, ignoring case,
// in title order. No match is ErrNoMatch.
func (s *Store) Search(substr string) ([]types.Record, error) {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(substr))

	var out []types.Record
	for _, h := range s.gen.byTitle.handles {
		rec := s.gen.arena.mustGet(h)
		if strings.Contains(fold.String(rec.Title), needle) {
			out = append(out, *rec)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%q: %w", substr, types.ErrNoMatch)
	}
	return out, nil
}

// Collections returns a copy of every collection in name order.
func (s *Store) Collections() []types.CollectionView {
	out := make([]types.CollectionView, 0, s.gen.catalog.len())
	for _, col := range s.gen.catalog.cols {
		out = append(out, col.view())
	}
	return out
}

// Counts reports how many records and collections the library holds.
func (s *Store) Counts() types.Counts {
	return types.Counts{
		Records:     s.gen.arena.len(),
		Collections: s.gen.catalog.len(),
	}
}

// Stats reports how records are spread across collections.
func (s *Store) Stats() types.MembershipStats {
	st := types.MembershipStats{Records: s.gen.arena.len()}
	for _, h := range s.gen.byTitle.handles {
		n := 0
		for _, col := range s.gen.catalog.cols {
			if col.isMember(h) {
				n++
			}
		}
		st.TotalMemberships += n
		if n > 0 {
			st.InAtLeastOne++
		}
		if n > 1 {
			st.InMoreThanOne++
		}
	}
	return st
}

// collect copies the records of x in index order.
func collect[K cmp.Ordered](a *arena, x *orderedIndex[K]) []types.Record {
	out := make([]types.Record, 0, x.len())
	for _, h := range x.handles {
		out = append(out, *a.mustGet(h))
	}
	return out
}
