package store

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// AddRecord creates a record with the next sequential ID. The title is
// trimmed first. A duplicate title fails with ErrDuplicateTitle and does
// not consume an ID.
func (s *Store) AddRecord(medium, title string) (types.Record, error) {
	title = strings.TrimSpace(title)
	if !types.ValidTitle(title) {
		return types.Record{}, types.ErrInvalidTitle
	}
	if !types.ValidMedium(medium) {
		return types.Record{}, fmt.Errorf("medium %q: %w", medium, types.ErrInvalidMedium)
	}

	g := s.gen
	if _, ok := g.byTitle.find(title); ok {
		return types.Record{}, fmt.Errorf("add %q: %w", title, types.ErrDuplicateTitle)
	}
	if _, ok := g.byID.find(g.nextID); ok {
		return types.Record{}, fmt.Errorf("add id %d: %w", g.nextID, types.ErrDuplicateID)
	}

	rec := types.NewRecord(g.nextID, medium, title)
	if err := g.insert(rec); err != nil {
		return types.Record{}, fmt.Errorf("add %q: %w", title, err)
	}
	g.nextID++

	s.log.Debug().Int("id", rec.ID).Str("medium", medium).Str("title", title).Msg("record added")
	return rec, nil
}

// SetRating changes the rating of the record with the given ID.
func (s *Store) SetRating(id, rating int) (types.Record, error) {
	h, err := s.gen.lookupID(id)
	if err != nil {
		return types.Record{}, err
	}
	rec := s.gen.arena.mustGet(h)
	if err := rec.SetRating(rating); err != nil {
		return types.Record{}, fmt.Errorf("rate %d as %d: %w", id, rating, err)
	}

	s.log.Debug().Int("id", id).Int("rating", rating).Msg("record rated")
	return *rec, nil
}

// RenameRecord gives the record with the given ID a new title. The record
// keeps its ID, medium and rating but is stored as a new instance, and every
// collection holding the old instance is switched to the new one. Nothing
// changes if the new title is invalid or already taken.
func (s *Store) RenameRecord(id int, title string) (types.Record, error) {
	title = strings.TrimSpace(title)
	g := s.gen

	old, err := g.lookupID(id)
	if err != nil {
		return types.Record{}, err
	}
	if !types.ValidTitle(title) {
		return types.Record{}, types.ErrInvalidTitle
	}
	if _, ok := g.byTitle.find(title); ok {
		return types.Record{}, fmt.Errorf("rename %d to %q: %w", id, title, types.ErrDuplicateTitle)
	}

	prev := *g.arena.mustGet(old)
	rec := types.NewRatedRecord(prev.ID, prev.Medium, title, prev.Rating)
	repl := g.arena.alloc(rec)

	g.catalog.replaceMember(old, repl)
	g.byTitle.remove(old)
	g.byID.remove(old)
	if err := g.arena.release(old); err != nil {
		panic(err)
	}
	g.mustIndex(repl)

	s.log.Debug().Int("id", id).Str("from", prev.Title).Str("to", title).Msg("record renamed")
	return rec, nil
}

// DeleteRecordByTitle destroys the record with the given title. It fails
// with ErrInUseByCollection, changing nothing, while any collection holds it.
func (s *Store) DeleteRecordByTitle(title string) (types.Record, error) {
	h, err := s.gen.lookupTitle(strings.TrimSpace(title))
	if err != nil {
		return types.Record{}, err
	}
	return s.deleteRecord(h)
}

// DeleteRecordByID destroys the record with the given ID under the same
// rules as DeleteRecordByTitle.
func (s *Store) DeleteRecordByID(id int) (types.Record, error) {
	h, err := s.gen.lookupID(id)
	if err != nil {
		return types.Record{}, err
	}
	return s.deleteRecord(h)
}

func (s *Store) deleteRecord(h handle) (types.Record, error) {
	g := s.gen
	rec := *g.arena.mustGet(h)
	if g.catalog.referenced(h) {
		return types.Record{}, fmt.Errorf("delete %q: %w", rec.Title, types.ErrInUseByCollection)
	}

	g.byTitle.remove(h)
	g.byID.remove(h)
	if err := g.arena.release(h); err != nil {
		panic(err)
	}

	s.log.Debug().Int("id", rec.ID).Str("title", rec.Title).Msg("record deleted")
	return rec, nil
}

// ClearRecords destroys every record and resets the ID counter. It fails
// with ErrCollectionsNotEmpty unless every collection is empty.
func (s *Store) ClearRecords() error {
	g := s.gen
	if !g.catalog.allEmpty() {
		return types.ErrCollectionsNotEmpty
	}
	n := g.arena.len()
	g.byTitle.clear()
	g.byID.clear()
	g.arena.releaseAll()
	g.nextID = firstID

	s.log.Debug().Int("records", n).Msg("records cleared")
	return nil
}

// ClearAll removes every collection and then every record.
func (s *Store) ClearAll() {
	s.ClearCollections()
	if err := s.ClearRecords(); err != nil {
		panic(err)
	}
}

// insert allocates rec and adds it to both indices. Nothing is kept if
// either index already has the title or the ID.
func (g *generation) insert(rec types.Record) error {
	if _, ok := g.byTitle.find(rec.Title); ok {
		return types.ErrDuplicateTitle
	}
	if _, ok := g.byID.find(rec.ID); ok {
		return types.ErrDuplicateID
	}
	g.mustIndex(g.arena.alloc(rec))
	return nil
}

// mustIndex adds h to both indices when the caller has already ruled out
// duplicates.
func (g *generation) mustIndex(h handle) {
	if err := g.byTitle.insert(h); err != nil {
		panic(err)
	}
	if err := g.byID.insert(h); err != nil {
		panic(err)
	}
}

func (g *generation) lookupID(id int) (handle, error) {
	h, ok := g.byID.find(id)
	if !ok {
		return handle{}, fmt.Errorf("id %d: %w", id, types.ErrNotFound)
	}
	return h, nil
}

func (g *generation) lookupTitle(title string) (handle, error) {
	h, ok := g.byTitle.find(title)
	if !ok {
		return handle{}, fmt.Errorf("%q: %w", title, types.ErrTitleNotFound)
	}
	return h, nil
}
