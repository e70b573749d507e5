// Package store implements the shelf library: records owned by a single
// arena, two ordered views over them (by title and by ID), and a catalog of
// collections that reference records without owning them.
//
// All record mutation goes through Store so renames and deletes can be
// propagated to both indices and to every collection. Restoring a snapshot
// builds a complete second generation and swaps it in only once it has been
// fully read, so a failed restore never disturbs the live library.
//
// A Store is not safe for concurrent use.
package store

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// firstID is the ID handed to the first record added to an empty library.
const firstID = 1

// generation is one complete, internally consistent version of the library.
type generation struct {
	id      uuid.UUID
	arena   *arena
	byTitle *orderedIndex[string]
	byID    *orderedIndex[int]
	catalog *catalog
	nextID  int
}

func newGeneration() *generation {
	a := newArena()
	return &generation{
		id:      newGenerationID(),
		arena:   a,
		byTitle: newTitleIndex(a),
		byID:    newIDIndex(a),
		catalog: &catalog{},
		nextID:  firstID,
	}
}

// newGenerationID returns a UUID v7 so generation IDs sort by creation time.
func newGenerationID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Store is the composition root of the library.
type Store struct {
	gen *generation
	log zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for mutation and restore events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		gen: newGeneration(),
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generation returns the ID of the live generation. It changes on every
// successful restore and nowhere else.
func (s *Store) Generation() string {
	return s.gen.id.String()
}

// NextID returns the ID the next added record will receive.
func (s *Store) NextID() int {
	return s.gen.nextID
}
