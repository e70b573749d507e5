package types

import "errors"

// Record and index errors.
var (
	ErrNotFound       = errors.New("no record with that ID")
	ErrTitleNotFound  = errors.New("no record with that title")
	ErrDuplicateTitle = errors.New("library already has a record with this title")
	ErrDuplicateID    = errors.New("library already has a record with this ID")
	ErrDuplicateKey   = errors.New("index already has an entry with this key")
	ErrInvalidTitle   = errors.New("could not read a title")
	ErrInvalidMedium  = errors.New("medium must be a single non-empty word")
	ErrOutOfRange     = errors.New("rating is out of range")
	ErrStaleHandle    = errors.New("record handle is stale")
	ErrNoMatch        = errors.New("no records contain that string")
)

// Collection and catalog errors.
var (
	ErrCollectionNotFound      = errors.New("no collection with that name")
	ErrDuplicateCollectionName = errors.New("catalog already has a collection with this name")
	ErrInvalidName             = errors.New("collection name must be a single non-empty word")
	ErrAlreadyMember           = errors.New("record is already a member in the collection")
	ErrNotAMember              = errors.New("record is not a member in the collection")
	ErrInUseByCollection       = errors.New("cannot delete a record that is a member of a collection")
	ErrCollectionsNotEmpty     = errors.New("cannot clear all records unless all collections are empty")
)

// Snapshot errors. A restore that fails with any of these leaves the live
// store untouched.
var (
	ErrMalformedRecord     = errors.New("invalid record data found in snapshot")
	ErrMalformedCollection = errors.New("invalid collection data found in snapshot")
	ErrUnresolvedReference = errors.New("snapshot collection refers to an unknown title")
	ErrSourceUnavailable   = errors.New("could not open snapshot source")
)
