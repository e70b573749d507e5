package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// errSaveFailed wraps any failure to write a snapshot.
var errSaveFailed = errors.New("could not save snapshot")

type command func(ctx context.Context, sh *Shell) error

var commands = map[string]command{
	"fr": findRecord,
	"fs": findString,
	"pr": printRecord,
	"pc": printCollection,
	"pL": printLibrary,
	"pC": printCatalog,
	"pa": printAllocations,
	"lr": listByRating,
	"cs": collectionStats,
	"cc": combineCollections,
	"ar": addRecord,
	"ac": addCollection,
	"am": addMember,
	"mr": modifyRating,
	"mt": modifyTitle,
	"dr": deleteRecord,
	"dc": deleteCollection,
	"dm": deleteMember,
	"cL": clearLibrary,
	"cC": clearCatalog,
	"cA": clearAll,
	"sA": saveAll,
	"rA": restoreAll,
	"qq": quit,
}

// recordID reads a record ID. IDs below 1 can never exist, so they are
// reported as not found.
func (sh *Shell) recordID() (int, error) {
	id, err := sh.in.integer()
	if err != nil {
		return 0, err
	}
	if id < 1 {
		return 0, fmt.Errorf("id %d: %w", id, types.ErrNotFound)
	}
	return id, nil
}

// existingRecord reads an ID and checks a record has it before any further
// argument is read.
func (sh *Shell) existingRecord() (types.Record, error) {
	id, err := sh.recordID()
	if err != nil {
		return types.Record{}, err
	}
	return sh.store.FindByID(id)
}

// collectionName reads a name and checks a collection has it.
func (sh *Shell) collectionName() (string, error) {
	name, err := sh.in.word()
	if err != nil {
		return "", err
	}
	if !sh.store.HasCollection(name) {
		return "", fmt.Errorf("%s: %w", name, types.ErrCollectionNotFound)
	}
	return name, nil
}

func (sh *Shell) printRecords(recs []types.Record) {
	for _, r := range recs {
		sh.printf("%s\n", r)
	}
}

func (sh *Shell) printCollectionView(v types.CollectionView) {
	if len(v.Members) == 0 {
		sh.printf("Collection %s contains: None\n", v.Name)
		return
	}
	sh.printf("Collection %s contains:\n", v.Name)
	sh.printRecords(v.Members)
}

func findRecord(_ context.Context, sh *Shell) error {
	title, err := sh.in.title()
	if err != nil {
		return err
	}
	rec, err := sh.store.FindByTitle(title)
	if err != nil {
		return err
	}
	sh.printf("%s\n", rec)
	return nil
}

func findString(_ context.Context, sh *Shell) error {
	substr, err := sh.in.word()
	if err != nil {
		return err
	}
	recs, err := sh.store.Search(substr)
	if err != nil {
		return err
	}
	sh.printRecords(recs)
	return nil
}

func printRecord(_ context.Context, sh *Shell) error {
	rec, err := sh.existingRecord()
	if err != nil {
		return err
	}
	sh.printf("%s\n", rec)
	return nil
}

func printCollection(_ context.Context, sh *Shell) error {
	name, err := sh.in.word()
	if err != nil {
		return err
	}
	v, err := sh.store.Collection(name)
	if err != nil {
		return err
	}
	sh.printCollectionView(v)
	return nil
}

func printLibrary(_ context.Context, sh *Shell) error {
	recs := sh.store.Records()
	if len(recs) == 0 {
		sh.printf("Library is empty\n")
		return nil
	}
	sh.printf("Library contains %d records:\n", len(recs))
	sh.printRecords(recs)
	return nil
}

func printCatalog(_ context.Context, sh *Shell) error {
	cols := sh.store.Collections()
	if len(cols) == 0 {
		sh.printf("Catalog is empty\n")
		return nil
	}
	sh.printf("Catalog contains %d collections:\n", len(cols))
	for _, v := range cols {
		sh.printCollectionView(v)
	}
	return nil
}

func printAllocations(_ context.Context, sh *Shell) error {
	c := sh.store.Counts()
	sh.printf("Memory allocations:\nRecords: %d\nCollections: %d\n", c.Records, c.Collections)
	return nil
}

func listByRating(_ context.Context, sh *Shell) error {
	recs := sh.store.RecordsByRating()
	if len(recs) == 0 {
		sh.printf("Library is empty\n")
		return nil
	}
	sh.printRecords(recs)
	return nil
}

func collectionStats(_ context.Context, sh *Shell) error {
	st := sh.store.Stats()
	sh.printf("%d out of %d Records appear in at least one Collection\n", st.InAtLeastOne, st.Records)
	sh.printf("%d out of %d Records appear in more than one Collection\n", st.InMoreThanOne, st.Records)
	sh.printf("Collections contain a total of %d Records\n", st.TotalMemberships)
	return nil
}

func combineCollections(_ context.Context, sh *Shell) error {
	first, err := sh.collectionName()
	if err != nil {
		return err
	}
	second, err := sh.collectionName()
	if err != nil {
		return err
	}
	name, err := sh.in.word()
	if err != nil {
		return err
	}
	if err := sh.store.CombineCollections(first, second, name); err != nil {
		return err
	}
	sh.printf("Collections %s and %s combined into new collection %s\n", first, second, name)
	return nil
}

func addRecord(_ context.Context, sh *Shell) error {
	medium, err := sh.in.word()
	if err != nil {
		return err
	}
	title, err := sh.in.title()
	if err != nil {
		return err
	}
	rec, err := sh.store.AddRecord(medium, title)
	if err != nil {
		return err
	}
	sh.printf("Record %d added\n", rec.ID)
	return nil
}

func addCollection(_ context.Context, sh *Shell) error {
	name, err := sh.in.word()
	if err != nil {
		return err
	}
	if err := sh.store.AddCollection(name); err != nil {
		return err
	}
	sh.printf("Collection %s added\n", name)
	return nil
}

func addMember(_ context.Context, sh *Shell) error {
	name, err := sh.collectionName()
	if err != nil {
		return err
	}
	id, err := sh.recordID()
	if err != nil {
		return err
	}
	rec, err := sh.store.AddMember(name, id)
	if err != nil {
		return err
	}
	sh.printf("Member %d %s added\n", rec.ID, rec.Title)
	return nil
}

func modifyRating(_ context.Context, sh *Shell) error {
	rec, err := sh.existingRecord()
	if err != nil {
		return err
	}
	rating, err := sh.in.integer()
	if err != nil {
		return err
	}
	rec, err = sh.store.SetRating(rec.ID, rating)
	if err != nil {
		return err
	}
	sh.printf("Rating for record %d changed to %d\n", rec.ID, rec.Rating)
	return nil
}

func modifyTitle(_ context.Context, sh *Shell) error {
	rec, err := sh.existingRecord()
	if err != nil {
		return err
	}
	title, err := sh.in.title()
	if err != nil {
		return err
	}
	rec, err = sh.store.RenameRecord(rec.ID, title)
	if err != nil {
		return err
	}
	sh.printf("Title for record %d changed to %s\n", rec.ID, rec.Title)
	return nil
}

func deleteRecord(_ context.Context, sh *Shell) error {
	title, err := sh.in.title()
	if err != nil {
		return err
	}
	rec, err := sh.store.DeleteRecordByTitle(title)
	if err != nil {
		return err
	}
	sh.printf("Record %d %s deleted\n", rec.ID, rec.Title)
	return nil
}

func deleteCollection(_ context.Context, sh *Shell) error {
	name, err := sh.in.word()
	if err != nil {
		return err
	}
	if err := sh.store.RemoveCollection(name); err != nil {
		return err
	}
	sh.printf("Collection %s deleted\n", name)
	return nil
}

func deleteMember(_ context.Context, sh *Shell) error {
	name, err := sh.collectionName()
	if err != nil {
		return err
	}
	id, err := sh.recordID()
	if err != nil {
		return err
	}
	rec, err := sh.store.RemoveMember(name, id)
	if err != nil {
		return err
	}
	sh.printf("Member %d %s deleted\n", rec.ID, rec.Title)
	return nil
}

func clearLibrary(_ context.Context, sh *Shell) error {
	if err := sh.store.ClearRecords(); err != nil {
		return err
	}
	sh.printf("All records deleted\n")
	return nil
}

func clearCatalog(_ context.Context, sh *Shell) error {
	sh.store.ClearCollections()
	sh.printf("All collections deleted\n")
	return nil
}

func clearAll(_ context.Context, sh *Shell) error {
	sh.store.ClearAll()
	sh.printf("All data deleted\n")
	return nil
}

// snapshotLocation reads the rest of the line as a location, falling back
// to the configured default when the line is blank.
func (sh *Shell) snapshotLocation() (string, error) {
	rest, err := sh.in.line()
	if err != nil {
		return "", err
	}
	loc, _, _ := strings.Cut(strings.TrimSpace(rest), " ")
	if loc == "" {
		loc = sh.location
	}
	if loc == "" {
		return "", fmt.Errorf("no location given: %w", types.ErrSourceUnavailable)
	}
	return loc, nil
}

func saveAll(ctx context.Context, sh *Shell) error {
	loc, err := sh.snapshotLocation()
	if err != nil {
		return err
	}
	if err := sh.snaps.Save(ctx, loc, sh.store); err != nil {
		return fmt.Errorf("%w: %w", errSaveFailed, err)
	}
	sh.log.Info().Str("location", loc).Msg("snapshot saved")
	sh.printf("Data saved\n")
	return nil
}

func restoreAll(ctx context.Context, sh *Shell) error {
	loc, err := sh.snapshotLocation()
	if err != nil {
		return err
	}
	err = sh.snaps.Load(ctx, loc, sh.store)
	sh.metrics.ObserveRestore(err == nil)
	if err != nil {
		return err
	}
	sh.log.Info().Str("location", loc).Str("generation", sh.store.Generation()).Msg("snapshot loaded")
	sh.printf("Data loaded\n")
	return nil
}

func quit(_ context.Context, sh *Shell) error {
	sh.store.ClearAll()
	sh.printf("All data deleted\nDone\n")
	return nil
}
