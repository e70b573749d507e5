// Unit tests for lookups, listings and membership statistics.
package store

import (
	"testing"

	"github.com/mesh-intelligence/shelf/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titlesOf(recs []types.Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Title)
	}
	return out
}

func TestFind(t *testing.T) {
	s := populated(t)

	rec, err := s.FindByTitle(" Dune ")
	require.NoError(t, err)
	assert.Equal(t, types.NewRatedRecord(1, "book", "Dune", 5), rec)

	rec, err = s.FindByID(2)
	require.NoError(t, err)
	assert.Equal(t, "Atlas Shrugged", rec.Title)

	_, err = s.FindByTitle("Atlas")
	assert.ErrorIs(t, err, types.ErrTitleNotFound)
	_, err = s.FindByID(99)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

// Atlas is renamed to Atlas Shrugged while it sits in Classics.
func TestRenameVisibleThroughCollection(t *testing.T) {
	s := populated(t)

	classics, err := s.Collection("Classics")
	require.NoError(t, err)
	assert.Equal(t, []string{"Atlas Shrugged", "Dune"}, titlesOf(classics.Members))

	_, err = s.Collection("Missing")
	assert.ErrorIs(t, err, types.ErrCollectionNotFound)
	assert.True(t, s.HasCollection("Classics"))
	assert.False(t, s.HasCollection("Missing"))
}

func TestListings(t *testing.T) {
	s := populated(t)

	assert.Equal(t, []string{"Alien", "Atlas Shrugged", "Dune", "Kind of Blue"}, titlesOf(s.Records()))

	var ids []int
	for _, r := range s.RecordsByID() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, ids)

	assert.Equal(t, []string{"Dune", "Alien", "Atlas Shrugged", "Kind of Blue"}, titlesOf(s.RecordsByRating()))

	var names []string
	for _, c := range s.Collections() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Classics", "Empty", "Scifi"}, names)
	assert.Equal(t, types.Counts{Records: 4, Collections: 3}, s.Counts())
}

func TestListingsAreCopies(t *testing.T) {
	s := populated(t)
	recs := s.Records()
	recs[0].Title = "changed"

	rec, err := s.FindByID(3)
	require.NoError(t, err)
	assert.Equal(t, "Alien", rec.Title)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name    string
		substr  string
		want    []string
		wantErr error
	}{
		{name: "exact", substr: "Dune", want: []string{"Dune"}},
		{name: "ignores case", substr: "ATLAS", want: []string{"Atlas Shrugged"}},
		{name: "substring", substr: "li", want: []string{"Alien"}},
		{name: "shared letter", substr: "a", want: []string{"Alien", "Atlas Shrugged"}},
		{name: "no match", substr: "zzz", wantErr: types.ErrNoMatch},
	}

	s := populated(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(tt.substr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, titlesOf(got))
		})
	}
}

func TestSearchFoldsUnicode(t *testing.T) {
	s := New()
	_, err := s.AddRecord("book", "Straße der Ölsucher")
	require.NoError(t, err)

	got, err := s.Search("ÖLSUCHER")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStats(t *testing.T) {
	s := populated(t)
	assert.Equal(t, types.MembershipStats{
		Records:          4,
		InAtLeastOne:     3,
		InMoreThanOne:    1,
		TotalMemberships: 4,
	}, s.Stats())

	assert.Equal(t, types.MembershipStats{}, New().Stats())
}
