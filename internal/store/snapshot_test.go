// Unit tests for snapshot save, restore and rollback.
package store

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mesh-intelligence/shelf/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// populated returns a store with rated and unrated records, a renamed
// record and overlapping collections.
func populated(t *testing.T) *Store {
	t.Helper()
	s := New()
	for _, r := range []struct{ medium, title string }{
		{"book", "Dune"},
		{"book", "Atlas"},
		{"dvd", "Alien"},
		{"cd", "Kind of Blue"},
	} {
		_, err := s.AddRecord(r.medium, r.title)
		require.NoError(t, err)
	}
	_, err := s.SetRating(1, 5)
	require.NoError(t, err)
	_, err = s.SetRating(3, 2)
	require.NoError(t, err)
	_, err = s.RenameRecord(2, "Atlas Shrugged")
	require.NoError(t, err)

	require.NoError(t, s.AddCollection("Classics"))
	require.NoError(t, s.AddCollection("Scifi"))
	require.NoError(t, s.AddCollection("Empty"))
	for _, m := range []struct {
		col string
		id  int
	}{{"Classics", 1}, {"Classics", 2}, {"Scifi", 1}, {"Scifi", 3}} {
		_, err := s.AddMember(m.col, m.id)
		require.NoError(t, err)
	}
	return s
}

func TestSaveFormat(t *testing.T) {
	want := strings.Join([]string{
		"4",
		"3 dvd 2 Alien",
		"2 book 0 Atlas Shrugged",
		"1 book 5 Dune",
		"4 cd 0 Kind of Blue",
		"3",
		"Classics 2",
		"Atlas Shrugged",
		"Dune",
		"Empty 0",
		"Scifi 2",
		"Alien",
		"Dune",
	}, "\n") + "\n"

	assert.Equal(t, want, saved(t, populated(t)))
}

func TestSaveEmpty(t *testing.T) {
	assert.Equal(t, "0\n0\n", saved(t, New()))
}

func TestRoundTrip(t *testing.T) {
	src := populated(t)
	text := saved(t, src)

	dst := New()
	require.NoError(t, dst.Restore(strings.NewReader(text)))
	requireConsistent(t, dst)
	assert.Equal(t, text, saved(t, dst))
	assert.Equal(t, src.Fingerprint(), dst.Fingerprint())
	assert.Equal(t, src.Records(), dst.Records())
	assert.Equal(t, src.Collections(), dst.Collections())
	assert.Equal(t, 5, dst.NextID(), "next id follows the largest restored id")
}

func TestRestoreReplacesLibrary(t *testing.T) {
	s := New()
	_, err := s.AddRecord("book", "Old")
	require.NoError(t, err)
	require.NoError(t, s.AddCollection("Old"))
	gen := s.Generation()

	require.NoError(t, s.Restore(strings.NewReader("1\n7 dvd 3 New\n0\n")))
	assert.NotEqual(t, gen, s.Generation())
	assert.Equal(t, types.Counts{Records: 1}, s.Counts())
	_, err = s.FindByTitle("Old")
	assert.ErrorIs(t, err, types.ErrTitleNotFound)
	assert.Equal(t, 8, s.NextID())

	require.NoError(t, s.Restore(strings.NewReader("0\n0\n")))
	assert.Equal(t, 1, s.NextID())
}

func TestRestoreAcceptsLooseInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no trailing newline", input: "1\n1 book 0 Dune\n1\nClassics 1\nDune"},
		{name: "crlf line endings", input: "1\r\n1 book 0 Dune\r\n1\r\nClassics 1\r\nDune\r\n"},
		{name: "blank lines before counts", input: "\n1\n1 book 0 Dune\n\n1\nClassics 1\nDune\n"},
		{name: "trailing content ignored", input: "1\n1 book 0 Dune\n1\nClassics 1\nDune\nleftover\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			require.NoError(t, s.Restore(strings.NewReader(tt.input)))
			assert.Equal(t, "1\n1 book 0 Dune\n1\nClassics 1\nDune\n", saved(t, s))
		})
	}
}

func TestRestoreFailureLeavesStoreUntouched(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty input", input: "", wantErr: types.ErrMalformedRecord},
		{name: "count says 3 but 2 records follow", input: "3\n1 book 0 Dune\n2 book 0 Atlas\n", wantErr: types.ErrMalformedRecord},
		{name: "negative record count", input: "-1\n0\n", wantErr: types.ErrMalformedRecord},
		{name: "garbled record count", input: "three\n", wantErr: types.ErrMalformedRecord},
		{name: "record missing title", input: "1\n1 book 0\n0\n", wantErr: types.ErrMalformedRecord},
		{name: "record with bad id", input: "1\nx book 0 Dune\n0\n", wantErr: types.ErrMalformedRecord},
		{name: "record with zero id", input: "1\n0 book 0 Dune\n0\n", wantErr: types.ErrMalformedRecord},
		{name: "rating out of range", input: "1\n1 book 6 Dune\n0\n", wantErr: types.ErrMalformedRecord},
		{name: "padded title beside trimmed one", input: "2\n1 book 0 Dune\n2 book 0  Dune \n0\n", wantErr: types.ErrMalformedRecord},
		{name: "title with trailing space", input: "1\n1 book 0 Dune \n0\n", wantErr: types.ErrMalformedRecord},
		{name: "collection name with no-break space", input: "0\n1\nOld\u00a0Classics 0\n", wantErr: types.ErrMalformedCollection},
		{name: "duplicate title", input: "2\n1 book 0 Dune\n2 dvd 0 Dune\n0\n", wantErr: types.ErrDuplicateTitle},
		{name: "duplicate id", input: "2\n1 book 0 Dune\n1 dvd 0 Atlas\n0\n", wantErr: types.ErrDuplicateID},
		{name: "missing collection count", input: "1\n1 book 0 Dune\n", wantErr: types.ErrMalformedCollection},
		{name: "negative collection count", input: "0\n-2\n", wantErr: types.ErrMalformedCollection},
		{name: "collection header without count", input: "0\n1\nClassics\n", wantErr: types.ErrMalformedCollection},
		{name: "negative member count", input: "0\n1\nClassics -1\n", wantErr: types.ErrMalformedCollection},
		{name: "short member list", input: "1\n1 book 0 Dune\n1\nClassics 2\nDune\n", wantErr: types.ErrMalformedCollection},
		{name: "missing collection", input: "0\n2\nClassics 0\n", wantErr: types.ErrMalformedCollection},
		{name: "unknown member title", input: "1\n1 book 0 Dune\n1\nClassics 1\nAtlas\n", wantErr: types.ErrUnresolvedReference},
		{name: "duplicate member", input: "1\n1 book 0 Dune\n1\nClassics 2\nDune\nDune\n", wantErr: types.ErrAlreadyMember},
		{name: "duplicate collection name", input: "0\n2\nClassics 0\nClassics 0\n", wantErr: types.ErrDuplicateCollectionName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := populated(t)
			before := saved(t, s)
			fp := s.Fingerprint()
			gen := s.Generation()
			next := s.NextID()

			err := s.Restore(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, before, saved(t, s))
			assert.Equal(t, fp, s.Fingerprint())
			assert.Equal(t, gen, s.Generation())
			assert.Equal(t, next, s.NextID())
			requireConsistent(t, s)
		})
	}
}

func TestRestoredTitlesAreReachable(t *testing.T) {
	s := populated(t)
	err := s.Restore(strings.NewReader("2\n1 book 0 Dune\n2 book 0  Dune \n0\n"))
	require.ErrorIs(t, err, types.ErrMalformedRecord)

	for _, rec := range s.Records() {
		got, err := s.FindByTitle(rec.Title)
		require.NoError(t, err)
		assert.Equal(t, rec, got)
	}
}

func TestCollectionNamesRoundTrip(t *testing.T) {
	s := New()
	for _, name := range []string{"A\vB", "A\fB", "A\u00a0B", "A\u2003B", "A\u0085B"} {
		assert.ErrorIs(t, s.AddCollection(name), types.ErrInvalidName, "%q", name)
	}
	for _, name := range []string{"Klassiker", "Öl_Bücher", "日本", "a-b.c"} {
		require.NoError(t, s.AddCollection(name))
	}
	_, err := s.AddRecord("book", "Dune")
	require.NoError(t, err)
	_, err = s.AddMember("日本", 1)
	require.NoError(t, err)

	text := saved(t, s)
	restored := New()
	require.NoError(t, restored.Restore(strings.NewReader(text)))
	assert.Equal(t, text, saved(t, restored))
	assert.Equal(t, s.Fingerprint(), restored.Fingerprint())
	requireConsistent(t, restored)
}

func TestRestoreTruncatedIsUnexpectedEOF(t *testing.T) {
	s := New()
	err := s.Restore(strings.NewReader("3\n1 book 0 Dune\n2 book 0 Atlas\n"))
	assert.ErrorIs(t, err, types.ErrMalformedRecord)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, types.Counts{}, s.Counts())
	assert.Equal(t, 1, s.NextID())
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestRestoreReadError(t *testing.T) {
	s := populated(t)
	before := saved(t, s)
	boom := errors.New("disk on fire")

	err := s.Restore(io.MultiReader(strings.NewReader("4\n1 book 0 Dune\n"), failingReader{boom}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, saved(t, s))
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestSaveWriteError(t *testing.T) {
	boom := errors.New("disk full")
	err := populated(t).Save(failingWriter{boom})
	assert.ErrorIs(t, err, boom)
}

func TestFingerprintTracksContent(t *testing.T) {
	a := populated(t)
	b := populated(t)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	_, err := b.SetRating(4, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	var buf bytes.Buffer
	require.NoError(t, a.Save(&buf))
	require.NoError(t, b.Restore(&buf))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}
