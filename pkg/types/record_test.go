package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordIsUnrated(t *testing.T) {
	r := NewRecord(3, "book", "Dune")
	assert.Equal(t, 3, r.ID)
	assert.Equal(t, "book", r.Medium)
	assert.Equal(t, "Dune", r.Title)
	assert.Equal(t, RatingUnrated, r.Rating)
	assert.False(t, r.Rated())
}

func TestRecordSetRating(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		wantErr error
	}{
		{name: "lowest", rating: 1},
		{name: "highest", rating: 5},
		{name: "zero rejected", rating: 0, wantErr: ErrOutOfRange},
		{name: "six rejected", rating: 6, wantErr: ErrOutOfRange},
		{name: "negative rejected", rating: -2, wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRatedRecord(1, "dvd", "Alien", 2)
			err := r.SetRating(tt.rating)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 2, r.Rating, "rating should not change on error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rating, r.Rating)
		})
	}
}

func TestRecordString(t *testing.T) {
	assert.Equal(t, "7: book u The Left Hand of Darkness",
		NewRecord(7, "book", "The Left Hand of Darkness").String())
	assert.Equal(t, "2: cd 4 Kind of Blue",
		NewRatedRecord(2, "cd", "Kind of Blue", 4).String())
}

func TestRecordMarshalText(t *testing.T) {
	line, err := NewRatedRecord(12, "vinyl", "Blue Train", 5).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "12 vinyl 5 Blue Train", string(line))

	line, err = NewRecord(1, "book", "Dune").MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1 book 0 Dune", string(line), "save format keeps the numeric zero")
}

func TestRecordUnmarshalText(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Record
		wantErr error
	}{
		{
			name: "multi word title",
			line: "4 book 3 A Wizard of Earthsea",
			want: NewRatedRecord(4, "book", "A Wizard of Earthsea", 3),
		},
		{
			name: "unrated with trailing newline",
			line: "9 dvd 0 Heat\n",
			want: NewRecord(9, "dvd", "Heat"),
		},
		{
			name: "crlf line ending",
			line: "9 dvd 0 Heat\r\n",
			want: NewRecord(9, "dvd", "Heat"),
		},
		{name: "empty line", line: "", wantErr: ErrMalformedRecord},
		{name: "id only", line: "4", wantErr: ErrMalformedRecord},
		{name: "missing rating", line: "4 book", wantErr: ErrMalformedRecord},
		{name: "missing title", line: "4 book 3", wantErr: ErrMalformedRecord},
		{name: "blank title", line: "4 book 3    ", wantErr: ErrMalformedRecord},
		{name: "non numeric id", line: "x book 3 Dune", wantErr: ErrMalformedRecord},
		{name: "zero id", line: "0 book 3 Dune", wantErr: ErrMalformedRecord},
		{name: "non numeric rating", line: "4 book five Dune", wantErr: ErrMalformedRecord},
		{name: "rating too high", line: "4 book 6 Dune", wantErr: ErrMalformedRecord},
		{name: "title with leading space", line: "2 book 0  Dune", wantErr: ErrMalformedRecord},
		{name: "title with trailing space", line: "2 book 0 Dune ", wantErr: ErrMalformedRecord},
		{name: "title with trailing no-break space", line: "2 book 0 Dune\u00a0", wantErr: ErrMalformedRecord},
		{name: "medium with vertical tab", line: "2 audio\vbook 0 Dune", wantErr: ErrMalformedRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Record
			err := got.UnmarshalText([]byte(tt.line))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordTextRoundTrip(t *testing.T) {
	in := NewRatedRecord(31, "game", "Outer  Wilds", 5)
	line, err := in.MarshalText()
	require.NoError(t, err)

	var out Record
	require.NoError(t, out.UnmarshalText(line))
	assert.Equal(t, in, out, "interior spacing in titles survives")
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidMedium("book"))
	assert.False(t, ValidMedium(""))
	assert.False(t, ValidMedium("audio book"))

	assert.True(t, ValidTitle("Dune"))
	assert.False(t, ValidTitle("   "))
	assert.False(t, ValidTitle("two\nlines"))

	assert.True(t, ValidCollectionName("Classics"))
	assert.False(t, ValidCollectionName("Old Classics"))
	for _, name := range []string{"A\vB", "A\fB", "A\u00a0B", "A\u2003B"} {
		assert.False(t, ValidCollectionName(name), "%q", name)
		assert.False(t, ValidMedium(name), "%q", name)
	}
}
