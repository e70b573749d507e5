package types

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Rating bounds. A zero rating means the record has not been rated yet.
const (
	RatingUnrated = 0
	RatingMin     = 1
	RatingMax     = 5
)

// Record is a titled, identified, rated catalog item. ID and Title are
// unique across a store; Medium is a single word such as "book" or "dvd".
type Record struct {
	ID     int    `json:"id"`
	Medium string `json:"medium"`
	Title  string `json:"title"`
	Rating int    `json:"rating"`
}

// NewRecord returns an unrated record.
func NewRecord(id int, medium, title string) Record {
	return Record{ID: id, Medium: medium, Title: title}
}

// NewRatedRecord returns a record carrying the given rating. The rating is
// taken as-is; callers restoring saved data validate it themselves.
func NewRatedRecord(id int, medium, title string, rating int) Record {
	return Record{ID: id, Medium: medium, Title: title, Rating: rating}
}

// SetRating changes the rating. Returns ErrOutOfRange unless
// RatingMin <= rating <= RatingMax.
func (r *Record) SetRating(rating int) error {
	if rating < RatingMin || rating > RatingMax {
		return ErrOutOfRange
	}
	r.Rating = rating
	return nil
}

// Rated reports whether the record has been given a rating.
func (r Record) Rated() bool {
	return r.Rating != RatingUnrated
}

// String renders the record for people: "<id>: <medium> <rating> <title>",
// with "u" in place of an unset rating.
func (r Record) String() string {
	rating := "u"
	if r.Rated() {
		rating = strconv.Itoa(r.Rating)
	}
	return fmt.Sprintf("%d: %s %s %s", r.ID, r.Medium, rating, r.Title)
}

// MarshalText encodes the record as one snapshot line without the trailing
// newline: "<id> <medium> <rating> <title>".
func (r Record) MarshalText() ([]byte, error) {
	b := make([]byte, 0, 16+len(r.Medium)+len(r.Title))
	b = strconv.AppendInt(b, int64(r.ID), 10)
	b = append(b, ' ')
	b = append(b, r.Medium...)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(r.Rating), 10)
	b = append(b, ' ')
	b = append(b, r.Title...)
	return b, nil
}

// UnmarshalText decodes one snapshot line. Every field must be present, the
// ID must be positive, the medium a single word, the rating unrated or in
// range, and the title non-blank with no surrounding whitespace. Anything
// else is ErrMalformedRecord.
func (r *Record) UnmarshalText(line []byte) error {
	rest := strings.TrimRight(string(line), "\r\n")

	idTok, rest, ok := cutToken(rest)
	if !ok {
		return fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}
	id, err := strconv.Atoi(idTok)
	if err != nil || id < 1 {
		return fmt.Errorf("%w: bad id %q", ErrMalformedRecord, idTok)
	}

	medium, rest, ok := cutToken(rest)
	if !ok {
		return fmt.Errorf("%w: missing medium", ErrMalformedRecord)
	}
	if !ValidMedium(medium) {
		return fmt.Errorf("%w: bad medium %q", ErrMalformedRecord, medium)
	}

	ratingTok, title, ok := cutToken(rest)
	if !ok {
		return fmt.Errorf("%w: missing rating", ErrMalformedRecord)
	}
	rating, err := strconv.Atoi(ratingTok)
	if err != nil || rating < RatingUnrated || rating > RatingMax {
		return fmt.Errorf("%w: bad rating %q", ErrMalformedRecord, ratingTok)
	}

	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: missing title", ErrMalformedRecord)
	}
	if !ValidTitle(title) || strings.TrimSpace(title) != title {
		return fmt.Errorf("%w: title %q is not trimmed", ErrMalformedRecord, title)
	}

	*r = NewRatedRecord(id, medium, title, rating)
	return nil
}

// cutToken skips leading blanks and splits s after the next
// whitespace-delimited token. The single separator following the token is
// consumed; ok is false when no token is present.
func cutToken(s string) (tok, rest string, ok bool) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return "", "", false
	}
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, "", true
	}
	return s[:i], s[i+1:], true
}

// ValidMedium reports whether m can be stored as a record medium. Media are
// single words because the snapshot format separates fields with spaces.
func ValidMedium(m string) bool {
	return m != "" && !strings.ContainsFunc(m, unicode.IsSpace)
}

// ValidTitle reports whether t is non-empty after trimming and fits on a
// single snapshot line.
func ValidTitle(t string) bool {
	return strings.TrimSpace(t) != "" && !strings.ContainsAny(t, "\r\n")
}

// ValidCollectionName reports whether n can name a collection.
func ValidCollectionName(n string) bool {
	return ValidMedium(n)
}
