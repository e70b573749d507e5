package shell

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/mesh-intelligence/shelf/internal/snapshot"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

var errUnrecognized = errors.New("unrecognized command")

// errorMessages maps error kinds to what the shell prints. Kinds not listed
// print their own text.
var errorMessages = []struct {
	err error
	msg string
}{
	{types.ErrSourceUnavailable, "Could not open file!"},
	{snapshot.ErrBadLocation, "Could not open file!"},
	{types.ErrMalformedRecord, "Invalid data found in file!"},
	{types.ErrMalformedCollection, "Invalid data found in file!"},
	{types.ErrUnresolvedReference, "Invalid data found in file!"},
	{errSaveFailed, "Could not open file!"},
}

// message renders err as a one-line sentence ending in "!".
func message(err error) string {
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	kind := err
	for {
		next := errors.Unwrap(kind)
		if next == nil {
			break
		}
		kind = next
	}
	return sentence(kind.Error())
}

func sentence(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s + "!"
	}
	return string(unicode.ToUpper(r)) + s[n:] + "!"
}
