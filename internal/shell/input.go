package shell

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

var (
	// errBadInteger is returned when an integer argument cannot be read.
	errBadInteger = errors.New("could not read an integer value")

	// errEndOfInput is returned by every read once the stream is exhausted.
	errEndOfInput = errors.New("end of input")
)

func eof(err error) error {
	if errors.Is(err, io.EOF) {
		return errEndOfInput
	}
	return err
}

// input reads whitespace-separated words and whole lines from the command
// stream. It remembers whether the last rune it consumed ended a line so
// the shell knows whether an error left part of the line unread.
type input struct {
	r       *bufio.Reader
	lineEnd bool
}

func newInput(r io.Reader) *input {
	return &input{r: bufio.NewReader(r), lineEnd: true}
}

func (in *input) readRune() (rune, error) {
	c, _, err := in.r.ReadRune()
	if err != nil {
		return 0, eof(err)
	}
	in.lineEnd = c == '\n'
	return c, nil
}

// skipSpace consumes whitespace, newlines included.
func (in *input) skipSpace() error {
	for {
		c, _, err := in.r.ReadRune()
		if err != nil {
			return eof(err)
		}
		if !unicode.IsSpace(c) {
			return in.r.UnreadRune()
		}
		in.lineEnd = c == '\n'
	}
}

// char returns the next non-whitespace rune.
func (in *input) char() (rune, error) {
	if err := in.skipSpace(); err != nil {
		return 0, err
	}
	return in.readRune()
}

// word returns the next whitespace-delimited word. The whitespace after it
// is left unread.
func (in *input) word() (string, error) {
	if err := in.skipSpace(); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		c, _, err := in.r.ReadRune()
		if errors.Is(err, io.EOF) && b.Len() > 0 {
			return b.String(), nil
		}
		if err != nil {
			return "", eof(err)
		}
		if unicode.IsSpace(c) {
			if err := in.r.UnreadRune(); err != nil {
				return "", err
			}
			return b.String(), nil
		}
		in.lineEnd = false
		b.WriteRune(c)
	}
}

// integer reads a word and parses it as a decimal integer.
func (in *input) integer() (int, error) {
	w, err := in.word()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(w)
	if err != nil {
		return 0, errBadInteger
	}
	return n, nil
}

// line returns the rest of the current line without its newline. At end of
// input the partial line is returned.
func (in *input) line() (string, error) {
	s, err := in.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", eof(err)
	}
	in.lineEnd = true
	return strings.TrimSuffix(s, "\n"), nil
}

// skipLine discards input up to and including the next newline, unless the
// last read already finished a line.
func (in *input) skipLine() {
	if in.lineEnd {
		return
	}
	_, _ = in.line()
}

// title reads the rest of the line as a title with its ends trimmed and
// every inner run of whitespace collapsed to one space.
func (in *input) title() (string, error) {
	s, err := in.line()
	if err != nil {
		return "", err
	}
	title := strings.Join(strings.Fields(s), " ")
	if title == "" {
		return "", types.ErrInvalidTitle
	}
	return title, nil
}
