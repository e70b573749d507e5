package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// decoder reads a snapshot one line at a time.
type decoder struct {
	r    *bufio.Reader
	line int
}

// next returns the next line without its line ending. A final line with no
// newline is accepted; running out of input is io.ErrUnexpectedEOF.
func (d *decoder) next() (string, error) {
	s, err := d.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		if s == "" {
			return "", io.ErrUnexpectedEOF
		}
	}
	d.line++
	return strings.TrimRight(s, "\r\n"), nil
}

// count reads a line holding a single non-negative integer. Blank lines
// before it are skipped.
func (d *decoder) count(kind error) (int, error) {
	for {
		s, err := d.next()
		if err != nil {
			return 0, fmt.Errorf("%w: line %d: %w", kind, d.line+1, err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: line %d: bad count %q", kind, d.line, s)
		}
		return n, nil
	}
}

// decode fills an empty generation from r. Any error leaves g unusable;
// the caller discards it.
func (g *generation) decode(r io.Reader) error {
	d := &decoder{r: bufio.NewReader(r)}

	n, err := d.count(types.ErrMalformedRecord)
	if err != nil {
		return err
	}
	maxID := 0
	for i := 0; i < n; i++ {
		rec, err := d.record()
		if err != nil {
			return err
		}
		if err := g.insert(rec); err != nil {
			return fmt.Errorf("%w: line %d: %w", types.ErrMalformedRecord, d.line, err)
		}
		maxID = max(maxID, rec.ID)
	}

	n, err = d.count(types.ErrMalformedCollection)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := d.collection(g); err != nil {
			return err
		}
	}

	g.nextID = maxID + 1
	return nil
}

func (d *decoder) record() (types.Record, error) {
	s, err := d.next()
	if err != nil {
		return types.Record{}, fmt.Errorf("%w: line %d: %w", types.ErrMalformedRecord, d.line+1, err)
	}
	var rec types.Record
	if err := rec.UnmarshalText([]byte(s)); err != nil {
		return types.Record{}, fmt.Errorf("line %d: %w", d.line, err)
	}
	return rec, nil
}

// collection reads one "<name> <count>" header and its member titles,
// resolving each title against the records already loaded into g.
func (d *decoder) collection(g *generation) error {
	s, err := d.next()
	if err != nil {
		return fmt.Errorf("%w: line %d: %w", types.ErrMalformedCollection, d.line+1, err)
	}
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return fmt.Errorf("%w: line %d: want \"<name> <count>\", got %q", types.ErrMalformedCollection, d.line, s)
	}
	name := fields[0]
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return fmt.Errorf("%w: line %d: bad member count %q", types.ErrMalformedCollection, d.line, fields[1])
	}

	col := newCollection(name, g.arena)
	for i := 0; i < n; i++ {
		title, err := d.next()
		if err != nil {
			return fmt.Errorf("%w: %s: line %d: %w", types.ErrMalformedCollection, name, d.line+1, err)
		}
		h, ok := g.byTitle.find(title)
		if !ok {
			return fmt.Errorf("%w: %s: line %d: %q", types.ErrUnresolvedReference, name, d.line, title)
		}
		if err := col.addMember(h); err != nil {
			return fmt.Errorf("%w: line %d: %w", types.ErrMalformedCollection, d.line, err)
		}
	}
	if err := g.catalog.insert(col); err != nil {
		return fmt.Errorf("%w: line %d: %w", types.ErrMalformedCollection, d.line, err)
	}
	return nil
}
