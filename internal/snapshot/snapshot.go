package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Saver writes a snapshot. *store.Store satisfies it.
type Saver interface {
	Save(w io.Writer) error
}

// Restorer loads a snapshot. *store.Store satisfies it.
type Restorer interface {
	Restore(r io.Reader) error
}

// Locator opens and creates snapshots by location.
type Locator struct {
	s3cfg  types.S3Config
	client ObjectClient
}

// Option configures a Locator.
type Option func(*Locator)

// WithObjectClient sets the client used for s3:// locations. Without it a
// client is built from the AWS default configuration on first use.
func WithObjectClient(c ObjectClient) Option {
	return func(l *Locator) {
		l.client = c
	}
}

// NewLocator returns a Locator. cfg configures the S3 client built on
// demand.
func NewLocator(cfg types.S3Config, opts ...Option) *Locator {
	l := &Locator{s3cfg: cfg}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Locator) objectClient(ctx context.Context) (ObjectClient, error) {
	if l.client != nil {
		return l.client, nil
	}
	c, err := NewS3Client(ctx, l.s3cfg)
	if err != nil {
		return nil, err
	}
	l.client = c
	return c, nil
}

// Open returns a reader over the snapshot at loc, decompressed if needed.
// Every failure wraps types.ErrSourceUnavailable.
func (l *Locator) Open(ctx context.Context, loc string) (io.ReadCloser, error) {
	rc, err := l.open(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrSourceUnavailable, err)
	}
	return rc, nil
}

func (l *Locator) open(ctx context.Context, loc string) (io.ReadCloser, error) {
	parsed, err := ParseLocation(loc)
	if err != nil {
		return nil, err
	}

	var rc io.ReadCloser
	if parsed.IsS3() {
		client, err := l.objectClient(ctx)
		if err != nil {
			return nil, err
		}
		out, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(parsed.Bucket),
			Key:    aws.String(parsed.Key),
		})
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", parsed, err)
		}
		rc = out.Body
	} else {
		f, err := os.Open(parsed.Path)
		if err != nil {
			return nil, err
		}
		rc = f
	}

	if !parsed.Compressed {
		return rc, nil
	}
	dec, err := zstd.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return &zstdReadCloser{dec: dec, under: rc}, nil
}

type zstdReadCloser struct {
	dec   *zstd.Decoder
	under io.Closer
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	return z.dec.Read(p)
}

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return z.under.Close()
}

// sink is a backend destination that only becomes visible on commit.
type sink interface {
	io.Writer
	commit() error
	discard()
}

// Writer receives a snapshot. Nothing appears at the location until Close
// returns nil; Discard abandons the write.
type Writer struct {
	sink sink
	enc  *zstd.Encoder
	w    io.Writer
	done bool
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Close finishes the write and publishes the snapshot.
func (w *Writer) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			w.sink.discard()
			return fmt.Errorf("zstd: %w", err)
		}
	}
	return w.sink.commit()
}

// Discard abandons the write. It is a no-op after Close.
func (w *Writer) Discard() {
	if w.done {
		return
	}
	w.done = true
	if w.enc != nil {
		w.enc.Close()
	}
	w.sink.discard()
}

// Create returns a Writer for the snapshot at loc.
func (l *Locator) Create(ctx context.Context, loc string) (*Writer, error) {
	parsed, err := ParseLocation(loc)
	if err != nil {
		return nil, err
	}

	var s sink
	if parsed.IsS3() {
		client, err := l.objectClient(ctx)
		if err != nil {
			return nil, err
		}
		s = &s3Sink{ctx: ctx, client: client, loc: parsed}
	} else {
		fs, err := newFileSink(parsed.Path)
		if err != nil {
			return nil, err
		}
		s = fs
	}

	w := &Writer{sink: s, w: s}
	if parsed.Compressed {
		enc, err := zstd.NewWriter(s)
		if err != nil {
			s.discard()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		w.enc = enc
		w.w = enc
	}
	return w, nil
}

// Save writes src to loc. A failed save leaves whatever was at loc alone.
func (l *Locator) Save(ctx context.Context, loc string, src Saver) error {
	w, err := l.Create(ctx, loc)
	if err != nil {
		return fmt.Errorf("saving %s: %w", loc, err)
	}
	if err := src.Save(w); err != nil {
		w.Discard()
		return fmt.Errorf("saving %s: %w", loc, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("saving %s: %w", loc, err)
	}
	return nil
}

// Load restores dst from the snapshot at loc. If loc cannot be opened dst
// is never called.
func (l *Locator) Load(ctx context.Context, loc string, dst Restorer) error {
	rc, err := l.Open(ctx, loc)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := dst.Restore(rc); err != nil {
		return fmt.Errorf("loading %s: %w", loc, err)
	}
	return nil
}
