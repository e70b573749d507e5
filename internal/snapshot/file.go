package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
)

// fileSink writes to a temp file beside the target and renames it into
// place on commit, so readers never see a half-written snapshot.
type fileSink struct {
	path string
	tmp  *os.File
}

func newFileSink(path string) (*fileSink, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	return &fileSink{path: path, tmp: tmp}, nil
}

func (f *fileSink) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

func (f *fileSink) commit() error {
	name := f.tmp.Name()
	if err := f.tmp.Sync(); err != nil {
		f.tmp.Close()
		os.Remove(name)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(name, f.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (f *fileSink) discard() {
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}
