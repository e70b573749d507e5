// Package snapshot moves snapshot text between a Store and where it is
// kept: a local file, a zstd-compressed local file, or an S3 object.
//
// Locations are strings. "s3://bucket/key" names an object; anything else
// is a filesystem path. A location ending in ".zst" is compressed with zstd
// on the way out and decompressed on the way in, whichever backend holds it.
package snapshot

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadLocation is returned for a location that cannot be parsed.
var ErrBadLocation = errors.New("bad snapshot location")

const (
	s3Scheme     = "s3://"
	zstdSuffix   = ".zst"
	schemeMarker = "://"
)

// Location is a parsed snapshot location.
type Location struct {
	// Path is set for filesystem locations.
	Path string

	// Bucket and Key are set for S3 locations.
	Bucket string
	Key    string

	// Compressed is true when the location ends in ".zst".
	Compressed bool
}

// ParseLocation splits loc into its parts.
func ParseLocation(loc string) (Location, error) {
	if strings.TrimSpace(loc) == "" {
		return Location{}, fmt.Errorf("%w: empty", ErrBadLocation)
	}
	compressed := strings.HasSuffix(loc, zstdSuffix)

	if rest, ok := strings.CutPrefix(loc, s3Scheme); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("%w: %q: want s3://bucket/key", ErrBadLocation, loc)
		}
		return Location{Bucket: bucket, Key: key, Compressed: compressed}, nil
	}
	if i := strings.Index(loc, schemeMarker); i > 0 {
		return Location{}, fmt.Errorf("%w: %q: unsupported scheme %q", ErrBadLocation, loc, loc[:i])
	}
	return Location{Path: loc, Compressed: compressed}, nil
}

// IsS3 reports whether l names an S3 object.
func (l Location) IsS3() bool {
	return l.Bucket != ""
}

func (l Location) String() string {
	if l.IsS3() {
		return s3Scheme + l.Bucket + "/" + l.Key
	}
	return l.Path
}
