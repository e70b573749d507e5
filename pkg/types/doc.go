// Package types defines the Record entity, the read-only views handed to
// callers of the store, the configuration shape, and the sentinel errors
// shared by every shelf package.
package types
