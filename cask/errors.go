package cask

import "errors"

var (
	// ErrKeyNotFound is returned by Get when a key has no live record.
	ErrKeyNotFound = errors.New("key not found")

	// ErrDatabaseClosed is returned by every error-returning operation
	// called after Close.
	ErrDatabaseClosed = errors.New("database is closed")

	// ErrInvalidMaxLogSize is returned by Open when the configured segment
	// size threshold is outside [MinLogSize, MaxLogSize].
	ErrInvalidMaxLogSize = errors.New("max log size out of range")

	// ErrCorruptRecord is returned when a key directory entry points past
	// the end of its segment. That means on-disk corruption or a bug; no
	// recovery is attempted.
	ErrCorruptRecord = errors.New("record location past end of segment")
)
