// Package cask implements an embeddable, persistent key/value store built as
// a log-structured hash table. Writes append records to a sequence of
// immutable segment files; an in-memory key directory maps every live key to
// the on-disk location of its most recent value. Reads are a single seek,
// writes a single append plus fsync, and dead records are reclaimed by Merge.
//
// A DB is single-writer, multi-reader and performs no internal locking.
// Embedders driving it from multiple goroutines must serialize access
// externally; the bundled TCP server does exactly that.
package cask

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caskdb/caskdb/internal/lock"
	"github.com/caskdb/caskdb/internal/record"
	"github.com/caskdb/caskdb/internal/segment"
)

// DB is a handle over one database directory.
type DB struct {
	dir      string
	cfg      config
	lockFile *os.File

	active *segment.Segment
	cursor int64
	sealed []uint32
	nextID uint32

	keys   *keyDir
	closed bool
}

// Open opens the database in dir, creating the directory if needed. Existing
// segment files are replayed in creation order to rebuild the key directory,
// then a fresh active segment is created for this session's writes. The
// directory is locked against other processes until Close.
func Open(dir string, opts ...Option) (*DB, error) {
	cfg := config{maxLogSize: DefaultMaxLogSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxLogSize < MinLogSize || cfg.maxLogSize > MaxLogSize {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]",
			ErrInvalidMaxLogSize, cfg.maxLogSize, MinLogSize, MaxLogSize)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	lockFile, err := lock.LockDirectory(dir)
	if err != nil {
		return nil, err
	}

	db := &DB{
		dir:      dir,
		cfg:      cfg,
		lockFile: lockFile,
		nextID:   1,
		keys:     newKeyDir(),
	}

	ids, err := scanSegments(dir)
	if err != nil {
		lock.UnlockDirectory(lockFile)
		return nil, err
	}

	for _, id := range ids {
		if err := db.replaySegment(id); err != nil {
			lock.UnlockDirectory(lockFile)
			return nil, err
		}
	}

	db.sealed = ids
	if n := len(ids); n > 0 {
		db.nextID = ids[n-1] + 1
	}

	active, err := segment.Create(dir, db.nextID)
	if err != nil {
		lock.UnlockDirectory(lockFile)
		return nil, err
	}
	db.active = active
	db.nextID++

	return db, nil
}

// Set durably writes key to value. The record is appended to the active
// segment and fsynced before the key directory is updated, so a nil return
// means the write survives a crash.
func (db *DB) Set(key, value string) error {
	if db.closed {
		return ErrDatabaseClosed
	}
	loc, err := db.appendRecord([]byte(key), []byte(value))
	if err != nil {
		return err
	}
	db.keys.put(key, loc)
	return nil
}

// Get returns the current value for key, or ErrKeyNotFound when the key was
// never set or its latest record is a tombstone.
func (db *DB) Get(key string) (string, error) {
	if db.closed {
		return "", ErrDatabaseClosed
	}
	loc, ok := db.keys.get(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	return db.readValue(loc)
}

// Delete removes key by appending a tombstone record, with the same rollover
// and durability rules as Set. Deleting an absent key still writes the
// tombstone; the directory update is then a no-op.
func (db *DB) Delete(key string) error {
	if db.closed {
		return ErrDatabaseClosed
	}
	if _, err := db.appendRecord([]byte(key), record.Tombstone); err != nil {
		return err
	}
	db.keys.delete(key)
	return nil
}

// Has reports whether key currently has a live record, without touching
// disk.
func (db *DB) Has(key string) bool {
	if db.closed {
		return false
	}
	return db.keys.has(key)
}

// Count returns the number of live keys.
func (db *DB) Count() int {
	if db.closed {
		return 0
	}
	return db.keys.len()
}

// ListKeys returns a snapshot of the live keys in the order they first
// entered the store.
func (db *DB) ListKeys() []string {
	if db.closed {
		return nil
	}
	return db.keys.keys()
}

// Fold calls fn once for every live key/value pair in insertion order,
// reading each value from disk. fn must not mutate the store. A non-nil
// error from fn stops the fold and is returned.
func (db *DB) Fold(fn func(key, value string) error) error {
	if db.closed {
		return ErrDatabaseClosed
	}
	var ferr error
	db.keys.walk(func(key string, loc Locator) bool {
		value, err := db.readValue(loc)
		if err != nil {
			ferr = err
			return false
		}
		if err := fn(key, value); err != nil {
			ferr = err
			return false
		}
		return true
	})
	return ferr
}

// Sync forces a durable flush of the active segment. Set and Delete already
// sync on every write, so in steady state this is a no-op; it exists for
// future batching modes.
func (db *DB) Sync() error {
	if db.closed {
		return ErrDatabaseClosed
	}
	return db.active.Sync()
}

// Close releases all file handles and the directory lock and drops the key
// directory. Every subsequent operation that returns an error fails with
// ErrDatabaseClosed; Has, Count and ListKeys report an empty store.
func (db *DB) Close() error {
	if db.closed {
		return ErrDatabaseClosed
	}
	db.closed = true
	db.keys = nil

	err := db.active.Close()
	if db.lockFile != nil {
		lock.UnlockDirectory(db.lockFile)
	}
	return err
}

// appendRecord encodes one record, rolls the active segment over if the
// append would push it past the size threshold, then writes and syncs. The
// cursor and the returned locator only advance when both the write and the
// sync succeed, so a failed append never moves engine state.
func (db *DB) appendRecord(key, value []byte) (Locator, error) {
	ts := float64(time.Now().UnixMilli())
	data := record.Encode(ts, key, value)

	if db.cursor+int64(len(data)) > db.cfg.maxLogSize {
		if err := db.rollover(); err != nil {
			return Locator{}, err
		}
	}

	n, err := db.active.WriteAt(data, db.cursor)
	if err != nil {
		return Locator{}, err
	}
	if err := db.active.Sync(); err != nil {
		return Locator{}, err
	}

	loc := Locator{
		SegmentID: db.active.ID,
		Offset:    db.cursor,
		Length:    int64(n),
		Timestamp: ts,
	}
	db.cursor += int64(n)
	return loc, nil
}

// rollover seals the active segment and starts a fresh one with the next id.
// Sealed segments are never written again.
func (db *DB) rollover() error {
	if err := db.active.Sync(); err != nil {
		return err
	}
	if err := db.active.Close(); err != nil {
		return err
	}
	db.sealed = append(db.sealed, db.active.ID)

	next, err := segment.Create(db.dir, db.nextID)
	if err != nil {
		return err
	}
	db.active = next
	db.nextID++
	db.cursor = 0
	return nil
}

// readValue fetches and decodes the record behind loc and returns its value.
func (db *DB) readValue(loc Locator) (string, error) {
	data, err := db.readRecord(loc)
	if err != nil {
		return "", err
	}
	_, _, value := record.Decode(data)
	return string(value), nil
}

// readRecord fetches the raw bytes for one locator. The active segment is
// read through the same handle that writes it; sealed segments are opened on
// demand and closed after the read, so a handle can never outlive a merge
// that unlinks its file.
func (db *DB) readRecord(loc Locator) ([]byte, error) {
	seg := db.active
	if loc.SegmentID != db.active.ID {
		s, err := segment.OpenReadonly(db.dir, loc.SegmentID)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		seg = s
	}

	data, err := seg.ReadAt(loc.Offset, loc.Length)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %s offset %d length %d",
				ErrCorruptRecord, segment.Filename(loc.SegmentID), loc.Offset, loc.Length)
		}
		return nil, err
	}
	return data, nil
}
