package cask

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caskdb/caskdb/internal/segment"
)

// Merge rewrites every live record into a fresh run of segments and unlinks
// every segment that existed when it started. Afterwards the directory holds
// only live data, as if a fresh database had been populated with the current
// contents. Tombstones are not carried forward: deleted keys are simply
// absent from the key directory and therefore from the merged output.
//
// New segments get strictly higher ids than the old ones, so replay order is
// preserved. Merge is best-effort and not crash-safe: a crash mid-merge can
// leave a mix of old and new segments behind.
func (db *DB) Merge() error {
	if db.closed {
		return ErrDatabaseClosed
	}

	if err := db.active.Sync(); err != nil {
		return err
	}
	if err := db.active.Close(); err != nil {
		return err
	}
	oldIDs := append([]uint32{}, db.sealed...)
	oldIDs = append(oldIDs, db.active.ID)
	db.sealed = nil

	readers := make(map[uint32]*segment.Segment)
	closeReaders := func() {
		for _, s := range readers {
			s.Close()
		}
	}

	out, err := segment.Create(db.dir, db.nextID)
	if err != nil {
		closeReaders()
		return err
	}
	outIDs := []uint32{out.ID}
	db.nextID++
	var outCursor int64

	var merr error
	db.keys.walk(func(key string, loc Locator) bool {
		src, ok := readers[loc.SegmentID]
		if !ok {
			src, merr = segment.OpenReadonly(db.dir, loc.SegmentID)
			if merr != nil {
				return false
			}
			readers[loc.SegmentID] = src
		}

		data, err := src.ReadAt(loc.Offset, loc.Length)
		if err != nil {
			merr = err
			return false
		}

		if outCursor+int64(len(data)) > db.cfg.maxLogSize {
			if merr = out.Close(); merr != nil {
				return false
			}
			out, merr = segment.Create(db.dir, db.nextID)
			if merr != nil {
				return false
			}
			outIDs = append(outIDs, out.ID)
			db.nextID++
			outCursor = 0
		}

		n, err := out.WriteAt(data, outCursor)
		if err != nil {
			merr = err
			return false
		}
		if err := out.Sync(); err != nil {
			merr = err
			return false
		}

		db.keys.put(key, Locator{
			SegmentID: out.ID,
			Offset:    outCursor,
			Length:    loc.Length,
			Timestamp: loc.Timestamp,
		})
		outCursor += int64(n)
		return true
	})

	closeReaders()
	if merr != nil {
		out.Close()
		return merr
	}
	if err := out.Close(); err != nil {
		return err
	}

	for _, id := range oldIDs {
		name := segment.Filename(id)
		if err := os.Remove(filepath.Join(db.dir, name)); err != nil {
			return fmt.Errorf("remove merged segment %s: %w", name, err)
		}
	}
	db.sealed = outIDs

	active, err := segment.Create(db.dir, db.nextID)
	if err != nil {
		return err
	}
	db.active = active
	db.nextID++
	db.cursor = 0
	return nil
}
