package cask

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caskdb/caskdb/internal/record"
	"github.com/caskdb/caskdb/internal/segment"
)

// scanSegments lists the segment files in dir in ascending id order. Names
// not matching the segment pattern are ignored.
func scanSegments(dir string) ([]uint32, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list database directory: %w", err)
	}

	// os.ReadDir sorts by filename, and zero-padded ids make lexicographic
	// order the creation order.
	var ids []uint32
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := segment.ParseFilename(entry.Name())
		if !ok {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// replaySegment folds one segment file into the key directory. Records are
// applied in file order, so combined with ascending segment order the
// directory ends up holding the latest record for every key, exactly as the
// live write path would have left it.
//
// A trailing partial header or record is the remnant of a write that never
// completed; replay drops it silently and treats it as end-of-segment.
func (db *DB) replaySegment(id uint32) error {
	data, err := os.ReadFile(filepath.Join(db.dir, segment.Filename(id)))
	if err != nil {
		return fmt.Errorf("replay segment %s: %w", segment.Filename(id), err)
	}

	for off := 0; off < len(data); {
		if len(data)-off < record.HeaderSize {
			break
		}
		ts, keySize, valueSize := record.ParseHeader(data[off:])
		length := record.HeaderSize + int(keySize) + int(valueSize)
		if len(data)-off < length {
			break
		}

		key := string(data[off+record.HeaderSize : off+record.HeaderSize+int(keySize)])
		value := data[off+record.HeaderSize+int(keySize) : off+length]

		if record.IsTombstone(value) {
			db.keys.delete(key)
		} else {
			db.keys.put(key, Locator{
				SegmentID: id,
				Offset:    int64(off),
				Length:    int64(length),
				Timestamp: ts,
			})
		}
		off += length
	}
	return nil
}
