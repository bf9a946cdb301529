package segment

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// Ext is the file extension shared by all segment files.
const Ext = ".dat"

// namePattern matches the directory entries Open considers part of a
// database: five alphanumerics followed by ".dat". Everything else in the
// directory (lock files, editor droppings) is ignored.
var namePattern = regexp.MustCompile(`^[0-9A-Za-z]{5}\.dat$`)

// Filename returns the on-disk name for a segment id, zero-padded to five
// decimal digits so that lexicographic order matches creation order.
func Filename(id uint32) string {
	return fmt.Sprintf("%05d%s", id, Ext)
}

// ParseFilename reports the segment id encoded in a directory entry name.
// Names that do not look like segment files, or whose stem is not decimal,
// return false.
func ParseFilename(name string) (uint32, bool) {
	if !namePattern.MatchString(name) {
		return 0, false
	}
	id, err := strconv.ParseUint(name[:5], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}

// Segment is a handle over one data file. Exactly one segment per database
// is writable at a time (the active segment); all others are sealed and are
// only ever opened read-only or unlinked during a merge.
type Segment struct {
	ID   uint32
	path string
	f    *os.File
}

// Create opens the segment file for id in dir for writing, creating it if it
// does not exist. The engine only ever creates segments with fresh ids, so
// writes start at offset zero.
func Create(dir string, id uint32) (*Segment, error) {
	path := filepath.Join(dir, Filename(id))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("create segment %s: %w", Filename(id), err)
	}
	return &Segment{ID: id, path: path, f: f}, nil
}

// OpenReadonly opens a sealed segment for reads.
func OpenReadonly(dir string, id uint32) (*Segment, error) {
	path := filepath.Join(dir, Filename(id))
	f, err := os.OpenFile(path, os.O_RDONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open segment %s: %w", Filename(id), err)
	}
	return &Segment{ID: id, path: path, f: f}, nil
}

// WriteAt writes data with a single pwrite at the given offset and returns
// the number of bytes written. The caller owns the write cursor and must
// only advance it when the whole write succeeds.
func (s *Segment) WriteAt(data []byte, off int64) (int, error) {
	n, err := s.f.WriteAt(data, off)
	if err != nil {
		return n, fmt.Errorf("write segment %s at %d: %w", Filename(s.ID), off, err)
	}
	return n, nil
}

// ReadAt reads exactly length bytes starting at off. Reading past the end of
// the file fails with a wrapped io.EOF or io.ErrUnexpectedEOF.
func (s *Segment) ReadAt(off, length int64) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := s.f.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("read %d bytes at %d in segment %s: %w", length, off, Filename(s.ID), err)
	}
	return buf, nil
}

// Sync forces a durable flush of the file.
func (s *Segment) Sync() error {
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("sync segment %s: %w", Filename(s.ID), err)
	}
	return nil
}

// Close releases the file handle.
func (s *Segment) Close() error {
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close segment %s: %w", Filename(s.ID), err)
	}
	return nil
}

// Remove unlinks the segment file. The handle should be closed first.
func (s *Segment) Remove() error {
	if err := os.Remove(s.path); err != nil {
		return fmt.Errorf("remove segment %s: %w", Filename(s.ID), err)
	}
	return nil
}
