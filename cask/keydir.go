package cask

// Locator points at the most recent record for a key: the segment holding
// it, the byte offset of its header, the full record length, and the
// timestamp it was written with.
//
// Older records for the same key may still exist on disk; they are dead and
// reclaimed by Merge.
type Locator struct {
	SegmentID uint32
	Offset    int64
	Length    int64
	Timestamp float64
}

// keyDir is the in-memory index mapping each live key to the locator of its
// latest record. It is rebuilt from the segment files on Open and never
// persisted.
//
// Iteration follows the order keys first entered the directory in the
// current session. Deleting a key and setting it again moves it to the back.
type keyDir struct {
	entries map[string]Locator
	order   []string
}

func newKeyDir() *keyDir {
	return &keyDir{entries: make(map[string]Locator)}
}

func (kd *keyDir) get(key string) (Locator, bool) {
	loc, ok := kd.entries[key]
	return loc, ok
}

func (kd *keyDir) put(key string, loc Locator) {
	if _, ok := kd.entries[key]; !ok {
		kd.order = append(kd.order, key)
	}
	kd.entries[key] = loc
}

func (kd *keyDir) delete(key string) bool {
	if _, ok := kd.entries[key]; !ok {
		return false
	}
	delete(kd.entries, key)
	for i, k := range kd.order {
		if k == key {
			kd.order = append(kd.order[:i], kd.order[i+1:]...)
			break
		}
	}
	return true
}

func (kd *keyDir) has(key string) bool {
	_, ok := kd.entries[key]
	return ok
}

func (kd *keyDir) len() int {
	return len(kd.entries)
}

// keys returns a snapshot of the live keys in insertion order.
func (kd *keyDir) keys() []string {
	out := make([]string, len(kd.order))
	copy(out, kd.order)
	return out
}

// walk calls fn for every entry in insertion order until fn returns false.
// fn may overwrite the entry for the key it was called with, but must not
// add or remove keys.
func (kd *keyDir) walk(fn func(key string, loc Locator) bool) {
	for _, k := range kd.order {
		if !fn(k, kd.entries[k]) {
			return
		}
	}
}
