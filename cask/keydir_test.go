package cask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyDirPutGet(t *testing.T) {
	kd := newKeyDir()

	_, ok := kd.get("missing")
	assert.False(t, ok)

	kd.put("a", Locator{SegmentID: 1, Offset: 0, Length: 22})
	loc, ok := kd.get("a")
	assert.True(t, ok)
	assert.Equal(t, uint32(1), loc.SegmentID)
	assert.Equal(t, int64(22), loc.Length)

	// overwrite points at the newer record
	kd.put("a", Locator{SegmentID: 2, Offset: 100, Length: 30})
	loc, _ = kd.get("a")
	assert.Equal(t, uint32(2), loc.SegmentID)
	assert.Equal(t, int64(100), loc.Offset)
	assert.Equal(t, 1, kd.len())
}

func TestKeyDirDelete(t *testing.T) {
	kd := newKeyDir()

	assert.False(t, kd.delete("missing"))

	kd.put("a", Locator{})
	assert.True(t, kd.has("a"))
	assert.True(t, kd.delete("a"))
	assert.False(t, kd.has("a"))
	assert.Equal(t, 0, kd.len())
	assert.Empty(t, kd.keys())
}

func TestKeyDirInsertionOrder(t *testing.T) {
	kd := newKeyDir()

	kd.put("c", Locator{})
	kd.put("a", Locator{})
	kd.put("b", Locator{})

	assert.Equal(t, []string{"c", "a", "b"}, kd.keys())

	// overwriting keeps the original position
	kd.put("a", Locator{SegmentID: 2})
	assert.Equal(t, []string{"c", "a", "b"}, kd.keys())

	// deleting then re-inserting moves the key to the back
	kd.delete("c")
	assert.Equal(t, []string{"a", "b"}, kd.keys())
	kd.put("c", Locator{})
	assert.Equal(t, []string{"a", "b", "c"}, kd.keys())
}

func TestKeyDirWalk(t *testing.T) {
	kd := newKeyDir()
	kd.put("k1", Locator{SegmentID: 1})
	kd.put("k2", Locator{SegmentID: 2})
	kd.put("k3", Locator{SegmentID: 3})

	var visited []string
	kd.walk(func(key string, loc Locator) bool {
		visited = append(visited, key)
		return true
	})
	assert.Equal(t, []string{"k1", "k2", "k3"}, visited)

	// returning false stops the walk
	visited = nil
	kd.walk(func(key string, loc Locator) bool {
		visited = append(visited, key)
		return len(visited) < 2
	})
	assert.Equal(t, []string{"k1", "k2"}, visited)
}

func TestKeyDirKeysSnapshot(t *testing.T) {
	kd := newKeyDir()
	kd.put("a", Locator{})

	keys := kd.keys()
	kd.put("b", Locator{})

	assert.Equal(t, []string{"a"}, keys)
}
