package record

import (
	"bytes"
	"encoding/binary"
	"math"
)

// HeaderSize is the fixed width of the on-disk record header:
// timestamp (8) + key size (4) + value size (4).
const HeaderSize = 16

// Tombstone is the reserved value that marks a key as deleted: the UTF-8
// encoding of U+1F4A9. The marker is in-band, so a record whose value equals
// these exact bytes is always read back as a deletion.
var Tombstone = []byte{0xF0, 0x9F, 0x92, 0xA9}

// PutHeader writes the 16-byte record header at the start of buf. The
// timestamp is stored as a little-endian float64 of wall-clock milliseconds
// since the epoch. buf must be at least HeaderSize bytes long.
func PutHeader(buf []byte, timestamp float64, keySize, valueSize uint32) {
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(timestamp))
	binary.LittleEndian.PutUint32(buf[8:12], keySize)
	binary.LittleEndian.PutUint32(buf[12:16], valueSize)
}

// ParseHeader reads a record header from the start of buf. buf must be at
// least HeaderSize bytes long; no validation is performed.
func ParseHeader(buf []byte) (timestamp float64, keySize, valueSize uint32) {
	timestamp = math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8]))
	keySize = binary.LittleEndian.Uint32(buf[8:12])
	valueSize = binary.LittleEndian.Uint32(buf[12:16])
	return timestamp, keySize, valueSize
}

// Encode builds one complete on-disk record: header, then key bytes, then
// value bytes, with no padding. The returned buffer is exactly
// HeaderSize + len(key) + len(value) bytes.
func Encode(timestamp float64, key, value []byte) []byte {
	buf := make([]byte, HeaderSize+len(key)+len(value))
	PutHeader(buf, timestamp, uint32(len(key)), uint32(len(value)))
	copy(buf[HeaderSize:], key)
	copy(buf[HeaderSize+len(key):], value)
	return buf
}

// Decode splits one complete record back into its parts. The returned slices
// alias buf. buf must hold the whole record; callers are responsible for
// sizing it from the header.
func Decode(buf []byte) (timestamp float64, key, value []byte) {
	ts, keySize, valueSize := ParseHeader(buf)
	key = buf[HeaderSize : HeaderSize+int(keySize)]
	value = buf[HeaderSize+int(keySize) : HeaderSize+int(keySize)+int(valueSize)]
	return ts, key, value
}

// IsTombstone reports whether value is the deletion marker.
func IsTombstone(value []byte) bool {
	return bytes.Equal(value, Tombstone)
}
