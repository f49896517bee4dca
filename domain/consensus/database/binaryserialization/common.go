package binaryserialization

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// SerializeUint64 serializes a uint64 to a little-endian slice of bytes
func SerializeUint64(value uint64) []byte {
	var valueBytes [8]byte
	binary.LittleEndian.PutUint64(valueBytes[:], value)
	return valueBytes[:]
}

// DeserializeUint64 deserializes a little-endian slice of bytes to a uint64
func DeserializeUint64(valueBytes []byte) (uint64, error) {
	if len(valueBytes) != 8 {
		return 0, errors.Errorf("the given value is %d bytes long, while it should be 8 bytes long", len(valueBytes))
	}
	return binary.LittleEndian.Uint64(valueBytes), nil
}
