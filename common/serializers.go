package common

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/constraints"
)

// Serializer converts a value of a fixed-size type to its canonical
// binary form and back. Encodings are big-endian so that the encoded
// order of numeric keys matches their numeric order.
type Serializer[T any] interface {
	ToBytes(T) []byte
	FromBytes([]byte) T
	Size() int // size in bytes when serialized
}

// PublicKeySerializer is a Serializer of the PublicKey type.
type PublicKeySerializer struct{}

func (a PublicKeySerializer) ToBytes(key PublicKey) []byte {
	return key[:]
}
func (a PublicKeySerializer) FromBytes(bytes []byte) PublicKey {
	var key PublicKey
	copy(key[:], bytes)
	return key
}
func (a PublicKeySerializer) Size() int {
	return 33
}

// HashSerializer is a Serializer of the Hash type.
type HashSerializer struct{}

func (a HashSerializer) ToBytes(hash Hash) []byte {
	return hash[:]
}
func (a HashSerializer) FromBytes(bytes []byte) Hash {
	var hash Hash
	copy(hash[:], bytes)
	return hash
}
func (a HashSerializer) Size() int {
	return 32
}

// Uint32Serializer is a Serializer of 32-bit identifiers.
type Uint32Serializer[T constraints.Integer] struct{}

func (a Uint32Serializer[T]) ToBytes(value T) []byte {
	return binary.BigEndian.AppendUint32([]byte{}, uint32(value))
}
func (a Uint32Serializer[T]) FromBytes(bytes []byte) T {
	return T(binary.BigEndian.Uint32(bytes))
}
func (a Uint32Serializer[T]) Size() int {
	return 4
}

// Uint64Serializer is a Serializer of 64-bit values.
type Uint64Serializer[T constraints.Integer] struct{}

func (a Uint64Serializer[T]) ToBytes(value T) []byte {
	return binary.BigEndian.AppendUint64([]byte{}, uint64(value))
}
func (a Uint64Serializer[T]) FromBytes(bytes []byte) T {
	return T(binary.BigEndian.Uint64(bytes))
}
func (a Uint64Serializer[T]) Size() int {
	return 8
}

// Int64Serializer is a Serializer of signed 64-bit values. The sign
// bit is flipped in the encoding so that lexicographic byte order
// matches numeric order for negative values as well.
type Int64Serializer struct{}

func (a Int64Serializer) ToBytes(value int64) []byte {
	return binary.BigEndian.AppendUint64([]byte{}, uint64(value)^(1<<63))
}
func (a Int64Serializer) FromBytes(bytes []byte) int64 {
	return int64(binary.BigEndian.Uint64(bytes) ^ (1 << 63))
}
func (a Int64Serializer) Size() int {
	return 8
}

// AppendString appends a length-prefixed string to the buffer.
func AppendString(data []byte, value string) []byte {
	data = binary.BigEndian.AppendUint16(data, uint16(len(value)))
	return append(data, value...)
}

// ReadString reads a length-prefixed string from the buffer and
// returns the remaining bytes.
func ReadString(data []byte) (value string, rest []byte, err error) {
	if len(data) < 2 {
		return "", nil, fmt.Errorf("invalid encoding, truncated string length")
	}
	length := int(binary.BigEndian.Uint16(data))
	data = data[2:]
	if len(data) < length {
		return "", nil, fmt.Errorf("invalid encoding, truncated string")
	}
	return string(data[:length]), data[length:], nil
}
