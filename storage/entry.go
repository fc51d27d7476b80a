package storage

// ValueCodec converts a typed value to its binary form and back. The
// serializers of the common package satisfy this interface.
type ValueCodec[T any] interface {
	ToBytes(T) []byte
	FromBytes([]byte) T
}

// Entry is a typed accessor for a single value stored under a fixed
// key. Services use entries to define their schema on top of the raw
// byte-oriented engine.
type Entry[T any] struct {
	key   []byte
	codec ValueCodec[T]
}

// NewEntry creates an accessor for the value stored under the given
// name.
func NewEntry[T any](name string, codec ValueCodec[T]) Entry[T] {
	return Entry[T]{key: []byte(name), codec: codec}
}

// Key provides the storage key this entry is bound to.
func (e Entry[T]) Key() []byte {
	return e.key
}

// Get reads the entry value through the given view. exists is false if
// no value is stored.
func (e Entry[T]) Get(reader Reader) (value T, exists bool, err error) {
	data, err := reader.Get(e.key)
	if err != nil || data == nil {
		return value, false, err
	}
	return e.codec.FromBytes(data), true, nil
}

// Set buffers the assignment of the value in the given fork.
func (e Entry[T]) Set(fork *Fork, value T) {
	fork.Put(e.key, e.codec.ToBytes(value))
}

// Remove buffers the removal of the entry in the given fork.
func (e Entry[T]) Remove(fork *Fork) {
	fork.Delete(e.key)
}
