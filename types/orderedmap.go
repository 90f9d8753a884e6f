package types

import (
	"iter"
	"reflect"

	jsoniter "github.com/json-iterator/go"
)

// Pair represents a key/value pair for initialization
type Pair[V any] struct {
	Key   string
	Value V
}

func OP[V any](k string, v V) Pair[V] {
	return Pair[V]{Key: k, Value: v}
}

// OrderedMap keeps string keys in insertion order.
// Field sets of a table are small, so keys live in a slice next to an index map.
type OrderedMap[V any] struct {
	index map[string]int
	keys  []string
	vals  []V
}

// NewOrderedMap creates a new OrderedMap, optionally initialized with pairs.
func NewOrderedMap[V any](pairs ...Pair[V]) *OrderedMap[V] {
	om := &OrderedMap[V]{index: make(map[string]int, len(pairs))}
	for _, p := range pairs {
		om.Set(p.Key, p.Value)
	}
	return om
}

func (om *OrderedMap[V]) Len() int {
	if om == nil {
		return 0
	}
	return len(om.keys)
}

// Set inserts or updates a key; updates keep the original position.
func (om *OrderedMap[V]) Set(key string, value V) {
	if om.index == nil {
		om.index = make(map[string]int)
	}
	if i, ok := om.index[key]; ok {
		om.vals[i] = value
		return
	}
	om.index[key] = len(om.keys)
	om.keys = append(om.keys, key)
	om.vals = append(om.vals, value)
}

func (om *OrderedMap[V]) Get(key string) (V, bool) {
	if om != nil {
		if i, ok := om.index[key]; ok {
			return om.vals[i], true
		}
	}
	var zero V
	return zero, false
}

// Delete removes a key
func (om *OrderedMap[V]) Delete(key string) {
	i, ok := om.index[key]
	if !ok {
		return
	}
	delete(om.index, key)
	om.keys = append(om.keys[:i], om.keys[i+1:]...)
	om.vals = append(om.vals[:i], om.vals[i+1:]...)
	for j := i; j < len(om.keys); j++ {
		om.index[om.keys[j]] = j
	}
}

// Keys returns keys in insertion order
func (om *OrderedMap[V]) Keys() []string {
	if om == nil {
		return nil
	}
	return append([]string(nil), om.keys...)
}

// ItemsIter returns an iterator over key/value pairs
func (om *OrderedMap[V]) ItemsIter() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if om == nil {
			return
		}
		for i, k := range om.keys {
			if !yield(k, om.vals[i]) {
				return
			}
		}
	}
}

// Equal compares keys, order and values.
func (om *OrderedMap[V]) Equal(other *OrderedMap[V]) bool {
	if om.Len() != other.Len() {
		return false
	}
	for i := 0; i < om.Len(); i++ {
		if om.keys[i] != other.keys[i] {
			return false
		}
		if !reflect.DeepEqual(om.vals[i], other.vals[i]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes as JSON object in insertion order
func (om *OrderedMap[V]) MarshalJSON() ([]byte, error) {
	stream := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowStream(nil)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, k := range om.keys {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(k)
		stream.WriteVal(om.vals[i])
	}
	stream.WriteObjectEnd()
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}
