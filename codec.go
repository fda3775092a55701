// Package codec is the binary encoding engine of the catbuffer wire format: primitive
// conversions, cursor-style readers and writers, fixed-size wrappers and aligned lists.
// Concrete message kinds are not code here; they are schema rows walked by package schema.
package codec

import (
	"encoding"
	"io"
)

// Sizer reports the encoded width of a value, so buffers can be allocated before encoding.
type Sizer interface {
	Size() int
}

// Marshaler encodes into a fresh slice, a stream, or a caller-owned buffer. MarshalTo
// fails with io.ErrShortBuffer when buf is smaller than Size().
type Marshaler interface {
	encoding.BinaryMarshaler
	io.WriterTo
	MarshalTo(buf []byte) (int, error)
}

// Unmarshaler decodes from the front of a slice or consumes exactly one value from a stream.
type Unmarshaler interface {
	encoding.BinaryUnmarshaler
	io.ReaderFrom
}

// Codec is a self-sizing encoder and decoder. Structs, envelopes, lists and the fixed
// model types all satisfy it, which is what lets a schema field hold any of them.
type Codec interface {
	Sizer
	Marshaler
	Unmarshaler
}

// Load decodes a T from the front of data and reports how many bytes it consumed.
//
//	addr, n, err := codec.Load[model.Address](buf)
func Load[T any, PT interface {
	*T
	Codec
}](data []byte) (PT, int, error) {
	v := PT(new(T))
	r := NewBytesReader(data)
	n, err := v.ReadFrom(r)
	if err != nil {
		return nil, int(n), err
	}
	return v, int(n), nil
}
