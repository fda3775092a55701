package codec

import (
	"encoding/binary"
	"fmt"
	"io"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// fixedSizes memoizes binary.Size per payload type; every hash, key and scalar
// codec asks for its size on each encode.
var fixedSizes = xsync.NewMap[reflect.Type, int]()

// Fixed is the Codec of a payload with a constant wire width: integers, Word64, byte
// arrays and structs of those. Every hash, key, signature, address and scalar of the
// wire format is a Fixed. A payload holding a slice, map or string has no fixed size
// and must not be wrapped.
type Fixed[Payload any] struct {
	Payload Payload
}

var _ Codec = (*Fixed[struct{}])(nil)

func NewFixed[Payload any](v Payload) *Fixed[Payload] {
	return &Fixed[Payload]{Payload: v}
}

// Size depends only on Payload.
func (c *Fixed[Payload]) Size() int {
	t := reflect.TypeFor[Payload]()
	if size, ok := fixedSizes.Load(t); ok {
		return size
	}
	var zero Payload
	size := binary.Size(&zero)
	fixedSizes.Store(t, size)
	return size
}

func (c *Fixed[Payload]) Value() Payload { return c.Payload }

func (c *Fixed[Payload]) MarshalBinary() ([]byte, error) {
	buf := make([]byte, c.Size())
	if _, err := c.MarshalTo(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (c *Fixed[Payload]) MarshalTo(p []byte) (int, error) {
	n, err := binary.Encode(p, Order, &c.Payload)
	if err != nil {
		return n, fmt.Errorf("%w: need %d bytes, have %d", io.ErrShortBuffer, c.Size(), len(p))
	}
	return n, nil
}

// UnmarshalBinary decodes from the front of data; bytes past Size() are ignored.
func (c *Fixed[Payload]) UnmarshalBinary(data []byte) error {
	if _, err := binary.Decode(data, Order, &c.Payload); err != nil {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrInsufficientBytes, c.Size(), len(data))
	}
	return nil
}

// ReadFrom reports the bytes it took even when the source ends early; the payload
// changes only on success.
func (c *Fixed[Payload]) ReadFrom(r io.Reader) (int64, error) {
	scratch := make([]byte, c.Size())
	n, err := io.ReadFull(r, scratch)
	if err != nil {
		return int64(n), insufficient(err, int64(len(scratch)-n))
	}
	var v Payload
	if _, err := binary.Decode(scratch, Order, &v); err != nil {
		return int64(n), err
	}
	c.Payload = v
	return int64(n), nil
}

func (c *Fixed[Payload]) WriteTo(w io.Writer) (int64, error) {
	if err := binary.Write(w, Order, &c.Payload); err != nil {
		return 0, err
	}
	return int64(c.Size()), nil
}
