package codec

import (
	"fmt"
	"io"
)

type sizedWriter interface {
	Sizer
	io.WriterTo
}

type sizedReader interface {
	Sizer
	io.ReaderFrom
}

// encodeExact writes v into dst, which must hold exactly v.Size() bytes, and fails
// when the encoder disagrees with its own size.
func encodeExact(v sizedWriter, dst []byte) (int, error) {
	n, err := v.WriteTo(NewBytesWriter(dst))
	if err != nil {
		return int(n), err
	}
	if n != int64(len(dst)) {
		return int(n), fmt.Errorf("%w: sized %d bytes, wrote %d", io.ErrShortWrite, len(dst), n)
	}
	return int(n), nil
}

// MarshalBinaryGeneric allocates exactly v.Size() bytes and encodes v into them.
func MarshalBinaryGeneric[T sizedWriter](v T) ([]byte, error) {
	buf := make([]byte, v.Size())
	if _, err := encodeExact(v, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// MarshalToGeneric encodes v at the front of p.
func MarshalToGeneric[T sizedWriter](v T, p []byte) (int, error) {
	size := v.Size()
	if len(p) < size {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", io.ErrShortBuffer, size, len(p))
	}
	return encodeExact(v, p[:size])
}

// UnmarshalBinaryGeneric decodes v from the front of data. Bytes after the value are
// left alone.
func UnmarshalBinaryGeneric[T sizedReader](v T, data []byte) error {
	n, err := v.ReadFrom(NewBytesReader(data))
	if err != nil {
		return err
	}
	if want := v.Size(); n < int64(want) {
		return fmt.Errorf("%w: value of %d bytes decoded from %d", ErrInsufficientBytes, want, n)
	}
	return nil
}

// ReadFromFunc adapts a decode function to io.ReaderFrom, for use with Reader.ReadTo.
type ReadFromFunc func(r io.Reader) (int64, error)

func (f ReadFromFunc) ReadFrom(r io.Reader) (int64, error) { return f(r) }
