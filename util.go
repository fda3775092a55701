package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"reflect"

	"golang.org/x/exp/constraints"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is default binary order. The catbuffer wire format is little-endian throughout.
	Order = LE
)

const BUFFER_SIZE = 4096

var (
	empty   [BUFFER_SIZE]byte
	discard [BUFFER_SIZE]byte
)

// insufficient maps a short read reported by the io package onto ErrInsufficientBytes.
func insufficient(err error, want int64) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: need %d more bytes", ErrInsufficientBytes, want)
	}
	return err
}

// Discard skips exactly n bytes of r.
func Discard(r io.Reader, n int64) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 {
		return 0, ErrDiscardNegative
	}
	if n <= BUFFER_SIZE {
		skip, err := io.ReadFull(r, discard[:n])
		if err != nil {
			return int64(skip), insufficient(err, n-int64(skip))
		}
		return int64(skip), nil
	}
	skipped, err := io.CopyN(io.Discard, r, n)
	if err != nil {
		return skipped, insufficient(err, n-skipped)
	}
	return skipped, nil
}

// Roundup rounds n up to the nearest multiple of align. align must be a power of two.
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }

// PaddedSize rounds size up to the alignment boundary. An alignment of 0 or 1 means
// no padding. Unlike Roundup, any positive alignment is accepted.
func PaddedSize[T constraints.Integer](size, alignment T) T {
	if alignment <= 1 {
		return size
	}
	return (size + alignment - 1) / alignment * alignment
}

// PaddingSize returns the number of filler bytes that follow an element of the given size.
func PaddingSize[T constraints.Integer](size, alignment T) T {
	return PaddedSize(size, alignment) - size
}

// Concat returns a new buffer holding the parts in order. The result never aliases an input.
func Concat(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// TakeBytes splits the first n bytes off b.
func TakeBytes(b []byte, n int) (head, rest []byte, err error) {
	if n < 0 {
		return nil, b, fmt.Errorf("%w: cannot take %d bytes", ErrOutOfRange, n)
	}
	if n > len(b) {
		return nil, b, fmt.Errorf("%w: need %d bytes, have %d", ErrInsufficientBytes, n, len(b))
	}
	return b[:n:n], b[n:], nil
}

// NotNull reports ErrMissingField when value is nil or a typed nil.
func NotNull(value any, name string) error {
	if value == nil {
		return fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	return nil
}

// CheckTrailingNotZeros consumes r to its end and fails on the first non-zero byte.
// Envelopes call it on the rest of their declared size budget once the body is
// decoded; r must be bounded, since zero slack of any length is accepted.
func CheckTrailingNotZeros(r io.Reader) (int64, error) {
	if reader, ok := r.(*BytesReader); ok && reader.Available() == 0 {
		return 0, nil
	}
	chunk := getChunk()
	defer putChunk(chunk)

	var total int64
	for {
		n, err := r.Read(*chunk)
		for i, b := range (*chunk)[:n] {
			if b != 0 {
				return total + int64(n), fmt.Errorf("%w: found non-zero byte 0x%02x at offset %d", ErrTrailingData, b, total+int64(i))
			}
		}
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
