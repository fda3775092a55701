package codec

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Word64 is a 64-bit wire value held as two 32-bit words, low-order word first.
// Its binary layout (Low then High, little-endian) is the little-endian uint64 layout.
type Word64 struct {
	Low  uint32
	High uint32
}

// MakeWord64 splits v into its low and high words.
func MakeWord64(v uint64) Word64 {
	return Word64{Low: uint32(v), High: uint32(v >> 32)}
}

// Word64FromSigned stores v in two's complement.
func Word64FromSigned(v int64) Word64 {
	return MakeWord64(uint64(v))
}

// Word64FromInt converts any non-negative integer. Negative values are out of range.
func Word64FromInt[T constraints.Integer](v T) (Word64, error) {
	if v < 0 {
		return Word64{}, fmt.Errorf("%w: %d is negative", ErrOutOfRange, v)
	}
	return MakeWord64(uint64(v)), nil
}

func (w Word64) Uint64() uint64 { return uint64(w.High)<<32 | uint64(w.Low) }
func (w Word64) Int64() int64   { return int64(w.Uint64()) }
func (w Word64) IsZero() bool   { return w.Low == 0 && w.High == 0 }
func (w Word64) String() string { return fmt.Sprintf("0x%08X%08X", w.High, w.Low) }

// fitsUnsigned reports whether v is representable in an unsigned field of the given width.
func fitsUnsigned[T constraints.Integer](v T, bits uint) bool {
	if v < 0 {
		return false
	}
	return bits >= 64 || uint64(v) < uint64(1)<<bits
}

// fitsSigned reports whether v is representable in a two's complement field of the given width.
func fitsSigned[T constraints.Integer](v T, bits uint) bool {
	if v < 0 {
		return int64(v) >= -(int64(1) << (bits - 1))
	}
	return uint64(v) <= uint64(1)<<(bits-1)-1
}

func checkUnsigned[T constraints.Integer](v T, bits uint) error {
	if !fitsUnsigned(v, bits) {
		return fmt.Errorf("%w: %d does not fit in uint%d", ErrOutOfRange, v, bits)
	}
	return nil
}

func checkSigned[T constraints.Integer](v T, bits uint) error {
	if !fitsSigned(v, bits) {
		return fmt.Errorf("%w: %d does not fit in int%d", ErrOutOfRange, v, bits)
	}
	return nil
}

func need(b []byte, n int) error {
	if len(b) < n {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrInsufficientBytes, n, len(b))
	}
	return nil
}

// --- decode ---

func BytesToUint8(b []byte) (uint8, error) {
	if err := need(b, 1); err != nil {
		return 0, err
	}
	return b[0], nil
}

func BytesToUint16(b []byte) (uint16, error) {
	if err := need(b, 2); err != nil {
		return 0, err
	}
	return Order.Uint16(b), nil
}

func BytesToUint32(b []byte) (uint32, error) {
	if err := need(b, 4); err != nil {
		return 0, err
	}
	return Order.Uint32(b), nil
}

// BytesToUint64 decodes eight bytes into the word pair.
func BytesToUint64(b []byte) (Word64, error) {
	if err := need(b, 8); err != nil {
		return Word64{}, err
	}
	return Word64{Low: Order.Uint32(b), High: Order.Uint32(b[4:])}, nil
}

func BytesToInt8(b []byte) (int8, error) {
	v, err := BytesToUint8(b)
	return int8(v), err
}

func BytesToInt16(b []byte) (int16, error) {
	v, err := BytesToUint16(b)
	return int16(v), err
}

func BytesToInt32(b []byte) (int32, error) {
	v, err := BytesToUint32(b)
	return int32(v), err
}

// --- encode ---

func Uint8ToBytes[T constraints.Integer](v T) ([]byte, error) {
	if err := checkUnsigned(v, 8); err != nil {
		return nil, err
	}
	return []byte{uint8(v)}, nil
}

func Uint16ToBytes[T constraints.Integer](v T) ([]byte, error) {
	if err := checkUnsigned(v, 16); err != nil {
		return nil, err
	}
	return Order.AppendUint16(nil, uint16(v)), nil
}

func Uint32ToBytes[T constraints.Integer](v T) ([]byte, error) {
	if err := checkUnsigned(v, 32); err != nil {
		return nil, err
	}
	return Order.AppendUint32(nil, uint32(v)), nil
}

// Uint64ToBytes emits the low word then the high word.
func Uint64ToBytes(w Word64) []byte {
	b := Order.AppendUint32(nil, w.Low)
	return Order.AppendUint32(b, w.High)
}

func Int8ToBytes[T constraints.Integer](v T) ([]byte, error) {
	if err := checkSigned(v, 8); err != nil {
		return nil, err
	}
	return []byte{uint8(int8(v))}, nil
}

func Int16ToBytes[T constraints.Integer](v T) ([]byte, error) {
	if err := checkSigned(v, 16); err != nil {
		return nil, err
	}
	return Order.AppendUint16(nil, uint16(int16(v))), nil
}

func Int32ToBytes[T constraints.Integer](v T) ([]byte, error) {
	if err := checkSigned(v, 32); err != nil {
		return nil, err
	}
	return Order.AppendUint32(nil, uint32(int32(v))), nil
}

// Int64ToBytes accepts any integer that fits in a signed 64-bit field.
func Int64ToBytes[T constraints.Integer](v T) ([]byte, error) {
	if v > 0 && uint64(v) > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d does not fit in int64", ErrOutOfRange, v)
	}
	return Uint64ToBytes(Word64FromSigned(int64(v))), nil
}
