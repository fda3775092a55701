package codec

import (
	"fmt"
	"io"
	"reflect"
)

// ListOptions defines the padding policy of a list. It is declared per list field
// by the schema; there is no global rule.
type ListOptions struct {
	// Alignment is the byte boundary each element is padded to.
	// A value of 0 or 1 means no alignment. Common values are 8 or 16.
	Alignment int
	// PadLast pads the last element too. Without it padding only separates elements.
	PadLast bool
}

type boundMode uint8

const (
	boundCount boundMode = iota
	boundBytes
	boundRemaining
)

// Bound tells a list decoder when to stop.
type Bound struct {
	mode boundMode
	n    int64
}

// CountBound decodes exactly n elements regardless of the bytes that follow.
func CountBound(n int) Bound { return Bound{mode: boundCount, n: int64(n)} }

// ByteBound decodes elements until n bytes (padding included) are consumed.
func ByteBound(n int64) Bound { return Bound{mode: boundBytes, n: n} }

// Remaining decodes elements until the source is exhausted.
func Remaining() Bound { return Bound{mode: boundRemaining} }

func (b Bound) String() string {
	switch b.mode {
	case boundCount:
		return fmt.Sprintf("count=%d", b.n)
	case boundBytes:
		return fmt.Sprintf("bytes=%d", b.n)
	default:
		return "remaining"
	}
}

// List is a homogeneous sequence of codecs with optional alignment padding.
type List[T Codec] struct {
	Items   []T
	options ListOptions
}

// Statically ensure that List implements Codec.
var _ Codec = (*List[Codec])(nil)

// NewList creates a new List codec with the given items and options.
func NewList[T Codec](items []T, options ListOptions) *List[T] {
	return &List[T]{Items: items, options: options}
}

func (l *List[T]) Options() ListOptions { return l.options }

func (l *List[T]) Len() int { return len(l.Items) }

// Codecs returns the items as plain codecs.
func (l *List[T]) Codecs() []Codec {
	codecs := make([]Codec, len(l.Items))
	for i, codec := range l.Items {
		codecs[i] = codec
	}
	return codecs
}

// padAfter reports the filler that follows the element at index i.
func (l *List[T]) padAfter(i int, size int) int {
	if i == len(l.Items)-1 && !l.options.PadLast {
		return 0
	}
	return PaddingSize(size, l.options.Alignment)
}

// Size calculates the total binary size of the list, including alignment padding.
// It matches what WriteTo emits byte for byte.
func (l *List[T]) Size() int {
	totalSize := 0
	for i, item := range l.Items {
		itemSize := item.Size()
		totalSize += itemSize + l.padAfter(i, itemSize)
	}
	return totalSize
}

// WriteTo writes the elements in order, each followed by its padding.
func (l *List[T]) WriteTo(writer io.Writer) (int64, error) {
	if len(l.Items) == 0 {
		return 0, nil
	}

	w, err := NewWriter(writer)
	if err != nil {
		return 0, err
	}

	for i, item := range l.Items {
		if err := NotNull(item, fmt.Sprintf("list element %d", i)); err != nil {
			w.Fail(err)
			break
		}
		before := w.Count()
		w.WriteFrom(item)
		w.WriteZeros(int64(l.padAfter(i, int(w.Count()-before))))
	}
	return w.Result()
}

const maxPrealloc = 1024

// newOf creates a fresh T for decoding into.
func newOf[T Codec]() T {
	var item T
	elemType := reflect.TypeOf(item)
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	return reflect.New(elemType).Interface().(T)
}

// ReadFrom reads and decodes items into the list from a reader.
// The read behavior is determined by the capacity of the `l.Items` slice:
// - If cap(l.Items) > 0, it reads exactly that many items.
// - If cap(l.Items) == 0, it reads items until the reader is exhausted.
func (l *List[T]) ReadFrom(reader io.Reader) (int64, error) {
	if count := cap(l.Items); count > 0 {
		return l.Read(reader, CountBound(count), nil)
	}
	return l.Read(reader, Remaining(), nil)
}

// Read decodes elements until bound is met. newItem creates each element; when nil,
// a zero value of the element type is allocated by reflection. On error the list is
// left untouched.
func (l *List[T]) Read(r io.Reader, bound Bound, newItem func() T) (int64, error) {
	if newItem == nil {
		newItem = newOf[T]
	}
	var (
		items []T
		n     int64
		err   error
	)
	switch bound.mode {
	case boundCount:
		items, n, err = l.readCount(r, int(bound.n), newItem)
	case boundBytes:
		items, n, err = l.readSized(r, bound.n, newItem)
	default:
		items, n, err = l.readRemaining(r, newItem)
	}
	if err != nil {
		return n, err
	}
	l.Items = items
	return n, nil
}

func (l *List[T]) readCount(r io.Reader, count int, newItem func() T) ([]T, int64, error) {
	if count < 0 {
		return nil, 0, fmt.Errorf("%w: negative element count %d", ErrOutOfRange, count)
	}
	var n int64
	// the count comes off the wire; grow as elements actually decode
	items := make([]T, 0, min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		item := newItem()
		read, err := item.ReadFrom(r)
		n += read
		if err != nil {
			return nil, n, fmt.Errorf("element %d of %d: %w", i, count, err)
		}
		items = append(items, item)

		if i < count-1 || l.options.PadLast {
			skipped, err := Discard(r, PaddingSize(read, int64(l.options.Alignment)))
			n += skipped
			if err != nil {
				return nil, n, fmt.Errorf("padding after element %d: %w", i, err)
			}
		}
	}
	return items, n, nil
}

func (l *List[T]) readSized(r io.Reader, budget int64, newItem func() T) ([]T, int64, error) {
	if budget < 0 {
		return nil, 0, fmt.Errorf("%w: negative byte budget %d", ErrOutOfRange, budget)
	}
	var items []T
	lr := LimitReader(r, budget)
	for lr.Remaining() > 0 {
		item := newItem()
		read, err := item.ReadFrom(lr)
		if err != nil {
			return nil, budget - lr.Remaining(), fmt.Errorf("element %d: %w", len(items), err)
		}
		if read == 0 {
			return nil, budget - lr.Remaining(), fmt.Errorf("%w: zero-length element in size-bounded list", ErrOutOfRange)
		}
		items = append(items, item)

		pad := PaddingSize(read, int64(l.options.Alignment))
		if pad > 0 && (l.options.PadLast || lr.Remaining() > 0) {
			if _, err := Discard(lr, pad); err != nil {
				return nil, budget - lr.Remaining(), fmt.Errorf("padding after element %d: %w", len(items)-1, err)
			}
		}
	}
	return items, budget, nil
}

func (l *List[T]) readRemaining(r io.Reader, newItem func() T) ([]T, int64, error) {
	var (
		items []T
		n     int64
	)
	pr := PeekReader(r)
	for pr.HasMore() {
		item := newItem()
		read, err := item.ReadFrom(pr)
		n += read
		if err != nil {
			return nil, n, fmt.Errorf("element %d: %w", len(items), err)
		}
		if read == 0 {
			return nil, n, fmt.Errorf("%w: zero-length element in unbounded list", ErrOutOfRange)
		}
		items = append(items, item)

		pad := PaddingSize(read, int64(l.options.Alignment))
		if pad > 0 && (l.options.PadLast || pr.HasMore()) {
			skipped, err := Discard(pr, pad)
			n += skipped
			if err != nil {
				return nil, n, fmt.Errorf("padding after element %d: %w", len(items)-1, err)
			}
		}
	}
	return items, n, nil
}

// --- Boilerplate implementations ---

func (l *List[T]) MarshalBinary() ([]byte, error) {
	return MarshalBinaryGeneric(l)
}

// UnmarshalBinary decodes data with the capacity rule of ReadFrom.
func (l *List[T]) UnmarshalBinary(data []byte) error {
	_, err := l.ReadFrom(NewBytesReader(data))
	return err
}

func (l *List[T]) MarshalTo(buf []byte) (int, error) {
	return MarshalToGeneric(l, buf)
}

// --- Functional surface ---

// DecodeList decodes a list from the front of data and reports the bytes consumed.
func DecodeList[T Codec](data []byte, newItem func() T, bound Bound, options ListOptions) ([]T, int, error) {
	l := NewList[T](nil, options)
	n, err := l.Read(NewBytesReader(data), bound, newItem)
	if err != nil {
		return nil, int(n), err
	}
	return l.Items, int(n), nil
}

// EncodeList serializes items with the given padding policy.
func EncodeList[T Codec](items []T, options ListOptions) ([]byte, error) {
	return NewList(items, options).MarshalBinary()
}

// SizeOfList is the encoded length of items under options.
func SizeOfList[T Codec](items []T, options ListOptions) int {
	return NewList(items, options).Size()
}
