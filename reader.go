package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
)

type reader interface {
	io.Reader
	io.WriterTo
	io.Closer
}

type ReaderPro interface {
	reader
	io.ByteReader
	io.Seeker
	Size() int
}

// Reader is the decoding cursor. It tracks the number of bytes consumed and the
// first error; subsequent reads become no-ops, so a decoder can read a whole field
// schedule and check Err() once at the end.
type Reader struct {
	r     ReaderPro
	count int64 // total bytes read
	err   error // first error encountered.
	order binary.ByteOrder
}

var _ ReaderPro = (*Reader)(nil)

// NewReaderSize creates a new Reader. A positive size asks for a bufio read-ahead
// buffer; with size 0 the source is read directly so that no byte beyond the
// decoded value is taken from it.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}

	switch reader := r.(type) {
	// Reuse the underlying source if it's already a compatible Reader.
	case *Reader:
		if reader.r.Size() >= size {
			return &Reader{r: reader.r, order: Order}, nil
		}

	// prevent unpredictable double-buffering.
	case *bufio.Reader:
		if reader.Size() >= size {
			return &Reader{r: &bufioReaderAdapter{Reader: reader}, order: Order}, nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case *BytesReader:
		return &Reader{r: reader, order: Order}, nil
	case *bytes.Reader:
		return &Reader{r: &bytesReaderAdapter{reader}, order: Order}, nil

	// a nested value reading from the source of an enclosing Reader
	case *bytesReaderAdapter, *streamReaderAdapter, *bufioReaderAdapter:
		return &Reader{r: reader.(ReaderPro), order: Order}, nil
	}

	if size <= 0 {
		return &Reader{r: newStreamReaderAdapter(r), order: Order}, nil
	}
	if size < 16 {
		return nil, ErrSizeTooSmall
	}

	return &Reader{
		r:     &bufioReaderAdapter{Reader: bufio.NewReaderSize(r, size)},
		order: Order,
	}, nil
}

// NewReader creates a new unbuffered Reader.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderSize(r, 0)
}

// WithByteOrder allows setting a custom byte order and returns
// the configured for chaining.
func (r *Reader) WithByteOrder(order binary.ByteOrder) *Reader {
	r.order = order
	return r
}

// Close closes the underlying reader if it implements io.Closer.
func (r *Reader) Close() error {
	return r.r.Close()
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.count += int64(n)
	r.setError(err)
	return n, r.err
}

// Seek moves the read pointer.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	if r.err != nil {
		return r.count, r.err
	}
	newPos, err := r.r.Seek(offset, whence)
	r.count = newPos
	r.setError(err)
	return newPos, err
}

// WriteTo implements io.WriterTo for efficient copying.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if w == nil {
		r.setError(ErrWriteToNil)
		return 0, r.err
	}

	n, err := r.r.WriteTo(w)
	r.count += n
	r.setError(err)
	return n, r.err
}

func (r *Reader) Size() int    { return r.r.Size() }
func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Fail records err as the cursor error unless one is already latched.
// Decoders use it to report semantic failures (unknown discriminant, bad size)
// through the same channel as I/O failures.
func (r *Reader) Fail(err error) {
	r.setError(err)
}

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

// ReadTo decodes a nested value from this reader.
func (r *Reader) ReadTo(w io.ReaderFrom) {
	if r.err != nil {
		return
	}
	if w == nil {
		r.setError(ErrReadToNil)
		return
	}
	n, err := w.ReadFrom(r.r)
	r.count += n
	r.setError(err)
}

// ReadBytes reads n bytes into a new slice.
func (r *Reader) ReadBytes(n int) []byte {
	if n <= 0 || r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if r.ReadBytesTo(buf); r.err != nil {
		return nil
	}
	return buf
}

// ReadBytesTo fills dest. A short source, including one already at its end, means
// the value is truncated.
func (r *Reader) ReadBytesTo(dest []byte) {
	if r.err != nil || len(dest) == 0 {
		return
	}
	read, err := io.ReadFull(r.r, dest)
	r.count += int64(read)
	if err != nil {
		r.err = insufficient(err, int64(len(dest)-read))
	}
}

// Skip discards n bytes, typically reserved words or padding.
func (r *Reader) Skip(n int64) {
	if r.err != nil || n <= 0 {
		return
	}
	skipped, err := Discard(r.r, n)
	r.count += skipped
	r.setError(err)
}

// Align discard bytes until offset algin with give n.
func (r *Reader) Align(n int) {
	if n > 1 {
		r.Skip(PaddingSize(r.count, int64(n)))
	}
}

// --- Primitive Read Operations ---

func (r *Reader) ReadByte() (byte, error) {
	if r.err != nil {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	if err != nil {
		r.err = insufficient(err, 1)
		return 0, r.err
	}
	r.count++
	return b, nil
}

// fixed fills scratch from the source and reports whether the value may be decoded.
func (r *Reader) fixed(scratch []byte) bool {
	r.ReadBytesTo(scratch)
	return r.err == nil
}

func (r *Reader) ReadUint8(dest *uint8) {
	if b, err := r.ReadByte(); err == nil {
		*dest = b
	}
}

func (r *Reader) ReadInt8(dest *int8) {
	if b, err := r.ReadByte(); err == nil {
		*dest = int8(b)
	}
}

func (r *Reader) ReadUint16(dest *uint16) {
	var b [2]byte
	if r.fixed(b[:]) {
		*dest = r.order.Uint16(b[:])
	}
}

func (r *Reader) ReadInt16(dest *int16) {
	var v uint16
	if r.ReadUint16(&v); r.err == nil {
		*dest = int16(v)
	}
}

func (r *Reader) ReadUint32(dest *uint32) {
	var b [4]byte
	if r.fixed(b[:]) {
		*dest = r.order.Uint32(b[:])
	}
}

func (r *Reader) ReadInt32(dest *int32) {
	var v uint32
	if r.ReadUint32(&v); r.err == nil {
		*dest = int32(v)
	}
}

func (r *Reader) ReadUint64(dest *uint64) {
	var b [8]byte
	if r.fixed(b[:]) {
		*dest = r.order.Uint64(b[:])
	}
}

// ReadWord64 reads a 64-bit value as its low and high words.
func (r *Reader) ReadWord64(dest *Word64) {
	var b [8]byte
	if r.fixed(b[:]) {
		dest.Low, dest.High = r.order.Uint32(b[:4]), r.order.Uint32(b[4:])
	}
}
