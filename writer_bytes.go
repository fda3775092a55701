package codec

import "io"

// Zero yields an endless run of zero bytes, the filler for padding and reserved words.
var Zero io.Reader = zeroSource{}

type zeroSource struct{}

func (zeroSource) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// BytesWriter fills a caller-owned buffer without ever growing it. Marshalling into
// a buffer sized from Size() goes through it, so an encoder that writes more than it
// reported fails with io.ErrShortWrite instead of reallocating.
type BytesWriter struct {
	B []byte
	N int
}

// NewBytesWriter writes into the full capacity of p.
func NewBytesWriter(p []byte) *BytesWriter {
	return &BytesWriter{B: p[:cap(p)]}
}

func put[T []byte | string](w *BytesWriter, p T) (int, error) {
	n := copy(w.B[w.N:], p)
	w.N += n
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

func (w *BytesWriter) Write(p []byte) (int, error)       { return put(w, p) }
func (w *BytesWriter) WriteString(s string) (int, error) { return put(w, s) }

func (w *BytesWriter) WriteByte(c byte) error {
	if w.N == len(w.B) {
		return io.ErrShortWrite
	}
	w.B[w.N] = c
	w.N++
	return nil
}

// ReadFrom drains r into the free space. A source that still has bytes once the
// buffer is full reports io.ErrShortWrite.
func (w *BytesWriter) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for w.N < len(w.B) {
		n, err := r.Read(w.B[w.N:])
		if n < 0 || n > len(w.B)-w.N {
			return total, ErrInvalidRead
		}
		w.N += n
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
	var probe [1]byte
	if n, _ := io.ReadFull(r, probe[:]); n > 0 {
		return total, io.ErrShortWrite
	}
	return total, nil
}

func (w *BytesWriter) Close() error { return nil }
func (w *BytesWriter) Flush() error { return nil }
func (w *BytesWriter) Reset()       { w.N = 0 }

// Len is the number of bytes written so far.
func (w *BytesWriter) Len() int       { return w.N }
func (w *BytesWriter) Size() int      { return len(w.B) }
func (w *BytesWriter) Available() int { return len(w.B) - w.N }
func (w *BytesWriter) Bytes() []byte  { return w.B[:w.N] }
