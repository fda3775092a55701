package codec

import "io"

// BytesReader is a cursor over an in-memory payload. N is the cursor position: the
// number of bytes of B consumed so far.
type BytesReader struct {
	B []byte
	N int
}

func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{B: b}
}

func (r *BytesReader) Close() error { return nil }

// Unread returns the bytes after the cursor without consuming them.
func (r *BytesReader) Unread() []byte {
	if r.N >= len(r.B) {
		return nil
	}
	return r.B[r.N:]
}

func (r *BytesReader) Read(p []byte) (int, error) {
	rest := r.Unread()
	if len(rest) == 0 {
		return 0, io.EOF
	}
	n := copy(p, rest)
	r.N += n
	return n, nil
}

func (r *BytesReader) ReadByte() (byte, error) {
	rest := r.Unread()
	if len(rest) == 0 {
		return 0, io.EOF
	}
	r.N++
	return rest[0], nil
}

// WriteTo hands the unread bytes to w in one call.
func (r *BytesReader) WriteTo(w io.Writer) (int64, error) {
	rest := r.Unread()
	if len(rest) == 0 {
		return 0, nil
	}
	n, err := w.Write(rest)
	if n < 0 || n > len(rest) {
		return 0, ErrInvalidWrite
	}
	r.N += n
	return int64(n), err
}

// Seek moves the cursor. Positions past the end are allowed; reads there see EOF.
func (r *BytesReader) Seek(offset int64, whence int) (int64, error) {
	base := int64(0)
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(r.N)
	case io.SeekEnd:
		base = int64(len(r.B))
	default:
		return 0, ErrInvalidWhence
	}
	pos := base + offset
	if pos < 0 {
		return 0, ErrInvalidSeek
	}
	r.N = int(pos)
	return pos, nil
}

// Reset rewinds the cursor to the start of B.
func (r *BytesReader) Reset() { r.N = 0 }

// Len is the cursor position.
func (r *BytesReader) Len() int { return r.N }

func (r *BytesReader) Size() int { return len(r.B) }

// Available is the number of bytes left to read.
func (r *BytesReader) Available() int { return len(r.Unread()) }
