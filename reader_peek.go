package codec

import "io"

// PeekableReader holds back at most one byte of its source so that a list running
// to the end of its budget can tell a clean end from the start of another element.
type PeekableReader struct {
	R       io.Reader
	pending []byte // zero or one byte already taken from R
	err     error  // error seen while peeking, returned once pending is drained
}

// PeekReader wraps r, or returns it when it already is a PeekableReader.
func PeekReader(r io.Reader) *PeekableReader {
	if pr, ok := r.(*PeekableReader); ok {
		return pr
	}
	return &PeekableReader{R: r}
}

// HasMore reports whether another byte can be read.
func (r *PeekableReader) HasMore() bool {
	if len(r.pending) > 0 {
		return true
	}
	if r.err != nil {
		return false
	}
	var b [1]byte
	n, err := io.ReadFull(r.R, b[:])
	if n == 1 {
		r.pending = b[:1]
		return true
	}
	r.err = err
	return false
}

func (r *PeekableReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := 0
	if len(r.pending) > 0 {
		p[0] = r.pending[0]
		r.pending = nil
		n = 1
		p = p[1:]
	}
	if r.err != nil {
		if n > 0 {
			return n, nil
		}
		return 0, r.err
	}
	if len(p) == 0 {
		return n, nil
	}
	read, err := r.R.Read(p)
	return n + read, err
}

// WriteTo drains the held-back byte and the rest of the source into w.
func (r *PeekableReader) WriteTo(w io.Writer) (int64, error) {
	var n int64
	if len(r.pending) > 0 {
		written, err := w.Write(r.pending)
		n += int64(written)
		if err != nil {
			return n, err
		}
		r.pending = nil
	}
	if r.err == io.EOF {
		return n, nil
	}
	if r.err != nil {
		return n, r.err
	}
	copied, err := io.Copy(w, r.R)
	return n + copied, err
}

// Close closes the source if it is an io.Closer.
func (r *PeekableReader) Close() error {
	if c, ok := r.R.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
