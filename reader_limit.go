package codec

import "io"

// LimitedReader bounds a decode to a byte budget, such as the body of an envelope
// whose total size was declared up front.
type LimitedReader struct {
	*io.LimitedReader
}

// LimitReader returns a reader that yields at most n bytes of r.
func LimitReader(r io.Reader, n int64) *LimitedReader {
	return &LimitedReader{&io.LimitedReader{R: r, N: n}}
}

// Remaining reports how much of the budget is left.
func (r *LimitedReader) Remaining() int64 { return r.N }

func (r *LimitedReader) Close() error {
	if c, ok := r.R.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// WriteTo hands the rest of the budget to w. Writers without ReadFrom are fed
// through a pooled chunk.
func (r *LimitedReader) WriteTo(w io.Writer) (int64, error) {
	if rf, ok := w.(io.ReaderFrom); ok {
		return rf.ReadFrom(r.LimitedReader)
	}
	chunk := getChunk()
	defer putChunk(chunk)
	return io.CopyBuffer(onlyWriter{w}, r.LimitedReader, *chunk)
}

// onlyWriter hides ReadFrom so io.CopyBuffer uses the supplied chunk.
type onlyWriter struct{ io.Writer }
