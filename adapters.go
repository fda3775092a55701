package codec

import (
	"bufio"
	"bytes"
	"io"
)

// The adapters give common sources and sinks the full ReaderPro or WriterPro surface
// so the cursors can use them without another layer of buffering.
type (
	bytesReaderAdapter       struct{ *bytes.Reader }
	bytesBufferWriterAdapter struct{ *bytes.Buffer }
	bufioWriterAdapter       struct{ *bufio.Writer }

	// bufioReaderAdapter counts what has been handed out so it can seek forward
	// through bytes that are already buffered.
	bufioReaderAdapter struct {
		*bufio.Reader
		pos int64
	}

	// streamReaderAdapter never reads ahead, so a nested decoder on a LimitedReader
	// or PeekableReader takes only the bytes of its own value.
	streamReaderAdapter struct {
		io.ReadSeeker
		src io.Reader
	}
)

func (*bytesReaderAdapter) Close() error       { return nil }
func (r *bytesReaderAdapter) Size() int        { return int(r.Reader.Size()) }
func (*bytesBufferWriterAdapter) Close() error { return nil }
func (*bytesBufferWriterAdapter) Flush() error { return nil }
func (w *bytesBufferWriterAdapter) Size() int  { return w.Available() }
func (*bufioWriterAdapter) Close() error       { return nil }
func (*bufioReaderAdapter) Close() error       { return nil }

func newStreamReaderAdapter(r io.Reader) *streamReaderAdapter {
	return &streamReaderAdapter{ReadSeeker: ForwardSeeker(r), src: r}
}

func (*streamReaderAdapter) Size() int { return 0 }

func (r *streamReaderAdapter) Close() error {
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (r *streamReaderAdapter) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(r.ReadSeeker, b[:])
	return b[0], err
}

func (r *streamReaderAdapter) WriteTo(w io.Writer) (int64, error) {
	return io.Copy(w, r.ReadSeeker)
}

func (b *bufioReaderAdapter) Read(p []byte) (int, error) {
	n, err := b.Reader.Read(p)
	b.pos += int64(n)
	return n, err
}

func (b *bufioReaderAdapter) ReadByte() (byte, error) {
	c, err := b.Reader.ReadByte()
	if err == nil {
		b.pos++
	}
	return c, err
}

func (b *bufioReaderAdapter) WriteTo(w io.Writer) (int64, error) {
	n, err := b.Reader.WriteTo(w)
	b.pos += n
	return n, err
}

func (b *bufioReaderAdapter) Size() int { return b.Reader.Size() }

// Seek moves forward only; there is no way back into bytes bufio has dropped.
func (b *bufioReaderAdapter) Seek(offset int64, whence int) (int64, error) {
	target := offset
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		target += b.pos
	default:
		return b.pos, ErrInvalidWhence
	}
	if target < b.pos {
		return b.pos, ErrUnsupportedNegativeSeek
	}
	_, err := Discard(b, target-b.pos)
	return b.pos, err
}
