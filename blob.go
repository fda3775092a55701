package codec

import (
	"bytes"
	"fmt"
	"io"
)

// Blob is a variable-length byte field (message, proof, metadata value, name)
// whose length is carried by a separate size field.
type Blob struct {
	Data []byte

	want int64 // length ReadFrom takes, set by BlobOf
}

var _ Codec = (*Blob)(nil)

// NewBlob copies data into a new Blob. A nil slice becomes an empty one.
func NewBlob(data []byte) *Blob {
	return &Blob{Data: append(make([]byte, 0, len(data)), data...)}
}

// BlobOf returns a Blob that ReadFrom fills with exactly n bytes. The length usually
// comes off the wire, so nothing is allocated up front.
func BlobOf(n int64) *Blob {
	return &Blob{want: n}
}

func (b *Blob) Size() int { return len(b.Data) }

func (b *Blob) Bytes() []byte { return b.Data }

// ReadFrom takes the length given to BlobOf. Lengths above CHUNK_SIZE grow the buffer
// as bytes arrive, so a forged length costs no more memory than the input holds.
func (b *Blob) ReadFrom(r io.Reader) (int64, error) {
	want := b.want
	if want < 0 {
		return 0, fmt.Errorf("%w: blob length %d", ErrOutOfRange, want)
	}
	if want <= CHUNK_SIZE {
		data := make([]byte, want)
		n, err := io.ReadFull(r, data)
		if err != nil {
			return int64(n), insufficient(err, want-int64(n))
		}
		b.Data = data
		return int64(n), nil
	}

	var buf bytes.Buffer
	buf.Grow(CHUNK_SIZE)
	n, err := io.CopyN(&buf, r, want)
	if err != nil {
		return n, insufficient(err, want-n)
	}
	b.Data = buf.Bytes()
	return n, nil
}

func (b *Blob) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Data)
	return int64(n), err
}

func (b *Blob) MarshalBinary() ([]byte, error) {
	return bytes.Clone(b.Data), nil
}

// UnmarshalBinary takes the whole of data; the length of a standalone blob is the buffer length.
func (b *Blob) UnmarshalBinary(data []byte) error {
	b.Data = bytes.Clone(data)
	return nil
}

func (b *Blob) MarshalTo(p []byte) (int, error) {
	if len(p) < len(b.Data) {
		return 0, io.ErrShortBuffer
	}
	return copy(p, b.Data), nil
}
