package codec

import (
	"fmt"
	"io"
)

// skipSeeker gives a plain stream the io.Seeker method used by Reader.Skip: it only
// moves forward, by reading and dropping bytes.
type skipSeeker struct {
	io.Reader
	pos int64
}

// ForwardSeeker returns r as an io.ReadSeeker. Sources that cannot seek get a
// forward-only Seek that discards input.
func ForwardSeeker(r io.Reader) io.ReadSeeker {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs
	}
	return &skipSeeker{Reader: r}
}

func (s *skipSeeker) Read(p []byte) (int, error) {
	n, err := s.Reader.Read(p)
	s.pos += int64(n)
	return n, err
}

func (s *skipSeeker) Seek(offset int64, whence int) (int64, error) {
	target := offset
	switch whence {
	case io.SeekCurrent:
		target += s.pos
	case io.SeekStart:
	default:
		return s.pos, fmt.Errorf("%w: whence %d", ErrInvalidWhence, whence)
	}
	if target < s.pos {
		return s.pos, fmt.Errorf("%w: to %d from %d", ErrUnsupportedNegativeSeek, target, s.pos)
	}

	n, err := Discard(s.Reader, target-s.pos)
	s.pos += n
	return s.pos, err
}
