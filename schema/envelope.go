package schema

import (
	"fmt"
	"io"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
)

// ReadBounded decodes a body that owns exactly budget bytes of r, the part of an
// envelope's declared size that follows its header. Bytes of the budget left after
// the last field must be zero; a budget the source cannot fill is truncated input.
func (d *BodyDef) ReadBounded(r io.Reader, budget int64) (*Struct, int64, error) {
	if budget < 0 {
		return nil, 0, fmt.Errorf("%w: %s body of %d bytes", codec.ErrInsufficientBytes, d.Name, budget)
	}
	lr := codec.LimitReader(r, budget)
	body := d.Empty()
	n, err := body.ReadFrom(lr)
	if err != nil {
		return nil, n, err
	}

	if left := lr.Remaining(); left > 0 {
		trail, err := codec.CheckTrailingNotZeros(lr)
		n += trail
		if err != nil {
			return nil, n, fmt.Errorf("%s: %w", d.Name, err)
		}
		if trail < left {
			return nil, n, fmt.Errorf("%w: %s declares %d more bytes", codec.ErrInsufficientBytes, d.Name, left-trail)
		}
	}
	return body, n, nil
}
