package transaction

import (
	"fmt"
	"io"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/schema"
)

// Embedded is a transaction inside an aggregate body. Its body layouts are those of
// top-level transactions.
type Embedded struct {
	EmbeddedHeader
	Body *schema.Struct

	reg *schema.Registry
	def *schema.BodyDef
}

var _ codec.Codec = (*Embedded)(nil)

// NewEmbedded is New for the embedded envelope.
func NewEmbedded(reg *schema.Registry, h EmbeddedHeader, values schema.Values) (*Embedded, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	if h.Type.IsAggregate() {
		return nil, fmt.Errorf("%w: %s cannot be embedded", codec.ErrUnknownDiscriminant, h.Type)
	}
	def, body, err := newBody(reg, uint16(h.Type), values)
	if err != nil {
		return nil, err
	}
	if h.Version == 0 {
		h.Version = uint8(def.Version)
	}
	e := &Embedded{EmbeddedHeader: h, Body: body, reg: reg, def: def}
	if _, err := envelopeSize(EmbeddedHeaderSize, e.Body); err != nil {
		return nil, err
	}
	return e, nil
}

func EmptyEmbedded(reg *schema.Registry) *Embedded {
	return &Embedded{reg: reg}
}

func (e *Embedded) Def() *schema.BodyDef { return e.def }

func (e *Embedded) Size() int {
	if e.Body == nil {
		return EmbeddedHeaderSize
	}
	return EmbeddedHeaderSize + e.Body.Size()
}

func (e *Embedded) WriteTo(w io.Writer) (int64, error) {
	if err := e.EmbeddedHeader.check(); err != nil {
		return 0, err
	}
	if err := codec.NotNull(e.Body, "Embedded.Body"); err != nil {
		return 0, err
	}
	size, err := envelopeSize(EmbeddedHeaderSize, e.Body)
	if err != nil {
		return 0, err
	}
	cw, err := codec.NewWriter(w)
	if err != nil {
		return 0, err
	}
	e.EmbeddedHeader.write(cw, size)
	cw.WriteFrom(e.Body)
	return cw.Result()
}

func (e *Embedded) ReadFrom(r io.Reader) (int64, error) {
	if e.reg == nil {
		return 0, fmt.Errorf("%w: embedded transaction decoded without a registry", codec.ErrInvalidSchema)
	}
	cr, err := codec.NewReader(r)
	if err != nil {
		return 0, err
	}

	var h EmbeddedHeader
	size := h.read(cr)
	if err := cr.Err(); err != nil {
		return cr.Count(), fmt.Errorf("embedded header: %w", err)
	}
	if h.Type.IsAggregate() {
		return cr.Count(), fmt.Errorf("%w: %s cannot be embedded", codec.ErrUnknownDiscriminant, h.Type)
	}
	def, body, err := readBody(cr, e.reg, uint16(h.Type), int64(size), EmbeddedHeaderSize)
	if err != nil {
		return cr.Count(), err
	}

	e.EmbeddedHeader, e.Body, e.def = h, body, def
	return cr.Count(), nil
}

func (e *Embedded) MarshalBinary() ([]byte, error) {
	return codec.MarshalBinaryGeneric(e)
}

func (e *Embedded) UnmarshalBinary(data []byte) error {
	return codec.UnmarshalBinaryGeneric(e, data)
}

func (e *Embedded) MarshalTo(buf []byte) (int, error) {
	return codec.MarshalToGeneric(e, buf)
}

func (e *Embedded) Describe() map[string]any {
	out := map[string]any{"size": e.Size()}
	e.EmbeddedHeader.describe(out)
	if e.Body != nil {
		out["body"] = e.Body.Describe()
	}
	return out
}
