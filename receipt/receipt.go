// Package receipt implements the receipt envelope: a size-prefixed header whose type
// selects the body layout, and the element type of statement lists.
package receipt

import (
	"fmt"
	"io"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/model"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/schema"
)

// HeaderSize is the width of a receipt header, size prefix included.
const HeaderSize = 8

// ElementType is the schema type name of receipts inside statements.
const ElementType = "Receipt"

// Register makes receipts available to the tables of reg as ElementType.
func Register(reg *schema.Registry) error {
	return reg.RegisterExternal(ElementType, func() codec.Codec { return Empty(reg) })
}

type Header struct {
	Version uint16
	Type    model.ReceiptType
}

func (h *Header) Size() int { return HeaderSize }

// Receipt is a receipt header and the body selected by its type.
type Receipt struct {
	Header
	Body *schema.Struct

	reg *schema.Registry
	def *schema.BodyDef
}

var _ codec.Codec = (*Receipt)(nil)

// New builds a receipt whose body is validated against the layout registered for
// h.Type. A zero h.Version is replaced by the version of that layout.
func New(reg *schema.Registry, h Header, values schema.Values) (*Receipt, error) {
	if err := codec.NotNull(reg, "registry"); err != nil {
		return nil, err
	}
	def, err := reg.Body(schema.Receipts, uint16(h.Type))
	if err != nil {
		return nil, err
	}
	body, err := def.New(values)
	if err != nil {
		return nil, err
	}
	if h.Version == 0 {
		h.Version = def.Version
	}
	rc := &Receipt{Header: h, Body: body, reg: reg, def: def}
	if _, err := rc.size(); err != nil {
		return nil, err
	}
	return rc, nil
}

func Empty(reg *schema.Registry) *Receipt {
	return &Receipt{reg: reg}
}

// LoadFromBinary decodes a receipt from the front of data.
func LoadFromBinary(reg *schema.Registry, data []byte) (*Receipt, error) {
	rc := Empty(reg)
	if err := rc.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return rc, nil
}

func (rc *Receipt) Def() *schema.BodyDef { return rc.def }

func (rc *Receipt) Size() int {
	if rc.Body == nil {
		return HeaderSize
	}
	return HeaderSize + rc.Body.Size()
}

func (rc *Receipt) size() (uint32, error) {
	total := int64(rc.Size())
	if total > int64(^uint32(0)) {
		return 0, fmt.Errorf("%w: receipt of %d bytes", codec.ErrOutOfRange, total)
	}
	return uint32(total), nil
}

func (rc *Receipt) WriteTo(w io.Writer) (int64, error) {
	if err := codec.NotNull(rc.Body, "Receipt.Body"); err != nil {
		return 0, err
	}
	size, err := rc.size()
	if err != nil {
		return 0, err
	}
	cw, err := codec.NewWriter(w)
	if err != nil {
		return 0, err
	}
	cw.WriteUint32(size)
	cw.WriteUint16(rc.Version)
	cw.WriteUint16(uint16(rc.Type))
	cw.WriteFrom(rc.Body)
	return cw.Result()
}

// ReadFrom decodes the header, then the body it selects from the rest of the declared
// size. On error rc is left unchanged.
func (rc *Receipt) ReadFrom(r io.Reader) (int64, error) {
	if rc.reg == nil {
		return 0, fmt.Errorf("%w: receipt decoded without a registry", codec.ErrInvalidSchema)
	}
	cr, err := codec.NewReader(r)
	if err != nil {
		return 0, err
	}

	var (
		size uint32
		h    Header
		typ  uint16
	)
	cr.ReadUint32(&size)
	cr.ReadUint16(&h.Version)
	cr.ReadUint16(&typ)
	if err := cr.Err(); err != nil {
		return cr.Count(), fmt.Errorf("receipt header: %w", err)
	}
	h.Type = model.ReceiptType(typ)
	if size < HeaderSize {
		return cr.Count(), fmt.Errorf("%w: declared size %d is below the %d byte header", codec.ErrInsufficientBytes, size, HeaderSize)
	}
	def, err := rc.reg.Body(schema.Receipts, typ)
	if err != nil {
		return cr.Count(), err
	}

	var body *schema.Struct
	cr.ReadTo(codec.ReadFromFunc(func(r io.Reader) (int64, error) {
		s, n, err := def.ReadBounded(r, int64(size)-HeaderSize)
		body = s
		return n, err
	}))
	if err := cr.Err(); err != nil {
		return cr.Count(), err
	}

	rc.Header, rc.Body, rc.def = h, body, def
	return cr.Count(), nil
}

func (rc *Receipt) MarshalBinary() ([]byte, error) {
	return codec.MarshalBinaryGeneric(rc)
}

func (rc *Receipt) UnmarshalBinary(data []byte) error {
	return codec.UnmarshalBinaryGeneric(rc, data)
}

func (rc *Receipt) MarshalTo(buf []byte) (int, error) {
	return codec.MarshalToGeneric(rc, buf)
}

func (rc *Receipt) Describe() map[string]any {
	out := map[string]any{
		"size":    rc.Size(),
		"version": rc.Version,
		"type":    rc.Type.String(),
	}
	if rc.Body != nil {
		out["body"] = rc.Body.Describe()
	}
	return out
}
