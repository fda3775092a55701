package transaction

import (
	"fmt"
	"io"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/schema"
)

// ElementType is the schema type name under which embedded transactions are
// registered, for use as the element type of aggregate bodies.
const ElementType = "EmbeddedTransaction"

// Register makes embedded transactions available to the tables of reg. It must run
// before a table that refers to ElementType is loaded.
func Register(reg *schema.Registry) error {
	return reg.RegisterExternal(ElementType, func() codec.Codec { return EmptyEmbedded(reg) })
}

// Transaction is a top-level transaction: a signed header and the body selected by
// the header type.
type Transaction struct {
	Header
	Body *schema.Struct

	reg *schema.Registry
	def *schema.BodyDef
}

var _ codec.Codec = (*Transaction)(nil)

// New builds a transaction whose body is validated against the layout registered for
// h.Type. A zero h.Version is replaced by the version of that layout.
func New(reg *schema.Registry, h Header, values schema.Values) (*Transaction, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	def, body, err := newBody(reg, uint16(h.Type), values)
	if err != nil {
		return nil, err
	}
	if h.Version == 0 {
		h.Version = uint8(def.Version)
	}
	t := &Transaction{Header: h, Body: body, reg: reg, def: def}
	if _, err := envelopeSize(HeaderSize, t.Body); err != nil {
		return nil, err
	}
	return t, nil
}

// Empty returns a transaction ready for ReadFrom, resolving bodies through reg.
func Empty(reg *schema.Registry) *Transaction {
	return &Transaction{reg: reg}
}

// LoadFromBinary decodes a transaction from the front of data.
func LoadFromBinary(reg *schema.Registry, data []byte) (*Transaction, error) {
	t := Empty(reg)
	if err := t.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return t, nil
}

// Def is the body layout, nil until the transaction is built or decoded.
func (t *Transaction) Def() *schema.BodyDef { return t.def }

func (t *Transaction) Size() int {
	if t.Body == nil {
		return HeaderSize
	}
	return HeaderSize + t.Body.Size()
}

func (t *Transaction) WriteTo(w io.Writer) (int64, error) {
	if err := t.Header.check(); err != nil {
		return 0, err
	}
	if err := codec.NotNull(t.Body, "Transaction.Body"); err != nil {
		return 0, err
	}
	size, err := envelopeSize(HeaderSize, t.Body)
	if err != nil {
		return 0, err
	}
	cw, err := codec.NewWriter(w)
	if err != nil {
		return 0, err
	}
	t.Header.write(cw, size)
	cw.WriteFrom(t.Body)
	return cw.Result()
}

// ReadFrom decodes the header, then the body it selects from the rest of the declared
// size. On error t is left unchanged.
func (t *Transaction) ReadFrom(r io.Reader) (int64, error) {
	if t.reg == nil {
		return 0, fmt.Errorf("%w: transaction decoded without a registry", codec.ErrInvalidSchema)
	}
	cr, err := codec.NewReader(r)
	if err != nil {
		return 0, err
	}

	var h Header
	size := h.read(cr)
	if err := cr.Err(); err != nil {
		return cr.Count(), fmt.Errorf("transaction header: %w", err)
	}
	def, body, err := readBody(cr, t.reg, uint16(h.Type), int64(size), HeaderSize)
	if err != nil {
		return cr.Count(), err
	}

	t.Header, t.Body, t.def = h, body, def
	return cr.Count(), nil
}

func (t *Transaction) MarshalBinary() ([]byte, error) {
	return codec.MarshalBinaryGeneric(t)
}

func (t *Transaction) UnmarshalBinary(data []byte) error {
	return codec.UnmarshalBinaryGeneric(t, data)
}

func (t *Transaction) MarshalTo(buf []byte) (int, error) {
	return codec.MarshalToGeneric(t, buf)
}

// ToEmbedded returns the transaction as it would appear inside an aggregate. The
// body is shared, not copied.
func (t *Transaction) ToEmbedded() *Embedded {
	return &Embedded{
		EmbeddedHeader: EmbeddedHeader{
			SignerPublicKey: t.SignerPublicKey,
			Version:         t.Version,
			Network:         t.Network,
			Type:            t.Type,
		},
		Body: t.Body,
		reg:  t.reg,
		def:  t.def,
	}
}

// Describe renders the header and body for display.
func (t *Transaction) Describe() map[string]any {
	out := map[string]any{"size": t.Size()}
	t.Header.describe(out)
	if t.Body != nil {
		out["body"] = t.Body.Describe()
	}
	return out
}

func newBody(reg *schema.Registry, disc uint16, values schema.Values) (*schema.BodyDef, *schema.Struct, error) {
	if err := codec.NotNull(reg, "registry"); err != nil {
		return nil, nil, err
	}
	def, err := reg.Body(schema.Transactions, disc)
	if err != nil {
		return nil, nil, err
	}
	body, err := def.New(values)
	if err != nil {
		return nil, nil, err
	}
	return def, body, nil
}

// readBody decodes the body selected by disc from what remains of size after a
// header of headerSize bytes.
func readBody(cr *codec.Reader, reg *schema.Registry, disc uint16, size int64, headerSize int) (*schema.BodyDef, *schema.Struct, error) {
	if size < int64(headerSize) {
		return nil, nil, fmt.Errorf("%w: declared size %d is below the %d byte header", codec.ErrInsufficientBytes, size, headerSize)
	}
	def, err := reg.Body(schema.Transactions, disc)
	if err != nil {
		return nil, nil, err
	}

	var body *schema.Struct
	cr.ReadTo(codec.ReadFromFunc(func(r io.Reader) (int64, error) {
		s, n, err := def.ReadBounded(r, size-int64(headerSize))
		body = s
		return n, err
	}))
	if err := cr.Err(); err != nil {
		return nil, nil, err
	}
	return def, body, nil
}
