// Package transaction implements the transaction envelopes: a fixed header whose type
// field selects the body layout through a schema registry, followed by that body.
//
//	reg, _ := catalog.Default()
//	tx, err := transaction.LoadFromBinary(reg, payload)
//	fmt.Println(tx.Type, tx.Body.Describe())
package transaction

import (
	"fmt"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/model"
)

const (
	// HeaderSize is the width of a top-level transaction header, size prefix included.
	HeaderSize = 128
	// EmbeddedHeaderSize is the width of the header of a transaction inside an aggregate.
	EmbeddedHeaderSize = 48
)

// Header is the part of a top-level transaction that precedes its body.
type Header struct {
	Signature       *model.Signature
	SignerPublicKey *model.PublicKey
	Version         uint8
	Network         model.NetworkType
	Type            model.EntityType
	Fee             codec.Word64
	Deadline        codec.Word64
}

func (h *Header) Size() int { return HeaderSize }

func (h *Header) check() error {
	if err := codec.NotNull(h.Signature, "Header.Signature"); err != nil {
		return err
	}
	return codec.NotNull(h.SignerPublicKey, "Header.SignerPublicKey")
}

func (h *Header) write(cw *codec.Writer, size uint32) {
	cw.WriteUint32(size)
	cw.WriteZeros(4)
	cw.WriteFrom(h.Signature)
	cw.WriteFrom(h.SignerPublicKey)
	cw.WriteZeros(4)
	cw.WriteUint8(h.Version)
	cw.WriteUint8(uint8(h.Network))
	cw.WriteUint16(uint16(h.Type))
	cw.WriteWord64(h.Fee)
	cw.WriteWord64(h.Deadline)
}

// read decodes the header and returns the declared envelope size.
func (h *Header) read(cr *codec.Reader) uint32 {
	var (
		size           uint32
		network        uint8
		typ            uint16
		sig, signerKey = new(model.Signature), new(model.PublicKey)
	)
	cr.ReadUint32(&size)
	cr.Skip(4)
	cr.ReadTo(sig)
	cr.ReadTo(signerKey)
	cr.Skip(4)
	cr.ReadUint8(&h.Version)
	cr.ReadUint8(&network)
	cr.ReadUint16(&typ)
	cr.ReadWord64(&h.Fee)
	cr.ReadWord64(&h.Deadline)

	h.Signature, h.SignerPublicKey = sig, signerKey
	h.Network, h.Type = model.NetworkType(network), model.EntityType(typ)
	return size
}

func (h *Header) describe(out map[string]any) {
	if h.Signature != nil {
		out["signature"] = h.Signature.String()
	}
	if h.SignerPublicKey != nil {
		out["signer_public_key"] = h.SignerPublicKey.String()
	}
	out["version"] = h.Version
	out["network"] = h.Network.String()
	out["type"] = h.Type.String()
	out["fee"] = h.Fee.Uint64()
	out["deadline"] = h.Deadline.Uint64()
}

// EmbeddedHeader is the header of a transaction carried inside an aggregate. It has
// no signature, fee or deadline; the aggregate supplies those.
type EmbeddedHeader struct {
	SignerPublicKey *model.PublicKey
	Version         uint8
	Network         model.NetworkType
	Type            model.EntityType
}

func (h *EmbeddedHeader) Size() int { return EmbeddedHeaderSize }

func (h *EmbeddedHeader) check() error {
	return codec.NotNull(h.SignerPublicKey, "EmbeddedHeader.SignerPublicKey")
}

func (h *EmbeddedHeader) write(cw *codec.Writer, size uint32) {
	cw.WriteUint32(size)
	cw.WriteZeros(4)
	cw.WriteFrom(h.SignerPublicKey)
	cw.WriteZeros(4)
	cw.WriteUint8(h.Version)
	cw.WriteUint8(uint8(h.Network))
	cw.WriteUint16(uint16(h.Type))
}

func (h *EmbeddedHeader) read(cr *codec.Reader) uint32 {
	var (
		size      uint32
		network   uint8
		typ       uint16
		signerKey = new(model.PublicKey)
	)
	cr.ReadUint32(&size)
	cr.Skip(4)
	cr.ReadTo(signerKey)
	cr.Skip(4)
	cr.ReadUint8(&h.Version)
	cr.ReadUint8(&network)
	cr.ReadUint16(&typ)

	h.SignerPublicKey = signerKey
	h.Network, h.Type = model.NetworkType(network), model.EntityType(typ)
	return size
}

func (h *EmbeddedHeader) describe(out map[string]any) {
	if h.SignerPublicKey != nil {
		out["signer_public_key"] = h.SignerPublicKey.String()
	}
	out["version"] = h.Version
	out["network"] = h.Network.String()
	out["type"] = h.Type.String()
}

// envelopeSize is the size prefix of an envelope with the given header and body.
func envelopeSize(header int, body codec.Sizer) (uint32, error) {
	total := int64(header) + int64(body.Size())
	if total > int64(^uint32(0)) {
		return 0, fmt.Errorf("%w: envelope of %d bytes", codec.ErrOutOfRange, total)
	}
	return uint32(total), nil
}
