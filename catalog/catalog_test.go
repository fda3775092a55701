package catalog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/model"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/receipt"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/schema"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/transaction"
)

func fill(b byte, n int) []byte { return bytes.Repeat([]byte{b}, n) }

func header(t *testing.T, typ model.EntityType) transaction.Header {
	sig, err := model.NewSignature(fill(0xAA, model.SignatureSize))
	require.NoError(t, err)
	signer, err := model.NewPublicKey(fill(0xBB, model.PublicKeySize))
	require.NoError(t, err)
	return transaction.Header{
		Signature:       sig,
		SignerPublicKey: signer,
		Network:         model.Testnet,
		Type:            typ,
		Fee:             codec.MakeWord64(100),
		Deadline:        codec.MakeWord64(0x1122334455),
	}
}

func embeddedHeader(t *testing.T, typ model.EntityType) transaction.EmbeddedHeader {
	signer, err := model.NewPublicKey(fill(0xCC, model.PublicKeySize))
	require.NoError(t, err)
	return transaction.EmbeddedHeader{SignerPublicKey: signer, Network: model.Testnet, Type: typ}
}

func transferValues(message string) schema.Values {
	return schema.Values{
		"recipient_address": fill(0x98, model.AddressSize),
		"mosaics":           []*model.UnresolvedMosaic{model.NewUnresolvedMosaic(0x6BED913FA20223F8, 1_000_000)},
		"message":           message,
	}
}

// sampler generates a valid value for every field of a layout.
type sampler struct {
	t   *testing.T
	reg *schema.Registry
}

func (s sampler) values(def *schema.StructDef) schema.Values {
	v := schema.Values{}
	for _, f := range def.Fields {
		if !f.Logical() {
			continue
		}
		switch f.Kind {
		case schema.KindBlob:
			v[f.Name] = []byte("sample " + f.Name)
		case schema.KindArray:
			v[f.Name] = []any{s.element(&f.Type), s.element(&f.Type)}
		default:
			v[f.Name] = s.element(&f.Type)
		}
	}
	return v
}

func (s sampler) element(t *schema.TypeRef) any {
	switch t.Kind {
	case schema.KindInt:
		if t.Signed {
			return -1
		}
		return 1
	case schema.KindWrapper:
		return fill(0x5A, t.New().Size())
	case schema.KindStruct:
		return s.values(t.Def)
	case schema.KindExternal:
		switch t.Name {
		case transaction.ElementType:
			e, err := transaction.NewEmbedded(s.reg, embeddedHeader(s.t, model.Transfer), transferValues("inner"))
			require.NoError(s.t, err)
			return e
		case receipt.ElementType:
			rc, err := receipt.New(s.reg, receipt.Header{Type: model.Inflation}, schema.Values{
				"mosaic": model.NewMosaic(1, 2),
			})
			require.NoError(s.t, err)
			return rc
		}
	}
	s.t.Fatalf("no sample for %s %s", t.Kind, t.Name)
	return nil
}

func TestDefaultIsShared(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)

	assert.Len(t, a.Bodies(schema.Transactions), 24, "aggregate complete and bonded share a body")
	assert.Len(t, a.Bodies(schema.Receipts), 5)
	assert.Equal(t, Table(), symbolTable)
}

func TestEveryEntityTypeHasABody(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	for _, typ := range []model.EntityType{
		model.AccountKeyLink, model.NodeKeyLink, model.VrfKeyLink, model.VotingKeyLink,
		model.AggregateComplete, model.AggregateBonded, model.HashLock, model.SecretLock,
		model.SecretProof, model.AccountMetadata, model.MosaicMetadata, model.NamespaceMetadata,
		model.MosaicDefinition, model.MosaicSupplyChange, model.MosaicSupplyRevocation,
		model.MultisigAccountModification, model.AddressAlias, model.MosaicAlias,
		model.NamespaceRegistration, model.AccountAddressRestriction, model.AccountMosaicRestriction,
		model.AccountOperationRestriction, model.MosaicAddressRestriction, model.MosaicGlobalRestriction,
		model.Transfer,
	} {
		_, err := reg.Body(schema.Transactions, uint16(typ))
		assert.NoError(t, err, typ.String())
	}
	for _, typ := range []model.ReceiptType{
		model.MosaicRentalFee, model.NamespaceRentalFee, model.HarvestFee, model.LockHashCompleted,
		model.LockHashExpired, model.LockSecretCompleted, model.LockSecretExpired, model.LockHashCreated,
		model.LockSecretCreated, model.MosaicExpired, model.NamespaceExpired, model.NamespaceDeleted,
		model.Inflation,
	} {
		_, err := reg.Body(schema.Receipts, uint16(typ))
		assert.NoError(t, err, typ.String())
	}
}

func TestTransactionsRoundTrip(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	s := sampler{t: t, reg: reg}

	for _, def := range reg.Bodies(schema.Transactions) {
		for _, disc := range def.Discriminants {
			typ := model.EntityType(disc)
			t.Run(typ.String(), func(t *testing.T) {
				tx, err := transaction.New(reg, header(t, typ), s.values(def.StructDef))
				require.NoError(t, err)
				assert.Equal(t, uint8(def.Version), tx.Version)

				data, err := tx.MarshalBinary()
				require.NoError(t, err)
				require.Len(t, data, tx.Size())
				assert.Equal(t, uint32(len(data)), binary.LittleEndian.Uint32(data))
				assert.Equal(t, disc, binary.LittleEndian.Uint16(data[110:]))

				decoded, err := transaction.LoadFromBinary(reg, data)
				require.NoError(t, err)
				assert.Same(t, def, decoded.Def())
				assert.True(t, tx.Body.Equal(decoded.Body))

				again, err := decoded.MarshalBinary()
				require.NoError(t, err)
				assert.Equal(t, data, again)
			})
		}
	}
}

func TestEmbeddedRoundTrip(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	s := sampler{t: t, reg: reg}

	for _, def := range reg.Bodies(schema.Transactions) {
		typ := model.EntityType(def.Discriminants[0])
		if typ.IsAggregate() {
			continue
		}
		t.Run(typ.String(), func(t *testing.T) {
			e, err := transaction.NewEmbedded(reg, embeddedHeader(t, typ), s.values(def.StructDef))
			require.NoError(t, err)
			data, err := e.MarshalBinary()
			require.NoError(t, err)
			require.Len(t, data, transaction.EmbeddedHeaderSize+e.Body.Size())

			decoded := transaction.EmptyEmbedded(reg)
			require.NoError(t, decoded.UnmarshalBinary(data))
			assert.True(t, e.Body.Equal(decoded.Body))
		})
	}
}

func TestReceiptsRoundTrip(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	s := sampler{t: t, reg: reg}

	for _, def := range reg.Bodies(schema.Receipts) {
		for _, disc := range def.Discriminants {
			typ := model.ReceiptType(disc)
			t.Run(typ.String(), func(t *testing.T) {
				rc, err := receipt.New(reg, receipt.Header{Type: typ}, s.values(def.StructDef))
				require.NoError(t, err)
				data, err := rc.MarshalBinary()
				require.NoError(t, err)
				assert.Equal(t, uint32(len(data)), binary.LittleEndian.Uint32(data))

				decoded, err := receipt.LoadFromBinary(reg, data)
				require.NoError(t, err)
				assert.Equal(t, typ, decoded.Type)
				assert.Equal(t, def.Version, decoded.Version)
				assert.True(t, rc.Body.Equal(decoded.Body))
			})
		}
	}
}

func TestStructsRoundTrip(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	s := sampler{t: t, reg: reg}

	for _, def := range reg.Structs() {
		t.Run(def.Name, func(t *testing.T) {
			v, err := def.New(s.values(def))
			require.NoError(t, err)
			data, err := v.MarshalBinary()
			require.NoError(t, err)
			require.Len(t, data, v.Size())

			decoded, err := def.Decode(data)
			require.NoError(t, err)
			assert.True(t, v.Equal(decoded))
		})
	}
}

func TestTransferLayout(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	tx, err := transaction.New(reg, header(t, model.Transfer), transferValues("hi"))
	require.NoError(t, err)
	data, err := tx.MarshalBinary()
	require.NoError(t, err)

	// 24 address + 2 message size + 1 count + 5 reserved + 16 mosaic + 2 message
	require.Len(t, data, transaction.HeaderSize+50)
	body := data[transaction.HeaderSize:]
	assert.Equal(t, fill(0x98, 24), body[:24])
	assert.Equal(t, []byte{2, 0}, body[24:26])
	assert.Equal(t, byte(1), body[26])
	assert.Equal(t, make([]byte, 5), body[27:32])
	assert.Equal(t, []byte{0xF8, 0x23, 0x02, 0xA2, 0x3F, 0x91, 0xED, 0x6B}, body[32:40])
	assert.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(body[40:48]))
	assert.Equal(t, []byte("hi"), body[48:])

	assert.Equal(t, byte(1), data[108], "version")
	assert.Equal(t, byte(model.Testnet), data[109])
	assert.Equal(t, uint64(100), binary.LittleEndian.Uint64(data[112:]))
}

func TestAggregateLayout(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	inner, err := transaction.NewEmbedded(reg, embeddedHeader(t, model.Transfer), transferValues("hi"))
	require.NoError(t, err)
	require.Equal(t, 98, inner.Size())

	cosig := schema.Values{
		"version":           0,
		"signer_public_key": fill(0x01, model.PublicKeySize),
		"signature":         fill(0x02, model.SignatureSize),
	}
	tx, err := transaction.New(reg, header(t, model.AggregateBonded), schema.Values{
		"transactions_hash": fill(0x33, model.Hash256Size),
		"transactions":      []*transaction.Embedded{inner, inner},
		"cosignatures":      []any{cosig},
	})
	require.NoError(t, err)
	assert.Equal(t, uint8(2), tx.Version)

	data, err := tx.MarshalBinary()
	require.NoError(t, err)
	// each embedded transaction is padded to 104, the last one included
	require.Len(t, data, transaction.HeaderSize+32+8+2*104+104)
	body := data[transaction.HeaderSize:]
	assert.Equal(t, uint32(208), binary.LittleEndian.Uint32(body[32:]))
	assert.Equal(t, make([]byte, 6), body[40+98:40+104])

	decoded, err := transaction.LoadFromBinary(reg, data)
	require.NoError(t, err)
	embedded, err := decoded.Embedded()
	require.NoError(t, err)
	require.Len(t, embedded, 2)
	assert.Equal(t, model.Transfer, embedded[1].Type)
	msg, err := embedded[1].Body.Bytes("message")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), msg)

	cosigs, err := decoded.Cosignatures()
	require.NoError(t, err)
	require.Len(t, cosigs, 1)
	signer, err := cosigs[0].Bytes("signer_public_key")
	require.NoError(t, err)
	assert.Equal(t, fill(0x01, 32), signer)
}

func TestTransactionStatement(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	def, err := reg.Struct("TransactionStatement")
	require.NoError(t, err)

	inflation, err := receipt.New(reg, receipt.Header{Type: model.Inflation}, schema.Values{"mosaic": model.NewMosaic(7, 8)})
	require.NoError(t, err)
	harvest, err := receipt.New(reg, receipt.Header{Type: model.HarvestFee}, schema.Values{
		"mosaic":         model.NewMosaic(7, 9),
		"target_address": fill(0x98, model.AddressSize),
	})
	require.NoError(t, err)

	stmt, err := def.New(schema.Values{
		"primary_id":   1,
		"secondary_id": 0,
		"receipts":     []*receipt.Receipt{inflation, harvest},
	})
	require.NoError(t, err)
	data, err := stmt.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 12+(8+16)+(8+16+24))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[8:]))

	decoded, err := def.Decode(data)
	require.NoError(t, err)
	items, err := decoded.List("receipts")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.HarvestFee, items[1].(*receipt.Receipt).Type)
}

func TestExtraTables(t *testing.T) {
	extra := []byte(`
transactions:
  - name: Custom
    discriminants: [0x7001]
    version: 3
    fields:
      - {name: amount, type: Amount}
`)
	reg, err := New(extra)
	require.NoError(t, err)
	def, err := reg.Body(schema.Transactions, 0x7001)
	require.NoError(t, err)
	assert.Equal(t, "Custom", def.Name)

	_, err = New([]byte("transactions:\n  - {name: Clash, discriminants: [0x4154], fields: [{name: a, type: uint8}]}\n"))
	assert.ErrorIs(t, err, codec.ErrInvalidSchema)
}

func TestDecodeErrors(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	tx, err := transaction.New(reg, header(t, model.Transfer), transferValues("hello"))
	require.NoError(t, err)
	data, err := tx.MarshalBinary()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   error
	}{
		{"Truncated", func(b []byte) []byte { return b[:len(b)-1] }, codec.ErrInsufficientBytes},
		{"HeaderOnly", func(b []byte) []byte { return b[:100] }, codec.ErrInsufficientBytes},
		{"UnknownType", func(b []byte) []byte { b[110], b[111] = 0xFF, 0x7F; return b }, codec.ErrUnknownDiscriminant},
		{"SizeBelowHeader", func(b []byte) []byte { binary.LittleEndian.PutUint32(b, 64); return b }, codec.ErrInsufficientBytes},
		{"NonZeroTrailing", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b, uint32(len(b)+2))
			return append(b, 0, 1)
		}, codec.ErrTrailingData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transaction.LoadFromBinary(reg, tt.mutate(bytes.Clone(data)))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), fmt.Sprintf("got %v", err))
		})
	}

	t.Run("ZeroTrailingWithinSize", func(t *testing.T) {
		b := append(bytes.Clone(data), 0, 0, 0)
		binary.LittleEndian.PutUint32(b, uint32(len(b)))
		decoded, err := transaction.LoadFromBinary(reg, b)
		require.NoError(t, err)
		assert.True(t, tx.Body.Equal(decoded.Body))
	})
}
