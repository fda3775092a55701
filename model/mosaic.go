package model

import (
	"fmt"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
)

// MosaicAmount is the wire layout of a mosaic: id then amount, both 64-bit.
type MosaicAmount struct {
	ID     codec.Word64
	Amount codec.Word64
}

type (
	// Mosaic carries a resolved mosaic id.
	Mosaic struct{ codec.Fixed[MosaicAmount] }
	// UnresolvedMosaic may carry a namespace alias in place of the id.
	UnresolvedMosaic struct{ codec.Fixed[MosaicAmount] }
)

var (
	_ codec.Codec = (*Mosaic)(nil)
	_ codec.Codec = (*UnresolvedMosaic)(nil)
)

func NewMosaic(id, amount uint64) *Mosaic {
	return &Mosaic{codec.Fixed[MosaicAmount]{Payload: MosaicAmount{codec.MakeWord64(id), codec.MakeWord64(amount)}}}
}

func NewUnresolvedMosaic(id, amount uint64) *UnresolvedMosaic {
	return &UnresolvedMosaic{codec.Fixed[MosaicAmount]{Payload: MosaicAmount{codec.MakeWord64(id), codec.MakeWord64(amount)}}}
}

func (m *Mosaic) ID() uint64     { return m.Payload.ID.Uint64() }
func (m *Mosaic) Amount() uint64 { return m.Payload.Amount.Uint64() }
func (m *Mosaic) String() string { return fmt.Sprintf("%016X:%d", m.ID(), m.Amount()) }

// SchemaValues returns the field values of the Mosaic struct of a schema table.
func (m *Mosaic) SchemaValues() map[string]any {
	return map[string]any{"mosaic_id": m.Payload.ID, "amount": m.Payload.Amount}
}

func (m *UnresolvedMosaic) ID() uint64     { return m.Payload.ID.Uint64() }
func (m *UnresolvedMosaic) Amount() uint64 { return m.Payload.Amount.Uint64() }
func (m *UnresolvedMosaic) String() string { return fmt.Sprintf("%016X:%d", m.ID(), m.Amount()) }

// SchemaValues returns the field values of the UnresolvedMosaic struct of a schema table.
func (m *UnresolvedMosaic) SchemaValues() map[string]any {
	return map[string]any{"mosaic_id": m.Payload.ID, "amount": m.Payload.Amount}
}
