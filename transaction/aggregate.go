package transaction

import (
	"fmt"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/schema"
)

// Field names of aggregate bodies.
const (
	TransactionsField = "transactions"
	CosignaturesField = "cosignatures"
)

func (t *Transaction) aggregate() error {
	if !t.Type.IsAggregate() {
		return fmt.Errorf("%w: %s is not an aggregate", codec.ErrFieldType, t.Type)
	}
	return codec.NotNull(t.Body, "Transaction.Body")
}

// Embedded returns the transactions carried by an aggregate, in order.
func (t *Transaction) Embedded() ([]*Embedded, error) {
	if err := t.aggregate(); err != nil {
		return nil, err
	}
	items, err := t.Body.List(TransactionsField)
	if err != nil {
		return nil, err
	}
	out := make([]*Embedded, len(items))
	for i, item := range items {
		e, ok := item.(*Embedded)
		if !ok {
			return nil, fmt.Errorf("%w: %s element %d is %T", codec.ErrFieldType, TransactionsField, i, item)
		}
		out[i] = e
	}
	return out, nil
}

// Cosignatures returns the cosignatures appended to an aggregate.
func (t *Transaction) Cosignatures() ([]*schema.Struct, error) {
	if err := t.aggregate(); err != nil {
		return nil, err
	}
	items, err := t.Body.List(CosignaturesField)
	if err != nil {
		return nil, err
	}
	out := make([]*schema.Struct, len(items))
	for i, item := range items {
		s, ok := item.(*schema.Struct)
		if !ok {
			return nil, fmt.Errorf("%w: %s element %d is %T", codec.ErrFieldType, CosignaturesField, i, item)
		}
		out[i] = s
	}
	return out, nil
}
