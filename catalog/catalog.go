// Package catalog carries the built-in Symbol schema: every transaction and receipt
// body, the structs they share, and the envelope element types they list.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/Vladimir7280/catbuffer-typescript-sub001/receipt"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/schema"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/transaction"
)

//go:embed symbol.yaml
var symbolTable []byte

// Table returns the YAML source of the built-in schema.
func Table() []byte {
	out := make([]byte, len(symbolTable))
	copy(out, symbolTable)
	return out
}

// New returns a registry holding the built-in schema followed by the extra YAML
// tables, which may add bodies and structs but not redefine them.
func New(extra ...[]byte) (*schema.Registry, error) {
	reg := schema.NewRegistry()
	if err := Load(reg, extra...); err != nil {
		return nil, err
	}
	return reg, nil
}

// Load fills reg, which must not hold the envelope element types yet.
func Load(reg *schema.Registry, extra ...[]byte) error {
	if err := transaction.Register(reg); err != nil {
		return err
	}
	if err := receipt.Register(reg); err != nil {
		return err
	}
	if err := reg.LoadYAML(symbolTable); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	for i, table := range extra {
		if err := reg.LoadYAML(table); err != nil {
			return fmt.Errorf("catalog: extra table %d: %w", i, err)
		}
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultReg  *schema.Registry
	defaultErr  error
)

// Default returns a shared registry of the built-in schema. Callers must not load
// more tables into it.
func Default() (*schema.Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = New()
	})
	return defaultReg, defaultErr
}
