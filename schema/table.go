// Package schema turns a declarative table of message layouts into codecs.
//
// A table lists aliases, shared structs and the bodies of the transaction and receipt
// families. Each body is selected by a discriminant and is an ordered list of fields;
// count and size prefixes are ordinary integer fields that a later array or blob
// refers to, so they are derived on encode rather than stored.
//
//	transactions:
//	  - name: Transfer
//	    discriminants: [0x4154]
//	    version: 1
//	    fields:
//	      - {name: recipient_address, type: UnresolvedAddress}
//	      - {name: message_size, type: uint16}
//	      - {name: mosaics_count, type: uint8}
//	      - {name: reserved_1, type: uint32, reserved: true}
//	      - {name: mosaics, type: UnresolvedMosaic, count: mosaics_count}
//	      - {name: message, type: bytes, size: message_size}
package schema

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
)

// Table is the declarative form of a schema as it appears in YAML.
type Table struct {
	Aliases      map[string]string `yaml:"aliases,omitempty"`
	Structs      []StructTable     `yaml:"structs,omitempty"`
	Transactions []BodyTable       `yaml:"transactions,omitempty"`
	Receipts     []BodyTable       `yaml:"receipts,omitempty"`
}

// StructTable declares a named composite reused by bodies and lists.
type StructTable struct {
	Name   string     `yaml:"name"`
	Fields []FieldDef `yaml:"fields"`
}

// BodyTable declares the body shape of one or more discriminants of a family.
type BodyTable struct {
	Name          string     `yaml:"name"`
	Discriminants []uint16   `yaml:"discriminants"`
	Version       uint16     `yaml:"version"`
	Fields        []FieldDef `yaml:"fields"`
}

// FieldDef is one row of a layout.
type FieldDef struct {
	Name string `yaml:"name"`
	// Type is a primitive (uint8..int64), "bytes", a wrapper, an alias, a struct,
	// or an external element type registered from Go.
	Type string `yaml:"type"`
	// Reserved fields are written as zero and skipped on decode.
	Reserved bool `yaml:"reserved,omitempty"`
	// Count names an earlier integer field holding the element count.
	Count string `yaml:"count,omitempty"`
	// Size names an earlier integer field holding the byte length of a blob or array.
	Size string `yaml:"size,omitempty"`
	// Remaining marks an array that runs to the end of the enclosing budget.
	Remaining bool `yaml:"remaining,omitempty"`
	// Alignment pads array elements to this boundary.
	Alignment int `yaml:"alignment,omitempty"`
	// PadLast pads the final element too.
	PadLast bool `yaml:"pad_last,omitempty"`
}

// ParseTable decodes a YAML table. Unknown keys are rejected.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	dec := yaml.NewDecoder(codec.NewBytesReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", codec.ErrInvalidSchema, err)
	}
	return &t, nil
}
