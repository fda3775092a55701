package schema

import (
	"fmt"
	"reflect"

	"golang.org/x/exp/constraints"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/model"
)

// Kind classifies a compiled field or element type.
type Kind uint8

const (
	KindInt Kind = iota
	KindWrapper
	KindBlob
	KindStruct
	KindExternal
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindWrapper:
		return "wrapper"
	case KindBlob:
		return "bytes"
	case KindStruct:
		return "struct"
	case KindExternal:
		return "external"
	case KindArray:
		return "array"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// TypeRef is a resolved type name.
type TypeRef struct {
	Name   string
	Kind   Kind
	Width  int // KindInt only
	Signed bool
	Def    *StructDef // KindStruct only

	newCodec  func() codec.Codec
	fromBytes func([]byte) (codec.Codec, error)
	goType    reflect.Type
}

// New allocates an empty codec for decoding a value of this type.
func (t *TypeRef) New() codec.Codec { return t.newCodec() }

type primitive struct {
	width  int
	signed bool
	new    func() codec.Codec
}

var primitives = map[string]primitive{
	"uint8":  {1, false, func() codec.Codec { return new(codec.Fixed[uint8]) }},
	"uint16": {2, false, func() codec.Codec { return new(codec.Fixed[uint16]) }},
	"uint32": {4, false, func() codec.Codec { return new(codec.Fixed[uint32]) }},
	"uint64": {8, false, func() codec.Codec { return new(codec.Fixed[codec.Word64]) }},
	"int8":   {1, true, func() codec.Codec { return new(codec.Fixed[int8]) }},
	"int16":  {2, true, func() codec.Codec { return new(codec.Fixed[int16]) }},
	"int32":  {4, true, func() codec.Codec { return new(codec.Fixed[int32]) }},
	"int64":  {8, true, func() codec.Codec { return new(codec.Fixed[codec.Word64]) }},
}

const blobType = "bytes"

type wrapper struct {
	new    func() codec.Codec
	from   func([]byte) (codec.Codec, error)
	goType reflect.Type
}

func wrap[T any, PT interface {
	*T
	codec.Codec
}](from func([]byte) (PT, error)) wrapper {
	return wrapper{
		new: func() codec.Codec { return PT(new(T)) },
		from: func(b []byte) (codec.Codec, error) {
			v, err := from(b)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		goType: reflect.TypeOf(PT(nil)),
	}
}

var wrappers = map[string]wrapper{
	"Hash256":   wrap(model.NewHash256),
	"PublicKey": wrap(model.NewPublicKey),
	"VotingKey": wrap(model.NewVotingKey),
	"Signature": wrap(model.NewSignature),
	"Address":   wrap(model.NewAddress),
}

func builtin(name string) bool {
	_, p := primitives[name]
	_, w := wrappers[name]
	return p || w || name == blobType
}

// intBytes encodes v into a little-endian integer of the given width, or fails
// with ErrOutOfRange when v does not fit.
func intBytes[T constraints.Integer](v T, width int, signed bool) ([]byte, error) {
	switch {
	case width == 1 && !signed:
		return codec.Uint8ToBytes(v)
	case width == 2 && !signed:
		return codec.Uint16ToBytes(v)
	case width == 4 && !signed:
		return codec.Uint32ToBytes(v)
	case width == 8 && !signed:
		w, err := codec.Word64FromInt(v)
		if err != nil {
			return nil, err
		}
		return codec.Uint64ToBytes(w), nil
	case width == 1:
		return codec.Int8ToBytes(v)
	case width == 2:
		return codec.Int16ToBytes(v)
	case width == 4:
		return codec.Int32ToBytes(v)
	case width == 8:
		return codec.Int64ToBytes(v)
	}
	return nil, fmt.Errorf("%w: integer width %d", codec.ErrInvalidSchema, width)
}

// uintOf decodes an unsigned integer field of the given width.
func uintOf(b []byte, width int) (uint64, error) {
	switch width {
	case 1:
		v, err := codec.BytesToUint8(b)
		return uint64(v), err
	case 2:
		v, err := codec.BytesToUint16(b)
		return uint64(v), err
	case 4:
		v, err := codec.BytesToUint32(b)
		return uint64(v), err
	case 8:
		v, err := codec.BytesToUint64(b)
		return v.Uint64(), err
	}
	return 0, fmt.Errorf("%w: integer width %d", codec.ErrInvalidSchema, width)
}

// intOf decodes a two's complement integer field of the given width.
func intOf(b []byte, width int) (int64, error) {
	switch width {
	case 1:
		v, err := codec.BytesToInt8(b)
		return int64(v), err
	case 2:
		v, err := codec.BytesToInt16(b)
		return int64(v), err
	case 4:
		v, err := codec.BytesToInt32(b)
		return int64(v), err
	case 8:
		v, err := codec.BytesToUint64(b)
		return v.Int64(), err
	}
	return 0, fmt.Errorf("%w: integer width %d", codec.ErrInvalidSchema, width)
}

// coerceInt encodes a Go integer (any kind) or a Word64 for an integer field.
func coerceInt(v any, width int, signed bool) ([]byte, error) {
	switch x := v.(type) {
	case codec.Word64:
		if width != 8 {
			return nil, fmt.Errorf("%w: 64-bit value for a %d-byte integer", codec.ErrFieldType, width)
		}
		return codec.Uint64ToBytes(x), nil
	case *codec.Word64:
		if x == nil {
			return nil, codec.ErrMissingField
		}
		return coerceInt(*x, width, signed)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intBytes(rv.Int(), width, signed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return intBytes(rv.Uint(), width, signed)
	}
	return nil, fmt.Errorf("%w: %T is not an integer", codec.ErrFieldType, v)
}
