package schema

import (
	"fmt"
	"reflect"
	"sort"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
)

// Values are the logical field values of a struct, keyed by field name.
//
// Integer fields take any Go integer or a codec.Word64. Wrapper fields take the
// wrapper or its raw bytes. Blobs take []byte, a string or *codec.Blob. Struct fields
// take Values, a *Struct of the same definition, or a Valuer. Arrays take any slice
// whose elements are acceptable for the element type.
type Values map[string]any

// Valuer is implemented by Go types that stand for a struct of the table.
type Valuer interface {
	SchemaValues() map[string]any
}

// New validates values against d and builds a Struct. It is the only way to
// construct a value for encoding; everything it returns can be serialized.
func (d *StructDef) New(values Values) (*Struct, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f, ok := d.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no field %q", codec.ErrFieldType, d.Name, name)
		}
		if !f.Logical() {
			return nil, fmt.Errorf("%w: %s.%s is computed, not set", codec.ErrFieldType, d.Name, name)
		}
	}

	s := d.Empty()
	for i, f := range d.Fields {
		if !f.Logical() {
			continue
		}
		v, ok := values[f.Name]
		if !ok || v == nil {
			return nil, fmt.Errorf("%w: %s.%s", codec.ErrMissingField, d.Name, f.Name)
		}
		c, err := coerceField(f, v)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", d.Name, f.Name, err)
		}
		s.values[i] = c
	}

	// a count or size that does not fit its field fails now, not on encode
	for i, f := range d.Fields {
		if f.Derived {
			if _, err := s.intAt(i); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", d.Name, f.Name, err)
			}
		}
	}
	return s, nil
}

func coerceField(f *Field, v any) (any, error) {
	switch f.Kind {
	case KindInt:
		return coerceInt(v, f.Type.Width, f.Type.Signed)
	case KindBlob:
		return coerceBlob(v)
	case KindArray:
		return coerceArray(f, v)
	}
	return coerceValue(&f.Type, v)
}

func coerceBlob(v any) (*codec.Blob, error) {
	if err := codec.NotNull(v, "bytes"); err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case []byte:
		return codec.NewBlob(x), nil
	case string:
		return codec.NewBlob([]byte(x)), nil
	case *codec.Blob:
		return x, nil
	}
	return nil, fmt.Errorf("%w: %T for bytes", codec.ErrFieldType, v)
}

func coerceArray(f *Field, v any) (*codec.List[codec.Codec], error) {
	if err := codec.NotNull(v, f.Name); err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %T is not a list of %s", codec.ErrFieldType, v, f.Type.Name)
	}
	items := make([]codec.Codec, rv.Len())
	for i := range items {
		c, err := coerceValue(&f.Type, rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		items[i] = c
	}
	return codec.NewList(items, f.Options), nil
}

// coerceValue converts v to a codec of type t.
func coerceValue(t *TypeRef, v any) (codec.Codec, error) {
	if err := codec.NotNull(v, t.Name); err != nil {
		return nil, err
	}

	switch t.Kind {
	case KindInt:
		b, err := coerceInt(v, t.Width, t.Signed)
		if err != nil {
			return nil, err
		}
		c := t.New()
		if err := c.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		return c, nil

	case KindWrapper:
		if b, ok := v.([]byte); ok {
			return t.fromBytes(b)
		}
		if reflect.TypeOf(v) == t.goType {
			return v.(codec.Codec), nil
		}

	case KindStruct:
		switch x := v.(type) {
		case *Struct:
			if x.def == t.Def {
				return x, nil
			}
			return nil, fmt.Errorf("%w: %s value for %s", codec.ErrFieldType, x.def.Name, t.Def.Name)
		case Values:
			return t.Def.New(x)
		case map[string]any:
			return t.Def.New(x)
		case Valuer:
			return t.Def.New(x.SchemaValues())
		}

	case KindExternal:
		if reflect.TypeOf(v) == t.goType {
			return v.(codec.Codec), nil
		}
	}
	return nil, fmt.Errorf("%w: %T for %s", codec.ErrFieldType, v, t.Name)
}
