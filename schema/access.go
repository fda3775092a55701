package schema

import (
	"bytes"
	"fmt"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
)

// Describer is implemented by external codecs that can render themselves.
type Describer interface {
	Describe() map[string]any
}

func (s *Struct) field(name string) (int, *Field, error) {
	if s.def == nil {
		return 0, nil, fmt.Errorf("%w: struct has no definition", codec.ErrInvalidSchema)
	}
	i, ok := s.def.index[name]
	if !ok {
		return 0, nil, fmt.Errorf("%w: %s has no field %q", codec.ErrMissingField, s.def.Name, name)
	}
	return i, s.def.Fields[i], nil
}

func kindErr(s *Struct, f *Field, want string) error {
	return fmt.Errorf("%w: %s.%s is %s, not %s", codec.ErrFieldType, s.def.Name, f.Name, f.Kind, want)
}

// Get returns the stored value of a logical field: encoded bytes for integers,
// a codec otherwise.
func (s *Struct) Get(name string) (any, bool) {
	i, f, err := s.field(name)
	if err != nil || !f.Logical() {
		return nil, false
	}
	return s.values[i], s.values[i] != nil
}

// Uint reads an integer field as unsigned. Count and size fields report the
// length of the field they describe.
func (s *Struct) Uint(name string) (uint64, error) {
	i, f, err := s.field(name)
	if err != nil {
		return 0, err
	}
	if f.Kind != KindInt {
		return 0, kindErr(s, f, "an integer")
	}
	b, err := s.intAt(i)
	if err != nil {
		return 0, err
	}
	return uintOf(b, f.Type.Width)
}

// Int reads an integer field as two's complement.
func (s *Struct) Int(name string) (int64, error) {
	i, f, err := s.field(name)
	if err != nil {
		return 0, err
	}
	if f.Kind != KindInt {
		return 0, kindErr(s, f, "an integer")
	}
	b, err := s.intAt(i)
	if err != nil {
		return 0, err
	}
	return intOf(b, f.Type.Width)
}

// Bytes returns the serialized form of a field.
func (s *Struct) Bytes(name string) ([]byte, error) {
	i, f, err := s.field(name)
	if err != nil {
		return nil, err
	}
	if f.Kind == KindInt {
		b, err := s.intAt(i)
		return bytes.Clone(b), err
	}
	c, _ := s.values[i].(codec.Codec)
	if c == nil {
		return nil, fmt.Errorf("%w: %s.%s", codec.ErrMissingField, s.def.Name, name)
	}
	return c.MarshalBinary()
}

// Codec returns a wrapper, struct, blob or external field value.
func (s *Struct) Codec(name string) (codec.Codec, error) {
	i, f, err := s.field(name)
	if err != nil {
		return nil, err
	}
	c, _ := s.values[i].(codec.Codec)
	if c == nil || f.Kind == KindArray {
		return nil, kindErr(s, f, "a single value")
	}
	return c, nil
}

// List returns the elements of an array field.
func (s *Struct) List(name string) ([]codec.Codec, error) {
	i, f, err := s.field(name)
	if err != nil {
		return nil, err
	}
	l, ok := s.values[i].(*codec.List[codec.Codec])
	if !ok {
		return nil, kindErr(s, f, "an array")
	}
	return l.Items, nil
}

// Struct returns a nested struct field.
func (s *Struct) Struct(name string) (*Struct, error) {
	i, f, err := s.field(name)
	if err != nil {
		return nil, err
	}
	v, ok := s.values[i].(*Struct)
	if !ok {
		return nil, kindErr(s, f, "a struct")
	}
	return v, nil
}

// Describe renders the logical fields as plain Go values: integers as uint64 or
// int64, fixed-width values and blobs as upper-case hex, structs as maps and arrays
// as slices.
func (s *Struct) Describe() map[string]any {
	out := make(map[string]any, len(s.values))
	if s.def == nil {
		return out
	}
	for i, f := range s.def.Fields {
		if !f.Logical() || s.values[i] == nil {
			continue
		}
		switch v := s.values[i].(type) {
		case []byte:
			out[f.Name] = describeInt(v, &f.Type)
		case *codec.List[codec.Codec]:
			items := make([]any, len(v.Items))
			for j, item := range v.Items {
				items[j] = describeCodec(item, &f.Type)
			}
			out[f.Name] = items
		case codec.Codec:
			out[f.Name] = describeCodec(v, &f.Type)
		}
	}
	return out
}

func describeInt(b []byte, t *TypeRef) any {
	if t.Signed {
		v, _ := intOf(b, t.Width)
		return v
	}
	v, _ := uintOf(b, t.Width)
	return v
}

func describeCodec(c codec.Codec, t *TypeRef) any {
	switch v := c.(type) {
	case *Struct:
		return v.Describe()
	case Describer:
		return v.Describe()
	case fmt.Stringer:
		return v.String()
	}
	b, err := c.MarshalBinary()
	if err != nil {
		return nil
	}
	if t.Kind == KindInt {
		return describeInt(b, t)
	}
	return fmt.Sprintf("%X", b)
}
