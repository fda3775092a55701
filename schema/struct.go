package schema

import (
	"bytes"
	"fmt"
	"io"
	"math"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
)

// Struct is a value of a StructDef. Integer fields hold their encoded bytes; every
// other field holds a codec. Derived and reserved fields hold nothing.
type Struct struct {
	def    *StructDef
	values []any
}

var _ codec.Codec = (*Struct)(nil)

// Empty returns a value with no field set, ready for ReadFrom.
func (d *StructDef) Empty() *Struct {
	return &Struct{def: d, values: make([]any, len(d.Fields))}
}

// Decode reads a value of d from the front of data.
func (d *StructDef) Decode(data []byte) (*Struct, error) {
	s := d.Empty()
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Struct) Def() *StructDef { return s.def }

// length is the count or byte size of the array or blob at i.
func (s *Struct) length(i int) int64 {
	f := s.def.Fields[i]
	switch v := s.values[i].(type) {
	case *codec.List[codec.Codec]:
		if f.Mode == ModeCount {
			return int64(v.Len())
		}
		return int64(v.Size())
	case codec.Codec:
		return int64(v.Size())
	}
	return 0
}

// intAt returns the encoded bytes of the integer field at i, computing derived values.
func (s *Struct) intAt(i int) ([]byte, error) {
	f := s.def.Fields[i]
	switch {
	case f.Reserved:
		return make([]byte, f.Type.Width), nil
	case f.Derived:
		return intBytes(s.length(f.Referrer), f.Type.Width, f.Type.Signed)
	}
	b, _ := s.values[i].([]byte)
	if b == nil {
		return nil, fmt.Errorf("%w: %s.%s", codec.ErrMissingField, s.def.Name, f.Name)
	}
	return b, nil
}

func (s *Struct) Size() int {
	if s.def == nil {
		return 0
	}
	n := 0
	for i, f := range s.def.Fields {
		if f.Kind == KindInt {
			n += f.Type.Width
		} else if c, ok := s.values[i].(codec.Codec); ok {
			n += c.Size()
		}
	}
	return n
}

// WriteTo emits the fields in order. Count and size fields are computed from the
// arrays and blobs that refer to them.
func (s *Struct) WriteTo(w io.Writer) (int64, error) {
	if s.def == nil {
		return 0, fmt.Errorf("%w: struct has no definition", codec.ErrInvalidSchema)
	}
	cw, err := codec.NewWriter(w)
	if err != nil {
		return 0, err
	}

	for i, f := range s.def.Fields {
		if f.Kind == KindInt {
			b, err := s.intAt(i)
			if err != nil {
				cw.Fail(fmt.Errorf("%s.%s: %w", s.def.Name, f.Name, err))
				break
			}
			cw.WriteBytes(b)
			continue
		}
		c, _ := s.values[i].(codec.Codec)
		if err := codec.NotNull(c, s.def.Name+"."+f.Name); err != nil {
			cw.Fail(err)
			break
		}
		cw.WriteFrom(c)
	}
	return cw.Result()
}

// lengthField decodes the value of a count or size field.
func lengthField(b []byte, f *Field) (int64, error) {
	if f.Type.Signed {
		v, err := intOf(b, f.Type.Width)
		if err == nil && v < 0 {
			err = fmt.Errorf("%w: negative length %d", codec.ErrOutOfRange, v)
		}
		return v, err
	}
	v, err := uintOf(b, f.Type.Width)
	if err == nil && v > math.MaxInt64 {
		err = fmt.Errorf("%w: length %d", codec.ErrOutOfRange, v)
	}
	return int64(v), err
}

// ReadFrom decodes the fields in order. On error s is left unchanged.
func (s *Struct) ReadFrom(r io.Reader) (int64, error) {
	if s.def == nil {
		return 0, fmt.Errorf("%w: struct has no definition", codec.ErrInvalidSchema)
	}
	cr, err := codec.NewReader(r)
	if err != nil {
		return 0, err
	}

	fields := s.def.Fields
	values := make([]any, len(fields))
	lengths := make([]int64, len(fields))

	for i, f := range fields {
		switch {
		case f.Reserved:
			cr.Skip(int64(f.Type.Width))
		case f.Kind == KindInt:
			b := cr.ReadBytes(f.Type.Width)
			if cr.Err() != nil {
				break
			}
			if f.Derived {
				n, err := lengthField(b, f)
				cr.Fail(err)
				lengths[i] = n
			} else {
				values[i] = b
			}
		case f.Kind == KindBlob:
			blob := codec.BlobOf(lengths[f.Ref])
			cr.ReadTo(blob)
			values[i] = blob
		case f.Kind == KindArray:
			var bound codec.Bound
			switch f.Mode {
			case ModeCount:
				bound = codec.CountBound(int(lengths[f.Ref]))
			case ModeSize:
				bound = codec.ByteBound(lengths[f.Ref])
			default:
				bound = codec.Remaining()
			}
			l := codec.NewList[codec.Codec](nil, f.Options)
			cr.ReadTo(codec.ReadFromFunc(func(r io.Reader) (int64, error) {
				return l.Read(r, bound, f.Type.New)
			}))
			values[i] = l
		default:
			c := f.Type.New()
			cr.ReadTo(c)
			values[i] = c
		}
		if err := cr.Err(); err != nil {
			return cr.Count(), fmt.Errorf("%s.%s: %w", s.def.Name, f.Name, err)
		}
	}

	s.values = values
	return cr.Count(), nil
}

func (s *Struct) MarshalBinary() ([]byte, error) {
	return codec.MarshalBinaryGeneric(s)
}

// UnmarshalBinary decodes from the front of data; trailing bytes are ignored unless
// the layout ends with a remaining array, which takes them.
func (s *Struct) UnmarshalBinary(data []byte) error {
	_, err := s.ReadFrom(codec.NewBytesReader(data))
	return err
}

func (s *Struct) MarshalTo(buf []byte) (int, error) {
	return codec.MarshalToGeneric(s, buf)
}

// Equal reports whether both values share a definition and every field is equal.
func (s *Struct) Equal(o *Struct) bool {
	if s == nil || o == nil || s.def != o.def {
		return s == o
	}
	a, errA := s.MarshalBinary()
	b, errB := o.MarshalBinary()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}
