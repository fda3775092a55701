package schema

import (
	"fmt"
	"reflect"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
)

// ListMode says how the length of an array or blob is known.
type ListMode uint8

const (
	ModeNone ListMode = iota
	ModeCount
	ModeSize
	ModeRemaining
)

// Field is a compiled row of a layout.
type Field struct {
	Def  FieldDef
	Name string
	// Type is the field type, or the element type of an array.
	Type    TypeRef
	Kind    Kind
	Mode    ListMode
	Options codec.ListOptions
	// Ref is the index of the count or size field this field reads its length from, or -1.
	Ref      int
	Reserved bool
	// Derived fields are computed from Referrer on encode.
	Derived  bool
	Referrer int
}

// Logical reports whether the field carries a caller-supplied value.
func (f *Field) Logical() bool { return !f.Reserved && !f.Derived }

// StructDef is a compiled layout: a named, ordered list of fields.
type StructDef struct {
	Name   string
	Fields []*Field
	index  map[string]int
}

// Field looks a field up by name.
func (d *StructDef) Field(name string) (*Field, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.Fields[i], true
}

// Defs returns the declarative rows the definition was compiled from.
func (d *StructDef) Defs() []FieldDef {
	defs := make([]FieldDef, len(d.Fields))
	for i, f := range d.Fields {
		defs[i] = f.Def
	}
	return defs
}

// env resolves type names while a table is compiled.
type env struct {
	aliases  map[string]string
	structs  func(string) (*StructDef, bool)
	external func(string) (func() codec.Codec, bool)
}

var structType = reflect.TypeOf((*Struct)(nil))

func (e *env) resolve(name string) (TypeRef, error) {
	declared := name
	for hops := 0; ; hops++ {
		target, ok := e.aliases[name]
		if !ok {
			break
		}
		if hops > len(e.aliases) {
			return TypeRef{}, fmt.Errorf("%w: alias cycle through %q", codec.ErrInvalidSchema, declared)
		}
		name = target
	}

	if name == blobType {
		return TypeRef{Name: declared, Kind: KindBlob}, nil
	}
	if p, ok := primitives[name]; ok {
		return TypeRef{Name: declared, Kind: KindInt, Width: p.width, Signed: p.signed, newCodec: p.new}, nil
	}
	if w, ok := wrappers[name]; ok {
		return TypeRef{Name: declared, Kind: KindWrapper, newCodec: w.new, fromBytes: w.from, goType: w.goType}, nil
	}
	if def, ok := e.structs(name); ok {
		return TypeRef{
			Name:     declared,
			Kind:     KindStruct,
			Def:      def,
			newCodec: func() codec.Codec { return def.Empty() },
			goType:   structType,
		}, nil
	}
	if factory, ok := e.external(name); ok {
		return TypeRef{Name: declared, Kind: KindExternal, newCodec: factory, goType: reflect.TypeOf(factory())}, nil
	}
	return TypeRef{}, fmt.Errorf("%w: unknown type %q", codec.ErrInvalidSchema, declared)
}

func invalid(owner, field, format string, args ...any) error {
	return fmt.Errorf("%w: %s.%s: %s", codec.ErrInvalidSchema, owner, field, fmt.Sprintf(format, args...))
}

func compileStruct(name string, defs []FieldDef, e *env) (*StructDef, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: unnamed layout", codec.ErrInvalidSchema)
	}
	d := &StructDef{Name: name, index: make(map[string]int, len(defs))}

	for i, fd := range defs {
		if fd.Name == "" {
			return nil, invalid(name, fmt.Sprintf("#%d", i), "field has no name")
		}
		if _, dup := d.index[fd.Name]; dup {
			return nil, invalid(name, fd.Name, "duplicate field name")
		}

		modes := 0
		for _, set := range []bool{fd.Count != "", fd.Size != "", fd.Remaining} {
			if set {
				modes++
			}
		}
		if modes > 1 {
			return nil, invalid(name, fd.Name, "count, size and remaining are exclusive")
		}
		if fd.Alignment < 0 {
			return nil, invalid(name, fd.Name, "negative alignment %d", fd.Alignment)
		}

		ref, err := e.resolve(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, fd.Name, err)
		}
		f := &Field{Def: fd, Name: fd.Name, Type: ref, Kind: ref.Kind, Ref: -1, Referrer: -1, Reserved: fd.Reserved}

		switch {
		case ref.Kind == KindBlob:
			if fd.Size == "" {
				return nil, invalid(name, fd.Name, "bytes field needs a size field")
			}
			f.Mode = ModeSize
		case modes == 1:
			f.Kind = KindArray
			f.Options = codec.ListOptions{Alignment: fd.Alignment, PadLast: fd.PadLast}
			switch {
			case fd.Count != "":
				f.Mode = ModeCount
			case fd.Size != "":
				f.Mode = ModeSize
			default:
				f.Mode = ModeRemaining
			}
		}
		if f.Kind != KindArray && (fd.Alignment != 0 || fd.PadLast) {
			return nil, invalid(name, fd.Name, "alignment applies to arrays only")
		}
		if f.Kind == KindBlob && fd.Count != "" {
			return nil, invalid(name, fd.Name, "bytes field takes a size, not a count")
		}
		if fd.Reserved && f.Kind != KindInt {
			return nil, invalid(name, fd.Name, "reserved fields must be integers")
		}
		if f.Mode == ModeRemaining && i != len(defs)-1 {
			return nil, invalid(name, fd.Name, "a remaining array must be the last field")
		}

		if refName := fd.Count + fd.Size; refName != "" {
			j, ok := d.index[refName]
			if !ok {
				return nil, invalid(name, fd.Name, "length field %q is not an earlier field", refName)
			}
			target := d.Fields[j]
			switch {
			case target.Kind != KindInt || target.Reserved:
				return nil, invalid(name, fd.Name, "length field %q is not a plain integer", refName)
			case target.Derived:
				return nil, invalid(name, fd.Name, "length field %q already sizes %q", refName, d.Fields[target.Referrer].Name)
			}
			target.Derived = true
			target.Referrer = i
			f.Ref = j
		}

		d.index[fd.Name] = i
		d.Fields = append(d.Fields, f)
	}
	return d, nil
}
