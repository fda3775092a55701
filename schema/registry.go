package schema

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
)

// Family is the discriminant namespace of an envelope kind.
type Family string

const (
	Transactions Family = "transaction"
	Receipts     Family = "receipt"
)

// BodyDef is the layout selected by one or more discriminants of a family.
type BodyDef struct {
	*StructDef
	Family        Family
	Discriminants []uint16
	Version       uint16
}

type bodyKey struct {
	family Family
	disc   uint16
}

// Registry maps type names and discriminants to compiled layouts. It is filled
// at start-up and read concurrently afterwards.
type Registry struct {
	log       *zap.Logger
	mu        sync.Mutex // serializes Load and RegisterExternal
	aliases   *xsync.Map[string, string]
	structs   *xsync.Map[string, *StructDef]
	bodies    *xsync.Map[bodyKey, *BodyDef]
	names     *xsync.Map[string, *BodyDef]
	externals *xsync.Map[string, func() codec.Codec]
}

type Option func(*Registry)

// WithLogger sets the logger used to report registrations.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		log:       zap.NewNop(),
		aliases:   xsync.NewMap[string, string](),
		structs:   xsync.NewMap[string, *StructDef](),
		bodies:    xsync.NewMap[bodyKey, *BodyDef](),
		names:     xsync.NewMap[string, *BodyDef](),
		externals: xsync.NewMap[string, func() codec.Codec](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// taken reports whether name is already a type of the registry.
func (r *Registry) taken(name string) bool {
	if builtin(name) {
		return true
	}
	if _, ok := r.aliases.Load(name); ok {
		return true
	}
	if _, ok := r.structs.Load(name); ok {
		return true
	}
	_, ok := r.externals.Load(name)
	return ok
}

// RegisterExternal makes a Go codec usable as a field or element type. Tables that
// refer to it must be loaded afterwards.
func (r *Registry) RegisterExternal(name string, factory func() codec.Codec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" || factory == nil {
		return fmt.Errorf("%w: external type needs a name and a factory", codec.ErrInvalidSchema)
	}
	if r.taken(name) {
		return fmt.Errorf("%w: type %q already defined", codec.ErrInvalidSchema, name)
	}
	r.externals.Store(name, factory)
	r.log.Debug("registered external type", zap.String("type", name))
	return nil
}

// LoadYAML parses and loads a YAML table.
func (r *Registry) LoadYAML(data []byte) error {
	t, err := ParseTable(data)
	if err != nil {
		return err
	}
	return r.Load(t)
}

// Load compiles t and adds it to the registry. Nothing is added if any part fails.
func (r *Registry) Load(t *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	aliases := make(map[string]string)
	r.aliases.Range(func(k, v string) bool {
		aliases[k] = v
		return true
	})
	for name, target := range t.Aliases {
		if r.taken(name) {
			return fmt.Errorf("%w: alias %q shadows an existing type", codec.ErrInvalidSchema, name)
		}
		aliases[name] = target
	}

	pending := make(map[string]*StructDef)
	e := &env{
		aliases: aliases,
		structs: func(name string) (*StructDef, bool) {
			if d, ok := pending[name]; ok {
				return d, true
			}
			return r.structs.Load(name)
		},
		external: r.externals.Load,
	}
	var order []string
	for _, st := range t.Structs {
		if r.taken(st.Name) || pending[st.Name] != nil {
			return fmt.Errorf("%w: struct %q already defined", codec.ErrInvalidSchema, st.Name)
		}
		if _, ok := t.Aliases[st.Name]; ok {
			return fmt.Errorf("%w: struct %q collides with an alias", codec.ErrInvalidSchema, st.Name)
		}
		d, err := compileStruct(st.Name, st.Fields, e)
		if err != nil {
			return err
		}
		pending[st.Name] = d
		order = append(order, st.Name)
	}
	for name := range t.Aliases {
		if _, err := e.resolve(name); err != nil {
			return err
		}
	}

	var bodies []*BodyDef
	seen := make(map[bodyKey]string)
	names := make(map[string]bool)
	for _, group := range []struct {
		family Family
		rows   []BodyTable
	}{{Transactions, t.Transactions}, {Receipts, t.Receipts}} {
		for _, bt := range group.rows {
			if names[bt.Name] {
				return fmt.Errorf("%w: body %q defined twice", codec.ErrInvalidSchema, bt.Name)
			}
			names[bt.Name] = true
			b, err := r.compileBody(group.family, bt, e, seen)
			if err != nil {
				return err
			}
			bodies = append(bodies, b)
		}
	}

	for name, target := range t.Aliases {
		r.aliases.Store(name, target)
	}
	for _, name := range order {
		r.structs.Store(name, pending[name])
		r.log.Debug("registered struct", zap.String("struct", name), zap.Int("fields", len(pending[name].Fields)))
	}
	for _, b := range bodies {
		for _, disc := range b.Discriminants {
			r.bodies.Store(bodyKey{b.Family, disc}, b)
		}
		r.names.Store(b.Name, b)
		r.log.Debug("registered body",
			zap.String("family", string(b.Family)),
			zap.String("body", b.Name),
			zap.Uint16s("discriminants", b.Discriminants))
	}
	return nil
}

func (r *Registry) compileBody(family Family, bt BodyTable, e *env, seen map[bodyKey]string) (*BodyDef, error) {
	if len(bt.Discriminants) == 0 {
		return nil, fmt.Errorf("%w: %s body %q has no discriminant", codec.ErrInvalidSchema, family, bt.Name)
	}
	if family == Transactions && bt.Version > 0xFF {
		return nil, fmt.Errorf("%w: transaction %q version %d does not fit a byte", codec.ErrInvalidSchema, bt.Name, bt.Version)
	}
	if _, ok := r.names.Load(bt.Name); ok {
		return nil, fmt.Errorf("%w: body %q already defined", codec.ErrInvalidSchema, bt.Name)
	}
	for _, disc := range bt.Discriminants {
		key := bodyKey{family, disc}
		if other, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s discriminant 0x%04X used by %q and %q", codec.ErrInvalidSchema, family, disc, other, bt.Name)
		}
		if other, ok := r.bodies.Load(key); ok {
			return nil, fmt.Errorf("%w: %s discriminant 0x%04X used by %q and %q", codec.ErrInvalidSchema, family, disc, other.Name, bt.Name)
		}
		seen[key] = bt.Name
	}
	d, err := compileStruct(bt.Name, bt.Fields, e)
	if err != nil {
		return nil, err
	}
	return &BodyDef{StructDef: d, Family: family, Discriminants: slices.Clone(bt.Discriminants), Version: bt.Version}, nil
}

// Struct returns the named shared struct.
func (r *Registry) Struct(name string) (*StructDef, error) {
	if d, ok := r.structs.Load(name); ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: no struct named %q", codec.ErrUnknownName, name)
}

// Body returns the layout registered for a discriminant of family.
func (r *Registry) Body(family Family, disc uint16) (*BodyDef, error) {
	if b, ok := r.bodies.Load(bodyKey{family, disc}); ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s type 0x%04X", codec.ErrUnknownDiscriminant, family, disc)
}

// BodyNamed returns a body by its table name.
func (r *Registry) BodyNamed(name string) (*BodyDef, error) {
	if b, ok := r.names.Load(name); ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: no body named %q", codec.ErrUnknownName, name)
}

// Bodies lists the bodies of family sorted by name.
func (r *Registry) Bodies(family Family) []*BodyDef {
	var out []*BodyDef
	r.names.Range(func(_ string, b *BodyDef) bool {
		if b.Family == family {
			out = append(out, b)
		}
		return true
	})
	slices.SortFunc(out, func(a, b *BodyDef) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Structs lists the shared structs sorted by name.
func (r *Registry) Structs() []*StructDef {
	var out []*StructDef
	r.structs.Range(func(_ string, d *StructDef) bool {
		out = append(out, d)
		return true
	})
	slices.SortFunc(out, func(a, b *StructDef) int { return strings.Compare(a.Name, b.Name) })
	return out
}
