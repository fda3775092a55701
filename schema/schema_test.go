package schema

import (
	"bytes"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/model"
)

const testTable = `
aliases:
  Amount: uint64
  Key: PublicKey
structs:
  - name: Pair
    fields:
      - {name: id, type: uint64}
      - {name: amount, type: Amount}
transactions:
  - name: Sample
    discriminants: [0x4154, 0x4155]
    version: 2
    fields:
      - {name: signer, type: Key}
      - {name: note_size, type: uint16}
      - {name: pairs_count, type: uint8}
      - {name: reserved_1, type: uint32, reserved: true}
      - {name: delta, type: int16}
      - {name: pairs, type: Pair, count: pairs_count}
      - {name: note, type: bytes, size: note_size}
receipts:
  - name: Tagged
    discriminants: [0x124D]
    version: 1
    fields:
      - {name: pair, type: Pair}
      - {name: tags_size, type: uint32}
      - {name: tags, type: uint16, size: tags_size, alignment: 4}
      - {name: tail, type: uint8, remaining: true}
`

type SchemaTestSuite struct {
	suite.Suite
	reg  *Registry
	logs *observer.ObservedLogs
}

func (s *SchemaTestSuite) SetupTest() {
	core, logs := observer.New(zap.DebugLevel)
	s.logs = logs
	s.reg = NewRegistry(WithLogger(zap.New(core)))
	s.Require().NoError(s.reg.LoadYAML([]byte(testTable)))
}

func (s *SchemaTestSuite) sample(pairs []any, note string) *Struct {
	body, err := s.reg.BodyNamed("Sample")
	s.Require().NoError(err)
	v, err := body.New(Values{
		"signer": bytes.Repeat([]byte{0x11}, 32),
		"delta":  -2,
		"pairs":  pairs,
		"note":   note,
	})
	s.Require().NoError(err)
	return v
}

func (s *SchemaTestSuite) TestRegistryLookups() {
	b1, err := s.reg.Body(Transactions, 0x4154)
	s.Require().NoError(err)
	b2, err := s.reg.Body(Transactions, 0x4155)
	s.Require().NoError(err)
	s.Assert().Same(b1, b2)
	s.Assert().EqualValues(2, b1.Version)

	_, err = s.reg.Body(Receipts, 0x4154)
	s.Assert().ErrorIs(err, codec.ErrUnknownDiscriminant)
	_, err = s.reg.Body(Transactions, 0xFFFF)
	s.Assert().ErrorIs(err, codec.ErrUnknownDiscriminant)

	s.Assert().Len(s.reg.Bodies(Transactions), 1)
	s.Assert().Len(s.reg.Bodies(Receipts), 1)
	s.Assert().Len(s.reg.Structs(), 1)

	_, err = s.reg.Struct("Missing")
	s.Assert().ErrorIs(err, codec.ErrUnknownName)
	s.Assert().NotErrorIs(err, codec.ErrUnknownDiscriminant)
	_, err = s.reg.BodyNamed("Missing")
	s.Assert().ErrorIs(err, codec.ErrUnknownName)

	s.Assert().NotZero(s.logs.FilterMessage("registered body").Len())
}

func (s *SchemaTestSuite) TestExactLayout() {
	v := s.sample([]any{Values{"id": 1, "amount": uint64(2)}}, "hi")

	expected := codec.Concat(
		bytes.Repeat([]byte{0x11}, 32),
		[]byte{0x02, 0x00},             // note_size
		[]byte{0x01},                   // pairs_count
		[]byte{0x00, 0x00, 0x00, 0x00}, // reserved
		[]byte{0xFE, 0xFF},             // delta
		[]byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0},
		[]byte("hi"),
	)
	data, err := v.MarshalBinary()
	s.Require().NoError(err)
	s.Assert().Equal(expected, data)
	s.Assert().Equal(len(expected), v.Size())

	size, err := v.Uint("note_size")
	s.Require().NoError(err)
	s.Assert().EqualValues(2, size)
	count, err := v.Uint("pairs_count")
	s.Require().NoError(err)
	s.Assert().EqualValues(1, count)
	delta, err := v.Int("delta")
	s.Require().NoError(err)
	s.Assert().EqualValues(-2, delta)
}

func (s *SchemaTestSuite) TestRoundTrip() {
	body, _ := s.reg.BodyNamed("Sample")
	v := s.sample([]any{
		Values{"id": 1, "amount": 2},
		map[string]any{"id": codec.Word64{Low: 0xFFFFFFFF, High: 1}, "amount": 0},
	}, "")
	data, err := v.MarshalBinary()
	s.Require().NoError(err)

	back, err := body.Decode(append(data, 0xAA))
	s.Require().NoError(err)
	s.Assert().True(v.Equal(back))

	again, err := back.MarshalBinary()
	s.Require().NoError(err)
	s.Assert().Equal(data, again)

	pairs, err := back.List("pairs")
	s.Require().NoError(err)
	s.Require().Len(pairs, 2)
	id, err := pairs[1].(*Struct).Uint("id")
	s.Require().NoError(err)
	s.Assert().Equal(uint64(0x1FFFFFFFF), id)
}

func (s *SchemaTestSuite) TestSizeAdditivity() {
	v := s.sample([]any{Values{"id": 1, "amount": 2}, Values{"id": 3, "amount": 4}}, "hello")
	pair, _ := s.reg.Struct("Pair")
	p, err := pair.New(Values{"id": 1, "amount": 2})
	s.Require().NoError(err)

	s.Assert().Equal(16, p.Size())
	s.Assert().Equal(32+2+1+4+2+2*p.Size()+5, v.Size())
}

func (s *SchemaTestSuite) TestAlignedSizedArrayAndRemaining() {
	body, _ := s.reg.BodyNamed("Tagged")
	v, err := body.New(Values{
		"pair": Values{"id": 9, "amount": 10},
		"tags": []uint16{1, 2, 3},
		"tail": []int{7, 8},
	})
	s.Require().NoError(err)

	data, err := v.MarshalBinary()
	s.Require().NoError(err)
	s.Assert().Equal(codec.Concat(
		[]byte{9, 0, 0, 0, 0, 0, 0, 0, 10, 0, 0, 0, 0, 0, 0, 0},
		[]byte{10, 0, 0, 0},
		[]byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0},
		[]byte{7, 8},
	), data)

	back, err := body.Decode(data)
	s.Require().NoError(err)
	s.Assert().Equal(v.Describe(), back.Describe())
	s.Assert().Equal([]any{uint64(1), uint64(2), uint64(3)}, back.Describe()["tags"])
}

func (s *SchemaTestSuite) TestConstructionErrors() {
	body, _ := s.reg.BodyNamed("Sample")
	valid := func() Values {
		return Values{"signer": make([]byte, 32), "delta": 0, "pairs": []any{}, "note": []byte{}}
	}

	tests := []struct {
		name   string
		mutate func(Values)
		want   error
	}{
		{"MissingField", func(v Values) { delete(v, "signer") }, codec.ErrMissingField},
		{"NilField", func(v Values) { v["note"] = nil }, codec.ErrMissingField},
		{"NilArray", func(v Values) { v["pairs"] = []any(nil) }, codec.ErrMissingField},
		{"ShortKey", func(v Values) { v["signer"] = make([]byte, 31) }, codec.ErrLengthMismatch},
		{"DeltaOverflow", func(v Values) { v["delta"] = 40000 }, codec.ErrOutOfRange},
		{"WrongType", func(v Values) { v["delta"] = "one" }, codec.ErrFieldType},
		{"UnknownField", func(v Values) { v["bogus"] = 1 }, codec.ErrFieldType},
		{"DerivedField", func(v Values) { v["pairs_count"] = 1 }, codec.ErrFieldType},
		{"ReservedField", func(v Values) { v["reserved_1"] = 0 }, codec.ErrFieldType},
		{"BadElement", func(v Values) { v["pairs"] = []any{Values{"id": -1, "amount": 0}} }, codec.ErrOutOfRange},
		{"NoteTooLong", func(v Values) { v["note"] = make([]byte, 70000) }, codec.ErrOutOfRange},
	}
	for _, tt := range tests {
		s.T().Run(tt.name, func(t *testing.T) {
			v := valid()
			tt.mutate(v)
			_, err := body.New(v)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	s.T().Run("CountOutOfRange", func(t *testing.T) {
		pairs := make([]any, 256)
		for i := range pairs {
			pairs[i] = Values{"id": i, "amount": i}
		}
		v := valid()
		v["pairs"] = pairs
		_, err := body.New(v)
		assert.ErrorIs(t, err, codec.ErrOutOfRange)
	})

	s.T().Run("Wrapper", func(t *testing.T) {
		key, err := model.NewPublicKey(make([]byte, 32))
		require.NoError(t, err)
		v := valid()
		v["signer"] = key
		_, err = body.New(v)
		assert.NoError(t, err)

		v["signer"], _ = model.NewHash256(make([]byte, 32))
		_, err = body.New(v)
		assert.ErrorIs(t, err, codec.ErrFieldType)
	})
}

func (s *SchemaTestSuite) TestTruncation() {
	body, _ := s.reg.BodyNamed("Sample")
	v := s.sample([]any{Values{"id": 1, "amount": 2}}, "hi")
	data, err := v.MarshalBinary()
	s.Require().NoError(err)

	for _, cut := range []int{1, 2, 3, 20, len(data) - 32} {
		_, err := body.Decode(data[:len(data)-cut])
		s.Assert().ErrorIs(err, codec.ErrInsufficientBytes, "cut %d", cut)
	}
}

func TestForgedBlobLength(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.LoadYAML([]byte(`
structs:
  - name: Wide
    fields:
      - {name: data_size, type: uint64}
      - {name: data, type: bytes, size: data_size}
  - name: Narrow
    fields:
      - {name: data_size, type: uint32}
      - {name: data, type: bytes, size: data_size}
`)))
	wide, err := reg.Struct("Wide")
	require.NoError(t, err)
	narrow, err := reg.Struct("Narrow")
	require.NoError(t, err)

	_, err = wide.Decode([]byte{0, 0, 0, 0, 0, 0, 0, 0x40, 0xAA})
	assert.ErrorIs(t, err, codec.ErrInsufficientBytes)

	_, err = wide.Decode([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xAA})
	assert.ErrorIs(t, err, codec.ErrOutOfRange)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err = narrow.Decode([]byte{0x00, 0x00, 0x00, 0x10, 0xAA})
	runtime.ReadMemStats(&after)
	assert.ErrorIs(t, err, codec.ErrInsufficientBytes)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))

	v, err := narrow.New(Values{"data": bytes.Repeat([]byte{7}, 100_000)})
	require.NoError(t, err)
	data, err := v.MarshalBinary()
	require.NoError(t, err)
	decoded, err := narrow.Decode(data)
	require.NoError(t, err)
	got, err := decoded.Bytes("data")
	require.NoError(t, err)
	assert.Len(t, got, 100_000)
}

func (s *SchemaTestSuite) TestAccessors() {
	v := s.sample([]any{Values{"id": 1, "amount": 2}}, "hi")

	note, err := v.Bytes("note")
	s.Require().NoError(err)
	s.Assert().Equal([]byte("hi"), note)

	signer, err := v.Codec("signer")
	s.Require().NoError(err)
	s.Assert().IsType(&model.PublicKey{}, signer)

	_, err = v.Uint("signer")
	s.Assert().ErrorIs(err, codec.ErrFieldType)
	_, err = v.List("note")
	s.Assert().ErrorIs(err, codec.ErrFieldType)
	_, err = v.Struct("pairs")
	s.Assert().ErrorIs(err, codec.ErrFieldType)
	_, err = v.Uint("nope")
	s.Assert().ErrorIs(err, codec.ErrMissingField)

	_, ok := v.Get("pairs_count")
	s.Assert().False(ok, "derived fields are not stored")

	d := v.Describe()
	s.Assert().Equal(strings.Repeat("11", 32), d["signer"])
	s.Assert().Equal(int64(-2), d["delta"])
	s.Assert().Equal("6869", d["note"])
	s.Assert().NotContains(d, "note_size")
}

func (s *SchemaTestSuite) TestConcurrentReads() {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := s.reg.Body(Transactions, 0x4154)
			assert.NoError(s.T(), err)
			assert.Equal(s.T(), "Sample", b.Name)
		}()
	}
	wg.Wait()
}

func TestSchema(t *testing.T) {
	suite.Run(t, new(SchemaTestSuite))
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		table string
	}{
		{"UnknownType", `
structs:
  - name: A
    fields: [{name: x, type: Nope}]`},
		{"ForwardReference", `
structs:
  - name: A
    fields:
      - {name: items, type: uint8, count: n}
      - {name: n, type: uint8}`},
		{"TwoReferrers", `
structs:
  - name: A
    fields:
      - {name: n, type: uint8}
      - {name: a, type: uint8, count: n}
      - {name: b, type: uint8, count: n}`},
		{"NonIntegerLength", `
structs:
  - name: A
    fields:
      - {name: k, type: Hash256}
      - {name: a, type: uint8, count: k}`},
		{"DuplicateField", `
structs:
  - name: A
    fields: [{name: x, type: uint8}, {name: x, type: uint16}]`},
		{"ReservedWrapper", `
structs:
  - name: A
    fields: [{name: x, type: Hash256, reserved: true}]`},
		{"RemainingNotLast", `
structs:
  - name: A
    fields:
      - {name: a, type: uint8, remaining: true}
      - {name: b, type: uint8}`},
		{"BlobWithoutSize", `
structs:
  - name: A
    fields: [{name: x, type: bytes}]`},
		{"AlignedScalar", `
structs:
  - name: A
    fields: [{name: x, type: uint8, alignment: 8}]`},
		{"ExclusiveModes", `
structs:
  - name: A
    fields:
      - {name: n, type: uint8}
      - {name: a, type: uint8, count: n, remaining: true}`},
		{"AliasCycle", `
aliases: {A: B, B: A}`},
		{"AliasShadowsBuiltin", `
aliases: {uint8: uint16}`},
		{"DuplicateDiscriminant", `
transactions:
  - {name: A, discriminants: [1], version: 1, fields: []}
  - {name: B, discriminants: [1], version: 1, fields: []}`},
		{"NoDiscriminant", `
receipts:
  - {name: A, discriminants: [], version: 1, fields: []}`},
		{"TransactionVersionTooWide", `
transactions:
  - {name: A, discriminants: [1], version: 300, fields: []}`},
		{"UnknownKey", `
structs:
  - name: A
    fields: [{name: x, type: uint8, widht: 3}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			err := reg.LoadYAML([]byte(tt.table))
			assert.ErrorIs(t, err, codec.ErrInvalidSchema)
			assert.Empty(t, reg.Structs(), "a failed load registers nothing")
		})
	}
}

func TestLoadIsIncremental(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.LoadYAML([]byte(testTable)))

	err := reg.LoadYAML([]byte(`
transactions:
  - name: Clash
    discriminants: [0x4155]
    version: 1
    fields: []`))
	assert.ErrorIs(t, err, codec.ErrInvalidSchema)

	require.NoError(t, reg.LoadYAML([]byte(`
structs:
  - name: Wrapped
    fields: [{name: inner, type: Pair}, {name: key, type: Key}]`)))
	d, err := reg.Struct("Wrapped")
	require.NoError(t, err)
	assert.Len(t, d.Fields, 2)
	assert.Equal(t, KindStruct, d.Fields[0].Kind)
	assert.Equal(t, KindWrapper, d.Fields[1].Kind)
}

func TestExternalType(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterExternal("Stamp", func() codec.Codec { return new(codec.Blob) }))
	assert.ErrorIs(t, reg.RegisterExternal("Stamp", func() codec.Codec { return new(codec.Blob) }), codec.ErrInvalidSchema)
	assert.ErrorIs(t, reg.RegisterExternal("Hash256", func() codec.Codec { return new(codec.Blob) }), codec.ErrInvalidSchema)

	require.NoError(t, reg.LoadYAML([]byte(`
structs:
  - name: Holder
    fields:
      - {name: stamp, type: Stamp}`)))
	d, err := reg.Struct("Holder")
	require.NoError(t, err)
	assert.Equal(t, KindExternal, d.Fields[0].Kind)

	v, err := d.New(Values{"stamp": codec.NewBlob([]byte{1, 2})})
	require.NoError(t, err)
	data, err := v.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, data)

	_, err = d.New(Values{"stamp": []byte{1, 2}})
	assert.ErrorIs(t, err, codec.ErrFieldType)
}
