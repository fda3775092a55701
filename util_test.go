package codec

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaddedSize(t *testing.T) {
	tests := []struct {
		size, align, want int
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{5, 0, 5},
		{5, 1, 5},
		{5, 3, 6},
		{17, 16, 32},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PaddedSize(tt.size, tt.align), "size=%d align=%d", tt.size, tt.align)
		assert.Equal(t, tt.want-tt.size, PaddingSize(tt.size, tt.align))
	}
}

func TestConcat(t *testing.T) {
	a := []byte{1, 2}
	out := Concat(a, nil, []byte{3})
	assert.Equal(t, []byte{1, 2, 3}, out)

	out[0] = 9
	assert.Equal(t, byte(1), a[0], "result must not alias an input")
	assert.Empty(t, Concat())
}

func TestTakeBytes(t *testing.T) {
	head, rest, err := TakeBytes([]byte{1, 2, 3}, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, head)
	assert.Equal(t, []byte{3}, rest)

	_, _, err = TakeBytes([]byte{1}, 2)
	assert.ErrorIs(t, err, ErrInsufficientBytes)
	_, _, err = TakeBytes([]byte{1}, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestNotNull(t *testing.T) {
	var typedNil *odd
	assert.ErrorIs(t, NotNull(nil, "x"), ErrMissingField)
	assert.ErrorIs(t, NotNull(typedNil, "x"), ErrMissingField)
	assert.NoError(t, NotNull(newOdd(1), "x"))
	assert.NoError(t, NotNull(0, "x"))
}

func TestDiscard(t *testing.T) {
	n, err := Discard(bytes.NewReader(make([]byte, 10)), 10)
	require.NoError(t, err)
	assert.EqualValues(t, 10, n)

	_, err = Discard(bytes.NewReader(make([]byte, 3)), 4)
	assert.ErrorIs(t, err, ErrInsufficientBytes)

	_, err = Discard(bytes.NewReader(nil), -1)
	assert.ErrorIs(t, err, ErrDiscardNegative)

	n, err = Discard(bytes.NewReader(make([]byte, BUFFER_SIZE*2)), BUFFER_SIZE+1)
	require.NoError(t, err)
	assert.EqualValues(t, BUFFER_SIZE+1, n)
}

func TestCheckTrailingNotZeros(t *testing.T) {
	n, err := CheckTrailingNotZeros(bytes.NewReader([]byte{0, 0, 0}))
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	_, err = CheckTrailingNotZeros(bytes.NewReader([]byte{0, 7}))
	assert.ErrorIs(t, err, ErrTrailingData)

	n, err = CheckTrailingNotZeros(bytes.NewReader(make([]byte, 2*CHUNK_SIZE+1)))
	require.NoError(t, err)
	assert.EqualValues(t, 2*CHUNK_SIZE+1, n)

	late := make([]byte, CHUNK_SIZE+10)
	late[CHUNK_SIZE+4] = 1
	_, err = CheckTrailingNotZeros(bytes.NewReader(late))
	assert.ErrorIs(t, err, ErrTrailingData)
	assert.ErrorContains(t, err, fmt.Sprintf("offset %d", CHUNK_SIZE+4))

	n, err = CheckTrailingNotZeros(NewBytesReader(nil))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLimitReader(t *testing.T) {
	src := bytes.NewReader([]byte{1, 2, 3, 4, 5})
	lr := LimitReader(src, 3)
	var out bytes.Buffer
	n, err := lr.WriteTo(&out)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, []byte{1, 2, 3}, out.Bytes())
	assert.Zero(t, lr.Remaining())
	assert.Equal(t, 2, src.Len())
}

func TestPeekReaderHasMore(t *testing.T) {
	pr := PeekReader(bytes.NewReader([]byte{7}))
	assert.True(t, pr.HasMore())
	b := make([]byte, 1)
	_, err := pr.Read(b)
	require.NoError(t, err)
	assert.Equal(t, byte(7), b[0])
	assert.False(t, pr.HasMore())
}
