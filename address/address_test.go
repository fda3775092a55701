package address

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/model"
)

const publicKeyHex = "2E834140FD66CF87B254A693A2C7862C819217B676D3943267156625E816EC6F"

func publicKey(t *testing.T) *model.PublicKey {
	pk, err := model.ParsePublicKey(publicKeyHex)
	require.NoError(t, err)
	return pk
}

func TestFromPublicKey(t *testing.T) {
	tests := []struct {
		network model.NetworkType
		prefix  string
	}{
		{model.Testnet, "T"},
		{model.Mainnet, "N"},
		{model.PrivateTest, "V"},
		{model.Private, "P"},
		{model.Mijin, "M"},
		{model.MijinTest, "S"},
	}
	for _, tt := range tests {
		t.Run(tt.network.String(), func(t *testing.T) {
			addr, err := FromPublicKey(publicKey(t), tt.network)
			require.NoError(t, err)
			assert.True(t, Valid(addr))
			assert.Equal(t, tt.network, Network(addr))

			text := Encode(addr)
			assert.Len(t, text, EncodedSize)
			assert.True(t, strings.HasPrefix(text, tt.prefix), text)

			parsed, err := Parse(text)
			require.NoError(t, err)
			assert.Equal(t, addr.Bytes(), parsed.Bytes())
		})
	}
}

func TestKnownTestnetAddress(t *testing.T) {
	addr, err := FromPublicKey(publicKey(t), model.Testnet)
	require.NoError(t, err)
	assert.Equal(t, "TATNE7Q5BITMUTRRN6IB4I7FLSDRDWZA37JGO5Q", Encode(addr))
}

func TestDerivationDependsOnKeyAndNetwork(t *testing.T) {
	a, err := FromPublicKey(publicKey(t), model.Testnet)
	require.NoError(t, err)
	b, err := FromPublicKey(publicKey(t), model.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, a.Bytes()[1:21], b.Bytes()[1:21], "same key hash")
	assert.NotEqual(t, a.Bytes()[21:], b.Bytes()[21:], "checksum covers the network byte")

	other, err := model.NewPublicKey(make([]byte, model.PublicKeySize))
	require.NoError(t, err)
	c, err := FromPublicKey(other, model.Testnet)
	require.NoError(t, err)
	assert.NotEqual(t, a.Bytes(), c.Bytes())

	_, err = FromPublicKey(nil, model.Testnet)
	assert.ErrorIs(t, err, codec.ErrMissingField)
}

func TestParseForms(t *testing.T) {
	addr, err := FromPublicKey(publicKey(t), model.Testnet)
	require.NoError(t, err)
	text := Encode(addr)

	dashed := text[:6] + "-" + text[6:12] + "-" + text[12:]
	parsed, err := Parse(strings.ToLower(dashed))
	require.NoError(t, err)
	assert.Equal(t, addr.Bytes(), parsed.Bytes())

	parsed, err = Parse(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr.Bytes(), parsed.Bytes())
}

func TestParseRejects(t *testing.T) {
	addr, err := FromPublicKey(publicKey(t), model.Testnet)
	require.NoError(t, err)
	text := Encode(addr)

	tampered := []byte(text)
	if tampered[10] == 'A' {
		tampered[10] = 'B'
	} else {
		tampered[10] = 'A'
	}
	_, err = Parse(string(tampered))
	assert.ErrorIs(t, err, ErrChecksum)

	raw := addr.Bytes()
	raw[5] ^= 0xFF
	flipped, err := model.NewAddress(raw)
	require.NoError(t, err)
	assert.False(t, Valid(flipped))
	assert.False(t, Valid(nil))

	_, err = Parse(text[:30])
	assert.ErrorIs(t, err, codec.ErrLengthMismatch)

	_, err = Parse(strings.Repeat("1", EncodedSize))
	assert.ErrorIs(t, err, codec.ErrFieldType)
}
