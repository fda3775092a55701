// Package address derives account addresses from public keys and converts them to
// and from their 39 character base32 form.
package address

import (
	"bytes"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/crypto/ripemd160"
	"golang.org/x/crypto/sha3"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/model"
)

const (
	// EncodedSize is the length of the base32 form.
	EncodedSize = 39

	hashSize     = 20
	checksumSize = 3
)

var ErrChecksum = errors.New("address: checksum mismatch")

// FromPublicKey computes the address of pk on network: the network byte, the
// ripemd160 of the sha3-256 of the key, and a three byte checksum.
func FromPublicKey(pk *model.PublicKey, network model.NetworkType) (*model.Address, error) {
	if err := codec.NotNull(pk, "public key"); err != nil {
		return nil, err
	}
	keyHash := sha3.Sum256(pk.Payload[:])
	h := ripemd160.New()
	h.Write(keyHash[:])

	prefixed := codec.Concat([]byte{byte(network)}, h.Sum(nil))
	return model.NewAddress(codec.Concat(prefixed, checksum(prefixed)))
}

func checksum(prefixed []byte) []byte {
	sum := sha3.Sum256(prefixed)
	return sum[:checksumSize]
}

// Valid reports whether the checksum of addr matches its network byte and hash.
func Valid(addr *model.Address) bool {
	if addr == nil {
		return false
	}
	prefixed, sum, err := codec.TakeBytes(addr.Payload[:], 1+hashSize)
	return err == nil && bytes.Equal(checksum(prefixed), sum)
}

// Network returns the network byte an address was derived for.
func Network(addr *model.Address) model.NetworkType {
	return model.NetworkType(addr.Payload[0])
}

// Encode renders addr in base32. The 24 bytes are padded with a zero byte to a
// multiple of five and the final character, which only covers padding, is dropped.
func Encode(addr *model.Address) string {
	padded := append(addr.Bytes(), 0)
	return base32.StdEncoding.EncodeToString(padded)[:EncodedSize]
}

// Parse accepts the base32 form, with or without '-' separators, or 48 hex digits.
// The checksum must be valid.
func Parse(s string) (*model.Address, error) {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))

	var raw []byte
	switch len(s) {
	case EncodedSize:
		b, err := base32.StdEncoding.DecodeString(s + "A")
		if err != nil {
			return nil, fmt.Errorf("%w: address %q: %v", codec.ErrFieldType, s, err)
		}
		raw = b[:model.AddressSize]
	case 2 * model.AddressSize:
		b, err := model.DecodeHex(s)
		if err != nil {
			return nil, err
		}
		raw = b
	default:
		return nil, fmt.Errorf("%w: address %q has %d characters", codec.ErrLengthMismatch, s, len(s))
	}

	addr, err := model.NewAddress(raw)
	if err != nil {
		return nil, err
	}
	if !Valid(addr) {
		return nil, fmt.Errorf("%w: %s", ErrChecksum, s)
	}
	return addr, nil
}
