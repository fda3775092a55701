// Package model holds the fixed-width value wrappers of the wire format and the
// enumerations carried in headers. Every wrapper embeds codec.Fixed, so its size is a
// property of the type and its content is opaque to the codec.
package model

import (
	"bytes"
	"encoding/hex"
	"fmt"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
)

const (
	Hash256Size   = 32
	PublicKeySize = 32
	VotingKeySize = 32
	SignatureSize = 64
	AddressSize   = 24
)

type Hash256 struct{ codec.Fixed[[Hash256Size]byte] }
type PublicKey struct{ codec.Fixed[[PublicKeySize]byte] }
type VotingKey struct{ codec.Fixed[[VotingKeySize]byte] }
type Signature struct{ codec.Fixed[[SignatureSize]byte] }
type Address struct{ codec.Fixed[[AddressSize]byte] }

var (
	_ codec.Codec = (*Hash256)(nil)
	_ codec.Codec = (*PublicKey)(nil)
	_ codec.Codec = (*VotingKey)(nil)
	_ codec.Codec = (*Signature)(nil)
	_ codec.Codec = (*Address)(nil)
)

// fill copies src into dst, which must be exactly as long.
func fill(dst, src []byte, name string) error {
	if src == nil {
		return fmt.Errorf("%w: %s bytes", codec.ErrMissingField, name)
	}
	if len(src) != len(dst) {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", codec.ErrLengthMismatch, name, len(dst), len(src))
	}
	copy(dst, src)
	return nil
}

func upperHex(b []byte) string { return fmt.Sprintf("%X", b) }

func NewHash256(b []byte) (*Hash256, error) {
	v := new(Hash256)
	if err := fill(v.Payload[:], b, "Hash256"); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Hash256) Bytes() []byte  { return bytes.Clone(v.Payload[:]) }
func (v *Hash256) String() string { return upperHex(v.Payload[:]) }

func NewPublicKey(b []byte) (*PublicKey, error) {
	v := new(PublicKey)
	if err := fill(v.Payload[:], b, "PublicKey"); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *PublicKey) Bytes() []byte  { return bytes.Clone(v.Payload[:]) }
func (v *PublicKey) String() string { return upperHex(v.Payload[:]) }

func NewVotingKey(b []byte) (*VotingKey, error) {
	v := new(VotingKey)
	if err := fill(v.Payload[:], b, "VotingKey"); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *VotingKey) Bytes() []byte  { return bytes.Clone(v.Payload[:]) }
func (v *VotingKey) String() string { return upperHex(v.Payload[:]) }

func NewSignature(b []byte) (*Signature, error) {
	v := new(Signature)
	if err := fill(v.Payload[:], b, "Signature"); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Signature) Bytes() []byte  { return bytes.Clone(v.Payload[:]) }
func (v *Signature) String() string { return upperHex(v.Payload[:]) }

// NewAddress wraps a decoded 24-byte address. The checksum is not verified here;
// see package address for that.
func NewAddress(b []byte) (*Address, error) {
	v := new(Address)
	if err := fill(v.Payload[:], b, "Address"); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Address) Bytes() []byte  { return bytes.Clone(v.Payload[:]) }
func (v *Address) String() string { return upperHex(v.Payload[:]) }

// DecodeHex parses a hex string of any case. An empty string is a missing value.
func DecodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty hex string", codec.ErrMissingField)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrFieldType, err)
	}
	return b, nil
}

// ParsePublicKey reads a public key from its hex form.
func ParsePublicKey(s string) (*PublicKey, error) {
	b, err := DecodeHex(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKey(b)
}
