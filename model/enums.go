package model

import (
	"fmt"
	"strings"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
)

// NetworkType is the network byte of headers and addresses.
type NetworkType uint8

const (
	Mijin       NetworkType = 0x60
	Mainnet     NetworkType = 0x68
	Private     NetworkType = 0x78
	MijinTest   NetworkType = 0x90
	Testnet     NetworkType = 0x98
	PrivateTest NetworkType = 0xA8
)

var networkNames = map[NetworkType]string{
	Mijin:       "mijin",
	Mainnet:     "mainnet",
	Private:     "private",
	MijinTest:   "mijin_test",
	Testnet:     "testnet",
	PrivateTest: "private_test",
}

func (n NetworkType) String() string {
	if s, ok := networkNames[n]; ok {
		return s
	}
	return fmt.Sprintf("network(0x%02X)", uint8(n))
}

// Known reports whether n is one of the defined networks.
func (n NetworkType) Known() bool {
	_, ok := networkNames[n]
	return ok
}

// ParseNetworkType accepts a network name (any case, '-' or '_') or its byte in decimal or hex.
func ParseNetworkType(s string) (NetworkType, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for n, v := range networkNames {
		if v == name {
			return n, nil
		}
	}
	var b uint8
	if _, err := fmt.Sscan(name, &b); err == nil && NetworkType(b).Known() {
		return NetworkType(b), nil
	}
	return 0, fmt.Errorf("%w: network %q", codec.ErrUnknownDiscriminant, s)
}

// EntityType is the discriminant of transaction bodies.
type EntityType uint16

const (
	AccountKeyLink              EntityType = 0x414C
	NodeKeyLink                 EntityType = 0x424C
	VrfKeyLink                  EntityType = 0x4243
	VotingKeyLink               EntityType = 0x4143
	AggregateComplete           EntityType = 0x4141
	AggregateBonded             EntityType = 0x4241
	HashLock                    EntityType = 0x4148
	SecretLock                  EntityType = 0x4152
	SecretProof                 EntityType = 0x4252
	AccountMetadata             EntityType = 0x4144
	MosaicMetadata              EntityType = 0x4244
	NamespaceMetadata           EntityType = 0x4344
	MosaicDefinition            EntityType = 0x414D
	MosaicSupplyChange          EntityType = 0x424D
	MosaicSupplyRevocation      EntityType = 0x434D
	MultisigAccountModification EntityType = 0x4155
	AddressAlias                EntityType = 0x424E
	MosaicAlias                 EntityType = 0x434E
	NamespaceRegistration       EntityType = 0x414E
	AccountAddressRestriction   EntityType = 0x4150
	AccountMosaicRestriction    EntityType = 0x4250
	AccountOperationRestriction EntityType = 0x4350
	MosaicAddressRestriction    EntityType = 0x4251
	MosaicGlobalRestriction     EntityType = 0x4151
	Transfer                    EntityType = 0x4154
)

var entityNames = map[EntityType]string{
	AccountKeyLink:              "AccountKeyLink",
	NodeKeyLink:                 "NodeKeyLink",
	VrfKeyLink:                  "VrfKeyLink",
	VotingKeyLink:               "VotingKeyLink",
	AggregateComplete:           "AggregateComplete",
	AggregateBonded:             "AggregateBonded",
	HashLock:                    "HashLock",
	SecretLock:                  "SecretLock",
	SecretProof:                 "SecretProof",
	AccountMetadata:             "AccountMetadata",
	MosaicMetadata:              "MosaicMetadata",
	NamespaceMetadata:           "NamespaceMetadata",
	MosaicDefinition:            "MosaicDefinition",
	MosaicSupplyChange:          "MosaicSupplyChange",
	MosaicSupplyRevocation:      "MosaicSupplyRevocation",
	MultisigAccountModification: "MultisigAccountModification",
	AddressAlias:                "AddressAlias",
	MosaicAlias:                 "MosaicAlias",
	NamespaceRegistration:       "NamespaceRegistration",
	AccountAddressRestriction:   "AccountAddressRestriction",
	AccountMosaicRestriction:    "AccountMosaicRestriction",
	AccountOperationRestriction: "AccountOperationRestriction",
	MosaicAddressRestriction:    "MosaicAddressRestriction",
	MosaicGlobalRestriction:     "MosaicGlobalRestriction",
	Transfer:                    "Transfer",
}

func (t EntityType) String() string {
	if s, ok := entityNames[t]; ok {
		return s
	}
	return fmt.Sprintf("entity(0x%04X)", uint16(t))
}

// IsAggregate reports whether t carries embedded transactions.
func (t EntityType) IsAggregate() bool {
	return t == AggregateComplete || t == AggregateBonded
}

// ReceiptType is the discriminant of receipt bodies.
type ReceiptType uint16

const (
	MosaicRentalFee        ReceiptType = 0x124D
	NamespaceRentalFee     ReceiptType = 0x134E
	HarvestFee             ReceiptType = 0x2143
	LockHashCompleted      ReceiptType = 0x2248
	LockHashExpired        ReceiptType = 0x2348
	LockSecretCompleted    ReceiptType = 0x2252
	LockSecretExpired      ReceiptType = 0x2352
	LockHashCreated        ReceiptType = 0x3148
	LockSecretCreated      ReceiptType = 0x3152
	MosaicExpired          ReceiptType = 0x414D
	NamespaceExpired       ReceiptType = 0x414E
	NamespaceDeleted       ReceiptType = 0x424E
	Inflation              ReceiptType = 0x5143
	TransactionGroup       ReceiptType = 0xE143
	AddressAliasResolution ReceiptType = 0xF143
	MosaicAliasResolution  ReceiptType = 0xF243
)

var receiptNames = map[ReceiptType]string{
	MosaicRentalFee:        "MosaicRentalFee",
	NamespaceRentalFee:     "NamespaceRentalFee",
	HarvestFee:             "HarvestFee",
	LockHashCompleted:      "LockHashCompleted",
	LockHashExpired:        "LockHashExpired",
	LockSecretCompleted:    "LockSecretCompleted",
	LockSecretExpired:      "LockSecretExpired",
	LockHashCreated:        "LockHashCreated",
	LockSecretCreated:      "LockSecretCreated",
	MosaicExpired:          "MosaicExpired",
	NamespaceExpired:       "NamespaceExpired",
	NamespaceDeleted:       "NamespaceDeleted",
	Inflation:              "Inflation",
	TransactionGroup:       "TransactionGroup",
	AddressAliasResolution: "AddressAliasResolution",
	MosaicAliasResolution:  "MosaicAliasResolution",
}

func (t ReceiptType) String() string {
	if s, ok := receiptNames[t]; ok {
		return s
	}
	return fmt.Sprintf("receipt(0x%04X)", uint16(t))
}

// Body field enumerations. They are plain bytes on the wire.

type LinkAction uint8

const (
	Unlink LinkAction = 0
	Link   LinkAction = 1
)

func (a LinkAction) String() string {
	switch a {
	case Unlink:
		return "unlink"
	case Link:
		return "link"
	}
	return fmt.Sprintf("link_action(%d)", uint8(a))
}

type AliasAction uint8

const (
	AliasUnlink AliasAction = 0
	AliasLink   AliasAction = 1
)

type MosaicSupplyChangeAction uint8

const (
	SupplyDecrease MosaicSupplyChangeAction = 0
	SupplyIncrease MosaicSupplyChangeAction = 1
)

type NamespaceRegistrationType uint8

const (
	RootNamespace  NamespaceRegistrationType = 0
	ChildNamespace NamespaceRegistrationType = 1
)

type LockHashAlgorithm uint8

const (
	HashSha3_256 LockHashAlgorithm = 0
	HashHash160  LockHashAlgorithm = 1
	HashHash256  LockHashAlgorithm = 2
)

type MosaicRestrictionType uint8

const (
	RestrictionNone MosaicRestrictionType = iota
	RestrictionEQ
	RestrictionNE
	RestrictionLT
	RestrictionLE
	RestrictionGT
	RestrictionGE
)

// MosaicFlags is a bit set of mosaic properties.
type MosaicFlags uint8

const (
	SupplyMutable MosaicFlags = 1 << iota
	Transferable
	Restrictable
	Revokable
)
