package account

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/novifinancial/serde-reflection/serde-generate/runtime/golang/serde"
)

// AddressLength is the fixed byte length of on-chain account addresses.
const AddressLength = 32

// AccountAddress is a fixed-length account identifier. Addresses are
// derived from key material at account construction and never mutated.
type AccountAddress [AddressLength]uint8

// ParseAddress parses a hex address with an optional 0x prefix. Short
// forms are accepted and left-padded with zeros, so "0x1" and the full
// 64-character form identify the same account.
func ParseAddress(raw string) (AccountAddress, error) {
	var address AccountAddress

	candidate := strings.TrimSpace(strings.ToLower(raw))
	candidate = strings.TrimPrefix(candidate, "0x")
	if candidate == "" {
		return address, fmt.Errorf("address cannot be empty")
	}
	if len(candidate) > AddressLength*2 {
		return address, fmt.Errorf("address %q exceeds %d bytes", raw, AddressLength)
	}
	if len(candidate)%2 == 1 {
		candidate = "0" + candidate
	}

	decoded, err := hex.DecodeString(candidate)
	if err != nil {
		return address, fmt.Errorf("address %q is not valid hex: %w", raw, err)
	}

	copy(address[AddressLength-len(decoded):], decoded)
	return address, nil
}

// MustParseAddress is ParseAddress for known-good literals.
func MustParseAddress(raw string) AccountAddress {
	address, err := ParseAddress(raw)
	if err != nil {
		panic(err)
	}
	return address
}

// String returns the full-length 0x-prefixed hex form.
func (address AccountAddress) String() string {
	return "0x" + hex.EncodeToString(address[:])
}

// Short returns the 0x-prefixed hex form with leading zeros trimmed.
func (address AccountAddress) Short() string {
	trimmed := strings.TrimLeft(hex.EncodeToString(address[:]), "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return "0x" + trimmed
}

// IsZero reports whether the address is all zero bytes.
func (address AccountAddress) IsZero() bool {
	return address == AccountAddress{}
}

// Serialize writes the address in canonical form: the raw fixed-length
// bytes with no length prefix.
func (address AccountAddress) Serialize(serializer serde.Serializer) error {
	if err := serializer.IncreaseContainerDepth(); err != nil {
		return err
	}
	for _, item := range address {
		if err := serializer.SerializeU8(item); err != nil {
			return err
		}
	}
	serializer.DecreaseContainerDepth()
	return nil
}

// DeserializeAddress reads a fixed-length address.
func DeserializeAddress(deserializer serde.Deserializer) (AccountAddress, error) {
	var address AccountAddress
	if err := deserializer.IncreaseContainerDepth(); err != nil {
		return address, err
	}
	for index := range address {
		item, err := deserializer.DeserializeU8()
		if err != nil {
			return address, err
		}
		address[index] = item
	}
	deserializer.DecreaseContainerDepth()
	return address, nil
}
