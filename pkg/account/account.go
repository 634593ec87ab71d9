package account

import (
	"crypto/ed25519"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/movekit/aptos-fa-sdk-go/pkg/shared"
)

// SignatureScheme selects the key scheme an account signs with.
type SignatureScheme string

const (
	SchemeEd25519   SignatureScheme = "ed25519"
	SchemeSecp256k1 SignatureScheme = "secp256k1"
)

// Authentication key scheme suffixes, per the account authentication
// key derivation rules.
const (
	authKeySuffixEd25519   = 0x00
	authKeySuffixSingleKey = 0x02
)

const (
	ed25519SeedLength      = 32
	secp256k1PrivateLength = 32
)

// Account holds a keypair and the address bound to it. The address is
// derived from the key material at construction (or explicitly rebound
// with WithAddress) and never mutated afterwards.
type Account struct {
	scheme      SignatureScheme
	ed25519Key  ed25519.PrivateKey
	secp256kKey *btcec.PrivateKey
	address     AccountAddress
}

// NewEd25519Account generates a fresh ed25519 account.
func NewEd25519Account() (*Account, error) {
	_, privateKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}
	return newEd25519Account(privateKey), nil
}

// Ed25519AccountFromSeed builds an account from a 32-byte ed25519 seed.
func Ed25519AccountFromSeed(seed []byte) (*Account, error) {
	if len(seed) != ed25519SeedLength {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519SeedLength, len(seed))
	}
	return newEd25519Account(ed25519.NewKeyFromSeed(seed)), nil
}

// Ed25519AccountFromHex builds an account from a hex-encoded ed25519 seed
// with an optional 0x prefix, the form private key files use.
func Ed25519AccountFromHex(raw string) (*Account, error) {
	seed, err := shared.ParseHexKey(raw)
	if err != nil {
		return nil, err
	}
	return Ed25519AccountFromSeed(seed)
}

// NewSecp256k1Account generates a fresh secp256k1 single-key account.
func NewSecp256k1Account() (*Account, error) {
	privateKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secp256k1 key: %w", err)
	}
	return newSecp256k1Account(privateKey), nil
}

// Secp256k1AccountFromHex builds a single-key secp256k1 account from a
// hex-encoded private key with an optional 0x prefix.
func Secp256k1AccountFromHex(raw string) (*Account, error) {
	decoded, err := shared.ParseHexKey(raw)
	if err != nil {
		return nil, err
	}
	if len(decoded) != secp256k1PrivateLength {
		return nil, fmt.Errorf("secp256k1 private key must be %d bytes, got %d", secp256k1PrivateLength, len(decoded))
	}
	privateKey, _ := btcec.PrivKeyFromBytes(decoded)
	return newSecp256k1Account(privateKey), nil
}

func newEd25519Account(privateKey ed25519.PrivateKey) *Account {
	accountValue := &Account{
		scheme:     SchemeEd25519,
		ed25519Key: privateKey,
	}
	accountValue.address = accountValue.AuthKey()
	return accountValue
}

func newSecp256k1Account(privateKey *btcec.PrivateKey) *Account {
	accountValue := &Account{
		scheme:      SchemeSecp256k1,
		secp256kKey: privateKey,
	}
	accountValue.address = accountValue.AuthKey()
	return accountValue
}

// WithAddress returns a copy of the account bound to an explicit address.
// Used when the on-chain address no longer equals the authentication key,
// or when an owner address is configured out of band.
func (accountValue *Account) WithAddress(address AccountAddress) *Account {
	rebound := *accountValue
	rebound.address = address
	return &rebound
}

// Scheme returns the account's signature scheme.
func (accountValue *Account) Scheme() SignatureScheme {
	return accountValue.scheme
}

// Address returns the account's bound address.
func (accountValue *Account) Address() AccountAddress {
	return accountValue.address
}

// PublicKeyBytes returns the raw public key: 32 bytes for ed25519,
// 65 uncompressed bytes for secp256k1.
func (accountValue *Account) PublicKeyBytes() []byte {
	switch accountValue.scheme {
	case SchemeSecp256k1:
		return accountValue.secp256kKey.PubKey().SerializeUncompressed()
	default:
		publicKey := accountValue.ed25519Key.Public().(ed25519.PublicKey)
		return []byte(publicKey)
	}
}

// AuthKey derives the account's authentication key from its public key.
// For ed25519 this is sha3-256(publicKey || 0x00); for secp256k1 single
// -key accounts it is sha3-256(bcs(AnyPublicKey) || 0x02).
func (accountValue *Account) AuthKey() AccountAddress {
	digest := sha3.New256()

	switch accountValue.scheme {
	case SchemeSecp256k1:
		publicKey := accountValue.PublicKeyBytes()
		// bcs(AnyPublicKey::Secp256k1Ecdsa): variant index 1, then the
		// length-prefixed key bytes.
		digest.Write([]byte{0x01, byte(len(publicKey))})
		digest.Write(publicKey)
		digest.Write([]byte{authKeySuffixSingleKey})
	default:
		digest.Write(accountValue.PublicKeyBytes())
		digest.Write([]byte{authKeySuffixEd25519})
	}

	var authKey AccountAddress
	copy(authKey[:], digest.Sum(nil))
	return authKey
}

// SignMessage signs an already domain-separated message. Ed25519 signs
// the message directly; secp256k1 signs its sha3-256 digest and returns
// the 64-byte r||s form. Signing is deterministic for both schemes.
func (accountValue *Account) SignMessage(message []byte) ([]byte, error) {
	switch accountValue.scheme {
	case SchemeSecp256k1:
		digest := sha3.Sum256(message)
		compact := btcecdsa.SignCompact(accountValue.secp256kKey, digest[:], false)
		if len(compact) != 65 {
			return nil, fmt.Errorf("unexpected compact signature length %d", len(compact))
		}
		// Strip the recovery header; on-chain verification takes r||s.
		return compact[1:], nil
	default:
		return ed25519.Sign(accountValue.ed25519Key, message), nil
	}
}
