package chain

import (
	"fmt"

	"github.com/novifinancial/serde-reflection/serde-generate/runtime/golang/bcs"
	"github.com/novifinancial/serde-reflection/serde-generate/runtime/golang/serde"
	"golang.org/x/crypto/sha3"

	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
)

// rawTransactionSalt domain-separates transaction signing messages from
// any other signed payload.
const rawTransactionSalt = "APTOS::RawTransaction"

// Identifier is a Move identifier (module or function name).
type Identifier string

// Serialize writes the identifier as a length-prefixed string.
func (identifier Identifier) Serialize(serializer serde.Serializer) error {
	if err := serializer.IncreaseContainerDepth(); err != nil {
		return err
	}
	if err := serializer.SerializeStr(string(identifier)); err != nil {
		return err
	}
	serializer.DecreaseContainerDepth()
	return nil
}

func deserializeIdentifier(deserializer serde.Deserializer) (Identifier, error) {
	if err := deserializer.IncreaseContainerDepth(); err != nil {
		return "", err
	}
	value, err := deserializer.DeserializeStr()
	if err != nil {
		return "", err
	}
	deserializer.DecreaseContainerDepth()
	return Identifier(value), nil
}

// ModuleID names a deployed Move module by publisher address and name.
type ModuleID struct {
	Address account.AccountAddress
	Name    Identifier
}

// String renders the module in address::name form.
func (module ModuleID) String() string {
	return fmt.Sprintf("%s::%s", module.Address.Short(), module.Name)
}

// Serialize writes the module identifier in canonical field order.
func (module ModuleID) Serialize(serializer serde.Serializer) error {
	if err := serializer.IncreaseContainerDepth(); err != nil {
		return err
	}
	if err := module.Address.Serialize(serializer); err != nil {
		return err
	}
	if err := module.Name.Serialize(serializer); err != nil {
		return err
	}
	serializer.DecreaseContainerDepth()
	return nil
}

func deserializeModuleID(deserializer serde.Deserializer) (ModuleID, error) {
	var module ModuleID
	if err := deserializer.IncreaseContainerDepth(); err != nil {
		return module, err
	}
	address, err := account.DeserializeAddress(deserializer)
	if err != nil {
		return module, err
	}
	name, err := deserializeIdentifier(deserializer)
	if err != nil {
		return module, err
	}
	deserializer.DecreaseContainerDepth()
	module.Address = address
	module.Name = name
	return module, nil
}

// TypeTag is a Move type argument.
type TypeTag interface {
	Serialize(serializer serde.Serializer) error
	String() string
}

// Type tag variant indexes in canonical encoding order.
const (
	typeTagVariantBool    = 0
	typeTagVariantU8      = 1
	typeTagVariantU64     = 2
	typeTagVariantU128    = 3
	typeTagVariantAddress = 4
	typeTagVariantSigner  = 5
	typeTagVariantVector  = 6
	typeTagVariantStruct  = 7
)

type TypeTagBool struct{}

func (TypeTagBool) String() string { return "bool" }

func (TypeTagBool) Serialize(serializer serde.Serializer) error {
	return serializer.SerializeVariantIndex(typeTagVariantBool)
}

type TypeTagU8 struct{}

func (TypeTagU8) String() string { return "u8" }

func (TypeTagU8) Serialize(serializer serde.Serializer) error {
	return serializer.SerializeVariantIndex(typeTagVariantU8)
}

type TypeTagU64 struct{}

func (TypeTagU64) String() string { return "u64" }

func (TypeTagU64) Serialize(serializer serde.Serializer) error {
	return serializer.SerializeVariantIndex(typeTagVariantU64)
}

type TypeTagU128 struct{}

func (TypeTagU128) String() string { return "u128" }

func (TypeTagU128) Serialize(serializer serde.Serializer) error {
	return serializer.SerializeVariantIndex(typeTagVariantU128)
}

type TypeTagAddress struct{}

func (TypeTagAddress) String() string { return "address" }

func (TypeTagAddress) Serialize(serializer serde.Serializer) error {
	return serializer.SerializeVariantIndex(typeTagVariantAddress)
}

type TypeTagSigner struct{}

func (TypeTagSigner) String() string { return "signer" }

func (TypeTagSigner) Serialize(serializer serde.Serializer) error {
	return serializer.SerializeVariantIndex(typeTagVariantSigner)
}

// TypeTagVector wraps an element type, as in vector<u8>.
type TypeTagVector struct {
	Element TypeTag
}

func (tag TypeTagVector) String() string {
	return fmt.Sprintf("vector<%s>", tag.Element)
}

func (tag TypeTagVector) Serialize(serializer serde.Serializer) error {
	if err := serializer.SerializeVariantIndex(typeTagVariantVector); err != nil {
		return err
	}
	return tag.Element.Serialize(serializer)
}

// StructTag names a Move struct type, such as 0x1::fungible_asset::Metadata.
type StructTag struct {
	Address  account.AccountAddress
	Module   Identifier
	Name     Identifier
	TypeArgs []TypeTag
}

func (tag StructTag) String() string {
	return fmt.Sprintf("%s::%s::%s", tag.Address.Short(), tag.Module, tag.Name)
}

// Serialize writes the struct tag in canonical field order.
func (tag StructTag) Serialize(serializer serde.Serializer) error {
	if err := serializer.IncreaseContainerDepth(); err != nil {
		return err
	}
	if err := tag.Address.Serialize(serializer); err != nil {
		return err
	}
	if err := tag.Module.Serialize(serializer); err != nil {
		return err
	}
	if err := tag.Name.Serialize(serializer); err != nil {
		return err
	}
	if err := serializer.SerializeLen(uint64(len(tag.TypeArgs))); err != nil {
		return err
	}
	for _, item := range tag.TypeArgs {
		if err := item.Serialize(serializer); err != nil {
			return err
		}
	}
	serializer.DecreaseContainerDepth()
	return nil
}

// TypeTagStruct is the struct variant of TypeTag.
type TypeTagStruct struct {
	Value StructTag
}

func (tag TypeTagStruct) String() string { return tag.Value.String() }

func (tag TypeTagStruct) Serialize(serializer serde.Serializer) error {
	if err := serializer.SerializeVariantIndex(typeTagVariantStruct); err != nil {
		return err
	}
	return tag.Value.Serialize(serializer)
}

// EntryFunction is the payload of an entry-function transaction: a
// target function with ordered type arguments and pre-encoded value
// arguments.
type EntryFunction struct {
	Module   ModuleID
	Function Identifier
	TypeArgs []TypeTag
	Args     [][]byte
}

// Payload variant indexes. Script and module-bundle payloads exist on
// the wire but this client only constructs entry functions.
const (
	payloadVariantScript        = 0
	payloadVariantEntryFunction = 2
)

// Serialize writes the payload as the entry-function variant.
func (entry *EntryFunction) Serialize(serializer serde.Serializer) error {
	if err := serializer.SerializeVariantIndex(payloadVariantEntryFunction); err != nil {
		return err
	}
	if err := serializer.IncreaseContainerDepth(); err != nil {
		return err
	}
	if err := entry.Module.Serialize(serializer); err != nil {
		return err
	}
	if err := entry.Function.Serialize(serializer); err != nil {
		return err
	}
	if err := serializer.SerializeLen(uint64(len(entry.TypeArgs))); err != nil {
		return err
	}
	for _, item := range entry.TypeArgs {
		if err := item.Serialize(serializer); err != nil {
			return err
		}
	}
	if err := serializer.SerializeLen(uint64(len(entry.Args))); err != nil {
		return err
	}
	for _, item := range entry.Args {
		if err := serializer.SerializeBytes(item); err != nil {
			return err
		}
	}
	serializer.DecreaseContainerDepth()
	return nil
}

func deserializeEntryFunction(deserializer serde.Deserializer) (*EntryFunction, error) {
	variant, err := deserializer.DeserializeVariantIndex()
	if err != nil {
		return nil, err
	}
	if variant != payloadVariantEntryFunction {
		return nil, fmt.Errorf("unsupported payload variant %d", variant)
	}
	if err := deserializer.IncreaseContainerDepth(); err != nil {
		return nil, err
	}

	entry := &EntryFunction{}
	if entry.Module, err = deserializeModuleID(deserializer); err != nil {
		return nil, err
	}
	if entry.Function, err = deserializeIdentifier(deserializer); err != nil {
		return nil, err
	}

	typeArgCount, err := deserializer.DeserializeLen()
	if err != nil {
		return nil, err
	}
	for index := uint64(0); index < typeArgCount; index++ {
		tag, tagErr := deserializeTypeTag(deserializer)
		if tagErr != nil {
			return nil, tagErr
		}
		entry.TypeArgs = append(entry.TypeArgs, tag)
	}

	argCount, err := deserializer.DeserializeLen()
	if err != nil {
		return nil, err
	}
	for index := uint64(0); index < argCount; index++ {
		item, itemErr := deserializer.DeserializeBytes()
		if itemErr != nil {
			return nil, itemErr
		}
		entry.Args = append(entry.Args, item)
	}

	deserializer.DecreaseContainerDepth()
	return entry, nil
}

func deserializeTypeTag(deserializer serde.Deserializer) (TypeTag, error) {
	variant, err := deserializer.DeserializeVariantIndex()
	if err != nil {
		return nil, err
	}

	switch variant {
	case typeTagVariantBool:
		return TypeTagBool{}, nil
	case typeTagVariantU8:
		return TypeTagU8{}, nil
	case typeTagVariantU64:
		return TypeTagU64{}, nil
	case typeTagVariantU128:
		return TypeTagU128{}, nil
	case typeTagVariantAddress:
		return TypeTagAddress{}, nil
	case typeTagVariantSigner:
		return TypeTagSigner{}, nil
	case typeTagVariantVector:
		element, elementErr := deserializeTypeTag(deserializer)
		if elementErr != nil {
			return nil, elementErr
		}
		return TypeTagVector{Element: element}, nil
	case typeTagVariantStruct:
		tag, tagErr := deserializeStructTag(deserializer)
		if tagErr != nil {
			return nil, tagErr
		}
		return TypeTagStruct{Value: tag}, nil
	default:
		return nil, fmt.Errorf("unsupported type tag variant %d", variant)
	}
}

func deserializeStructTag(deserializer serde.Deserializer) (StructTag, error) {
	var tag StructTag
	if err := deserializer.IncreaseContainerDepth(); err != nil {
		return tag, err
	}

	address, err := account.DeserializeAddress(deserializer)
	if err != nil {
		return tag, err
	}
	module, err := deserializeIdentifier(deserializer)
	if err != nil {
		return tag, err
	}
	name, err := deserializeIdentifier(deserializer)
	if err != nil {
		return tag, err
	}
	typeArgCount, err := deserializer.DeserializeLen()
	if err != nil {
		return tag, err
	}
	for index := uint64(0); index < typeArgCount; index++ {
		item, itemErr := deserializeTypeTag(deserializer)
		if itemErr != nil {
			return tag, itemErr
		}
		tag.TypeArgs = append(tag.TypeArgs, item)
	}

	deserializer.DecreaseContainerDepth()
	tag.Address = address
	tag.Module = module
	tag.Name = name
	return tag, nil
}

// RawTransaction is an unsigned transaction request. It is built fresh
// per operation and immutable once constructed.
type RawTransaction struct {
	Sender                  account.AccountAddress
	SequenceNumber          uint64
	Payload                 *EntryFunction
	MaxGasAmount            uint64
	GasUnitPrice            uint64
	ExpirationTimestampSecs uint64
	ChainID                 uint8
}

// Serialize writes the transaction in canonical field order.
func (raw *RawTransaction) Serialize(serializer serde.Serializer) error {
	if err := serializer.IncreaseContainerDepth(); err != nil {
		return err
	}
	if err := raw.Sender.Serialize(serializer); err != nil {
		return err
	}
	if err := serializer.SerializeU64(raw.SequenceNumber); err != nil {
		return err
	}
	if err := raw.Payload.Serialize(serializer); err != nil {
		return err
	}
	if err := serializer.SerializeU64(raw.MaxGasAmount); err != nil {
		return err
	}
	if err := serializer.SerializeU64(raw.GasUnitPrice); err != nil {
		return err
	}
	if err := serializer.SerializeU64(raw.ExpirationTimestampSecs); err != nil {
		return err
	}
	if err := serializer.SerializeU8(raw.ChainID); err != nil {
		return err
	}
	serializer.DecreaseContainerDepth()
	return nil
}

// BcsSerialize returns the canonical byte form of the transaction.
func (raw *RawTransaction) BcsSerialize() ([]byte, error) {
	if raw == nil {
		return nil, fmt.Errorf("cannot serialize nil transaction")
	}
	serializer := bcs.NewSerializer()
	if err := raw.Serialize(serializer); err != nil {
		return nil, err
	}
	return serializer.GetBytes(), nil
}

func deserializeRawTransaction(deserializer serde.Deserializer) (*RawTransaction, error) {
	if err := deserializer.IncreaseContainerDepth(); err != nil {
		return nil, err
	}

	raw := &RawTransaction{}
	var err error
	if raw.Sender, err = account.DeserializeAddress(deserializer); err != nil {
		return nil, err
	}
	if raw.SequenceNumber, err = deserializer.DeserializeU64(); err != nil {
		return nil, err
	}
	if raw.Payload, err = deserializeEntryFunction(deserializer); err != nil {
		return nil, err
	}
	if raw.MaxGasAmount, err = deserializer.DeserializeU64(); err != nil {
		return nil, err
	}
	if raw.GasUnitPrice, err = deserializer.DeserializeU64(); err != nil {
		return nil, err
	}
	if raw.ExpirationTimestampSecs, err = deserializer.DeserializeU64(); err != nil {
		return nil, err
	}
	if raw.ChainID, err = deserializer.DeserializeU8(); err != nil {
		return nil, err
	}

	deserializer.DecreaseContainerDepth()
	return raw, nil
}

// DeserializeRawTransaction decodes a canonical raw transaction.
func DeserializeRawTransaction(input []byte) (*RawTransaction, error) {
	return deserializeRawTransaction(bcs.NewDeserializer(input))
}

// SigningMessage returns the domain-separated byte string the sender
// signs: sha3-256 of the transaction salt, then the canonical
// transaction bytes.
func (raw *RawTransaction) SigningMessage() ([]byte, error) {
	encoded, err := raw.BcsSerialize()
	if err != nil {
		return nil, err
	}

	prefix := sha3.Sum256([]byte(rawTransactionSalt))
	message := make([]byte, 0, len(prefix)+len(encoded))
	message = append(message, prefix[:]...)
	message = append(message, encoded...)
	return message, nil
}

// Authenticator variant indexes on SignedTransaction.
const (
	authenticatorVariantEd25519      = 0
	authenticatorVariantSingleSender = 4
)

// Nested variant indexes for single-sender (single-key) authentication.
const (
	accountAuthenticatorVariantSingleKey = 2
	anyKeyVariantSecp256k1               = 1
)

// TransactionAuthenticator proves the sender authorized a transaction.
type TransactionAuthenticator interface {
	Serialize(serializer serde.Serializer) error
}

// Ed25519Authenticator carries an ed25519 public key and signature.
type Ed25519Authenticator struct {
	PublicKey []byte
	Signature []byte
}

func (auth Ed25519Authenticator) Serialize(serializer serde.Serializer) error {
	if err := serializer.SerializeVariantIndex(authenticatorVariantEd25519); err != nil {
		return err
	}
	if err := serializer.SerializeBytes(auth.PublicKey); err != nil {
		return err
	}
	return serializer.SerializeBytes(auth.Signature)
}

// Secp256k1Authenticator carries a secp256k1 single-key public key and
// ECDSA signature, wrapped in the single-sender authenticator form.
type Secp256k1Authenticator struct {
	PublicKey []byte
	Signature []byte
}

func (auth Secp256k1Authenticator) Serialize(serializer serde.Serializer) error {
	if err := serializer.SerializeVariantIndex(authenticatorVariantSingleSender); err != nil {
		return err
	}
	if err := serializer.SerializeVariantIndex(accountAuthenticatorVariantSingleKey); err != nil {
		return err
	}
	if err := serializer.SerializeVariantIndex(anyKeyVariantSecp256k1); err != nil {
		return err
	}
	if err := serializer.SerializeBytes(auth.PublicKey); err != nil {
		return err
	}
	if err := serializer.SerializeVariantIndex(anyKeyVariantSecp256k1); err != nil {
		return err
	}
	return serializer.SerializeBytes(auth.Signature)
}

func deserializeAuthenticator(deserializer serde.Deserializer) (TransactionAuthenticator, error) {
	variant, err := deserializer.DeserializeVariantIndex()
	if err != nil {
		return nil, err
	}

	switch variant {
	case authenticatorVariantEd25519:
		publicKey, keyErr := deserializer.DeserializeBytes()
		if keyErr != nil {
			return nil, keyErr
		}
		signature, sigErr := deserializer.DeserializeBytes()
		if sigErr != nil {
			return nil, sigErr
		}
		return Ed25519Authenticator{PublicKey: publicKey, Signature: signature}, nil
	case authenticatorVariantSingleSender:
		for _, expected := range []uint32{accountAuthenticatorVariantSingleKey, anyKeyVariantSecp256k1} {
			nested, nestedErr := deserializer.DeserializeVariantIndex()
			if nestedErr != nil {
				return nil, nestedErr
			}
			if nested != expected {
				return nil, fmt.Errorf("unsupported nested authenticator variant %d", nested)
			}
		}
		publicKey, keyErr := deserializer.DeserializeBytes()
		if keyErr != nil {
			return nil, keyErr
		}
		sigVariant, sigVariantErr := deserializer.DeserializeVariantIndex()
		if sigVariantErr != nil {
			return nil, sigVariantErr
		}
		if sigVariant != anyKeyVariantSecp256k1 {
			return nil, fmt.Errorf("unsupported signature variant %d", sigVariant)
		}
		signature, sigErr := deserializer.DeserializeBytes()
		if sigErr != nil {
			return nil, sigErr
		}
		return Secp256k1Authenticator{PublicKey: publicKey, Signature: signature}, nil
	default:
		return nil, fmt.Errorf("unsupported authenticator variant %d", variant)
	}
}

// SignedTransaction is a raw transaction plus the sender's authenticator
// in canonical serialized form. Immutable once constructed.
type SignedTransaction struct {
	Raw           *RawTransaction
	Authenticator TransactionAuthenticator
}

// Serialize writes the signed transaction in canonical field order.
func (signed *SignedTransaction) Serialize(serializer serde.Serializer) error {
	if err := serializer.IncreaseContainerDepth(); err != nil {
		return err
	}
	if err := signed.Raw.Serialize(serializer); err != nil {
		return err
	}
	if err := signed.Authenticator.Serialize(serializer); err != nil {
		return err
	}
	serializer.DecreaseContainerDepth()
	return nil
}

// BcsSerialize returns the canonical byte form of the signed transaction.
func (signed *SignedTransaction) BcsSerialize() ([]byte, error) {
	if signed == nil {
		return nil, fmt.Errorf("cannot serialize nil transaction")
	}
	serializer := bcs.NewSerializer()
	if err := signed.Serialize(serializer); err != nil {
		return nil, err
	}
	return serializer.GetBytes(), nil
}

// DeserializeSignedTransaction decodes a canonical signed transaction.
func DeserializeSignedTransaction(input []byte) (*SignedTransaction, error) {
	deserializer := bcs.NewDeserializer(input)

	if err := deserializer.IncreaseContainerDepth(); err != nil {
		return nil, err
	}
	raw, err := deserializeRawTransaction(deserializer)
	if err != nil {
		return nil, fmt.Errorf("failed to decode raw transaction: %w", err)
	}
	authenticator, err := deserializeAuthenticator(deserializer)
	if err != nil {
		return nil, fmt.Errorf("failed to decode authenticator: %w", err)
	}
	deserializer.DecreaseContainerDepth()

	return &SignedTransaction{Raw: raw, Authenticator: authenticator}, nil
}

// Sign produces a signed transaction for the sender account. It is a
// pure function of the key material and the raw transaction: the same
// inputs always yield the same signed bytes.
func Sign(signer *account.Account, raw *RawTransaction) (*SignedTransaction, error) {
	if signer == nil {
		return nil, NewMalformedRequestError("signing account is required")
	}
	if raw == nil {
		return nil, NewMalformedRequestError("raw transaction is required")
	}

	message, err := raw.SigningMessage()
	if err != nil {
		return nil, err
	}
	signature, err := signer.SignMessage(message)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	var authenticator TransactionAuthenticator
	switch signer.Scheme() {
	case account.SchemeSecp256k1:
		authenticator = Secp256k1Authenticator{
			PublicKey: signer.PublicKeyBytes(),
			Signature: signature,
		}
	default:
		authenticator = Ed25519Authenticator{
			PublicKey: signer.PublicKeyBytes(),
			Signature: signature,
		}
	}

	return &SignedTransaction{Raw: raw, Authenticator: authenticator}, nil
}
