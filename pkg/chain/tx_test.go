package chain

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
)

func testEntryFunction(t *testing.T) *EntryFunction {
	t.Helper()

	amount, err := U64Arg(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recipient, err := AddressArg(account.MustParseAddress("0xb0b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return &EntryFunction{
		Module:   ModuleID{Address: account.MustParseAddress("0xcafe"), Name: "fa_coin"},
		Function: "mint",
		TypeArgs: nil,
		Args:     [][]byte{recipient, amount},
	}
}

func testRawTransaction(t *testing.T) *RawTransaction {
	t.Helper()

	return &RawTransaction{
		Sender:                  account.MustParseAddress("0xcafe"),
		SequenceNumber:          7,
		Payload:                 testEntryFunction(t),
		MaxGasAmount:            200_000,
		GasUnitPrice:            100,
		ExpirationTimestampSecs: 1_700_000_000,
		ChainID:                 4,
	}
}

func TestU64ArgLittleEndian(t *testing.T) {
	encoded, err := U64Arg(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := make([]byte, 8)
	binary.LittleEndian.PutUint64(expected, 1)
	if !bytes.Equal(encoded, expected) {
		t.Fatalf("unexpected encoding: %x", encoded)
	}
}

func TestBoolArg(t *testing.T) {
	encoded, err := BoolArg(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(encoded, []byte{0x01}) {
		t.Fatalf("unexpected encoding: %x", encoded)
	}
}

func TestAddressArgIsFixedWidth(t *testing.T) {
	encoded, err := AddressArg(account.MustParseAddress("0x1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(encoded) != account.AddressLength {
		t.Fatalf("unexpected length: %d", len(encoded))
	}
}

func TestDecodeArgsRoundTrip(t *testing.T) {
	amount, err := U64Arg(12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decodedAmount, err := DecodeU64Arg(amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decodedAmount != 12345 {
		t.Fatalf("unexpected amount: %d", decodedAmount)
	}

	address := account.MustParseAddress("0xc0ffee")
	encodedAddress, err := AddressArg(address)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decodedAddress, err := DecodeAddressArg(encodedAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decodedAddress != address {
		t.Fatalf("unexpected address: %s", decodedAddress)
	}
}

func TestRawTransactionFieldOrder(t *testing.T) {
	raw := testRawTransaction(t)
	encoded, err := raw.BcsSerialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sender := raw.Sender
	if !bytes.Equal(encoded[:account.AddressLength], sender[:]) {
		t.Fatalf("sender bytes not first: %x", encoded[:account.AddressLength])
	}

	sequence := binary.LittleEndian.Uint64(encoded[account.AddressLength : account.AddressLength+8])
	if sequence != raw.SequenceNumber {
		t.Fatalf("unexpected sequence number: %d", sequence)
	}

	// Payload variant index follows: entry function is variant 2.
	if encoded[account.AddressLength+8] != payloadVariantEntryFunction {
		t.Fatalf("unexpected payload variant: %x", encoded[account.AddressLength+8])
	}

	// Fixed-width tail: max gas, gas price, expiration, chain id.
	tail := encoded[len(encoded)-25:]
	if binary.LittleEndian.Uint64(tail[:8]) != raw.MaxGasAmount {
		t.Fatalf("unexpected max gas: %x", tail[:8])
	}
	if binary.LittleEndian.Uint64(tail[8:16]) != raw.GasUnitPrice {
		t.Fatalf("unexpected gas price: %x", tail[8:16])
	}
	if binary.LittleEndian.Uint64(tail[16:24]) != raw.ExpirationTimestampSecs {
		t.Fatalf("unexpected expiration: %x", tail[16:24])
	}
	if tail[24] != raw.ChainID {
		t.Fatalf("unexpected chain id: %x", tail[24])
	}
}

func TestSigningMessageIsPrefixed(t *testing.T) {
	raw := testRawTransaction(t)

	message, err := raw.SigningMessage()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded, err := raw.BcsSerialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(message) != 32+len(encoded) {
		t.Fatalf("unexpected message length: %d", len(message))
	}
	if !bytes.Equal(message[32:], encoded) {
		t.Fatal("message must end with the canonical transaction bytes")
	}
}

func TestSignDeterministic(t *testing.T) {
	signer, err := account.Ed25519AccountFromSeed(bytes.Repeat([]byte{0x77}, 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw := testRawTransaction(t)

	first, err := Sign(signer, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Sign(signer, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	firstBytes, err := first.BcsSerialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	secondBytes, err := second.BcsSerialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(firstBytes, secondBytes) {
		t.Fatal("signing the same transaction twice must produce identical bytes")
	}
}

func TestSignProducesVerifiableSignature(t *testing.T) {
	signer, err := account.NewEd25519Account()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw := testRawTransaction(t)

	signed, err := Sign(signer, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	authenticator, ok := signed.Authenticator.(Ed25519Authenticator)
	if !ok {
		t.Fatalf("unexpected authenticator type %T", signed.Authenticator)
	}
	message, err := raw.SigningMessage()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ed25519.Verify(authenticator.PublicKey, message, authenticator.Signature) {
		t.Fatal("signature must verify against the signing message")
	}
}

func TestSignSecp256k1UsesSingleSenderAuthenticator(t *testing.T) {
	signer, err := account.NewSecp256k1Account()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	signed, err := Sign(signer, testRawTransaction(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := signed.Authenticator.(Secp256k1Authenticator); !ok {
		t.Fatalf("unexpected authenticator type %T", signed.Authenticator)
	}
}

func TestSignRejectsNilInputs(t *testing.T) {
	if _, err := Sign(nil, testRawTransaction(t)); err == nil {
		t.Fatal("expected error for nil account")
	}

	signer, err := account.NewEd25519Account()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Sign(signer, nil); err == nil {
		t.Fatal("expected error for nil transaction")
	}
}

func TestSignedTransactionRoundTrip(t *testing.T) {
	signer, err := account.Ed25519AccountFromSeed(bytes.Repeat([]byte{0x42}, 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw := testRawTransaction(t)

	signed, err := Sign(signer, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded, err := signed.BcsSerialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := DeserializeSignedTransaction(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Raw.Sender != raw.Sender {
		t.Fatalf("sender mismatch: %s", decoded.Raw.Sender)
	}
	if decoded.Raw.SequenceNumber != raw.SequenceNumber {
		t.Fatalf("sequence mismatch: %d", decoded.Raw.SequenceNumber)
	}
	if decoded.Raw.Payload.Function != raw.Payload.Function {
		t.Fatalf("function mismatch: %s", decoded.Raw.Payload.Function)
	}
	if len(decoded.Raw.Payload.Args) != len(raw.Payload.Args) {
		t.Fatalf("arg count mismatch: %d", len(decoded.Raw.Payload.Args))
	}

	reencoded, err := decoded.BcsSerialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(encoded, reencoded) {
		t.Fatal("round trip must reproduce identical bytes")
	}
}

func TestTypeTagStructEncoding(t *testing.T) {
	tag, err := ParseStructTag("0x1::fungible_asset::Metadata")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := testEntryFunction(t)
	entry.TypeArgs = []TypeTag{TypeTagStruct{Value: tag}}

	raw := testRawTransaction(t)
	raw.Payload = entry
	encoded, err := raw.BcsSerialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := DeserializeRawTransaction(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded.Payload.TypeArgs) != 1 {
		t.Fatalf("unexpected type arg count: %d", len(decoded.Payload.TypeArgs))
	}
	if decoded.Payload.TypeArgs[0].String() != "0x1::fungible_asset::Metadata" {
		t.Fatalf("unexpected type arg: %s", decoded.Payload.TypeArgs[0])
	}
}
