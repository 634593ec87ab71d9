package chain

import (
	"github.com/novifinancial/serde-reflection/serde-generate/runtime/golang/bcs"

	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
)

// Entry-function value arguments travel as individually encoded byte
// strings. The helpers below encode the handful of primitive shapes the
// fungible asset surface needs.

// U64Arg encodes an unsigned 64-bit argument.
func U64Arg(value uint64) ([]byte, error) {
	serializer := bcs.NewSerializer()
	if err := serializer.SerializeU64(value); err != nil {
		return nil, err
	}
	return serializer.GetBytes(), nil
}

// U8Arg encodes an unsigned 8-bit argument.
func U8Arg(value uint8) ([]byte, error) {
	serializer := bcs.NewSerializer()
	if err := serializer.SerializeU8(value); err != nil {
		return nil, err
	}
	return serializer.GetBytes(), nil
}

// BoolArg encodes a boolean argument.
func BoolArg(value bool) ([]byte, error) {
	serializer := bcs.NewSerializer()
	if err := serializer.SerializeBool(value); err != nil {
		return nil, err
	}
	return serializer.GetBytes(), nil
}

// AddressArg encodes an account address argument.
func AddressArg(address account.AccountAddress) ([]byte, error) {
	serializer := bcs.NewSerializer()
	if err := address.Serialize(serializer); err != nil {
		return nil, err
	}
	return serializer.GetBytes(), nil
}

// StringArg encodes a UTF-8 string argument.
func StringArg(value string) ([]byte, error) {
	serializer := bcs.NewSerializer()
	if err := serializer.SerializeStr(value); err != nil {
		return nil, err
	}
	return serializer.GetBytes(), nil
}

// BytesArg encodes a vector<u8> argument.
func BytesArg(value []byte) ([]byte, error) {
	serializer := bcs.NewSerializer()
	if err := serializer.SerializeBytes(value); err != nil {
		return nil, err
	}
	return serializer.GetBytes(), nil
}

// DecodeU64Arg decodes an encoded unsigned 64-bit argument.
func DecodeU64Arg(encoded []byte) (uint64, error) {
	return bcs.NewDeserializer(encoded).DeserializeU64()
}

// DecodeAddressArg decodes an encoded account address argument.
func DecodeAddressArg(encoded []byte) (account.AccountAddress, error) {
	return account.DeserializeAddress(bcs.NewDeserializer(encoded))
}
