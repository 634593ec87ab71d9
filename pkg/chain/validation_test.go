package chain

import (
	"errors"
	"testing"
)

func TestParseFunctionID(t *testing.T) {
	module, function, err := ParseFunctionID("0x1::primary_fungible_store::transfer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if module.Name != "primary_fungible_store" {
		t.Fatalf("unexpected module: %s", module.Name)
	}
	if function != "transfer" {
		t.Fatalf("unexpected function: %s", function)
	}
	if module.Address.Short() != "0x1" {
		t.Fatalf("unexpected address: %s", module.Address.Short())
	}
}

func TestParseFunctionIDRejectsMalformed(t *testing.T) {
	for _, candidate := range []string{
		"",
		"transfer",
		"0x1::transfer",
		"one::two::three",
		"0x1::module::",
		"0x1::module::fn::extra",
		"0x1::1module::fn",
	} {
		_, _, err := ParseFunctionID(candidate)
		if err == nil {
			t.Fatalf("expected error for %q", candidate)
		}
		var malformed MalformedRequestError
		if !errors.As(err, &malformed) {
			t.Fatalf("expected MalformedRequestError for %q, got %T", candidate, err)
		}
	}
}

func TestParseStructTag(t *testing.T) {
	tag, err := ParseStructTag("0x1::fungible_asset::Metadata")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.String() != "0x1::fungible_asset::Metadata" {
		t.Fatalf("unexpected tag: %s", tag)
	}
}

func TestParseStructTagRejectsGenerics(t *testing.T) {
	if _, err := ParseStructTag("0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>"); err == nil {
		t.Fatal("expected error for generic tag")
	}
}

func TestValidateEntryArgsRejectsEmpty(t *testing.T) {
	if err := validateEntryArgs([][]byte{{0x01}, {}}); err == nil {
		t.Fatal("expected error for empty argument")
	}
	if err := validateEntryArgs(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
