package chain

import (
	"regexp"
	"strings"

	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
)

var functionIDPattern = regexp.MustCompile(
	`^(0x[0-9a-fA-F]{1,64})::([A-Za-z_][A-Za-z0-9_]*)::([A-Za-z_][A-Za-z0-9_]*)$`,
)

// ParseFunctionID splits an address::module::function identifier into
// its module and function parts. Fails with MalformedRequestError when
// the identifier cannot name a deployed entry point.
func ParseFunctionID(functionID string) (ModuleID, Identifier, error) {
	trimmed := strings.TrimSpace(functionID)
	match := functionIDPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return ModuleID{}, "", NewMalformedRequestError(
			"function identifier %q must take the form address::module::function", functionID,
		)
	}

	address, err := account.ParseAddress(match[1])
	if err != nil {
		return ModuleID{}, "", NewMalformedRequestError("function identifier %q: %v", functionID, err)
	}

	module := ModuleID{Address: address, Name: Identifier(match[2])}
	return module, Identifier(match[3]), nil
}

// ParseStructTag parses an address::module::Name type tag. Generic type
// parameters are not supported; the fungible asset surface needs none.
func ParseStructTag(tag string) (StructTag, error) {
	trimmed := strings.TrimSpace(tag)
	if strings.ContainsAny(trimmed, "<>") {
		return StructTag{}, NewMalformedRequestError("generic type tag %q is not supported", tag)
	}

	module, name, err := ParseFunctionID(trimmed)
	if err != nil {
		return StructTag{}, NewMalformedRequestError(
			"type tag %q must take the form address::module::Name", tag,
		)
	}

	return StructTag{Address: module.Address, Module: module.Name, Name: name}, nil
}

func validateEntryArgs(args [][]byte) error {
	for index, item := range args {
		if len(item) == 0 {
			return NewMalformedRequestError("entry argument %d is empty", index)
		}
	}
	return nil
}
