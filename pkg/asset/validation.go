package asset

import (
	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
	"github.com/movekit/aptos-fa-sdk-go/pkg/chain"
)

func validateAmount(amount uint64) error {
	if amount == 0 {
		return chain.NewMalformedRequestError("amount must be greater than zero")
	}
	return nil
}

func validateTarget(target account.AccountAddress) error {
	if target.IsZero() {
		return chain.NewMalformedRequestError("target address is required")
	}
	return nil
}
