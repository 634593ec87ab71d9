package asset

import (
	"context"
	"fmt"

	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
	"github.com/movekit/aptos-fa-sdk-go/pkg/chain"
)

// ManagedClient extends Client with the administrative surface of the
// asset contract. Every write is signed by the managing account, which
// must hold the contract's mint, transfer, and burn capabilities.
type ManagedClient struct {
	*Client
	manager *account.Account
}

// NewManagedClient creates a ManagedClient signing with manager.
func NewManagedClient(config Config, manager *account.Account) (*ManagedClient, error) {
	if manager == nil {
		return nil, fmt.Errorf("managing account is required")
	}
	client, err := NewClient(config)
	if err != nil {
		return nil, err
	}
	return &ManagedClient{Client: client, manager: manager}, nil
}

// Manager returns the managing account's address.
func (client *ManagedClient) Manager() account.AccountAddress {
	return client.manager.Address()
}

// Mint creates amount new units in the recipient's primary store.
func (client *ManagedClient) Mint(
	ctx context.Context,
	recipient account.AccountAddress,
	amount uint64,
) (*chain.TransactionReceipt, error) {
	if err := validateTarget(recipient); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	recipientArg, err := chain.AddressArg(recipient)
	if err != nil {
		return nil, err
	}
	amountArg, err := chain.U64Arg(amount)
	if err != nil {
		return nil, err
	}

	return client.submitEntry(
		ctx, client.manager, client.assetFunction(mintFunction), nil,
		[][]byte{recipientArg, amountArg},
	)
}

// Transfer moves amount units between two arbitrary holders using the
// contract's transfer capability. It bypasses frozen stores, which is
// the point of the administrative path.
func (client *ManagedClient) Transfer(
	ctx context.Context,
	from account.AccountAddress,
	to account.AccountAddress,
	amount uint64,
) (*chain.TransactionReceipt, error) {
	if err := validateTarget(from); err != nil {
		return nil, err
	}
	if err := validateTarget(to); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	fromArg, err := chain.AddressArg(from)
	if err != nil {
		return nil, err
	}
	toArg, err := chain.AddressArg(to)
	if err != nil {
		return nil, err
	}
	amountArg, err := chain.U64Arg(amount)
	if err != nil {
		return nil, err
	}

	return client.submitEntry(
		ctx, client.manager, client.assetFunction(transferFunction), nil,
		[][]byte{fromArg, toArg, amountArg},
	)
}

// Burn destroys amount units held in the target's primary store.
func (client *ManagedClient) Burn(
	ctx context.Context,
	target account.AccountAddress,
	amount uint64,
) (*chain.TransactionReceipt, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	targetArg, err := chain.AddressArg(target)
	if err != nil {
		return nil, err
	}
	amountArg, err := chain.U64Arg(amount)
	if err != nil {
		return nil, err
	}

	return client.submitEntry(
		ctx, client.manager, client.assetFunction(burnFunction), nil,
		[][]byte{targetArg, amountArg},
	)
}

// FreezeAccount blocks the target's own deposits and withdrawals until
// unfrozen. Administrative transfers keep working.
func (client *ManagedClient) FreezeAccount(
	ctx context.Context,
	target account.AccountAddress,
) (*chain.TransactionReceipt, error) {
	return client.setFrozen(ctx, target, freezeFunction)
}

// UnfreezeAccount lifts a freeze placed by FreezeAccount.
func (client *ManagedClient) UnfreezeAccount(
	ctx context.Context,
	target account.AccountAddress,
) (*chain.TransactionReceipt, error) {
	return client.setFrozen(ctx, target, unfreezeFunction)
}

func (client *ManagedClient) setFrozen(
	ctx context.Context,
	target account.AccountAddress,
	function string,
) (*chain.TransactionReceipt, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}

	targetArg, err := chain.AddressArg(target)
	if err != nil {
		return nil, err
	}

	return client.submitEntry(
		ctx, client.manager, client.assetFunction(function), nil,
		[][]byte{targetArg},
	)
}
