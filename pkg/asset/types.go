package asset

import (
	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
	"github.com/movekit/aptos-fa-sdk-go/pkg/chain"
)

const (
	// DefaultModuleName is the module the asset contract is published
	// under when Config leaves ModuleName empty.
	DefaultModuleName = "fa_coin"

	frameworkAddress   = "0x1"
	storeModule        = "primary_fungible_store"
	metadataStructName = "fungible_asset::Metadata"

	balanceFunction  = "balance"
	frozenFunction   = "is_frozen"
	transferFunction = "transfer"

	metadataFunction = "get_metadata"
	mintFunction     = "mint"
	burnFunction     = "burn"
	freezeFunction   = "freeze_account"
	unfreezeFunction = "unfreeze_account"
)

// Config configures an asset Client. Chain and Creator are required;
// Creator is the account the asset module is published under.
type Config struct {
	Chain   *chain.Client
	Creator account.AccountAddress

	// ModuleName overrides the module the asset contract lives in.
	ModuleName string

	// Wait overrides confirmation polling for write operations.
	Wait chain.WaitOptions
}

// TokenInfo describes the asset as reported by the framework metadata
// views.
type TokenInfo struct {
	Metadata account.AccountAddress
	Name     string
	Symbol   string
	Decimals uint8
}
