package demo

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
	"github.com/movekit/aptos-fa-sdk-go/pkg/asset"
	"github.com/movekit/aptos-fa-sdk-go/pkg/chain"
	"github.com/movekit/aptos-fa-sdk-go/pkg/faucet"
)

// Scenario amounts, in base units of the demo asset.
const (
	mintAmount     = uint64(100)
	sweepAmount    = uint64(100)
	burnAmount     = uint64(50)
	transferAmount = uint64(40)
)

// Config configures an Orchestrator. Chain, Faucet, and Owner are
// required; Owner must be the account the asset module is published
// under.
type Config struct {
	Chain  *chain.Client
	Faucet *faucet.Client
	Owner  *account.Account

	// Logger receives step-by-step progress. Defaults to a disabled
	// logger.
	Logger *zerolog.Logger

	// Wait overrides confirmation polling for every transaction the
	// scenario submits.
	Wait chain.WaitOptions

	// FundAmount is the gas-coin grant per account. Defaults to
	// faucet.DefaultFundAmount.
	FundAmount uint64

	// ModuleName overrides the asset module name.
	ModuleName string
}

// Result reports the scenario's final state.
type Result struct {
	Metadata account.AccountAddress

	FirstHolder  account.AccountAddress
	SecondHolder account.AccountAddress

	FirstHolderBalance  uint64
	SecondHolderBalance uint64
}

// Orchestrator drives the managed-asset walkthrough: funding, minting,
// an administrative sweep, a burn, and a freeze round-trip with a
// deliberately rejected transfer in the middle.
type Orchestrator struct {
	chainClient  *chain.Client
	faucetClient *faucet.Client
	assetClient  *asset.ManagedClient
	owner        *account.Account
	logger       zerolog.Logger
	wait         chain.WaitOptions
	fundAmount   uint64
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(config Config) (*Orchestrator, error) {
	if config.Chain == nil {
		return nil, fmt.Errorf("chain client is required")
	}
	if config.Faucet == nil {
		return nil, fmt.Errorf("faucet client is required")
	}
	if config.Owner == nil {
		return nil, fmt.Errorf("owner account is required")
	}

	assetClient, err := asset.NewManagedClient(asset.Config{
		Chain:      config.Chain,
		Creator:    config.Owner.Address(),
		ModuleName: config.ModuleName,
		Wait:       config.Wait,
	}, config.Owner)
	if err != nil {
		return nil, err
	}

	logger := zerolog.New(io.Discard)
	if config.Logger != nil {
		logger = *config.Logger
	}
	fundAmount := config.FundAmount
	if fundAmount == 0 {
		fundAmount = faucet.DefaultFundAmount
	}

	return &Orchestrator{
		chainClient:  config.Chain,
		faucetClient: config.Faucet,
		assetClient:  assetClient,
		owner:        config.Owner,
		logger:       logger,
		wait:         config.Wait,
		fundAmount:   fundAmount,
	}, nil
}

// Run executes the walkthrough against the configured network and
// returns the final holder state. Every step is confirmed before the
// next begins; the frozen-transfer rejection in the middle is the only
// failure Run tolerates.
func (orchestrator *Orchestrator) Run(ctx context.Context) (*Result, error) {
	first, err := account.NewEd25519Account()
	if err != nil {
		return nil, fmt.Errorf("failed to create first holder: %w", err)
	}
	second, err := account.NewEd25519Account()
	if err != nil {
		return nil, fmt.Errorf("failed to create second holder: %w", err)
	}

	orchestrator.logger.Info().
		Str("owner", orchestrator.owner.Address().Short()).
		Str("first_holder", first.Address().Short()).
		Str("second_holder", second.Address().Short()).
		Msg("starting managed asset walkthrough")

	if err := orchestrator.fundAccounts(ctx, first, second); err != nil {
		return nil, err
	}

	metadata, err := orchestrator.assetClient.Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset metadata: %w", err)
	}
	orchestrator.logger.Info().Str("metadata", metadata.Short()).Msg("resolved asset metadata")

	if err := orchestrator.mintInitialBalances(ctx, first); err != nil {
		return nil, err
	}
	if err := orchestrator.sweepToSecondHolder(ctx, first, second); err != nil {
		return nil, err
	}
	if err := orchestrator.burnFromSecondHolder(ctx, second); err != nil {
		return nil, err
	}
	if err := orchestrator.freezeRoundTrip(ctx, first, second); err != nil {
		return nil, err
	}

	firstBalance, err := orchestrator.assetClient.Balance(ctx, first.Address())
	if err != nil {
		return nil, err
	}
	secondBalance, err := orchestrator.assetClient.Balance(ctx, second.Address())
	if err != nil {
		return nil, err
	}

	orchestrator.logger.Info().
		Uint64("first_holder_balance", firstBalance).
		Uint64("second_holder_balance", secondBalance).
		Msg("walkthrough complete")

	return &Result{
		Metadata:            metadata,
		FirstHolder:         first.Address(),
		SecondHolder:        second.Address(),
		FirstHolderBalance:  firstBalance,
		SecondHolderBalance: secondBalance,
	}, nil
}

func (orchestrator *Orchestrator) fundAccounts(ctx context.Context, holders ...*account.Account) error {
	accounts := append([]*account.Account{orchestrator.owner}, holders...)
	for _, funded := range accounts {
		err := orchestrator.faucetClient.FundAndWait(
			ctx, orchestrator.chainClient, funded.Address(), orchestrator.fundAmount, orchestrator.wait,
		)
		if err != nil {
			return fmt.Errorf("failed to fund %s: %w", funded.Address().Short(), err)
		}
		orchestrator.logger.Info().
			Str("address", funded.Address().Short()).
			Uint64("amount", orchestrator.fundAmount).
			Msg("funded account")
	}
	return nil
}

func (orchestrator *Orchestrator) mintInitialBalances(ctx context.Context, first *account.Account) error {
	for _, recipient := range []account.AccountAddress{first.Address(), orchestrator.owner.Address()} {
		receipt, err := orchestrator.assetClient.Mint(ctx, recipient, mintAmount)
		if err != nil {
			return fmt.Errorf("failed to mint to %s: %w", recipient.Short(), err)
		}
		orchestrator.logger.Info().
			Str("recipient", recipient.Short()).
			Uint64("amount", mintAmount).
			Str("hash", receipt.Hash).
			Msg("minted")
	}
	return orchestrator.expectBalance(ctx, first.Address(), mintAmount)
}

// sweepToSecondHolder moves the first holder's entire balance using
// the owner's transfer capability, without the first holder signing.
func (orchestrator *Orchestrator) sweepToSecondHolder(ctx context.Context, first, second *account.Account) error {
	receipt, err := orchestrator.assetClient.Transfer(ctx, first.Address(), second.Address(), sweepAmount)
	if err != nil {
		return fmt.Errorf("administrative transfer failed: %w", err)
	}
	orchestrator.logger.Info().
		Str("from", first.Address().Short()).
		Str("to", second.Address().Short()).
		Uint64("amount", sweepAmount).
		Str("hash", receipt.Hash).
		Msg("swept balance by capability")

	if err := orchestrator.expectBalance(ctx, first.Address(), 0); err != nil {
		return err
	}
	return orchestrator.expectBalance(ctx, second.Address(), sweepAmount)
}

func (orchestrator *Orchestrator) burnFromSecondHolder(ctx context.Context, second *account.Account) error {
	receipt, err := orchestrator.assetClient.Burn(ctx, second.Address(), burnAmount)
	if err != nil {
		return fmt.Errorf("burn failed: %w", err)
	}
	orchestrator.logger.Info().
		Str("target", second.Address().Short()).
		Uint64("amount", burnAmount).
		Str("hash", receipt.Hash).
		Msg("burned")

	return orchestrator.expectBalance(ctx, second.Address(), sweepAmount-burnAmount)
}

// freezeRoundTrip freezes the second holder, proves a holder-signed
// transfer out of a frozen store is rejected without moving funds,
// then unfreezes and completes the same transfer.
func (orchestrator *Orchestrator) freezeRoundTrip(ctx context.Context, first, second *account.Account) error {
	if _, err := orchestrator.assetClient.FreezeAccount(ctx, second.Address()); err != nil {
		return fmt.Errorf("freeze failed: %w", err)
	}
	orchestrator.logger.Info().Str("target", second.Address().Short()).Msg("froze account")

	frozen, err := orchestrator.assetClient.IsFrozen(ctx, second.Address())
	if err != nil {
		return err
	}
	if !frozen {
		return fmt.Errorf("store of %s reports unfrozen after freeze", second.Address().Short())
	}

	balanceBefore, err := orchestrator.assetClient.Balance(ctx, second.Address())
	if err != nil {
		return err
	}

	_, err = orchestrator.assetClient.Client.Transfer(ctx, second, first.Address(), transferAmount)
	if err == nil {
		return fmt.Errorf("transfer out of a frozen store unexpectedly succeeded")
	}
	if !chain.IsExecutionFailure(err, chain.ReasonAccountFrozen) {
		return fmt.Errorf("frozen transfer failed for the wrong reason: %w", err)
	}
	orchestrator.logger.Info().
		Str("sender", second.Address().Short()).
		Err(err).
		Msg("transfer from frozen store rejected as expected")

	if err := orchestrator.expectBalance(ctx, second.Address(), balanceBefore); err != nil {
		return fmt.Errorf("frozen transfer moved funds: %w", err)
	}

	if _, err := orchestrator.assetClient.UnfreezeAccount(ctx, second.Address()); err != nil {
		return fmt.Errorf("unfreeze failed: %w", err)
	}
	orchestrator.logger.Info().Str("target", second.Address().Short()).Msg("unfroze account")

	frozen, err = orchestrator.assetClient.IsFrozen(ctx, second.Address())
	if err != nil {
		return err
	}
	if frozen {
		return fmt.Errorf("store of %s reports frozen after unfreeze", second.Address().Short())
	}

	receipt, err := orchestrator.assetClient.Client.Transfer(ctx, second, first.Address(), transferAmount)
	if err != nil {
		return fmt.Errorf("transfer after unfreeze failed: %w", err)
	}
	orchestrator.logger.Info().
		Str("from", second.Address().Short()).
		Str("to", first.Address().Short()).
		Uint64("amount", transferAmount).
		Str("hash", receipt.Hash).
		Msg("holder transfer confirmed")
	return nil
}

func (orchestrator *Orchestrator) expectBalance(
	ctx context.Context,
	owner account.AccountAddress,
	expected uint64,
) error {
	balance, err := orchestrator.assetClient.Balance(ctx, owner)
	if err != nil {
		return err
	}
	if balance != expected {
		return fmt.Errorf("balance of %s is %d, expected %d", owner.Short(), balance, expected)
	}
	return nil
}
