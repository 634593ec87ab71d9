package langchaingo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/tools"

	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
	"github.com/movekit/aptos-fa-sdk-go/pkg/asset"
)

// AssetBalanceTool is a langchaingo compatible Tool that allows an
// agent to look up a holder's fungible asset balance and freeze state.
type AssetBalanceTool struct {
	client    *asset.Client
	Callbacks callbacks.Handler
}

// Ensure AssetBalanceTool implements tools.Tool
var _ tools.Tool = &AssetBalanceTool{}

// NewAssetBalanceTool creates a new langchaingo tool backed by the
// given asset client.
func NewAssetBalanceTool(client *asset.Client) *AssetBalanceTool {
	return &AssetBalanceTool{
		client: client,
	}
}

// Name returns the name of the tool.
func (t *AssetBalanceTool) Name() string {
	return "Fungible_Asset_Balance_Lookup"
}

// Description returns a description of the tool to help the language model
// decide when to use it.
func (t *AssetBalanceTool) Description() string {
	return `Looks up the fungible asset balance and freeze state of an on-chain account.
Input must be a hex account address (e.g., 0xa1b2...). Returns a JSON object with the
address, its balance in base units, and whether the account's store is frozen.`
}

// Call executes the tool by querying the balance of the provided
// address. Input should be a hex account address.
func (t *AssetBalanceTool) Call(ctx context.Context, input string) (string, error) {
	if t.Callbacks != nil {
		t.Callbacks.HandleToolStart(ctx, input)
	}

	address, err := account.ParseAddress(input)
	if err != nil {
		if t.Callbacks != nil {
			t.Callbacks.HandleToolError(ctx, err)
		}
		return fmt.Sprintf("Invalid account address: %v", err), nil
	}

	balance, err := t.client.Balance(ctx, address)
	if err != nil {
		if t.Callbacks != nil {
			t.Callbacks.HandleToolError(ctx, err)
		}
		return fmt.Sprintf("Failed to fetch balance: %v", err), nil
	}
	frozen, err := t.client.IsFrozen(ctx, address)
	if err != nil {
		if t.Callbacks != nil {
			t.Callbacks.HandleToolError(ctx, err)
		}
		return fmt.Sprintf("Failed to fetch freeze state: %v", err), nil
	}

	// Format result as pretty JSON to feed back to the LLM agent
	jsonData, err := json.MarshalIndent(map[string]any{
		"address": address.String(),
		"balance": balance,
		"frozen":  frozen,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode balance to JSON: %w", err)
	}

	output := string(jsonData)

	if t.Callbacks != nil {
		t.Callbacks.HandleToolEnd(ctx, output)
	}

	return output, nil
}
