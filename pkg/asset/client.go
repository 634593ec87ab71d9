package asset

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
	"github.com/movekit/aptos-fa-sdk-go/pkg/chain"
)

// Client answers balance and freeze-state queries for one fungible
// asset and lets any holder move their own balance. Administrative
// operations live on ManagedClient.
type Client struct {
	chainClient *chain.Client
	creator     account.AccountAddress
	moduleName  string
	wait        chain.WaitOptions

	metadataMutex sync.Mutex
	metadata      account.AccountAddress
	metadataKnown bool
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	if config.Chain == nil {
		return nil, fmt.Errorf("chain client is required")
	}
	if config.Creator.IsZero() {
		return nil, fmt.Errorf("creator address is required")
	}

	moduleName := strings.TrimSpace(config.ModuleName)
	if moduleName == "" {
		moduleName = DefaultModuleName
	}

	return &Client{
		chainClient: config.Chain,
		creator:     config.Creator,
		moduleName:  moduleName,
		wait:        config.Wait,
	}, nil
}

// Creator returns the address the asset module is published under.
func (client *Client) Creator() account.AccountAddress {
	return client.creator
}

// Metadata resolves the asset's metadata object address through the
// contract's get_metadata view, caching it on first use.
func (client *Client) Metadata(ctx context.Context) (account.AccountAddress, error) {
	client.metadataMutex.Lock()
	defer client.metadataMutex.Unlock()

	if client.metadataKnown {
		return client.metadata, nil
	}

	values, err := client.chainClient.View(ctx, client.assetFunction(metadataFunction), nil, nil)
	if err != nil {
		return account.AccountAddress{}, err
	}
	if len(values) == 0 {
		return account.AccountAddress{}, fmt.Errorf("%s returned no metadata object", metadataFunction)
	}

	metadata, err := decodeObjectAddress(values[0])
	if err != nil {
		return account.AccountAddress{}, fmt.Errorf("failed to decode metadata object: %w", err)
	}

	client.metadata = metadata
	client.metadataKnown = true
	return metadata, nil
}

// Balance returns the owner's primary store balance in base units. An
// owner without a store yet holds zero.
func (client *Client) Balance(ctx context.Context, owner account.AccountAddress) (uint64, error) {
	if err := validateTarget(owner); err != nil {
		return 0, err
	}
	metadata, err := client.Metadata(ctx)
	if err != nil {
		return 0, err
	}

	values, err := client.chainClient.View(
		ctx,
		frameworkFunction(balanceFunction),
		[]string{metadataTypeTag()},
		[]any{owner.String(), metadata.String()},
	)
	if err != nil {
		return 0, err
	}
	return decodeU64Value(values)
}

// IsFrozen reports whether the owner's primary store is frozen.
func (client *Client) IsFrozen(ctx context.Context, owner account.AccountAddress) (bool, error) {
	if err := validateTarget(owner); err != nil {
		return false, err
	}
	metadata, err := client.Metadata(ctx)
	if err != nil {
		return false, err
	}

	values, err := client.chainClient.View(
		ctx,
		frameworkFunction(frozenFunction),
		[]string{metadataTypeTag()},
		[]any{owner.String(), metadata.String()},
	)
	if err != nil {
		return false, err
	}
	return decodeBoolValue(values)
}

// TokenInfo fetches the asset's name, symbol, and decimals from the
// framework metadata views.
func (client *Client) TokenInfo(ctx context.Context) (TokenInfo, error) {
	metadata, err := client.Metadata(ctx)
	if err != nil {
		return TokenInfo{}, err
	}

	info := TokenInfo{Metadata: metadata}
	typeArgs := []string{metadataTypeTag()}
	args := []any{metadata.String()}

	nameValues, err := client.chainClient.View(ctx, fungibleAssetFunction("name"), typeArgs, args)
	if err != nil {
		return TokenInfo{}, err
	}
	if info.Name, err = decodeStringValue(nameValues); err != nil {
		return TokenInfo{}, err
	}

	symbolValues, err := client.chainClient.View(ctx, fungibleAssetFunction("symbol"), typeArgs, args)
	if err != nil {
		return TokenInfo{}, err
	}
	if info.Symbol, err = decodeStringValue(symbolValues); err != nil {
		return TokenInfo{}, err
	}

	decimalsValues, err := client.chainClient.View(ctx, fungibleAssetFunction("decimals"), typeArgs, args)
	if err != nil {
		return TokenInfo{}, err
	}
	decimals, err := decodeU64Value(decimalsValues)
	if err != nil {
		return TokenInfo{}, err
	}
	info.Decimals = uint8(decimals)

	return info, nil
}

// Transfer moves the sender's own holdings to the recipient through
// the framework's primary store transfer. It confirms the transaction
// before returning; a frozen store or short balance surfaces as
// ExecutionFailedError with the classified reason.
func (client *Client) Transfer(
	ctx context.Context,
	sender *account.Account,
	recipient account.AccountAddress,
	amount uint64,
) (*chain.TransactionReceipt, error) {
	if sender == nil {
		return nil, chain.NewMalformedRequestError("sending account is required")
	}
	if err := validateTarget(recipient); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	metadata, err := client.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	metadataTag, err := chain.ParseStructTag(metadataTypeTag())
	if err != nil {
		return nil, err
	}

	metadataArg, err := chain.AddressArg(metadata)
	if err != nil {
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
		ctx,
		sender,
		frameworkFunction(transferFunction),
		[]chain.TypeTag{chain.TypeTagStruct{Value: metadataTag}},
		[][]byte{metadataArg, recipientArg, amountArg},
	)
}

// submitEntry runs the full build, sign, submit, confirm sequence for
// one entry-function call.
func (client *Client) submitEntry(
	ctx context.Context,
	signer *account.Account,
	functionID string,
	typeArgs []chain.TypeTag,
	args [][]byte,
) (*chain.TransactionReceipt, error) {
	raw, err := client.chainClient.BuildTransaction(
		ctx, signer.Address(), functionID, typeArgs, args, chain.BuildOptions{},
	)
	if err != nil {
		return nil, err
	}

	signed, err := chain.Sign(signer, raw)
	if err != nil {
		return nil, err
	}

	hash, err := client.chainClient.SubmitTransaction(ctx, signed)
	if err != nil {
		return nil, err
	}

	return client.chainClient.WaitForTransaction(ctx, hash, client.wait)
}

func (client *Client) assetFunction(function string) string {
	return fmt.Sprintf("%s::%s::%s", client.creator.String(), client.moduleName, function)
}

func frameworkFunction(function string) string {
	return fmt.Sprintf("%s::%s::%s", frameworkAddress, storeModule, function)
}

func fungibleAssetFunction(function string) string {
	return fmt.Sprintf("%s::fungible_asset::%s", frameworkAddress, function)
}

func metadataTypeTag() string {
	return fmt.Sprintf("%s::%s", frameworkAddress, metadataStructName)
}

// decodeObjectAddress accepts both object shapes the node emits for
// Object<T> view results: a bare address string or {"inner": address}.
func decodeObjectAddress(value any) (account.AccountAddress, error) {
	switch typed := value.(type) {
	case string:
		return account.ParseAddress(typed)
	case map[string]any:
		inner, ok := typed["inner"].(string)
		if !ok {
			return account.AccountAddress{}, fmt.Errorf("object value carries no inner address")
		}
		return account.ParseAddress(inner)
	default:
		return account.AccountAddress{}, fmt.Errorf("unexpected object value of type %T", value)
	}
}

// decodeU64Value decodes the first view return value as a u64. The
// node emits u64 values as decimal strings; small integers may arrive
// as JSON numbers.
func decodeU64Value(values []any) (uint64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("view returned no values")
	}
	switch typed := values[0].(type) {
	case string:
		parsed, err := strconv.ParseUint(typed, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid numeric value %q: %w", typed, err)
		}
		return parsed, nil
	case float64:
		return uint64(typed), nil
	default:
		return 0, fmt.Errorf("unexpected numeric value of type %T", values[0])
	}
}

func decodeBoolValue(values []any) (bool, error) {
	if len(values) == 0 {
		return false, fmt.Errorf("view returned no values")
	}
	typed, ok := values[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected boolean value of type %T", values[0])
	}
	return typed, nil
}

func decodeStringValue(values []any) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("view returned no values")
	}
	typed, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected string value of type %T", values[0])
	}
	return typed, nil
}
