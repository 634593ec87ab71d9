package faucet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
	"github.com/movekit/aptos-fa-sdk-go/pkg/chain"
)

// DefaultFundAmount covers account creation plus gas for a short run
// of transactions on a development network.
const DefaultFundAmount = uint64(100_000_000)

// Config configures a faucet Client. FaucetURL is required.
type Config struct {
	FaucetURL  string
	HTTPClient *http.Client
}

// Client requests development-network coins from a faucet service.
// Funding an address the chain has never seen also creates the
// account.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.FaucetURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("faucet URL is required")
	}
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid faucet URL: %w", err)
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid faucet URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsedBaseURL.Host) == "" {
		return nil, fmt.Errorf("invalid faucet URL: host is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// BaseURL returns the configured faucet URL.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// Fund asks the faucet to credit amount base units of the gas coin to
// the address and returns the hashes of the funding transactions. The
// transactions may still be pending when Fund returns.
func (client *Client) Fund(ctx context.Context, address account.AccountAddress, amount uint64) ([]string, error) {
	if address.IsZero() {
		return nil, chain.NewMalformedRequestError("funding address is required")
	}
	if amount == 0 {
		return nil, chain.NewMalformedRequestError("funding amount must be greater than zero")
	}

	query := url.Values{}
	query.Set("address", address.String())
	query.Set("amount", strconv.FormatUint(amount, 10))

	request, err := http.NewRequestWithContext(
		ctx, http.MethodPost, client.baseURL+"/mint?"+query.Encode(), nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build faucet request: %w", err)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("faucet request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read faucet response: %w", err)
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("faucet returned %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	var hashes []string
	if err := json.Unmarshal(body, &hashes); err != nil {
		return nil, fmt.Errorf("failed to decode faucet response: %w", err)
	}
	return hashes, nil
}

// FundAndWait funds the address and blocks until every funding
// transaction is confirmed on the node.
func (client *Client) FundAndWait(
	ctx context.Context,
	chainClient *chain.Client,
	address account.AccountAddress,
	amount uint64,
	options chain.WaitOptions,
) error {
	if chainClient == nil {
		return chain.NewMalformedRequestError("chain client is required")
	}

	hashes, err := client.Fund(ctx, address, amount)
	if err != nil {
		return err
	}

	for _, hash := range hashes {
		if _, err := chainClient.WaitForTransaction(ctx, hash, options); err != nil {
			return fmt.Errorf("funding transaction %s did not confirm: %w", hash, err)
		}
	}
	return nil
}
