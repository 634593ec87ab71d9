package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
)

const (
	contentTypeJSON     = "application/json"
	contentTypeBCSTxn   = "application/x.aptos.signed_transaction+bcs"
	typePendingTxn      = "pending_transaction"
	zeroSignatureLength = 64
)

// Client translates high-level intents into signed, submitted
// transactions against a fullnode, and provides receipt polling and
// view-function invocation. It holds no state beyond configuration and
// a cached chain ID.
type Client struct {
	baseURL    string
	httpClient *http.Client

	maxGasAmount     uint64
	gasUnitPrice     uint64
	expirationWindow time.Duration

	chainIDMutex sync.Mutex
	chainID      uint8
	chainIDKnown bool
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.NodeURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("node URL is required")
	}
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid node URL: %w", err)
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid node URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsedBaseURL.Host) == "" {
		return nil, fmt.Errorf("invalid node URL: host is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	maxGasAmount := config.MaxGasAmount
	if maxGasAmount == 0 {
		maxGasAmount = DefaultMaxGasAmount
	}
	gasUnitPrice := config.GasUnitPrice
	if gasUnitPrice == 0 {
		gasUnitPrice = DefaultGasUnitPrice
	}
	expirationWindow := config.ExpirationWindow
	if expirationWindow <= 0 {
		expirationWindow = DefaultExpirationWindow
	}

	return &Client{
		baseURL:          baseURL,
		httpClient:       httpClient,
		maxGasAmount:     maxGasAmount,
		gasUnitPrice:     gasUnitPrice,
		expirationWindow: expirationWindow,
	}, nil
}

// BaseURL returns the configured fullnode URL.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// LedgerInfo fetches the node's current ledger summary.
func (client *Client) LedgerInfo(ctx context.Context) (LedgerInfo, error) {
	var info LedgerInfo
	status, body, err := client.get(ctx, "")
	if err != nil {
		return info, err
	}
	if status != http.StatusOK {
		return info, nodeErrorFromBody("failed to fetch ledger info", status, body)
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return info, fmt.Errorf("failed to decode ledger info: %w", err)
	}
	return info, nil
}

// ChainID returns the chain ID, fetching and caching it on first use.
func (client *Client) ChainID(ctx context.Context) (uint8, error) {
	client.chainIDMutex.Lock()
	defer client.chainIDMutex.Unlock()

	if client.chainIDKnown {
		return client.chainID, nil
	}

	info, err := client.LedgerInfo(ctx)
	if err != nil {
		return 0, err
	}
	client.chainID = info.ChainID
	client.chainIDKnown = true
	return client.chainID, nil
}

// AccountInfo fetches the account resource for an address.
func (client *Client) AccountInfo(ctx context.Context, address account.AccountAddress) (AccountInfo, error) {
	var info AccountInfo
	status, body, err := client.get(ctx, "/accounts/"+address.String())
	if err != nil {
		return info, err
	}
	if status != http.StatusOK {
		return info, nodeErrorFromBody(fmt.Sprintf("failed to fetch account %s", address.Short()), status, body)
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return info, fmt.Errorf("failed to decode account info: %w", err)
	}
	return info, nil
}

// SequenceNumber fetches the account's next sequence number. An account
// the chain has not seen yet starts at zero.
func (client *Client) SequenceNumber(ctx context.Context, address account.AccountAddress) (uint64, error) {
	status, body, err := client.get(ctx, "/accounts/"+address.String())
	if err != nil {
		return 0, err
	}
	if status == http.StatusNotFound {
		return 0, nil
	}
	if status != http.StatusOK {
		return 0, nodeErrorFromBody(fmt.Sprintf("failed to fetch account %s", address.Short()), status, body)
	}

	var info AccountInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return 0, fmt.Errorf("failed to decode account info: %w", err)
	}
	sequenceNumber, err := strconv.ParseUint(info.SequenceNumber, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid sequence number %q: %w", info.SequenceNumber, err)
	}
	return sequenceNumber, nil
}

// BuildTransaction constructs a raw entry-function transaction for the
// sender. The sequence number and chain ID are fetched from the node
// unless overridden in options; gas settings fall back to the client
// defaults. Detectably bad input fails with MalformedRequestError
// before any network contact.
func (client *Client) BuildTransaction(
	ctx context.Context,
	sender account.AccountAddress,
	functionID string,
	typeArgs []TypeTag,
	args [][]byte,
	options BuildOptions,
) (*RawTransaction, error) {
	module, function, err := ParseFunctionID(functionID)
	if err != nil {
		return nil, err
	}
	if err := validateEntryArgs(args); err != nil {
		return nil, err
	}
	if sender.IsZero() {
		return nil, NewMalformedRequestError("sender address is required")
	}

	chainID := uint8(0)
	if options.ChainID != nil {
		chainID = *options.ChainID
	} else {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			return nil, err
		}
	}

	sequenceNumber := uint64(0)
	if options.SequenceNumber != nil {
		sequenceNumber = *options.SequenceNumber
	} else {
		sequenceNumber, err = client.SequenceNumber(ctx, sender)
		if err != nil {
			return nil, err
		}
	}

	maxGasAmount := options.MaxGasAmount
	if maxGasAmount == 0 {
		maxGasAmount = client.maxGasAmount
	}
	gasUnitPrice := options.GasUnitPrice
	if gasUnitPrice == 0 {
		gasUnitPrice = client.gasUnitPrice
	}
	expiration := options.ExpirationTimestampSecs
	if expiration == 0 {
		expiration = uint64(time.Now().Add(client.expirationWindow).Unix())
	}

	return &RawTransaction{
		Sender:         sender,
		SequenceNumber: sequenceNumber,
		Payload: &EntryFunction{
			Module:   module,
			Function: function,
			TypeArgs: typeArgs,
			Args:     args,
		},
		MaxGasAmount:            maxGasAmount,
		GasUnitPrice:            gasUnitPrice,
		ExpirationTimestampSecs: expiration,
		ChainID:                 chainID,
	}, nil
}

// SubmitTransaction submits a signed transaction to the node's pending
// pool and returns its hash. A synchronous rejection surfaces as
// SubmissionRejectedError; the caller must rebuild before retrying.
func (client *Client) SubmitTransaction(ctx context.Context, signed *SignedTransaction) (string, error) {
	encoded, err := signed.BcsSerialize()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}

	status, body, err := client.post(ctx, "/transactions", contentTypeBCSTxn, encoded)
	if err != nil {
		return "", err
	}
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		decoded := decodeNodeError(body)
		return "", NewSubmissionRejectedError(status, decoded.ErrorCode, decoded.Message)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return "", nodeErrorFromBody("failed to submit transaction", status, body)
	}

	var pending pendingTransaction
	if err := json.Unmarshal(body, &pending); err != nil {
		return "", fmt.Errorf("failed to decode submission response: %w", err)
	}
	if strings.TrimSpace(pending.Hash) == "" {
		return "", fmt.Errorf("node accepted transaction but returned no hash")
	}
	return pending.Hash, nil
}

// WaitForTransaction polls the node until the transaction reaches a
// terminal state or the deadline elapses. With CheckSuccess unset or
// true, a confirmed-but-reverted transaction is returned together with
// an ExecutionFailedError carrying the classified reason.
func (client *Client) WaitForTransaction(
	ctx context.Context,
	hash string,
	options WaitOptions,
) (*TransactionReceipt, error) {
	if strings.TrimSpace(hash) == "" {
		return nil, NewMalformedRequestError("transaction hash is required")
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	interval := options.Interval
	if interval <= 0 {
		interval = DefaultWaitInterval
	}
	checkSuccess := true
	if options.CheckSuccess != nil {
		checkSuccess = *options.CheckSuccess
	}

	maxAttempts := int(timeout / interval)
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
			}
		}

		status, body, err := client.get(ctx, "/transactions/by_hash/"+hash)
		if err != nil {
			// Transient transport failures use up a poll attempt.
			continue
		}
		if status == http.StatusNotFound || status >= http.StatusInternalServerError {
			continue
		}
		if status != http.StatusOK {
			return nil, nodeErrorFromBody(fmt.Sprintf("failed to fetch transaction %s", hash), status, body)
		}

		var polled transactionByHash
		if err := json.Unmarshal(body, &polled); err != nil {
			return nil, fmt.Errorf("failed to decode transaction %s: %w", hash, err)
		}
		if polled.Type == typePendingTxn {
			continue
		}

		receipt := &TransactionReceipt{
			Hash:     hash,
			Success:  polled.Success != nil && *polled.Success,
			VMStatus: polled.VMStatus,
			GasUsed:  parseOptionalUint(polled.GasUsed),
			Version:  parseOptionalUint(polled.Version),
		}
		if checkSuccess && !receipt.Success {
			return receipt, NewExecutionFailedError(hash, receipt.VMStatus)
		}
		return receipt, nil
	}

	return nil, NewConfirmationTimeoutError(hash, maxAttempts)
}

// View executes a read-only function against current chain state. No
// transaction is created. Type arguments and value arguments travel in
// their JSON forms.
func (client *Client) View(
	ctx context.Context,
	functionID string,
	typeArgs []string,
	args []any,
) ([]any, error) {
	if _, _, err := ParseFunctionID(functionID); err != nil {
		return nil, err
	}

	request := viewRequest{
		Function:      functionID,
		TypeArguments: typeArgs,
		Arguments:     args,
	}
	if request.TypeArguments == nil {
		request.TypeArguments = []string{}
	}
	if request.Arguments == nil {
		request.Arguments = []any{}
	}

	encoded, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode view request: %w", err)
	}

	status, body, err := client.post(ctx, "/view", contentTypeJSON, encoded)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nodeErrorFromBody(fmt.Sprintf("view %s failed", functionID), status, body)
	}

	var values []any
	if err := json.Unmarshal(body, &values); err != nil {
		return nil, fmt.Errorf("failed to decode view response: %w", err)
	}
	return values, nil
}

// SimulateTransaction executes the raw transaction against current
// chain state without submitting it, using a zeroed signature. Useful
// as a preflight for gas and abort behavior.
func (client *Client) SimulateTransaction(
	ctx context.Context,
	signer *account.Account,
	raw *RawTransaction,
) (*TransactionReceipt, error) {
	if signer == nil {
		return nil, NewMalformedRequestError("simulating account is required")
	}
	if raw == nil {
		return nil, NewMalformedRequestError("raw transaction is required")
	}

	// Simulation requires the real public key with an invalid signature.
	var authenticator TransactionAuthenticator
	switch signer.Scheme() {
	case account.SchemeSecp256k1:
		authenticator = Secp256k1Authenticator{
			PublicKey: signer.PublicKeyBytes(),
			Signature: make([]byte, zeroSignatureLength),
		}
	default:
		authenticator = Ed25519Authenticator{
			PublicKey: signer.PublicKeyBytes(),
			Signature: make([]byte, zeroSignatureLength),
		}
	}

	signed := &SignedTransaction{Raw: raw, Authenticator: authenticator}
	encoded, err := signed.BcsSerialize()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize transaction: %w", err)
	}

	status, body, err := client.post(ctx, "/transactions/simulate", contentTypeBCSTxn, encoded)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nodeErrorFromBody("simulation failed", status, body)
	}

	var simulated []transactionByHash
	if err := json.Unmarshal(body, &simulated); err != nil {
		return nil, fmt.Errorf("failed to decode simulation response: %w", err)
	}
	if len(simulated) == 0 {
		return nil, fmt.Errorf("node returned an empty simulation result")
	}

	first := simulated[0]
	return &TransactionReceipt{
		Hash:     first.Hash,
		Success:  first.Success != nil && *first.Success,
		VMStatus: first.VMStatus,
		GasUsed:  parseOptionalUint(first.GasUsed),
		Version:  parseOptionalUint(first.Version),
	}, nil
}

func (client *Client) get(ctx context.Context, path string) (int, []byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	request.Header.Set("Accept", contentTypeJSON)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return 0, nil, fmt.Errorf("node request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read node response: %w", err)
	}
	return response.StatusCode, body, nil
}

func (client *Client) post(ctx context.Context, path string, contentType string, payload []byte) (int, []byte, error) {
	request, err := http.NewRequestWithContext(
		ctx, http.MethodPost, client.baseURL+path, bytes.NewReader(payload),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Accept", contentTypeJSON)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return 0, nil, fmt.Errorf("node request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read node response: %w", err)
	}
	return response.StatusCode, body, nil
}

func decodeNodeError(body []byte) nodeError {
	var decoded nodeError
	if err := json.Unmarshal(body, &decoded); err != nil || decoded.Message == "" {
		decoded.Message = strings.TrimSpace(string(body))
	}
	return decoded
}

func nodeErrorFromBody(operation string, status int, body []byte) error {
	decoded := decodeNodeError(body)
	if decoded.ErrorCode != "" {
		return fmt.Errorf("%s: node returned %d (%s): %s", operation, status, decoded.ErrorCode, decoded.Message)
	}
	return fmt.Errorf("%s: node returned %d: %s", operation, status, decoded.Message)
}

func parseOptionalUint(value string) uint64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}
