package chain

import (
	"net/http"
	"time"
)

// Defaults applied when Config or per-build options leave gas settings
// unset.
const (
	DefaultMaxGasAmount     = uint64(200_000)
	DefaultGasUnitPrice     = uint64(100)
	DefaultExpirationWindow = 2 * time.Minute

	DefaultWaitTimeout  = 30 * time.Second
	DefaultWaitInterval = 1 * time.Second
)

// Config configures a Client. NodeURL is the only required field.
type Config struct {
	NodeURL    string
	HTTPClient *http.Client

	MaxGasAmount     uint64
	GasUnitPrice     uint64
	ExpirationWindow time.Duration
}

// BuildOptions overrides per-transaction build inputs. A nil
// SequenceNumber or ChainID is fetched from the node; zero gas values
// fall back to the client defaults.
type BuildOptions struct {
	SequenceNumber *uint64
	ChainID        *uint8

	MaxGasAmount            uint64
	GasUnitPrice            uint64
	ExpirationTimestampSecs uint64
}

// WaitOptions configures confirmation polling. CheckSuccess controls
// whether an on-chain execution failure is surfaced as an error (the
// default) or returned as a plain receipt.
type WaitOptions struct {
	Timeout      time.Duration
	Interval     time.Duration
	CheckSuccess *bool
}

// TransactionReceipt is the terminal state of a submitted transaction.
type TransactionReceipt struct {
	Hash     string
	Success  bool
	VMStatus string
	GasUsed  uint64
	Version  uint64
}

// LedgerInfo is the node's current ledger summary.
type LedgerInfo struct {
	ChainID         uint8  `json:"chain_id"`
	LedgerVersion   string `json:"ledger_version"`
	LedgerTimestamp string `json:"ledger_timestamp"`
	BlockHeight     string `json:"block_height"`
	NodeRole        string `json:"node_role"`
}

// AccountInfo is the node's view of an account resource.
type AccountInfo struct {
	SequenceNumber    string `json:"sequence_number"`
	AuthenticationKey string `json:"authentication_key"`
}

type pendingTransaction struct {
	Hash string `json:"hash"`
}

// transactionByHash is the polled transaction shape. Type stays
// "pending_transaction" until the transaction reaches a terminal state.
type transactionByHash struct {
	Type     string `json:"type"`
	Hash     string `json:"hash"`
	Success  *bool  `json:"success,omitempty"`
	VMStatus string `json:"vm_status,omitempty"`
	GasUsed  string `json:"gas_used,omitempty"`
	Version  string `json:"version,omitempty"`
}

// viewRequest is the read-only function invocation shape.
type viewRequest struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []any    `json:"arguments"`
}

type nodeError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}
