package chain

import (
	"errors"
	"fmt"
	"strings"
)

// ClientError is the base error type for the transaction lifecycle
// client. Specific failure classes embed it.
type ClientError struct {
	Message string
}

func (errorValue ClientError) Error() string {
	return errorValue.Message
}

// MalformedRequestError reports client-detectable bad input, raised
// before any network contact. Never retried.
type MalformedRequestError struct {
	ClientError
}

func NewMalformedRequestError(format string, arguments ...any) error {
	return MalformedRequestError{
		ClientError: ClientError{Message: fmt.Sprintf(format, arguments...)},
	}
}

// SubmissionRejectedError reports a synchronous rejection by the node:
// bad signature, malformed payload, sequence number conflict, or
// insufficient gas balance. The caller must rebuild before retrying.
type SubmissionRejectedError struct {
	ClientError
	StatusCode int
	ErrorCode  string
}

func NewSubmissionRejectedError(statusCode int, errorCode string, message string) error {
	return SubmissionRejectedError{
		ClientError: ClientError{
			Message: fmt.Sprintf("node rejected transaction (%d %s): %s", statusCode, errorCode, message),
		},
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

// ConfirmationTimeoutError reports that no terminal state was observed
// for a submitted transaction within the configured deadline.
type ConfirmationTimeoutError struct {
	ClientError
	Hash     string
	Attempts int
}

func NewConfirmationTimeoutError(hash string, attempts int) error {
	return ConfirmationTimeoutError{
		ClientError: ClientError{
			Message: fmt.Sprintf("transaction %s did not reach a terminal state within %d polls", hash, attempts),
		},
		Hash:     hash,
		Attempts: attempts,
	}
}

// FailureReason classifies why a confirmed transaction reverted.
type FailureReason string

const (
	ReasonAccountFrozen       FailureReason = "account_frozen"
	ReasonInsufficientBalance FailureReason = "insufficient_balance"
	ReasonUnknown             FailureReason = "unknown"
)

// Fungible asset abort codes surfaced in vm_status strings. The frozen
// and insufficient-balance codes are the two the demo flow interprets;
// anything else stays ReasonUnknown.
const (
	abortCodeFrozen              = "0x50003"
	abortNameFrozen              = "ESTORE_IS_FROZEN"
	abortCodeInsufficientBalance = "0x10004"
	abortNameInsufficientBalance = "EINSUFFICIENT_BALANCE"
)

// ExecutionFailedError reports a transaction that confirmed on chain but
// whose execution aborted. Reason carries the classified policy code.
type ExecutionFailedError struct {
	ClientError
	Hash     string
	VMStatus string
	Reason   FailureReason
}

func NewExecutionFailedError(hash string, vmStatus string) error {
	return ExecutionFailedError{
		ClientError: ClientError{
			Message: fmt.Sprintf("transaction %s failed on chain: %s", hash, vmStatus),
		},
		Hash:     hash,
		VMStatus: vmStatus,
		Reason:   ClassifyVMStatus(vmStatus),
	}
}

// ClassifyVMStatus maps an on-chain abort status onto a FailureReason.
func ClassifyVMStatus(vmStatus string) FailureReason {
	switch {
	case strings.Contains(vmStatus, abortCodeFrozen), strings.Contains(vmStatus, abortNameFrozen):
		return ReasonAccountFrozen
	case strings.Contains(vmStatus, abortCodeInsufficientBalance),
		strings.Contains(vmStatus, abortNameInsufficientBalance):
		return ReasonInsufficientBalance
	default:
		return ReasonUnknown
	}
}

// IsExecutionFailure reports whether err is a confirmed on-chain
// execution failure with the given reason.
func IsExecutionFailure(err error, reason FailureReason) bool {
	var failed ExecutionFailedError
	if !errors.As(err, &failed) {
		return false
	}
	return failed.Reason == reason
}
