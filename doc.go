// The Movekit Fungible Asset SDK for Go is a small client SDK for
// Move-style chains exposing the Aptos fullnode REST API. It provides
// packages for building, signing, and submitting entry-function
// transactions, polling transaction receipts to a terminal state,
// invoking read-only view functions, and driving managed fungible
// asset flows (mint, transfer, burn, freeze, unfreeze) end to end.
//
// # Packages
//
//   - pkg/shared: network profiles and environment-driven configuration
//   - pkg/account: ed25519 and secp256k1 accounts and addresses
//   - pkg/chain: transaction lifecycle client (build, sign, submit, wait, view)
//   - pkg/asset: fungible asset balance queries, holder transfers, issuer operations
//   - pkg/faucet: test network funding client
//   - pkg/demo: the managed fungible asset demo scenario
//
// # Installation
//
//	go get github.com/movekit/aptos-fa-sdk-go@latest
package aptos_fa_sdk_go
