// Package account models chain accounts: fixed-length addresses and the
// ed25519 / secp256k1 keypairs that authenticate them. An account owns
// its key material for the process lifetime and produces transaction
// signatures over messages prepared by pkg/chain.
package account
