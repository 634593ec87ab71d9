// Package faucet funds development-network accounts with gas coins.
// Funding an unseen address also creates the account on chain, so it
// doubles as account bootstrap for demos and tests.
package faucet
