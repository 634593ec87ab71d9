// Package shared provides network profiles and environment-driven
// configuration used across the SDK packages: supported network names
// with their default fullnode and faucet endpoints, .env discovery, and
// hex private key handling for the asset owner account.
package shared
