// Package demo drives an end-to-end walkthrough of the managed asset
// surface against a live network: faucet funding, minting, an
// administrative sweep, a burn, and a freeze round-trip that proves a
// frozen holder cannot move funds until unfrozen.
//
// The walkthrough is deterministic about outcomes and verifies every
// intermediate balance, so it doubles as a smoke test for a freshly
// deployed asset module.
package demo
