// Package chain implements the transaction lifecycle against a
// Move-style fullnode REST API: canonical (BCS) transaction construction,
// deterministic signing, submission, bounded receipt polling, and
// read-only view-function calls.
//
// Submission and confirmation are deliberately split: SubmitTransaction
// returns as soon as the node accepts the transaction into its pending
// pool, and WaitForTransaction blocks until a terminal state, so callers
// may pipeline submissions before blocking on any one confirmation.
//
// # Client Usage
//
//	client, err := chain.NewClient(chain.Config{NodeURL: shared.DevnetNodeURL})
//
//	raw, err := client.BuildTransaction(ctx, sender.Address(),
//		"0x1::primary_fungible_store::transfer",
//		[]chain.TypeTag{metadataTypeTag}, args, chain.BuildOptions{})
//
//	signed, err := chain.Sign(sender, raw)
//	hash, err := client.SubmitTransaction(ctx, signed)
//	receipt, err := client.WaitForTransaction(ctx, hash, chain.WaitOptions{})
package chain
