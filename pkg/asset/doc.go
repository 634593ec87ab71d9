// Package asset is a typed client for a managed fungible asset: the
// balance, freeze-state, and metadata views plus the holder-signed
// transfer path, and (through ManagedClient) the administrative mint,
// transfer, burn, freeze, and unfreeze entry functions.
//
// Client talks to the framework's primary store for state shared by
// every fungible asset; ManagedClient calls the asset contract itself,
// signing with the account that holds its capabilities.
//
// # Usage
//
//	client, err := asset.NewManagedClient(asset.Config{
//		Chain:   chainClient,
//		Creator: owner.Address(),
//	}, owner)
//
//	receipt, err := client.Mint(ctx, recipient, 100)
//	balance, err := client.Balance(ctx, recipient)
package asset
