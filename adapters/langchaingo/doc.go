// Package langchaingo provides fungible asset tools for the
// tmc/langchaingo AI agent framework.
//
// These tools let Langchain-powered agents read managed asset state on
// chain, such as checking a holder's balance before proposing a
// transfer.
//
// # Available Tools
//
//   - AssetBalanceTool: Looks up a holder's balance and freeze state.
//
// # Usage
//
// Add the tool to your agent's toolkit configuration:
//
//	balanceTool := langchaingo.NewAssetBalanceTool(assetClient)
//	agent := initialize.NewSingleActionAgent(llm, []tools.Tool{balanceTool})
//
//	// The agent can now check balances when it sees an account address.
//
// # Documentation
//
// Langchaingo: https://github.com/tmc/langchaingo
package langchaingo
