package shared

import (
	"fmt"
	"strings"
)

const (
	NetworkDevnet  = "devnet"
	NetworkTestnet = "testnet"
	NetworkLocal   = "local"
)

const (
	DevnetNodeURL   = "https://fullnode.devnet.aptoslabs.com/v1"
	DevnetFaucetURL = "https://faucet.devnet.aptoslabs.com"

	TestnetNodeURL   = "https://fullnode.testnet.aptoslabs.com/v1"
	TestnetFaucetURL = "https://faucet.testnet.aptoslabs.com"

	LocalNodeURL   = "http://127.0.0.1:8080/v1"
	LocalFaucetURL = "http://127.0.0.1:8081"
)

// NormalizeNetwork maps a loosely formatted network name onto one of the
// supported network identifiers. An empty name selects devnet.
func NormalizeNetwork(network string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(network))
	if normalized == "" {
		return NetworkDevnet, nil
	}

	switch normalized {
	case NetworkDevnet, NetworkTestnet, NetworkLocal:
		return normalized, nil
	case "localnet", "localhost":
		return NetworkLocal, nil
	default:
		return "", fmt.Errorf("unsupported network %q", network)
	}
}

// NodeURLFor returns the default fullnode URL for a network.
func NodeURLFor(network string) (string, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return "", err
	}

	switch normalized {
	case NetworkTestnet:
		return TestnetNodeURL, nil
	case NetworkLocal:
		return LocalNodeURL, nil
	default:
		return DevnetNodeURL, nil
	}
}

// FaucetURLFor returns the default faucet URL for a network.
func FaucetURLFor(network string) (string, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return "", err
	}

	switch normalized {
	case NetworkTestnet:
		return TestnetFaucetURL, nil
	case NetworkLocal:
		return LocalFaucetURL, nil
	default:
		return DevnetFaucetURL, nil
	}
}
