package shared

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// OwnerConfig carries the environment-resolved settings for the account
// that publishes and administers the fungible asset module.
type OwnerConfig struct {
	PrivateKeyHex string
	Address       string
	Network       string
	NodeURL       string
	FaucetURL     string
}

var dotenvLoadOnce sync.Once

// OwnerConfigFromEnv resolves owner settings from the process environment,
// loading a nearby .env file first when one exists. The private key may be
// supplied inline (OWNER_PRIVATE_KEY) or as a path to a file holding the
// hex-encoded key (OWNER_PRIVATE_KEY_FILE).
func OwnerConfigFromEnv() (OwnerConfig, error) {
	loadDotEnvIfPresent()

	network, err := NormalizeNetwork(firstNonEmptyEnv("APTOS_NETWORK", "NETWORK"))
	if err != nil {
		return OwnerConfig{}, err
	}

	nodeURL := firstNonEmptyEnv("APTOS_NODE_URL", "NODE_URL")
	if nodeURL == "" {
		nodeURL, err = NodeURLFor(network)
		if err != nil {
			return OwnerConfig{}, err
		}
	}

	faucetURL := firstNonEmptyEnv("APTOS_FAUCET_URL", "FAUCET_URL")
	if faucetURL == "" {
		faucetURL, err = FaucetURLFor(network)
		if err != nil {
			return OwnerConfig{}, err
		}
	}

	privateKey := firstNonEmptyEnv("OWNER_PRIVATE_KEY", "APTOS_PRIVATE_KEY")
	if privateKey == "" {
		if keyFile := firstNonEmptyEnv("OWNER_PRIVATE_KEY_FILE", "APTOS_PRIVATE_KEY_FILE"); keyFile != "" {
			privateKey, err = ReadPrivateKeyFile(keyFile)
			if err != nil {
				return OwnerConfig{}, err
			}
		}
	}

	return OwnerConfig{
		PrivateKeyHex: privateKey,
		Address:       firstNonEmptyEnv("OWNER_ADDRESS", "APTOS_OWNER_ADDRESS"),
		Network:       network,
		NodeURL:       strings.TrimRight(nodeURL, "/"),
		FaucetURL:     strings.TrimRight(faucetURL, "/"),
	}, nil
}

// ReadPrivateKeyFile reads a hex-encoded private key from a local file,
// tolerating surrounding whitespace and an optional 0x prefix.
func ReadPrivateKeyFile(path string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read private key file: %w", err)
	}

	candidate := strings.TrimSpace(string(contents))
	if candidate == "" {
		return "", fmt.Errorf("private key file %s is empty", path)
	}
	if _, err := ParseHexKey(candidate); err != nil {
		return "", fmt.Errorf("private key file %s: %w", path, err)
	}

	return candidate, nil
}

// ParseHexKey decodes hex-encoded key material with an optional 0x prefix.
func ParseHexKey(raw string) ([]byte, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return nil, fmt.Errorf("private key cannot be empty")
	}

	candidate = strings.TrimPrefix(candidate, "0x")
	decoded, err := hex.DecodeString(candidate)
	if err != nil {
		return nil, fmt.Errorf("private key is not valid hex: %w", err)
	}

	return decoded, nil
}

func loadDotEnvIfPresent() {
	dotenvLoadOnce.Do(func() {
		startPaths := make([]string, 0, 2)

		if cwd, err := os.Getwd(); err == nil {
			startPaths = append(startPaths, cwd)
		}
		if _, currentFile, _, ok := runtime.Caller(0); ok {
			startPaths = append(startPaths, filepath.Dir(currentFile))
		}

		seenCandidates := make(map[string]struct{})
		for _, start := range startPaths {
			current := start
			for {
				candidate := filepath.Join(current, ".env")
				if _, exists := seenCandidates[candidate]; !exists {
					seenCandidates[candidate] = struct{}{}
					if _, statErr := os.Stat(candidate); statErr == nil {
						loadDotEnvFile(candidate)
						return
					}
				}

				parent := filepath.Dir(current)
				if parent == current {
					break
				}
				current = parent
			}
		}
	})
}

func loadDotEnvFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	loadedAny := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}

		separator := strings.Index(line, "=")
		if separator <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:separator])
		if !isValidEnvKey(key) {
			continue
		}
		if _, alreadySet := os.LookupEnv(key); alreadySet {
			continue
		}

		value := strings.TrimSpace(line[separator+1:])
		if len(value) >= 2 {
			first := value[0]
			last := value[len(value)-1]
			if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		if setErr := os.Setenv(key, value); setErr == nil {
			loadedAny = true
		}
	}

	return loadedAny
}

func isValidEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for index, character := range key {
		if (character >= 'A' && character <= 'Z') ||
			(character >= 'a' && character <= 'z') ||
			(index > 0 && character >= '0' && character <= '9') ||
			character == '_' {
			continue
		}
		return false
	}
	return true
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		value := strings.TrimSpace(os.Getenv(key))
		if value != "" {
			return value
		}
	}
	return ""
}
