package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL    string
	KeystoreFile string
	Output       string
	Verbose      bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    getEnvOrDefault("BROADSIDE_SERVER", "http://localhost:8080"),
		KeystoreFile: getEnvOrDefault("BROADSIDE_KEYSTORE", defaultKeystoreFile()),
		Output:       "text",
		Verbose:      false,
	}
}

// StoredIdentity is the locally saved identity: the handle the server issued
// and the public key proofs are encrypted against
type StoredIdentity struct {
	Handle    string `json:"handle"`
	PublicKey string `json:"public_key"`
}

// LoadIdentity reads the saved identity, returning nil if none exists
func (c *Config) LoadIdentity() (*StoredIdentity, error) {
	data, err := os.ReadFile(c.KeystoreFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var id StoredIdentity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("failed to parse keystore: %w", err)
	}
	return &id, nil
}

// SaveIdentity writes the identity to the keystore file
func (c *Config) SaveIdentity(id StoredIdentity) error {
	dir := filepath.Dir(c.KeystoreFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.KeystoreFile, data, 0600)
}

func defaultKeystoreFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".broadside/identity.json"
	}
	return filepath.Join(home, ".broadside", "identity.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
