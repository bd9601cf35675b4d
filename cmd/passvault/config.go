package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CLIConfig is the persistent CLI configuration.
type CLIConfig struct {
	VaultPath       string `yaml:"vault_path"`
	OldPasswordDays int    `yaml:"old_password_days"`
	Clipboard       bool   `yaml:"clipboard"`
	LogLevel        string `yaml:"log_level"`
}

var cfg CLIConfig

// configPath returns the path to the CLI config file. PASSVAULT_CONFIG
// overrides the default location.
func configPath() string {
	if p := os.Getenv("PASSVAULT_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".passvault", "config.yaml")
}

// loadConfig loads the CLI config from disk.
func loadConfig() {
	home, _ := os.UserHomeDir()
	cfg = CLIConfig{
		VaultPath:       filepath.Join(home, ".passvault", "vault.enc"),
		OldPasswordDays: 90,
		Clipboard:       true,
	}
	data, err := os.ReadFile(configPath())
	if err != nil {
		return // Use defaults
	}
	yaml.Unmarshal(data, &cfg) //nolint:errcheck
}

// vaultPath resolves the vault file location: flag wins over config.
func vaultPath() string {
	if flagVaultPath != "" {
		return flagVaultPath
	}
	return cfg.VaultPath
}
