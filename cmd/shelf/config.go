// Config loading for the shelf CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/forgeyard/shelf/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Shelf configuration

# Directory containing the integrations/ and platforms/ package checkouts.
packages_dir: ../packages

# Directory holding index.json and the archive folders (a git checkout).
index_dir: .

# History database directory (optional; overridable by --data-dir).
# data_dir:

# Core source repositories tracked in the index.
# sources:
#   - name: core
#     path: ../core
#     url: https://example.org/core.git

# Git remote that publish pushes to.
remote:
  name: origin
  branch: main

# SFTP artifact mirror (optional; empty host disables mirroring).
# mirror:
#   host: mirror.example.org
#   user: shelf
#   key_path: ~/.ssh/id_ed25519
#   remote_dir: /srv/index
`

// loadConfig reads config.yaml from the config directory using Viper and
// unmarshals it into a types.Config. The config directory and a default
// config.yaml are created on first run; a missing config.yaml is not an
// error.
func loadConfig(configDir string) (types.Config, error) {
	var c types.Config

	if err := ensureConfigDir(configDir); err != nil {
		return c, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return c, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault("packages_dir", "../packages")
	v.SetDefault("index_dir", ".")
	v.SetDefault("remote.name", "origin")
	v.SetDefault("remote.branch", "main")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
