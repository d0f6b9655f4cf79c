package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the hondoku config directory path.
// Uses $XDG_CONFIG_HOME/hondoku if set, otherwise ~/.config/hondoku.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hondoku")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hondoku")
}

// WriteDefault writes a default config.toml pointing to libraryPath.
// Returns the config file path. Skips if config.toml already exists.
func WriteDefault(libraryPath string) (string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	portablePath := CompressHome(libraryPath)

	content := fmt.Sprintf(`library_path = %q
inbox_path = "~/hondoku/inbox"
frequency_lists_path = "~/hondoku/frequency-lists"

[histogram]
source_key = "netflix"
bin_width = 500
`, portablePath)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}

// CompressHome replaces the home directory prefix with ~ for display.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + path[len(home):]
	}
	return path
}
