package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all hondoku configuration.
type Config struct {
	LibraryPath string `toml:"library_path"`
	InboxPath   string `toml:"inbox_path"`
	FreqLists   string `toml:"frequency_lists_path"`

	Histogram HistogramConfig `toml:"histogram"`
}

// HistogramConfig controls the frequency histogram report.
type HistogramConfig struct {
	SourceKey string `toml:"source_key"`
	BinWidth  int    `toml:"bin_width"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LibraryPath: "~/hondoku/library",
		InboxPath:   "~/hondoku/inbox",
		FreqLists:   "~/hondoku/frequency-lists",
		Histogram: HistogramConfig{
			SourceKey: "netflix",
			BinWidth:  500,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	paths := configPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	// Expand ~ in paths
	cfg.LibraryPath = expandHome(cfg.LibraryPath)
	cfg.InboxPath = expandHome(cfg.InboxPath)
	cfg.FreqLists = expandHome(cfg.FreqLists)

	if cfg.Histogram.BinWidth <= 0 {
		cfg.Histogram.BinWidth = 500
	}
	if cfg.Histogram.SourceKey == "" {
		cfg.Histogram.SourceKey = "netflix"
	}

	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "hondoku", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "hondoku", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// BooksDir returns the directory holding per-book output directories.
func (c Config) BooksDir() string {
	return filepath.Join(c.LibraryPath, "books")
}

// CatalogPath returns the path of the SQLite catalog database.
func (c Config) CatalogPath() string {
	return filepath.Join(c.LibraryPath, "catalog.db")
}
