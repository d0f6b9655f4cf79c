// Package check verifies a hondoku installation: config, directories,
// frequency lists, catalog, and the morphological dictionary.
package check

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/johns/hondoku/internal/config"
	"github.com/johns/hondoku/internal/freqlist"
	"github.com/johns/hondoku/internal/tokenize"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "hondoku check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("hondoku check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports the resolved config path. Always passes — broken
// TOML is caught by config.Load before we get here.
func CheckConfig() Result {
	cfgPath := filepath.Join(config.ConfigDir(), "config.toml")
	return Result{
		Name:   "config",
		Status: Pass,
		Detail: config.CompressHome(cfgPath),
	}
}

// CheckLibrary checks whether the library directory exists.
func CheckLibrary(path string) Result {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Result{Name: "library", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "library", Status: Warn, Detail: path + " not found (created on first analyse)"}
}

// CheckInbox checks whether the inbox directory exists.
func CheckInbox(path string) Result {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Result{Name: "inbox", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "inbox", Status: Warn, Detail: path + " not found (watch mode needs it)"}
}

// CheckFreqLists counts loadable frequency lists.
func CheckFreqLists(dir string) Result {
	corpora, err := freqlist.LoadAll(dir)
	if err != nil {
		return Result{Name: "frequency lists", Status: Fail, Detail: err.Error()}
	}
	if len(corpora) == 0 {
		return Result{Name: "frequency lists", Status: Warn, Detail: "no lists found (analysis runs without frequency data)"}
	}

	var names []string
	for name := range corpora {
		names = append(names, name)
	}
	sort.Strings(names)
	return Result{
		Name:   "frequency lists",
		Status: Pass,
		Detail: fmt.Sprintf("%d list(s): %s", len(corpora), strings.Join(names, ", ")),
	}
}

// CheckCatalog checks whether the catalog database exists.
func CheckCatalog(path string) Result {
	if _, err := os.Stat(path); err == nil {
		return Result{Name: "catalog", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "catalog", Status: Warn, Detail: "catalog.db not found yet"}
}

// CheckTokenizer verifies the morphological dictionary loads.
func CheckTokenizer() Result {
	if _, err := tokenize.New(); err != nil {
		return Result{Name: "tokenizer", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "tokenizer", Status: Pass, Detail: "IPA dictionary loaded"}
}

// CheckHistogram validates histogram settings.
func CheckHistogram(h config.HistogramConfig) Result {
	if h.SourceKey == "" {
		return Result{Name: "histogram", Status: Fail, Detail: "source_key empty"}
	}
	if h.BinWidth <= 0 {
		return Result{Name: "histogram", Status: Fail, Detail: fmt.Sprintf("bin_width %d invalid", h.BinWidth)}
	}
	return Result{Name: "histogram", Status: Pass, Detail: fmt.Sprintf("key %q, bin width %d", h.SourceKey, h.BinWidth)}
}

// Run executes all checks against the given config and returns a report.
func Run(cfg config.Config) Report {
	var results []Result

	results = append(results, CheckConfig())
	results = append(results, CheckLibrary(cfg.LibraryPath))
	results = append(results, CheckInbox(cfg.InboxPath))
	results = append(results, CheckFreqLists(cfg.FreqLists))
	results = append(results, CheckCatalog(cfg.CatalogPath()))
	results = append(results, CheckTokenizer())
	results = append(results, CheckHistogram(cfg.Histogram))

	return Report{Results: results}
}
