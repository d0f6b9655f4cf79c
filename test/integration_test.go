package test

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// hondokuBinary is the path to the compiled hondoku binary, set by TestMain.
var hondokuBinary string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(0)
	}

	tmpDir, err := os.MkdirTemp("", "hondoku-integration-build-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(tmpDir)

	hondokuBinary = filepath.Join(tmpDir, "hondoku")
	cmd := exec.Command("go", "build", "-o", hondokuBinary, "./cmd/hondoku")
	// Test working dir is test/, so go up one level to project root
	cmd.Dir = filepath.Join("..")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "build hondoku binary: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// --- Fixtures ---

// fixtureText exercises the documented scenario: 猫 three times, the rest
// once or twice.
const fixtureText = "猫が猫を見た。猫。"

// fixtureFreqList is the netflix frequency list with 猫 at rank 1200.
const fixtureFreqList = `[["猫","freq","★★★★ (1200)"],["の","freq","★★★★★ (1)"]]`

// env builds a hondoku environment rooted at dir: config, library, inbox,
// and frequency lists all live under it.
type env struct {
	dir       string
	configDir string
	library   string
}

func setupEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()

	e := env{
		dir:       dir,
		configDir: filepath.Join(dir, "xdg"),
		library:   filepath.Join(dir, "library"),
	}

	hondokuDir := filepath.Join(e.configDir, "hondoku")
	if err := os.MkdirAll(hondokuDir, 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}

	freqDir := filepath.Join(dir, "frequency-lists")
	if err := os.MkdirAll(freqDir, 0o755); err != nil {
		t.Fatalf("mkdir freq lists: %v", err)
	}
	if err := os.WriteFile(filepath.Join(freqDir, "netflix.json"), []byte(fixtureFreqList), 0o644); err != nil {
		t.Fatalf("write freq list: %v", err)
	}

	config := fmt.Sprintf(`library_path = %q
inbox_path = %q
frequency_lists_path = %q

[histogram]
source_key = "netflix"
bin_width = 500
`, e.library, filepath.Join(dir, "inbox"), freqDir)
	if err := os.WriteFile(filepath.Join(hondokuDir, "config.toml"), []byte(config), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return e
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(hondokuBinary, args...)
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+e.configDir)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func (e env) writeBook(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write book: %v", err)
	}
	return path
}

// --- Tests ---

func TestAnalyseTxtBook(t *testing.T) {
	e := setupEnv(t)
	book := e.writeBook(t, "neko.txt", fixtureText)

	out, err := e.run(t, "analyse", book)
	if err != nil {
		t.Fatalf("analyse failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "neko") {
		t.Errorf("output missing title: %s", out)
	}

	// Exactly one book dir should exist, holding the data and report.
	booksDir := filepath.Join(e.library, "books")
	entries, err := os.ReadDir(booksDir)
	if err != nil {
		t.Fatalf("read books dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("books dir has %d entries, want 1", len(entries))
	}
	bookDir := filepath.Join(booksDir, entries[0].Name())

	data, err := os.ReadFile(filepath.Join(bookDir, "book_data.json"))
	if err != nil {
		t.Fatalf("read book_data.json: %v", err)
	}

	var result struct {
		Title          string `json:"title"`
		NWords         int    `json:"n_words"`
		NWordsUnique   int    `json:"n_words_unique"`
		NWordsUsedOnce int    `json:"n_words_used_once"`
		NChars         int    `json:"n_chars"`
		Words          []struct {
			Word        string `json:"word"`
			Occurrences int    `json:"occurrences"`
			Frequency   map[string]struct {
				Frequency int `json:"frequency"`
				Stars     int `json:"stars"`
			} `json:"frequency"`
		} `json:"words"`
		FileHash string `json:"file_hash"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("parse book_data.json: %v", err)
	}

	if result.Title != "neko" {
		t.Errorf("title = %q, want neko", result.Title)
	}
	if result.NChars != 9 {
		t.Errorf("n_chars = %d, want 9", result.NChars)
	}
	if result.FileHash != entries[0].Name() {
		t.Errorf("file_hash %q != book dir %q", result.FileHash, entries[0].Name())
	}

	if len(result.Words) == 0 {
		t.Fatal("no words in result")
	}
	top := result.Words[0]
	if top.Word != "猫" || top.Occurrences != 3 {
		t.Errorf("top word = %q x%d, want 猫 x3", top.Word, top.Occurrences)
	}
	nf, ok := top.Frequency["netflix"]
	if !ok {
		t.Fatal("猫 missing netflix frequency entry")
	}
	if nf.Frequency != 1200 {
		t.Errorf("netflix frequency = %d, want 1200", nf.Frequency)
	}

	hist, err := os.ReadFile(filepath.Join(bookDir, "histogram.html"))
	if err != nil {
		t.Fatalf("read histogram.html: %v", err)
	}
	// 猫 at 1200 falls into the catch-all [500,1000) bin.
	if !strings.Contains(string(hist), "500-1000") {
		t.Errorf("histogram missing catch-all bin: %s", hist)
	}
}

func TestAnalyseDuplicateSkipped(t *testing.T) {
	e := setupEnv(t)
	book := e.writeBook(t, "neko.txt", fixtureText)

	if out, err := e.run(t, "analyse", book); err != nil {
		t.Fatalf("first analyse failed: %v\n%s", err, out)
	}

	out, err := e.run(t, "analyse", book)
	if err != nil {
		t.Fatalf("second analyse failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "skipped") {
		t.Errorf("duplicate not skipped: %s", out)
	}
}

func TestListAndShow(t *testing.T) {
	e := setupEnv(t)
	book := e.writeBook(t, "rashomon.txt", "ある日の暮方の事である。")

	if out, err := e.run(t, "analyse", book); err != nil {
		t.Fatalf("analyse failed: %v\n%s", err, out)
	}

	out, err := e.run(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "rashomon") {
		t.Errorf("list missing book: %s", out)
	}

	// First column of list output is the truncated hash; resolve the
	// full hash from the books dir for show.
	entries, err := os.ReadDir(filepath.Join(e.library, "books"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("read books dir: %v (%d entries)", err, len(entries))
	}

	out, err = e.run(t, "show", entries[0].Name())
	if err != nil {
		t.Fatalf("show failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "title: rashomon") {
		t.Errorf("show missing title: %s", out)
	}
	if !strings.Contains(out, "words:") {
		t.Errorf("show missing word counts: %s", out)
	}
}

func TestEmptyBook(t *testing.T) {
	e := setupEnv(t)
	book := e.writeBook(t, "empty.txt", "")

	out, err := e.run(t, "analyse", book)
	if err != nil {
		t.Fatalf("analyse of empty book failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "words: 0 total") {
		t.Errorf("unexpected output for empty book: %s", out)
	}
}

func TestCheckCommand(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "check")
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "frequency lists") {
		t.Errorf("check missing frequency lists line: %s", out)
	}
	if !strings.Contains(out, "tokenizer") {
		t.Errorf("check missing tokenizer line: %s", out)
	}
	if !strings.Contains(out, "0 failure") {
		t.Errorf("check reported failures: %s", out)
	}
}

func TestVersion(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "hondoku v") {
		t.Errorf("version output = %q", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "frobnicate")
	if err == nil {
		t.Errorf("unknown command succeeded: %s", out)
	}
	if !strings.Contains(out, "unknown command") {
		t.Errorf("output = %q", out)
	}
}
