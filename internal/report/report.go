// Package report writes per-book analysis artifacts: the book_data.json
// record and the frequency histogram HTML page.
package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/johns/hondoku/internal/analyze"
	"github.com/johns/hondoku/internal/histogram"
)

// WriteBookData serialises the analysis result to bookDir/book_data.json
// and returns the written path.
func WriteBookData(r analyze.Result, bookDir string) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal book data: %w", err)
	}

	path := filepath.Join(bookDir, "book_data.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write book data: %w", err)
	}
	return path, nil
}

// ReadBookData loads a previously written book_data.json.
func ReadBookData(bookDir string) (analyze.Result, error) {
	var r analyze.Result

	data, err := os.ReadFile(filepath.Join(bookDir, "book_data.json"))
	if err != nil {
		return r, fmt.Errorf("read book data: %w", err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parse book data: %w", err)
	}
	return r, nil
}

var histogramTmpl = template.Must(template.New("histogram").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>{{.Title}} — frequency histogram</title>
<style>
  body { font-family: sans-serif; margin: 2em; }
  .bar { background: #4a7ebb; color: #fff; padding: 2px 6px; margin: 2px 0; white-space: nowrap; }
  .label { display: inline-block; width: 8em; }
  .stars { color: #b8860b; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Words bucketed by {{.SourceKey}} frequency rank.</p>
{{if .Rows}}
<div>
{{range .Rows}}  <div><span class="label">{{.Label}}</span><span class="bar" style="width: {{.WidthPct}}%">{{.Count}}</span> <span class="stars">{{.Stars}}</span></div>
{{end}}</div>
{{else}}
<p>No words matched the {{.SourceKey}} frequency list.</p>
{{end}}
</body>
</html>
`))

type histogramRow struct {
	Label    string
	Count    int
	WidthPct int
	Stars    string
}

type histogramPage struct {
	Title     string
	SourceKey string
	Rows      []histogramRow
}

// RenderHistogram produces the histogram HTML page. Zero buckets render
// an empty-report page rather than failing.
func RenderHistogram(title, sourceKey string, buckets []histogram.Bucket) (string, error) {
	page := histogramPage{Title: title, SourceKey: sourceKey}

	maxCount := 0
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	for _, b := range buckets {
		pct := 0
		if maxCount > 0 {
			pct = b.Count * 100 / maxCount
		}
		page.Rows = append(page.Rows, histogramRow{
			Label:    b.Bin.Label(),
			Count:    b.Count,
			WidthPct: pct,
			Stars:    starGlyphs(b.Stars),
		})
	}

	var sb strings.Builder
	if err := histogramTmpl.Execute(&sb, page); err != nil {
		return "", fmt.Errorf("render histogram: %w", err)
	}
	return sb.String(), nil
}

// WriteHistogram renders and writes bookDir/histogram.html, returning
// the written path.
func WriteHistogram(title, sourceKey string, buckets []histogram.Bucket, bookDir string) (string, error) {
	page, err := RenderHistogram(title, sourceKey, buckets)
	if err != nil {
		return "", err
	}

	path := filepath.Join(bookDir, "histogram.html")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("write histogram: %w", err)
	}
	return path, nil
}

// starGlyphs shows the bucket's average star rating as ★ characters.
func starGlyphs(stars []int) string {
	if len(stars) == 0 {
		return ""
	}
	sum := 0
	for _, s := range stars {
		sum += s
	}
	avg := (sum + len(stars)/2) / len(stars)
	return strings.Repeat("★", avg)
}
