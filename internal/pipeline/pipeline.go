// Package pipeline runs the full analysis flow for one book: ingest,
// tokenize, analyse, report, catalogue.
package pipeline

import (
	"fmt"
	"log"

	"github.com/johns/hondoku/internal/analyze"
	"github.com/johns/hondoku/internal/config"
	"github.com/johns/hondoku/internal/freqlist"
	"github.com/johns/hondoku/internal/histogram"
	"github.com/johns/hondoku/internal/ingest"
	"github.com/johns/hondoku/internal/library"
	"github.com/johns/hondoku/internal/report"
	"github.com/johns/hondoku/internal/tokenize"
)

// Result holds the output of one analysis run.
type Result struct {
	Title         string
	FileHash      string
	BookDir       string
	DataPath      string
	HistogramPath string
	NWords        int
	NWordsUnique  int
	Skipped       bool
	Reason        string
}

// Pipeline bundles the long-lived pieces of the analysis flow. The
// segmenter and corpora are built once and read-only afterwards, so one
// Pipeline can serve any number of books.
type Pipeline struct {
	cfg     config.Config
	seg     *tokenize.Segmenter
	corpora freqlist.Corpora
	catalog *library.Catalog
}

// New builds a Pipeline from config. A missing morphological dictionary
// is fatal; missing or broken frequency lists only reduce coverage.
func New(cfg config.Config) (*Pipeline, error) {
	seg, err := tokenize.New()
	if err != nil {
		return nil, err
	}

	corpora, err := freqlist.LoadAll(cfg.FreqLists)
	if err != nil {
		log.Printf("warning: could not load frequency lists: %v", err)
		corpora = freqlist.Corpora{}
	}

	catalog, err := library.Open(cfg.CatalogPath())
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	return &Pipeline{cfg: cfg, seg: seg, corpora: corpora, catalog: catalog}, nil
}

// Close releases the catalog connection.
func (p *Pipeline) Close() error {
	return p.catalog.Close()
}

// Catalog exposes the book catalog for listing commands.
func (p *Pipeline) Catalog() *library.Catalog {
	return p.catalog
}

// Analyse processes one ebook file end to end. A book whose content hash
// is already catalogued is skipped.
func (p *Pipeline) Analyse(path string) (*Result, error) {
	book, err := ingest.ProcessFile(path, p.cfg.BooksDir())
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	if ok, err := p.catalog.Has(book.FileHash); err != nil {
		log.Printf("warning: catalog lookup failed: %v", err)
	} else if ok {
		return &Result{
			Title:    book.Title,
			FileHash: book.FileHash,
			BookDir:  book.BookDir,
			Skipped:  true,
			Reason:   "already analysed",
		}, nil
	}

	text, err := ingest.ReadText(book.Path)
	if err != nil {
		return nil, err
	}

	tokens := p.seg.Segment(text)

	result := analyze.Analyze(text, tokens, p.corpora)
	result.Title = book.Title
	result.Authors = book.Authors
	result.Image = book.Image
	result.FileHash = book.FileHash

	dataPath, err := report.WriteBookData(result, book.BookDir)
	if err != nil {
		return nil, err
	}

	buckets := histogram.Bucketize(result.Words, p.cfg.Histogram.SourceKey, p.cfg.Histogram.BinWidth)
	histPath, err := report.WriteHistogram(book.Title, p.cfg.Histogram.SourceKey, buckets, book.BookDir)
	if err != nil {
		return nil, err
	}

	if err := p.catalog.Add(library.Entry{
		FileHash:   book.FileHash,
		Title:      book.Title,
		Authors:    book.Authors,
		BookDir:    book.BookDir,
		NWords:     result.NWords,
		NWordsUniq: result.NWordsUnique,
		NChars:     result.NChars,
		NCharsUniq: result.NCharsUnique,
	}); err != nil {
		log.Printf("warning: could not catalogue book: %v", err)
	}

	return &Result{
		Title:         book.Title,
		FileHash:      book.FileHash,
		BookDir:       book.BookDir,
		DataPath:      dataPath,
		HistogramPath: histPath,
		NWords:        result.NWords,
		NWordsUnique:  result.NWordsUnique,
	}, nil
}
