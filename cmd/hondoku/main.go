package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/johns/hondoku/internal/check"
	"github.com/johns/hondoku/internal/config"
	"github.com/johns/hondoku/internal/pipeline"
	"github.com/johns/hondoku/internal/watch"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}

	switch os.Args[1] {
	case "analyse", "analyze":
		if len(os.Args) < 3 {
			fatal("usage: hondoku analyse <book.epub|book.txt>")
		}
		p := mustPipeline(cfg)
		defer p.Close()
		runAnalyse(p, os.Args[2])

	case "watch":
		p := mustPipeline(cfg)
		defer p.Close()
		runWatch(p, cfg)

	case "list":
		p := mustPipeline(cfg)
		defer p.Close()
		runList(p)

	case "show":
		if len(os.Args) < 3 {
			fatal("usage: hondoku show <file-hash>")
		}
		p := mustPipeline(cfg)
		defer p.Close()
		runShow(p, os.Args[2])

	case "check":
		report := check.Run(cfg)
		fmt.Print(report.Format())
		if report.HasFailures() {
			os.Exit(1)
		}

	case "init":
		path, err := config.WriteDefault(cfg.LibraryPath)
		if err != nil {
			fatal("init: %v", err)
		}
		fmt.Printf("config: %s\n", config.CompressHome(path))

	case "version":
		fmt.Printf("hondoku v%s\n", version)

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func mustPipeline(cfg config.Config) *pipeline.Pipeline {
	if err := os.MkdirAll(cfg.BooksDir(), 0o755); err != nil {
		fatal("create library: %v", err)
	}
	p, err := pipeline.New(cfg)
	if err != nil {
		fatal("%v", err)
	}
	return p
}

func runAnalyse(p *pipeline.Pipeline, path string) {
	res, err := p.Analyse(path)
	if err != nil {
		fatal("analyse: %v", err)
	}
	if res.Skipped {
		fmt.Printf("skipped %s: %s\n", res.Title, res.Reason)
		return
	}
	fmt.Printf("%s (%s)\n", res.Title, res.FileHash[:12])
	fmt.Printf("  words: %d total, %d unique\n", res.NWords, res.NWordsUnique)
	fmt.Printf("  data: %s\n", res.DataPath)
	fmt.Printf("  histogram: %s\n", res.HistogramPath)
}

func runWatch(p *pipeline.Pipeline, cfg config.Config) {
	if err := os.MkdirAll(cfg.InboxPath, 0o755); err != nil {
		fatal("create inbox: %v", err)
	}

	fmt.Printf("watching %s\n", config.CompressHome(cfg.InboxPath))

	done := make(chan struct{})
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		close(done)
	}()

	w := watch.New(cfg.InboxPath, func(path string) {
		res, err := p.Analyse(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "analyse %s: %v\n", path, err)
			return
		}
		if res.Skipped {
			fmt.Printf("skipped %s: %s\n", res.Title, res.Reason)
			return
		}
		fmt.Printf("analysed %s (%d words)\n", res.Title, res.NWords)
	})
	if err := w.Run(done); err != nil {
		fatal("watch: %v", err)
	}
}

func runList(p *pipeline.Pipeline) {
	entries, err := p.Catalog().List()
	if err != nil {
		fatal("list: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("no books analysed yet")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s  %-30s  %d words (%d unique)\n",
			e.FileHash[:12], e.Title, e.NWords, e.NWordsUniq)
	}
}

func runShow(p *pipeline.Pipeline, hash string) {
	e, err := p.Catalog().Get(hash)
	if err != nil {
		fatal("show %s: %v", hash, err)
	}
	fmt.Printf("title: %s\n", e.Title)
	for _, a := range e.Authors {
		fmt.Printf("author: %s\n", a)
	}
	fmt.Printf("hash: %s\n", e.FileHash)
	fmt.Printf("words: %d total, %d unique\n", e.NWords, e.NWordsUniq)
	fmt.Printf("chars: %d total, %d unique\n", e.NChars, e.NCharsUniq)
	fmt.Printf("dir: %s\n", e.BookDir)
	fmt.Printf("analysed: %s\n", e.AnalysedAt.Format("2006-01-02 15:04"))
}

func usage() {
	fmt.Fprintf(os.Stderr, `hondoku v%s — Japanese ebook frequency analysis

Usage:
  hondoku analyse <file>     Analyse one .epub or .txt book
  hondoku watch              Watch the inbox and analyse new books
  hondoku list               List analysed books
  hondoku show <hash>        Show one book's catalog entry
  hondoku check              Verify configuration and resources
  hondoku init               Write a default config file
  hondoku version            Print version
  hondoku help               Show this help

Configuration: ~/.config/hondoku/config.toml
`, version)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "hondoku: "+format+"\n", args...)
	os.Exit(1)
}
