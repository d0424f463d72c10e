package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/deepcrawl"
	"github.com/fwojciec/deepcrawl/config"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *config.File

	Runs deepcrawl.RunService

	// HTTP fetches pages without JavaScript.
	HTTP deepcrawl.Fetcher

	// NewBrowser launches a headless browser fetcher on first use.
	NewBrowser func() (deepcrawl.Fetcher, error)

	// Extractors maps extractor names to implementations.
	Extractors map[string]deepcrawl.Extractor

	Converter deepcrawl.Converter
	Links     deepcrawl.LinkExtractor

	// NewStore creates the markdown export for a named crawl.
	NewStore func(baseDir, name string) deepcrawl.PageStore

	// RetryDelays are the backoff delays between fetch attempts.
	RetryDelays []time.Duration
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `help:"Path to YAML config file" type:"path"`
	DB      string `help:"Database path (overrides DEEPCRAWL_DB)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl a site best-first from a seed URL"`
	Runs   RunsCmd   `cmd:"" help:"List recorded runs"`
	Show   ShowCmd   `cmd:"" help:"Show results of a run"`
	Delete DeleteCmd `cmd:"" help:"Delete a run and its results"`
}

// CrawlCmd is the "crawl" subcommand. Unset pointer flags fall back to the
// config file, then to built-in defaults.
type CrawlCmd struct {
	URL  string `arg:"" help:"Seed URL"`
	Name string `arg:"" optional:"" help:"Output directory name; pages are exported as markdown when set"`
	Path string `arg:"" optional:"" default:"." help:"Base path for output"`

	Depth           *int     `short:"d" help:"Maximum link depth (default 1)"`
	MaxPages        *int     `short:"n" name:"max-pages" help:"Maximum pages to crawl, -1 for unlimited (default -1)"`
	Keyword         []string `short:"k" help:"Keyword that raises a URL's priority (repeatable)"`
	Weight          *float64 `help:"Keyword scorer weight (default 0.7)"`
	ShallowWeight   *float64 `help:"Weight for preferring URLs with shorter paths (default 0, off)"`
	BatchSize       *int     `short:"b" name:"batch-size" help:"URLs fetched concurrently per step (default 1)"`
	Stream          bool     `help:"Report results as each batch completes"`
	IncludeExternal *bool    `name:"include-external" help:"Follow links to other hosts"`
	Include         []string `short:"I" help:"Only crawl URLs matching regex (repeatable)"`
	Exclude         []string `short:"E" help:"Skip URLs matching regex (repeatable)"`
	AllowDomain     []string `name:"allow-domain" help:"Only crawl these domains and their subdomains (repeatable)"`
	BlockDomain     []string `name:"block-domain" help:"Never crawl these domains (repeatable)"`
	SameSite        bool     `name:"same-site" help:"Keep external links within the seed's registrable domain"`
	Scope           bool     `help:"Only crawl URLs under the seed's path"`
	Renderer        string   `short:"r" help:"Page renderer: auto, http or browser (default auto)"`
	Extractor       string   `short:"x" help:"Content extractor: trafilatura or readability (default trafilatura)"`
	Headful         bool     `help:"Show the browser window when rendering with a browser"`
	Concurrency     *int     `short:"c" help:"Concurrent fetches within a batch"`
	RateLimit       *float64 `name:"rate-limit" help:"Requests per second per host, 0 for no limit (default 1)"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Seed   string `help:"Only runs with this seed URL"`
	Status string `help:"Only runs with this status"`
	Limit  int    `short:"l" default:"20" help:"Maximum runs to list"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Run ID"`
	Full bool   `help:"Print page content"`
	OK   bool   `name:"ok" help:"Only successful pages"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Run ID"`
	Force bool   `help:"Confirm deletion"`
}
