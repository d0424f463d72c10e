package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/deepcrawl"
	"github.com/fwojciec/deepcrawl/config"
	"github.com/fwojciec/deepcrawl/crawl"
	"github.com/fwojciec/deepcrawl/fs"
	"github.com/fwojciec/deepcrawl/goquery"
	"github.com/fwojciec/deepcrawl/htmltomarkdown"
	deepcrawlhttp "github.com/fwojciec/deepcrawl/http"
	"github.com/fwojciec/deepcrawl/readability"
	"github.com/fwojciec/deepcrawl/rod"
	dcslog "github.com/fwojciec/deepcrawl/slog"
	"github.com/fwojciec/deepcrawl/sqlite"
	"github.com/fwojciec/deepcrawl/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides --db, the config file and DEEPCRAWL_DB when set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// RunService records runs. Set by Run unless already provided.
	RunService deepcrawl.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("deepcrawl"),
		kong.Description("Best-first web crawler that follows the most relevant links first"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		err := fmt.Errorf("no command specified. Run 'deepcrawl --help' to see available commands")
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}

	file, err := loadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", deepcrawl.ErrorMessage(err))
		return err
	}

	logger := newLogger(stderr, cli.Verbose)

	if m.RunService == nil {
		path := m.DBPath
		if path == "" {
			path = cli.DB
		}
		if path == "" {
			path = config.DBPath(file)
		}
		if path != ":memory:" {
			_ = os.MkdirAll(filepath.Dir(path), 0755)
		}

		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			err = fmt.Errorf("failed to open database at %q: %w", path, err)
			fmt.Fprintf(stderr, "error: %v\n", err)
			fmt.Fprintf(stderr, "Hint: Set %s or --db to use a different database path\n", config.DBEnv)
			return err
		}
		defer m.Close()

		m.RunService = dcslog.NewLoggingRunService(sqlite.NewRunService(m.DB), logger)
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
		Config: file,
		Runs:   m.RunService,
	}

	if strings.HasPrefix(kongCtx.Command(), "crawl") {
		wireCrawl(deps, file, cli.Crawl.URL, cli.Crawl.Headful)
	}

	return kongCtx.Run(deps)
}

// wireCrawl adds the fetch pipeline collaborators to deps.
func wireCrawl(deps *Dependencies, file *config.File, seedURL string, headful bool) {
	var httpOpts []deepcrawlhttp.Option
	if file.Fetch.UserAgent != "" {
		httpOpts = append(httpOpts, deepcrawlhttp.WithUserAgent(file.Fetch.UserAgent))
	}
	deps.HTTP = deepcrawlhttp.NewFetcher(httpOpts...)

	var rodOpts []rod.Option
	if headful {
		rodOpts = append(rodOpts, rod.WithManagerOptions(rod.WithHeadful()))
	}
	deps.NewBrowser = func() (deepcrawl.Fetcher, error) {
		f, err := rod.NewFetcher(rodOpts...)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	deps.Extractors = map[string]deepcrawl.Extractor{
		config.ExtractorTrafilatura: trafilatura.NewExtractor(),
		config.ExtractorReadability: readability.NewExtractor(),
	}

	var convOpts []htmltomarkdown.Option
	if domain := domainOf(seedURL); domain != "" {
		convOpts = append(convOpts, htmltomarkdown.WithDomain(domain))
	}
	deps.Converter = htmltomarkdown.NewConverter(convOpts...)
	deps.Links = goquery.NewLinkExtractor()

	deps.NewStore = func(baseDir, name string) deepcrawl.PageStore {
		return fs.NewFileStore(baseDir, name)
	}
	deps.RetryDelays = crawl.DefaultRetryDelays()
}

// loadConfig loads the config file. A missing default file is not an error;
// a missing explicit file is.
func loadConfig(explicit string) (*config.File, error) {
	path := config.FindFile(explicit)
	if path == "" {
		return &config.File{}, nil
	}
	file, err := config.LoadFile(path)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, deepcrawl.Errorf(deepcrawl.ENOTFOUND, "config file %s not found", path)
	}
	return file, err
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// domainOf returns the scheme and host of rawURL, e.g. "https://example.com".
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
