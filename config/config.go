// Package config loads deepcrawl settings from a YAML file and resolves
// default locations.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/fwojciec/deepcrawl"
	"github.com/fwojciec/deepcrawl/crawl"
	"gopkg.in/yaml.v3"
)

// AppName is the directory name used under XDG base directories.
const AppName = "deepcrawl"

// DefaultConfigFile is the configuration file name looked up in the
// current directory and the XDG config directory.
const DefaultConfigFile = "deepcrawl.yaml"

// DBEnv overrides the database path.
const DBEnv = "DEEPCRAWL_DB"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Renderer names.
const (
	RendererAuto    = "auto"
	RendererHTTP    = "http"
	RendererBrowser = "browser"
)

// Extractor names.
const (
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// File is the on-disk configuration. Zero values mean "not set" and leave
// the built-in default or CLI flag in place.
type File struct {
	DB    string    `yaml:"db"`
	Crawl CrawlFile `yaml:"crawl"`
	Fetch FetchFile `yaml:"fetch"`
}

// CrawlFile holds traversal settings.
type CrawlFile struct {
	MaxDepth        *int     `yaml:"max_depth"`
	MaxPages        *int     `yaml:"max_pages"`
	BatchSize       *int     `yaml:"batch_size"`
	IncludeExternal *bool    `yaml:"include_external"`
	Keywords        []string `yaml:"keywords"`
	Weight          *float64 `yaml:"weight"`
	ShallowWeight   *float64 `yaml:"shallow_weight"`
	Include         []string `yaml:"include"`
	Exclude         []string `yaml:"exclude"`
	AllowedDomains  []string `yaml:"allowed_domains"`
	BlockedDomains  []string `yaml:"blocked_domains"`
}

// FetchFile holds fetch settings.
type FetchFile struct {
	Renderer    string   `yaml:"renderer"`
	Extractor   string   `yaml:"extractor"`
	Concurrency *int     `yaml:"concurrency"`
	RateLimit   *float64 `yaml:"rate_limit"`
	UserAgent   string   `yaml:"user_agent"`
}

// LoadFile loads configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "parse config %s: %v", path, err)
	}

	if err := f.Validate(); err != nil {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "config %s: %v", path, err)
	}
	return &f, nil
}

// FindFile returns the configuration file to load, or "" if none exists.
// An explicit path wins; otherwise the current directory is checked, then
// the XDG config directory.
func FindFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidates := []string{DefaultConfigFile, filepath.Join(ConfigDir(), DefaultConfigFile)}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks values that cannot be validated by the consumers.
func (f *File) Validate() error {
	switch f.Fetch.Renderer {
	case "", RendererAuto, RendererHTTP, RendererBrowser:
	default:
		return fmt.Errorf("unknown renderer %q", f.Fetch.Renderer)
	}
	switch f.Fetch.Extractor {
	case "", ExtractorTrafilatura, ExtractorReadability:
	default:
		return fmt.Errorf("unknown extractor %q", f.Fetch.Extractor)
	}
	if f.Fetch.Concurrency != nil && *f.Fetch.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	if f.Fetch.RateLimit != nil && *f.Fetch.RateLimit < 0 {
		return errors.New("rate limit must be non-negative")
	}
	return nil
}

// ApplyTo copies the crawl settings that are set onto cfg and validates it.
func (f *File) ApplyTo(cfg *crawl.Config) error {
	if f.Crawl.MaxDepth != nil {
		cfg.MaxDepth = *f.Crawl.MaxDepth
	}
	if f.Crawl.MaxPages != nil {
		cfg.MaxPages = *f.Crawl.MaxPages
	}
	if f.Crawl.BatchSize != nil {
		cfg.BatchSize = *f.Crawl.BatchSize
	}
	if f.Crawl.IncludeExternal != nil {
		cfg.IncludeExternal = *f.Crawl.IncludeExternal
	}
	return cfg.Validate()
}

// DataDir returns the XDG data directory for deepcrawl.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ConfigDir returns the XDG config directory for deepcrawl.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DBPath resolves the database path: DEEPCRAWL_DB, then the config file
// value, then deepcrawl.db in the data directory.
func DBPath(f *File) string {
	if p := os.Getenv(DBEnv); p != "" {
		return p
	}
	if f != nil && f.DB != "" {
		return f.DB
	}
	return filepath.Join(DataDir(), "deepcrawl.db")
}
