package fs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/deepcrawl"
	"gopkg.in/yaml.v3"
)

var _ deepcrawl.PageStore = (*FileStore)(nil)

// FileStore implements deepcrawl.PageStore with atomic update semantics.
// Pages are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
type FileStore struct {
	baseDir string
	name    string
	now     func() time.Time
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithClock sets the clock used for the crawled date in frontmatter.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		s.now = now
	}
}

// NewFileStore creates a new FileStore.
func NewFileStore(baseDir, name string, opts ...Option) *FileStore {
	s := &FileStore{
		baseDir: baseDir,
		name:    name,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Dir returns the directory pages end up in after Commit.
func (s *FileStore) Dir() string {
	return s.finalDir()
}

func (s *FileStore) Save(ctx context.Context, page *deepcrawl.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	content, err := FormatPage(page, s.now())
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, content, 0644)
}

type frontmatter struct {
	Source  string  `yaml:"source"`
	Title   string  `yaml:"title"`
	Depth   int     `yaml:"depth"`
	Score   float64 `yaml:"score"`
	Crawled string  `yaml:"crawled"`
}

// FormatPage renders a page as markdown with YAML frontmatter.
func FormatPage(page *deepcrawl.Page, crawled time.Time) ([]byte, error) {
	fm, err := yaml.Marshal(frontmatter{
		Source:  page.URL,
		Title:   page.Title,
		Depth:   page.Depth,
		Score:   page.Score,
		Crawled: crawled.Format("2006-01-02"),
	})
	if err != nil {
		return nil, deepcrawl.Errorf(deepcrawl.EINTERNAL, "marshal frontmatter: %v", err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(page.Content)
	return b.Bytes(), nil
}

func (s *FileStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
