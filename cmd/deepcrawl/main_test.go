package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/fwojciec/deepcrawl/cmd/deepcrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no arguments prints help and fails", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "crawl")
		assert.Contains(t, stderr.String(), "no command specified")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Best-first")
	})

	t.Run("missing explicit config file fails", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = ":memory:"
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"runs", "--config", filepath.Join(t.TempDir(), "none.yaml")}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "not found")
	})

	t.Run("crawls over http and lists the run afterwards", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, `<html><head><title>Page %s</title></head><body><article><h1>Page %s</h1>%s<a href="/guide">Guide</a></article></body></html>`,
				r.URL.Path, r.URL.Path, strings.Repeat("<p>Deepcrawl follows the most relevant links first and stops at its budget.</p>", 10))
		}))
		defer srv.Close()

		dbPath := filepath.Join(t.TempDir(), "deepcrawl.db")

		stdout := &bytes.Buffer{}
		m := main.NewMain()
		m.DBPath = dbPath
		err := m.Run(context.Background(), []string{
			"crawl", srv.URL + "/",
			"--renderer", "http",
			"--rate-limit", "0",
			"--depth", "1",
		}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), srv.URL+"/")
		assert.Contains(t, stdout.String(), "completed")

		stdout.Reset()
		m = main.NewMain()
		m.DBPath = dbPath
		require.NoError(t, m.Run(context.Background(), []string{"runs"}, stdout, &bytes.Buffer{}))
		assert.Contains(t, stdout.String(), srv.URL+"/")
	})
}
