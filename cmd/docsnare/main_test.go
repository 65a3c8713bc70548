package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	main "docsnare/cmd/docsnare"
)

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("shows help with no arguments", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.CachePath = t.TempDir()
		defer m.Close()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("help command succeeds", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.CachePath = t.TempDir()
		defer m.Close()

		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "scrape")
		assert.Contains(t, stdout.String(), "resolve")
	})

	t.Run("rejects unknown command", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.CachePath = t.TempDir()
		defer m.Close()

		err := m.Run(context.Background(), []string{"bogus"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
	})

	t.Run("static scrape end to end", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><body>
				<a href="/reports/2026">Annual Report</a>
				<a href="/permits">Permits</a>
			</body></html>`))
		}))
		defer srv.Close()

		m := main.NewMain()
		m.CachePath = t.TempDir()
		defer m.Close()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"scrape", "--static", srv.URL}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "links=2")
		assert.Contains(t, stdout.String(), "/reports/2026  Annual Report")
	})

	t.Run("static resolve end to end with sqlite cache", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head><title>Notice</title></head><body>
				<article><h1>Notice</h1><p>Operating permits must be renewed annually
				before the end of the fiscal year to remain valid.</p></article>
			</body></html>`))
		}))
		defer srv.Close()

		m := main.NewMain()
		m.CachePath = t.TempDir()
		defer m.Close()

		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(),
			[]string{"resolve", "--static", "--cache-backend", "sqlite", srv.URL},
			stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "pdf: false")
		assert.Contains(t, stdout.String(), "renewed annually")
	})
}
