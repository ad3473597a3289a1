package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/rexcrawl"
	main "github.com/fwojciec/rexcrawl/cmd/rexcrawl"
	"github.com/fwojciec/rexcrawl/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "rexcrawl")
	assert.Contains(t, stdout.String(), "--max-entries")
	assert.Contains(t, stdout.String(), "--preview")
}

func TestMain_Run_InvalidCategory(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--category", "astrology", "--preview"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, rexcrawl.EINVALID, rexcrawl.ErrorCode(err))
}

func TestMain_Run_InvalidDelayRange(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--delay-min", "3s", "--delay-max", "1s", "--preview"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, rexcrawl.EINVALID, rexcrawl.ErrorCode(err))
}

const indexPage = `<html><body>
<a href="index.html">Home</a>
<a href="cf1.html">Cold Fusion Device</a>
<a href="x.html">123</a>
<a href="solar.html">Solar Engine</a>
</body></html>`

const detailPage = `<html><head><title>%s</title></head><body>
<h1>Overview</h1>
<p>The working principle of this device is described in considerable detail here.</p>
<p>See US Patent No. 5,123,456 for the circuit that drives the apparatus.</p>
<img src="diagram.gif" alt="circuit">
</body></html>`

func newSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexPage))
	})
	mux.HandleFunc("/cf1.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fmtPage("Cold Fusion")))
	})
	mux.HandleFunc("/solar.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fmtPage("Solar Engine")))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func fmtPage(title string) string {
	return string(bytes.Replace([]byte(detailPage), []byte("%s"), []byte(title), 1))
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func TestMain_Run_Preview(t *testing.T) {
	t.Parallel()

	server := newSite(t)
	out := filepath.Join(t.TempDir(), "out")

	m := &main.Main{Now: fixedNow}
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"--url", server.URL + "/index.html",
		"--output", out,
		"--delay-min", "0s", "--delay-max", "0s",
		"--preview",
	}, &stdout, &stderr)

	require.NoError(t, err)
	output := stdout.String()
	assert.Contains(t, output, "Found 2 entry links")
	assert.Contains(t, output, "Cold Fusion Device")
	assert.Contains(t, output, "Solar Engine")
	assert.NoDirExists(t, out)
}

func TestMain_Run_Crawl(t *testing.T) {
	t.Parallel()

	server := newSite(t)
	out := filepath.Join(t.TempDir(), "out")

	m := &main.Main{Now: fixedNow}
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"--url", server.URL + "/index.html",
		"--output", out,
		"--delay-min", "0s", "--delay-max", "0s",
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	data, err := os.ReadFile(filepath.Join(out, "Solar_Engine.txt"))
	require.NoError(t, err)
	meta, err := fs.ParseMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, "Solar Engine", meta.Name)
	assert.Equal(t, server.URL+"/solar.html", meta.URL)
	assert.Equal(t, []string{"5123456"}, meta.Patents)
	assert.Equal(t, rexcrawl.CategoryEnergy, meta.Category)
	assert.Equal(t, 1, meta.DiagramCount)

	assert.FileExists(t, filepath.Join(out, "Cold_Fusion_Device.txt"))
	assert.FileExists(t, filepath.Join(out, "rex_research_data_20240501_120000.json"))
	assert.FileExists(t, filepath.Join(out, "rex_research_data_20240501_120000.csv"))
	assert.FileExists(t, filepath.Join(out, "rex_research_sections_20240501_120000.csv"))
	assert.Contains(t, stdout.String(), "Saved 2 records")

	t.Run("resume skips entries already written", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		err := m.Run(context.Background(), []string{
			"--url", server.URL + "/index.html",
			"--output", out,
			"--delay-min", "0s", "--delay-max", "0s",
			"--resume",
		}, &stdout, &stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Saved 0 records (0 failed, 2 skipped)")
	})

	t.Run("list shows indexed records", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		err := m.Run(context.Background(), []string{
			"--output", out,
			"--list",
			"--category", "energy",
		}, &stdout, &stderr)
		require.NoError(t, err, stderr.String())
		assert.Contains(t, stdout.String(), "Solar Engine")
		assert.Contains(t, stdout.String(), "Solar_Engine.txt")
		assert.Contains(t, stdout.String(), "records")
	})
}

func TestMain_Run_IndexUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	m := &main.Main{Now: fixedNow}
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"--url", server.URL + "/index.html",
		"--output", filepath.Join(t.TempDir(), "out"),
		"--delay-min", "0s", "--delay-max", "0s",
		"--preview",
	}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, rexcrawl.EFATAL, rexcrawl.ErrorCode(err))
}
