package app_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"github.com/shpitdev/imagefetch/internal/app"
	"github.com/shpitdev/imagefetch/internal/config"
	"github.com/shpitdev/imagefetch/internal/pipeline"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/pic.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png"))
	})
	mux.HandleFunc("/render/7", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("webp"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, csv string) config.Config {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "rows.csv")
	if err := os.WriteFile(input, []byte(csv), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	cfg := config.Default()
	cfg.Input.Path = input
	cfg.Output.Dir = filepath.Join(dir, "alt-text-data")
	return cfg
}

func TestRunDownload(t *testing.T) {
	srv := newServer(t)
	csv := "image_id,base_url,context_url\n" +
		"img1," + srv.URL + "/pic.png,\n" +
		"," + srv.URL + "/x.jpg,\n" +
		"img3," + srv.URL + "/missing.png," + srv.URL + "/render/7\n"
	cfg := testConfig(t, csv)

	var out bytes.Buffer
	sum, err := app.RunDownload(context.Background(), cfg, app.Env{Stdout: &out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := pipeline.Summary{RowsSeen: 3, PrimarySucceeded: 1, SecondarySucceeded: 1, Failures: 1}
	if sum != want {
		t.Fatalf("unexpected summary: %#v", sum)
	}

	for _, name := range []string{"img1_primary.png", "img3_secondary.webp"} {
		if _, err := os.Stat(filepath.Join(cfg.Output.Dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, "img3_primary.png")); !os.IsNotExist(err) {
		t.Fatalf("failed fetch must not create a file, stat err=%v", err)
	}
	entries, _ := os.ReadDir(cfg.Output.Dir)
	if len(entries) != 2 {
		t.Fatalf("expected 2 files in output dir, got %d", len(entries))
	}

	report := out.String()
	for _, line := range []string{
		"[1/3] Processing: img1",
		"Row 2: Missing identifier, skipping...",
		"[3/3] Processing: img3",
		"(http_error 404)",
		"Download Summary:",
	} {
		if !strings.Contains(report, line) {
			t.Fatalf("report missing %q:\n%s", line, report)
		}
	}

	t.Run("rerun reproduces counts", func(t *testing.T) {
		again, err := app.RunDownload(context.Background(), cfg, app.Env{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != sum {
			t.Fatalf("rerun summary %#v differs from %#v", again, sum)
		}
		b, _ := os.ReadFile(filepath.Join(cfg.Output.Dir, "img1_primary.png"))
		if string(b) != "png" {
			t.Fatalf("unexpected content after rerun: %q", b)
		}
	})
}

func TestRunDownloadMissingInput(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Input.Path = filepath.Join(dir, "absent.csv")
	cfg.Output.Dir = filepath.Join(dir, "out")

	_, err := app.RunDownload(context.Background(), cfg, app.Env{})
	if !errors.Is(err, app.ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", err)
	}
	if _, err := os.Stat(cfg.Output.Dir); !os.IsNotExist(err) {
		t.Fatalf("no work should happen before the input check, stat err=%v", err)
	}
}

func TestRunDownloadLocked(t *testing.T) {
	cfg := testConfig(t, "image_id,base_url,context_url\n")
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	held := flock.New(cfg.Output.Dir + ".lock")
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("could not take lock: ok=%v err=%v", ok, err)
	}
	defer func() {
		_ = held.Unlock()
	}()

	_, err = app.RunDownload(context.Background(), cfg, app.Env{})
	if !errors.Is(err, app.ErrOutputLocked) {
		t.Fatalf("expected ErrOutputLocked, got %v", err)
	}
}

func TestRunURLs(t *testing.T) {
	root := t.TempDir()
	folder := filepath.Join(root, "alt-text-data")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"img1_primary.png", "img1_secondary.webp", "notes.md"} {
		if err := os.WriteFile(filepath.Join(folder, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	var out bytes.Buffer
	base := "https://raw.githubusercontent.com/o/r/main"
	urls, err := app.RunURLs(&out, app.URLOptions{Root: root, Folder: "alt-text-data", BaseURL: base})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 2 || urls[0] != base+"/alt-text-data/img1_primary.png" {
		t.Fatalf("unexpected urls: %v", urls)
	}
	for _, want := range []string{"Found 2 image(s):", "=== URL List ===", "=== JSON Array ===", "=== Quoted Strings ===", "URLs saved to:"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
	if _, err := os.Stat(filepath.Join(root, "alt-text-data_urls.txt")); err != nil {
		t.Fatalf("expected companion file: %v", err)
	}

	t.Run("missing folder is not an error", func(t *testing.T) {
		var out bytes.Buffer
		urls, err := app.RunURLs(&out, app.URLOptions{Root: root, Folder: "nope", BaseURL: base})
		if err != nil || urls != nil {
			t.Fatalf("unexpected result urls=%v err=%v", urls, err)
		}
		if !strings.Contains(out.String(), "does not exist") || !strings.Contains(out.String(), "No image files found in 'nope'") {
			t.Fatalf("unexpected output:\n%s", out.String())
		}
	})
}
