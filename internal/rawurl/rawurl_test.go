package rawurl_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/shpitdev/imagefetch/internal/rawurl"
)

const base = "https://raw.githubusercontent.com/shresthjain-bs/public/main"

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_primary.PNG", "a_secondary.webp", "notes.txt", "c.jpeg", "README"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := rawurl.ListImages(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a_secondary.webp", "b_primary.PNG", "c.jpeg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListImages=%v, want %v", got, want)
	}

	if _, err := rawurl.ListImages(filepath.Join(dir, "missing")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestBuild(t *testing.T) {
	got := rawurl.Build(base+"/", "alt-text-data/", []string{"img1_primary.png", "img1_secondary.jpg"})
	want := []string{
		base + "/alt-text-data/img1_primary.png",
		base + "/alt-text-data/img1_secondary.jpg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Build=%v, want %v", got, want)
	}
}

func TestRenderings(t *testing.T) {
	urls := []string{base + "/d/a.png", base + "/d/b&c.jpg"}

	if got := rawurl.PlainList(urls); got != urls[0]+"\n"+urls[1]+"\n" {
		t.Fatalf("unexpected plain list: %q", got)
	}

	js, err := rawurl.JSONArray(urls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantJS := "[\n  \"" + urls[0] + "\",\n  \"" + urls[1] + "\"\n]"
	if js != wantJS {
		t.Fatalf("unexpected json:\n%s\nwant:\n%s", js, wantJS)
	}

	empty, err := rawurl.JSONArray(nil)
	if err != nil || empty != "[]" {
		t.Fatalf("unexpected empty json %q err=%v", empty, err)
	}

	if got := rawurl.QuotedList(urls); got != "\""+urls[0]+"\",\n\""+urls[1]+"\",\n" {
		t.Fatalf("unexpected quoted list: %q", got)
	}
}

func TestSaveCompanion(t *testing.T) {
	urls := []string{base + "/d/a.png"}
	path := filepath.Join(t.TempDir(), rawurl.CompanionName("d"))
	if filepath.Base(path) != "d_urls.txt" {
		t.Fatalf("unexpected companion name: %s", path)
	}
	if err := rawurl.SaveCompanion(path, urls); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := strings.Join([]string{
		"URL List:",
		"--------------------",
		urls[0],
		"",
		"JSON Array:",
		"--------------------",
		"[",
		`  "` + urls[0] + `"`,
		"]",
		"",
		"Quoted Strings:",
		"--------------------",
		`"` + urls[0] + `",`,
		"",
	}, "\n")
	if string(b) != want {
		t.Fatalf("unexpected companion file:\n%s\nwant:\n%s", b, want)
	}
}

func TestCompanionNameNested(t *testing.T) {
	if got := rawurl.CompanionName("runs/2024/"); got != "runs_2024_urls.txt" {
		t.Fatalf("unexpected name: %s", got)
	}
}
