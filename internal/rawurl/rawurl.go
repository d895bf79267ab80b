// Package rawurl lists downloaded images in a folder and formats the public
// raw-content URLs they will have once the folder is pushed to the hosted
// repository.
package rawurl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".bmp":  {},
	".svg":  {},
	".webp": {},
	".tiff": {},
	".ico":  {},
}

const sectionRule = "--------------------"

// IsImage reports whether name has a recognized image extension.
func IsImage(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ListImages returns the names of regular image files directly inside dir,
// sorted by name. Symlinks are followed.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !IsImage(e.Name()) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Build joins base, folder, and each file name into a URL. The folder keeps
// its given form apart from slash normalization.
func Build(base, folder string, files []string) []string {
	base = strings.TrimRight(base, "/")
	folder = strings.Trim(filepath.ToSlash(folder), "/")
	urls := make([]string, 0, len(files))
	for _, f := range files {
		urls = append(urls, base+"/"+path.Join(folder, f))
	}
	return urls
}

// PlainList renders one URL per line.
func PlainList(urls []string) string {
	var b strings.Builder
	for _, u := range urls {
		b.WriteString(u)
		b.WriteByte('\n')
	}
	return b.String()
}

// JSONArray renders urls as a two-space indented JSON array without a
// trailing newline.
func JSONArray(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(urls); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// QuotedList renders each URL as a quoted string followed by a comma.
func QuotedList(urls []string) string {
	var b strings.Builder
	for _, u := range urls {
		b.WriteString(`"` + u + `",` + "\n")
	}
	return b.String()
}

// CompanionName is the file the URL listing for folder is saved to.
func CompanionName(folder string) string {
	name := strings.Trim(filepath.ToSlash(folder), "/")
	return strings.ReplaceAll(name, "/", "_") + "_urls.txt"
}

// WriteCompanion writes all three renderings of urls to w.
func WriteCompanion(w io.Writer, urls []string) error {
	js, err := JSONArray(urls)
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("URL List:\n" + sectionRule + "\n")
	b.WriteString(PlainList(urls))
	b.WriteString("\nJSON Array:\n" + sectionRule + "\n")
	b.WriteString(js)
	b.WriteString("\n\nQuoted Strings:\n" + sectionRule + "\n")
	b.WriteString(QuotedList(urls))
	_, err = io.WriteString(w, b.String())
	return err
}

// SaveCompanion writes the companion file at path.
func SaveCompanion(path string, urls []string) error {
	var buf bytes.Buffer
	if err := WriteCompanion(&buf, urls); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
