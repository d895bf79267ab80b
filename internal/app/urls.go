package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/shpitdev/imagefetch/internal/rawurl"
)

// URLOptions configures RunURLs.
type URLOptions struct {
	// Root is the local checkout of the hosted repository.
	Root    string
	Folder  string
	BaseURL string
}

// RunURLs prints the raw-content URLs for the images in Root/Folder in three
// forms and saves them to a companion file in Root. A missing or empty folder
// is reported and is not an error. It returns the generated URLs.
func RunURLs(w io.Writer, opts URLOptions) ([]string, error) {
	if w == nil {
		w = io.Discard
	}
	folder := strings.TrimSpace(opts.Folder)
	if folder == "" {
		return nil, errors.New("folder name is required")
	}
	folderPath := filepath.Join(opts.Root, folder)

	_, _ = fmt.Fprintf(w, "Scanning folder: %s\n", folder)
	_, _ = fmt.Fprintf(w, "Full path: %s\n", folderPath)
	_, _ = fmt.Fprintf(w, "%s\n", strings.Repeat("-", 50))

	files, err := rawurl.ListImages(folderPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("list %s: %w", folderPath, err)
		}
		_, _ = fmt.Fprintf(w, "Error: Folder '%s' does not exist.\n", folderPath)
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintf(w, "No image files found in '%s'\n", folder)
		return nil, nil
	}

	urls := rawurl.Build(opts.BaseURL, folder, files)
	js, err := rawurl.JSONArray(urls)
	if err != nil {
		return nil, err
	}

	_, _ = fmt.Fprintf(w, "Found %d image(s):\n\n", len(files))
	_, _ = fmt.Fprintf(w, "=== URL List ===\n%s\n", rawurl.PlainList(urls))
	_, _ = fmt.Fprintf(w, "=== JSON Array ===\n%s\n\n", js)
	_, _ = fmt.Fprintf(w, "=== Quoted Strings ===\n%s", rawurl.QuotedList(urls))

	outPath := filepath.Join(opts.Root, rawurl.CompanionName(folder))
	if err := rawurl.SaveCompanion(outPath, urls); err != nil {
		return urls, err
	}
	_, _ = fmt.Fprintf(w, "\nURLs saved to: %s\n", outPath)
	return urls, nil
}
