package fetch

import (
	"net/url"
	"path"
	"strings"
)

// DefaultExtension is used when neither the URL nor the content type names one.
const DefaultExtension = ".jpg"

type mimeExtension struct {
	mime string
	ext  string
}

// Matching is substring based and the first match wins, so order matters.
var mimeExtensions = []mimeExtension{
	{"image/jpeg", ".jpg"},
	{"image/jpg", ".jpg"},
	{"image/png", ".png"},
	{"image/gif", ".gif"},
	{"image/webp", ".webp"},
	{"image/svg+xml", ".svg"},
	{"image/bmp", ".bmp"},
	{"image/tiff", ".tiff"},
	{"image/x-icon", ".ico"},
}

// ResolveExtension picks the file extension for a downloaded reference.
//
// The extension of the last URL path element wins; otherwise the content type is
// looked up in the MIME table; otherwise DefaultExtension is returned.
func ResolveExtension(reference, contentType string) string {
	if ext := urlExtension(reference); ext != "" {
		return ext
	}
	if ext := ExtensionForContentType(contentType); ext != "" {
		return ext
	}
	return DefaultExtension
}

// ExtensionForContentType returns the extension for a Content-Type header value,
// or "" when no table entry matches.
func ExtensionForContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" {
		return ""
	}
	for _, m := range mimeExtensions {
		if strings.Contains(ct, m.mime) {
			return m.ext
		}
	}
	return ""
}

func urlExtension(reference string) string {
	u, err := url.Parse(reference)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}
