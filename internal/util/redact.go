package util

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// Matches "Bearer <token>" (JWTs and opaque tokens).
	bearerTokenRe = regexp.MustCompile(`(?i)\bBearer\s+[^\s"']+`)

	// Common key=value formats that sometimes leak in error strings.
	apiKeyKVRe = regexp.MustCompile(`(?i)\b(api[_-]?key|access[_-]?token)\b\s*[:=]\s*[^\s"'&]+`)

	// Query parameter names that carry credentials on signed image URLs.
	secretParamRe = regexp.MustCompile(`(?i)(token|key|sig|signature|secret|password|credential)`)
)

// RedactSecrets removes obvious secret-bearing substrings from error/log strings.
//
// This is intentionally conservative: it should be safe to call on any message,
// including upstream error strings that echo the request URL.
func RedactSecrets(s string) string {
	if s == "" {
		return ""
	}
	out := s
	out = bearerTokenRe.ReplaceAllString(out, "Bearer <redacted>")
	out = apiKeyKVRe.ReplaceAllString(out, "<redacted_kv>")
	return strings.TrimSpace(out)
}

// RedactURL hides the userinfo password and the values of credential-like query
// parameters. Parameter order is preserved. Unparseable input goes through
// RedactSecrets instead.
func RedactURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return RedactSecrets(raw)
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "redacted")
		}
	}
	if u.RawQuery != "" {
		pairs := strings.Split(u.RawQuery, "&")
		for i, p := range pairs {
			k, _, found := strings.Cut(p, "=")
			if !found {
				continue
			}
			name, err := url.QueryUnescape(k)
			if err != nil {
				name = k
			}
			if secretParamRe.MatchString(name) {
				pairs[i] = k + "=redacted"
			}
		}
		u.RawQuery = strings.Join(pairs, "&")
	}
	return u.String()
}
