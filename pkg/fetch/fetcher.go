package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies as a desktop browser. Some image hosts reject
	// requests with an empty or library user agent.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
)

// Options configures a Fetcher. Zero values use the defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string

	// HTTPClient overrides the client used for requests. Its Timeout is replaced
	// when Timeout is set.
	HTTPClient *http.Client
}

// Result describes a stored download.
type Result struct {
	Path        string
	Extension   string
	ContentType string
	Bytes       int
}

// Fetcher downloads a single reference to disk per call. It does not retry.
type Fetcher struct {
	http      *http.Client
	userAgent string
}

// New constructs a Fetcher.
func New(opts Options) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = DefaultUserAgent
	}

	client := &http.Client{}
	if opts.HTTPClient != nil {
		cp := *opts.HTTPClient
		client = &cp
	}
	client.Timeout = timeout

	return &Fetcher{http: client, userAgent: ua}
}

// Fetch downloads reference and writes it to dest plus the resolved extension.
//
// The whole body is held in memory before writing. On failure nothing is
// written and the returned error is a *Error.
func (f *Fetcher) Fetch(ctx context.Context, reference, dest string) (Result, error) {
	u, err := url.Parse(reference)
	if err != nil {
		return Result{}, newError(ReasonUnexpected, reference, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Result{}, newError(ReasonUnexpected, reference, errors.New("not an absolute http(s) url"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, newError(ReasonUnexpected, reference, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		// *url.Error repeats the full request URL, which may carry credentials.
		var ue *url.Error
		if errors.As(err, &ue) && ue.Err != nil {
			err = ue.Err
		}
		return Result{}, newError(ReasonNetwork, reference, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		fe := newError(ReasonHTTP, reference, nil)
		fe.StatusCode = resp.StatusCode
		fe.Status = resp.Status
		return Result{}, fe
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		reason := ReasonUnexpected
		if isTransport(err) {
			reason = ReasonNetwork
		}
		return Result{}, newError(reason, reference, fmt.Errorf("read body: %w", err))
	}

	contentType := resp.Header.Get("Content-Type")
	ext := ResolveExtension(reference, contentType)
	path := dest + ext
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return Result{}, newError(ReasonUnexpected, reference, err)
	}

	return Result{
		Path:        path,
		Extension:   ext,
		ContentType: contentType,
		Bytes:       len(body),
	}, nil
}
