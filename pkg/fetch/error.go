package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/shpitdev/imagefetch/internal/util"
)

// Reason classifies why a fetch failed.
type Reason string

const (
	ReasonHTTP       Reason = "http_error"
	ReasonNetwork    Reason = "network_error"
	ReasonUnexpected Reason = "unexpected_error"
)

// Error is a classified fetch failure. The URL is redacted before it is stored.
type Error struct {
	Reason     Reason
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "fetch error"
	}
	parts := []string{fmt.Sprintf("%s: url=%s", e.Reason, e.URL)}
	if e.StatusCode != 0 {
		parts = append(parts, "status="+strings.TrimSpace(e.Status))
	}
	if e.Err != nil {
		parts = append(parts, "err="+util.RedactSecrets(e.Err.Error()))
	}
	return strings.Join(parts, " ")
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ReasonOf returns the failure reason carried by err. Errors that are not a
// *Error are reported as ReasonUnexpected.
func ReasonOf(err error) Reason {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return ReasonUnexpected
}

func newError(reason Reason, reference string, err error) *Error {
	return &Error{
		Reason: reason,
		URL:    util.RedactURL(reference),
		Err:    err,
	}
}

// isTransport reports whether err came from the connection rather than from
// local processing.
func isTransport(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
