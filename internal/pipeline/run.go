package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shpitdev/imagefetch/internal/logging"
	"github.com/shpitdev/imagefetch/internal/util"
	"github.com/shpitdev/imagefetch/pkg/fetch"
	"github.com/shpitdev/imagefetch/pkg/pipeline/core"
)

// Fetcher downloads one reference to dest plus a resolved extension.
type Fetcher interface {
	Fetch(ctx context.Context, reference, dest string) (fetch.Result, error)
}

// Options configures a run.
type Options struct {
	OutputDir       string
	PrimarySuffix   string
	SecondarySuffix string

	// Total is the expected row count used in progress lines. When zero the
	// running row count is shown instead.
	Total int

	Logger *slog.Logger
}

// Summary holds the per-run outcome counters.
type Summary struct {
	RowsSeen           int
	PrimarySucceeded   int
	SecondarySucceeded int
	Failures           int
}

// Succeeded returns the combined number of stored images.
func (s Summary) Succeeded() int {
	return s.PrimarySucceeded + s.SecondarySucceeded
}

func (o Options) withDefaults() Options {
	if o.PrimarySuffix == "" {
		o.PrimarySuffix = string(core.SlotPrimary)
	}
	if o.SecondarySuffix == "" {
		o.SecondarySuffix = string(core.SlotSecondary)
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return o
}

// EnsureOutputDir creates dir if needed. It is safe to call repeatedly.
func EnsureOutputDir(dir string) error {
	if dir == "" {
		return errors.New("output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// Run processes every row from src in order, fetching each present reference.
//
// Row and fetch failures are reported and counted and never stop the run. Only
// a failure to create the output directory or to read the source is returned.
func Run(ctx context.Context, src core.RowSource, f Fetcher, rep *Reporter, opts Options) (Summary, error) {
	opts = opts.withDefaults()
	if rep == nil {
		rep = NewReporter(nil)
	}

	var sum Summary
	if err := EnsureOutputDir(opts.OutputDir); err != nil {
		return sum, err
	}

	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return sum, nil
		}
		if err != nil {
			return sum, err
		}
		processRow(ctx, row, f, rep, opts, &sum)
	}
}

func processRow(ctx context.Context, row core.Row, f Fetcher, rep *Reporter, opts Options, sum *Summary) {
	sum.RowsSeen++
	if !row.Valid() {
		opts.Logger.Debug("row skipped", slog.Int("row", row.Index), slog.Any("error", row.Err))
		rep.Skipped(row)
		return
	}

	total := opts.Total
	if total < sum.RowsSeen {
		total = sum.RowsSeen
	}
	rep.Processing(row, total)

	if fetchSlot(ctx, row, core.SlotPrimary, row.Primary, opts.PrimarySuffix, f, rep, opts) {
		sum.PrimarySucceeded++
	} else if row.Primary != "" {
		sum.Failures++
	}
	if fetchSlot(ctx, row, core.SlotSecondary, row.Secondary, opts.SecondarySuffix, f, rep, opts) {
		sum.SecondarySucceeded++
	} else if row.Secondary != "" {
		sum.Failures++
	}
	rep.RowDone()
}

// fetchSlot reports whether reference was stored. An empty reference is not a
// failure and returns false.
func fetchSlot(ctx context.Context, row core.Row, slot core.Slot, reference, suffix string, f Fetcher, rep *Reporter, opts Options) bool {
	if reference == "" {
		rep.NoReference(slot)
		return false
	}

	dest := filepath.Join(opts.OutputDir, row.ID+"_"+suffix)
	start := time.Now()
	res, err := f.Fetch(ctx, reference, dest)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		attrs := []any{
			slog.String("id", row.ID),
			slog.String("slot", string(slot)),
			slog.String("reason", string(fetch.ReasonOf(err))),
			slog.String("url", util.RedactURL(reference)),
			slog.Duration("elapsed", elapsed),
		}
		var fe *fetch.Error
		if errors.As(err, &fe) && fe.StatusCode != 0 {
			attrs = append(attrs, slog.Int("status", fe.StatusCode))
		}
		opts.Logger.Debug("fetch failed", attrs...)
		rep.Failed(slot, reference, err)
		return false
	}

	opts.Logger.Debug("fetch stored",
		slog.String("id", row.ID),
		slog.String("slot", string(slot)),
		slog.String("path", res.Path),
		slog.String("content_type", res.ContentType),
		slog.Int("bytes", res.Bytes),
		slog.Duration("elapsed", elapsed),
	)
	rep.Saved(slot, res)
	return true
}
