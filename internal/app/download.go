package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/shpitdev/imagefetch/internal/config"
	"github.com/shpitdev/imagefetch/internal/logging"
	"github.com/shpitdev/imagefetch/internal/pipeline"
	"github.com/shpitdev/imagefetch/pkg/fetch"
	"github.com/shpitdev/imagefetch/pkg/pipeline/core"
	localio "github.com/shpitdev/imagefetch/pkg/pipeline/io/local"
)

var (
	// ErrInputNotFound is returned when the input CSV does not exist.
	ErrInputNotFound = errors.New("input file not found")

	// ErrOutputLocked is returned when another run holds the output directory.
	ErrOutputLocked = errors.New("output directory is in use by another run")
)

// Env carries the process-level collaborators of a run.
type Env struct {
	Stdout io.Writer
	Logger *slog.Logger

	// Fetcher overrides the HTTP fetcher built from config.
	Fetcher pipeline.Fetcher
}

// RunDownload reads the configured CSV and downloads every referenced image
// into the output directory, printing progress and a final summary.
func RunDownload(ctx context.Context, cfg config.Config, env Env) (pipeline.Summary, error) {
	logger := env.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	runID := uuid.NewString()
	logger = logger.With(slog.String("run_id", runID))
	runStart := time.Now()

	total, err := countRows(cfg.Input.Path)
	if err != nil {
		return pipeline.Summary{}, err
	}

	outputDir := cfg.Output.Dir
	if err := pipeline.EnsureOutputDir(outputDir); err != nil {
		return pipeline.Summary{}, err
	}
	lock := flock.New(lockPath(outputDir))
	ok, err := lock.TryLock()
	if err != nil {
		return pipeline.Summary{}, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return pipeline.Summary{}, fmt.Errorf("%w: %s", ErrOutputLocked, lock.Path())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", slog.String("lock", lock.Path()), slog.Any("error", err))
		}
	}()

	inF, err := os.Open(cfg.Input.Path)
	if err != nil {
		return pipeline.Summary{}, inputError(cfg.Input.Path, err)
	}
	defer func() {
		_ = inF.Close()
	}()

	cols := core.Columns{
		ID:        cfg.Input.IDColumn,
		Primary:   cfg.Input.PrimaryColumn,
		Secondary: cfg.Input.SecondaryColumn,
	}
	src, err := localio.NewRowReader(inF, cols)
	if err != nil {
		return pipeline.Summary{}, fmt.Errorf("read %s: %w", cfg.Input.Path, err)
	}
	if missing := src.Missing(); len(missing) > 0 {
		logger.Warn("input is missing configured columns; their values read as empty",
			slog.String("input", cfg.Input.Path),
			slog.String("columns", strings.Join(missing, ",")),
		)
	}

	fetcher := env.Fetcher
	if fetcher == nil {
		fetcher = fetch.New(fetch.Options{
			Timeout:   cfg.Timeout(),
			UserAgent: cfg.HTTP.UserAgent,
		})
	}

	logger.Info("download run start",
		slog.String("input", cfg.Input.Path),
		slog.String("output", outputDir),
		slog.Int("rows", total),
		slog.Duration("timeout", cfg.Timeout()),
	)

	rep := pipeline.NewReporter(env.Stdout)
	rep.Start(outputDir)
	sum, err := pipeline.Run(ctx, src, fetcher, rep, pipeline.Options{
		OutputDir:       outputDir,
		PrimarySuffix:   cfg.Output.PrimarySuffix,
		SecondarySuffix: cfg.Output.SecondarySuffix,
		Total:           total,
		Logger:          logger,
	})
	if err != nil {
		return sum, fmt.Errorf("read %s: %w", cfg.Input.Path, err)
	}
	rep.Summary(sum, outputDir)

	logger.Info("download run complete",
		slog.Int("rows", sum.RowsSeen),
		slog.Int("primary", sum.PrimarySucceeded),
		slog.Int("secondary", sum.SecondarySucceeded),
		slog.Int("failures", sum.Failures),
		slog.Duration("duration", time.Since(runStart).Round(time.Millisecond)),
	)
	return sum, nil
}

func countRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, inputError(path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	n, err := localio.CountRows(f)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return n, nil
}

func inputError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	return fmt.Errorf("open %s: %w", path, err)
}

// lockPath places the lock beside the output directory so it never shows up
// in the folder that gets published.
func lockPath(outputDir string) string {
	return filepath.Clean(outputDir) + ".lock"
}
