package pipeline

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/shpitdev/imagefetch/internal/util"
	"github.com/shpitdev/imagefetch/pkg/fetch"
	"github.com/shpitdev/imagefetch/pkg/pipeline/core"
)

const ruleWidth = 60

// Reporter writes the human-readable progress report for a run.
type Reporter struct {
	w io.Writer
}

// NewReporter returns a Reporter writing to w. A nil writer discards output.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w}
}

func (r *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

// Start announces the output location.
func (r *Reporter) Start(outputDir string) {
	r.printf("Output directory: %s\n", outputDir)
	r.printf("%s\n", strings.Repeat("-", ruleWidth))
}

// Skipped reports an invalid row.
func (r *Reporter) Skipped(row core.Row) {
	if row.Err != nil {
		r.printf("Row %d: Malformed record (%s), skipping...\n", row.Index, row.Err)
		return
	}
	r.printf("Row %d: Missing identifier, skipping...\n", row.Index)
}

// Processing announces a row before its references are fetched.
func (r *Reporter) Processing(row core.Row, total int) {
	r.printf("[%d/%d] Processing: %s\n", row.Index, total, row.ID)
}

// Saved reports a stored image.
func (r *Reporter) Saved(slot core.Slot, res fetch.Result) {
	r.printf("  ✓ %s image saved: %s (%s)\n", slot.Label(), filepath.Base(res.Path), humanize.Bytes(uint64(res.Bytes)))
}

// Failed reports a failed fetch with its reason and the redacted reference.
func (r *Reporter) Failed(slot core.Slot, reference string, err error) {
	ref := util.RedactURL(reference)
	var fe *fetch.Error
	if !errors.As(err, &fe) {
		r.printf("  ✗ %s image failed (%s): %s: %s\n", slot.Label(), fetch.ReasonUnexpected, ref, util.RedactSecrets(errString(err)))
		return
	}
	switch fe.Reason {
	case fetch.ReasonHTTP:
		r.printf("  ✗ %s image failed (%s %d): %s\n", slot.Label(), fe.Reason, fe.StatusCode, ref)
	default:
		r.printf("  ✗ %s image failed (%s): %s: %s\n", slot.Label(), fe.Reason, ref, util.RedactSecrets(errString(fe.Err)))
	}
}

// NoReference reports an empty reference field.
func (r *Reporter) NoReference(slot core.Slot) {
	r.printf("  ⚠ No %s reference provided\n", slot)
}

// RowDone separates rows.
func (r *Reporter) RowDone() {
	r.printf("\n")
}

// Summary prints the end-of-run totals.
func (r *Reporter) Summary(s Summary, outputDir string) {
	r.printf("%s\n", strings.Repeat("-", ruleWidth))
	r.printf("Download Summary:\n")
	r.printf("%s\n", renderSummaryTable(s))
	r.printf("\nImages saved to: %s%c\n", strings.TrimRight(outputDir, `/\`), filepath.Separator)
}

func renderSummaryTable(s Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Count"})
	tw.AppendRows([]table.Row{
		{"Total rows processed", strconv.Itoa(s.RowsSeen)},
		{"Primary images downloaded", strconv.Itoa(s.PrimarySucceeded)},
		{"Secondary images downloaded", strconv.Itoa(s.SecondarySucceeded)},
		{"Total successful", strconv.Itoa(s.Succeeded())},
		{"Failed downloads", strconv.Itoa(s.Failures)},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
