package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/ygunayer/mangapdf/internal/report"
	"github.com/ztrue/tracerr"
)

var operationTitles = map[report.Operation]string{
	report.OpExportChapter: "Exporting chapters",
	report.OpExportVolume:  "Exporting volumes",
	report.OpResizeCover:   "Resizing covers",
}

// consoleReporter prints one colored line per processed item and keeps a
// progress bar on the error stream.
type consoleReporter struct {
	out     io.Writer
	barOut  io.Writer
	verbose bool
	bar     *progressbar.ProgressBar

	info    func(a ...interface{}) string
	success func(a ...interface{}) string
	failure func(a ...interface{}) string
	warning func(a ...interface{}) string
}

func newConsoleReporter(out, barOut io.Writer, verbose bool) *consoleReporter {
	return &consoleReporter{
		out:     out,
		barOut:  barOut,
		verbose: verbose,
		info:    color.New(color.FgCyan).SprintFunc(),
		success: color.New(color.FgGreen).SprintFunc(),
		failure: color.New(color.FgRed).SprintFunc(),
		warning: color.New(color.FgYellow).SprintFunc(),
	}
}

func (c *consoleReporter) Start(op report.Operation, total int) {
	title, ok := operationTitles[op]
	if !ok {
		title = string(op)
	}
	c.Info("%s: %d items", title, total)

	if total <= 0 {
		return
	}

	c.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.barOut),
		progressbar.OptionSetDescription(title),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (c *consoleReporter) Report(result report.Result) {
	c.clearBar()

	if result.OK() {
		fmt.Fprintf(c.out, "%s %s\n", c.success("SUCCESS:"), describe(result))
	} else {
		fmt.Fprintf(c.out, "%s %s: %v\n", c.failure("ERROR:"), result.Item, result.Err)
		if c.verbose {
			fmt.Fprintln(c.out, tracerr.Sprint(result.Err))
		}
	}

	if c.bar != nil && result.Operation != report.OpDiscover {
		_ = c.bar.Add(1)
	}
}

func (c *consoleReporter) Warn(message string) {
	c.clearBar()
	fmt.Fprintf(c.out, "%s %s\n", c.warning("WARN:"), message)
}

func (c *consoleReporter) Finish(report.Operation) {
	if c.bar == nil {
		return
	}
	_ = c.bar.Finish()
	_ = c.bar.Close()
	c.bar = nil
}

func (c *consoleReporter) Info(format string, args ...interface{}) {
	c.clearBar()
	fmt.Fprintf(c.out, "%s %s\n", c.info("INFO:"), fmt.Sprintf(format, args...))
}

// Summary prints the final counts of a run, listing failures again so they
// are easy to find in a long log.
func (c *consoleReporter) Summary(run *report.Report, elapsed time.Duration) {
	failed := run.Failed()

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "%s Finished in %s\n", c.success("DONE:"), formatDuration(elapsed))
	fmt.Fprintf(c.out, "Successful: %d\n", len(run.Succeeded()))
	fmt.Fprintf(c.out, "Failed: %d\n", len(failed))
	fmt.Fprintf(c.out, "Warnings: %d\n", len(run.Warnings))

	for _, result := range failed {
		fmt.Fprintf(c.out, "  %s %s (%s)\n", c.failure("-"), result.Item, result.Kind())
	}
}

func (c *consoleReporter) clearBar() {
	if c.bar != nil {
		_ = c.bar.Clear()
	}
}

func describe(result report.Result) string {
	switch result.Operation {
	case report.OpExportChapter, report.OpExportVolume:
		return fmt.Sprintf("%s created! %d pages, %.2f MB", result.Item, result.Pages, result.SizeMB())
	case report.OpResizeCover:
		return fmt.Sprintf("%s created!", result.Item)
	default:
		return result.Item
	}
}

// formatDuration formats time.Duration to a human-readable string (HH:MM:SS)
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
