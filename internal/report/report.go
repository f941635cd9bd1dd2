package report

import (
	"fmt"
	"os"
	"time"

	"github.com/ygunayer/mangapdf/internal/errs"
	"github.com/ztrue/tracerr"
	"go.yaml.in/yaml/v3"
)

type Operation string

const (
	OpDiscover      Operation = "discover"
	OpExportChapter Operation = "export-chapter"
	OpExportVolume  Operation = "export-volume"
	OpResizeCover   Operation = "resize-cover"
)

// Result is the outcome of processing one item.
type Result struct {
	Operation Operation
	Item      string
	Output    string
	Size      int64
	Pages     int
	Err       error
	Duration  time.Duration
}

func (r Result) OK() bool {
	return r.Err == nil
}

func (r Result) Kind() errs.Kind {
	return errs.KindOf(r.Err)
}

// SizeMB is the output size in megabytes (10^6 bytes).
func (r Result) SizeMB() float64 {
	return float64(r.Size) / 1_000_000
}

func Success(op Operation, item, output string) Result {
	return Result{Operation: op, Item: item, Output: output}
}

func Failure(op Operation, item string, err error) Result {
	return Result{Operation: op, Item: item, Err: err}
}

// Reporter receives results as they are produced. Implementations print them
// to the operator.
type Reporter interface {
	Start(op Operation, total int)
	Report(result Result)
	Warn(message string)
	Finish(op Operation)
}

// Report aggregates the results of a run.
type Report struct {
	Results  []Result
	Warnings []string
}

func New() *Report {
	return &Report{Results: make([]Result, 0), Warnings: make([]string, 0)}
}

func (r *Report) Add(result Result) {
	r.Results = append(r.Results, result)
}

func (r *Report) Warn(message string) {
	r.Warnings = append(r.Warnings, message)
}

// Merge appends other's results and warnings to r.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Results = append(r.Results, other.Results...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

func (r *Report) Succeeded() []Result {
	return r.filter(true)
}

func (r *Report) Failed() []Result {
	return r.filter(false)
}

func (r *Report) HasFailures() bool {
	return len(r.Failed()) > 0
}

func (r *Report) filter(ok bool) []Result {
	out := make([]Result, 0, len(r.Results))
	for _, result := range r.Results {
		if result.OK() == ok {
			out = append(out, result)
		}
	}
	return out
}

func (r *Report) Summary() string {
	return fmt.Sprintf("%d succeeded, %d failed, %d warnings", len(r.Succeeded()), len(r.Failed()), len(r.Warnings))
}

// Collector stores every result into a Report and forwards it to next.
type Collector struct {
	Collected *Report
	next      Reporter
}

func NewCollector(next Reporter) *Collector {
	return &Collector{Collected: New(), next: next}
}

func (c *Collector) Start(op Operation, total int) {
	if c.next != nil {
		c.next.Start(op, total)
	}
}

func (c *Collector) Report(result Result) {
	c.Collected.Add(result)
	if c.next != nil {
		c.next.Report(result)
	}
}

func (c *Collector) Warn(message string) {
	c.Collected.Warn(message)
	if c.next != nil {
		c.next.Warn(message)
	}
}

func (c *Collector) Finish(op Operation) {
	if c.next != nil {
		c.next.Finish(op)
	}
}

type yamlResult struct {
	Operation  Operation `yaml:"operation"`
	Item       string    `yaml:"item"`
	Status     string    `yaml:"status"`
	Output     string    `yaml:"output,omitempty"`
	SizeBytes  int64     `yaml:"size_bytes,omitempty"`
	Pages      int       `yaml:"pages,omitempty"`
	ErrorKind  string    `yaml:"error_kind,omitempty"`
	Error      string    `yaml:"error,omitempty"`
	DurationMs int64     `yaml:"duration_ms"`
}

type yamlReport struct {
	Summary  string       `yaml:"summary"`
	Warnings []string     `yaml:"warnings,omitempty"`
	Results  []yamlResult `yaml:"results"`
}

// MarshalYAML renders the report as a plain YAML document.
func (r *Report) MarshalYAML() (interface{}, error) {
	doc := yamlReport{
		Summary:  r.Summary(),
		Warnings: r.Warnings,
		Results:  make([]yamlResult, 0, len(r.Results)),
	}

	for _, result := range r.Results {
		entry := yamlResult{
			Operation:  result.Operation,
			Item:       result.Item,
			Status:     "ok",
			Output:     result.Output,
			SizeBytes:  result.Size,
			Pages:      result.Pages,
			DurationMs: result.Duration.Milliseconds(),
		}
		if !result.OK() {
			entry.Status = "failed"
			entry.ErrorKind = result.Kind().String()
			entry.Error = result.Err.Error()
		}
		doc.Results = append(doc.Results, entry)
	}

	return doc, nil
}

// WriteFile saves the report as YAML.
func (r *Report) WriteFile(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return tracerr.Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return tracerr.Wrap(errs.IO(path, err))
	}

	return nil
}
