package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/ygunayer/mangapdf/internal/config"
	"github.com/ygunayer/mangapdf/internal/cover"
	"github.com/ygunayer/mangapdf/internal/export"
	"github.com/ygunayer/mangapdf/internal/report"
	"github.com/ygunayer/mangapdf/internal/series"
	"github.com/ztrue/tracerr"
)

// Action is one of the operations offered to the operator.
type Action string

const (
	ActionCovers   Action = "covers"
	ActionChapters Action = "chapters"
	ActionVolumes  Action = "volumes"
	ActionAll      Action = "all"
)

var Actions = []Action{ActionCovers, ActionChapters, ActionVolumes, ActionAll}

func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q, expected one of %v", s, Actions)
}

// Pipeline runs the series operations against a fixed configuration.
type Pipeline struct {
	Config   *config.Config
	Series   *series.Series
	Reporter report.Reporter
	Logger   logrus.FieldLogger

	coverPolicy cover.Policy
}

func New(cfg *config.Config, reporter report.Reporter, logger logrus.FieldLogger) (*Pipeline, error) {
	policy, err := cover.ParsePolicy(cfg.CoverPolicy)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Pipeline{
		Config:      cfg,
		Series:      series.New(cfg),
		Reporter:    reporter,
		Logger:      logger,
		coverPolicy: policy,
	}, nil
}

// SetCoverPolicy switches the cover fitting policy for later runs.
func (p *Pipeline) SetCoverPolicy(name string) error {
	policy, err := cover.ParsePolicy(name)
	if err != nil {
		return tracerr.Wrap(err)
	}
	p.Config.CoverPolicy = name
	p.coverPolicy = policy
	return nil
}

// Run executes a single action.
func (p *Pipeline) Run(ctx context.Context, action Action) (*report.Report, error) {
	switch action {
	case ActionCovers:
		return p.ResizeCovers(ctx)
	case ActionChapters:
		return p.ExportChapters(ctx)
	case ActionVolumes:
		return p.ExportVolumes(ctx)
	case ActionAll:
		return p.ExportAll(ctx)
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}
}

// discover scans the root and turns rejected entries into failure results.
func (p *Pipeline) discover(run *report.Report) ([]*series.Chapter, error) {
	catalog, err := p.Series.Discover()
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	for _, rejected := range catalog.Rejected {
		result := report.Failure(report.OpDiscover, rejected.Name, rejected.Err)
		run.Add(result)
		if p.Reporter != nil {
			p.Reporter.Report(result)
		}
	}

	p.Logger.WithFields(logrus.Fields{
		"root":     catalog.Root,
		"chapters": len(catalog.Chapters),
		"rejected": len(catalog.Rejected),
	}).Debug("discovered chapters")

	return catalog.Chapters, nil
}

func (p *Pipeline) warn(run *report.Report, message string) {
	run.Warn(message)
	if p.Reporter != nil {
		p.Reporter.Warn(message)
	}
	p.Logger.Debug(message)
}

func (p *Pipeline) ResizeCovers(ctx context.Context) (*report.Report, error) {
	run := report.New()
	chapters, err := p.discover(run)
	if err != nil {
		return run, tracerr.Wrap(err)
	}

	run.Merge(cover.Resize(ctx, p.Series.FirstChapters(chapters), cover.Options{
		Width:    p.Config.CoverWidth(),
		Height:   p.Config.CoverHeight(),
		Policy:   p.coverPolicy,
		Reporter: p.Reporter,
		Logger:   p.Logger,
	}))

	return run, nil
}

func (p *Pipeline) ExportChapters(ctx context.Context) (*report.Report, error) {
	run := report.New()
	chapters, err := p.discover(run)
	if err != nil {
		return run, tracerr.Wrap(err)
	}

	p.exportChapters(ctx, run, chapters)
	return run, nil
}

// ExportVolumes groups the chapters found on disk into volumes and exports
// them.
func (p *Pipeline) ExportVolumes(ctx context.Context) (*report.Report, error) {
	run := report.New()
	chapters, err := p.discover(run)
	if err != nil {
		return run, tracerr.Wrap(err)
	}

	p.exportVolumes(ctx, run, chapters)
	return run, nil
}

// ExportAll exports chapters and then the volumes built from them. A volume
// holding a chapter that failed to export fails too, even when an older PDF
// of that chapter is on disk.
func (p *Pipeline) ExportAll(ctx context.Context) (*report.Report, error) {
	run := report.New()
	chapters, err := p.discover(run)
	if err != nil {
		return run, tracerr.Wrap(err)
	}

	p.exportChapters(ctx, run, chapters)
	if ctx.Err() != nil {
		return run, nil
	}
	p.exportVolumes(ctx, run, chapters)
	return run, nil
}

func (p *Pipeline) exportChapters(ctx context.Context, run *report.Report, chapters []*series.Chapter) {
	run.Merge(export.Chapters(ctx, chapters, p.exportOptions()))
}

func (p *Pipeline) exportVolumes(ctx context.Context, run *report.Report, chapters []*series.Chapter) {
	volumes := p.Series.GenerateVolumes(chapters)

	diag := p.Series.Diagnose(chapters)
	for _, o := range diag.Overlaps {
		p.warn(run, fmt.Sprintf("volumes %s and %s share chapters %s-%s",
			series.FormatNumber(o.A.Volume), series.FormatNumber(o.B.Volume),
			series.FormatNumber(max(o.A.FirstChapter, o.B.FirstChapter)),
			series.FormatNumber(min(o.A.LastChapter, o.B.LastChapter))))
	}
	for _, c := range diag.Unassigned {
		p.warn(run, fmt.Sprintf("%s is not part of any volume", c.Name))
	}

	run.Merge(export.Volumes(ctx, volumes, p.exportOptions()))
}

func (p *Pipeline) exportOptions() export.Options {
	return export.Options{
		Jobs:          p.Config.Jobs,
		MinVolumeSize: p.Config.MinVolumeSize,
		Reporter:      p.Reporter,
		Logger:        p.Logger,
	}
}
