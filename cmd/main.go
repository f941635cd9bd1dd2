package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/ygunayer/mangapdf/internal/config"
	"github.com/ygunayer/mangapdf/internal/pipeline"
	"github.com/ygunayer/mangapdf/internal/report"
	"github.com/ztrue/tracerr"
)

type Args struct {
	Action     string `arg:"positional" help:"(Optional) One of covers, chapters, volumes, all. Opens the menu when omitted"`
	Config     string `arg:"-c" help:"(Optional) Path of the configuration file" default:"config.json"`
	Jobs       int    `arg:"-j" help:"(Optional) Number of chapters to convert at once. Overrides the configuration"`
	Report     string `arg:"-r" help:"(Optional) Write a YAML report of every processed item to this file"`
	Verbose    bool   `arg:"-v" help:"(Optional) Log every step and print stack traces of failures"`
	TerminalUI bool   `arg:"-t, --termui" help:"(Optional) Use the terminal UI even when an action is given"`
}

func (Args) Description() string {
	return "Exports per-chapter image folders of a series to chapter and volume PDFs"
}

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// runAction executes one action and prints its summary.
func runAction(ctx context.Context, p *pipeline.Pipeline, console *consoleReporter, action pipeline.Action, reportPath string) (*report.Report, error) {
	start := time.Now()
	run, err := p.Run(ctx, action)
	if err != nil {
		return run, tracerr.Wrap(err)
	}

	console.Summary(run, time.Since(start))

	if reportPath != "" {
		if err := run.WriteFile(reportPath); err != nil {
			return run, tracerr.Wrap(err)
		}
		console.Info("Report written to %s", reportPath)
	}

	return run, nil
}

func mainWithErrors() error {
	var args Args
	argP := arg.MustParse(&args)

	logger := newLogger(args.Verbose)

	// configuration problems abort before anything is touched
	cfg, err := config.Load(args.Config)
	if err != nil {
		return tracerr.Wrap(err)
	}
	if args.Jobs > 0 {
		cfg.Jobs = args.Jobs
	}

	console := newConsoleReporter(os.Stdout, os.Stderr, args.Verbose)
	p, err := pipeline.New(cfg, console, logger)
	if err != nil {
		return tracerr.Wrap(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if args.Action == "" || args.TerminalUI {
		RunTerminalUI(ctx, p, console, args.Report)
		return nil
	}

	action, err := pipeline.ParseAction(args.Action)
	if err != nil {
		argP.WriteHelp(os.Stderr)
		return err
	}

	run, err := runAction(ctx, p, console, action, args.Report)
	if err != nil {
		return tracerr.Wrap(err)
	}

	if failed := len(run.Failed()); failed > 0 {
		return fmt.Errorf("%d items failed", failed)
	}

	return nil
}

func main() {
	if err := mainWithErrors(); err != nil {
		color.Red("ERROR: %v", err)
		os.Exit(1)
	}
}
