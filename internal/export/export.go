package export

import (
	"os"
	"runtime"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
	"github.com/ygunayer/mangapdf/internal/report"
)

const partSuffix = ".part"

type Options struct {
	// Jobs bounds how many chapters are converted at once. Zero or one keeps
	// the export strictly sequential.
	Jobs int

	// MinVolumeSize is the smallest acceptable volume PDF in bytes. Zero
	// disables the check.
	MinVolumeSize int64

	// Reporter receives results as they happen. Optional.
	Reporter report.Reporter

	Logger logrus.FieldLogger

	// NewPDFConfig returns the pdfcpu configuration used for a single
	// operation. Defaults to model.NewDefaultConfiguration.
	NewPDFConfig func() *model.Configuration
}

func (o *Options) jobs() int {
	if o.Jobs < 1 {
		return 1
	}
	return o.Jobs
}

// pageWorkers splits the CPUs between the chapters converted at once.
func (o *Options) pageWorkers() int {
	return max(1, runtime.GOMAXPROCS(0)/o.jobs())
}

func (o *Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

func (o *Options) pdfConfig() *model.Configuration {
	if o.NewPDFConfig != nil {
		return o.NewPDFConfig()
	}
	return model.NewDefaultConfiguration()
}

// removeIfExists deletes a stale file left by an earlier run.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
