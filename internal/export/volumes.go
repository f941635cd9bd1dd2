package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pdfcpu_api "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"
	"github.com/ygunayer/mangapdf/internal/errs"
	"github.com/ygunayer/mangapdf/internal/report"
	"github.com/ygunayer/mangapdf/internal/series"
	"github.com/ztrue/tracerr"
)

// Volumes concatenates the chapter PDFs of each volume into the volume's
// path, in the order the volumes were generated. One volume failing does not
// affect the rest.
func Volumes(ctx context.Context, volumes []*series.Volume, opts Options) *report.Report {
	collector := report.NewCollector(opts.Reporter)
	collector.Start(report.OpExportVolume, len(volumes))
	defer collector.Finish(report.OpExportVolume)

	for i, volume := range volumes {
		if ctx.Err() != nil {
			collector.Warn(fmt.Sprintf("interrupted: %d volumes were not exported", len(volumes)-i))
			break
		}

		collector.Report(ExportVolume(volume, opts))
	}

	return collector.Collected
}

// ExportVolume writes a single volume and validates the result.
func ExportVolume(volume *series.Volume, opts Options) report.Result {
	start := time.Now()
	result := report.Success(report.OpExportVolume, volume.Filename, volume.Path)

	pageCount, size, err := writeVolumePDF(volume, opts)
	result.Duration = time.Since(start)
	result.Pages = pageCount
	result.Size = size
	result.Err = err

	return result
}

func writeVolumePDF(volume *series.Volume, opts Options) (int, int64, error) {
	log := opts.logger().WithField("volume", volume.Filename)

	if len(volume.Chapters) == 0 {
		return 0, 0, tracerr.Wrap(errs.Newf(errs.KindMissingFile, volume.Filename, "no chapter found"))
	}

	inFiles := make([]string, 0, len(volume.Chapters))
	expectedPages := 0
	for _, chapter := range volume.Chapters {
		if !chapter.IsExported() {
			return 0, 0, tracerr.Wrap(errs.Newf(errs.KindMissingFile, chapter.Name, "missing chapter PDF"))
		}

		if _, err := os.Stat(chapter.PDFPath); err != nil {
			if os.IsNotExist(err) {
				return 0, 0, tracerr.Wrap(errs.MissingFile(chapter.PDFName(), err))
			}
			return 0, 0, tracerr.Wrap(errs.IO(chapter.PDFName(), err))
		}

		count, err := pdfcpu_api.PageCountFile(chapter.PDFPath)
		if err != nil {
			return 0, 0, tracerr.Wrap(errs.IO(chapter.PDFName(), err))
		}

		log.WithFields(logrus.Fields{
			"chapter": chapter.Name,
			"pages":   count,
		}).Debug("chapter queued for merge")

		expectedPages += count
		inFiles = append(inFiles, chapter.PDFPath)
	}

	if err := os.MkdirAll(filepath.Dir(volume.Path), os.ModePerm); err != nil {
		return 0, 0, tracerr.Wrap(errs.IO(volume.Filename, err))
	}

	partPath := volume.Path + partSuffix
	if err := removeIfExists(partPath); err != nil {
		return 0, 0, tracerr.Wrap(errs.IO(partPath, err))
	}

	if err := pdfcpu_api.MergeCreateFile(inFiles, partPath, false, opts.pdfConfig()); err != nil {
		os.Remove(partPath)
		return 0, 0, tracerr.Wrap(errs.IO(volume.Filename, err))
	}

	if err := os.Rename(partPath, volume.Path); err != nil {
		os.Remove(partPath)
		return 0, 0, tracerr.Wrap(errs.IO(volume.Filename, err))
	}

	return verifyVolume(volume, expectedPages, opts.MinVolumeSize)
}

// verifyVolume checks the written file for silent truncation: the page count
// must match the members and the size must clear the configured minimum.
func verifyVolume(volume *series.Volume, expectedPages int, minSize int64) (int, int64, error) {
	info, err := os.Stat(volume.Path)
	if err != nil {
		return 0, 0, tracerr.Wrap(errs.IO(volume.Filename, err))
	}
	size := info.Size()

	actualPages, err := pdfcpu_api.PageCountFile(volume.Path)
	if err != nil {
		return 0, size, tracerr.Wrap(errs.Integrity(volume.Filename, err))
	}

	if actualPages != expectedPages {
		return actualPages, size, tracerr.Wrap(errs.Newf(errs.KindIntegrity, volume.Filename,
			"expected %d pages, got %d", expectedPages, actualPages))
	}

	if minSize > 0 && size <= minSize {
		return actualPages, size, tracerr.Wrap(errs.Newf(errs.KindIntegrity, volume.Filename,
			"output is only %d bytes, something went wrong", size))
	}

	return actualPages, size, nil
}
