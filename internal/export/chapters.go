package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pdfcpu_api "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/stream"
	"github.com/ygunayer/mangapdf/internal/errs"
	"github.com/ygunayer/mangapdf/internal/pages"
	"github.com/ygunayer/mangapdf/internal/report"
	"github.com/ygunayer/mangapdf/internal/series"
	"github.com/ztrue/tracerr"
	"golang.org/x/sync/errgroup"
)

// Chapters exports every chapter that has a source folder to
// "<root>/<folder name>.pdf". A failing chapter never stops the others.
// Results are reported in chapter order.
func Chapters(ctx context.Context, chapters []*series.Chapter, opts Options) *report.Report {
	collector := report.NewCollector(opts.Reporter)
	log := opts.logger()

	todo := make([]*series.Chapter, 0, len(chapters))
	for _, chapter := range chapters {
		if !chapter.HasFolder() {
			log.WithField("chapter", chapter.Name).Debug("no source folder, skipping export")
			continue
		}
		todo = append(todo, chapter)
	}

	collector.Start(report.OpExportChapter, len(todo))
	defer collector.Finish(report.OpExportChapter)

	// callbacks run one at a time in submission order
	s := stream.New().WithMaxGoroutines(opts.jobs())

	skipped := 0
	for i, chapter := range todo {
		if ctx.Err() != nil {
			skipped = len(todo) - i
			break
		}

		s.Go(func() stream.Callback {
			result := ExportChapter(chapter, opts)
			return func() { collector.Report(result) }
		})
	}
	s.Wait()

	if skipped > 0 {
		collector.Warn(fmt.Sprintf("interrupted: %d chapters were not exported", skipped))
	}

	return collector.Collected
}

// ExportChapter converts one chapter folder into a PDF next to it. On success
// chapter.PDFPath points at the new file. On failure it is cleared, so a PDF
// left by an earlier run is not merged into a volume.
func ExportChapter(chapter *series.Chapter, opts Options) report.Result {
	start := time.Now()
	outPath := filepath.Join(filepath.Dir(chapter.FolderPath), chapter.PDFName())
	result := report.Success(report.OpExportChapter, chapter.PDFName(), outPath)

	pageCount, err := writeChapterPDF(chapter, outPath, opts)
	result.Duration = time.Since(start)
	if err != nil {
		chapter.PDFPath = ""
		result.Err = err
		return result
	}

	info, err := os.Stat(outPath)
	if err != nil {
		chapter.PDFPath = ""
		result.Err = tracerr.Wrap(errs.IO(chapter.PDFName(), err))
		return result
	}

	chapter.PDFPath = outPath
	result.Size = info.Size()
	result.Pages = pageCount
	return result
}

func writeChapterPDF(chapter *series.Chapter, outPath string, opts Options) (int, error) {
	log := opts.logger()

	imagePaths, err := pages.List(chapter.FolderPath)
	if err != nil {
		return 0, tracerr.Wrap(err)
	}
	if len(imagePaths) == 0 {
		return 0, tracerr.Wrap(errs.Newf(errs.KindMissingFile, chapter.Name, "no page images found"))
	}

	tmpdir, err := os.MkdirTemp("", "mangapdf-")
	if err != nil {
		return 0, tracerr.Wrap(errs.IO(chapter.Name, err))
	}
	defer os.RemoveAll(tmpdir)

	// every page is stored as plain RGB, named by its position in the chapter
	converted := make([]string, len(imagePaths))
	eg, egCtx := errgroup.WithContext(context.Background())
	eg.SetLimit(opts.pageWorkers())
	for i, imagePath := range imagePaths {
		eg.Go(func() error {
			if egCtx.Err() != nil {
				return nil
			}

			img, err := pages.Decode(imagePath)
			if err != nil {
				return tracerr.Wrap(err)
			}

			pagePath := filepath.Join(tmpdir, fmt.Sprintf("%04d.jpg", i+1))
			if err := pages.WriteJPEG(pagePath, pages.Flatten(img)); err != nil {
				return tracerr.Wrap(err)
			}
			converted[i] = pagePath

			log.WithFields(logrus.Fields{
				"chapter": chapter.Name,
				"page":    filepath.Base(imagePath),
			}).Debug("page converted")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}

	// pdfcpu appends to an existing output file, so always start from scratch
	partPath := outPath + partSuffix
	if err := removeIfExists(partPath); err != nil {
		return 0, tracerr.Wrap(errs.IO(partPath, err))
	}

	if err := pdfcpu_api.ImportImagesFile(converted, partPath, nil, opts.pdfConfig()); err != nil {
		os.Remove(partPath)
		return 0, tracerr.Wrap(errs.IO(chapter.PDFName(), err))
	}

	if err := os.Rename(partPath, outPath); err != nil {
		os.Remove(partPath)
		return 0, tracerr.Wrap(errs.IO(chapter.PDFName(), err))
	}

	return len(converted), nil
}
