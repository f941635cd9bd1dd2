package cover

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/ygunayer/mangapdf/internal/config"
	"github.com/ygunayer/mangapdf/internal/errs"
	"github.com/ygunayer/mangapdf/internal/pages"
	"github.com/ygunayer/mangapdf/internal/report"
	"github.com/ygunayer/mangapdf/internal/series"
	"github.com/ztrue/tracerr"
)

// Policy decides how a page is fitted into the cover size.
type Policy func(src image.Image, width, height int) *image.NRGBA

// ParsePolicy maps a configured policy name to its implementation.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", config.CoverPolicyCrop:
		return Crop, nil
	case config.CoverPolicyLetterbox:
		return Letterbox, nil
	default:
		return nil, errs.Newf(errs.KindConfiguration, "cover_policy", "unknown policy %q", name)
	}
}

// Geometry is where the scaled source lands on the output canvas.
type Geometry struct {
	ScaledWidth  int
	ScaledHeight int
	OffsetX      int
	OffsetY      int
}

// CropGeometry scales the source to the target width and centres it
// vertically. A negative OffsetY trims (scaled height - height) / 2 rows off
// the top and the same amount, give or take a row, off the bottom.
func CropGeometry(srcWidth, srcHeight, width, height int) Geometry {
	scaledHeight := int(float64(srcHeight) * (float64(width) / float64(srcWidth)))
	return Geometry{
		ScaledWidth:  width,
		ScaledHeight: scaledHeight,
		OffsetX:      0,
		OffsetY:      -((scaledHeight - height) / 2),
	}
}

// LetterboxGeometry scales the source to the target height and centres it
// horizontally.
func LetterboxGeometry(srcWidth, srcHeight, width, height int) Geometry {
	scaledWidth := int(float64(srcWidth) * (float64(height) / float64(srcHeight)))
	return Geometry{
		ScaledWidth:  scaledWidth,
		ScaledHeight: height,
		OffsetX:      (width - scaledWidth) / 2,
		OffsetY:      0,
	}
}

// Crop keeps the full width and trims vertical excess evenly. Pages shorter
// than the target are padded with black.
func Crop(src image.Image, width, height int) *image.NRGBA {
	b := src.Bounds()
	return render(src, CropGeometry(b.Dx(), b.Dy(), width, height), width, height, color.Black)
}

// Letterbox fits the page to the target height on a white canvas.
func Letterbox(src image.Image, width, height int) *image.NRGBA {
	b := src.Bounds()
	return render(src, LetterboxGeometry(b.Dx(), b.Dy(), width, height), width, height, color.White)
}

func render(src image.Image, g Geometry, width, height int, background color.Color) *image.NRGBA {
	canvas := imaging.New(width, height, background)
	if g.ScaledWidth <= 0 || g.ScaledHeight <= 0 {
		return canvas
	}

	// rows or columns falling outside the canvas are dropped by the overlay
	scaled := imaging.Resize(src, g.ScaledWidth, g.ScaledHeight, imaging.Lanczos)
	return imaging.Overlay(canvas, scaled, image.Pt(g.OffsetX, g.OffsetY), 1.0)
}

type Options struct {
	Width    int
	Height   int
	Policy   Policy
	Reporter report.Reporter
	Logger   logrus.FieldLogger
}

// Resize writes "00.jpg" into every given chapter folder, built from the
// chapter's first page.
func Resize(ctx context.Context, chapters []*series.Chapter, opts Options) *report.Report {
	collector := report.NewCollector(opts.Reporter)
	collector.Start(report.OpResizeCover, len(chapters))
	defer collector.Finish(report.OpResizeCover)

	policy := opts.Policy
	if policy == nil {
		policy = Crop
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	for i, chapter := range chapters {
		if ctx.Err() != nil {
			collector.Warn(fmt.Sprintf("interrupted: %d covers were not resized", len(chapters)-i))
			break
		}

		start := time.Now()
		outPath := filepath.Join(chapter.FolderPath, pages.CoverFilename)
		result := report.Success(report.OpResizeCover, filepath.Join(chapter.Name, pages.CoverFilename), outPath)

		size, err := ResizeChapter(chapter, opts.Width, opts.Height, policy, log)
		result.Duration = time.Since(start)
		result.Err = err
		result.Size = size
		collector.Report(result)
	}

	return collector.Collected
}

// ResizeChapter renders the cover of a single chapter and returns the size of
// the written file.
func ResizeChapter(chapter *series.Chapter, width, height int, policy Policy, log logrus.FieldLogger) (int64, error) {
	if !chapter.HasFolder() {
		return 0, tracerr.Wrap(errs.Newf(errs.KindMissingFile, chapter.Name, "chapter has no image folder"))
	}

	source, err := pages.First(chapter.FolderPath)
	if err != nil {
		return 0, tracerr.Wrap(err)
	}

	img, err := pages.Decode(source)
	if err != nil {
		return 0, tracerr.Wrap(err)
	}

	log.WithFields(logrus.Fields{
		"chapter": chapter.Name,
		"source":  filepath.Base(source),
		"from":    fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
		"to":      fmt.Sprintf("%dx%d", width, height),
	}).Debug("resizing cover")

	outPath := filepath.Join(chapter.FolderPath, pages.CoverFilename)
	if err := pages.WriteJPEG(outPath, policy(img, width, height)); err != nil {
		return 0, tracerr.Wrap(err)
	}

	return fileSize(outPath)
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, tracerr.Wrap(errs.IO(path, err))
	}
	return info.Size(), nil
}
