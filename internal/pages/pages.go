package pages

import (
	"bufio"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"
	"github.com/ygunayer/mangapdf/internal/errs"
	"github.com/ztrue/tracerr"

	// imaging registers jpeg, png, gif, bmp and tiff
	_ "golang.org/x/image/webp"
)

// CoverFilename is the resized cover written into a volume's first chapter.
const CoverFilename = "00.jpg"

// JPEGQuality is used for every JPEG this package writes.
const JPEGQuality = 95

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// List returns the page images of a chapter folder in natural filename order.
// Sub-directories, dotfiles and non-image files are skipped.
func List(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tracerr.Wrap(errs.MissingFile(folder, err))
		}
		return nil, tracerr.Wrap(errs.IO(folder, err))
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !IsImage(name) {
			continue
		}
		names = append(names, name)
	}

	sort.SliceStable(names, func(i, j int) bool {
		return less(names[i], names[j])
	})

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(folder, name)
	}

	return paths, nil
}

// less orders names naturally ("2.jpg" before "10.jpg") ignoring case.
func less(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return natural.Less(la, lb)
	}
	return a < b
}

// First returns the first page of folder, ignoring a previously written cover.
func First(folder string) (string, error) {
	paths, err := List(folder)
	if err != nil {
		return "", tracerr.Wrap(err)
	}

	for _, path := range paths {
		if filepath.Base(path) != CoverFilename {
			return path, nil
		}
	}

	return "", tracerr.Wrap(errs.Newf(errs.KindMissingFile, folder, "no page image found"))
}

// Decode opens and decodes a single image file.
func Decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tracerr.Wrap(errs.MissingFile(path, err))
		}
		return nil, tracerr.Wrap(errs.IO(path, err))
	}
	defer file.Close()

	img, err := imaging.Decode(bufio.NewReader(file), imaging.AutoOrientation(true))
	if err != nil {
		return nil, tracerr.Wrap(errs.IO(filepath.Base(path), err))
	}

	return img, nil
}

// Flatten converts img to an opaque image anchored at the origin.
// Transparent areas become white.
func Flatten(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

// WriteJPEG encodes img to path.
func WriteJPEG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return tracerr.Wrap(errs.IO(path, err))
	}

	writer := bufio.NewWriter(file)
	err = imaging.Encode(writer, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))

	// flush and close even when encoding failed
	flushErr := writer.Flush()
	closeErr := file.Close()

	for _, e := range []error{err, flushErr, closeErr} {
		if e != nil {
			os.Remove(path)
			return tracerr.Wrap(errs.IO(path, e))
		}
	}

	return nil
}
