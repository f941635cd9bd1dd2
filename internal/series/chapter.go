package series

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ygunayer/mangapdf/internal/errs"
	"github.com/ztrue/tracerr"
)

const (
	chapterPrefix = "Chapter"
	pdfExt        = ".pdf"
)

// "Chapter 12 - Title", "Chapter 10.5 - Extra"
var chapterNameRegex = regexp.MustCompile(`^Chapter\s+(\d+(?:\.\d+)?)\s+-\s*(.*)$`)

type Chapter struct {
	Number float64
	// Name is the folder name, or the PDF name without its extension
	Name       string
	FolderPath string
	// PDFPath is empty until the chapter has been exported
	PDFPath string
}

func (c *Chapter) HasFolder() bool  { return c.FolderPath != "" }
func (c *Chapter) IsExported() bool { return c.PDFPath != "" }
func (c *Chapter) PDFName() string  { return c.Name + pdfExt }
func (c *Chapter) String() string   { return c.Name }

// Rejection is a root entry that looked like a chapter but could not be parsed.
type Rejection struct {
	Name string
	Err  error
}

// Catalog is the result of scanning a series root.
type Catalog struct {
	Root     string
	Chapters []*Chapter
	Rejected []Rejection
}

// ParseChapterNumber extracts the chapter number from a name like
// "Chapter 10.5 - Extra" or "Chapter 3 - Title.pdf".
func ParseChapterNumber(name string) (float64, error) {
	base := strings.TrimSuffix(name, pdfExt)
	matches := chapterNameRegex.FindStringSubmatch(base)
	if matches == nil {
		return 0, errs.Newf(errs.KindParse, name, `expected "Chapter <number> - <title>"`)
	}

	number, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, errs.Parse(name, err)
	}

	return number, nil
}

// Discover scans root for chapter folders and chapter PDFs. Chapters come back
// sorted by number. Entries named like a chapter that cannot be parsed are
// listed in Rejected instead of failing the scan.
func Discover(root string) (*Catalog, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tracerr.Wrap(errs.MissingFile(root, err))
		}
		return nil, tracerr.Wrap(errs.IO(root, err))
	}

	pdfs := make(map[string]string)
	folders := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, chapterPrefix) {
			continue
		}

		if entry.IsDir() {
			folders = append(folders, name)
		} else if strings.EqualFold(filepath.Ext(name), pdfExt) {
			pdfs[strings.TrimSuffix(name, filepath.Ext(name))] = filepath.Join(root, name)
		}
	}

	catalog := &Catalog{Root: root, Chapters: make([]*Chapter, 0, len(folders))}
	for _, folder := range folders {
		number, err := ParseChapterNumber(folder)
		if err != nil {
			catalog.Rejected = append(catalog.Rejected, Rejection{Name: folder, Err: err})
			continue
		}

		chapter := &Chapter{
			Number:     number,
			Name:       folder,
			FolderPath: filepath.Join(root, folder),
		}
		if pdfPath, ok := pdfs[folder]; ok {
			chapter.PDFPath = pdfPath
			delete(pdfs, folder)
		}
		catalog.Chapters = append(catalog.Chapters, chapter)
	}

	// PDFs left over have no source folder
	for name, pdfPath := range pdfs {
		number, err := ParseChapterNumber(name)
		if err != nil {
			catalog.Rejected = append(catalog.Rejected, Rejection{Name: filepath.Base(pdfPath), Err: err})
			continue
		}

		catalog.Chapters = append(catalog.Chapters, &Chapter{
			Number:  number,
			Name:    name,
			PDFPath: pdfPath,
		})
	}

	SortChapters(catalog.Chapters)
	sort.Slice(catalog.Rejected, func(i, j int) bool {
		return catalog.Rejected[i].Name < catalog.Rejected[j].Name
	})

	return catalog, nil
}

// SortChapters orders chapters by number, then by name for equal numbers.
func SortChapters(chapters []*Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		if chapters[i].Number != chapters[j].Number {
			return chapters[i].Number < chapters[j].Number
		}
		return chapters[i].Name < chapters[j].Name
	})
}

// FormatNumber renders a chapter or volume number without trailing zeros.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s: %v", r.Name, r.Err)
}
