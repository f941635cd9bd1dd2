package series

import (
	"path/filepath"
	"strings"

	"github.com/ygunayer/mangapdf/internal/config"
)

const (
	placeholderAuthor = "[AUTHOR]"
	placeholderName   = "[NAME]"
	placeholderVolume = "[VOLUME]"
)

type Volume struct {
	Number   float64
	Chapters []*Chapter
	Filename string
	Path     string
}

func (v *Volume) String() string {
	return v.Filename
}

// VolumeFilename fills the [AUTHOR], [NAME] and [VOLUME] placeholders of
// template. Substitution is a single pass, so values containing placeholders
// are left alone.
func VolumeFilename(template, name, author string, volume float64) string {
	r := strings.NewReplacer(
		placeholderAuthor, author,
		placeholderName, name,
		placeholderVolume, FormatNumber(volume),
	)
	return r.Replace(template)
}

// ChaptersInRange returns the chapters whose number lies within r, keeping
// their order.
func ChaptersInRange(chapters []*Chapter, r config.VolumeRange) []*Chapter {
	members := make([]*Chapter, 0)
	for _, chapter := range chapters {
		if r.Contains(chapter.Number) {
			members = append(members, chapter)
		}
	}
	return members
}

// Overlap is a pair of mapping entries sharing at least one chapter number.
type Overlap struct {
	A, B config.VolumeRange
}

// Overlaps lists every pair of ranges that intersect. Chapters in the shared
// span end up in both volumes.
func Overlaps(ranges []config.VolumeRange) []Overlap {
	overlaps := make([]Overlap, 0)
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			a, b := ranges[i], ranges[j]
			if a.FirstChapter <= b.LastChapter && b.FirstChapter <= a.LastChapter {
				overlaps = append(overlaps, Overlap{A: a, B: b})
			}
		}
	}
	return overlaps
}

// Unassigned returns the chapters no range claims.
func Unassigned(chapters []*Chapter, ranges []config.VolumeRange) []*Chapter {
	orphans := make([]*Chapter, 0)
	for _, chapter := range chapters {
		claimed := false
		for _, r := range ranges {
			if r.Contains(chapter.Number) {
				claimed = true
				break
			}
		}
		if !claimed {
			orphans = append(orphans, chapter)
		}
	}
	return orphans
}

func volumePath(root, filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(root, filename)
}
