package series

import (
	"slices"
	"sort"

	"github.com/ygunayer/mangapdf/internal/config"
)

// Series is a named work rooted at a directory, together with the mapping
// table that groups its chapters into volumes.
type Series struct {
	Name             string
	Author           string
	Root             string
	FilenameTemplate string
	Ranges           []config.VolumeRange
	Volumes          []*Volume
}

// New builds a series from cfg. The mapping table is copied and sorted by
// volume number; cfg is not modified.
func New(cfg *config.Config) *Series {
	ranges := slices.Clone(cfg.Dictionary)
	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].Volume < ranges[j].Volume
	})

	return &Series{
		Name:             cfg.Name,
		Author:           cfg.Author,
		Root:             cfg.Root,
		FilenameTemplate: cfg.VolumeFilenameTemplate,
		Ranges:           ranges,
		Volumes:          make([]*Volume, 0, len(ranges)),
	}
}

// Discover scans the series root.
func (s *Series) Discover() (*Catalog, error) {
	return Discover(s.Root)
}

// GenerateVolumes replaces s.Volumes with one volume per mapping entry, in
// table order. chapters must already be sorted by number.
func (s *Series) GenerateVolumes(chapters []*Chapter) []*Volume {
	volumes := make([]*Volume, 0, len(s.Ranges))
	for _, r := range s.Ranges {
		filename := VolumeFilename(s.FilenameTemplate, s.Name, s.Author, r.Volume)
		volumes = append(volumes, &Volume{
			Number:   r.Volume,
			Chapters: ChaptersInRange(chapters, r),
			Filename: filename,
			Path:     volumePath(s.Root, filename),
		})
	}

	s.Volumes = volumes
	return volumes
}

// FirstChapters returns the chapters that open a volume, in chapter order.
func (s *Series) FirstChapters(chapters []*Chapter) []*Chapter {
	firsts := make([]*Chapter, 0, len(s.Ranges))
	for _, chapter := range chapters {
		for _, r := range s.Ranges {
			if chapter.Number == r.FirstChapter {
				firsts = append(firsts, chapter)
				break
			}
		}
	}
	return firsts
}

// Diagnostics bundles mapping problems that do not stop a run.
type Diagnostics struct {
	Overlaps   []Overlap
	Unassigned []*Chapter
}

func (s *Series) Diagnose(chapters []*Chapter) Diagnostics {
	return Diagnostics{
		Overlaps:   Overlaps(s.Ranges),
		Unassigned: Unassigned(chapters, s.Ranges),
	}
}
