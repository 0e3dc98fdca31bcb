package util

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	sortedYearPattern = regexp.MustCompile(`^(19|20)[0-9]{2}$`)
	// EXIF years are taken verbatim, so any four digits can name a photo bucket.
	photoYearPattern = regexp.MustCompile(`^[0-9]{4}$`)
)

// Layout knows what an organized tree under Root looks like.
type Layout struct {
	Root string
	cfg  Config
}

// NewLayout binds cfg to an absolute root.
func NewLayout(root string, cfg Config) (Layout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, err
	}
	return Layout{Root: abs, cfg: cfg}, nil
}

// IsSorted reports whether path already sits inside the organized layout:
// <year>/<category>/... or <photo dir>/<year or other>/...
//
// A directory needs at least the two layout segments. A file needs one more
// for its own name, so a stray file named like a category directly under a
// year folder is still picked up.
func (l Layout) IsSorted(path string, isDir bool) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(l.Root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	parts := strings.Split(rel, string(filepath.Separator))

	need := 3
	if isDir {
		need = 2
	}
	if len(parts) < need {
		return false
	}

	if sortedYearPattern.MatchString(parts[0]) {
		return l.cfg.IsCategory(parts[1])
	}
	if parts[0] == l.cfg.PhotoDir {
		return parts[1] == l.cfg.Other || photoYearPattern.MatchString(parts[1])
	}
	return false
}
