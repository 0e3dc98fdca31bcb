package util

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

// Relocate moves one file into its place in the layout and reports what it
// did. It never returns an error: every failure is logged and recorded in the
// Outcome so the walk can carry on.
func (o *Organizer) Relocate(path string) Outcome {
	out := Outcome{Source: path}

	abs, err := filepath.Abs(path)
	if err != nil {
		out.Action = ActionIgnored
		return out
	}
	info, err := os.Lstat(abs)
	if err != nil || !info.Mode().IsRegular() {
		out.Action = ActionIgnored
		return out
	}

	name := filepath.Base(abs)
	log := o.log.With(zap.String("path", abs))

	var destDir string
	if o.cfg.IsImage(filepath.Ext(name)) {
		bucket := o.cfg.Other
		cd := o.dates.ReadCaptureDate(abs)
		if cd.Partial != nil {
			log.Debug("image metadata partly unreadable", zap.Error(cd.Partial))
		}
		switch cd.Status {
		case DateFound:
			bucket = cd.Year
			out.Year = cd.Year
		case DateMissing:
			log.Debug("no capture date in image metadata")
		case DateUnreadable:
			log.Warn("could not read image metadata", zap.Error(cd.Err))
		}
		out.Category = o.cfg.PhotoDir
		destDir = filepath.Join(o.layout.Root, o.cfg.PhotoDir, bucket)
	} else {
		year, ok := ExtractYear(name)
		if !ok {
			log.Info("no year in filename, leaving in place")
			out.Action = ActionSkipped
			out.Reason = "no year in filename"
			return out
		}
		category := o.classifier.Classify(name)
		log.Debug("classified",
			zap.String("normalized", NormalizeName(name)),
			zap.String("year", year),
			zap.String("category", category))
		out.Year = year
		out.Category = category
		destDir = filepath.Join(o.layout.Root, year, category)
	}

	if filepath.Dir(abs) == destDir {
		out.Action = ActionSkipped
		out.Reason = "already in place"
		out.Dest = abs
		return out
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		log.Error("could not create destination", zap.String("dest", destDir), zap.Error(err))
		out.Action = ActionFailed
		out.Dest = destDir
		out.Err = err
		return out
	}

	dest, err := UniquePath(destDir, name)
	if err != nil {
		log.Error("could not pick a destination name", zap.String("dest", destDir), zap.Error(err))
		out.Action = ActionFailed
		out.Dest = destDir
		out.Err = err
		return out
	}
	out.Dest = dest

	if err := MoveFile(abs, dest); err != nil {
		log.Error("move failed", zap.String("dest", dest), zap.Error(err))
		out.Action = ActionFailed
		out.Err = err
		return out
	}

	log.Info("moved", zap.String("dest", dest))
	out.Action = ActionMoved
	return out
}

// UniquePath returns dir/name, or dir/stem_N.ext for the smallest N >= 1 that
// does not exist yet.
func UniquePath(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// ".bashrc" has no extension, it is all stem.
		stem, ext = name, ""
	}

	for n := 1; ; n++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}

// MoveFile renames src to dst, falling back to copy and delete when the two
// are on different filesystems.
func MoveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("copied to %s but could not remove source: %w", dst, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy content from %s to %s: %w", src, dst, err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}
