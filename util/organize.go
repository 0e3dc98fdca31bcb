package util

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotDirectory is returned when the configured root is not a directory.
var ErrNotDirectory = errors.New("root is not a directory")

// Organizer sorts the loose files under one root into the year/category
// layout. It is not safe for concurrent use; see AcquireRunLock.
type Organizer struct {
	cfg        Config
	layout     Layout
	classifier *Classifier
	dates      DateReader
	log        *zap.Logger
	progress   Progress
}

// Option customises an Organizer.
type Option func(*Organizer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *Organizer) {
		if l != nil {
			o.log = l
		}
	}
}

// WithDateReader replaces the default in-process EXIF reader.
func WithDateReader(r DateReader) Option {
	return func(o *Organizer) {
		if r != nil {
			o.dates = r
		}
	}
}

// WithProgress reports each visited file to p.
func WithProgress(p Progress) Option {
	return func(o *Organizer) {
		if p != nil {
			o.progress = p
		}
	}
}

// NewOrganizer validates cfg and checks that cfg.Root is an existing
// directory.
func NewOrganizer(cfg Config, opts ...Option) (*Organizer, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("%w: root must be set", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("root %s: %w", cfg.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", cfg.Root, ErrNotDirectory)
	}
	layout, err := NewLayout(cfg.Root, cfg)
	if err != nil {
		return nil, err
	}

	o := &Organizer{
		cfg:        cfg,
		layout:     layout,
		classifier: NewClassifier(cfg),
		dates:      ExifReader{},
		log:        zap.NewNop(),
		progress:   noProgress{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Organize walks the root depth-first and relocates every loose file.
// Directories that are already part of the layout are not descended into.
//
// Per-file problems end up in the Report. The returned error is only set when
// the root itself cannot be walked or ctx is cancelled; the partial report is
// returned either way.
func (o *Organizer) Organize(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Root:    o.layout.Root,
		Started: time.Now(),
	}
	base := o.log
	o.log = base.With(zap.String("run_id", report.RunID))
	defer func() {
		o.log = base
		report.Duration = time.Since(report.Started)
		_ = o.progress.Finish()
	}()

	o.log.Info("organize started", zap.String("root", o.layout.Root))
	lockPath := filepath.Join(o.layout.Root, LockFileName)

	err := filepath.WalkDir(o.layout.Root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == o.layout.Root {
				return err
			}
			o.log.Warn("could not read entry, skipping", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != o.layout.Root && o.layout.IsSorted(path, true) {
				o.log.Debug("already organized, skipping", zap.String("path", path))
				report.Pruned = append(report.Pruned, path)
				return filepath.SkipDir
			}
			return nil
		}

		if path == lockPath {
			return nil
		}
		o.progress.Describe(d.Name())
		_ = o.progress.Add(1)
		report.add(o.Relocate(path))
		return nil
	})

	o.log.Info("organize finished",
		zap.Int("moved", report.Count(ActionMoved)),
		zap.Int("skipped", report.Count(ActionSkipped)),
		zap.Int("failed", report.Count(ActionFailed)),
		zap.Int("pruned", len(report.Pruned)))
	if err != nil {
		return report, fmt.Errorf("walk %s: %w", o.layout.Root, err)
	}
	return report, nil
}
