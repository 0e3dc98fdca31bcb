package util

import (
	"os"

	"github.com/mattn/go-isatty"
	bar "github.com/schollz/progressbar/v3"
)

// Progress receives one tick per file the walker hands to the relocator.
type Progress interface {
	Add(n int) error
	Describe(description string)
	Finish() error
}

type noProgress struct{}

func (noProgress) Add(int) error   { return nil }
func (noProgress) Describe(string) {}
func (noProgress) Finish() error   { return nil }

// NewProgress returns a spinner on stderr, or a no-op when stderr is not a
// terminal or enabled is false. The total is unknown up front because pruned
// subtrees are never listed.
func NewProgress(enabled bool) Progress {
	fd := os.Stderr.Fd()
	if !enabled || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		return noProgress{}
	}
	return bar.NewOptions(-1,
		bar.OptionSetWriter(os.Stderr),
		bar.OptionSetDescription("Organizing"),
		bar.OptionSpinnerType(14),
		bar.OptionShowCount(),
		bar.OptionClearOnFinish(),
	)
}
