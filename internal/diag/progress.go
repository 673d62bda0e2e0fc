package diag

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// NewProgress wraps schollz/progressbar the way vjache-cie's indexer
// reports phase progress: one bar per named phase, swapped out whenever
// the phase changes. Used by the sync command to report per-entry
// install progress across a lockfile.
func NewProgress(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
