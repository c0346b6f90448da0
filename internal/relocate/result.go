package relocate

import (
	"path/filepath"

	"stackhand/internal/types"
)

// Plan describes one relocation. The destination directory is the parent of
// DestinationComposePath.
type Plan struct {
	SourceDir              string `json:"oldDir"`
	DestinationComposePath string `json:"newComposePath"`
	DestinationEnvPath     string `json:"newEnvPath,omitempty"`
}

// DestinationDir returns the directory files are moved into
func (p Plan) DestinationDir() string {
	return filepath.Dir(p.DestinationComposePath)
}

// Result reports what happened to each entry of the source directory.
// Every entry present when the relocation started is named exactly once,
// either in MovedFiles or in FailedFiles; Errors[i] explains FailedFiles[i].
type Result struct {
	MovedFiles       []string `json:"movedFiles"`
	Errors           []string `json:"errors"`
	FailedFiles      []string `json:"failedFiles"`
	SourceDirRemoved bool     `json:"sourceDirRemoved"`
}

// OK reports whether every entry was moved
func (r *Result) OK() bool {
	return len(r.FailedFiles) == 0
}

// Moved reports whether name was moved
func (r *Result) Moved(name string) bool {
	for _, f := range r.MovedFiles {
		if f == name {
			return true
		}
	}
	return false
}

// Failed reports whether name could not be moved
func (r *Result) Failed(name string) bool {
	for _, f := range r.FailedFiles {
		if f == name {
			return true
		}
	}
	return false
}

func newResult(batch *types.Batch[string]) *Result {
	failed, reasons := batch.FailedItems()
	return &Result{
		MovedFiles:  batch.Succeeded(),
		Errors:      reasons,
		FailedFiles: failed,
	}
}
