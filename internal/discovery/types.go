// Package discovery finds stack directories on disk, flags the ones already
// running and adopts selected ones into the inventory.
package discovery

// StackCandidate is a directory that looks like a stack. ComposePath is the
// identity of a candidate. IsRunning is nil when runtime state is unknown.
type StackCandidate struct {
	Name        string `json:"name"`
	ComposePath string `json:"composePath"`
	EnvPath     string `json:"envPath,omitempty"`
	WorkingDir  string `json:"workingDir"`
	IsRunning   *bool  `json:"isRunning"`
}

// ScanResult is the outcome of a scan. A scan always completes; unreadable
// paths are reported in Errors. Skipped holds candidates already in the
// inventory and is only filled in by callers that know the inventory.
type ScanResult struct {
	Discovered []StackCandidate `json:"discovered"`
	Skipped    []StackCandidate `json:"skipped"`
	Errors     []string         `json:"errors"`
}

// AdoptFailure names a stack that could not be adopted and why
type AdoptFailure struct {
	Name   string `json:"name"`
	Reason string `json:"error"`
}

// AdoptResult lists adopted stack names and failures, both in input order
type AdoptResult struct {
	Adopted []string       `json:"adopted"`
	Failed  []AdoptFailure `json:"failed"`
}
