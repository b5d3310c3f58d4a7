package model

// CmdResult captures the raw outcome of one remote action.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int

	// Changed reports whether the action mutated remote state. In dry-run
	// this is a prediction made from the module's read-only pre-check.
	Changed bool
}

// Success reports whether the remote action exited cleanly.
func (r *CmdResult) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Output returns stdout when present, falling back to stderr.
func (r *CmdResult) Output() string {
	if r == nil {
		return ""
	}
	if r.Stdout != "" {
		return r.Stdout
	}
	return r.Stderr
}
