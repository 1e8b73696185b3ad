package model

// CommandPlan is a fully decided process invocation: what to run, with which
// arguments, and where.
type CommandPlan struct {
	Program string
	Args    []string
	// Dir is the working directory. Empty inherits the caller's.
	Dir Path
	// HideWindow suppresses the console window on Windows.
	HideWindow bool
}
