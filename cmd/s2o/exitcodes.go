package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable config, invalid value)
	ExitDataError   = 3 // Data error (no record, several records, unparseable BibTeX)
	ExitNotFound    = 4 // Citation never appeared in the source
)
