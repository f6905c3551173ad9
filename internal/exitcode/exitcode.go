// Package exitcode defines exit codes for the taskflow binary.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad usage (unknown command, bad flags).
	UserError = 1

	// ConfigError indicates a configuration that cannot be read or is incomplete.
	ConfigError = 2

	// RuntimeError indicates a failure while running (database, listener, shutdown).
	RuntimeError = 3
)
