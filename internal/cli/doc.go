// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates flags, BUILDCHECK_* environment variables and the optional
// .buildcheck.yaml file into the application's internal configuration.
package cli
