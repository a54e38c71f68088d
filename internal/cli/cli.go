package cli

import (
	"context"
	"errors"
	"io"

	"github.com/specialistvlad/buildcheck/internal/app"
)

// Process exit codes.
const (
	ExitOK               = 0
	ExitValidationFailed = 1
	ExitUsage            = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Execute runs the command line in args. Every returned error is an
// *ExitError carrying the process exit code.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if errors.Is(err, app.ErrValidationFailed) {
		return &ExitError{Code: ExitValidationFailed, Message: err.Error(), Err: err}
	}
	return &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
}
