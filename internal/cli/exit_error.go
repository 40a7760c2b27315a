package cli

import "fmt"

// Process exit codes.
const (
	ExitOK           = 0
	ExitDisagreement = 1
	ExitInconclusive = 2
	ExitConfig       = 3
)

// ExitError signals a non-zero exit code without forcing os.Exit
// in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func configError(err error) error {
	return &ExitError{Code: ExitConfig, Err: err}
}
