package cli

// Exit codes returned by the command.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(msg string) *ExitError {
	return &ExitError{Code: ExitUsage, Message: msg}
}

func failure(msg string) *ExitError {
	return &ExitError{Code: ExitFailure, Message: msg}
}
