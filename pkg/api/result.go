package api

import "fmt"

type (
	// Result classifies the outcome of running an operation
	Result string

	// RunResult carries an operation outcome and an optional message.
	// Retry means "not yet": the machine holds its state and the caller
	// owns all waiting and backoff policy
	RunResult struct {
		Status  Result `json:"status"`
		Message string `json:"message,omitempty"`
	}
)

const (
	ResultSuccess Result = "success"
	ResultRetry   Result = "retry"
	ResultError   Result = "error"
)

// OK returns a successful RunResult
func OK() RunResult {
	return RunResult{Status: ResultSuccess}
}

// Wait returns a retry RunResult with an explanatory message
func Wait(msg string) RunResult {
	return RunResult{Status: ResultRetry, Message: msg}
}

// Fail returns an error RunResult with the provided message
func Fail(msg string) RunResult {
	return RunResult{Status: ResultError, Message: msg}
}

// Failf returns an error RunResult with a formatted message
func Failf(format string, args ...any) RunResult {
	return Fail(fmt.Sprintf(format, args...))
}
