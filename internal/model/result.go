package model

import "time"

// Result status values.
const (
	StatusOK    = "OK"
	StatusError = "error"
)

// Error taxonomy for failed pipeline runs.
const (
	ErrorTypeDecode  = "decode_error"
	ErrorTypeGit     = "git_error"
	ErrorTypeOS      = "os_error"
	ErrorTypeCommand = "command_error"
)

// Result is the outcome of one pipeline run. A Result with Status "error"
// always carries Type and Message; an OK Result never carries Type.
type Result struct {
	Status     string        `json:"status"`
	Type       string        `json:"type,omitempty"`
	Message    string        `json:"message,omitempty"`
	RepoResult string        `json:"repo_result,omitempty"`
	Runtime    time.Duration `json:"runtime"`
	JobURL     string        `json:"job_url,omitempty"`
}

// OKResult builds a successful Result.
func OKResult(message string) Result {
	return Result{Status: StatusOK, Message: message}
}

// ErrorResult builds a failed Result of the given type.
func ErrorResult(errType, message string) Result {
	return Result{Status: StatusError, Type: errType, Message: message}
}
