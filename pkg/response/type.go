package response

// Resp is the standard JSON response body.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

const (
	// MessageSuccess is the default success message.
	MessageSuccess = "Success"
	// DefaultErrorMessage is what clients see on internal failures.
	DefaultErrorMessage = "Something went wrong"
	// InternalServerErrorCode marks unexpected failures.
	InternalServerErrorCode = 500
)
