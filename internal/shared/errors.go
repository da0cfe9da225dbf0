package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Document store errors
	ErrRemoteUnavailable = fmt.Errorf("document store unreachable")
	ErrMergeConflict     = fmt.Errorf("concurrent write detected")

	// Input validation errors
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrInvalidPin   = fmt.Errorf("pin must be exactly 4 digits")

	// Identity errors
	ErrPinMismatch  = fmt.Errorf("wrong pin for this user")
	ErrUserNotFound = fmt.Errorf("user not found in document")
	ErrLinkNotFound = fmt.Errorf("link not found")
)

// RemoteError reports a non-2xx response from the document store.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("document store rejected request (status %d): %s", e.Status, e.Body)
}

// NewRemoteError creates a [RemoteError] from a response status and body.
func NewRemoteError(status int, body []byte) *RemoteError {
	return &RemoteError{Status: status, Body: string(body)}
}
