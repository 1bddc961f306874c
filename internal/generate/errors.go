package generate

import "fmt"

// NetworkError is a transport level failure: DNS, refused connection, timeout
// or cancellation. No retry is attempted.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("error sending request to %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError means the endpoint answered but signalled failure or sent a
// body without an image.
type ServiceError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *ServiceError) Error() string {
	switch {
	case e.Message != "" && e.Status != "":
		return fmt.Sprintf("%s: %s", e.Status, e.Message)
	case e.Message != "":
		return e.Message
	default:
		return e.Status
	}
}
