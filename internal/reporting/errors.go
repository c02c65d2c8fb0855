package reporting

import "fmt"

// ErrorKind classifies a transport failure
type ErrorKind string

const (
	KindConnectFailed ErrorKind = "connect-failed"
	KindWriteFailed   ErrorKind = "write-failed"
)

// TransportError is returned when a payload could not be delivered. The
// payload is dropped; the client never retries.
type TransportError struct {
	Kind     ErrorKind
	Endpoint Endpoint
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s to %s: %v", e.Kind, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SerializationError is returned when a payload cannot be encoded. No
// connection is opened in that case.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize payload: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
