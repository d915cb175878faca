package apperrors

import "fmt"

// ErrUnsuccessfulResponse is the only failure the counter loader models:
// the backend answered with a status outside the 2xx range.
// The loader recovers it into an error result and never returns it.
type ErrUnsuccessfulResponse struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrUnsuccessfulResponse) Error() string {
	return fmt.Sprintf("unsuccessful response from %s: status %d", e.URL, e.StatusCode)
}

// Is allows for error checking with errors.Is().
func (e *ErrUnsuccessfulResponse) Is(target error) bool {
	_, ok := target.(*ErrUnsuccessfulResponse)
	return ok
}

// ErrTransport is returned when the fetch itself fails and no response is available.
type ErrTransport struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *ErrTransport) Error() string {
	return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
}

// Is allows for error checking with errors.Is().
func (e *ErrTransport) Is(target error) bool {
	_, ok := target.(*ErrTransport)
	return ok
}

func (e *ErrTransport) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new ErrTransport.
func NewTransportError(url string, err error) *ErrTransport {
	return &ErrTransport{URL: url, Err: err}
}

// ErrMalformedBody is returned when a successful response carries a body
// without a usable counter field.
type ErrMalformedBody struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ErrMalformedBody) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed counter body: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed counter body: %s", e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrMalformedBody) Is(target error) bool {
	_, ok := target.(*ErrMalformedBody)
	return ok
}

func (e *ErrMalformedBody) Unwrap() error {
	return e.Err
}

// NewMalformedBodyError creates a new ErrMalformedBody.
func NewMalformedBodyError(reason string, err error) *ErrMalformedBody {
	return &ErrMalformedBody{Reason: reason, Err: err}
}
