package moonwatch

import "errors"

// Domain errors for Moonwatch API calls, designed for error wrapping and
// classification with errors.Is.
var (
	// ErrMisconfigured indicates required client wiring (endpoint, region or
	// credential provider) was missing at construction. No call is attempted.
	ErrMisconfigured = errors.New("moonwatch client is misconfigured")

	// ErrTransportFailure indicates a transport-level I/O failure while
	// sending the request. The underlying cause is wrapped.
	ErrTransportFailure = errors.New("moonwatch transport failure")

	// ErrMalformedResponse indicates a successful HTTP response whose body
	// could not be decoded as JSON.
	ErrMalformedResponse = errors.New("malformed moonwatch response")
)
