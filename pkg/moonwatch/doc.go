// Package moonwatch provides a signed HTTP client for the Moonwatch
// session-tracking API.
//
// The client issues two operations, session init and session end, as JSON
// POST requests signed with AWS Signature Version 4 against the
// "execute-api" service. It is a thin notifier client: each operation makes
// exactly one transmit attempt and never retries.
//
// # Usage
//
//	client, err := moonwatch.New(moonwatch.Config{
//		Endpoint:    "https://moonwatch.example.com",
//		Region:      "us-west-2",
//		Credentials: credsProvider,
//	})
//	if err != nil {
//		// Handle error
//	}
//
//	result, err := client.InitSession(ctx, moonwatch.InitSessionRequest{
//		SessionID:         "s1",
//		ExternalSessionID: "s1",
//		ClientKey:         "ck1",
//	})
//
// # Failure classification
//
// Failures map onto three sentinel errors:
//
//   - ErrMisconfigured: missing client wiring at construction, no call is
//     ever attempted.
//   - ErrTransportFailure: transport-level I/O failure during send.
//   - ErrMalformedResponse: a 2xx response whose body does not decode.
//
// A non-2xx response is not an error. The client logs the status code
// together with up to the first 512 characters of the response body and
// returns a nil result, leaving the caller free to continue.
package moonwatch
