package moonwatch

import "time"

// InitSessionRequest is the payload for POST /v1/session/init.
// Optional fields use omitempty so that unset values are omitted from the
// wire body rather than serialized as JSON null.
type InitSessionRequest struct {
	SessionID         string  `json:"sessionId"`
	ExternalSessionID string  `json:"externalSessionId,omitempty"`
	ClientKey         string  `json:"clientKey,omitempty"`
	LogoutURL         *string `json:"logoutUrl,omitempty"`
}

// EndSessionRequest is the payload for POST /v1/session/end.
type EndSessionRequest struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// ResultStatus is the status discriminator of the API response envelope.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusFail    ResultStatus = "fail"
	StatusError   ResultStatus = "error"
)

// CallResult is the uniform response envelope the Moonwatch API wraps every
// payload in. Data is populated iff Status is StatusSuccess; Errors is
// populated otherwise. Envelopes are decoded from responses, never
// constructed locally outside of tests.
type CallResult[T any] struct {
	Status ResultStatus `json:"status"`
	Data   *T           `json:"data,omitempty"`
	Errors []string     `json:"errors,omitempty"`
}

// InitSessionResult is the envelope returned by session init.
type InitSessionResult = CallResult[Session]

// EndSessionResult is the envelope returned by session end. The service may
// omit the session payload when ending an already-expired session.
type EndSessionResult = CallResult[Session]

// Session is the session record returned by the Moonwatch API. The client
// carries it opaquely; timeout bookkeeping is the service's business.
type Session struct {
	ID                            string     `json:"id,omitempty"`
	SessionStartUTC               *time.Time `json:"sessionStartUtc,omitempty"`
	IdleTimeoutMinutes            *int       `json:"idleTimeoutMinutes,omitempty"`
	MaxTimeoutMinutes             *int       `json:"maxTimeoutMinutes,omitempty"`
	RemainingMaxTimeoutExtensions *int       `json:"remainingMaxTimeoutExtensions,omitempty"`
	IdleTimeout                   *time.Time `json:"idleTimeout,omitempty"`
	MaxTimeout                    *time.Time `json:"maxTimeout,omitempty"`
	LogoutURL                     *string    `json:"logoutUrl,omitempty"`
}
