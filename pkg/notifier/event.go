package notifier

// EventType identifies the kind of identity event.
type EventType string

const (
	EventLogin  EventType = "LOGIN"
	EventLogout EventType = "LOGOUT"
)

// AuthEvent is one login or logout occurrence supplied by the hosting
// identity provider. Events are immutable and never persisted; everything
// derived from one is created, used and discarded within a single
// HandleEvent invocation.
type AuthEvent struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId,omitempty"`
	ClientKey string    `json:"clientKey,omitempty"`
}

// Outcome classifies how an event was handled, for observability hooks.
type Outcome string

const (
	// OutcomeIgnored: the event type is neither LOGIN nor LOGOUT.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeNotConfigured: no API endpoint is configured, nothing was sent.
	OutcomeNotConfigured Outcome = "not_configured"
	// OutcomeToggleOff: the release toggle evaluated to off, nothing was sent.
	OutcomeToggleOff Outcome = "toggle_off"
	// OutcomeNotified: the API call succeeded with a decoded result.
	OutcomeNotified Outcome = "notified"
	// OutcomeNoResult: the API answered non-2xx; already logged, no-op.
	OutcomeNoResult Outcome = "no_result"
	// OutcomeFailed: the API call failed; logged and swallowed.
	OutcomeFailed Outcome = "failed"
)
