package notifier

import (
	"context"
	"io"
	"log/slog"

	"github.com/moonwatch-io/moonwatch-go/pkg/moonwatch"
)

// releaseToggle gates all Moonwatch notifications. It is evaluated per
// event, keyed by the event's client key, and defaults to off.
const releaseToggle = "PlatformIdleTimeSettings"

// logoutReason is reported to Moonwatch on session end.
const logoutReason = "UserInitiated"

// SessionClient is the slice of the Moonwatch client the notifier needs.
type SessionClient interface {
	InitSession(ctx context.Context, req moonwatch.InitSessionRequest) (*moonwatch.InitSessionResult, error)
	EndSession(ctx context.Context, req moonwatch.EndSessionRequest) (*moonwatch.EndSessionResult, error)
}

// Toggles answers whether a named capability is enabled for an evaluation
// key. It must never fail outward.
type Toggles interface {
	IsEnabled(ctx context.Context, name, evalKey string, defaultValue bool) bool
}

// OutcomeHook is invoked after each handled event, for metrics or logging.
type OutcomeHook func(event AuthEvent, outcome Outcome)

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the notifier's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithOutcomeHook registers a callback invoked with the outcome of every
// handled event.
func WithOutcomeHook(hook OutcomeHook) Option {
	return func(n *Notifier) {
		n.onOutcome = hook
	}
}

// Notifier is the composition root of the core: toggle check first, then
// the matching Moonwatch call. Safe for concurrent use; per-event state is
// never shared across invocations.
type Notifier struct {
	client    SessionClient
	toggles   Toggles
	logger    *slog.Logger
	onOutcome OutcomeHook
}

// New builds a Notifier. A nil client means the API endpoint is not
// configured; events are then logged and dropped rather than treated as a
// fault. Toggles must be non-nil.
func New(client SessionClient, toggles Toggles, opts ...Option) *Notifier {
	n := &Notifier{
		client:  client,
		toggles: toggles,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// HandleEvent processes one identity event synchronously on the calling
// goroutine. It never returns anything: notification is fire-and-forget and
// every outcome, including failure, is visible only in logs and the
// optional outcome hook.
func (n *Notifier) HandleEvent(ctx context.Context, event AuthEvent) {
	if event.Type != EventLogin && event.Type != EventLogout {
		n.finish(event, OutcomeIgnored)
		return
	}

	logger := n.logger.With(slog.String("session_id", event.SessionID))

	if n.client == nil {
		logger.Error("unable to notify moonwatch: missing API base url")
		n.finish(event, OutcomeNotConfigured)
		return
	}

	// Empty client keys evaluate as the literal "null" bucket, matching
	// how absent user attributes have always been keyed.
	clientKey := event.ClientKey
	if clientKey == "" {
		clientKey = "null"
	}
	logger.Info("handling identity event",
		slog.String("type", string(event.Type)),
		slog.String("client_key", clientKey),
	)

	if !n.toggles.IsEnabled(ctx, releaseToggle, clientKey, false) {
		logger.Info("moonwatch was not notified: release toggle evaluated to off",
			slog.String("toggle", releaseToggle),
		)
		n.finish(event, OutcomeToggleOff)
		return
	}

	switch event.Type {
	case EventLogin:
		n.initSession(ctx, logger, event, clientKey)
	case EventLogout:
		n.endSession(ctx, logger, event)
	}
}

func (n *Notifier) initSession(ctx context.Context, logger *slog.Logger, event AuthEvent, clientKey string) {
	result, err := n.client.InitSession(ctx, moonwatch.InitSessionRequest{
		SessionID:         event.SessionID,
		ExternalSessionID: event.SessionID,
		ClientKey:         clientKey,
	})
	if err != nil {
		logger.Error("moonwatch session init failed", slog.Any("error", err))
		n.finish(event, OutcomeFailed)
		return
	}
	if result == nil {
		// The client already logged the non-2xx response.
		n.finish(event, OutcomeNoResult)
		return
	}

	logger.Info("moonwatch session initialized", slog.String("status", string(result.Status)))
	n.finish(event, OutcomeNotified)
}

func (n *Notifier) endSession(ctx context.Context, logger *slog.Logger, event AuthEvent) {
	result, err := n.client.EndSession(ctx, moonwatch.EndSessionRequest{
		ID:     event.SessionID,
		Reason: logoutReason,
	})
	if err != nil {
		logger.Error("moonwatch session end failed", slog.Any("error", err))
		n.finish(event, OutcomeFailed)
		return
	}
	if result == nil {
		n.finish(event, OutcomeNoResult)
		return
	}

	logger.Info("moonwatch session ended", slog.String("status", string(result.Status)))
	n.finish(event, OutcomeNotified)
}

func (n *Notifier) finish(event AuthEvent, outcome Outcome) {
	if n.onOutcome != nil {
		n.onOutcome(event, outcome)
	}
}
