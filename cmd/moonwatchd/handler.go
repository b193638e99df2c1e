package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moonwatch-io/moonwatch-go/pkg/notifier"
)

// eventHandler is the slice of the notifier the HTTP layer needs.
type eventHandler interface {
	HandleEvent(ctx context.Context, event notifier.AuthEvent)
}

func newRouter(events eventHandler, m *metrics, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(correlationID)
	r.Use(middleware.Recoverer)

	r.Post("/v1/events", handleEvent(events, m, log))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	return r
}

// handleEvent ingests one identity event. The notification itself is
// fire-and-forget, so the response is 202 regardless of whether Moonwatch
// was reached; only an unreadable payload is a client error.
func handleEvent(events eventHandler, m *metrics, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event notifier.AuthEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			m.EventsRejected.Inc()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event payload"})
			return
		}
		if event.SessionID == "" {
			m.EventsRejected.Inc()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sessionId is required"})
			return
		}

		m.EventsReceived.WithLabelValues(eventTypeLabel(event.Type)).Inc()
		log.Debug("event accepted",
			slog.String("type", string(event.Type)),
			slog.String("session_id", event.SessionID),
			slog.String("correlation_id", correlationIDFrom(r.Context())),
		)

		events.HandleEvent(r.Context(), event)
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type correlationIDKey struct{}

// correlationID tags each request with a correlation id, reusing the
// caller's X-Request-ID when present.
func correlationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), correlationIDKey{}, id)))
	})
}

func correlationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}
