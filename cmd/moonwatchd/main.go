// Package main is the entry point for moonwatchd, the Moonwatch session
// notification daemon.
//
// The bootstrap sequence is:
//  1. Load configuration from the environment (plus optional .env file).
//  2. Resolve AWS signing credentials: explicit keys when configured,
//     otherwise the default credential chain.
//  3. Build the signed Moonwatch API client, the toggle store (local
//     TOGGLE_* overrides plus the optional remote flag service) and the
//     session notifier.
//  4. Serve POST /v1/events, GET /healthz and GET /metrics until
//     SIGINT/SIGTERM, then shut down gracefully.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/moonwatch-io/moonwatch-go/pkg/config"
	"github.com/moonwatch-io/moonwatch-go/pkg/moonwatch"
	"github.com/moonwatch-io/moonwatch-go/pkg/notifier"
	"github.com/moonwatch-io/moonwatch-go/pkg/toggle"
)

const httpReadHeaderTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("moonwatchd failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.Config
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := newMoonwatchClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	if client == nil {
		log.Warn("MOONWATCH_API_BASE_URL is not set, events will be logged and dropped")
	}

	overrides := config.ToggleOverrides(os.Environ())
	for name, value := range overrides {
		log.Info("found local toggle override", "toggle", name, "value", value)
	}
	var flagClient toggle.FlagClient
	if cfg.FlagAPIBaseURL != "" {
		flagClient = toggle.NewAPIClient(toggle.APIConfig{
			BaseURL: cfg.FlagAPIBaseURL,
			APIKey:  cfg.FlagAPIKey,
		})
	}
	toggles := toggle.NewStore(overrides, flagClient, toggle.WithLogger(log))

	m := newMetrics()
	n := newNotifier(client, toggles, log, m)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newRouter(n, m, log),
		ReadHeaderTimeout: httpReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("moonwatchd listening", "addr", cfg.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// newNotifier wires the notifier and its metrics hook. A nil
// *moonwatch.Client must stay a nil SessionClient interface: wrapping a
// typed nil would defeat the notifier's missing-endpoint guard.
func newNotifier(client *moonwatch.Client, toggles notifier.Toggles, log *slog.Logger, m *metrics) *notifier.Notifier {
	var sessions notifier.SessionClient
	if client != nil {
		sessions = client
	}
	return notifier.New(sessions, toggles,
		notifier.WithLogger(log),
		notifier.WithOutcomeHook(func(event notifier.AuthEvent, outcome notifier.Outcome) {
			m.EventOutcomes.WithLabelValues(eventTypeLabel(event.Type), string(outcome)).Inc()
		}),
	)
}

// newMoonwatchClient returns nil without error when no API base URL is
// configured; configuration absence is not a fault.
func newMoonwatchClient(ctx context.Context, cfg config.Config, log *slog.Logger) (*moonwatch.Client, error) {
	if cfg.APIBaseURL == "" {
		return nil, nil
	}

	var creds aws.CredentialsProvider
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		creds = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		creds = awsCfg.Credentials
	}

	client, err := moonwatch.New(moonwatch.Config{
		Endpoint:    cfg.APIBaseURL,
		Region:      cfg.AWSRegion,
		Credentials: creds,
		HTTPClient:  &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("build moonwatch client: %w", err)
	}
	return client, nil
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
