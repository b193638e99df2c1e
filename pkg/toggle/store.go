package toggle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strconv"
	"strings"
)

// FlagClient evaluates a named flag for an evaluation key against a remote
// flag service. Implementations must be safe for concurrent use and return
// ErrFlagNotFound when the flag is unknown and ErrWrongType when the flag's
// native type does not match the variation asked for.
type FlagClient interface {
	// StringVariation returns the flag's string value, or defaultValue
	// alongside a non-nil error when evaluation fails.
	StringVariation(ctx context.Context, flag, evalKey, defaultValue string) (string, error)

	// BoolVariation returns the flag's boolean value, used when the flag's
	// native type is boolean rather than string.
	BoolVariation(ctx context.Context, flag, evalKey string, defaultValue bool) (bool, error)
}

// Overrides maps canonical (lower-case) toggle names to forced values.
type Overrides map[string]bool

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded-to-default diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store answers toggle queries from a local override table, falling back to
// a remote flag client. The override table is copied at construction and
// immutable afterwards, so a Store is safe for unsynchronized concurrent
// reads. A nil remote client is valid: every non-overridden query then
// resolves to the caller's default.
type Store struct {
	overrides Overrides
	remote    FlagClient
	logger    *slog.Logger
}

// NewStore builds a Store. Override keys are canonicalized to lower case.
func NewStore(overrides Overrides, remote FlagClient, opts ...Option) *Store {
	canonical := make(Overrides, len(overrides))
	for name, value := range overrides {
		canonical[strings.ToLower(name)] = value
	}

	s := &Store{
		overrides: canonical,
		remote:    remote,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsEnabled reports whether the named toggle is on for evalKey. It never
// fails outward: every internal error degrades to defaultValue.
func (s *Store) IsEnabled(ctx context.Context, name, evalKey string, defaultValue bool) bool {
	if value, ok := s.overrides[strings.ToLower(name)]; ok {
		return value
	}
	if s.remote == nil {
		return defaultValue
	}

	value, err := s.resolveRemote(ctx, name, evalKey, defaultValue)
	if err != nil {
		s.logger.Debug("toggle evaluation degraded to default",
			slog.String("toggle", name),
			slog.Bool("default", defaultValue),
			slog.Any("error", err),
		)
		return defaultValue
	}
	return value
}

// Snapshot returns a copy of the local override table.
func (s *Store) Snapshot() Overrides {
	return maps.Clone(s.overrides)
}

// resolveRemote follows a flag's value until it reaches a terminal
// "true"/"false". Any other string names the next flag to evaluate; the
// visited set bounds the walk to the chain length and turns repetition into
// ErrCycleDetected. A flag whose native type is boolean is evaluated
// directly as such.
func (s *Store) resolveRemote(ctx context.Context, name, evalKey string, defaultValue bool) (bool, error) {
	visited := make(map[string]struct{})
	current := name

	for {
		if _, seen := visited[current]; seen {
			return false, fmt.Errorf("%w: %s", ErrCycleDetected, current)
		}
		visited[current] = struct{}{}

		value, err := s.remote.StringVariation(ctx, current, evalKey, strconv.FormatBool(defaultValue))
		if errors.Is(err, ErrWrongType) {
			// The flag is natively boolean; evaluate it as such.
			return s.remote.BoolVariation(ctx, current, evalKey, defaultValue)
		}
		if err != nil {
			return false, fmt.Errorf("evaluate %q: %w", current, err)
		}

		switch {
		case strings.EqualFold(value, "true"):
			return true, nil
		case strings.EqualFold(value, "false"):
			return false, nil
		default:
			// Indirection: the value names the next flag to evaluate.
			current = value
		}
	}
}
