package toggle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moonwatch-io/moonwatch-go/pkg/toggle"
)

// fakeFlagClient serves string flags from a map and counts evaluations.
// Boolean-typed flags answer ErrWrongType on StringVariation and their
// value on BoolVariation.
type fakeFlagClient struct {
	stringFlags map[string]string
	boolFlags   map[string]bool
	stringCalls int
	boolCalls   int
	err         error
}

func (f *fakeFlagClient) StringVariation(_ context.Context, flag, _, defaultValue string) (string, error) {
	f.stringCalls++
	if f.err != nil {
		return defaultValue, f.err
	}
	if value, ok := f.stringFlags[flag]; ok {
		return value, nil
	}
	if _, ok := f.boolFlags[flag]; ok {
		return defaultValue, toggle.ErrWrongType
	}
	return defaultValue, toggle.ErrFlagNotFound
}

func (f *fakeFlagClient) BoolVariation(_ context.Context, flag, _ string, defaultValue bool) (bool, error) {
	f.boolCalls++
	if f.err != nil {
		return defaultValue, f.err
	}
	if value, ok := f.boolFlags[flag]; ok {
		return value, nil
	}
	return defaultValue, toggle.ErrFlagNotFound
}

func TestStore_IsEnabled_OverridesWin(t *testing.T) {
	t.Parallel()

	// A remote that always fails must never matter for overridden names.
	remote := &fakeFlagClient{err: errors.New("flag service is down")}
	store := toggle.NewStore(toggle.Overrides{"PlatformIdleTimeSettings": true}, remote)

	assert.True(t, store.IsEnabled(context.Background(), "PlatformIdleTimeSettings", "ck1", false))
	assert.True(t, store.IsEnabled(context.Background(), "platformidletimesettings", "ck1", false))
	assert.True(t, store.IsEnabled(context.Background(), "PLATFORMIDLETIMESETTINGS", "ck1", false))
	assert.Zero(t, remote.stringCalls, "overridden toggles must not reach the remote service")
}

func TestStore_IsEnabled_OverrideOff(t *testing.T) {
	t.Parallel()

	remote := &fakeFlagClient{stringFlags: map[string]string{"feature": "true"}}
	store := toggle.NewStore(toggle.Overrides{"feature": false}, remote)

	assert.False(t, store.IsEnabled(context.Background(), "Feature", "ck1", true))
	assert.Zero(t, remote.stringCalls)
}

func TestStore_IsEnabled_NilRemote(t *testing.T) {
	t.Parallel()

	store := toggle.NewStore(nil, nil)

	assert.True(t, store.IsEnabled(context.Background(), "anything", "ck1", true))
	assert.False(t, store.IsEnabled(context.Background(), "anything", "ck1", false))
}

func TestStore_IsEnabled_TerminalValues(t *testing.T) {
	t.Parallel()

	remote := &fakeFlagClient{stringFlags: map[string]string{
		"on-flag":    "true",
		"off-flag":   "False",
		"mixed-case": "TRUE",
	}}
	store := toggle.NewStore(nil, remote)

	assert.True(t, store.IsEnabled(context.Background(), "on-flag", "ck1", false))
	assert.False(t, store.IsEnabled(context.Background(), "off-flag", "ck1", true))
	assert.True(t, store.IsEnabled(context.Background(), "mixed-case", "ck1", false))
}

func TestStore_IsEnabled_IndirectionChain(t *testing.T) {
	t.Parallel()

	remote := &fakeFlagClient{stringFlags: map[string]string{
		"a": "b",
		"b": "c",
		"c": "true",
	}}
	store := toggle.NewStore(nil, remote)

	assert.True(t, store.IsEnabled(context.Background(), "a", "ck1", false))
	assert.Equal(t, 3, remote.stringCalls, "resolution depth must equal chain length")
}

func TestStore_IsEnabled_CycleDegradesToDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flags     map[string]string
		start     string
		wantCalls int
	}{
		{
			name:      "self reference",
			flags:     map[string]string{"a": "a"},
			start:     "a",
			wantCalls: 1,
		},
		{
			name:      "two flag loop",
			flags:     map[string]string{"a": "b", "b": "a"},
			start:     "a",
			wantCalls: 2,
		},
		{
			name:      "loop behind a prefix",
			flags:     map[string]string{"a": "b", "b": "c", "c": "b"},
			start:     "a",
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			remote := &fakeFlagClient{stringFlags: tt.flags}
			store := toggle.NewStore(nil, remote)

			assert.True(t, store.IsEnabled(context.Background(), tt.start, "ck1", true))
			assert.False(t, store.IsEnabled(context.Background(), tt.start, "ck1", false))
			// Two IsEnabled calls above, each bounded by the chain length.
			assert.Equal(t, 2*tt.wantCalls, remote.stringCalls)
		})
	}
}

func TestStore_IsEnabled_NotFoundDegradesToDefault(t *testing.T) {
	t.Parallel()

	remote := &fakeFlagClient{}
	store := toggle.NewStore(nil, remote)

	assert.True(t, store.IsEnabled(context.Background(), "missing", "ck1", true))
	assert.False(t, store.IsEnabled(context.Background(), "missing", "ck1", false))
}

func TestStore_IsEnabled_IndirectionToUnknownFlag(t *testing.T) {
	t.Parallel()

	remote := &fakeFlagClient{stringFlags: map[string]string{"a": "gone"}}
	store := toggle.NewStore(nil, remote)

	assert.True(t, store.IsEnabled(context.Background(), "a", "ck1", true))
}

func TestStore_IsEnabled_BooleanNativeType(t *testing.T) {
	t.Parallel()

	remote := &fakeFlagClient{boolFlags: map[string]bool{"native-bool": true}}
	store := toggle.NewStore(nil, remote)

	assert.True(t, store.IsEnabled(context.Background(), "native-bool", "ck1", false))
	assert.Equal(t, 1, remote.boolCalls)
}

func TestStore_IsEnabled_IndirectionToBooleanFlag(t *testing.T) {
	t.Parallel()

	remote := &fakeFlagClient{
		stringFlags: map[string]string{"a": "native-bool"},
		boolFlags:   map[string]bool{"native-bool": true},
	}
	store := toggle.NewStore(nil, remote)

	assert.True(t, store.IsEnabled(context.Background(), "a", "ck1", false))
}

func TestStore_IsEnabled_RemoteErrorDegradesToDefault(t *testing.T) {
	t.Parallel()

	remote := &fakeFlagClient{err: errors.New("connection reset")}
	store := toggle.NewStore(nil, remote)

	assert.True(t, store.IsEnabled(context.Background(), "flaky", "ck1", true))
	assert.False(t, store.IsEnabled(context.Background(), "flaky", "ck1", false))
}

func TestStore_Snapshot(t *testing.T) {
	t.Parallel()

	store := toggle.NewStore(toggle.Overrides{"Feature": true}, nil)

	snapshot := store.Snapshot()
	assert.Equal(t, toggle.Overrides{"feature": true}, snapshot)

	// Mutating the snapshot must not affect the store.
	snapshot["feature"] = false
	assert.True(t, store.IsEnabled(context.Background(), "feature", "ck1", false))
}
