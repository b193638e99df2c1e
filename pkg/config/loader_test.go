package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonwatch-io/moonwatch-go/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("MOONWATCH_API_BASE_URL", "https://moonwatch.example.com")
	t.Setenv("AWS_REGION", "us-west-2")
	t.Setenv("MOONWATCH_HTTP_TIMEOUT", "3s")

	var cfg config.Config
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "https://moonwatch.example.com", cfg.APIBaseURL)
	assert.Equal(t, "us-west-2", cfg.AWSRegion)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Defaults(t *testing.T) {
	var cfg config.Config
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_NilPointer(t *testing.T) {
	err := config.Load[config.Config](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestLoad_ParseFailure(t *testing.T) {
	t.Setenv("MOONWATCH_HTTP_TIMEOUT", "not-a-duration")

	var cfg config.Config
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestToggleOverrides(t *testing.T) {
	t.Parallel()

	environ := []string{
		"TOGGLE_PLATFORMIDLETIMESETTINGS=true",
		"TOGGLE_SomeFeature=TRUE",
		"TOGGLE_KILLED=false",
		"TOGGLE_GARBAGE=yes", // anything but "true" reads as false
		"TOGGLE_=true",       // empty name is skipped
		"PATH=/usr/bin",
		"NOT_A_TOGGLE=true",
	}

	overrides := config.ToggleOverrides(environ)

	assert.Equal(t, map[string]bool{
		"platformidletimesettings": true,
		"somefeature":              true,
		"killed":                   false,
		"garbage":                  false,
	}, overrides)
}

func TestToggleOverrides_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, config.ToggleOverrides(nil))
	assert.Empty(t, config.ToggleOverrides([]string{"HOME=/root"}))
}
