package config

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full moonwatchd configuration.
type Config struct {
	// APIBaseURL is the Moonwatch API base. An empty value is not an error:
	// the notifier then logs and drops every event.
	APIBaseURL string `env:"MOONWATCH_API_BASE_URL"`
	AWSRegion  string `env:"AWS_REGION"`

	// Explicit signing keys. When unset, the default AWS credential chain
	// is used instead.
	AccessKeyID     string `env:"MOONWATCH_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"MOONWATCH_SECRET_ACCESS_KEY"`

	// Remote flag service. Both empty means local overrides only.
	FlagAPIBaseURL string `env:"FLAG_API_BASE_URL"`
	FlagAPIKey     string `env:"FLAG_API_KEY"`

	HTTPTimeout     time.Duration `env:"MOONWATCH_HTTP_TIMEOUT" envDefault:"10s"`
	ListenAddr      string        `env:"LISTEN_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

var defaultEnvLoaded sync.Once

// Load loads environment variables into the provided configuration struct.
// The default .env file is loaded first if present; missing files are fine.
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file might not exist and that's ok.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// togglePrefix marks environment variables carrying local toggle overrides.
const togglePrefix = "TOGGLE_"

// ToggleOverrides parses TOGGLE_<NAME>=true|false pairs out of an environ
// slice as returned by os.Environ. Names are lower-cased; values other
// than "true" read as false.
func ToggleOverrides(environ []string) map[string]bool {
	overrides := make(map[string]bool)
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, togglePrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, togglePrefix))
		if name == "" {
			continue
		}
		overrides[name] = strings.EqualFold(value, "true")
	}
	return overrides
}
