package commands

import (
	"errors"
	"time"

	"github.com/joeshaw/envdecode"

	"github.com/erraggy/oasconform/conformance"
)

// Env holds the OASCONFORM_* environment defaults of the CLI. Flags given on
// the command line take precedence.
type Env struct {
	BaseURL          string        `env:"OASCONFORM_BASE_URL"`
	Timeout          time.Duration `env:"OASCONFORM_TIMEOUT,default=30s"`
	Concurrency      int           `env:"OASCONFORM_CONCURRENCY,default=8"`
	RateLimit        float64       `env:"OASCONFORM_RATE_LIMIT"`
	BearerToken      string        `env:"OASCONFORM_BEARER_TOKEN"`
	LogLevel         string        `env:"OASCONFORM_LOG_LEVEL,default=warn"`
	FormatAssertions bool          `env:"OASCONFORM_FORMAT_ASSERTIONS"`
}

// LoadEnv reads the CLI environment. Values that do not parse keep their
// defaults; the conformance options reject the rest when a check starts.
func LoadEnv() Env {
	env := Env{
		Timeout:     conformance.DefaultTimeout,
		Concurrency: conformance.DefaultConcurrency,
		LogLevel:    "warn",
	}
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Env{Timeout: conformance.DefaultTimeout, Concurrency: conformance.DefaultConcurrency, LogLevel: "warn"}
	}
	return env
}
