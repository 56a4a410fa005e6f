package conformance

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/erraggy/oasconform/internal/options"
	"github.com/erraggy/oasconform/parser"
	"github.com/erraggy/oasconform/validator"
)

const (
	// DefaultTimeout bounds one case, from rate limiting to the last body byte.
	DefaultTimeout = 30 * time.Second
	// DefaultConcurrency is the number of cases in flight at once.
	DefaultConcurrency = 8
	// RunHeader carries the report RunID on every request.
	RunHeader = "X-Conformance-Run"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option is a function that configures a Checker
type Option func(*config) error

type config struct {
	baseURL     string
	client      Doer
	timeout     time.Duration
	concurrency int
	limiter     *rate.Limiter
	bearer      string
	credentials map[string]string
	headers     http.Header
	operations  map[string]bool
	logger      parser.Logger
	metrics     *Metrics
	validator   []validator.Option
}

func defaultConfig() *config {
	return &config{
		client:      http.DefaultClient,
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
		headers:     make(http.Header),
		logger:      parser.NopLogger{},
	}
}

// WithBaseURL sets the URL that operation paths are appended to.
// Default: the first server URL of the document, with variables expanded.
func WithBaseURL(u string) Option {
	return func(c *config) error {
		if u == "" {
			return options.InvalidOption("baseURL", u, "cannot be empty")
		}
		c.baseURL = strings.TrimRight(u, "/")
		return nil
	}
}

// WithHTTPClient sets the client used to send requests.
// Default: http.DefaultClient
func WithHTTPClient(d Doer) Option {
	return func(c *config) error {
		if d == nil {
			return options.InvalidOption("httpClient", d, "cannot be nil")
		}
		c.client = d
		return nil
	}
}

// WithTimeout bounds each case independently. Default: 30s (DefaultTimeout)
func WithTimeout(d time.Duration) Option {
	return func(c *config) error {
		if err := options.Positive("timeout", d); err != nil {
			return err
		}
		c.timeout = d
		return nil
	}
}

// WithConcurrency sets how many cases run at once. Default: 8
func WithConcurrency(n int) Option {
	return func(c *config) error {
		if err := options.Positive("concurrency", n); err != nil {
			return err
		}
		c.concurrency = n
		return nil
	}
}

// WithRateLimit caps request starts at rps per second with the given burst.
// By default requests are not rate limited.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *config) error {
		if err := options.Positive("rateLimit", rps); err != nil {
			return err
		}
		if err := options.Positive("burst", burst); err != nil {
			return err
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// WithBearerToken sets the credential used for every http bearer security
// scheme that has no entry in WithCredentials.
func WithBearerToken(token string) Option {
	return func(c *config) error {
		c.bearer = token
		return nil
	}
}

// WithCredentials sets credentials per security scheme name. Values are sent
// as-is: a bearer token, "user:password" for http basic, or the API key.
func WithCredentials(creds map[string]string) Option {
	return func(c *config) error {
		c.credentials = make(map[string]string, len(creds))
		for k, v := range creds {
			c.credentials[k] = v
		}
		return nil
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(h http.Header) Option {
	return func(c *config) error {
		for k, vs := range h {
			for _, v := range vs {
				c.headers.Add(k, v)
			}
		}
		return nil
	}
}

// WithOperations restricts Run to the operations with the given IDs
// (operationId, or "METHOD /path" when none is declared).
func WithOperations(ids ...string) Option {
	return func(c *config) error {
		if len(ids) == 0 {
			return nil
		}
		c.operations = make(map[string]bool, len(ids))
		for _, id := range ids {
			c.operations[id] = true
		}
		return nil
	}
}

// WithLogger sets a structured logger for progress output.
// By default, logging is disabled (NopLogger).
func WithLogger(l parser.Logger) Option {
	return func(c *config) error {
		if l == nil {
			l = parser.NopLogger{}
		}
		c.logger = l
		return nil
	}
}

// WithMetrics records case outcomes and durations into m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) error {
		c.metrics = m
		return nil
	}
}

// WithValidatorOptions configures the validator used for response bodies.
func WithValidatorOptions(opts ...validator.Option) Option {
	return func(c *config) error {
		c.validator = append(c.validator, opts...)
		return nil
	}
}
