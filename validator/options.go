package validator

import (
	"github.com/erraggy/oasconform/internal/options"
	"github.com/erraggy/oasconform/parser"
)

// DefaultMaxDepth bounds how deeply schemas may nest during one validation.
const DefaultMaxDepth = 256

// Option is a function that configures a Validator
type Option func(*config) error

type config struct {
	maxDepth         int
	maxRefDepth      int
	formatAssertions bool
	logger           parser.Logger
}

func defaultConfig() *config {
	return &config{
		maxDepth: DefaultMaxDepth,
		logger:   parser.NopLogger{},
	}
}

// WithMaxDepth sets the maximum schema nesting depth followed during one
// validation call. Default: 256 (DefaultMaxDepth)
func WithMaxDepth(depth int) Option {
	return func(c *config) error {
		if err := options.Positive("maxDepth", depth); err != nil {
			return err
		}
		c.maxDepth = depth
		return nil
	}
}

// WithMaxRefDepth sets the maximum reference chain length followed for a
// single $ref. Zero uses the registry's bound.
func WithMaxRefDepth(depth int) Option {
	return func(c *config) error {
		if depth < 0 {
			return options.InvalidOption("maxRefDepth", depth, "cannot be negative")
		}
		c.maxRefDepth = depth
		return nil
	}
}

// WithFormatAssertions makes the format keyword an assertion for the formats
// date, date-time, email, uuid, uri, ipv4 and ipv6. By default format is an
// annotation only. Unknown formats are always ignored.
func WithFormatAssertions(enabled bool) Option {
	return func(c *config) error {
		c.formatAssertions = enabled
		return nil
	}
}

// WithLogger sets a structured logger for debug output.
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
