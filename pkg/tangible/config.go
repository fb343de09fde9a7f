package tangible

import "log/slog"

// AcceptPolicy decides which composed patterns become visible tangibles.
type AcceptPolicy int

const (
	// AcceptWithPrecedent accepts a pattern that is allowed by the whitelist and
	// similar to a tangible that is already complete or incomplete.
	AcceptWithPrecedent AcceptPolicy = iota

	// AcceptUnique accepts a pattern that is allowed by the whitelist and, unless
	// SimilarPatternsAllowed is set, not similar to any active tangible.
	AcceptUnique
)

// String returns the policy name used in configuration.
func (p AcceptPolicy) String() string {
	switch p {
	case AcceptWithPrecedent:
		return "precedent"
	case AcceptUnique:
		return "unique"
	default:
		return "unknown"
	}
}

// ParseAcceptPolicy maps a configuration value to a policy.
func ParseAcceptPolicy(s string) (AcceptPolicy, error) {
	switch s {
	case "", "precedent":
		return AcceptWithPrecedent, nil
	case "unique":
		return AcceptUnique, nil
	default:
		return 0, ErrInvalidPolicy
	}
}

// Config holds manager policy.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// Whitelist policy
	PatternWhitelistDisabled bool
	SimilarPatternsAllowed   bool
	AcceptPolicy             AcceptPolicy

	// Events for accepted tangibles and routed markers
	Sink EventSink

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring a Manager.
type Option func(*Config)

// WithWhitelistDisabled accepts every pattern regardless of the whitelist.
func WithWhitelistDisabled(disabled bool) Option {
	return func(c *Config) {
		c.PatternWhitelistDisabled = disabled
	}
}

// WithSimilarPatternsAllowed allows several similar tangibles at once.
// Only AcceptUnique consults it.
func WithSimilarPatternsAllowed(allowed bool) Option {
	return func(c *Config) {
		c.SimilarPatternsAllowed = allowed
	}
}

// WithAcceptPolicy sets the accept policy.
func WithAcceptPolicy(policy AcceptPolicy) Option {
	return func(c *Config) {
		c.AcceptPolicy = policy
	}
}

// WithSink sets the event sink.
func WithSink(sink EventSink) Option {
	return func(c *Config) {
		c.Sink = sink
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// DefaultConfig returns the default manager policy.
func DefaultConfig() *Config {
	return &Config{
		AcceptPolicy: AcceptWithPrecedent,
		Logger:       slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.AcceptPolicy {
	case AcceptWithPrecedent, AcceptUnique:
		return nil
	default:
		return ErrInvalidPolicy
	}
}
