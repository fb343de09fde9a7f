// Package config loads tangibled settings from the environment.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/teslashibe/go-tangible/pkg/tangible"
)

// Server holds the settings of the tangibled server.
type Server struct {
	Port     string `env:"PORT, default=8080"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JournalPath enables touch recording when set.
	JournalPath string `env:"JOURNAL_PATH"`

	WhitelistDisabled      bool   `env:"WHITELIST_DISABLED, default=false"`
	AcceptPolicy           string `env:"ACCEPT_POLICY, default=precedent"`
	SimilarPatternsAllowed bool   `env:"SIMILAR_PATTERNS_ALLOWED, default=false"`
}

// Load reads the server settings from the process environment.
func Load(ctx context.Context) (*Server, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads the server settings through l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Server, error) {
	var s Server
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &s, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if _, err := s.Policy(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &s, nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return ":" + s.Port
}

// Policy parses AcceptPolicy.
func (s *Server) Policy() (tangible.AcceptPolicy, error) {
	return tangible.ParseAcceptPolicy(s.AcceptPolicy)
}

// ManagerOptions converts the settings into manager options.
func (s *Server) ManagerOptions() []tangible.Option {
	policy, _ := s.Policy()
	return []tangible.Option{
		tangible.WithWhitelistDisabled(s.WhitelistDisabled),
		tangible.WithAcceptPolicy(policy),
		tangible.WithSimilarPatternsAllowed(s.SimilarPatternsAllowed),
	}
}
