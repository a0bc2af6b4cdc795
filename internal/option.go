package internal

import "errors"

var errConfigRequired = errors.New("config is required")

// Option tweaks the server before Run or RunMCP starts it.
type Option func(*settings)

type settings struct {
	config *Config
}

// WithConfig supplies the catalog server configuration. Run and RunMCP
// refuse to start without one.
func WithConfig(cfg *Config) Option {
	return func(s *settings) {
		s.config = cfg
	}
}

// resolveConfig applies the options and returns the configuration both
// entry points require.
func resolveConfig(opts []Option) (*Config, error) {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		return nil, errConfigRequired
	}
	return s.config, nil
}
