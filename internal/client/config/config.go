package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the Chatop CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API.
//   - RequestTimeout: per-request HTTP timeout.
//   - PageSize: rentals shown per page.
type Config struct {
	ServerURL      string        `validate:"required,url"`
	RequestTimeout time.Duration `validate:"min=100ms"`
	PageSize       int           `validate:"min=1,max=100"`
}

// Overrides are values given on the command line. Zero values are ignored.
type Overrides struct {
	ConfigFile     string
	ServerURL      string
	RequestTimeout time.Duration
	PageSize       int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3001"
	c.RequestTimeout = 10 * time.Second
	c.PageSize = 20
}

// Load applies defaults, the JSON file named in o, then the remaining
// overrides, and validates the result.
func Load(o Overrides) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, o.ConfigFile); err != nil {
		return nil, err
	}

	if o.ServerURL != "" {
		cfg.ServerURL = o.ServerURL
	}
	if o.RequestTimeout != 0 {
		cfg.RequestTimeout = o.RequestTimeout
	}
	if o.PageSize != 0 {
		cfg.PageSize = o.PageSize
	}

	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
			}
			return nil, fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
		}
		return nil, err
	}
	return cfg, nil
}
