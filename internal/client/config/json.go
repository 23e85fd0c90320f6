package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JsonConfig is the on-disk shape of the config file.
type JsonConfig struct {
	ServerURL      string `json:"server_url"`
	RequestTimeout string `json:"request_timeout"`
	PageSize       int    `json:"page_size"`
}

func parseJson(cfg *Config, path string) error {
	// nothing to load
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout != "" {
		d, err := time.ParseDuration(jc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("parsing config file: request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if jc.PageSize != 0 {
		cfg.PageSize = jc.PageSize
	}
	return nil
}
