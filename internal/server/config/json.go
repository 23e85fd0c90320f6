package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/chatop/internal/flagx"
)

// Duration reads either a Go duration string ("90s") or an integer number
// of seconds from JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*d = Duration(time.Duration(val * float64(time.Second)))
	case string:
		p, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		*d = Duration(p)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig is the on-disk shape of the config file. Only fields present
// in the file override the current values.
type JsonConfig struct {
	HTTPAddr        string    `json:"http_addr"`
	DatabaseDSN     string    `json:"database_dsn"`
	JWTSecret       string    `json:"jwt_secret"`
	JWTTTL          *Duration `json:"jwt_ttl"`
	BcryptCost      int       `json:"bcrypt_cost"`
	S3RootUser      string    `json:"s3_root_user"`
	S3RootPassword  string    `json:"s3_root_password"`
	S3Bucket        string    `json:"s3_bucket"`
	S3Region        string    `json:"s3_region"`
	S3BaseEndpoint  string    `json:"s3_base_endpoint"`
	PublicFilesURL  string    `json:"public_files_url"`
	MaxUploadBytes  int64     `json:"max_upload_bytes"`
	LogLevel        string    `json:"log_level"`
	LogFormat       string    `json:"log_format"`
	ShutdownTimeout *Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config, if any, into config.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFileFlag(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.JWTSecret, c.JWTSecret)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.PublicFilesURL, c.PublicFilesURL)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	if c.JWTTTL != nil {
		config.JWTTTL = time.Duration(*c.JWTTTL)
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = time.Duration(*c.ShutdownTimeout)
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.MaxUploadBytes != 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
