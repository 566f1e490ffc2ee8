package app

import (
	"fmt"
	"os"
	"time"

	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgconfig"
)

var configDefaults = map[string]any{
	"tz":                        "UTC",
	"server.address.http":       ":8080",
	"modules.exemplar.enabled":  true,
	"exemplar.output_dir":       "./output",
	"exemplar.gap_rows":         5,
	"exemplar.unmatched_policy": "keep",
	"exemplar.max_upload_mb":    32,
	"database.driver":           "memory",
	"database.url":              "",
	"database.batch_size":       500,
	"log.dir":                   "",
	"storage.s3.enabled":        false,
	"storage.s3.bucket":         "",
	"storage.s3.prefix":         "exemplar",
	"storage.s3.region":         "",
}

// ConfigPath resolves the config file location. An explicit path wins, then
// ./config/config.yaml when LOCAL=true, else /config/config.yaml.
func ConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

// LoadConfig reads .env, then the YAML file, and applies the configured time
// zone to the process.
func LoadConfig(path string) (pkgconfig.Config, error) {
	if err := pkgconfig.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := pkgconfig.NewViper(ConfigPath(path), configDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if tz := cfg.GetString("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("load tz %q: %w", tz, err)
		}
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
		time.Local = loc
	}

	return cfg, nil
}
