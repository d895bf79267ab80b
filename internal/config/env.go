package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnv overrides cfg with IMAGEFETCH_* environment variables that are set.
func applyEnv(cfg *Config) error {
	envString("IMAGEFETCH_INPUT", &cfg.Input.Path)
	envString("IMAGEFETCH_ID_COLUMN", &cfg.Input.IDColumn)
	envString("IMAGEFETCH_PRIMARY_COLUMN", &cfg.Input.PrimaryColumn)
	envString("IMAGEFETCH_SECONDARY_COLUMN", &cfg.Input.SecondaryColumn)
	envString("IMAGEFETCH_OUTPUT_DIR", &cfg.Output.Dir)
	envString("IMAGEFETCH_USER_AGENT", &cfg.HTTP.UserAgent)
	envString("IMAGEFETCH_LOG_LEVEL", &cfg.Logging.Level)
	envString("IMAGEFETCH_LOG_FORMAT", &cfg.Logging.Format)
	envString("IMAGEFETCH_PUBLISH_OWNER", &cfg.Publish.Owner)
	envString("IMAGEFETCH_PUBLISH_REPO", &cfg.Publish.Repo)
	envString("IMAGEFETCH_PUBLISH_BRANCH", &cfg.Publish.Branch)

	timeout, err := envDuration("IMAGEFETCH_TIMEOUT", cfg.Timeout())
	if err != nil {
		return err
	}
	cfg.HTTP.TimeoutSeconds = int(timeout / time.Second)
	return nil
}

func envString(varName string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(varName)); v != "" {
		*dst = v
	}
}

// envDuration accepts Go durations ("45s", "2m") or a bare number of seconds.
func envDuration(varName string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	out, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}
