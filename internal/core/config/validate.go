package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/hay-kot/criterio"
)

// minJWTSecretLen is the shortest secret accepted for HS256 signing.
const minJWTSecretLen = 16

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep runs Validate and then field-level checks that touch the
// filesystem or parse nested values. Errors are aggregated as
// criterio.FieldErrors. An empty configPath skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateRemote(),
		c.validateServer(),
		c.validateDurations(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Server.JWTSecret == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Server",
			Item:     "jwt_secret",
			Message:  "serve exposes the task API without authentication",
		})
	}

	if c.Backend == BackendMemory {
		warnings = append(warnings, ValidationWarning{
			Category: "Backend",
			Message:  "memory backend discards tasks on exit",
		})
	}

	if c.Remote.Token != "" && c.Backend != BackendRemote {
		warnings = append(warnings, ValidationWarning{
			Category: "Remote",
			Item:     "token",
			Message:  "remote.token is set but the backend is " + string(c.Backend),
		})
	}

	return warnings
}

func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return errors.New("exists but is not a directory")
	}
	return nil
}

func (c *Config) validateRemote() error {
	if c.Remote.URL == "" {
		return nil
	}
	return criterio.Run("remote.url", c.Remote.URL, httpURL)
}

func httpURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func (c *Config) validateServer() error {
	var errs criterio.FieldErrorsBuilder

	if c.Server.JWTSecret != "" && len(c.Server.JWTSecret) < minJWTSecretLen {
		errs = errs.Append("server.jwt_secret", fmt.Errorf("must be at least %d characters", minJWTSecretLen))
	}
	if c.Server.TokenTTL < 0 {
		errs = errs.Append("server.token_ttl", errors.New("cannot be negative"))
	}

	return errs.ToError()
}

func (c *Config) validateDurations() error {
	var errs criterio.FieldErrorsBuilder

	for field, d := range map[string]time.Duration{
		"database.busy_timeout": c.Database.BusyTimeout,
		"remote.timeout":        c.Remote.Timeout,
		"tui.toast_ttl":         c.TUI.ToastTTL,
		"tui.refresh_interval":  c.TUI.RefreshInterval,
	} {
		if d < 0 {
			errs = errs.Append(field, errors.New("cannot be negative"))
		}
	}

	return errs.ToError()
}
