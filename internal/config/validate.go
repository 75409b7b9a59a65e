package config

import (
	"fmt"
	"net/url"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:", len(e))
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate checks the configuration for errors.
// Returns nil if valid, or ValidationErrors if invalid.
func Validate(cfg Config) error {
	var errs ValidationErrors

	// CRONICLE_API_KEY is required
	if cfg.APIKey == "" {
		errs = append(errs, ValidationError{
			Field:   "CRONICLE_API_KEY",
			Message: "required",
		})
	}

	// CRONICLE_BASE_URL must be an http(s) URL
	if cfg.BaseURL != "" {
		if err := validateBaseURL(cfg.BaseURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "CRONICLE_BASE_URL",
				Message: err.Error(),
			})
		}
	}

	// CRONICLE_HTTP_TIMEOUT must be a valid positive duration
	if cfg.HTTPTimeoutStr != "" {
		d, err := time.ParseDuration(cfg.HTTPTimeoutStr)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "CRONICLE_HTTP_TIMEOUT",
				Message: fmt.Sprintf("invalid duration: %v", err),
			})
		} else if d <= 0 {
			errs = append(errs, ValidationError{
				Field:   "CRONICLE_HTTP_TIMEOUT",
				Message: "must be positive",
			})
		}
	}

	if cfg.SweepIntervalStr != "" {
		d, err := time.ParseDuration(cfg.SweepIntervalStr)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "SWEEP_INTERVAL",
				Message: fmt.Sprintf("invalid duration: %v", err),
			})
		} else if d <= 0 {
			errs = append(errs, ValidationError{
				Field:   "SWEEP_INTERVAL",
				Message: "must be positive",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateBaseURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
