// Package config provides configuration management for the Puckcast engine.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var seasonPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions. Registration only fails for an
	// empty tag or nil function, so the errors are ignored.
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("season", validateSeason)
	_ = v.RegisterValidation("variant", validateVariant)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateSeason validates season labels like "2025-26": a four-digit start
// year followed by the two-digit year that succeeds it
func validateSeason(fl validator.FieldLevel) bool {
	m := seasonPattern.FindStringSubmatch(fl.Field().String())
	if m == nil {
		return false
	}

	startYear, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	endYear, err := strconv.Atoi(m[2])
	if err != nil {
		return false
	}

	return (startYear+1)%100 == endYear
}

// validateVariant validates the rating formula variant field
func validateVariant(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "direct", "percentile":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Validate production environment requirements
	if cfg.IsProduction() {
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
		if !cfg.Metrics.Enabled {
			return fmt.Errorf("metrics must be enabled in production")
		}
	}

	// Validate connection pool settings
	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	// Validate feed rate limiting settings
	if cfg.RankFeed.Burst < 1 {
		return fmt.Errorf("rank_feed burst must be at least 1")
	}

	// Validate prediction settings
	if cfg.Predictions.ConfidenceThreshold < 0 || cfg.Predictions.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be between 0 and 1")
	}

	// Feed polling faster than every 5 seconds hammers the upstream
	if cfg.Ingestion.Schedule.FeedPollIntervalSeconds < 5 {
		return fmt.Errorf("feed_poll_interval_seconds must be at least 5")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "season":
			errMsg += fmt.Sprintf("- Field '%s' must look like '2025-26', got '%v'\n", field, value)
		case "variant":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: direct, percentile\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		// Production must have SSL enabled
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}

		// Production should not have test credentials
		if isTestCredential(cfg.RankFeed.APIKey) {
			return fmt.Errorf("production environment should not use test ranking feed credentials")
		}
	}

	if cfg.IsDevelopment() {
		// Development can have permissive settings
		if cfg.Features.AutoPublishEnabled {
			return fmt.Errorf("auto publishing should be disabled in development mode")
		}
	}

	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "your_",
	}

	lowered := strings.ToLower(credential)
	for _, pattern := range testPatterns {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}

	return false
}
