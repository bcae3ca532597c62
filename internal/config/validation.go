package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/yourusername/oddsboard/internal/models"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("leagues", validateLeagues)

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

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateLeagues(fl validator.FieldLevel) bool {
	leagues, ok := fl.Field().Interface().([]string)
	if !ok || len(leagues) == 0 {
		return false
	}
	for _, l := range leagues {
		if _, ok := models.ParseLeague(l); !ok {
			return false
		}
	}
	return true
}

// validateCrossField runs validations that span multiple fields
func validateCrossField(cfg *Config) error {
	if cfg.Ratings.Enabled && cfg.Ratings.Backend == "postgres" {
		if cfg.Ratings.Host == "" || cfg.Ratings.Name == "" || cfg.Ratings.User == "" {
			return fmt.Errorf("ratings backend postgres requires host, name and user")
		}
	}
	if cfg.Providers.PerFetchBudgetSec > cfg.Providers.TimeoutSec {
		return fmt.Errorf("per_fetch_budget_seconds must not exceed timeout_seconds")
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	msg := "configuration validation failed:"
	for _, e := range errs {
		msg += fmt.Sprintf("\n  - field %q failed on the %q rule", e.Namespace(), e.Tag())
	}
	return fmt.Errorf("%s", msg)
}
