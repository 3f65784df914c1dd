package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that all required fields are populated for the
// current environment. The AI key is only mandatory in production; in
// development the AI endpoints respond with a configuration error instead.
func ValidateConfig(cfg *Config) error {
	required := map[string]string{
		"ServerPort": cfg.ServerPort,
		"DBHost":     cfg.DBHost,
		"DBPort":     cfg.DBPort,
		"DBUser":     cfg.DBUser,
		"DBName":     cfg.DBName,
		"JWTSecret":  cfg.JWTSecret,
	}

	for field, value := range required {
		if value == "" {
			return ValidationError{Field: field, Message: "is required"}
		}
	}

	if IsProduction() {
		if cfg.DBPassword == "" {
			return ValidationError{Field: "DBPassword", Message: "is required in production"}
		}
		if cfg.GeminiAPIKey == "" {
			return ValidationError{Field: "GeminiAPIKey", Message: "is required in production"}
		}
	}

	return nil
}
