package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "server.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Server.Port),
		})
	}

	validBinds := []string{"loopback", "lan", "custom"}
	if cfg.Server.Bind != "" && !slices.Contains(validBinds, cfg.Server.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "server.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Server.Bind),
		})
	}

	if cfg.Server.Bind == "custom" && cfg.Server.CustomBindHost == "" {
		issues = append(issues, ValidationIssue{
			Path:    "server.customBindHost",
			Message: "required when bind is custom",
		})
	}

	if cfg.Auth.JWTSecret == "" {
		issues = append(issues, ValidationIssue{
			Path:    "auth.jwtSecret",
			Message: "required (set in config or TASKNEST_JWT_SECRET)",
		})
	}

	if cfg.Auth.TokenHours < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "auth.tokenHours",
			Message: fmt.Sprintf("must be positive, got %d", cfg.Auth.TokenHours),
		})
	}

	if cfg.Auth.BcryptCost != 0 && (cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31) {
		issues = append(issues, ValidationIssue{
			Path:    "auth.bcryptCost",
			Message: fmt.Sprintf("must be 4-31, got %d", cfg.Auth.BcryptCost),
		})
	}

	if cfg.Chat.HistoryWindow < 1 {
		issues = append(issues, ValidationIssue{
			Path:    "chat.historyWindow",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.Chat.HistoryWindow),
		})
	}

	if cfg.Chat.MaxMessageLen < 1 {
		issues = append(issues, ValidationIssue{
			Path:    "chat.maxMessageLen",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.Chat.MaxMessageLen),
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	return issues
}
