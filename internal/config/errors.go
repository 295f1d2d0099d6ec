package config

// ConfigError reports a problem loading or parsing configuration.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
