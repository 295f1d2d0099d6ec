package config

// Config is the root configuration for tasknest.
type Config struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Auth     AuthConfig     `yaml:"auth,omitempty"`
	Database DatabaseConfig `yaml:"database,omitempty"`
	OpenAI   OpenAIConfig   `yaml:"openai,omitempty"`
	Chat     ChatConfig     `yaml:"chat,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port,omitempty"`
	Bind           string   `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string   `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// AuthConfig configures token issuance and password hashing.
type AuthConfig struct {
	JWTSecret  string `yaml:"jwtSecret,omitempty"`
	TokenHours int    `yaml:"tokenHours,omitempty"`
	BcryptCost int    `yaml:"bcryptCost,omitempty"`
}

// DatabaseConfig selects the SQLite database location.
type DatabaseConfig struct {
	Path string `yaml:"path,omitempty"` // file path or ":memory:"
}

// OpenAIConfig configures the model service used by the chat assistant.
type OpenAIConfig struct {
	APIKey  string `yaml:"apiKey,omitempty"`
	Model   string `yaml:"model,omitempty"`
	BaseURL string `yaml:"baseUrl,omitempty"` // optional OpenAI-compatible endpoint
}

// ChatConfig controls conversational turn behavior.
type ChatConfig struct {
	HistoryWindow  int `yaml:"historyWindow,omitempty"`  // messages sent to the model per turn
	MaxMessageLen  int `yaml:"maxMessageLen,omitempty"`  // incoming chat message limit
	TimeoutSeconds int `yaml:"timeoutSeconds,omitempty"` // per-turn model call budget
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug"
}
