package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	AI        AIConfig        `mapstructure:"ai"        validate:"required"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret signs both access and refresh tokens. Must be long enough
	// to resist offline brute force against HMAC-SHA256.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// AccessTokenLifetimeMinutes is the lifetime of access tokens in minutes.
	AccessTokenLifetimeMinutes int `mapstructure:"access_token_lifetime_minutes" validate:"required,gt=0"`

	// RefreshTokenLifetimeMinutes is the lifetime of refresh tokens in minutes.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`

	// BcryptCost is the work factor for password hashing.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=10,lte=31"`
}

// AIConfig contains settings for the external AI advisory service.
type AIConfig struct {
	// BaseURL is the root URL of the AI microservice,
	// e.g. http://localhost:8000.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// TimeoutSeconds bounds each request to the AI service.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// SMTPConfig contains settings for the reminder email transport.
// Email sending is optional: missing settings disable it and the mailer
// degrades to a logged no-op.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Enabled reports whether enough SMTP settings are present to send email.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// SchedulerConfig contains settings for the deadline reminder scheduler.
type SchedulerConfig struct {
	// IntervalSeconds is how often the scheduler scans for due tasks.
	IntervalSeconds int `mapstructure:"interval_seconds" validate:"required,gt=0"`

	// LookaheadMinutes is the size of the reminder window: tasks whose
	// deadline falls within [now, now+lookahead] are notified.
	LookaheadMinutes int `mapstructure:"lookahead_minutes" validate:"required,gt=0"`
}
