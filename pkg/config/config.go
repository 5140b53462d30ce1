package config

import "time"

// Config represents the complete configuration for the EquipSight service.
// It provides type-safe access to all configuration values with validation.
type Config struct {
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Database  DatabaseConfig  `koanf:"database"  validate:"required"`
	Auth      AuthConfig      `koanf:"auth"      validate:"required"`
	Mail      MailConfig      `koanf:"mail"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Runtime   RuntimeConfig   `koanf:"runtime"   validate:"required"`
	CLI       CLIConfig       `koanf:"cli"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"              validate:"required"        env:"SERVER_HOST"`
	Port            int           `koanf:"port"              validate:"min=1,max=65535" env:"SERVER_PORT"`
	Timeout         time.Duration `koanf:"timeout"                                      env:"SERVER_TIMEOUT"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"                             env:"SERVER_SHUTDOWN_TIMEOUT"`
	CORSEnabled     bool          `koanf:"cors_enabled"                                 env:"SERVER_CORS_ENABLED"`
	CORS            CORSConfig    `koanf:"cors"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes"  validate:"min=1"           env:"SERVER_MAX_UPLOAD_BYTES"`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"   env:"SERVER_CORS_ALLOWED_ORIGINS"`
	AllowCredentials bool     `koanf:"allow_credentials" env:"SERVER_CORS_ALLOW_CREDENTIALS"`
	MaxAge           int      `koanf:"max_age"           env:"SERVER_CORS_MAX_AGE"`
}

// DatabaseConfig contains database connection configuration.
type DatabaseConfig struct {
	ConnString   string          `koanf:"conn_string"    env:"DB_CONN_STRING"`
	Host         string          `koanf:"host"           env:"DB_HOST"`
	Port         string          `koanf:"port"           env:"DB_PORT"`
	User         string          `koanf:"user"           env:"DB_USER"`
	Password     SensitiveString `koanf:"password"       env:"DB_PASSWORD"       sensitive:"true"`
	DBName       string          `koanf:"name"           env:"DB_NAME"`
	SSLMode      string          `koanf:"ssl_mode"       env:"DB_SSL_MODE"`
	AutoMigrate  bool            `koanf:"auto_migrate"   env:"DB_AUTO_MIGRATE"`
	MaxOpenConns int             `koanf:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns int             `koanf:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
}

// AuthConfig contains authentication and OTP configuration.
type AuthConfig struct {
	JWTSecret       SensitiveString `koanf:"jwt_secret"        validate:"required"     env:"AUTH_JWT_SECRET"       sensitive:"true"`
	AccessTokenTTL  time.Duration   `koanf:"access_token_ttl"  validate:"min=1m"       env:"AUTH_ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration   `koanf:"refresh_token_ttl" validate:"min=1m"       env:"AUTH_REFRESH_TOKEN_TTL"`
	OTPLength       int             `koanf:"otp_length"        validate:"min=4,max=10" env:"AUTH_OTP_LENGTH"`
	OTPTTL          time.Duration   `koanf:"otp_ttl"           validate:"min=1m"       env:"AUTH_OTP_TTL"`
	BcryptCost      int             `koanf:"bcrypt_cost"       validate:"min=4,max=31" env:"AUTH_BCRYPT_COST"`
	MinPasswordLen  int             `koanf:"min_password_len"  validate:"min=1"        env:"AUTH_MIN_PASSWORD_LEN"`
}

// MailConfig contains outbound email configuration. An empty APIKey selects
// the log-only dev mailer.
type MailConfig struct {
	FromAddress string          `koanf:"from_address" env:"MAIL_FROM_ADDRESS"`
	FromName    string          `koanf:"from_name"    env:"MAIL_FROM_NAME"`
	APIKey      SensitiveString `koanf:"api_key"      env:"MAIL_SENDGRID_API_KEY" sensitive:"true"`
	BaseURL     string          `koanf:"base_url"     env:"MAIL_SENDGRID_BASE_URL"`
	MaxRetries  int             `koanf:"max_retries"  env:"MAIL_MAX_RETRIES"`
}

// RateLimitConfig contains the per-IP limit applied to OTP endpoints.
type RateLimitConfig struct {
	OTPRate   int64         `koanf:"otp_rate"   env:"RATELIMIT_OTP_RATE"`
	OTPPeriod time.Duration `koanf:"otp_period" env:"RATELIMIT_OTP_PERIOD"`
}

// RuntimeConfig contains runtime behavior configuration.
type RuntimeConfig struct {
	Environment string `koanf:"environment" validate:"oneof=development staging production" env:"RUNTIME_ENVIRONMENT"`
	LogLevel    string `koanf:"log_level"   validate:"oneof=debug info warn error"          env:"RUNTIME_LOG_LEVEL"`
}

// CLIConfig contains settings for the dashboard client.
type CLIConfig struct {
	BaseURL   string        `koanf:"base_url"   env:"EQUIPSIGHT_BASE_URL"`
	Timeout   time.Duration `koanf:"timeout"    env:"EQUIPSIGHT_CLI_TIMEOUT"`
	TokenFile string        `koanf:"token_file" env:"EQUIPSIGHT_TOKEN_FILE"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSEnabled:     false,
			CORS: CORSConfig{
				AllowedOrigins: []string{"*"},
				MaxAge:         300,
			},
			MaxUploadBytes: 10 << 20,
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			DBName:       "equipsight",
			SSLMode:      "disable",
			AutoMigrate:  true,
			MaxOpenConns: 20,
		},
		Auth: AuthConfig{
			JWTSecret:       "",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			OTPLength:       6,
			OTPTTL:          10 * time.Minute,
			BcryptCost:      10,
			MinPasswordLen:  8,
		},
		Mail: MailConfig{
			FromName:   "EquipSight",
			BaseURL:    "https://api.sendgrid.com",
			MaxRetries: 3,
		},
		RateLimit: RateLimitConfig{
			OTPRate:   5,
			OTPPeriod: time.Minute,
		},
		Runtime: RuntimeConfig{
			Environment: "development",
			LogLevel:    "info",
		},
		CLI: CLIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
	}
}
