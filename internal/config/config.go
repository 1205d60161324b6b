package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/todoapp/gobackend/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App     AppSettings     `yaml:"app"`
	Server  ServerSettings  `yaml:"server"`
	Storage StorageSettings `yaml:"storage"`
	JWT     JWTSettings     `yaml:"jwt"`
	Reset   ResetSettings   `yaml:"reset"`
	Email   EmailSettings   `yaml:"email"`
	Logging LoggingSettings `yaml:"logging"`
	CORS    CORSSettings    `yaml:"cors"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageSettings selects and configures the persistence backend.
// Supported storage backends.
const (
	StorageModeFile   = "file"
	StorageModeMemory = "memory"
)

// Mode is an explicit choice made at startup; call sites never sniff the
// environment to decide where data lives.
type StorageSettings struct {
	// Mode is either "file" or "memory".
	Mode string `yaml:"mode" env:"STORAGE_MODE"`

	// DataDir is the directory holding the JSON collections in file mode.
	DataDir string `yaml:"data_dir" env:"STORAGE_DATA_DIR"`
}

// JWTSettings contains token signing settings
type JWTSettings struct {
	Secret string        `yaml:"secret" env:"JWT_SECRET"`
	Expiry time.Duration `yaml:"expiry" env:"JWT_EXPIRY"`
	Issuer string        `yaml:"issuer" env:"JWT_ISSUER"`
}

// ResetSettings contains password-reset flow settings
type ResetSettings struct {
	// TokenTTL bounds both the ledger record and the signed envelope.
	TokenTTL time.Duration `yaml:"token_ttl" env:"RESET_TOKEN_TTL"`

	// CleanupInterval is how often expired ledger entries are purged.
	// When zero, an environment-appropriate default is applied.
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RESET_CLEANUP_INTERVAL"`

	// BaseURL is the frontend page the emailed reset link points at.
	BaseURL string `yaml:"base_url" env:"RESET_BASE_URL"`
}

// EmailSettings contains outbound email settings
type EmailSettings struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	FromAddress    string `yaml:"from_address" env:"EMAIL_FROM_ADDRESS"`
	FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

// UseFileStorage reports whether the file backend is selected.
func (ss *StorageSettings) UseFileStorage() bool {
	return strings.ToLower(ss.Mode) == StorageModeFile
}

var (
	// cfg holds the current application configuration
	cfg *AppConfig
)

// Load loads the configuration from a config file and environment variables
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	// Load configuration from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		err = yaml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	// Set defaults for missing values
	setDefaults(config)

	// Validate the configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Save the configuration globally
	cfg = config

	// Log the configuration (but hide sensitive values)
	logConfig(config)

	return config, nil
}

// Get returns the current application configuration
func Get() *AppConfig {
	if cfg == nil {
		log.Fatal().Msg("configuration not loaded")
	}
	return cfg
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	// App defaults
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = "todoapp-api"
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	// Storage defaults
	if config.Storage.Mode == "" {
		config.Storage.Mode = StorageModeFile
	}
	if config.Storage.DataDir == "" {
		config.Storage.DataDir = constants.DefaultDataDir
	}

	// JWT defaults
	if config.JWT.Expiry == 0 {
		config.JWT.Expiry = constants.DefaultJWTExpiry
	}
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = constants.DefaultJWTIssuer
	}

	// Reset defaults. The cleanup interval is the only environment-conditioned
	// value: hourly in production, every five minutes elsewhere.
	if config.Reset.TokenTTL == 0 {
		config.Reset.TokenTTL = constants.PasswordResetTokenTTL
	}
	if config.Reset.CleanupInterval == 0 {
		if config.App.IsProduction() {
			config.Reset.CleanupInterval = constants.ResetCleanupInterval
		} else {
			config.Reset.CleanupInterval = constants.ResetCleanupIntervalDev
		}
	}
	if config.Reset.BaseURL == "" {
		config.Reset.BaseURL = constants.DefaultResetBaseURL
	}

	// Email defaults
	if config.Email.FromAddress == "" {
		config.Email.FromAddress = "support@todoapp.example"
	}
	if config.Email.FromName == "" {
		config.Email.FromName = "TodoApp Support"
	}

	// Logging defaults
	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	// CORS defaults
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	// Validate environment
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		// Instead of failing, use a default and warn
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	// In production, ensure we have a proper JWT secret
	if config.App.IsProduction() && (config.JWT.Secret == "" || config.JWT.Secret == "changeme") {
		return fmt.Errorf("JWT secret must be set in production")
	}

	// Storage mode must be one of the two supported backends
	mode := strings.ToLower(config.Storage.Mode)
	if mode != StorageModeFile && mode != StorageModeMemory {
		return fmt.Errorf("invalid storage mode: %s (must be 'file' or 'memory')", config.Storage.Mode)
	}

	// Validate log level
	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("storage_mode", config.Storage.Mode).
		Str("data_dir", config.Storage.DataDir).
		Dur("reset_token_ttl", config.Reset.TokenTTL).
		Dur("reset_cleanup_interval", config.Reset.CleanupInterval).
		Str("log_level", config.Logging.Level).
		Msg("Configuration loaded")
}
