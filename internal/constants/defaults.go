// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the
// application. These constants provide sensible defaults for configuration
// settings, establish boundaries for resource usage, and define security
// parameters. Changes to these values may significantly impact application
// behavior and security.
package constants

import "time"

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultDataDir is the default directory for file-backed storage.
	DefaultDataDir = "./data"

	// DefaultJWTIssuer is the default issuer claim for signed tokens.
	DefaultJWTIssuer = "todoapp-api"

	// DefaultResetBaseURL is the default frontend URL that reset links point at.
	DefaultResetBaseURL = "http://localhost:5173/reset-password"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with hardened settings.
	EnvProduction = "production"
)

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

// Authentication and Reset Token Durations
const (
	// DefaultJWTExpiry is how long a login access token remains valid.
	DefaultJWTExpiry = 15 * time.Minute

	// PasswordResetTokenTTL is how long a reset secret and its signed
	// envelope remain valid. Both expiries are enforced independently.
	PasswordResetTokenTTL = 1 * time.Hour

	// ResetCleanupInterval is how often expired ledger entries are purged
	// in production.
	ResetCleanupInterval = 1 * time.Hour

	// ResetCleanupIntervalDev is the purge interval used outside production.
	ResetCleanupIntervalDev = 5 * time.Minute
)

// Input Limits define boundaries for user-supplied values.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1 << 20 // 1 MB

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6

	// MinUsernameLength is the minimum accepted username length.
	MinUsernameLength = 3

	// MaxUsernameLength is the maximum accepted username length.
	MaxUsernameLength = 50

	// MaxTodoTitleLength is the maximum accepted length of a todo title.
	MaxTodoTitleLength = 500

	// ResetTokenBytes is the entropy, in bytes, of a generated reset secret.
	ResetTokenBytes = 32
)
